// Package service ties classification, parsing and normalization into
// the scan pipeline.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/audit"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/events"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/classifier"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/parser"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
)

const msgEmptyPayload = "QR code text is empty"

// Service classifies QR payloads and extracts contact details from them
type Service struct {
	registry  *parser.Registry
	audit     *audit.Repository
	publisher *events.ScanEventPublisher
	log       *logger.Logger
}

// New creates the extraction service. Audit repository and event
// publisher may be nil when those sinks are not wired.
func New(registry *parser.Registry, auditRepo *audit.Repository, publisher *events.ScanEventPublisher, log *logger.Logger) *Service {
	return &Service{
		registry:  registry,
		audit:     auditRepo,
		publisher: publisher,
		log:       log,
	}
}

// ClassifyAndExtract runs one payload through the full pipeline:
// classify, parse, normalize, score. Parser failures degrade to a
// partial record; only an empty payload produces a failed result.
func (s *Service) ClassifyAndExtract(ctx context.Context, rawText string) *domain.ExtractionResult {
	start := time.Now()
	result := s.extract(ctx, rawText)
	s.recordAsync(result, time.Since(start).Milliseconds())
	return result
}

// ClassifyAndExtractBatch processes payloads strictly one after
// another. Items fail independently; a bad payload never aborts the
// batch.
func (s *Service) ClassifyAndExtractBatch(ctx context.Context, rawTexts []string) []*domain.ExtractionResult {
	results := make([]*domain.ExtractionResult, 0, len(rawTexts))
	for _, rawText := range rawTexts {
		results = append(results, s.ClassifyAndExtract(ctx, rawText))
	}
	return results
}

func (s *Service) extract(ctx context.Context, rawText string) *domain.ExtractionResult {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return domain.Failed(domain.PayloadTypePlainText, msgEmptyPayload)
	}

	payloadType := classifier.Classify(trimmed)
	s.log.Debug().Str("payload_type", string(payloadType)).Msg("classified QR payload")

	// Entry codes are opaque identifiers, there is nothing to parse
	if payloadType == domain.PayloadTypeEntryCode {
		return domain.Succeeded(payloadType, &domain.ScanData{
			EntryCode:  trimmed,
			RawData:    rawText,
			Confidence: 1.0,
		})
	}

	p := s.registry.FindParser(payloadType)
	if p == nil {
		// The plain-text parser accepts everything, so this is a wiring bug
		s.log.Error().Str("payload_type", string(payloadType)).Msg("no parser registered for payload type")
		return domain.Failed(payloadType, "no parser available for this payload type")
	}

	res, err := p.Parse(ctx, trimmed)
	if err != nil {
		// Parsers degrade rather than fail, an error here means even the
		// degraded path broke. Fall back to a raw-only record.
		s.log.Warn().Err(err).Str("parser", p.Name()).Msg("parser failed, returning raw-only record")
		res = &parser.Result{
			Details:    &domain.ContactDetails{},
			Confidence: 0,
		}
	}

	return domain.Succeeded(payloadType, &domain.ScanData{
		Details:    domain.Normalize(res.Details),
		EntryCode:  res.UniqueCode,
		RawData:    rawText,
		Confidence: res.Confidence,
	})
}

// recordAsync writes the audit entry and publishes the scan event off
// the request path, against a fresh background context.
func (s *Service) recordAsync(result *domain.ExtractionResult, durationMs int64) {
	if s.audit == nil && s.publisher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.audit != nil {
			entry := &audit.Entry{
				ScanType:    audit.ScanTypeQRCode,
				PayloadType: string(result.Type),
				Success:     result.Success,
				DurationMs:  durationMs,
			}
			if result.Data != nil {
				entry.FieldsExtracted = audit.JoinFields(result.Data.Details.FieldKeys())
				entry.Confidence = result.Data.Confidence
			}
			if err := s.audit.Record(ctx, entry); err != nil {
				s.log.Error().Err(err).Msg("failed to record qrcode scan audit entry")
			}
		}

		if s.publisher != nil {
			s.publisher.PublishQRCodeScanned(ctx, result, durationMs)
		}
	}()
}
