// Package events publishes scan lifecycle events. Publishing failures
// are logged and swallowed; the message bus is never on the request's
// critical path.
package events

import (
	"context"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/messaging"
)

// ScanEventPublisher publishes scan-related events
type ScanEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewScanEventPublisher creates a new scan event publisher
func NewScanEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ScanEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeScanEvents, "scan-service", log)
	if err != nil {
		return nil, err
	}

	return &ScanEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishQRCodeScanned publishes the outcome of a QR payload scan
func (p *ScanEventPublisher) PublishQRCodeScanned(ctx context.Context, result *domain.ExtractionResult, durationMs int64) {
	if !result.Success {
		p.publishFailure(ctx, messaging.EventQRCodeScanFailed, "qrcode", result.Error, durationMs)
		return
	}

	data := messaging.QRCodeScanCompletedEvent{
		PayloadType: string(result.Type),
		EntryCode:   result.Data.EntryCode,
		Confidence:  result.Data.Confidence,
		FieldCount:  result.Data.Details.FieldCount(),
		DurationMs:  durationMs,
	}

	if err := p.publisher.Publish(ctx, messaging.EventQRCodeScanCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("payload_type", string(result.Type)).Msg("failed to publish qrcode scan event")
	}
}

// PublishCardScanned publishes the outcome of a business card scan
func (p *ScanEventPublisher) PublishCardScanned(ctx context.Context, result *domain.BusinessCardResult, durationMs int64) {
	if !result.Success {
		p.publishFailure(ctx, messaging.EventCardScanFailed, "card", result.Error, durationMs)
		return
	}

	data := messaging.CardScanCompletedEvent{
		Confidence: result.Data.Confidence,
		FieldCount: result.Data.Details.FieldCount(),
		DurationMs: durationMs,
	}

	if err := p.publisher.Publish(ctx, messaging.EventCardScanCompleted, data); err != nil {
		p.logger.Error().Err(err).Msg("failed to publish card scan event")
	}
}

func (p *ScanEventPublisher) publishFailure(ctx context.Context, eventType, scanType, reason string, durationMs int64) {
	data := messaging.ScanFailedEvent{
		ScanType:   scanType,
		Reason:     reason,
		DurationMs: durationMs,
	}

	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("scan_type", scanType).Msg("failed to publish scan failed event")
	}
}
