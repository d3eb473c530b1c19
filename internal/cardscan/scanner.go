// Package cardscan turns business card photos into contact records by
// way of a vision model. The path is deliberately retry-free: a failed
// model call is reported to the caller, who owns retry policy.
package cardscan

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/audit"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/events"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/vision"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
)

// User-facing failure messages. Provider error codes map to distinct
// messages so the operator can tell a bad key from a billing problem.
const (
	msgNotConfigured   = "card scanning is not configured: missing vision API key"
	msgInvalidImage    = "image data is not valid base64"
	msgInvalidAPIKey   = "vision API key is invalid"
	msgRateLimited     = "vision API rate limit exceeded, try again later"
	msgQuotaExceeded   = "vision API quota exhausted"
	msgUnparseableJSON = "could not extract contact details from the card image"
	msgGeneric         = "business card scan failed"
)

const extractionPrompt = `You are reading a photo of a business card. Extract the contact details and respond with a single JSON object using exactly these keys: firstName, lastName, company, position, email, phoneNumber, website, address, city, country. Use an empty string for anything not visible on the card.

Example response:
{"firstName":"Jane","lastName":"Smith","company":"Acme GmbH","position":"Sales Director","email":"jane.smith@acme.example","phoneNumber":"+49 30 1234567","website":"www.acme.example","address":"Hauptstr. 12","city":"Berlin","country":"Germany"}

Respond with the JSON object only. No markdown, no explanation.`

var (
	dataURLPattern    = regexp.MustCompile(`^data:image/[a-zA-Z+.-]+;base64,`)
	base64Pattern     = regexp.MustCompile(`^[A-Za-z0-9+/=\s]+$`)
	jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// VisionClient is the model surface the scanner needs.
type VisionClient interface {
	Configured() bool
	Complete(ctx context.Context, prompt, imageDataURL string) (string, error)
}

// Scanner drives the card image extraction state machine.
type Scanner struct {
	vision    VisionClient
	audit     *audit.Repository
	publisher *events.ScanEventPublisher
	log       *logger.Logger
}

// NewScanner creates a card scanner. Audit repository and event
// publisher may be nil when those sinks are not wired.
func NewScanner(visionClient VisionClient, auditRepo *audit.Repository, publisher *events.ScanEventPublisher, log *logger.Logger) *Scanner {
	return &Scanner{
		vision:    visionClient,
		audit:     auditRepo,
		publisher: publisher,
		log:       log,
	}
}

// cardFields mirrors the ten keys the prompt asks the model for.
type cardFields struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

// ScanImage extracts contact details from a base64-encoded card image.
// Failures come back as a structured result, never as an error.
func (s *Scanner) ScanImage(ctx context.Context, image string) *domain.BusinessCardResult {
	start := nowMillis()
	result := s.scan(ctx, image)
	s.recordAsync(result, nowMillis()-start)
	return result
}

// ScanImages processes a batch strictly one image after another. Each
// item fails independently; one bad image never aborts the rest.
func (s *Scanner) ScanImages(ctx context.Context, images []string) []*domain.BusinessCardResult {
	results := make([]*domain.BusinessCardResult, 0, len(images))
	for _, image := range images {
		results = append(results, s.ScanImage(ctx, image))
	}
	return results
}

func (s *Scanner) scan(ctx context.Context, image string) *domain.BusinessCardResult {
	if !s.vision.Configured() {
		s.log.Warn().Msg("card scan rejected: vision client not configured")
		return domain.CardScanFailed(msgNotConfigured)
	}

	dataURL, ok := toImageDataURL(image)
	if !ok {
		return domain.CardScanFailed(msgInvalidImage)
	}

	reply, err := s.vision.Complete(ctx, extractionPrompt, dataURL)
	if err != nil {
		s.log.Error().Err(err).Msg("vision completion failed")
		return domain.CardScanFailed(visionFailureMessage(err))
	}

	fields, err := parseCardFields(reply)
	if err != nil {
		s.log.Error().Err(err).Str("reply", truncate(reply, 200)).Msg("model reply was not parseable JSON")
		return domain.CardScanFailed(msgUnparseableJSON)
	}

	details := cleanFields(fields)
	return domain.CardScanned(&domain.CardScanData{
		OCRText:    reply,
		Details:    *details,
		Confidence: domain.Score(details, domain.DenominatorCard),
	})
}

// toImageDataURL accepts either a full data URL or bare base64, and
// normalizes to a data URL. Bare input is assumed to be JPEG.
func toImageDataURL(image string) (string, bool) {
	trimmed := strings.TrimSpace(image)
	if trimmed == "" {
		return "", false
	}
	if dataURLPattern.MatchString(trimmed) {
		return trimmed, true
	}
	if base64Pattern.MatchString(trimmed) {
		return "data:image/jpeg;base64," + trimmed, true
	}
	return "", false
}

// parseCardFields pulls the JSON object out of the model reply. Models
// sometimes wrap the object in prose or markdown fences, so the first
// attempt is a {...} substring match before falling back to the whole
// reply.
func parseCardFields(reply string) (*cardFields, error) {
	candidate := reply
	if match := jsonObjectPattern.FindString(reply); match != "" {
		candidate = match
	}

	var fields cardFields
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		if candidate == reply {
			return nil, err
		}
		if err2 := json.Unmarshal([]byte(reply), &fields); err2 != nil {
			return nil, err
		}
	}
	return &fields, nil
}

// cleanFields trims, validates and canonicalizes the raw model output.
// Invalid values are dropped rather than rejected.
func cleanFields(f *cardFields) *domain.ContactDetails {
	details := &domain.ContactDetails{
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		Company:     strings.TrimSpace(f.Company),
		Position:    strings.TrimSpace(f.Position),
		Email:       strings.TrimSpace(f.Email),
		PhoneNumber: cleanPhoneDigits(strings.TrimSpace(f.PhoneNumber)),
		Website:     cleanWebsite(strings.TrimSpace(f.Website)),
		StreetName:  strings.TrimSpace(f.Address),
		City:        strings.TrimSpace(f.City),
		Country:     strings.TrimSpace(f.Country),
	}

	if details.Email != "" && !emailPattern.MatchString(details.Email) {
		details.Email = ""
	}
	return details
}

// cleanPhoneDigits strips everything except digits and a leading plus.
func cleanPhoneDigits(phone string) string {
	if phone == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cleanWebsite(website string) string {
	if website == "" {
		return ""
	}
	website = strings.ToLower(website)
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}
	return website
}

func visionFailureMessage(err error) string {
	switch {
	case errors.Is(err, vision.ErrNotConfigured):
		return msgNotConfigured
	case errors.Is(err, vision.ErrInvalidAPIKey):
		return msgInvalidAPIKey
	case errors.Is(err, vision.ErrRateLimited):
		return msgRateLimited
	case errors.Is(err, vision.ErrQuotaExceeded):
		return msgQuotaExceeded
	default:
		return msgGeneric
	}
}

// recordAsync writes the audit entry and publishes the scan event off
// the request path. The request context may be gone by the time these
// run, so a fresh background context is used.
func (s *Scanner) recordAsync(result *domain.BusinessCardResult, durationMs int64) {
	if s.audit == nil && s.publisher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.audit != nil {
			entry := &audit.Entry{
				ScanType:   audit.ScanTypeCard,
				Success:    result.Success,
				DurationMs: durationMs,
			}
			if result.Data != nil {
				entry.FieldsExtracted = audit.JoinFields(result.Data.Details.FieldKeys())
				entry.Confidence = result.Data.Confidence
			}
			if err := s.audit.Record(ctx, entry); err != nil {
				s.log.Error().Err(err).Msg("failed to record card scan audit entry")
			}
		}

		if s.publisher != nil {
			s.publisher.PublishCardScanned(ctx, result, durationMs)
		}
	}()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
