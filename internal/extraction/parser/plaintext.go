package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
)

// PlainTextParser is the heuristic fallback for payloads that matched
// no structured format: free text from badges, signs or hand-built QR
// codes. It fishes for an email, a phone number, a name line and an
// embedded unique code.
type PlainTextParser struct{}

func NewPlainTextParser() *PlainTextParser {
	return &PlainTextParser{}
}

func (p *PlainTextParser) Name() string { return "plaintext" }

func (p *PlainTextParser) CanParse(payloadType domain.PayloadType) bool {
	return payloadType == domain.PayloadTypePlainText
}

var emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[A-Za-z]{2,}`)

// phonePatterns is an ordered fallback chain. Each candidate match must
// still pass the digit-count check in validPhoneDigits; the validation
// is deliberately separate from the patterns.
var phonePatterns = []*regexp.Regexp{
	// US number with an extension
	regexp.MustCompile(`(?i)\+?1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\s*(?:ext|x)\.?\s*\d{1,5}`),
	// Internationally grouped number
	regexp.MustCompile(`\+?\d{1,3}[-.\s]\d{2,4}[-.\s]\d{3,4}(?:[-.\s]\d{3,4})?`),
	// Bare digit run
	regexp.MustCompile(`\d{10,15}`),
	// Parenthesized US number
	regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}`),
	// Hyphenated US number
	regexp.MustCompile(`\d{3}-\d{3}-\d{4}`),
}

var threeDigitRun = regexp.MustCompile(`\d{3}`)

const maxNameLineLen = 50

func (p *PlainTextParser) Parse(ctx context.Context, raw string) (*Result, error) {
	details := &domain.ContactDetails{}

	code, _ := ExtractUniqueCode(raw)

	details.Email = emailPattern.FindString(raw)
	details.PhoneNumber = extractPhone(raw)

	if first, last, ok := extractNameLine(raw); ok {
		details.FirstName = first
		details.LastName = last
	}

	return &Result{
		Details:    details,
		UniqueCode: code,
		Confidence: domain.ScorePlainText(details),
	}, nil
}

// extractPhone tries the phone patterns in order and returns the first
// candidate whose digit count lands in the plausible 7-15 range.
func extractPhone(text string) string {
	for _, pattern := range phonePatterns {
		for _, candidate := range pattern.FindAllString(text, -1) {
			if validPhoneDigits(candidate) {
				return strings.TrimSpace(candidate)
			}
		}
	}
	return ""
}

func validPhoneDigits(candidate string) bool {
	digits := digitCount(candidate)
	return digits >= 7 && digits <= 15
}

// extractNameLine applies the name heuristic to the first non-blank
// line: short, no email marker, no three-digit run. A single token is
// a first name only.
func extractNameLine(text string) (first, last string, ok bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) >= maxNameLineLen ||
			strings.Contains(line, "@") ||
			threeDigitRun.MatchString(line) {
			return "", "", false
		}
		first, last = splitName(line)
		return first, last, true
	}
	return "", "", false
}
