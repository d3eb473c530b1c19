package parser

import (
	"context"
	"strings"
	"unicode"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
)

// TelParser extracts the number from a tel: link. The cleaned number is
// written to both phoneNumber and mobile since a tel QR code carries no
// line-type information.
type TelParser struct{}

func NewTelParser() *TelParser {
	return &TelParser{}
}

func (p *TelParser) Name() string { return "tel" }

func (p *TelParser) CanParse(payloadType domain.PayloadType) bool {
	return payloadType == domain.PayloadTypeTel
}

func (p *TelParser) Parse(ctx context.Context, raw string) (*Result, error) {
	number := cleanPhone(stripPrefixFold(raw, "tel:"))

	details := &domain.ContactDetails{
		PhoneNumber: number,
		Mobile:      number,
	}
	return &Result{
		Details:    details,
		Confidence: domain.ScoreBinary(number != ""),
	}, nil
}

// cleanPhone keeps digits, '+', '-', spaces and parentheses.
func cleanPhone(s string) string {
	var b strings.Builder
	for _, c := range s {
		if unicode.IsDigit(c) || c == '+' || c == '-' || c == ' ' || c == '(' || c == ')' {
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}
