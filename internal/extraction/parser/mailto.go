package parser

import (
	"context"
	"net/url"
	"strings"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
)

// MailtoParser extracts the address from a mailto: link.
type MailtoParser struct{}

func NewMailtoParser() *MailtoParser {
	return &MailtoParser{}
}

func (p *MailtoParser) Name() string { return "mailto" }

func (p *MailtoParser) CanParse(payloadType domain.PayloadType) bool {
	return payloadType == domain.PayloadTypeMailto
}

func (p *MailtoParser) Parse(ctx context.Context, raw string) (*Result, error) {
	addr := stripPrefixFold(raw, "mailto:")

	// Drop any ?subject=...&body=... query portion
	if i := strings.Index(addr, "?"); i >= 0 {
		addr = addr[:i]
	}

	// Percent-decoding only: '+' is a literal character in the local
	// part of an address, not an encoded space.
	if decoded, err := url.PathUnescape(addr); err == nil {
		addr = decoded
	}
	addr = strings.TrimSpace(addr)

	details := &domain.ContactDetails{Email: addr}
	return &Result{
		Details:    details,
		Confidence: domain.ScoreBinary(addr != ""),
	}, nil
}

// stripPrefixFold removes a case-insensitive prefix from s.
func stripPrefixFold(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}
