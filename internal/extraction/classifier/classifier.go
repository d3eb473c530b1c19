// Package classifier assigns a scanned QR payload to exactly one
// payload type. Categories overlap, so rules are evaluated in a fixed
// priority order and the first match wins: an entry-code-shaped string
// must not fall through to plain text, and a mailto link must not be
// mistaken for a URL.
package classifier

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
)

const (
	entryCodeMinLen = 3
	entryCodeMaxLen = 30
)

var entryCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// rule pairs a predicate with the type it classifies. Order in the
// rules slice encodes precedence.
type rule struct {
	matches     func(string) bool
	payloadType domain.PayloadType
}

var rules = []rule{
	{isEntryCode, domain.PayloadTypeEntryCode},
	{isMailtoLink, domain.PayloadTypeMailto},
	{isTelLink, domain.PayloadTypeTel},
	{isWebURL, domain.PayloadTypeURL},
	{isVCard, domain.PayloadTypeVCard},
}

// Classify assigns the trimmed payload to a payload type. It is total:
// anything that matches no rule is plain text. The input is expected to
// be non-empty; empty payloads are rejected upstream.
func Classify(text string) domain.PayloadType {
	trimmed := strings.TrimSpace(text)
	for _, r := range rules {
		if r.matches(trimmed) {
			return r.payloadType
		}
	}
	return domain.PayloadTypePlainText
}

// isEntryCode matches short operator-issued codes: 3-30 chars of
// [A-Za-z0-9_-] with none of the characters that would make the string
// an email, URL or sentence fragment.
func isEntryCode(s string) bool {
	if len(s) < entryCodeMinLen || len(s) > entryCodeMaxLen {
		return false
	}
	if !entryCodePattern.MatchString(s) {
		return false
	}
	return !strings.ContainsAny(s, ".@/")
}

func isMailtoLink(s string) bool {
	return hasPrefixFold(s, "mailto:")
}

func isTelLink(s string) bool {
	return hasPrefixFold(s, "tel:")
}

// isWebURL reports whether the payload parses as an absolute http(s)
// URL. Malformed URLs are not URLs and fall through to later rules.
func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func isVCard(s string) bool {
	return strings.HasPrefix(s, "BEGIN:VCARD") && strings.Contains(s, "END:VCARD")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
