package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// Unique codes are operator-embedded identifiers of 9-15 alphanumeric
// characters used to correlate a scan back to its originating campaign
// or booth. The thresholds below (length range, digit-count cap,
// 10-char context window) are tuned against real scan traffic; keep
// them as-is for behavior compatibility.

var (
	// Key-value form, e.g. "code: AB12CD34EF" or "NOTE:uniqueCode=XY98ZW76QR"
	codeKeyValuePattern = regexp.MustCompile(
		`(?i)(?:NOTE:\s*)?(?:uniquecode|unique_code|entrycode|entry_code|uniqueid|unique_id|code)\s*[:=]\s*([A-Za-z0-9]{9,15})`)

	// Standalone candidate tokens for the fallback scan
	codeTokenPattern = regexp.MustCompile(`\b[A-Za-z0-9]{9,15}\b`)
)

const codeContextWindow = 10

// ExtractUniqueCode scans free text for an embedded unique code.
// A key-value match wins immediately; otherwise every standalone 9-15
// char alphanumeric token is considered, rejecting anything phone-like
// (more than 10 digits, or purely numeric) or sitting next to an email
// or URL fragment. The not-found case is expected and common.
func ExtractUniqueCode(text string) (string, bool) {
	if m := codeKeyValuePattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}

	for _, loc := range codeTokenPattern.FindAllStringIndex(text, -1) {
		token := text[loc[0]:loc[1]]
		if digitCount(token) > 10 {
			continue
		}
		if isNumeric(token) {
			continue
		}
		if nearEmailOrURL(text, loc[0], loc[1]) {
			continue
		}
		return token, true
	}

	return "", false
}

// nearEmailOrURL checks the surrounding context of a token for markers
// that make it part of an email address or URL rather than a code.
func nearEmailOrURL(text string, start, end int) bool {
	from := start - codeContextWindow
	if from < 0 {
		from = 0
	}
	to := end + codeContextWindow
	if to > len(text) {
		to = len(text)
	}
	window := strings.ToLower(text[from:to])
	return strings.Contains(window, "@") ||
		strings.Contains(window, "http") ||
		strings.Contains(window, "www")
}

func digitCount(s string) int {
	count := 0
	for _, c := range s {
		if unicode.IsDigit(c) {
			count++
		}
	}
	return count
}

func isNumeric(s string) bool {
	return digitCount(s) == len(s)
}
