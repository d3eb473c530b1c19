package classifier_test

import (
	"testing"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/classifier"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.PayloadType
	}{
		{"entry code alnum", "ABC123XYZ", domain.PayloadTypeEntryCode},
		{"entry code min length", "AB1", domain.PayloadTypeEntryCode},
		{"entry code with underscore and dash", "BOOTH_42-A", domain.PayloadTypeEntryCode},
		{"entry code max length", "ABCDEFGHIJ0123456789ABCDEFGHIJ", domain.PayloadTypeEntryCode},
		{"slash disqualifies entry code", "ABC/123", domain.PayloadTypePlainText},
		{"too short for entry code", "AB", domain.PayloadTypePlainText},
		{"too long for entry code", "ABCDEFGHIJKLMNOPQRSTUVWXYZ12345", domain.PayloadTypePlainText},
		{"dot disqualifies entry code", "ABC.123", domain.PayloadTypePlainText},
		{"mailto link", "mailto:a@b.com", domain.PayloadTypeMailto},
		{"mailto uppercase scheme", "MAILTO:a@b.com", domain.PayloadTypeMailto},
		{"tel link", "tel:+49301234567", domain.PayloadTypeTel},
		{"http url", "http://example.com", domain.PayloadTypeURL},
		{"https url with path", "https://example.com/team/jane", domain.PayloadTypeURL},
		{"scheme without host", "https://", domain.PayloadTypePlainText},
		{"vcard", "BEGIN:VCARD\nFN:John Doe\nEND:VCARD", domain.PayloadTypeVCard},
		{"vcard without terminator", "BEGIN:VCARD\nFN:John Doe", domain.PayloadTypePlainText},
		{"free text", "John Doe\nAcme Inc\njohn@acme.com", domain.PayloadTypePlainText},
		{"leading whitespace trimmed", "  ABC123XYZ  ", domain.PayloadTypeEntryCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// An entry-code-shaped string must win even though it would also
	// fall through to plain text.
	if got := classifier.Classify("EXPO2024"); got != domain.PayloadTypeEntryCode {
		t.Errorf("Classify(EXPO2024) = %v, want entry_code", got)
	}

	// mailto: must not be classified as a generic URL even though
	// url.Parse accepts it.
	if got := classifier.Classify("mailto:jane@acme.com"); got != domain.PayloadTypeMailto {
		t.Errorf("Classify(mailto:...) = %v, want mailto", got)
	}
}
