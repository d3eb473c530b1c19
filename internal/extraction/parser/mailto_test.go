package parser_test

import (
	"context"
	"testing"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/parser"
)

func TestMailtoParser_CanParse(t *testing.T) {
	p := parser.NewMailtoParser()
	if !p.CanParse(domain.PayloadTypeMailto) {
		t.Error("CanParse(mailto) = false, want true")
	}
	if p.CanParse(domain.PayloadTypeTel) {
		t.Error("CanParse(tel) = true, want false")
	}
}

func TestMailtoParser_Parse(t *testing.T) {
	p := parser.NewMailtoParser()

	tests := []struct {
		name           string
		input          string
		wantEmail      string
		wantConfidence float64
	}{
		{"plain address", "mailto:a@b.com", "a@b.com", 1.0},
		{"query stripped", "mailto:a@b.com?subject=Hi", "a@b.com", 1.0},
		{"query with body", "mailto:jane@acme.com?subject=Hello&body=There", "jane@acme.com", 1.0},
		{"percent encoding decoded", "mailto:jane%2Bexpo@acme.com", "jane+expo@acme.com", 1.0},
		{"plus addressing preserved", "mailto:john+news@example.com", "john+news@example.com", 1.0},
		{"plus preserved with query", "mailto:john+news@example.com?subject=Hi", "john+news@example.com", 1.0},
		{"uppercase scheme", "MAILTO:a@b.com", "a@b.com", 1.0},
		{"empty address", "mailto:", "", 0.5},
		{"only query", "mailto:?subject=Hi", "", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Details.Email != tt.wantEmail {
				t.Errorf("Email = %q, want %q", res.Details.Email, tt.wantEmail)
			}
			if res.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", res.Confidence, tt.wantConfidence)
			}
		})
	}
}
