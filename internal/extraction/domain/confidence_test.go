package domain_test

import (
	"testing"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
)

func detailsWithFields(n int) *domain.ContactDetails {
	values := []*string{}
	d := &domain.ContactDetails{}
	values = append(values, &d.Title, &d.FirstName, &d.LastName, &d.Company,
		&d.Position, &d.Department, &d.Email, &d.PhoneNumber, &d.Mobile,
		&d.Website, &d.StreetName, &d.City, &d.Country)
	for i := 0; i < n && i < len(values); i++ {
		*values[i] = "x"
	}
	return d
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		fields      int
		denominator int
		want        float64
	}{
		{"empty vcard", 0, domain.DenominatorVCard, 0},
		{"three of five", 3, domain.DenominatorVCard, 0.6},
		{"four of five", 4, domain.DenominatorVCard, 0.8},
		{"capped at one", 7, domain.DenominatorVCard, 1},
		{"one of ten", 1, domain.DenominatorURL, 0.1},
		{"rounding two decimals", 1, domain.DenominatorPlainText, 0.33},
		{"two thirds rounded", 2, domain.DenominatorPlainText, 0.67},
		{"card denominator", 5, domain.DenominatorCard, 0.83},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.Score(detailsWithFields(tt.fields), tt.denominator)
			if got != tt.want {
				t.Errorf("Score(%d fields, /%d) = %v, want %v", tt.fields, tt.denominator, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Score out of [0,1]: %v", got)
			}
		})
	}
}

func TestScorePlainTextFloor(t *testing.T) {
	if got := domain.ScorePlainText(&domain.ContactDetails{}); got != 0.3 {
		t.Errorf("ScorePlainText(empty) = %v, want 0.3", got)
	}
	if got := domain.ScorePlainText(detailsWithFields(2)); got != 0.67 {
		t.Errorf("ScorePlainText(2 fields) = %v, want 0.67", got)
	}
}

func TestScoreBinary(t *testing.T) {
	if got := domain.ScoreBinary(true); got != 1.0 {
		t.Errorf("ScoreBinary(true) = %v, want 1.0", got)
	}
	if got := domain.ScoreBinary(false); got != 0.5 {
		t.Errorf("ScoreBinary(false) = %v, want 0.5", got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.666666, 0.67},
		{0.333333, 0.33},
		{0.125, 0.13},
		{1.0, 1.0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := domain.Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
