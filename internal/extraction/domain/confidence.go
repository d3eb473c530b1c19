package domain

import "math"

// Per-origin denominators for confidence scoring. Different payload
// formats have different realistic maximum field counts: a vCard rarely
// carries more than five useful fields, a scraped webpage can plausibly
// fill ten.
const (
	DenominatorVCard     = 5
	DenominatorURL       = 10
	DenominatorPlainText = 3
	DenominatorCard      = 6
)

// Score maps a populated-field count to a confidence in [0,1], rounded
// to two decimals: min(count/denominator, 1).
func Score(d *ContactDetails, denominator int) float64 {
	ratio := float64(d.FieldCount()) / float64(denominator)
	if ratio > 1 {
		ratio = 1
	}
	return Round2(ratio)
}

// ScorePlainText scores a plain-text extraction. A plain-text hit is
// never zero-confidence: with no populated fields the score floors at 0.3.
func ScorePlainText(d *ContactDetails) float64 {
	if d.FieldCount() == 0 {
		return 0.3
	}
	return Score(d, DenominatorPlainText)
}

// ScoreBinary scores the single-field formats (mailto, tel): 1.0 when
// the relevant field was captured, 0.5 otherwise.
func ScoreBinary(populated bool) float64 {
	if populated {
		return 1.0
	}
	return 0.5
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
