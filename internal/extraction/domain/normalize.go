package domain

import "strings"

// Normalize produces the final shape of a parser's partial record: a
// fresh ContactDetails with every field trimmed. A nil input yields a
// record of empty strings so callers always hand back the full key set.
// Normalize is idempotent.
func Normalize(d *ContactDetails) *ContactDetails {
	if d == nil {
		return &ContactDetails{}
	}
	return &ContactDetails{
		Title:       strings.TrimSpace(d.Title),
		FirstName:   strings.TrimSpace(d.FirstName),
		LastName:    strings.TrimSpace(d.LastName),
		Company:     strings.TrimSpace(d.Company),
		Position:    strings.TrimSpace(d.Position),
		Department:  strings.TrimSpace(d.Department),
		Email:       strings.TrimSpace(d.Email),
		PhoneNumber: strings.TrimSpace(d.PhoneNumber),
		Mobile:      strings.TrimSpace(d.Mobile),
		Website:     strings.TrimSpace(d.Website),
		StreetName:  strings.TrimSpace(d.StreetName),
		City:        strings.TrimSpace(d.City),
		Country:     strings.TrimSpace(d.Country),
	}
}
