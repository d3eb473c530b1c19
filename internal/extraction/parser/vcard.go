package parser

import (
	"context"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
)

// VCardParser extracts contact fields from a vCard payload. Decoding
// goes through emersion/go-vcard; QR codes produced by phone contact
// apps are occasionally malformed enough to trip a strict decoder, so
// a line-scan fallback keeps those scans degraded rather than failed.
type VCardParser struct{}

func NewVCardParser() *VCardParser {
	return &VCardParser{}
}

func (p *VCardParser) Name() string { return "vcard" }

func (p *VCardParser) CanParse(payloadType domain.PayloadType) bool {
	return payloadType == domain.PayloadTypeVCard
}

func (p *VCardParser) Parse(ctx context.Context, raw string) (*Result, error) {
	var details *domain.ContactDetails
	var note string

	card, err := vcard.NewDecoder(strings.NewReader(raw)).Decode()
	if err != nil {
		details, note = parseVCardLines(raw)
	} else {
		details, note = mapCard(card)
	}

	// The NOTE value is the usual home for an embedded unique code; the
	// whole raw text is the safety net for vCards where NOTE wasn't
	// captured by the parser.
	code, ok := ExtractUniqueCode(note)
	if !ok {
		code, _ = ExtractUniqueCode(raw)
	}

	return &Result{
		Details:    details,
		UniqueCode: code,
		Confidence: domain.Score(details, domain.DenominatorVCard),
	}, nil
}

func mapCard(card vcard.Card) (*domain.ContactDetails, string) {
	details := &domain.ContactDetails{}

	if fn := card.Value(vcard.FieldFormattedName); fn != "" {
		details.FirstName, details.LastName = splitName(fn)
	}

	// Structured name overrides the FN split when present
	if name := card.Name(); name != nil && (name.GivenName != "" || name.FamilyName != "") {
		details.FirstName = strings.TrimSpace(name.GivenName)
		details.LastName = strings.TrimSpace(name.FamilyName)
	}

	if org := card.Value(vcard.FieldOrganization); org != "" {
		// Organization may carry unit components after a semicolon
		details.Company = strings.TrimSpace(strings.SplitN(org, ";", 2)[0])
	}

	details.Position = strings.TrimSpace(card.Value(vcard.FieldTitle))
	details.Email = strings.TrimSpace(card.Value(vcard.FieldEmail))
	details.PhoneNumber = strings.TrimSpace(card.Value(vcard.FieldTelephone))
	details.Website = strings.TrimSpace(card.Value(vcard.FieldURL))

	if addr := card.Address(); addr != nil {
		details.StreetName = strings.TrimSpace(addr.StreetAddress)
		details.City = strings.TrimSpace(addr.Locality)
		details.Country = strings.TrimSpace(addr.Country)
	}

	return details, card.Value(vcard.FieldNote)
}

// parseVCardLines is the degraded fallback: a property-line scan
// covering the fields we care about.
func parseVCardLines(raw string) (*domain.ContactDetails, string) {
	details := &domain.ContactDetails{}
	var note string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}
		key := strings.ToUpper(strings.SplitN(line[:colon], ";", 2)[0])
		value := strings.TrimSpace(line[colon+1:])
		if value == "" {
			continue
		}

		switch key {
		case "FN":
			if details.FirstName == "" && details.LastName == "" {
				details.FirstName, details.LastName = splitName(value)
			}
		case "N":
			// LastName;FirstName;Additional;Prefix;Suffix
			parts := strings.Split(value, ";")
			if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
				details.LastName = strings.TrimSpace(parts[0])
			}
			if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
				details.FirstName = strings.TrimSpace(parts[1])
			}
		case "ORG":
			details.Company = strings.TrimSpace(strings.SplitN(value, ";", 2)[0])
		case "TITLE":
			details.Position = value
		case "EMAIL":
			if details.Email == "" {
				details.Email = value
			}
		case "TEL":
			if details.PhoneNumber == "" {
				details.PhoneNumber = value
			}
		case "URL":
			if details.Website == "" {
				details.Website = value
			}
		case "ADR":
			// 7-part: PO box;extended;street;city;region;postal;country
			parts := strings.Split(value, ";")
			if len(parts) > 2 {
				details.StreetName = strings.TrimSpace(parts[2])
			}
			if len(parts) > 3 {
				details.City = strings.TrimSpace(parts[3])
			}
			if len(parts) > 6 {
				details.Country = strings.TrimSpace(parts[6])
			}
		case "NOTE":
			note = value
		}
	}

	return details, note
}

// splitName splits a formatted name on the first space: a single token
// is a first name only, anything after the first space is the last name.
func splitName(fullName string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(fullName), " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}
