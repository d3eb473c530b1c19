package domain

// PayloadType represents the classified category of a scanned QR payload
type PayloadType string

const (
	PayloadTypeEntryCode PayloadType = "entry_code"
	PayloadTypeMailto    PayloadType = "mailto"
	PayloadTypeTel       PayloadType = "tel"
	PayloadTypeURL       PayloadType = "url"
	PayloadTypeVCard     PayloadType = "vcard"
	PayloadTypePlainText PayloadType = "plaintext"
)

// ContactDetails is the canonical contact record produced by every
// extraction path. Fields carry no omitempty on purpose: after
// normalization every recognized key is serialized with at least an
// empty-string value.
type ContactDetails struct {
	Title       string `json:"title"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Mobile      string `json:"mobile"`
	Website     string `json:"website"`
	StreetName  string `json:"streetName"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

// FieldCount returns the number of populated fields
func (d *ContactDetails) FieldCount() int {
	if d == nil {
		return 0
	}
	count := 0
	for _, v := range []string{
		d.Title, d.FirstName, d.LastName, d.Company, d.Position,
		d.Department, d.Email, d.PhoneNumber, d.Mobile, d.Website,
		d.StreetName, d.City, d.Country,
	} {
		if v != "" {
			count++
		}
	}
	return count
}

// FieldKeys returns the JSON keys of the populated fields, in declaration order
func (d *ContactDetails) FieldKeys() []string {
	if d == nil {
		return nil
	}
	pairs := []struct {
		key   string
		value string
	}{
		{"title", d.Title},
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"company", d.Company},
		{"position", d.Position},
		{"department", d.Department},
		{"email", d.Email},
		{"phoneNumber", d.PhoneNumber},
		{"mobile", d.Mobile},
		{"website", d.Website},
		{"streetName", d.StreetName},
		{"city", d.City},
		{"country", d.Country},
	}
	var keys []string
	for _, p := range pairs {
		if p.value != "" {
			keys = append(keys, p.key)
		}
	}
	return keys
}

// ScanData is the success payload of an ExtractionResult
type ScanData struct {
	Details    *ContactDetails `json:"details,omitempty"`
	EntryCode  string          `json:"entryCode,omitempty"`
	RawData    string          `json:"rawData"`
	Confidence float64         `json:"confidence"`
}

// ExtractionResult wraps the outcome of classifying and extracting a QR
// payload. Exactly one of Data/Error is set.
type ExtractionResult struct {
	Success bool        `json:"success"`
	Type    PayloadType `json:"type"`
	Data    *ScanData   `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Succeeded builds a successful extraction result
func Succeeded(payloadType PayloadType, data *ScanData) *ExtractionResult {
	return &ExtractionResult{
		Success: true,
		Type:    payloadType,
		Data:    data,
	}
}

// Failed builds a failed extraction result
func Failed(payloadType PayloadType, message string) *ExtractionResult {
	return &ExtractionResult{
		Success: false,
		Type:    payloadType,
		Error:   message,
	}
}

// CardScanData is the success payload of a BusinessCardResult
type CardScanData struct {
	OCRText    string         `json:"ocrText"`
	Details    ContactDetails `json:"details"`
	Confidence float64        `json:"confidence"`
}

// BusinessCardResult wraps the outcome of a business card image scan.
// Exactly one of Data/Error is set.
type BusinessCardResult struct {
	Success bool          `json:"success"`
	Data    *CardScanData `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// CardScanned builds a successful card scan result
func CardScanned(data *CardScanData) *BusinessCardResult {
	return &BusinessCardResult{
		Success: true,
		Data:    data,
	}
}

// CardScanFailed builds a failed card scan result
func CardScanFailed(message string) *BusinessCardResult {
	return &BusinessCardResult{
		Success: false,
		Error:   message,
	}
}
