package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Scan events
	EventQRCodeScanCompleted = "scan.qrcode.completed"
	EventQRCodeScanFailed    = "scan.qrcode.failed"
	EventCardScanCompleted   = "scan.card.completed"
	EventCardScanFailed      = "scan.card.failed"
)

// Exchange names
const (
	ExchangeScanEvents = "scan.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}

// QRCodeScanCompletedEvent is published after a QR payload was classified
// and its contact details extracted
type QRCodeScanCompletedEvent struct {
	PayloadType string  `json:"payload_type"`
	EntryCode   string  `json:"entry_code,omitempty"`
	Confidence  float64 `json:"confidence"`
	FieldCount  int     `json:"field_count"`
	DurationMs  int64   `json:"duration_ms"`
}

// CardScanCompletedEvent is published after a business card image was scanned
type CardScanCompletedEvent struct {
	Confidence float64 `json:"confidence"`
	FieldCount int     `json:"field_count"`
	DurationMs int64   `json:"duration_ms"`
}

// ScanFailedEvent is published when a scan of either kind fails
type ScanFailedEvent struct {
	ScanType   string `json:"scan_type"`
	Reason     string `json:"reason"`
	DurationMs int64  `json:"duration_ms"`
}
