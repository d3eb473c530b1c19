// Package audit persists a per-scan audit trail. Recording is strictly
// best-effort: scan responses never wait on or fail because of it.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/database"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
)

// Scan types recorded in the audit trail.
const (
	ScanTypeQRCode = "qrcode"
	ScanTypeCard   = "card"
)

// Entry is one audited scan.
type Entry struct {
	ID              string    `db:"id" json:"id"`
	ScanType        string    `db:"scan_type" json:"scanType"`
	PayloadType     string    `db:"payload_type" json:"payloadType"`
	Success         bool      `db:"success" json:"success"`
	FieldsExtracted string    `db:"fields_extracted" json:"fieldsExtracted"`
	Confidence      float64   `db:"confidence" json:"confidence"`
	DurationMs      int64     `db:"duration_ms" json:"durationMs"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Repository handles scan audit persistence
type Repository struct {
	db  *database.DB
	log *logger.Logger
}

// NewRepository creates a new audit repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// Record inserts one audit entry
func (r *Repository) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO scan_audit (id, scan_type, payload_type, success, fields_extracted, confidence, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		entry.ID,
		entry.ScanType,
		entry.PayloadType,
		entry.Success,
		entry.FieldsExtracted,
		entry.Confidence,
		entry.DurationMs,
	).Scan(&entry.CreatedAt)
}

// Recent returns the most recent audit entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, scan_type, payload_type, success, fields_extracted, confidence, duration_ms, created_at
		FROM scan_audit
		ORDER BY created_at DESC
		LIMIT $1
	`

	entries := []*Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// JoinFields flattens extracted field keys for storage.
func JoinFields(keys []string) string {
	return strings.Join(keys, ",")
}
