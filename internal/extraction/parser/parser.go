package parser

import (
	"context"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
)

// Result is a parser's partial output before normalization. UniqueCode
// is carried alongside the details - never inside them - so it can be
// surfaced as the sibling entryCode field on the final result.
type Result struct {
	Details    *domain.ContactDetails
	UniqueCode string
	Confidence float64
}

// Parser defines the interface for payload-type-specific extraction.
// Implementations never fail hard on malformed input: they return the
// best partial record they can and score it accordingly.
type Parser interface {
	// CanParse returns true if this parser handles the given payload type
	CanParse(payloadType domain.PayloadType) bool

	// Parse extracts a partial contact record from the trimmed payload
	Parse(ctx context.Context, raw string) (*Result, error)

	// Name returns the parser name for logging
	Name() string
}

// Registry holds all registered parsers and dispatches to the right one
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a new parser registry
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// FindParser returns the first parser that can handle the given payload type
func (r *Registry) FindParser(payloadType domain.PayloadType) Parser {
	for _, p := range r.parsers {
		if p.CanParse(payloadType) {
			return p
		}
	}
	return nil
}
