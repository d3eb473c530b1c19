// Package resolver handles URL-typed payloads by delegating extraction
// to the external crawler collaborator. The crawler is best-effort by
// policy: a failed or timed-out scrape degrades to a record carrying
// only the URL itself, it never fails the scan.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/parser"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/config"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
)

// WebResolver resolves contact details for URL payloads via the crawler
// service. It plugs into the parser registry like any format parser.
type WebResolver struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a resolver for the given crawler configuration. The
// configured timeout bounds the whole scrape call; page rendering on
// the crawler side can take tens of seconds.
func New(cfg *config.CrawlerConfig, log *logger.Logger) *WebResolver {
	return &WebResolver{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

func (r *WebResolver) Name() string { return "web" }

func (r *WebResolver) CanParse(payloadType domain.PayloadType) bool {
	return payloadType == domain.PayloadTypeURL
}

func (r *WebResolver) Parse(ctx context.Context, raw string) (*parser.Result, error) {
	details, err := r.scrape(ctx, raw)
	if err != nil {
		// Degrade, don't fail: less information beats no result
		r.log.Warn().Err(err).Str("url", raw).Msg("crawler scrape failed, returning URL-only record")
		details = &domain.ContactDetails{Website: raw}
	}
	if details.Website == "" {
		details.Website = raw
	}

	return &parser.Result{
		Details:    details,
		Confidence: domain.Score(details, domain.DenominatorURL),
	}, nil
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type scrapeResponse struct {
	Success bool                   `json:"success"`
	Data    *domain.ContactDetails `json:"data"`
}

func (r *WebResolver) scrape(ctx context.Context, pageURL string) (*domain.ContactDetails, error) {
	body, err := json.Marshal(scrapeRequest{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("crawler: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crawler: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crawler: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("crawler: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crawler: service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var scraped scrapeResponse
	if err := json.Unmarshal(respBody, &scraped); err != nil {
		return nil, fmt.Errorf("crawler: parse response: %w", err)
	}
	if !scraped.Success || scraped.Data == nil {
		return nil, fmt.Errorf("crawler: extraction unsuccessful for %s", pageURL)
	}

	return scraped.Data, nil
}
