package resolver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/domain"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/resolver"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/config"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
)

func newResolver(baseURL string, timeout time.Duration) *resolver.WebResolver {
	return resolver.New(&config.CrawlerConfig{
		BaseURL: baseURL,
		Timeout: timeout,
	}, logger.New("test", "development"))
}

func TestWebResolver_Scrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.URL != "https://acme.example/team/jane" {
			t.Errorf("url = %q", req.URL)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]string{
				"firstName": "Jane",
				"lastName":  "Smith",
				"company":   "Acme",
				"email":     "jane@acme.example",
			},
		})
	}))
	defer srv.Close()

	r := newResolver(srv.URL, 5*time.Second)
	res, err := r.Parse(context.Background(), "https://acme.example/team/jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Details.FirstName != "Jane" || res.Details.Company != "Acme" {
		t.Errorf("details = %+v, want scraped fields", res.Details)
	}
	// Website backfilled with the scanned URL when the crawler omits it
	if res.Details.Website != "https://acme.example/team/jane" {
		t.Errorf("Website = %q, want the scanned URL", res.Details.Website)
	}
	// firstName, lastName, company, email, website = 5 of 10
	if res.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", res.Confidence)
	}
}

func TestWebResolver_ServerErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newResolver(srv.URL, 5*time.Second)
	res, err := r.Parse(context.Background(), "https://acme.example")
	if err != nil {
		t.Fatalf("degraded path must not error, got %v", err)
	}
	if res.Details.Website != "https://acme.example" {
		t.Errorf("Website = %q, want the scanned URL", res.Details.Website)
	}
	if res.Confidence != 0.1 {
		t.Errorf("Confidence = %v, want 0.1 for a URL-only record", res.Confidence)
	}
}

func TestWebResolver_TimeoutDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	r := newResolver(srv.URL, 20*time.Millisecond)
	res, err := r.Parse(context.Background(), "https://slow.example")
	if err != nil {
		t.Fatalf("timeout must degrade, not error, got %v", err)
	}
	if res.Details.Website != "https://slow.example" {
		t.Errorf("Website = %q, want the scanned URL", res.Details.Website)
	}
}

func TestWebResolver_UnsuccessfulResponseDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
	}))
	defer srv.Close()

	r := newResolver(srv.URL, 5*time.Second)
	res, err := r.Parse(context.Background(), "https://acme.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Details.Website != "https://acme.example" {
		t.Errorf("Website = %q, want the scanned URL", res.Details.Website)
	}
}

func TestWebResolver_CanParse(t *testing.T) {
	r := newResolver("http://localhost:5000", time.Second)
	if !r.CanParse(domain.PayloadTypeURL) {
		t.Error("CanParse(url) = false, want true")
	}
	if r.CanParse(domain.PayloadTypeVCard) {
		t.Error("CanParse(vcard) = true, want false")
	}
}
