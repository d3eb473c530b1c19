// Package handler exposes the scan pipeline over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/audit"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/cardscan"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/service"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/errors"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/httputil"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
)

const maxBodySize = 20 << 20 // card images arrive base64-inlined

// Handler handles HTTP requests for QR and card scans
type Handler struct {
	service *service.Service
	scanner *cardscan.Scanner
	audit   *audit.Repository
	log     *logger.Logger
}

// NewHandler creates a new scan handler. The audit repository may be
// nil when the audit trail is not enabled.
func NewHandler(svc *service.Service, scanner *cardscan.Scanner, auditRepo *audit.Repository, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		scanner: scanner,
		audit:   auditRepo,
		log:     log,
	}
}

// Routes mounts the scan endpoints on a chi router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/scans/qrcode", h.ScanQRCode)
	r.Post("/scans/qrcode/batch", h.ScanQRCodeBatch)
	r.Post("/scans/card", h.ScanCard)
	r.Get("/scans/audit", h.RecentAudit)
}

type scanQRCodeRequest struct {
	// Text is deliberately not required: an empty payload flows through
	// the pipeline and comes back as a structured failure result.
	Text string `json:"text"`
}

type scanQRCodeBatchRequest struct {
	Texts []string `json:"texts" validate:"required,min=1,max=50"`
}

type scanCardRequest struct {
	Image string `json:"image" validate:"required"`
}

// ScanQRCode handles POST /scans/qrcode
func (h *Handler) ScanQRCode(w http.ResponseWriter, r *http.Request) {
	var req scanQRCodeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	result := h.service.ClassifyAndExtract(r.Context(), req.Text)
	httputil.Raw(w, http.StatusOK, result)
}

// ScanQRCodeBatch handles POST /scans/qrcode/batch
func (h *Handler) ScanQRCodeBatch(w http.ResponseWriter, r *http.Request) {
	var req scanQRCodeBatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	results := h.service.ClassifyAndExtractBatch(r.Context(), req.Texts)
	httputil.Raw(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// ScanCard handles POST /scans/card
func (h *Handler) ScanCard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req scanCardRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result := h.scanner.ScanImage(r.Context(), req.Image)
	httputil.Raw(w, http.StatusOK, result)
}

// RecentAudit handles GET /scans/audit
func (h *Handler) RecentAudit(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		httputil.Error(w, errors.Configuration("scan audit trail is not enabled"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.Error(w, errors.BadRequest("limit must be an integer"))
			return
		}
		limit = n
	}

	entries, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load audit entries")
		httputil.Error(w, errors.Internal("failed to load audit entries"))
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}
