package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"whitelist/internal/contractor/models"
	"whitelist/internal/platform/middleware"
	dErrors "whitelist/pkg/domain-errors"
	"whitelist/pkg/platform/httputil"
)

// Service defines the contractor operations the HTTP layer exposes.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	LookupContractor(ctx context.Context, taxID string) (*models.Contractor, error)
	SaveContractor(ctx context.Context, contractor *models.Contractor) error
	ListContractors(ctx context.Context, page, pageSize uint, filter string) ([]*models.Contractor, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/registry/contractors/{taxId}", h.HandleLookupContractor)
	r.Post("/contractors", h.HandleSaveContractor)
	r.Get("/contractors", h.HandleListContractors)
}

// HandleLookupContractor queries the external registry by tax id. It never
// writes storage; saving a looked-up contractor is a separate POST.
func (h *Handler) HandleLookupContractor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	taxID := chi.URLParam(r, "taxId")

	contractor, err := h.service.LookupContractor(ctx, taxID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "registry lookup failed", "error", err, "request_id", requestID, "tax_id", taxID)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toContractorResponse(contractor))
}

// HandleSaveContractor persists a contractor with its account numbers.
func (h *Handler) HandleSaveContractor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeJSON[SaveContractorRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	contractor := req.toModel()
	if err := h.service.SaveContractor(ctx, contractor); err != nil {
		h.logger.ErrorContext(ctx, "save contractor failed", "error", err, "request_id", requestID, "tax_id", req.TaxID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toContractorResponse(contractor))
}

// HandleListContractors returns one page of stored contractors. Query params:
// page (1-based), page_size, q (substring filter over name and tax id).
func (h *Handler) HandleListContractors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	page := parseUintParam(r, "page", 1)
	pageSize := parseUintParam(r, "page_size", 0)
	filter := r.URL.Query().Get("q")

	contractors, err := h.service.ListContractors(ctx, page, pageSize, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list contractors failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toContractorListResponse(contractors, page))
}

func parseUintParam(r *http.Request, name string, fallback uint) uint {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return uint(v)
}
