package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecofamily/famsync/internal/hub"
	"github.com/ecofamily/famsync/internal/metrics"
	"github.com/ecofamily/famsync/internal/store"
	"github.com/ecofamily/famsync/internal/types"
	"github.com/ecofamily/famsync/internal/validation"
)

// Handler implements the API handlers
type Handler struct {
	store         store.Store
	hub           *hub.Hub
	metrics       *metrics.Metrics
	minCodeLength int
	version       string
}

// NewHandler creates a new Handler with store.Store interface
func NewHandler(s store.Store, h *hub.Hub, m *metrics.Metrics, minCodeLength int, version string) *Handler {
	return &Handler{
		store:         s,
		hub:           h,
		metrics:       m,
		minCodeLength: minCodeLength,
		version:       version,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Families int64  `json:"families"`
}

// CreateFamilyRequest is the payload for POST /families.
type CreateFamilyRequest struct {
	Code string `json:"code"`
}

// FamilyResponse describes one family namespace.
type FamilyResponse struct {
	Code    string    `json:"code"`
	Created time.Time `json:"created"`
}

// WriteAck acknowledges a whole-document write.
type WriteAck struct {
	Code        string `json:"code"`
	Subscribers int    `json:"subscribers"`
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountFamilies(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Families: count,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// CreateFamily handles POST /api/v1/families. The code is normalized and
// length-checked here as well; creation is the only place uniqueness is
// enforced.
func (h *Handler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	code := validation.NormalizeFamilyCode(req.Code)

	var c validation.Collector
	c.Add(validation.ValidateFamilyCode("code", code, h.minCodeLength))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	doc, err := h.store.CreateFamily(r.Context(), code, types.DefaultSharedData())
	if err != nil {
		slog.Error("create family failed", "error", err, "code", code)
		MapStoreError(w, r, err)
		return
	}
	h.metrics.FamiliesCreatedTotal.Inc()
	slog.Info("family created", "code", code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(FamilyResponse{Code: code, Created: doc.Created})
}

// GetFamily handles GET /api/v1/families/{code}. This is the existence
// check: 200 when the namespace exists, 404 problem when it does not.
func (h *Handler) GetFamily(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	created, err := h.store.CreatedAt(r.Context(), code)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FamilyResponse{Code: code, Created: created})
}

// GetSharedData handles GET /api/v1/families/{code}/data.
func (h *Handler) GetSharedData(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	data, err := h.store.GetSharedData(r.Context(), code)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// PutSharedData handles PUT /api/v1/families/{code}/data. The document is
// replaced wholesale and then broadcast to every subscriber of the code,
// including the writer's own subscription.
func (h *Handler) PutSharedData(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var data types.SharedData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if err := h.store.PutSharedData(r.Context(), code, data); err != nil {
		slog.Error("write shared data failed", "error", err, "code", code)
		MapStoreError(w, r, err)
		return
	}
	h.metrics.DocumentsWrittenTotal.Inc()

	reached := h.hub.Publish(code, data)
	h.metrics.BroadcastsTotal.Inc()
	slog.Debug("document broadcast", "code", code, "subscribers", reached)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(WriteAck{Code: code, Subscribers: reached})
}
