package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Hazem7575/alamiya-sub000/internal/application"
)

type catalogService interface {
	FindOrCreateCity(ctx context.Context, name string) (application.City, error)
	ListCities(ctx context.Context, activeOnly bool) ([]application.City, error)
	SetCityActive(ctx context.Context, id string, active bool) (application.City, error)
	FindOrCreateResource(ctx context.Context, kind, code string) (application.Resource, error)
	ListResources(ctx context.Context, kind string) ([]application.Resource, error)
	SetResourceActive(ctx context.Context, id string, active bool) (application.Resource, error)
}

// CatalogHandler serves the /cities and /resources endpoints.
type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

// NewCatalogHandler wires the reference data endpoints.
func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type cityRequest struct {
	Name string `json:"name"`
}

type cityResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func toCityResponse(city application.City) cityResponse {
	return cityResponse{ID: city.ID, Name: city.Name, IsActive: city.IsActive}
}

type resourceRequest struct {
	Kind string `json:"kind"`
	Code string `json:"code"`
}

type resourceResponse struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

func toResourceResponse(resource application.Resource) resourceResponse {
	return resourceResponse{ID: resource.ID, Kind: resource.Kind, Code: resource.Code, IsActive: resource.IsActive}
}

type activeRequest struct {
	IsActive bool `json:"is_active"`
}

// CreateCity handles POST /cities. Resolution is find-or-create, so posting an
// existing name returns the existing row.
func (h *CatalogHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req cityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	city, err := h.service.FindOrCreateCity(r.Context(), req.Name)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCityResponse(city))
}

// ListCities handles GET /cities with an optional active=true filter.
func (h *CatalogHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activeOnly := strings.EqualFold(r.URL.Query().Get("active"), "true")
	cities, err := h.service.ListCities(r.Context(), activeOnly)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]cityResponse, 0, len(cities))
	for _, city := range cities {
		out = append(out, toCityResponse(city))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// UpdateCity handles PUT /cities/{id}, toggling participation in coverage views.
func (h *CatalogHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	cityID, ok := CityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(cityID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCityID)
		return
	}

	var req activeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	city, err := h.service.SetCityActive(r.Context(), cityID, req.IsActive)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCityResponse(city))
}

// CreateResource handles POST /resources with the same find-or-create
// semantics as cities.
func (h *CatalogHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	resource, err := h.service.FindOrCreateResource(r.Context(), req.Kind, req.Code)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toResourceResponse(resource))
}

// ListResources handles GET /resources with an optional kind filter.
func (h *CatalogHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resources, err := h.service.ListResources(r.Context(), strings.TrimSpace(r.URL.Query().Get("kind")))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]resourceResponse, 0, len(resources))
	for _, resource := range resources {
		out = append(out, toResourceResponse(resource))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// UpdateResource handles PUT /resources/{id}, toggling availability for new
// assignments.
func (h *CatalogHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resourceID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(resourceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req activeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	resource, err := h.service.SetResourceActive(r.Context(), resourceID, req.IsActive)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toResourceResponse(resource))
}
