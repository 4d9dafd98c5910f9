package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Hazem7575/alamiya-sub000/internal/application"
)

type distanceService interface {
	CreateDistance(ctx context.Context, input application.DistanceInput) (application.Distance, error)
	UpdateDistance(ctx context.Context, params application.UpdateDistanceParams) (application.Distance, error)
	DeleteDistance(ctx context.Context, id string) error
	ListDistances(ctx context.Context) ([]application.Distance, error)
	BatchUpsert(ctx context.Context, inputs []application.DistanceInput) (application.BatchUpsertResult, error)
	Matrix(ctx context.Context) (application.DistanceMatrix, error)
	MissingPairs(ctx context.Context) ([]application.MissingPair, error)
}

// DistanceHandler serves the /distances endpoints.
type DistanceHandler struct {
	service   distanceService
	responder responder
	logger    *slog.Logger
}

// NewDistanceHandler wires the distance endpoints.
func NewDistanceHandler(service distanceService, logger *slog.Logger) *DistanceHandler {
	return &DistanceHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type distanceRequest struct {
	CityA           string  `json:"city_a"`
	CityB           string  `json:"city_b"`
	TravelTimeHours float64 `json:"travel_time_hours"`
	Notes           string  `json:"notes"`
}

func (req distanceRequest) toInput() application.DistanceInput {
	return application.DistanceInput{
		CityAName:       req.CityA,
		CityBName:       req.CityB,
		TravelTimeHours: req.TravelTimeHours,
		Notes:           req.Notes,
	}
}

type distanceUpdateRequest struct {
	TravelTimeHours float64 `json:"travel_time_hours"`
	Notes           string  `json:"notes"`
}

type batchDistanceRequest struct {
	Distances []distanceRequest `json:"distances"`
}

type distanceResponse struct {
	ID              string  `json:"id"`
	CityAID         string  `json:"city_a_id"`
	CityA           string  `json:"city_a"`
	CityBID         string  `json:"city_b_id"`
	CityB           string  `json:"city_b"`
	TravelTimeHours float64 `json:"travel_time_hours"`
	Notes           string  `json:"notes,omitempty"`
}

func toDistanceResponse(distance application.Distance) distanceResponse {
	return distanceResponse{
		ID:              distance.ID,
		CityAID:         distance.CityA,
		CityA:           distance.CityAName,
		CityBID:         distance.CityB,
		CityB:           distance.CityBName,
		TravelTimeHours: distance.TravelTimeHours,
		Notes:           distance.Notes,
	}
}

type batchResponse struct {
	Created int                `json:"created"`
	Updated int                `json:"updated"`
	Errors  []batchErrorDetail `json:"errors"`
}

type batchErrorDetail struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type matrixResponse struct {
	Cities []cityResponse `json:"cities"`
	Matrix [][]*float64   `json:"matrix"`
}

type missingPairResponse struct {
	CityAID string `json:"city_a_id"`
	CityA   string `json:"city_a"`
	CityBID string `json:"city_b_id"`
	CityB   string `json:"city_b"`
}

// Create handles POST /distances.
func (h *DistanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req distanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	distance, err := h.service.CreateDistance(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toDistanceResponse(distance))
}

// List handles GET /distances.
func (h *DistanceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	distances, err := h.service.ListDistances(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]distanceResponse, 0, len(distances))
	for _, distance := range distances {
		out = append(out, toDistanceResponse(distance))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// Update handles PUT /distances/{id}. The city pair is immutable; only hours
// and notes change.
func (h *DistanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	distanceID, ok := DistanceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(distanceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDistanceID)
		return
	}

	var req distanceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	distance, err := h.service.UpdateDistance(r.Context(), application.UpdateDistanceParams{
		ID:              distanceID,
		TravelTimeHours: req.TravelTimeHours,
		Notes:           req.Notes,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDistanceResponse(distance))
}

// Delete handles DELETE /distances/{id}.
func (h *DistanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	distanceID, ok := DistanceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(distanceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDistanceID)
		return
	}

	if err := h.service.DeleteDistance(r.Context(), distanceID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Batch handles POST /distances/batch.
func (h *DistanceHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req batchDistanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	inputs := make([]application.DistanceInput, 0, len(req.Distances))
	for _, row := range req.Distances {
		inputs = append(inputs, row.toInput())
	}

	result, err := h.service.BatchUpsert(r.Context(), inputs)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := batchResponse{Created: result.Created, Updated: result.Updated, Errors: []batchErrorDetail{}}
	for _, rowErr := range result.Errors {
		out.Errors = append(out.Errors, batchErrorDetail{Index: rowErr.Index, Message: rowErr.Message})
	}

	handlerLogger(r.Context(), h.logger, "distance", "batch").Info("batch import finished",
		"created", out.Created, "updated", out.Updated, "rejected", len(out.Errors))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// Matrix handles GET /distances/matrix.
func (h *DistanceHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	matrix, err := h.service.Matrix(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := matrixResponse{Cities: make([]cityResponse, 0, len(matrix.Cities)), Matrix: matrix.Cells}
	for _, city := range matrix.Cities {
		out.Cities = append(out.Cities, toCityResponse(city))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// Missing handles GET /distances/missing.
func (h *DistanceHandler) Missing(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	pairs, err := h.service.MissingPairs(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]missingPairResponse, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, missingPairResponse{
			CityAID: pair.CityA,
			CityA:   pair.CityAName,
			CityBID: pair.CityB,
			CityB:   pair.CityBName,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}
