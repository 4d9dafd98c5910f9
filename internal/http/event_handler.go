package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Hazem7575/alamiya-sub000/internal/application"
)

type eventService interface {
	CreateEvent(ctx context.Context, params application.CreateEventParams) (application.Event, error)
	GetEvent(ctx context.Context, id string) (application.Event, error)
	UpdateEvent(ctx context.Context, params application.UpdateEventParams) (application.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, params application.ListEventsParams) ([]application.Event, error)
}

// EventHandler serves the /events endpoints.
type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

// NewEventHandler wires the event endpoints.
func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

// eventRequest is the mutation payload. Older clients send a single observer,
// sng, or generator value; those merge into the list fields.
type eventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	EventDate   string   `json:"event_date"`
	EventTime   string   `json:"event_time"`
	Status      string   `json:"status"`
	City        string   `json:"city"`
	Venue       string   `json:"venue"`
	EventType   string   `json:"event_type"`
	Observers   []string `json:"observers"`
	Sngs        []string `json:"sngs"`
	Generators  []string `json:"generators"`
	Observer    string   `json:"observer"`
	Sng         string   `json:"sng"`
	Generator   string   `json:"generator"`
}

func (req eventRequest) toInput() application.EventInput {
	return application.EventInput{
		Title:         req.Title,
		Description:   req.Description,
		EventDate:     req.EventDate,
		EventTime:     req.EventTime,
		Status:        req.Status,
		CityName:      req.City,
		VenueName:     req.Venue,
		EventTypeName: req.EventType,
		ObserverCodes: mergeLegacy(req.Observers, req.Observer),
		SngCodes:      mergeLegacy(req.Sngs, req.Sng),
		GenCodes:      mergeLegacy(req.Generators, req.Generator),
	}
}

func mergeLegacy(codes []string, single string) []string {
	single = strings.TrimSpace(single)
	if single == "" {
		return codes
	}
	for _, code := range codes {
		if strings.EqualFold(code, single) {
			return codes
		}
	}
	return append(append([]string(nil), codes...), single)
}

type eventResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	EventDate   string   `json:"event_date"`
	EventTime   string   `json:"event_time"`
	Status      string   `json:"status"`
	CityID      string   `json:"city_id"`
	City        string   `json:"city"`
	VenueID     string   `json:"venue_id,omitempty"`
	Venue       string   `json:"venue,omitempty"`
	EventTypeID string   `json:"event_type_id,omitempty"`
	EventType   string   `json:"event_type,omitempty"`
	Observers   []string `json:"observers"`
	Sngs        []string `json:"sngs"`
	Generators  []string `json:"generators"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toEventResponse(event application.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate,
		EventTime:   event.EventTime,
		Status:      event.Status,
		CityID:      event.CityID,
		City:        event.CityName,
		VenueID:     event.VenueID,
		Venue:       event.VenueName,
		EventTypeID: event.EventTypeID,
		EventType:   event.EventTypeName,
		Observers:   emptyIfNil(event.ObserverCodes),
		Sngs:        emptyIfNil(event.SngCodes),
		Generators:  emptyIfNil(event.GenCodes),
		CreatedAt:   event.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   event.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Create handles POST /events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), application.CreateEventParams{Input: req.toInput()})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEventResponse(event))
}

// Get handles GET /events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := EventIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEventResponse(event))
}

// List handles GET /events with optional event_date, city_id, and status filters.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	events, err := h.service.ListEvents(r.Context(), application.ListEventsParams{
		EventDate: strings.TrimSpace(query.Get("event_date")),
		CityID:    strings.TrimSpace(query.Get("city_id")),
		Status:    strings.TrimSpace(query.Get("status")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, toEventResponse(event))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// Update handles PUT /events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := EventIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), application.UpdateEventParams{
		ID:    eventID,
		Input: req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEventResponse(event))
}

// Delete handles DELETE /events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := EventIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	if err := h.service.DeleteEvent(r.Context(), eventID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "event", "delete", "event_id", eventID).Info("event removed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
