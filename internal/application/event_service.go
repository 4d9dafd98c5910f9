package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
	"github.com/Hazem7575/alamiya-sub000/internal/scheduler"
)

// eventZone fixes the wall-clock zone all event instants are interpreted in.
var eventZone = time.FixedZone("AST", 3*60*60)

// combineInstant joins the stored date and time columns into one instant.
func combineInstant(eventDate, eventTime string) (time.Time, error) {
	if eventTime == "" {
		eventTime = "00:00"
	}
	return time.ParseInLocation("2006-01-02 15:04", eventDate+" "+eventTime, eventZone)
}

// EventRepository captures the persistence interactions needed by the service.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter ListEventsParams) ([]Event, error)
	ListResourceTimeline(ctx context.Context, resourceID, eventDate, excludeEventID string) ([]TimelineEntry, error)
}

// CityDirectory resolves cities by name, creating missing ones.
type CityDirectory interface {
	FindOrCreateCity(ctx context.Context, name string) (City, error)
	GetCity(ctx context.Context, id string) (City, error)
}

// VenueDirectory resolves venues inside a city, creating missing ones.
type VenueDirectory interface {
	FindOrCreateVenue(ctx context.Context, cityID, name string) (Venue, error)
}

// EventTypeDirectory resolves event categories, creating missing ones.
type EventTypeDirectory interface {
	FindOrCreateEventType(ctx context.Context, name string) (EventType, error)
}

// ResourceDirectory resolves resources by kind and code, creating missing ones.
type ResourceDirectory interface {
	FindOrCreateResource(ctx context.Context, kind, code string) (Resource, error)
	GetResource(ctx context.Context, id string) (Resource, error)
}

// TravelTimeSource supplies the current travel-time graph.
type TravelTimeSource interface {
	TravelGraph(ctx context.Context) (scheduler.TravelTimes, error)
}

// ChangeNotifier receives committed event mutations. Implementations must not
// block; delivery is best effort and never fails the mutation.
type ChangeNotifier interface {
	Broadcast(action ChangeAction, event Event)
}

// EventService orchestrates validation and persistence for event operations.
type EventService struct {
	events      EventRepository
	cities      CityDirectory
	venues      VenueDirectory
	eventTypes  EventTypeDirectory
	resources   ResourceDirectory
	travel      TravelTimeSource
	notifier    ChangeNotifier
	locks       *timelineLocks
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEventService wires dependencies for event operations.
func NewEventService(events EventRepository, cities CityDirectory, venues VenueDirectory, eventTypes EventTypeDirectory, resources ResourceDirectory, travel TravelTimeSource, notifier ChangeNotifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EventService{
		events:      events,
		cities:      cities,
		venues:      venues,
		eventTypes:  eventTypes,
		resources:   resources,
		travel:      travel,
		notifier:    notifier,
		locks:       newTimelineLocks(),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// resolvedAssignments groups the resources an input resolved to, split into
// the kinds that undergo scheduling validation and the kinds that do not.
type resolvedAssignments struct {
	validated []Resource
	passive   []Resource
}

func (r resolvedAssignments) allIDs() []string {
	ids := make([]string, 0, len(r.validated)+len(r.passive))
	for _, res := range r.validated {
		ids = append(ids, res.ID)
	}
	for _, res := range r.passive {
		ids = append(ids, res.ID)
	}
	return ids
}

// CreateEvent validates the request, runs scheduling checks for every observer
// and SNG, and persists the event when all of them pass.
func (s *EventService) CreateEvent(ctx context.Context, params CreateEventParams) (Event, error) {
	if s == nil {
		return Event{}, fmt.Errorf("EventService is nil")
	}
	input := normalizeEventInput(params.Input)

	vErr := &ValidationError{}
	validateEventCore(input, vErr)
	if vErr.HasErrors() {
		return Event{}, vErr
	}

	event, assignments, err := s.resolveEventInput(ctx, input)
	if err != nil {
		return Event{}, err
	}

	release := s.locks.Acquire(timelineKeys(assignments.validated, input.EventDate))
	defer release()

	if err := s.checkAssignments(ctx, event, assignments.validated, ""); err != nil {
		return Event{}, err
	}

	now := s.now()
	event.ID = s.idGenerator()
	event.ResourceIDs = assignments.allIDs()
	event.CreatedAt = now
	event.UpdatedAt = now

	persisted, err := s.events.CreateEvent(ctx, event)
	if err != nil {
		return Event{}, mapEventRepoError(err)
	}
	decorateResourceCodes(&persisted, assignments)

	serviceLogger(ctx, s.logger, "event", "create", "event_id", persisted.ID).Info("event created",
		"event_date", persisted.EventDate, "city_id", persisted.CityID)
	s.broadcast(ChangeCreated, persisted)
	return persisted, nil
}

// GetEvent fetches one event with its resource codes decorated.
func (s *EventService) GetEvent(ctx context.Context, id string) (Event, error) {
	if id == "" {
		vErr := &ValidationError{}
		vErr.add("id", "id is required")
		return Event{}, vErr
	}
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return Event{}, mapEventRepoError(err)
	}
	if err := s.decorateFromIDs(ctx, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// ListEvents returns events matching the filter, newest ordering delegated to
// the repository.
func (s *EventService) ListEvents(ctx context.Context, params ListEventsParams) ([]Event, error) {
	vErr := &ValidationError{}
	if params.EventDate != "" {
		if _, err := time.Parse("2006-01-02", params.EventDate); err != nil {
			vErr.add("event_date", "event_date must use YYYY-MM-DD format")
		}
	}
	if params.Status != "" && !validStatus(params.Status) {
		vErr.add("status", "status is not a recognized value")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	events, err := s.events.ListEvents(ctx, params)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	for i := range events {
		if err := s.decorateFromIDs(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// UpdateEvent replaces an event. Scheduling checks rerun only when the new
// state moves the event in time or space or changes its resource set, and the
// event's own prior assignments are excluded from the timelines it is checked
// against.
func (s *EventService) UpdateEvent(ctx context.Context, params UpdateEventParams) (Event, error) {
	if s == nil {
		return Event{}, fmt.Errorf("EventService is nil")
	}
	if params.ID == "" {
		vErr := &ValidationError{}
		vErr.add("id", "id is required")
		return Event{}, vErr
	}

	existing, err := s.events.GetEvent(ctx, params.ID)
	if err != nil {
		return Event{}, mapEventRepoError(err)
	}

	input := normalizeEventInput(params.Input)
	vErr := &ValidationError{}
	validateEventCore(input, vErr)
	if vErr.HasErrors() {
		return Event{}, vErr
	}

	event, assignments, err := s.resolveEventInput(ctx, input)
	if err != nil {
		return Event{}, err
	}
	event.ID = existing.ID
	event.ResourceIDs = assignments.allIDs()
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = s.now()

	if needsConflictRecheck(existing, event) {
		release := s.locks.Acquire(timelineKeys(assignments.validated, event.EventDate))
		defer release()

		if err := s.checkAssignments(ctx, event, assignments.validated, event.ID); err != nil {
			return Event{}, err
		}
	}

	persisted, err := s.events.UpdateEvent(ctx, event)
	if err != nil {
		return Event{}, mapEventRepoError(err)
	}
	decorateResourceCodes(&persisted, assignments)

	serviceLogger(ctx, s.logger, "event", "update", "event_id", persisted.ID).Info("event updated")
	s.broadcast(ChangeUpdated, persisted)
	return persisted, nil
}

// DeleteEvent removes an event and broadcasts its final state.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		vErr := &ValidationError{}
		vErr.add("id", "id is required")
		return vErr
	}

	snapshot, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return mapEventRepoError(err)
	}
	if err := s.decorateFromIDs(ctx, &snapshot); err != nil {
		return err
	}

	if err := s.events.DeleteEvent(ctx, id); err != nil {
		return mapEventRepoError(err)
	}

	serviceLogger(ctx, s.logger, "event", "delete", "event_id", id).Info("event deleted")
	s.broadcast(ChangeDeleted, snapshot)
	return nil
}

func (s *EventService) resolveEventInput(ctx context.Context, input EventInput) (Event, resolvedAssignments, error) {
	city, err := s.cities.FindOrCreateCity(ctx, input.CityName)
	if err != nil {
		return Event{}, resolvedAssignments{}, err
	}

	event := Event{
		Title:       input.Title,
		Description: input.Description,
		EventDate:   input.EventDate,
		EventTime:   input.EventTime,
		Status:      input.Status,
		CityID:      city.ID,
		CityName:    city.Name,
	}

	if input.VenueName != "" {
		venue, err := s.venues.FindOrCreateVenue(ctx, city.ID, input.VenueName)
		if err != nil {
			return Event{}, resolvedAssignments{}, err
		}
		event.VenueID = venue.ID
		event.VenueName = venue.Name
	}
	if input.EventTypeName != "" {
		eventType, err := s.eventTypes.FindOrCreateEventType(ctx, input.EventTypeName)
		if err != nil {
			return Event{}, resolvedAssignments{}, err
		}
		event.EventTypeID = eventType.ID
		event.EventTypeName = eventType.Name
	}

	assignments := resolvedAssignments{}
	for _, code := range uniqueStrings(input.ObserverCodes) {
		resource, err := s.resources.FindOrCreateResource(ctx, "observer", code)
		if err != nil {
			return Event{}, resolvedAssignments{}, err
		}
		assignments.validated = append(assignments.validated, resource)
	}
	for _, code := range uniqueStrings(input.SngCodes) {
		resource, err := s.resources.FindOrCreateResource(ctx, "sng", code)
		if err != nil {
			return Event{}, resolvedAssignments{}, err
		}
		assignments.validated = append(assignments.validated, resource)
	}
	for _, code := range uniqueStrings(input.GenCodes) {
		resource, err := s.resources.FindOrCreateResource(ctx, "generator", code)
		if err != nil {
			return Event{}, resolvedAssignments{}, err
		}
		assignments.passive = append(assignments.passive, resource)
	}

	return event, assignments, nil
}

// checkAssignments runs the scheduling rules for every validated resource and
// stops at the first rejection.
func (s *EventService) checkAssignments(ctx context.Context, event Event, resources []Resource, excludeEventID string) error {
	if len(resources) == 0 {
		return nil
	}

	travel, err := s.travel.TravelGraph(ctx)
	if err != nil {
		return err
	}

	start, err := combineInstant(event.EventDate, event.EventTime)
	if err != nil {
		// Validation guarantees parsable inputs, so this only fires on
		// corrupted data. Reject rather than skip the checks.
		start = time.Time{}
	}
	proposal := scheduler.Proposal{CityID: event.CityID, CityName: event.CityName, Start: start}

	for _, resource := range resources {
		timeline, err := s.events.ListResourceTimeline(ctx, resource.ID, event.EventDate, excludeEventID)
		if err != nil {
			return mapEventRepoError(err)
		}

		existing := make([]scheduler.Assignment, 0, len(timeline))
		for _, entry := range timeline {
			entryStart, err := combineInstant(entry.EventDate, entry.EventTime)
			if err != nil {
				// Zero instant makes the validator fail closed.
				entryStart = time.Time{}
			}
			existing = append(existing, scheduler.Assignment{
				EventID:    entry.EventID,
				EventTitle: entry.EventTitle,
				CityID:     entry.CityID,
				CityName:   entry.CityName,
				Start:      entryStart,
			})
		}

		proposal.Kind = schedulerKind(resource.Kind)
		verdict := scheduler.Validate(existing, proposal, travel)
		if !verdict.Valid {
			serviceLogger(ctx, s.logger, "event", "validate",
				"resource_kind", resource.Kind, "resource_code", resource.Code).Info(
				"scheduling conflict", "error_type", string(verdict.Reason))
			return &ConflictError{
				ResourceKind: proposal.Kind,
				ResourceCode: resource.Code,
				Verdict:      verdict,
			}
		}
	}
	return nil
}

// decorateFromIDs fills the per-kind code slices from persisted resource IDs.
func (s *EventService) decorateFromIDs(ctx context.Context, event *Event) error {
	event.ObserverCodes = nil
	event.SngCodes = nil
	event.GenCodes = nil
	for _, id := range event.ResourceIDs {
		resource, err := s.resources.GetResource(ctx, id)
		if err != nil {
			return mapEventRepoError(err)
		}
		appendResourceCode(event, resource)
	}
	return nil
}

func (s *EventService) broadcast(action ChangeAction, event Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Broadcast(action, event)
}

func decorateResourceCodes(event *Event, assignments resolvedAssignments) {
	event.ObserverCodes = nil
	event.SngCodes = nil
	event.GenCodes = nil
	for _, resource := range assignments.validated {
		appendResourceCode(event, resource)
	}
	for _, resource := range assignments.passive {
		appendResourceCode(event, resource)
	}
}

func appendResourceCode(event *Event, resource Resource) {
	switch resource.Kind {
	case "observer":
		event.ObserverCodes = append(event.ObserverCodes, resource.Code)
	case "sng":
		event.SngCodes = append(event.SngCodes, resource.Code)
	case "generator":
		event.GenCodes = append(event.GenCodes, resource.Code)
	}
}

func schedulerKind(kind string) scheduler.ResourceKind {
	switch kind {
	case "observer":
		return scheduler.KindObserver
	case "sng":
		return scheduler.KindSng
	default:
		return scheduler.KindGenerator
	}
}

// timelineKeys builds the lock keys covering every validated resource on the
// event's day.
func timelineKeys(resources []Resource, eventDate string) []string {
	keys := make([]string, 0, len(resources))
	for _, resource := range resources {
		keys = append(keys, resource.ID+"|"+eventDate)
	}
	return keys
}

// needsConflictRecheck reports whether the replacement moves the event in time
// or space or swaps resources, which invalidates earlier scheduling verdicts.
func needsConflictRecheck(existing, updated Event) bool {
	if existing.EventDate != updated.EventDate ||
		existing.EventTime != updated.EventTime ||
		existing.CityID != updated.CityID {
		return true
	}
	before := sortStrings(uniqueStrings(existing.ResourceIDs))
	after := sortStrings(uniqueStrings(updated.ResourceIDs))
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i] != after[i] {
			return true
		}
	}
	return false
}

func normalizeEventInput(input EventInput) EventInput {
	input.Title = strings.TrimSpace(input.Title)
	input.CityName = strings.TrimSpace(input.CityName)
	input.VenueName = strings.TrimSpace(input.VenueName)
	input.EventTypeName = strings.TrimSpace(input.EventTypeName)
	if input.EventTime == "" {
		input.EventTime = "00:00"
	}
	if input.Status == "" {
		input.Status = "scheduled"
	}
	input.ObserverCodes = trimStrings(input.ObserverCodes)
	input.SngCodes = trimStrings(input.SngCodes)
	input.GenCodes = trimStrings(input.GenCodes)
	return input
}

func validateEventCore(input EventInput, vErr *ValidationError) {
	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.EventDate == "" {
		vErr.add("event_date", "event_date is required")
	} else if _, err := time.Parse("2006-01-02", input.EventDate); err != nil {
		vErr.add("event_date", "event_date must use YYYY-MM-DD format")
	}
	if _, err := time.Parse("15:04", input.EventTime); err != nil {
		vErr.add("event_time", "event_time must use HH:MM format")
	}
	if !validStatus(input.Status) {
		vErr.add("status", "status is not a recognized value")
	}
	if input.CityName == "" {
		vErr.add("city", "city is required")
	}
}

func mapEventRepoError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation), errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("event", "event references missing or invalid data")
		return vErr
	}
	return err
}

func uniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortStrings(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func trimStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
