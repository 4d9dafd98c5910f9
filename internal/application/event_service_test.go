package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/citygraph"
	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
	"github.com/Hazem7575/alamiya-sub000/internal/scheduler"
	"github.com/Hazem7575/alamiya-sub000/internal/testfixtures"
)

type stubEventRepo struct {
	events        map[string]Event
	timelines     map[string][]TimelineEntry
	timelineCalls []string
	createErr     error
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{
		events:    make(map[string]Event),
		timelines: make(map[string][]TimelineEntry),
	}
}

func (r *stubEventRepo) CreateEvent(_ context.Context, event Event) (Event, error) {
	if r.createErr != nil {
		return Event{}, r.createErr
	}
	r.events[event.ID] = event
	return event, nil
}

func (r *stubEventRepo) GetEvent(_ context.Context, id string) (Event, error) {
	event, ok := r.events[id]
	if !ok {
		return Event{}, persistence.ErrNotFound
	}
	return event, nil
}

func (r *stubEventRepo) UpdateEvent(_ context.Context, event Event) (Event, error) {
	if _, ok := r.events[event.ID]; !ok {
		return Event{}, persistence.ErrNotFound
	}
	r.events[event.ID] = event
	return event, nil
}

func (r *stubEventRepo) DeleteEvent(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *stubEventRepo) ListEvents(_ context.Context, _ ListEventsParams) ([]Event, error) {
	out := make([]Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event)
	}
	return out, nil
}

func (r *stubEventRepo) ListResourceTimeline(_ context.Context, resourceID, eventDate, excludeEventID string) ([]TimelineEntry, error) {
	r.timelineCalls = append(r.timelineCalls, resourceID+"|"+eventDate+"|"+excludeEventID)
	entries := make([]TimelineEntry, 0)
	for _, entry := range r.timelines[resourceID] {
		if entry.EventDate != eventDate {
			continue
		}
		if excludeEventID != "" && entry.EventID == excludeEventID {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type stubCatalog struct {
	cities     map[string]City
	venues     map[string]Venue
	eventTypes map[string]EventType
	resources  map[string]Resource
	byID       map[string]Resource
	nextID     int
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		cities:     make(map[string]City),
		venues:     make(map[string]Venue),
		eventTypes: make(map[string]EventType),
		resources:  make(map[string]Resource),
		byID:       make(map[string]Resource),
	}
}

func (c *stubCatalog) id(prefix string) string {
	c.nextID++
	return fmt.Sprintf("%s-%d", prefix, c.nextID)
}

func (c *stubCatalog) FindOrCreateCity(_ context.Context, name string) (City, error) {
	if city, ok := c.cities[name]; ok {
		return city, nil
	}
	city := City{ID: c.id("city"), Name: name, IsActive: true}
	c.cities[name] = city
	return city, nil
}

func (c *stubCatalog) GetCity(_ context.Context, id string) (City, error) {
	for _, city := range c.cities {
		if city.ID == id {
			return city, nil
		}
	}
	return City{}, ErrNotFound
}

func (c *stubCatalog) FindOrCreateVenue(_ context.Context, cityID, name string) (Venue, error) {
	key := cityID + "|" + name
	if venue, ok := c.venues[key]; ok {
		return venue, nil
	}
	venue := Venue{ID: c.id("venue"), Name: name, CityID: cityID}
	c.venues[key] = venue
	return venue, nil
}

func (c *stubCatalog) FindOrCreateEventType(_ context.Context, name string) (EventType, error) {
	if eventType, ok := c.eventTypes[name]; ok {
		return eventType, nil
	}
	eventType := EventType{ID: c.id("type"), Name: name}
	c.eventTypes[name] = eventType
	return eventType, nil
}

func (c *stubCatalog) FindOrCreateResource(_ context.Context, kind, code string) (Resource, error) {
	key := kind + "|" + code
	if resource, ok := c.resources[key]; ok {
		return resource, nil
	}
	resource := Resource{ID: c.id("res"), Kind: kind, Code: code, IsActive: true}
	c.resources[key] = resource
	c.byID[resource.ID] = resource
	return resource, nil
}

func (c *stubCatalog) GetResource(_ context.Context, id string) (Resource, error) {
	resource, ok := c.byID[id]
	if !ok {
		return Resource{}, ErrNotFound
	}
	return resource, nil
}

type stubTravel struct {
	graph *citygraph.Graph
}

func (s stubTravel) TravelGraph(_ context.Context) (scheduler.TravelTimes, error) {
	return s.graph, nil
}

type recordingNotifier struct {
	actions []ChangeAction
	events  []Event
}

func (n *recordingNotifier) Broadcast(action ChangeAction, event Event) {
	n.actions = append(n.actions, action)
	n.events = append(n.events, event)
}

func newTestEventService(repo *stubEventRepo, catalog *stubCatalog, travel stubTravel, notifier *recordingNotifier) *EventService {
	ids := testfixtures.NewIDGenerator("event")
	clock := testfixtures.NewClock(time.Time{})
	return NewEventService(repo, catalog, catalog, catalog, catalog, travel, notifier, ids.NextFunc(), clock.NowFunc(), nil)
}

func travelGraph(t *testing.T, edges ...citygraph.Edge) stubTravel {
	t.Helper()
	graph, err := citygraph.New(edges)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return stubTravel{graph: graph}
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()

	svc := newTestEventService(newStubEventRepo(), newStubCatalog(), travelGraph(t), &recordingNotifier{})

	_, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		EventDate: "not-a-date",
		EventTime: "25:99",
		Status:    "paused",
	}})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"title", "event_date", "event_time", "status", "city"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Errorf("expected field error for %q, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestCreateEventPersistsAndBroadcasts(t *testing.T) {
	t.Parallel()

	repo := newStubEventRepo()
	notifier := &recordingNotifier{}
	svc := newTestEventService(repo, newStubCatalog(), travelGraph(t), notifier)

	event, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		Title:         "Al Hilal vs Al Nassr",
		EventDate:     "2025-06-10",
		EventTime:     "18:00",
		CityName:      "Riyadh",
		VenueName:     "Kingdom Arena",
		EventTypeName: "match",
		ObserverCodes: []string{"OBS-1"},
		SngCodes:      []string{"SNG-1"},
		GenCodes:      []string{"GEN-1"},
	}})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if event.ID == "" {
		t.Fatal("expected generated event id")
	}
	if event.Status != "scheduled" {
		t.Errorf("expected default status scheduled, got %q", event.Status)
	}
	if len(event.ResourceIDs) != 3 {
		t.Errorf("expected 3 resource associations, got %v", event.ResourceIDs)
	}
	if len(event.ObserverCodes) != 1 || event.ObserverCodes[0] != "OBS-1" {
		t.Errorf("unexpected observer codes %v", event.ObserverCodes)
	}
	if len(notifier.actions) != 1 || notifier.actions[0] != ChangeCreated {
		t.Errorf("expected one created broadcast, got %v", notifier.actions)
	}
	if _, ok := repo.events[event.ID]; !ok {
		t.Error("event not persisted")
	}
}

func TestCreateEventRejectsTravelShortage(t *testing.T) {
	t.Parallel()

	catalog := newStubCatalog()
	riyadh, _ := catalog.FindOrCreateCity(context.Background(), "Riyadh")
	jeddah, _ := catalog.FindOrCreateCity(context.Background(), "Jeddah")
	sng, _ := catalog.FindOrCreateResource(context.Background(), "sng", "SNG-7")

	repo := newStubEventRepo()
	repo.timelines[sng.ID] = []TimelineEntry{{
		EventID:    "existing",
		EventTitle: "Morning shoot",
		EventDate:  "2025-06-10",
		EventTime:  "13:00",
		CityID:     riyadh.ID,
		CityName:   riyadh.Name,
	}}

	travel := travelGraph(t, citygraph.Edge{CityA: riyadh.ID, CityB: jeddah.ID, Hours: 5})
	svc := newTestEventService(repo, catalog, travel, &recordingNotifier{})

	_, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		Title:     "Evening match",
		EventDate: "2025-06-10",
		EventTime: "16:00",
		CityName:  "Jeddah",
		SngCodes:  []string{"SNG-7"},
	}})

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cErr.Verdict.Reason != scheduler.ReasonInsufficientTravelAfter {
		t.Errorf("expected travel-after rejection, got %s", cErr.Verdict.Reason)
	}
	if cErr.ResourceCode != "SNG-7" {
		t.Errorf("expected rejected code SNG-7, got %q", cErr.ResourceCode)
	}
	if got := cErr.Verdict.Details["shortage_hours"]; got != 2.0 {
		t.Errorf("expected shortage of 2 hours, got %v", got)
	}
}

func TestCreateEventObserverDailyLimit(t *testing.T) {
	t.Parallel()

	catalog := newStubCatalog()
	riyadh, _ := catalog.FindOrCreateCity(context.Background(), "Riyadh")
	observer, _ := catalog.FindOrCreateResource(context.Background(), "observer", "OBS-3")

	repo := newStubEventRepo()
	repo.timelines[observer.ID] = []TimelineEntry{{
		EventID:   "existing",
		EventDate: "2025-06-10",
		EventTime: "09:00",
		CityID:    riyadh.ID,
		CityName:  riyadh.Name,
	}}

	svc := newTestEventService(repo, catalog, travelGraph(t), &recordingNotifier{})

	_, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		Title:         "Second assignment",
		EventDate:     "2025-06-10",
		EventTime:     "20:00",
		CityName:      "Riyadh",
		ObserverCodes: []string{"OBS-3"},
	}})

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cErr.Verdict.Reason != scheduler.ReasonDailyObserverLimit {
		t.Errorf("expected daily limit rejection, got %s", cErr.Verdict.Reason)
	}
}

func TestCreateEventGeneratorsSkipValidation(t *testing.T) {
	t.Parallel()

	catalog := newStubCatalog()
	riyadh, _ := catalog.FindOrCreateCity(context.Background(), "Riyadh")
	generator, _ := catalog.FindOrCreateResource(context.Background(), "generator", "GEN-2")

	repo := newStubEventRepo()
	repo.timelines[generator.ID] = []TimelineEntry{{
		EventID:   "existing",
		EventDate: "2025-06-10",
		EventTime: "18:00",
		CityID:    riyadh.ID,
		CityName:  riyadh.Name,
	}}

	svc := newTestEventService(repo, catalog, travelGraph(t), &recordingNotifier{})

	event, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		Title:     "Same-time booking",
		EventDate: "2025-06-10",
		EventTime: "18:00",
		CityName:  "Riyadh",
		GenCodes:  []string{"GEN-2"},
	}})
	if err != nil {
		t.Fatalf("generator should never be conflict-checked: %v", err)
	}
	if len(repo.timelineCalls) != 0 {
		t.Errorf("expected no timeline reads for generators, got %v", repo.timelineCalls)
	}
	if len(event.GenCodes) != 1 {
		t.Errorf("expected generator association preserved, got %v", event.GenCodes)
	}
}

func TestCreateEventMalformedTimelineFailsClosed(t *testing.T) {
	t.Parallel()

	catalog := newStubCatalog()
	riyadh, _ := catalog.FindOrCreateCity(context.Background(), "Riyadh")
	sng, _ := catalog.FindOrCreateResource(context.Background(), "sng", "SNG-9")

	repo := newStubEventRepo()
	repo.timelines[sng.ID] = []TimelineEntry{{
		EventID:   "existing",
		EventDate: "2025-06-10",
		EventTime: "garbage",
		CityID:    riyadh.ID,
		CityName:  riyadh.Name,
	}}

	svc := newTestEventService(repo, catalog, travelGraph(t), &recordingNotifier{})

	_, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		Title:     "Checked booking",
		EventDate: "2025-06-10",
		EventTime: "18:00",
		CityName:  "Riyadh",
		SngCodes:  []string{"SNG-9"},
	}})

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cErr.Verdict.Reason != scheduler.ReasonInternalError {
		t.Errorf("expected internal_error rejection, got %s", cErr.Verdict.Reason)
	}
}

func TestUpdateEventSkipsRecheckWhenTimelineUnchanged(t *testing.T) {
	t.Parallel()

	catalog := newStubCatalog()
	repo := newStubEventRepo()
	svc := newTestEventService(repo, catalog, travelGraph(t), &recordingNotifier{})

	created, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		Title:     "Original title",
		EventDate: "2025-06-10",
		EventTime: "18:00",
		CityName:  "Riyadh",
		SngCodes:  []string{"SNG-1"},
	}})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	repo.timelineCalls = nil

	updated, err := svc.UpdateEvent(context.Background(), UpdateEventParams{ID: created.ID, Input: EventInput{
		Title:     "Renamed title",
		EventDate: "2025-06-10",
		EventTime: "18:00",
		CityName:  "Riyadh",
		SngCodes:  []string{"SNG-1"},
	}})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.Title != "Renamed title" {
		t.Errorf("title not replaced: %q", updated.Title)
	}
	if len(repo.timelineCalls) != 0 {
		t.Errorf("rename must not reread timelines, got %v", repo.timelineCalls)
	}
}

func TestUpdateEventExcludesOwnAssignments(t *testing.T) {
	t.Parallel()

	catalog := newStubCatalog()
	riyadh, _ := catalog.FindOrCreateCity(context.Background(), "Riyadh")
	sng, _ := catalog.FindOrCreateResource(context.Background(), "sng", "SNG-1")

	repo := newStubEventRepo()
	svc := newTestEventService(repo, catalog, travelGraph(t), &recordingNotifier{})

	created, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		Title:     "Shoot",
		EventDate: "2025-06-10",
		EventTime: "18:00",
		CityName:  "Riyadh",
		SngCodes:  []string{"SNG-1"},
	}})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	repo.timelines[sng.ID] = []TimelineEntry{{
		EventID:   created.ID,
		EventDate: "2025-06-10",
		EventTime: "18:00",
		CityID:    riyadh.ID,
		CityName:  riyadh.Name,
	}}

	// Same instant as its own stored assignment: without self-exclusion this
	// would report an exact-time conflict against itself.
	_, err = svc.UpdateEvent(context.Background(), UpdateEventParams{ID: created.ID, Input: EventInput{
		Title:     "Shoot",
		EventDate: "2025-06-10",
		EventTime: "19:00",
		CityName:  "Riyadh",
		SngCodes:  []string{"SNG-1"},
	}})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}

	want := sng.ID + "|2025-06-10|" + created.ID
	found := false
	for _, call := range repo.timelineCalls {
		if call == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected timeline read excluding %s, got %v", created.ID, repo.timelineCalls)
	}
}

func TestDeleteEventBroadcastsFinalState(t *testing.T) {
	t.Parallel()

	repo := newStubEventRepo()
	notifier := &recordingNotifier{}
	svc := newTestEventService(repo, newStubCatalog(), travelGraph(t), notifier)

	created, err := svc.CreateEvent(context.Background(), CreateEventParams{Input: EventInput{
		Title:         "Doomed event",
		EventDate:     "2025-06-10",
		CityName:      "Riyadh",
		ObserverCodes: []string{"OBS-1"},
	}})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if err := svc.DeleteEvent(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	if len(notifier.actions) != 2 || notifier.actions[1] != ChangeDeleted {
		t.Fatalf("expected deleted broadcast, got %v", notifier.actions)
	}
	last := notifier.events[1]
	if last.ID != created.ID || last.Title != "Doomed event" {
		t.Errorf("deleted broadcast should carry the final snapshot, got %+v", last)
	}
	if len(last.ObserverCodes) != 1 {
		t.Errorf("snapshot should carry decorated codes, got %v", last.ObserverCodes)
	}
	if _, ok := repo.events[created.ID]; ok {
		t.Error("event still persisted after delete")
	}
}
