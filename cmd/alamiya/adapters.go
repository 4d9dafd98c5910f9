package main

import (
	"context"
	"errors"

	"github.com/Hazem7575/alamiya-sub000/internal/application"
	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
	"github.com/Hazem7575/alamiya-sub000/internal/persistence/sqlite"
)

// The application layer speaks its own models; these adapters translate them
// onto the sqlite repositories.

type eventRepositoryAdapter struct {
	events     *sqlite.EventRepository
	cities     *sqlite.CityRepository
	venues     *sqlite.VenueRepository
	eventTypes *sqlite.EventTypeRepository
}

func newEventRepositoryAdapter(pool *sqlite.ConnectionPool) *eventRepositoryAdapter {
	return &eventRepositoryAdapter{
		events:     sqlite.NewEventRepository(pool),
		cities:     sqlite.NewCityRepository(pool),
		venues:     sqlite.NewVenueRepository(pool),
		eventTypes: sqlite.NewEventTypeRepository(pool),
	}
}

func (a *eventRepositoryAdapter) CreateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	if err := a.events.CreateEvent(ctx, toPersistenceEvent(event)); err != nil {
		return application.Event{}, err
	}
	return a.GetEvent(ctx, event.ID)
}

func (a *eventRepositoryAdapter) GetEvent(ctx context.Context, id string) (application.Event, error) {
	stored, err := a.events.GetEvent(ctx, id)
	if err != nil {
		return application.Event{}, err
	}
	return a.enrich(ctx, stored)
}

func (a *eventRepositoryAdapter) UpdateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	if err := a.events.UpdateEvent(ctx, toPersistenceEvent(event)); err != nil {
		return application.Event{}, err
	}
	return a.GetEvent(ctx, event.ID)
}

func (a *eventRepositoryAdapter) DeleteEvent(ctx context.Context, id string) error {
	return a.events.DeleteEvent(ctx, id)
}

func (a *eventRepositoryAdapter) ListEvents(ctx context.Context, filter application.ListEventsParams) ([]application.Event, error) {
	models, err := a.events.ListEvents(ctx, persistence.EventFilter{
		EventDate: optional(filter.EventDate),
		CityID:    optional(filter.CityID),
		Status:    optional(filter.Status),
	})
	if err != nil {
		return nil, err
	}
	events := make([]application.Event, 0, len(models))
	for _, model := range models {
		event, err := a.enrich(ctx, model)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (a *eventRepositoryAdapter) ListResourceTimeline(ctx context.Context, resourceID, eventDate, excludeEventID string) ([]application.TimelineEntry, error) {
	models, err := a.events.ListResourceTimeline(ctx, resourceID, eventDate, excludeEventID)
	if err != nil {
		return nil, err
	}
	entries := make([]application.TimelineEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, application.TimelineEntry{
			EventID:    model.EventID,
			EventTitle: model.EventTitle,
			EventDate:  model.EventDate,
			EventTime:  model.EventTime,
			CityID:     model.CityID,
			CityName:   model.CityName,
		})
	}
	return entries, nil
}

// enrich resolves referenced names so API responses carry them without extra
// round trips from the service layer.
func (a *eventRepositoryAdapter) enrich(ctx context.Context, model persistence.Event) (application.Event, error) {
	event := application.Event{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		EventDate:   model.EventDate,
		EventTime:   model.EventTime,
		Status:      model.Status,
		CityID:      model.CityID,
		ResourceIDs: model.ResourceIDs,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if city, err := a.cities.GetCity(ctx, model.CityID); err == nil {
		event.CityName = city.Name
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return application.Event{}, err
	}

	if model.VenueID != nil {
		event.VenueID = *model.VenueID
		if venue, err := a.venues.GetVenue(ctx, *model.VenueID); err == nil {
			event.VenueName = venue.Name
		} else if !errors.Is(err, persistence.ErrNotFound) {
			return application.Event{}, err
		}
	}
	if model.EventTypeID != nil {
		event.EventTypeID = *model.EventTypeID
		if eventType, err := a.eventTypes.GetEventType(ctx, *model.EventTypeID); err == nil {
			event.EventTypeName = eventType.Name
		} else if !errors.Is(err, persistence.ErrNotFound) {
			return application.Event{}, err
		}
	}
	return event, nil
}

func toPersistenceEvent(event application.Event) persistence.Event {
	return persistence.Event{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate,
		EventTime:   event.EventTime,
		Status:      event.Status,
		CityID:      event.CityID,
		VenueID:     optional(event.VenueID),
		EventTypeID: optional(event.EventTypeID),
		ResourceIDs: event.ResourceIDs,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

type cityStoreAdapter struct {
	repo *sqlite.CityRepository
}

func (a *cityStoreAdapter) CreateCity(ctx context.Context, city application.City) (application.City, error) {
	if err := a.repo.CreateCity(ctx, persistence.City{ID: city.ID, Name: city.Name, IsActive: city.IsActive}); err != nil {
		return application.City{}, err
	}
	return a.GetCity(ctx, city.ID)
}

func (a *cityStoreAdapter) GetCity(ctx context.Context, id string) (application.City, error) {
	stored, err := a.repo.GetCity(ctx, id)
	if err != nil {
		return application.City{}, err
	}
	return toApplicationCity(stored), nil
}

func (a *cityStoreAdapter) GetCityByName(ctx context.Context, name string) (application.City, error) {
	stored, err := a.repo.GetCityByName(ctx, name)
	if err != nil {
		return application.City{}, err
	}
	return toApplicationCity(stored), nil
}

func (a *cityStoreAdapter) UpdateCity(ctx context.Context, city application.City) (application.City, error) {
	if err := a.repo.UpdateCity(ctx, persistence.City{ID: city.ID, Name: city.Name, IsActive: city.IsActive}); err != nil {
		return application.City{}, err
	}
	return a.GetCity(ctx, city.ID)
}

func (a *cityStoreAdapter) ListCities(ctx context.Context, activeOnly bool) ([]application.City, error) {
	models, err := a.repo.ListCities(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	cities := make([]application.City, 0, len(models))
	for _, model := range models {
		cities = append(cities, toApplicationCity(model))
	}
	return cities, nil
}

func toApplicationCity(city persistence.City) application.City {
	return application.City{ID: city.ID, Name: city.Name, IsActive: city.IsActive}
}

type venueStoreAdapter struct {
	repo *sqlite.VenueRepository
}

func (a *venueStoreAdapter) CreateVenue(ctx context.Context, venue application.Venue) (application.Venue, error) {
	if err := a.repo.CreateVenue(ctx, persistence.Venue{ID: venue.ID, Name: venue.Name, CityID: venue.CityID}); err != nil {
		return application.Venue{}, err
	}
	return application.Venue{ID: venue.ID, Name: venue.Name, CityID: venue.CityID}, nil
}

func (a *venueStoreAdapter) GetVenueByName(ctx context.Context, cityID, name string) (application.Venue, error) {
	stored, err := a.repo.GetVenueByName(ctx, cityID, name)
	if err != nil {
		return application.Venue{}, err
	}
	return application.Venue{ID: stored.ID, Name: stored.Name, CityID: stored.CityID}, nil
}

type eventTypeStoreAdapter struct {
	repo *sqlite.EventTypeRepository
}

func (a *eventTypeStoreAdapter) CreateEventType(ctx context.Context, eventType application.EventType) (application.EventType, error) {
	if err := a.repo.CreateEventType(ctx, persistence.EventType{ID: eventType.ID, Name: eventType.Name}); err != nil {
		return application.EventType{}, err
	}
	return eventType, nil
}

func (a *eventTypeStoreAdapter) GetEventTypeByName(ctx context.Context, name string) (application.EventType, error) {
	stored, err := a.repo.GetEventTypeByName(ctx, name)
	if err != nil {
		return application.EventType{}, err
	}
	return application.EventType{ID: stored.ID, Name: stored.Name}, nil
}

type resourceStoreAdapter struct {
	repo *sqlite.ResourceRepository
}

func (a *resourceStoreAdapter) CreateResource(ctx context.Context, resource application.Resource) (application.Resource, error) {
	if err := a.repo.CreateResource(ctx, persistence.Resource{ID: resource.ID, Kind: resource.Kind, Code: resource.Code, IsActive: resource.IsActive}); err != nil {
		return application.Resource{}, err
	}
	return a.GetResource(ctx, resource.ID)
}

func (a *resourceStoreAdapter) GetResource(ctx context.Context, id string) (application.Resource, error) {
	stored, err := a.repo.GetResource(ctx, id)
	if err != nil {
		return application.Resource{}, err
	}
	return toApplicationResource(stored), nil
}

func (a *resourceStoreAdapter) GetResourceByCode(ctx context.Context, kind, code string) (application.Resource, error) {
	stored, err := a.repo.GetResourceByCode(ctx, kind, code)
	if err != nil {
		return application.Resource{}, err
	}
	return toApplicationResource(stored), nil
}

func (a *resourceStoreAdapter) UpdateResource(ctx context.Context, resource application.Resource) (application.Resource, error) {
	if err := a.repo.UpdateResource(ctx, persistence.Resource{ID: resource.ID, Kind: resource.Kind, Code: resource.Code, IsActive: resource.IsActive}); err != nil {
		return application.Resource{}, err
	}
	return a.GetResource(ctx, resource.ID)
}

func (a *resourceStoreAdapter) ListResources(ctx context.Context, kind string) ([]application.Resource, error) {
	models, err := a.repo.ListResources(ctx, kind)
	if err != nil {
		return nil, err
	}
	resources := make([]application.Resource, 0, len(models))
	for _, model := range models {
		resources = append(resources, toApplicationResource(model))
	}
	return resources, nil
}

func toApplicationResource(resource persistence.Resource) application.Resource {
	return application.Resource{ID: resource.ID, Kind: resource.Kind, Code: resource.Code, IsActive: resource.IsActive}
}

type distanceRepositoryAdapter struct {
	repo *sqlite.DistanceRepository
}

func (a *distanceRepositoryAdapter) CreateDistance(ctx context.Context, distance application.Distance) (application.Distance, error) {
	if err := a.repo.CreateDistance(ctx, toPersistenceDistance(distance)); err != nil {
		return application.Distance{}, err
	}
	return a.GetDistance(ctx, distance.ID)
}

func (a *distanceRepositoryAdapter) UpdateDistance(ctx context.Context, distance application.Distance) (application.Distance, error) {
	if err := a.repo.UpdateDistance(ctx, toPersistenceDistance(distance)); err != nil {
		return application.Distance{}, err
	}
	return a.GetDistance(ctx, distance.ID)
}

func (a *distanceRepositoryAdapter) GetDistance(ctx context.Context, id string) (application.Distance, error) {
	stored, err := a.repo.GetDistance(ctx, id)
	if err != nil {
		return application.Distance{}, err
	}
	return toApplicationDistance(stored), nil
}

func (a *distanceRepositoryAdapter) GetDistanceByPair(ctx context.Context, cityA, cityB string) (application.Distance, error) {
	stored, err := a.repo.GetDistanceByPair(ctx, cityA, cityB)
	if err != nil {
		return application.Distance{}, err
	}
	return toApplicationDistance(stored), nil
}

func (a *distanceRepositoryAdapter) ListDistances(ctx context.Context) ([]application.Distance, error) {
	models, err := a.repo.ListDistances(ctx)
	if err != nil {
		return nil, err
	}
	distances := make([]application.Distance, 0, len(models))
	for _, model := range models {
		distances = append(distances, toApplicationDistance(model))
	}
	return distances, nil
}

func (a *distanceRepositoryAdapter) DeleteDistance(ctx context.Context, id string) error {
	return a.repo.DeleteDistance(ctx, id)
}

func toPersistenceDistance(distance application.Distance) persistence.CityDistance {
	return persistence.CityDistance{
		ID:              distance.ID,
		CityA:           distance.CityA,
		CityB:           distance.CityB,
		TravelTimeHours: distance.TravelTimeHours,
		Notes:           distance.Notes,
	}
}

func toApplicationDistance(distance persistence.CityDistance) application.Distance {
	return application.Distance{
		ID:              distance.ID,
		CityA:           distance.CityA,
		CityB:           distance.CityB,
		TravelTimeHours: distance.TravelTimeHours,
		Notes:           distance.Notes,
	}
}
