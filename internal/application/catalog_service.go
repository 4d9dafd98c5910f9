package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
)

// CityStore captures the persistence interactions for cities.
type CityStore interface {
	CreateCity(ctx context.Context, city City) (City, error)
	GetCity(ctx context.Context, id string) (City, error)
	GetCityByName(ctx context.Context, name string) (City, error)
	UpdateCity(ctx context.Context, city City) (City, error)
	ListCities(ctx context.Context, activeOnly bool) ([]City, error)
}

// VenueStore captures the persistence interactions for venues.
type VenueStore interface {
	CreateVenue(ctx context.Context, venue Venue) (Venue, error)
	GetVenueByName(ctx context.Context, cityID, name string) (Venue, error)
}

// EventTypeStore captures the persistence interactions for event categories.
type EventTypeStore interface {
	CreateEventType(ctx context.Context, eventType EventType) (EventType, error)
	GetEventTypeByName(ctx context.Context, name string) (EventType, error)
}

// ResourceStore captures the persistence interactions for resources.
type ResourceStore interface {
	CreateResource(ctx context.Context, resource Resource) (Resource, error)
	GetResource(ctx context.Context, id string) (Resource, error)
	GetResourceByCode(ctx context.Context, kind, code string) (Resource, error)
	UpdateResource(ctx context.Context, resource Resource) (Resource, error)
	ListResources(ctx context.Context, kind string) ([]Resource, error)
}

// ResourceKinds enumerates the accepted resource kind values.
var ResourceKinds = []string{"observer", "sng", "generator"}

func validResourceKind(kind string) bool {
	for _, k := range ResourceKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// CatalogService manages the reference data events hang off: cities, venues,
// event types, and resources. Lookups by natural key create missing rows so
// imports and event input never fail on unknown names.
type CatalogService struct {
	cities      CityStore
	venues      VenueStore
	eventTypes  EventTypeStore
	resources   ResourceStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCatalogService wires dependencies for reference data operations.
func NewCatalogService(cities CityStore, venues VenueStore, eventTypes EventTypeStore, resources ResourceStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{
		cities:      cities,
		venues:      venues,
		eventTypes:  eventTypes,
		resources:   resources,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// FindOrCreateCity looks a city up by name, creating it when missing. Lookups
// are case insensitive, so "Riyadh" and "riyadh" resolve to the same row.
func (s *CatalogService) FindOrCreateCity(ctx context.Context, name string) (City, error) {
	if s == nil {
		return City{}, fmt.Errorf("CatalogService is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("city", "city name is required")
		return City{}, vErr
	}

	city, err := s.cities.GetCityByName(ctx, name)
	if err == nil {
		return city, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return City{}, mapEventRepoError(err)
	}

	created, err := s.cities.CreateCity(ctx, City{ID: s.idGenerator(), Name: name, IsActive: true})
	if err == nil {
		serviceLogger(ctx, s.logger, "catalog", "create_city", "city_id", created.ID).Info("city created", "name", created.Name)
		return created, nil
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		// Concurrent request created it first.
		return s.cities.GetCityByName(ctx, name)
	}
	return City{}, mapEventRepoError(err)
}

// GetCity fetches one city by id.
func (s *CatalogService) GetCity(ctx context.Context, id string) (City, error) {
	city, err := s.cities.GetCity(ctx, id)
	if err != nil {
		return City{}, mapEventRepoError(err)
	}
	return city, nil
}

// ListCities returns cities, optionally limited to active ones.
func (s *CatalogService) ListCities(ctx context.Context, activeOnly bool) ([]City, error) {
	cities, err := s.cities.ListCities(ctx, activeOnly)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	return cities, nil
}

// SetCityActive flips whether a city participates in matrix and coverage views.
func (s *CatalogService) SetCityActive(ctx context.Context, id string, active bool) (City, error) {
	city, err := s.cities.GetCity(ctx, id)
	if err != nil {
		return City{}, mapEventRepoError(err)
	}
	city.IsActive = active
	updated, err := s.cities.UpdateCity(ctx, city)
	if err != nil {
		return City{}, mapEventRepoError(err)
	}
	return updated, nil
}

// FindOrCreateVenue looks a venue up by name within a city, creating it when
// missing.
func (s *CatalogService) FindOrCreateVenue(ctx context.Context, cityID, name string) (Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" || cityID == "" {
		vErr := &ValidationError{}
		if name == "" {
			vErr.add("venue", "venue name is required")
		}
		if cityID == "" {
			vErr.add("city", "city is required")
		}
		return Venue{}, vErr
	}

	venue, err := s.venues.GetVenueByName(ctx, cityID, name)
	if err == nil {
		return venue, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return Venue{}, mapEventRepoError(err)
	}

	created, err := s.venues.CreateVenue(ctx, Venue{ID: s.idGenerator(), Name: name, CityID: cityID})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return s.venues.GetVenueByName(ctx, cityID, name)
	}
	return Venue{}, mapEventRepoError(err)
}

// FindOrCreateEventType looks an event category up by name, creating it when
// missing.
func (s *CatalogService) FindOrCreateEventType(ctx context.Context, name string) (EventType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("event_type", "event type name is required")
		return EventType{}, vErr
	}

	eventType, err := s.eventTypes.GetEventTypeByName(ctx, name)
	if err == nil {
		return eventType, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return EventType{}, mapEventRepoError(err)
	}

	created, err := s.eventTypes.CreateEventType(ctx, EventType{ID: s.idGenerator(), Name: name})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return s.eventTypes.GetEventTypeByName(ctx, name)
	}
	return EventType{}, mapEventRepoError(err)
}

// FindOrCreateResource looks a resource up by kind and code, creating it when
// missing. Codes are case insensitive within a kind.
func (s *CatalogService) FindOrCreateResource(ctx context.Context, kind, code string) (Resource, error) {
	code = strings.TrimSpace(code)
	vErr := &ValidationError{}
	if !validResourceKind(kind) {
		vErr.add("kind", "kind must be observer, sng, or generator")
	}
	if code == "" {
		vErr.add("code", "code is required")
	}
	if vErr.HasErrors() {
		return Resource{}, vErr
	}

	resource, err := s.resources.GetResourceByCode(ctx, kind, code)
	if err == nil {
		return resource, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return Resource{}, mapEventRepoError(err)
	}

	created, err := s.resources.CreateResource(ctx, Resource{ID: s.idGenerator(), Kind: kind, Code: code, IsActive: true})
	if err == nil {
		serviceLogger(ctx, s.logger, "catalog", "create_resource", "resource_id", created.ID).Info("resource created",
			"kind", created.Kind, "code", created.Code)
		return created, nil
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return s.resources.GetResourceByCode(ctx, kind, code)
	}
	return Resource{}, mapEventRepoError(err)
}

// GetResource fetches one resource by id.
func (s *CatalogService) GetResource(ctx context.Context, id string) (Resource, error) {
	resource, err := s.resources.GetResource(ctx, id)
	if err != nil {
		return Resource{}, mapEventRepoError(err)
	}
	return resource, nil
}

// ListResources returns resources, optionally limited to one kind.
func (s *CatalogService) ListResources(ctx context.Context, kind string) ([]Resource, error) {
	if kind != "" && !validResourceKind(kind) {
		vErr := &ValidationError{}
		vErr.add("kind", "kind must be observer, sng, or generator")
		return nil, vErr
	}
	resources, err := s.resources.ListResources(ctx, kind)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	return resources, nil
}

// SetResourceActive flips whether a resource may take new assignments.
func (s *CatalogService) SetResourceActive(ctx context.Context, id string, active bool) (Resource, error) {
	resource, err := s.resources.GetResource(ctx, id)
	if err != nil {
		return Resource{}, mapEventRepoError(err)
	}
	resource.IsActive = active
	updated, err := s.resources.UpdateResource(ctx, resource)
	if err != nil {
		return Resource{}, mapEventRepoError(err)
	}
	return updated, nil
}
