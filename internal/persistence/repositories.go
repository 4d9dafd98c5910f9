package persistence

import "context"

// CityRepository exposes CRUD and natural-key operations for cities.
type CityRepository interface {
	CreateCity(ctx context.Context, city City) error
	UpdateCity(ctx context.Context, city City) error
	GetCity(ctx context.Context, id string) (City, error)
	GetCityByName(ctx context.Context, name string) (City, error)
	ListCities(ctx context.Context, activeOnly bool) ([]City, error)
	DeleteCity(ctx context.Context, id string) error
}

// VenueRepository exposes CRUD and natural-key operations for venues.
type VenueRepository interface {
	CreateVenue(ctx context.Context, venue Venue) error
	GetVenue(ctx context.Context, id string) (Venue, error)
	GetVenueByName(ctx context.Context, cityID, name string) (Venue, error)
	ListVenues(ctx context.Context, cityID string) ([]Venue, error)
}

// EventTypeRepository exposes CRUD and natural-key operations for event types.
type EventTypeRepository interface {
	CreateEventType(ctx context.Context, eventType EventType) error
	GetEventType(ctx context.Context, id string) (EventType, error)
	GetEventTypeByName(ctx context.Context, name string) (EventType, error)
	ListEventTypes(ctx context.Context) ([]EventType, error)
}

// ResourceRepository exposes CRUD and natural-key operations for resources.
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource Resource) error
	UpdateResource(ctx context.Context, resource Resource) error
	GetResource(ctx context.Context, id string) (Resource, error)
	GetResourceByCode(ctx context.Context, kind, code string) (Resource, error)
	ListResources(ctx context.Context, kind string) ([]Resource, error)
}

// DistanceRepository stores the undirected travel-time edges. Implementations
// canonicalise the pair ordering so duplicates are rejected in either
// orientation.
type DistanceRepository interface {
	CreateDistance(ctx context.Context, distance CityDistance) error
	UpdateDistance(ctx context.Context, distance CityDistance) error
	GetDistance(ctx context.Context, id string) (CityDistance, error)
	GetDistanceByPair(ctx context.Context, cityA, cityB string) (CityDistance, error)
	ListDistances(ctx context.Context) ([]CityDistance, error)
	DeleteDistance(ctx context.Context, id string) error
}

// EventFilter narrows event list queries.
type EventFilter struct {
	EventDate *string
	CityID    *string
	Status    *string
}

// EventRepository stores events and their resource associations, and answers
// the per-resource same-day timeline query the conflict validator runs on.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	UpdateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// ListResourceTimeline returns the events a resource is assigned to on the
	// given date, excluding excludeEventID when non-empty, ordered by time.
	ListResourceTimeline(ctx context.Context, resourceID, eventDate, excludeEventID string) ([]TimelineEntry, error)
}
