package persistence

import "time"

// City is a graph node and the location reference for events and venues.
type City struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Venue is a named location inside a city.
type Venue struct {
	ID        string
	Name      string
	CityID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventType is a reference-data label for events (match, shoot, ...).
type EventType struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resource is an assignable physical unit: observer, SNG or generator,
// identified by a human-readable code unique within its kind.
type Resource struct {
	ID        string
	Kind      string
	Code      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CityDistance is a stored undirected travel-time edge. Rows are kept in
// canonical order (CityA < CityB) so the unique index covers both
// orientations of a pair.
type CityDistance struct {
	ID              string
	CityA           string
	CityB           string
	TravelTimeHours float64
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Event is a scheduled production event with its resource associations.
type Event struct {
	ID          string
	Title       string
	Description string
	EventDate   string
	EventTime   string
	Status      string
	CityID      string
	VenueID     *string
	EventTypeID *string
	ResourceIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimelineEntry is one same-day assignment of a resource, joined with enough
// event and city detail for conflict diagnostics.
type TimelineEntry struct {
	EventID    string
	EventTitle string
	EventDate  string
	EventTime  string
	CityID     string
	CityName   string
}
