package application

import "time"

// Event is the application level view of a production event together with its
// assigned resources. ResourceIDs holds the persisted associations while the
// per-kind code slices are decorated for callers.
type Event struct {
	ID            string
	Title         string
	Description   string
	EventDate     string
	EventTime     string
	Status        string
	CityID        string
	CityName      string
	VenueID       string
	VenueName     string
	EventTypeID   string
	EventTypeName string
	ResourceIDs   []string
	ObserverCodes []string
	SngCodes      []string
	GenCodes      []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EventInput carries caller supplied fields for creating or replacing an event.
// Cities, venues, event types, and resources are referenced by name or code and
// resolved (creating missing rows) during orchestration.
type EventInput struct {
	Title         string
	Description   string
	EventDate     string
	EventTime     string
	Status        string
	CityName      string
	VenueName     string
	EventTypeName string
	ObserverCodes []string
	SngCodes      []string
	GenCodes      []string
}

// CreateEventParams wraps input for CreateEvent.
type CreateEventParams struct {
	Input EventInput
}

// UpdateEventParams wraps input for UpdateEvent.
type UpdateEventParams struct {
	ID    string
	Input EventInput
}

// ListEventsParams narrows ListEvents output. Empty fields are ignored.
type ListEventsParams struct {
	EventDate string
	CityID    string
	Status    string
}

// City is the application level view of a city.
type City struct {
	ID       string
	Name     string
	IsActive bool
}

// Venue is the application level view of a venue within a city.
type Venue struct {
	ID     string
	Name   string
	CityID string
}

// EventType is the application level view of an event category.
type EventType struct {
	ID   string
	Name string
}

// Resource is the application level view of an assignable resource.
type Resource struct {
	ID       string
	Kind     string
	Code     string
	IsActive bool
}

// Distance is a symmetric travel-time edge between two cities. CityA and CityB
// are stored in canonical order so each pair appears exactly once.
type Distance struct {
	ID              string
	CityA           string
	CityAName       string
	CityB           string
	CityBName       string
	TravelTimeHours float64
	Notes           string
}

// DistanceInput carries caller supplied fields for one travel-time edge.
type DistanceInput struct {
	CityAName       string
	CityBName       string
	TravelTimeHours float64
	Notes           string
}

// BatchUpsertResult summarizes a bulk distance import.
type BatchUpsertResult struct {
	Created int
	Updated int
	Errors  []BatchRowError
}

// BatchRowError reports a rejected row from a bulk distance import.
type BatchRowError struct {
	Index   int
	Message string
}

// DistanceMatrix is a dense symmetric travel-time matrix over the listed
// cities. Cells[i][j] is nil when no edge is recorded for that pair.
type DistanceMatrix struct {
	Cities []City
	Cells  [][]*float64
}

// MissingPair names two active cities with no recorded travel time.
type MissingPair struct {
	CityA     string
	CityAName string
	CityB     string
	CityBName string
}

// TimelineEntry is one assignment already booked on a resource for a day.
type TimelineEntry struct {
	EventID    string
	EventTitle string
	EventDate  string
	EventTime  string
	CityID     string
	CityName   string
}

// ChangeAction labels a broadcast mutation.
type ChangeAction string

const (
	// ChangeCreated signals a newly persisted event.
	ChangeCreated ChangeAction = "created"
	// ChangeUpdated signals a replaced event.
	ChangeUpdated ChangeAction = "updated"
	// ChangeDeleted signals a removed event.
	ChangeDeleted ChangeAction = "deleted"
)

// EventStatuses enumerates the accepted event status values.
var EventStatuses = []string{"scheduled", "confirmed", "in_progress", "completed", "cancelled"}

func validStatus(status string) bool {
	for _, s := range EventStatuses {
		if s == status {
			return true
		}
	}
	return false
}
