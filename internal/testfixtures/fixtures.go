// Package testfixtures provides deterministic time, identifier, and domain
// record builders shared by tests across packages.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
)

var (
	cityCounter     uint64
	resourceCounter uint64
	eventCounter    uint64
	distanceCounter uint64
)

var referenceTime = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// CityOption configures the generated city fixture.
type CityOption func(*persistence.City)

// CityID overrides the generated identifier.
func CityID(id string) CityOption {
	return func(c *persistence.City) { c.ID = id }
}

// CityName overrides the generated city name.
func CityName(name string) CityOption {
	return func(c *persistence.City) { c.Name = name }
}

// CityInactive marks the city inactive.
func CityInactive() CityOption {
	return func(c *persistence.City) { c.IsActive = false }
}

// NewCity returns a deterministic city record with optional overrides.
func NewCity(opts ...CityOption) persistence.City {
	idx := atomic.AddUint64(&cityCounter, 1)
	city := persistence.City{
		ID:        fmt.Sprintf("city-%03d", idx),
		Name:      fmt.Sprintf("City %03d", idx),
		IsActive:  true,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&city)
	}
	return city
}

// ResourceOption configures the generated resource fixture.
type ResourceOption func(*persistence.Resource)

// ResourceID overrides the generated identifier.
func ResourceID(id string) ResourceOption {
	return func(r *persistence.Resource) { r.ID = id }
}

// ResourceKind overrides the generated resource kind.
func ResourceKind(kind string) ResourceOption {
	return func(r *persistence.Resource) { r.Kind = kind }
}

// ResourceCode overrides the generated resource code.
func ResourceCode(code string) ResourceOption {
	return func(r *persistence.Resource) { r.Code = code }
}

// NewResource returns a deterministic observer resource with optional overrides.
func NewResource(opts ...ResourceOption) persistence.Resource {
	idx := atomic.AddUint64(&resourceCounter, 1)
	resource := persistence.Resource{
		ID:        fmt.Sprintf("res-%03d", idx),
		Kind:      "observer",
		Code:      fmt.Sprintf("OBS-%03d", idx),
		IsActive:  true,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&resource)
	}
	return resource
}

// EventOption configures the generated event fixture.
type EventOption func(*persistence.Event)

// EventID overrides the generated identifier.
func EventID(id string) EventOption {
	return func(e *persistence.Event) { e.ID = id }
}

// EventTitle overrides the generated title.
func EventTitle(title string) EventOption {
	return func(e *persistence.Event) { e.Title = title }
}

// EventAt overrides the event date and time.
func EventAt(date, clock string) EventOption {
	return func(e *persistence.Event) {
		e.EventDate = date
		e.EventTime = clock
	}
}

// EventInCity binds the event to a city.
func EventInCity(cityID string) EventOption {
	return func(e *persistence.Event) { e.CityID = cityID }
}

// EventWithResources sets the associated resource IDs.
func EventWithResources(ids ...string) EventOption {
	return func(e *persistence.Event) { e.ResourceIDs = ids }
}

// EventStatus overrides the event status.
func EventStatus(status string) EventOption {
	return func(e *persistence.Event) { e.Status = status }
}

// NewEvent returns a deterministic event record with optional overrides. The
// city must be supplied via EventInCity before persisting.
func NewEvent(opts ...EventOption) persistence.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	event := persistence.Event{
		ID:        fmt.Sprintf("event-%03d", idx),
		Title:     fmt.Sprintf("Event %03d", idx),
		EventDate: "2025-06-10",
		EventTime: "18:00",
		Status:    "scheduled",
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// DistanceOption configures the generated travel-time edge.
type DistanceOption func(*persistence.CityDistance)

// DistanceNotes sets the free-text notes on the edge.
func DistanceNotes(notes string) DistanceOption {
	return func(d *persistence.CityDistance) { d.Notes = notes }
}

// NewDistance returns a deterministic travel-time edge between the two cities.
func NewDistance(cityA, cityB string, hours float64, opts ...DistanceOption) persistence.CityDistance {
	idx := atomic.AddUint64(&distanceCounter, 1)
	distance := persistence.CityDistance{
		ID:              fmt.Sprintf("dist-%03d", idx),
		CityA:           cityA,
		CityB:           cityB,
		TravelTimeHours: hours,
		CreatedAt:       referenceTime,
		UpdatedAt:       referenceTime,
	}
	for _, opt := range opts {
		opt(&distance)
	}
	return distance
}
