// Package scheduler decides whether a field resource can take on a proposed
// event given its existing same-day assignments and the configured
// city-to-city travel times. It is pure: callers fetch the timeline and the
// travel graph, the package only evaluates the rules.
package scheduler

import (
	"fmt"
	"time"
)

// ResourceKind discriminates the schedulable resource types.
type ResourceKind string

const (
	// KindObserver is a field observer, limited to one assignment per calendar day.
	KindObserver ResourceKind = "observer"
	// KindSng is a satellite news-gathering unit, limited only by time and travel.
	KindSng ResourceKind = "sng"
	// KindGenerator is tracked for assignment but never conflict-validated.
	KindGenerator ResourceKind = "generator"
)

// ReasonCode is the machine-readable outcome of a validation run.
type ReasonCode string

const (
	// ReasonNone means the proposal is acceptable.
	ReasonNone ReasonCode = "none"
	// ReasonExactTimeConflict means an existing assignment shares the exact instant.
	ReasonExactTimeConflict ReasonCode = "exact_time_conflict"
	// ReasonDailyObserverLimit means the observer already has an assignment that day.
	ReasonDailyObserverLimit ReasonCode = "daily_observer_limit"
	// ReasonInsufficientTravelBefore means the gap before a later assignment is too short.
	ReasonInsufficientTravelBefore ReasonCode = "insufficient_travel_time_before"
	// ReasonInsufficientTravelAfter means the gap after an earlier assignment is too short.
	ReasonInsufficientTravelAfter ReasonCode = "insufficient_travel_time_after"
	// ReasonInternalError means the proposal could not be evaluated; treated as a
	// hard rejection so malformed input never slips through as approved.
	ReasonInternalError ReasonCode = "internal_error"
)

// Assignment is one existing same-day booking of the resource under test.
type Assignment struct {
	EventID    string
	EventTitle string
	CityID     string
	CityName   string
	Start      time.Time
}

// Proposal is the (resource, city, instant) tuple being validated.
type Proposal struct {
	Kind     ResourceKind
	CityID   string
	CityName string
	Start    time.Time
}

// TravelTimes answers direction-agnostic city-to-city lookups. A false second
// return means no edge is configured, which the validator treats as
// unconstrained rather than as a failure.
type TravelTimes interface {
	TravelTime(cityA, cityB string) (float64, bool)
}

// Verdict is the structured accept/reject result for one proposal.
type Verdict struct {
	Valid   bool           `json:"valid"`
	Reason  ReasonCode     `json:"error_type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Accept builds an accepting verdict noting how many assignments were checked.
func Accept(checked int) Verdict {
	return Verdict{
		Valid:   true,
		Reason:  ReasonNone,
		Message: "no conflicts detected",
		Details: map[string]any{"same_day_assignments_checked": checked},
	}
}

// Reject builds a rejecting verdict.
func Reject(reason ReasonCode, message string, details map[string]any) Verdict {
	return Verdict{Valid: false, Reason: reason, Message: message, Details: details}
}

const instantLayout = "2006-01-02 15:04"

// Validate evaluates the rules in strict order, returning the first rejection.
//
// Rule order is deliberate and load-bearing: the daily observer limit
// pre-empts the exact-time and travel checks, so for observers those later
// rules only ever run against an empty timeline. Relaxing the limit to a
// warning layered on the finer-grained checks is a product decision; do not
// reorder casually.
func Validate(existing []Assignment, proposal Proposal, travel TravelTimes) Verdict {
	if proposal.Start.IsZero() {
		return Reject(ReasonInternalError, "proposal instant could not be determined", map[string]any{
			"city": proposal.CityName,
		})
	}

	for _, assignment := range existing {
		if assignment.Start.IsZero() {
			return Reject(ReasonInternalError, "existing assignment instant could not be determined", map[string]any{
				"conflicting_event":    assignment.EventTitle,
				"conflicting_event_id": assignment.EventID,
			})
		}
	}

	if len(existing) == 0 {
		return Accept(0)
	}

	if proposal.Kind == KindObserver {
		first := existing[0]
		return Reject(ReasonDailyObserverLimit,
			fmt.Sprintf("observer is already assigned to %q in %s on %s",
				first.EventTitle, first.CityName, first.Start.Format("2006-01-02")),
			map[string]any{
				"conflicting_event":       first.EventTitle,
				"conflicting_event_id":    first.EventID,
				"conflicting_event_city":  first.CityName,
				"conflicting_event_time":  first.Start.Format(instantLayout),
				"assignments_on_that_day": len(existing),
			})
	}

	for _, assignment := range existing {
		if assignment.Start.Equal(proposal.Start) {
			return Reject(ReasonExactTimeConflict,
				fmt.Sprintf("already assigned to %q in %s at %s",
					assignment.EventTitle, assignment.CityName, assignment.Start.Format(instantLayout)),
				map[string]any{
					"conflicting_event":      assignment.EventTitle,
					"conflicting_event_id":   assignment.EventID,
					"conflicting_event_city": assignment.CityName,
					"conflicting_time":       assignment.Start.Format(instantLayout),
				})
		}
	}

	for _, assignment := range existing {
		if assignment.CityID == proposal.CityID {
			continue
		}
		required, ok := travelLookup(travel, assignment.CityID, proposal.CityID)
		if !ok {
			// No edge configured for this pair: allow, the distance may simply
			// not have been entered yet.
			continue
		}

		gap := proposal.Start.Sub(assignment.Start).Hours()
		if gap >= 0 {
			// Proposal happens after the existing assignment; the resource must
			// travel from there to here. Ties are sufficient.
			if gap < required {
				return Reject(ReasonInsufficientTravelAfter,
					fmt.Sprintf("only %.1f hours after %q in %s, %.1f hours of travel required",
						gap, assignment.EventTitle, assignment.CityName, required),
					travelDetails(assignment, required, gap))
			}
			continue
		}

		available := -gap
		if available < required {
			return Reject(ReasonInsufficientTravelBefore,
				fmt.Sprintf("only %.1f hours before %q in %s, %.1f hours of travel required",
					available, assignment.EventTitle, assignment.CityName, required),
				travelDetails(assignment, required, available))
		}
	}

	return Accept(len(existing))
}

func travelLookup(travel TravelTimes, cityA, cityB string) (float64, bool) {
	if travel == nil {
		return 0, false
	}
	return travel.TravelTime(cityA, cityB)
}

func travelDetails(assignment Assignment, required, available float64) map[string]any {
	return map[string]any{
		"conflicting_event":      assignment.EventTitle,
		"conflicting_event_id":   assignment.EventID,
		"conflicting_event_city": assignment.CityName,
		"conflicting_event_time": assignment.Start.Format(instantLayout),
		"required_hours":         required,
		"available_hours":        available,
		"shortage_hours":         required - available,
	}
}
