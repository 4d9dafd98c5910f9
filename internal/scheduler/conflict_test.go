package scheduler

import (
	"testing"
	"time"
)

type travelStub struct {
	edges map[[2]string]float64
}

func newTravelStub() *travelStub {
	return &travelStub{edges: make(map[[2]string]float64)}
}

func (s *travelStub) set(a, b string, hours float64) *travelStub {
	if b < a {
		a, b = b, a
	}
	s.edges[[2]string{a, b}] = hours
	return s
}

func (s *travelStub) TravelTime(a, b string) (float64, bool) {
	if b < a {
		a, b = b, a
	}
	hours, ok := s.edges[[2]string{a, b}]
	return hours, ok
}

func instant(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.FixedZone("AST", 3*60*60))
	if err != nil {
		t.Fatalf("failed to parse instant %q: %v", value, err)
	}
	return parsed
}

func TestValidate_EmptyTimelineAccepts(t *testing.T) {
	t.Parallel()

	verdict := Validate(nil, Proposal{
		Kind:   KindObserver,
		CityID: "riyadh",
		Start:  instant(t, "2024-02-01 10:00"),
	}, newTravelStub())

	if !verdict.Valid {
		t.Fatalf("verdict = %+v; want valid", verdict)
	}
	if verdict.Reason != ReasonNone {
		t.Fatalf("reason = %s; want %s", verdict.Reason, ReasonNone)
	}
}

func TestValidate_DailyObserverLimit(t *testing.T) {
	t.Parallel()

	existing := []Assignment{{
		EventID:    "ev-1",
		EventTitle: "Riyadh Derby",
		CityID:     "riyadh",
		CityName:   "Riyadh",
		Start:      instant(t, "2024-02-01 10:00"),
	}}

	cases := []struct {
		name     string
		cityID   string
		proposed string
	}{
		{name: "same city different time", cityID: "riyadh", proposed: "2024-02-01 18:00"},
		{name: "different city", cityID: "jeddah", proposed: "2024-02-01 20:00"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			verdict := Validate(existing, Proposal{
				Kind:   KindObserver,
				CityID: tc.cityID,
				Start:  instant(t, tc.proposed),
			}, newTravelStub())

			if verdict.Valid {
				t.Fatalf("verdict = %+v; want rejection", verdict)
			}
			if verdict.Reason != ReasonDailyObserverLimit {
				t.Fatalf("reason = %s; want %s", verdict.Reason, ReasonDailyObserverLimit)
			}
		})
	}
}

// The daily limit must win even when the proposed instant collides exactly:
// observers never reach the exact-time rule while the limit is absolute.
func TestValidate_DailyLimitShortCircuitsExactTime(t *testing.T) {
	t.Parallel()

	existing := []Assignment{{
		EventID:    "ev-1",
		EventTitle: "Riyadh Derby",
		CityID:     "riyadh",
		CityName:   "Riyadh",
		Start:      instant(t, "2024-02-01 10:00"),
	}}

	verdict := Validate(existing, Proposal{
		Kind:   KindObserver,
		CityID: "riyadh",
		Start:  instant(t, "2024-02-01 10:00"),
	}, newTravelStub())

	if verdict.Reason != ReasonDailyObserverLimit {
		t.Fatalf("reason = %s; want %s (daily limit must short-circuit)", verdict.Reason, ReasonDailyObserverLimit)
	}
}

func TestValidate_SngExactTimeConflict(t *testing.T) {
	t.Parallel()

	existing := []Assignment{{
		EventID:    "ev-1",
		EventTitle: "Jeddah Shoot",
		CityID:     "jeddah",
		CityName:   "Jeddah",
		Start:      instant(t, "2024-01-10 10:00"),
	}}

	// Same instant in a different city is still an exact-time conflict.
	verdict := Validate(existing, Proposal{
		Kind:   KindSng,
		CityID: "riyadh",
		Start:  instant(t, "2024-01-10 10:00"),
	}, newTravelStub())

	if verdict.Valid || verdict.Reason != ReasonExactTimeConflict {
		t.Fatalf("verdict = %+v; want %s rejection", verdict, ReasonExactTimeConflict)
	}
	if verdict.Details["conflicting_event"] != "Jeddah Shoot" {
		t.Fatalf("details = %v; want conflicting event named", verdict.Details)
	}
}

func TestValidate_TravelTimeSufficiency(t *testing.T) {
	t.Parallel()

	travel := newTravelStub().set("riyadh", "jeddah", 5)
	existing := []Assignment{{
		EventID:    "ev-1",
		EventTitle: "Riyadh Match",
		CityID:     "riyadh",
		CityName:   "Riyadh",
		Start:      instant(t, "2024-01-10 10:00"),
	}}

	cases := []struct {
		name       string
		proposed   string
		wantValid  bool
		wantReason ReasonCode
		shortage   float64
	}{
		{name: "gap shorter than travel after", proposed: "2024-01-10 13:00", wantReason: ReasonInsufficientTravelAfter, shortage: 2},
		{name: "gap equal to travel is sufficient", proposed: "2024-01-10 15:00", wantValid: true, wantReason: ReasonNone},
		{name: "gap longer than travel", proposed: "2024-01-10 16:00", wantValid: true, wantReason: ReasonNone},
		{name: "gap shorter than travel before", proposed: "2024-01-10 07:00", wantReason: ReasonInsufficientTravelBefore, shortage: 2},
		{name: "gap equal to travel before", proposed: "2024-01-10 05:00", wantValid: true, wantReason: ReasonNone},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			verdict := Validate(existing, Proposal{
				Kind:   KindSng,
				CityID: "jeddah",
				Start:  instant(t, tc.proposed),
			}, travel)

			if verdict.Valid != tc.wantValid {
				t.Fatalf("valid = %v; want %v (%+v)", verdict.Valid, tc.wantValid, verdict)
			}
			if verdict.Reason != tc.wantReason {
				t.Fatalf("reason = %s; want %s", verdict.Reason, tc.wantReason)
			}
			if !tc.wantValid {
				if got := verdict.Details["shortage_hours"]; got != tc.shortage {
					t.Fatalf("shortage_hours = %v; want %v", got, tc.shortage)
				}
				if got := verdict.Details["required_hours"]; got != 5.0 {
					t.Fatalf("required_hours = %v; want 5", got)
				}
			}
		})
	}
}

func TestValidate_NoEdgeIsUnconstrained(t *testing.T) {
	t.Parallel()

	existing := []Assignment{{
		EventID:    "ev-1",
		EventTitle: "Riyadh Match",
		CityID:     "riyadh",
		CityName:   "Riyadh",
		Start:      instant(t, "2024-01-10 10:00"),
	}}

	// One hour to cross cities would fail any realistic edge, but with no
	// edge configured the pair is skipped.
	verdict := Validate(existing, Proposal{
		Kind:   KindSng,
		CityID: "jeddah",
		Start:  instant(t, "2024-01-10 11:00"),
	}, newTravelStub())

	if !verdict.Valid {
		t.Fatalf("verdict = %+v; want acceptance when no edge is configured", verdict)
	}
	if got := verdict.Details["same_day_assignments_checked"]; got != 1 {
		t.Fatalf("same_day_assignments_checked = %v; want 1", got)
	}
}

func TestValidate_SameCityPairsExempt(t *testing.T) {
	t.Parallel()

	travel := newTravelStub().set("riyadh", "jeddah", 5)
	existing := []Assignment{{
		EventID:    "ev-1",
		EventTitle: "Morning Shoot",
		CityID:     "riyadh",
		CityName:   "Riyadh",
		Start:      instant(t, "2024-01-10 10:00"),
	}}

	verdict := Validate(existing, Proposal{
		Kind:   KindSng,
		CityID: "riyadh",
		Start:  instant(t, "2024-01-10 10:30"),
	}, travel)

	if !verdict.Valid {
		t.Fatalf("verdict = %+v; want acceptance for same-city back-to-back", verdict)
	}
}

func TestValidate_ZeroInstantFailsClosed(t *testing.T) {
	t.Parallel()

	verdict := Validate(nil, Proposal{Kind: KindSng, CityID: "riyadh"}, newTravelStub())
	if verdict.Valid || verdict.Reason != ReasonInternalError {
		t.Fatalf("verdict = %+v; want %s rejection", verdict, ReasonInternalError)
	}
}

// A zero instant on an existing assignment must reject too: the huge gap to
// any real proposal would otherwise sail past every travel check.
func TestValidate_ZeroExistingInstantFailsClosed(t *testing.T) {
	t.Parallel()

	existing := []Assignment{{
		EventID:    "ev-1",
		EventTitle: "Riyadh Match",
		CityID:     "riyadh",
		CityName:   "Riyadh",
	}}

	cases := []struct {
		name   string
		cityID string
	}{
		{name: "same city", cityID: "riyadh"},
		{name: "different city", cityID: "jeddah"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			verdict := Validate(existing, Proposal{
				Kind:   KindSng,
				CityID: tc.cityID,
				Start:  instant(t, "2025-06-10 18:00"),
			}, newTravelStub().set("riyadh", "jeddah", 5))

			if verdict.Valid || verdict.Reason != ReasonInternalError {
				t.Fatalf("verdict = %+v; want %s rejection", verdict, ReasonInternalError)
			}
			if verdict.Details["conflicting_event_id"] != "ev-1" {
				t.Fatalf("details = %v; want offending assignment identified", verdict.Details)
			}
		})
	}
}
