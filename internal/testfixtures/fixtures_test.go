package testfixtures

import "testing"

func TestNewEventAppliesOptions(t *testing.T) {
	t.Parallel()

	event := NewEvent(
		EventAt("2025-07-01", "20:30"),
		EventInCity("city-9"),
		EventWithResources("res-1", "res-2"),
		EventStatus("confirmed"),
	)

	if event.EventDate != "2025-07-01" || event.EventTime != "20:30" {
		t.Errorf("instant not applied: %s %s", event.EventDate, event.EventTime)
	}
	if event.CityID != "city-9" {
		t.Errorf("CityID = %q", event.CityID)
	}
	if len(event.ResourceIDs) != 2 {
		t.Errorf("ResourceIDs = %v", event.ResourceIDs)
	}
	if event.Status != "confirmed" {
		t.Errorf("Status = %q", event.Status)
	}
}

func TestFixtureIDsAreUnique(t *testing.T) {
	t.Parallel()

	first := NewCity()
	second := NewCity()
	if first.ID == second.ID {
		t.Fatalf("city fixtures share id %q", first.ID)
	}

	obs := NewResource()
	sng := NewResource(ResourceKind("sng"), ResourceCode("SNG-1"))
	if obs.ID == sng.ID {
		t.Fatalf("resource fixtures share id %q", obs.ID)
	}
	if sng.Kind != "sng" || sng.Code != "SNG-1" {
		t.Errorf("options not applied: %+v", sng)
	}

	edge := NewDistance(first.ID, second.ID, 4.5)
	if edge.CityA != first.ID || edge.CityB != second.ID || edge.TravelTimeHours != 4.5 {
		t.Errorf("unexpected distance fixture %+v", edge)
	}
}
