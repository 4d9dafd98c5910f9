package sqlite

import (
	"context"
	"testing"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
	"github.com/Hazem7575/alamiya-sub000/internal/testfixtures"
)

func openTestPool(t *testing.T) *ConnectionPool {
	t.Helper()
	pool, err := Open("file:" + t.TempDir() + "/alamiya_test.db")
	if err != nil {
		t.Fatalf("failed to open test pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := Migrate(context.Background(), pool); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return pool
}

func mustCreateCity(t *testing.T, pool *ConnectionPool, id, name string) persistence.City {
	t.Helper()
	city := testfixtures.NewCity(testfixtures.CityID(id), testfixtures.CityName(name))
	if err := NewCityRepository(pool).CreateCity(context.Background(), city); err != nil {
		t.Fatalf("failed to create city %s: %v", name, err)
	}
	return city
}

func mustCreateResource(t *testing.T, pool *ConnectionPool, id, kind, code string) persistence.Resource {
	t.Helper()
	resource := testfixtures.NewResource(
		testfixtures.ResourceID(id),
		testfixtures.ResourceKind(kind),
		testfixtures.ResourceCode(code),
	)
	if err := NewResourceRepository(pool).CreateResource(context.Background(), resource); err != nil {
		t.Fatalf("failed to create resource %s: %v", code, err)
	}
	return resource
}

func mustCreateEvent(t *testing.T, pool *ConnectionPool, opts ...testfixtures.EventOption) persistence.Event {
	t.Helper()
	event := testfixtures.NewEvent(opts...)
	if err := NewEventRepository(pool).CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("failed to create event %s: %v", event.ID, err)
	}
	return event
}

func mustCreateDistance(t *testing.T, pool *ConnectionPool, distance persistence.CityDistance) persistence.CityDistance {
	t.Helper()
	if err := NewDistanceRepository(pool).CreateDistance(context.Background(), distance); err != nil {
		t.Fatalf("failed to create distance %s: %v", distance.ID, err)
	}
	return distance
}
