package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
	"github.com/Hazem7575/alamiya-sub000/internal/testfixtures"
)

type stubDistanceRepo struct {
	distances map[string]Distance
	nextID    int
}

func newStubDistanceRepo() *stubDistanceRepo {
	return &stubDistanceRepo{distances: make(map[string]Distance)}
}

func (r *stubDistanceRepo) pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func (r *stubDistanceRepo) CreateDistance(_ context.Context, distance Distance) (Distance, error) {
	for _, existing := range r.distances {
		if r.pairKey(existing.CityA, existing.CityB) == r.pairKey(distance.CityA, distance.CityB) {
			return Distance{}, persistence.ErrDuplicate
		}
	}
	if distance.CityA > distance.CityB {
		distance.CityA, distance.CityB = distance.CityB, distance.CityA
	}
	r.distances[distance.ID] = distance
	return distance, nil
}

func (r *stubDistanceRepo) UpdateDistance(_ context.Context, distance Distance) (Distance, error) {
	existing, ok := r.distances[distance.ID]
	if !ok {
		return Distance{}, persistence.ErrNotFound
	}
	existing.TravelTimeHours = distance.TravelTimeHours
	existing.Notes = distance.Notes
	r.distances[distance.ID] = existing
	return existing, nil
}

func (r *stubDistanceRepo) GetDistance(_ context.Context, id string) (Distance, error) {
	distance, ok := r.distances[id]
	if !ok {
		return Distance{}, persistence.ErrNotFound
	}
	return distance, nil
}

func (r *stubDistanceRepo) GetDistanceByPair(_ context.Context, cityA, cityB string) (Distance, error) {
	want := r.pairKey(cityA, cityB)
	for _, distance := range r.distances {
		if r.pairKey(distance.CityA, distance.CityB) == want {
			return distance, nil
		}
	}
	return Distance{}, persistence.ErrNotFound
}

func (r *stubDistanceRepo) ListDistances(_ context.Context) ([]Distance, error) {
	out := make([]Distance, 0, len(r.distances))
	for _, distance := range r.distances {
		out = append(out, distance)
	}
	return out, nil
}

func (r *stubDistanceRepo) DeleteDistance(_ context.Context, id string) error {
	if _, ok := r.distances[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.distances, id)
	return nil
}

type stubCityDirectory struct {
	cities map[string]City
	nextID int
}

func newStubCityDirectory() *stubCityDirectory {
	return &stubCityDirectory{cities: make(map[string]City)}
}

func (d *stubCityDirectory) FindOrCreateCity(_ context.Context, name string) (City, error) {
	if city, ok := d.cities[name]; ok {
		return city, nil
	}
	d.nextID++
	city := City{ID: fmt.Sprintf("city-%d", d.nextID), Name: name, IsActive: true}
	d.cities[name] = city
	return city, nil
}

func (d *stubCityDirectory) ListCities(_ context.Context, activeOnly bool) ([]City, error) {
	out := make([]City, 0, len(d.cities))
	for _, city := range d.cities {
		if activeOnly && !city.IsActive {
			continue
		}
		out = append(out, city)
	}
	return out, nil
}

func newTestDistanceService(repo *stubDistanceRepo, cities *stubCityDirectory) *DistanceService {
	ids := testfixtures.NewIDGenerator("dist")
	clock := testfixtures.NewClock(time.Time{})
	return NewDistanceService(repo, cities, ids.NextFunc(), clock.NowFunc(), nil)
}

func TestCreateDistanceCreatesCities(t *testing.T) {
	t.Parallel()

	cities := newStubCityDirectory()
	svc := newTestDistanceService(newStubDistanceRepo(), cities)

	distance, err := svc.CreateDistance(context.Background(), DistanceInput{
		CityAName:       "Riyadh",
		CityBName:       "Jeddah",
		TravelTimeHours: 9.5,
	})
	if err != nil {
		t.Fatalf("CreateDistance: %v", err)
	}

	if distance.TravelTimeHours != 9.5 {
		t.Errorf("hours = %v, want 9.5", distance.TravelTimeHours)
	}
	if len(cities.cities) != 2 {
		t.Errorf("expected both cities created, got %d", len(cities.cities))
	}
}

func TestCreateDistanceRejectsSameCity(t *testing.T) {
	t.Parallel()

	svc := newTestDistanceService(newStubDistanceRepo(), newStubCityDirectory())

	_, err := svc.CreateDistance(context.Background(), DistanceInput{
		CityAName:       "Riyadh",
		CityBName:       "Riyadh",
		TravelTimeHours: 1,
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDistanceRejectsDuplicatePair(t *testing.T) {
	t.Parallel()

	svc := newTestDistanceService(newStubDistanceRepo(), newStubCityDirectory())

	input := DistanceInput{CityAName: "Riyadh", CityBName: "Jeddah", TravelTimeHours: 9.5}
	if _, err := svc.CreateDistance(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	reversed := DistanceInput{CityAName: "Jeddah", CityBName: "Riyadh", TravelTimeHours: 9.5}
	_, err := svc.CreateDistance(context.Background(), reversed)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for reversed pair, got %v", err)
	}
}

func TestBatchUpsertMixesCreatesUpdatesAndErrors(t *testing.T) {
	t.Parallel()

	svc := newTestDistanceService(newStubDistanceRepo(), newStubCityDirectory())

	if _, err := svc.CreateDistance(context.Background(), DistanceInput{
		CityAName: "Riyadh", CityBName: "Jeddah", TravelTimeHours: 9.5,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := svc.BatchUpsert(context.Background(), []DistanceInput{
		{CityAName: "Jeddah", CityBName: "Riyadh", TravelTimeHours: 10, Notes: "resurfaced highway"},
		{CityAName: "Riyadh", CityBName: "Dammam", TravelTimeHours: 4.5},
		{CityAName: "Abha", CityBName: "Abha", TravelTimeHours: 1},
		{CityAName: "Jeddah", CityBName: "Makkah", TravelTimeHours: -2},
	})
	if err != nil {
		t.Fatalf("BatchUpsert: %v", err)
	}

	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}
	if result.Updated != 1 {
		t.Errorf("Updated = %d, want 1", result.Updated)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", result.Errors)
	}
	if result.Errors[0].Index != 2 || result.Errors[1].Index != 3 {
		t.Errorf("row error indexes = %d,%d, want 2,3", result.Errors[0].Index, result.Errors[1].Index)
	}

	updated, err := svc.ListDistances(context.Background())
	if err != nil {
		t.Fatalf("ListDistances: %v", err)
	}
	for _, d := range updated {
		if d.Notes == "resurfaced highway" && d.TravelTimeHours != 10 {
			t.Errorf("update did not replace hours: %+v", d)
		}
	}
}

func TestMatrixAndMissingPairs(t *testing.T) {
	t.Parallel()

	cities := newStubCityDirectory()
	svc := newTestDistanceService(newStubDistanceRepo(), cities)

	if _, err := svc.CreateDistance(context.Background(), DistanceInput{
		CityAName: "Riyadh", CityBName: "Jeddah", TravelTimeHours: 9.5,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := cities.FindOrCreateCity(context.Background(), "Dammam"); err != nil {
		t.Fatalf("seed city: %v", err)
	}

	matrix, err := svc.Matrix(context.Background())
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	if len(matrix.Cities) != 3 || len(matrix.Cells) != 3 {
		t.Fatalf("expected 3x3 matrix, got %d cities, %d rows", len(matrix.Cities), len(matrix.Cells))
	}
	for i := range matrix.Cells {
		if matrix.Cells[i][i] == nil || *matrix.Cells[i][i] != 0 {
			t.Errorf("diagonal cell %d should be zero", i)
		}
	}

	missing, err := svc.MissingPairs(context.Background())
	if err != nil {
		t.Fatalf("MissingPairs: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing pairs involving Dammam, got %v", missing)
	}
	for _, pair := range missing {
		if pair.CityAName != "Dammam" && pair.CityBName != "Dammam" {
			t.Errorf("unexpected missing pair %+v", pair)
		}
	}
}

func TestUpdateDistanceValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newTestDistanceService(newStubDistanceRepo(), newStubCityDirectory())

	_, err := svc.UpdateDistance(context.Background(), UpdateDistanceParams{ID: "", TravelTimeHours: -1})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(vErr.FieldErrors) != 2 {
		t.Errorf("expected id and hours errors, got %v", vErr.FieldErrors)
	}
}

func TestDeleteDistanceMapsNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestDistanceService(newStubDistanceRepo(), newStubCityDirectory())

	err := svc.DeleteDistance(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
