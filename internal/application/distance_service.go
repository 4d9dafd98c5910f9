package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/citygraph"
	"github.com/Hazem7575/alamiya-sub000/internal/scheduler"
)

// DistanceRepository captures the persistence interactions needed by the service.
type DistanceRepository interface {
	CreateDistance(ctx context.Context, distance Distance) (Distance, error)
	UpdateDistance(ctx context.Context, distance Distance) (Distance, error)
	GetDistance(ctx context.Context, id string) (Distance, error)
	GetDistanceByPair(ctx context.Context, cityA, cityB string) (Distance, error)
	ListDistances(ctx context.Context) ([]Distance, error)
	DeleteDistance(ctx context.Context, id string) error
}

// DistanceCityDirectory resolves and enumerates cities for distance operations.
type DistanceCityDirectory interface {
	FindOrCreateCity(ctx context.Context, name string) (City, error)
	ListCities(ctx context.Context, activeOnly bool) ([]City, error)
}

// DistanceService manages the symmetric travel-time edges between cities and
// derives the graph views built on them.
type DistanceService struct {
	distances   DistanceRepository
	cities      DistanceCityDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewDistanceService wires dependencies for distance operations.
func NewDistanceService(distances DistanceRepository, cities DistanceCityDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DistanceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DistanceService{
		distances:   distances,
		cities:      cities,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// UpdateDistanceParams replaces the mutable fields of one edge. The city pair
// itself is immutable.
type UpdateDistanceParams struct {
	ID              string
	TravelTimeHours float64
	Notes           string
}

// CreateDistance records a travel-time edge between two cities, creating the
// cities when they are new.
func (s *DistanceService) CreateDistance(ctx context.Context, input DistanceInput) (Distance, error) {
	if s == nil {
		return Distance{}, fmt.Errorf("DistanceService is nil")
	}

	cityA, cityB, err := s.resolvePair(ctx, input)
	if err != nil {
		return Distance{}, err
	}

	distance := Distance{
		ID:              s.idGenerator(),
		CityA:           cityA.ID,
		CityAName:       cityA.Name,
		CityB:           cityB.ID,
		CityBName:       cityB.Name,
		TravelTimeHours: input.TravelTimeHours,
		Notes:           input.Notes,
	}

	persisted, err := s.distances.CreateDistance(ctx, distance)
	if err != nil {
		return Distance{}, mapEventRepoError(err)
	}
	persisted.CityAName, persisted.CityBName = nameFor(persisted.CityA, cityA, cityB), nameFor(persisted.CityB, cityA, cityB)

	serviceLogger(ctx, s.logger, "distance", "create", "distance_id", persisted.ID).Info("distance created",
		"city_a", persisted.CityA, "city_b", persisted.CityB, "hours", persisted.TravelTimeHours)
	return persisted, nil
}

// UpdateDistance changes the hours or notes on an existing edge.
func (s *DistanceService) UpdateDistance(ctx context.Context, params UpdateDistanceParams) (Distance, error) {
	vErr := &ValidationError{}
	if params.ID == "" {
		vErr.add("id", "id is required")
	}
	if params.TravelTimeHours < 0 {
		vErr.add("travel_time_hours", "travel time must not be negative")
	}
	if vErr.HasErrors() {
		return Distance{}, vErr
	}

	persisted, err := s.distances.UpdateDistance(ctx, Distance{
		ID:              params.ID,
		TravelTimeHours: params.TravelTimeHours,
		Notes:           params.Notes,
	})
	if err != nil {
		return Distance{}, mapEventRepoError(err)
	}
	return s.decorate(ctx, persisted)
}

// DeleteDistance removes an edge.
func (s *DistanceService) DeleteDistance(ctx context.Context, id string) error {
	if id == "" {
		vErr := &ValidationError{}
		vErr.add("id", "id is required")
		return vErr
	}
	if err := s.distances.DeleteDistance(ctx, id); err != nil {
		return mapEventRepoError(err)
	}
	return nil
}

// ListDistances returns every edge with city names decorated.
func (s *DistanceService) ListDistances(ctx context.Context) ([]Distance, error) {
	distances, err := s.distances.ListDistances(ctx)
	if err != nil {
		return nil, mapEventRepoError(err)
	}

	names, err := s.cityNames(ctx)
	if err != nil {
		return nil, err
	}
	for i := range distances {
		distances[i].CityAName = names[distances[i].CityA]
		distances[i].CityBName = names[distances[i].CityB]
	}
	return distances, nil
}

// BatchUpsert imports many edges at once. Each row either creates a new edge
// or overwrites the hours and notes of the existing one; invalid rows are
// reported by index without aborting the rest of the batch.
func (s *DistanceService) BatchUpsert(ctx context.Context, inputs []DistanceInput) (BatchUpsertResult, error) {
	result := BatchUpsertResult{}
	for i, input := range inputs {
		cityA, cityB, err := s.resolvePair(ctx, input)
		if err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				result.Errors = append(result.Errors, BatchRowError{Index: i, Message: firstFieldError(vErr)})
				continue
			}
			return BatchUpsertResult{}, err
		}

		existing, err := s.distances.GetDistanceByPair(ctx, cityA.ID, cityB.ID)
		switch {
		case err == nil:
			existing.TravelTimeHours = input.TravelTimeHours
			existing.Notes = input.Notes
			if _, err := s.distances.UpdateDistance(ctx, existing); err != nil {
				return BatchUpsertResult{}, mapEventRepoError(err)
			}
			result.Updated++
		case errors.Is(mapEventRepoError(err), ErrNotFound):
			_, err := s.distances.CreateDistance(ctx, Distance{
				ID:              s.idGenerator(),
				CityA:           cityA.ID,
				CityB:           cityB.ID,
				TravelTimeHours: input.TravelTimeHours,
				Notes:           input.Notes,
			})
			if err != nil {
				return BatchUpsertResult{}, mapEventRepoError(err)
			}
			result.Created++
		default:
			return BatchUpsertResult{}, mapEventRepoError(err)
		}
	}

	serviceLogger(ctx, s.logger, "distance", "batch_upsert").Info("distance batch applied",
		"created", result.Created, "updated", result.Updated, "rejected", len(result.Errors))
	return result, nil
}

// Matrix returns the dense travel-time matrix over all active cities.
func (s *DistanceService) Matrix(ctx context.Context) (DistanceMatrix, error) {
	cities, err := s.cities.ListCities(ctx, true)
	if err != nil {
		return DistanceMatrix{}, mapEventRepoError(err)
	}
	graph, err := s.buildGraph(ctx)
	if err != nil {
		return DistanceMatrix{}, err
	}

	ids := make([]string, len(cities))
	for i, city := range cities {
		ids[i] = city.ID
	}
	return DistanceMatrix{Cities: cities, Cells: graph.Matrix(ids)}, nil
}

// MissingPairs lists every pair of active cities with no recorded travel time.
func (s *DistanceService) MissingPairs(ctx context.Context) ([]MissingPair, error) {
	cities, err := s.cities.ListCities(ctx, true)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	graph, err := s.buildGraph(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(cities))
	names := make(map[string]string, len(cities))
	for i, city := range cities {
		ids[i] = city.ID
		names[city.ID] = city.Name
	}

	pairs := graph.MissingPairs(ids)
	missing := make([]MissingPair, 0, len(pairs))
	for _, pair := range pairs {
		missing = append(missing, MissingPair{
			CityA:     pair.CityA,
			CityAName: names[pair.CityA],
			CityB:     pair.CityB,
			CityBName: names[pair.CityB],
		})
	}
	return missing, nil
}

// TravelGraph loads every stored edge into a lookup graph for the scheduler.
func (s *DistanceService) TravelGraph(ctx context.Context) (scheduler.TravelTimes, error) {
	return s.buildGraph(ctx)
}

func (s *DistanceService) buildGraph(ctx context.Context) (*citygraph.Graph, error) {
	distances, err := s.distances.ListDistances(ctx)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	edges := make([]citygraph.Edge, 0, len(distances))
	for _, d := range distances {
		edges = append(edges, citygraph.Edge{
			CityA: d.CityA,
			CityB: d.CityB,
			Hours: d.TravelTimeHours,
			Notes: d.Notes,
		})
	}
	return citygraph.New(edges)
}

func (s *DistanceService) resolvePair(ctx context.Context, input DistanceInput) (City, City, error) {
	vErr := &ValidationError{}
	if input.CityAName == "" {
		vErr.add("city_a", "city_a is required")
	}
	if input.CityBName == "" {
		vErr.add("city_b", "city_b is required")
	}
	if input.TravelTimeHours < 0 {
		vErr.add("travel_time_hours", "travel time must not be negative")
	}
	if vErr.HasErrors() {
		return City{}, City{}, vErr
	}

	cityA, err := s.cities.FindOrCreateCity(ctx, input.CityAName)
	if err != nil {
		return City{}, City{}, err
	}
	cityB, err := s.cities.FindOrCreateCity(ctx, input.CityBName)
	if err != nil {
		return City{}, City{}, err
	}
	if cityA.ID == cityB.ID {
		vErr.add("city_b", "cities must differ")
		return City{}, City{}, vErr
	}
	return cityA, cityB, nil
}

func (s *DistanceService) decorate(ctx context.Context, distance Distance) (Distance, error) {
	names, err := s.cityNames(ctx)
	if err != nil {
		return Distance{}, err
	}
	distance.CityAName = names[distance.CityA]
	distance.CityBName = names[distance.CityB]
	return distance, nil
}

func (s *DistanceService) cityNames(ctx context.Context) (map[string]string, error) {
	cities, err := s.cities.ListCities(ctx, false)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	names := make(map[string]string, len(cities))
	for _, city := range cities {
		names[city.ID] = city.Name
	}
	return names, nil
}

func nameFor(cityID string, candidates ...City) string {
	for _, city := range candidates {
		if city.ID == cityID {
			return city.Name
		}
	}
	return ""
}

func firstFieldError(vErr *ValidationError) string {
	fields := make([]string, 0, len(vErr.FieldErrors))
	for field := range vErr.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		return field + ": " + vErr.FieldErrors[field]
	}
	return "invalid row"
}
