// Package citygraph models the travel-time relation between cities as an
// undirected, sparse, weighted graph. Edge weights are hours a resource needs
// to move between the two cities; lookups are direction-agnostic.
package citygraph

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrSamePair is returned when an edge would connect a city to itself.
	ErrSamePair = errors.New("citygraph: cannot connect a city to itself")
	// ErrDuplicateEdge is returned when an edge for the unordered pair already exists.
	ErrDuplicateEdge = errors.New("citygraph: edge already exists for this pair")
	// ErrNegativeHours is returned when an edge weight is below zero.
	ErrNegativeHours = errors.New("citygraph: travel time must not be negative")
)

// Edge is a stored travel-time between two cities. The pair is unordered;
// CityA/CityB carry whatever orientation the caller supplied.
type Edge struct {
	CityA string
	CityB string
	Hours float64
	Notes string
}

type pairKey struct {
	low, high string
}

func keyFor(a, b string) pairKey {
	if a < b {
		return pairKey{low: a, high: b}
	}
	return pairKey{low: b, high: a}
}

// Graph holds the edge set keyed by canonical unordered pair.
type Graph struct {
	edges map[pairKey]Edge
}

// New builds a graph from the given edges. Self-pairs, negative weights and
// duplicate pairs (in either orientation) are rejected.
func New(edges []Edge) (*Graph, error) {
	g := &Graph{edges: make(map[pairKey]Edge, len(edges))}
	for _, edge := range edges {
		if err := g.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("citygraph: edge %s-%s: %w", edge.CityA, edge.CityB, err)
		}
	}
	return g, nil
}

// AddEdge inserts an edge, enforcing the one-edge-per-unordered-pair invariant.
func (g *Graph) AddEdge(edge Edge) error {
	if g == nil {
		return errors.New("citygraph: nil graph")
	}
	if edge.CityA == edge.CityB {
		return ErrSamePair
	}
	if edge.Hours < 0 {
		return ErrNegativeHours
	}
	key := keyFor(edge.CityA, edge.CityB)
	if _, ok := g.edges[key]; ok {
		return ErrDuplicateEdge
	}
	if g.edges == nil {
		g.edges = make(map[pairKey]Edge)
	}
	g.edges[key] = edge
	return nil
}

// RemoveEdge deletes the edge for the unordered pair, reporting whether one existed.
func (g *Graph) RemoveEdge(cityA, cityB string) bool {
	if g == nil || g.edges == nil {
		return false
	}
	key := keyFor(cityA, cityB)
	if _, ok := g.edges[key]; !ok {
		return false
	}
	delete(g.edges, key)
	return true
}

// TravelTime looks up the hours between two cities in either direction.
// The second return value reports whether an edge is configured; callers
// treat a missing edge as unconstrained.
func (g *Graph) TravelTime(cityA, cityB string) (float64, bool) {
	if g == nil || g.edges == nil || cityA == cityB {
		return 0, false
	}
	edge, ok := g.edges[keyFor(cityA, cityB)]
	if !ok {
		return 0, false
	}
	return edge.Hours, true
}

// HasEdge reports whether an edge exists for the unordered pair.
func (g *Graph) HasEdge(cityA, cityB string) bool {
	_, ok := g.TravelTime(cityA, cityB)
	return ok
}

// Len returns the number of stored edges.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.edges)
}

// Pair identifies an unordered city pair in a missing-pairs report.
type Pair struct {
	CityA string
	CityB string
}

// MissingPairs enumerates every distinct unordered pair of the given cities
// that has no stored edge, in a deterministic order. Quadratic over the city
// set, which stays in the tens for this domain.
func (g *Graph) MissingPairs(cityIDs []string) []Pair {
	ids := make([]string, len(cityIDs))
	copy(ids, cityIDs)
	sort.Strings(ids)

	missing := make([]Pair, 0)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] {
				continue
			}
			if !g.HasEdge(ids[i], ids[j]) {
				missing = append(missing, Pair{CityA: ids[i], CityB: ids[j]})
			}
		}
	}
	return missing
}

// Matrix returns the symmetric travel-time matrix for the given cities in the
// given order. The diagonal is zero; cells without an edge are nil.
func (g *Graph) Matrix(cityIDs []string) [][]*float64 {
	matrix := make([][]*float64, len(cityIDs))
	for i := range cityIDs {
		matrix[i] = make([]*float64, len(cityIDs))
		for j := range cityIDs {
			if i == j {
				zero := 0.0
				matrix[i][j] = &zero
				continue
			}
			if hours, ok := g.TravelTime(cityIDs[i], cityIDs[j]); ok {
				value := hours
				matrix[i][j] = &value
			}
		}
	}
	return matrix
}
