package periods

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zapponejosh/valens-periods/internal/zodiac"
)

// ErrIncompleteChart is returned when a chart lacks one of the seven planets.
var ErrIncompleteChart = errors.New("chart must contain all seven planets")

// PlanetPosition pairs a planet with its zodiac degree.
type PlanetPosition struct {
	Planet Planet        `json:"planet"`
	Degree zodiac.Degree `json:"degree"`
}

// Positions maps each planet to its zodiac degree.
type Positions map[Planet]zodiac.Degree

// Validate checks that every planet is present and no unknown planet is.
func (ps Positions) Validate() error {
	for _, p := range planets {
		if _, ok := ps[p]; !ok {
			return &ValidationError{Field: string(p), Err: ErrIncompleteChart}
		}
	}
	for p := range ps {
		if !p.IsValid() {
			return &ValidationError{Field: string(p), Err: fmt.Errorf("unknown planet %q", p)}
		}
	}
	return nil
}

// ResolveAfeta picks the Afeta and the Cycle 1 planet order.
//
// Planets are sorted by degree, ties keeping enumeration order. The Afeta is
// the first planet strictly past the lunation degree, or the lowest planet
// when none is. The returned order is the sorted sequence rotated to start
// at the Afeta.
func ResolveAfeta(lunation zodiac.Degree, positions Positions) (Planet, []PlanetPosition, error) {
	if err := positions.Validate(); err != nil {
		return "", nil, err
	}

	sorted := make([]PlanetPosition, 0, len(planets))
	for _, p := range planets {
		sorted = append(sorted, PlanetPosition{Planet: p, Degree: positions[p]})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Degree < sorted[j].Degree
	})

	start := 0
	for i, pp := range sorted {
		if pp.Degree > lunation {
			start = i
			break
		}
	}

	return sorted[start].Planet, rotate(sorted, start), nil
}

// rotate moves the elements before start to the end, keeping their order.
func rotate[T any](items []T, start int) []T {
	out := make([]T, 0, len(items))
	out = append(out, items[start:]...)
	return append(out, items[:start]...)
}
