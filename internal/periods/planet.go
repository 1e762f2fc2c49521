// Package periods computes Valens' Book IV life periods: the Afeta, three
// rotating main-period cycles, the active period for an age, and its
// weighted subperiods.
package periods

import "fmt"

// Planet is one of the seven classical planets.
type Planet string

const (
	Saturn  Planet = "Saturn"
	Jupiter Planet = "Jupiter"
	Mars    Planet = "Mars"
	Venus   Planet = "Venus"
	Mercury Planet = "Mercury"
	Sun     Planet = "Sun"
	Moon    Planet = "Moon"
)

// planets is the enumeration order. It is also the tie-break order when
// two planets share a degree.
var planets = []Planet{Saturn, Jupiter, Mars, Venus, Mercury, Sun, Moon}

// Planets returns the seven planets in enumeration order.
func Planets() []Planet {
	out := make([]Planet, len(planets))
	copy(out, planets)
	return out
}

// IsValid checks if p is one of the seven planets.
func (p Planet) IsValid() bool {
	return p.rank() >= 0
}

func (p Planet) rank() int {
	for i, candidate := range planets {
		if p == candidate {
			return i
		}
	}
	return -1
}

// QuarterDivisor splits each base period into the quarter-cycle unit used
// for one main period.
const QuarterDivisor = 4

// Tables holds the two fixed per-planet tables of the method.
type Tables struct {
	// BasePeriods are the planetary years.
	BasePeriods map[Planet]float64
	// Weights are Valens' day counts used to proportion subperiods.
	Weights map[Planet]float64
}

// DefaultTables returns a fresh copy of Valens' tables.
func DefaultTables() Tables {
	return Tables{
		BasePeriods: map[Planet]float64{
			Saturn:  30,
			Jupiter: 12,
			Mars:    15,
			Venus:   8,
			Mercury: 20,
			Sun:     19,
			Moon:    25,
		},
		Weights: map[Planet]float64{
			Saturn:  85,
			Jupiter: 34,
			Mars:    42.5,
			Venus:   22.6667,
			Mercury: 56.6667,
			Sun:     53.6667,
			Moon:    70.8333,
		},
	}
}

// Validate checks that both tables cover all seven planets with positive values.
func (t Tables) Validate() error {
	for _, p := range planets {
		if v, ok := t.BasePeriods[p]; !ok || v <= 0 {
			return fmt.Errorf("base period for %s must be positive", p)
		}
		if v, ok := t.Weights[p]; !ok || v <= 0 {
			return fmt.Errorf("weight for %s must be positive", p)
		}
	}
	return nil
}

// MainDuration is the length in years of a planet's main period.
func (t Tables) MainDuration(p Planet) float64 {
	return t.BasePeriods[p] / QuarterDivisor
}

// TotalWeight sums the subperiod weights of all seven planets.
func (t Tables) TotalWeight() float64 {
	var total float64
	for _, p := range planets {
		total += t.Weights[p]
	}
	return total
}
