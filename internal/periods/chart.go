package periods

import (
	"fmt"

	"github.com/zapponejosh/valens-periods/internal/zodiac"
)

// RawPlacement is a sign name and position text as entered by a user.
type RawPlacement struct {
	Sign     string `json:"sign"`
	Position string `json:"position"`
}

// RawChart is unvalidated chart input keyed by planet name.
type RawChart struct {
	Lunation RawPlacement            `json:"lunation"`
	Planets  map[string]RawPlacement `json:"planets"`
}

// Chart is a validated natal chart: the prenatal lunation plus seven planets.
type Chart struct {
	Lunation zodiac.Placement            `json:"lunation"`
	Planets  map[Planet]zodiac.Placement `json:"planets"`
}

// Parse validates every field. The first failure is returned as a
// *ValidationError and no partial chart is produced.
func (rc RawChart) Parse() (Chart, error) {
	lunation, err := zodiac.NewPlacement(rc.Lunation.Sign, rc.Lunation.Position)
	if err != nil {
		return Chart{}, &ValidationError{Field: "lunation", Err: err}
	}

	chart := Chart{Lunation: lunation, Planets: make(map[Planet]zodiac.Placement, len(planets))}
	for _, p := range planets {
		raw, ok := rc.Planets[string(p)]
		if !ok {
			return Chart{}, &ValidationError{Field: string(p), Err: ErrIncompleteChart}
		}
		placement, err := zodiac.NewPlacement(raw.Sign, raw.Position)
		if err != nil {
			return Chart{}, &ValidationError{Field: string(p), Err: err}
		}
		chart.Planets[p] = placement
	}
	for name := range rc.Planets {
		if !Planet(name).IsValid() {
			return Chart{}, &ValidationError{Field: name, Err: fmt.Errorf("unknown planet %q", name)}
		}
	}
	return chart, nil
}

// Degrees converts the chart into the lunation degree and planet positions.
func (c Chart) Degrees() (zodiac.Degree, Positions, error) {
	lunation, err := c.Lunation.Degree()
	if err != nil {
		return 0, nil, &ValidationError{Field: "lunation", Err: err}
	}
	positions := make(Positions, len(c.Planets))
	for p, placement := range c.Planets {
		d, err := placement.Degree()
		if err != nil {
			return 0, nil, &ValidationError{Field: string(p), Err: err}
		}
		positions[p] = d
	}
	return lunation, positions, nil
}

// Cycles is the result of the main calculation: everything a later age
// lookup needs.
type Cycles struct {
	Lunation zodiac.Degree     `json:"lunation"`
	Afeta    Planet            `json:"afeta"`
	Order    []PlanetPosition  `json:"order"`
	Cycles   [CycleCount]Cycle `json:"cycles"`
	Length   float64           `json:"length"`
}

// ComputeCycles resolves the Afeta and builds the three cycles.
func ComputeCycles(t Tables, lunation zodiac.Degree, positions Positions) (*Cycles, error) {
	afeta, order, err := ResolveAfeta(lunation, positions)
	if err != nil {
		return nil, err
	}

	first := BuildCycle(t, order)
	second := first.Rotate()
	third := second.Rotate()

	return &Cycles{
		Lunation: lunation,
		Afeta:    afeta,
		Order:    order,
		Cycles:   [CycleCount]Cycle{first, second, third},
		Length:   first.Length(),
	}, nil
}

// ComputeChart converts a validated chart to degrees and builds its cycles.
func ComputeChart(t Tables, chart Chart) (*Cycles, error) {
	lunation, positions, err := chart.Degrees()
	if err != nil {
		return nil, err
	}
	return ComputeCycles(t, lunation, positions)
}

// Cycle returns cycle n, 1-based. Out-of-range n clamps into 1..3.
func (c *Cycles) Cycle(n int) Cycle {
	switch {
	case n < 1:
		n = 1
	case n > CycleCount:
		n = CycleCount
	}
	return c.Cycles[n-1]
}

// ComputeSubperiods divides the main period found by ResolveActive.
func ComputeSubperiods(t Tables, c *Cycles, active ActivePeriod) (Subperiods, error) {
	return DivideSubperiods(t, c.Cycle(active.CycleNumber), active.Planet, active.Elapsed)
}

// Report is the full structured output for one chart and optional age.
type Report struct {
	Afeta      Planet          `json:"afeta"`
	Length     float64         `json:"cycle_length"`
	Cycles     []CycleTable    `json:"cycles"`
	Active     *ActivePeriod   `json:"active,omitempty"`
	Subperiods *SubperiodTable `json:"subperiods,omitempty"`
}

// Calculate runs the whole pipeline. The active period and subperiods are
// only computed when age is non-nil.
func Calculate(t Tables, chart Chart, age *float64) (*Report, error) {
	cycles, err := ComputeChart(t, chart)
	if err != nil {
		return nil, err
	}
	return BuildReport(t, cycles, age)
}

// BuildReport renders already computed cycles plus an optional age lookup.
func BuildReport(t Tables, cycles *Cycles, age *float64) (*Report, error) {
	report := &Report{
		Afeta:  cycles.Afeta,
		Length: cycles.Length,
		Cycles: cycles.Tables(),
	}
	if age == nil {
		return report, nil
	}

	active, err := ResolveActive(*age, cycles)
	if err != nil {
		return nil, err
	}
	subs, err := ComputeSubperiods(t, cycles, active)
	if err != nil {
		return nil, fmt.Errorf("compute subperiods: %w", err)
	}
	report.Active = &active
	table := NewSubperiodTable(subs)
	report.Subperiods = &table
	return report, nil
}
