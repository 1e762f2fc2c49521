package periods

import "fmt"

// SubEntry is one subperiod inside a main period.
type SubEntry struct {
	Planet     Planet  `json:"planet"`
	Duration   float64 `json:"duration"`
	Cumulative float64 `json:"cumulative"`
}

// Subperiods divides one main period among all seven planets.
type Subperiods struct {
	MainPlanet   Planet     `json:"main_planet"`
	MainDuration float64    `json:"main_duration"`
	Entries      []SubEntry `json:"entries"`
	Active       Planet     `json:"active"`
	// Elapsed is the time already spent inside the active subperiod.
	Elapsed float64 `json:"elapsed"`
	Clamped bool    `json:"clamped,omitempty"`
}

// DivideSubperiods splits the active planet's main period in proportion to
// the weight table, walking the active cycle from the active planet onward,
// and finds the subperiod containing elapsedInMain.
func DivideSubperiods(t Tables, cycle Cycle, active Planet, elapsedInMain float64) (Subperiods, error) {
	start := cycle.indexOf(active)
	if start < 0 {
		return Subperiods{}, fmt.Errorf("planet %q is not in the cycle", active)
	}

	main := t.MainDuration(active)
	total := t.TotalWeight()

	order := rotate(cycle, start)
	entries := make([]SubEntry, 0, len(order))
	cumulatives := make([]float64, 0, len(order))
	var cumulative float64
	for _, e := range order {
		d := main * (t.Weights[e.Planet] / total)
		cumulative += d
		entries = append(entries, SubEntry{Planet: e.Planet, Duration: d, Cumulative: cumulative})
		cumulatives = append(cumulatives, cumulative)
	}

	idx, previous, clamped := locate(cumulatives, elapsedInMain)

	return Subperiods{
		MainPlanet:   active,
		MainDuration: main,
		Entries:      entries,
		Active:       entries[idx].Planet,
		Elapsed:      elapsedInMain - previous,
		Clamped:      clamped,
	}, nil
}
