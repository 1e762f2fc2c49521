package periods

// CycleRow is one main period prepared for display.
type CycleRow struct {
	Planet     Planet  `json:"planet"`
	Duration   float64 `json:"duration"`
	Formatted  YMD     `json:"formatted"`
	Cumulative float64 `json:"cumulative"`
	// Absolute is the cumulative offset by the cycles before this one.
	Absolute float64 `json:"absolute"`
	// Display is Absolute rounded to three decimals.
	Display float64 `json:"display"`
}

// CycleTable is one cycle prepared for display.
type CycleTable struct {
	Number int        `json:"number"`
	Afeta  Planet     `json:"afeta"`
	Rows   []CycleRow `json:"rows"`
}

// Tables renders all three cycles with absolute cumulatives: cycle 2 is
// offset by one cycle length and cycle 3 by two.
func (c *Cycles) Tables() []CycleTable {
	out := make([]CycleTable, 0, CycleCount)
	for i, cycle := range c.Cycles {
		offset := float64(i) * c.Length
		rows := make([]CycleRow, 0, len(cycle))
		for _, e := range cycle {
			abs := offset + e.Cumulative
			rows = append(rows, CycleRow{
				Planet:     e.Planet,
				Duration:   e.Duration,
				Formatted:  ToYMD(e.Duration),
				Cumulative: e.Cumulative,
				Absolute:   abs,
				Display:    Round3(abs),
			})
		}
		out = append(out, CycleTable{Number: i + 1, Afeta: cycle.Afeta(), Rows: rows})
	}
	return out
}

// SubRow is one subperiod prepared for display.
type SubRow struct {
	Planet     Planet  `json:"planet"`
	Duration   float64 `json:"duration"`
	Formatted  YMD     `json:"formatted"`
	Cumulative float64 `json:"cumulative"`
	Display    float64 `json:"display"`
}

// SubperiodTable is a subperiod division prepared for display.
type SubperiodTable struct {
	MainPlanet       Planet   `json:"main_planet"`
	MainDuration     float64  `json:"main_duration"`
	Rows             []SubRow `json:"rows"`
	Active           Planet   `json:"active"`
	Elapsed          float64  `json:"elapsed"`
	ElapsedFormatted YMD      `json:"elapsed_formatted"`
	Clamped          bool     `json:"clamped,omitempty"`
}

// NewSubperiodTable formats a subperiod division.
func NewSubperiodTable(s Subperiods) SubperiodTable {
	rows := make([]SubRow, 0, len(s.Entries))
	for _, e := range s.Entries {
		rows = append(rows, SubRow{
			Planet:     e.Planet,
			Duration:   e.Duration,
			Formatted:  ToYMD(e.Duration),
			Cumulative: e.Cumulative,
			Display:    Round3(e.Cumulative),
		})
	}
	return SubperiodTable{
		MainPlanet:       s.MainPlanet,
		MainDuration:     s.MainDuration,
		Rows:             rows,
		Active:           s.Active,
		Elapsed:          s.Elapsed,
		ElapsedFormatted: ToYMD(s.Elapsed),
		Clamped:          s.Clamped,
	}
}
