package periods

// Entry is one main period inside a cycle.
type Entry struct {
	Planet     Planet  `json:"planet"`
	Duration   float64 `json:"duration"`
	Cumulative float64 `json:"cumulative"`
}

// Cycle is one full pass through the seven main periods.
type Cycle []Entry

// BuildCycle produces Cycle 1: each planet gets a quarter of its base period,
// with a running cumulative total in order.
func BuildCycle(t Tables, order []PlanetPosition) Cycle {
	cycle := make(Cycle, 0, len(order))
	var cumulative float64
	for _, pp := range order {
		d := t.MainDuration(pp.Planet)
		cumulative += d
		cycle = append(cycle, Entry{Planet: pp.Planet, Duration: d, Cumulative: cumulative})
	}
	return cycle
}

// Rotate moves the first entry to the end and recomputes the cumulative
// totals from zero. Cycle 2 is Rotate(Cycle 1) and Cycle 3 is Rotate(Cycle 2).
func (c Cycle) Rotate() Cycle {
	if len(c) == 0 {
		return Cycle{}
	}
	return c.rotatedTo(1)
}

// rotatedTo starts the cycle at index start and rebuilds cumulatives.
func (c Cycle) rotatedTo(start int) Cycle {
	rotated := rotate(c, start)
	var cumulative float64
	for i := range rotated {
		cumulative += rotated[i].Duration
		rotated[i].Cumulative = cumulative
	}
	return rotated
}

// Length is the total span of the cycle in years.
func (c Cycle) Length() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].Cumulative
}

// Afeta is the planet that opens the cycle.
func (c Cycle) Afeta() Planet {
	if len(c) == 0 {
		return ""
	}
	return c[0].Planet
}

// indexOf returns the position of p in the cycle, or -1.
func (c Cycle) indexOf(p Planet) int {
	for i, e := range c {
		if e.Planet == p {
			return i
		}
	}
	return -1
}

// locate finds the first entry whose cumulative reaches elapsed. An elapsed
// value past every boundary clamps to the last entry.
func locate(cumulatives []float64, elapsed float64) (idx int, previous float64, clamped bool) {
	for i, cum := range cumulatives {
		if elapsed <= cum {
			return i, previous, false
		}
		previous = cum
	}
	last := len(cumulatives) - 1
	if last > 0 {
		return last, cumulatives[last-1], true
	}
	return 0, 0, true
}

func (c Cycle) cumulatives() []float64 {
	out := make([]float64, len(c))
	for i, e := range c {
		out[i] = e.Cumulative
	}
	return out
}
