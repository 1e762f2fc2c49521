package periods

import (
	"fmt"
	"math"
)

// CycleCount is the number of cycles the method defines.
const CycleCount = 3

// ActivePeriod is the main period running at a given age.
type ActivePeriod struct {
	Age float64 `json:"age"`
	// CycleNumber is 1, 2 or 3. Ages past three full cycles stay in cycle 3.
	CycleNumber int `json:"cycle_number"`
	// CycleAfeta is the planet that opens the active cycle.
	CycleAfeta   Planet  `json:"cycle_afeta"`
	Planet       Planet  `json:"planet"`
	MainDuration float64 `json:"main_duration"`
	AgeInCycle   float64 `json:"age_in_cycle"`
	Elapsed      float64 `json:"elapsed"`
	// Clamped is set when floating-point error put the age past the last
	// boundary and the last entry was used.
	Clamped bool `json:"clamped,omitempty"`
}

// ResolveActive finds the cycle and main period containing age.
func ResolveActive(age float64, c *Cycles) (ActivePeriod, error) {
	if math.IsNaN(age) || math.IsInf(age, 0) || age < 0 {
		return ActivePeriod{}, fmt.Errorf("%w: got %v", ErrInvalidAge, age)
	}
	length := c.Length
	if length <= 0 {
		return ActivePeriod{}, fmt.Errorf("cycle length must be positive, got %v", length)
	}

	// Derive the completed count from the remainder so both always agree.
	within := math.Mod(age, length)
	completed := int(math.Round((age - within) / length))

	number := completed + 1
	if number > CycleCount {
		number = CycleCount
	}
	cycle := c.Cycle(number)

	idx, previous, clamped := locate(cycle.cumulatives(), within)
	entry := cycle[idx]

	return ActivePeriod{
		Age:          age,
		CycleNumber:  number,
		CycleAfeta:   cycle.Afeta(),
		Planet:       entry.Planet,
		MainDuration: entry.Duration,
		AgeInCycle:   within,
		Elapsed:      within - previous,
		Clamped:      clamped,
	}, nil
}
