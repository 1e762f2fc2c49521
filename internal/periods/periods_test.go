package periods

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/valens-periods/internal/zodiac"
)

const tolerance = 1e-9

// sampleChart has all seven planets at distinct degrees across the zodiac.
//
//	Mars 15, Venus 32, Sun 68, Mercury 80, Moon 192, Jupiter 245.5, Saturn 280
func sampleChart() RawChart {
	return RawChart{
		Lunation: RawPlacement{Sign: "Aries", Position: "0º00'"},
		Planets: map[string]RawPlacement{
			"Saturn":  {Sign: "Capricorn", Position: "10º00'"},
			"Jupiter": {Sign: "Sagittarius", Position: "5º30'"},
			"Mars":    {Sign: "Aries", Position: "15º00'"},
			"Venus":   {Sign: "Taurus", Position: "2º00'"},
			"Mercury": {Sign: "Gemini", Position: "20º00'"},
			"Sun":     {Sign: "Gemini", Position: "8°00’"},
			"Moon":    {Sign: "Libra", Position: "12º00'"},
		},
	}
}

func sampleCycles(t *testing.T) *Cycles {
	t.Helper()
	chart, err := sampleChart().Parse()
	require.NoError(t, err)
	lunation, positions, err := chart.Degrees()
	require.NoError(t, err)
	cycles, err := ComputeCycles(DefaultTables(), lunation, positions)
	require.NoError(t, err)
	return cycles
}

func planetsOf(c Cycle) []Planet {
	out := make([]Planet, len(c))
	for i, e := range c {
		out[i] = e.Planet
	}
	return out
}

func TestToYMD(t *testing.T) {
	tests := []struct {
		years float64
		want  YMD
	}{
		{1.5, YMD{1, 6, 0}},
		{0, YMD{0, 0, 0}},
		{29.9999, YMD{29, 11, 29}},
		{3.75, YMD{3, 9, 0}},
		{7.5, YMD{7, 6, 0}},
		{0.25, YMD{0, 3, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToYMD(tt.years), "ToYMD(%v)", tt.years)
	}
	assert.Equal(t, "1y 6m 0d", ToYMD(1.5).String())
}

func TestToYMD_DaysNeverThirty(t *testing.T) {
	for i := 0; i < 100000; i++ {
		got := ToYMD(float64(i) / 997)
		require.Less(t, got.Days, 30)
		require.Less(t, got.Months, 12)
	}
}

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()
	require.NoError(t, tables.Validate())
	assert.InDelta(t, 365.3334, tables.TotalWeight(), tolerance)
	assert.Equal(t, 7.5, tables.MainDuration(Saturn))

	delete(tables.Weights, Moon)
	assert.Error(t, tables.Validate())
	// Each call returns independent maps.
	require.NoError(t, DefaultTables().Validate())
}

func TestResolveAfeta(t *testing.T) {
	positions := Positions{
		Saturn: 280, Jupiter: 245.5, Mars: 15, Venus: 32,
		Mercury: 80, Sun: 68, Moon: 192,
	}

	tests := []struct {
		name      string
		lunation  zodiac.Degree
		wantAfeta Planet
		wantOrder []Planet
	}{
		{
			name:      "first planet past lunation",
			lunation:  0,
			wantAfeta: Mars,
			wantOrder: []Planet{Mars, Venus, Sun, Mercury, Moon, Jupiter, Saturn},
		},
		{
			name:      "mid zodiac",
			lunation:  100,
			wantAfeta: Moon,
			wantOrder: []Planet{Moon, Jupiter, Saturn, Mars, Venus, Sun, Mercury},
		},
		{
			name:      "equal degree is not past",
			lunation:  68,
			wantAfeta: Mercury,
			wantOrder: []Planet{Mercury, Moon, Jupiter, Saturn, Mars, Venus, Sun},
		},
		{
			name:      "lunation past every planet wraps to lowest",
			lunation:  350,
			wantAfeta: Mars,
			wantOrder: []Planet{Mars, Venus, Sun, Mercury, Moon, Jupiter, Saturn},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			afeta, order, err := ResolveAfeta(tt.lunation, positions)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAfeta, afeta)

			got := make([]Planet, len(order))
			for i, pp := range order {
				got[i] = pp.Planet
			}
			assert.Equal(t, tt.wantOrder, got)
		})
	}
}

func TestResolveAfeta_TiesKeepEnumerationOrder(t *testing.T) {
	positions := Positions{
		Saturn: 100, Jupiter: 200, Mars: 300, Venus: 10,
		Mercury: 20, Sun: 30, Moon: 100,
	}
	afeta, order, err := ResolveAfeta(50, positions)
	require.NoError(t, err)
	assert.Equal(t, Saturn, afeta)
	assert.Equal(t, Moon, order[1].Planet)
}

func TestResolveAfeta_IncompleteChart(t *testing.T) {
	_, _, err := ResolveAfeta(0, Positions{Saturn: 1})
	require.ErrorIs(t, err, ErrIncompleteChart)
	assert.True(t, IsValidation(err))
}

func TestComputeCycles(t *testing.T) {
	cycles := sampleCycles(t)

	assert.Equal(t, Mars, cycles.Afeta)
	assert.Equal(t, 32.25, cycles.Length)

	wantCycles := []struct {
		order       []Planet
		cumulatives []float64
	}{
		{
			order:       []Planet{Mars, Venus, Sun, Mercury, Moon, Jupiter, Saturn},
			cumulatives: []float64{3.75, 5.75, 10.5, 15.5, 21.75, 24.75, 32.25},
		},
		{
			order:       []Planet{Venus, Sun, Mercury, Moon, Jupiter, Saturn, Mars},
			cumulatives: []float64{2, 6.75, 11.75, 18, 21, 28.5, 32.25},
		},
		{
			order:       []Planet{Sun, Mercury, Moon, Jupiter, Saturn, Mars, Venus},
			cumulatives: []float64{4.75, 9.75, 16, 19, 26.5, 30.25, 32.25},
		},
	}

	total := 0
	for i, want := range wantCycles {
		cycle := cycles.Cycle(i + 1)
		assert.Equal(t, want.order, planetsOf(cycle), "cycle %d order", i+1)
		for j, e := range cycle {
			assert.InDelta(t, want.cumulatives[j], e.Cumulative, tolerance, "cycle %d entry %d", i+1, j)
		}
		assert.InDelta(t, cycles.Length, cycle.Length(), tolerance)
		total += len(cycle)
	}
	assert.Equal(t, 21, total)
}

func TestCycleRotate_DoesNotMutate(t *testing.T) {
	cycles := sampleCycles(t)
	first := cycles.Cycle(1)
	before := append(Cycle(nil), first...)

	_ = first.Rotate()
	assert.Equal(t, before, first)
	assert.Empty(t, Cycle{}.Rotate())
}

func TestCyclesTables_AbsoluteCumulatives(t *testing.T) {
	tables := sampleCycles(t).Tables()
	require.Len(t, tables, 3)

	assert.Equal(t, Mars, tables[0].Afeta)
	assert.Equal(t, 3.75, tables[0].Rows[0].Display)
	assert.Equal(t, YMD{3, 9, 0}, tables[0].Rows[0].Formatted)

	assert.Equal(t, Venus, tables[1].Afeta)
	assert.InDelta(t, 34.25, tables[1].Rows[0].Absolute, tolerance)
	assert.InDelta(t, 2, tables[1].Rows[0].Cumulative, tolerance)

	assert.Equal(t, Sun, tables[2].Afeta)
	assert.InDelta(t, 69.25, tables[2].Rows[0].Absolute, tolerance)
	assert.InDelta(t, 96.75, tables[2].Rows[6].Display, tolerance)
}

func TestResolveActive(t *testing.T) {
	cycles := sampleCycles(t)

	tests := []struct {
		name        string
		age         float64
		wantCycle   int
		wantAfeta   Planet
		wantPlanet  Planet
		wantElapsed float64
	}{
		{"birth", 0, 1, Mars, Mars, 0},
		{"inside first period", 2, 1, Mars, Mars, 2},
		{"exact boundary belongs to ending period", 3.75, 1, Mars, Mars, 3.75},
		{"just past boundary", 4, 1, Mars, Venus, 0.25},
		{"second cycle start", 32.25, 2, Venus, Venus, 0},
		{"second cycle", 40, 2, Venus, Mercury, 1},
		{"third cycle start", 64.5, 3, Sun, Sun, 0},
		{"past three cycles stays in third", 100, 3, Sun, Sun, 3.25},
		{"upper bound age", 120, 3, Sun, Saturn, 23.25 - 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveActive(tt.age, cycles)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCycle, got.CycleNumber)
			assert.Equal(t, tt.wantAfeta, got.CycleAfeta)
			assert.Equal(t, tt.wantPlanet, got.Planet)
			assert.InDelta(t, tt.wantElapsed, got.Elapsed, tolerance)
			assert.False(t, got.Clamped)
		})
	}
}

func TestResolveActive_InvalidAge(t *testing.T) {
	cycles := sampleCycles(t)
	for _, age := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := ResolveActive(age, cycles)
		assert.ErrorIs(t, err, ErrInvalidAge, "age %v", age)
	}
}

func TestResolveActive_ClampsPastLastBoundary(t *testing.T) {
	cycles := sampleCycles(t)
	// A cycle length slightly larger than the last cumulative leaves a gap
	// the lookup must still resolve.
	cycles.Length = 33

	got, err := ResolveActive(32.5, cycles)
	require.NoError(t, err)
	assert.True(t, got.Clamped)
	assert.Equal(t, 1, got.CycleNumber)
	assert.Equal(t, Saturn, got.Planet)
	assert.InDelta(t, 32.5-24.75, got.Elapsed, tolerance)
}

func TestDivideSubperiods(t *testing.T) {
	tables := DefaultTables()
	cycles := sampleCycles(t)

	active, err := ResolveActive(40, cycles)
	require.NoError(t, err)

	subs, err := ComputeSubperiods(tables, cycles, active)
	require.NoError(t, err)

	assert.Equal(t, Mercury, subs.MainPlanet)
	assert.Equal(t, 5.0, subs.MainDuration)
	assert.Equal(t,
		[]Planet{Mercury, Moon, Jupiter, Saturn, Mars, Venus, Sun},
		func() []Planet {
			out := make([]Planet, len(subs.Entries))
			for i, e := range subs.Entries {
				out[i] = e.Planet
			}
			return out
		}(),
	)

	w := tables.TotalWeight()
	assert.InDelta(t, 5*56.6667/w, subs.Entries[0].Duration, tolerance)
	assert.InDelta(t, 5*70.8333/w, subs.Entries[1].Duration, tolerance)
	assert.Equal(t, Moon, subs.Active)
	assert.InDelta(t, 1-5*56.6667/w, subs.Elapsed, tolerance)
	assert.InDelta(t, subs.MainDuration, subs.Entries[6].Cumulative, tolerance)
}

func TestDivideSubperiods_Boundaries(t *testing.T) {
	tables := DefaultTables()
	cycle := sampleCycles(t).Cycle(1)

	subs, err := DivideSubperiods(tables, cycle, Mars, 0)
	require.NoError(t, err)
	assert.Equal(t, Mars, subs.Active)
	assert.Equal(t, 0.0, subs.Elapsed)

	subs, err = DivideSubperiods(tables, cycle, Mars, subs.Entries[0].Cumulative)
	require.NoError(t, err)
	assert.Equal(t, Mars, subs.Active)

	subs, err = DivideSubperiods(tables, cycle, Mars, 3.75+1e-6)
	require.NoError(t, err)
	assert.True(t, subs.Clamped)
	assert.Equal(t, subs.Entries[6].Planet, subs.Active)

	_, err = DivideSubperiods(tables, Cycle{}, Mars, 0)
	assert.Error(t, err)
}

func TestRawChartParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawChart)
		field  string
	}{
		{"empty lunation", func(rc *RawChart) { rc.Lunation.Position = "" }, "lunation"},
		{"bad lunation sign", func(rc *RawChart) { rc.Lunation.Sign = "Arie" }, "lunation"},
		{"missing planet", func(rc *RawChart) { delete(rc.Planets, "Moon") }, "Moon"},
		{"bad planet position", func(rc *RawChart) { rc.Planets["Venus"] = RawPlacement{Sign: "Leo", Position: "31º00'"} }, "Venus"},
		{"unknown planet", func(rc *RawChart) { rc.Planets["Pluto"] = RawPlacement{Sign: "Leo", Position: "1º00'"} }, "Pluto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := sampleChart()
			tt.mutate(&rc)
			_, err := rc.Parse()
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestCalculate(t *testing.T) {
	chart, err := sampleChart().Parse()
	require.NoError(t, err)

	report, err := Calculate(DefaultTables(), chart, nil)
	require.NoError(t, err)
	assert.Equal(t, Mars, report.Afeta)
	assert.Len(t, report.Cycles, 3)
	assert.Nil(t, report.Active)
	assert.Nil(t, report.Subperiods)

	age := 40.0
	report, err = Calculate(DefaultTables(), chart, &age)
	require.NoError(t, err)
	require.NotNil(t, report.Active)
	require.NotNil(t, report.Subperiods)
	assert.Equal(t, 2, report.Active.CycleNumber)
	assert.Equal(t, Mercury, report.Active.Planet)
	assert.Equal(t, Moon, report.Subperiods.Active)
	assert.Len(t, report.Subperiods.Rows, 7)

	age = -2
	_, err = Calculate(DefaultTables(), chart, &age)
	assert.ErrorIs(t, err, ErrInvalidAge)
}

// TestRandomCharts checks the structural properties over many generated charts.
func TestRandomCharts(t *testing.T) {
	tables := DefaultTables()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		positions := make(Positions, 7)
		for _, p := range Planets() {
			positions[p] = zodiac.Degree(rng.Float64() * 360)
		}
		lunation := zodiac.Degree(rng.Float64() * 360)

		cycles, err := ComputeCycles(tables, lunation, positions)
		require.NoError(t, err)

		// The Afeta is one of the input planets and opens the order.
		_, ok := positions[cycles.Afeta]
		require.True(t, ok)
		require.Equal(t, cycles.Afeta, cycles.Order[0].Planet)
		require.Equal(t, positions[cycles.Afeta], cycles.Order[0].Degree)

		// The order is a rotation of the ascending sort.
		degrees := make([]float64, 0, 7)
		for _, d := range positions {
			degrees = append(degrees, float64(d))
		}
		sort.Float64s(degrees)
		start := sort.SearchFloat64s(degrees, float64(cycles.Order[0].Degree))
		for j, pp := range cycles.Order {
			require.Equal(t, degrees[(start+j)%7], float64(pp.Degree))
		}

		for n := 1; n <= CycleCount; n++ {
			require.InDelta(t, cycles.Length, cycles.Cycle(n).Length(), tolerance)
		}

		age := rng.Float64() * 120
		active, err := ResolveActive(age, cycles)
		require.NoError(t, err)
		require.GreaterOrEqual(t, active.Elapsed, -tolerance)
		require.LessOrEqual(t, active.Elapsed, active.MainDuration+tolerance)

		subs, err := ComputeSubperiods(tables, cycles, active)
		require.NoError(t, err)
		var sum float64
		for _, e := range subs.Entries {
			sum += e.Duration
		}
		require.InDelta(t, subs.MainDuration, sum, tolerance)
	}
}
