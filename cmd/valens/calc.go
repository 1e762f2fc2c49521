package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/valens-periods/internal/periods"
	"github.com/zapponejosh/valens-periods/internal/render"
	"github.com/zapponejosh/valens-periods/internal/zodiac"
)

// calcOptions holds the flag values of the calc command.
type calcOptions struct {
	lunation string
	planets  map[periods.Planet]*string
	age      float64
	maxAge   float64
	json     bool
}

func newCalcCmd() *cobra.Command {
	opts := &calcOptions{planets: make(map[periods.Planet]*string)}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the cycles, and the active period when --age is given",
		Example: `  valens calc --lunation "Aries 0º00'" --saturn "Capricorn 10º00'" \
    --jupiter "Sagittarius 5º30'" --mars "Aries 15º00'" --venus "Taurus 2º00'" \
    --mercury "Gemini 20º00'" --sun "Gemini 8º00'" --moon "Libra 12º00'" --age 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var age *float64
			if cmd.Flags().Changed("age") {
				age = &opts.age
			}
			return runCalc(cmd.OutOrStdout(), opts, age)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.lunation, "lunation", "", "prenatal lunation, e.g. \"Aries 0º00'\"")
	for _, p := range periods.Planets() {
		opts.planets[p] = f.String(strings.ToLower(string(p)), "", fmt.Sprintf("%s placement, e.g. \"Leo 12º43'\"", p))
	}
	f.Float64Var(&opts.age, "age", 0, "age in years to look up")
	f.Float64Var(&opts.maxAge, "max-age", 120, "largest accepted age")
	f.BoolVar(&opts.json, "json", false, "print the report as JSON")

	return cmd
}

func init() {
	rootCmd.AddCommand(newCalcCmd())
}

// chart validates the flag placements. The first bad flag is reported as a
// validation error.
func (o *calcOptions) chart() (periods.Chart, error) {
	lunation, err := zodiac.ParsePlacement(o.lunation)
	if err != nil {
		return periods.Chart{}, &periods.ValidationError{Field: "lunation", Err: err}
	}

	chart := periods.Chart{Lunation: lunation, Planets: make(map[periods.Planet]zodiac.Placement, len(o.planets))}
	for _, p := range periods.Planets() {
		placement, err := zodiac.ParsePlacement(*o.planets[p])
		if err != nil {
			return periods.Chart{}, &periods.ValidationError{Field: string(p), Err: err}
		}
		chart.Planets[p] = placement
	}
	return chart, nil
}

func runCalc(w io.Writer, opts *calcOptions, age *float64) error {
	if age != nil && *age > opts.maxAge {
		return fmt.Errorf("%w: %g is above the maximum of %g", periods.ErrInvalidAge, *age, opts.maxAge)
	}

	chart, err := opts.chart()
	if err != nil {
		return err
	}

	report, err := periods.Calculate(periods.DefaultTables(), chart, age)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err = io.WriteString(w, render.Report(report))
	return err
}
