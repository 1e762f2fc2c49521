package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zapponejosh/valens-periods/internal/periods"
)

var ordinals = [...]string{"1st", "2nd", "3rd"}

func ordinal(n int) string {
	if n >= 1 && n <= len(ordinals) {
		return ordinals[n-1]
	}
	return fmt.Sprintf("%dth", n)
}

func cumulative(v float64) string {
	return styleDuration.Render(fmt.Sprintf("%g", periods.Round3(v)))
}

// Cycle renders one cycle as a column of main periods with absolute
// cumulatives.
func Cycle(t periods.CycleTable) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(ordinal(t.Number) + " Cycle"))
	b.WriteString("\n")
	for i, row := range t.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n%s\n%s %s\n",
			row.Planet,
			styleDuration.Render(row.Formatted.String()),
			styleLabel.Render("cumulative:"),
			cumulative(row.Absolute),
		)
	}
	return styleColumn.Render(strings.TrimRight(b.String(), "\n"))
}

// Cycles renders the three cycles side by side.
func Cycles(tables []periods.CycleTable) string {
	cols := make([]string, 0, len(tables))
	for _, t := range tables {
		cols = append(cols, Cycle(t))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// Active renders the cycle and main period running at the requested age.
func Active(a periods.ActivePeriod) string {
	lines := []string{
		fmt.Sprintf("%s %s", styleLabel.Render("Age:"), fmt.Sprintf("%g", a.Age)),
		fmt.Sprintf("%s %s", styleLabel.Render("Active Cycle:"), styleHighlight.Render(fmt.Sprint(a.CycleNumber))),
		fmt.Sprintf("%s %s", styleLabel.Render("Active Cycle Afeta:"), styleHighlight.Render(string(a.CycleAfeta))),
		fmt.Sprintf("%s %s", styleLabel.Render("Active Planet:"), styleHighlight.Render(string(a.Planet))),
		fmt.Sprintf("%s %s", styleLabel.Render("Elapsed in period:"), styleDuration.Render(periods.ToYMD(a.Elapsed).String())),
	}
	return strings.Join(lines, "\n")
}

// Subperiods renders the division of the active main period.
func Subperiods(s periods.SubperiodTable) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Subperiods of " + string(s.MainPlanet)))
	b.WriteString("\n")
	for _, row := range s.Rows {
		name := string(row.Planet)
		if row.Planet == s.Active {
			name = styleHighlight.Render(name)
		}
		fmt.Fprintf(&b, "%s - %s %s %s\n",
			name,
			styleDuration.Render(row.Formatted.String()),
			styleLabel.Render("cumulative:"),
			cumulative(row.Cumulative),
		)
	}
	fmt.Fprintf(&b, "\n%s %s\n", styleLabel.Render("Active Subperiod:"), styleHighlight.Render(string(s.Active)))
	fmt.Fprintf(&b, "%s %s", styleLabel.Render("Elapsed inside subperiod:"), styleDuration.Render(s.ElapsedFormatted.String()))
	return b.String()
}

// Report renders a full report: the Afeta, the three cycles and, when an
// age was given, the active period and its subperiods.
func Report(r *periods.Report) string {
	sections := []string{
		fmt.Sprintf("%s %s", styleTitle.UnsetMarginBottom().Render("Initial Afeta:"), styleHighlight.Render(string(r.Afeta))),
		fmt.Sprintf("%s %s", styleLabel.Render("Cycle length:"), cumulative(r.Length)),
		Cycles(r.Cycles),
	}
	if r.Active != nil {
		sections = append(sections, Active(*r.Active))
	}
	if r.Subperiods != nil {
		sections = append(sections, Subperiods(*r.Subperiods))
	}
	return strings.Join(sections, "\n\n") + "\n"
}
