package periods

import (
	"fmt"
	"math"
)

// YMD is a duration split into whole years, 12 months per year and 30 days
// per month.
type YMD struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// ToYMD truncates a fractional-year duration into years, months and days.
// There is no rounding and no carry, so Days never reaches 30.
func ToYMD(years float64) YMD {
	y := math.Floor(years)
	months := (years - y) * 12
	m := math.Floor(months)
	d := math.Floor((months - m) * 30)
	return YMD{Years: int(y), Months: int(m), Days: int(d)}
}

func (d YMD) String() string {
	return fmt.Sprintf("%dy %dm %dd", d.Years, d.Months, d.Days)
}

// Round3 rounds to three decimals for display.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
