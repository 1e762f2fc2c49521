package zodiac

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Degree is a continuous zodiac longitude in [0, 360).
type Degree float64

// Position is a degree/minute offset within a sign.
type Position struct {
	Degree  int `json:"degree"`
	Minutes int `json:"minutes"`
}

// ErrInvalidPosition is returned for empty or malformed position text.
var ErrInvalidPosition = errors.New("invalid position")

// positionPattern matches "12º43'" after symbol normalization.
var positionPattern = regexp.MustCompile(`^\s*(\d{1,2})º\s*(\d{1,2})'\s*$`)

// symbolReplacer maps the accepted degree and minute marks onto the canonical ones.
var symbolReplacer = strings.NewReplacer("°", "º", "’", "'")

// ParsePosition parses text of the form D{1,2}º M{1,2}'.
// Degrees must be 0-29 and minutes 0-59. Empty text is invalid.
func ParsePosition(text string) (Position, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Position{}, fmt.Errorf("%w: empty", ErrInvalidPosition)
	}
	text = symbolReplacer.Replace(text)

	matches := positionPattern.FindStringSubmatch(text)
	if matches == nil {
		return Position{}, fmt.Errorf("%w: %q (use format like 12º43')", ErrInvalidPosition, text)
	}

	// The pattern guarantees at most two digits, so Atoi cannot fail.
	deg, _ := strconv.Atoi(matches[1])
	mins, _ := strconv.Atoi(matches[2])

	if deg > DegreesPerSign-1 || mins > 59 {
		return Position{}, fmt.Errorf("%w: %q out of range", ErrInvalidPosition, text)
	}

	return Position{Degree: deg, Minutes: mins}, nil
}

// String formats the position the way it is entered, e.g. 7º05'.
func (p Position) String() string {
	return fmt.Sprintf("%dº%02d'", p.Degree, p.Minutes)
}

// SignToDegree converts a sign plus in-sign offset into a continuous degree.
func SignToDegree(sign Sign, degree, minutes int) (Degree, error) {
	idx := sign.Index()
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSign, sign)
	}
	return Degree(float64(idx*DegreesPerSign+degree) + float64(minutes)/60), nil
}

// FromDegree splits a continuous degree back into sign, degree and minutes.
// The value is rounded to the nearest arc minute and wrapped into [0, 360).
func FromDegree(d Degree) (Sign, Position) {
	total := int(math.Round(float64(d) * 60))
	total %= 360 * 60
	if total < 0 {
		total += 360 * 60
	}
	perSign := DegreesPerSign * 60
	sign := signs[total/perSign]
	rest := total % perSign
	return sign, Position{Degree: rest / 60, Minutes: rest % 60}
}

// Placement is a sign together with a position inside it.
type Placement struct {
	Sign     Sign     `json:"sign"`
	Position Position `json:"position"`
}

// Degree returns the continuous zodiac degree of the placement.
func (p Placement) Degree() (Degree, error) {
	return SignToDegree(p.Sign, p.Position.Degree, p.Position.Minutes)
}

// String formats the placement as "Leo 12º43'".
func (p Placement) String() string {
	return string(p.Sign) + " " + p.Position.String()
}

// NewPlacement validates a sign name and position text.
func NewPlacement(sign, position string) (Placement, error) {
	s, err := ParseSign(sign)
	if err != nil {
		return Placement{}, err
	}
	pos, err := ParsePosition(position)
	if err != nil {
		return Placement{}, err
	}
	return Placement{Sign: s, Position: pos}, nil
}

// ParsePlacement parses "Leo 12º43'" style text: a sign name, whitespace,
// then a position.
func ParsePlacement(text string) (Placement, error) {
	text = strings.TrimSpace(text)
	sign, rest, ok := strings.Cut(text, " ")
	if !ok {
		return Placement{}, fmt.Errorf("%w: %q (use format like Leo 12º43')", ErrInvalidPosition, text)
	}
	return NewPlacement(sign, rest)
}
