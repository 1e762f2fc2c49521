// Package zodiac provides the twelve-sign zodiac and position parsing.
package zodiac

import (
	"errors"
	"fmt"
	"strings"
)

// Sign is one of the twelve zodiac signs.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// DegreesPerSign is the width of one sign in zodiac degrees.
const DegreesPerSign = 30

// ErrUnknownSign is returned when a sign name is not one of the twelve.
var ErrUnknownSign = errors.New("unknown zodiac sign")

// signs is the fixed zodiac order; Aries is index 0.
var signs = []Sign{
	Aries, Taurus, Gemini, Cancer,
	Leo, Virgo, Libra, Scorpio,
	Sagittarius, Capricorn, Aquarius, Pisces,
}

// Signs returns the twelve signs in zodiac order.
func Signs() []Sign {
	out := make([]Sign, len(signs))
	copy(out, signs)
	return out
}

// Index returns the 0-based position of the sign, or -1 if it is not valid.
func (s Sign) Index() int {
	for i, candidate := range signs {
		if s == candidate {
			return i
		}
	}
	return -1
}

// IsValid checks if the sign is one of the twelve.
func (s Sign) IsValid() bool {
	return s.Index() >= 0
}

// ParseSign matches a sign name case-insensitively.
func ParseSign(name string) (Sign, error) {
	name = strings.TrimSpace(name)
	for _, s := range signs {
		if strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSign, name)
}
