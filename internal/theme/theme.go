package theme

import "strings"

type Theme string

const (
	Day   Theme = "day"
	Night Theme = "night"
)

// Scheme holds the RGB triples assigned to the --color-dark and
// --color-light CSS variables.
type Scheme struct {
	Dark  string
	Light string
}

var (
	dayScheme   = Scheme{Dark: "10, 10, 20", Light: "255, 255, 255"}
	nightScheme = Scheme{Dark: "255, 255, 255", Light: "10, 10, 20"}
)

// Parse maps a form value to a Theme. Anything but "night" is Day.
func Parse(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(Night)) {
		return Night
	}
	return Day
}

// Preferred picks the initial theme from a Sec-CH-Prefers-Color-Scheme hint.
func Preferred(hint string) Theme {
	if strings.EqualFold(strings.Trim(hint, `" `), "dark") {
		return Night
	}
	return Day
}

func (t Theme) Scheme() Scheme {
	if t == Night {
		return nightScheme
	}
	return dayScheme
}

func (t Theme) String() string { return string(t) }
