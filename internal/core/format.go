package core

import (
	"strconv"
)

// Display labels shared by the HTML renderer and the CLI.

// Unknown is shown for values the source did not provide.
const Unknown = "?"

// Label renders the range as "2–4", "3+", "≤5" or "?". Equal bounds render
// as a single number.
func (r Range) Label() string {
	switch {
	case r.Min != nil && r.Max != nil:
		if *r.Min == *r.Max {
			return strconv.Itoa(*r.Min)
		}
		return strconv.Itoa(*r.Min) + "–" + strconv.Itoa(*r.Max)
	case r.Min != nil:
		return strconv.Itoa(*r.Min) + "+"
	case r.Max != nil:
		return "≤" + strconv.Itoa(*r.Max)
	default:
		return Unknown
	}
}

// PlayersLabel is the player range, e.g. "3–4".
func (g Game) PlayersLabel() string {
	return g.Players.Label()
}

// DurationLabel is the play time in minutes, e.g. "60 min" or "30–45 min".
// A lone lower bound is shown without the plus sign.
func (g Game) DurationLabel() string {
	d := g.Duration
	if d.Min != nil && d.Max == nil {
		return strconv.Itoa(*d.Min) + " min"
	}
	if !d.Known() {
		return Unknown
	}
	return d.Label() + " min"
}

// WeightLabel is the complexity on the 0-5 scale, e.g. "2.3/5".
func (g Game) WeightLabel() string {
	if g.Weight == nil {
		return Unknown
	}
	return strconv.FormatFloat(*g.Weight, 'f', 1, 64) + "/5"
}

// RatingLabel is the rating with one decimal, e.g. "7.5".
func (g Game) RatingLabel() string {
	if g.Rating == nil {
		return Unknown
	}
	return strconv.FormatFloat(*g.Rating, 'f', 1, 64)
}
