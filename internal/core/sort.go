package core

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/text/cases"
)

// Sort returns a copy of games ordered by spec. The sort is stable: games
// with equal keys keep their input order. An unknown key leaves the order
// unchanged.
func Sort(games []Game, spec SortSpec) []Game {
	out := slices.Clone(games)
	if out == nil {
		out = []Game{}
	}

	sign := 1
	if spec.Dir == SortDesc {
		sign = -1
	}

	switch spec.Key {
	case SortTitle:
		folder := cases.Fold()
		keys := make(map[string]string, len(out))
		for _, g := range out {
			if _, ok := keys[g.Title]; !ok {
				keys[g.Title] = folder.String(g.Title)
			}
		}
		slices.SortStableFunc(out, func(a, b Game) int {
			return sign * cmp.Compare(keys[a.Title], keys[b.Title])
		})
	case SortRating, SortDuration, SortComplexity:
		key := numericKey(spec.Key)
		slices.SortStableFunc(out, func(a, b Game) int {
			return sign * compareFloat(key(a), key(b))
		})
	}
	return out
}

// numericKey returns the extractor for a numeric sort key.
func numericKey(k SortKey) func(Game) float64 {
	switch k {
	case SortRating:
		return ratingKey
	case SortDuration:
		return durationKey
	default:
		return complexityKey
	}
}

// ratingKey puts unrated games at -Inf so they trail a descending sort.
func ratingKey(g Game) float64 {
	if g.Rating == nil {
		return math.Inf(-1)
	}
	return *g.Rating
}

// durationKey is min, else max, else +Inf.
func durationKey(g Game) float64 {
	switch {
	case g.Duration.Min != nil:
		return float64(*g.Duration.Min)
	case g.Duration.Max != nil:
		return float64(*g.Duration.Max)
	default:
		return math.Inf(1)
	}
}

func complexityKey(g Game) float64 {
	if g.Weight == nil {
		return math.Inf(1)
	}
	return *g.Weight
}

// compareFloat orders with plain less/greater so that equal keys, including
// matching infinities, compare as 0.
func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
