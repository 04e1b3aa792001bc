package core

import "strings"

// Field aliases accepted by Normalize, in priority order. The first alias
// that is present on a record wins. Upstream sources disagree on naming, so
// each canonical field lists every spelling seen in practice.
var (
	TitleAliases    = []string{"title", "name", "titolo"}
	CoverAliases    = []string{"image_url", "cover", "img", "cover_url", "image"}
	PlayersMinAlias = []string{"players_min", "minPlayers", "min_players"}
	PlayersMaxAlias = []string{"players_max", "maxPlayers", "max_players"}

	// "duration" is the last resort for the lower bound so that an explicit
	// duration_min always takes priority.
	DurationMinAlias = []string{"duration_min", "minDuration", "min_duration", "playing_time", "duration"}
	DurationMaxAlias = []string{"duration_max", "maxDuration", "max_duration"}

	WeightAliases   = []string{"weight", "complexity", "difficulty"}
	RatingAliases   = []string{"bgg_rating", "rating", "vote"}
	GenreAliases    = []string{"genres", "tags", "tipo"}
	DescAliases     = []string{"description", "desc"}
	RulesAliases    = []string{"rules_url", "rules"}
	IDAliases       = []string{"id", "bgg_id"}
	ExternalIDAlias = "bgg_id"
)

// UntitledTitle is used when a record carries no usable title.
const UntitledTitle = "Untitled"

// BGGURLPrefix is joined with a numeric external id to build a lookup link.
const BGGURLPrefix = "https://boardgamegeek.com/boardgame/"

// MaxWeight is the top of the canonical complexity scale.
const MaxWeight = 5.0

// present reports whether v counts as a supplied value.
// Nil and blank strings are treated as missing.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	default:
		return true
	}
}

// lookup returns the first present value among aliases.
func (r Record) lookup(aliases []string) (any, string, bool) {
	for _, key := range aliases {
		if v, ok := r[key]; ok && present(v) {
			return v, key, true
		}
	}
	return nil, "", false
}

// firstInt returns the first alias whose value converts to a finite int.
func (r Record) firstInt(aliases []string) (*int, bool) {
	for _, key := range aliases {
		v, ok := r[key]
		if !ok || !present(v) {
			continue
		}
		if n, ok := ToOptionalInt(v); ok {
			return intPtr(n), true
		}
	}
	return nil, false
}

// firstNumber returns the first alias whose value converts to a finite float.
func (r Record) firstNumber(aliases []string) (*float64, bool) {
	for _, key := range aliases {
		v, ok := r[key]
		if !ok || !present(v) {
			continue
		}
		if f, ok := ToOptionalNumber(v); ok && isFinite(f) {
			return floatPtr(f), true
		}
	}
	return nil, false
}

// firstText returns the first alias holding a non-blank text value.
func (r Record) firstText(aliases []string) (string, bool) {
	for _, key := range aliases {
		if s, ok := ToOptionalText(r[key]); ok {
			return s, true
		}
	}
	return "", false
}
