package core

import (
	"math"
	"strconv"

	"github.com/google/uuid"
)

// Normalizer maps loosely-typed records onto the canonical Game.
// The zero value is ready to use and generates UUIDs for records without an id.
type Normalizer struct {
	// NewID returns a fresh identifier. Defaults to uuid.NewString.
	NewID func() string
}

var defaultNormalizer Normalizer

// Normalize maps raw onto a Game using the default Normalizer.
func Normalize(raw Record) Game {
	return defaultNormalizer.Normalize(raw)
}

// NormalizeAll normalizes every record, preserving order.
func NormalizeAll(raws []Record) []Game {
	return defaultNormalizer.NormalizeAll(raws)
}

// NormalizeAll normalizes every record, preserving order.
func (n Normalizer) NormalizeAll(raws []Record) []Game {
	games := make([]Game, len(raws))
	for i, raw := range raws {
		games[i] = n.Normalize(raw)
	}
	return games
}

// Normalize maps raw onto a Game. It never fails: every missing or unreadable
// field falls back to a documented default.
func (n Normalizer) Normalize(raw Record) Game {
	if raw == nil {
		raw = Record{}
	}

	g := Game{
		ID:       n.resolveID(raw),
		Title:    UntitledTitle,
		Players:  resolvePlayers(raw),
		Duration: resolveDuration(raw),
		Weight:   resolveWeight(raw),
		Genre:    resolveGenre(raw),
	}

	if title, ok := raw.firstText(TitleAliases); ok {
		g.Title = title
	}
	g.Cover, _ = raw.firstText(CoverAliases)
	g.Rating, _ = raw.firstNumber(RatingAliases)
	g.Desc, _ = raw.firstText(DescAliases)
	g.BGGURL = resolveBGGURL(raw)
	g.RulesURL, _ = raw.firstText(RulesAliases)

	return g
}

func (n Normalizer) resolveID(raw Record) string {
	if id, ok := raw.firstText(IDAliases); ok {
		return id
	}
	if n.NewID != nil {
		return n.NewID()
	}
	return uuid.NewString()
}

// resolvePlayers reads explicit bounds, falling back to a "players" value
// that is either a {min,max} object or a human range string.
func resolvePlayers(raw Record) Range {
	lo, hasLo := raw.firstInt(PlayersMinAlias)
	hi, hasHi := raw.firstInt(PlayersMaxAlias)
	if hasLo || hasHi {
		return Range{Min: lo, Max: hi}
	}
	v, ok := raw["players"]
	if !ok || !present(v) {
		return Range{}
	}
	if r, ok := rangeFromObject(v); ok {
		return r
	}
	if text, ok := ToOptionalText(v); ok {
		return ParsePlayersRange(text)
	}
	return Range{}
}

// resolveDuration reads explicit bounds; a bare numeric "duration" counts as
// the lower bound. A "duration" object or range string is used only when no
// bound resolved.
func resolveDuration(raw Record) Range {
	lo, hasLo := raw.firstInt(DurationMinAlias)
	hi, hasHi := raw.firstInt(DurationMaxAlias)
	if hasLo || hasHi {
		return Range{Min: lo, Max: hi}
	}
	v, ok := raw["duration"]
	if !ok || !present(v) {
		return Range{}
	}
	if r, ok := rangeFromObject(v); ok {
		return r
	}
	if text, ok := ToOptionalText(v); ok {
		r := ParsePlayersRange(text)
		if r.Min != nil && r.Max != nil && *r.Min == *r.Max && !rangeRegex.MatchString(text) {
			// A lone number is a play time, not a span.
			r.Max = nil
		}
		return r
	}
	return Range{}
}

// rangeFromObject accepts the canonical {min,max} shape.
func rangeFromObject(v any) (Range, bool) {
	switch t := v.(type) {
	case Range:
		return t, true
	case map[string]any:
		var r Range
		if n, ok := ToOptionalInt(t["min"]); ok {
			r.Min = intPtr(n)
		}
		if n, ok := ToOptionalInt(t["max"]); ok {
			r.Max = intPtr(n)
		}
		return r, true
	default:
		return Range{}, false
	}
}

// resolveWeight reads the complexity score, rescaling a 0-10 value onto the
// 0-5 scale and clamping the result into [0, MaxWeight].
func resolveWeight(raw Record) *float64 {
	w, ok := raw.firstNumber(WeightAliases)
	if !ok {
		return nil
	}
	v := *w
	if v > MaxWeight {
		v = (v / 10) * MaxWeight
	}
	v = math.Max(0, math.Min(MaxWeight, v))
	return &v
}

// resolveGenre prefers a "genre" sequence, then the plural aliases, then a
// comma-joined "genre" string.
func resolveGenre(raw Record) []string {
	switch v := raw["genre"].(type) {
	case []string, []any:
		return TagsFrom(v)
	}
	if v, _, ok := raw.lookup(GenreAliases); ok {
		return TagsFrom(v)
	}
	return TagsFrom(raw["genre"])
}

func resolveBGGURL(raw Record) string {
	if u, ok := raw.firstText([]string{"bgg_url"}); ok {
		return u
	}
	if id, ok := ToOptionalInt(raw[ExternalIDAlias]); ok && id > 0 {
		return BGGURLPrefix + strconv.Itoa(id)
	}
	return ""
}
