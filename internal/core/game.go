package core

// Record is a loosely-typed input record as produced by a source adapter.
// Keys are upstream field names; values are whatever the source decoded.
type Record map[string]any

// Range is an inclusive integer range where either bound may be unknown.
type Range struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// Game is the canonical catalog entry. It is built once per input record by
// Normalize and never mutated afterwards.
type Game struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Cover    string   `json:"cover"`
	Players  Range    `json:"players"`
	Duration Range    `json:"duration"`
	Weight   *float64 `json:"weight"`
	Rating   *float64 `json:"rating"`
	Genre    []string `json:"genre"`
	Desc     string   `json:"desc"`
	BGGURL   string   `json:"bgg_url,omitempty"`
	RulesURL string   `json:"rules_url,omitempty"`
}

// Record returns the game in canonical field names, suitable for feeding
// back into Normalize.
func (g Game) Record() Record {
	r := Record{
		"id":       g.ID,
		"title":    g.Title,
		"cover":    g.Cover,
		"players":  g.Players.record(),
		"duration": g.Duration.record(),
		"genre":    append([]string(nil), g.Genre...),
		"desc":     g.Desc,
	}
	if g.Weight != nil {
		r["weight"] = *g.Weight
	}
	if g.Rating != nil {
		r["rating"] = *g.Rating
	}
	if g.BGGURL != "" {
		r["bgg_url"] = g.BGGURL
	}
	if g.RulesURL != "" {
		r["rules_url"] = g.RulesURL
	}
	return r
}

func (r Range) record() map[string]any {
	m := map[string]any{"min": nil, "max": nil}
	if r.Min != nil {
		m["min"] = *r.Min
	}
	if r.Max != nil {
		m["max"] = *r.Max
	}
	return m
}

// Known reports whether at least one bound is set.
func (r Range) Known() bool {
	return r.Min != nil || r.Max != nil
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
