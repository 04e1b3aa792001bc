package core

import (
	"math"
	"strings"
)

// Filter returns the games that satisfy every criterion, in input order.
// The input slice is not modified.
func Filter(games []Game, c Criteria) []Game {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	out := make([]Game, 0, len(games))
	for _, g := range games {
		if matches(g, c, q) {
			out = append(out, g)
		}
	}
	return out
}

// Matches reports whether g satisfies every criterion in c.
func Matches(g Game, c Criteria) bool {
	return matches(g, c, strings.ToLower(strings.TrimSpace(c.Query)))
}

func matches(g Game, c Criteria, lowerQuery string) bool {
	return matchesLowerQuery(g, lowerQuery) &&
		MatchesGenre(g, c.Genre) &&
		MatchesPlayers(g, c.Players) &&
		MatchesDuration(g, c.MaxDuration) &&
		MatchesComplexity(g, c.Complexity)
}

// MatchesQuery reports whether query is a case-insensitive substring of the
// title or of any genre tag. An empty query matches everything.
func MatchesQuery(g Game, query string) bool {
	return matchesLowerQuery(g, strings.ToLower(strings.TrimSpace(query)))
}

func matchesLowerQuery(g Game, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(g.Title), q) {
		return true
	}
	for _, tag := range g.Genre {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// MatchesGenre reports whether one of the game's tags equals genre,
// ignoring case. An empty genre matches everything.
func MatchesGenre(g Game, genre string) bool {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return true
	}
	for _, tag := range g.Genre {
		if strings.EqualFold(tag, genre) {
			return true
		}
	}
	return false
}

// MatchesPlayers reports whether the game can start with at most players
// people. Games with an unknown (or zero) minimum never match a non-zero
// request.
func MatchesPlayers(g Game, players int) bool {
	if players <= 0 {
		return true
	}
	return g.Players.Min != nil && *g.Players.Min != 0 && *g.Players.Min <= players
}

// MatchesDuration reports whether the game's effective play time fits in
// maxMinutes. Unknown durations never fit a non-zero ceiling.
func MatchesDuration(g Game, maxMinutes int) bool {
	if maxMinutes <= 0 {
		return true
	}
	return EffectiveDuration(g) <= float64(maxMinutes)
}

// EffectiveDuration is the non-zero lower bound, else the non-zero upper
// bound, else +Inf.
func EffectiveDuration(g Game) float64 {
	if g.Duration.Min != nil && *g.Duration.Min != 0 {
		return float64(*g.Duration.Min)
	}
	if g.Duration.Max != nil && *g.Duration.Max != 0 {
		return float64(*g.Duration.Max)
	}
	return math.Inf(1)
}

// MatchesComplexity reports whether the game's weight is within the ceiling
// of bucket. Bucket 0 (or any bucket without a ceiling) matches everything;
// games with no or zero weight never match a restricting bucket.
func MatchesComplexity(g Game, bucket int) bool {
	ceiling, ok := ComplexityCeiling(bucket)
	if !ok {
		return true
	}
	return g.Weight != nil && *g.Weight != 0 && *g.Weight <= ceiling
}
