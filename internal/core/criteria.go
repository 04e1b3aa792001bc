package core

import (
	"strconv"
	"strings"
)

// SortKey selects the value games are ordered by.
type SortKey string

const (
	SortRating     SortKey = "rating"
	SortTitle      SortKey = "title"
	SortDuration   SortKey = "duration"
	SortComplexity SortKey = "complexity"
)

// SortDir is the ordering direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// SortSpec is a key and direction, written "key-dir" in URLs and forms.
type SortSpec struct {
	Key SortKey `json:"key"`
	Dir SortDir `json:"dir"`
}

// DefaultSort orders by rating, best first.
var DefaultSort = SortSpec{Key: SortRating, Dir: SortDesc}

// SortOptions lists the selectable orderings in display order.
var SortOptions = []SortSpec{
	{SortRating, SortDesc},
	{SortRating, SortAsc},
	{SortTitle, SortAsc},
	{SortTitle, SortDesc},
	{SortDuration, SortAsc},
	{SortDuration, SortDesc},
	{SortComplexity, SortAsc},
	{SortComplexity, SortDesc},
}

// String returns the "key-dir" form.
func (s SortSpec) String() string {
	return string(s.Key) + "-" + string(s.Dir)
}

// ParseSort parses "key-dir". ok is false for unknown keys or directions.
func ParseSort(s string) (SortSpec, bool) {
	key, dir, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "-")
	if !found {
		return SortSpec{}, false
	}
	spec := SortSpec{Key: SortKey(key), Dir: SortDir(dir)}
	switch spec.Key {
	case SortRating, SortTitle, SortDuration, SortComplexity:
	default:
		return SortSpec{}, false
	}
	if spec.Dir != SortAsc && spec.Dir != SortDesc {
		return SortSpec{}, false
	}
	return spec, true
}

// ComplexityCeilings maps a complexity bucket to its weight ceiling.
// Bucket 0 means "any" and has no ceiling.
var ComplexityCeilings = [...]float64{0, 1.5, 2.5, 3.5, 4.5}

// ComplexityCeiling returns the ceiling for bucket, or ok=false when the
// bucket does not restrict anything.
func ComplexityCeiling(bucket int) (float64, bool) {
	if bucket <= 0 || bucket >= len(ComplexityCeilings) {
		return 0, false
	}
	return ComplexityCeilings[bucket], true
}

// Criteria field names, as used by query strings and form controls.
const (
	FieldQuery      = "q"
	FieldGenre      = "genre"
	FieldPlayers    = "players"
	FieldDuration   = "duration"
	FieldComplexity = "complexity"
	FieldSort       = "sort"
)

// Criteria is the set of user-selected filter and sort parameters.
// It is a value: With returns an updated copy.
type Criteria struct {
	Query       string   `json:"q,omitempty"`
	Genre       string   `json:"genre,omitempty"`
	Players     int      `json:"players,omitempty"`
	MaxDuration int      `json:"duration,omitempty"`
	Complexity  int      `json:"complexity,omitempty"`
	Sort        SortSpec `json:"sort"`
}

// DefaultCriteria matches everything and sorts by rating, best first.
func DefaultCriteria() Criteria {
	return Criteria{Sort: DefaultSort}
}

// With returns a copy of c with one field set from a UI string.
// An empty value clears the field. Values that cannot be read leave the
// criterion unapplied; an unreadable sort keeps the current sort.
func (c Criteria) With(field, value string) Criteria {
	value = strings.TrimSpace(value)
	switch field {
	case FieldQuery:
		c.Query = value
	case FieldGenre:
		c.Genre = value
	case FieldPlayers:
		c.Players = positiveInt(value)
	case FieldDuration:
		c.MaxDuration = positiveInt(value)
	case FieldComplexity:
		c.Complexity = positiveInt(value)
		if _, ok := ComplexityCeiling(c.Complexity); !ok {
			c.Complexity = 0
		}
	case FieldSort:
		if spec, ok := ParseSort(value); ok {
			c.Sort = spec
		} else if value == "" {
			c.Sort = DefaultSort
		}
	}
	return c
}

// Values returns the non-empty criteria as field/value pairs, the inverse
// of applying With for each pair.
func (c Criteria) Values() map[string]string {
	v := make(map[string]string, 6)
	if c.Query != "" {
		v[FieldQuery] = c.Query
	}
	if c.Genre != "" {
		v[FieldGenre] = c.Genre
	}
	if c.Players > 0 {
		v[FieldPlayers] = strconv.Itoa(c.Players)
	}
	if c.MaxDuration > 0 {
		v[FieldDuration] = strconv.Itoa(c.MaxDuration)
	}
	if c.Complexity > 0 {
		v[FieldComplexity] = strconv.Itoa(c.Complexity)
	}
	if c.Sort != (SortSpec{}) {
		v[FieldSort] = c.Sort.String()
	}
	return v
}

// positiveInt parses s as a positive integer; anything else yields 0.
func positiveInt(s string) int {
	f, ok := ToOptionalNumber(s)
	if !ok || !isFinite(f) || f < 1 {
		return 0
	}
	return int(f)
}
