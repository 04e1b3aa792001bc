package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
)

// Snapshot is one loaded, normalized game set. It is never modified after
// publication; a reload publishes a new Snapshot.
type Snapshot struct {
	Games    []Game
	Source   string
	LoadedAt time.Time

	byID map[string]int
}

// Len returns the number of games in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Games)
}

// Status describes the catalog's current snapshot and the last load attempt.
type Status struct {
	Source    string    `json:"source"`
	Games     int       `json:"games"`
	LoadedAt  time.Time `json:"loadedAt"`
	LastError string    `json:"lastError,omitempty"`
	ErrorAt   time.Time `json:"errorAt,omitempty"`
}

// Catalog owns the current snapshot and answers queries against it.
// Queries always run against a single snapshot; Load and Replace swap the
// whole set and never patch it in place.
type Catalog struct {
	source      Source
	normalizer  Normalizer
	loadTimeout time.Duration

	snapshot atomic.Pointer[Snapshot]
	flight   singleflight.Group

	mu        sync.Mutex
	lastErr   error
	lastErrAt time.Time
}

// DefaultLoadTimeout bounds a shared reload when none is configured.
const DefaultLoadTimeout = 15 * time.Second

// NewCatalog creates an empty catalog bound to src. src may be nil when the
// catalog is only fed through Replace.
func NewCatalog(src Source) *Catalog {
	c := &Catalog{source: src, loadTimeout: DefaultLoadTimeout}
	c.snapshot.Store(&Snapshot{Games: []Game{}, byID: map[string]int{}})
	return c
}

// SetNormalizer replaces the normalizer used by subsequent loads.
func (c *Catalog) SetNormalizer(n Normalizer) {
	c.normalizer = n
}

// SetLoadTimeout bounds each fetch started by Reload. Non-positive values
// restore DefaultLoadTimeout.
func (c *Catalog) SetLoadTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultLoadTimeout
	}
	c.loadTimeout = d
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() *Snapshot {
	return c.snapshot.Load()
}

// Replace normalizes records and publishes them as the new snapshot.
// Duplicate ids within the set are given fresh ids so lookups stay unique.
func (c *Catalog) Replace(records []Record, source string) *Snapshot {
	games := c.normalizer.NormalizeAll(records)
	byID := make(map[string]int, len(games))

	for i := range games {
		if _, dup := byID[games[i].ID]; dup {
			fresh := c.newID()
			slog.Warn("duplicate game id in source, assigning a new id",
				"source", source,
				"id", games[i].ID,
				"new_id", fresh,
				"title", games[i].Title,
			)
			games[i].ID = fresh
		}
		byID[games[i].ID] = i
	}

	snap := &Snapshot{
		Games:    games,
		Source:   source,
		LoadedAt: time.Now(),
		byID:     byID,
	}
	c.snapshot.Store(snap)
	return snap
}

func (c *Catalog) newID() string {
	if c.normalizer.NewID != nil {
		return c.normalizer.NewID()
	}
	return uuid.NewString()
}

// Load fetches src and publishes the result. On failure the current
// snapshot is kept and the error is recorded for Status.
func (c *Catalog) Load(ctx context.Context, src Source) (*Snapshot, error) {
	start := time.Now()
	records, err := src.Fetch(ctx)
	if err != nil {
		c.recordError(err)
		return c.Snapshot(), fmt.Errorf("load %s: %w", src.Name(), err)
	}

	snap := c.Replace(records, src.Name())
	c.recordError(nil)

	slog.Info("catalog loaded",
		"source", src.Name(),
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// Reload re-fetches the catalog's own source. Concurrent calls share a
// single fetch.
//
// The shared fetch is detached from ctx and bounded by the catalog's load
// timeout, so one caller going away does not fail the others. ctx only
// bounds how long this caller waits; on cancellation it returns the
// current snapshot and ctx's error while the fetch carries on.
func (c *Catalog) Reload(ctx context.Context) (*Snapshot, error) {
	if c.source == nil {
		return c.Snapshot(), ErrNoSource
	}
	ch := c.flight.DoChan("reload", func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		return c.Load(loadCtx, c.source)
	})

	select {
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	case res := <-ch:
		if res.Shared {
			slog.Debug("reload joined an in-flight load", "source", c.source.Name())
		}
		snap, _ := res.Val.(*Snapshot)
		if snap == nil {
			snap = c.Snapshot()
		}
		return snap, res.Err
	}
}

func (c *Catalog) recordError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		c.lastErrAt = time.Now()
	}
}

// Query filters then sorts the current snapshot.
// The same criteria over the same snapshot always yield the same sequence.
func (c *Catalog) Query(cr Criteria) []Game {
	return Run(c.Snapshot().Games, cr)
}

// Run applies the filter and sort engines to games.
func Run(games []Game, cr Criteria) []Game {
	return Sort(Filter(games, cr), cr.Sort)
}

// Find looks up a game by id in the current snapshot.
func (c *Catalog) Find(id string) (Game, bool) {
	snap := c.Snapshot()
	i, ok := snap.byID[id]
	if !ok {
		return Game{}, false
	}
	return snap.Games[i], true
}

// Genres returns the distinct tags of the current snapshot.
func (c *Catalog) Genres() []string {
	return c.Snapshot().Genres()
}

// Genres returns the distinct tags of the snapshot, compared without case.
// The first spelling seen wins; the result is ordered by its folded form.
func (s *Snapshot) Genres() []string {
	if s == nil {
		return []string{}
	}
	folder := cases.Fold()
	seen := make(map[string]string)
	for _, g := range s.Games {
		for _, tag := range g.Genre {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			key := folder.String(tag)
			if _, ok := seen[key]; !ok {
				seen[key] = tag
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	genres := make([]string, len(keys))
	for i, k := range keys {
		genres[i] = seen[k]
	}
	return genres
}

// Status reports the current snapshot and the last load error, if any.
func (c *Catalog) Status() Status {
	return c.StatusOf(c.Snapshot())
}

// StatusOf reports snap together with the last load error. Callers that
// already hold a snapshot use it so counts and games agree.
func (c *Catalog) StatusOf(snap *Snapshot) Status {
	st := Status{
		Source:   snap.Source,
		Games:    snap.Len(),
		LoadedAt: snap.LoadedAt,
	}
	if st.Source == "" && c.source != nil {
		st.Source = c.source.Name()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
		st.ErrorAt = c.lastErrAt
	}
	return st
}

// Upsert would store a game in the source. Writing is disabled; it always
// returns ErrWriteDisabled.
func (c *Catalog) Upsert(ctx context.Context, g Game) error {
	return fmt.Errorf("upsert %q: %w", g.ID, ErrWriteDisabled)
}
