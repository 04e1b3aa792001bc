package core

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stubSource returns a fixed record set or error and counts fetches.
type stubSource struct {
	name    string
	records []Record
	err     error
	calls   atomic.Int32
	gate    chan struct{} // when non-nil, Fetch blocks until closed
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) ([]Record, error) {
	s.calls.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func sampleRecords() []Record {
	return []Record{
		{"id": "catan", "title": "Catan", "players": "3-4", "duration": 60, "rating": 7.1, "genre": []any{"Euro", "Trading"}},
		{"id": "azul", "title": "Azul", "minPlayers": 2, "maxPlayers": 4, "duration": 40, "rating": 7.8, "tags": "abstract, Family"},
		{"id": "brass", "title": "Brass", "players": "2-4", "duration": 120, "rating": 8.6, "genres": []any{"euro"}},
	}
}

func TestCatalog_EmptyBeforeLoad(t *testing.T) {
	c := NewCatalog(nil)
	if got := c.Query(DefaultCriteria()); len(got) != 0 {
		t.Errorf("Query() on empty catalog = %v", got)
	}
	if _, ok := c.Find("x"); ok {
		t.Error("Find() on empty catalog should miss")
	}
	if st := c.Status(); st.Games != 0 || st.LastError != "" {
		t.Errorf("Status() = %+v", st)
	}
}

func TestCatalog_Load(t *testing.T) {
	src := &stubSource{name: "stub", records: sampleRecords()}
	c := NewCatalog(src)

	snap, err := c.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if snap.Len() != 3 || snap.Source != "stub" {
		t.Errorf("snapshot = %d games from %q", snap.Len(), snap.Source)
	}

	got := titles(c.Query(DefaultCriteria()))
	if want := []string{"Brass", "Azul", "Catan"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Query(default) = %v, want %v", got, want)
	}

	got = titles(c.Query(DefaultCriteria().With(FieldGenre, "EURO").With(FieldDuration, "90")))
	if want := []string{"Catan"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Query(euro, 90m) = %v, want %v", got, want)
	}

	g, ok := c.Find("azul")
	if !ok || g.Title != "Azul" {
		t.Errorf("Find(azul) = %+v, %v", g, ok)
	}
}

func TestCatalog_LoadFailureKeepsSnapshot(t *testing.T) {
	src := &stubSource{name: "stub", records: sampleRecords()}
	c := NewCatalog(src)
	if _, err := c.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := c.Snapshot()

	src.err = TransportError("stub", errors.New("connection refused"))
	snap, err := c.Reload(context.Background())
	if !IsTransport(err) {
		t.Fatalf("Reload() error = %v, want transport error", err)
	}
	if snap != before || c.Snapshot() != before {
		t.Error("failed load replaced the snapshot")
	}

	st := c.Status()
	if st.Games != 3 || st.LastError == "" || st.ErrorAt.IsZero() {
		t.Errorf("Status() = %+v", st)
	}

	src.err = nil
	if _, err := c.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if st := c.Status(); st.LastError != "" {
		t.Errorf("LastError after recovery = %q", st.LastError)
	}
}

func TestCatalog_ReplaceDuplicateIDs(t *testing.T) {
	c := NewCatalog(nil)
	c.SetNormalizer(Normalizer{NewID: fixedIDs("fresh-1", "fresh-2")})

	snap := c.Replace([]Record{
		{"id": "dup", "title": "First"},
		{"id": "dup", "title": "Second"},
		{"title": "No id"},
	}, "test")

	ids := make([]string, snap.Len())
	for i, g := range snap.Games {
		ids[i] = g.ID
	}
	// "No id" draws fresh-1 during normalization; the duplicate draws next.
	if want := []string{"dup", "fresh-2", "fresh-1"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	g, ok := c.Find("dup")
	if !ok || g.Title != "First" {
		t.Errorf("Find(dup) = %+v, %v", g, ok)
	}
	g, ok = c.Find("fresh-2")
	if !ok || g.Title != "Second" {
		t.Errorf("Find(fresh-2) = %+v, %v", g, ok)
	}
}

func TestCatalog_ReloadSharesInFlightFetch(t *testing.T) {
	src := &stubSource{name: "slow", records: sampleRecords(), gate: make(chan struct{})}
	c := NewCatalog(src)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Reload(context.Background())
			errs <- err
		}()
	}

	// Give every caller time to join before releasing the fetch.
	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Reload() error = %v", err)
		}
	}
	if n := src.calls.Load(); n < 1 || n > callers {
		t.Errorf("fetch calls = %d", n)
	}
	if c.Snapshot().Len() != 3 {
		t.Errorf("games = %d, want 3", c.Snapshot().Len())
	}
}

func TestCatalog_ReloadSurvivesCallerCancel(t *testing.T) {
	src := &stubSource{name: "slow", records: sampleRecords(), gate: make(chan struct{})}
	c := NewCatalog(src)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.Reload(ctx)
		first <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	second := make(chan error, 1)
	go func() {
		_, err := c.Reload(context.Background())
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(src.gate)
	if err := <-second; err != nil {
		t.Errorf("joined caller error = %v, want nil", err)
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
	if c.Snapshot().Len() != 3 {
		t.Errorf("games = %d, want 3", c.Snapshot().Len())
	}
	if st := c.Status(); st.LastError != "" {
		t.Errorf("LastError = %q, want empty", st.LastError)
	}
}

func TestCatalog_ReloadLoadTimeout(t *testing.T) {
	src := &stubSource{name: "stuck", records: sampleRecords(), gate: make(chan struct{})}
	defer close(src.gate)
	c := NewCatalog(src)
	c.SetLoadTimeout(20 * time.Millisecond)

	_, err := c.Reload(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Reload() error = %v, want deadline exceeded", err)
	}
	if c.Snapshot().Len() != 0 {
		t.Errorf("games = %d, want 0", c.Snapshot().Len())
	}
}

func TestCatalog_ReloadWithoutSource(t *testing.T) {
	c := NewCatalog(nil)
	if _, err := c.Reload(context.Background()); !errors.Is(err, ErrNoSource) {
		t.Errorf("Reload() error = %v, want ErrNoSource", err)
	}
}

func TestCatalog_Genres(t *testing.T) {
	c := NewCatalog(nil)
	c.Replace(sampleRecords(), "test")

	got := c.Genres()
	if want := []string{"abstract", "Euro", "Family", "Trading"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Genres() = %v, want %v", got, want)
	}
}

func TestSnapshot_ViewsStayConsistentAcrossReplace(t *testing.T) {
	c := NewCatalog(nil)
	old := c.Replace(sampleRecords(), "first")

	c.Replace([]Record{{"id": "hive", "title": "Hive", "genres": "Abstract"}}, "second")

	if got, want := old.Genres(), []string{"abstract", "Euro", "Family", "Trading"}; !reflect.DeepEqual(got, want) {
		t.Errorf("old snapshot Genres() = %v, want %v", got, want)
	}
	if st := c.StatusOf(old); st.Games != 3 || st.Source != "first" {
		t.Errorf("StatusOf(old) = %+v, want 3 games from first", st)
	}

	if got, want := c.Genres(), []string{"Abstract"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Genres() = %v, want %v", got, want)
	}
	if st := c.Status(); st.Games != 1 || st.Source != "second" {
		t.Errorf("Status() = %+v, want 1 game from second", st)
	}

	var none *Snapshot
	if got := none.Genres(); len(got) != 0 {
		t.Errorf("nil snapshot Genres() = %v", got)
	}
}

func TestCatalog_Upsert(t *testing.T) {
	c := NewCatalog(nil)
	err := c.Upsert(context.Background(), Game{ID: "catan"})
	if !errors.Is(err, ErrWriteDisabled) {
		t.Errorf("Upsert() error = %v, want ErrWriteDisabled", err)
	}
	if MapError(err).Code != "CAT002" {
		t.Errorf("code = %q, want CAT002", MapError(err).Code)
	}
}

func TestCatalog_StatusNamesSourceBeforeLoad(t *testing.T) {
	c := NewCatalog(&stubSource{name: "json"})
	if st := c.Status(); st.Source != "json" {
		t.Errorf("Source = %q, want json", st.Source)
	}
}

func TestCatalog_StartReloadScheduler(t *testing.T) {
	src := &stubSource{name: "tick", records: sampleRecords()}
	c := NewCatalog(src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.StartReloadScheduler(ctx, 10*time.Millisecond, time.Second)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for c.Snapshot().Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if c.Snapshot().Len() != 3 {
		t.Errorf("scheduler did not load: %d games", c.Snapshot().Len())
	}
}

func TestCatalog_StartReloadSchedulerDisabled(t *testing.T) {
	src := &stubSource{name: "tick"}
	c := NewCatalog(src)

	// A zero interval must return immediately.
	c.StartReloadScheduler(context.Background(), 0, time.Second)
	if src.calls.Load() != 0 {
		t.Errorf("fetch calls = %d, want 0", src.calls.Load())
	}
}
