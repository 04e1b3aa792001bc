package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/ludoteca/internal/config"
	"github.com/JonMunkholm/ludoteca/internal/core"
)

func TestRegisteredKinds(t *testing.T) {
	for _, key := range []string{config.SourceJSON, config.SourcePostgres, config.SourcePostgREST} {
		if _, ok := core.Get(key); !ok {
			t.Errorf("source %q not registered", key)
		}
	}
}

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "games.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocumentSource_File(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"array", `[{"title":"Catan"},{"title":"Azul"}]`, 2, false},
		{"wrapped", `{"games":[{"title":"Catan"}]}`, 1, false},
		{"wrapped missing key", `{"other":[]}`, 0, false},
		{"malformed", `{"games":`, 0, true},
		{"scalar", `42`, 0, true},
		{"trailing text", `[{"title":"Catan"}] this is not json`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewDocumentSource(writeDoc(t, tt.body), "games", nil)
			got, err := src.Fetch(context.Background())
			if tt.wantErr {
				if !core.IsMalformed(err) {
					t.Fatalf("err = %v, want malformed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDocumentSource_MissingFile(t *testing.T) {
	src := NewDocumentSource(filepath.Join(t.TempDir(), "nope.json"), "", nil)
	_, err := src.Fetch(context.Background())
	if !core.IsTransport(err) {
		t.Fatalf("err = %v, want transport error", err)
	}
}

func TestDocumentSource_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "gone", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"games":[{"title":"Catan","bgg_id":13}]}`))
	}))
	defer srv.Close()

	src := NewDocumentSource(srv.URL+"/games.json", "games", srv.Client())
	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0]["title"] != "Catan" {
		t.Errorf("got %v", got)
	}

	broken := NewDocumentSource(srv.URL+"/broken", "games", srv.Client())
	if _, err := broken.Fetch(context.Background()); !core.IsTransport(err) {
		t.Errorf("err = %v, want transport error", err)
	}
}

func TestPostgresSource_Query(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"games", `SELECT * FROM "games"`},
		{"catalog.games", `SELECT * FROM "catalog"."games"`},
		{`we"ird`, `SELECT * FROM "we""ird"`},
	}

	for _, tt := range tests {
		if got := NewPostgresSource(nil, tt.table).Query(); got != tt.want {
			t.Errorf("Query(%q) = %q, want %q", tt.table, got, tt.want)
		}
	}
}

func TestPostgresSource_OpenWithoutDB(t *testing.T) {
	cfg := &config.Config{}
	cfg.Source.Table = "games"
	if _, err := core.Open(config.SourcePostgres, core.SourceDeps{Config: cfg}); err == nil {
		t.Fatal("expected error without a database")
	}
}

func TestPostgRESTSource_Fetch(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		_, _ = w.Write([]byte(`[{"id":"a1","name":"Azul","minPlayers":2,"maxPlayers":4}]`))
	}))
	defer srv.Close()

	src := NewPostgRESTSource(srv.URL+"/", "games", "anon-key-0123456789abcdef", "boardgames-app", srv.Client())
	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0]["name"] != "Azul" {
		t.Fatalf("got %v", got)
	}

	if gotReq.URL.Path != "/rest/v1/games" {
		t.Errorf("path = %q", gotReq.URL.Path)
	}
	if gotReq.URL.Query().Get("select") != "*" {
		t.Errorf("select = %q", gotReq.URL.Query().Get("select"))
	}
	if gotReq.Header.Get("apikey") != "anon-key-0123456789abcdef" {
		t.Errorf("apikey header = %q", gotReq.Header.Get("apikey"))
	}
	if gotReq.Header.Get("Authorization") != "Bearer anon-key-0123456789abcdef" {
		t.Errorf("authorization header = %q", gotReq.Header.Get("Authorization"))
	}
	if gotReq.Header.Get("x-app") != "boardgames-app" {
		t.Errorf("x-app header = %q", gotReq.Header.Get("x-app"))
	}
}

func TestPostgRESTSource_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/v1/missing" {
			http.Error(w, `{"message":"relation does not exist"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"not":"a list"`))
	}))
	defer srv.Close()

	_, err := NewPostgRESTSource(srv.URL, "missing", "k", "", srv.Client()).Fetch(context.Background())
	if !core.IsTransport(err) {
		t.Errorf("404: err = %v, want transport", err)
	}

	_, err = NewPostgRESTSource(srv.URL, "games", "k", "", srv.Client()).Fetch(context.Background())
	if !core.IsMalformed(err) {
		t.Errorf("bad body: err = %v, want malformed", err)
	}
}

func TestFallback_UsesSecondary(t *testing.T) {
	missing := NewDocumentSource(filepath.Join(t.TempDir(), "missing.json"), "", nil)
	backup := NewDocumentSource(writeDoc(t, `[{"title":"Catan"}]`), "", nil)

	got, err := core.Fallback(missing, backup).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}

	_, err = core.Fallback(missing, missing).Fetch(context.Background())
	var le *core.LoadError
	if !errors.As(err, &le) {
		t.Errorf("err = %v, want a joined *LoadError", err)
	}
}
