package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		key     string
		want    int
		wantErr bool
	}{
		{"list", `[{"title":"a"},{"title":"b"}]`, "", 2, false},
		{"wrapped default key", `{"games":[{"title":"a"}]}`, "", 1, false},
		{"wrapped custom key", `{"giochi":[{"title":"a"}]}`, "giochi", 1, false},
		{"missing key", `{"other":[{"title":"a"}]}`, "", 0, false},
		{"null key", `{"games":null}`, "", 0, false},
		{"key not a list", `{"games":{"title":"a"}}`, "", 0, true},
		{"entry not an object", `[{"title":"a"}, 3]`, "", 0, true},
		{"scalar", `"games"`, "", 0, true},
		{"invalid json", `[{"title":`, "", 0, true},
		{"leading bom", "\ufeff[{\"title\":\"a\"}]", "", 1, false},
		{"bom only", "\ufeff", "", 0, true},
		{"short document", "[]", "", 0, false},
		{"trailing whitespace", "[{\"title\":\"a\"}]\n\t ", "", 1, false},
		{"trailing garbage", `[{"title":"A"}] this is not json`, "", 0, true},
		{"two documents", `[{"title":"A"}] [{"title":"B"}]`, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDocument(strings.NewReader(tt.doc), tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDecodeDocument_KeepsNumbers(t *testing.T) {
	got, err := DecodeDocumentBytes([]byte(`[{"bgg_id":13}]`), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got[0]["bgg_id"].(json.Number); !ok {
		t.Errorf("bgg_id is %T, want json.Number", got[0]["bgg_id"])
	}
}

func TestRecordFromRow(t *testing.T) {
	var rating pgtype.Numeric
	if err := rating.Scan("7.5"); err != nil {
		t.Fatal(err)
	}
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	loaded := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := RecordFromRow(map[string]any{
		"id":         [16]byte(id),
		"title":      "Catan",
		"bgg_rating": rating,
		"weight":     pgtype.Numeric{},
		"desc":       pgtype.Text{String: "Trade.", Valid: true},
		"cover":      []byte("c.png"),
		"genre":      []any{"Euro", pgtype.Text{String: "Trading", Valid: true}},
		"updated_at": loaded,
	})

	if rec["id"] != id.String() {
		t.Errorf("id = %v", rec["id"])
	}
	if rec["bgg_rating"] != 7.5 {
		t.Errorf("bgg_rating = %v", rec["bgg_rating"])
	}
	if rec["weight"] != nil {
		t.Errorf("weight = %v, want nil", rec["weight"])
	}
	if rec["desc"] != "Trade." || rec["cover"] != "c.png" {
		t.Errorf("desc = %v, cover = %v", rec["desc"], rec["cover"])
	}
	if rec["updated_at"] != "2024-03-01T12:00:00Z" {
		t.Errorf("updated_at = %v", rec["updated_at"])
	}

	g := Normalize(rec)
	if g.Rating == nil || *g.Rating != 7.5 {
		t.Errorf("normalized rating = %v", g.Rating)
	}
	if len(g.Genre) != 2 || g.Genre[1] != "Trading" {
		t.Errorf("normalized genre = %v", g.Genre)
	}
}

func TestFallback(t *testing.T) {
	primaryErr := TransportError("primary", errors.New("refused"))
	secondaryErr := MalformedError("secondary", errors.New("garbage"))

	t.Run("primary succeeds", func(t *testing.T) {
		p := &stubSource{name: "p", records: []Record{{"title": "a"}}}
		s := &stubSource{name: "s"}
		got, err := Fallback(p, s).Fetch(context.Background())
		if err != nil || len(got) != 1 {
			t.Fatalf("got %v, %v", got, err)
		}
		if s.calls.Load() != 0 {
			t.Error("secondary fetched although primary succeeded")
		}
	})

	t.Run("secondary used on failure", func(t *testing.T) {
		p := &stubSource{name: "p", err: primaryErr}
		s := &stubSource{name: "s", records: []Record{{"title": "b"}}}
		got, err := Fallback(p, s).Fetch(context.Background())
		if err != nil || len(got) != 1 {
			t.Fatalf("got %v, %v", got, err)
		}
	})

	t.Run("both fail", func(t *testing.T) {
		p := &stubSource{name: "p", err: primaryErr}
		s := &stubSource{name: "s", err: secondaryErr}
		_, err := Fallback(p, s).Fetch(context.Background())
		if !errors.Is(err, primaryErr) || !errors.Is(err, secondaryErr) {
			t.Errorf("err = %v, want both errors joined", err)
		}
	})

	t.Run("cancelled context skips secondary", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := &stubSource{name: "p", err: TransportError("p", context.Canceled)}
		s := &stubSource{name: "s", records: []Record{{"title": "b"}}}
		if _, err := Fallback(p, s).Fetch(ctx); err == nil {
			t.Fatal("expected error")
		}
		if s.calls.Load() != 0 {
			t.Error("secondary fetched after cancellation")
		}
	})

	if name := Fallback(&stubSource{name: "json"}, &stubSource{name: "postgrest"}).Name(); name != "json+postgrest" {
		t.Errorf("Name() = %q", name)
	}
}
