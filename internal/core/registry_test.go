package core

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/ludoteca/internal/config"
)

func withCleanRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := registry
	registry = make(map[string]SourceDefinition)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})
}

func stubDefinition(key string, records []Record, err error) SourceDefinition {
	return SourceDefinition{
		Info: SourceInfo{Key: key, Shape: ShapeDocument},
		Open: func(SourceDeps) (Source, error) {
			return &stubSource{name: key, records: records, err: err}, nil
		},
	}
}

func TestRegistry(t *testing.T) {
	withCleanRegistry(t)

	Register(stubDefinition("b", nil, nil))
	Register(stubDefinition("a", nil, nil))

	if SourceCount() != 2 {
		t.Errorf("SourceCount() = %d, want 2", SourceCount())
	}
	all := All()
	if all[0].Info.Key != "a" || all[1].Info.Key != "b" {
		t.Errorf("All() not sorted: %v, %v", all[0].Info.Key, all[1].Info.Key)
	}
	if def, _ := Get("a"); def.Info.Label != "a" {
		t.Errorf("Label default = %q, want key", def.Info.Label)
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register(stubDefinition("a", nil, nil))
}

func TestOpen_Unknown(t *testing.T) {
	withCleanRegistry(t)

	_, err := Open("mongo", SourceDeps{})
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Open() error = %v, want ErrUnknownSource", err)
	}
}

func TestOpenConfigured(t *testing.T) {
	withCleanRegistry(t)
	Register(stubDefinition(config.SourceJSON, nil, TransportError(config.SourceJSON, errors.New("missing"))))
	Register(stubDefinition(config.SourcePostgREST, []Record{{"title": "Azul"}}, nil))

	cfg := &config.Config{}
	cfg.Source.Kind = config.SourceJSON
	src, err := OpenConfigured(SourceDeps{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	if src.Name() != config.SourceJSON {
		t.Errorf("Name() = %q", src.Name())
	}

	cfg.Source.Fallback = config.SourcePostgREST
	src, err = OpenConfigured(SourceDeps{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	got, err := src.Fetch(context.Background())
	if err != nil || len(got) != 1 {
		t.Errorf("Fetch() = %v, %v; want fallback records", got, err)
	}
}
