package core

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/JonMunkholm/ludoteca/internal/config"
)

// SourceShape names the record shape a source produces.
type SourceShape string

const (
	ShapeDocument SourceShape = "document"
	ShapeTableRow SourceShape = "table-row"
)

// SourceInfo contains display information about a source kind.
type SourceInfo struct {
	Key   string      // Unique identifier: "json", "postgres"
	Label string      // Display name
	Shape SourceShape // Record shape produced
}

// SourceDeps carries the shared resources a source may need.
type SourceDeps struct {
	Config     *config.Config
	DB         DBTX         // nil unless a database is configured
	HTTPClient *http.Client // nil means http.DefaultClient
}

// OpenFunc builds a Source from its dependencies.
type OpenFunc func(deps SourceDeps) (Source, error)

// SourceDefinition contains everything needed to open a source kind.
type SourceDefinition struct {
	Info SourceInfo
	Open OpenFunc
}

var (
	registry   = make(map[string]SourceDefinition)
	registryMu sync.RWMutex
)

// Register adds a source definition to the registry.
// Panics if a source with the same key is already registered.
func Register(def SourceDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("source already registered: %s", def.Info.Key))
	}
	if def.Info.Label == "" {
		def.Info.Label = def.Info.Key
	}

	registry[def.Info.Key] = def
}

// Get returns a source definition by key.
// Returns false if not found.
func Get(key string) (SourceDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered source definitions sorted by key.
func All() []SourceDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]SourceDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// SourceCount returns the number of registered sources.
func SourceCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Open builds the registered source for key.
func Open(key string, deps SourceDeps) (Source, error) {
	def, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, key)
	}
	src, err := def.Open(deps)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", key, err)
	}
	return src, nil
}

// OpenConfigured opens the source named by the configuration, wrapped with
// its fallback when one is configured.
func OpenConfigured(deps SourceDeps) (Source, error) {
	cfg := deps.Config
	primary, err := Open(cfg.Source.Kind, deps)
	if err != nil {
		return nil, err
	}
	if cfg.Source.Fallback == "" {
		return primary, nil
	}
	secondary, err := Open(cfg.Source.Fallback, deps)
	if err != nil {
		return nil, err
	}
	return Fallback(primary, secondary), nil
}
