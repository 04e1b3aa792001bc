package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/JonMunkholm/ludoteca/internal/config"
	"github.com/JonMunkholm/ludoteca/internal/core"
)

// MaxDocumentSize caps how much of a document is read (32MB).
const MaxDocumentSize = 32 << 20

func init() {
	core.Register(core.SourceDefinition{
		Info: core.SourceInfo{
			Key:   config.SourceJSON,
			Label: "JSON document",
			Shape: core.ShapeDocument,
		},
		Open: func(deps core.SourceDeps) (core.Source, error) {
			cfg := deps.Config.Source
			return NewDocumentSource(cfg.Document, cfg.DocumentKey, deps.HTTPClient), nil
		},
	})
}

// DocumentSource reads a JSON document from a local file or an http(s) URL.
type DocumentSource struct {
	location string
	key      string
	client   *http.Client
}

// NewDocumentSource creates a source for location. key is the wrapper key
// for object documents; client may be nil.
func NewDocumentSource(location, key string, client *http.Client) *DocumentSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &DocumentSource{location: location, key: key, client: client}
}

// Name implements core.Source.
func (s *DocumentSource) Name() string {
	return config.SourceJSON
}

// Fetch implements core.Source.
func (s *DocumentSource) Fetch(ctx context.Context) ([]core.Record, error) {
	var (
		data []byte
		err  error
	)
	if isRemote(s.location) {
		data, err = s.fetchRemote(ctx)
	} else {
		data, err = s.readFile()
	}
	if err != nil {
		return nil, err
	}

	records, err := core.DecodeDocumentBytes(data, s.key)
	if err != nil {
		return nil, core.MalformedError(s.Name(), err)
	}
	return records, nil
}

func (s *DocumentSource) readFile() ([]byte, error) {
	f, err := os.Open(s.location)
	if err != nil {
		return nil, core.TransportError(s.Name(), err)
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return nil, core.TransportError(s.Name(), err)
	}
	return data, nil
}

func (s *DocumentSource) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, core.TransportError(s.Name(), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, core.TransportError(s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.TransportError(s.Name(), statusError(resp))
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, core.TransportError(s.Name(), err)
	}
	return data, nil
}

// errDocumentTooLarge is returned when a payload exceeds MaxDocumentSize.
var errDocumentTooLarge = errors.New("document too large")

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentSize {
		return nil, errDocumentTooLarge
	}
	return data, nil
}

// statusError describes a non-2xx response, including the start of its body.
func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
