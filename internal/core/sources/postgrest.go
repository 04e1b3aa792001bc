package sources

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/JonMunkholm/ludoteca/internal/config"
	"github.com/JonMunkholm/ludoteca/internal/core"
)

func init() {
	core.Register(core.SourceDefinition{
		Info: core.SourceInfo{
			Key:   config.SourcePostgREST,
			Label: "Hosted table service",
			Shape: core.ShapeTableRow,
		},
		Open: func(deps core.SourceDeps) (core.Source, error) {
			ts := deps.Config.TableService
			return NewPostgRESTSource(ts.URL, deps.Config.Source.Table, ts.APIKey, ts.App, deps.HTTPClient), nil
		},
	})
}

// PostgRESTSource reads a table through a PostgREST-style REST endpoint,
// as exposed by hosted Postgres services. Only public reads are made.
type PostgRESTSource struct {
	baseURL string
	table   string
	apiKey  string
	app     string
	client  *http.Client
}

// NewPostgRESTSource creates a source reading table from baseURL.
// client may be nil.
func NewPostgRESTSource(baseURL, table, apiKey, app string, client *http.Client) *PostgRESTSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &PostgRESTSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		table:   table,
		apiKey:  apiKey,
		app:     app,
		client:  client,
	}
}

// Name implements core.Source.
func (s *PostgRESTSource) Name() string {
	return config.SourcePostgREST
}

// Endpoint returns the URL requested by Fetch.
func (s *PostgRESTSource) Endpoint() string {
	return s.baseURL + "/rest/v1/" + url.PathEscape(s.table) + "?select=*"
}

// Fetch implements core.Source.
func (s *PostgRESTSource) Fetch(ctx context.Context) ([]core.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint(), nil)
	if err != nil {
		return nil, core.TransportError(s.Name(), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if s.app != "" {
		req.Header.Set("x-app", s.app)
	}

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

	// Rows arrive as JSON objects; decode them like a document, then pass
	// each through the row adapter like any other table source.
	records, err := core.DecodeDocumentBytes(data, "")
	if err != nil {
		return nil, core.MalformedError(s.Name(), err)
	}
	for i, rec := range records {
		records[i] = core.RecordFromRow(rec)
	}
	return records, nil
}
