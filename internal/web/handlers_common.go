package web

// handlers_common.go holds request parsing and response types shared by
// the page and API handlers.

import (
	"net/http"

	"github.com/JonMunkholm/ludoteca/internal/core"
)

// MaxBodySize caps request bodies on write endpoints (1MB).
const MaxBodySize = 1 << 20

// criteriaFields lists the query parameters read into core.Criteria.
var criteriaFields = []string{
	core.FieldQuery,
	core.FieldGenre,
	core.FieldPlayers,
	core.FieldDuration,
	core.FieldComplexity,
	core.FieldSort,
}

// parseCriteria reads filter and sort criteria from the URL query.
// Missing or unreadable parameters leave the default in place.
func parseCriteria(r *http.Request) core.Criteria {
	q := r.URL.Query()
	c := core.DefaultCriteria()
	for _, field := range criteriaFields {
		if !q.Has(field) {
			continue
		}
		c = c.With(field, q.Get(field))
	}
	return c
}

// GamesResponse is the JSON body of GET /api/games.
type GamesResponse struct {
	Total    int           `json:"total"`
	Criteria core.Criteria `json:"criteria"`
	Items    []core.Game   `json:"items"`
}

// HealthResponse is the JSON body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Games  int    `json:"games"`
}
