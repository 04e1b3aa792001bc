package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/ludoteca/internal/core"
	"github.com/JonMunkholm/ludoteca/internal/logging"
	"github.com/JonMunkholm/ludoteca/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// catalogData assembles the page model for criteria c from one snapshot.
func (s *Server) catalogData(c core.Criteria) templates.CatalogData {
	snap := s.catalog.Snapshot()
	return templates.CatalogData{
		Criteria: c,
		Genres:   snap.Genres(),
		Games:    core.Run(snap.Games, c),
		Total:    snap.Len(),
		Status:   s.catalog.StatusOf(snap),
	}
}

// handleCatalog renders the full catalog page.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	data := s.catalogData(parseCriteria(r))
	writePage(w, r, "Games", http.StatusOK, templates.CatalogPage(data))
}

// handleGames renders the grid. Script-driven requests get the fragment
// only; plain form submissions get the whole page.
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	c := parseCriteria(r)
	if !isFragment(r) {
		writePage(w, r, "Games", http.StatusOK, templates.CatalogPage(s.catalogData(c)))
		return
	}

	snap := s.catalog.Snapshot()
	writeFragment(w, r, http.StatusOK, templates.Grid(core.Run(snap.Games, c), snap.Len()))
}

// handleGameDetail renders one game, as a dialog fragment or a page.
func (s *Server) handleGameDetail(w http.ResponseWriter, r *http.Request) {
	g, err := s.findGame(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	if isFragment(r) {
		writeFragment(w, r, http.StatusOK, templates.Detail(g))
		return
	}
	writePage(w, r, g.Title, http.StatusOK, templates.Detail(g))
}

func (s *Server) findGame(r *http.Request) (core.Game, error) {
	id := chi.URLParam(r, "id")
	g, ok := s.catalog.Find(id)
	if !ok {
		return core.Game{}, fmt.Errorf("game %q: %w", id, core.ErrGameNotFound)
	}
	return g, nil
}

// handleHealth reports liveness and the loaded game count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Games: s.catalog.Snapshot().Len()})
}

// handleAPIGames returns the filtered, sorted games.
func (s *Server) handleAPIGames(w http.ResponseWriter, r *http.Request) {
	c := parseCriteria(r)
	items := s.catalog.Query(c)
	writeJSON(w, http.StatusOK, GamesResponse{
		Total:    len(items),
		Criteria: c,
		Items:    items,
	})
}

// handleAPIGame returns one game.
func (s *Server) handleAPIGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.findGame(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleAPIGenres returns the distinct genres of the current snapshot.
func (s *Server) handleAPIGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Genres())
}

// handleAPIStatus returns the snapshot and last-load status.
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Status())
}

// handleAPIReload re-fetches the source. On failure the previous games stay
// in place and the error is reported.
func (s *Server) handleAPIReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if timeout := s.cfg.Source.LoadTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if _, err := s.catalog.Reload(ctx); err != nil {
		respondError(w, r, err, 0)
		return
	}

	st := s.catalog.Status()
	logging.WithFields(r.Context(), "source", st.Source).Info("catalog reloaded on request",
		"games", st.Games,
	)
	writeJSON(w, http.StatusOK, st)
}

// handleAPIUpsert accepts a game record and passes it to the catalog's
// write path, which is disabled.
func (s *Server) handleAPIUpsert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var rec core.Record
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		respondError(w, r, core.MalformedError("request", err), http.StatusBadRequest)
		return
	}

	if err := s.catalog.Upsert(r.Context(), core.Normalize(rec)); err != nil {
		respondError(w, r, err, 0)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
