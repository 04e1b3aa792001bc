package templates

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/ludoteca/internal/core"
	"github.com/a-h/templ"
)

// CatalogData is everything the catalog page needs.
type CatalogData struct {
	Criteria core.Criteria
	Genres   []string
	Games    []core.Game
	Total    int // games in the snapshot, before filtering
	Status   core.Status
}

// complexityLabels names the complexity buckets in form order.
var complexityLabels = []string{"Any", "Light", "Medium-light", "Medium", "Medium-heavy"}

// sortLabels names each sort option.
var sortLabels = map[string]string{
	"rating-desc":     "Rating: best first",
	"rating-asc":      "Rating: lowest first",
	"title-asc":       "Title: A to Z",
	"title-desc":      "Title: Z to A",
	"duration-asc":    "Duration: shortest",
	"duration-desc":   "Duration: longest",
	"complexity-asc":  "Complexity: lightest",
	"complexity-desc": "Complexity: heaviest",
}

// CatalogPage is the filter form followed by the grid.
func CatalogPage(data CatalogData) templ.Component {
	return render(func(ctx context.Context, h *html) {
		h.raw(`<section class="catalog">`)
		h.component(ctx, FilterForm(data.Criteria, data.Genres))
		h.raw(`<div id="grid" aria-live="polite">`)
		h.component(ctx, Grid(data.Games, data.Total))
		h.raw(`</div>`)
		if data.Status.LastError != "" {
			h.raw(`<p class="status status-stale">Showing the last loaded list; the latest reload failed.</p>`)
		}
		h.raw(`</section>`)
	})
}

// FilterForm renders the criteria controls. It submits to /games, which
// answers with a grid fragment for script-driven requests.
func FilterForm(c core.Criteria, genres []string) templ.Component {
	return render(func(ctx context.Context, h *html) {
		h.raw(`<form id="filters" class="filters" method="get" action="/games" data-target="#grid">`)

		h.raw(`<label>Search<input type="search"`)
		h.attr("name", core.FieldQuery)
		h.attr("value", c.Query)
		h.raw(` placeholder="Title or genre"></label>`)

		h.raw(`<label>Genre<select`)
		h.attr("name", core.FieldGenre)
		h.raw(`><option value="">All genres</option>`)
		for _, genre := range genres {
			option(h, genre, genre, strings.EqualFold(c.Genre, genre))
		}
		h.raw(`</select></label>`)

		h.raw(`<label>Players<input type="number" min="1" max="20"`)
		h.attr("name", core.FieldPlayers)
		h.attr("value", positive(c.Players))
		h.raw(`></label>`)

		h.raw(`<label>Max minutes<input type="number" min="1" step="5"`)
		h.attr("name", core.FieldDuration)
		h.attr("value", positive(c.MaxDuration))
		h.raw(`></label>`)

		h.raw(`<label>Complexity<select`)
		h.attr("name", core.FieldComplexity)
		h.raw(`>`)
		for bucket, label := range complexityLabels {
			value := ""
			if bucket > 0 {
				value = strconv.Itoa(bucket)
			}
			option(h, value, label, bucket == c.Complexity)
		}
		h.raw(`</select></label>`)

		h.raw(`<label>Sort<select`)
		h.attr("name", core.FieldSort)
		h.raw(`>`)
		for _, spec := range core.SortOptions {
			key := spec.String()
			option(h, key, sortLabels[key], spec == c.Sort)
		}
		h.raw(`</select></label>`)

		h.raw(`<noscript><button type="submit">Apply</button></noscript>`)
		h.raw(`</form>`)
	})
}

// Grid renders the result count and one card per game.
func Grid(games []core.Game, total int) templ.Component {
	return render(func(ctx context.Context, h *html) {
		h.raw(`<p class="result-count">`)
		h.text(strconv.Itoa(len(games)) + " of " + strconv.Itoa(total) + " games")
		h.raw(`</p>`)
		if len(games) == 0 {
			h.raw(`<p class="empty">No games match these filters.</p>`)
			return
		}
		h.raw(`<ul class="grid">`)
		for _, g := range games {
			h.component(ctx, Card(g))
		}
		h.raw(`</ul>`)
	})
}

// Card renders one game tile linking to its detail view.
func Card(g core.Game) templ.Component {
	return render(func(ctx context.Context, h *html) {
		h.raw(`<li class="card"><a class="card-link"`)
		h.href(detailPath(g.ID))
		h.raw(` data-detail>`)
		cover(h, g)
		h.raw(`<h3 class="card-title">`)
		h.text(g.Title)
		h.raw(`</h3><dl class="card-stats">`)
		stat(h, "Players", g.PlayersLabel())
		stat(h, "Time", g.DurationLabel())
		stat(h, "Weight", g.WeightLabel())
		stat(h, "Rating", g.RatingLabel())
		h.raw(`</dl>`)
		tags(h, g.Genre)
		h.raw(`</a></li>`)
	})
}

// Detail renders the full game view used in the dialog and on its own page.
func Detail(g core.Game) templ.Component {
	return render(func(ctx context.Context, h *html) {
		h.raw(`<article class="detail"`)
		h.attr("data-id", g.ID)
		h.raw(`><header><h2>`)
		h.text(g.Title)
		h.raw(`</h2><form method="dialog"><button class="close" aria-label="Close">×</button></form></header>`)
		cover(h, g)
		h.raw(`<dl class="detail-stats">`)
		stat(h, "Players", g.PlayersLabel())
		stat(h, "Play time", g.DurationLabel())
		stat(h, "Complexity", g.WeightLabel())
		stat(h, "Rating", g.RatingLabel())
		h.raw(`</dl>`)
		tags(h, g.Genre)
		if g.Desc != "" {
			h.raw(`<p class="detail-desc">`)
			h.text(g.Desc)
			h.raw(`</p>`)
		}
		if g.BGGURL != "" || g.RulesURL != "" {
			h.raw(`<p class="detail-links">`)
			if g.BGGURL != "" {
				h.raw(`<a rel="noopener" target="_blank"`)
				h.href(g.BGGURL)
				h.raw(`>BoardGameGeek</a>`)
			}
			if g.RulesURL != "" {
				h.raw(`<a rel="noopener" target="_blank"`)
				h.href(g.RulesURL)
				h.raw(`>Rules</a>`)
			}
			h.raw(`</p>`)
		}
		h.raw(`</article>`)
	})
}

func detailPath(id string) string {
	return "/games/" + url.PathEscape(id)
}

func cover(h *html, g core.Game) {
	if g.Cover == "" {
		h.raw(`<div class="cover cover-missing" aria-hidden="true"></div>`)
		return
	}
	h.raw(`<img class="cover" loading="lazy"`)
	h.attr("src", string(templ.URL(g.Cover)))
	h.attr("alt", g.Title)
	h.raw(`>`)
}

func stat(h *html, label, value string) {
	h.raw(`<div><dt>`)
	h.text(label)
	h.raw(`</dt><dd>`)
	h.text(value)
	h.raw(`</dd></div>`)
}

func tags(h *html, genre []string) {
	if len(genre) == 0 {
		return
	}
	h.raw(`<ul class="tags">`)
	for _, tag := range genre {
		if tag == "" {
			continue
		}
		h.raw(`<li>`)
		h.text(tag)
		h.raw(`</li>`)
	}
	h.raw(`</ul>`)
}

func option(h *html, value, label string, selected bool) {
	h.raw(`<option`)
	h.attr("value", value)
	if selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
