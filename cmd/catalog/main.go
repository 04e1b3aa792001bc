// Command catalog loads the configured game source once and prints the games
// matching the given criteria.
//
//	catalog -players 4 -sort duration-asc
//	catalog -document https://example.com/games.json -genre euro -json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/ludoteca/internal/config"
	"github.com/JonMunkholm/ludoteca/internal/core"
	_ "github.com/JonMunkholm/ludoteca/internal/core/sources" // Register all sources
	"github.com/JonMunkholm/ludoteca/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

// report prints the user message for err. Errors without a specific message
// also print the underlying cause.
func report(w io.Writer, err error) {
	fmt.Fprintln(w, "catalog:", core.FormatUserError(err))
	if !core.IsUserFacing(err) {
		fmt.Fprintln(w, "  cause:", err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	var (
		query      = fs.String("q", "", "title or genre substring")
		genre      = fs.String("genre", "", "genre tag")
		players    = fs.String("players", "", "player count that must fit")
		duration   = fs.String("duration", "", "maximum play time in minutes")
		complexity = fs.String("complexity", "", "complexity bucket 1-4")
		sortBy     = fs.String("sort", core.DefaultSort.String(), "sort order, e.g. title-asc")
		source     = fs.String("source", "", "source kind (overrides SOURCE_KIND)")
		document   = fs.String("document", "", "JSON document path or URL (overrides GAMES_DOCUMENT)")
		asJSON     = fs.Bool("json", false, "print JSON instead of a table")
		logLevel   = fs.String("log-level", "warn", "log level")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_ = godotenv.Load()

	overrides := map[string]string{
		"SOURCE_KIND":    *source,
		"GAMES_DOCUMENT": *document,
		"LOG_LEVEL":      *logLevel,
	}
	cfg, err := config.LoadWith(func(key string) string {
		if v := overrides[key]; v != "" {
			return v
		}
		return os.Getenv(key)
	})
	if err != nil {
		return err
	}
	// Logs go to stderr so the listing on stdout stays clean.
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Source.LoadTimeout)
	defer cancel()

	deps := core.SourceDeps{
		Config:     cfg,
		HTTPClient: &http.Client{Timeout: cfg.Source.LoadTimeout},
	}
	if cfg.Source.UsesSource(config.SourcePostgres) {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		deps.DB = pool
	}

	src, err := core.OpenConfigured(deps)
	if err != nil {
		return err
	}

	catalog := core.NewCatalog(src)
	catalog.SetLoadTimeout(cfg.Source.LoadTimeout)
	if _, err := catalog.Reload(ctx); err != nil {
		return err
	}

	c := core.DefaultCriteria().
		With(core.FieldQuery, *query).
		With(core.FieldGenre, *genre).
		With(core.FieldPlayers, *players).
		With(core.FieldDuration, *duration).
		With(core.FieldComplexity, *complexity).
		With(core.FieldSort, *sortBy)

	games := catalog.Query(c)
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(games)
	}
	return printTable(out, games, catalog.Snapshot().Len())
}

// printTable writes one aligned row per game followed by a count line.
func printTable(out io.Writer, games []core.Game, total int) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tPLAYERS\tTIME\tWEIGHT\tRATING\tGENRES")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			g.Title,
			g.PlayersLabel(),
			g.DurationLabel(),
			g.WeightLabel(),
			g.RatingLabel(),
			strings.Join(g.Genre, ", "),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, strconv.Itoa(len(games))+" of "+strconv.Itoa(total)+" games")
	return err
}
