package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/ludoteca/internal/config"
	"github.com/JonMunkholm/ludoteca/internal/core"
	"github.com/jackc/pgx/v5"
)

func init() {
	core.Register(core.SourceDefinition{
		Info: core.SourceInfo{
			Key:   config.SourcePostgres,
			Label: "PostgreSQL table",
			Shape: core.ShapeTableRow,
		},
		Open: func(deps core.SourceDeps) (core.Source, error) {
			if deps.DB == nil {
				return nil, errors.New("postgres source needs a database connection")
			}
			return NewPostgresSource(deps.DB, deps.Config.Source.Table), nil
		},
	})
}

// PostgresSource reads every row of the games table.
type PostgresSource struct {
	db    core.DBTX
	table string
}

// NewPostgresSource creates a source over table. Schema-qualified names
// ("catalog.games") are accepted.
func NewPostgresSource(db core.DBTX, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

// Name implements core.Source.
func (s *PostgresSource) Name() string {
	return config.SourcePostgres
}

// Query returns the SELECT statement issued by Fetch.
func (s *PostgresSource) Query() string {
	return "SELECT * FROM " + pgx.Identifier(strings.Split(s.table, ".")).Sanitize()
}

// Fetch implements core.Source.
func (s *PostgresSource) Fetch(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.Query(ctx, s.Query())
	if err != nil {
		return nil, core.TransportError(s.Name(), fmt.Errorf("query %s: %w", s.table, err))
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, core.TransportError(s.Name(), fmt.Errorf("read %s: %w", s.table, err))
	}

	records := make([]core.Record, len(maps))
	for i, row := range maps {
		records[i] = core.RecordFromRow(row)
	}
	return records, nil
}
