// =============================================================================
// SUNAT Document Parser - PostgreSQL Sink
// =============================================================================
//
// Loads each entity into the schema and table its processor mapped it to.
// Inserts are idempotent per entity: when the mapping declares a key column,
// the keys already present in the target table are fetched first and rows
// carrying them are skipped, so re-running a batch over the same input never
// duplicates vouchers.
//
// One connection pool is opened per batch and closed when the write finishes.
//
// =============================================================================

package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/raknaros/sunat-parser/internal/batch"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/internal/process"
)

// PostgresSink loads batch results into PostgreSQL.
type PostgresSink struct {
	logger   *slog.Logger
	dsn      string
	mappings map[string]process.DBMapping
}

// NewPostgresSink creates a postgres sink. The mappings come from the
// processor registry and bind each entity to its target table.
func NewPostgresSink(logger *slog.Logger, dsn string, mappings map[string]process.DBMapping) *PostgresSink {
	return &PostgresSink{logger: logger.With("sink", "postgres"), dsn: dsn, mappings: mappings}
}

// Write loads every mapped entity. Entities without a mapping are logged and
// skipped; the statistics are log-only for this sink.
func (s *PostgresSink) Write(ctx context.Context, ds *entity.Dataset, stats *batch.Stats) error {
	db, err := sql.Open("pgx", s.dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	for _, table := range ds.Tables() {
		if table.Empty() {
			continue
		}
		mapping, ok := s.mappings[table.Name]
		if !ok {
			s.logger.Warn("entidad sin mapeo de base de datos", "entidad", table.Name)
			continue
		}
		inserted, skipped, err := s.loadTable(ctx, db, table, mapping)
		if err != nil {
			return fmt.Errorf("load %s into %s.%s: %w", table.Name, mapping.Schema, mapping.Table, err)
		}
		s.logger.Info("entidad cargada",
			"entidad", table.Name,
			"tabla", mapping.Schema+"."+mapping.Table,
			"insertadas", inserted,
			"omitidas", skipped,
		)
	}

	s.logger.Info("lote cargado",
		"lote", stats.BatchID,
		"procesados", stats.Processed,
		"errores", stats.Errors,
	)
	return nil
}

// loadTable inserts one entity table inside a transaction.
func (s *PostgresSink) loadTable(ctx context.Context, db *sql.DB, table *entity.Table, mapping process.DBMapping) (inserted, skipped int, err error) {
	// Canonical columns present in both the table and the mapping, in table
	// column order.
	var canonical []string
	var dbCols []string
	for _, col := range table.Columns {
		if target, ok := mapping.Columns[col]; ok {
			canonical = append(canonical, col)
			dbCols = append(dbCols, target)
		}
	}
	if len(canonical) == 0 {
		return 0, 0, fmt.Errorf("no mapped columns")
	}

	existing, err := s.existingKeys(ctx, db, table, mapping)
	if err != nil {
		return 0, 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStatement(mapping, dbCols))
	if err != nil {
		return 0, 0, err
	}
	defer stmt.Close()

	pending := pendingRows(table, s.keyCanonical(mapping), existing)
	skipped = table.Len() - len(pending)
	for _, i := range pending {
		args := make([]any, len(canonical))
		for j, col := range canonical {
			args[j] = table.Cell(i, col)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, 0, err
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return inserted, skipped, nil
}

// pendingRows returns the indexes of the rows whose key is not already
// present in the target table. An unkeyed mapping, or a row without a string
// key cell, inserts unconditionally.
func pendingRows(table *entity.Table, keyCanonical string, existing map[string]bool) []int {
	pending := make([]int, 0, table.Len())
	for i := range table.Rows {
		if keyCanonical != "" {
			if key, ok := table.Cell(i, keyCanonical).(string); ok && existing[key] {
				continue
			}
		}
		pending = append(pending, i)
	}
	return pending
}

// existingKeys fetches the key values already present in the target table.
func (s *PostgresSink) existingKeys(ctx context.Context, db *sql.DB, table *entity.Table, mapping process.DBMapping) (map[string]bool, error) {
	keyCanonical := s.keyCanonical(mapping)
	if keyCanonical == "" {
		return nil, nil
	}

	var keys []string
	for i := range table.Rows {
		if key, ok := table.Cell(i, keyCanonical).(string); ok && key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %q FROM %q.%q WHERE %q = ANY($1)`,
		mapping.KeyColumn, mapping.Schema, mapping.Table, mapping.KeyColumn)
	rows, err := db.QueryContext(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("check existing keys: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		existing[key] = true
	}
	return existing, rows.Err()
}

// keyCanonical resolves the canonical column that maps to the key column.
func (s *PostgresSink) keyCanonical(mapping process.DBMapping) string {
	if mapping.KeyColumn == "" {
		return ""
	}
	for canonical, dbCol := range mapping.Columns {
		if dbCol == mapping.KeyColumn {
			return canonical
		}
	}
	return ""
}

// insertStatement builds the parameterized insert for one entity.
func insertStatement(mapping process.DBMapping, dbCols []string) string {
	quoted := make([]string, len(dbCols))
	params := make([]string, len(dbCols))
	for i, col := range dbCols {
		quoted[i] = fmt.Sprintf("%q", col)
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(`INSERT INTO %q.%q (%s) VALUES (%s)`,
		mapping.Schema, mapping.Table,
		strings.Join(quoted, ", "), strings.Join(params, ", "))
}
