// Package executor adapts rendered SQL text to an in-memory DuckDB engine.
// It knows nothing about the relational-algebra AST or predicates; it takes
// a relation's name/columns/rows and a SQL string, and returns a relation.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

// Relation is the executor's plain row-and-column view of a table, with no
// knowledge of the synthesis domain above it.
type Relation struct {
	Name    string
	Columns []string
	Rows    [][]int64
}

// Executor runs a rendered SQL query against a fixed set of input relations
// and returns the resulting relation.
type Executor interface {
	Execute(ctx context.Context, query string, inputs []Relation) (Relation, error)
	Close() error
}

// DuckDBExecutor runs queries against an ephemeral in-memory DuckDB handle,
// one per synthesis call: a single `:memory:` connection rather than a
// pooled long-lived client, since each call's input relations differ.
type DuckDBExecutor struct {
	db *sql.DB
}

// NewDuckDBExecutor opens a fresh `:memory:` DuckDB handle and loads the
// given input relations as tables, named after Relation.Name.
func NewDuckDBExecutor(ctx context.Context, inputs []Relation) (*DuckDBExecutor, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	e := &DuckDBExecutor{db: db}
	for _, rel := range inputs {
		if err := e.loadRelation(ctx, rel); err != nil {
			db.Close()
			return nil, err
		}
	}
	return e, nil
}

func (e *DuckDBExecutor) loadRelation(ctx context.Context, rel Relation) error {
	cols := make([]string, len(rel.Columns))
	for i, c := range rel.Columns {
		cols[i] = fmt.Sprintf("%q BIGINT", c)
	}
	create := fmt.Sprintf("CREATE TABLE %q (%s);", rel.Name, strings.Join(cols, ", "))
	if _, err := e.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table %s: %w", rel.Name, err)
	}

	if len(rel.Rows) == 0 {
		return nil
	}
	placeholders := make([]string, len(rel.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %q VALUES (%s);", rel.Name, strings.Join(placeholders, ", "))
	stmt, err := e.db.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", rel.Name, err)
	}
	defer stmt.Close()
	for _, row := range rel.Rows {
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", rel.Name, err)
		}
	}
	return nil
}

// Execute runs the given rendered relational expression, wrapped as a
// top-level query so a bare table reference is as valid as a nested
// SELECT/JOIN tree.
func (e *DuckDBExecutor) Execute(ctx context.Context, query string, _ []Relation) (Relation, error) {
	wrapped := fmt.Sprintf("SELECT * FROM %s AS q", query)
	rows, err := e.db.QueryContext(ctx, wrapped)
	if err != nil {
		zap.S().Debugw("executor: query failed", "sql", wrapped, "err", err)
		return Relation{}, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Relation{}, fmt.Errorf("read columns: %w", err)
	}

	var out [][]int64
	for rows.Next() {
		scanDest := make([]any, len(cols))
		scanVals := make([]int64, len(cols))
		for i := range scanDest {
			scanDest[i] = &scanVals[i]
		}
		if err := rows.Scan(scanDest...); err != nil {
			return Relation{}, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, scanVals)
	}
	if err := rows.Err(); err != nil {
		return Relation{}, fmt.Errorf("iterate rows: %w", err)
	}

	return Relation{Columns: cols, Rows: out}, nil
}

// Close releases the underlying DuckDB handle.
func (e *DuckDBExecutor) Close() error {
	if e == nil || e.db == nil {
		return nil
	}
	return e.db.Close()
}
