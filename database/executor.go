/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/tomoncle/foodorder/types"
	"github.com/uptrace/bun"
)

// Executor runs single statements against a fresh connection per call and
// reports every outcome on its output streams. Errors are returned for
// bookkeeping only; callers are expected to carry on.
type Executor struct {
	connector *Connector
	out       io.Writer
	errOut    io.Writer
	width     int
	logger    Logger
}

// NewExecutor writes success lines and tables to out and error lines to
// errOut. Nil writers default to stdout and stderr.
func NewExecutor(connector *Connector, out, errOut io.Writer) *Executor {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Executor{
		connector: connector,
		out:       out,
		errOut:    errOut,
		width:     DefaultColumnWidth,
		logger:    connector.logger,
	}
}

// SetColumnWidth sets the padded cell width used by PrintQuery.
func (e *Executor) SetColumnWidth(width int) {
	if width > 0 {
		e.width = width
	}
}

// ExecCommand executes a mutating statement in its own transaction and
// commits it. It prints "[SUCCESS] desc" or "[ERROR] desc: err".
func (e *Executor) ExecCommand(ctx context.Context, query, desc string) (int64, error) {
	affected, err := e.execInTx(ctx, query)
	if err != nil {
		class := Classify(err)
		e.logger.Warn("Command failed", "desc", desc, "class", class, "error", err)
		_, _ = fmt.Fprintf(e.errOut, "[ERROR] %s: %v\n", desc, err)
		return 0, err
	}

	e.logger.Debug("Command committed", "desc", desc, "rows_affected", affected)
	_, _ = fmt.Fprintf(e.out, "[SUCCESS] %s\n", desc)
	return affected, nil
}

func (e *Executor) execInTx(ctx context.Context, query string) (int64, error) {
	db, err := e.connector.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer e.connector.Close(db)

	var affected int64
	err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, query)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}

// FetchTable runs a read-only query outside an explicit transaction and
// materializes the complete result.
func (e *Executor) FetchTable(ctx context.Context, query string) (*types.Table, error) {
	db, err := e.connector.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer e.connector.Close(db)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read result column types: %w", err)
	}
	dbTypes := make([]string, len(colTypes))
	for i, ct := range colTypes {
		dbTypes[i] = ct.DatabaseTypeName()
	}

	table := types.NewTable(columns)
	table.SetColumnTypes(dbTypes)
	for rows.Next() {
		values, err := sqlx.SliceScan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(table.Rows)+1, err)
		}
		table.Append(values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// PrintQuery fetches the query result and prints it under "--- title ---".
// A failure prints one error line naming the title and nothing else.
func (e *Executor) PrintQuery(ctx context.Context, query, title string) (int, error) {
	table, err := e.FetchTable(ctx, query)
	if err != nil {
		class := Classify(err)
		e.logger.Warn("Query failed", "title", title, "class", class, "error", err)
		_, _ = fmt.Fprintf(e.errOut, "Query execution error [%s]: %v\n", title, err)
		return 0, err
	}

	_, _ = fmt.Fprintf(e.out, "\n--- %s ---\n", title)
	if err := table.Render(e.out, e.width); err != nil {
		return len(table.Rows), fmt.Errorf("failed to print result of %q: %w", title, err)
	}
	e.logger.Debug("Query printed", "title", title, "rows", len(table.Rows))
	return len(table.Rows), nil
}
