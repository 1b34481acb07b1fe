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

package types

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// NoDataMessage is printed instead of a table when a query returns no rows.
const NoDataMessage = "No data found."

// Table is a fully materialized query result with every cell already
// rendered as text. Types holds the database type name of each column when
// the driver reports it.
type Table struct {
	Columns []string
	Types   []string
	Rows    [][]string
}

// NewTable returns an empty table with the given column names.
func NewTable(columns []string) *Table {
	return &Table{Columns: columns, Rows: make([][]string, 0)}
}

// SetColumnTypes records the database type name of every column. It must be
// called before rows are appended.
func (t *Table) SetColumnTypes(dbTypes []string) {
	t.Types = dbTypes
}

// Append renders values with FormatColumn and adds them as one row.
func (t *Table) Append(values []interface{}) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = FormatColumn(v, t.columnType(i))
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) columnType(i int) string {
	if i < len(t.Types) {
		return t.Types[i]
	}
	return ""
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Render writes the header and rows with every cell left-aligned and padded
// to width. Longer cells are not truncated. An empty table is rendered as
// NoDataMessage alone.
func (t *Table) Render(w io.Writer, width int) error {
	bw := bufio.NewWriter(w)
	if t.Empty() {
		fmt.Fprintln(bw, NoDataMessage)
		return bw.Flush()
	}

	writeRow(bw, t.Columns, width)
	for _, row := range t.Rows {
		writeRow(bw, row, width)
	}
	return bw.Flush()
}

func writeRow(w io.Writer, cells []string, width int) {
	for _, cell := range cells {
		fmt.Fprintf(w, "%-*s", width, cell)
	}
	fmt.Fprintln(w)
}

const (
	dateLayout        = "2006-01-02"
	timeLayout        = "15:04:05.999999"
	timestampLayout   = "2006-01-02 15:04:05.999999"
	timestampTZLayout = "2006-01-02 15:04:05.999999-07"
)

// FormatValue renders a scanned value of unknown column type.
func FormatValue(v interface{}) string {
	return FormatColumn(v, "")
}

// FormatColumn renders a scanned column value the way the database prints it
// in text mode. NULL becomes an empty string. dbType is the driver's type
// name for the column and selects the layout of time values.
func FormatColumn(v interface{}, dbType string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format(timeLayoutFor(dbType))
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func timeLayoutFor(dbType string) string {
	switch strings.ToUpper(dbType) {
	case "DATE":
		return dateLayout
	case "TIME", "TIMETZ":
		return timeLayout
	case "TIMESTAMPTZ":
		return timestampTZLayout
	default:
		return timestampLayout
	}
}
