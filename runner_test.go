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

package foodorder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomoncle/foodorder/database"
	"github.com/tomoncle/foodorder/types"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func seededConnector(t *testing.T) *database.Connector {
	t.Helper()
	cfg := database.DefaultConnectionConfig()
	cfg.Type = "sqlite"
	cfg.DBName = filepath.Join(t.TempDir(), "food_order_db")
	connector := database.NewConnector(cfg, nopLogger{})

	runner := database.NewSQLFileRunner(connector)
	if _, err := runner.ExecDir(context.Background(), os.DirFS("configs/sql"), "sqlite"); err != nil {
		t.Fatalf("seed database: %v", err)
	}
	return connector
}

func newRunner(connector *database.Connector) (*Runner, *database.Executor, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	exec := database.NewExecutor(connector, &out, &errOut)
	return NewRunner(exec, nopLogger{}), exec, &out, &errOut
}

func TestDefaultScriptShape(t *testing.T) {
	steps := DefaultScript()
	if len(steps) != 10 {
		t.Fatalf("script has %d steps, want 10", len(steps))
	}
	kinds := ""
	for _, s := range steps {
		kinds += s.Kind.Name()[:1]
	}
	if kinds != "ccqqqqqqqc" {
		t.Fatalf("step kinds = %s", kinds)
	}
	if !strings.HasPrefix(steps[0].SQL, "INSERT INTO customers") || !strings.HasPrefix(steps[9].SQL, "DELETE FROM customers") {
		t.Fatal("script must insert first and clean up last")
	}
}

func TestRunDefaultScript(t *testing.T) {
	runner, _, out, errOut := newRunner(seededConnector(t))

	report := runner.Run(context.Background(), DefaultScript())
	if report.RunID == "" {
		t.Fatal("missing run id")
	}
	if report.Failed() != 0 {
		t.Fatalf("failed steps: %d, stderr: %s", report.Failed(), errOut.String())
	}

	wantRows := []int64{1, 1, 4, 4, 1, 3, 4, 2, 4, 1}
	for i, res := range report.Results {
		if res.Index != i+1 {
			t.Fatalf("result %d has index %d", i, res.Index)
		}
		if res.Rows != wantRows[i] {
			t.Errorf("step %d %q: rows = %d, want %d", res.Index, res.Step.Description, res.Rows, wantRows[i])
		}
	}

	// every step leaves its marker in order
	output := out.String()
	pos := 0
	for _, step := range DefaultScript() {
		marker := "--- " + step.Description + " ---"
		if step.Kind == types.StepCommand {
			marker = "[SUCCESS] " + step.Description
		}
		idx := strings.Index(output[pos:], marker)
		if idx < 0 {
			t.Fatalf("marker %q missing or out of order in:\n%s", marker, output)
		}
		pos += idx + len(marker)
	}

	header := "OrderID             Customer            Restaurant          total_amount        \n"
	if !strings.Contains(output, "--- Orders with Customer and Restaurant details ---\n"+header+"2                   John Smith          Sushi Zen") {
		t.Fatalf("joined table not rendered as expected:\n%s", output)
	}
	if !strings.Contains(output, "--- Restaurants with no orders ---\nname                \nTaco Fiesta         \n") {
		t.Fatalf("left join table not rendered as expected:\n%s", output)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	connector := seededConnector(t)
	runner, exec, _, _ := newRunner(connector)
	ctx := context.Background()

	snapshot := func() string {
		table, err := exec.FetchTable(ctx, "SELECT id, name, email FROM customers ORDER BY id;")
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		var b strings.Builder
		_ = table.Render(&b, 20)
		return b.String()
	}

	before := snapshot()
	for i := 0; i < 2; i++ {
		if report := runner.Run(ctx, DefaultScript()); report.Failed() != 0 {
			t.Fatalf("run %d: %d failed steps", i+1, report.Failed())
		}
		if after := snapshot(); after != before {
			t.Fatalf("customers changed after run %d:\nbefore:\n%s\nafter:\n%s", i+1, before, after)
		}
	}
}

func TestRunContinuesAfterFailures(t *testing.T) {
	runner, _, out, errOut := newRunner(seededConnector(t))

	steps := []Step{
		Command("INSERT INTO customers (name, email) VALUES ('Maria Again', 'maria@example.com');", "Inserting duplicate customer"),
		Query("SELEC name FROM restaurants;", "Broken query"),
		Step{Kind: types.StepKind(0), SQL: "SELECT 1;", Description: "Unknown kind"},
		Query("SELECT name FROM restaurants WHERE rating > 5;", "Nothing rated above five"),
	}
	report := runner.Run(context.Background(), steps)

	if len(report.Results) != len(steps) {
		t.Fatalf("ran %d of %d steps", len(report.Results), len(steps))
	}
	if report.Failed() != 3 {
		t.Fatalf("failed = %d, want 3", report.Failed())
	}
	if report.Results[0].Class != database.DuplicateKeyErr {
		t.Fatalf("class = %s", report.Results[0].Class)
	}
	if report.Results[1].Class != database.SyntaxErr {
		t.Fatalf("class = %s (%v)", report.Results[1].Class, report.Results[1].Err)
	}
	if !strings.Contains(errOut.String(), "[ERROR] Inserting duplicate customer: ") ||
		!strings.Contains(errOut.String(), "Query execution error [Broken query]: ") {
		t.Fatalf("unexpected error output:\n%s", errOut.String())
	}
	if out.String() != "\n--- Nothing rated above five ---\nNo data found.\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunUnreachableDatabase(t *testing.T) {
	cfg := database.DefaultConnectionConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.ConnectTimeout = 2 * time.Second
	runner, _, out, errOut := newRunner(database.NewConnector(cfg, nopLogger{}))

	report := runner.Run(context.Background(), DefaultScript())
	if len(report.Results) != 10 || report.Failed() != 10 {
		t.Fatalf("results=%d failed=%d", len(report.Results), report.Failed())
	}
	for _, res := range report.Results {
		if res.Class != database.ConnectionErr {
			t.Errorf("step %d: class = %s (%v)", res.Index, res.Class, res.Err)
		}
	}
	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("want 10 error lines, got %d:\n%s", len(lines), errOut.String())
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
}
