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
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

var fileOrderPattern = regexp.MustCompile(`^(\d+)_`)

// SQLFileRunner executes .sql files, one transaction per file. It prepares
// the food-ordering schema and sample rows for local databases and tests.
type SQLFileRunner struct {
	connector *Connector
	logger    Logger
}

// SQLFileInfo describes a SQL file found by ExecDir.
type SQLFileInfo struct {
	Path  string
	Name  string
	Order int
}

// ExecutionResult contains the outcome of executing a single SQL file.
type ExecutionResult struct {
	File         string
	Success      bool
	Error        error
	Duration     time.Duration
	RowsAffected int64
}

// NewSQLFileRunner returns a runner opening connections through connector.
func NewSQLFileRunner(connector *Connector) *SQLFileRunner {
	return &SQLFileRunner{connector: connector, logger: connector.logger}
}

// ExecDir runs every .sql file under dir ordered by its numeric "NNN_" prefix
// and stops at the first failure.
func (s *SQLFileRunner) ExecDir(ctx context.Context, fsys fs.FS, dir string) ([]ExecutionResult, error) {
	files, err := s.GetSQLFiles(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL files: %w", err)
	}

	results := make([]ExecutionResult, 0, len(files))
	for _, file := range files {
		content, err := fs.ReadFile(fsys, file.Path)
		if err != nil {
			return results, fmt.Errorf("failed to read %s: %w", file.Path, err)
		}
		result := s.ExecScript(ctx, file.Path, string(content))
		results = append(results, result)
		if !result.Success {
			s.logger.Error("SQL file execution failed", "file", result.File, "error", result.Error)
			return results, fmt.Errorf("SQL file execution failed %s: %w", result.File, result.Error)
		}
		s.logger.Debug("SQL file executed", "file", result.File, "duration", result.Duration, "rows_affected", result.RowsAffected)
	}
	return results, nil
}

// GetSQLFiles lists the .sql files under dir sorted by order, then name.
func (s *SQLFileRunner) GetSQLFiles(fsys fs.FS, dir string) ([]SQLFileInfo, error) {
	var files []SQLFileInfo
	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}
		files = append(files, SQLFileInfo{
			Path:  path,
			Name:  d.Name(),
			Order: parseFileOrder(d.Name()),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// ExecScript runs every statement of content inside one transaction.
func (s *SQLFileRunner) ExecScript(ctx context.Context, name, content string) ExecutionResult {
	start := time.Now()
	result := ExecutionResult{File: filepath.ToSlash(name)}

	statements := splitSQLStatements(content)
	if len(statements) == 0 {
		result.Success = true
		result.Duration = time.Since(start)
		return result
	}

	db, err := s.connector.Open(ctx)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}
	defer s.connector.Close(db)

	err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var total int64
		for _, stmt := range statements {
			res, execErr := tx.ExecContext(ctx, stmt)
			if execErr != nil {
				return fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, execErr)
			}
			n, _ := res.RowsAffected()
			total += n
		}
		result.RowsAffected = total
		return nil
	})
	if err != nil {
		result.Error = err
	} else {
		result.Success = true
	}
	result.Duration = time.Since(start)
	return result
}

func parseFileOrder(filename string) int {
	if m := fileOrderPattern.FindStringSubmatch(filename); len(m) > 1 {
		if order, err := strconv.Atoi(m[1]); err == nil {
			return order
		}
	}
	return 999
}

// splitSQLStatements splits on lines ending with ';'. Blank lines and lines
// starting with "--" are dropped.
func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}

		current.WriteString(line)
		current.WriteString(" ")

		if strings.HasSuffix(line, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
