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
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type SQLError int

const (
	UnknownErr SQLError = iota
	ConnectionErr
	SyntaxErr
	NoTableErr
	NoColumnErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

var sqlErrorNames = map[SQLError]string{
	UnknownErr:                  "unknown",
	ConnectionErr:               "connection",
	SyntaxErr:                   "syntax",
	NoTableErr:                  "no_table",
	NoColumnErr:                 "no_column",
	DuplicateKeyErr:             "duplicate_key",
	NotNullViolationErr:         "not_null_violation",
	ForeignKeyViolationErr:      "foreign_key_violation",
	CheckConstraintViolationErr: "check_violation",
	DataTruncatedErr:            "data_truncated",
	InvalidTypeCastErr:          "invalid_type_cast",
}

func (e SQLError) String() string {
	if s, ok := sqlErrorNames[e]; ok {
		return s
	}
	return sqlErrorNames[UnknownErr]
}

// Classify returns the SQLError class of err. Driver error types are checked
// first, message patterns second. A nil error is UnknownErr.
func Classify(err error) SQLError {
	_, class := IsSqlError(err)
	return class
}

// IsSqlError reports whether err was recognized and its class.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if err == nil {
		return false, UnknownErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return true, classifyMySQL(mysqlErr.Number)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return true, classifySQLState(string(pqErr.Code))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true, classifySQLState(pgErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true, ConnectionErr
	}

	return classifyMessage(strings.ToLower(err.Error()))
}

func classifyMySQL(number uint16) SQLError {
	switch number {
	case 1064:
		return SyntaxErr
	case 1146:
		return NoTableErr
	case 1054:
		return NoColumnErr
	case 1062:
		return DuplicateKeyErr
	case 1048:
		return NotNullViolationErr
	case 1216, 1217, 1451, 1452:
		return ForeignKeyViolationErr
	case 3819:
		return CheckConstraintViolationErr
	case 1265, 1406:
		return DataTruncatedErr
	case 1045, 1049:
		return ConnectionErr
	default:
		return UnknownErr
	}
}

func classifySQLState(code string) SQLError {
	switch {
	case code == "42601":
		return SyntaxErr
	case code == "42P01":
		return NoTableErr
	case code == "42703":
		return NoColumnErr
	case code == "23505":
		return DuplicateKeyErr
	case code == "23502":
		return NotNullViolationErr
	case code == "23503":
		return ForeignKeyViolationErr
	case code == "23514":
		return CheckConstraintViolationErr
	case code == "22001":
		return DataTruncatedErr
	case code == "42804", code == "22P02":
		return InvalidTypeCastErr
	case strings.HasPrefix(code, "08"), code == "28P01", code == "3D000":
		return ConnectionErr
	default:
		return UnknownErr
	}
}

func classifyMessage(s string) (bool, SQLError) {
	switch {
	case strings.Contains(s, "connection refused"),
		strings.Contains(s, "no such host"),
		strings.Contains(s, "i/o timeout"),
		strings.Contains(s, "unable to open database"),
		strings.Contains(s, "bad connection"):
		return true, ConnectionErr
	case strings.Contains(s, "syntax error"),
		strings.Contains(s, "sqlstate 42601"):
		return true, SyntaxErr
	case strings.Contains(s, "sqlstate 42p01"),
		strings.Contains(s, "undefined table"),
		strings.Contains(s, "no such table"):
		return true, NoTableErr
	case strings.Contains(s, "sqlstate 42703"),
		strings.Contains(s, "undefined column"),
		strings.Contains(s, "no such column"):
		return true, NoColumnErr
	case strings.Contains(s, "duplicate key value"),
		strings.Contains(s, "unique constraint failed"),
		strings.Contains(s, "sqlstate 23505"):
		return true, DuplicateKeyErr
	case strings.Contains(s, "not-null constraint"),
		strings.Contains(s, "not null constraint failed"),
		strings.Contains(s, "sqlstate 23502"):
		return true, NotNullViolationErr
	case strings.Contains(s, "foreign key violation"),
		strings.Contains(s, "foreign key constraint failed"),
		strings.Contains(s, "sqlstate 23503"):
		return true, ForeignKeyViolationErr
	case strings.Contains(s, "check constraint"),
		strings.Contains(s, "sqlstate 23514"):
		return true, CheckConstraintViolationErr
	case strings.Contains(s, "string data right truncation"),
		strings.Contains(s, "data truncated"),
		strings.Contains(s, "sqlstate 22001"):
		return true, DataTruncatedErr
	case strings.Contains(s, "datatype mismatch"),
		strings.Contains(s, "sqlstate 42804"):
		return true, InvalidTypeCastErr
	default:
		return false, UnknownErr
	}
}
