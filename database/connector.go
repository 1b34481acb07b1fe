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
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// Connector opens a new single-connection Bun database for every call.
type Connector struct {
	config *ConnectionConfig
	logger Logger
}

// NewConnector returns a Connector for config. A nil config selects
// DefaultConnectionConfig.
func NewConnector(config *ConnectionConfig, logger Logger) *Connector {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Connector{config: config, logger: logger}
}

// Config returns the connection configuration in use.
func (c *Connector) Config() *ConnectionConfig {
	return c.config
}

// Open creates the connection and verifies it with a ping bounded by
// ConnectTimeout. The caller must Close the returned database.
func (c *Connector) Open(ctx context.Context) (*bun.DB, error) {
	db, err := c.createConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctxTimeout, cancel := context.WithTimeout(ctx, c.connectTimeout())
	defer cancel()

	if err := db.PingContext(ctxTimeout); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}

	c.logger.Debug("Database connected", "type", c.config.Type, "host", c.config.Host, "dbname", c.config.DBName)
	return db, nil
}

// Close closes a database returned by Open and logs failures.
func (c *Connector) Close(db *bun.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		c.logger.Warn("Failed to close database connection", "error", err)
		return
	}
	c.logger.Debug("Database connection closed")
}

func (c *Connector) connectTimeout() time.Duration {
	if c.config.ConnectTimeout <= 0 {
		return 10 * time.Second
	}
	return c.config.ConnectTimeout
}

func (c *Connector) createConnection() (*bun.DB, error) {
	var db *bun.DB
	var err error

	switch c.config.Type {
	case "mysql":
		db, err = c.createMySQLConnection()
	case "postgres", "postgresql":
		db, err = c.createPostgreSQLConnection()
	case "sqlite", "sqlite3":
		db, err = c.createSQLiteConnection()
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.config.Type)
	}
	if err != nil {
		return nil, err
	}

	if c.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}
	db.AddQueryHook(NewQueryHook(os.Stderr, c.config.EnableQueryLog))

	if c.config.SlowQueryTime > 0 {
		db.AddQueryHook(&SlowQueryHook{
			slowTime: c.config.SlowQueryTime,
			logger:   c.logger,
		})
	}

	return db, nil
}

func (c *Connector) createMySQLConnection() (*bun.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		c.config.Username,
		c.config.Password,
		c.config.Host,
		c.config.Port,
		c.config.DBName,
		c.connectTimeout(),
		c.config.ReadTimeout,
		c.config.WriteTimeout,
	)

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqlDB, mysqldialect.New()), nil
}

func (c *Connector) createPostgreSQLConnection() (*bun.DB, error) {
	sqlDB, err := sql.Open(c.postgresDriverName(), c.postgresDSN())
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqlDB, pgdialect.New()), nil
}

func (c *Connector) postgresDriverName() string {
	if c.config.Driver == "pgx" {
		return "pgx"
	}
	return "postgres"
}

// postgresDSN builds a URL DSN understood by both lib/pq and pgx. Credentials
// and the database name are escaped.
func (c *Connector) postgresDSN() string {
	sslMode := c.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("connect_timeout", strconv.Itoa(int(c.connectTimeout().Seconds())))

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.config.Username, c.config.Password),
		Host:     net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port)),
		Path:     "/" + c.config.DBName,
		RawQuery: query.Encode(),
	}
	return dsn.String()
}

func (c *Connector) createSQLiteConnection() (*bun.DB, error) {
	dsn := fmt.Sprintf("%s.db", c.config.DBName)

	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}
