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
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tomoncle/foodorder/utils"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is read when FOODORDER_CONFIG is not set.
	DefaultConfigPath = "configs/foodorder.yaml"
	// DefaultColumnWidth is the padded width of every printed table cell.
	DefaultColumnWidth = 20
)

var (
	supportedTypes   = []string{"postgres", "mysql", "sqlite"}
	supportedDrivers = []string{"", "pq", "pgx"}
	typeAliases      = map[string]string{
		"postgresql": "postgres",
		"pg":         "postgres",
		"sqlite3":    "sqlite",
	}
)

// ConnectionConfig describes the database endpoint the script runs against.
type ConnectionConfig struct {
	Type           string        `yaml:"type"`   // postgres, mysql, sqlite
	Driver         string        `yaml:"driver"` // postgres only: pq (default) or pgx
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	DBName         string        `yaml:"dbname"`
	SSLMode        string        `yaml:"sslmode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	EnableQueryLog bool          `yaml:"enable_query_log"`
	SlowQueryTime  time.Duration `yaml:"slow_query_time"`
}

// OutputConfig controls how query results are rendered.
type OutputConfig struct {
	ColumnWidth int `yaml:"column_width"`
}

// LogConfig controls the logrus loggers. Loggers overrides Level for single
// named loggers, for example DATABASE: debug.
type LogConfig struct {
	Level   string            `yaml:"level"`
	Format  string            `yaml:"format"` // text or json
	Loggers map[string]string `yaml:"loggers"`
}

// Config aggregates connection, output and logging settings.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
}

// DefaultConnectionConfig returns the local food_order_db Postgres target.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:           "postgres",
		Driver:         "pq",
		Host:           "localhost",
		Port:           5432,
		Username:       "postgres",
		Password:       "postgres",
		DBName:         "food_order_db",
		SSLMode:        "disable",
		ConnectTimeout: time.Second * 10,
		ReadTimeout:    time.Second * 30,
		WriteTimeout:   time.Second * 30,
		SlowQueryTime:  time.Second * 2,
	}
}

// DefaultConfig returns a Config built from DefaultConnectionConfig.
func DefaultConfig() *Config {
	return &Config{
		Connection: *DefaultConnectionConfig(),
		Output:     OutputConfig{ColumnWidth: DefaultColumnWidth},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path,
// a .env file and DB_* environment variables, in that order. An empty path
// means FOODORDER_CONFIG or DefaultConfigPath; the default path may be absent.
//
// A file that cannot be read or parsed returns a nil Config. Values that fail
// validation are reset to their defaults one by one; the Config is then
// returned together with an error naming the reset fields.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("FOODORDER_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultConfigPath
		}
	}

	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	_ = godotenv.Load()
	cfg.overrideFromEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		reset := cfg.resetInvalid()
		return cfg, fmt.Errorf("%w (reset to defaults: %s)", err, strings.Join(reset, ", "))
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// overrideFromEnv overrides configuration values from environment variables.
// Numeric values that do not parse leave the current value in place.
func (c *Config) overrideFromEnv() {
	conn := &c.Connection
	conn.Type = strings.ToLower(utils.EnvDefaultString("DB_TYPE", conn.Type))
	conn.Driver = strings.ToLower(utils.EnvDefaultString("DB_DRIVER", conn.Driver))
	conn.Host = utils.EnvDefaultString("DB_HOST", conn.Host)
	conn.Port = utils.EnvDefaultInt("DB_PORT", conn.Port)
	conn.Username = utils.EnvDefaultString("DB_USERNAME", conn.Username)
	conn.Password = utils.EnvDefaultString("DB_PASSWORD", conn.Password)
	conn.DBName = utils.EnvDefaultString("DB_NAME", conn.DBName)
	conn.SSLMode = utils.EnvDefaultString("DB_SSLMODE", conn.SSLMode)
	conn.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", conn.EnableQueryLog)

	// seconds
	if secs := utils.EnvDefaultInt("DB_CONNECT_TIMEOUT", -1); secs >= 0 {
		conn.ConnectTimeout = time.Duration(secs) * time.Second
	}
	// milliseconds
	if ms := utils.EnvDefaultInt("DB_SLOW_QUERY_TIME", -1); ms >= 0 {
		conn.SlowQueryTime = time.Duration(ms) * time.Millisecond
	}

	c.Output.ColumnWidth = utils.EnvDefaultInt("OUTPUT_COLUMN_WIDTH", c.Output.ColumnWidth)

	c.Log.Level = utils.EnvDefaultString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = utils.EnvDefaultString("LOG_FORMAT", c.Log.Format)
}

// normalize maps alternative database type names to their canonical form.
func (c *Config) normalize() {
	typ := strings.ToLower(strings.TrimSpace(c.Connection.Type))
	if canonical, ok := typeAliases[typ]; ok {
		typ = canonical
	}
	c.Connection.Type = typ
}

// Validate reports unsupported database types, drivers and output widths.
// Every invalid value is reported.
func (c *Config) Validate() error {
	var errs []error
	if !contains(supportedTypes, c.Connection.Type) {
		errs = append(errs, fmt.Errorf("unsupported database type: %s, supported types: %v", c.Connection.Type, supportedTypes))
	}
	if c.Connection.Type == "postgres" && !contains(supportedDrivers, c.Connection.Driver) {
		errs = append(errs, fmt.Errorf("unsupported postgres driver: %s", c.Connection.Driver))
	}
	if c.Output.ColumnWidth <= 0 {
		errs = append(errs, fmt.Errorf("column width must be positive, got %d", c.Output.ColumnWidth))
	}
	return errors.Join(errs...)
}

// resetInvalid replaces the values Validate rejects with their defaults and
// returns the names of the reset fields.
func (c *Config) resetInvalid() []string {
	def := DefaultConfig()
	var reset []string
	if !contains(supportedTypes, c.Connection.Type) {
		c.Connection.Type = def.Connection.Type
		reset = append(reset, "connection.type")
	}
	if c.Connection.Type == "postgres" && !contains(supportedDrivers, c.Connection.Driver) {
		c.Connection.Driver = def.Connection.Driver
		reset = append(reset, "connection.driver")
	}
	if c.Output.ColumnWidth <= 0 {
		c.Output.ColumnWidth = def.Output.ColumnWidth
		reset = append(reset, "output.column_width")
	}
	return reset
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
