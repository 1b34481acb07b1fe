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

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		" WARN ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLog4jColorFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "FOODORDER", NameWidth: 10, DisableColors: true}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local),
		Level:   logrus.InfoLevel,
		Message: "Script finished",
		Data:    logrus.Fields{"steps": 10, "failed": 0},
	}
	b, err := f.Format(entry)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	line := string(b)
	if !strings.HasPrefix(line, "2025-01-02 03:04:05.000    INFO ") {
		t.Fatalf("unexpected prefix: %q", line)
	}
	if !strings.HasSuffix(line, "Script finished failed=0 steps=10\n") {
		t.Fatalf("fields should be sorted after the message: %q", line)
	}
	if !strings.Contains(line, " FOODORDER") {
		t.Fatalf("logger name missing: %q", line)
	}
}

func TestJSONLogFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "DATABASE"}
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.WarnLevel,
		Message: "slow query",
		Data:    logrus.Fields{"error": errors.New("boom")},
	}
	b, err := f.Format(entry)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	var rec map[string]interface{}
	if err := json.Unmarshal(b, &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["level"] != "warning" || rec["model"] != "DATABASE" {
		t.Fatalf("unexpected record: %v", rec)
	}
	fields := rec["fields"].(map[string]interface{})
	if fields["error"] != "boom" {
		t.Fatalf("error field should be rendered as text: %v", fields)
	}
}

func TestNewLoggerRegistry(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogOutput(&buf)
	l := NewLogger("REGISTRY_TEST")
	if NewLogger("REGISTRY_TEST") != l {
		t.Fatal("NewLogger should return the registered instance")
	}
	if !SetLoggerLevel("REGISTRY_TEST", "error") {
		t.Fatal("logger should be registered")
	}
	l.Info("hidden")
	l.Error("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filter not applied: %q", buf.String())
	}
	if SetLoggerLevel("MISSING", "debug") {
		t.Fatal("unknown logger should not be found")
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("FOODORDER_TEST_INT", " 25 ")
	t.Setenv("FOODORDER_TEST_BOOL", "yes")
	if got := EnvDefaultInt("FOODORDER_TEST_INT", 20); got != 25 {
		t.Fatalf("EnvDefaultInt = %d", got)
	}
	if got := EnvDefaultBool("FOODORDER_TEST_BOOL", true); !got {
		t.Fatal("unparsable bool should fall back to the default")
	}
	if got := EnvDefaultString("FOODORDER_TEST_UNSET", "x"); got != "x" {
		t.Fatalf("EnvDefaultString = %q", got)
	}
}
