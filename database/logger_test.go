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
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLoggerKeepsFirst(t *testing.T) {
	globalLoggerMu.Lock()
	saved := globalLogger
	globalLogger = nil
	globalLoggerMu.Unlock()
	t.Cleanup(func() {
		globalLoggerMu.Lock()
		globalLogger = saved
		globalLoggerMu.Unlock()
	})

	InitLogger(nil)
	if globalLogger != nil {
		t.Fatal("nil logger should be ignored")
	}

	first := &recordLogger{}
	InitLogger(first)
	InitLogger(&recordLogger{})
	if GetLogger() != Logger(first) {
		t.Fatal("first installed logger should be kept")
	}
}

func TestDefaultLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	NewDefaultLogger(l).Warn("Command failed", "desc", "Inserting customer", "class", DuplicateKeyErr)
	out := buf.String()
	if !strings.Contains(out, `msg="Command failed"`) ||
		!strings.Contains(out, `desc="Inserting customer"`) ||
		!strings.Contains(out, "class=duplicate_key") {
		t.Fatalf("unexpected entry %q", out)
	}
}
