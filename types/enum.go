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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// StepKind tells whether a script step mutates data or only reads it.
type StepKind int

const (
	// StepCommand is an INSERT/UPDATE/DELETE committed in its own transaction.
	StepCommand StepKind = iota + 1
	// StepQuery is a SELECT printed as a table.
	StepQuery
)

var _ BaseEnum = StepCommand

var stepKindNames = map[StepKind][2]string{
	StepCommand: {"command", "mutating statement executed in a committed transaction"},
	StepQuery:   {"query", "read-only query rendered as a text table"},
}

func (k StepKind) IsValid() bool {
	_, ok := stepKindNames[k]
	return ok
}

func (k StepKind) Number() int {
	if !k.IsValid() {
		return IllegalValue
	}
	return int(k)
}

func (k StepKind) Name() string {
	if !k.IsValid() {
		return IllegalName
	}
	return stepKindNames[k][0]
}

func (k StepKind) Desc() string {
	if !k.IsValid() {
		return IllegalDesc
	}
	return stepKindNames[k][1]
}

func (k StepKind) String() string { return k.Name() }
