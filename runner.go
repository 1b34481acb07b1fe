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
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tomoncle/foodorder/database"
	"github.com/tomoncle/foodorder/types"
)

// StepResult is the outcome of one executed step. Rows counts affected rows
// for commands and printed rows for queries.
type StepResult struct {
	Index int
	Step  Step
	Rows  int64
	Err   error
	Class database.SQLError
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Err == nil }

// Report collects the results of a Run in execution order.
type Report struct {
	RunID    string
	Results  []StepResult
	Duration time.Duration
}

// Failed returns the number of failed steps.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// Runner executes scripts through an Executor.
type Runner struct {
	exec   *database.Executor
	logger database.Logger
}

func NewRunner(exec *database.Executor, logger database.Logger) *Runner {
	if logger == nil {
		logger = database.GetLogger()
	}
	return &Runner{exec: exec, logger: logger}
}

// Run executes steps strictly in order. A failing step is reported by the
// executor and recorded; the remaining steps still run.
func (r *Runner) Run(ctx context.Context, steps []Step) *Report {
	report := &Report{
		RunID:   uuid.NewString(),
		Results: make([]StepResult, 0, len(steps)),
	}
	start := time.Now()
	r.logger.Info("Running script", "run_id", report.RunID, "steps", len(steps))

	for i, step := range steps {
		res := StepResult{Index: i + 1, Step: step}
		switch step.Kind {
		case types.StepCommand:
			res.Rows, res.Err = r.exec.ExecCommand(ctx, step.SQL, step.Description)
		case types.StepQuery:
			var n int
			n, res.Err = r.exec.PrintQuery(ctx, step.SQL, step.Description)
			res.Rows = int64(n)
		default:
			res.Err = fmt.Errorf("step %d %q: unknown step kind %d", i+1, step.Description, int(step.Kind))
			r.logger.Error("Skipping step", "run_id", report.RunID, "error", res.Err)
		}
		if res.Err != nil {
			res.Class = database.Classify(res.Err)
		}
		report.Results = append(report.Results, res)
	}

	report.Duration = time.Since(start)
	r.logger.Info("Script finished",
		"run_id", report.RunID,
		"steps", len(report.Results),
		"failed", report.Failed(),
		"duration", report.Duration.Round(time.Millisecond),
	)
	return report
}
