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

// Command foodorder runs the food-ordering demo script against the
// configured database and prints every result to the console.
package main

import (
	"context"
	"os"

	"github.com/tomoncle/foodorder"
	"github.com/tomoncle/foodorder/database"
	"github.com/tomoncle/foodorder/utils"
)

func main() {
	log := utils.NewLogger("FOODORDER")

	cfg, err := database.LoadConfig("")
	switch {
	case cfg == nil:
		log.WithError(err).Error("Unreadable configuration, using the default connection target")
		cfg = database.DefaultConfig()
	case err != nil:
		log.WithError(err).Warn("Invalid configuration values replaced by defaults")
	}
	utils.ConfigureLogLevel(cfg.Log.Level)
	utils.ConfigureLogFormat(cfg.Log.Format)

	database.InitLogger(database.NewDefaultLogger(utils.NewLogger("DATABASE")))
	for name, level := range cfg.Log.Loggers {
		if !utils.SetLoggerLevel(name, level) {
			log.WithField("logger", name).Warn("Unknown logger in log.loggers")
		}
	}

	connector := database.NewConnector(&cfg.Connection, database.GetLogger())
	exec := database.NewExecutor(connector, os.Stdout, os.Stderr)
	exec.SetColumnWidth(cfg.Output.ColumnWidth)

	runner := foodorder.NewRunner(exec, database.NewDefaultLogger(log))
	runner.Run(context.Background(), foodorder.DefaultScript())
}
