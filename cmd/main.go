// Copyright 2025 Hierlock Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hierlock/hierlock/pkg/config"
	"github.com/hierlock/hierlock/pkg/driver"
	"github.com/hierlock/hierlock/pkg/env"
	"github.com/hierlock/hierlock/pkg/locktree"
	"github.com/hierlock/hierlock/pkg/logger"
	"github.com/hierlock/hierlock/pkg/metrics"
	"github.com/hierlock/hierlock/pkg/version"
)

func main() {
	// Initialize the global logger first thing
	logger.Initialize()
	defer func() { _ = logger.Sync() }()

	log := logger.For(logger.ComponentCore)
	log.Infof("Starting hierlock %s...", version.GetAppVersion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the config, with environment variable overrides on top
	configManager := config.NewFileConfigManagerWithBackoff()

	configPath, err := env.GetAsString("HIERLOCK_CONFIG_PATH", false, "")
	if err == nil && configPath != "" {
		configManager.WithConfigPath(configPath)
	}

	configData, err := config.LoadConfigWithEnvOverrides(ctx, configManager, log)
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Start the metrics server, unless disabled
	if configData.Agent.MetricsPort > 0 {
		server := metrics.SetupMetricsEndpoint(fmt.Sprintf(":%d", configData.Agent.MetricsPort))
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Errorf("Failed to shutdown metrics server: %v", err)
			}
		}()
	}

	// Read the batch from the configured file, or stdin
	var input io.Reader = os.Stdin

	if configData.Driver.InputPath != "" {
		f, err := os.Open(configData.Driver.InputPath)
		if err != nil {
			log.Errorf("Failed to open input: %v", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		input = f
	}

	batch, err := driver.ParseBatch(input)
	if err != nil {
		log.Errorf("Failed to parse batch: %v", err)
		os.Exit(1)
	}

	tree, err := batch.BuildTree()
	if err != nil {
		log.Errorf("Failed to build tree: %v", err)
		os.Exit(1)
	}

	log.Infof("Built tree with %d nodes, root %q", tree.Size(), tree.Root())

	manager := locktree.NewManager(tree)
	queryDriver := driver.New(manager)

	var results []bool

	if configData.Driver.Workers > 1 {
		results, err = queryDriver.RunConcurrent(ctx, batch, configData.Driver.Workers)
	} else {
		results, err = queryDriver.Run(ctx, batch)
	}

	if err != nil {
		log.Errorf("Failed to run batch: %v", err)
		os.Exit(1)
	}

	if configData.Driver.OutputFormat == config.OutputFormatJSON {
		err = driver.WriteResultsJSON(os.Stdout, results)
	} else {
		err = driver.WriteResults(os.Stdout, results)
	}

	if err != nil {
		log.Errorf("Failed to write results: %v", err)
		os.Exit(1)
	}
}
