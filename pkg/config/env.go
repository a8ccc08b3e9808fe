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

package config

import (
	"context"

	"go.uber.org/zap"

	"github.com/hierlock/hierlock/pkg/env"
)

// Environment variables recognized by LoadConfigWithEnvOverrides.
const (
	EnvMetricsPort  = "HIERLOCK_METRICS_PORT"
	EnvWorkers      = "HIERLOCK_WORKERS"
	EnvInputPath    = "HIERLOCK_INPUT_PATH"
	EnvOutputFormat = "HIERLOCK_OUTPUT_FORMAT"
)

// LoadConfigWithEnvOverrides loads the config file and applies environment
// variable overrides on top of it.
//
// Order of precedence (highest to lowest):
//  1. Environment variables (HIERLOCK_METRICS_PORT, HIERLOCK_WORKERS,
//     HIERLOCK_INPUT_PATH, HIERLOCK_OUTPUT_FORMAT)
//  2. Existing config file values
//  3. Default values
//
// Unlike a long-running agent there is no write-back: the merged result only
// lives for this process.
func LoadConfigWithEnvOverrides(ctx context.Context, configManager *FileConfigManagerWithBackoff, log *zap.SugaredLogger) (FullConfig, error) {
	config, err := configManager.GetConfig(ctx)
	if err != nil {
		return FullConfig{}, err
	}

	metricsPort, err := env.GetAsInt(EnvMetricsPort, false, config.Agent.MetricsPort)
	if err != nil {
		log.Warnf("failed to read %s: %v", EnvMetricsPort, err)
	} else {
		config.Agent.MetricsPort = metricsPort
	}

	workers, err := env.GetAsInt(EnvWorkers, false, config.Driver.Workers)
	if err != nil {
		log.Warnf("failed to read %s: %v", EnvWorkers, err)
	} else {
		config.Driver.Workers = workers
	}

	inputPath, err := env.GetAsString(EnvInputPath, false, config.Driver.InputPath)
	if err != nil {
		log.Warnf("failed to read %s: %v", EnvInputPath, err)
	} else {
		config.Driver.InputPath = inputPath
	}

	outputFormat, err := env.GetAsString(EnvOutputFormat, false, config.Driver.OutputFormat)
	if err != nil {
		log.Warnf("failed to read %s: %v", EnvOutputFormat, err)
	} else {
		config.Driver.OutputFormat = outputFormat
	}

	return config, nil
}
