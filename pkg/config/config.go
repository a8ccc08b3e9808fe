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
	"github.com/tiendc/go-deepcopy"
)

// Output formats for driver results.
const (
	OutputFormatPlain = "plain"
	OutputFormatJSON  = "json"
)

// DefaultMetricsPort is used when neither the config file nor the
// environment specify one.
const DefaultMetricsPort = 8081

type FullConfig struct {
	Agent  AgentConfig  `yaml:"agent"`  // Process-level settings
	Driver DriverConfig `yaml:"driver"` // Query driver settings
}

type AgentConfig struct {
	MetricsPort int `yaml:"metricsPort"` // Port to expose metrics on, 0 disables the endpoint
}

type DriverConfig struct {
	// Workers > 1 dispatches queries concurrently; 0 or 1 replays the batch
	// sequentially in input order.
	Workers int `yaml:"workers"`

	// InputPath points to the batch file; empty means stdin.
	InputPath string `yaml:"inputPath,omitempty"`

	// OutputFormat is "plain" (one true/false line per query) or "json".
	OutputFormat string `yaml:"outputFormat"`
}

// DefaultConfig is the configuration used when no config file exists.
func DefaultConfig() FullConfig {
	return FullConfig{
		Agent: AgentConfig{
			MetricsPort: DefaultMetricsPort,
		},
		Driver: DriverConfig{
			Workers:      1,
			OutputFormat: OutputFormatPlain,
		},
	}
}

// Clone returns a deep copy of the config, so callers can hold on to it
// without seeing later mutations.
func (c FullConfig) Clone() FullConfig {
	var clone FullConfig

	err := deepcopy.Copy(&clone, &c)
	if err != nil {
		// Only reachable for unsupported types, which FullConfig does not contain.
		panic("failed to deep copy config: " + err.Error())
	}

	return clone
}
