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
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hierlock/hierlock/pkg/ctxlock"
	"github.com/hierlock/hierlock/pkg/logger"
)

// DefaultConfigPath is the default path to the config file
const DefaultConfigPath = "hierlock.yaml"

// FileConfigManager reads the config from a YAML file. A missing file is not
// an error; it yields the defaults.
type FileConfigManager struct {
	// configPath is the path to the config file
	configPath string

	// logger is the logger for the config manager
	logger *zap.SugaredLogger

	// mutexReadOrWrite serializes file access; multiple GetConfig calls may
	// read in parallel. Context aware so a cancelled caller never deadlocks.
	mutexReadOrWrite *ctxlock.RWMutex
}

// NewFileConfigManager creates a new FileConfigManager
// Note: Prefer NewFileConfigManagerWithBackoff() for application use.
func NewFileConfigManager() *FileConfigManager {
	return &FileConfigManager{
		configPath:       DefaultConfigPath,
		logger:           logger.For(logger.ComponentConfigManager),
		mutexReadOrWrite: ctxlock.NewRWMutex(),
	}
}

// WithConfigPath overrides the config file location, useful for testing.
func (m *FileConfigManager) WithConfigPath(path string) *FileConfigManager {
	m.configPath = path
	return m
}

// GetConfig returns the current config, always reading fresh from disk.
func (m *FileConfigManager) GetConfig(ctx context.Context) (FullConfig, error) {
	// we use a read lock here, because we only read the config file
	err := m.mutexReadOrWrite.RLock(ctx)
	if err != nil {
		return FullConfig{}, fmt.Errorf("failed to lock config file: %w", err)
	}
	defer m.mutexReadOrWrite.RUnlock()

	// Check if context is already cancelled
	if ctx.Err() != nil {
		return FullConfig{}, ctx.Err()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debugf("no config file at %s, using defaults", m.configPath)
			return DefaultConfig(), nil
		}

		return FullConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return FullConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config.Clone(), nil
}

// FileConfigManagerWithBackoff wraps a FileConfigManager and retries
// GetConfig failures with exponential backoff, so a transiently unreadable
// file at startup does not kill the process.
type FileConfigManagerWithBackoff struct {
	configManager *FileConfigManager
	logger        *zap.SugaredLogger
}

// NewFileConfigManagerWithBackoff creates a new FileConfigManagerWithBackoff with exponential backoff
func NewFileConfigManagerWithBackoff() *FileConfigManagerWithBackoff {
	return &FileConfigManagerWithBackoff{
		configManager: NewFileConfigManager(),
		logger:        logger.For(logger.ComponentConfigManager),
	}
}

// WithConfigPath overrides the config file location on the wrapped manager.
func (m *FileConfigManagerWithBackoff) WithConfigPath(path string) *FileConfigManagerWithBackoff {
	m.configManager.WithConfigPath(path)
	return m
}

// GetConfig returns the current config, retrying transient failures.
func (m *FileConfigManagerWithBackoff) GetConfig(ctx context.Context) (FullConfig, error) {
	var config FullConfig

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 50 * time.Millisecond
	expo.MaxElapsedTime = 5 * time.Second

	operation := func() error {
		var err error

		config, err = m.configManager.GetConfig(ctx)
		if err != nil {
			m.logger.Warnf("failed to get config, retrying: %v", err)
		}

		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(expo, ctx)); err != nil {
		return FullConfig{}, fmt.Errorf("failed to get config after retries: %w", err)
	}

	return config, nil
}
