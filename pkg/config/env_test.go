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

package config_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/hierlock/hierlock/pkg/config"
)

var _ = Describe("LoadConfigWithEnvOverrides", func() {
	var (
		ctx        context.Context
		configPath string
		log        *zap.SugaredLogger
	)

	BeforeEach(func() {
		ctx = context.Background()
		configPath = filepath.Join(GinkgoT().TempDir(), "hierlock.yaml")
		log = zap.NewNop().Sugar()
	})

	It("keeps file values when no environment variables are set", func() {
		Expect(os.WriteFile(configPath, []byte("driver:\n  workers: 4\n"), 0o644)).To(Succeed())

		manager := config.NewFileConfigManagerWithBackoff().WithConfigPath(configPath)

		cfg, err := config.LoadConfigWithEnvOverrides(ctx, manager, log)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Driver.Workers).To(Equal(4))
		Expect(cfg.Agent.MetricsPort).To(Equal(config.DefaultMetricsPort))
	})

	It("lets environment variables win over file values", func() {
		Expect(os.WriteFile(configPath, []byte("driver:\n  workers: 4\n"), 0o644)).To(Succeed())

		GinkgoT().Setenv(config.EnvWorkers, "16")
		GinkgoT().Setenv(config.EnvMetricsPort, "9100")
		GinkgoT().Setenv(config.EnvInputPath, "/data/batch.txt")
		GinkgoT().Setenv(config.EnvOutputFormat, config.OutputFormatJSON)

		manager := config.NewFileConfigManagerWithBackoff().WithConfigPath(configPath)

		cfg, err := config.LoadConfigWithEnvOverrides(ctx, manager, log)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Driver.Workers).To(Equal(16))
		Expect(cfg.Agent.MetricsPort).To(Equal(9100))
		Expect(cfg.Driver.InputPath).To(Equal("/data/batch.txt"))
		Expect(cfg.Driver.OutputFormat).To(Equal(config.OutputFormatJSON))
	})

	It("keeps the underlying value when an override fails to parse", func() {
		GinkgoT().Setenv(config.EnvWorkers, "many")

		manager := config.NewFileConfigManagerWithBackoff().WithConfigPath(configPath)

		cfg, err := config.LoadConfigWithEnvOverrides(ctx, manager, log)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Driver.Workers).To(Equal(1))
	})
})
