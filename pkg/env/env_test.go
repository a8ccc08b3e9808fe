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

package env_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hierlock/hierlock/pkg/env"
)

var _ = Describe("GetAsString", func() {
	const key = "HIERLOCK_TEST_STRING"

	It("returns the value when set", func() {
		GinkgoT().Setenv(key, "hello")

		value, err := env.GetAsString(key, false, "fallback")
		Expect(err).ToNot(HaveOccurred())
		Expect(value).To(Equal("hello"))
	})

	It("returns the default when unset and not required", func() {
		value, err := env.GetAsString(key, false, "fallback")
		Expect(err).ToNot(HaveOccurred())
		Expect(value).To(Equal("fallback"))
	})

	It("errors when unset and required", func() {
		_, err := env.GetAsString(key, true, "")
		Expect(err).To(MatchError(ContainSubstring(key)))
	})
})

var _ = Describe("GetAsInt", func() {
	const key = "HIERLOCK_TEST_INT"

	It("parses a numeric value", func() {
		GinkgoT().Setenv(key, "42")

		value, err := env.GetAsInt(key, false, 7)
		Expect(err).ToNot(HaveOccurred())
		Expect(value).To(Equal(42))
	})

	It("falls back on a non-numeric value when not required", func() {
		GinkgoT().Setenv(key, "forty-two")

		value, err := env.GetAsInt(key, false, 7)
		Expect(err).ToNot(HaveOccurred())
		Expect(value).To(Equal(7))
	})

	It("errors on a non-numeric value when required", func() {
		GinkgoT().Setenv(key, "forty-two")

		_, err := env.GetAsInt(key, true, 7)
		Expect(err).To(MatchError(ContainSubstring("must be an integer")))
	})
})

var _ = Describe("GetAsBool", func() {
	const key = "HIERLOCK_TEST_BOOL"

	DescribeTable("recognizes common spellings",
		func(raw string, expected bool) {
			GinkgoT().Setenv(key, raw)

			value, err := env.GetAsBool(key, false, !expected)
			Expect(err).ToNot(HaveOccurred())
			Expect(value).To(Equal(expected))
		},
		Entry("true", "true", true),
		Entry("TRUE", "TRUE", true),
		Entry("1", "1", true),
		Entry("yes", "yes", true),
		Entry("on", "on", true),
		Entry("false", "false", false),
		Entry("0", "0", false),
		Entry("no", "no", false),
		Entry("off", "off", false),
	)

	It("falls back on garbage when not required", func() {
		GinkgoT().Setenv(key, "maybe")

		value, err := env.GetAsBool(key, false, true)
		Expect(err).ToNot(HaveOccurred())
		Expect(value).To(BeTrue())
	})

	It("errors on garbage when required", func() {
		GinkgoT().Setenv(key, "maybe")

		_, err := env.GetAsBool(key, true, false)
		Expect(err).To(MatchError(ContainSubstring("must be a boolean")))
	})
})
