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

package driver_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hierlock/hierlock/pkg/driver"
)

var _ = Describe("ParseBatch", func() {
	It("parses a complete batch", func() {
		input := `3 2 4
World Asia Europe
1 Asia 9
1 World 9
2 Asia 9
1 World 9
`

		batch, err := driver.ParseBatch(strings.NewReader(input))
		Expect(err).ToNot(HaveOccurred())

		Expect(batch.Labels).To(Equal([]string{"World", "Asia", "Europe"}))
		Expect(batch.BranchingFactor).To(Equal(2))
		Expect(batch.Queries).To(Equal([]driver.Query{
			{Op: driver.OpLock, Label: "Asia", User: 9},
			{Op: driver.OpLock, Label: "World", User: 9},
			{Op: driver.OpUnlock, Label: "Asia", User: 9},
			{Op: driver.OpLock, Label: "World", User: 9},
		}))
	})

	It("accepts arbitrary whitespace between tokens", func() {
		input := "1\t1\t1\n\n  root\n3   root\t7"

		batch, err := driver.ParseBatch(strings.NewReader(input))
		Expect(err).ToNot(HaveOccurred())

		Expect(batch.Labels).To(Equal([]string{"root"}))
		Expect(batch.Queries).To(ConsistOf(driver.Query{Op: driver.OpUpgrade, Label: "root", User: 7}))
	})

	It("accepts a batch with zero queries", func() {
		batch, err := driver.ParseBatch(strings.NewReader("2 2 0 a b"))
		Expect(err).ToNot(HaveOccurred())
		Expect(batch.Queries).To(BeEmpty())
	})

	DescribeTable("rejects malformed input",
		func(input, fragment string) {
			_, err := driver.ParseBatch(strings.NewReader(input))
			Expect(err).To(MatchError(ContainSubstring(fragment)))
		},
		Entry("empty input", "", "node count"),
		Entry("non-numeric node count", "x 2 0", "not an integer"),
		Entry("zero node count", "0 2 0", "node count must be at least 1"),
		Entry("negative query count", "1 2 -1 a", "query count must not be negative"),
		Entry("missing labels", "3 2 0 a b", "unexpected end of input"),
		Entry("missing query tokens", "1 1 1 a 1 a", "user of query 0"),
		Entry("unknown opcode", "1 1 1 a 4 a 1", "unknown opcode 4"),
		Entry("opcode zero", "1 1 1 a 0 a 1", "unknown opcode 0"),
		Entry("non-numeric user", "1 1 1 a 1 a x", "not an integer"),
	)
})

var _ = Describe("Opcode", func() {
	It("names the known operations", func() {
		Expect(driver.OpLock.String()).To(Equal("lock"))
		Expect(driver.OpUnlock.String()).To(Equal("unlock"))
		Expect(driver.OpUpgrade.String()).To(Equal("upgrade"))
	})

	It("exposes the raw value of an unknown opcode", func() {
		Expect(driver.Opcode(9).String()).To(Equal("opcode(9)"))
	})
})
