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

package locktree_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hierlock/hierlock/pkg/locktree"
)

var _ = Describe("BuildTree", func() {
	Context("with a full binary layout", func() {
		It("assigns children breadth-first", func() {
			tree := mustTree([]string{"World", "Asia", "Europe", "China", "India", "France", "Germany"}, 2)

			Expect(tree.Size()).To(Equal(7))
			Expect(tree.Root()).To(Equal("World"))
			Expect(tree.Children("World")).To(Equal([]string{"Asia", "Europe"}))
			Expect(tree.Children("Asia")).To(Equal([]string{"China", "India"}))
			Expect(tree.Children("Europe")).To(Equal([]string{"France", "Germany"}))
			Expect(tree.Children("India")).To(BeEmpty())

			parent, ok := tree.Parent("Germany")
			Expect(ok).To(BeTrue())
			Expect(parent).To(Equal("Europe"))

			_, ok = tree.Parent("World")
			Expect(ok).To(BeFalse())
		})

		It("leaves the last rank partial when labels run out", func() {
			tree := mustTree([]string{"a", "b", "c", "d", "e", "f"}, 3)

			Expect(tree.Children("a")).To(Equal([]string{"b", "c", "d"}))
			Expect(tree.Children("b")).To(Equal([]string{"e", "f"}))
			Expect(tree.Children("c")).To(BeEmpty())
		})
	})

	Context("with a unary chain", func() {
		It("builds a linked list", func() {
			tree := mustTree([]string{"A", "B", "C"}, 1)

			Expect(tree.Children("A")).To(Equal([]string{"B"}))
			Expect(tree.Children("B")).To(Equal([]string{"C"}))
			Expect(tree.Children("C")).To(BeEmpty())
		})
	})

	Context("with a single node", func() {
		It("builds a lone root", func() {
			tree := mustTree([]string{"solo"}, 4)

			Expect(tree.Size()).To(Equal(1))
			Expect(tree.Root()).To(Equal("solo"))
			Expect(tree.Children("solo")).To(BeEmpty())
		})
	})

	Context("with invalid input", func() {
		It("rejects an empty label list", func() {
			_, err := locktree.BuildTree(nil, 2)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive branching factor", func() {
			_, err := locktree.BuildTree([]string{"a", "b"}, 0)
			Expect(err).To(MatchError(ContainSubstring("branching factor")))
		})

		It("rejects duplicate labels", func() {
			_, err := locktree.BuildTree([]string{"a", "b", "a"}, 2)
			Expect(err).To(MatchError(ContainSubstring("duplicate")))
		})

		It("rejects empty labels", func() {
			_, err := locktree.BuildTree([]string{"a", ""}, 2)
			Expect(err).To(MatchError(ContainSubstring("empty")))
		})
	})

	It("reports membership through Has", func() {
		tree := mustTree([]string{"x", "y"}, 2)

		Expect(tree.Has("x")).To(BeTrue())
		Expect(tree.Has("nope")).To(BeFalse())
	})

	It("returns labels in build order", func() {
		tree := mustTree([]string{"r", "s", "t"}, 2)

		Expect(tree.Labels()).To(Equal([]string{"r", "s", "t"}))
	})
})
