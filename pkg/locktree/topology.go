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

package locktree

// noParent marks the root node's parent slot in the arena.
const noParent = -1

// node is one arena entry. The shape fields (label, parent, children) are
// frozen by BuildTree; the lock fields are mutated only by the Manager while
// it holds its guard.
type node struct {
	label    string
	parent   int
	children []int

	locked bool
	owner  int
	// ancestorLocked is the number of locked proper ancestors of this node.
	ancestorLocked int
	// descendantLocked is the number of locked proper descendants of this
	// node, at any depth.
	descendantLocked int
}

// Tree holds the arena of nodes plus the label lookup. Nodes are addressed by
// stable integer indices; parent and children are stored as indices rather
// than owning references, so the whole structure is released in one piece and
// there are no pointer cycles to reason about. After BuildTree returns, the
// shape never changes and may be read without synchronization.
type Tree struct {
	nodes []node
	index map[string]int
}

// Size returns the number of nodes.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Root returns the label of the root node.
func (t *Tree) Root() string {
	return t.nodes[0].label
}

// Has reports whether a node with the given label exists.
func (t *Tree) Has(label string) bool {
	_, ok := t.index[label]
	return ok
}

// Labels returns all labels in arena order, which is the breadth-first order
// the tree was built in.
func (t *Tree) Labels() []string {
	labels := make([]string, len(t.nodes))
	for i := range t.nodes {
		labels[i] = t.nodes[i].label
	}

	return labels
}

// Parent returns the label of the node's parent. The second return value is
// false for the root and for unknown labels.
func (t *Tree) Parent(label string) (string, bool) {
	idx, ok := t.index[label]
	if !ok || t.nodes[idx].parent == noParent {
		return "", false
	}

	return t.nodes[t.nodes[idx].parent].label, true
}

// Children returns the labels of the node's children in order. It returns nil
// for unknown labels.
func (t *Tree) Children(label string) []string {
	idx, ok := t.index[label]
	if !ok {
		return nil
	}

	children := make([]string, 0, len(t.nodes[idx].children))
	for _, child := range t.nodes[idx].children {
		children = append(children, t.nodes[child].label)
	}

	return children
}

func (t *Tree) lookup(label string) (int, bool) {
	idx, ok := t.index[label]
	return idx, ok
}
