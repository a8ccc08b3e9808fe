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

import (
	"errors"
	"fmt"
)

// BuildTree constructs the frozen topology from an ordered list of distinct
// labels and a branching factor. The first label becomes the root; every
// following label is attached to the earliest node that still has a free
// child slot, so nodes fill up in breadth-first order with at most
// branchingFactor children each. The last rank may be partial.
//
// The returned Tree starts fully unlocked with all counters at zero.
func BuildTree(labels []string, branchingFactor int) (*Tree, error) {
	if len(labels) == 0 {
		return nil, errors.New("at least one label is required")
	}

	if branchingFactor < 1 {
		return nil, fmt.Errorf("branching factor must be at least 1, got %d", branchingFactor)
	}

	t := &Tree{
		nodes: make([]node, 0, len(labels)),
		index: make(map[string]int, len(labels)),
	}

	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("label at position %d is empty", i)
		}

		if _, dup := t.index[label]; dup {
			return nil, fmt.Errorf("duplicate label %q at position %d", label, i)
		}

		// Breadth-first assignment over a flat list: node i's parent is
		// node (i-1)/branchingFactor.
		parent := noParent
		if i > 0 {
			parent = (i - 1) / branchingFactor
		}

		t.nodes = append(t.nodes, node{label: label, parent: parent})
		t.index[label] = i

		if parent != noParent {
			t.nodes[parent].children = append(t.nodes[parent].children, i)
		}
	}

	return t, nil
}
