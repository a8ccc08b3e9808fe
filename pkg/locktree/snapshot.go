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
	"context"
	"fmt"
)

// NodeState is a point-in-time copy of one node's lock state.
type NodeState struct {
	Label            string
	Locked           bool
	Owner            int
	AncestorLocked   int
	DescendantLocked int
}

// Snapshot returns a copy of every node's lock state in arena (breadth-first)
// order. It is taken inside the same critical section the mutating operations
// use, so it always reflects a quiescent point of the tree.
func (m *Manager) Snapshot(ctx context.Context) ([]NodeState, error) {
	if err := m.guard.Lock(ctx); err != nil {
		return nil, fmt.Errorf("acquiring engine guard: %w", err)
	}
	defer m.guard.Unlock()

	states := make([]NodeState, len(m.tree.nodes))
	for i := range m.tree.nodes {
		n := &m.tree.nodes[i]
		states[i] = NodeState{
			Label:            n.label,
			Locked:           n.locked,
			Owner:            n.owner,
			AncestorLocked:   n.ancestorLocked,
			DescendantLocked: n.descendantLocked,
		}
	}

	return states, nil
}
