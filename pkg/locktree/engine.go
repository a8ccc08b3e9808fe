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
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hierlock/hierlock/pkg/ctxlock"
	"github.com/hierlock/hierlock/pkg/logger"
	"github.com/hierlock/hierlock/pkg/metrics"
)

// Manager enforces exclusive, hierarchy-aware locks over a frozen Tree. A
// node can be locked only while neither the node itself, nor any ancestor,
// nor any descendant is locked by anyone.
//
// Every operation runs inside a single exclusive critical section spanning
// the whole tree. The invariants a call maintains stretch over many nodes
// (the whole ancestor chain and subtree of the target), so per-node or
// per-counter atomicity is not enough: two interleaved counter walks can
// expose a window where a second lock observes descendantLocked == 0 on a
// node whose locked descendant has not finished propagating. Serializing the
// mutate path is what makes the counters trustworthy at every point another
// call can observe.
//
// Waiting for the guard is the only blocking a call ever does. There is no
// "wait until unlocked" semantics; a contested operation is denied
// immediately.
type Manager struct {
	tree   *Tree
	guard  *ctxlock.Mutex
	logger *zap.SugaredLogger
}

// NewManager wraps a built Tree in a Manager. The Manager takes sole
// ownership of the tree's lock state; mutating it through any other path is
// a programming error.
func NewManager(tree *Tree) *Manager {
	return &Manager{
		tree:   tree,
		guard:  ctxlock.NewMutex(),
		logger: logger.For(logger.ComponentEngine),
	}
}

// Tree returns the topology the manager operates on.
func (m *Manager) Tree() *Tree {
	return m.tree
}

// Lock acquires exclusive ownership of the labelled node for user. It is
// denied if the node is locked, or any ancestor or descendant is locked. A
// denied call has no observable effect.
func (m *Manager) Lock(ctx context.Context, label string, user int) error {
	start := time.Now()
	err := m.lock(ctx, label, user)
	metrics.RecordOperation(metrics.OperationLock, outcome(err), time.Since(start))

	return err
}

// Unlock releases a lock previously acquired by user on the labelled node.
// It is denied if the node is not locked or is held by a different user.
func (m *Manager) Unlock(ctx context.Context, label string, user int) error {
	start := time.Now()
	err := m.unlock(ctx, label, user)
	metrics.RecordOperation(metrics.OperationUnlock, outcome(err), time.Since(start))

	return err
}

// Upgrade atomically replaces every lock user holds in the labelled node's
// subtree with a single lock on the node itself. It is denied if the node is
// locked, an ancestor is locked, no descendant is locked at all, or any
// locked descendant belongs to another user. On denial the tree is left
// exactly as it was; partial collection never leaks into partial unlocking.
func (m *Manager) Upgrade(ctx context.Context, label string, user int) error {
	start := time.Now()
	err := m.upgrade(ctx, label, user)
	metrics.RecordOperation(metrics.OperationUpgrade, outcome(err), time.Since(start))

	return err
}

func (m *Manager) lock(ctx context.Context, label string, user int) error {
	if user <= 0 {
		return fmt.Errorf("user %d: %w", user, ErrInvalidUser)
	}

	if err := m.guard.Lock(ctx); err != nil {
		return fmt.Errorf("acquiring engine guard: %w", err)
	}
	defer m.guard.Unlock()

	idx, ok := m.tree.lookup(label)
	if !ok {
		return fmt.Errorf("node %q: %w", label, ErrNodeNotFound)
	}

	n := &m.tree.nodes[idx]

	switch {
	case n.locked:
		return fmt.Errorf("node %q: %w", label, ErrNodeLocked)
	case n.ancestorLocked > 0:
		return fmt.Errorf("node %q: %w", label, ErrAncestorLocked)
	case n.descendantLocked > 0:
		return fmt.Errorf("node %q: %w", label, ErrDescendantLocked)
	}

	m.acquire(idx, user)
	metrics.AddHeldLocks(1)
	m.logger.Debugf("lock %q granted to user %d", label, user)

	return nil
}

func (m *Manager) unlock(ctx context.Context, label string, user int) error {
	if user <= 0 {
		return fmt.Errorf("user %d: %w", user, ErrInvalidUser)
	}

	if err := m.guard.Lock(ctx); err != nil {
		return fmt.Errorf("acquiring engine guard: %w", err)
	}
	defer m.guard.Unlock()

	idx, ok := m.tree.lookup(label)
	if !ok {
		return fmt.Errorf("node %q: %w", label, ErrNodeNotFound)
	}

	n := &m.tree.nodes[idx]

	if !n.locked {
		return fmt.Errorf("node %q: %w", label, ErrNotLocked)
	}

	if n.owner != user {
		return fmt.Errorf("node %q held by user %d: %w", label, n.owner, ErrNotOwner)
	}

	m.release(idx)
	metrics.AddHeldLocks(-1)
	m.logger.Debugf("lock %q released by user %d", label, user)

	return nil
}

func (m *Manager) upgrade(ctx context.Context, label string, user int) error {
	if user <= 0 {
		return fmt.Errorf("user %d: %w", user, ErrInvalidUser)
	}

	if err := m.guard.Lock(ctx); err != nil {
		return fmt.Errorf("acquiring engine guard: %w", err)
	}
	defer m.guard.Unlock()

	idx, ok := m.tree.lookup(label)
	if !ok {
		return fmt.Errorf("node %q: %w", label, ErrNodeNotFound)
	}

	n := &m.tree.nodes[idx]

	switch {
	case n.locked:
		return fmt.Errorf("node %q: %w", label, ErrNodeLocked)
	case n.ancestorLocked > 0:
		return fmt.Errorf("node %q: %w", label, ErrAncestorLocked)
	case n.descendantLocked == 0:
		return fmt.Errorf("node %q: %w", label, ErrNothingToUpgrade)
	}

	held, ok := m.collectHeld(idx, user)
	if !ok {
		return fmt.Errorf("node %q: %w", label, ErrForeignDescendant)
	}

	// descendantLocked > 0 guarantees at least one collected node. The
	// collected subtrees are disjoint, so release order does not matter.
	for _, d := range held {
		m.release(d)
	}

	if n.descendantLocked != 0 {
		// Unreachable unless the counter discipline is broken.
		panic(fmt.Sprintf("locktree: %d stale descendant locks on %q after upgrade release", n.descendantLocked, label))
	}

	m.acquire(idx, user)
	metrics.AddHeldLocks(1 - len(held))
	m.logger.Debugf("upgrade %q granted to user %d, subsumed %d locks", label, user, len(held))

	return nil
}

// acquire flips the node to locked and brackets it with the matching +1
// counter propagations. Caller holds the guard and has verified the
// preconditions.
func (m *Manager) acquire(idx, user int) {
	m.propagateAncestors(idx, +1)
	m.propagateDescendants(idx, +1)

	n := &m.tree.nodes[idx]
	n.locked = true
	n.owner = user
}

// release is the exact inverse of acquire. Caller holds the guard.
func (m *Manager) release(idx int) {
	m.propagateAncestors(idx, -1)
	m.propagateDescendants(idx, -1)

	n := &m.tree.nodes[idx]
	n.locked = false
	n.owner = 0
}

// propagateAncestors walks from the node's parent to the root, adding delta
// to each ancestor's descendantLocked. O(height); a zero-length walk for the
// root is fine.
func (m *Manager) propagateAncestors(idx, delta int) {
	for p := m.tree.nodes[idx].parent; p != noParent; p = m.tree.nodes[p].parent {
		m.tree.nodes[p].descendantLocked += delta
	}
}

// propagateDescendants visits every node strictly below idx, adding delta to
// each descendant's ancestorLocked. O(subtree size).
func (m *Manager) propagateDescendants(idx, delta int) {
	stack := append([]int(nil), m.tree.nodes[idx].children...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		m.tree.nodes[cur].ancestorLocked += delta
		stack = append(stack, m.tree.nodes[cur].children...)
	}
}

// collectHeld gathers every locked node strictly below root, pruning branches
// whose descendantLocked is zero since they cannot contain one. It reports
// false as soon as it sees a lock owned by someone other than user, in which
// case nothing has been mutated yet.
func (m *Manager) collectHeld(root, user int) ([]int, bool) {
	var held []int

	stack := append([]int(nil), m.tree.nodes[root].children...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &m.tree.nodes[cur]
		if n.locked {
			if n.owner != user {
				return nil, false
			}

			held = append(held, cur)
		}

		// A locked node has no locked descendants, so descendantLocked
		// alone decides whether the branch is worth descending.
		if n.descendantLocked == 0 {
			continue
		}

		stack = append(stack, n.children...)
	}

	return held, true
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeGranted
	case errors.Is(err, ErrNodeNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrPrecondition):
		return metrics.OutcomeDenied
	default:
		return metrics.OutcomeError
	}
}
