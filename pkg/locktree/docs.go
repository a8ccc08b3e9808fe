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

// Package locktree implements hierarchical mutual exclusion over a static,
// rooted, ordered tree of labelled resources.
//
// # Model
//
// [BuildTree] freezes the topology once, breadth-first from a flat label list
// and a branching factor; after that no node is ever inserted or removed.
// [Manager] then serves three operations, each identified by a node label and
// a user id:
//
//   - [Manager.Lock]    — exclusive acquisition, denied when the node or any
//     ancestor or descendant is held by anyone.
//   - [Manager.Unlock]  — release by the owning user only.
//   - [Manager.Upgrade] — atomically subsume all of a user's locks inside a
//     subtree into one lock on the subtree's root.
//
// Only exclusive locks exist; there are no shared locks and no re-entrancy.
// Denied operations fail immediately rather than queue.
//
// # Counters
//
// Each node carries two aggregates: ancestorLocked, the number of locked
// proper ancestors, and descendantLocked, the number of locked proper
// descendants. They turn the lockability check into three integer reads
// instead of a tree scan. The counters are written only by the paired
// propagation walks bracketing an acquisition or release, which keeps them
// exact at every quiescent point.
//
// # Concurrency
//
// All three operations share one exclusive, context aware critical section
// over the entire tree. The section is what makes the multi-node
// check-then-mutate sequences linearizable; independent per-counter atomics
// are insufficient because the invariants span many nodes at once.
package locktree
