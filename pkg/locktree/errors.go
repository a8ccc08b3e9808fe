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

// ErrNodeNotFound is returned when an operation names a label that does not
// exist in the topology. It is a resolvable condition, never fatal, and the
// call has no effect.
var ErrNodeNotFound = errors.New("node label not found in tree")

// ErrPrecondition is the base error for every ordinary denial. Each specific
// denial below wraps it, so callers that only care about success vs. failure
// can test a single sentinel with errors.Is.
var ErrPrecondition = errors.New("operation precondition not met")

var (
	ErrNodeLocked        = fmt.Errorf("node is already locked: %w", ErrPrecondition)
	ErrAncestorLocked    = fmt.Errorf("an ancestor is locked: %w", ErrPrecondition)
	ErrDescendantLocked  = fmt.Errorf("a descendant is locked: %w", ErrPrecondition)
	ErrNotLocked         = fmt.Errorf("node is not locked: %w", ErrPrecondition)
	ErrNotOwner          = fmt.Errorf("node is locked by another user: %w", ErrPrecondition)
	ErrNothingToUpgrade  = fmt.Errorf("no locked descendants to upgrade: %w", ErrPrecondition)
	ErrForeignDescendant = fmt.Errorf("a descendant is locked by another user: %w", ErrPrecondition)
	ErrInvalidUser       = fmt.Errorf("user id must be positive: %w", ErrPrecondition)
)
