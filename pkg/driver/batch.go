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

package driver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/hierlock/hierlock/pkg/locktree"
)

// Opcode selects the engine operation a query performs. The numeric values
// are the wire format of the batch input.
type Opcode int

const (
	OpLock    Opcode = 1
	OpUnlock  Opcode = 2
	OpUpgrade Opcode = 3
)

func (o Opcode) String() string {
	switch o {
	case OpLock:
		return "lock"
	case OpUnlock:
		return "unlock"
	case OpUpgrade:
		return "upgrade"
	default:
		return fmt.Sprintf("opcode(%d)", int(o))
	}
}

// Query is one operation request: which operation, on which node, for whom.
type Query struct {
	Op    Opcode
	Label string
	User  int
}

// Batch is a parsed input: the tree description plus the query sequence.
type Batch struct {
	Labels          []string
	BranchingFactor int
	Queries         []Query
}

// BuildTree constructs the frozen topology this batch describes.
func (b *Batch) BuildTree() (*locktree.Tree, error) {
	return locktree.BuildTree(b.Labels, b.BranchingFactor)
}

// ParseBatch reads the whitespace-separated batch format:
//
//	N M Q
//	label_1 ... label_N
//	op label user     (Q times, op in {1=lock, 2=unlock, 3=upgrade})
//
// Malformed input yields an error describing the offending token; it never
// panics on short or garbage input.
func ParseBatch(r io.Reader) (*Batch, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	nextToken := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("reading %s: %w", what, err)
			}

			return "", fmt.Errorf("unexpected end of input, expected %s", what)
		}

		return sc.Text(), nil
	}

	nextInt := func(what string) (int, error) {
		tok, err := nextToken(what)
		if err != nil {
			return 0, err
		}

		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not an integer", what, tok)
		}

		return v, nil
	}

	numNodes, err := nextInt("node count")
	if err != nil {
		return nil, err
	}

	if numNodes < 1 {
		return nil, fmt.Errorf("node count must be at least 1, got %d", numNodes)
	}

	branching, err := nextInt("branching factor")
	if err != nil {
		return nil, err
	}

	numQueries, err := nextInt("query count")
	if err != nil {
		return nil, err
	}

	if numQueries < 0 {
		return nil, fmt.Errorf("query count must not be negative, got %d", numQueries)
	}

	batch := &Batch{
		Labels:          make([]string, 0, numNodes),
		BranchingFactor: branching,
		Queries:         make([]Query, 0, numQueries),
	}

	for i := 0; i < numNodes; i++ {
		label, err := nextToken(fmt.Sprintf("label %d", i))
		if err != nil {
			return nil, err
		}

		batch.Labels = append(batch.Labels, label)
	}

	for i := 0; i < numQueries; i++ {
		op, err := nextInt(fmt.Sprintf("opcode of query %d", i))
		if err != nil {
			return nil, err
		}

		if op < int(OpLock) || op > int(OpUpgrade) {
			return nil, fmt.Errorf("query %d: unknown opcode %d", i, op)
		}

		label, err := nextToken(fmt.Sprintf("label of query %d", i))
		if err != nil {
			return nil, err
		}

		user, err := nextInt(fmt.Sprintf("user of query %d", i))
		if err != nil {
			return nil, err
		}

		batch.Queries = append(batch.Queries, Query{Op: Opcode(op), Label: label, User: user})
	}

	return batch, nil
}
