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

// Package driver sequences query batches into the lock engine and collects
// the boolean outcomes. Ordering is the driver's business, not the engine's:
// Run replays a batch in input order, RunConcurrent dispatches it across a
// worker pool and only promises per-query linearizability.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hierlock/hierlock/pkg/locktree"
	"github.com/hierlock/hierlock/pkg/logger"
	"github.com/hierlock/hierlock/pkg/metrics"
)

// Driver feeds queries into a Manager and records outcomes.
type Driver struct {
	manager *locktree.Manager
	logger  *zap.SugaredLogger
}

func New(manager *locktree.Manager) *Driver {
	return &Driver{
		manager: manager,
		logger:  logger.For(logger.ComponentDriver),
	}
}

// Run replays the batch sequentially in input order and returns one outcome
// per query. A denied or unknown-label query yields false; only infrastructure
// failures (e.g. a cancelled context) abort the run.
func (d *Driver) Run(ctx context.Context, batch *Batch) ([]bool, error) {
	batchID := uuid.New()
	results := make([]bool, len(batch.Queries))

	for i, q := range batch.Queries {
		granted, err := d.apply(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("batch %s, query %d (%s %q user %d): %w", batchID, i, q.Op, q.Label, q.User, err)
		}

		results[i] = granted
	}

	d.finish(batchID, results)

	return results, nil
}

// RunConcurrent dispatches the batch across at most workers goroutines.
// Outcomes are recorded by query index; the relative order in which queries
// hit the engine is unspecified.
func (d *Driver) RunConcurrent(ctx context.Context, batch *Batch, workers int) ([]bool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", workers)
	}

	batchID := uuid.New()
	results := make([]bool, len(batch.Queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, q := range batch.Queries {
		g.Go(func() error {
			granted, err := d.apply(gctx, q)
			if err != nil {
				return fmt.Errorf("batch %s, query %d (%s %q user %d): %w", batchID, i, q.Op, q.Label, q.User, err)
			}

			// Indices are disjoint across goroutines, no further
			// synchronization needed.
			results[i] = granted

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.finish(batchID, results)

	return results, nil
}

// apply maps the engine's error taxonomy onto the boolean protocol: denials
// and unknown labels are ordinary false outcomes, anything else is a real
// failure the caller must see.
func (d *Driver) apply(ctx context.Context, q Query) (bool, error) {
	var err error

	switch q.Op {
	case OpLock:
		err = d.manager.Lock(ctx, q.Label, q.User)
	case OpUnlock:
		err = d.manager.Unlock(ctx, q.Label, q.User)
	case OpUpgrade:
		err = d.manager.Upgrade(ctx, q.Label, q.User)
	default:
		return false, fmt.Errorf("unknown opcode %d", q.Op)
	}

	if err == nil {
		return true, nil
	}

	if errors.Is(err, locktree.ErrNodeNotFound) || errors.Is(err, locktree.ErrPrecondition) {
		return false, nil
	}

	return false, err
}

func (d *Driver) finish(batchID uuid.UUID, results []bool) {
	granted := 0
	for _, r := range results {
		if r {
			granted++
		}
	}

	metrics.IncBatchCount()
	d.logger.Infof("batch %s done: %d queries, %d granted", batchID, len(results), granted)
}
