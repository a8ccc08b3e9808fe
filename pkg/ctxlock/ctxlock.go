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

// Package ctxlock provides context aware mutexes built on weighted semaphores.
// Unlike sync.Mutex, acquisition can be abandoned when the caller's context is
// cancelled, so a goroutine waiting for a contended guard never blocks forever.
package ctxlock

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// maxReaders bounds the number of concurrent readers of a RWMutex. A writer
// acquires the full weight and therefore excludes every reader.
const maxReaders = 100

// Mutex is an exclusive, context aware lock. The zero value is not usable;
// create one with NewMutex.
type Mutex struct {
	sem *semaphore.Weighted
}

func NewMutex() *Mutex {
	return &Mutex{sem: semaphore.NewWeighted(1)}
}

// Lock acquires the mutex, waiting until it is free or ctx is cancelled.
// A non-nil error means the mutex was NOT acquired.
func (m *Mutex) Lock(ctx context.Context) error {
	return m.sem.Acquire(ctx, 1)
}

// Unlock releases the mutex. It must only be called after a successful Lock.
func (m *Mutex) Unlock() {
	m.sem.Release(1)
}

// RWMutex is a context aware reader/writer lock. Up to maxReaders readers may
// hold it concurrently; a writer holds it exclusively.
type RWMutex struct {
	sem *semaphore.Weighted
}

func NewRWMutex() *RWMutex {
	return &RWMutex{sem: semaphore.NewWeighted(maxReaders)}
}

// RLock acquires a read slot, waiting until one is free or ctx is cancelled.
func (m *RWMutex) RLock(ctx context.Context) error {
	return m.sem.Acquire(ctx, 1)
}

// RUnlock releases a read slot.
func (m *RWMutex) RUnlock() {
	m.sem.Release(1)
}

// Lock acquires the lock exclusively, waiting for all readers to drain.
func (m *RWMutex) Lock(ctx context.Context) error {
	return m.sem.Acquire(ctx, maxReaders)
}

// Unlock releases an exclusive hold.
func (m *RWMutex) Unlock() {
	m.sem.Release(maxReaders)
}
