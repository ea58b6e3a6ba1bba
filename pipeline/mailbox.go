// edge-viewer - display live edge detected camera frames
//  Copyright (C) 2020, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
)

// mailbox is a single slot handoff between one producer and one consumer.
// Putting while an item is still waiting replaces it; the replaced item is
// returned to the producer so its memory can be reused.
type mailbox[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	item T
	full bool

	drops atomic.Uint64
}

func newMailbox[T any]() *mailbox[T] {
	m := new(mailbox[T])
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Put stores v. If an item was waiting it is returned with replaced set and
// counted as dropped.
func (m *mailbox[T]) Put(v T) (old T, replaced bool) {
	m.mu.Lock()
	if m.full {
		old, replaced = m.item, true
		m.drops.Add(1)
	}
	m.item = v
	m.full = true
	m.cond.Signal()
	m.mu.Unlock()
	return old, replaced
}

// TryTake returns the waiting item without blocking.
func (m *mailbox[T]) TryTake() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.takeLocked()
}

// Take blocks until an item is available or ctx is done. Callers cancelling
// ctx must call wake so a blocked Take notices.
func (m *mailbox[T]) Take(ctx context.Context) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for !m.full {
		if ctx.Err() != nil {
			var zero T
			return zero, false
		}
		m.cond.Wait()
	}
	return m.takeLocked()
}

func (m *mailbox[T]) takeLocked() (T, bool) {
	var zero T
	if !m.full {
		return zero, false
	}
	v := m.item
	m.item = zero
	m.full = false
	return v, true
}

// wake releases every goroutine blocked in Take so it can recheck its context.
func (m *mailbox[T]) wake() {
	m.mu.Lock()
	m.cond.Broadcast()
	m.mu.Unlock()
}

// Drops returns how many items were replaced before being taken.
func (m *mailbox[T]) Drops() uint64 {
	return m.drops.Load()
}
