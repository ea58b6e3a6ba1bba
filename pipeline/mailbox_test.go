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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxReplacesWaitingItem(t *testing.T) {
	m := newMailbox[int]()

	_, replaced := m.Put(1)
	assert.False(t, replaced)
	old, replaced := m.Put(2)
	assert.True(t, replaced)
	assert.Equal(t, 1, old)
	assert.Equal(t, uint64(1), m.Drops())

	v, ok := m.TryTake()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = m.TryTake()
	assert.False(t, ok)

	// Taking empties the slot so the next put drops nothing.
	_, replaced = m.Put(3)
	assert.False(t, replaced)
	assert.Equal(t, uint64(1), m.Drops())
}

func TestMailboxTakeBlocksUntilPut(t *testing.T) {
	m := newMailbox[string]()
	got := make(chan string)
	go func() {
		v, _ := m.Take(context.Background())
		got <- v
	}()

	select {
	case <-got:
		t.Fatal("Take returned before Put")
	case <-time.After(20 * time.Millisecond):
	}

	m.Put("frame")
	select {
	case v := <-got:
		assert.Equal(t, "frame", v)
	case <-time.After(time.Second):
		t.Fatal("Take did not return")
	}
}

func TestMailboxTakeCancelled(t *testing.T) {
	m := newMailbox[int]()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)
	go func() {
		_, ok := m.Take(ctx)
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	m.wake()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Take did not return after cancel")
	}
}
