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

package webview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(h *hub, id string) *client {
	return &client{id: id, hub: h, send: make(chan []byte, sendBuffer)}
}

func startHub(t *testing.T) (*hub, context.CancelFunc) {
	h := newHub("test")
	ctx, cancel := context.WithCancel(context.Background())
	go h.run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func TestHubBroadcast(t *testing.T) {
	h, _ := startHub(t)
	a := testClient(h, "a")
	b := testClient(h, "b")
	require.True(t, h.add(a))
	require.True(t, h.add(b))
	assert.Equal(t, 2, h.clientCount())

	h.send([]byte("frame"))
	for _, c := range []*client{a, b} {
		select {
		case msg := <-c.send:
			assert.Equal(t, "frame", string(msg))
		case <-time.After(time.Second):
			t.Fatalf("client %s got no frame", c.id)
		}
	}
}

func TestHubCountsClientOnAdd(t *testing.T) {
	h, _ := startHub(t)
	for i := 1; i <= 10; i++ {
		require.True(t, h.add(testClient(h, "c")))
		require.Equal(t, i, h.clientCount())
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h, _ := startHub(t)
	slow := testClient(h, "slow")
	require.True(t, h.add(slow))

	// Never read, so the client falls behind once its buffer is full.
	i := 0
	require.Eventually(t, func() bool {
		i++
		h.send([]byte{byte(i)})
		return h.clientCount() == 0
	}, time.Second, 5*time.Millisecond)

	received := 0
	for range slow.send {
		received++
	}
	assert.LessOrEqual(t, received, sendBuffer)
}

func TestHubRemove(t *testing.T) {
	h, _ := startHub(t)
	c := testClient(h, "c")
	require.True(t, h.add(c))
	h.remove(c)

	_, open := <-c.send
	assert.False(t, open)
	assert.Equal(t, 0, h.clientCount())

	// Removing twice is harmless.
	h.remove(c)
}

func TestHubStop(t *testing.T) {
	h, cancel := startHub(t)
	c := testClient(h, "c")
	require.True(t, h.add(c))

	cancel()
	<-h.done
	_, open := <-c.send
	assert.False(t, open)
	assert.False(t, h.add(testClient(h, "late")))
}

func TestHubSendReplacesPending(t *testing.T) {
	h := newHub("idle")
	h.send([]byte("old"))
	h.send([]byte("new"))
	assert.Equal(t, "new", string(<-h.broadcast))
}
