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
	"log"
	"sync"
)

// sendBuffer is how many frames may queue for a client before it is
// considered too slow and dropped.
const sendBuffer = 4

// hub maintains the set of active clients and broadcasts frames to them.
type hub struct {
	// Name for logging
	name string

	clients   map[*client]bool
	broadcast chan []byte

	register   chan *client
	unregister chan *client
	done       chan struct{}

	// Guards client count reads from outside Run.
	mu sync.RWMutex
}

func newHub(name string) *hub {
	return &hub{
		name:       name,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 1),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// run is the hub's main loop. When ctx is done every client is released.
func (h *hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			close(c.registered)
			log.Printf("[%s] client %s connected (%d total)", h.name, c.id, count)

		case c := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[c]
			if ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			if ok {
				log.Printf("[%s] client %s disconnected (%d remaining)", h.name, c.id, count)
			}

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Client's buffer is full, it can't keep up.
					close(c.send)
					delete(h.clients, c)
					log.Printf("[%s] dropped slow client %s", h.name, c.id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// add registers c and waits until the hub counts it. It reports false if
// the hub has stopped.
func (h *hub) add(c *client) bool {
	c.registered = make(chan struct{})
	select {
	case h.register <- c:
	case <-h.done:
		return false
	}
	select {
	case <-c.registered:
		return true
	case <-h.done:
		return false
	}
}

func (h *hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// send queues msg for every client. If the previous message has not been
// picked up yet it is replaced.
func (h *hub) send(msg []byte) {
	for {
		select {
		case h.broadcast <- msg:
			return
		default:
		}
		select {
		case <-h.broadcast:
		default:
		}
	}
}

func (h *hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
