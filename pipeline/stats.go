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
	"sync"
	"time"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

// Stats describes the frames seen by a pipeline since it was created.
type Stats struct {
	Delivered    uint64 `json:"delivered"`
	Invalid      uint64 `json:"invalid"`
	Throttled    uint64 `json:"throttled"`
	InboxDrops   uint64 `json:"inbox_drops"`
	Processed    uint64 `json:"processed"`
	HandoffDrops uint64 `json:"handoff_drops"`
	Presented    uint64 `json:"presented"`

	FPS      float64 `json:"fps"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Rotation int     `json:"rotation"`

	Presenter string                     `json:"presenter"`
	Filter    frameproc.FilterParameters `json:"filter"`
}

const fpsWindow = time.Second

// fpsCounter measures frames per second over consecutive one second windows.
type fpsCounter struct {
	now func() time.Time

	mu          sync.Mutex
	windowStart time.Time
	frames      int
	fps         float64
}

func newFPSCounter(now func() time.Time) *fpsCounter {
	return &fpsCounter{now: now}
}

func (c *fpsCounter) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.windowStart.IsZero() {
		c.windowStart = now
	}
	c.frames++
	if elapsed := now.Sub(c.windowStart); elapsed >= fpsWindow {
		c.fps = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.windowStart = now
	}
}

// rate returns the rate measured over the last complete window, or zero when
// no frames have arrived for a couple of windows.
func (c *fpsCounter) rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.windowStart.IsZero() || c.now().Sub(c.windowStart) > 2*fpsWindow {
		return 0
	}
	return c.fps
}
