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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFPSCounter(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newFPSCounter(func() time.Time { return now })
	assert.Equal(t, 0.0, c.rate())

	// 10 frames 100ms apart complete the first window.
	for i := 0; i <= 10; i++ {
		c.tick()
		if i < 10 {
			now = now.Add(100 * time.Millisecond)
		}
	}
	assert.InDelta(t, 11.0, c.rate(), 0.001)

	// Twice as fast in the next window.
	for i := 0; i < 20; i++ {
		now = now.Add(50 * time.Millisecond)
		c.tick()
	}
	assert.InDelta(t, 20.0, c.rate(), 0.001)

	// The stream stops.
	now = now.Add(3 * time.Second)
	assert.Equal(t, 0.0, c.rate())
}
