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

package throttle

import (
	"testing"
	"time"

	"github.com/juju/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type throttleListener struct {
	events int
}

func (tc *throttleListener) WhenThrottled() {
	tc.events++
}

func newTestLimiter(config Config) (*Limiter, *throttleListener, *testClock) {
	clock := &testClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	listener := new(throttleListener)
	return NewLimiterWithClock(config, listener, clock), listener, clock
}

func countAllowed(l *Limiter, frames int) int {
	allowed := 0
	for i := 0; i < frames; i++ {
		if l.Allow() {
			allowed++
		}
	}
	return allowed
}

func TestBurstThenThrottle(t *testing.T) {
	l, listener, _ := newTestLimiter(Config{MaxFPS: 10, Burst: 3})

	assert.Equal(t, 3, countAllowed(l, 10))
	assert.Equal(t, 1, listener.events)
}

func TestRefill(t *testing.T) {
	l, listener, clock := newTestLimiter(Config{MaxFPS: 10, Burst: 3})
	countAllowed(l, 3)

	clock.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, countAllowed(l, 5))

	// Refill never goes past the burst size.
	clock.Sleep(time.Minute)
	assert.Equal(t, 3, countAllowed(l, 5))
	assert.Equal(t, 2, listener.events)
}

func TestAdmitsAtMostBurstPlusRate(t *testing.T) {
	const fps = 30
	l, _, clock := newTestLimiter(Config{MaxFPS: fps, Burst: 2})

	// Offer frames at 100 fps for two seconds.
	allowed := 0
	for i := 0; i < 200; i++ {
		if l.Allow() {
			allowed++
		}
		clock.Sleep(10 * time.Millisecond)
	}
	assert.LessOrEqual(t, allowed, 2+fps*2)
	assert.GreaterOrEqual(t, allowed, fps*2-1)
}

func TestSteadyRateNotThrottled(t *testing.T) {
	l, listener, clock := newTestLimiter(Config{MaxFPS: 30, Burst: 2})

	for i := 0; i < 100; i++ {
		require.True(t, l.Allow(), "frame %d", i)
		clock.Sleep(50 * time.Millisecond)
	}
	assert.Equal(t, 0, listener.events)
}

func TestUnlimited(t *testing.T) {
	l, listener, _ := newTestLimiter(Config{MaxFPS: 0})

	assert.Equal(t, 1000, countAllowed(l, 1000))
	assert.Equal(t, 0, listener.events)
	assert.Equal(t, int64(-1), l.Available())
}

func TestNilListener(t *testing.T) {
	l := NewLimiterWithClock(Config{MaxFPS: 1, Burst: 1}, nil, new(testClock))
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{MaxFPS: 0, Burst: 0}.Validate())
	assert.Error(t, Config{MaxFPS: -1, Burst: 2}.Validate())
	assert.Error(t, Config{MaxFPS: 10, Burst: 0}.Validate())
}

var _ ratelimit.Clock = new(realClock)
var _ ratelimit.Clock = new(testClock)

// testClock implements a fake ratelimit.Clock for testing.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}
