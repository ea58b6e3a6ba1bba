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
	"log"
	"sync"
	"time"

	"github.com/juju/ratelimit"
)

// ThrottledEventListener is told when frames start being dropped.
type ThrottledEventListener interface {
	WhenThrottled()
}

type nullListener struct{}

func (nullListener) WhenThrottled() {}

func NewLimiter(config Config, listener ThrottledEventListener) *Limiter {
	return NewLimiterWithClock(config, listener, new(realClock))
}

func NewLimiterWithClock(config Config, listener ThrottledEventListener, clock ratelimit.Clock) *Limiter {
	if listener == nil {
		listener = nullListener{}
	}
	l := &Limiter{listener: listener}
	if config.MaxFPS > 0 {
		// The bucket tracks the number of *frames* that may be admitted.
		l.bucket = ratelimit.NewBucketWithRateAndClock(config.MaxFPS, config.Burst, clock)
	}
	return l
}

// Limiter drops frames arriving faster than the configured rate. A burst of
// frames is allowed through after a quiet period. A nil bucket means frames
// are never dropped.
type Limiter struct {
	listener ThrottledEventListener
	bucket   *ratelimit.Bucket

	mu         sync.Mutex
	throttling bool
}

// Allow reports whether another frame may be admitted now. The listener is
// told once each time the limiter starts dropping frames.
func (l *Limiter) Allow() bool {
	if l.bucket == nil {
		return true
	}
	allowed := l.bucket.TakeAvailable(1) > 0

	l.mu.Lock()
	started := !allowed && !l.throttling
	l.throttling = !allowed
	l.mu.Unlock()

	if started {
		log.Print("frames throttled")
		l.listener.WhenThrottled()
	}
	return allowed
}

// Available returns how many frames could be admitted right now.
func (l *Limiter) Available() int64 {
	if l.bucket == nil {
		return -1
	}
	return l.bucket.Available()
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

// Now implements Clock.Now by calling time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// Sleep implements Clock.Sleep by calling time.Sleep.
func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
