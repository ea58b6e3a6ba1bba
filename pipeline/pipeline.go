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

// Package pipeline connects a frame processor and a GPU presenter: frames are
// delivered from the camera side, processed on a worker goroutine and drawn
// on the GL thread, with single slot handoffs dropping stale frames between
// the stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/ratelimit"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
	"github.com/TheCacophonyProject/edge-viewer/loglimiter"
	"github.com/TheCacophonyProject/edge-viewer/presenter"
	"github.com/TheCacophonyProject/edge-viewer/throttle"
)

const logInterval = 10 * time.Second

type Config struct {
	Throttle throttle.Config

	// ThrottleListener is told when frames start being throttled.
	ThrottleListener throttle.ThrottledEventListener

	// OnInitError is called when the presenter can't be set up.
	OnInitError func(error)

	// Clock drives throttling and frame rate measurement. Nil means the
	// system clock.
	Clock ratelimit.Clock
}

// FrameListener is called on the worker goroutine with every processed
// frame. The buffer is only valid for the duration of the call.
type FrameListener func(*frameproc.PixelBuffer)

type rawFrame struct {
	data     []byte
	width    int
	height   int
	rotation int
}

// Pipeline owns one frame processor and, while the GL surface exists, one
// presenter.
type Pipeline struct {
	conf    Config
	proc    *frameproc.Processor
	limiter *throttle.Limiter
	logs    *loglimiter.LogLimiter
	fps     *fpsCounter

	rawPool sync.Pool
	bufPool sync.Pool
	inbox   *mailbox[*rawFrame]
	handoff *mailbox[*frameproc.PixelBuffer]

	// Everything below glMu is only touched on the GL thread.
	glMu      sync.Mutex
	presenter *presenter.Presenter
	texture   presenter.TextureHandle
	viewW     int
	viewH     int

	// presentMu orders handoff publishes against presenter shutdown so a
	// frame can't be left in the handoff while nothing is presenting.
	presentMu sync.Mutex
	presents  bool

	recentMu sync.Mutex
	recent   *frameproc.PixelBuffer

	listenersMu sync.Mutex
	listeners   []FrameListener

	delivered atomic.Uint64
	invalid   atomic.Uint64
	throttled atomic.Uint64
	processed atomic.Uint64
	presented atomic.Uint64

	resMu    sync.Mutex
	width    int
	height   int
	rotation int

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(conf Config, proc *frameproc.Processor) *Pipeline {
	now := time.Now
	var limiter *throttle.Limiter
	if conf.Clock != nil {
		now = conf.Clock.Now
		limiter = throttle.NewLimiterWithClock(conf.Throttle, conf.ThrottleListener, conf.Clock)
	} else {
		limiter = throttle.NewLimiter(conf.Throttle, conf.ThrottleListener)
	}

	return &Pipeline{
		conf:    conf,
		proc:    proc,
		limiter: limiter,
		logs:    loglimiter.New(logInterval),
		fps:     newFPSCounter(now),
		rawPool: sync.Pool{New: func() interface{} { return new(rawFrame) }},
		bufPool: sync.Pool{New: func() interface{} { return new(frameproc.PixelBuffer) }},
		inbox:   newMailbox[*rawFrame](),
		handoff: newMailbox[*frameproc.PixelBuffer](),
	}
}

// Start runs the processing worker until ctx is done or Stop is called.
func (p *Pipeline) Start(ctx context.Context) error {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.cancel != nil {
		return errors.New("pipeline already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go func() {
		<-ctx.Done()
		p.inbox.wake()
	}()
	go p.run(ctx, p.done)
	return nil
}

// Stop ends the worker and waits for it to finish the frame in hand.
func (p *Pipeline) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.inbox.wake()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Pipeline) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		raw, ok := p.inbox.Take(ctx)
		if !ok {
			return
		}
		p.processFrame(raw)
	}
}

// DeliverFrame hands a camera frame to the pipeline. data is copied before
// returning and never read afterwards. Frames arriving faster than the
// throttle allows, or while an earlier frame is still waiting to be
// processed, are dropped.
func (p *Pipeline) DeliverFrame(data []byte, width, height, rotation int) error {
	p.delivered.Add(1)

	frame := frameproc.RawFrame{Data: data, Width: width, Height: height}
	if err := frame.Validate(); err != nil {
		p.invalid.Add(1)
		p.logs.Printf("dropping frame: %v", err)
		return err
	}

	p.resMu.Lock()
	p.width, p.height, p.rotation = width, height, rotation
	p.resMu.Unlock()

	if !p.limiter.Allow() {
		p.throttled.Add(1)
		return nil
	}

	raw := p.rawPool.Get().(*rawFrame)
	if cap(raw.data) < len(data) {
		raw.data = make([]byte, len(data))
	}
	raw.data = raw.data[:len(data)]
	copy(raw.data, data)
	raw.width, raw.height, raw.rotation = width, height, rotation

	if old, replaced := p.inbox.Put(raw); replaced {
		p.rawPool.Put(old)
	}
	return nil
}

func (p *Pipeline) processFrame(raw *rawFrame) {
	defer p.rawPool.Put(raw)

	buf := p.bufPool.Get().(*frameproc.PixelBuffer)
	frame := frameproc.RawFrame{Data: raw.data, Width: raw.width, Height: raw.height}
	if err := p.proc.ProcessInto(frame, buf); err != nil {
		p.bufPool.Put(buf)
		p.logs.Printf("processing failed: %v", err)
		return
	}
	p.processed.Add(1)
	p.notify(buf)

	p.presentMu.Lock()
	if !p.presents {
		p.presentMu.Unlock()
		// Nothing to draw on; keep the frame for RecentFrame.
		p.fps.tick()
		p.setRecent(buf)
		return
	}
	old, replaced := p.handoff.Put(buf)
	p.presentMu.Unlock()
	if replaced {
		p.bufPool.Put(old)
	}
}

func (p *Pipeline) notify(buf *frameproc.PixelBuffer) {
	p.listenersMu.Lock()
	listeners := p.listeners
	p.listenersMu.Unlock()
	for _, l := range listeners {
		l(buf)
	}
}

// AddListener registers fn to be called with every processed frame.
func (p *Pipeline) AddListener(fn FrameListener) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners[:len(p.listeners):len(p.listeners)], fn)
}

// setRecent makes buf the recent frame, recycling the one it replaces.
func (p *Pipeline) setRecent(buf *frameproc.PixelBuffer) {
	p.recentMu.Lock()
	old := p.recent
	p.recent = buf
	p.recentMu.Unlock()
	if old != nil {
		p.bufPool.Put(old)
	}
}

// RecentFrame returns a copy of the last frame drawn, or processed when there
// is no GL surface. It is nil until the first frame.
func (p *Pipeline) RecentFrame() *frameproc.PixelBuffer {
	p.recentMu.Lock()
	defer p.recentMu.Unlock()
	if p.recent == nil {
		return nil
	}
	return p.recent.Copy()
}

// Init creates the presenter on the GL thread. Calling it again replaces the
// previous presenter. Failures are returned and reported to OnInitError.
func (p *Pipeline) Init(gl presenter.GL) error {
	p.glMu.Lock()
	defer p.glMu.Unlock()

	p.shutdownLocked()

	pr := presenter.New(gl)
	err := pr.Initialize()
	var tex presenter.TextureHandle
	if err == nil {
		tex, err = pr.CreateOutputTexture()
	}
	if err != nil {
		pr.Shutdown()
		log.Printf("presenter initialization failed: %v", err)
		if p.conf.OnInitError != nil {
			p.conf.OnInitError(err)
		}
		return err
	}

	if p.viewW > 0 && p.viewH > 0 {
		if err := pr.SetViewport(p.viewW, p.viewH); err != nil {
			log.Printf("failed to set viewport: %v", err)
		}
	}
	p.presenter = pr
	p.texture = tex
	p.presentMu.Lock()
	p.presents = true
	p.presentMu.Unlock()
	return nil
}

// Shutdown releases the presenter. It does nothing if there is none.
func (p *Pipeline) Shutdown() {
	p.glMu.Lock()
	defer p.glMu.Unlock()
	p.shutdownLocked()
}

func (p *Pipeline) shutdownLocked() {
	if p.presenter == nil {
		return
	}
	p.presentMu.Lock()
	p.presents = false
	// A frame that never got drawn is still the most recent one.
	buf, ok := p.handoff.TryTake()
	p.presentMu.Unlock()
	if ok {
		p.setRecent(buf)
	}

	p.presenter.Shutdown()
	p.presenter = nil
	p.texture = 0
}

// Resize forwards a surface size change to the presenter. The size is kept
// for presenters created later.
func (p *Pipeline) Resize(width, height int) {
	p.glMu.Lock()
	defer p.glMu.Unlock()
	p.viewW, p.viewH = width, height
	if p.presenter != nil {
		if err := p.presenter.SetViewport(width, height); err != nil {
			p.logs.Printf("failed to set viewport: %v", err)
		}
	}
}

// RenderFrame draws the newest processed frame, or the previous one again
// when nothing new has arrived. It must be called on the GL thread.
func (p *Pipeline) RenderFrame() error {
	p.glMu.Lock()
	defer p.glMu.Unlock()

	if p.presenter == nil {
		return fmt.Errorf("%w: no presenter", presenter.ErrInvalidState)
	}
	buf, ok := p.handoff.TryTake()
	if !ok {
		return p.presenter.Redraw()
	}
	if err := p.presenter.Present(buf, p.texture); err != nil {
		p.bufPool.Put(buf)
		return err
	}
	p.presented.Add(1)
	p.fps.tick()
	p.setRecent(buf)
	return nil
}

// SetFilterParameters replaces the edge detection parameters from the next
// frame on. Invalid values are rejected and the current ones kept.
func (p *Pipeline) SetFilterParameters(lowThreshold, highToLowRatio, apertureSize int) error {
	return p.proc.UpdateParameters(frameproc.FilterParameters{
		LowThreshold:   lowThreshold,
		HighToLowRatio: highToLowRatio,
		ApertureSize:   apertureSize,
	})
}

// Processor returns the frame processor used by the pipeline.
func (p *Pipeline) Processor() *frameproc.Processor {
	return p.proc
}

func (p *Pipeline) Stats() Stats {
	s := Stats{
		Delivered:    p.delivered.Load(),
		Invalid:      p.invalid.Load(),
		Throttled:    p.throttled.Load(),
		InboxDrops:   p.inbox.Drops(),
		Processed:    p.processed.Load(),
		HandoffDrops: p.handoff.Drops(),
		Presented:    p.presented.Load(),
		FPS:          p.fps.rate(),
		Presenter:    "none",
		Filter:       p.proc.Parameters(),
	}

	p.resMu.Lock()
	s.Width, s.Height, s.Rotation = p.width, p.height, p.rotation
	p.resMu.Unlock()

	p.glMu.Lock()
	if p.presenter != nil {
		s.Presenter = p.presenter.State().String()
	}
	p.glMu.Unlock()
	return s
}
