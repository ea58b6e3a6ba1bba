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

package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/mobile/app"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/gl"

	"github.com/TheCacophonyProject/edge-viewer/loglimiter"
	"github.com/TheCacophonyProject/edge-viewer/pipeline"
	"github.com/TheCacophonyProject/edge-viewer/presenter"
	"github.com/TheCacophonyProject/edge-viewer/presenter/mobilegl"
)

type quitEvent struct{}

// runDisplay drives the pipeline's presenter from the window's event loop.
// Every call on the pipeline's GL hooks happens on this loop.
func runDisplay(ctx context.Context, p *pipeline.Pipeline) {
	logs := loglimiter.New(10 * time.Second)

	app.Main(func(a app.App) {
		go func() {
			<-ctx.Done()
			a.Send(quitEvent{})
		}()

		var glctx gl.Context
		for e := range a.Events() {
			switch e := a.Filter(e).(type) {
			case lifecycle.Event:
				switch e.Crosses(lifecycle.StageVisible) {
				case lifecycle.CrossOn:
					glctx, _ = e.DrawContext.(gl.Context)
					if glctx == nil {
						continue
					}
					// Failures are logged and reported by the pipeline.
					p.Init(mobilegl.New(glctx))
					a.Send(paint.Event{})
				case lifecycle.CrossOff:
					p.Shutdown()
					glctx = nil
				}

			case size.Event:
				p.Resize(e.WidthPx, e.HeightPx)

			case paint.Event:
				if glctx == nil || e.External {
					continue
				}
				err := p.RenderFrame()
				if err != nil && !errors.Is(err, presenter.ErrInvalidState) {
					logs.Printf("render failed: %v", err)
				}
				a.Publish()
				a.Send(paint.Event{})

			case quitEvent:
				if glctx != nil {
					p.Shutdown()
				}
				return
			}
		}
	})
}
