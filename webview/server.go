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

// Package webview serves a browser preview of the edge detected frames and
// lets the filter be tuned over HTTP.
package webview

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/TheCacophonyProject/edge-viewer/pipeline"
)

// Server is the preview web server.
type Server struct {
	conf     Config
	pipeline *pipeline.Pipeline
	app      *fiber.App
	frames   *hub
}

func New(conf Config, p *pipeline.Pipeline) *Server {
	s := &Server{
		conf:     conf,
		pipeline: p,
		frames:   newHub("frames"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "edge-viewer",
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024,
	})
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/", s.handleIndex)

	api := s.app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/frame.png", s.handleFrame)
	api.Post("/params", s.handleParams)
	api.Post("/process", s.handleProcess)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/frames", websocket.New(func(c *websocket.Conn) {
		newClient(s.frames, c).run()
	}))
}

// Run serves on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	go s.frames.run(ctx)
	go s.feedPreview(ctx)
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			log.Printf("web server shutdown: %v", err)
		}
	}()

	log.Printf("web preview listening on %s", s.conf.Listen)
	return s.app.Listen(s.conf.Listen)
}

// feedPreview broadcasts the most recent frame to websocket clients at most
// PreviewFPS times a second, skipping ticks with no new frame.
func (s *Server) feedPreview(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.conf.PreviewFPS))
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if s.frames.clientCount() == 0 {
			continue
		}
		last = s.broadcastFrame(last)
	}
}

// broadcastFrame sends the recent frame if the pipeline has moved on since
// seq and returns the new sequence.
func (s *Server) broadcastFrame(seq uint64) uint64 {
	st := s.pipeline.Stats()
	current := st.Processed + st.Presented
	if current == seq {
		return seq
	}
	frame := s.pipeline.RecentFrame()
	if frame == nil {
		return seq
	}
	data, err := encodePNG(previewImage(frame, s.conf.PreviewWidth))
	if err != nil {
		log.Printf("failed to encode preview frame: %v", err)
		return seq
	}
	s.frames.send(data)
	return current
}
