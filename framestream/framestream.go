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

// Package framestream reads NV21 frames sent over a socket by a capture
// daemon: a YAML header followed by back to back frames.
package framestream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/coreos/go-systemd/daemon"

	"github.com/TheCacophonyProject/edge-viewer/headers"
	"github.com/TheCacophonyProject/edge-viewer/loglimiter"
)

const (
	frameLogIntervalFirstMin = 15
	frameLogInterval         = 60 * 5

	sdNotifySeconds = 5
)

// Overridden in tests.
var sdNotify = daemon.SdNotify

// Sink receives frames read from a stream.
type Sink interface {
	DeliverFrame(data []byte, width, height, rotation int) error
}

// Listen removes any stale socket at path and listens on it.
func Listen(path string) (net.Listener, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return net.Listen("unix", path)
}

// Serve reads the stream header from r and then delivers every frame to
// sink until the stream ends. Errors returned by the sink drop that frame
// only. A clean end of stream on a frame boundary returns nil.
func Serve(r io.Reader, sink Sink) error {
	reader := bufio.NewReader(r)
	header, err := headers.ReadHeaderInfo(reader)
	if err != nil {
		return fmt.Errorf("reading stream header: %w", err)
	}
	if err := header.Validate(); err != nil {
		return err
	}
	log.Printf("stream from %s %s: %dx%d at %d fps, rotation %d",
		header.Brand(), header.Model(), header.ResX(), header.ResY(), header.FPS(), header.Rotation())

	fps := header.FPS()
	if fps <= 0 {
		fps = 1
	}
	framesPerSdNotify := sdNotifySeconds * fps
	logs := loglimiter.New(10 * time.Second)

	frame := make([]byte, header.FrameSize())
	totalFrames := 0
	notifyCount := 0
	for {
		if _, err := io.ReadFull(reader, frame); err != nil {
			if errors.Is(err, io.EOF) {
				log.Printf("stream ended after %d frames", totalFrames)
				return nil
			}
			return err
		}
		totalFrames++

		if totalFrames%(frameLogIntervalFirstMin*fps) == 0 &&
			totalFrames <= 60*fps || totalFrames%(frameLogInterval*fps) == 0 {
			log.Printf("%d frames for this connection", totalFrames)
		}

		if notifyCount++; notifyCount >= framesPerSdNotify {
			sdNotify(false, "WATCHDOG=1")
			notifyCount = 0
		}

		if err := sink.DeliverFrame(frame, header.ResX(), header.ResY(), header.Rotation()); err != nil {
			logs.Printf("frame dropped: %v", err)
		}
	}
}
