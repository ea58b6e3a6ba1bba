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

// Package snapshot saves the most recent edge frame as a PNG still.
package snapshot

import (
	"errors"
	"hash/fnv"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TheCacophonyProject/event-reporter/eventclient"

	"github.com/TheCacophonyProject/edge-viewer/device"
	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

const (
	Name                  = "still.png"
	allowedSnapshotPeriod = 500 * time.Millisecond
	eventType             = "edgeSnapshot"
)

// ErrNoFrame is returned when there is no frame to save yet.
var ErrNoFrame = errors.New("no frames yet")

// Snapshotter writes stills into a directory, overwriting the previous one.
type Snapshotter struct {
	dir      string
	device   device.Identity
	nowFunc  func() time.Time
	addEvent func(eventclient.Event) error

	mu           sync.Mutex
	previousID   uint64
	previousTime time.Time
}

func New(dir string, dev device.Identity) *Snapshotter {
	return &Snapshotter{
		dir:      dir,
		device:   dev,
		nowFunc:  time.Now,
		addEvent: eventclient.AddEvent,
	}
}

// Path returns the location of the still.
func (s *Snapshotter) Path() string {
	return filepath.Join(s.dir, Name)
}

// Take saves frame as the still. Requests arriving within 500ms of the last
// saved still, or for a frame identical to it, are ignored and report false.
func (s *Snapshotter) Take(frame *frameproc.PixelBuffer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if now.Sub(s.previousTime) < allowedSnapshotPeriod {
		return false, nil
	}
	if frame == nil {
		return false, ErrNoFrame
	}

	// Check if frame had already been saved
	id := frameID(frame)
	if id == s.previousID {
		return false, nil
	}

	if err := s.write(frame); err != nil {
		return false, err
	}

	// the time and id will be changed only if the attempt is successful
	s.previousID = id
	s.previousTime = now

	event := eventclient.Event{
		Timestamp: now,
		Type:      eventType,
		Details: map[string]interface{}{
			"width":  frame.Width,
			"height": frame.Height,
			"edges":  frameproc.EdgeCount(frame),
		},
	}
	s.device.AddDetails(event.Details)
	if err := s.addEvent(event); err != nil {
		log.Printf("could not record snapshot event: %v", err)
	}
	return true, nil
}

// write encodes to a temporary file first so readers never see a partial
// image.
func (s *Snapshotter) write(frame *frameproc.PixelBuffer) error {
	tmp, err := os.CreateTemp(s.dir, ".still-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, frame.RGBA()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path())
}

// Delete removes the still if there is one.
func (s *Snapshotter) Delete() {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		log.Printf("error deleting snapshot image: %v", err)
	}
}

func frameID(frame *frameproc.PixelBuffer) uint64 {
	h := fnv.New64a()
	h.Write(frame.Pix)
	// Same pixels at a different size are a different image.
	h.Write([]byte{byte(frame.Width), byte(frame.Width >> 8), byte(frame.Height), byte(frame.Height >> 8)})
	return h.Sum64()
}
