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
	"errors"
	"fmt"
	"io"
	"os"
)

// frameSource fills buf with the next NV21 frame.
type frameSource interface {
	NextFrame(buf []byte) error
}

// patternSource generates a bright square sliding across a dark background.
type patternSource struct {
	width, height int
	size          int
	pos           int
}

func newPatternSource(width, height int) *patternSource {
	size := height / 4
	if size < 2 {
		size = 2
	}
	return &patternSource{width: width, height: height, size: size}
}

func (s *patternSource) NextFrame(buf []byte) error {
	w, h := s.width, s.height
	top := (h - s.size) / 2
	left := s.pos % (w - s.size + 1)
	for y := 0; y < h; y++ {
		row := buf[y*w : (y+1)*w]
		for x := range row {
			if y >= top && y < top+s.size && x >= left && x < left+s.size {
				row[x] = 235
			} else {
				row[x] = 16
			}
		}
	}
	// Neutral chroma.
	for i := w * h; i < len(buf); i++ {
		buf[i] = 128
	}
	s.pos += 4
	return nil
}

// fileSource plays back a file of concatenated NV21 frames, starting again
// from the beginning when it reaches the end.
type fileSource struct {
	f io.ReadSeeker
}

func openFileSource(filename string, frameSize int) (*fileSource, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 || info.Size()%int64(frameSize) != 0 {
		f.Close()
		return nil, fmt.Errorf("%s: size %d is not a whole number of %d byte frames", filename, info.Size(), frameSize)
	}
	return &fileSource{f: f}, nil
}

func (s *fileSource) NextFrame(buf []byte) error {
	_, err := io.ReadFull(s.f, buf)
	if errors.Is(err, io.EOF) {
		if _, err := s.f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		_, err = io.ReadFull(s.f, buf)
	}
	return err
}

func (s *fileSource) Close() error {
	if c, ok := s.f.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
