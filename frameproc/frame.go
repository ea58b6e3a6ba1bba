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

package frameproc

import (
	"errors"
	"fmt"
	"image"
)

// FormatNV21 is the only raw frame layout accepted: a full resolution luma
// plane followed by a half resolution plane of interleaved V/U pairs.
const FormatNV21 = "NV21"

// MaxDimension bounds frame width and height.
const MaxDimension = 1 << 14

var (
	// ErrInvalidFrameGeometry is returned for frames whose dimensions or
	// length don't describe an NV21 image.
	ErrInvalidFrameGeometry = errors.New("invalid frame geometry")

	// ErrInvalidParameters is returned when filter parameters are out of range.
	ErrInvalidParameters = errors.New("invalid filter parameters")
)

// NV21Size returns the number of bytes in an NV21 frame.
func NV21Size(width, height int) int {
	return width * height * 3 / 2
}

// RawFrame is a read-only view over camera bytes. Data belongs to the caller
// and must not be retained past the call it is passed to.
type RawFrame struct {
	Data   []byte
	Width  int
	Height int
}

// Validate checks that the frame describes a complete NV21 image.
func (f RawFrame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 || f.Width > MaxDimension || f.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrameGeometry, f.Width, f.Height)
	}
	if f.Width%2 != 0 || f.Height%2 != 0 {
		return fmt.Errorf("%w: %dx%d has odd dimensions", ErrInvalidFrameGeometry, f.Width, f.Height)
	}
	if expected := NV21Size(f.Width, f.Height); len(f.Data) != expected {
		return fmt.Errorf("%w: got %d bytes for %dx%d, expected %d",
			ErrInvalidFrameGeometry, len(f.Data), f.Width, f.Height, expected)
	}
	return nil
}

// PixelBuffer holds RGBA pixels, 4 bytes per pixel, rows packed without
// padding.
type PixelBuffer struct {
	Pix    []uint8
	Width  int
	Height int
}

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return b.Width * 4
}

// Resize sets the dimensions, reusing the backing array when it is big enough.
// Pixel contents are undefined afterwards.
func (b *PixelBuffer) Resize(width, height int) {
	n := width * height * 4
	if cap(b.Pix) < n {
		b.Pix = make([]uint8, n)
	}
	b.Pix = b.Pix[:n]
	b.Width = width
	b.Height = height
}

// CopyFrom makes b an exact copy of src.
func (b *PixelBuffer) CopyFrom(src *PixelBuffer) {
	b.Resize(src.Width, src.Height)
	copy(b.Pix, src.Pix)
}

// Copy returns a deep copy of the buffer.
func (b *PixelBuffer) Copy() *PixelBuffer {
	c := new(PixelBuffer)
	c.CopyFrom(b)
	return c
}

// RGBA returns an image sharing the buffer's pixels.
func (b *PixelBuffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// EdgeCount returns how many pixels of an edge buffer are marked as edges.
func EdgeCount(b *PixelBuffer) int {
	count := 0
	for i := 0; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 0 {
			count++
		}
	}
	return count
}
