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
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// NewProcessor returns a Processor using params.
func NewProcessor(params FilterParameters) (*Processor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := new(Processor)
	p.params.Store(&params)
	return p, nil
}

// Processor turns NV21 camera frames into RGBA edge maps:
// NV21 -> RGBA -> luma -> Gaussian blur -> Canny -> RGBA.
//
// Output depends only on the input frame and the filter parameters in effect
// when the call started. Scratch planes are reused between calls; concurrent
// calls are serialised.
type Processor struct {
	params atomic.Pointer[FilterParameters]

	mu      sync.Mutex
	rgba    []uint8
	gray    []uint8
	blurred []uint8
	blurTmp []uint16
	mask    []uint8
	canny   cannyScratch
}

// Parameters returns the parameters the next frame will be processed with.
func (p *Processor) Parameters() FilterParameters {
	return *p.params.Load()
}

// UpdateParameters replaces the active filter parameters. Frames already
// being processed keep the parameters they started with. Invalid parameters
// are rejected and the previous set stays in effect.
func (p *Processor) UpdateParameters(params FilterParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	p.params.Store(&params)
	return nil
}

// Process returns the edge map for frame in a new buffer.
func (p *Processor) Process(frame RawFrame) (*PixelBuffer, error) {
	buf := new(PixelBuffer)
	if err := p.ProcessInto(frame, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ProcessInto writes the edge map for frame into dst, resizing it to the frame
// dimensions. dst is left untouched when the frame is rejected.
func (p *Processor) ProcessInto(frame RawFrame, dst *PixelBuffer) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	params := p.params.Load()

	p.mu.Lock()
	defer p.mu.Unlock()

	w, h := frame.Width, frame.Height
	p.resize(w, h)
	nv21ToRGBA(frame.Data, w, h, p.rgba)
	p.edges(*params, w, h, dst)
	return nil
}

// ProcessImage returns the edge map of an already decoded image.
func (p *Processor) ProcessImage(img image.Image) (*PixelBuffer, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrameGeometry, w, h)
	}
	params := p.params.Load()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.resize(w, h)
	rgba := &image.RGBA{Pix: p.rgba, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)

	dst := new(PixelBuffer)
	p.edges(*params, w, h, dst)
	return dst, nil
}

// edges runs every stage after colour conversion on p.rgba.
func (p *Processor) edges(params FilterParameters, w, h int, dst *PixelBuffer) {
	rgbaToGray(p.rgba, p.gray)
	gaussianBlur(p.gray, p.blurred, p.blurTmp, w, h)
	canny(p.blurred, p.mask, w, h, params, &p.canny)

	dst.Resize(w, h)
	expandMask(p.mask, dst.Pix)
}

func (p *Processor) resize(w, h int) {
	n := w * h
	if cap(p.gray) < n {
		p.rgba = make([]uint8, n*4)
		p.gray = make([]uint8, n)
		p.blurred = make([]uint8, n)
		p.blurTmp = make([]uint16, n)
		p.mask = make([]uint8, n)
	}
	p.rgba = p.rgba[:n*4]
	p.gray = p.gray[:n]
	p.blurred = p.blurred[:n]
	p.blurTmp = p.blurTmp[:n]
	p.mask = p.mask[:n]
}
