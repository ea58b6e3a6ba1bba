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

//go:build opencv

package frameproc

import (
	"image"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// OpenCVProcessor runs the same filter chain through OpenCV. It is only built
// with the opencv tag and serves as a reference for the pure Go stages.
type OpenCVProcessor struct {
	params atomic.Pointer[FilterParameters]
}

func NewOpenCVProcessor(params FilterParameters) (*OpenCVProcessor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := new(OpenCVProcessor)
	p.params.Store(&params)
	return p, nil
}

func (p *OpenCVProcessor) UpdateParameters(params FilterParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	p.params.Store(&params)
	return nil
}

func (p *OpenCVProcessor) Process(frame RawFrame) (*PixelBuffer, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	params := p.params.Load()

	w, h := frame.Width, frame.Height
	yuv, err := gocv.NewMatFromBytes(h*3/2, w, gocv.MatTypeCV8UC1, frame.Data)
	if err != nil {
		return nil, err
	}
	defer yuv.Close()

	rgba := gocv.NewMat()
	defer rgba.Close()
	gray := gocv.NewMat()
	defer gray.Close()
	blurred := gocv.NewMat()
	defer blurred.Close()
	edges := gocv.NewMat()
	defer edges.Close()
	out := gocv.NewMat()
	defer out.Close()

	gocv.CvtColor(yuv, &rgba, gocv.ColorYUVToRGBANV21)
	gocv.CvtColor(rgba, &gray, gocv.ColorRGBAToGray)
	gocv.GaussianBlur(gray, &blurred, image.Pt(blurSize, blurSize), blurSigma, blurSigma, gocv.BorderReflect101)
	gocv.CannyWithParams(blurred, &edges,
		float32(params.LowThreshold), float32(params.HighThreshold()),
		params.ApertureSize, false)
	gocv.CvtColor(edges, &out, gocv.ColorGrayToRGBA)

	buf := NewPixelBuffer(w, h)
	copy(buf.Pix, out.ToBytes())
	return buf, nil
}
