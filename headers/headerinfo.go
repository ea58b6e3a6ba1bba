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

package headers

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v1"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

// Header keys.
const (
	XResolution = "ResX"
	YResolution = "ResY"
	FPS         = "FPS"
	FrameSize   = "FrameSize"
	Format      = "Format"
	Rotation    = "Rotation"
	Brand       = "Brand"
	Model       = "Model"
)

// ErrInvalidHeader is returned by Validate for headers describing a stream
// the viewer can't consume.
var ErrInvalidHeader = errors.New("invalid frame stream header")

// HeaderInfo contains the camera description fields sent at the start of a
// frame stream.
type HeaderInfo struct {
	resX      int
	resY      int
	fps       int
	framesize int
	format    string
	rotation  int
	brand     string
	model     string
}

// New returns the header for an NV21 stream of resX x resY frames.
func New(resX, resY, fps, rotation int, brand, model string) *HeaderInfo {
	return &HeaderInfo{
		resX:      resX,
		resY:      resY,
		fps:       fps,
		framesize: frameproc.NV21Size(resX, resY),
		format:    frameproc.FormatNV21,
		rotation:  rotation,
		brand:     brand,
		model:     model,
	}
}

func (h *HeaderInfo) ResX() int {
	return h.resX
}

func (h *HeaderInfo) ResY() int {
	return h.resY
}

func (h *HeaderInfo) FPS() int {
	return h.fps
}

// FrameSize returns the number of bytes in each frame.
func (h *HeaderInfo) FrameSize() int {
	return h.framesize
}

// Format returns the pixel layout of each frame.
func (h *HeaderInfo) Format() string {
	return h.format
}

// Rotation returns how many degrees clockwise the sensor image must be
// turned to be upright.
func (h *HeaderInfo) Rotation() int {
	return h.rotation
}

// Model returns the camera model.
func (h *HeaderInfo) Model() string {
	return h.model
}

// Brand returns the camera brand.
func (h *HeaderInfo) Brand() string {
	return h.brand
}

// Validate checks that frames described by the header can be processed.
func (h *HeaderInfo) Validate() error {
	if h.format != frameproc.FormatNV21 {
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidHeader, h.format)
	}
	if h.resX <= 0 || h.resY <= 0 || h.resX > frameproc.MaxDimension || h.resY > frameproc.MaxDimension ||
		h.resX%2 != 0 || h.resY%2 != 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidHeader, h.resX, h.resY)
	}
	if expected := frameproc.NV21Size(h.resX, h.resY); h.framesize != expected {
		return fmt.Errorf("%w: frame size %d, expected %d", ErrInvalidHeader, h.framesize, expected)
	}
	switch h.rotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("%w: rotation %d", ErrInvalidHeader, h.rotation)
	}
	return nil
}

func ReadHeaderInfo(reader *bufio.Reader) (*HeaderInfo, error) {
	var buf bytes.Buffer
	for {
		line, err := reader.ReadString(byte('\n'))
		if err != nil {
			return nil, err
		}
		if strings.Trim(line, " ") == "\n" {
			break
		}
		buf.WriteString(line)
	}
	h := make(map[string]interface{})
	err := yaml.Unmarshal(buf.Bytes(), &h)
	if err != nil {
		return nil, err
	}

	return &HeaderInfo{
		resX:      toInt(h[XResolution]),
		resY:      toInt(h[YResolution]),
		fps:       toInt(h[FPS]),
		framesize: toInt(h[FrameSize]),
		format:    toStr(h[Format]),
		rotation:  toInt(h[Rotation]),
		brand:     toStr(h[Brand]),
		model:     toStr(h[Model]),
	}, nil
}

// WriteHeaderInfo writes h in the form ReadHeaderInfo expects, including the
// terminating empty line.
func WriteHeaderInfo(w io.Writer, h *HeaderInfo) error {
	out, err := yaml.Marshal(map[string]interface{}{
		XResolution: h.resX,
		YResolution: h.resY,
		FPS:         h.fps,
		FrameSize:   h.framesize,
		Format:      h.format,
		Rotation:    h.rotation,
		Brand:       h.brand,
		Model:       h.model,
	})
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

func toInt(v interface{}) int {
	out, ok := v.(int)
	if !ok {
		return 0
	}
	return out
}

func toStr(v interface{}) string {
	out, ok := v.(string)
	if !ok {
		return ""
	}
	return out
}
