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
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

// processTestFile runs the edge filter over a single file and writes the
// result as a PNG. Files ending in .png, .jpg or .jpeg are decoded as
// images, anything else is read as one raw NV21 frame of width x height. It
// returns the number of edge pixels found.
func processTestFile(params frameproc.FilterParameters, filename string, width, height int, output string) (int, error) {
	proc, err := frameproc.NewProcessor(params)
	if err != nil {
		return 0, err
	}

	var edges *frameproc.PixelBuffer
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
		f, err := os.Open(filename)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return 0, err
		}
		if edges, err = proc.ProcessImage(img); err != nil {
			return 0, err
		}
	default:
		data, err := os.ReadFile(filename)
		if err != nil {
			return 0, err
		}
		frame := frameproc.RawFrame{Data: data, Width: width, Height: height}
		if edges, err = proc.Process(frame); err != nil {
			return 0, err
		}
	}

	out, err := os.Create(output)
	if err != nil {
		return 0, err
	}
	if err := png.Encode(out, edges.RGBA()); err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return frameproc.EdgeCount(edges), nil
}
