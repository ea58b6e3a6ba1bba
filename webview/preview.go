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

package webview

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

// previewImage returns frame scaled down to at most maxWidth pixels wide,
// keeping its aspect ratio.
func previewImage(frame *frameproc.PixelBuffer, maxWidth int) image.Image {
	src := frame.RGBA()
	if maxWidth <= 0 || frame.Width <= maxWidth {
		return src
	}
	height := frame.Height * maxWidth / frame.Width
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
