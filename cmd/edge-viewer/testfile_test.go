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
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

func writeSquareNV21(t *testing.T, filename string, w, h int) {
	data := make([]byte, frameproc.NV21Size(w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			luma := byte(16)
			if x >= w/4 && x < 3*w/4 && y >= h/4 && y < 3*h/4 {
				luma = 235
			}
			data[y*w+x] = luma
		}
	}
	for i := w * h; i < len(data); i++ {
		data[i] = 128
	}
	require.NoError(t, os.WriteFile(filename, data, 0644))
}

func TestProcessTestFileNV21(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "frame.nv21")
	output := filepath.Join(dir, "edges.png")
	writeSquareNV21(t, input, 64, 48)

	edges, err := processTestFile(frameproc.DefaultFilterParameters(), input, 64, 48, output)
	require.NoError(t, err)
	assert.Greater(t, edges, 0)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
}

func TestProcessTestFileWrongSize(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "frame.nv21")
	writeSquareNV21(t, input, 64, 48)

	_, err := processTestFile(frameproc.DefaultFilterParameters(), input, 640, 480, filepath.Join(dir, "out.png"))
	assert.ErrorIs(t, err, frameproc.ErrInvalidFrameGeometry)
	assert.NoFileExists(t, filepath.Join(dir, "out.png"))
}

func TestProcessTestFileImage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "flat.png")
	img := image.NewGray(image.Rect(0, 0, 20, 10))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	f, err := os.Create(input)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	edges, err := processTestFile(frameproc.DefaultFilterParameters(), input, 0, 0, filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	assert.Equal(t, 0, edges)
}
