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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeaderInfo(t *testing.T) {
	input := "ResX: 640\nResY: 480\nFPS: 30\nFrameSize: 460800\nFormat: NV21\nRotation: 90\nBrand: acme\nModel: cam1\n\nframe bytes"
	reader := bufio.NewReader(strings.NewReader(input))

	h, err := ReadHeaderInfo(reader)
	require.NoError(t, err)
	assert.Equal(t, 640, h.ResX())
	assert.Equal(t, 480, h.ResY())
	assert.Equal(t, 30, h.FPS())
	assert.Equal(t, 460800, h.FrameSize())
	assert.Equal(t, "NV21", h.Format())
	assert.Equal(t, 90, h.Rotation())
	assert.Equal(t, "acme", h.Brand())
	assert.Equal(t, "cam1", h.Model())
	assert.NoError(t, h.Validate())

	// The reader is left at the first frame byte.
	rest, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "frame bytes", string(rest))
}

func TestWriteThenRead(t *testing.T) {
	var buf bytes.Buffer
	want := New(320, 240, 15, 270, "acme", "cam2")
	require.NoError(t, WriteHeaderInfo(&buf, want))
	buf.WriteString("xyz")

	reader := bufio.NewReader(&buf)
	got, err := ReadHeaderInfo(reader)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 320*240*3/2, got.FrameSize())

	// Frame data follows the header on the same reader.
	rest, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "xyz", string(rest))
}

func TestMissingFields(t *testing.T) {
	h, err := ReadHeaderInfo(bufio.NewReader(strings.NewReader("ResX: 8\n\n")))
	require.NoError(t, err)
	assert.Equal(t, 8, h.ResX())
	assert.Equal(t, 0, h.ResY())
	assert.Equal(t, "", h.Format())
	assert.ErrorIs(t, h.Validate(), ErrInvalidHeader)
}

func TestUnterminatedHeader(t *testing.T) {
	_, err := ReadHeaderInfo(bufio.NewReader(strings.NewReader("ResX: 8\n")))
	assert.Equal(t, io.EOF, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, New(640, 480, 30, 0, "", "").Validate())

	wrongFormat := New(640, 480, 30, 0, "", "")
	wrongFormat.format = "YUYV"
	assert.ErrorIs(t, wrongFormat.Validate(), ErrInvalidHeader)

	wrongSize := New(640, 480, 30, 0, "", "")
	wrongSize.framesize = 640 * 480 * 4
	assert.ErrorIs(t, wrongSize.Validate(), ErrInvalidHeader)

	assert.ErrorIs(t, New(641, 480, 30, 0, "", "").Validate(), ErrInvalidHeader)
	assert.ErrorIs(t, New(640, 480, 30, 45, "", "").Validate(), ErrInvalidHeader)
}
