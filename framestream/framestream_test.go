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

package framestream

import (
	"bytes"
	"errors"
	"io"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/edge-viewer/headers"
)

type recordingSink struct {
	frames [][]byte
	fail   map[int]bool
	calls  int
}

func (s *recordingSink) DeliverFrame(data []byte, width, height, rotation int) error {
	s.calls++
	if s.fail[s.calls] {
		return errors.New("bad frame")
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	s.frames = append(s.frames, frame)
	return nil
}

func stream(t *testing.T, h *headers.HeaderInfo, frames int) *bytes.Buffer {
	var buf bytes.Buffer
	require.NoError(t, headers.WriteHeaderInfo(&buf, h))
	for i := 0; i < frames; i++ {
		buf.Write(bytes.Repeat([]byte{byte(i)}, h.FrameSize()))
	}
	return &buf
}

func noNotify(t *testing.T) *int {
	notified := new(int)
	orig := sdNotify
	sdNotify = func(unsetEnvironment bool, state string) (bool, error) {
		*notified++
		return true, nil
	}
	t.Cleanup(func() { sdNotify = orig })
	return notified
}

func TestServeDeliversEveryFrame(t *testing.T) {
	notified := noNotify(t)
	sink := new(recordingSink)

	require.NoError(t, Serve(stream(t, headers.New(4, 2, 1, 0, "", ""), 12), sink))
	require.Len(t, sink.frames, 12)
	for i, f := range sink.frames {
		assert.Equal(t, bytes.Repeat([]byte{byte(i)}, 12), f)
	}
	// One watchdog ping per five seconds of frames.
	assert.Equal(t, 2, *notified)
}

func TestServeSurvivesBadFrames(t *testing.T) {
	noNotify(t)
	sink := &recordingSink{fail: map[int]bool{2: true, 3: true}}

	require.NoError(t, Serve(stream(t, headers.New(4, 2, 30, 0, "", ""), 5), sink))
	assert.Equal(t, 5, sink.calls)
	assert.Len(t, sink.frames, 3)
}

func TestServeTruncatedFrame(t *testing.T) {
	noNotify(t)
	buf := stream(t, headers.New(4, 2, 30, 0, "", ""), 2)
	buf.Write([]byte{1, 2, 3})

	err := Serve(buf, new(recordingSink))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestServeRejectsHeader(t *testing.T) {
	noNotify(t)
	var buf bytes.Buffer
	buf.WriteString("ResX: 4\nResY: 2\nFormat: YUYV\nFrameSize: 16\n\n")

	sink := new(recordingSink)
	assert.ErrorIs(t, Serve(&buf, sink), headers.ErrInvalidHeader)
	assert.Equal(t, 0, sink.calls)

	assert.Error(t, Serve(bytes.NewBufferString("ResX: 4\n"), sink))
}

func TestListen(t *testing.T) {
	noNotify(t)
	path := filepath.Join(t.TempDir(), "frames")

	// A stale socket from an earlier run is replaced.
	first, err := Listen(path)
	require.NoError(t, err)
	first.Close()
	listener, err := Listen(path)
	require.NoError(t, err)
	defer listener.Close()

	h := headers.New(4, 2, 30, 0, "", "")
	go func() {
		conn, err := net.Dial("unix", path)
		if err != nil {
			return
		}
		defer conn.Close()
		headers.WriteHeaderInfo(conn, h)
		conn.Write(make([]byte, h.FrameSize()*3))
	}()

	conn, err := listener.Accept()
	require.NoError(t, err)
	defer conn.Close()
	sink := new(recordingSink)
	require.NoError(t, Serve(conn, sink))
	assert.Len(t, sink.frames, 3)
}
