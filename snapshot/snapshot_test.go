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

package snapshot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TheCacophonyProject/event-reporter/eventclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/edge-viewer/device"
	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

func newTestSnapshotter(t *testing.T) (*Snapshotter, *time.Time, *[]eventclient.Event) {
	s := New(t.TempDir(), device.Identity{ID: 12, Name: "hill-camera"})
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s.nowFunc = func() time.Time { return now }
	events := new([]eventclient.Event)
	s.addEvent = func(e eventclient.Event) error {
		*events = append(*events, e)
		return nil
	}
	return s, &now, events
}

func edgeFrame(marked int) *frameproc.PixelBuffer {
	b := frameproc.NewPixelBuffer(8, 4)
	for i := 0; i < marked; i++ {
		copy(b.Pix[i*4:], []uint8{0xff, 0xff, 0xff, 0xff})
	}
	for i := marked; i < 8*4; i++ {
		b.Pix[i*4+3] = 0xff
	}
	return b
}

func TestTake(t *testing.T) {
	s, now, events := newTestSnapshotter(t)

	taken, err := s.Take(edgeFrame(3))
	require.NoError(t, err)
	assert.True(t, taken)

	f, err := os.Open(s.Path())
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	r, _, _, _ := img.At(2, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	require.Len(t, *events, 1)
	assert.Equal(t, "edgeSnapshot", (*events)[0].Type)
	assert.Equal(t, *now, (*events)[0].Timestamp)
	assert.Equal(t, 3, (*events)[0].Details["edges"])
	assert.Equal(t, 12, (*events)[0].Details["deviceID"])
	assert.Equal(t, "hill-camera", (*events)[0].Details["deviceName"])

	// No temporary files left behind.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRateLimited(t *testing.T) {
	s, now, events := newTestSnapshotter(t)

	taken, err := s.Take(edgeFrame(1))
	require.NoError(t, err)
	assert.True(t, taken)

	*now = now.Add(100 * time.Millisecond)
	taken, err = s.Take(edgeFrame(2))
	require.NoError(t, err)
	assert.False(t, taken)

	*now = now.Add(500 * time.Millisecond)
	taken, err = s.Take(edgeFrame(2))
	require.NoError(t, err)
	assert.True(t, taken)
	assert.Len(t, *events, 2)
}

func TestSameFrameSkipped(t *testing.T) {
	s, now, events := newTestSnapshotter(t)

	_, err := s.Take(edgeFrame(4))
	require.NoError(t, err)

	*now = now.Add(time.Second)
	taken, err := s.Take(edgeFrame(4))
	require.NoError(t, err)
	assert.False(t, taken)
	assert.Len(t, *events, 1)
}

func TestNoFrame(t *testing.T) {
	s, _, _ := newTestSnapshotter(t)

	_, err := s.Take(nil)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFailedWriteNotRateLimited(t *testing.T) {
	s, _, _ := newTestSnapshotter(t)
	s.dir = filepath.Join(s.dir, "missing")

	_, err := s.Take(edgeFrame(1))
	assert.Error(t, err)

	s.dir = filepath.Dir(s.dir)
	taken, err := s.Take(edgeFrame(1))
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestDelete(t *testing.T) {
	s, _, _ := newTestSnapshotter(t)
	s.Delete()

	_, err := s.Take(edgeFrame(1))
	require.NoError(t, err)
	s.Delete()
	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}
