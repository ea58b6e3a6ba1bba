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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
	"github.com/TheCacophonyProject/edge-viewer/throttle"
	"github.com/TheCacophonyProject/edge-viewer/webview"
)

func TestAllDefaults(t *testing.T) {
	conf, err := ParseConfig([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, Config{
		FrameInput:  "/var/run/nv21-frames",
		SnapshotDir: "/var/spool/edge-viewer",
		Filter: frameproc.FilterParameters{
			LowThreshold:   50,
			HighToLowRatio: 3,
			ApertureSize:   3,
		},
		Throttle: throttle.Config{
			MaxFPS: 30,
			Burst:  2,
		},
		Web: webview.Config{
			Enabled:      false,
			Listen:       ":8080",
			PreviewWidth: 640,
			PreviewFPS:   5,
		},
	}, *conf)
}

func TestAllSet(t *testing.T) {
	config := []byte(`
frame-input: "/some/sock"
snapshot-dir: "/var/lib/stills"
filter:
  low-threshold: 20
  high-to-low-ratio: 2
  aperture-size: 7
throttle:
  max-fps: 12.5
  burst: 4
web:
  enabled: true
  listen: "127.0.0.1:9000"
  preview-width: 320
  preview-fps: 2
`)

	conf, err := ParseConfig(config)
	require.NoError(t, err)

	assert.Equal(t, Config{
		FrameInput:  "/some/sock",
		SnapshotDir: "/var/lib/stills",
		Filter: frameproc.FilterParameters{
			LowThreshold:   20,
			HighToLowRatio: 2,
			ApertureSize:   7,
		},
		Throttle: throttle.Config{
			MaxFPS: 12.5,
			Burst:  4,
		},
		Web: webview.Config{
			Enabled:      true,
			Listen:       "127.0.0.1:9000",
			PreviewWidth: 320,
			PreviewFPS:   2,
		},
	}, *conf)
}

func TestPartialFilter(t *testing.T) {
	conf, err := ParseConfig([]byte("filter:\n  low-threshold: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, conf.Filter.LowThreshold)
	assert.Equal(t, 3, conf.Filter.HighToLowRatio)
	assert.Equal(t, 3, conf.Filter.ApertureSize)
}

func TestInvalidAperture(t *testing.T) {
	_, err := ParseConfig([]byte("filter:\n  aperture-size: 4\n"))
	assert.ErrorIs(t, err, frameproc.ErrInvalidParameters)
}

func TestInvalidThrottle(t *testing.T) {
	_, err := ParseConfig([]byte("throttle:\n  max-fps: -1\n"))
	assert.Error(t, err)
}

func TestMissingFrameInput(t *testing.T) {
	_, err := ParseConfig([]byte(`frame-input: ""`))
	assert.Error(t, err)
}

func TestBadYAML(t *testing.T) {
	_, err := ParseConfig([]byte("filter: [1, 2"))
	assert.Error(t, err)
}
