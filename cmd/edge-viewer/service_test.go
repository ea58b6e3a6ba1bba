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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/edge-viewer/device"
	"github.com/TheCacophonyProject/edge-viewer/frameproc"
	"github.com/TheCacophonyProject/edge-viewer/pipeline"
	"github.com/TheCacophonyProject/edge-viewer/snapshot"
	"github.com/TheCacophonyProject/edge-viewer/throttle"
)

func newTestService(t *testing.T) *service {
	proc, err := frameproc.NewProcessor(frameproc.DefaultFilterParameters())
	require.NoError(t, err)
	return &service{
		pipeline: pipeline.New(pipeline.Config{Throttle: throttle.Config{}}, proc),
		snapshot: snapshot.New(t.TempDir(), device.Identity{}),
	}
}

func TestServiceSetFilterParameters(t *testing.T) {
	s := newTestService(t)

	assert.Nil(t, s.SetFilterParameters(10, 4, 5))
	assert.Equal(t, frameproc.FilterParameters{
		LowThreshold:   10,
		HighToLowRatio: 4,
		ApertureSize:   5,
	}, s.pipeline.Processor().Parameters())

	dbusErr := s.SetFilterParameters(10, 0, 5)
	require.NotNil(t, dbusErr)
	assert.Equal(t, dbusName+".SetFilterParameters", dbusErr.Name)
	assert.Equal(t, 4, s.pipeline.Processor().Parameters().HighToLowRatio)
}

func TestServiceTakeSnapshotWithoutFrame(t *testing.T) {
	s := newTestService(t)

	dbusErr := s.TakeSnapshot()
	require.NotNil(t, dbusErr)
	assert.Equal(t, dbusName+".TakeSnapshot", dbusErr.Name)
	assert.Equal(t, []interface{}{snapshot.ErrNoFrame.Error()}, dbusErr.Body)
}

func TestServiceGetStats(t *testing.T) {
	s := newTestService(t)
	s.pipeline.DeliverFrame([]byte{1, 2, 3}, 2, 2, 0)

	raw, dbusErr := s.GetStats()
	require.Nil(t, dbusErr)

	var stats pipeline.Stats
	require.NoError(t, json.Unmarshal([]byte(raw), &stats))
	assert.EqualValues(t, 1, stats.Delivered)
	assert.EqualValues(t, 1, stats.Invalid)
	assert.Equal(t, frameproc.DefaultFilterParameters(), stats.Filter)
}
