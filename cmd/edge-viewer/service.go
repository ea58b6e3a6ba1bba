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
	"errors"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"

	"github.com/TheCacophonyProject/edge-viewer/pipeline"
	"github.com/TheCacophonyProject/edge-viewer/snapshot"
)

const (
	dbusName = "org.cacophony.edgeviewer"
	dbusPath = "/org/cacophony/edgeviewer"
)

type service struct {
	pipeline *pipeline.Pipeline
	snapshot *snapshot.Snapshotter
}

func startService(p *pipeline.Pipeline, snap *snapshot.Snapshotter) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already taken")
	}

	s := &service{
		pipeline: p,
		snapshot: snap,
	}
	conn.Export(s, dbusPath, dbusName)
	conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")
	return nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

// SetFilterParameters replaces the edge detection parameters. Invalid values
// are rejected and the current ones kept.
func (s *service) SetFilterParameters(lowThreshold, highToLowRatio, apertureSize int32) *dbus.Error {
	err := s.pipeline.SetFilterParameters(int(lowThreshold), int(highToLowRatio), int(apertureSize))
	if err != nil {
		return makeDbusError("SetFilterParameters", err)
	}
	return nil
}

// TakeSnapshot will save the current frame as a still
func (s *service) TakeSnapshot() *dbus.Error {
	if _, err := s.snapshot.Take(s.pipeline.RecentFrame()); err != nil {
		return makeDbusError("TakeSnapshot", err)
	}
	return nil
}

// GetStats returns the pipeline counters as JSON.
func (s *service) GetStats() (string, *dbus.Error) {
	buf, err := json.Marshal(s.pipeline.Stats())
	if err != nil {
		return "", makeDbusError("GetStats", err)
	}
	return string(buf), nil
}

func makeDbusError(name string, err error) *dbus.Error {
	return &dbus.Error{
		Name: dbusName + "." + name,
		Body: []interface{}{err.Error()},
	}
}
