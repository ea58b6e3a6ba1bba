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

// Package viewercontroller is a client for the edge-viewer D-Bus service.
package viewercontroller

import (
	"encoding/json"

	"github.com/godbus/dbus"

	"github.com/TheCacophonyProject/edge-viewer/pipeline"
)

const (
	dbusPath   = "/org/cacophony/edgeviewer"
	dbusDest   = "org.cacophony.edgeviewer"
	methodBase = "org.cacophony.edgeviewer"
)

func getDbusObj() (dbus.BusObject, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	obj := conn.Object(dbusDest, dbusPath)
	return obj, nil
}

// SetFilterParameters changes the edge detection thresholds and Sobel
// aperture of the running viewer.
func SetFilterParameters(lowThreshold, highToLowRatio, apertureSize int) error {
	obj, err := getDbusObj()
	if err != nil {
		return err
	}
	return obj.Call(methodBase+".SetFilterParameters", 0,
		int32(lowThreshold), int32(highToLowRatio), int32(apertureSize)).Store()
}

// TakeSnapshot asks the viewer to save its current frame as a still.
func TakeSnapshot() error {
	obj, err := getDbusObj()
	if err != nil {
		return err
	}
	return obj.Call(methodBase+".TakeSnapshot", 0).Store()
}

func GetStats() (*pipeline.Stats, error) {
	obj, err := getDbusObj()
	if err != nil {
		return nil, err
	}
	var raw string
	if err := obj.Call(methodBase+".GetStats", 0).Store(&raw); err != nil {
		return nil, err
	}
	stats := new(pipeline.Stats)
	if err := json.Unmarshal([]byte(raw), stats); err != nil {
		return nil, err
	}
	return stats, nil
}
