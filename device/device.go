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


// Package device reads the identity this device was registered with.
package device

import (
	goconfig "github.com/TheCacophonyProject/go-config"
)

// Identity is the registered device ID and name. Both are zero when the
// device has not been registered.
type Identity struct {
	ID   int
	Name string
}

// Read loads the device section of the shared configuration in configDir.
func Read(configDir string) (Identity, error) {
	configRW, err := goconfig.New(configDir)
	if err != nil {
		return Identity{}, err
	}

	var deviceConfig goconfig.Device
	if err := configRW.Unmarshal(goconfig.DeviceKey, &deviceConfig); err != nil {
		return Identity{}, err
	}
	return Identity{
		ID:   deviceConfig.ID,
		Name: deviceConfig.Name,
	}, nil
}

// AddDetails records the identity in event details.
func (d Identity) AddDetails(details map[string]interface{}) {
	details["deviceID"] = d.ID
	details["deviceName"] = d.Name
}
