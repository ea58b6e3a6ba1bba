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

package throttle

import "fmt"

// Config controls how many frames per second are let into the pipeline.
type Config struct {
	MaxFPS float64 `yaml:"max-fps"`
	Burst  int64   `yaml:"burst"`
}

func DefaultConfig() Config {
	return Config{
		MaxFPS: 30,
		Burst:  2,
	}
}

func (c Config) Validate() error {
	if c.MaxFPS < 0 {
		return fmt.Errorf("max-fps must not be negative, got %v", c.MaxFPS)
	}
	if c.MaxFPS > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", c.Burst)
	}
	return nil
}
