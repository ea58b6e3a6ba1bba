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

package webview

import "errors"

type Config struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`

	// PreviewWidth scales preview frames down to at most this many pixels
	// wide. Zero sends frames at full size.
	PreviewWidth int `yaml:"preview-width"`

	// PreviewFPS limits how often websocket clients are sent a frame.
	PreviewFPS float64 `yaml:"preview-fps"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		Listen:       ":8080",
		PreviewWidth: 640,
		PreviewFPS:   5,
	}
}

func (c Config) Validate() error {
	if c.PreviewWidth < 0 {
		return errors.New("preview-width must not be negative")
	}
	if c.PreviewFPS <= 0 {
		return errors.New("preview-fps must be positive")
	}
	if c.Enabled && c.Listen == "" {
		return errors.New("listen address required when web preview is enabled")
	}
	return nil
}
