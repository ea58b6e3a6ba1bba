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
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/edge-viewer/headers"
)

type Config struct {
	FrameOutput string `yaml:"frame-output"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	FPS         int    `yaml:"fps"`
	Rotation    int    `yaml:"rotation"`
	Brand       string `yaml:"brand"`
	Model       string `yaml:"model"`
}

var defaultConfig = Config{
	FrameOutput: "/var/run/nv21-frames",
	Width:       640,
	Height:      480,
	FPS:         15,
	Rotation:    0,
	Brand:       "cacophony",
	Model:       "nv21-feeder",
}

// Header describes the stream this config produces.
func (conf *Config) Header() *headers.HeaderInfo {
	return headers.New(conf.Width, conf.Height, conf.FPS, conf.Rotation, conf.Brand, conf.Model)
}

func (conf *Config) Validate() error {
	if conf.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", conf.FPS)
	}
	return conf.Header().Validate()
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
