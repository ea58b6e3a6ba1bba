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
	"errors"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
	"github.com/TheCacophonyProject/edge-viewer/throttle"
	"github.com/TheCacophonyProject/edge-viewer/webview"
)

type Config struct {
	FrameInput  string                     `yaml:"frame-input"`
	SnapshotDir string                     `yaml:"snapshot-dir"`
	Filter      frameproc.FilterParameters `yaml:"filter"`
	Throttle    throttle.Config            `yaml:"throttle"`
	Web         webview.Config             `yaml:"web"`
}

var defaultConfig = Config{
	FrameInput:  "/var/run/nv21-frames",
	SnapshotDir: "/var/spool/edge-viewer",
	Filter:      frameproc.DefaultFilterParameters(),
	Throttle:    throttle.DefaultConfig(),
	Web:         webview.DefaultConfig(),
}

func (conf *Config) Validate() error {
	if conf.FrameInput == "" {
		return errors.New("frame-input must be set")
	}
	if conf.SnapshotDir == "" {
		return errors.New("snapshot-dir must be set")
	}
	if err := conf.Filter.Validate(); err != nil {
		return err
	}
	if err := conf.Throttle.Validate(); err != nil {
		return err
	}
	return conf.Web.Validate()
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
