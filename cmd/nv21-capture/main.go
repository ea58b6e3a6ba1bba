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
	"log"
	"path/filepath"
	"time"

	goconfig "github.com/TheCacophonyProject/go-config"
	arg "github.com/alexflint/go-arg"

	"github.com/TheCacophonyProject/edge-viewer/device"
	"github.com/TheCacophonyProject/edge-viewer/framestream"
)

var version = "<not set>"

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	ConfigDir  string `arg:"--config-dir" help:"path to the shared device configuration directory"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/nv21-capture.yaml"
	args.ConfigDir = goconfig.DefaultConfigDir
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("running version: %s", version)
	conf, err := ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	logConfig(conf)

	dev, err := device.Read(args.ConfigDir)
	if err != nil {
		log.Printf("could not read device identity from %s: %v", args.ConfigDir, err)
	}

	for {
		listener, err := framestream.Listen(conf.FrameInput)
		if err != nil {
			return err
		}
		log.Print("waiting for camera connection")

		conn, err := listener.Accept()
		// Prevent concurrent connections.
		listener.Close()
		if err != nil {
			log.Printf("socket accept failed: %v", err)
			continue
		}

		sink := newCaptureSink(conf.OutputDir, dev.Name, time.Now)
		err = framestream.Serve(conn, sink)
		conn.Close()
		if cerr := sink.Close(); cerr != nil {
			log.Printf("closing capture failed: %v", cerr)
		}
		log.Printf("camera connection ended with: %v", err)
	}
}

// captureSink appends every frame of a stream to one raw NV21 file, which
// nv21-feeder can play back.
type captureSink struct {
	outDir string
	device string
	now    func() time.Time
	f      *bufferedFile
	frames int
}

func newCaptureSink(outDir, deviceName string, now func() time.Time) *captureSink {
	return &captureSink{outDir: outDir, device: deviceName, now: now}
}

func (s *captureSink) DeliverFrame(data []byte, width, height, rotation int) error {
	if s.f == nil {
		name := captureFileName(s.outDir, s.device, s.now(), width, height)
		f, err := newBufferedFile(name)
		if err != nil {
			return err
		}
		log.Printf("capturing to %s", name)
		s.f = f
	}
	if _, err := s.f.Write(data); err != nil {
		return err
	}
	s.frames++
	return nil
}

func (s *captureSink) Close() error {
	if s.f == nil {
		return nil
	}
	log.Printf("captured %d frames to %s", s.frames, s.f.Name())
	err := s.f.Close()
	s.f = nil
	return err
}

// captureFileName names a capture after its start time and, when the device
// is registered, the device name.
func captureFileName(outDir, deviceName string, t time.Time, width, height int) string {
	stamp := t.Format("2006-01-02T15:04:05")
	if deviceName != "" {
		stamp += "." + deviceName
	}
	name := fmt.Sprintf("%s.%dx%d.nv21", stamp, width, height)
	return filepath.Join(outDir, name)
}

func logConfig(conf *Config) {
	log.Printf("frame input: %s", conf.FrameInput)
	log.Printf("output dir: %s", conf.OutputDir)
}
