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
	"io"
	"log"
	"net"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"

	"github.com/TheCacophonyProject/edge-viewer/headers"
)

const (
	frameLogIntervalFirstMin = 15
	frameLogInterval         = 60 * 5

	reconnectDelay = 5 * time.Second
)

var version = "<not set>"

// Overridden in tests.
var sdNotify = daemon.SdNotify

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	File       string `arg:"-f,--file" help:"NV21 frames to play back instead of the test pattern"`
	Count      int    `arg:"-n,--count" help:"stop after sending this many frames"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/nv21-feeder.yaml"
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

	log.Printf("version: %s", version)
	conf, err := ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	logConfig(conf)

	info := conf.Header()
	var src frameSource
	if args.File != "" {
		fs, err := openFileSource(args.File, info.FrameSize())
		if err != nil {
			return err
		}
		defer fs.Close()
		src = fs
	} else {
		src = newPatternSource(conf.Width, conf.Height)
	}

	return feed(args.Count, func(limit int) (int, error) {
		return runFeeder(conf, info, src, limit)
	}, reconnectDelay)
}

// feed calls send until count frames have gone out in total, reconnecting
// after socket errors. Each call is asked only for the frames still owed. A
// count of zero streams forever.
func feed(count int, send func(limit int) (int, error), retryDelay time.Duration) error {
	sent := 0
	for {
		limit := 0
		if count > 0 {
			limit = count - sent
		}
		n, err := send(limit)
		sent += n
		if err == nil || (count > 0 && sent >= count) {
			return nil
		}
		var opErr *net.OpError
		if !errors.As(err, &opErr) {
			return err
		}
		log.Printf("frame output error after %d frames: %v", sent, err)
		time.Sleep(retryDelay)
	}
}

func runFeeder(conf *Config, info *headers.HeaderInfo, src frameSource, count int) (int, error) {
	log.Print("dialing frame output socket")
	conn, err := net.Dial("unix", conf.FrameOutput)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	ticker := time.NewTicker(time.Second / time.Duration(conf.FPS))
	defer ticker.Stop()
	return writeStream(conn, info, src, count, func() { <-ticker.C })
}

// writeStream sends the header and then frames from src, calling wait before
// each frame. A count of zero streams forever. It returns how many frames
// were written in full.
func writeStream(w io.Writer, info *headers.HeaderInfo, src frameSource, count int, wait func()) (int, error) {
	if err := headers.WriteHeaderInfo(w, info); err != nil {
		return 0, err
	}

	log.Print("sending frames")
	fps := info.FPS()
	framesPerSdNotify := 5 * fps
	frame := make([]byte, info.FrameSize())
	notifyCount := 0
	sent := 0
	for count == 0 || sent < count {
		wait()
		if err := src.NextFrame(frame); err != nil {
			return sent, err
		}
		if _, err := w.Write(frame); err != nil {
			return sent, err
		}
		sent++

		if notifyCount++; notifyCount >= framesPerSdNotify {
			sdNotify(false, "WATCHDOG=1")
			notifyCount = 0
		}
		if sent%(frameLogIntervalFirstMin*fps) == 0 &&
			sent <= 60*fps || sent%(frameLogInterval*fps) == 0 {
			log.Printf("%d frames sent", sent)
		}
	}
	return sent, nil
}

func logConfig(conf *Config) {
	log.Printf("frame output: %s", conf.FrameOutput)
	log.Printf("resolution: %dx%d @ %d fps", conf.Width, conf.Height, conf.FPS)
	log.Printf("rotation: %d", conf.Rotation)
	log.Printf("camera: %s %s", conf.Brand, conf.Model)
}
