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
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	goconfig "github.com/TheCacophonyProject/go-config"
	arg "github.com/alexflint/go-arg"

	"github.com/TheCacophonyProject/edge-viewer/device"
	"github.com/TheCacophonyProject/edge-viewer/framestream"
	"github.com/TheCacophonyProject/edge-viewer/frameproc"
	"github.com/TheCacophonyProject/edge-viewer/pipeline"
	"github.com/TheCacophonyProject/edge-viewer/snapshot"
	"github.com/TheCacophonyProject/edge-viewer/throttle"
	"github.com/TheCacophonyProject/edge-viewer/webview"
)

var version = "<not set>"

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	ConfigDir  string `arg:"--config-dir" help:"path to the shared device configuration directory"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	Headless   bool   `arg:"--headless" help:"process frames without opening a window"`
	TestFile   string `arg:"-f,--test-file" help:"run a NV21 frame or PNG/JPEG image through the edge filter and exit"`
	Width      int    `arg:"--width" help:"width of the --test-file frame when it is raw NV21"`
	Height     int    `arg:"--height" help:"height of the --test-file frame when it is raw NV21"`
	Output     string `arg:"-o,--output" help:"where --test-file writes its edge map"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/edge-viewer.yaml"
	args.ConfigDir = goconfig.DefaultConfigDir
	args.Output = "edges.png"
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

	if args.TestFile != "" {
		edges, err := processTestFile(conf.Filter, args.TestFile, args.Width, args.Height, args.Output)
		if err != nil {
			return err
		}
		log.Printf("%d edge pixels written to %s", edges, args.Output)
		return nil
	}

	dev := readDevice(args.ConfigDir)

	proc, err := frameproc.NewProcessor(conf.Filter)
	if err != nil {
		return err
	}
	p := pipeline.New(pipeline.Config{
		Throttle:         conf.Throttle,
		ThrottleListener: new(throttle.ThrottledEventRecorder),
		OnInitError:      initErrorReporter(dev),
	}, proc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Start(ctx); err != nil {
		return err
	}
	defer p.Stop()

	if err := os.MkdirAll(conf.SnapshotDir, 0755); err != nil {
		return err
	}
	snap := snapshot.New(conf.SnapshotDir, dev)
	snap.Delete()

	log.Println("starting d-bus service")
	if err := startService(p, snap); err != nil {
		return err
	}

	if conf.Web.Enabled {
		web := webview.New(conf.Web, p)
		go func() {
			if err := web.Run(ctx); err != nil {
				log.Printf("web preview stopped: %v", err)
			}
		}()
	}

	go acceptFrames(ctx, conf.FrameInput, p)

	if args.Headless {
		<-ctx.Done()
		return nil
	}
	runDisplay(ctx, p)
	return nil
}

// acceptFrames serves one camera connection at a time until ctx is done.
func acceptFrames(ctx context.Context, path string, sink framestream.Sink) {
	for ctx.Err() == nil {
		listener, err := framestream.Listen(path)
		if err != nil {
			log.Printf("failed to listen on %s: %v", path, err)
			return
		}
		stopListener := context.AfterFunc(ctx, func() { listener.Close() })
		log.Print("waiting for camera connection")

		conn, err := listener.Accept()
		stopListener()
		// Prevent concurrent connections.
		listener.Close()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("socket accept failed: %v", err)
			}
			continue
		}

		log.Print("new camera connection, reading frames")
		stopConn := context.AfterFunc(ctx, func() { conn.Close() })
		err = framestream.Serve(conn, sink)
		stopConn()
		conn.Close()
		log.Printf("camera connection ended with: %v", err)
	}
}

// readDevice returns the registered identity, or a zero one when the device
// has not been registered yet.
func readDevice(configDir string) device.Identity {
	dev, err := device.Read(configDir)
	if err != nil {
		log.Printf("could not read device identity from %s: %v", configDir, err)
		return device.Identity{}
	}
	log.Printf("device: %s (%d)", dev.Name, dev.ID)
	return dev
}

func logConfig(conf *Config) {
	log.Printf("frame input: %s", conf.FrameInput)
	log.Printf("snapshot dir: %s", conf.SnapshotDir)
	log.Printf("filter: %+v", conf.Filter)
	log.Printf("throttle: %+v", conf.Throttle)
	if conf.Web.Enabled {
		log.Printf("web preview: %+v", conf.Web)
	}
}
