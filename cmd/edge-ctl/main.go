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
	"fmt"
	"io"
	"log"
	"os"

	arg "github.com/alexflint/go-arg"

	"github.com/TheCacophonyProject/edge-viewer/pipeline"
	"github.com/TheCacophonyProject/edge-viewer/viewercontroller"
)

var version = "<not set>"

type SetCmd struct {
	LowThreshold   int `arg:"positional,required" help:"gradient magnitude below which pixels are never edges"`
	HighToLowRatio int `arg:"positional,required" help:"high threshold as a multiple of the low threshold"`
	ApertureSize   int `arg:"positional,required" help:"Sobel aperture: 3, 5 or 7"`
}

type SnapshotCmd struct{}

type StatsCmd struct {
	JSON bool `arg:"--json" help:"print the raw JSON"`
}

type Args struct {
	Set      *SetCmd      `arg:"subcommand:set" help:"change the edge filter"`
	Snapshot *SnapshotCmd `arg:"subcommand:snapshot" help:"save the current frame as a still"`
	Stats    *StatsCmd    `arg:"subcommand:stats" help:"show frame counters"`
}

func (Args) Version() string {
	return version
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	log.SetFlags(0)

	var args Args
	p := arg.MustParse(&args)

	switch {
	case args.Set != nil:
		return viewercontroller.SetFilterParameters(args.Set.LowThreshold, args.Set.HighToLowRatio, args.Set.ApertureSize)
	case args.Snapshot != nil:
		return viewercontroller.TakeSnapshot()
	case args.Stats != nil:
		stats, err := viewercontroller.GetStats()
		if err != nil {
			return err
		}
		return printStats(os.Stdout, stats, args.Stats.JSON)
	}
	p.Fail("a command is required")
	return nil
}

func printStats(w io.Writer, stats *pipeline.Stats, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	_, err := fmt.Fprintf(w, `resolution:    %dx%d (rotation %d)
presenter:     %s
fps:           %.1f
filter:        low %d, ratio %d, aperture %d
delivered:     %d
invalid:       %d
throttled:     %d
inbox drops:   %d
processed:     %d
handoff drops: %d
presented:     %d
`,
		stats.Width, stats.Height, stats.Rotation,
		stats.Presenter,
		stats.FPS,
		stats.Filter.LowThreshold, stats.Filter.HighToLowRatio, stats.Filter.ApertureSize,
		stats.Delivered, stats.Invalid, stats.Throttled, stats.InboxDrops,
		stats.Processed, stats.HandoffDrops, stats.Presented)
	return err
}
