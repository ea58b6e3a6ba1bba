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
	"log"
	"time"

	"github.com/TheCacophonyProject/event-reporter/eventclient"

	"github.com/TheCacophonyProject/edge-viewer/device"
)

// Overridden in tests.
var addEvent = eventclient.AddEvent

// initErrorReporter returns a callback recording that the display could not
// be set up on dev.
func initErrorReporter(dev device.Identity) func(error) {
	return func(err error) {
		event := eventclient.Event{
			Timestamp: time.Now(),
			Type:      "edgeViewerInitFailed",
			Details: map[string]interface{}{
				"error": err.Error(),
			},
		}
		dev.AddDetails(event.Details)
		if err := addEvent(event); err != nil {
			log.Printf("could not record init failure event: %v", err)
		}
	}
}
