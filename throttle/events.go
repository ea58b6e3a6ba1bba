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

import (
	"log"
	"time"

	"github.com/TheCacophonyProject/event-reporter/eventclient"
)

// ThrottledEventRecorder uses the event api to record that frames were
// dropped at a particular time.
type ThrottledEventRecorder struct{}

func (er ThrottledEventRecorder) WhenThrottled() {
	event := eventclient.Event{
		Timestamp: time.Now(),
		Type:      "edgeViewerThrottle",
		Details: map[string]interface{}{
			"description": map[string]interface{}{
				"type": "throttle",
			},
		},
	}
	if err := eventclient.AddEvent(event); err != nil {
		log.Printf("could not record throttle event: %v", err)
	}
}
