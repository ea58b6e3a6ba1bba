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

package frameproc

import "fmt"

// FilterParameters configure the Canny stage.
type FilterParameters struct {
	LowThreshold   int `yaml:"low-threshold" json:"low_threshold"`
	HighToLowRatio int `yaml:"high-to-low-ratio" json:"high_to_low_ratio"`
	ApertureSize   int `yaml:"aperture-size" json:"aperture_size"`
}

func DefaultFilterParameters() FilterParameters {
	return FilterParameters{
		LowThreshold:   50,
		HighToLowRatio: 3,
		ApertureSize:   3,
	}
}

func (p FilterParameters) Validate() error {
	if p.LowThreshold < 0 {
		return fmt.Errorf("%w: low-threshold must not be negative", ErrInvalidParameters)
	}
	if p.HighToLowRatio < 1 {
		return fmt.Errorf("%w: high-to-low-ratio must be at least 1", ErrInvalidParameters)
	}
	switch p.ApertureSize {
	case 3, 5, 7:
	default:
		return fmt.Errorf("%w: aperture-size must be 3, 5 or 7", ErrInvalidParameters)
	}
	return nil
}

// HighThreshold is the gradient magnitude above which a pixel starts an edge.
func (p FilterParameters) HighThreshold() int {
	return p.LowThreshold * p.HighToLowRatio
}
