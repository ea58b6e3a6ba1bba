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

package presenter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation is called outside the
	// lifecycle states it is valid in.
	ErrInvalidState = errors.New("presenter: invalid state")

	// ErrResourceExhaustion is returned when the GPU can't allocate an object
	// or texture storage.
	ErrResourceExhaustion = errors.New("presenter: GPU resources exhausted")
)

// ShaderCompileError holds the compiler log of a shader that failed to build.
type ShaderCompileError struct {
	Stage string
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("%s shader failed to compile: %s", e.Stage, e.Log)
}

// ProgramLinkError holds the linker log of a program that failed to link.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return "shader program failed to link: " + e.Log
}
