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

// Package gltest provides an in-memory GL implementation for exercising the
// presenter without a GPU.
package gltest

import (
	"fmt"
	"strings"

	"github.com/TheCacophonyProject/edge-viewer/presenter"
)

// Object kinds tracked by FakeGL.
const (
	KindShader  = "shader"
	KindProgram = "program"
	KindBuffer  = "buffer"
	KindTexture = "texture"
)

// FakeGL records GL calls and tracks which objects are alive. Shaders
// "compile" when they contain a main function with balanced braces.
type FakeGL struct {
	// Calls holds the name of every call made, in order.
	Calls []string

	// FailLink makes every program link fail.
	FailLink bool
	// FailCreate makes creation of the given object kind return 0.
	FailCreate map[string]bool
	// OutOfMemory makes the next texture upload report GL_OUT_OF_MEMORY.
	OutOfMemory bool

	TexImages    int
	TexSubImages int
	Draws        int
	ViewportRect [4]int

	next     uint32
	live     map[uint32]string
	sources  map[uint32]string
	compiled map[uint32]bool
	attached map[uint32][]uint32
	linked   map[uint32]bool
	errCode  presenter.Enum
}

func New() *FakeGL {
	return &FakeGL{
		FailCreate: make(map[string]bool),
		live:       make(map[uint32]string),
		sources:    make(map[uint32]string),
		compiled:   make(map[uint32]bool),
		attached:   make(map[uint32][]uint32),
		linked:     make(map[uint32]bool),
	}
}

// Live returns how many objects of kind exist.
func (f *FakeGL) Live(kind string) int {
	n := 0
	for _, k := range f.live {
		if k == kind {
			n++
		}
	}
	return n
}

// LiveObjects returns how many objects of any kind exist.
func (f *FakeGL) LiveObjects() int {
	return len(f.live)
}

// IsLive reports whether name is an existing object.
func (f *FakeGL) IsLive(name uint32) bool {
	_, ok := f.live[name]
	return ok
}

func (f *FakeGL) record(name string) {
	f.Calls = append(f.Calls, name)
}

func (f *FakeGL) create(kind string) uint32 {
	if f.FailCreate[kind] {
		return 0
	}
	f.next++
	f.live[f.next] = kind
	return f.next
}

func (f *FakeGL) delete(name uint32, kind string) {
	if name == 0 {
		return
	}
	if f.live[name] != kind {
		panic(fmt.Sprintf("deleting %s %d which is not live", kind, name))
	}
	delete(f.live, name)
}

func (f *FakeGL) CreateShader(ty presenter.Enum) uint32 {
	f.record("CreateShader")
	return f.create(KindShader)
}

func (f *FakeGL) ShaderSource(shader uint32, src string) {
	f.record("ShaderSource")
	f.sources[shader] = src
}

func (f *FakeGL) CompileShader(shader uint32) {
	f.record("CompileShader")
	src := f.sources[shader]
	f.compiled[shader] = strings.Contains(src, "void main()") &&
		strings.Count(src, "{") == strings.Count(src, "}")
}

func (f *FakeGL) GetShaderi(shader uint32, pname presenter.Enum) int {
	f.record("GetShaderi")
	if pname == presenter.CompileStatus && f.compiled[shader] {
		return 1
	}
	return 0
}

func (f *FakeGL) GetShaderInfoLog(shader uint32) string {
	f.record("GetShaderInfoLog")
	if f.compiled[shader] {
		return ""
	}
	return "0:1: syntax error"
}

func (f *FakeGL) DeleteShader(shader uint32) {
	f.record("DeleteShader")
	f.delete(shader, KindShader)
}

func (f *FakeGL) CreateProgram() uint32 {
	f.record("CreateProgram")
	return f.create(KindProgram)
}

func (f *FakeGL) AttachShader(program, shader uint32) {
	f.record("AttachShader")
	f.attached[program] = append(f.attached[program], shader)
}

func (f *FakeGL) LinkProgram(program uint32) {
	f.record("LinkProgram")
	ok := !f.FailLink && len(f.attached[program]) == 2
	for _, s := range f.attached[program] {
		ok = ok && f.compiled[s]
	}
	f.linked[program] = ok
}

func (f *FakeGL) GetProgrami(program uint32, pname presenter.Enum) int {
	f.record("GetProgrami")
	if pname == presenter.LinkStatus && f.linked[program] {
		return 1
	}
	return 0
}

func (f *FakeGL) GetProgramInfoLog(program uint32) string {
	f.record("GetProgramInfoLog")
	if f.linked[program] {
		return ""
	}
	return "error: link failed"
}

func (f *FakeGL) DeleteProgram(program uint32) {
	f.record("DeleteProgram")
	f.delete(program, KindProgram)
}

func (f *FakeGL) UseProgram(program uint32) {
	f.record("UseProgram")
}

// location returns the index of the first shader attached to program whose
// source mentions name.
func (f *FakeGL) location(program uint32, name string) int32 {
	for i, s := range f.attached[program] {
		if strings.Contains(f.sources[s], name) {
			return int32(i)
		}
	}
	return -1
}

func (f *FakeGL) GetAttribLocation(program uint32, name string) int32 {
	f.record("GetAttribLocation")
	if !f.linked[program] {
		return -1
	}
	if name == "aTexCoord" && f.location(program, name) >= 0 {
		return 1
	}
	return f.location(program, name)
}

func (f *FakeGL) GetUniformLocation(program uint32, name string) int32 {
	f.record("GetUniformLocation")
	if !f.linked[program] {
		return -1
	}
	return f.location(program, name)
}

func (f *FakeGL) CreateBuffer() uint32 {
	f.record("CreateBuffer")
	return f.create(KindBuffer)
}

func (f *FakeGL) BindBuffer(target presenter.Enum, buffer uint32) {
	f.record("BindBuffer")
}

func (f *FakeGL) BufferData(target presenter.Enum, data []float32, usage presenter.Enum) {
	f.record("BufferData")
}

func (f *FakeGL) DeleteBuffer(buffer uint32) {
	f.record("DeleteBuffer")
	f.delete(buffer, KindBuffer)
}

func (f *FakeGL) CreateTexture() uint32 {
	f.record("CreateTexture")
	return f.create(KindTexture)
}

func (f *FakeGL) ActiveTexture(unit presenter.Enum) {
	f.record("ActiveTexture")
}

func (f *FakeGL) BindTexture(target presenter.Enum, texture uint32) {
	f.record("BindTexture")
}

func (f *FakeGL) TexParameteri(target, pname presenter.Enum, param int) {
	f.record("TexParameteri")
}

func (f *FakeGL) TexImage2D(target presenter.Enum, level int, internalFormat presenter.Enum, width, height int, format, ty presenter.Enum, pix []byte) {
	f.record("TexImage2D")
	f.upload()
	f.TexImages++
}

func (f *FakeGL) TexSubImage2D(target presenter.Enum, level int, x, y, width, height int, format, ty presenter.Enum, pix []byte) {
	f.record("TexSubImage2D")
	f.upload()
	f.TexSubImages++
}

func (f *FakeGL) upload() {
	if f.OutOfMemory {
		f.OutOfMemory = false
		f.errCode = presenter.OutOfMemory
	}
}

func (f *FakeGL) DeleteTexture(texture uint32) {
	f.record("DeleteTexture")
	f.delete(texture, KindTexture)
}

func (f *FakeGL) Uniform1i(location int32, v int) {
	f.record("Uniform1i")
}

func (f *FakeGL) VertexAttribPointer(location int32, size int, ty presenter.Enum, normalized bool, stride, offset int) {
	f.record("VertexAttribPointer")
}

func (f *FakeGL) EnableVertexAttribArray(location int32) {
	f.record("EnableVertexAttribArray")
}

func (f *FakeGL) DisableVertexAttribArray(location int32) {
	f.record("DisableVertexAttribArray")
}

func (f *FakeGL) ClearColor(r, g, b, a float32) {
	f.record("ClearColor")
}

func (f *FakeGL) Clear(mask presenter.Enum) {
	f.record("Clear")
}

func (f *FakeGL) Disable(capability presenter.Enum) {
	f.record("Disable")
}

func (f *FakeGL) Viewport(x, y, width, height int) {
	f.record("Viewport")
	f.ViewportRect = [4]int{x, y, width, height}
}

func (f *FakeGL) DrawArrays(mode presenter.Enum, first, count int) {
	f.record("DrawArrays")
	f.Draws++
}

func (f *FakeGL) GetError() presenter.Enum {
	f.record("GetError")
	code := f.errCode
	f.errCode = presenter.NoError
	return code
}
