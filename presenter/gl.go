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

// Enum is an OpenGL ES enumerated value.
type Enum uint32

// OpenGL ES 2.0 values used by the presenter.
const (
	NoError     Enum = 0
	OutOfMemory Enum = 0x0505

	TriangleStrip Enum = 0x0005

	DepthTest      Enum = 0x0B71
	ColorBufferBit Enum = 0x4000

	Texture2D        Enum = 0x0DE1
	Texture0         Enum = 0x84C0
	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	Linear           Enum = 0x2601
	ClampToEdge      Enum = 0x812F

	RGBA         Enum = 0x1908
	UnsignedByte Enum = 0x1401
	Float        Enum = 0x1406

	ArrayBuffer Enum = 0x8892
	StaticDraw  Enum = 0x88E4

	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
	CompileStatus  Enum = 0x8B81
	LinkStatus     Enum = 0x8B82
)

// GL is the subset of OpenGL ES 2.0 the presenter uses. Object names are
// plain uint32 values where 0 means no object; attribute and uniform
// locations are -1 when not found.
//
// All calls must be made on the thread that owns the GL context.
type GL interface {
	CreateShader(ty Enum) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	GetShaderi(shader uint32, pname Enum) int
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgrami(program uint32, pname Enum) int
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	GetAttribLocation(program uint32, name string) int32
	GetUniformLocation(program uint32, name string) int32

	CreateBuffer() uint32
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, data []float32, usage Enum)
	DeleteBuffer(buffer uint32)

	CreateTexture() uint32
	ActiveTexture(unit Enum)
	BindTexture(target Enum, texture uint32)
	TexParameteri(target, pname Enum, param int)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, pix []byte)
	TexSubImage2D(target Enum, level int, x, y, width, height int, format, ty Enum, pix []byte)
	DeleteTexture(texture uint32)

	Uniform1i(location int32, v int)
	VertexAttribPointer(location int32, size int, ty Enum, normalized bool, stride, offset int)
	EnableVertexAttribArray(location int32)
	DisableVertexAttribArray(location int32)

	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Disable(capability Enum)
	Viewport(x, y, width, height int)
	DrawArrays(mode Enum, first, count int)
	GetError() Enum
}
