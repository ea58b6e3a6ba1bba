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

// Package mobilegl adapts a golang.org/x/mobile GL context to the presenter.
package mobilegl

import (
	"encoding/binary"

	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"

	"github.com/TheCacophonyProject/edge-viewer/presenter"
)

// New returns a presenter.GL issuing calls on ctx.
func New(ctx gl.Context) presenter.GL {
	return &mobileGL{ctx: ctx}
}

type mobileGL struct {
	ctx gl.Context
}

func (m *mobileGL) CreateShader(ty presenter.Enum) uint32 {
	return m.ctx.CreateShader(gl.Enum(ty)).Value
}

func (m *mobileGL) ShaderSource(shader uint32, src string) {
	m.ctx.ShaderSource(gl.Shader{Value: shader}, src)
}

func (m *mobileGL) CompileShader(shader uint32) {
	m.ctx.CompileShader(gl.Shader{Value: shader})
}

func (m *mobileGL) GetShaderi(shader uint32, pname presenter.Enum) int {
	return m.ctx.GetShaderi(gl.Shader{Value: shader}, gl.Enum(pname))
}

func (m *mobileGL) GetShaderInfoLog(shader uint32) string {
	return m.ctx.GetShaderInfoLog(gl.Shader{Value: shader})
}

func (m *mobileGL) DeleteShader(shader uint32) {
	m.ctx.DeleteShader(gl.Shader{Value: shader})
}

func (m *mobileGL) CreateProgram() uint32 {
	return m.ctx.CreateProgram().Value
}

func (m *mobileGL) AttachShader(program, shader uint32) {
	m.ctx.AttachShader(prog(program), gl.Shader{Value: shader})
}

func (m *mobileGL) LinkProgram(program uint32) {
	m.ctx.LinkProgram(prog(program))
}

func (m *mobileGL) GetProgrami(program uint32, pname presenter.Enum) int {
	return m.ctx.GetProgrami(prog(program), gl.Enum(pname))
}

func (m *mobileGL) GetProgramInfoLog(program uint32) string {
	return m.ctx.GetProgramInfoLog(prog(program))
}

func (m *mobileGL) DeleteProgram(program uint32) {
	m.ctx.DeleteProgram(prog(program))
}

func (m *mobileGL) UseProgram(program uint32) {
	m.ctx.UseProgram(prog(program))
}

// Attrib locations come back as unsigned values; -1 (not found) wraps
// around and is recovered by the int32 conversion.
func (m *mobileGL) GetAttribLocation(program uint32, name string) int32 {
	return int32(m.ctx.GetAttribLocation(prog(program), name).Value)
}

func (m *mobileGL) GetUniformLocation(program uint32, name string) int32 {
	return m.ctx.GetUniformLocation(prog(program), name).Value
}

func (m *mobileGL) CreateBuffer() uint32 {
	return m.ctx.CreateBuffer().Value
}

func (m *mobileGL) BindBuffer(target presenter.Enum, buffer uint32) {
	m.ctx.BindBuffer(gl.Enum(target), gl.Buffer{Value: buffer})
}

func (m *mobileGL) BufferData(target presenter.Enum, data []float32, usage presenter.Enum) {
	m.ctx.BufferData(gl.Enum(target), f32.Bytes(binary.LittleEndian, data...), gl.Enum(usage))
}

func (m *mobileGL) DeleteBuffer(buffer uint32) {
	m.ctx.DeleteBuffer(gl.Buffer{Value: buffer})
}

func (m *mobileGL) CreateTexture() uint32 {
	return m.ctx.CreateTexture().Value
}

func (m *mobileGL) ActiveTexture(unit presenter.Enum) {
	m.ctx.ActiveTexture(gl.Enum(unit))
}

func (m *mobileGL) BindTexture(target presenter.Enum, texture uint32) {
	m.ctx.BindTexture(gl.Enum(target), gl.Texture{Value: texture})
}

func (m *mobileGL) TexParameteri(target, pname presenter.Enum, param int) {
	m.ctx.TexParameteri(gl.Enum(target), gl.Enum(pname), param)
}

func (m *mobileGL) TexImage2D(target presenter.Enum, level int, internalFormat presenter.Enum, width, height int, format, ty presenter.Enum, pix []byte) {
	m.ctx.TexImage2D(gl.Enum(target), level, int(internalFormat), width, height, gl.Enum(format), gl.Enum(ty), pix)
}

func (m *mobileGL) TexSubImage2D(target presenter.Enum, level int, x, y, width, height int, format, ty presenter.Enum, pix []byte) {
	m.ctx.TexSubImage2D(gl.Enum(target), level, x, y, width, height, gl.Enum(format), gl.Enum(ty), pix)
}

func (m *mobileGL) DeleteTexture(texture uint32) {
	m.ctx.DeleteTexture(gl.Texture{Value: texture})
}

func (m *mobileGL) Uniform1i(location int32, v int) {
	m.ctx.Uniform1i(gl.Uniform{Value: location}, v)
}

func (m *mobileGL) VertexAttribPointer(location int32, size int, ty presenter.Enum, normalized bool, stride, offset int) {
	m.ctx.VertexAttribPointer(attrib(location), size, gl.Enum(ty), normalized, stride, offset)
}

func (m *mobileGL) EnableVertexAttribArray(location int32) {
	m.ctx.EnableVertexAttribArray(attrib(location))
}

func (m *mobileGL) DisableVertexAttribArray(location int32) {
	m.ctx.DisableVertexAttribArray(attrib(location))
}

func (m *mobileGL) ClearColor(r, g, b, a float32) {
	m.ctx.ClearColor(r, g, b, a)
}

func (m *mobileGL) Clear(mask presenter.Enum) {
	m.ctx.Clear(gl.Enum(mask))
}

func (m *mobileGL) Disable(capability presenter.Enum) {
	m.ctx.Disable(gl.Enum(capability))
}

func (m *mobileGL) Viewport(x, y, width, height int) {
	m.ctx.Viewport(x, y, width, height)
}

func (m *mobileGL) DrawArrays(mode presenter.Enum, first, count int) {
	m.ctx.DrawArrays(gl.Enum(mode), first, count)
}

func (m *mobileGL) GetError() presenter.Enum {
	return presenter.Enum(m.ctx.GetError())
}

func prog(name uint32) gl.Program {
	return gl.Program{Init: true, Value: name}
}

func attrib(location int32) gl.Attrib {
	return gl.Attrib{Value: uint(location)}
}
