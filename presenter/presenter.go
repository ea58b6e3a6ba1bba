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
	"fmt"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

// State is a presenter lifecycle state.
type State int

const (
	Uninitialized State = iota
	Initialized
	Rendering
	ShutDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Rendering:
		return "rendering"
	case ShutDown:
		return "shut down"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TextureHandle is the GL name of the output texture. Zero is never valid.
type TextureHandle uint32

// ProgramHandle is a linked shader program and its resolved locations.
type ProgramHandle struct {
	Program  uint32
	Position int32
	TexCoord int32
	Sampler  int32
}

// Presenter owns the GPU objects needed to draw processed frames as a full
// screen textured quad. It is not safe for concurrent use; every method must
// be called on the GL thread.
type Presenter struct {
	gl      GL
	shaders ShaderSource
	state   State

	vertexShader   uint32
	fragmentShader uint32
	program        ProgramHandle
	positionBuf    uint32
	texCoordBuf    uint32

	texture   TextureHandle
	texWidth  int
	texHeight int
}

// New returns an uninitialized presenter drawing through gl.
func New(gl GL) *Presenter {
	return NewWithShaders(gl, DefaultShaders)
}

// NewWithShaders returns a presenter that builds its program from shaders.
func NewWithShaders(gl GL, shaders ShaderSource) *Presenter {
	return &Presenter{
		gl:      gl,
		shaders: shaders,
	}
}

func (p *Presenter) State() State {
	return p.state
}

// Program returns the linked program, or a zero handle when there is none.
func (p *Presenter) Program() ProgramHandle {
	return p.program
}

// Texture returns the live output texture, or zero when there is none.
func (p *Presenter) Texture() TextureHandle {
	return p.texture
}

// Initialize builds the shader program and uploads the quad geometry. When
// called again the previous program and buffers are released first. On
// failure everything created so far is released and the presenter stays
// unusable for drawing.
func (p *Presenter) Initialize() error {
	if p.state == ShutDown {
		return fmt.Errorf("%w: initialize after shutdown", ErrInvalidState)
	}
	p.releaseProgram()
	p.state = Uninitialized

	if err := p.buildProgram(); err != nil {
		p.releaseProgram()
		return err
	}
	if err := p.uploadQuad(); err != nil {
		p.releaseProgram()
		return err
	}

	p.gl.ClearColor(0, 0, 0, 1)
	p.gl.Disable(DepthTest)
	p.state = Initialized
	return nil
}

func (p *Presenter) buildProgram() error {
	var err error
	p.vertexShader, err = p.compile(VertexShader, "vertex", p.shaders.Vertex)
	if err != nil {
		return err
	}
	p.fragmentShader, err = p.compile(FragmentShader, "fragment", p.shaders.Fragment)
	if err != nil {
		return err
	}

	program := p.gl.CreateProgram()
	if program == 0 {
		return fmt.Errorf("%w: create program", ErrResourceExhaustion)
	}
	p.program.Program = program
	p.gl.AttachShader(program, p.vertexShader)
	p.gl.AttachShader(program, p.fragmentShader)
	p.gl.LinkProgram(program)
	if p.gl.GetProgrami(program, LinkStatus) == 0 {
		return &ProgramLinkError{Log: p.gl.GetProgramInfoLog(program)}
	}

	p.program.Position = p.gl.GetAttribLocation(program, positionAttrib)
	p.program.TexCoord = p.gl.GetAttribLocation(program, texCoordAttrib)
	p.program.Sampler = p.gl.GetUniformLocation(program, samplerUniform)
	switch {
	case p.program.Position < 0:
		return &ProgramLinkError{Log: "no active attribute " + positionAttrib}
	case p.program.TexCoord < 0:
		return &ProgramLinkError{Log: "no active attribute " + texCoordAttrib}
	case p.program.Sampler < 0:
		return &ProgramLinkError{Log: "no active uniform " + samplerUniform}
	}
	return nil
}

func (p *Presenter) compile(ty Enum, stage, src string) (uint32, error) {
	shader := p.gl.CreateShader(ty)
	if shader == 0 {
		return 0, fmt.Errorf("%w: create %s shader", ErrResourceExhaustion, stage)
	}
	p.gl.ShaderSource(shader, src)
	p.gl.CompileShader(shader)
	if p.gl.GetShaderi(shader, CompileStatus) == 0 {
		log := p.gl.GetShaderInfoLog(shader)
		p.gl.DeleteShader(shader)
		return 0, &ShaderCompileError{Stage: stage, Log: log}
	}
	return shader, nil
}

func (p *Presenter) uploadQuad() error {
	var err error
	if p.positionBuf, err = p.staticBuffer(quadPositions); err != nil {
		return err
	}
	if p.texCoordBuf, err = p.staticBuffer(quadTexCoords); err != nil {
		return err
	}
	return nil
}

func (p *Presenter) staticBuffer(data []float32) (uint32, error) {
	buf := p.gl.CreateBuffer()
	if buf == 0 {
		return 0, fmt.Errorf("%w: create vertex buffer", ErrResourceExhaustion)
	}
	p.gl.BindBuffer(ArrayBuffer, buf)
	p.gl.BufferData(ArrayBuffer, data, StaticDraw)
	return buf, nil
}

// CreateOutputTexture allocates the texture frames are uploaded into,
// releasing the one held before.
func (p *Presenter) CreateOutputTexture() (TextureHandle, error) {
	p.releaseTexture()

	name := p.gl.CreateTexture()
	if name == 0 {
		return 0, fmt.Errorf("%w: create texture", ErrResourceExhaustion)
	}
	p.gl.BindTexture(Texture2D, name)
	p.gl.TexParameteri(Texture2D, TextureMinFilter, int(Linear))
	p.gl.TexParameteri(Texture2D, TextureMagFilter, int(Linear))
	p.gl.TexParameteri(Texture2D, TextureWrapS, int(ClampToEdge))
	p.gl.TexParameteri(Texture2D, TextureWrapT, int(ClampToEdge))

	p.texture = TextureHandle(name)
	return p.texture, nil
}

// Present uploads buf into texture and draws it over the viewport.
func (p *Presenter) Present(buf *frameproc.PixelBuffer, texture TextureHandle) error {
	if err := p.checkDrawable(); err != nil {
		return err
	}
	if texture == 0 || texture != p.texture {
		return fmt.Errorf("%w: texture %d is not the output texture", ErrInvalidState, texture)
	}
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 || len(buf.Pix) != buf.Width*buf.Height*4 {
		return fmt.Errorf("%w: pixel buffer does not match its dimensions", frameproc.ErrInvalidFrameGeometry)
	}

	if err := p.upload(buf); err != nil {
		return err
	}
	p.draw()
	p.state = Rendering
	return nil
}

// Redraw draws the last uploaded frame again. With nothing uploaded yet it
// only clears the viewport.
func (p *Presenter) Redraw() error {
	if err := p.checkDrawable(); err != nil {
		return err
	}
	if p.texture == 0 || p.texWidth == 0 {
		p.gl.Clear(ColorBufferBit)
		return nil
	}
	p.draw()
	return nil
}

// SetViewport resizes the drawing area to the surface size. Like drawing, it
// is only valid once initialized and before shutdown.
func (p *Presenter) SetViewport(width, height int) error {
	if err := p.checkDrawable(); err != nil {
		return err
	}
	p.gl.Viewport(0, 0, width, height)
	return nil
}

func (p *Presenter) checkDrawable() error {
	if p.state != Initialized && p.state != Rendering {
		return fmt.Errorf("%w: can't draw while %s", ErrInvalidState, p.state)
	}
	return nil
}

func (p *Presenter) upload(buf *frameproc.PixelBuffer) error {
	p.gl.ActiveTexture(Texture0)
	p.gl.BindTexture(Texture2D, uint32(p.texture))
	if buf.Width != p.texWidth || buf.Height != p.texHeight {
		p.gl.TexImage2D(Texture2D, 0, RGBA, buf.Width, buf.Height, RGBA, UnsignedByte, buf.Pix)
	} else {
		p.gl.TexSubImage2D(Texture2D, 0, 0, 0, buf.Width, buf.Height, RGBA, UnsignedByte, buf.Pix)
	}

	switch code := p.gl.GetError(); code {
	case NoError:
	case OutOfMemory:
		p.texWidth, p.texHeight = 0, 0
		return fmt.Errorf("%w: uploading %dx%d texture", ErrResourceExhaustion, buf.Width, buf.Height)
	default:
		p.texWidth, p.texHeight = 0, 0
		return fmt.Errorf("texture upload failed with GL error 0x%04x", uint32(code))
	}
	p.texWidth, p.texHeight = buf.Width, buf.Height
	return nil
}

func (p *Presenter) draw() {
	gl := p.gl
	prog := p.program

	gl.Clear(ColorBufferBit)
	gl.UseProgram(prog.Program)

	gl.ActiveTexture(Texture0)
	gl.BindTexture(Texture2D, uint32(p.texture))
	gl.Uniform1i(prog.Sampler, 0)

	gl.BindBuffer(ArrayBuffer, p.positionBuf)
	gl.VertexAttribPointer(prog.Position, 2, Float, false, 0, 0)
	gl.EnableVertexAttribArray(prog.Position)

	gl.BindBuffer(ArrayBuffer, p.texCoordBuf)
	gl.VertexAttribPointer(prog.TexCoord, 2, Float, false, 0, 0)
	gl.EnableVertexAttribArray(prog.TexCoord)

	gl.DrawArrays(TriangleStrip, 0, len(quadPositions)/2)

	gl.DisableVertexAttribArray(prog.Position)
	gl.DisableVertexAttribArray(prog.TexCoord)
}

// Shutdown releases every GPU object the presenter holds. It is safe to call
// at any point, including more than once.
func (p *Presenter) Shutdown() {
	p.releaseProgram()
	p.releaseTexture()
	p.state = ShutDown
}

func (p *Presenter) releaseProgram() {
	if p.program.Program != 0 {
		p.gl.DeleteProgram(p.program.Program)
	}
	if p.vertexShader != 0 {
		p.gl.DeleteShader(p.vertexShader)
	}
	if p.fragmentShader != 0 {
		p.gl.DeleteShader(p.fragmentShader)
	}
	if p.positionBuf != 0 {
		p.gl.DeleteBuffer(p.positionBuf)
	}
	if p.texCoordBuf != 0 {
		p.gl.DeleteBuffer(p.texCoordBuf)
	}
	p.program = ProgramHandle{}
	p.vertexShader, p.fragmentShader = 0, 0
	p.positionBuf, p.texCoordBuf = 0, 0
}

func (p *Presenter) releaseTexture() {
	if p.texture != 0 {
		p.gl.DeleteTexture(uint32(p.texture))
	}
	p.texture = 0
	p.texWidth, p.texHeight = 0, 0
}
