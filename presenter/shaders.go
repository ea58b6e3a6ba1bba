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

// ShaderSource is a vertex and fragment shader pair. The vertex shader must
// declare the aPosition and aTexCoord attributes, the fragment shader the
// uTexture sampler.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// DefaultShaders draws a texture unchanged over the full viewport.
var DefaultShaders = ShaderSource{
	Vertex: `attribute vec4 aPosition;
attribute vec2 aTexCoord;
varying vec2 vTexCoord;

void main() {
    gl_Position = aPosition;
    vTexCoord = aTexCoord;
}
`,
	Fragment: `precision mediump float;
uniform sampler2D uTexture;
varying vec2 vTexCoord;

void main() {
    gl_FragColor = texture2D(uTexture, vTexCoord);
}
`,
}

const (
	positionAttrib = "aPosition"
	texCoordAttrib = "aTexCoord"
	samplerUniform = "uTexture"
)

// Full screen quad as a 4 vertex triangle strip.
var quadPositions = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

// Texture rows run top to bottom, so the quad samples them vertically flipped.
var quadTexCoords = []float32{
	0, 1,
	1, 1,
	0, 0,
	1, 0,
}
