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

// Separable Sobel kernels indexed by aperture size.
var (
	sobelSmooth = map[int][]int32{
		3: {1, 2, 1},
		5: {1, 4, 6, 4, 1},
		7: {1, 6, 15, 20, 15, 6, 1},
	}
	sobelDeriv = map[int][]int32{
		3: {-1, 0, 1},
		5: {-1, -2, 0, 2, 1},
		7: {-1, -4, -5, 0, 5, 4, 1},
	}
)

// tan(22.5°) in Q15.
const tan22 = 13573

// Edge map states during hysteresis.
const (
	edgeNone uint8 = iota
	edgeWeak
	edgeStrong
)

// cannyScratch holds the intermediate planes for one frame size.
type cannyScratch struct {
	tmp   []int32
	dx    []int32
	dy    []int32
	mag   []int32
	state []uint8
	stack []int
}

func (s *cannyScratch) resize(n int) {
	if cap(s.dx) < n {
		s.tmp = make([]int32, n)
		s.dx = make([]int32, n)
		s.dy = make([]int32, n)
		s.mag = make([]int32, n)
		s.state = make([]uint8, n)
	}
	s.tmp = s.tmp[:n]
	s.dx = s.dx[:n]
	s.dy = s.dy[:n]
	s.mag = s.mag[:n]
	s.state = s.state[:n]
	s.stack = s.stack[:0]
}

// canny writes a 0/255 edge mask of the gray image src into dst.
func canny(src, dst []uint8, width, height int, params FilterParameters, s *cannyScratch) {
	n := width * height
	s.resize(n)

	smooth := sobelSmooth[params.ApertureSize]
	deriv := sobelDeriv[params.ApertureSize]

	// dx: derivative along rows, smoothing down columns.
	convolveRows(src, s.tmp, width, height, deriv)
	convolveCols(s.tmp, s.dx, width, height, smooth)
	// dy: smoothing along rows, derivative down columns.
	convolveRows(src, s.tmp, width, height, smooth)
	convolveCols(s.tmp, s.dy, width, height, deriv)

	for i := 0; i < n; i++ {
		s.mag[i] = abs32(s.dx[i]) + abs32(s.dy[i])
	}

	low := int32(params.LowThreshold)
	high := int32(params.HighThreshold())
	suppressNonMaxima(s, width, height, low, high)
	hysteresis(s, width, height)

	for i := 0; i < n; i++ {
		if s.state[i] == edgeStrong {
			dst[i] = 0xff
		} else {
			dst[i] = 0
		}
	}
}

// convolveRows applies k along each row, replicating edge pixels.
func convolveRows(src []uint8, dst []int32, width, height int, k []int32) {
	half := len(k) / 2
	for y := 0; y < height; y++ {
		row := src[y*width : (y+1)*width]
		out := dst[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			var sum int32
			for i, w := range k {
				sum += w * int32(row[clamp(x+i-half, width)])
			}
			out[x] = sum
		}
	}
}

// convolveCols applies k down each column, replicating edge rows.
func convolveCols(src []int32, dst []int32, width, height int, k []int32) {
	half := len(k) / 2
	rows := make([]int, len(k))
	for y := 0; y < height; y++ {
		for i := range k {
			rows[i] = clamp(y+i-half, height) * width
		}
		out := dst[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			var sum int32
			for i, w := range k {
				sum += w * src[rows[i]+x]
			}
			out[x] = sum
		}
	}
}

// suppressNonMaxima keeps pixels whose magnitude is a local maximum across
// the gradient direction and classifies them against the two thresholds.
// Strong pixels are pushed on the hysteresis stack.
func suppressNonMaxima(s *cannyScratch, width, height int, low, high int32) {
	magAt := func(x, y int) int32 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return s.mag[y*width+x]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			s.state[i] = edgeNone

			m := s.mag[i]
			if m <= low {
				continue
			}

			dx, dy := s.dx[i], s.dy[i]
			ax := int64(abs32(dx))
			ay := int64(abs32(dy)) << 15
			tg22x := ax * tan22

			var isMax bool
			if ay < tg22x {
				isMax = m > magAt(x-1, y) && m >= magAt(x+1, y)
			} else if tg67x := tg22x + ax<<16; ay > tg67x {
				isMax = m > magAt(x, y-1) && m >= magAt(x, y+1)
			} else {
				step := 1
				if (dx < 0) != (dy < 0) {
					step = -1
				}
				isMax = m > magAt(x-step, y-1) && m > magAt(x+step, y+1)
			}
			if !isMax {
				continue
			}

			if m > high {
				s.state[i] = edgeStrong
				s.stack = append(s.stack, i)
			} else {
				s.state[i] = edgeWeak
			}
		}
	}
}

// hysteresis promotes weak pixels 8-connected to a strong pixel.
func hysteresis(s *cannyScratch, width, height int) {
	for len(s.stack) > 0 {
		i := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		x, y := i%width, i/width
		for ny := y - 1; ny <= y+1; ny++ {
			if ny < 0 || ny >= height {
				continue
			}
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || nx >= width {
					continue
				}
				j := ny*width + nx
				if s.state[j] == edgeWeak {
					s.state[j] = edgeStrong
					s.stack = append(s.stack, j)
				}
			}
		}
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
