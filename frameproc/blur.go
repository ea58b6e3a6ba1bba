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

import "math"

const (
	blurSize  = 5
	blurSigma = 1.5

	// Each pass scales by 1<<blurBits so both passes together fit in an int32.
	blurBits = 8
)

var blurKernel = gaussianKernel(blurSize, blurSigma, blurBits)

// gaussianKernel returns a normalized 1D Gaussian kernel in fixed point. The
// taps always sum to exactly 1<<bits; rounding error is absorbed by the
// centre tap.
func gaussianKernel(size int, sigma float64, bits uint) []int32 {
	half := size / 2
	weights := make([]float64, size)
	sum := 0.0
	for i := range weights {
		x := float64(i - half)
		weights[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += weights[i]
	}

	one := int32(1) << bits
	kernel := make([]int32, size)
	total := int32(0)
	for i := range kernel {
		if i == half {
			continue
		}
		kernel[i] = int32(math.Round(weights[i] / sum * float64(one)))
		total += kernel[i]
	}
	kernel[half] = one - total
	return kernel
}

// reflect101 maps an out of range index back into [0, n) mirroring around
// the edge pixels without repeating them (dcb|abcd|cba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// gaussianBlur smooths src into dst with the fixed 5x5 kernel. tmp must hold
// width*height values.
func gaussianBlur(src, dst []uint8, tmp []uint16, width, height int) {
	k := blurKernel
	half := len(k) / 2

	// Horizontal pass.
	for y := 0; y < height; y++ {
		row := src[y*width : (y+1)*width]
		out := tmp[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			var sum int32
			if x >= half && x < width-half {
				for i, w := range k {
					sum += w * int32(row[x+i-half])
				}
			} else {
				for i, w := range k {
					sum += w * int32(row[reflect101(x+i-half, width)])
				}
			}
			out[x] = uint16(sum)
		}
	}

	// Vertical pass, rounding back to 8 bits.
	const shift = 2 * blurBits
	const round = int32(1) << (shift - 1)
	rows := make([]int, len(k))
	for y := 0; y < height; y++ {
		for i := range k {
			rows[i] = reflect101(y+i-half, height) * width
		}
		out := dst[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			var sum int32
			for i, w := range k {
				sum += w * int32(tmp[rows[i]+x])
			}
			out[x] = uint8((sum + round) >> shift)
		}
	}
}
