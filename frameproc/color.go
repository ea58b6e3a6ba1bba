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

// BT.601 video range YUV to RGB in 20 bit fixed point. These are the
// coefficients camera stacks use for NV21 (and what OpenCV's
// COLOR_YUV2RGBA_NV21 produces).
const (
	yuvShift = 20
	yuvHalf  = 1 << (yuvShift - 1)

	yuvCY  = 1220542
	yuvCVR = 1673527
	yuvCVG = -852492
	yuvCUG = -409993
	yuvCUB = 2116026
)

// BT.601 luma weights in 14 bit fixed point.
const (
	grayShift = 14
	grayHalf  = 1 << (grayShift - 1)

	grayR = 4899
	grayG = 9617
	grayB = 1868
)

// nv21ToRGBA decodes an NV21 frame into dst, which must hold width*height*4
// bytes.
func nv21ToRGBA(src []byte, width, height int, dst []uint8) {
	vuPlane := src[width*height:]
	for y := 0; y < height; y++ {
		yRow := src[y*width : (y+1)*width]
		vuRow := vuPlane[(y/2)*width : (y/2+1)*width]
		out := dst[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			v := int(vuRow[x&^1]) - 128
			u := int(vuRow[x|1]) - 128

			c := int(yRow[x]) - 16
			if c < 0 {
				c = 0
			}
			c *= yuvCY

			i := x * 4
			out[i] = descale(c + yuvCVR*v + yuvHalf)
			out[i+1] = descale(c + yuvCVG*v + yuvCUG*u + yuvHalf)
			out[i+2] = descale(c + yuvCUB*u + yuvHalf)
			out[i+3] = 0xff
		}
	}
}

func descale(v int) uint8 {
	v >>= yuvShift
	if v < 0 {
		return 0
	}
	if v > 0xff {
		return 0xff
	}
	return uint8(v)
}

// rgbaToGray reduces packed RGBA pixels to one luma byte each.
func rgbaToGray(src []uint8, dst []uint8) {
	for i := range dst {
		p := src[i*4 : i*4+3]
		dst[i] = uint8((grayR*int(p[0]) + grayG*int(p[1]) + grayB*int(p[2]) + grayHalf) >> grayShift)
	}
}

// expandMask writes a single channel mask as opaque gray RGBA pixels.
func expandMask(mask []uint8, dst []uint8) {
	for i, m := range mask {
		p := dst[i*4 : i*4+4]
		p[0] = m
		p[1] = m
		p[2] = m
		p[3] = 0xff
	}
}
