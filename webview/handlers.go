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

package webview

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/TheCacophonyProject/edge-viewer/frameproc"
)

// maxUploadPixels bounds images accepted by /api/process so decoding can't
// exhaust memory.
const maxUploadPixels = 4096 * 4096

//go:embed index.html
var indexPage []byte

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexPage)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.pipeline.Stats())
}

func (s *Server) handleFrame(c *fiber.Ctx) error {
	frame := s.pipeline.RecentFrame()
	if frame == nil {
		return fiber.NewError(fiber.StatusNotFound, "no frame yet")
	}
	return sendPNG(c, previewImage(frame, s.conf.PreviewWidth))
}

// handleParams updates the filter. Fields missing from the body keep their
// current value.
func (s *Server) handleParams(c *fiber.Ctx) error {
	params := s.pipeline.Processor().Parameters()
	if err := c.BodyParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	err := s.pipeline.SetFilterParameters(params.LowThreshold, params.HighToLowRatio, params.ApertureSize)
	if errors.Is(err, frameproc.ErrInvalidParameters) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	} else if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleProcess runs the edge filter over an uploaded image.
func (s *Server) handleProcess(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing image upload")
	}
	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported image: "+err.Error())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 ||
		cfg.Width > frameproc.MaxDimension || cfg.Height > frameproc.MaxDimension ||
		cfg.Width*cfg.Height > maxUploadPixels {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("image too large: %dx%d", cfg.Width, cfg.Height))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported image: "+err.Error())
	}
	edges, err := s.pipeline.Processor().ProcessImage(img)
	if errors.Is(err, frameproc.ErrInvalidFrameGeometry) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	} else if err != nil {
		return err
	}
	return sendPNG(c, edges.RGBA())
}

func sendPNG(c *fiber.Ctx, img image.Image) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(data)
}
