// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging prepares trainer portraits before upload: it rejects
// formats the decoders should not see, applies the EXIF orientation and
// shrinks oversized photos.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// ErrUnsupportedFormat is returned for anything other than JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is a normalised image ready for storage.
type Result struct {
	Data        []byte
	ContentType string
	// Ext is the extension matching ContentType, with the dot.
	Ext    string
	Width  int
	Height int
}

// Processor normalises uploads. The zero value keeps the original size.
type Processor struct {
	MaxWidth int
	Quality  int
}

// NewProcessor returns a Processor that caps width at maxWidth pixels.
func NewProcessor(maxWidth int) *Processor {
	return &Processor{MaxWidth: maxWidth, Quality: 88}
}

// Normalize decodes r, auto-rotates and resizes it, and re-encodes it
// without metadata. WebP input is re-encoded as JPEG.
func (p *Processor) Normalize(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if p.MaxWidth > 0 && img.Bounds().Dx() > p.MaxWidth {
		img = imaging.Resize(img, p.MaxWidth, 0, imaging.Lanczos)
	}

	quality := p.Quality
	if quality <= 0 || quality > 100 {
		quality = 88
	}
	out, outFormat, err := encodeImage(img, format, quality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:        out,
		ContentType: "image/" + outFormat,
		Ext:         extension(outFormat),
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// applyOrientation maps EXIF orientations 2..8 to flips and rotations.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

func encodeImage(img image.Image, format string, quality int) ([]byte, string, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		// No pure Go WebP encoder; jpeg covers webp too.
		format = "jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), format, nil
}

// detectFormat sniffs data. TIFF is refused outright (CVE-2023-36308).
func detectFormat(data []byte) string {
	ct := http.DetectContentType(data)
	switch {
	case strings.Contains(ct, "tiff"):
		return ""
	case strings.Contains(ct, "jpeg"):
		return "jpeg"
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "gif"):
		return "gif"
	case strings.Contains(ct, "webp"):
		return "webp"
	}
	return ""
}

func extension(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}
