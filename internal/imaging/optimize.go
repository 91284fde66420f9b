// Package imaging prepares uploaded artwork for a thermal printer: fit to
// the print head width, flatten onto white and threshold to 1-bit black/white.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	// registered decoders for uploads
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// Defaults for a 58mm printer at 203 dpi.
const (
	DefaultWidth     = 384
	DefaultMaxHeight = 1024
	DefaultThreshold = 128
	// DefaultMaxInputPixels bounds the decoded size of an upload
	// (about 96 MiB as RGBA).
	DefaultMaxInputPixels = 24_000_000
)

var (
	// ErrEmptyImage is returned for images with a zero dimension.
	ErrEmptyImage = errors.New("image has no pixels")
	// ErrTooManyPixels is returned before decoding when the header declares
	// more than MaxInputPixels pixels.
	ErrTooManyPixels = errors.New("image exceeds pixel limit")
)

// Options controls Optimize. Zero fields take the package defaults.
type Options struct {
	Width     int
	MaxHeight int
	Threshold uint8
	// MaxInputPixels caps width*height of the source as declared in its
	// header.
	MaxInputPixels int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MaxInputPixels <= 0 {
		o.MaxInputPixels = DefaultMaxInputPixels
	}
	return o
}

// Optimize decodes r and returns a black/white image that fits inside
// Width x MaxHeight. Pixels darker than Threshold become black. The header
// is checked against MaxInputPixels before any pixel buffer is allocated.
func Optimize(r io.Reader, opts Options) (*image.Gray, error) {
	opts = opts.withDefaults()
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		rs = bytes.NewReader(b)
	}
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(rs)
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if err := checkPixels(cfg.Width, cfg.Height, opts.MaxInputPixels); err != nil {
		return nil, err
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	src, _, err := image.Decode(rs)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Threshold(Fit(src, opts), opts)
}

func checkPixels(w, h, limit int) error {
	if w <= 0 || h <= 0 {
		return ErrEmptyImage
	}
	// w > limit/h avoids overflowing w*h on 32-bit ints
	if w > limit/h {
		return fmt.Errorf("%w: %dx%d > %d", ErrTooManyPixels, w, h, limit)
	}
	return nil
}

// Fit scales src to fit inside the configured box, preserving aspect ratio
// and never upscaling. Transparent areas are composited onto white.
func Fit(src image.Image, opts Options) *image.RGBA {
	opts = opts.withDefaults()
	b := src.Bounds()
	w, h := fitInside(b.Dx(), b.Dy(), opts.Width, opts.MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == 0 || h == 0 {
		return dst
	}
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Threshold converts img to grayscale and snaps every pixel to black or white.
func Threshold(img image.Image, opts Options) (*image.Gray, error) {
	opts = opts.withDefaults()
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y < opts.Threshold {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return out, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fitInside returns the largest size with the aspect ratio of w x h that
// fits inside maxW x maxH, without growing beyond w x h.
func fitInside(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	// compare w/maxW against h/maxH without floats
	if w*maxH >= h*maxW {
		nh := h * maxW / w
		if nh < 1 {
			nh = 1
		}
		return maxW, nh
	}
	nw := w * maxH / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxH
}
