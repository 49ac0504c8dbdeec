// Package imaging provides the raster utilities shared by the analysis
// pipeline: decoding of uploaded bytes, color-space reprojection, resampling,
// region extraction, and packing of the segmenter input tensor.
package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ErrDecode marks upload bytes that cannot be interpreted as an image.
var ErrDecode = errors.New("imaging: cannot decode image data")

// SegmentInputSize is the square edge length the segmenter expects.
const SegmentInputSize = 256

// ImageNet channel statistics applied when packing the segmenter tensor.
var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Decode materializes uploaded bytes as an RGBA raster. Transparency is
// flattened onto a white background so downstream analysis always sees three
// meaningful channels.
func Decode(data []byte) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst, nil
}

// Resize resamples img to width×height with a Catmull-Rom kernel. The
// Lanczos-class filter choice is deliberate: mask boundaries composited onto
// the resampled raster must stay visually aligned.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Region copies the given rectangle (clamped to the raster bounds) into a
// fresh raster.
func Region(img *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// Channels extracts per-pixel float views of the red, green, and blue
// channels in row-major order.
func Channels(img *image.RGBA) (r, g, b []float64) {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	r = make([]float64, n)
	g = make([]float64, n)
	b = make([]float64, n)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		off := img.PixOffset(bounds.Min.X, y)
		for x := 0; x < bounds.Dx(); x++ {
			r[i] = float64(img.Pix[off])
			g[i] = float64(img.Pix[off+1])
			b[i] = float64(img.Pix[off+2])
			off += 4
			i++
		}
	}
	return r, g, b
}

// HSV reprojects the raster into hue/saturation/value views using the OpenCV
// convention: H in 0–179, S and V in 0–255.
func HSV(img *image.RGBA) (h, s, v []float64) {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	h = make([]float64, n)
	s = make([]float64, n)
	v = make([]float64, n)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		off := img.PixOffset(bounds.Min.X, y)
		for x := 0; x < bounds.Dx(); x++ {
			h[i], s[i], v[i] = RGBToHSV(
				float64(img.Pix[off]),
				float64(img.Pix[off+1]),
				float64(img.Pix[off+2]),
			)
			off += 4
			i++
		}
	}
	return h, s, v
}

// RGBToHSV converts 8-bit RGB samples to HSV in the OpenCV convention
// (H 0–179, S 0–255, V 0–255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC > 0 {
		s = (diff / maxC) * 255.0
	}

	switch {
	case diff == 0:
		h = 0
	case maxC == r:
		h = 60 * math.Mod((g-b)/diff, 6)
	case maxC == g:
		h = 60 * ((b-r)/diff + 2)
	default:
		h = 60 * ((r-g)/diff + 4)
	}
	if h < 0 {
		h += 360
	}
	return h / 2, s, v
}

// EncodePNG serializes a raster as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SegmentTensor packs the raster into the segmenter's input contract: Lanczos
// resize to 256×256, scale to [0,1], ImageNet mean/std normalization, CHW
// layout.
func SegmentTensor(img image.Image) []float32 {
	resized := Resize(img, SegmentInputSize, SegmentInputSize)
	n := SegmentInputSize * SegmentInputSize
	tensor := make([]float32, 3*n)

	i := 0
	for y := 0; y < SegmentInputSize; y++ {
		off := resized.PixOffset(0, y)
		for x := 0; x < SegmentInputSize; x++ {
			for c := 0; c < 3; c++ {
				sample := float32(resized.Pix[off+c]) / 255.0
				tensor[c*n+i] = (sample - imagenetMean[c]) / imagenetStd[c]
			}
			off += 4
			i++
		}
	}
	return tensor
}

// TensorBytes serializes a float32 tensor as little-endian bytes for the
// wire.
func TensorBytes(tensor []float32) []byte {
	out := make([]byte, 4*len(tensor))
	for i, v := range tensor {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}
