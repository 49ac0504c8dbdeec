// Package render turns segmentation masks into human-viewable artifacts: a
// hard-edged translucent overlay and a smoothly graded attention heatmap.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/imaging"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/mask"
)

// ErrEmptyMask marks a mask with no pixels where pixel content is required.
var ErrEmptyMask = errors.New("render: empty mask")

// LesionColor is the translucent tint painted over positive mask pixels.
var LesionColor = color.NRGBA{R: 255, G: 0, B: 0, A: 180}

// Overlay composites the mask onto the original raster as a hard-edged
// translucent region. The original is resampled down to the mask's native
// resolution before compositing so mask boundaries align with image content,
// then the result is resampled back to the original dimensions.
func Overlay(original image.Image, m *mask.Mask) (*image.RGBA, error) {
	if m == nil || len(m.Labels) == 0 {
		return nil, ErrEmptyMask
	}

	resized := imaging.Resize(original, m.Width, m.Height)

	tint := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) == 1 {
				tint.SetNRGBA(x, y, LesionColor)
			}
		}
	}

	draw.Draw(resized, resized.Bounds(), tint, image.Point{}, draw.Over)

	bounds := original.Bounds()
	return imaging.Resize(resized, bounds.Dx(), bounds.Dy()), nil
}
