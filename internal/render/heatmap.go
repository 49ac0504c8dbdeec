package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/imaging"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/mask"
)

// DefaultBlendStrength is the heatmap opacity used when callers have no
// preference. The useful range is roughly 0.35–0.45.
const DefaultBlendStrength = 0.40

// ErrBlendStrength marks a blend strength outside the open interval (0, 1).
var ErrBlendStrength = errors.New("render: blend strength must be in (0,1)")

// Field is a continuous intensity raster with values in [0,1]. Callers that
// already have a smooth saliency field construct it directly; binary masks go
// through FieldFromMask. Keeping the two entry points distinct avoids
// guessing intent from value cardinality.
type Field struct {
	Width  int
	Height int
	Values []float64
}

// FieldFromMask synthesizes a continuous field from a binary mask: the
// distance transform of the inverted mask, normalized by its own maximum and
// inverted again, so positive regions read as hot (≈1) with intensity falling
// off smoothly outward. A mask with no positive pixels yields an all-zero
// field.
func FieldFromMask(m *mask.Mask) (*Field, error) {
	if m == nil || len(m.Labels) == 0 {
		return nil, ErrEmptyMask
	}

	f := &Field{
		Width:  m.Width,
		Height: m.Height,
		Values: make([]float64, len(m.Labels)),
	}

	on := make([]bool, len(m.Labels))
	positives := 0
	for i, l := range m.Labels {
		if l == 1 {
			on[i] = true
			positives++
		}
	}
	if positives == 0 {
		return f, nil
	}

	dist := distanceTransform(on, m.Width, m.Height)
	maxDist := 0.0
	for _, d := range dist {
		if d > maxDist {
			maxDist = d
		}
	}
	for i, d := range dist {
		f.Values[i] = 1.0 - d/(maxDist+1e-6)
	}
	return f, nil
}

// Heatmap colorizes the field through the jet ramp and alpha-blends it over
// the original raster. The field is clipped to [0,1] and contrast-stretched
// so its maximum hits exactly 1; the original is resampled to the field's
// resolution for blending and the result restored to the original dimensions.
func Heatmap(original image.Image, f *Field, blendStrength float64) (*image.RGBA, error) {
	if f == nil || len(f.Values) == 0 {
		return nil, ErrEmptyMask
	}
	if blendStrength <= 0 || blendStrength >= 1 {
		return nil, fmt.Errorf("%w: %v", ErrBlendStrength, blendStrength)
	}

	values := make([]float64, len(f.Values))
	maxV := 0.0
	for i, v := range f.Values {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		values[i] = v
		if v > maxV {
			maxV = v
		}
	}
	if maxV > 0 {
		for i := range values {
			values[i] /= maxV
		}
	}

	resized := imaging.Resize(original, f.Width, f.Height)
	blended := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	i := 0
	for y := 0; y < f.Height; y++ {
		off := resized.PixOffset(0, y)
		for x := 0; x < f.Width; x++ {
			hr, hg, hb := jet(values[i])
			blended.Pix[off] = blendChannel(resized.Pix[off], hr, blendStrength)
			blended.Pix[off+1] = blendChannel(resized.Pix[off+1], hg, blendStrength)
			blended.Pix[off+2] = blendChannel(resized.Pix[off+2], hb, blendStrength)
			blended.Pix[off+3] = 0xff
			off += 4
			i++
		}
	}

	bounds := original.Bounds()
	return imaging.Resize(blended, bounds.Dx(), bounds.Dy()), nil
}

// HeatmapFromMask is the binary-mask convenience path: distance-transform
// smoothing followed by colorization and blending.
func HeatmapFromMask(original image.Image, m *mask.Mask, blendStrength float64) (*image.RGBA, error) {
	f, err := FieldFromMask(m)
	if err != nil {
		return nil, err
	}
	return Heatmap(original, f, blendStrength)
}

func blendChannel(base, heat uint8, strength float64) uint8 {
	v := (1-strength)*float64(base) + strength*float64(heat)
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}
