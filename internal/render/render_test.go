package render

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/imaging"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/mask"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func centerDotMask(t *testing.T, size int) *mask.Mask {
	t.Helper()
	labels := make([]uint8, size*size)
	labels[(size/2)*size+size/2] = 1
	m, err := mask.New(labels, size, size)
	require.NoError(t, err)
	return m
}

func emptyMask(t *testing.T, size int) *mask.Mask {
	t.Helper()
	m, err := mask.New(make([]uint8, size*size), size, size)
	require.NoError(t, err)
	return m
}

func TestDistanceTransformSmallGrid(t *testing.T) {
	on := make([]bool, 9)
	on[4] = true // center of a 3x3 grid

	d := distanceTransform(on, 3, 3)
	require.Equal(t, 0.0, d[4])
	require.InDelta(t, 1.0, d[1], 1e-9)
	require.InDelta(t, 1.0, d[3], 1e-9)
	require.InDelta(t, 1.0, d[5], 1e-9)
	require.InDelta(t, 1.0, d[7], 1e-9)
	require.InDelta(t, math.Sqrt2, d[0], 1e-9)
	require.InDelta(t, math.Sqrt2, d[8], 1e-9)
}

func TestDistanceTransformTwoSeeds(t *testing.T) {
	// Seeds at both ends of a 1x5 row.
	on := []bool{true, false, false, false, true}
	d := distanceTransform(on, 5, 1)
	require.Equal(t, []float64{0, 1, 2, 1, 0}, d)
}

func TestFieldFromMaskHotAtLesion(t *testing.T) {
	m := centerDotMask(t, 33)
	f, err := FieldFromMask(m)
	require.NoError(t, err)

	center := f.Values[16*33+16]
	require.InDelta(t, 1.0, center, 1e-6)

	corner := f.Values[0]
	require.Less(t, corner, 0.01)

	// Intensity falls off monotonically along the row from the lesion.
	for x := 17; x < 33; x++ {
		require.LessOrEqual(t, f.Values[16*33+x], f.Values[16*33+x-1])
	}
}

func TestFieldFromMaskEmptyIsAllZero(t *testing.T) {
	f, err := FieldFromMask(emptyMask(t, 64))
	require.NoError(t, err)
	for _, v := range f.Values {
		require.Equal(t, 0.0, v)
	}
}

func TestOverlayPreservesOriginalDimensions(t *testing.T) {
	original := solidImage(511, 333, color.RGBA{R: 120, G: 60, B: 50, A: 255})
	out, err := Overlay(original, centerDotMask(t, mask.CanonicalSize))
	require.NoError(t, err)
	require.Equal(t, 511, out.Bounds().Dx())
	require.Equal(t, 333, out.Bounds().Dy())
}

func TestOverlayEmptyMaskLeavesImageUntinted(t *testing.T) {
	original := solidImage(100, 100, color.RGBA{R: 120, G: 60, B: 50, A: 255})
	out, err := Overlay(original, emptyMask(t, 64))
	require.NoError(t, err)

	// With nothing to tint, the result is the resample round trip of the
	// original.
	expected := imaging.Resize(imaging.Resize(original, 64, 64), 100, 100)
	require.Equal(t, expected.Pix, out.Pix)
}

func TestOverlayRejectsEmptyMaskValue(t *testing.T) {
	original := solidImage(10, 10, color.RGBA{A: 255})
	_, err := Overlay(original, nil)
	require.ErrorIs(t, err, ErrEmptyMask)
}

func TestHeatmapPreservesOriginalDimensions(t *testing.T) {
	original := solidImage(409, 307, color.RGBA{R: 120, G: 60, B: 50, A: 255})
	out, err := HeatmapFromMask(original, centerDotMask(t, mask.CanonicalSize), DefaultBlendStrength)
	require.NoError(t, err)
	require.Equal(t, 409, out.Bounds().Dx())
	require.Equal(t, 307, out.Bounds().Dy())
}

func TestHeatmapZeroMaskBlendsColdRamp(t *testing.T) {
	// A zero field contributes only the cold end of the ramp; on a uniform
	// original every output pixel is the same blend of gray and dark blue.
	original := solidImage(64, 64, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	out, err := HeatmapFromMask(original, emptyMask(t, 64), 0.4)
	require.NoError(t, err)

	base := 0.6 * float64(100)
	wantR := uint8(base + 0.5)
	wantB := uint8(base + 0.4*128 + 0.5)
	for i := 0; i < len(out.Pix); i += 4 {
		require.Equal(t, wantR, out.Pix[i])
		require.Equal(t, wantR, out.Pix[i+1])
		require.Equal(t, wantB, out.Pix[i+2])
	}
}

func TestHeatmapValidatesBlendStrength(t *testing.T) {
	original := solidImage(32, 32, color.RGBA{A: 255})
	for _, strength := range []float64{0, 1, -0.5, 2} {
		_, err := HeatmapFromMask(original, centerDotMask(t, 32), strength)
		require.ErrorIs(t, err, ErrBlendStrength)
	}
}

func TestRenderersAreDeterministic(t *testing.T) {
	original := solidImage(320, 320, color.RGBA{R: 150, G: 70, B: 40, A: 255})
	m := centerDotMask(t, mask.CanonicalSize)

	o1, err := Overlay(original, m)
	require.NoError(t, err)
	o2, err := Overlay(original, m)
	require.NoError(t, err)
	require.True(t, bytes.Equal(o1.Pix, o2.Pix))

	h1, err := HeatmapFromMask(original, m, DefaultBlendStrength)
	require.NoError(t, err)
	h2, err := HeatmapFromMask(original, m, DefaultBlendStrength)
	require.NoError(t, err)
	require.True(t, bytes.Equal(h1.Pix, h2.Pix))
}

func TestJetRampEndpoints(t *testing.T) {
	r, g, b := jet(0)
	require.Equal(t, uint8(0), r)
	require.Equal(t, uint8(0), g)
	require.Equal(t, uint8(128), b)

	r, g, b = jet(1)
	require.Equal(t, uint8(128), r)
	require.Equal(t, uint8(0), g)
	require.Equal(t, uint8(0), b)

	_, g, _ = jet(0.5)
	require.Equal(t, uint8(255), g)
}
