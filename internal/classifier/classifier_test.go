package classifier

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// syntheticFrame builds a raster with the signature the classifier expects:
// warm red-dominant tones, high saturation, a bright center falling off to
// dark borders, and per-pixel noise for natural variance.
func syntheticFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rng := rand.New(rand.NewSource(42))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := absf(float64(x)-float64(w)/2) / (float64(w) / 2)
			dy := absf(float64(y)-float64(h)/2) / (float64(h) / 2)
			d := dx
			if dy > d {
				d = dy
			}
			factor := 1.0 - 0.7*d

			r := factor * float64(150+rng.Intn(100))
			g := factor * float64(50+rng.Intn(60))
			b := factor * float64(30+rng.Intn(40))
			img.SetRGBA(x, y, color.RGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: 255})
		}
	}
	return img
}

func uniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func TestClassifyRejectsSmallImagesRegardlessOfContent(t *testing.T) {
	small := syntheticFrame(299, 400)
	verdict := Classify(small)
	require.False(t, verdict.Accepted)
	require.Equal(t, "image too small (minimum 300x300 required)", verdict.Reason)

	tiny := uniformImage(100, 100, color.RGBA{R: 255, A: 255})
	verdict = Classify(tiny)
	require.False(t, verdict.Accepted)
	require.Equal(t, "image too small (minimum 300x300 required)", verdict.Reason)
}

func TestClassifyRejectsUniformGray(t *testing.T) {
	img := uniformImage(400, 400, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	verdict := Classify(img)
	require.False(t, verdict.Accepted)
	require.NotEqual(t, AcceptedReason, verdict.Reason)
}

func TestClassifyRejectsBlueDominantImage(t *testing.T) {
	img := uniformImage(400, 400, color.RGBA{R: 40, G: 60, B: 200, A: 255})
	verdict := Classify(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, "color mismatch (red channel not dominant over blue)", verdict.Reason)
}

func TestClassifyRejectsMissingVignette(t *testing.T) {
	// Warm, saturated, noisy, but uniformly lit: borders as bright as the
	// center.
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	rng := rand.New(rand.NewSource(7))
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: clamp8(float64(150 + rng.Intn(100))),
				G: clamp8(float64(50 + rng.Intn(60))),
				B: clamp8(float64(30 + rng.Intn(40))),
				A: 255,
			})
		}
	}
	verdict := Classify(img)
	require.False(t, verdict.Accepted)
	require.Equal(t, "missing vignette (edges not significantly darker than center)", verdict.Reason)
}

func TestClassifyAcceptsSyntheticColonoscopyFrame(t *testing.T) {
	img := syntheticFrame(400, 400)
	verdict := Classify(img)
	require.True(t, verdict.Accepted, "reason: %s", verdict.Reason)
	require.Equal(t, AcceptedReason, verdict.Reason)
}

func TestClassifyIsDeterministic(t *testing.T) {
	img := syntheticFrame(400, 400)
	first := Classify(img)
	second := Classify(img)
	require.Equal(t, first, second)
}
