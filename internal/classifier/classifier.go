// Package classifier decides whether an uploaded raster looks like a
// colonoscopy frame before it is trusted for segmentation. Colonoscopy frames
// share a consistent signature: warm red/pink/brown tissue tones, strong
// vignetting from the fiber-optic illumination, natural texture variance, and
// no sharp graphical edges. Each check below encodes one necessary condition;
// none alone is sufficient.
package classifier

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/imaging"
)

// Verdict is the outcome of the acceptance gate. Exactly one reason is
// populated: the first failing check, or AcceptedReason on success.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}

// AcceptedReason is reported when every check passes.
const AcceptedReason = "validation passed"

// MinDimension is the smallest acceptable width or height in pixels.
const MinDimension = 300

// features holds the per-pixel channel views derived once per classification.
type features struct {
	width, height int
	r, g, b       []float64
	h, s, v       []float64
}

// check pairs a predicate with the reason surfaced when it fails. Checks are
// commutative in effect; the order only controls which reason is reported.
type check func(f *features) (failed bool, reason string)

var checks = []check{
	checkMinResolution,
	checkRedDominance,
	checkGreenSuppression,
	checkSaturation,
	checkWarmHueCoverage,
	checkBrightBackground,
	checkCoolHueDominance,
	checkVignette,
	checkCenterIllumination,
	checkColorVariance,
	checkEdgeSmoothness,
}

// Classify runs the ordered check battery over the raster. It never fails
// for a structurally valid raster; a negative verdict is a normal result.
func Classify(img *image.RGBA) Verdict {
	f := &features{
		width:  img.Bounds().Dx(),
		height: img.Bounds().Dy(),
	}
	f.r, f.g, f.b = imaging.Channels(img)
	f.h, f.s, f.v = imaging.HSV(img)

	for _, c := range checks {
		if failed, reason := c(f); failed {
			return Verdict{Accepted: false, Reason: reason}
		}
	}
	return Verdict{Accepted: true, Reason: AcceptedReason}
}

func checkMinResolution(f *features) (bool, string) {
	if f.width < MinDimension || f.height < MinDimension {
		return true, "image too small (minimum 300x300 required)"
	}
	return false, ""
}

func checkRedDominance(f *features) (bool, string) {
	if stat.Mean(f.r, nil) <= stat.Mean(f.b, nil)*1.15 {
		return true, "color mismatch (red channel not dominant over blue)"
	}
	return false, ""
}

func checkGreenSuppression(f *features) (bool, string) {
	if stat.Mean(f.g, nil) > stat.Mean(f.r, nil)*1.2 {
		return true, "color mismatch (green channel too dominant)"
	}
	return false, ""
}

func checkSaturation(f *features) (bool, string) {
	if stat.Mean(f.s, nil) < 30 {
		return true, "color mismatch (image appears grayscale)"
	}
	return false, ""
}

// checkWarmHueCoverage requires at least 20% of pixels in the red through
// orange/brown hue ranges (including the red wrap-around) with some
// saturation.
func checkWarmHueCoverage(f *features) (bool, string) {
	warm := 0
	for i, h := range f.h {
		if (h <= 30 || h >= 165) && f.s[i] > 20 {
			warm++
		}
	}
	if float64(warm)/float64(len(f.h)) < 0.20 {
		return true, "color mismatch (insufficient red/pink/brown color dominance)"
	}
	return false, ""
}

// checkBrightBackground rejects rasters dominated by very bright, desaturated
// pixels, typical of screenshots and plots on white backgrounds.
func checkBrightBackground(f *features) (bool, string) {
	bright := 0
	for i, v := range f.v {
		if v > 220 && f.s[i] < 30 {
			bright++
		}
	}
	if float64(bright)/float64(len(f.v)) > 0.60 {
		return true, "color mismatch (too much white/light background)"
	}
	return false, ""
}

func checkCoolHueDominance(f *features) (bool, string) {
	cool, yellow := 0, 0
	for i, h := range f.h {
		if h >= 50 && h <= 130 && f.s[i] > 50 {
			cool++
		}
		if h >= 20 && h <= 30 && f.s[i] > 50 && f.v[i] > 200 {
			yellow++
		}
	}
	n := float64(len(f.h))
	if float64(cool)/n > 0.30 || float64(yellow)/n > 0.25 {
		return true, "color mismatch (dominated by blue/green/yellow colors)"
	}
	return false, ""
}

// checkVignette compares the brightness of the outer 20% border rings with
// the central 40%×40% region. Endoscopic optics darken the periphery.
func checkVignette(f *features) (bool, string) {
	border := f.borderBrightness()
	center := stat.Mean(f.centerRegion(f.v), nil)
	if border/(center+1e-6) > 0.90 {
		return true, "missing vignette (edges not significantly darker than center)"
	}
	return false, ""
}

func checkCenterIllumination(f *features) (bool, string) {
	if stat.Mean(f.centerRegion(f.v), nil) < 50 {
		return true, "missing vignette (center region too dark)"
	}
	return false, ""
}

// checkColorVariance rejects rasters whose central region is too uniform to
// be organic tissue.
func checkColorVariance(f *features) (bool, string) {
	avg := (stat.PopStdDev(f.centerRegion(f.r), nil) +
		stat.PopStdDev(f.centerRegion(f.g), nil) +
		stat.PopStdDev(f.centerRegion(f.b), nil)) / 3.0
	if avg < 12 {
		return true, "color mismatch (image too uniform, lacks natural color variation)"
	}
	return false, ""
}

// checkEdgeSmoothness measures the mean absolute adjacent-pixel difference on
// a grayscale reduction of the central region. This check is fail-open: a
// degenerate region skips it instead of rejecting the image.
func checkEdgeSmoothness(f *features) (bool, string) {
	x0, x1, y0, y1 := f.centerBounds()
	cw, ch := x1-x0, y1-y0
	if cw < 2 || ch < 2 {
		return false, ""
	}

	gray := make([]float64, cw*ch)
	for y := y0; y < y1; y++ {
		row := y * f.width
		for x := x0; x < x1; x++ {
			i := row + x
			gray[(y-y0)*cw+(x-x0)] = (f.r[i] + f.g[i] + f.b[i]) / 3.0
		}
	}

	var hSum, vSum float64
	for y := 0; y < ch; y++ {
		for x := 0; x < cw-1; x++ {
			hSum += math.Abs(gray[y*cw+x+1] - gray[y*cw+x])
		}
	}
	for y := 0; y < ch-1; y++ {
		for x := 0; x < cw; x++ {
			vSum += math.Abs(gray[(y+1)*cw+x] - gray[y*cw+x])
		}
	}

	hMean := hSum / float64(ch*(cw-1))
	vMean := vSum / float64((ch-1)*cw)
	if (hMean+vMean)/2.0 > 35 {
		return true, "color mismatch (too many sharp edges, likely not a colonoscopy image)"
	}
	return false, ""
}

// centerBounds returns the central 40%×40% region as half-open pixel ranges.
func (f *features) centerBounds() (x0, x1, y0, y1 int) {
	x0 = int(float64(f.width) * 0.3)
	x1 = int(float64(f.width) * 0.7)
	y0 = int(float64(f.height) * 0.3)
	y1 = int(float64(f.height) * 0.7)
	return x0, x1, y0, y1
}

// centerRegion extracts the central region from a row-major channel view.
func (f *features) centerRegion(channel []float64) []float64 {
	x0, x1, y0, y1 := f.centerBounds()
	out := make([]float64, 0, (x1-x0)*(y1-y0))
	for y := y0; y < y1; y++ {
		out = append(out, channel[y*f.width+x0:y*f.width+x1]...)
	}
	return out
}

// borderBrightness averages the mean value-channel brightness of the four
// outer 20% strips (top, bottom, left, right).
func (f *features) borderBrightness() float64 {
	ew := int(float64(f.width) * 0.2)
	eh := int(float64(f.height) * 0.2)

	strip := func(x0, x1, y0, y1 int) float64 {
		var sum float64
		n := 0
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				sum += f.v[y*f.width+x]
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}

	top := strip(0, f.width, 0, eh)
	bottom := strip(0, f.width, f.height-eh, f.height)
	left := strip(0, ew, 0, f.height)
	right := strip(f.width-ew, f.width, 0, f.height)
	return (top + bottom + left + right) / 4.0
}
