package render

// jet maps a scalar in [0,1] through the classic cool-to-warm jet ramp:
// dark blue through cyan, green, and yellow to dark red.
func jet(t float64) (r, g, b uint8) {
	return jetChannel(t, 0.75), jetChannel(t, 0.5), jetChannel(t, 0.25)
}

// jetChannel evaluates one trapezoid of the jet ramp centered at the given
// offset.
func jetChannel(t, center float64) uint8 {
	v := 1.5 - 4*abs(t-center)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
