package render

import "math"

// farAway stands in for infinity in the squared-distance transform; it is
// large enough to dominate any realistic pixel distance while keeping the
// parabola intersection arithmetic finite.
const farAway = 1e20

// distanceTransform computes the exact Euclidean distance from every pixel to
// the nearest pixel where on is true, using the Felzenszwalb–Huttenlocher
// two-pass algorithm (1D squared-distance transforms over columns, then
// rows). Pixels where on is true read 0.
func distanceTransform(on []bool, width, height int) []float64 {
	d := make([]float64, width*height)
	for i, v := range on {
		if v {
			d[i] = 0
		} else {
			d[i] = farAway
		}
	}

	// Columns.
	col := make([]float64, height)
	out := make([]float64, height)
	v := make([]int, height)
	z := make([]float64, height+1)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			col[y] = d[y*width+x]
		}
		edt1D(col, out, v, z)
		for y := 0; y < height; y++ {
			d[y*width+x] = out[y]
		}
	}

	// Rows.
	row := make([]float64, width)
	out = make([]float64, width)
	v = make([]int, width)
	z = make([]float64, width+1)
	for y := 0; y < height; y++ {
		copy(row, d[y*width:(y+1)*width])
		edt1D(row, out, v, z)
		copy(d[y*width:(y+1)*width], out)
	}

	for i := range d {
		d[i] = math.Sqrt(d[i])
	}
	return d
}

// edt1D computes the 1D squared-distance transform of sampled function f into
// out by maintaining the lower envelope of the parabolas rooted at each
// sample. v and z are scratch buffers of length len(f) and len(f)+1.
func edt1D(f, out []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = -farAway
	z[1] = farAway

	for q := 1; q < n; q++ {
		s := intersect(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = farAway
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		out[q] = dq*dq + f[v[k]]
	}
}

// intersect returns the horizontal position where the parabolas rooted at q
// and p cross.
func intersect(f []float64, q, p int) float64 {
	return ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
}
