// Package mask holds the label raster produced by the segmenter and the pure
// reductions computed over it.
package mask

import (
	"errors"
	"fmt"
)

// CanonicalSize is the fixed resolution the segmenter emits masks at,
// independent of the original raster's dimensions.
const CanonicalSize = 256

// ErrShape marks label data that does not match its declared dimensions or
// contains labels outside {0, 1}.
var ErrShape = errors.New("mask: malformed label data")

// Mask is an immutable height×width raster of class labels
// (0 = background, 1 = positive).
type Mask struct {
	Width  int
	Height int
	Labels []uint8
}

// New validates and wraps raw label data.
func New(labels []uint8, width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrShape, width, height)
	}
	if len(labels) != width*height {
		return nil, fmt.Errorf("%w: %d labels for %dx%d", ErrShape, len(labels), width, height)
	}
	for _, l := range labels {
		if l > 1 {
			return nil, fmt.Errorf("%w: label %d out of range", ErrShape, l)
		}
	}
	return &Mask{Width: width, Height: height, Labels: labels}, nil
}

// At returns the label at (x, y).
func (m *Mask) At(x, y int) uint8 {
	return m.Labels[y*m.Width+x]
}

// Statistics aggregates pixel counts over a mask.
// PositivePixels + BackgroundPixels always equals TotalPixels.
type Statistics struct {
	TotalPixels        int     `json:"total_pixels"`
	PositivePixels     int     `json:"positive_pixels"`
	BackgroundPixels   int     `json:"background_pixels"`
	PositivePercentage float64 `json:"positive_percentage"`
}

// Stats reduces the mask to its pixel counts. An empty mask yields a
// percentage of 0 rather than NaN.
func (m *Mask) Stats() Statistics {
	s := Statistics{TotalPixels: len(m.Labels)}
	for _, l := range m.Labels {
		if l == 1 {
			s.PositivePixels++
		}
	}
	s.BackgroundPixels = s.TotalPixels - s.PositivePixels
	if s.TotalPixels > 0 {
		s.PositivePercentage = 100 * float64(s.PositivePixels) / float64(s.TotalPixels)
	}
	return s
}

// RiskLevel grades the clinical urgency implied by lesion coverage.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High Risk"
	RiskMedium RiskLevel = "Medium Risk"
	RiskLow    RiskLevel = "Low Risk"
	RiskSafe   RiskLevel = "Safe"
)

// Risk maps positive coverage to a risk level.
func (s Statistics) Risk() RiskLevel {
	switch {
	case s.PositivePercentage > 2.0:
		return RiskHigh
	case s.PositivePercentage > 0.5:
		return RiskMedium
	case s.PositivePercentage > 0.1:
		return RiskLow
	default:
		return RiskSafe
	}
}
