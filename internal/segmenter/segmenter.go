// Package segmenter defines the contract with the external segmentation
// model service.
package segmenter

import "context"

// Result is the label raster returned by the segmenter, always at the
// canonical mask resolution.
type Result struct {
	Labels       []uint8
	Width        int
	Height       int
	ModelVersion string
}

// Client exposes the subset of the segmenter used by the analysis flow. The
// tensor is the preprocessed, normalized CHW float32 input serialized
// little-endian.
type Client interface {
	Segment(ctx context.Context, requestID string, tensor []byte) (*Result, error)
}
