package report

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/imaging"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/mask"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/recommend"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/usecase"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 150, G: 60, B: 40, A: 255})
		}
	}
	data, err := imaging.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func TestBuildProducesPDF(t *testing.T) {
	png := tinyPNG(t)
	analysis := &usecase.Analysis{
		RequestID:    "req-42",
		Filename:     "frame.png",
		Accepted:     true,
		Reason:       "validation passed",
		Statistics:   mask.Statistics{TotalPixels: 65536, PositivePixels: 1500, BackgroundPixels: 64036, PositivePercentage: 2.29},
		RiskLevel:    mask.RiskHigh,
		ModelVersion: "unet-v2",
		OriginalPNG:  png,
		OverlayPNG:   png,
		HeatmapPNG:   png,
		Recommendations: []recommend.Recommendation{
			{Type: "urgent", Text: "Biopsy recommended for histopathological confirmation"},
		},
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := Build(analysis)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestBuildToleratesMissingArtifacts(t *testing.T) {
	analysis := &usecase.Analysis{
		RequestID: "req-43",
		Filename:  "frame.png",
		Accepted:  true,
		Reason:    "validation passed",
		RiskLevel: mask.RiskSafe,
		CreatedAt: time.Now().UTC(),
	}

	data, err := Build(analysis)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(data[:4]))
}
