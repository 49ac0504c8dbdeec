// Package report assembles the downloadable PDF summary of an analysis.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/mask"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/usecase"
)

const disclaimer = "This report is generated by an automated screening aid and does not " +
	"constitute a diagnosis. All findings must be reviewed by a qualified clinician."

// Build renders an analysis into a PDF document.
func Build(a *usecase.Analysis) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Colovision CRC Analysis Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Colovision CRC Analysis Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	metaRow(pdf, "File", a.Filename)
	metaRow(pdf, "Request ID", a.RequestID)
	metaRow(pdf, "Analyzed", a.CreatedAt.Format(time.RFC1123))
	if a.ModelVersion != "" {
		metaRow(pdf, "Model version", a.ModelVersion)
	}
	pdf.Ln(4)

	riskBanner(pdf, a.RiskLevel)
	pdf.Ln(4)

	sectionTitle(pdf, "Segmentation Statistics")
	statsTable(pdf, a.Statistics)
	pdf.Ln(4)

	sectionTitle(pdf, "Visualizations")
	if err := imageRow(pdf, a); err != nil {
		return nil, err
	}
	pdf.Ln(4)

	sectionTitle(pdf, "Clinical Recommendations")
	pdf.SetFont("Helvetica", "", 10)
	for _, rec := range a.Recommendations {
		pdf.CellFormat(8, 6, "-", "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, fmt.Sprintf("[%s] %s", rec.Type, rec.Text), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.MultiCell(0, 4, disclaimer, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func metaRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(35, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func riskBanner(pdf *gofpdf.Fpdf, risk mask.RiskLevel) {
	r, g, b := riskColor(risk)
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 10, fmt.Sprintf("Risk Level: %s", risk), "", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func riskColor(risk mask.RiskLevel) (r, g, b int) {
	switch risk {
	case mask.RiskHigh:
		return 192, 36, 36
	case mask.RiskMedium:
		return 222, 137, 16
	case mask.RiskLow:
		return 204, 178, 0
	default:
		return 38, 146, 66
	}
}

func statsTable(pdf *gofpdf.Fpdf, s mask.Statistics) {
	rows := [][2]string{
		{"Total pixels", fmt.Sprintf("%d", s.TotalPixels)},
		{"Lesion pixels", fmt.Sprintf("%d", s.PositivePixels)},
		{"Background pixels", fmt.Sprintf("%d", s.BackgroundPixels)},
		{"Lesion coverage", fmt.Sprintf("%.2f%%", s.PositivePercentage)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(60, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, row[1], "1", 1, "R", false, 0, "")
	}
}

// imageRow places the original, overlay, and heatmap side by side.
func imageRow(pdf *gofpdf.Fpdf, a *usecase.Analysis) error {
	images := []struct {
		name  string
		label string
		data  []byte
	}{
		{"original", "Original", a.OriginalPNG},
		{"overlay", "Segmentation Overlay", a.OverlayPNG},
		{"heatmap", "Attention Heatmap", a.HeatmapPNG},
	}

	const imgWidth = 58.0
	x := pdf.GetX()
	y := pdf.GetY()

	for i, img := range images {
		if len(img.data) == 0 {
			continue
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(img.name, opts, bytes.NewReader(img.data))
		if pdf.Err() {
			return fmt.Errorf("report: embed %s: %v", img.name, pdf.Error())
		}
		cx := x + float64(i)*(imgWidth+4)
		pdf.ImageOptions(img.name, cx, y, imgWidth, 0, false, opts, 0, "")
		pdf.SetXY(cx, y+imgWidth+1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(imgWidth, 4, img.label, "", 0, "C", false, 0, "")
	}

	pdf.SetXY(x, y+imgWidth+8)
	return nil
}
