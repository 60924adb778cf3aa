// Package preview renders a paginated measurement to PDF, one output
// page per computed page, so pagination decisions can be inspected
// visually.
package preview

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/glowdocs/paginate/internal/layout"
	"github.com/glowdocs/paginate/internal/page"
	"github.com/glowdocs/paginate/pkg/document"
)

// pxToPt converts 96 DPI pixels to PDF points.
const pxToPt = 72.0 / 96.0

// Renderer renders paginated previews.
type Renderer struct {
	Metrics page.Metrics
	// DrawBands outlines the header and footer bands.
	DrawBands bool

	log zerolog.Logger
}

// RenderOptions contains document metadata for the output file.
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// NewRenderer creates a new preview renderer.
func NewRenderer(metrics page.Metrics) *Renderer {
	return &Renderer{
		Metrics:   metrics,
		DrawBands: true,
		log:       zerolog.Nop(),
	}
}

// SetLogger sets the logger used for render tracing.
func (r *Renderer) SetLogger(log zerolog.Logger) {
	r.log = log
}

// Render writes the paginated document to a PDF file. Page boundaries
// come from the measurement's adjusted break positions; each visual line
// lands on the page whose content span contains its top.
func (r *Renderer) Render(doc *layout.Document, meas document.Measurement, outputPath string, options RenderOptions) error {
	m := r.Metrics
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: m.Width * pxToPt, Ht: m.Height * pxToPt},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator("paginate", true)

	// Content span of each page: [bounds[i], bounds[i+1]).
	bounds := make([]float64, 0, len(meas.PageBreaks)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, meas.PageBreaks...)
	end := meas.TotalHeight
	if len(bounds) > 0 && end < bounds[len(bounds)-1] {
		end = bounds[len(bounds)-1]
	}
	bounds = append(bounds, end+1)

	pageCount := len(bounds) - 1
	flow := doc.Flow()

	for p := 0; p < pageCount; p++ {
		pdf.AddPage()
		r.drawChrome(pdf, p+1, pageCount)
		r.drawPageContent(pdf, flow, bounds[p], bounds[p+1])
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write preview PDF: %w", err)
	}
	r.log.Debug().Str("path", outputPath).Int("pages", pageCount).Msg("preview rendered")
	return nil
}

// drawChrome draws the header and footer bands and the page number.
func (r *Renderer) drawChrome(pdf *fpdf.Fpdf, pageNum, pageCount int) {
	m := r.Metrics
	w := m.Width * pxToPt
	h := m.Height * pxToPt

	if r.DrawBands {
		pdf.SetDrawColor(220, 220, 220)
		pdf.Line(0, m.HeaderHeight*pxToPt, w, m.HeaderHeight*pxToPt)
		pdf.Line(0, h-m.FooterHeight*pxToPt, w, h-m.FooterHeight*pxToPt)
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	label := fmt.Sprintf("Page %d of %d", pageNum, pageCount)
	pdf.SetXY(0, h-m.FooterHeight*pxToPt/2)
	pdf.CellFormat(w, 0, label, "", 0, "C", false, 0, "")
}

// drawPageContent places every visual line whose top falls inside
// [start, end) at its in-page offset.
func (r *Renderer) drawPageContent(pdf *fpdf.Fpdf, flow []layout.Block, start, end float64) {
	m := r.Metrics
	x := m.MarginHorizontal * pxToPt
	pdf.SetTextColor(0, 0, 0)

	for _, b := range flow {
		if b.Rect.Bottom < start || b.Rect.Top >= end {
			continue
		}
		pdf.SetFont(b.Style.Family, b.Style.Style, b.Style.FontSize*pxToPt)
		for i, line := range b.Lines {
			top := b.Rect.Top + float64(i)*b.Node.LineHeight
			if top < start || top >= end {
				continue
			}
			// Baseline sits at roughly 80% of the line box.
			y := (m.MarginTop + top - start + 0.8*b.Node.LineHeight) * pxToPt
			pdf.Text(x, y, line)
		}
		if b.Node.Type == document.TypeHorizontalRule {
			y := (m.MarginTop + b.Rect.Top - start) * pxToPt
			pdf.SetDrawColor(0, 0, 0)
			pdf.Line(x, y, (m.Width-m.MarginHorizontal)*pxToPt, y)
		}
	}
}
