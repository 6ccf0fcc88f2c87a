package export

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"Sketchpad/internal/state"

	"github.com/jung-kurt/gofpdf"
)

// PDFFile is a vector sink writing a single page PDF to Path.
type PDFFile struct {
	Path string
}

var _ state.VectorSink = PDFFile{}

func (p PDFFile) WriteDrawing(d state.Drawing, bg color.Color) error {
	f, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", p.Path, err)
	}
	if err := WritePDF(f, d, bg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDF renders d on a page sized to its bounds, one line per segment.
// Units are points, so one drawing unit maps to 1/72 inch.
func WritePDF(w io.Writer, d state.Drawing, bg color.Color) error {
	if d.IsEmpty() {
		return ErrEmptyDrawing
	}
	b := d.Bounds()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: b.Dx(), Ht: b.Dy()},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if bg != nil {
		r, g, bl := rgb(bg)
		pdf.SetFillColor(r, g, bl)
		pdf.Rect(0, 0, b.Dx(), b.Dy(), "F")
	}

	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	for _, s := range d.Strokes {
		if len(s.Points) == 0 {
			continue
		}
		r, g, bl := rgb(s.Color)
		pdf.SetDrawColor(r, g, bl)
		pdf.SetLineWidth(s.Width)
		if len(s.Points) == 1 {
			p := s.Points[0]
			pdf.Line(p.X-b.Min.X, p.Y-b.Min.Y, p.X-b.Min.X, p.Y-b.Min.Y)
			continue
		}
		for i := 1; i < len(s.Points); i++ {
			p0, p1 := s.Points[i-1], s.Points[i]
			pdf.Line(p0.X-b.Min.X, p0.Y-b.Min.Y, p1.X-b.Min.X, p1.Y-b.Min.Y)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func rgb(c color.Color) (int, int, int) {
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}
