// Package export turns drawings into images and documents.
package export

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"Sketchpad/internal/state"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var (
	ErrEmptyDrawing = errors.New("export: drawing is empty")
	ErrEmptyFrame   = errors.New("export: frame has no area")
)

// Rasterizer renders drawings with rasterx. The zero value is ready to use.
type Rasterizer struct{}

var _ state.Renderer = Rasterizer{}

func (Rasterizer) Render(d state.Drawing, frame state.Rect, bg color.Color) (*image.RGBA, error) {
	return Rasterize(d, frame, bg)
}

// Rasterize draws d into a new image covering frame. Points are in drawing
// coordinates; frame.Min lands on the image origin.
func Rasterize(d state.Drawing, frame state.Rect, bg color.Color) (*image.RGBA, error) {
	if frame.Empty() {
		return nil, ErrEmptyFrame
	}
	w, h := int(math.Ceil(frame.Dx())), int(math.Ceil(frame.Dy()))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	for _, s := range d.Strokes {
		if len(s.Points) == 0 {
			continue
		}
		dasher.Clear()
		dasher.SetStroke(toFixed(s.Width), toFixed(4), rasterx.RoundCap, rasterx.RoundCap,
			rasterx.RoundGap, rasterx.Round, nil, 0)
		dasher.Scanner.SetColor(s.Color)

		at := func(p state.Point) fixed.Point26_6 {
			return rasterx.ToFixedP(p.X-frame.Min.X, p.Y-frame.Min.Y)
		}
		dasher.Start(at(s.Points[0]))
		if len(s.Points) == 1 {
			// a tap leaves a dot; give the round caps something to hang on
			dot := s.Points[0]
			dot.X += 0.01
			dasher.Line(at(dot))
		}
		for _, p := range s.Points[1:] {
			dasher.Line(at(p))
		}
		dasher.Stop(false)
		dasher.Draw()
	}
	return img, nil
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
