package state

import (
	"image/color"
	"math"

	"github.com/google/uuid"
)

type Point struct{ X, Y float64 }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

type Stroke struct {
	ID     string
	Points []Point
	Color  color.NRGBA
	Width  float64
}

// NewStroke starts a stroke at the given point with a fresh ID.
func NewStroke(start Point, c color.NRGBA, width float64) Stroke {
	return Stroke{
		ID:     uuid.NewString(),
		Points: []Point{start},
		Color:  c,
		Width:  width,
	}
}

// Rect is an axis aligned box in drawing coordinates.
type Rect struct {
	Min, Max Point
}

func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Drawing is the vector content of the canvas. A Drawing is never mutated in
// place once handed out; edits produce a new Drawing so snapshots and history
// entries can share stroke slices.
type Drawing struct {
	Strokes []Stroke
}

// With returns a new drawing with s appended.
func (d Drawing) With(s Stroke) Drawing {
	strokes := make([]Stroke, 0, len(d.Strokes)+1)
	strokes = append(strokes, d.Strokes...)
	strokes = append(strokes, s)
	return Drawing{Strokes: strokes}
}

// Bounds is the union of all stroke extents, inflated by half the stroke
// width so thick single dots still have an area.
func (d Drawing) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range d.Strokes {
		pad := s.Width / 2
		for _, p := range s.Points {
			minX = math.Min(minX, p.X-pad)
			minY = math.Min(minY, p.Y-pad)
			maxX = math.Max(maxX, p.X+pad)
			maxY = math.Max(maxY, p.Y+pad)
		}
	}
	if minX > maxX {
		return Rect{}
	}
	return Rect{Min: Point{minX, minY}, Max: Point{maxX, maxY}}
}

func (d Drawing) IsEmpty() bool { return d.Bounds().Empty() }
