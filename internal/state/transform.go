package state

import "math"

// Snap bands. A value strictly inside a band at gesture end is forced to
// the identity value of its channel.
const (
	panSnapLimit      = 10.0
	scaleSnapLow      = 0.85
	scaleSnapHigh     = 0.95
	rotationSnapLimit = 0.05
)

// TransformState holds the canvas view transform. The Baseline fields are the
// values committed at the end of the previous gesture; the live fields are
// the baseline combined with whatever gesture is in flight.
type TransformState struct {
	Offset   Point
	Scale    float64
	Rotation float64 // radians

	BaselineOffset   Point
	BaselineScale    float64
	BaselineRotation float64
}

// IdentityTransform is the neutral view: no offset, unit scale, no rotation.
func IdentityTransform() TransformState {
	return TransformState{Scale: 1, BaselineScale: 1}
}

func (t *TransformState) pan(translation Point, ended bool) {
	t.Offset = t.BaselineOffset.Add(translation)
	if !ended {
		return
	}
	if insideOpen(t.Offset.X, -panSnapLimit, panSnapLimit) &&
		insideOpen(t.Offset.Y, -panSnapLimit, panSnapLimit) {
		t.Offset = Point{}
	}
	t.BaselineOffset = t.Offset
}

func (t *TransformState) pinch(factor float64, ended bool) {
	t.Scale = t.BaselineScale * factor
	if !ended {
		return
	}
	if insideOpen(t.Scale, scaleSnapLow, scaleSnapHigh) {
		t.Scale = 1
	}
	t.BaselineScale = t.Scale
}

func (t *TransformState) rotate(angle float64, ended bool) {
	t.Rotation = t.BaselineRotation + angle
	if !ended {
		return
	}
	if insideOpen(t.Rotation, -rotationSnapLimit, rotationSnapLimit) {
		t.Rotation = 0
	}
	t.BaselineRotation = t.Rotation
}

func insideOpen(v, lo, hi float64) bool { return v > lo && v < hi }

// Apply maps a point in drawing coordinates to view coordinates. The drawing
// is scaled and rotated about centre, then shifted by the live offset.
func (t TransformState) Apply(p, centre Point) Point {
	x := (p.X - centre.X) * t.Scale
	y := (p.Y - centre.Y) * t.Scale
	sin, cos := math.Sincos(t.Rotation)
	return Point{
		X: centre.X + x*cos - y*sin + t.Offset.X,
		Y: centre.Y + x*sin + y*cos + t.Offset.Y,
	}
}

// Invert is the inverse of Apply. A zero scale maps everything to centre.
func (t TransformState) Invert(p, centre Point) Point {
	if t.Scale == 0 {
		return centre
	}
	x := p.X - t.Offset.X - centre.X
	y := p.Y - t.Offset.Y - centre.Y
	sin, cos := math.Sincos(-t.Rotation)
	return Point{
		X: centre.X + (x*cos-y*sin)/t.Scale,
		Y: centre.Y + (x*sin+y*cos)/t.Scale,
	}
}
