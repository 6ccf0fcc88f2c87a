package ui

import (
	"image/color"
	"math"
	"time"

	"Sketchpad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	// scroll wheels never say when a gesture is over
	defaultGestureIdle = 250 * time.Millisecond

	zoomSensitivity   = 200.0 // scroll units per e-fold of scale
	rotateSensitivity = 400.0 // scroll units per radian
	gridSpacing       = 15.0
)

var (
	deskColor  = color.NRGBA{R: 0xe5, G: 0xe5, B: 0xea, A: 0xff}
	gridColor  = color.NRGBA{R: 0xd1, G: 0xd1, B: 0xd6, A: 0xff}
	frameColor = color.NRGBA{R: 0x8e, G: 0x8e, B: 0x93, A: 0xff}
)

// scrollGesture accumulates wheel and trackpad input into one continuous
// gesture on a single channel.
type scrollGesture struct {
	active      bool
	channel     state.Channel
	translation state.Point
	scale       float64
	angle       float64

	gen   int
	timer *time.Timer
}

// SketchWidget draws the session's strokes through the live view transform
// and turns pointer input into strokes and gestures.
//
// Primary button draws, secondary button drags pan, the wheel pans, with
// Ctrl (or Cmd) it pinches and with Alt it rotates.
type SketchWidget struct {
	widget.BaseWidget

	session   *state.Session
	interp    *state.Interpreter
	transform *state.TransformState

	current     *state.Stroke
	penColor    color.NRGBA
	penWidth    float64
	readOnly    bool
	panning     bool
	panStart    fyne.Position
	panLast     fyne.Position
	scroll      scrollGesture
	GestureIdle time.Duration

	modifiers func() fyne.KeyModifier
}

var _ fyne.Widget = (*SketchWidget)(nil)
var _ fyne.Draggable = (*SketchWidget)(nil)
var _ fyne.Scrollable = (*SketchWidget)(nil)
var _ desktop.Mouseable = (*SketchWidget)(nil)
var _ desktop.Hoverable = (*SketchWidget)(nil)

func NewSketchWidget(session *state.Session, interp *state.Interpreter, penWidth float64) *SketchWidget {
	s := &SketchWidget{
		session:     session,
		interp:      interp,
		transform:   interp.Transform,
		penColor:    color.NRGBA{A: 0xff},
		penWidth:    penWidth,
		GestureIdle: defaultGestureIdle,
		modifiers:   currentModifiers,
	}
	s.ExtendBaseWidget(s)
	return s
}

func currentModifiers() fyne.KeyModifier {
	a := fyne.CurrentApp()
	if a == nil {
		return 0
	}
	if d, ok := a.Driver().(desktop.Driver); ok {
		return d.CurrentKeyModifiers()
	}
	return 0
}

func (s *SketchWidget) SetColor(c color.Color) {
	s.penColor = color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (s *SketchWidget) SetStroke(w float64) { s.penWidth = w }

// SetReadOnly stops the widget from drawing; view gestures keep working.
func (s *SketchWidget) SetReadOnly(ro bool) {
	s.readOnly = ro
	s.current = nil
}

// ResetView drops every in-flight gesture and returns to the identity view.
func (s *SketchWidget) ResetView() {
	s.stopScrollTimer()
	s.scroll.active = false
	s.panning = false
	s.interp.Reset()
	s.Refresh()
}

// CancelGestures abandons whatever is in flight: view gestures fall back to
// their baseline and a half drawn stroke is dropped.
func (s *SketchWidget) CancelGestures() {
	if s.scroll.active {
		s.endScroll(state.PhaseCancelled)
	}
	if s.panning {
		s.panning = false
		s.interp.Handle(state.PanEvent(s.panDelta(), state.PhaseCancelled))
	}
	s.current = nil
	s.Refresh()
}

// frameCentre and shift place the session frame in the middle of the widget.
func (s *SketchWidget) frameCentre() state.Point {
	f := s.session.Frame
	return state.Point{X: (f.Min.X + f.Max.X) / 2, Y: (f.Min.Y + f.Max.Y) / 2}
}

func (s *SketchWidget) shift() state.Point {
	size := s.Size()
	c := s.frameCentre()
	return state.Point{X: float64(size.Width)/2 - c.X, Y: float64(size.Height)/2 - c.Y}
}

func (s *SketchWidget) toView(p state.Point) fyne.Position {
	v := s.transform.Apply(p, s.frameCentre()).Add(s.shift())
	return fyne.NewPos(float32(v.X), float32(v.Y))
}

func (s *SketchWidget) toDrawing(pos fyne.Position) state.Point {
	sh := s.shift()
	return s.transform.Invert(state.Point{X: float64(pos.X) - sh.X, Y: float64(pos.Y) - sh.Y}, s.frameCentre())
}

func (s *SketchWidget) MouseDown(e *desktop.MouseEvent) {
	switch e.Button {
	case desktop.MouseButtonPrimary:
		s.startStroke(e.Position)
	case desktop.MouseButtonSecondary:
		s.panning = true
		s.panStart = e.Position
		s.panLast = e.Position
	}
}

func (s *SketchWidget) MouseUp(e *desktop.MouseEvent) {
	switch e.Button {
	case desktop.MouseButtonPrimary:
		s.finishStroke()
	case desktop.MouseButtonSecondary:
		if !s.panning {
			return
		}
		s.panning = false
		s.panLast = e.Position
		s.interp.Handle(state.PanEvent(s.panDelta(), state.PhaseEnded))
		s.Refresh()
	}
}

func (s *SketchWidget) MouseIn(*desktop.MouseEvent) {}
func (s *SketchWidget) MouseOut()                   {}

func (s *SketchWidget) MouseMoved(e *desktop.MouseEvent) {
	if !s.panning {
		return
	}
	s.panLast = e.Position
	s.interp.Handle(state.PanEvent(s.panDelta(), state.PhaseChanged))
	s.Refresh()
}

func (s *SketchWidget) panDelta() state.Point {
	return state.Point{X: float64(s.panLast.X - s.panStart.X), Y: float64(s.panLast.Y - s.panStart.Y)}
}

func (s *SketchWidget) Dragged(e *fyne.DragEvent) {
	if s.readOnly {
		return
	}
	if s.current == nil {
		// touch drivers skip MouseDown
		s.startStroke(e.Position.Subtract(e.Dragged))
	}
	s.current.Points = append(s.current.Points, s.toDrawing(e.Position))
	s.Refresh()
}

func (s *SketchWidget) DragEnd() {
	s.finishStroke()
}

func (s *SketchWidget) startStroke(pos fyne.Position) {
	if s.readOnly {
		return
	}
	scale := s.transform.Scale
	if scale <= 0 {
		scale = 1
	}
	st := state.NewStroke(s.toDrawing(pos), s.penColor, s.penWidth/scale)
	s.current = &st
	s.Refresh()
}

func (s *SketchWidget) finishStroke() {
	if s.current == nil {
		return
	}
	st := *s.current
	s.current = nil
	s.session.AddStroke(st)
	s.Refresh()
}

func (s *SketchWidget) Scrolled(e *fyne.ScrollEvent) {
	ch := channelFor(s.modifiers())
	if s.scroll.active && s.scroll.channel != ch {
		s.endScroll(state.PhaseEnded)
	}
	if !s.scroll.active {
		s.scroll = scrollGesture{active: true, channel: ch, scale: 1, gen: s.scroll.gen}
	}

	dx, dy := float64(e.Scrolled.DX), float64(e.Scrolled.DY)
	switch ch {
	case state.ChannelPinch:
		s.scroll.scale *= math.Exp(dy / zoomSensitivity)
	case state.ChannelRotate:
		s.scroll.angle += (dx + dy) / rotateSensitivity
	default:
		s.scroll.translation = s.scroll.translation.Add(state.Point{X: dx, Y: dy})
	}
	s.interp.Handle(s.scrollEvent(state.PhaseChanged))
	s.armScrollTimer()
	s.Refresh()
}

func channelFor(mods fyne.KeyModifier) state.Channel {
	switch {
	case mods&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0:
		return state.ChannelPinch
	case mods&fyne.KeyModifierAlt != 0:
		return state.ChannelRotate
	default:
		return state.ChannelPan
	}
}

func (s *SketchWidget) scrollEvent(phase state.Phase) state.GestureEvent {
	switch s.scroll.channel {
	case state.ChannelPinch:
		return state.PinchEvent(s.scroll.scale, phase)
	case state.ChannelRotate:
		return state.RotateEvent(s.scroll.angle, phase)
	default:
		return state.PanEvent(s.scroll.translation, phase)
	}
}

func (s *SketchWidget) armScrollTimer() {
	s.stopScrollTimer()
	s.scroll.gen++
	gen := s.scroll.gen
	s.scroll.timer = time.AfterFunc(s.GestureIdle, func() {
		fyne.Do(func() {
			if s.scroll.active && s.scroll.gen == gen {
				s.endScroll(state.PhaseEnded)
			}
		})
	})
}

func (s *SketchWidget) stopScrollTimer() {
	if s.scroll.timer != nil {
		s.scroll.timer.Stop()
		s.scroll.timer = nil
	}
}

func (s *SketchWidget) endScroll(phase state.Phase) {
	s.stopScrollTimer()
	s.scroll.active = false
	s.interp.Handle(s.scrollEvent(phase))
	s.Refresh()
}

func (s *SketchWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &sketchRenderer{sketch: s}
	r.backdrop = canvas.NewRasterWithPixels(r.pixel)
	r.rebuild()
	return r
}

type sketchRenderer struct {
	sketch   *SketchWidget
	backdrop *canvas.Raster
	objects  []fyne.CanvasObject
}

// pixel paints the canvas background inside the transformed frame and a
// ruled desk around it.
func (r *sketchRenderer) pixel(x, y, w, h int) color.Color {
	s := r.sketch
	size := s.Size()
	if w == 0 || size.Width == 0 {
		return deskColor
	}
	scale := float64(size.Width) / float64(w)
	ux, uy := (float64(x)+0.5)*scale, (float64(y)+0.5)*scale
	p := s.toDrawing(fyne.NewPos(float32(ux), float32(uy)))
	f := s.session.Frame
	if p.X >= f.Min.X && p.X < f.Max.X && p.Y >= f.Min.Y && p.Y < f.Max.Y {
		return s.session.Background().Color()
	}
	if math.Mod(ux, gridSpacing) < scale || math.Mod(uy, gridSpacing) < scale {
		return gridColor
	}
	return deskColor
}

func (r *sketchRenderer) rebuild() {
	s := r.sketch
	objects := []fyne.CanvasObject{r.backdrop}

	f := s.session.Frame
	corners := []state.Point{f.Min, {X: f.Max.X, Y: f.Min.Y}, f.Max, {X: f.Min.X, Y: f.Max.Y}}
	for i := range corners {
		edge := canvas.NewLine(frameColor)
		edge.StrokeWidth = 1
		edge.Position1 = s.toView(corners[i])
		edge.Position2 = s.toView(corners[(i+1)%len(corners)])
		objects = append(objects, edge)
	}

	strokes := s.session.Drawing().Strokes
	if s.current != nil {
		strokes = append(strokes[:len(strokes):len(strokes)], *s.current)
	}
	for _, st := range strokes {
		objects = append(objects, r.strokeObjects(st)...)
	}
	r.objects = objects
}

func (r *sketchRenderer) strokeObjects(st state.Stroke) []fyne.CanvasObject {
	s := r.sketch
	width := float32(st.Width * s.transform.Scale)
	if len(st.Points) == 1 {
		c := s.toView(st.Points[0])
		dot := canvas.NewCircle(st.Color)
		dot.Position1 = fyne.NewPos(c.X-width/2, c.Y-width/2)
		dot.Position2 = fyne.NewPos(c.X+width/2, c.Y+width/2)
		return []fyne.CanvasObject{dot}
	}
	segments := make([]fyne.CanvasObject, 0, len(st.Points)-1)
	for i := 1; i < len(st.Points); i++ {
		segment := canvas.NewLine(st.Color)
		segment.StrokeWidth = width
		segment.Position1 = s.toView(st.Points[i-1])
		segment.Position2 = s.toView(st.Points[i])
		segments = append(segments, segment)
	}
	return segments
}

func (r *sketchRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *sketchRenderer) Refresh() {
	r.rebuild()
	r.backdrop.Refresh()
	canvas.Refresh(r.sketch)
}

func (r *sketchRenderer) Destroy() {
	r.sketch.stopScrollTimer()
}

func (r *sketchRenderer) Layout(size fyne.Size) {
	r.backdrop.Resize(size)
	r.rebuild()
}

func (r *sketchRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}
