package ui

import (
	"image/color"
	"math"
	"testing"
	"time"

	"Sketchpad/internal/config"
	sharenet "Sketchpad/internal/net"
	"Sketchpad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.CanvasSize = 400
	cfg.PicturesDir = t.TempDir()
	return cfg
}

func newTestStudio(t *testing.T) *Studio {
	a := test.NewTempApp(t)
	st := NewStudio(a, testConfig(t))
	st.sketch.Resize(fyne.NewSize(400, 400))
	st.sketch.GestureIdle = time.Hour
	return st
}

func mouse(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: b}
}

func drag(x, y, dx, dy float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Dragged: fyne.NewDelta(dx, dy)}
}

func scroll(dx, dy float32) *fyne.ScrollEvent {
	return &fyne.ScrollEvent{Scrolled: fyne.NewDelta(dx, dy)}
}

func withModifiers(s *SketchWidget, m fyne.KeyModifier) {
	s.modifiers = func() fyne.KeyModifier { return m }
}

func TestDrawStroke(t *testing.T) {
	st := newTestStudio(t)
	s := st.sketch
	s.SetColor(color.NRGBA{R: 255, A: 255})

	s.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	s.Dragged(drag(50, 60, 40, 50))
	s.Dragged(drag(80, 60, 30, 0))
	s.DragEnd()
	s.MouseUp(mouse(80, 60, desktop.MouseButtonPrimary))

	strokes := st.session.Drawing().Strokes
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes", len(strokes))
	}
	want := []state.Point{{X: 10, Y: 10}, {X: 50, Y: 60}, {X: 80, Y: 60}}
	for i, p := range strokes[0].Points {
		if p != want[i] {
			t.Errorf("point %d = %v, want %v", i, p, want[i])
		}
	}
	if strokes[0].Color != (color.NRGBA{R: 255, A: 255}) || strokes[0].Width != config.DefaultStrokeWidth {
		t.Errorf("stroke style = %v / %v", strokes[0].Color, strokes[0].Width)
	}
	if len(st.session.Saved().Drawing.Strokes) != 1 {
		t.Error("finishing a stroke should refresh the saved snapshot")
	}
}

func TestDrawingFollowsTransform(t *testing.T) {
	st := newTestStudio(t)
	s := st.sketch
	st.interp.Handle(state.RotateEvent(math.Pi/2, state.PhaseEnded))
	st.interp.Handle(state.PinchEvent(2, state.PhaseEnded))

	s.MouseDown(mouse(200, 100, desktop.MouseButtonPrimary))
	s.MouseUp(mouse(200, 100, desktop.MouseButtonPrimary))

	st0 := st.session.Drawing().Strokes[0]
	p := st0.Points[0]
	if math.Abs(p.X-150) > 1e-6 || math.Abs(p.Y-200) > 1e-6 {
		t.Fatalf("drawing point = %v, want (150,200)", p)
	}
	if st0.Width != config.DefaultStrokeWidth/2.0 {
		t.Errorf("pen width should shrink with zoom, got %v", st0.Width)
	}
}

func TestReadOnlyDoesNotDraw(t *testing.T) {
	st := newTestStudio(t)
	st.sketch.SetReadOnly(true)
	st.sketch.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	st.sketch.Dragged(drag(20, 20, 10, 10))
	st.sketch.DragEnd()
	if !st.session.Drawing().IsEmpty() {
		t.Fatal("read-only widget drew a stroke")
	}
}

func TestScrollPanSnapsOnEnd(t *testing.T) {
	st := newTestStudio(t)
	s := st.sketch
	withModifiers(s, 0)

	s.Scrolled(scroll(3, 2))
	s.Scrolled(scroll(2, -5))
	if st.transform.Offset != (state.Point{X: 5, Y: -3}) {
		t.Fatalf("live offset = %v", st.transform.Offset)
	}
	s.endScroll(state.PhaseEnded)
	if st.transform.Offset != (state.Point{}) {
		t.Fatalf("small pan should snap back, got %v", st.transform.Offset)
	}

	s.Scrolled(scroll(40, 0))
	s.endScroll(state.PhaseEnded)
	if st.transform.BaselineOffset != (state.Point{X: 40}) {
		t.Fatalf("baseline = %v", st.transform.BaselineOffset)
	}
}

func TestScrollChannels(t *testing.T) {
	st := newTestStudio(t)
	s := st.sketch

	withModifiers(s, fyne.KeyModifierControl)
	s.Scrolled(scroll(0, zoomSensitivity*math.Ln2))
	if math.Abs(st.transform.Scale-2) > 1e-6 {
		t.Fatalf("scale = %v, want 2", st.transform.Scale)
	}

	withModifiers(s, fyne.KeyModifierAlt)
	s.Scrolled(scroll(0, rotateSensitivity*0.5))
	if math.Abs(st.transform.BaselineScale-2) > 1e-6 {
		t.Fatal("switching channel should commit the pinch")
	}
	if math.Abs(st.transform.Rotation-0.5) > 1e-6 {
		t.Fatalf("rotation = %v, want 0.5", st.transform.Rotation)
	}
	s.endScroll(state.PhaseEnded)
	if math.Abs(st.transform.BaselineRotation-0.5) > 1e-6 {
		t.Fatalf("baseline rotation = %v", st.transform.BaselineRotation)
	}
}

func TestSecondaryDragPans(t *testing.T) {
	st := newTestStudio(t)
	s := st.sketch
	s.MouseDown(mouse(100, 100, desktop.MouseButtonSecondary))
	s.MouseMoved(mouse(150, 120, desktop.MouseButtonSecondary))
	if st.transform.Offset != (state.Point{X: 50, Y: 20}) {
		t.Fatalf("live offset = %v", st.transform.Offset)
	}
	s.MouseUp(mouse(160, 130, desktop.MouseButtonSecondary))
	if st.transform.BaselineOffset != (state.Point{X: 60, Y: 30}) {
		t.Fatalf("baseline = %v", st.transform.BaselineOffset)
	}
	if !st.session.Drawing().IsEmpty() {
		t.Fatal("panning should not draw")
	}
}

func TestCancelGestures(t *testing.T) {
	st := newTestStudio(t)
	s := st.sketch
	withModifiers(s, 0)

	s.Scrolled(scroll(50, 50))
	s.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	s.CancelGestures()
	if st.transform.Offset != (state.Point{}) || st.transform.BaselineOffset != (state.Point{}) {
		t.Fatalf("cancel kept offset %v", st.transform.Offset)
	}
	s.MouseUp(mouse(10, 10, desktop.MouseButtonPrimary))
	if !st.session.Drawing().IsEmpty() {
		t.Fatal("cancelled stroke was committed")
	}
}

func TestResetView(t *testing.T) {
	st := newTestStudio(t)
	st.interp.Handle(state.PanEvent(state.Point{X: 80, Y: 80}, state.PhaseEnded))
	st.interp.Handle(state.PinchEvent(3, state.PhaseEnded))
	st.sketch.ResetView()
	if st.transform != state.IdentityTransform() {
		t.Fatalf("transform after reset = %+v", st.transform)
	}
}

func TestToolPickerFollowsSession(t *testing.T) {
	st := newTestStudio(t)
	if !st.picker.Visible() {
		t.Fatal("tool picker should start visible")
	}
	st.session.ToggleToolPicker()
	if st.picker.Visible() {
		t.Fatal("toggle should hide the tool picker")
	}
	st.sketch.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	st.sketch.MouseUp(mouse(10, 10, desktop.MouseButtonPrimary))
	if !st.picker.Visible() {
		t.Fatal("drawing should bring the tool picker back")
	}
}

func TestBackgroundSelect(t *testing.T) {
	st := newTestStudio(t)
	st.background.SetSelected(state.BackgroundDark.Label())
	if st.session.Background() != state.BackgroundDark {
		t.Fatalf("background = %v", st.session.Background())
	}
	st.session.SetBackground(state.BackgroundLight)
	if st.background.Selected != state.BackgroundLight.Label() {
		t.Fatalf("select shows %q", st.background.Selected)
	}
}

func TestTapShortcutsThroughInterpreter(t *testing.T) {
	st := newTestStudio(t)
	st.sketch.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	st.sketch.MouseUp(mouse(10, 10, desktop.MouseButtonPrimary))

	st.interp.Handle(state.TapEvent(4))
	if !st.session.Drawing().IsEmpty() {
		t.Fatal("clear tap left strokes")
	}
	st.interp.Handle(state.TapEvent(2))
	if len(st.session.Drawing().Strokes) != 1 {
		t.Fatal("undo tap did not bring the stroke back")
	}
	st.interp.Handle(state.TapEvent(3))
	if !st.session.Drawing().IsEmpty() {
		t.Fatal("redo tap did not clear again")
	}
}

func TestViewerShow(t *testing.T) {
	a := test.NewTempApp(t)
	v := NewViewer(a, testConfig(t))

	d := state.Drawing{}.With(state.NewStroke(state.Point{X: 1, Y: 2}, color.NRGBA{A: 255}, 2))
	v.Show(sharenet.SnapshotMessage(state.Snapshot{Seq: 4, Drawing: d, Background: state.BackgroundLight}))
	if len(v.session.Drawing().Strokes) != 1 || v.session.Background() != state.BackgroundLight {
		t.Fatalf("viewer state: %d strokes, %v", len(v.session.Drawing().Strokes), v.session.Background())
	}
	v.sketch.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	v.sketch.MouseUp(mouse(10, 10, desktop.MouseButtonPrimary))
	if len(v.session.Drawing().Strokes) != 1 {
		t.Fatal("viewer should be read-only")
	}
}
