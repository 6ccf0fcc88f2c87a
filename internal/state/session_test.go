package state

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

type stubRenderer struct {
	calls []color.Color
	err   error
}

func (r *stubRenderer) Render(d Drawing, frame Rect, bg color.Color) (*image.RGBA, error) {
	r.calls = append(r.calls, bg)
	if r.err != nil {
		return nil, r.err
	}
	return image.NewRGBA(image.Rect(0, 0, int(frame.Dx()), int(frame.Dy()))), nil
}

type stubSink struct {
	images []image.Image
	err    error
}

func (s *stubSink) WriteImage(img image.Image) error {
	s.images = append(s.images, img)
	return s.err
}

var testFrame = Rect{Max: Point{100, 100}}

func line(x0, y0, x1, y1 float64) Stroke {
	s := NewStroke(Point{x0, y0}, color.NRGBA{A: 0xff}, 2)
	s.Points = append(s.Points, Point{x1, y1})
	return s
}

func newTestSession() (*Session, *stubRenderer, *stubSink) {
	r, sink := &stubRenderer{}, &stubSink{}
	return NewSession(testFrame, r, sink), r, sink
}

func TestDrawingEmptiness(t *testing.T) {
	if !(Drawing{}).IsEmpty() {
		t.Fatal("zero drawing should be empty")
	}
	if !(Drawing{Strokes: []Stroke{{Width: 2}}}).IsEmpty() {
		t.Fatal("stroke without points should be empty")
	}
	d := Drawing{}.With(line(10, 10, 20, 30))
	if d.IsEmpty() {
		t.Fatal("drawing with a line should not be empty")
	}
	b := d.Bounds()
	if b.Min != (Point{9, 9}) || b.Max != (Point{21, 31}) {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestContentChangedSavesSnapshot(t *testing.T) {
	s, r, _ := newTestSession()
	s.ToggleToolPicker()
	if s.ToolPickerVisible() {
		t.Fatal("tool picker should be hidden after toggle")
	}

	s.AddStroke(line(0, 0, 10, 10))
	if !s.ToolPickerVisible() {
		t.Fatal("content change should force the tool picker visible")
	}
	saved := s.Saved()
	if len(saved.Drawing.Strokes) != 1 || saved.Image == nil {
		t.Fatalf("snapshot not refreshed: %+v", saved)
	}
	if saved.Seq != 1 || saved.Site != s.Site() {
		t.Fatalf("snapshot stamp = %d/%s", saved.Seq, saved.Site)
	}
	if len(r.calls) != 1 || r.calls[0] != color.Transparent {
		t.Fatalf("snapshot raster calls = %v", r.calls)
	}
}

func TestContentChangedEmptyKeepsSnapshot(t *testing.T) {
	s, _, _ := newTestSession()
	s.AddStroke(line(0, 0, 10, 10))
	s.ToggleToolPicker()
	s.Clear()
	if !s.Drawing().IsEmpty() {
		t.Fatal("clear left strokes behind")
	}
	if !s.ToolPickerVisible() {
		t.Fatal("tool picker should be visible after clear")
	}
	if len(s.Saved().Drawing.Strokes) != 1 {
		t.Fatal("empty content must not overwrite the snapshot")
	}
}

func TestRestoreSaved(t *testing.T) {
	s, _, _ := newTestSession()
	s.RestoreSaved()
	if !s.Drawing().IsEmpty() || s.History().CanUndo() {
		t.Fatal("restore without a snapshot should do nothing")
	}

	s.AddStroke(line(0, 0, 10, 10))
	s.Clear()
	s.RestoreSaved()
	if len(s.Drawing().Strokes) != 1 {
		t.Fatalf("restore gave %d strokes", len(s.Drawing().Strokes))
	}
}

func TestRestoreWithoutSaveLeavesContent(t *testing.T) {
	s, _, _ := newTestSession()
	s.Replace(Drawing{Strokes: []Stroke{{Width: 1}}})
	before := s.Drawing()
	s.RestoreSaved()
	s.RestoreSaved()
	if len(s.Drawing().Strokes) != len(before.Strokes) {
		t.Fatal("restore changed content")
	}
}

func TestExportCurrent(t *testing.T) {
	s, r, sink := newTestSession()
	s.ExportCurrent()
	if len(sink.images) != 0 || len(r.calls) != 0 {
		t.Fatal("export of empty content should be a no-op")
	}

	s.SetBackground(BackgroundDark)
	s.AddStroke(line(0, 0, 10, 10))
	s.ExportCurrent()
	if len(sink.images) != 1 {
		t.Fatalf("sink got %d images", len(sink.images))
	}
	if got := r.calls[len(r.calls)-1]; got != BackgroundDark.Color() {
		t.Fatalf("export background = %v", got)
	}

	sink.err = errors.New("permission denied")
	s.ExportCurrent()
	if len(sink.images) != 2 {
		t.Fatal("sink error should not stop the hand-off")
	}
}

func TestFourFingerTapClears(t *testing.T) {
	s, _, _ := newTestSession()
	tr := IdentityTransform()
	in := NewInterpreter(&tr, HistoryBridge{History: s.History(), Canvas: s})

	in.Handle(TapEvent(4))
	if !s.Drawing().IsEmpty() {
		t.Fatal("clear on empty canvas should stay empty")
	}

	s.AddStroke(line(0, 0, 10, 10))
	s.AddStroke(line(5, 5, 50, 50))
	in.Handle(TapEvent(4))
	if !s.Drawing().IsEmpty() {
		t.Fatal("four finger tap should clear the canvas")
	}

	in.Handle(TapEvent(2))
	if len(s.Drawing().Strokes) != 2 {
		t.Fatalf("undo after clear gave %d strokes", len(s.Drawing().Strokes))
	}
}

func TestUndoRedoTaps(t *testing.T) {
	s, _, _ := newTestSession()
	tr := IdentityTransform()
	in := NewInterpreter(&tr, HistoryBridge{History: s.History(), Canvas: s})

	in.Handle(TapEvent(2))
	in.Handle(TapEvent(3))
	if !s.Drawing().IsEmpty() {
		t.Fatal("undo/redo with no history should be a no-op")
	}

	s.AddStroke(line(0, 0, 10, 10))
	in.Handle(TapEvent(2))
	if !s.Drawing().IsEmpty() {
		t.Fatal("undo should remove the stroke")
	}
	in.Handle(TapEvent(3))
	if len(s.Drawing().Strokes) != 1 {
		t.Fatal("redo should bring the stroke back")
	}

	in.Handle(TapEvent(2))
	s.AddStroke(line(1, 1, 2, 2))
	if s.History().CanRedo() {
		t.Fatal("a new change should drop the redo stack")
	}

	in.Handle(TapEvent(5))
	if len(s.Drawing().Strokes) != 1 {
		t.Fatal("five finger tap should be ignored")
	}
}

func TestSubscribeAndBackground(t *testing.T) {
	s, _, _ := newTestSession()
	var got []Snapshot
	s.Subscribe(func(snap Snapshot) { got = append(got, snap) })
	changes := 0
	s.OnChange = func() { changes++ }

	s.SetBackground(BackgroundLight)
	s.SetBackground(BackgroundLight)
	s.AddStroke(line(0, 0, 10, 10))
	s.AddStroke(line(0, 0, 20, 10))
	if len(got) != 2 || got[1].Seq <= got[0].Seq {
		t.Fatalf("snapshots = %+v", got)
	}
	if got[0].Background != BackgroundLight {
		t.Fatalf("snapshot background = %v", got[0].Background)
	}
	if changes != 3 {
		t.Fatalf("OnChange fired %d times, want 3", changes)
	}
}

func TestSnapshotRasterFailureStillSaves(t *testing.T) {
	s, r, _ := newTestSession()
	r.err = errors.New("boom")
	s.AddStroke(line(0, 0, 10, 10))
	if len(s.Saved().Drawing.Strokes) != 1 || s.Saved().Image != nil {
		t.Fatalf("saved = %+v", s.Saved())
	}
}

func TestParseBackgroundMode(t *testing.T) {
	for _, m := range BackgroundModes {
		got, err := ParseBackgroundMode(m.String())
		if err != nil || got != m {
			t.Errorf("parse %q = %v, %v", m, got, err)
		}
	}
	if _, err := ParseBackgroundMode("purple"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestBackgroundChangeRepublishesContent(t *testing.T) {
	s, _, _ := newTestSession()
	var got []Snapshot
	s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.AddStroke(line(0, 0, 10, 10))
	s.SetBackground(BackgroundDark)
	if len(got) != 2 || got[1].Background != BackgroundDark {
		t.Fatalf("snapshots = %+v", got)
	}

	s.Clear()
	s.SetBackground(BackgroundLight)
	if len(got) != 2 {
		t.Fatal("background change on an empty canvas should not publish")
	}
}
