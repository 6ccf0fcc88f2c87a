package state

import (
	"image"
	"image/color"
	"log"
)

// Renderer rasterises a drawing over the given frame. A transparent
// background leaves uncovered pixels empty.
type Renderer interface {
	Render(d Drawing, frame Rect, bg color.Color) (*image.RGBA, error)
}

// ImageSink stores an exported image, e.g. in the user's pictures.
type ImageSink interface {
	WriteImage(img image.Image) error
}

// VectorSink stores the drawing in a vector format.
type VectorSink interface {
	WriteDrawing(d Drawing, bg color.Color) error
}

// Snapshot is the last non-empty content the session saw.
type Snapshot struct {
	Seq        uint64
	Site       string
	Drawing    Drawing
	Image      *image.RGBA
	Background BackgroundMode
}

// Session owns the canvas content and everything that hangs off it. It is
// confined to the UI goroutine.
type Session struct {
	Frame Rect

	drawing    Drawing
	saved      Snapshot
	background BackgroundMode
	toolPicker bool

	history  *History
	clock    *Clock
	renderer Renderer
	sink     ImageSink

	listeners []func(Snapshot)

	// OnChange is called after anything visible changed.
	OnChange func()
}

func NewSession(frame Rect, renderer Renderer, sink ImageSink) *Session {
	s := &Session{
		Frame:      frame,
		background: BackgroundNeutral,
		toolPicker: true,
		clock:      NewClock(),
		renderer:   renderer,
		sink:       sink,
	}
	s.history = NewHistory(s)
	return s
}

func (s *Session) History() *History          { return s.history }
func (s *Session) Drawing() Drawing           { return s.drawing }
func (s *Session) Saved() Snapshot            { return s.saved }
func (s *Session) Background() BackgroundMode { return s.background }
func (s *Session) ToolPickerVisible() bool    { return s.toolPicker }
func (s *Session) Site() string               { return s.clock.Site() }

// Replace swaps the current content without touching history and reports a
// content change, the way an ink surface would after its drawing is set.
func (s *Session) Replace(d Drawing) {
	s.drawing = d
	s.OnContentChanged()
}

// SetDrawing replaces the content as an undoable change.
func (s *Session) SetDrawing(d Drawing) {
	s.history.Record(s.drawing)
	s.Replace(d)
}

func (s *Session) AddStroke(st Stroke) {
	s.SetDrawing(s.drawing.With(st))
}

// Clear drops all current strokes. The history still holds them.
func (s *Session) Clear() {
	s.SetDrawing(Drawing{})
}

// OnContentChanged brings the tool picker back and, for non-empty content,
// refreshes the saved snapshot.
func (s *Session) OnContentChanged() {
	s.toolPicker = true
	if !s.drawing.IsEmpty() {
		s.save()
	}
	s.changed()
}

func (s *Session) save() {
	snap := Snapshot{
		Seq:        s.clock.Next(),
		Site:       s.clock.Site(),
		Drawing:    s.drawing,
		Background: s.background,
	}
	if s.renderer != nil {
		img, err := s.renderer.Render(s.drawing, s.Frame, color.Transparent)
		if err != nil {
			log.Printf("[SESSION] Snapshot raster failed: %v", err)
		}
		snap.Image = img
	}
	s.saved = snap
	for _, fn := range s.listeners {
		fn(snap)
	}
}

// RestoreSaved puts the last saved content back on the canvas. Without a
// non-empty snapshot it does nothing.
func (s *Session) RestoreSaved() {
	if s.saved.Drawing.IsEmpty() {
		return
	}
	s.SetDrawing(s.saved.Drawing)
}

// ExportCurrent rasterises the current content over the background and hands
// it to the image sink. Empty content is skipped. Sink failures are logged.
func (s *Session) ExportCurrent() {
	if s.drawing.IsEmpty() || s.renderer == nil || s.sink == nil {
		return
	}
	img, err := s.renderer.Render(s.drawing, s.Frame, s.background.Color())
	if err != nil {
		log.Printf("[SESSION] Export raster failed: %v", err)
		return
	}
	if err := s.sink.WriteImage(img); err != nil {
		log.Printf("[SESSION] Export failed: %v", err)
	}
}

// ExportVector writes the current content to a vector sink. Empty content is
// skipped.
func (s *Session) ExportVector(sink VectorSink) error {
	if s.drawing.IsEmpty() {
		return nil
	}
	return sink.WriteDrawing(s.drawing, s.background.Color())
}

func (s *Session) SetBackground(m BackgroundMode) {
	if m == s.background {
		return
	}
	s.background = m
	if !s.drawing.IsEmpty() {
		s.save()
	}
	s.changed()
}

func (s *Session) ToggleToolPicker() {
	s.toolPicker = !s.toolPicker
	s.changed()
}

// Subscribe registers fn for every refreshed snapshot.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}
