// Package net shares a live, read-only view of a sketch with other machines.
package net

import (
	"fmt"
	"image/color"

	"Sketchpad/internal/state"
)

const MessageSnapshot = "snapshot"

// Message is the JSON frame sent to viewers.
type Message struct {
	Type       string       `json:"type"`
	Seq        uint64       `json:"seq"`
	Site       string       `json:"site"`
	Background string       `json:"background"`
	Strokes    []WireStroke `json:"strokes,omitempty"`
}

type WireStroke struct {
	ID     string      `json:"id"`
	Points []WirePoint `json:"points"`
	Color  string      `json:"color"`
	Width  float64     `json:"width"`
}

type WirePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SnapshotMessage encodes a session snapshot for the wire.
func SnapshotMessage(snap state.Snapshot) Message {
	msg := Message{
		Type:       MessageSnapshot,
		Seq:        snap.Seq,
		Site:       snap.Site,
		Background: snap.Background.String(),
		Strokes:    make([]WireStroke, 0, len(snap.Drawing.Strokes)),
	}
	for _, s := range snap.Drawing.Strokes {
		ws := WireStroke{
			ID:     s.ID,
			Points: make([]WirePoint, len(s.Points)),
			Color:  hexColor(s.Color),
			Width:  s.Width,
		}
		for i, p := range s.Points {
			ws.Points[i] = WirePoint{X: p.X, Y: p.Y}
		}
		msg.Strokes = append(msg.Strokes, ws)
	}
	return msg
}

// Drawing decodes the strokes of a snapshot message. Strokes with an
// unreadable colour are drawn black.
func (m Message) Drawing() state.Drawing {
	d := state.Drawing{Strokes: make([]state.Stroke, 0, len(m.Strokes))}
	for _, ws := range m.Strokes {
		c, err := parseHexColor(ws.Color)
		if err != nil {
			c = color.NRGBA{A: 0xff}
		}
		s := state.Stroke{ID: ws.ID, Color: c, Width: ws.Width, Points: make([]state.Point, len(ws.Points))}
		for i, p := range ws.Points {
			s.Points[i] = state.Point{X: p.X, Y: p.Y}
		}
		d.Strokes = append(d.Strokes, s)
	}
	return d
}

func (m Message) BackgroundMode() state.BackgroundMode {
	mode, err := state.ParseBackgroundMode(m.Background)
	if err != nil {
		return state.BackgroundNeutral
	}
	return mode
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func parseHexColor(s string) (color.NRGBA, error) {
	var c color.NRGBA
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
		return c, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return c, nil
}
