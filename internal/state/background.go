package state

import (
	"fmt"
	"image/color"
)

type BackgroundMode int

const (
	BackgroundDark BackgroundMode = iota
	BackgroundNeutral
	BackgroundLight
)

// BackgroundModes lists every mode in menu order.
var BackgroundModes = []BackgroundMode{BackgroundDark, BackgroundNeutral, BackgroundLight}

func (m BackgroundMode) String() string {
	switch m {
	case BackgroundDark:
		return "dark"
	case BackgroundNeutral:
		return "neutral"
	case BackgroundLight:
		return "light"
	default:
		return fmt.Sprintf("BackgroundMode(%d)", int(m))
	}
}

// Label is the user facing name of the mode.
func (m BackgroundMode) Label() string {
	switch m {
	case BackgroundDark:
		return "Black"
	case BackgroundLight:
		return "White"
	default:
		return "Gray"
	}
}

func (m BackgroundMode) Color() color.NRGBA {
	switch m {
	case BackgroundDark:
		return color.NRGBA{A: 0xff}
	case BackgroundLight:
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	default:
		return color.NRGBA{R: 0xae, G: 0xae, B: 0xb2, A: 0xff}
	}
}

func ParseBackgroundMode(s string) (BackgroundMode, error) {
	for _, m := range BackgroundModes {
		if s == m.String() || s == m.Label() {
			return m, nil
		}
	}
	return BackgroundNeutral, fmt.Errorf("unknown background mode %q", s)
}
