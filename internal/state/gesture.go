package state

import "log"

type Channel int

const (
	ChannelPan Channel = iota
	ChannelPinch
	ChannelRotate
	ChannelTap
)

func (c Channel) String() string {
	switch c {
	case ChannelPan:
		return "pan"
	case ChannelPinch:
		return "pinch"
	case ChannelRotate:
		return "rotate"
	case ChannelTap:
		return "tap"
	default:
		return "unknown"
	}
}

type Phase int

const (
	PhaseChanged Phase = iota
	PhaseEnded
	PhaseCancelled
)

// GestureEvent is one callback from a gesture source. Translation, Scale and
// Angle carry the cumulative value since the gesture began, not a step.
// Fingers is only read for taps.
type GestureEvent struct {
	Channel     Channel
	Phase       Phase
	Translation Point
	Scale       float64
	Angle       float64
	Fingers     int
}

func PanEvent(translation Point, phase Phase) GestureEvent {
	return GestureEvent{Channel: ChannelPan, Phase: phase, Translation: translation}
}

func PinchEvent(scale float64, phase Phase) GestureEvent {
	return GestureEvent{Channel: ChannelPinch, Phase: phase, Scale: scale}
}

func RotateEvent(angle float64, phase Phase) GestureEvent {
	return GestureEvent{Channel: ChannelRotate, Phase: phase, Angle: angle}
}

func TapEvent(fingers int) GestureEvent {
	return GestureEvent{Channel: ChannelTap, Phase: PhaseEnded, Fingers: fingers}
}

// TapHandler receives discrete tap gestures.
type TapHandler interface {
	Tap(fingers int)
}

// Interpreter turns gesture events into transform updates. Each continuous
// channel is evaluated independently on every event.
type Interpreter struct {
	Transform *TransformState
	Taps      TapHandler
}

func NewInterpreter(t *TransformState, taps TapHandler) *Interpreter {
	return &Interpreter{Transform: t, Taps: taps}
}

// Handle applies ev to the transform. A cancelled gesture drops its delta:
// the live value returns to the baseline and nothing is committed.
func (in *Interpreter) Handle(ev GestureEvent) {
	t := in.Transform
	ended := ev.Phase == PhaseEnded
	switch ev.Channel {
	case ChannelPan:
		if ev.Phase == PhaseCancelled {
			t.Offset = t.BaselineOffset
			return
		}
		t.pan(ev.Translation, ended)
	case ChannelPinch:
		if ev.Phase == PhaseCancelled {
			t.Scale = t.BaselineScale
			return
		}
		t.pinch(ev.Scale, ended)
	case ChannelRotate:
		if ev.Phase == PhaseCancelled {
			t.Rotation = t.BaselineRotation
			return
		}
		t.rotate(ev.Angle, ended)
	case ChannelTap:
		if in.Taps != nil && ev.Phase == PhaseEnded {
			in.Taps.Tap(ev.Fingers)
		}
	default:
		log.Printf("[GESTURE] Ignoring event on %s channel", ev.Channel)
	}
}

// Reset puts both live and committed values back to identity.
func (in *Interpreter) Reset() {
	*in.Transform = IdentityTransform()
}
