package editor

import "github.com/ingyamilmolinar/nodeweave/core/model"

type targetKind uint8

const (
	targetNone targetKind = iota
	targetBackground
	targetBody
	targetClose
	targetPort
)

// target is the widget a pointer is over: a node's port, close button or
// body, or the empty background.
type target struct {
	kind  targetKind
	node  model.NodeID
	param model.AnyParameterID
}

var backgroundTarget = target{kind: targetBackground, node: model.InvalidNodeID}

func (t target) onNode(id model.NodeID) bool {
	return t.kind != targetNone && t.kind != targetBackground && t.node == id
}

// primaryGesture follows one primary-button press from press to release.
// The widget under the press captures the whole gesture.
type primaryGesture struct {
	down     bool
	dragging bool
	start    Vec2
	last     Vec2
	hit      target
}

// gestureFrame is what the gesture produced in one frame.
type gestureFrame struct {
	hover       target
	captured    target
	dragStarted bool
	dragging    bool
	dragDelta   Vec2
	clicked     bool
}

func (f gestureFrame) dragStartedOn(t target) bool { return f.dragStarted && f.captured == t }

func (f gestureFrame) clickedOn(t target) bool { return f.clicked && f.captured == t }

// bodyDelta is the movement applied to node id's body this frame.
func (f gestureFrame) bodyDelta(id model.NodeID) Vec2 {
	if f.dragging && f.captured.kind == targetBody && f.captured.node == id {
		return f.dragDelta
	}
	return Vec2{}
}

func (g *primaryGesture) step(p Pointer, hover target, deadZone float64) gestureFrame {
	f := gestureFrame{hover: hover}
	pos := p.Pos

	if p.IsPressed(ButtonPrimary) && !g.down {
		*g = primaryGesture{down: true, start: pos, last: pos, hit: hover}
	} else if g.down && p.IsDown(ButtonPrimary) && pos != g.last {
		switch {
		case !g.dragging && pos.Sub(g.start).Len() > deadZone:
			g.dragging = true
			f.dragStarted = true
			f.dragDelta = pos.Sub(g.start)
		case g.dragging:
			f.dragDelta = pos.Sub(g.last)
		}
		g.last = pos
	}
	f.captured = g.hit
	f.dragging = g.dragging

	released := p.IsReleased(ButtonPrimary) || (g.down && !p.IsDown(ButtonPrimary) && !p.IsPressed(ButtonPrimary))
	if g.down && released {
		if !g.dragging && g.hit == hover {
			f.clicked = true
		}
		*g = primaryGesture{}
	}
	return f
}

func (g *primaryGesture) reset() { *g = primaryGesture{} }
