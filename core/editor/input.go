package editor

import (
	"fmt"
	"strings"

	"github.com/ingyamilmolinar/nodeweave/core/model"
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle

	buttonCount
)

func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	case ButtonMiddle:
		return "middle"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// ButtonFromString parses the names produced by Button.String.
func ButtonFromString(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "left":
		return ButtonPrimary, nil
	case "secondary", "right":
		return ButtonSecondary, nil
	case "middle":
		return ButtonMiddle, nil
	default:
		return 0, fmt.Errorf("unknown pointer button %q", s)
	}
}

// Pointer is the pointer state for one frame. Pressed and Released are edge
// flags for this frame; Down is the held state.
type Pointer struct {
	Pos      Vec2
	Delta    Vec2
	Down     [buttonCount]bool
	Pressed  [buttonCount]bool
	Released [buttonCount]bool
}

func (p Pointer) IsDown(b Button) bool     { return b >= 0 && b < buttonCount && p.Down[b] }
func (p Pointer) IsPressed(b Button) bool  { return b >= 0 && b < buttonCount && p.Pressed[b] }
func (p Pointer) IsReleased(b Button) bool { return b >= 0 && b < buttonCount && p.Released[b] }

func (p Pointer) AnyReleased() bool {
	for _, r := range p.Released {
		if r {
			return true
		}
	}
	return false
}

// PortLayout is where the renderer drew one port this frame.
type PortLayout struct {
	Param  model.AnyParameterID
	Center Vec2
}

// NodeLayout is what the layout collaborator resolved for one node this
// frame, in screen space. User carries payloads the node's custom body chose
// to emit.
type NodeLayout struct {
	Body  Rect
	Close Rect
	Ports []PortLayout
	User  []any
}

// FrameInput is everything the editor consumes for one frame.
type FrameInput struct {
	Pointer Pointer
	// Cancel is the cancel key's press edge.
	Cancel  bool
	Layouts map[model.NodeID]NodeLayout
	// PointerOverUI is set while a host overlay (such as the finder panel)
	// is under the pointer; the canvas then sees no hover.
	PointerOverUI bool
	// FinderChoice is the template picked in the open finder this frame.
	FinderChoice NodeTemplate
}
