package ui

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
)

var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	isKeyPressed         = ebiten.IsKeyPressed
	inputChars           = ebiten.AppendInputChars
	wheel                = ebiten.Wheel
)

// SetInputForTest replaces input functions during tests and returns a function
// to restore the originals.
func SetInputForTest(
	cursor func() (int, int),
	mouse func(ebiten.MouseButton) bool,
	key func(ebiten.Key) bool,
	chars func([]rune) []rune,
	wh func() (float64, float64),
) func() {
	oldCursor := cursorPosition
	oldMouse := isMouseButtonPressed
	oldKey := isKeyPressed
	oldChars := inputChars
	oldWheel := wheel
	cursorPosition = cursor
	isMouseButtonPressed = mouse
	isKeyPressed = key
	inputChars = chars
	wheel = wh
	return func() {
		cursorPosition = oldCursor
		isMouseButtonPressed = oldMouse
		isKeyPressed = oldKey
		inputChars = oldChars
		wheel = oldWheel
	}
}

// mouseButtons maps editor buttons to ebiten buttons.
var mouseButtons = map[editor.Button]ebiten.MouseButton{
	editor.ButtonPrimary:   ebiten.MouseButtonLeft,
	editor.ButtonSecondary: ebiten.MouseButtonRight,
	editor.ButtonMiddle:    ebiten.MouseButtonMiddle,
}

// pointerTracker turns polled mouse state into per-frame pointer edges.
type pointerTracker struct {
	prevDown [3]bool
	prevPos  editor.Vec2
	started  bool
}

func (t *pointerTracker) next() editor.Pointer {
	x, y := cursorPosition()
	var p editor.Pointer
	p.Pos = editor.V(float64(x), float64(y))
	if t.started {
		p.Delta = p.Pos.Sub(t.prevPos)
	}
	for b, mb := range mouseButtons {
		down := isMouseButtonPressed(mb)
		p.Down[b] = down
		p.Pressed[b] = down && !t.prevDown[b]
		p.Released[b] = !down && t.prevDown[b]
		t.prevDown[b] = down
	}
	t.prevPos = p.Pos
	t.started = true
	return p
}

// keyEdges reports keys on the frame they go down.
type keyEdges map[ebiten.Key]bool

func (k keyEdges) pressed(key ebiten.Key) bool {
	down := isKeyPressed(key)
	was := k[key]
	k[key] = down
	return down && !was
}
