package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
)

// wireSegments is how many straight pieces approximate a wire curve.
const wireSegments = 24

// drawRect draws a rectangle. It is defined as a variable so tests can
// override it to capture draw calls.
var drawRect = func(dst *ebiten.Image, r image.Rectangle, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	} else {
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
	}
}

// drawButton renders a filled rectangle with a border.
var drawButton = func(dst *ebiten.Image, r image.Rectangle, fill, border color.Color, pressed bool) {
	fc := fill
	if pressed {
		if c, ok := fill.(color.RGBA); ok {
			fc = color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A}
		}
	}
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), fc, false)
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, border, false)
}

var drawLine = func(dst *ebiten.Image, x1, y1, x2, y2 int, col color.Color) {
	vector.StrokeLine(dst, float32(x1), float32(y1), float32(x2), float32(y2), 1, col, false)
}

var drawCircle = func(dst *ebiten.Image, c editor.Vec2, r float64, col color.Color) {
	vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), float32(r), col, true)
}

// wirePoints samples the horizontal-tangent cubic curve from an output at
// from to an input at to.
func wirePoints(from, to editor.Vec2) []editor.Vec2 {
	dx := (to.X - from.X) / 2
	if dx < 0 {
		dx = -dx
	}
	if dx < 40 {
		dx = 40
	}
	c1 := from.Add(editor.V(dx, 0))
	c2 := to.Sub(editor.V(dx, 0))
	pts := make([]editor.Vec2, 0, wireSegments+1)
	for i := 0; i <= wireSegments; i++ {
		t := float64(i) / wireSegments
		u := 1 - t
		a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		pts = append(pts, editor.V(
			a*from.X+b*c1.X+c*c2.X+d*to.X,
			a*from.Y+b*c1.Y+c*c2.Y+d*to.Y,
		))
	}
	return pts
}

var drawWire = func(dst *ebiten.Image, from, to editor.Vec2, width float64, col color.Color) {
	pts := wirePoints(from, to)
	for i := 1; i < len(pts); i++ {
		vector.StrokeLine(dst, float32(pts[i-1].X), float32(pts[i-1].Y), float32(pts[i].X), float32(pts[i].Y), float32(width), col, true)
	}
}
