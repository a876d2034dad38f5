package ui

import (
	"image"
	"math"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
)

// toImageRect converts an editor rectangle to pixels, rounding outwards.
func toImageRect(r editor.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}

func toVec(p image.Point) editor.Vec2 { return editor.V(float64(p.X), float64(p.Y)) }

func toPoint(v editor.Vec2) image.Point { return image.Pt(int(math.Round(v.X)), int(math.Round(v.Y))) }
