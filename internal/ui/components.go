package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
	"github.com/ingyamilmolinar/nodeweave/core/model"
	"github.com/ingyamilmolinar/nodeweave/internal/layout"
)

// NodeStyle defines the visual appearance of graph nodes.
type NodeStyle struct {
	Body     color.Color
	Title    color.Color
	Border   color.Color
	Selected color.Color
	Close    color.Color
	ValueBox color.Color
}

// Draw renders one laid-out node. portColor picks the fill of each port.
func (s NodeStyle) Draw(dst *ebiten.Image, n layout.Node, portRadius float64, portColor func(layout.Row) color.Color) {
	body := toImageRect(n.Body)
	drawRect(dst, body, s.Body, true)
	drawRect(dst, toImageRect(n.Title), s.Title, true)
	border := s.Border
	if n.Selected {
		border = s.Selected
	}
	drawRect(dst, body, border, false)
	ebitenutil.DebugPrintAt(dst, n.Label, body.Min.X+textPad, body.Min.Y+(int(layout.TitleHeight)-debugCharH)/2)

	cr := toImageRect(n.Close)
	drawRect(dst, cr, s.Close, true)
	drawLine(dst, cr.Min.X+2, cr.Min.Y+2, cr.Max.X-3, cr.Max.Y-3, colText)
	drawLine(dst, cr.Max.X-3, cr.Min.Y+2, cr.Min.X+2, cr.Max.Y-3, colText)

	for _, r := range n.Rows {
		rr := toImageRect(r.Rect)
		ty := rr.Min.Y + (rr.Dy()-debugCharH)/2
		if r.Param.Polarity() == model.PolarityInput {
			ebitenutil.DebugPrintAt(dst, r.Name, rr.Min.X+textPad*2, ty)
		} else {
			ebitenutil.DebugPrintAt(dst, r.Name, rr.Max.X-textPad*2-debugCharW*len(r.Name), ty)
		}
		if r.Value != "" {
			vr := toImageRect(r.ValueRect)
			drawRect(dst, vr, s.ValueBox, true)
			ebitenutil.DebugPrintAt(dst, r.Value, vr.Min.X+textPad, vr.Min.Y+(vr.Dy()-debugCharH)/2)
		}
		if r.HasPort {
			drawCircle(dst, r.Port, portRadius, portColor(r))
		}
	}
}

// WireStyle draws committed and in-flight connections.
type WireStyle struct {
	Width   float64
	Pending color.Color
}

func (s WireStyle) Draw(dst *ebiten.Image, from, to editor.Vec2, col color.Color) {
	drawWire(dst, from, to, s.Width, col)
}

// ButtonStyle describes rectangular button visuals.
type ButtonStyle struct {
	Fill   color.Color
	Hover  color.Color
	Border color.Color
}

func (s ButtonStyle) Draw(dst *ebiten.Image, r image.Rectangle, pressed, hovered bool) {
	fill := s.Fill
	if hovered && s.Hover != nil {
		fill = s.Hover
	}
	drawButton(dst, r, fill, s.Border, pressed)
}

// TextInputStyle styles a text input box.
type TextInputStyle struct {
	Fill   color.Color
	Border color.Color
	Focus  color.Color
}

func (s TextInputStyle) Draw(dst *ebiten.Image, r image.Rectangle, focused bool) {
	border := s.Border
	if focused && s.Focus != nil {
		border = s.Focus
	}
	drawButton(dst, r, s.Fill, border, false)
}

var (
	DefaultNodeStyle = NodeStyle{
		Body:     colNodeBody,
		Title:    colNodeTitle,
		Border:   colNodeBorder,
		Selected: colNodeSelected,
		Close:    colClose,
		ValueBox: colValueBox,
	}
	DefaultWireStyle = WireStyle{Width: 2, Pending: colTextDim}
	FinderItemStyle  = ButtonStyle{Fill: colItem, Hover: colItemHover, Border: colPanel}
	FinderQueryStyle = TextInputStyle{Fill: colValueBox, Border: colPanelBorder, Focus: colNodeSelected}
)
