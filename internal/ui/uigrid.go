package ui

import (
	"image"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	// Ebiten's debug font uses a 6x13 glyph.
	debugCharW = 6
	debugCharH = 13

	textPad = 4
)

// ButtonVisual is implemented by styles capable of drawing a button.
type ButtonVisual interface {
	Draw(dst *ebiten.Image, r image.Rectangle, pressed, hovered bool)
}

// Button is a clickable rectangle with a text label. Text is left aligned
// so lists of buttons read as a menu.
type Button struct {
	r       image.Rectangle
	Text    string
	Style   ButtonVisual
	OnClick func()
	pressed bool
	hovered bool
}

// NewButton constructs a button with the given label, style, and optional click handler.
func NewButton(text string, style ButtonVisual, onClick func()) *Button {
	return &Button{Text: text, Style: style, OnClick: onClick}
}

// Rect returns the button's bounds.
func (b *Button) Rect() image.Rectangle { return b.r }

// SetRect sets the button's bounds.
func (b *Button) SetRect(r image.Rectangle) { b.r = r }

// Draw renders the button and its truncated label.
func (b *Button) Draw(dst *ebiten.Image) {
	if b.Style != nil {
		b.Style.Draw(dst, b.r, b.pressed, b.hovered)
	}
	ebitenutil.DebugPrintAt(dst, b.label(), b.r.Min.X+textPad, b.r.Min.Y+(b.r.Dy()-debugCharH)/2)
}

// label truncates the text to the button width.
func (b *Button) label() string {
	maxRunes := (b.r.Dx() - textPad*2) / debugCharW
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(b.Text) <= maxRunes {
		return b.Text
	}
	return b.Text[:byteIndex(b.Text, maxRunes-1)] + "~"
}

// Handle processes the pointer at (mx,my). OnClick fires on the frame the
// button is pressed inside the rectangle.
func (b *Button) Handle(mx, my int, pressed bool) bool {
	inside := image.Pt(mx, my).In(b.r)
	b.hovered = inside
	if pressed && inside {
		if !b.pressed && b.OnClick != nil {
			b.OnClick()
		}
		b.pressed = true
		return true
	}
	b.pressed = false
	return false
}
