package ui

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
)

const (
	finderWidth   = 200
	finderRowH    = 20
	finderMaxRows = 12
)

// finderPanel is the on-screen side of an open editor.NodeFinder: a query
// box over a list of matching templates.
type finderPanel struct {
	open    bool
	anchor  editor.Vec2
	rect    image.Rectangle
	query   *TextInput
	items   []*Button
	matches []editor.NodeTemplate
	chosen  editor.NodeTemplate
}

func newFinderPanel() *finderPanel {
	return &finderPanel{query: NewTextInput(image.Rectangle{}, FinderQueryStyle)}
}

// sync follows the editor's finder: a newly opened finder resets the panel
// at its anchor.
func (p *finderPanel) sync(f editor.NodeFinder, src editor.TemplateSource) {
	if !p.open || p.anchor != f.Position {
		p.open = true
		p.anchor = f.Position
		p.query.SetText(f.Query)
		p.query.Focus()
	}
	p.refresh(f, src)
}

func (p *finderPanel) close() {
	p.open = false
	p.items = nil
	p.matches = nil
	p.chosen = nil
}

func (p *finderPanel) refresh(f editor.NodeFinder, src editor.TemplateSource) {
	p.matches = f.Matches(src)
	if len(p.matches) > finderMaxRows {
		p.matches = p.matches[:finderMaxRows]
	}
	origin := toPoint(p.anchor)
	p.query.Rect = image.Rect(origin.X, origin.Y, origin.X+finderWidth, origin.Y+finderRowH)
	p.items = p.items[:0]
	for i, t := range p.matches {
		t := t
		b := NewButton(t.Label(), FinderItemStyle, func() { p.chosen = t })
		y := origin.Y + finderRowH*(i+1)
		b.SetRect(image.Rect(origin.X, y, origin.X+finderWidth, y+finderRowH))
		p.items = append(p.items, b)
	}
	p.rect = image.Rect(origin.X, origin.Y, origin.X+finderWidth, origin.Y+finderRowH*(len(p.items)+1))
}

// contains reports whether pos is over the panel.
func (p *finderPanel) contains(pos editor.Vec2) bool {
	return p.open && toPoint(pos).In(p.rect)
}

// update runs the query box and the item buttons. It returns the template
// picked this frame, if any. Enter picks the first match.
func (p *finderPanel) update(ptr editor.Pointer, enter bool) (query string, changed bool, choice editor.NodeTemplate) {
	pt := toPoint(ptr.Pos)
	changed = p.query.Update(ptr.IsPressed(editor.ButtonPrimary), pt.X, pt.Y)
	p.chosen = nil
	for _, b := range p.items {
		b.Handle(pt.X, pt.Y, ptr.IsPressed(editor.ButtonPrimary))
	}
	if p.chosen == nil && enter && len(p.matches) > 0 {
		p.chosen = p.matches[0]
	}
	return p.query.Value(), changed, p.chosen
}

func (p *finderPanel) Draw(dst *ebiten.Image) {
	if !p.open {
		return
	}
	drawButton(dst, p.rect, colPanel, colPanelBorder, false)
	p.query.Draw(dst)
	for _, b := range p.items {
		b.Draw(dst)
	}
}
