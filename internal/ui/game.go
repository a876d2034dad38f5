package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
	"github.com/ingyamilmolinar/nodeweave/core/engine"
	"github.com/ingyamilmolinar/nodeweave/core/model"
	"github.com/ingyamilmolinar/nodeweave/internal/catalog"
	"github.com/ingyamilmolinar/nodeweave/internal/config"
	"github.com/ingyamilmolinar/nodeweave/internal/layout"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

const gridSpacing = 32

// Game hosts one editor.State in an ebiten window. It turns polled input into
// editor frames, runs the finder panel, keeps a background evaluation of the
// graph current and draws the result.
type Game struct {
	state   *editor.State
	catalog *catalog.Catalog
	logger  *game_log.Logger

	ptr       pointerTracker
	keys      keyEdges
	cancelKey ebiten.Key
	finder    *finderPanel

	eng     *engine.Engine
	version uint64
	dirty   bool
	result  engine.Result

	frame layout.Frame
	last  editor.GraphResponse
	winW  int
	winH  int
}

// New builds a game over an empty graph using cfg's bindings and the
// templates of cat.
func New(cfg *config.Config, cat *catalog.Catalog, logger *game_log.Logger) (*Game, error) {
	var cancel ebiten.Key
	if err := cancel.UnmarshalText([]byte(cfg.Bindings.CancelKey)); err != nil {
		return nil, fmt.Errorf("cancel key %q: %w", cfg.Bindings.CancelKey, err)
	}
	opts := cfg.EditorOptions(logger)
	return &Game{
		state:     editor.New(model.NewGraph(logger), opts),
		catalog:   cat,
		logger:    logger,
		keys:      keyEdges{},
		cancelKey: cancel,
		finder:    newFinderPanel(),
		eng:       engine.New(logger, engine.BuiltinOps()),
		dirty:     true,
		winW:      cfg.Window.Width,
		winH:      cfg.Window.Height,
	}, nil
}

// State exposes the editing session.
func (g *Game) State() *editor.State { return g.state }

// Result is the newest evaluation received from the engine.
func (g *Game) Result() engine.Result { return g.result }

// Close stops the evaluation engine.
func (g *Game) Close() { g.eng.Close() }

func (g *Game) Layout(w, h int) (int, int) {
	g.winW, g.winH = w, h
	return w, h
}

func (g *Game) Update() error {
	ptr := g.ptr.next()
	in := editor.FrameInput{
		Pointer: ptr,
		Cancel:  g.keys.pressed(g.cancelKey),
	}
	enter := g.keys.pressed(ebiten.KeyEnter)

	if f, open := g.state.Finder(); open {
		g.finder.sync(f, g.catalog)
		in.PointerOverUI = g.finder.contains(ptr.Pos)
		query, changed, choice := g.finder.update(ptr, enter)
		if changed {
			g.state.SetFinderQuery(query)
		}
		if choice != nil {
			g.logger.Debugf("[HOST] Finder picked %q", choice.Label())
			in.FinderChoice = choice
		}
	}

	if !in.PointerOverUI && g.adjustValue(ptr.Pos) {
		g.dirty = true
	}

	g.frame = layout.Compute(g.state, catalog.FormatValue)
	in.Layouts = g.frame.Layouts
	g.last = g.state.Update(in)
	g.logResponses(g.last.Responses)

	if _, open := g.state.Finder(); !open && g.finder.open {
		g.finder.close()
	}
	g.evaluate()
	g.frame = layout.Compute(g.state, catalog.FormatValue)
	g.frame.ShowOutputs(g.outputText)
	return nil
}

// evaluate submits the graph when it changed and picks up any finished
// evaluation.
func (g *Game) evaluate() {
	if g.dirty {
		g.version++
		g.eng.Submit(engine.Capture(g.state.Graph(), g.version))
		g.dirty = false
	}
	if r, ok := g.eng.Poll(); ok && r.Version >= g.result.Version {
		g.result = r
	}
}

func (g *Game) outputText(id model.OutputID) (string, bool) {
	op, ok := g.state.Graph().Output(id)
	if !ok {
		return "", false
	}
	if _, failed := g.result.Errors[op.Node]; failed {
		return "error", true
	}
	v, ok := g.result.Values[id]
	if !ok {
		return "", false
	}
	return catalog.FormatValue(v), true
}

// adjustValue scrolls the numeric constant under pos and reports whether it
// changed. Shift scrolls finer.
func (g *Game) adjustValue(pos editor.Vec2) bool {
	_, dy := wheel()
	if dy == 0 {
		return false
	}
	id, ok := g.frame.ValueAt(pos)
	if !ok {
		return false
	}
	ip, ok := g.state.Graph().Input(id)
	if !ok {
		return false
	}
	v, ok := catalog.Float(ip.Value)
	if !ok {
		return false
	}
	step := 1.0
	if isKeyPressed(ebiten.KeyShift) {
		step = 0.1
	}
	ip.Value = catalog.WithFloat(v + dy*step)
	g.logger.Debugf("[HOST] Input %d set to %s", id, catalog.FormatValue(ip.Value))
	return true
}

// logResponses logs the frame's responses and marks the graph for
// re-evaluation when one of them may have changed it.
func (g *Game) logResponses(rs []editor.NodeResponse) {
	for _, r := range rs {
		switch r.(type) {
		case editor.ConnectEnded, editor.Disconnect, editor.DeleteNode, editor.CreatedNode:
			g.dirty = true
			g.logger.Infof("[HOST] %v", r)
		case editor.RaiseNode:
			g.logger.Debugf("[HOST] %v", r)
		default:
			g.logger.Infof("[HOST] %v", r)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	g.drawGrid(screen)

	for _, w := range g.last.Wires {
		DefaultWireStyle.Draw(screen, w.From, w.To, g.outputColor(w.Output))
	}
	radius := g.state.Options().PortRadius
	for _, n := range g.frame.Nodes {
		DefaultNodeStyle.Draw(screen, n, radius, func(r layout.Row) color.Color {
			return g.catalog.Color(r.Type)
		})
	}
	if pw := g.last.PendingWire; pw != nil {
		from, to := pw.From, pw.To
		if pw.Origin.Param.Polarity() == model.PolarityInput {
			from, to = to, from
		}
		DefaultWireStyle.Draw(screen, from, to, DefaultWireStyle.Pending)
	}
	g.finder.Draw(screen)
}

// drawGrid dots the background, following the pan.
func (g *Game) drawGrid(screen *ebiten.Image) {
	pan := g.state.Pan()
	ox := int(pan.X) % gridSpacing
	oy := int(pan.Y) % gridSpacing
	for x := ox; x < g.winW; x += gridSpacing {
		for y := oy; y < g.winH; y += gridSpacing {
			drawCircle(screen, editor.V(float64(x), float64(y)), 1, colGridDot)
		}
	}
}

func (g *Game) outputColor(id model.OutputID) color.Color {
	op, ok := g.state.Graph().Output(id)
	if !ok {
		return colTextDim
	}
	return g.catalog.Color(op.Type)
}
