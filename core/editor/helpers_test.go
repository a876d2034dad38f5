package editor

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/nodeweave/core/model"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

var testLogger *game_log.Logger

func init() {
	testLogger = game_log.New(io.Discard, game_log.LevelDebug)
}

const (
	number model.DataType = "number"
	text   model.DataType = "text"

	bodyW     = 100.0
	bodyH     = 60.0
	portStart = 20.0
	portStep  = 15.0
)

type inSpec struct {
	name string
	typ  model.DataType
	kind model.InputParamKind
}

// testTemplate is a fixed node type used across the editor tests.
type testTemplate struct {
	label   string
	inputs  []inSpec
	outputs []model.DataType
	data    any
}

func (t testTemplate) Label() string  { return t.label }
func (t testTemplate) UserData() any  { return t.data }
func (t testTemplate) Build(g *model.Graph, id model.NodeID) error {
	for _, in := range t.inputs {
		if _, err := g.AddInputParam(id, in.name, in.typ, 0.0, in.kind, true); err != nil {
			return err
		}
	}
	for _, out := range t.outputs {
		if _, err := g.AddOutputParam(id, "out", out); err != nil {
			return err
		}
	}
	return nil
}

type templates []NodeTemplate

func (ts templates) Templates() []NodeTemplate { return ts }

func newState(t *testing.T) *State {
	t.Helper()
	opts := DefaultOptions()
	opts.Debug = true
	opts.Logger = testLogger
	return New(model.NewGraph(testLogger), opts)
}

func mustAdd(t *testing.T, s *State, tpl testTemplate, pos Vec2) model.NodeID {
	t.Helper()
	id, err := s.AddNode(tpl, pos)
	require.NoError(t, err)
	return id
}

func inputOf(t *testing.T, s *State, node model.NodeID, i int) model.InputID {
	t.Helper()
	n, ok := s.Graph().Node(node)
	require.True(t, ok)
	return n.Inputs[i].ID
}

func outputOf(t *testing.T, s *State, node model.NodeID, i int) model.OutputID {
	t.Helper()
	n, ok := s.Graph().Node(node)
	require.True(t, ok)
	return n.Outputs[i].ID
}

// layouts lays every node out as a bodyW×bodyH box at its screen position,
// inputs down the left edge, outputs down the right edge, close button in
// the top right corner.
func layouts(s *State) map[model.NodeID]NodeLayout {
	out := map[model.NodeID]NodeLayout{}
	for _, id := range s.NodeOrder() {
		pos, _ := s.ScreenPosition(id)
		n, _ := s.Graph().Node(id)
		lay := NodeLayout{
			Body:  Rect{Min: pos, Max: pos.Add(V(bodyW, bodyH))},
			Close: RectFromCenter(pos.Add(V(bodyW-10, 8)), 5, 5),
		}
		for i, in := range n.Inputs {
			lay.Ports = append(lay.Ports, PortLayout{Param: model.InputParam(in.ID), Center: inputPos(pos, i)})
		}
		for i, o := range n.Outputs {
			lay.Ports = append(lay.Ports, PortLayout{Param: model.OutputParam(o.ID), Center: outputPos(pos, i)})
		}
		out[id] = lay
	}
	return out
}

func inputPos(node Vec2, i int) Vec2  { return node.Add(V(0, portStart+portStep*float64(i))) }
func outputPos(node Vec2, i int) Vec2 { return node.Add(V(bodyW, portStart+portStep*float64(i))) }

// driver feeds pointer frames to a State, tracking the previous position so
// deltas are realistic.
type driver struct {
	t    *testing.T
	s    *State
	last Vec2
	// user payloads reported by the "renderer" on the next frame
	user map[model.NodeID][]any
}

func newDriver(t *testing.T, s *State) *driver { return &driver{t: t, s: s} }

func (d *driver) run(p Pointer, edit func(*FrameInput)) GraphResponse {
	d.t.Helper()
	p.Delta = p.Pos.Sub(d.last)
	d.last = p.Pos
	lays := layouts(d.s)
	for id, payloads := range d.user {
		l := lays[id]
		l.User = payloads
		lays[id] = l
	}
	d.user = nil
	in := FrameInput{Pointer: p, Layouts: lays}
	if edit != nil {
		edit(&in)
	}
	resp := d.s.Update(in)
	require.NoError(d.t, d.s.CheckInvariants())
	return resp
}

func (d *driver) hover(pos Vec2) GraphResponse {
	return d.run(Pointer{Pos: pos}, nil)
}

func (d *driver) press(pos Vec2) GraphResponse {
	var p Pointer
	p.Pos = pos
	p.Down[ButtonPrimary] = true
	p.Pressed[ButtonPrimary] = true
	return d.run(p, nil)
}

func (d *driver) move(pos Vec2) GraphResponse {
	var p Pointer
	p.Pos = pos
	p.Down[ButtonPrimary] = true
	return d.run(p, nil)
}

func (d *driver) release(pos Vec2) GraphResponse {
	var p Pointer
	p.Pos = pos
	p.Released[ButtonPrimary] = true
	return d.run(p, nil)
}

func (d *driver) click(pos Vec2) GraphResponse {
	d.press(pos)
	return d.release(pos)
}

// button runs a frame where b is pressed and held.
func (d *driver) button(b Button, pos Vec2) GraphResponse {
	var p Pointer
	p.Pos = pos
	p.Down[b] = true
	p.Pressed[b] = true
	return d.run(p, nil)
}
