package editor

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/nodeweave/core/model"
)

var (
	sourceTpl = testTemplate{label: "Source", outputs: []model.DataType{number}}
	sinkTpl   = testTemplate{label: "Sink", inputs: []inSpec{{"in", number, model.ConnectionOrConstant}}}
	relayTpl  = testTemplate{
		label:   "Relay",
		inputs:  []inSpec{{"in", number, model.ConnectionOnly}},
		outputs: []model.DataType{number},
	}
)

// twoNodes builds N1{out O1:number} at (0,0) and N2{in I1:number} at (300,0).
func twoNodes(t *testing.T) (*State, model.NodeID, model.NodeID, model.OutputID, model.InputID) {
	s := newState(t)
	n1 := mustAdd(t, s, sourceTpl, V(0, 0))
	n2 := mustAdd(t, s, sinkTpl, V(300, 0))
	return s, n1, n2, outputOf(t, s, n1, 0), inputOf(t, s, n2, 0)
}

func TestReleaseOverCoveredPortDoesNotConnect(t *testing.T) {
	s, _, _, _, i1 := twoNodes(t)
	cover := mustAdd(t, s, testTemplate{label: "Cover"}, V(250, 0))
	d := newDriver(t, s)

	d.press(outputPos(V(0, 0), 0))
	d.move(V(200, 40))
	resp := d.release(inputPos(V(300, 0), 0))

	for _, r := range resp.Responses {
		_, ended := r.(ConnectEnded)
		assert.False(t, ended, "connected through node %d", cover)
	}
	_, connected := s.Graph().Connection(i1)
	assert.False(t, connected)
	_, dragging := s.Drag()
	assert.False(t, dragging)
}

func TestDragFromOutputToInputConnects(t *testing.T) {
	s, n1, _, o1, i1 := twoNodes(t)
	d := newDriver(t, s)

	d.press(outputPos(V(0, 0), 0))
	resp := d.move(V(200, 40))
	if diff := cmp.Diff([]NodeResponse{ConnectStarted{Node: n1, Param: model.OutputParam(o1)}}, resp.Responses); diff != "" {
		t.Fatalf("drag start responses (-want +got):\n%s", diff)
	}
	origin, ok := s.Drag()
	require.True(t, ok)
	assert.Equal(t, DragOrigin{Node: n1, Param: model.OutputParam(o1)}, origin)
	require.NotNil(t, resp.PendingWire)
	assert.Equal(t, V(200, 40), resp.PendingWire.To)

	resp = d.release(inputPos(V(300, 0), 0).Add(V(2, -1)))
	if diff := cmp.Diff([]NodeResponse{ConnectEnded{Param: model.InputParam(i1)}}, resp.Responses); diff != "" {
		t.Fatalf("release responses (-want +got):\n%s", diff)
	}
	out, ok := s.Graph().Connection(i1)
	require.True(t, ok)
	assert.Equal(t, o1, out)
	_, dragging := s.Drag()
	assert.False(t, dragging)
	require.Len(t, resp.Wires, 1)
	assert.Equal(t, Wire{Input: i1, Output: o1, From: outputPos(V(0, 0), 0), To: inputPos(V(300, 0), 0)}, resp.Wires[0])
}

func TestDragFromInputToOutputConnects(t *testing.T) {
	s, _, n2, o1, i1 := twoNodes(t)
	d := newDriver(t, s)

	d.press(inputPos(V(300, 0), 0))
	resp := d.move(V(150, 50))
	assert.Equal(t, []NodeResponse{ConnectStarted{Node: n2, Param: model.InputParam(i1)}}, resp.Responses)

	d.release(outputPos(V(0, 0), 0))
	out, ok := s.Graph().Connection(i1)
	require.True(t, ok)
	assert.Equal(t, o1, out)
}

func TestReleaseOverNothingAborts(t *testing.T) {
	s, _, _, _, i1 := twoNodes(t)
	d := newDriver(t, s)

	d.press(outputPos(V(0, 0), 0))
	d.move(V(200, 200))
	resp := d.release(V(200, 200))
	assert.Empty(t, resp.Responses)
	_, dragging := s.Drag()
	assert.False(t, dragging)
	_, connected := s.Graph().Connection(i1)
	assert.False(t, connected)
	assert.Nil(t, resp.PendingWire)
}

func TestSecondaryReleaseAbortsDrag(t *testing.T) {
	s, _, _, _, _ := twoNodes(t)
	d := newDriver(t, s)

	d.press(outputPos(V(0, 0), 0))
	d.move(V(200, 200))
	var p Pointer
	p.Pos = V(210, 200)
	p.Down[ButtonPrimary] = true
	p.Released[ButtonSecondary] = true
	d.run(p, nil)
	_, dragging := s.Drag()
	assert.False(t, dragging, "any button release ends the drag")
}

func TestTypeMismatchAborts(t *testing.T) {
	s := newState(t)
	mustAdd(t, s, sourceTpl, V(0, 0))
	txt := mustAdd(t, s, testTemplate{label: "Text", inputs: []inSpec{{"s", text, model.ConnectionOnly}}}, V(300, 0))
	d := newDriver(t, s)

	d.press(outputPos(V(0, 0), 0))
	d.move(V(250, 20))
	resp := d.release(inputPos(V(300, 0), 0))
	assert.Empty(t, resp.Responses)
	_, connected := s.Graph().Connection(inputOf(t, s, txt, 0))
	assert.False(t, connected)
}

func TestSamePolarityNeverEnds(t *testing.T) {
	s := newState(t)
	mustAdd(t, s, sourceTpl, V(0, 0))
	mustAdd(t, s, sourceTpl, V(300, 0))
	d := newDriver(t, s)

	d.press(outputPos(V(0, 0), 0))
	d.move(V(250, 20))
	resp := d.release(outputPos(V(300, 0), 0))
	assert.Empty(t, resp.Responses)
	assert.Empty(t, s.Graph().Connections())
}

func TestSelfLoopNeverCommitted(t *testing.T) {
	s := newState(t)
	relay := mustAdd(t, s, relayTpl, V(0, 0))
	d := newDriver(t, s)

	d.press(outputPos(V(0, 0), 0))
	d.move(V(50, 90))
	resp := d.release(inputPos(V(0, 0), 0))
	assert.Empty(t, resp.Responses)
	assert.Empty(t, s.Graph().Connections())

	// Even a hand-made ConnectEnded cannot store a self loop.
	s.apply(ConnectStarted{Node: relay, Param: model.OutputParam(outputOf(t, s, relay, 0))})
	s.apply(ConnectEnded{Param: model.InputParam(inputOf(t, s, relay, 0))})
	assert.Empty(t, s.Graph().Connections())
}

func TestPickUpAndReconnectScenario(t *testing.T) {
	s, n1, n2, o1, i1 := twoNodes(t)
	require.NoError(t, s.Graph().AddConnection(o1, i1))
	assert.Equal(t, []model.Connection{{Input: i1, Output: o1}}, s.Graph().Connections())
	d := newDriver(t, s)

	var events []NodeResponse
	events = append(events, d.press(inputPos(V(300, 0), 0)).Responses...)
	resp := d.move(V(250, 60))
	events = append(events, resp.Responses...)

	assert.Empty(t, s.Graph().Connections(), "picked-up wire must be severed immediately")
	origin, ok := s.Drag()
	require.True(t, ok)
	assert.Equal(t, DragOrigin{Node: n1, Param: model.OutputParam(o1)}, origin)
	require.NotNil(t, resp.PendingWire)
	assert.Equal(t, outputPos(V(0, 0), 0), resp.PendingWire.From)

	events = append(events, d.move(inputPos(V(300, 0), 0)).Responses...)
	events = append(events, d.release(inputPos(V(300, 0), 0)).Responses...)

	want := []NodeResponse{
		Disconnect{Input: i1, Output: o1},
		ConnectEnded{Param: model.InputParam(i1)},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	assert.Equal(t, []model.Connection{{Input: i1, Output: o1}}, s.Graph().Connections())

	require.NoError(t, s.RemoveNode(n1))
	assert.Empty(t, s.Graph().Connections())
	assert.Equal(t, []model.NodeID{n2}, s.NodeOrder())
}

func TestAbortedRerouteStaysSevered(t *testing.T) {
	s, _, _, o1, i1 := twoNodes(t)
	require.NoError(t, s.Graph().AddConnection(o1, i1))
	d := newDriver(t, s)

	d.press(inputPos(V(300, 0), 0))
	d.move(V(200, 200))
	d.release(V(200, 200))

	_, connected := s.Graph().Connection(i1)
	assert.False(t, connected)
}

func TestRerouteToAnotherInput(t *testing.T) {
	s, _, _, o1, i1 := twoNodes(t)
	other := mustAdd(t, s, sinkTpl, V(300, 200))
	i2 := inputOf(t, s, other, 0)
	require.NoError(t, s.Graph().AddConnection(o1, i1))
	d := newDriver(t, s)

	d.press(inputPos(V(300, 0), 0))
	d.move(V(280, 120))
	d.release(inputPos(V(300, 200), 0))

	assert.Equal(t, []model.Connection{{Input: i2, Output: o1}}, s.Graph().Connections())
}

func TestNewDragOverwritesPrevious(t *testing.T) {
	s, n1, n2, o1, i1 := twoNodes(t)
	s.apply(ConnectStarted{Node: n1, Param: model.OutputParam(o1)})
	s.apply(ConnectStarted{Node: n2, Param: model.InputParam(i1)})
	origin, ok := s.Drag()
	require.True(t, ok)
	assert.Equal(t, DragOrigin{Node: n2, Param: model.InputParam(i1)}, origin)
}

func TestClickSelectsAndRaises(t *testing.T) {
	s := newState(t)
	a := mustAdd(t, s, sinkTpl, V(0, 0))
	b := mustAdd(t, s, sinkTpl, V(300, 0))
	d := newDriver(t, s)

	resp := d.click(V(50, 40))
	assert.Equal(t, []NodeResponse{SelectNode{Node: a}, RaiseNode{Node: a}}, resp.Responses)
	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, a, sel)
	assert.Equal(t, []model.NodeID{b, a}, s.NodeOrder())
}

func TestClickOnOverlapHitsTopmost(t *testing.T) {
	s := newState(t)
	mustAdd(t, s, sinkTpl, V(0, 0))
	top := mustAdd(t, s, sinkTpl, V(40, 20))
	d := newDriver(t, s)

	resp := d.click(V(60, 40))
	assert.Equal(t, []NodeResponse{SelectNode{Node: top}, RaiseNode{Node: top}}, resp.Responses)
}

func TestBackgroundClickClearsSelectionAndFinder(t *testing.T) {
	s := newState(t)
	a := mustAdd(t, s, sinkTpl, V(0, 0))
	require.NoError(t, s.Select(a))
	s.OpenFinder(V(10, 10))
	d := newDriver(t, s)

	resp := d.click(V(500, 500))
	assert.Empty(t, resp.Responses)
	_, ok := s.Selected()
	assert.False(t, ok)
	_, open := s.Finder()
	assert.False(t, open)
}

func TestBodyDragMovesEveryFrame(t *testing.T) {
	s := newState(t)
	a := mustAdd(t, s, sinkTpl, V(0, 0))
	b := mustAdd(t, s, sinkTpl, V(300, 0))
	d := newDriver(t, s)

	d.press(V(50, 40))
	resp := d.move(V(60, 45))
	assert.Equal(t, []NodeResponse{RaiseNode{Node: a}}, resp.Responses)
	pos, _ := s.Position(a)
	assert.Equal(t, V(10, 5), pos)
	assert.Equal(t, []model.NodeID{b, a}, s.NodeOrder())

	d.move(V(70, 45))
	pos, _ = s.Position(a)
	assert.Equal(t, V(20, 5), pos)

	resp = d.release(V(70, 45))
	assert.Empty(t, resp.Responses, "release after a drag is not a click")
	_, selected := s.Selected()
	assert.False(t, selected)
}

func TestDeadZoneSuppressesSmallDrags(t *testing.T) {
	s := newState(t)
	s.opts.DragDeadZone = 4
	a := mustAdd(t, s, sinkTpl, V(0, 0))
	d := newDriver(t, s)

	d.press(V(50, 40))
	resp := d.move(V(52, 41))
	assert.Empty(t, resp.Responses)
	resp = d.release(V(52, 41))
	assert.Equal(t, []NodeResponse{SelectNode{Node: a}, RaiseNode{Node: a}}, resp.Responses)
	pos, _ := s.Position(a)
	assert.Equal(t, V(0, 0), pos)
}

func TestCloseButtonDeletesAndScrubs(t *testing.T) {
	s, n1, n2, o1, i1 := twoNodes(t)
	require.NoError(t, s.Graph().AddConnection(o1, i1))
	require.NoError(t, s.Select(n1))
	d := newDriver(t, s)

	resp := d.click(V(90, 8))
	assert.Equal(t, []NodeResponse{DeleteNode{Node: n1}}, resp.Responses)
	_, ok := s.Graph().Node(n1)
	assert.False(t, ok)
	_, ok = s.Position(n1)
	assert.False(t, ok)
	_, ok = s.Selected()
	assert.False(t, ok)
	assert.Equal(t, []model.NodeID{n2}, s.NodeOrder())
	assert.Empty(t, s.Graph().Connections())
	assert.Empty(t, resp.Wires)
}

func TestDeleteDropsDragFromDeletedNode(t *testing.T) {
	s, n1, _, o1, _ := twoNodes(t)
	s.apply(ConnectStarted{Node: n1, Param: model.OutputParam(o1)})
	require.NoError(t, s.RemoveNode(n1))
	_, dragging := s.Drag()
	assert.False(t, dragging)
	require.NoError(t, s.CheckInvariants())
}

func TestRemoveMissingNodeIsNotFound(t *testing.T) {
	s := newState(t)
	a := mustAdd(t, s, sinkTpl, V(0, 0))
	require.NoError(t, s.RemoveNode(a))
	require.ErrorIs(t, s.RemoveNode(a), model.ErrNodeNotFound)
	require.NoError(t, s.CheckInvariants())
}

func TestRaiseTwiceEqualsOnce(t *testing.T) {
	s := newState(t)
	ids := []model.NodeID{
		mustAdd(t, s, sinkTpl, V(0, 0)),
		mustAdd(t, s, sinkTpl, V(0, 0)),
		mustAdd(t, s, sinkTpl, V(0, 0)),
		mustAdd(t, s, sinkTpl, V(0, 0)),
	}
	require.NoError(t, s.Raise(ids[1]))
	once := s.NodeOrder()
	require.NoError(t, s.Raise(ids[1]))
	assert.Equal(t, once, s.NodeOrder())
	assert.Equal(t, []model.NodeID{ids[0], ids[2], ids[3], ids[1]}, once)
}

func TestOrderMatchesLiveNodesUnderRandomOps(t *testing.T) {
	s := newState(t)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		order := s.NodeOrder()
		switch {
		case len(order) == 0 || rng.Intn(3) > 0:
			mustAdd(t, s, relayTpl, V(float64(rng.Intn(500)), float64(rng.Intn(500))))
		case rng.Intn(2) == 0:
			require.NoError(t, s.Raise(order[rng.Intn(len(order))]))
		default:
			require.NoError(t, s.RemoveNode(order[rng.Intn(len(order))]))
		}
		require.NoError(t, s.CheckInvariants())
		got := slices.Sorted(slices.Values(s.NodeOrder()))
		require.Equal(t, s.Graph().NodeIDs(), got)
	}
}

func TestFinderOpenCreateCancel(t *testing.T) {
	s := newState(t)
	s.pan = V(10, 20)
	d := newDriver(t, s)

	d.button(ButtonSecondary, V(200, 150))
	f, open := s.Finder()
	require.True(t, open)
	assert.Equal(t, V(200, 150), f.Position)

	// A second press while pending does not move the request.
	d.button(ButtonSecondary, V(400, 400))
	f, _ = s.Finder()
	assert.Equal(t, V(200, 150), f.Position)

	resp := d.run(Pointer{Pos: V(205, 160)}, func(in *FrameInput) {
		in.FinderChoice = relayTpl
		in.PointerOverUI = true
	})
	require.Len(t, resp.Responses, 1)
	created, ok := resp.Responses[0].(CreatedNode)
	require.True(t, ok)
	pos, _ := s.Position(created.Node)
	assert.Equal(t, V(195, 140), pos, "stored position excludes the pan")
	order := s.NodeOrder()
	assert.Equal(t, created.Node, order[len(order)-1])
	_, open = s.Finder()
	assert.False(t, open)

	d.button(ButtonSecondary, V(50, 50))
	d.run(Pointer{Pos: V(50, 50)}, func(in *FrameInput) { in.Cancel = true })
	_, open = s.Finder()
	assert.False(t, open)
	assert.Equal(t, 1, s.Graph().Len())
}

func TestFinderNodeCreatedAfterFrameResponses(t *testing.T) {
	s := newState(t)
	a := mustAdd(t, s, sinkTpl, V(0, 0))
	d := newDriver(t, s)
	d.button(ButtonSecondary, V(500, 500))

	d.press(V(50, 40))
	var p Pointer
	p.Pos = V(50, 40)
	p.Released[ButtonPrimary] = true
	resp := d.run(p, func(in *FrameInput) { in.FinderChoice = relayTpl })

	require.Len(t, resp.Responses, 3)
	created, ok := resp.Responses[2].(CreatedNode)
	require.True(t, ok, "creation is the last event")
	want := []NodeResponse{SelectNode{Node: a}, RaiseNode{Node: a}, CreatedNode{Node: created.Node}}
	if diff := cmp.Diff(want, resp.Responses); diff != "" {
		t.Fatalf("responses (-want +got):\n%s", diff)
	}
	assert.Equal(t, []model.NodeID{a, created.Node}, s.NodeOrder(), "the created node ends on top")
}

func TestFinderChoiceWithoutFinderIgnored(t *testing.T) {
	s := newState(t)
	d := newDriver(t, s)
	resp := d.run(Pointer{Pos: V(5, 5)}, func(in *FrameInput) { in.FinderChoice = relayTpl })
	assert.Empty(t, resp.Responses)
	assert.Zero(t, s.Graph().Len())
}

func TestPanAccumulates(t *testing.T) {
	s := newState(t)
	a := mustAdd(t, s, sinkTpl, V(10, 10))
	d := newDriver(t, s)

	d.hover(V(100, 100))
	d.button(ButtonMiddle, V(100, 100))
	var p Pointer
	p.Down[ButtonMiddle] = true
	p.Pos = V(130, 90)
	d.run(p, nil)
	p.Pos = V(140, 95)
	d.run(p, nil)

	assert.Equal(t, V(40, -5), s.Pan())
	pos, _ := s.Position(a)
	assert.Equal(t, V(10, 10), pos, "stored positions are pan independent")
	screen, _ := s.ScreenPosition(a)
	assert.Equal(t, V(50, 5), screen)
}

type clickyData struct{ payloads []any }

func (c clickyData) BodyResponses(model.NodeID, *model.Graph) []any { return c.payloads }

func TestUserDefinedResponsesSuppressSelect(t *testing.T) {
	s := newState(t)
	tpl := sinkTpl
	tpl.data = clickyData{payloads: []any{"tick"}}
	a := mustAdd(t, s, tpl, V(0, 0))
	d := newDriver(t, s)

	d.press(V(50, 40))
	d.user = map[model.NodeID][]any{a: {"body-button"}}
	resp := d.release(V(50, 40))
	want := []NodeResponse{
		UserDefined{Node: a, Payload: "body-button"},
		UserDefined{Node: a, Payload: "tick"},
	}
	if diff := cmp.Diff(want, resp.Responses); diff != "" {
		t.Fatalf("responses (-want +got):\n%s", diff)
	}
	_, selected := s.Selected()
	assert.False(t, selected)
}

func TestPointerOverUIBlocksCanvas(t *testing.T) {
	s := newState(t)
	mustAdd(t, s, sinkTpl, V(0, 0))
	d := newDriver(t, s)

	over := func(in *FrameInput) { in.PointerOverUI = true }
	var p Pointer
	p.Pos = V(50, 40)
	p.Down[ButtonPrimary] = true
	p.Pressed[ButtonPrimary] = true
	d.run(p, over)
	resp := d.run(Pointer{Pos: V(50, 40), Released: [buttonCount]bool{true}}, over)
	assert.Empty(t, resp.Responses)
	_, selected := s.Selected()
	assert.False(t, selected)
}

func TestConnectEndedWithoutDragPanicsInDebug(t *testing.T) {
	s, _, _, _, i1 := twoNodes(t)
	assert.PanicsWithError(t,
		"editor invariant violated: connection ended on Input(0) with no drag in progress",
		func() { s.apply(ConnectEnded{Param: model.InputParam(i1)}) })
}

func TestInvariantViolationIsNoOpWithoutDebug(t *testing.T) {
	s, _, _, _, i1 := twoNodes(t)
	s.opts.Debug = false
	assert.NotPanics(t, func() {
		s.apply(ConnectEnded{Param: model.InputParam(i1)})
		s.apply(Disconnect{Input: i1})
		s.apply(RaiseNode{Node: 99})
	})
	assert.Empty(t, s.Graph().Connections())
	require.NoError(t, s.CheckInvariants())
}

func TestCheckInvariantsDetectsOrderDrift(t *testing.T) {
	s := newState(t)
	a := mustAdd(t, s, sinkTpl, V(0, 0))
	s.nodeOrder = append(s.nodeOrder, a)
	require.ErrorIs(t, s.CheckInvariants(), ErrInvariant)
	assert.Panics(t, func() { s.Update(FrameInput{}) })
}
