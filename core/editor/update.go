package editor

import "github.com/ingyamilmolinar/nodeweave/core/model"

// Update runs one frame: it rebuilds the port registry, turns the pointer
// gesture into per-node responses, applies them in order, then handles the
// global pointer and key state. The returned responses have already been
// applied.
func (s *State) Update(in FrameInput) GraphResponse {
	if s.opts.Debug {
		if err := s.CheckInvariants(); err != nil {
			panic(err)
		}
	}
	ptr := in.Pointer

	ports := buildPortLocations(s.graph, s.nodeOrder, in.Layouts, s.logger)

	hover := target{kind: targetNone, node: model.InvalidNodeID}
	if !in.PointerOverUI {
		hover = s.hitTest(ptr.Pos, in.Layouts, ports)
	}
	gesture := s.gesture.step(ptr, hover, s.opts.DragDeadZone)

	var ongoing *DragOrigin
	if s.drag != nil {
		d := *s.drag
		ongoing = &d
	}

	var responses []NodeResponse
	for _, id := range s.nodeOrder {
		responses = append(responses, s.nodeResponses(id, in, ports, hover, gesture, ongoing)...)
	}
	clickOnBackground := gesture.clickedOn(backgroundTarget)

	for _, r := range responses {
		s.apply(r)
	}

	// The finder's node is created after the reduction so it lands on top
	// and its event comes last, in the order it took effect.
	if in.FinderChoice != nil {
		if s.finder == nil {
			s.logger.Warnf("[EDITOR] Ignoring finder choice %q: no finder open", in.FinderChoice.Label())
		} else {
			id, err := s.AddNode(in.FinderChoice, ptr.Pos.Sub(s.pan))
			if err != nil {
				s.logger.Errorf("[EDITOR] Creating %q failed: %v", in.FinderChoice.Label(), err)
			} else {
				responses = append(responses, CreatedNode{Node: id})
			}
			s.finder = nil
		}
	}

	if ptr.AnyReleased() && s.drag != nil {
		s.logger.Debugf("[EDITOR] Connection drag from %v released without target", s.drag.Param)
		s.drag = nil
	}
	if ptr.IsPressed(s.opts.Bindings.FinderButton) && !in.PointerOverUI {
		s.OpenFinder(ptr.Pos)
	}
	if in.Cancel {
		s.CloseFinder()
	}
	if ptr.IsDown(s.opts.Bindings.PanButton) && !ptr.Delta.IsZero() {
		s.pan = s.pan.Add(ptr.Delta)
	}
	if clickOnBackground {
		s.ClearSelection()
		s.CloseFinder()
	}

	ports.prune(s.graph)
	return GraphResponse{
		Responses:   responses,
		Wires:       s.wires(ports),
		PendingWire: s.pendingWire(ports, ptr.Pos),
	}
}

// hitTest returns the topmost widget under pos. Nodes are searched from the
// top of the draw order; within a node ports win over the close button,
// which wins over the body.
func (s *State) hitTest(pos Vec2, layouts map[model.NodeID]NodeLayout, ports *PortLocations) target {
	r := s.opts.PortRadius
	for i := len(s.nodeOrder) - 1; i >= 0; i-- {
		id := s.nodeOrder[i]
		lay, ok := layouts[id]
		if !ok {
			continue
		}
		for _, p := range lay.Ports {
			e, ok := ports.Get(p.Param)
			if ok && e.Node == id && RectFromCenter(e.Pos, r, r).Contains(pos) {
				return target{kind: targetPort, node: id, param: p.Param}
			}
		}
		if !lay.Close.Empty() && lay.Close.Contains(pos) {
			return target{kind: targetClose, node: id}
		}
		if lay.Body.Contains(pos) {
			return target{kind: targetBody, node: id}
		}
	}
	return backgroundTarget
}

// nodeResponses collects what node id produced this frame. hover is the
// topmost widget under the pointer; a drag only ends on a port that is not
// covered by another node. Body drags move the node immediately so the next
// layout pass sees the live position.
func (s *State) nodeResponses(id model.NodeID, in FrameInput, ports *PortLocations, hover target, g gestureFrame, ongoing *DragOrigin) []NodeResponse {
	node, ok := s.graph.Node(id)
	if !ok {
		return nil
	}
	var rs []NodeResponse

	params := make([]model.AnyParameterID, 0, len(node.Inputs)+len(node.Outputs))
	for _, p := range node.Inputs {
		params = append(params, model.InputParam(p.ID))
	}
	for _, p := range node.Outputs {
		params = append(params, model.OutputParam(p.ID))
	}
	var hovered model.AnyParameterID
	if hover.kind == targetPort && hover.node == id {
		hovered = hover.param
	}
	for _, p := range params {
		if _, drawn := ports.Get(p); !drawn {
			continue
		}
		if ongoing == nil && g.dragStartedOn(target{kind: targetPort, node: id, param: p}) {
			if inID, isInput := p.Input(); isInput {
				if out, connected := s.graph.Connection(inID); connected {
					rs = append(rs, Disconnect{Input: inID, Output: out})
					continue
				}
			}
			rs = append(rs, ConnectStarted{Node: id, Param: p})
		}
		if ongoing != nil && ongoing.Node != id && hovered == p && in.Pointer.AnyReleased() && s.compatible(ongoing.Param, p) {
			rs = append(rs, ConnectEnded{Param: p})
		}
	}

	if g.clickedOn(target{kind: targetClose, node: id}) {
		rs = append(rs, DeleteNode{Node: id})
	}

	if d := g.bodyDelta(id); !d.IsZero() {
		s.positions[id] = s.positions[id].Add(d)
		rs = append(rs, RaiseNode{Node: id})
	}

	for _, payload := range in.Layouts[id].User {
		rs = append(rs, UserDefined{Node: id, Payload: payload})
	}
	if br, ok := node.UserData.(BodyResponder); ok {
		for _, payload := range br.BodyResponses(id, s.graph) {
			rs = append(rs, UserDefined{Node: id, Payload: payload})
		}
	}

	// A click only selects when nothing else happened on the node.
	if len(rs) == 0 && g.clickedOn(target{kind: targetBody, node: id}) {
		rs = append(rs, SelectNode{Node: id}, RaiseNode{Node: id})
	}
	return rs
}

// compatible reports whether a drag from origin may end on p: opposite
// polarity and the same data type.
func (s *State) compatible(origin, p model.AnyParameterID) bool {
	if origin.Polarity().Opposite() != p.Polarity() {
		return false
	}
	ot, err := s.graph.ParamType(origin)
	if err != nil {
		return false
	}
	pt, err := s.graph.ParamType(p)
	if err != nil {
		return false
	}
	return ot == pt
}

func (s *State) apply(r NodeResponse) {
	switch r := r.(type) {
	case ConnectStarted:
		if s.drag != nil {
			s.logger.Debugf("[EDITOR] Discarding drag from %v", s.drag.Param)
		}
		s.drag = &DragOrigin{Node: r.Node, Param: r.Param}
		s.logger.Debugf("[EDITOR] Connection drag started at node %d %v", r.Node, r.Param)

	case ConnectEnded:
		if s.drag == nil {
			s.violation("connection ended on %v with no drag in progress", r.Param)
			return
		}
		origin := *s.drag
		s.drag = nil
		in, out, ok := model.Pair(origin.Param, r.Param)
		if !ok {
			s.logger.Debugf("[EDITOR] Drag from %v ended on same-polarity %v", origin.Param, r.Param)
			return
		}
		if err := s.graph.AddConnection(out, in); err != nil {
			s.logger.Debugf("[EDITOR] Connection rejected: %v", err)
		}

	case SelectNode:
		if err := s.Select(r.Node); err != nil {
			s.logger.Warnf("[EDITOR] %v", err)
			return
		}
		s.logger.Debugf("[EDITOR] Selected node %d", r.Node)

	case DeleteNode:
		if err := s.RemoveNode(r.Node); err != nil {
			s.logger.Warnf("[EDITOR] %v", err)
		}

	case Disconnect:
		out, err := s.graph.RemoveConnection(r.Input)
		if err != nil {
			s.violation("disconnect input %d: %v", r.Input, err)
			return
		}
		owner, err := s.graph.ParamNode(model.OutputParam(out))
		if err != nil {
			s.violation("disconnected output %d has no owner: %v", out, err)
			return
		}
		s.drag = &DragOrigin{Node: owner, Param: model.OutputParam(out)}
		s.logger.Debugf("[EDITOR] Picked up wire %d->%d, dragging from node %d", out, r.Input, owner)

	case RaiseNode:
		if err := s.Raise(r.Node); err != nil {
			s.violation("%v", err)
		}

	case UserDefined, CreatedNode:
		// Host concerns; nothing to apply.
	}
}

func (s *State) wires(ports *PortLocations) []Wire {
	var out []Wire
	for _, c := range s.graph.Connections() {
		from, ok := ports.Get(model.OutputParam(c.Output))
		if !ok {
			continue
		}
		to, ok := ports.Get(model.InputParam(c.Input))
		if !ok {
			continue
		}
		out = append(out, Wire{Input: c.Input, Output: c.Output, From: from.Pos, To: to.Pos})
	}
	return out
}

func (s *State) pendingWire(ports *PortLocations, cursor Vec2) *PendingWire {
	if s.drag == nil {
		return nil
	}
	e, ok := ports.Get(s.drag.Param)
	if !ok {
		return nil
	}
	return &PendingWire{Origin: *s.drag, From: e.Pos, To: cursor}
}
