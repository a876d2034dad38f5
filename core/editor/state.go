package editor

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ingyamilmolinar/nodeweave/core/model"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

// ErrInvariant marks a broken editor invariant.
var ErrInvariant = errors.New("editor invariant violated")

// Bindings picks the pointer buttons for the global gestures.
type Bindings struct {
	FinderButton Button
	PanButton    Button
}

type Options struct {
	Bindings Bindings
	// DragDeadZone is how far (px) a primary press must travel before it
	// becomes a drag.
	DragDeadZone float64
	// PortRadius is half the side of a port's square hit box.
	PortRadius float64
	// Debug panics on invariant violations instead of logging them.
	Debug  bool
	Logger *game_log.Logger
}

func DefaultOptions() Options {
	return Options{
		Bindings:   Bindings{FinderButton: ButtonSecondary, PanButton: ButtonMiddle},
		PortRadius: 5,
	}
}

// DragOrigin is where an in-progress connection drag began.
type DragOrigin struct {
	Node  model.NodeID
	Param model.AnyParameterID
}

// State is the editing session of one graph: the graph itself plus draw
// order, positions, selection, drag, pan and the pending finder. It is not
// safe for concurrent use; hosts serialize frames per State.
type State struct {
	graph     *model.Graph
	nodeOrder []model.NodeID
	positions map[model.NodeID]Vec2
	selected  model.NodeID
	drag      *DragOrigin
	pan       Vec2
	finder    *NodeFinder

	gesture primaryGesture
	opts    Options
	logger  *game_log.Logger
}

// New wraps graph in an editing session. Nodes already in the graph are
// placed at the origin in creation order.
func New(graph *model.Graph, opts Options) *State {
	if opts.PortRadius <= 0 {
		opts.PortRadius = DefaultOptions().PortRadius
	}
	if graph == nil {
		graph = model.NewGraph(opts.Logger)
	}
	s := &State{
		graph:     graph,
		positions: map[model.NodeID]Vec2{},
		selected:  model.InvalidNodeID,
		opts:      opts,
		logger:    opts.Logger,
	}
	for _, id := range graph.NodeIDs() {
		s.nodeOrder = append(s.nodeOrder, id)
		s.positions[id] = Vec2{}
	}
	return s
}

func (s *State) Graph() *model.Graph { return s.graph }

func (s *State) Options() Options { return s.opts }

// NodeOrder returns a copy of the draw order, bottom to top.
func (s *State) NodeOrder() []model.NodeID { return slices.Clone(s.nodeOrder) }

func (s *State) Position(id model.NodeID) (Vec2, bool) {
	p, ok := s.positions[id]
	return p, ok
}

// ScreenPosition is the stored position shifted by the pan offset.
func (s *State) ScreenPosition(id model.NodeID) (Vec2, bool) {
	p, ok := s.positions[id]
	if !ok {
		return Vec2{}, false
	}
	return p.Add(s.pan), true
}

func (s *State) SetPosition(id model.NodeID, pos Vec2) error {
	if _, ok := s.positions[id]; !ok {
		return fmt.Errorf("set position of node %d: %w", id, model.ErrNodeNotFound)
	}
	s.positions[id] = pos
	return nil
}

func (s *State) Selected() (model.NodeID, bool) {
	return s.selected, s.selected != model.InvalidNodeID
}

func (s *State) Drag() (DragOrigin, bool) {
	if s.drag == nil {
		return DragOrigin{}, false
	}
	return *s.drag, true
}

func (s *State) Pan() Vec2 { return s.pan }

func (s *State) Finder() (NodeFinder, bool) {
	if s.finder == nil {
		return NodeFinder{}, false
	}
	return *s.finder, true
}

// OpenFinder opens a finder at pos unless one is already pending.
func (s *State) OpenFinder(pos Vec2) bool {
	if s.finder != nil {
		return false
	}
	s.finder = &NodeFinder{Position: pos}
	s.logger.Debugf("[EDITOR] Finder opened at (%.0f,%.0f)", pos.X, pos.Y)
	return true
}

func (s *State) CloseFinder() {
	if s.finder != nil {
		s.logger.Debugf("[EDITOR] Finder closed")
	}
	s.finder = nil
}

// SetFinderQuery updates the search text of the open finder.
func (s *State) SetFinderQuery(q string) bool {
	if s.finder == nil {
		return false
	}
	s.finder.Query = q
	return true
}

// AddNode instantiates t at the stored (pan-independent) position pos and
// puts it on top of the draw order.
func (s *State) AddNode(t NodeTemplate, pos Vec2) (model.NodeID, error) {
	if t == nil {
		return model.InvalidNodeID, errors.New("add node: nil template")
	}
	id, err := s.graph.AddNode(t.Label(), t.UserData(), t.Build)
	if err != nil {
		return model.InvalidNodeID, err
	}
	s.positions[id] = pos
	s.nodeOrder = append(s.nodeOrder, id)
	s.logger.Debugf("[EDITOR] Created node %d %q at (%.0f,%.0f)", id, t.Label(), pos.X, pos.Y)
	return id, nil
}

// RemoveNode deletes the node from the graph and scrubs every reference the
// session holds to it.
func (s *State) RemoveNode(id model.NodeID) error {
	removed, err := s.graph.RemoveNode(id)
	if err != nil {
		return err
	}
	delete(s.positions, id)
	if s.selected == id {
		s.selected = model.InvalidNodeID
	}
	if s.drag != nil && !s.graph.Contains(s.drag.Param) {
		s.logger.Debugf("[EDITOR] Dropping drag from deleted node %d", id)
		s.drag = nil
	}
	if s.gesture.hit.onNode(id) {
		s.gesture.reset()
	}
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(n model.NodeID) bool { return n == id })
	s.logger.Debugf("[EDITOR] Deleted node %d (%d connections dropped)", id, len(removed))
	return nil
}

// Select marks id as the selected node.
func (s *State) Select(id model.NodeID) error {
	if _, ok := s.graph.Node(id); !ok {
		return fmt.Errorf("select node %d: %w", id, model.ErrNodeNotFound)
	}
	s.selected = id
	return nil
}

func (s *State) ClearSelection() { s.selected = model.InvalidNodeID }

// Raise moves id to the top of the draw order.
func (s *State) Raise(id model.NodeID) error {
	idx := slices.Index(s.nodeOrder, id)
	if idx < 0 {
		return fmt.Errorf("raise node %d: %w", id, model.ErrNodeNotFound)
	}
	s.nodeOrder = append(slices.Delete(s.nodeOrder, idx, idx+1), id)
	return nil
}

// CheckInvariants verifies the session agrees with the graph.
func (s *State) CheckInvariants() error {
	if err := s.graph.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	live := s.graph.NodeIDs()
	seen := make(map[model.NodeID]bool, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		if seen[id] {
			return fmt.Errorf("%w: node %d appears twice in draw order", ErrInvariant, id)
		}
		seen[id] = true
		if _, ok := s.graph.Node(id); !ok {
			return fmt.Errorf("%w: draw order holds dead node %d", ErrInvariant, id)
		}
	}
	if len(seen) != len(live) {
		return fmt.Errorf("%w: draw order has %d nodes, graph has %d", ErrInvariant, len(seen), len(live))
	}
	if !slices.Equal(slices.Sorted(maps.Keys(s.positions)), live) {
		return fmt.Errorf("%w: positions do not match live nodes", ErrInvariant)
	}
	if s.selected != model.InvalidNodeID {
		if _, ok := s.graph.Node(s.selected); !ok {
			return fmt.Errorf("%w: selection holds dead node %d", ErrInvariant, s.selected)
		}
	}
	if s.drag != nil {
		owner, err := s.graph.ParamNode(s.drag.Param)
		if err != nil || owner != s.drag.Node {
			return fmt.Errorf("%w: drag origin %d/%v is not live", ErrInvariant, s.drag.Node, s.drag.Param)
		}
	}
	return nil
}

// violation reports a broken invariant: a panic in debug mode, an error log
// otherwise. The caller then skips the offending step.
func (s *State) violation(format string, args ...any) {
	err := fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...)
	if s.opts.Debug {
		panic(err)
	}
	s.logger.Errorf("[EDITOR] %v", err)
}
