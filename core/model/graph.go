package model

import (
	"fmt"
	"maps"
	"slices"

	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

// DataType names the type carried by a port. Two ports may be wired only
// when their data types are equal.
type DataType string

type InputParamKind int

const (
	ConnectionOnly InputParamKind = iota
	ConstantOnly
	ConnectionOrConstant
)

func (k InputParamKind) String() string {
	switch k {
	case ConnectionOnly:
		return "connection_only"
	case ConstantOnly:
		return "constant_only"
	case ConnectionOrConstant:
		return "connection_or_constant"
	default:
		return "unknown"
	}
}

// Connectable reports whether an input of this kind has a port.
func (k InputParamKind) Connectable() bool { return k != ConstantOnly }

type InputParamData struct {
	ID          InputID
	Node        NodeID
	Type        DataType
	Value       any
	Kind        InputParamKind
	ShownInline bool
}

type OutputParamData struct {
	ID   OutputID
	Node NodeID
	Type DataType
}

type NamedInput struct {
	Name string
	ID   InputID
}

type NamedOutput struct {
	Name string
	ID   OutputID
}

type Node struct {
	ID       NodeID
	Label    string
	Inputs   []NamedInput
	Outputs  []NamedOutput
	UserData any
}

// Connection is one input→output entry of the connection map.
type Connection struct {
	Input  InputID
	Output OutputID
}

// NodeBuilder attaches the parameters of a freshly allocated node.
type NodeBuilder func(g *Graph, id NodeID) error

type Graph struct {
	nodes       map[NodeID]*Node
	inputs      map[InputID]*InputParamData
	outputs     map[OutputID]*OutputParamData
	connections map[InputID]OutputID

	nextNode   NodeID
	nextInput  InputID
	nextOutput OutputID

	logger *game_log.Logger
}

func NewGraph(logger *game_log.Logger) *Graph {
	return &Graph{
		nodes:       map[NodeID]*Node{},
		inputs:      map[InputID]*InputParamData{},
		outputs:     map[OutputID]*OutputParamData{},
		connections: map[InputID]OutputID{},
		logger:      logger,
	}
}

// AddNode allocates a node and lets build attach its parameters. When build
// fails the node and everything it attached are discarded, and the
// connection map is restored to what it was before the call.
func (g *Graph) AddNode(label string, userData any, build NodeBuilder) (NodeID, error) {
	id := g.nextNode
	g.nextNode++
	g.nodes[id] = &Node{ID: id, Label: label, UserData: userData}
	if build != nil {
		saved := maps.Clone(g.connections)
		if err := build(g, id); err != nil {
			g.connections = saved
			g.discard(id)
			g.logger.Errorf("[GRAPH] Building node %q failed: %v", label, err)
			return InvalidNodeID, fmt.Errorf("build node %q: %w", label, err)
		}
	}
	n := g.nodes[id]
	g.logger.Debugf("[GRAPH] Added node: %d %q (%d inputs, %d outputs)", id, label, len(n.Inputs), len(n.Outputs))
	return id, nil
}

func (g *Graph) AddInputParam(node NodeID, name string, typ DataType, value any, kind InputParamKind, shownInline bool) (InputID, error) {
	n, ok := g.nodes[node]
	if !ok {
		return 0, fmt.Errorf("add input %q to node %d: %w", name, node, ErrNodeNotFound)
	}
	id := g.nextInput
	g.nextInput++
	g.inputs[id] = &InputParamData{ID: id, Node: node, Type: typ, Value: value, Kind: kind, ShownInline: shownInline}
	n.Inputs = append(n.Inputs, NamedInput{Name: name, ID: id})
	return id, nil
}

func (g *Graph) AddOutputParam(node NodeID, name string, typ DataType) (OutputID, error) {
	n, ok := g.nodes[node]
	if !ok {
		return 0, fmt.Errorf("add output %q to node %d: %w", name, node, ErrNodeNotFound)
	}
	id := g.nextOutput
	g.nextOutput++
	g.outputs[id] = &OutputParamData{ID: id, Node: node, Type: typ}
	n.Outputs = append(n.Outputs, NamedOutput{Name: name, ID: id})
	return id, nil
}

// RemoveNode deletes the node, its parameters and every connection touching
// them. The removed connections are returned so callers can record them.
// Nothing is mutated when the node does not exist.
func (g *Graph) RemoveNode(id NodeID) ([]Connection, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("remove node %d: %w", id, ErrNodeNotFound)
	}
	var removed []Connection
	for _, c := range g.Connections() {
		if g.inputs[c.Input].Node == id || g.outputs[c.Output].Node == id {
			delete(g.connections, c.Input)
			removed = append(removed, c)
		}
	}
	g.discard(id)
	g.logger.Debugf("[GRAPH] Removed node: %d %q (dropped %d connections)", id, n.Label, len(removed))
	return removed, nil
}

// discard drops a node and its parameters. Callers clear connections first.
func (g *Graph) discard(id NodeID) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for _, in := range n.Inputs {
		delete(g.connections, in.ID)
		delete(g.inputs, in.ID)
	}
	for _, out := range n.Outputs {
		delete(g.outputs, out.ID)
	}
	delete(g.nodes, id)
}

// AddConnection wires out into in, replacing whatever in was connected to.
func (g *Graph) AddConnection(out OutputID, in InputID) error {
	ip, ok := g.inputs[in]
	if !ok {
		return fmt.Errorf("connect %d->%d: %w", out, in, ErrInputNotFound)
	}
	op, ok := g.outputs[out]
	if !ok {
		return fmt.Errorf("connect %d->%d: %w", out, in, ErrOutputNotFound)
	}
	switch {
	case !ip.Kind.Connectable():
		return fmt.Errorf("connect %d->%d: %w", out, in, ErrNotConnectable)
	case ip.Node == op.Node:
		return fmt.Errorf("connect %d->%d: %w", out, in, ErrSelfLoop)
	case ip.Type != op.Type:
		return fmt.Errorf("connect %d->%d (%s vs %s): %w", out, in, op.Type, ip.Type, ErrTypeMismatch)
	}
	if prev, ok := g.connections[in]; ok && prev != out {
		g.logger.Debugf("[GRAPH] Replacing connection on input %d: output %d -> %d", in, prev, out)
	}
	g.connections[in] = out
	g.logger.Debugf("[GRAPH] Connected output %d (node %d) -> input %d (node %d)", out, op.Node, in, ip.Node)
	return nil
}

// RemoveConnection clears the input's entry and returns the output it held.
func (g *Graph) RemoveConnection(in InputID) (OutputID, error) {
	out, ok := g.connections[in]
	if !ok {
		return 0, fmt.Errorf("disconnect input %d: %w", in, ErrNotConnected)
	}
	delete(g.connections, in)
	g.logger.Debugf("[GRAPH] Disconnected input %d from output %d", in, out)
	return out, nil
}

func (g *Graph) Connection(in InputID) (OutputID, bool) {
	out, ok := g.connections[in]
	return out, ok
}

func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) Input(id InputID) (*InputParamData, bool) {
	p, ok := g.inputs[id]
	return p, ok
}

func (g *Graph) Output(id OutputID) (*OutputParamData, bool) {
	p, ok := g.outputs[id]
	return p, ok
}

// Contains reports whether the parameter is live.
func (g *Graph) Contains(p AnyParameterID) bool {
	_, err := g.ParamNode(p)
	return err == nil
}

func (g *Graph) ParamType(p AnyParameterID) (DataType, error) {
	switch p.Polarity() {
	case PolarityInput:
		id, _ := p.Input()
		if ip, ok := g.inputs[id]; ok {
			return ip.Type, nil
		}
		return "", fmt.Errorf("%v: %w", p, ErrInputNotFound)
	case PolarityOutput:
		id, _ := p.Output()
		if op, ok := g.outputs[id]; ok {
			return op.Type, nil
		}
		return "", fmt.Errorf("%v: %w", p, ErrOutputNotFound)
	default:
		return "", fmt.Errorf("%v: %w", p, ErrInputNotFound)
	}
}

// ParamNode returns the node owning the parameter.
func (g *Graph) ParamNode(p AnyParameterID) (NodeID, error) {
	switch p.Polarity() {
	case PolarityInput:
		id, _ := p.Input()
		if ip, ok := g.inputs[id]; ok {
			return ip.Node, nil
		}
		return InvalidNodeID, fmt.Errorf("%v: %w", p, ErrInputNotFound)
	case PolarityOutput:
		id, _ := p.Output()
		if op, ok := g.outputs[id]; ok {
			return op.Node, nil
		}
		return InvalidNodeID, fmt.Errorf("%v: %w", p, ErrOutputNotFound)
	default:
		return InvalidNodeID, fmt.Errorf("%v: %w", p, ErrInputNotFound)
	}
}

func (g *Graph) Len() int { return len(g.nodes) }

// NodeIDs lists live nodes in creation order.
func (g *Graph) NodeIDs() []NodeID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Connections lists every connection ordered by input id.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, 0, len(g.connections))
	for _, in := range slices.Sorted(maps.Keys(g.connections)) {
		out = append(out, Connection{Input: in, Output: g.connections[in]})
	}
	return out
}

// Validate checks that every stored reference points at a live entity and
// that no connection loops a node onto itself.
func (g *Graph) Validate() error {
	for id, n := range g.nodes {
		for _, in := range n.Inputs {
			p, ok := g.inputs[in.ID]
			if !ok || p.Node != id {
				return fmt.Errorf("node %d lists input %d it does not own: %w", id, in.ID, ErrInconsistent)
			}
		}
		for _, out := range n.Outputs {
			p, ok := g.outputs[out.ID]
			if !ok || p.Node != id {
				return fmt.Errorf("node %d lists output %d it does not own: %w", id, out.ID, ErrInconsistent)
			}
		}
	}
	for id, p := range g.inputs {
		if _, ok := g.nodes[p.Node]; !ok {
			return fmt.Errorf("input %d owned by dead node %d: %w", id, p.Node, ErrInconsistent)
		}
	}
	for id, p := range g.outputs {
		if _, ok := g.nodes[p.Node]; !ok {
			return fmt.Errorf("output %d owned by dead node %d: %w", id, p.Node, ErrInconsistent)
		}
	}
	for in, out := range g.connections {
		ip, ok := g.inputs[in]
		if !ok {
			return fmt.Errorf("connection from dead input %d: %w", in, ErrInconsistent)
		}
		op, ok := g.outputs[out]
		if !ok {
			return fmt.Errorf("connection to dead output %d: %w", out, ErrInconsistent)
		}
		if ip.Node == op.Node {
			return fmt.Errorf("input %d looped onto its own node %d: %w", in, ip.Node, ErrInconsistent)
		}
	}
	return nil
}
