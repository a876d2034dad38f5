// Package engine evaluates node graphs on a background goroutine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"

	"github.com/ingyamilmolinar/nodeweave/core/model"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

var (
	ErrNoOperation = errors.New("node has no operation")
	ErrCycle       = errors.New("connection cycle")
	ErrUpstream    = errors.New("upstream node failed")
)

// Op computes one value per output from the input values, in declaration
// order.
type Op func(args []cty.Value) ([]cty.Value, error)

// OpNamer is implemented by node user data that names the operation the node
// runs.
type OpNamer interface {
	OpName() string
}

// SnapshotInput is one input as it was when the snapshot was taken.
type SnapshotInput struct {
	Value     cty.Value
	From      model.OutputID
	Connected bool
}

type SnapshotNode struct {
	Op      string
	Inputs  []SnapshotInput
	Outputs []model.OutputID
}

// Snapshot is an immutable copy of everything evaluation reads from a graph,
// so it can cross goroutines while the editor keeps mutating the graph.
type Snapshot struct {
	Version uint64
	Nodes   map[model.NodeID]SnapshotNode
	owners  map[model.OutputID]model.NodeID
}

// Capture copies g. Input constants that are not cty values are treated as
// null.
func Capture(g *model.Graph, version uint64) Snapshot {
	s := Snapshot{
		Version: version,
		Nodes:   map[model.NodeID]SnapshotNode{},
		owners:  map[model.OutputID]model.NodeID{},
	}
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		var sn SnapshotNode
		if named, ok := n.UserData.(OpNamer); ok {
			sn.Op = named.OpName()
		}
		for _, in := range n.Inputs {
			ip, _ := g.Input(in.ID)
			si := SnapshotInput{Value: cty.NullVal(cty.DynamicPseudoType)}
			if v, ok := ip.Value.(cty.Value); ok {
				si.Value = v
			}
			si.From, si.Connected = g.Connection(in.ID)
			sn.Inputs = append(sn.Inputs, si)
		}
		for _, out := range n.Outputs {
			sn.Outputs = append(sn.Outputs, out.ID)
			s.owners[out.ID] = id
		}
		s.Nodes[id] = sn
	}
	return s
}

// Result holds every output value that could be computed and the error of
// every node that could not.
type Result struct {
	Version uint64
	Values  map[model.OutputID]cty.Value
	Errors  map[model.NodeID]error
}

type evaluator struct {
	snap    Snapshot
	ops     map[string]Op
	res     Result
	visited map[model.NodeID]bool
	active  map[model.NodeID]bool
}

// Evaluate runs every node of s once, pulling inputs through connections.
func Evaluate(s Snapshot, ops map[string]Op) Result {
	ev := &evaluator{
		snap: s,
		ops:  ops,
		res: Result{
			Version: s.Version,
			Values:  map[model.OutputID]cty.Value{},
			Errors:  map[model.NodeID]error{},
		},
		visited: map[model.NodeID]bool{},
		active:  map[model.NodeID]bool{},
	}
	for _, id := range slices.Sorted(maps.Keys(s.Nodes)) {
		ev.node(id)
	}
	return ev.res
}

func (ev *evaluator) node(id model.NodeID) error {
	if ev.visited[id] {
		return ev.res.Errors[id]
	}
	ev.active[id] = true
	err := ev.run(id)
	delete(ev.active, id)
	ev.visited[id] = true
	if err != nil {
		ev.res.Errors[id] = err
	}
	return err
}

func (ev *evaluator) run(id model.NodeID) error {
	n := ev.snap.Nodes[id]
	op, ok := ev.ops[n.Op]
	if !ok {
		return fmt.Errorf("%w %q", ErrNoOperation, n.Op)
	}
	args := make([]cty.Value, len(n.Inputs))
	for i, in := range n.Inputs {
		if !in.Connected {
			args[i] = in.Value
			continue
		}
		owner, ok := ev.snap.owners[in.From]
		if !ok {
			return fmt.Errorf("input %d: %w", i, ErrUpstream)
		}
		if ev.active[owner] {
			return fmt.Errorf("input %d: %w", i, ErrCycle)
		}
		if err := ev.node(owner); err != nil {
			return fmt.Errorf("input %d: %w", i, ErrUpstream)
		}
		args[i] = ev.res.Values[in.From]
	}
	outs, err := op(args)
	if err != nil {
		return err
	}
	if len(outs) != len(n.Outputs) {
		return fmt.Errorf("operation %q returned %d values for %d outputs", n.Op, len(outs), len(n.Outputs))
	}
	for i, out := range n.Outputs {
		ev.res.Values[out] = outs[i]
	}
	return nil
}

// Engine evaluates submitted snapshots on its own goroutine. Only the newest
// pending snapshot and the newest result are kept.
type Engine struct {
	ops      map[string]Op
	requests chan Snapshot
	results  chan Result
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *game_log.Logger
}

// New creates an engine running ops and starts its loop.
func New(logger *game_log.Logger, ops map[string]Op) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		ops:      ops,
		requests: make(chan Snapshot, 1),
		results:  make(chan Result, 1),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
	go e.run()
	return e
}

func (e *Engine) run() {
	for {
		select {
		case s := <-e.requests:
			r := Evaluate(s, e.ops)
			e.logger.Debugf("[ENGINE] Evaluated version %d: %d values, %d errors", r.Version, len(r.Values), len(r.Errors))
			select {
			case <-e.results:
			default:
			}
			e.results <- r
		case <-e.ctx.Done():
			return
		}
	}
}

// Submit queues s for evaluation, replacing any snapshot not yet picked up.
// It never blocks.
func (e *Engine) Submit(s Snapshot) {
	for {
		select {
		case e.requests <- s:
			return
		default:
		}
		select {
		case <-e.requests:
		default:
		}
	}
}

// Results delivers evaluation results, newest only.
func (e *Engine) Results() <-chan Result { return e.results }

// Poll returns the latest result without waiting.
func (e *Engine) Poll() (Result, bool) {
	select {
	case r := <-e.results:
		return r, true
	default:
		return Result{}, false
	}
}

// Close terminates the engine goroutine.
func (e *Engine) Close() { e.cancel() }
