package editor

import (
	"math"

	"github.com/ingyamilmolinar/nodeweave/core/model"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

// PortEntry is a drawn port: its owner and screen center.
type PortEntry struct {
	Param model.AnyParameterID
	Node  model.NodeID
	Pos   Vec2
}

// PortLocations maps ports to where they were drawn this frame. It is built
// from scratch at the start of every Update and never reused across frames.
type PortLocations struct {
	entries map[model.AnyParameterID]PortEntry
	order   []model.AnyParameterID
}

// buildPortLocations keeps only drawable ports of live nodes listed in order:
// ports of ConstantOnly inputs, of dead parameters, or claimed by a node that
// does not own them are dropped.
func buildPortLocations(g *model.Graph, order []model.NodeID, layouts map[model.NodeID]NodeLayout, logger *game_log.Logger) *PortLocations {
	pl := &PortLocations{entries: map[model.AnyParameterID]PortEntry{}}
	for _, id := range order {
		lay, ok := layouts[id]
		if !ok {
			continue
		}
		for _, p := range lay.Ports {
			owner, err := g.ParamNode(p.Param)
			if err != nil || owner != id {
				logger.Debugf("[EDITOR] Ignoring port %v reported by node %d", p.Param, id)
				continue
			}
			if in, ok := p.Param.Input(); ok {
				if ip, _ := g.Input(in); !ip.Kind.Connectable() {
					continue
				}
			}
			if _, dup := pl.entries[p.Param]; !dup {
				pl.order = append(pl.order, p.Param)
			}
			pl.entries[p.Param] = PortEntry{Param: p.Param, Node: id, Pos: p.Center}
		}
	}
	return pl
}

func (pl *PortLocations) Len() int { return len(pl.entries) }

func (pl *PortLocations) Get(p model.AnyParameterID) (PortEntry, bool) {
	e, ok := pl.entries[p]
	return e, ok
}

// Entries returns ports in the order they were registered.
func (pl *PortLocations) Entries() []PortEntry {
	out := make([]PortEntry, 0, len(pl.order))
	for _, p := range pl.order {
		out = append(out, pl.entries[p])
	}
	return out
}

// PortAt returns the port whose square hit box of half size radius contains
// pos. When several overlap the nearest wins; ties go to the last drawn.
func (pl *PortLocations) PortAt(pos Vec2, radius float64) (PortEntry, bool) {
	var (
		best  PortEntry
		bestD = math.Inf(1)
		found bool
	)
	for _, p := range pl.order {
		e := pl.entries[p]
		if !RectFromCenter(e.Pos, radius, radius).Contains(pos) {
			continue
		}
		if d := pos.Sub(e.Pos).Len(); d <= bestD {
			best, bestD, found = e, d, true
		}
	}
	return best, found
}

// prune drops ports whose parameter no longer exists.
func (pl *PortLocations) prune(g *model.Graph) {
	kept := pl.order[:0]
	for _, p := range pl.order {
		if g.Contains(p) {
			kept = append(kept, p)
			continue
		}
		delete(pl.entries, p)
	}
	pl.order = kept
}
