package editor

import (
	"strings"

	"github.com/ingyamilmolinar/nodeweave/core/model"
)

// NodeTemplate is one instantiable node type.
type NodeTemplate interface {
	Label() string
	UserData() any
	// Build attaches the template's inputs and outputs to the new node.
	Build(g *model.Graph, id model.NodeID) error
}

// TemplateSource enumerates the templates the finder offers.
type TemplateSource interface {
	Templates() []NodeTemplate
}

// BodyResponder may be implemented by a node's user data to emit host
// payloads every frame. Each payload becomes a UserDefined response.
type BodyResponder interface {
	BodyResponses(id model.NodeID, g *model.Graph) []any
}

// NodeFinder is a pending node-creation request anchored where it was
// opened.
type NodeFinder struct {
	Position Vec2
	Query    string
}

// Matches filters src by a case-insensitive substring of the query.
func (f *NodeFinder) Matches(src TemplateSource) []NodeTemplate {
	if src == nil {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []NodeTemplate
	for _, t := range src.Templates() {
		if q == "" || strings.Contains(strings.ToLower(t.Label()), q) {
			out = append(out, t)
		}
	}
	return out
}
