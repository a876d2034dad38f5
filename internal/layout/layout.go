// Package layout places nodes, their parameter rows and ports on screen for
// the demo host.
package layout

import (
	"fmt"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
	"github.com/ingyamilmolinar/nodeweave/core/model"
)

const (
	NodeWidth   = 200.0
	TitleHeight = 24.0
	RowHeight   = 20.0
	Padding     = 6.0
	CloseSize   = 12.0
)

// Row is one parameter line of a node.
type Row struct {
	Param model.AnyParameterID
	Name  string
	Type  model.DataType
	Rect  editor.Rect
	// Port is set when the parameter can take a wire.
	Port    editor.Vec2
	HasPort bool
	// Value is the formatted constant of an unconnected inline input, or the
	// last evaluated value of an output.
	Value     string
	ValueRect editor.Rect
}

// Node is the screen geometry of one node.
type Node struct {
	ID       model.NodeID
	Label    string
	Body     editor.Rect
	Title    editor.Rect
	Close    editor.Rect
	Rows     []Row
	Selected bool
}

// Frame is the layout of every node, bottom to top.
type Frame struct {
	Nodes   []Node
	Layouts map[model.NodeID]editor.NodeLayout
}

// Compute lays out every node of s at its screen position. format renders
// inline constants; nil uses fmt.Sprint.
func Compute(s *editor.State, format func(any) string) Frame {
	if format == nil {
		format = func(v any) string { return fmt.Sprint(v) }
	}
	g := s.Graph()
	selected, hasSel := s.Selected()
	f := Frame{Layouts: map[model.NodeID]editor.NodeLayout{}}
	for _, id := range s.NodeOrder() {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		pos, _ := s.ScreenPosition(id)
		ln := place(g, n, pos, format)
		ln.Selected = hasSel && selected == id
		f.Nodes = append(f.Nodes, ln)
		f.Layouts[id] = ln.editorLayout()
	}
	return f
}

func place(g *model.Graph, n *model.Node, pos editor.Vec2, format func(any) string) Node {
	ln := Node{
		ID:    n.ID,
		Label: n.Label,
		Title: editor.Rect{Min: pos, Max: pos.Add(editor.V(NodeWidth, TitleHeight))},
	}
	ln.Close = editor.RectFromCenter(
		pos.Add(editor.V(NodeWidth-Padding-CloseSize/2, TitleHeight/2)), CloseSize/2, CloseSize/2)

	y := pos.Y + TitleHeight
	for _, in := range n.Inputs {
		ip, ok := g.Input(in.ID)
		if !ok {
			continue
		}
		connectable := ip.Kind.Connectable()
		if !connectable && !ip.ShownInline {
			continue
		}
		row := Row{
			Param: model.InputParam(in.ID),
			Name:  in.Name,
			Type:  ip.Type,
			Rect:  editor.Rect{Min: editor.V(pos.X, y), Max: editor.V(pos.X+NodeWidth, y+RowHeight)},
		}
		if connectable {
			row.Port, row.HasPort = editor.V(pos.X, y+RowHeight/2), true
		}
		_, connected := g.Connection(in.ID)
		if ip.ShownInline && ip.Kind != model.ConnectionOnly && !connected {
			row.Value = format(ip.Value)
			row.ValueRect = editor.Rect{
				Min: editor.V(pos.X+NodeWidth/2, y+2),
				Max: editor.V(pos.X+NodeWidth-Padding, y+RowHeight-2),
			}
		}
		ln.Rows = append(ln.Rows, row)
		y += RowHeight
	}
	for _, out := range n.Outputs {
		op, ok := g.Output(out.ID)
		if !ok {
			continue
		}
		ln.Rows = append(ln.Rows, Row{
			Param:   model.OutputParam(out.ID),
			Name:    out.Name,
			Type:    op.Type,
			Rect:    editor.Rect{Min: editor.V(pos.X, y), Max: editor.V(pos.X+NodeWidth, y+RowHeight)},
			Port:    editor.V(pos.X+NodeWidth, y+RowHeight/2),
			HasPort: true,
		})
		y += RowHeight
	}
	ln.Body = editor.Rect{Min: pos, Max: editor.V(pos.X+NodeWidth, y+Padding)}
	return ln
}

func (n Node) editorLayout() editor.NodeLayout {
	lay := editor.NodeLayout{Body: n.Body, Close: n.Close}
	for _, r := range n.Rows {
		if r.HasPort {
			lay.Ports = append(lay.Ports, editor.PortLayout{Param: r.Param, Center: r.Port})
		}
	}
	return lay
}

// ValueAt returns the inline input whose value box is under pos, searching
// the topmost node first.
func (f Frame) ValueAt(pos editor.Vec2) (model.InputID, bool) {
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		n := f.Nodes[i]
		if !n.Body.Contains(pos) {
			continue
		}
		for _, r := range n.Rows {
			in, isInput := r.Param.Input()
			if isInput && r.Value != "" && r.ValueRect.Contains(pos) {
				return in, true
			}
		}
		return 0, false
	}
	return 0, false
}

// ShowOutputs fills the value box of every output row text has a value for.
func (f Frame) ShowOutputs(text func(model.OutputID) (string, bool)) {
	for i := range f.Nodes {
		rows := f.Nodes[i].Rows
		for j := range rows {
			out, ok := rows[j].Param.Output()
			if !ok {
				continue
			}
			v, ok := text(out)
			if !ok {
				continue
			}
			rows[j].Value = v
			rows[j].ValueRect = editor.Rect{
				Min: editor.V(rows[j].Rect.Min.X+Padding, rows[j].Rect.Min.Y+2),
				Max: editor.V(rows[j].Rect.Min.X+NodeWidth/2, rows[j].Rect.Max.Y-2),
			}
		}
	}
}
