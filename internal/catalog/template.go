package catalog

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
	"github.com/ingyamilmolinar/nodeweave/core/model"
)

type InputSpec struct {
	Name        string
	Type        model.DataType
	Kind        model.InputParamKind
	ShownInline bool
	Default     cty.Value
}

type OutputSpec struct {
	Name string
	Type model.DataType
}

// Template is one node type of a catalog. Nodes built from it carry the
// template itself as user data.
type Template struct {
	Name     string
	Category string
	Inputs   []InputSpec
	Outputs  []OutputSpec

	label string
}

var _ editor.NodeTemplate = (*Template)(nil)

func (t *Template) Label() string { return t.label }

func (t *Template) UserData() any { return t }

// Build attaches the template's parameters to node id in declaration order.
func (t *Template) Build(g *model.Graph, id model.NodeID) error {
	for _, in := range t.Inputs {
		if _, err := g.AddInputParam(id, in.Name, in.Type, in.Default, in.Kind, in.ShownInline); err != nil {
			return fmt.Errorf("template %q: %w", t.Name, err)
		}
	}
	for _, out := range t.Outputs {
		if _, err := g.AddOutputParam(id, out.Name, out.Type); err != nil {
			return fmt.Errorf("template %q: %w", t.Name, err)
		}
	}
	return nil
}

// FormatValue renders a constant for display next to an inline input.
func FormatValue(v any) string {
	cv, ok := v.(cty.Value)
	if !ok {
		return fmt.Sprint(v)
	}
	if cv.IsNull() {
		return "-"
	}
	if !cv.IsKnown() {
		return "?"
	}
	ty := cv.Type()
	switch {
	case ty == cty.Number:
		return cv.AsBigFloat().Text('g', 6)
	case ty == cty.String:
		return fmt.Sprintf("%q", cv.AsString())
	case ty == cty.Bool:
		if cv.True() {
			return "true"
		}
		return "false"
	case ty.IsTupleType() || ty.IsListType():
		var parts []string
		for it := cv.ElementIterator(); it.Next(); {
			_, e := it.Element()
			parts = append(parts, FormatValue(e))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return ty.FriendlyName()
	}
}

// Float reads a numeric constant, reporting false for anything else.
func Float(v any) (float64, bool) {
	cv, ok := v.(cty.Value)
	if !ok || cv.IsNull() || !cv.IsKnown() || cv.Type() != cty.Number {
		return 0, false
	}
	f, _ := cv.AsBigFloat().Float64()
	return f, true
}

// WithFloat returns a numeric constant holding f.
func WithFloat(f float64) cty.Value { return cty.NumberVal(new(big.Float).SetFloat64(f)) }

// OpName names the evaluation operation nodes of this template run.
func (t *Template) OpName() string { return t.Name }
