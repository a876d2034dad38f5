// Package catalog loads node templates from HCL files.
package catalog

import (
	"cmp"
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
	"github.com/ingyamilmolinar/nodeweave/core/model"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

//go:embed builtin.hcl
var builtinSource []byte

// BuiltinFilename names the embedded catalog in diagnostics.
const BuiltinFilename = "builtin.hcl"

var (
	ErrUnknownDataType = errors.New("unknown data type")
	ErrUnknownKind     = errors.New("unknown input kind")
	ErrDuplicate       = errors.New("duplicate declaration")
	ErrInvalidDefault  = errors.New("invalid default value")
	ErrInvalidColor    = errors.New("invalid color")
)

// fileRoot decodes every top-level block of a catalog file.
type fileRoot struct {
	DataTypes []*dataTypeBlock `hcl:"data_type,block"`
	Nodes     []*nodeBlock     `hcl:"node,block"`
}

type dataTypeBlock struct {
	Name  string         `hcl:"name,label"`
	Color string         `hcl:"color,optional"`
	Zero  hcl.Expression `hcl:"zero,optional"`
}

type nodeBlock struct {
	Name     string         `hcl:"name,label"`
	Label    string         `hcl:"label,optional"`
	Category string         `hcl:"category,optional"`
	Inputs   []*inputBlock  `hcl:"input,block"`
	Outputs  []*outputBlock `hcl:"output,block"`
}

type inputBlock struct {
	Name    string         `hcl:"name,label"`
	Type    string         `hcl:"type"`
	Kind    string         `hcl:"kind,optional"`
	Default hcl.Expression `hcl:"default,optional"`
	Inline  *bool          `hcl:"inline,optional"`
}

type outputBlock struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

// DataType is a declared connection type.
type DataType struct {
	Name  model.DataType
	Color color.RGBA
	// Zero is the constant given to inputs without a default. Null when the
	// type declares none.
	Zero cty.Value
}

// Catalog is a set of data types and the node templates built on them.
type Catalog struct {
	types     map[model.DataType]DataType
	templates []*Template
	byName    map[string]*Template
}

// Builtin returns the embedded catalog.
func Builtin(logger *game_log.Logger) (*Catalog, error) {
	return Parse(logger, builtinSource, BuiltinFilename)
}

// Load parses the catalog files at paths as one catalog. With no paths it
// returns the builtin catalog.
func Load(logger *game_log.Logger, paths ...string) (*Catalog, error) {
	if len(paths) == 0 {
		return Builtin(logger)
	}
	parser := hclparse.NewParser()
	var roots []fileRoot
	for _, path := range paths {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, diags)
		}
		root, err := decode(f, path)
		if err != nil {
			return nil, err
		}
		logger.Debugf("[CATALOG] %s: %d data types, %d nodes", path, len(root.DataTypes), len(root.Nodes))
		roots = append(roots, root)
	}
	return build(logger, roots)
}

// Parse reads a single catalog from src.
func Parse(logger *game_log.Logger, src []byte, filename string) (*Catalog, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filename, diags)
	}
	root, err := decode(f, filename)
	if err != nil {
		return nil, err
	}
	return build(logger, []fileRoot{root})
}

func decode(f *hcl.File, filename string) (fileRoot, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return fileRoot{}, fmt.Errorf("failed to decode catalog %s: %w", filename, diags)
	}
	return root, nil
}

// build resolves data types first so nodes may reference types declared in
// any of the files.
func build(logger *game_log.Logger, roots []fileRoot) (*Catalog, error) {
	c := &Catalog{
		types:  map[model.DataType]DataType{},
		byName: map[string]*Template{},
	}
	for _, root := range roots {
		for _, b := range root.DataTypes {
			dt, err := translateDataType(b)
			if err != nil {
				return nil, err
			}
			if _, dup := c.types[dt.Name]; dup {
				return nil, fmt.Errorf("data type %q: %w", b.Name, ErrDuplicate)
			}
			c.types[dt.Name] = dt
		}
	}
	for _, root := range roots {
		for _, b := range root.Nodes {
			if _, dup := c.byName[b.Name]; dup {
				return nil, fmt.Errorf("node %q: %w", b.Name, ErrDuplicate)
			}
			t, err := c.translateNode(b)
			if err != nil {
				return nil, err
			}
			c.byName[t.Name] = t
			c.templates = append(c.templates, t)
		}
	}
	slices.SortStableFunc(c.templates, func(a, b *Template) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.label, b.label))
	})
	logger.Infof("[CATALOG] Loaded %d data types and %d node templates", len(c.types), len(c.templates))
	return c, nil
}

// isExprDefined reports whether an optional attribute was written in the
// source. gohcl fills omitted ones with a zero-width placeholder.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

func translateDataType(b *dataTypeBlock) (DataType, error) {
	dt := DataType{
		Name:  model.DataType(b.Name),
		Color: color.RGBA{0x99, 0x99, 0x99, 0xff},
		Zero:  cty.NullVal(cty.DynamicPseudoType),
	}
	if b.Color != "" {
		c, err := ParseHexColor(b.Color)
		if err != nil {
			return DataType{}, fmt.Errorf("data type %q: %w", b.Name, err)
		}
		dt.Color = c
	}
	if isExprDefined(b.Zero) {
		v, diags := b.Zero.Value(nil)
		if diags.HasErrors() {
			return DataType{}, fmt.Errorf("data type %q zero: %w: %w", b.Name, ErrInvalidDefault, diags)
		}
		dt.Zero = v
	}
	return dt, nil
}

func (c *Catalog) translateNode(b *nodeBlock) (*Template, error) {
	t := &Template{Name: b.Name, Category: b.Category, label: b.Label}
	if t.label == "" {
		t.label = b.Name
	}
	seen := map[string]bool{}
	for _, in := range b.Inputs {
		if seen["in:"+in.Name] {
			return nil, fmt.Errorf("node %q input %q: %w", b.Name, in.Name, ErrDuplicate)
		}
		seen["in:"+in.Name] = true
		spec, err := c.translateInput(in)
		if err != nil {
			return nil, fmt.Errorf("node %q input %q: %w", b.Name, in.Name, err)
		}
		t.Inputs = append(t.Inputs, spec)
	}
	for _, out := range b.Outputs {
		if seen["out:"+out.Name] {
			return nil, fmt.Errorf("node %q output %q: %w", b.Name, out.Name, ErrDuplicate)
		}
		seen["out:"+out.Name] = true
		typ := model.DataType(out.Type)
		if _, ok := c.types[typ]; !ok {
			return nil, fmt.Errorf("node %q output %q: %w %q", b.Name, out.Name, ErrUnknownDataType, out.Type)
		}
		t.Outputs = append(t.Outputs, OutputSpec{Name: out.Name, Type: typ})
	}
	return t, nil
}

func (c *Catalog) translateInput(b *inputBlock) (InputSpec, error) {
	dt, ok := c.types[model.DataType(b.Type)]
	if !ok {
		return InputSpec{}, fmt.Errorf("%w %q", ErrUnknownDataType, b.Type)
	}
	kind, err := ParseKind(b.Kind)
	if err != nil {
		return InputSpec{}, err
	}
	spec := InputSpec{Name: b.Name, Type: dt.Name, Kind: kind, ShownInline: true, Default: dt.Zero}
	if b.Inline != nil {
		spec.ShownInline = *b.Inline
	}
	if !isExprDefined(b.Default) {
		return spec, nil
	}
	v, diags := b.Default.Value(nil)
	if diags.HasErrors() {
		return InputSpec{}, fmt.Errorf("%w: %w", ErrInvalidDefault, diags)
	}
	if !dt.Zero.IsNull() {
		v, err = convert.Convert(v, dt.Zero.Type())
		if err != nil {
			return InputSpec{}, fmt.Errorf("%w: %w", ErrInvalidDefault, err)
		}
	}
	spec.Default = v
	return spec, nil
}

// ParseKind maps the catalog spelling of an input kind. Empty means
// connection_or_constant.
func ParseKind(s string) (model.InputParamKind, error) {
	switch strings.TrimSpace(s) {
	case "", "connection_or_constant":
		return model.ConnectionOrConstant, nil
	case "connection_only":
		return model.ConnectionOnly, nil
	case "constant_only":
		return model.ConstantOnly, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownKind, s)
	}
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Templates lists templates by category, then label.
func (c *Catalog) Templates() []editor.NodeTemplate {
	out := make([]editor.NodeTemplate, len(c.templates))
	for i, t := range c.templates {
		out[i] = t
	}
	return out
}

// Template looks a template up by its block name.
func (c *Catalog) Template(name string) (*Template, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// DataType returns the declaration of typ.
func (c *Catalog) DataType(typ model.DataType) (DataType, bool) {
	dt, ok := c.types[typ]
	return dt, ok
}

// Color is the wire and port color of typ. Undeclared types are grey.
func (c *Catalog) Color(typ model.DataType) color.RGBA {
	if dt, ok := c.types[typ]; ok {
		return dt.Color
	}
	return color.RGBA{0x99, 0x99, 0x99, 0xff}
}

var _ editor.TemplateSource = (*Catalog)(nil)
