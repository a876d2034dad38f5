package engine

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var ErrArgument = errors.New("bad argument")

// BuiltinOps returns the scalar and 2D vector arithmetic operations, keyed by
// the node type names of the builtin catalog.
func BuiltinOps() map[string]Op {
	return map[string]Op{
		"make_scalar": func(args []cty.Value) ([]cty.Value, error) {
			a, err := scalars(args, 1)
			if err != nil {
				return nil, err
			}
			return []cty.Value{a[0]}, nil
		},
		"add_scalar": scalarBinary(cty.Value.Add),
		"sub_scalar": scalarBinary(cty.Value.Subtract),
		"make_vector": func(args []cty.Value) ([]cty.Value, error) {
			a, err := scalars(args, 2)
			if err != nil {
				return nil, err
			}
			return []cty.Value{cty.TupleVal(a)}, nil
		},
		"add_vector": vectorBinary(cty.Value.Add),
		"sub_vector": vectorBinary(cty.Value.Subtract),
		"vector_times_scalar": func(args []cty.Value) ([]cty.Value, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("%w: want 2 arguments, got %d", ErrArgument, len(args))
			}
			k, err := scalar(args[0])
			if err != nil {
				return nil, fmt.Errorf("argument 0: %w", err)
			}
			x, y, err := vector(args[1])
			if err != nil {
				return nil, fmt.Errorf("argument 1: %w", err)
			}
			return []cty.Value{cty.TupleVal([]cty.Value{x.Multiply(k), y.Multiply(k)})}, nil
		},
	}
}

func scalarBinary(f func(cty.Value, cty.Value) cty.Value) Op {
	return func(args []cty.Value) ([]cty.Value, error) {
		a, err := scalars(args, 2)
		if err != nil {
			return nil, err
		}
		return []cty.Value{f(a[0], a[1])}, nil
	}
}

func vectorBinary(f func(cty.Value, cty.Value) cty.Value) Op {
	return func(args []cty.Value) ([]cty.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: want 2 arguments, got %d", ErrArgument, len(args))
		}
		ax, ay, err := vector(args[0])
		if err != nil {
			return nil, fmt.Errorf("argument 0: %w", err)
		}
		bx, by, err := vector(args[1])
		if err != nil {
			return nil, fmt.Errorf("argument 1: %w", err)
		}
		return []cty.Value{cty.TupleVal([]cty.Value{f(ax, bx), f(ay, by)})}, nil
	}
}

func scalars(args []cty.Value, n int) ([]cty.Value, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrArgument, n, len(args))
	}
	out := make([]cty.Value, n)
	for i, a := range args {
		v, err := scalar(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func scalar(v cty.Value) (cty.Value, error) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("%w: no value", ErrArgument)
	}
	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %s is not a number", ErrArgument, v.Type().FriendlyName())
	}
	return n, nil
}

func vector(v cty.Value) (x, y cty.Value, err error) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return cty.NilVal, cty.NilVal, fmt.Errorf("%w: no value", ErrArgument)
	}
	l, err := convert.Convert(v, cty.List(cty.Number))
	if err != nil || l.LengthInt() != 2 {
		return cty.NilVal, cty.NilVal, fmt.Errorf("%w: %s is not a 2D vector", ErrArgument, v.Type().FriendlyName())
	}
	elems := l.AsValueSlice()
	if elems[0].IsNull() || elems[1].IsNull() {
		return cty.NilVal, cty.NilVal, fmt.Errorf("%w: vector has an empty component", ErrArgument)
	}
	return elems[0], elems[1], nil
}
