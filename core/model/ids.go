package model

import "fmt"

const InvalidNodeID NodeID = -1

type (
	NodeID   int
	InputID  int
	OutputID int
)

// Polarity tells whether a port is an input or an output.
type Polarity uint8

const (
	PolarityInput Polarity = iota + 1
	PolarityOutput
)

func (p Polarity) String() string {
	switch p {
	case PolarityInput:
		return "input"
	case PolarityOutput:
		return "output"
	default:
		return "invalid"
	}
}

// Opposite returns the other polarity.
func (p Polarity) Opposite() Polarity {
	switch p {
	case PolarityInput:
		return PolarityOutput
	case PolarityOutput:
		return PolarityInput
	default:
		return p
	}
}

// AnyParameterID names a port of either polarity. The zero value names no
// port. Values are comparable and can be used as map keys.
type AnyParameterID struct {
	polarity Polarity
	id       int
}

func InputParam(id InputID) AnyParameterID {
	return AnyParameterID{polarity: PolarityInput, id: int(id)}
}

func OutputParam(id OutputID) AnyParameterID {
	return AnyParameterID{polarity: PolarityOutput, id: int(id)}
}

func (p AnyParameterID) Polarity() Polarity { return p.polarity }

func (p AnyParameterID) IsZero() bool { return p.polarity == 0 }

// Equal reports whether p and o name the same port. go-cmp uses it to compare
// values whose fields are unexported.
func (p AnyParameterID) Equal(o AnyParameterID) bool { return p == o }

// Input returns the input id when p is an input port.
func (p AnyParameterID) Input() (InputID, bool) {
	if p.polarity != PolarityInput {
		return 0, false
	}
	return InputID(p.id), true
}

// Output returns the output id when p is an output port.
func (p AnyParameterID) Output() (OutputID, bool) {
	if p.polarity != PolarityOutput {
		return 0, false
	}
	return OutputID(p.id), true
}

func (p AnyParameterID) String() string {
	switch p.polarity {
	case PolarityInput:
		return fmt.Sprintf("Input(%d)", p.id)
	case PolarityOutput:
		return fmt.Sprintf("Output(%d)", p.id)
	default:
		return "None"
	}
}

// Pair orders two ports of opposite polarity as (input, output). It reports
// false when both ports share a polarity or either is the zero value.
func Pair(a, b AnyParameterID) (InputID, OutputID, bool) {
	switch a.polarity {
	case PolarityInput:
		if out, ok := b.Output(); ok {
			return InputID(a.id), out, true
		}
	case PolarityOutput:
		if in, ok := b.Input(); ok {
			return in, OutputID(a.id), true
		}
	}
	return 0, 0, false
}
