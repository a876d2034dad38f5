package editor

import (
	"fmt"

	"github.com/ingyamilmolinar/nodeweave/core/model"
)

// NodeResponse is one discrete edit event of a frame. The set of
// implementations is closed.
type NodeResponse interface {
	isNodeResponse()
	fmt.Stringer
}

// ConnectStarted begins a connection drag at a port.
type ConnectStarted struct {
	Node  model.NodeID
	Param model.AnyParameterID
}

// ConnectEnded releases the in-progress drag over a compatible port.
type ConnectEnded struct {
	Param model.AnyParameterID
}

type SelectNode struct {
	Node model.NodeID
}

type DeleteNode struct {
	Node model.NodeID
}

// Disconnect picks up the wire plugged into Input. Output is the end it was
// attached to when the event was emitted.
type Disconnect struct {
	Input  model.InputID
	Output model.OutputID
}

type RaiseNode struct {
	Node model.NodeID
}

// UserDefined carries a host payload emitted by a node's body.
type UserDefined struct {
	Node    model.NodeID
	Payload any
}

// CreatedNode reports a node instantiated from the finder.
type CreatedNode struct {
	Node model.NodeID
}

func (ConnectStarted) isNodeResponse() {}
func (ConnectEnded) isNodeResponse()   {}
func (SelectNode) isNodeResponse()     {}
func (DeleteNode) isNodeResponse()     {}
func (Disconnect) isNodeResponse()     {}
func (RaiseNode) isNodeResponse()      {}
func (UserDefined) isNodeResponse()    {}
func (CreatedNode) isNodeResponse()    {}

func (r ConnectStarted) String() string {
	return fmt.Sprintf("ConnectStarted(%d, %v)", r.Node, r.Param)
}
func (r ConnectEnded) String() string { return fmt.Sprintf("ConnectEnded(%v)", r.Param) }
func (r SelectNode) String() string   { return fmt.Sprintf("Select(%d)", r.Node) }
func (r DeleteNode) String() string   { return fmt.Sprintf("Delete(%d)", r.Node) }
func (r Disconnect) String() string {
	return fmt.Sprintf("Disconnect(%d from %d)", r.Input, r.Output)
}
func (r RaiseNode) String() string   { return fmt.Sprintf("Raise(%d)", r.Node) }
func (r UserDefined) String() string { return fmt.Sprintf("User(%d, %v)", r.Node, r.Payload) }
func (r CreatedNode) String() string { return fmt.Sprintf("Created(%d)", r.Node) }

// Wire is a connection resolved to screen coordinates.
type Wire struct {
	Input    model.InputID
	Output   model.OutputID
	From, To Vec2
}

// PendingWire is the in-progress drag, from its origin port to the pointer.
type PendingWire struct {
	Origin   DragOrigin
	From, To Vec2
}

// GraphResponse is the outcome of one Update.
type GraphResponse struct {
	Responses   []NodeResponse
	Wires       []Wire
	PendingWire *PendingWire
}
