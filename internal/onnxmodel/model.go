// Package onnxmodel holds the in-memory graph representation and the
// parser that decodes it from the wire format, grounded on the field
// tables recovered from the original C reference parser.
package onnxmodel

import "github.com/itohio/onnxcpu/internal/tensor"

// AttributeKind mirrors the small subset of ONNX's AttributeType enum this
// engine reads.
type AttributeKind int

const (
	AttrUnknown AttributeKind = 0
	AttrFloat   AttributeKind = 1
	AttrInt     AttributeKind = 2
	AttrString  AttributeKind = 3
	AttrInts    AttributeKind = 7
)

// Attribute is one named node parameter, holding whichever of its fields
// the wire encoding populated.
type Attribute struct {
	Name     string
	Kind     AttributeKind
	IntVal   int64
	FloatVal float32
	Ints     []int64
}

// Node is one graph operation: an op_type applied to named input tensors,
// producing named output tensors.
type Node struct {
	Name       string
	OpType     string
	Inputs     []string
	Outputs    []string
	Attributes []Attribute
}

// Attr looks up a node's attribute by name. The second return is false
// when the attribute is absent, letting attribute accessors apply their
// default without distinguishing "absent" from "zero".
func (n *Node) Attr(name string) (Attribute, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Initializer is a constant tensor embedded in the model file.
type Initializer struct {
	Name  string
	Shape tensor.Shape
	Data  []float32
}

// Graph is the ordered computation: nodes execute in declaration order,
// each consuming tensors produced by earlier nodes, the declared input, or
// an initializer.
type Graph struct {
	Name           string
	Nodes          []Node
	Initializers   []Initializer
	InputName      string
	OutputName     string
	InputInferred  bool // true when InputName came from the node[0].Inputs[0] fallback
	OutputInferred bool // true when OutputName came from the last node's Outputs[0] fallback
}

// Model wraps the single Graph a ModelProto carries, per this engine's
// scope: ir_version, producer metadata, opset imports and every other
// ModelProto field are skipped during decoding.
type Model struct {
	Graph Graph
}
