// Package onnxerr defines the fatal error taxonomy surfaced by the wire
// decoder, model parser, symbol table, and execution engine. Every error
// kind is a distinct type so callers can discriminate with errors.As instead
// of string matching.
package onnxerr

import "fmt"

// IoError reports a model file that could not be opened or fully read.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("onnx: io error reading %q: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// ParseError reports a malformed wire-format byte stream.
type ParseError struct {
	Offset int
	What   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("onnx: parse error at offset %d: %s", e.Offset, e.What)
}

// ShapeError reports a tensor shape incompatible with an operator's
// requirements.
type ShapeError struct {
	Node     string
	Expected []int
	Actual   []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("onnx: shape error at node %q: expected %v, got %v", e.Node, e.Expected, e.Actual)
}

// UnknownName reports a symbol table lookup miss.
type UnknownName struct {
	Name string
}

func (e *UnknownName) Error() string {
	return fmt.Sprintf("onnx: unknown tensor name %q", e.Name)
}

// DuplicateName reports two nodes or initializers producing the same name.
type DuplicateName struct {
	Name string
}

func (e *DuplicateName) Error() string {
	return fmt.Sprintf("onnx: duplicate tensor name %q", e.Name)
}

// UnsupportedOperator reports an op_type outside the supported set.
type UnsupportedOperator struct {
	OpType    string
	NodeIndex int
}

func (e *UnsupportedOperator) Error() string {
	return fmt.Sprintf("onnx: unsupported operator %q at node %d", e.OpType, e.NodeIndex)
}

// UnsupportedAttributeValue reports an attribute value this implementation
// does not handle, such as asymmetric padding or a non-unit group outside
// the supported depthwise case.
type UnsupportedAttributeValue struct {
	OpType string
	Attr   string
	Value  string
}

func (e *UnsupportedAttributeValue) Error() string {
	return fmt.Sprintf("onnx: unsupported value for %s attribute %q: %s", e.OpType, e.Attr, e.Value)
}

// AttributeTypeMismatch reports an attribute read as the wrong variant
// (e.g. INTS read as INT).
type AttributeTypeMismatch struct {
	OpType string
	Attr   string
}

func (e *AttributeTypeMismatch) Error() string {
	return fmt.Sprintf("onnx: attribute %q on %s has an unexpected type", e.Attr, e.OpType)
}

// WithNode wraps err with node/op_type context, as the interpreter does when
// propagating a kernel or attribute-accessor error upward. Errors that are
// already node-scoped (ShapeError, UnsupportedOperator, ...) are returned
// unchanged; anything else is wrapped so the node that triggered it is never
// lost.
func WithNode(nodeIndex int, opType string, err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *ShapeError, *UnsupportedOperator,
		*UnsupportedAttributeValue, *AttributeTypeMismatch:
		return err
	default:
		return fmt.Errorf("onnx: node %d (%s): %w", nodeIndex, opType, err)
	}
}
