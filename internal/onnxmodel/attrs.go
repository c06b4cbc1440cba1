package onnxmodel

import "github.com/itohio/onnxcpu/internal/onnxerr"

// AttrInt returns the int64 value of name on n, or def if absent. A value
// present under a different kind is AttributeTypeMismatch.
func AttrInt(n *Node, name string, def int64) (int64, error) {
	a, ok := n.Attr(name)
	if !ok {
		return def, nil
	}
	if a.Kind != AttrInt {
		return 0, &onnxerr.AttributeTypeMismatch{OpType: n.OpType, Attr: name}
	}
	return a.IntVal, nil
}

// AttrFloat returns the float32 value of name on n, or def if absent.
func AttrFloat(n *Node, name string, def float32) (float32, error) {
	a, ok := n.Attr(name)
	if !ok {
		return def, nil
	}
	if a.Kind != AttrFloat {
		return 0, &onnxerr.AttributeTypeMismatch{OpType: n.OpType, Attr: name}
	}
	return a.FloatVal, nil
}

// AttrInts copies up to len(out) values of the named INTS attribute into
// out, returning the number copied. If the attribute is absent, out is
// left untouched and 0 is returned so the caller's pre-set defaults stand.
func AttrInts(n *Node, name string, out []int64) (int, error) {
	a, ok := n.Attr(name)
	if !ok {
		return 0, nil
	}
	if a.Kind != AttrInts {
		return 0, &onnxerr.AttributeTypeMismatch{OpType: n.OpType, Attr: name}
	}
	count := len(a.Ints)
	if count > len(out) {
		count = len(out)
	}
	copy(out[:count], a.Ints[:count])
	return count, nil
}
