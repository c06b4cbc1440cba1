package onnxmodel

import (
	"math"

	"github.com/itohio/onnxcpu/internal/onnxerr"
	"github.com/itohio/onnxcpu/internal/onnxlog"
	"github.com/itohio/onnxcpu/internal/tensor"
	"github.com/itohio/onnxcpu/internal/wire"
)

// Field numbers recognized by the parser. Everything else is skipped.
const (
	fieldModelGraph = 7

	fieldGraphNode        = 1
	fieldGraphName        = 2
	fieldGraphInitializer = 5
	fieldGraphInput       = 11
	fieldGraphOutput      = 12

	fieldNodeInput   = 1
	fieldNodeOutput  = 2
	fieldNodeName    = 3
	fieldNodeOpType  = 4
	fieldNodeAttr    = 5

	fieldAttrName = 1
	fieldAttrInt  = 2
	fieldAttrFloat = 4
	fieldAttrInts = 7
	fieldAttrType = 20

	fieldTensorDims     = 1
	fieldTensorDataType = 2
	fieldTensorFloats   = 4
	fieldTensorName     = 8
	fieldTensorRawData  = 9

	fieldValueInfoName = 1

	tensorDataTypeFloat = 1
)

// Parse decodes a complete ONNX model file from buf.
func Parse(buf []byte) (*Model, error) {
	r := wire.NewReader(buf)
	var m Model
	var sawGraph bool

	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		if field == fieldModelGraph && wt == wire.LengthDelimited {
			payload, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			g, err := parseGraph(payload)
			if err != nil {
				return nil, err
			}
			m.Graph = *g
			sawGraph = true
			continue
		}
		if err := r.Skip(wt); err != nil {
			return nil, err
		}
	}

	if !sawGraph {
		return nil, &onnxerr.ParseError{Offset: 0, What: "model has no graph field"}
	}

	resolveGraphIO(&m.Graph)

	onnxlog.Log.Debug().Str("graph", m.Graph.Name).Int("nodes", len(m.Graph.Nodes)).Msg("parsed model")
	return &m, nil
}

func parseGraph(buf []byte) (*Graph, error) {
	r := wire.NewReader(buf)
	g := &Graph{}

	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		switch {
		case field == fieldGraphNode && wt == wire.LengthDelimited:
			payload, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			n, err := parseNode(payload)
			if err != nil {
				return nil, err
			}
			g.Nodes = append(g.Nodes, *n)

		case field == fieldGraphName && wt == wire.LengthDelimited:
			name, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			g.Name = string(name)

		case field == fieldGraphInitializer && wt == wire.LengthDelimited:
			payload, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			init, err := parseInitializer(payload)
			if err != nil {
				return nil, err
			}
			g.Initializers = append(g.Initializers, *init)

		case field == fieldGraphInput && wt == wire.LengthDelimited:
			payload, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			if name, ok := parseValueInfoName(payload); ok {
				g.InputName = name
			}

		case field == fieldGraphOutput && wt == wire.LengthDelimited:
			payload, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			if name, ok := parseValueInfoName(payload); ok {
				g.OutputName = name
			}

		default:
			if err := r.Skip(wt); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// parseValueInfoName descends into a ValueInfo message for its field-1
// name leaf, skipping everything else (type, shape, doc string). It
// returns ok=false if the message is malformed or carries no name, letting
// the caller fall back to convention rather than fail the whole parse.
func parseValueInfoName(buf []byte) (string, bool) {
	r := wire.NewReader(buf)
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return "", false
		}
		if field == fieldValueInfoName && wt == wire.LengthDelimited {
			name, err := r.ReadLengthDelimited()
			if err != nil {
				return "", false
			}
			return string(name), true
		}
		if err := r.Skip(wt); err != nil {
			return "", false
		}
	}
	return "", false
}

func parseNode(buf []byte) (*Node, error) {
	r := wire.NewReader(buf)
	n := &Node{}

	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		switch {
		case field == fieldNodeInput && wt == wire.LengthDelimited:
			v, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			n.Inputs = append(n.Inputs, string(v))

		case field == fieldNodeOutput && wt == wire.LengthDelimited:
			v, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			n.Outputs = append(n.Outputs, string(v))

		case field == fieldNodeName && wt == wire.LengthDelimited:
			v, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			n.Name = string(v)

		case field == fieldNodeOpType && wt == wire.LengthDelimited:
			v, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			n.OpType = string(v)

		case field == fieldNodeAttr && wt == wire.LengthDelimited:
			payload, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			a, err := parseAttribute(payload)
			if err != nil {
				return nil, err
			}
			n.Attributes = append(n.Attributes, *a)

		default:
			if err := r.Skip(wt); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func parseAttribute(buf []byte) (*Attribute, error) {
	r := wire.NewReader(buf)
	a := &Attribute{}

	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		switch {
		case field == fieldAttrName && wt == wire.LengthDelimited:
			v, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			a.Name = string(v)

		case field == fieldAttrInt && wt == wire.Varint:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			a.IntVal = int64(v)

		case field == fieldAttrFloat && wt == wire.Fixed32:
			v, err := r.ReadFixed32()
			if err != nil {
				return nil, err
			}
			a.FloatVal = math.Float32frombits(v)

		case field == fieldAttrInts:
			vals, err := readPackedOrRepeatedInt64(r, wt)
			if err != nil {
				return nil, err
			}
			a.Ints = append(a.Ints, vals...)

		case field == fieldAttrType && wt == wire.Varint:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			a.Kind = AttributeKind(v)

		default:
			if err := r.Skip(wt); err != nil {
				return nil, err
			}
		}
	}

	if a.Kind == AttrUnknown {
		a.Kind = inferAttributeKind(a)
	}
	return a, nil
}

// inferAttributeKind is used when a producer omitted the explicit type
// discriminator field (field 20), which some exporters do when the value
// is unambiguous from which other field was populated.
func inferAttributeKind(a *Attribute) AttributeKind {
	switch {
	case len(a.Ints) > 0:
		return AttrInts
	case a.FloatVal != 0:
		return AttrFloat
	default:
		return AttrInt
	}
}

func parseInitializer(buf []byte) (*Initializer, error) {
	r := wire.NewReader(buf)
	var dims []int64
	var dataType int64 = tensorDataTypeFloat
	var floats []float32
	var rawData []byte
	var name string

	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		switch {
		case field == fieldTensorDims:
			vals, err := readPackedOrRepeatedInt64(r, wt)
			if err != nil {
				return nil, err
			}
			dims = append(dims, vals...)

		case field == fieldTensorDataType && wt == wire.Varint:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			dataType = int64(v)

		case field == fieldTensorFloats:
			vals, err := readPackedOrRepeatedFloat32(r, wt)
			if err != nil {
				return nil, err
			}
			floats = append(floats, vals...)

		case field == fieldTensorName && wt == wire.LengthDelimited:
			v, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			name = string(v)

		case field == fieldTensorRawData && wt == wire.LengthDelimited:
			v, err := r.ReadLengthDelimited()
			if err != nil {
				return nil, err
			}
			rawData = v

		default:
			if err := r.Skip(wt); err != nil {
				return nil, err
			}
		}
	}

	if dataType != tensorDataTypeFloat {
		return nil, &onnxerr.ParseError{Offset: 0, What: "initializer element type is not FLOAT"}
	}

	shape, err := dimsToShape(dims)
	if err != nil {
		return nil, err
	}

	var data []float32
	switch {
	case len(floats) > 0:
		data = floats
	case rawData != nil:
		data, err = decodeRawFloats(rawData)
		if err != nil {
			return nil, err
		}
	default:
		data = make([]float32, shape.Size())
	}

	if len(data) != shape.Size() {
		return nil, &onnxerr.ParseError{Offset: 0, What: "initializer data length does not match declared dims"}
	}

	return &Initializer{Name: name, Shape: shape, Data: data}, nil
}

// dimsToShape maps an ONNX rank (0-4) to this engine's fixed rank-4 (n,c,h,w)
// layout, left-padding with 1s. Ranks above 4 are rejected.
func dimsToShape(dims []int64) (tensor.Shape, error) {
	var s tensor.Shape
	switch len(dims) {
	case 0:
		s = tensor.Shape{1, 1, 1, 1}
	case 1:
		s = tensor.Shape{1, 1, 1, int(dims[0])}
	case 2:
		s = tensor.Shape{1, 1, int(dims[0]), int(dims[1])}
	case 3:
		s = tensor.Shape{1, int(dims[0]), int(dims[1]), int(dims[2])}
	case 4:
		s = tensor.Shape{int(dims[0]), int(dims[1]), int(dims[2]), int(dims[3])}
	default:
		return tensor.Shape{}, &onnxerr.ParseError{Offset: 0, What: "tensor rank above 4 is not supported"}
	}
	return s, nil
}

func decodeRawFloats(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, &onnxerr.ParseError{Offset: 0, What: "raw_data length is not a multiple of 4"}
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		bits := uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

// readPackedOrRepeatedInt64 reads one occurrence of a repeated int64 field
// that may be encoded either as a single packed length-delimited payload of
// varints, or as one bare varint per occurrence (the caller accumulates
// across calls for the repeated-non-packed form).
func readPackedOrRepeatedInt64(r *wire.Reader, wt wire.WireType) ([]int64, error) {
	if wt == wire.Varint {
		v, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		return []int64{int64(v)}, nil
	}
	payload, err := r.ReadLengthDelimited()
	if err != nil {
		return nil, err
	}
	pr := wire.NewReader(payload)
	var out []int64
	for pr.Len() > 0 {
		v, err := pr.ReadVarint()
		if err != nil {
			return nil, err
		}
		out = append(out, int64(v))
	}
	return out, nil
}

// readPackedOrRepeatedFloat32 is the float32 analogue: either a single
// fixed32 occurrence, or a packed length-delimited run of fixed32 values.
func readPackedOrRepeatedFloat32(r *wire.Reader, wt wire.WireType) ([]float32, error) {
	if wt == wire.Fixed32 {
		v, err := r.ReadFixed32()
		if err != nil {
			return nil, err
		}
		return []float32{math.Float32frombits(v)}, nil
	}
	payload, err := r.ReadLengthDelimited()
	if err != nil {
		return nil, err
	}
	pr := wire.NewReader(payload)
	var out []float32
	for pr.Len() > 0 {
		v, err := pr.ReadFixed32()
		if err != nil {
			return nil, err
		}
		out = append(out, math.Float32frombits(v))
	}
	return out, nil
}

// resolveGraphIO fills in InputName/OutputName from the first/last node
// when no ValueInfo leaf was found, per the convention-based fallback:
// this is an inference, not a guarantee made by the file format.
func resolveGraphIO(g *Graph) {
	if g.InputName == "" && len(g.Nodes) > 0 && len(g.Nodes[0].Inputs) > 0 {
		g.InputName = g.Nodes[0].Inputs[0]
		g.InputInferred = true
	}
	if g.OutputName == "" && len(g.Nodes) > 0 {
		last := g.Nodes[len(g.Nodes)-1]
		if len(last.Outputs) > 0 {
			g.OutputName = last.Outputs[0]
			g.OutputInferred = true
		}
	}
}
