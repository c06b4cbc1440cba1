package onnxmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- minimal wire encoders, local to this test file, to build fixtures ---

func encVarint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func encTag(field int, wireType int) []byte {
	return encVarint(uint64(field<<3 | wireType))
}

func encLenDelim(field int, payload []byte) []byte {
	out := encTag(field, 2)
	out = append(out, encVarint(uint64(len(payload)))...)
	out = append(out, payload...)
	return out
}

func encString(field int, s string) []byte {
	return encLenDelim(field, []byte(s))
}

func encFixed32(field int, bits uint32) []byte {
	out := encTag(field, 5)
	out = append(out, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	return out
}

func encVarintField(field int, v uint64) []byte {
	out := encTag(field, 0)
	out = append(out, encVarint(v)...)
	return out
}

func buildNode(opType string, inputs, outputs []string, attrs []byte) []byte {
	var payload []byte
	for _, in := range inputs {
		payload = append(payload, encString(fieldNodeInput, in)...)
	}
	for _, out := range outputs {
		payload = append(payload, encString(fieldNodeOutput, out)...)
	}
	payload = append(payload, encString(fieldNodeOpType, opType)...)
	payload = append(payload, attrs...)
	return payload
}

func buildIntAttr(name string, v int64) []byte {
	payload := encString(fieldAttrName, name)
	payload = append(payload, encVarintField(fieldAttrInt, uint64(v))...)
	payload = append(payload, encVarintField(fieldAttrType, uint64(AttrInt))...)
	return encLenDelim(fieldNodeAttr, payload)
}

func buildValueInfo(field int, name string) []byte {
	inner := encString(fieldValueInfoName, name)
	return encLenDelim(field, inner)
}

func buildInitializer(name string, dims []int64, data []float32) []byte {
	var payload []byte
	for _, d := range dims {
		payload = append(payload, encVarintField(fieldTensorDims, uint64(d))...)
	}
	payload = append(payload, encVarintField(fieldTensorDataType, tensorDataTypeFloat)...)
	for _, f := range data {
		payload = append(payload, encFixed32(fieldTensorFloats, math.Float32bits(f))...)
	}
	payload = append(payload, encString(fieldTensorName, name)...)
	return encLenDelim(fieldGraphInitializer, payload)
}

func buildModel(graphPayload []byte) []byte {
	return encLenDelim(fieldModelGraph, graphPayload)
}

func TestParseSimpleGraph(t *testing.T) {
	reluAttrs := buildIntAttr("unused", 1)
	node := encLenDelim(fieldGraphNode, buildNode("Relu", []string{"x"}, []string{"y"}, reluAttrs))

	graphPayload := append([]byte{}, encString(fieldGraphName, "tiny")...)
	graphPayload = append(graphPayload, node...)
	graphPayload = append(graphPayload, buildValueInfo(fieldGraphInput, "x")...)
	graphPayload = append(graphPayload, buildValueInfo(fieldGraphOutput, "y")...)

	m, err := Parse(buildModel(graphPayload))
	assert.NoError(t, err)
	assert.Equal(t, "tiny", m.Graph.Name)
	assert.Len(t, m.Graph.Nodes, 1)
	assert.Equal(t, "Relu", m.Graph.Nodes[0].OpType)
	assert.Equal(t, []string{"x"}, m.Graph.Nodes[0].Inputs)
	assert.Equal(t, []string{"y"}, m.Graph.Nodes[0].Outputs)
	assert.Equal(t, "x", m.Graph.InputName)
	assert.Equal(t, "y", m.Graph.OutputName)
	assert.False(t, m.Graph.InputInferred)
	assert.False(t, m.Graph.OutputInferred)
}

func TestParseInputOutputFallback(t *testing.T) {
	node1 := encLenDelim(fieldGraphNode, buildNode("Relu", []string{"x"}, []string{"mid"}, nil))
	node2 := encLenDelim(fieldGraphNode, buildNode("Relu", []string{"mid"}, []string{"y"}, nil))

	graphPayload := append([]byte{}, node1...)
	graphPayload = append(graphPayload, node2...)
	// No ValueInfo fields at all: must fall back to convention.

	m, err := Parse(buildModel(graphPayload))
	assert.NoError(t, err)
	assert.Equal(t, "x", m.Graph.InputName)
	assert.Equal(t, "y", m.Graph.OutputName)
	assert.True(t, m.Graph.InputInferred)
	assert.True(t, m.Graph.OutputInferred)
}

func TestParseInitializerRoundTrip(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	initPayload := buildInitializer("w", []int64{2, 3}, data)

	graphPayload := append([]byte{}, initPayload...)
	m, err := Parse(buildModel(graphPayload))
	assert.NoError(t, err)
	assert.Len(t, m.Graph.Initializers, 1)
	init := m.Graph.Initializers[0]
	assert.Equal(t, "w", init.Name)
	assert.Equal(t, data, init.Data)
	// rank 2 -> (1,1,d0,d1)
	assert.Equal(t, 1, init.Shape[0])
	assert.Equal(t, 1, init.Shape[1])
	assert.Equal(t, 2, init.Shape[2])
	assert.Equal(t, 3, init.Shape[3])
}

func TestParseRejectsMissingGraph(t *testing.T) {
	_, err := Parse([]byte{})
	assert.Error(t, err)
}

func TestParseSkipsUnknownFields(t *testing.T) {
	// Field 99, varint wire type, should be skipped without affecting the
	// rest of the parse.
	unknown := encVarintField(99, 42)
	graphPayload := append([]byte{}, encString(fieldGraphName, "g")...)
	graphPayload = append(graphPayload, unknown...)

	m, err := Parse(buildModel(graphPayload))
	assert.NoError(t, err)
	assert.Equal(t, "g", m.Graph.Name)
}

func TestAttrIntTypeMismatch(t *testing.T) {
	n := &Node{OpType: "Conv", Attributes: []Attribute{{Name: "pads", Kind: AttrInts, Ints: []int64{0, 0, 0, 0}}}}
	_, err := AttrInt(n, "pads", 0)
	assert.Error(t, err)
}

func TestAttrIntsAbsentLeavesDefaults(t *testing.T) {
	n := &Node{OpType: "Conv"}
	out := []int64{1, 1}
	count, err := AttrInts(n, "strides", out)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, []int64{1, 1}, out)
}
