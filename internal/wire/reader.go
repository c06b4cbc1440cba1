// Package wire implements a minimal decoder for the protobuf-style
// tag-value binary encoding ONNX model files use: varints, length-delimited
// fields, fixed32/fixed64, and the tag byte that multiplexes a field number
// with a wire type.
package wire

import (
	"encoding/binary"

	"github.com/itohio/onnxcpu/internal/onnxerr"
)

// WireType identifies how a field's value is encoded on the wire.
type WireType int

const (
	Varint          WireType = 0
	Fixed64         WireType = 1
	LengthDelimited WireType = 2
	Fixed32         WireType = 5
)

// Reader decodes a byte slice left to right, tracking a read cursor so
// error messages can report the offset a malformed field was found at.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for decoding. buf is not copied; the caller must keep
// it alive and unmodified for the Reader's lifetime.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len reports the number of unread bytes remaining.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// Offset reports the current read cursor, for error reporting.
func (r *Reader) Offset() int { return r.pos }

func (r *Reader) errorf(what string) error {
	return &onnxerr.ParseError{Offset: r.pos, What: what}
}

// ReadByte reads a single raw byte, advancing the cursor.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, r.errorf("unexpected end of input")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadVarint decodes a base-128 little-endian varint: each byte contributes
// its low 7 bits, with the high bit set on every byte but the last. Values
// up to 64 bits are supported; a 10th continuation byte is rejected as
// malformed.
func (r *Reader) ReadVarint() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < 10; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 63 && b > 1 {
			return 0, r.errorf("varint overflows 64 bits")
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, r.errorf("varint continues past 10 bytes")
}

// ReadTag decodes a field tag: a varint whose low 3 bits hold the wire type
// and whose remaining bits hold the field number.
func (r *Reader) ReadTag() (fieldNumber int, wireType WireType, err error) {
	v, err := r.ReadVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 3), WireType(v & 0x7), nil
}

// ReadLengthDelimited reads a varint length prefix followed by that many
// raw bytes, as used for strings, bytes, and embedded messages.
func (r *Reader) ReadLengthDelimited() ([]byte, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, r.errorf("length-delimited field exceeds remaining input")
	}
	start := r.pos
	r.pos += int(n)
	return r.buf[start:r.pos], nil
}

// ReadFixed32 reads 4 little-endian bytes as a raw uint32 bit pattern, used
// for the float wire type.
func (r *Reader) ReadFixed32() (uint32, error) {
	if r.Len() < 4 {
		return 0, r.errorf("fixed32 field exceeds remaining input")
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// ReadFixed64 reads 8 little-endian bytes as a raw uint64 bit pattern, used
// for the double wire type.
func (r *Reader) ReadFixed64() (uint64, error) {
	if r.Len() < 8 {
		return 0, r.errorf("fixed64 field exceeds remaining input")
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// Skip discards the value of a field whose wire type is already known,
// advancing past it. Unknown field numbers in the model format are skipped
// this way so future ONNX fields don't break decoding.
func (r *Reader) Skip(wt WireType) error {
	switch wt {
	case Varint:
		_, err := r.ReadVarint()
		return err
	case Fixed64:
		_, err := r.ReadFixed64()
		return err
	case LengthDelimited:
		_, err := r.ReadLengthDelimited()
		return err
	case Fixed32:
		_, err := r.ReadFixed32()
		return err
	default:
		return r.errorf("unknown wire type")
	}
}
