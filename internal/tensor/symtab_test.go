package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/onnxcpu/internal/onnxerr"
)

func TestSymbolTableRegisterAndGet(t *testing.T) {
	st := NewSymbolTable()
	x := New("x", Shape{1, 1, 1, 4})
	assert.NoError(t, st.Register("x", x))

	got, err := st.Get("x")
	assert.NoError(t, err)
	assert.Same(t, x, got)
}

func TestSymbolTableDuplicateName(t *testing.T) {
	st := NewSymbolTable()
	assert.NoError(t, st.Register("x", New("x", Shape{1, 1, 1, 1})))

	err := st.Register("x", New("x", Shape{1, 1, 1, 1}))
	assert.Error(t, err)
	var dup *onnxerr.DuplicateName
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", dup.Name)
}

func TestSymbolTableUnknownName(t *testing.T) {
	st := NewSymbolTable()
	_, err := st.Get("missing")
	assert.Error(t, err)
	var unk *onnxerr.UnknownName
	assert.ErrorAs(t, err, &unk)
}

func TestSymbolTableTakeRemoves(t *testing.T) {
	st := NewSymbolTable()
	x := New("x", Shape{1, 1, 1, 1})
	assert.NoError(t, st.Register("x", x))

	taken, err := st.Take("x")
	assert.NoError(t, err)
	assert.Same(t, x, taken)

	_, err = st.Get("x")
	assert.Error(t, err)
}

func TestTensorAtSetAt(t *testing.T) {
	x := New("x", Shape{1, 2, 2, 2})
	x.SetAt(0, 1, 1, 0, 3.5)
	assert.Equal(t, float32(3.5), x.At(0, 1, 1, 0))
	assert.Equal(t, 8, x.Shape.Size())
}
