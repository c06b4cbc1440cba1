// Package tensor holds the NCHW float32 tensor representation and the
// symbol table the execution engine threads tensors through, grounded on
// the teacher's Shape/TensorCore split (pkg/core/math/tensor/types).
package tensor

import "fmt"

// Shape is a tensor's dimension sizes, always normalized to rank 4 (N, C,
// H, W) by the model parser: scalars and lower-rank tensors are padded on
// the left with 1s, matching the teacher's Shape helper conventions.
type Shape [4]int

// Size returns the total element count.
func (s Shape) Size() int {
	return s[0] * s[1] * s[2] * s[3]
}

func (s Shape) String() string {
	return fmt.Sprintf("[%d %d %d %d]", s[0], s[1], s[2], s[3])
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(o Shape) bool {
	return s == o
}

// Tensor is a dense NCHW float32 array with row-major strides: element
// (n, c, h, w) lives at Data[n*C*H*W + c*H*W + h*W + w].
type Tensor struct {
	Name  string
	Shape Shape
	Data  []float32
}

// New allocates a zeroed tensor of the given shape.
func New(name string, shape Shape) *Tensor {
	return &Tensor{Name: name, Shape: shape, Data: make([]float32, shape.Size())}
}

// NewWithData wraps an existing flat buffer as a tensor of the given shape.
// The caller must ensure len(data) == shape.Size().
func NewWithData(name string, shape Shape, data []float32) *Tensor {
	return &Tensor{Name: name, Shape: shape, Data: data}
}

// At returns the element at (n, c, h, w).
func (t *Tensor) At(n, c, h, w int) float32 {
	return t.Data[t.index(n, c, h, w)]
}

// SetAt writes the element at (n, c, h, w).
func (t *Tensor) SetAt(n, c, h, w int, v float32) {
	t.Data[t.index(n, c, h, w)] = v
}

func (t *Tensor) index(n, c, h, w int) int {
	_, C, H, W := t.Shape[0], t.Shape[1], t.Shape[2], t.Shape[3]
	return ((n*C+c)*H+h)*W + w
}
