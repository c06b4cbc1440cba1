package kernels

import (
	"github.com/itohio/onnxcpu/internal/onnxerr"
	"github.com/itohio/onnxcpu/internal/tensor"
)

// ReLU computes Y[i] = max(0, X[i]) elementwise over the full buffer.
func ReLU(x *tensor.Tensor) *tensor.Tensor {
	y := tensor.New("", x.Shape)
	for i, v := range x.Data {
		if v > 0 {
			y.Data[i] = v
		}
	}
	return y
}

// Add computes Y = A + B elementwise. This core supports no broadcasting:
// the two operands must share an identical shape.
func Add(a, b *tensor.Tensor, opType string) (*tensor.Tensor, error) {
	if a.Shape != b.Shape {
		return nil, &onnxerr.ShapeError{Node: opType, Expected: a.Shape[:], Actual: b.Shape[:]}
	}
	y := tensor.New("", a.Shape)
	for i := range a.Data {
		y.Data[i] = a.Data[i] + b.Data[i]
	}
	return y, nil
}
