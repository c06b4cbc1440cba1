package kernels

import "github.com/itohio/onnxcpu/internal/tensor"

// Flatten reshapes (N,C,H,W) into (N, C*H*W, 1, 1), preserving linear
// layout. A bitwise copy of the buffer is sufficient since both shapes
// share the same row-major element order.
func Flatten(x *tensor.Tensor) *tensor.Tensor {
	n, c, h, w := x.Shape[0], x.Shape[1], x.Shape[2], x.Shape[3]
	data := make([]float32, len(x.Data))
	copy(data, x.Data)
	return tensor.NewWithData("", tensor.Shape{n, c * h * w, 1, 1}, data)
}
