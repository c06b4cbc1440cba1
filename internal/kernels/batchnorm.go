package kernels

import (
	"github.com/chewxy/math32"

	"github.com/itohio/onnxcpu/internal/tensor"
)

// BatchNormalization applies inference-mode batch normalization: for every
// element at channel c, Y = (X - mean[c]) / sqrt(var[c] + eps) * scale[c]
// + bias[c]. The per-channel factor and offset are precomputed once, as
// the teacher's normalization.go does.
func BatchNormalization(x, scale, bias, mean, variance *tensor.Tensor, eps float32) *tensor.Tensor {
	n, c, h, w := x.Shape[0], x.Shape[1], x.Shape[2], x.Shape[3]
	y := tensor.New("", x.Shape)

	factor := make([]float32, c)
	offset := make([]float32, c)
	for ci := 0; ci < c; ci++ {
		f := scale.Data[ci] / math32.Sqrt(variance.Data[ci]+eps)
		factor[ci] = f
		offset[ci] = bias.Data[ci] - mean.Data[ci]*f
	}

	hw := h * w
	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < c; ci++ {
			base := (ni*c + ci) * hw
			f, o := factor[ci], offset[ci]
			for i := 0; i < hw; i++ {
				y.Data[base+i] = x.Data[base+i]*f + o
			}
		}
	}
	return y
}
