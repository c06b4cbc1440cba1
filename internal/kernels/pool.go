package kernels

import (
	"github.com/chewxy/math32"

	"github.com/itohio/onnxcpu/internal/tensor"
)

// PoolParams carries the resolved kernel/stride/pad attributes for
// MaxPool, with dilation fixed at 1 as the supported subset requires.
type PoolParams struct {
	KernelH, KernelW int
	StrideH, StrideW int
	PadH, PadW       int
}

// PoolOutputShape computes Hout/Wout for MaxPool using the same formula as
// convolution with dilation=1.
func PoolOutputShape(x tensor.Shape, p PoolParams) tensor.Shape {
	n, c, hin, win := x[0], x[1], x[2], x[3]
	hout := (hin+2*p.PadH-p.KernelH)/p.StrideH + 1
	wout := (win+2*p.PadW-p.KernelW)/p.StrideW + 1
	return tensor.Shape{n, c, hout, wout}
}

// MaxPool computes, per (b,c,oh,ow), the maximum of X over the kernel
// window, treating positions outside the tensor as not participating
// (conceptually -inf) rather than as zero.
func MaxPool(x *tensor.Tensor, p PoolParams) *tensor.Tensor {
	n, c, hin, win := x.Shape[0], x.Shape[1], x.Shape[2], x.Shape[3]
	yShape := PoolOutputShape(x.Shape, p)
	y := tensor.New("", yShape)
	hout, wout := yShape[2], yShape[3]

	for bi := 0; bi < n; bi++ {
		for ci := 0; ci < c; ci++ {
			for oh := 0; oh < hout; oh++ {
				for ow := 0; ow < wout; ow++ {
					maxVal := math32.Inf(-1)
					for khi := 0; khi < p.KernelH; khi++ {
						ih := oh*p.StrideH - p.PadH + khi
						if ih < 0 || ih >= hin {
							continue
						}
						for kwi := 0; kwi < p.KernelW; kwi++ {
							iw := ow*p.StrideW - p.PadW + kwi
							if iw < 0 || iw >= win {
								continue
							}
							v := x.At(bi, ci, ih, iw)
							if v > maxVal {
								maxVal = v
							}
						}
					}
					y.SetAt(bi, ci, oh, ow, maxVal)
				}
			}
		}
	}
	return y
}

// GlobalAveragePool reduces (N,C,H,W) to (N,C,1,1), averaging the H*W
// activations per (n,c).
func GlobalAveragePool(x *tensor.Tensor) *tensor.Tensor {
	n, c, h, w := x.Shape[0], x.Shape[1], x.Shape[2], x.Shape[3]
	y := tensor.New("", tensor.Shape{n, c, 1, 1})
	hw := h * w

	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < c; ci++ {
			base := (ni*c + ci) * hw
			var sum float32
			for i := 0; i < hw; i++ {
				sum += x.Data[base+i]
			}
			y.Data[ni*c+ci] = sum / float32(hw)
		}
	}
	return y
}
