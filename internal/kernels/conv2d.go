// Package kernels implements the eight numeric operators this engine
// supports, as flat-loop functions over tensor.Tensor buffers, grounded on
// the teacher's fp32 primitive package (pkg/core/math/primitive/fp32).
package kernels

import (
	"github.com/itohio/onnxcpu/internal/onnxerr"
	"github.com/itohio/onnxcpu/internal/tensor"
)

// Conv2DParams carries the resolved attribute values a Conv2D node needs,
// with ONNX defaults already applied by the caller.
type Conv2DParams struct {
	StrideH, StrideW     int
	PadH, PadW           int // symmetric: same value used on both sides of an axis
	DilationH, DilationW int
	Group                int
}

// Conv2DOutputShape computes Hout/Wout per the standard convolution
// output-size formula; Conv2D uses it to size Y before computing it.
func Conv2DOutputShape(x tensor.Shape, w tensor.Shape, p Conv2DParams) tensor.Shape {
	n, _, hin, win := x[0], x[1], x[2], x[3]
	cout, _, kh, kw := w[0], w[1], w[2], w[3]
	hout := (hin+2*p.PadH-p.DilationH*(kh-1)-1)/p.StrideH + 1
	wout := (win+2*p.PadW-p.DilationW*(kw-1)-1)/p.StrideW + 1
	return tensor.Shape{n, cout, hout, wout}
}

// Conv2D computes Y = conv(X, W) + B, supporting group==1 (standard
// convolution, W shape (Cout,Cin,kH,kW)) and the depthwise case
// group==Cin==Cout (W shape (Cout,1,kH,kW)). Any other group value is
// rejected: the general grouped case is out of scope. Out-of-bounds input
// reads (from padding) contribute zero.
func Conv2D(x, w *tensor.Tensor, b *tensor.Tensor, p Conv2DParams, opType string) (*tensor.Tensor, error) {
	n, cin, hin, win := x.Shape[0], x.Shape[1], x.Shape[2], x.Shape[3]
	cout, cinPerGroup, kh, kw := w.Shape[0], w.Shape[1], w.Shape[2], w.Shape[3]

	depthwise := p.Group == cin && p.Group == cout
	if p.Group != 1 && !depthwise {
		return nil, &onnxerr.UnsupportedAttributeValue{OpType: opType, Attr: "group", Value: "general grouped convolution"}
	}
	if depthwise && cinPerGroup != 1 {
		return nil, &onnxerr.ShapeError{Node: opType, Expected: []int{1}, Actual: []int{cinPerGroup}}
	}
	if !depthwise && cinPerGroup != cin {
		return nil, &onnxerr.ShapeError{Node: opType, Expected: []int{cin}, Actual: []int{cinPerGroup}}
	}

	yShape := Conv2DOutputShape(x.Shape, w.Shape, p)
	y := tensor.New("", yShape)
	hout, wout := yShape[2], yShape[3]

	for bi := 0; bi < n; bi++ {
		for oc := 0; oc < cout; oc++ {
			icStart, icEnd := 0, cin
			if depthwise {
				icStart, icEnd = oc, oc+1
			}
			var bias float32
			if b != nil {
				bias = b.Data[oc]
			}
			for oh := 0; oh < hout; oh++ {
				for ow := 0; ow < wout; ow++ {
					var sum float32
					for ic := icStart; ic < icEnd; ic++ {
						wic := ic
						if depthwise {
							wic = 0
						}
						for khi := 0; khi < kh; khi++ {
							ih := oh*p.StrideH - p.PadH + khi*p.DilationH
							if ih < 0 || ih >= hin {
								continue
							}
							for kwi := 0; kwi < kw; kwi++ {
								iw := ow*p.StrideW - p.PadW + kwi*p.DilationW
								if iw < 0 || iw >= win {
									continue
								}
								sum += x.At(bi, ic, ih, iw) * w.At(oc, wic, khi, kwi)
							}
						}
					}
					y.SetAt(bi, oc, oh, ow, sum+bias)
				}
			}
		}
	}
	return y, nil
}
