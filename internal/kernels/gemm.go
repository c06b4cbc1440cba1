package kernels

import (
	"github.com/itohio/onnxcpu/internal/onnxerr"
	"github.com/itohio/onnxcpu/internal/tensor"
)

// GemmParams carries the resolved Gemm attributes with ONNX defaults
// already applied.
type GemmParams struct {
	Alpha, Beta    float32
	TransA, TransB bool
}

// Gemm computes Y = alpha*op(A)*op(B) + beta*C, reasoning about A and B as
// explicit 2D matrices rather than their 4D tensor shapes: A is (M,K) with
// M = A.Shape[0] and K = the product of A's remaining dims; B is (B.h,
// B.w) per B.Shape[2]/B.Shape[3]. transA/transB swap the logical row/column
// roles of the respective matrix. C, when present, is a length-N vector
// broadcast along the M rows.
func Gemm(a, b, c *tensor.Tensor, p GemmParams) (*tensor.Tensor, error) {
	aRows := a.Shape[0]
	aCols := a.Shape[1] * a.Shape[2] * a.Shape[3]
	bRows, bCols := b.Shape[2], b.Shape[3]

	m, k := aRows, aCols
	if p.TransA {
		m, k = aCols, aRows
	}
	kb, n := bRows, bCols
	if p.TransB {
		kb, n = bCols, bRows
	}
	if k != kb {
		return nil, &onnxerr.ShapeError{Node: "Gemm", Expected: []int{k}, Actual: []int{kb}}
	}
	if c != nil && c.Shape.Size() != n {
		return nil, &onnxerr.ShapeError{Node: "Gemm", Expected: []int{n}, Actual: []int{c.Shape.Size()}}
	}

	aAt := func(mi, ki int) float32 {
		if p.TransA {
			return a.Data[ki*aCols+mi]
		}
		return a.Data[mi*aCols+ki]
	}
	bAt := func(ki, ni int) float32 {
		if p.TransB {
			return b.Data[ni*bCols+ki]
		}
		return b.Data[ki*bCols+ni]
	}

	y := tensor.New("", tensor.Shape{m, 1, 1, n})
	for mi := 0; mi < m; mi++ {
		for ni := 0; ni < n; ni++ {
			var sum float32
			for ki := 0; ki < k; ki++ {
				sum += aAt(mi, ki) * bAt(ki, ni)
			}
			sum *= p.Alpha
			if c != nil {
				sum += p.Beta * c.Data[ni]
			}
			y.SetAt(mi, 0, 0, ni, sum)
		}
	}
	return y, nil
}
