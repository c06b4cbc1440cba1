package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/onnxcpu/internal/tensor"
)

func TestReLU(t *testing.T) {
	x := tensor.NewWithData("x", tensor.Shape{1, 1, 1, 4}, []float32{-2, -0.5, 0, 3})
	y := ReLU(x)
	assert.Equal(t, []float32{0, 0, 0, 3}, y.Data)
}

func TestReLUIdempotent(t *testing.T) {
	x := tensor.NewWithData("x", tensor.Shape{1, 1, 1, 4}, []float32{-2, -0.5, 0, 3})
	once := ReLU(x)
	twice := ReLU(once)
	assert.Equal(t, once.Data, twice.Data)
}

func TestAddShapeMismatch(t *testing.T) {
	a := tensor.New("a", tensor.Shape{1, 1, 1, 4})
	b := tensor.New("b", tensor.Shape{1, 1, 1, 3})
	_, err := Add(a, b, "Add")
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	a := tensor.NewWithData("a", tensor.Shape{1, 1, 1, 3}, []float32{1, 2, 3})
	b := tensor.NewWithData("b", tensor.Shape{1, 1, 1, 3}, []float32{10, 20, 30})
	y, err := Add(a, b, "Add")
	assert.NoError(t, err)
	assert.Equal(t, []float32{11, 22, 33}, y.Data)
}

func TestFlattenIsBitwiseCopy(t *testing.T) {
	x := tensor.NewWithData("x", tensor.Shape{1, 2, 2, 2}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
	y := Flatten(x)
	assert.Equal(t, tensor.Shape{1, 8, 1, 1}, y.Shape)
	assert.Equal(t, x.Data, y.Data)
}

func TestGlobalAveragePool(t *testing.T) {
	// 1x1x2x2 channel with values 2,4,6,8 -> mean 5.
	x := tensor.NewWithData("x", tensor.Shape{1, 1, 2, 2}, []float32{2, 4, 6, 8})
	y := GlobalAveragePool(x)
	assert.Equal(t, tensor.Shape{1, 1, 1, 1}, y.Shape)
	assert.InDelta(t, float32(5), y.Data[0], 1e-6)
}

func TestMaxPoolOutOfBoundsIgnored(t *testing.T) {
	// 1x1x2x2 input, 2x2 kernel, stride 1, pad 1: the window at (0,0)
	// covers 3 out-of-bounds cells plus the single in-bounds value 9.
	x := tensor.NewWithData("x", tensor.Shape{1, 1, 2, 2}, []float32{9, 1, 1, 1})
	p := PoolParams{KernelH: 2, KernelW: 2, StrideH: 1, StrideW: 1, PadH: 1, PadW: 1}
	y := MaxPool(x, p)
	assert.Equal(t, float32(9), y.At(0, 0, 0, 0))
}

func TestBatchNormalization(t *testing.T) {
	x := tensor.NewWithData("x", tensor.Shape{1, 1, 1, 2}, []float32{1, 3})
	scale := tensor.NewWithData("scale", tensor.Shape{1, 1, 1, 1}, []float32{2})
	bias := tensor.NewWithData("bias", tensor.Shape{1, 1, 1, 1}, []float32{1})
	mean := tensor.NewWithData("mean", tensor.Shape{1, 1, 1, 1}, []float32{2})
	variance := tensor.NewWithData("var", tensor.Shape{1, 1, 1, 1}, []float32{3})

	y := BatchNormalization(x, scale, bias, mean, variance, 1e-5)
	// (1-2)/sqrt(3+1e-5)*2+1 and (3-2)/sqrt(3+1e-5)*2+1
	assert.InDelta(t, -0.1547, y.Data[0], 1e-3)
	assert.InDelta(t, 2.1547, y.Data[1], 1e-3)
}

func TestConv2D1x1EqualsMatmul(t *testing.T) {
	// A 1x1 convolution over a single spatial position degenerates to a
	// matrix-vector product across channels.
	x := tensor.NewWithData("x", tensor.Shape{1, 2, 1, 1}, []float32{2, 3})
	w := tensor.NewWithData("w", tensor.Shape{3, 2, 1, 1}, []float32{
		1, 0, // oc0
		0, 1, // oc1
		1, 1, // oc2
	})
	y, err := Conv2D(x, w, nil, Conv2DParams{StrideH: 1, StrideW: 1, Group: 1}, "Conv")
	assert.NoError(t, err)
	assert.Equal(t, []float32{2, 3, 5}, y.Data)
}

func TestConv2DRejectsBadGroup(t *testing.T) {
	x := tensor.New("x", tensor.Shape{1, 4, 3, 3})
	w := tensor.New("w", tensor.Shape{4, 2, 1, 1})
	_, err := Conv2D(x, w, nil, Conv2DParams{StrideH: 1, StrideW: 1, Group: 2}, "Conv")
	assert.Error(t, err)
}

func TestGemmEqualsMatmul(t *testing.T) {
	// alpha=1, beta=0, transB=1, C absent: standard A * B^T.
	a := tensor.NewWithData("a", tensor.Shape{2, 1, 1, 2}, []float32{1, 2, 3, 4})
	b := tensor.NewWithData("b", tensor.Shape{1, 1, 2, 2}, []float32{5, 6, 7, 8})
	y, err := Gemm(a, b, nil, GemmParams{Alpha: 1, Beta: 0, TransB: true})
	assert.NoError(t, err)
	// row0: [1,2]·[5,6]=17, [1,2]·[7,8]=23
	// row1: [3,4]·[5,6]=39, [3,4]·[7,8]=53
	assert.Equal(t, []float32{17, 23, 39, 53}, y.Data)
}

func TestGemmWithBias(t *testing.T) {
	a := tensor.NewWithData("a", tensor.Shape{1, 1, 1, 2}, []float32{1, 2})
	b := tensor.NewWithData("b", tensor.Shape{1, 1, 2, 2}, []float32{1, 0, 0, 1})
	c := tensor.NewWithData("c", tensor.Shape{1, 1, 1, 2}, []float32{10, 20})
	y, err := Gemm(a, b, c, GemmParams{Alpha: 1, Beta: 1})
	assert.NoError(t, err)
	assert.Equal(t, []float32{11, 22}, y.Data)
}
