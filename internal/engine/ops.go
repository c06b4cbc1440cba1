package engine

import (
	"strconv"

	"github.com/itohio/onnxcpu/internal/kernels"
	"github.com/itohio/onnxcpu/internal/onnxerr"
	"github.com/itohio/onnxcpu/internal/onnxmodel"
	"github.com/itohio/onnxcpu/internal/tensor"
)

func execConv(st *tensor.SymbolTable, node *onnxmodel.Node) error {
	x, err := input(st, node, 0)
	if err != nil {
		return err
	}
	w, err := input(st, node, 1)
	if err != nil {
		return err
	}
	b, err := optionalInput(st, node, 2)
	if err != nil {
		return err
	}

	p, err := convParams(node)
	if err != nil {
		return err
	}

	y, err := kernels.Conv2D(x, w, b, p, node.OpType)
	if err != nil {
		return err
	}
	return register(st, node, 0, y)
}

func convParams(node *onnxmodel.Node) (kernels.Conv2DParams, error) {
	strides := []int64{1, 1}
	if _, err := onnxmodel.AttrInts(node, "strides", strides); err != nil {
		return kernels.Conv2DParams{}, err
	}
	dilations := []int64{1, 1}
	if _, err := onnxmodel.AttrInts(node, "dilations", dilations); err != nil {
		return kernels.Conv2DParams{}, err
	}
	pads := []int64{0, 0, 0, 0}
	n, err := onnxmodel.AttrInts(node, "pads", pads)
	if err != nil {
		return kernels.Conv2DParams{}, err
	}
	if n == 4 && (pads[0] != pads[2] || pads[1] != pads[3]) {
		return kernels.Conv2DParams{}, &onnxerr.UnsupportedAttributeValue{
			OpType: node.OpType, Attr: "pads", Value: "asymmetric padding",
		}
	}
	group, err := onnxmodel.AttrInt(node, "group", 1)
	if err != nil {
		return kernels.Conv2DParams{}, err
	}

	return kernels.Conv2DParams{
		StrideH: int(strides[0]), StrideW: int(strides[1]),
		PadH: int(pads[0]), PadW: int(pads[1]),
		DilationH: int(dilations[0]), DilationW: int(dilations[1]),
		Group: int(group),
	}, nil
}

func execBatchNorm(st *tensor.SymbolTable, node *onnxmodel.Node) error {
	x, err := input(st, node, 0)
	if err != nil {
		return err
	}
	scale, err := input(st, node, 1)
	if err != nil {
		return err
	}
	bias, err := input(st, node, 2)
	if err != nil {
		return err
	}
	mean, err := input(st, node, 3)
	if err != nil {
		return err
	}
	variance, err := input(st, node, 4)
	if err != nil {
		return err
	}
	eps, err := onnxmodel.AttrFloat(node, "epsilon", 1e-5)
	if err != nil {
		return err
	}

	y := kernels.BatchNormalization(x, scale, bias, mean, variance, eps)
	return register(st, node, 0, y)
}

func execRelu(st *tensor.SymbolTable, node *onnxmodel.Node) error {
	x, err := input(st, node, 0)
	if err != nil {
		return err
	}
	return register(st, node, 0, kernels.ReLU(x))
}

func execAdd(st *tensor.SymbolTable, node *onnxmodel.Node) error {
	a, err := input(st, node, 0)
	if err != nil {
		return err
	}
	b, err := input(st, node, 1)
	if err != nil {
		return err
	}
	y, err := kernels.Add(a, b, node.OpType)
	if err != nil {
		return err
	}
	return register(st, node, 0, y)
}

func execMaxPool(st *tensor.SymbolTable, node *onnxmodel.Node) error {
	x, err := input(st, node, 0)
	if err != nil {
		return err
	}

	kernelShape := []int64{1, 1}
	if n, err := onnxmodel.AttrInts(node, "kernel_shape", kernelShape); err != nil {
		return err
	} else if n != 2 {
		return &onnxerr.UnsupportedAttributeValue{OpType: node.OpType, Attr: "kernel_shape", Value: strconv.Itoa(n) + " values"}
	}
	strides := []int64{1, 1}
	if _, err := onnxmodel.AttrInts(node, "strides", strides); err != nil {
		return err
	}
	pads := []int64{0, 0, 0, 0}
	n, err := onnxmodel.AttrInts(node, "pads", pads)
	if err != nil {
		return err
	}
	if n == 4 && (pads[0] != pads[2] || pads[1] != pads[3]) {
		return &onnxerr.UnsupportedAttributeValue{OpType: node.OpType, Attr: "pads", Value: "asymmetric padding"}
	}

	p := kernels.PoolParams{
		KernelH: int(kernelShape[0]), KernelW: int(kernelShape[1]),
		StrideH: int(strides[0]), StrideW: int(strides[1]),
		PadH: int(pads[0]), PadW: int(pads[1]),
	}
	return register(st, node, 0, kernels.MaxPool(x, p))
}

func execGlobalAveragePool(st *tensor.SymbolTable, node *onnxmodel.Node) error {
	x, err := input(st, node, 0)
	if err != nil {
		return err
	}
	return register(st, node, 0, kernels.GlobalAveragePool(x))
}

func execFlatten(st *tensor.SymbolTable, node *onnxmodel.Node) error {
	x, err := input(st, node, 0)
	if err != nil {
		return err
	}
	return register(st, node, 0, kernels.Flatten(x))
}

func execGemm(st *tensor.SymbolTable, node *onnxmodel.Node) error {
	a, err := input(st, node, 0)
	if err != nil {
		return err
	}
	b, err := input(st, node, 1)
	if err != nil {
		return err
	}
	c, err := optionalInput(st, node, 2)
	if err != nil {
		return err
	}

	alpha, err := onnxmodel.AttrFloat(node, "alpha", 1.0)
	if err != nil {
		return err
	}
	beta, err := onnxmodel.AttrFloat(node, "beta", 1.0)
	if err != nil {
		return err
	}
	transA, err := onnxmodel.AttrInt(node, "transA", 0)
	if err != nil {
		return err
	}
	transB, err := onnxmodel.AttrInt(node, "transB", 0)
	if err != nil {
		return err
	}

	p := kernels.GemmParams{Alpha: alpha, Beta: beta, TransA: transA != 0, TransB: transB != 0}
	y, err := kernels.Gemm(a, b, c, p)
	if err != nil {
		return err
	}
	return register(st, node, 0, y)
}
