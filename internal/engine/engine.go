// Package engine executes a parsed onnxmodel.Graph against a caller-
// supplied input tensor, dispatching each node to the matching kernel in
// internal/kernels and threading results through a tensor.SymbolTable.
package engine

import (
	"github.com/itohio/onnxcpu/internal/kernels"
	"github.com/itohio/onnxcpu/internal/onnxerr"
	"github.com/itohio/onnxcpu/internal/onnxlog"
	"github.com/itohio/onnxcpu/internal/onnxmodel"
	"github.com/itohio/onnxcpu/internal/tensor"
)

// Run executes model's graph against input, registered under the graph's
// (possibly inferred) input name, and returns the tensor bound to the
// graph's (possibly inferred) output name. The model and its initializers
// are read-only; Run allocates a fresh SymbolTable per call, so concurrent
// calls against the same *onnxmodel.Model are safe.
func Run(model *onnxmodel.Model, input *tensor.Tensor) (*tensor.Tensor, error) {
	g := &model.Graph
	st := tensor.NewSymbolTable()

	if err := st.Register(g.InputName, input); err != nil {
		return nil, err
	}
	for _, init := range g.Initializers {
		t := tensor.NewWithData(init.Name, init.Shape, init.Data)
		if err := st.Register(init.Name, t); err != nil {
			return nil, err
		}
	}

	for i, node := range g.Nodes {
		if err := execNode(st, &node, i); err != nil {
			return nil, onnxerr.WithNode(i, node.OpType, err)
		}
	}

	out, err := st.Take(g.OutputName)
	if err != nil {
		return nil, err
	}
	onnxlog.Log.Debug().Str("output", g.OutputName).Msg("inference complete")
	return out, nil
}

func execNode(st *tensor.SymbolTable, node *onnxmodel.Node, index int) error {
	switch node.OpType {
	case "Conv":
		return execConv(st, node)
	case "BatchNormalization":
		return execBatchNorm(st, node)
	case "Relu":
		return execRelu(st, node)
	case "Add":
		return execAdd(st, node)
	case "MaxPool":
		return execMaxPool(st, node)
	case "GlobalAveragePool":
		return execGlobalAveragePool(st, node)
	case "Flatten":
		return execFlatten(st, node)
	case "Gemm":
		return execGemm(st, node)
	default:
		return &onnxerr.UnsupportedOperator{OpType: node.OpType, NodeIndex: index}
	}
}

func input(st *tensor.SymbolTable, node *onnxmodel.Node, i int) (*tensor.Tensor, error) {
	if i >= len(node.Inputs) {
		return nil, &onnxerr.UnknownName{Name: "<missing input>"}
	}
	return st.Get(node.Inputs[i])
}

func optionalInput(st *tensor.SymbolTable, node *onnxmodel.Node, i int) (*tensor.Tensor, error) {
	if i >= len(node.Inputs) || node.Inputs[i] == "" {
		return nil, nil
	}
	return st.Get(node.Inputs[i])
}

func register(st *tensor.SymbolTable, node *onnxmodel.Node, i int, t *tensor.Tensor) error {
	if i >= len(node.Outputs) {
		return nil
	}
	t.Name = node.Outputs[i]
	return st.Register(node.Outputs[i], t)
}
