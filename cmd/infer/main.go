package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/onnxcpu/internal/engine"
	"github.com/itohio/onnxcpu/internal/labels"
	"github.com/itohio/onnxcpu/internal/modelcache"
	"github.com/itohio/onnxcpu/internal/onnxlog"
	"github.com/itohio/onnxcpu/internal/onnxmodel"
	"github.com/itohio/onnxcpu/internal/tensor"
)

func main() {
	help := flag.Bool("help", false, "Help")
	modelPath := flag.String("model", "", "Path to the ONNX model file")
	inputPath := flag.String("input", "", "Path to a raw little-endian float32 NCHW input tensor")
	n := flag.Int("n", 1, "Input batch size")
	c := flag.Int("c", 3, "Input channels")
	h := flag.Int("h", 224, "Input height")
	w := flag.Int("w", 224, "Input width")
	topK := flag.Int("topk", 5, "Number of top predictions to print")
	labelsPath := flag.String("labels", "", "Optional YAML class-index-to-name file")

	flag.Parse()

	if *help || *modelPath == "" || *inputPath == "" {
		flag.PrintDefaults()
		return
	}

	modelBytes, err := os.ReadFile(*modelPath)
	if err != nil {
		onnxlog.Log.Error().Err(err).Msg("reading model file")
		os.Exit(1)
	}
	onnxlog.Log.Info().Str("tag", modelcache.Tag(modelBytes)).Msg("loaded model")

	model, err := onnxmodel.Parse(modelBytes)
	if err != nil {
		onnxlog.Log.Error().Err(err).Msg("parsing model")
		os.Exit(1)
	}
	onnxlog.Log.Info().Msg(model.Summarize().String())

	input, err := readInputTensor(*inputPath, *n, *c, *h, *w)
	if err != nil {
		onnxlog.Log.Error().Err(err).Msg("reading input tensor")
		os.Exit(1)
	}

	start := time.Now()
	output, err := engine.Run(model, input)
	if err != nil {
		onnxlog.Log.Error().Err(err).Msg("running inference")
		os.Exit(1)
	}
	elapsed := time.Since(start)

	var labelSet labels.Set
	if *labelsPath != "" {
		labelSet, err = labels.Load(*labelsPath)
		if err != nil {
			onnxlog.Log.Error().Err(err).Msg("loading labels")
			os.Exit(1)
		}
	}

	printTopK(output, *topK, labelSet)
	onnxlog.Log.Info().Msg(fmt.Sprintf("inference took %s", elapsed))
}

func readInputTensor(path string, n, c, h, w int) (*tensor.Tensor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	shape := tensor.Shape{n, c, h, w}
	if len(raw) != shape.Size()*4 {
		return nil, fmt.Errorf("input file has %d bytes, expected %d for shape %s", len(raw), shape.Size()*4, shape)
	}
	data := make([]float32, shape.Size())
	for i := range data {
		bits := binary.LittleEndian.Uint32(raw[4*i:])
		data[i] = math32.Float32frombits(bits)
	}
	return tensor.NewWithData("input", shape, data), nil
}

func softmax(logits []float32) []float32 {
	maxVal := logits[0]
	for _, v := range logits {
		if v > maxVal {
			maxVal = v
		}
	}
	out := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		out[i] = math32.Exp(v - maxVal)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func printTopK(output *tensor.Tensor, k int, labelSet labels.Set) {
	probs := softmax(output.Data)
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return probs[idx[a]] > probs[idx[b]] })

	if k > len(idx) {
		k = len(idx)
	}
	for _, i := range idx[:k] {
		fmt.Printf("%6.2f%%  %s\n", probs[i]*100, labelSet.Name(i))
	}
}
