package onnxmodel

import "fmt"

// Summary is a short human-readable description of a parsed model, used by
// the CLI to report what it loaded before running inference.
type Summary struct {
	GraphName        string
	NodeCount        int
	InitializerCount int
	InputName        string
	OutputName       string
	InputInferred    bool
	OutputInferred   bool
}

// Summarize collects Model metadata for display; it performs no further
// validation of the graph.
func (m *Model) Summarize() Summary {
	return Summary{
		GraphName:        m.Graph.Name,
		NodeCount:        len(m.Graph.Nodes),
		InitializerCount: len(m.Graph.Initializers),
		InputName:        m.Graph.InputName,
		OutputName:       m.Graph.OutputName,
		InputInferred:    m.Graph.InputInferred,
		OutputInferred:   m.Graph.OutputInferred,
	}
}

func (s Summary) String() string {
	inTag, outTag := "", ""
	if s.InputInferred {
		inTag = " (inferred)"
	}
	if s.OutputInferred {
		outTag = " (inferred)"
	}
	return fmt.Sprintf("graph %q: %d nodes, %d initializers, input=%q%s, output=%q%s",
		s.GraphName, s.NodeCount, s.InitializerCount, s.InputName, inTag, s.OutputName, outTag)
}
