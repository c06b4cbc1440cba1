package tensor

import "github.com/itohio/onnxcpu/internal/onnxerr"

// SymbolTable maps tensor names to values as the interpreter executes a
// graph. Each name may be registered at most once: ONNX graphs are
// single-assignment, so a second write to the same name indicates a
// malformed or unsupported model rather than a legitimate overwrite.
type SymbolTable struct {
	values map[string]*Tensor
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{values: make(map[string]*Tensor)}
}

// Register binds name to t. It returns DuplicateName if name is already
// bound.
func (s *SymbolTable) Register(name string, t *Tensor) error {
	if _, exists := s.values[name]; exists {
		return &onnxerr.DuplicateName{Name: name}
	}
	s.values[name] = t
	return nil
}

// Get looks up name, returning UnknownName if it has not been registered.
func (s *SymbolTable) Get(name string) (*Tensor, error) {
	t, exists := s.values[name]
	if !exists {
		return nil, &onnxerr.UnknownName{Name: name}
	}
	return t, nil
}

// Take looks up name and removes it from the table, transferring ownership
// of the tensor to the caller. The engine uses this to hand back the final
// output tensor by value, rather than by reference into a table the caller
// has no other access to.
func (s *SymbolTable) Take(name string) (*Tensor, error) {
	t, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	delete(s.values, name)
	return t, nil
}
