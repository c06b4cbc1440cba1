// Package labels loads an optional class-index-to-name mapping used only
// to decorate the CLI's top-K output; it plays no part in the inference
// core's contract.
package labels

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Set maps a class index to its human-readable name.
type Set map[int]string

// Load reads a YAML document of the form `{0: tench, 1: goldfish, ...}`
// from path.
func Load(path string) (Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Set
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the label for index, or its decimal string if no mapping
// was loaded or the index is absent.
func (s Set) Name(index int) string {
	if name, ok := s[index]; ok {
		return name
	}
	return strconv.Itoa(index)
}
