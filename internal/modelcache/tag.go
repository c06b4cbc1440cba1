// Package modelcache derives a short, stable label for a model file so log
// lines from different runs against the same file can be correlated. It
// performs no actual caching: the name is a holdover from its original
// purpose of keying a parsed-model cache, a feature this engine does not
// implement.
package modelcache

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// tagBytes is the number of leading hash bytes encoded into the tag; this
// is short enough to be readable in a log line while still distinguishing
// different model files in practice.
const tagBytes = 6

// Tag derives a short base58 label from the first 4KiB of a model file's
// bytes (or the whole file if shorter). It is for log correlation only,
// not content verification: files that share their first 4KiB always get
// the same tag, and since only tagBytes bytes of the digest are kept, two
// files whose first 4KiB differ can still collide in principle.
func Tag(modelBytes []byte) string {
	n := len(modelBytes)
	if n > 4096 {
		n = 4096
	}
	sum := sha256.Sum256(modelBytes[:n])
	return base58.Encode(sum[:tagBytes])
}
