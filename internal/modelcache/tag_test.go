package modelcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagIsStableAndNonEmpty(t *testing.T) {
	data := []byte("a tiny fake model payload")
	a := Tag(data)
	b := Tag(data)
	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestTagDiffersAcrossContent(t *testing.T) {
	assert.NotEqual(t, Tag([]byte("one")), Tag([]byte("two")))
}
