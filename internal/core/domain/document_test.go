package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentID_Stable(t *testing.T) {
	a := NewDocumentID("plans.pdf")
	b := NewDocumentID("plans.pdf")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestNewDocumentID_DiffersByName(t *testing.T) {
	assert.NotEqual(t, NewDocumentID("plans.pdf"), NewDocumentID("specs.pdf"))
}

func TestNewChunkID_ContentAddressed(t *testing.T) {
	doc := NewDocumentID("plans.pdf")

	a := NewChunkID(doc, 1, 0, "corridor partitions")
	b := NewChunkID(doc, 1, 0, "corridor partitions")
	assert.Equal(t, a, b, "identical content at the same position must yield the same ID")

	c := NewChunkID(doc, 1, 0, "different text")
	assert.NotEqual(t, a, c)

	d := NewChunkID(doc, 2, 0, "corridor partitions")
	assert.NotEqual(t, a, d, "same content on a different page is a different chunk")
}
