package repository

import (
	"context"
	"testing"

	"github.com/LINKA-Service/ai/ai"

	"github.com/stretchr/testify/assert"
)

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "[]", formatVector(nil))
	assert.Equal(t, "[0.100000]", formatVector([]float32{0.1}))
	assert.Equal(t, "[1.000000,-0.500000,0.000000]", formatVector([]float32{1, -0.5, 0}))
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	repo := NewCaseIndexRepository(nil)

	err := repo.Upsert(context.Background(), IndexEntry{Embedding: []float32{0.1, 0.2}})
	assert.Error(t, err)
}

func TestSearchRejectsWrongDimension(t *testing.T) {
	repo := NewCaseIndexRepository(nil)

	_, err := repo.Search(context.Background(), SearchParams{Embedding: make([]float32, ai.EmbeddingDimension-1)})
	assert.Error(t, err)
}
