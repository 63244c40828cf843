package ai

import (
	"context"
	"fmt"
	"sort"

	"github.com/sashabaranov/go-openai"
)

// EmbeddingDimension is the fixed output dimension of the embedding model.
const EmbeddingDimension = 1536

// Embedder turns text into fixed-length vectors for the semantic index.
// Construct one at startup and share it; it holds no per-call state.
type Embedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewEmbedder creates an embedder for the given API key.
func NewEmbedder(apiKey string) *Embedder {
	return &Embedder{
		client: openai.NewClient(apiKey),
		model:  openai.SmallEmbedding3,
	}
}

// EncodeQuery embeds a single query text.
func (e *Embedder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EncodeDocument embeds a single document text.
func (e *Embedder) EncodeDocument(ctx context.Context, text string) ([]float32, error) {
	return e.EncodeQuery(ctx, text)
}

// EncodeDocuments embeds a batch of documents. The output order matches the
// input order.
func (e *Embedder) EncodeDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.encode(ctx, texts)
}

func (e *Embedder) encode(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ErrUnavailable, len(resp.Data), len(texts))
	}

	// The API reports an index per item; sort to guarantee input order.
	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		if len(item.Embedding) != EmbeddingDimension {
			return nil, fmt.Errorf("%w: embedding has %d dimensions, want %d", ErrUnavailable, len(item.Embedding), EmbeddingDimension)
		}
		vectors[i] = item.Embedding
	}
	return vectors, nil
}
