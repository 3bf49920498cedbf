package cluster

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/genai"
)

// Embedder turns transaction descriptions into fixed-dimensional vectors.
// The pipeline takes it as an injected dependency so runs are reproducible
// and testable without a live model.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// geminiEmbedBatchSize caps one EmbedContent call, matching the API's
// per-request content limit.
const geminiEmbedBatchSize = 100

// GeminiEmbedder embeds text with a Gemini embedding model.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates the embedder. Credentials come from the
// environment the same way as every other GenAI client in this repo.
func NewGeminiEmbedder(ctx context.Context, model string) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiEmbedder: create genai client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: model}, nil
}

func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))

	for start := 0; start < len(texts); start += geminiEmbedBatchSize {
		end := start + geminiEmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		contents := make([]*genai.Content, 0, end-start)
		for _, t := range texts[start:end] {
			contents = append(contents, &genai.Content{
				Parts: []*genai.Part{{Text: t}},
			})
		}

		resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
		if err != nil {
			return nil, fmt.Errorf("Embed: embed content: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("Embed: got %d embeddings for %d texts", len(resp.Embeddings), end-start)
		}

		for _, emb := range resp.Embeddings {
			vec := make([]float64, len(emb.Values))
			for i, v := range emb.Values {
				vec[i] = float64(v)
			}
			out = append(out, vec)
		}
	}
	return out, nil
}

// normalizeUnit scales each vector to unit length in place, which makes
// Euclidean distance monotone in cosine distance downstream.
func normalizeUnit(vecs [][]float64) {
	for _, v := range vecs {
		var norm float64
		for _, x := range v {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue
		}
		for i := range v {
			v[i] /= norm
		}
	}
}
