package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
)

// EmbeddingProvider produces vectors for text and image inputs in a shared
// embedding space.
type EmbeddingProvider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, imageData []byte) ([]float32, error)
}

// EmbeddingConfig holds configuration for the embedding API client.
type EmbeddingConfig struct {
	APIURL    string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// EmbeddingClient calls a CLIP-style multimodal embedding API.
type EmbeddingClient struct {
	client    *resty.Client
	model     string
	dimension int
}

// NewEmbeddingClient creates an embedding client with sane retry defaults.
func NewEmbeddingClient(cfg *EmbeddingConfig) *EmbeddingClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &EmbeddingClient{
		client:    client,
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}
}

type embeddingInput struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type embeddingRequest struct {
	Model      string           `json:"model"`
	Dimensions int              `json:"dimensions,omitempty"`
	Input      []embeddingInput `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedText returns an L2-normalized vector for a text query.
func (c *EmbeddingClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, embeddingInput{Text: text})
}

// EmbedImage returns an L2-normalized vector for raw image bytes.
func (c *EmbeddingClient) EmbedImage(ctx context.Context, imageData []byte) ([]float32, error) {
	encoded := base64.StdEncoding.EncodeToString(imageData)
	return c.embed(ctx, embeddingInput{Image: encoded})
}

func (c *EmbeddingClient) embed(ctx context.Context, input embeddingInput) ([]float32, error) {
	var result embeddingResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&embeddingRequest{
			Model:      c.model,
			Dimensions: c.dimension,
			Input:      []embeddingInput{input},
		}).
		SetResult(&result).
		Post("/embeddings")
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("embedding API returned %d: %s", resp.StatusCode(), resp.String())
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding API returned no vectors")
	}

	vector := result.Data[0].Embedding
	if c.dimension > 0 && len(vector) != c.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vector), c.dimension)
	}

	return Normalize(vector), nil
}

// Normalize scales a vector to unit length. A zero vector is returned as-is.
func Normalize(vector []float32) []float32 {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vector
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(vector))
	for i, v := range vector {
		out[i] = v / norm
	}
	return out
}
