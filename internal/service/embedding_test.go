package service

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func embeddingServer(t *testing.T, vector []float32, gotPath *string, gotReq *embeddingRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotPath = r.URL.Path
		if gotReq != nil {
			if err := json.NewDecoder(r.Body).Decode(gotReq); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		resp := embeddingResponse{}
		resp.Data = append(resp.Data, struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{Index: 0, Embedding: vector})
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbeddingClientPostsToVersionedEndpoint(t *testing.T) {
	var gotPath string
	var gotReq embeddingRequest
	srv := embeddingServer(t, []float32{3, 4}, &gotPath, &gotReq)
	defer srv.Close()

	c := NewEmbeddingClient(&EmbeddingConfig{
		APIURL:    srv.URL + "/v1",
		Model:     "jina-clip-v2",
		Dimension: 2,
	})

	vector, err := c.EmbedText(context.Background(), "stone patio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/embeddings" {
		t.Errorf("request path = %q, want /v1/embeddings", gotPath)
	}
	if gotReq.Model != "jina-clip-v2" || gotReq.Dimensions != 2 {
		t.Errorf("request model/dimensions = %q/%d, want jina-clip-v2/2", gotReq.Model, gotReq.Dimensions)
	}
	if len(gotReq.Input) != 1 || gotReq.Input[0].Text != "stone patio" {
		t.Errorf("request input = %+v, want one text input", gotReq.Input)
	}
	// [3 4] normalizes to [0.6 0.8].
	if len(vector) != 2 || math.Abs(float64(vector[0])-0.6) > 1e-6 || math.Abs(float64(vector[1])-0.8) > 1e-6 {
		t.Errorf("vector = %v, want [0.6 0.8]", vector)
	}
}

func TestEmbeddingClientSendsImageAsBase64(t *testing.T) {
	var gotPath string
	var gotReq embeddingRequest
	srv := embeddingServer(t, []float32{1, 0}, &gotPath, &gotReq)
	defer srv.Close()

	c := NewEmbeddingClient(&EmbeddingConfig{APIURL: srv.URL + "/v1", Model: "jina-clip-v2", Dimension: 2})

	if _, err := c.EmbedImage(context.Background(), []byte("jpeg")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotReq.Input) != 1 || gotReq.Input[0].Image != "anBlZw==" {
		t.Errorf("request input = %+v, want base64 image payload", gotReq.Input)
	}
	if gotReq.Input[0].Text != "" {
		t.Errorf("image request carried text %q", gotReq.Input[0].Text)
	}
}

func TestEmbeddingClientRejectsDimensionMismatch(t *testing.T) {
	var gotPath string
	srv := embeddingServer(t, []float32{1, 0, 0}, &gotPath, nil)
	defer srv.Close()

	c := NewEmbeddingClient(&EmbeddingConfig{APIURL: srv.URL + "/v1", Model: "jina-clip-v2", Dimension: 2})

	if _, err := c.EmbedText(context.Background(), "patio"); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestEmbeddingClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewEmbeddingClient(&EmbeddingConfig{APIURL: srv.URL + "/v1", Model: "jina-clip-v2"})

	if _, err := c.EmbedText(context.Background(), "patio"); err == nil {
		t.Fatal("expected error from API failure status")
	}
}
