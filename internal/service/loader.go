package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/go-resty/resty/v2"

	"github.com/groundviewhq/groundview/internal/storage"
)

const maxImageBytes = 32 << 20

// ImageLoader fetches image bytes for anchor embedding and board analysis.
// Sources are remote URLs or keys in the configured object storage.
type ImageLoader struct {
	storage storage.ObjectStorage
	client  *resty.Client
}

// NewImageLoader creates a loader backed by the given storage.
func NewImageLoader(store storage.ObjectStorage, fetchTimeout time.Duration) *ImageLoader {
	if fetchTimeout <= 0 {
		fetchTimeout = 20 * time.Second
	}
	return &ImageLoader{
		storage: store,
		client: resty.New().
			SetTimeout(fetchTimeout).
			SetRetryCount(1),
	}
}

// Load resolves source to raw image bytes and verifies they decode as a
// supported format. Source is a URL when it has an http scheme, otherwise a
// storage key.
func (l *ImageLoader) Load(ctx context.Context, source string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = l.fetchURL(ctx, source)
	} else {
		data, err = l.fetchStorage(ctx, source)
	}
	if err != nil {
		return nil, err
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("not a decodable image: %w", err)
	}
	return data, nil
}

func (l *ImageLoader) fetchURL(ctx context.Context, url string) ([]byte, error) {
	resp, err := l.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("image fetch returned %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("image fetch returned empty body")
	}
	if len(body) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return body, nil
}

func (l *ImageLoader) fetchStorage(ctx context.Context, key string) ([]byte, error) {
	reader, err := l.storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}
