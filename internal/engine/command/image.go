package command

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// MaxImageSize bounds the files DataURIEncoder accepts.
const MaxImageSize = 8 << 20

// ErrNotImage is returned when the source is not an image.
var ErrNotImage = errors.New("not an image")

// ImageEncoder turns an image source into a value usable as a CSS url.
type ImageEncoder interface {
	Encode(ctx context.Context, src string) (string, error)
}

// ImageEncoderFunc adapts a function to ImageEncoder.
type ImageEncoderFunc func(ctx context.Context, src string) (string, error)

// Encode calls f.
func (f ImageEncoderFunc) Encode(ctx context.Context, src string) (string, error) {
	return f(ctx, src)
}

// DataURIEncoder reads a local file and encodes it as a base64 data URI.
type DataURIEncoder struct {
	// MaxSize overrides MaxImageSize when positive.
	MaxSize int64
}

// Encode reads the file at src. The read is abandoned when ctx is done.
func (e DataURIEncoder) Encode(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	limit := e.MaxSize
	if limit <= 0 {
		limit = MaxImageSize
	}

	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(f, limit+1))
		done <- result{data, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return "", r.err
	}
	if int64(len(r.data)) > limit {
		return "", fmt.Errorf("%s: larger than %d bytes", src, limit)
	}

	mime := http.DetectContentType(r.data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s is %s", ErrNotImage, src, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(r.data), nil
}
