package fetcher

import (
	"context"
	"errors"
)

// ErrNoResponse is returned when a visit completed without delivering a page
var ErrNoResponse = errors.New("no response received")

// Renderer turns a URL into the HTML a reader would see
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}
