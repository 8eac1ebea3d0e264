package ai

import (
    "context"
    "errors"
)

// ImagePart is one page image sent inline with the prompt.
type ImagePart struct {
    MIME   string // e.g. image/png
    Base64 string // standard base64, no data: prefix
}

// Request represents a single vision extraction request.
type Request struct {
    Model  string
    Prompt string
    Images []ImagePart
}

type Response struct {
    Text      string
    TokensIn  int
    TokensOut int
}

// Client interface for vision-capable model providers.
type Client interface {
    Name() string
    Do(ctx context.Context, req Request) (Response, error)
}

var ErrRateLimited = errors.New("rate_limited")

func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }
