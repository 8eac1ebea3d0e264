package ai

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"

    "github.com/local/esquelas/internal/config"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIClient calls the OpenAI Chat Completions API with inline image content.
type OpenAIClient struct {
    http     *http.Client
    apiKey   string
    endpoint string
}

// NewOpenAIClient builds a client from config. The endpoint override is for tests.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
    endpoint := cfg.Endpoint
    if endpoint == "" {
        endpoint = defaultEndpoint
    }
    return &OpenAIClient{
        http:     &http.Client{Timeout: cfg.RequestTimeout},
        apiKey:   cfg.APIKey,
        endpoint: endpoint,
    }
}

func (c *OpenAIClient) Name() string { return "openai" }

type openAIMessage struct {
    Role    string                   `json:"role"`
    Content []map[string]interface{} `json:"content"`
}

type openAIChatReq struct {
    Model          string            `json:"model"`
    Messages       []openAIMessage   `json:"messages"`
    Temperature    float64           `json:"temperature"`
    MaxTokens      int               `json:"max_tokens,omitempty"`
    ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type openAIChatResp struct {
    Choices []struct {
        Message struct {
            Content string `json:"content"`
        } `json:"message"`
    } `json:"choices"`
    Usage struct {
        PromptTokens     int `json:"prompt_tokens"`
        CompletionTokens int `json:"completion_tokens"`
    } `json:"usage"`
}

// Do sends the prompt plus ordered page images as a single user message and
// requests a JSON object back.
func (c *OpenAIClient) Do(ctx context.Context, req Request) (Response, error) {
    if c.apiKey == "" {
        return Response{}, errors.New("missing OPENAI_API_KEY")
    }

    content := []map[string]interface{}{
        {"type": "text", "text": req.Prompt},
    }
    for _, img := range req.Images {
        url := fmt.Sprintf("data:%s;base64,%s", img.MIME, img.Base64)
        content = append(content, map[string]interface{}{
            "type":      "image_url",
            "image_url": map[string]string{"url": url},
        })
    }

    payload := openAIChatReq{
        Model:          req.Model,
        Messages:       []openAIMessage{{Role: "user", Content: content}},
        Temperature:    0,
        MaxTokens:      4096,
        ResponseFormat: map[string]string{"type": "json_object"},
    }

    body, _ := json.Marshal(payload)
    httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
    if err != nil {
        return Response{}, err
    }
    httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
    httpReq.Header.Set("Content-Type", "application/json")

    resp, err := c.http.Do(httpReq)
    if err != nil {
        return Response{}, err
    }
    defer resp.Body.Close()

    if resp.StatusCode == http.StatusTooManyRequests {
        return Response{}, ErrRateLimited
    }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
        return Response{}, fmt.Errorf("openai status %d: %s", resp.StatusCode, string(b))
    }

    var r openAIChatResp
    if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
        return Response{}, err
    }
    if len(r.Choices) == 0 {
        return Response{}, errors.New("no choices")
    }

    return Response{
        Text:      r.Choices[0].Message.Content,
        TokensIn:  r.Usage.PromptTokens,
        TokensOut: r.Usage.CompletionTokens,
    }, nil
}
