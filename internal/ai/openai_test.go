package ai

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/esquelas/internal/config"
)

func testClient(endpoint string) *OpenAIClient {
    return NewOpenAIClient(config.OpenAIConfig{
        APIKey:         "test-key",
        Model:          "gpt-4o-mini",
        Endpoint:       endpoint,
        RequestTimeout: 5 * time.Second,
    })
}

func chatResponse(content string) map[string]any {
    return map[string]any{
        "choices": []map[string]any{
            {"message": map[string]any{"role": "assistant", "content": content}},
        },
        "usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5},
    }
}

func TestDo_BuildsVisionRequest(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
        assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

        var body map[string]any
        require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
        assert.Equal(t, "gpt-4o-mini", body["model"])

        rf := body["response_format"].(map[string]any)
        assert.Equal(t, "json_object", rf["type"])

        messages := body["messages"].([]any)
        require.Len(t, messages, 1)
        msg := messages[0].(map[string]any)
        assert.Equal(t, "user", msg["role"])

        content := msg["content"].([]any)
        require.Len(t, content, 3) // prompt + two page images

        text := content[0].(map[string]any)
        assert.Equal(t, "text", text["type"])
        assert.Equal(t, "extract the fields", text["text"])

        for i, mime := range []string{"image/png", "image/jpeg"} {
            block := content[i+1].(map[string]any)
            assert.Equal(t, "image_url", block["type"])
            url := block["image_url"].(map[string]any)["url"].(string)
            assert.True(t, strings.HasPrefix(url, "data:"+mime+";base64,"), "url %d: %s", i, url)
        }

        w.WriteHeader(http.StatusOK)
        _ = json.NewEncoder(w).Encode(chatResponse(`{"data":{}}`))
    }))
    defer srv.Close()

    resp, err := testClient(srv.URL).Do(context.Background(), Request{
        Model:  "gpt-4o-mini",
        Prompt: "extract the fields",
        Images: []ImagePart{
            {MIME: "image/png", Base64: "cGFnZTE="},
            {MIME: "image/jpeg", Base64: "cGFnZTI="},
        },
    })
    require.NoError(t, err)
    assert.Equal(t, `{"data":{}}`, resp.Text)
    assert.Equal(t, 10, resp.TokensIn)
    assert.Equal(t, 5, resp.TokensOut)
}

func TestDo_RateLimited(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusTooManyRequests)
    }))
    defer srv.Close()

    _, err := testClient(srv.URL).Do(context.Background(), Request{Model: "m", Prompt: "p"})
    assert.True(t, IsRateLimited(err))
}

func TestDo_ProviderError(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusBadGateway)
        _, _ = w.Write([]byte("upstream exploded"))
    }))
    defer srv.Close()

    _, err := testClient(srv.URL).Do(context.Background(), Request{Model: "m", Prompt: "p"})
    require.Error(t, err)
    assert.Contains(t, err.Error(), "openai status 502")
    assert.Contains(t, err.Error(), "upstream exploded")
}

func TestDo_MissingAPIKey(t *testing.T) {
    c := NewOpenAIClient(config.OpenAIConfig{})
    _, err := c.Do(context.Background(), Request{Model: "m", Prompt: "p"})
    require.Error(t, err)
}

func TestDo_NoChoices(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
    }))
    defer srv.Close()

    _, err := testClient(srv.URL).Do(context.Background(), Request{Model: "m", Prompt: "p"})
    require.Error(t, err)
}
