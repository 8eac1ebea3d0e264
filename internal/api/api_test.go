package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/esquelas/internal/ai"
	"github.com/local/esquelas/internal/extract"
	"github.com/local/esquelas/internal/render"
)

type fakeClient struct {
	calls []ai.Request
	text  string
	err   error
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Do(_ context.Context, req ai.Request) (ai.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return ai.Response{}, f.err
	}
	return ai.Response{Text: f.text}, nil
}

type fakeRenderer struct {
	totalPages int
	err        error
}

func (f *fakeRenderer) Pages(_ []byte, maxPages, _ int) ([]render.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := f.totalPages
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	pages := make([]render.Page, n)
	for i := range pages {
		pages[i] = render.Page{MIME: "image/png", Data: []byte("page")}
	}
	return pages, nil
}

func newTestServer(client ai.Client, renderer extract.Renderer) *httptest.Server {
	svc := extract.NewService(client, renderer, extract.Config{
		Model: "gpt-4o-mini", DPI: 200, DefaultMaxPages: 3, MaxPagesLimit: 10,
	})
	mux := http.NewServeMux()
	New(svc, "gpt-4o-mini").RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

// multipartUpload builds a request body with one file part carrying the given
// content type.
func multipartUpload(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="esquela"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postUpload(t *testing.T, url, fileContentType string, data []byte) *http.Response {
	t.Helper()
	body, ct := multipartUpload(t, fileContentType, data)
	resp, err := http.Post(url, ct, body)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeClient{}, &fakeRenderer{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "gpt-4o-mini", body["model"])
}

func TestExtract_PlainTextRejectedBeforeModelCall(t *testing.T) {
	client := &fakeClient{text: `{"data":{}}`}
	srv := newTestServer(client, &fakeRenderer{})
	defer srv.Close()

	resp := postUpload(t, srv.URL+"/api/extract/observado", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Sube una imagen (jpg/png) o un PDF.", body["detail"])
	assert.Empty(t, client.calls, "no external call may happen on rejected input")
}

func TestExtract_MissingFileField(t *testing.T) {
	srv := newTestServer(&fakeClient{}, &fakeRenderer{})
	defer srv.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("other", "value"))
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/api/extract/liquidado", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExtract_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeClient{}, &fakeRenderer{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/extract/liquidado")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestExtract_ImageHappyPath(t *testing.T) {
	client := &fakeClient{text: `{"documentType":"esquela_observacion","data":{"fechaObservacion":"16 de octubre de 2025","montoLiquidado":"S/ 8.90"}}`}
	srv := newTestServer(client, &fakeRenderer{})
	defer srv.Close()

	resp := postUpload(t, srv.URL+"/api/extract/observado", "image/png", []byte("png bytes"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "esquela_observacion", body["documentType"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "16/10/2025", data["fechaObservacion"])
	assert.Equal(t, "8.90", data["montoLiquidado"])
	assert.Nil(t, data["fechaVencimiento"])
}

func TestExtract_PDFMaxPagesForwarded(t *testing.T) {
	client := &fakeClient{text: `{"data":{}}`}
	srv := newTestServer(client, &fakeRenderer{totalPages: 10})
	defer srv.Close()

	resp := postUpload(t, srv.URL+"/api/extract/observado?max_pages=3", "application/pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Len(t, client.calls, 1)
	assert.Len(t, client.calls[0].Images, 3, "exactly max_pages rendered images forwarded")
}

func TestExtract_MaxPagesClampedToLimit(t *testing.T) {
	client := &fakeClient{text: `{"data":{}}`}
	srv := newTestServer(client, &fakeRenderer{totalPages: 50})
	defer srv.Close()

	resp := postUpload(t, srv.URL+"/api/extract/observado?max_pages=99", "application/pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Len(t, client.calls, 1)
	assert.Len(t, client.calls[0].Images, 10)
}

func TestExtract_ModelOverrideQueryParam(t *testing.T) {
	client := &fakeClient{text: `{"data":{}}`}
	srv := newTestServer(client, &fakeRenderer{})
	defer srv.Close()

	resp := postUpload(t, srv.URL+"/api/extract/observado?model=gpt-4o", "image/png", []byte("png"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Len(t, client.calls, 1)
	assert.Equal(t, "gpt-4o", client.calls[0].Model)
}

func TestExtract_ModelFailureReportsStage(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("provider down")}
	srv := newTestServer(client, &fakeRenderer{})
	defer srv.Close()

	resp := postUpload(t, srv.URL+"/api/extract/tachado", "image/png", []byte("png"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	detail, _ := body["detail"].(string)
	assert.Contains(t, detail, "extractor tachado falló")
	assert.Contains(t, detail, "model")
}

func TestExtract_MalformedModelOutputIs500(t *testing.T) {
	client := &fakeClient{text: "definitely not json"}
	srv := newTestServer(client, &fakeRenderer{})
	defer srv.Close()

	resp := postUpload(t, srv.URL+"/api/extract/inscrito", "image/jpeg", []byte("jpg"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	detail, _ := body["detail"].(string)
	assert.Contains(t, detail, "parse")
}
