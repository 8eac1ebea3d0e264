// Package extract runs the single-pass extraction pipeline: classify the
// upload, rasterize PDF pages, send prompt plus page images to the vision
// model, then repair, validate and normalize its JSON output.
package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/esquelas/internal/ai"
	"github.com/local/esquelas/internal/doctype"
	"github.com/local/esquelas/internal/filetype"
	"github.com/local/esquelas/internal/metrics"
	"github.com/local/esquelas/internal/normalize"
	"github.com/local/esquelas/internal/render"
)

// Renderer rasterizes PDF bytes into page images.
type Renderer interface {
	Pages(pdf []byte, maxPages, dpi int) ([]render.Page, error)
}

// Config bounds the pipeline.
type Config struct {
	Model           string // default model identifier
	DPI             int
	DefaultMaxPages int
	MaxPagesLimit   int
}

// Input is one upload to extract from.
type Input struct {
	Data          []byte
	ContentType   string
	ModelOverride string
	MaxPages      int // 0 means use the configured default
}

// Result is the normalized output record.
type Result struct {
	DocumentType string         `json:"documentType"`
	Data         map[string]any `json:"data"`
}

// Service is the extraction pipeline. Constructed once at startup and shared
// read-only across requests; it holds no per-request state.
type Service struct {
	client   ai.Client
	renderer Renderer
	cfg      Config
}

func NewService(client ai.Client, renderer Renderer, cfg Config) *Service {
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if cfg.DefaultMaxPages <= 0 {
		cfg.DefaultMaxPages = 3
	}
	if cfg.MaxPagesLimit <= 0 {
		cfg.MaxPagesLimit = 10
	}
	return &Service{client: client, renderer: renderer, cfg: cfg}
}

// Extract runs the full pipeline for one document type. Failures carry a
// *StageError; unparseable amounts and dates degrade to null instead of
// failing the request.
func (s *Service) Extract(ctx context.Context, dt *doctype.Definition, in Input) (*Result, error) {
	kind, mime := filetype.Classify(in.ContentType, in.Data)
	if kind == filetype.Unsupported {
		return nil, stageErr(StageInput, fmt.Errorf("unsupported content type %q", mime))
	}

	images, err := s.imageParts(kind, mime, in)
	if err != nil {
		return nil, err
	}

	model := in.ModelOverride
	if model == "" {
		model = s.cfg.Model
	}

	start := time.Now()
	resp, err := s.client.Do(ctx, ai.Request{Model: model, Prompt: dt.Prompt, Images: images})
	if err != nil {
		metrics.ObserveModel(s.client.Name(), model, "error", time.Since(start))
		return nil, stageErr(StageModel, err)
	}
	metrics.ObserveModel(s.client.Name(), model, "success", time.Since(start))

	raw, err := normalize.RepairJSON(resp.Text)
	if err != nil {
		return nil, stageErr(StageParse, err)
	}

	data, err := dt.Schema.Apply(raw)
	if err != nil {
		return nil, stageErr(StageSchema, err)
	}

	applyRules(dt, data)

	log.Debug().
		Str("doctype", dt.Tag).
		Str("model", model).
		Int("images", len(images)).
		Int("tokens_in", resp.TokensIn).
		Int("tokens_out", resp.TokensOut).
		Msg("extraction completed")

	return &Result{DocumentType: dt.DocumentType, Data: data}, nil
}

func (s *Service) imageParts(kind filetype.Kind, mime string, in Input) ([]ai.ImagePart, error) {
	if kind == filetype.Image {
		return []ai.ImagePart{{MIME: mime, Base64: base64.StdEncoding.EncodeToString(in.Data)}}, nil
	}

	maxPages := s.clampPages(in.MaxPages)
	pages, err := s.renderer.Pages(in.Data, maxPages, s.cfg.DPI)
	if err != nil {
		return nil, stageErr(StageRender, err)
	}
	if len(pages) == 0 {
		return nil, stageErr(StageRender, fmt.Errorf("no pages rendered"))
	}
	metrics.AddPagesRendered(len(pages))

	parts := make([]ai.ImagePart, len(pages))
	for i, p := range pages {
		parts[i] = ai.ImagePart{MIME: p.MIME, Base64: base64.StdEncoding.EncodeToString(p.Data)}
	}
	return parts, nil
}

// clampPages bounds the user-supplied page cap to [1, limit], defaulting when
// absent. The cap exists to bound per-request cost, not for safety.
func (s *Service) clampPages(n int) int {
	if n == 0 {
		n = s.cfg.DefaultMaxPages
	}
	if n < 1 {
		n = 1
	}
	if n > s.cfg.MaxPagesLimit {
		n = s.cfg.MaxPagesLimit
	}
	return n
}

// applyRules rewrites amount and date fields into their canonical forms.
// Values the model emitted as bare numbers are stringified first.
func applyRules(dt *doctype.Definition, data map[string]any) {
	for _, f := range dt.Fields {
		v := stringify(data[f.Name])
		switch f.Rule {
		case doctype.RuleAmount:
			data[f.Name] = deref(normalize.Amount(v))
		case doctype.RuleDate:
			data[f.Name] = deref(normalize.Date(v))
		case doctype.RuleAmountValue:
			data[f.Name] = normalize.AmountValue(v)
		case doctype.RuleNone:
			if data[f.Name] != nil {
				data[f.Name] = v
			}
		}
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func deref(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
