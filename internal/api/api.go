// Package api exposes the HTTP surface: one POST extraction endpoint per
// document type, a health endpoint and prometheus metrics.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/esquelas/internal/doctype"
	"github.com/local/esquelas/internal/extract"
	"github.com/local/esquelas/internal/metrics"
)

const maxUploadMemory = 32 << 20 // 32MB before multipart spills to temp files

// Server wires the extraction service to HTTP routes.
type Server struct {
	svc   *extract.Service
	model string // configured model id, reported by /health
}

func New(svc *extract.Service, model string) *Server {
	return &Server{svc: svc, model: model}
}

// RegisterRoutes mounts all endpoints on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	for _, dt := range doctype.All() {
		mux.HandleFunc("/api/extract/"+dt.Tag, s.extractHandler(dt))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "model": s.model})
}

func (s *Server) extractHandler(dt *doctype.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		reqID := uuid.NewString()
		logger := log.With().Str("request_id", reqID).Str("doctype", dt.Tag).Logger()

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			metrics.IncExtraction(dt.Tag, "rejected")
			writeError(w, http.StatusBadRequest, "formulario multipart inválido")
			return
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			metrics.IncExtraction(dt.Tag, "rejected")
			writeError(w, http.StatusBadRequest, "falta el archivo 'file'")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			metrics.IncExtraction(dt.Tag, "rejected")
			writeError(w, http.StatusBadRequest, "no se pudo leer el archivo")
			return
		}

		in := extract.Input{
			Data:          data,
			ContentType:   hdr.Header.Get("Content-Type"),
			ModelOverride: r.URL.Query().Get("model"),
			MaxPages:      parseMaxPages(r.URL.Query().Get("max_pages")),
		}

		res, err := s.svc.Extract(r.Context(), dt, in)
		if err != nil {
			var se *extract.StageError
			if errors.As(err, &se) && se.Stage == extract.StageInput {
				logger.Warn().Str("content_type", in.ContentType).Msg("upload rejected")
				metrics.IncExtraction(dt.Tag, "rejected")
				writeError(w, http.StatusBadRequest, "Sube una imagen (jpg/png) o un PDF.")
				return
			}
			logger.Error().Err(err).Msg("extraction failed")
			metrics.IncExtraction(dt.Tag, "error")
			writeError(w, http.StatusInternalServerError,
				fmt.Sprintf("extractor %s falló: %s", dt.Tag, truncate(err.Error(), 500)))
			return
		}

		logger.Info().Int("bytes", len(data)).Msg("extraction succeeded")
		metrics.IncExtraction(dt.Tag, "success")
		writeJSON(w, http.StatusOK, res)
	}
}

// parseMaxPages returns 0 (use default) for absent or unparseable values; the
// pipeline clamps the rest to its configured range.
func parseMaxPages(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
