package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"linkaudit/internal/app"
	"linkaudit/internal/crawler"
	"linkaudit/internal/ioformats"
	"linkaudit/internal/models"
)

type compareReq struct {
	URL1   string `json:"url1"`
	URL2   string `json:"url2"`
	Strict bool   `json:"strict"`
	Full   bool   `json:"full"`
}

type compareBatchReq struct {
	Pairs  []ioformats.Pair `json:"pairs"`
	Strict bool             `json:"strict"`
	Full   bool             `json:"full"`
}

// Type and MaxSize, when set, turn a check into checker.Validate.
type checkReq struct {
	URL     string `json:"url"`
	Type    string `json:"type"`
	MaxSize int64  `json:"maxSize"`
}

type checkBatchReq struct {
	URLs    []string `json:"urls"`
	Type    string   `json:"type"`
	MaxSize int64    `json:"maxSize"`
}

type server struct {
	app *app.App
}

func newRouter(a *app.App) http.Handler {
	s := &server{app: a}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequest(a.Log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/compare", s.compare)
	r.Post("/compare/batch", s.compareBatch)
	r.Post("/links", s.links)
	r.Post("/check", s.check)
	r.Post("/check/batch", s.checkBatch)
	r.Post("/check/upload", s.checkUpload)
	return r
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// POST /compare  { "url1": "...", "url2": "...", "strict": false, "full": false }
func (s *server) compare(w http.ResponseWriter, r *http.Request) {
	var req compareReq
	if err := decode(r, &req); err != nil || req.URL1 == "" || req.URL2 == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	writeJSON(w, http.StatusOK, s.app.Compare(ioformats.Pair{URL1: req.URL1, URL2: req.URL2}, req.Strict, req.Full))
}

// POST /compare/batch  { "pairs": [{"url1": "...", "url2": "..."}] }
func (s *server) compareBatch(w http.ResponseWriter, r *http.Request) {
	var req compareBatchReq
	if err := decode(r, &req); err != nil || len(req.Pairs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	out := make([]models.Comparison, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		out = append(out, s.app.Compare(p, req.Strict, req.Full))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /links  { "html": "..." } or { "url": "https://..." }
func (s *server) links(w http.ResponseWriter, r *http.Request) {
	var req app.LinksRequest
	if err := decode(r, &req); err != nil || (req.HTML == "" && req.URL == "") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	res, err := s.app.Links(ctx, req)
	switch {
	case errors.Is(err, crawler.ErrNonHTML):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /check  { "url": "https://...", "type": "text/html", "maxSize": 1048576 }
func (s *server) check(w http.ResponseWriter, r *http.Request) {
	var req checkReq
	if err := decode(r, &req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()
	if req.Type != "" || req.MaxSize > 0 {
		writeJSON(w, http.StatusOK, s.app.Checker.Validate(ctx, req.URL, req.Type, req.MaxSize))
		return
	}
	writeJSON(w, http.StatusOK, s.app.Checker.CheckHeader(ctx, req.URL))
}

// POST /check/batch  { "urls": ["https://...", "..."] }
func (s *server) checkBatch(w http.ResponseWriter, r *http.Request) {
	var req checkBatchReq
	if err := decode(r, &req); err != nil || len(req.URLs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()
	if req.Type != "" || req.MaxSize > 0 {
		writeJSON(w, http.StatusOK, s.app.ValidateAll(ctx, req.URLs, req.Type, req.MaxSize))
		return
	}
	writeJSON(w, http.StatusOK, s.app.CheckAll(ctx, req.URLs))
}

// POST /check/upload (multipart file=...) -> NDJSON
func (s *server) checkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart parse error"})
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file part 'file' required"})
		return
	}
	defer f.Close()

	// copy to temp file to reuse format reader; keep the extension for format detection
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "temp file error"})
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.ReadFrom(f); err != nil {
		tmp.Close()
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "copy error"})
		return
	}
	tmp.Close()

	urls, err := ioformats.ReadURLs(tmp.Name())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()
	results := s.app.CheckAll(ctx, urls)

	w.Header().Set("Content-Type", "application/x-ndjson")
	if err := ioformats.WriteNDJSON(w, results); err != nil {
		s.app.Log.Warnf("write upload results: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
