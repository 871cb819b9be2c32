// Package server exposes the translation pipeline as a small web
// application: an upload form, a translate endpoint and downloads.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doc-translator/internal/document"
	"doc-translator/internal/pipeline"
	"doc-translator/internal/textutil"
	"doc-translator/internal/translation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// DocumentTranslator is the part of the pipeline the server drives.
type DocumentTranslator interface {
	TranslateDocument(ctx context.Context, input string, dir translation.Direction) (*pipeline.Result, error)
}

type language struct {
	Code string
	Name string
}

var languages = []language{
	{"auto", "Detect"},
	{"en", "English"},
	{"ja", "Japanese"},
	{"zh-CN", "Chinese (Simplified)"},
	{"zh-TW", "Chinese (Traditional)"},
	{"ko", "Korean"},
	{"vi", "Vietnamese"},
	{"fr", "French"},
	{"de", "German"},
	{"es", "Spanish"},
}

type indexPage struct {
	Error     string
	Accept    string
	Languages []language
	From, To  string
}

type resultPage struct {
	Name     string
	Units    int
	Failures []string
}

// Server handles uploads in per-request directories under uploadDir and
// serves results from outputDir.
type Server struct {
	docs      DocumentTranslator
	uploadDir string
	outputDir string
	maxUpload int64
	direction translation.Direction
}

// New creates a server and clears whatever a previous run left in
// uploadDir.
func New(docs DocumentTranslator, uploadDir, outputDir string, maxUploadMB int, defaultDirection translation.Direction) (*Server, error) {
	if err := resetDir(uploadDir); err != nil {
		return nil, err
	}
	return &Server{
		docs:      docs,
		uploadDir: uploadDir,
		outputDir: outputDir,
		maxUpload: int64(maxUploadMB) << 20,
		direction: defaultDirection,
	}, nil
}

func resetDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read upload directory: %w", err)
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove stale upload")
			continue
		}
		log.Info().Str("path", path).Msg("Removed stale upload")
	}
	return nil
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /translate", s.handleTranslate)
	mux.HandleFunc("GET /download/{name}", s.handleDownload)
	return logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, "")
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, msg string) {
	page := indexPage{
		Error:     msg,
		Accept:    ".docx,.pptx,.xlsx,.xlsm,.xltx,.xltm,.txt,.csv",
		Languages: languages,
		From:      s.direction.Source,
		To:        s.direction.Target,
	}
	render(w, status, "index.html", page)
}

func render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
	}
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.renderIndex(w, http.StatusBadRequest, "The upload could not be read or is too large.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderIndex(w, http.StatusBadRequest, "No file was selected.")
		return
	}
	defer file.Close()

	from := strings.TrimSpace(r.FormValue("translate_from"))
	to := strings.TrimSpace(r.FormValue("translate_to"))
	if from == "" || to == "" {
		s.renderIndex(w, http.StatusBadRequest, "Choose both a source and a target language.")
		return
	}

	name := textutil.SafeName(header.Filename)
	if name == "" {
		s.renderIndex(w, http.StatusBadRequest, "No file was selected.")
		return
	}
	if !document.Supported(name) {
		s.renderIndex(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file type: %s", strings.ToLower(filepath.Ext(name))))
		return
	}

	workDir := filepath.Join(s.uploadDir, uuid.NewString())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		log.Error().Err(err).Msg("Failed to create upload directory")
		s.renderIndex(w, http.StatusInternalServerError, "The upload could not be stored.")
		return
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn().Err(err).Str("dir", workDir).Msg("Failed to remove upload")
		}
	}()

	input := filepath.Join(workDir, name)
	if err := saveUpload(input, file); err != nil {
		log.Error().Err(err).Msg("Failed to store upload")
		s.renderIndex(w, http.StatusInternalServerError, "The upload could not be stored.")
		return
	}

	res, err := s.docs.TranslateDocument(r.Context(), input, translation.NewDirection(from, to))
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("Translation failed")
		s.renderIndex(w, statusFor(err), fmt.Sprintf("Translation failed: %v", err))
		return
	}

	page := resultPage{Name: filepath.Base(res.Output), Units: res.Units}
	for _, f := range res.Failures {
		page.Failures = append(page.Failures, f.Error())
	}
	render(w, http.StatusOK, "result.html", page)
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write upload: %w", err)
	}
	return dst.Close()
}

func statusFor(err error) int {
	var openErr *document.OpenError
	switch {
	case errors.Is(err, document.ErrUnsupportedFormat), errors.As(err, &openErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("name")
	name := textutil.SafeName(raw)
	if name == "" || name != raw {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(filepath.Join(s.outputDir, name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", escapeFilename(name)))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
