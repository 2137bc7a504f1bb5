package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"docsum/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// multipart framing on top of the file itself
const uploadOverhead = 1 << 20

// SummaryPort is the HTTP-facing subset of the summary service.
type SummaryPort interface {
	IngestBytes(ctx context.Context, name string, data []byte) (domain.Document, error)
	Summarize(text string, length domain.Length) (domain.Result, error)
	SummarizeDocument(id string, length domain.Length) (domain.Result, error)
	Forget(id string) error
	Clear()
	DefaultLength() domain.Length
}

// Config configures the HTTP server.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// Server serves the upload page, the JSON API and the websocket.
type Server struct {
	cfg      Config
	service  SummaryPort
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewServer(cfg Config, service SummaryPort, log logrus.FieldLogger) *Server {
	s := &Server{cfg: cfg, service: service, log: log}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Document Summary Assistant is running\n")
	})
	mux.HandleFunc("POST /api/documents", s.handleUpload)
	mux.HandleFunc("DELETE /api/documents", s.handleClear)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleForget)
	mux.HandleFunc("POST /api/summarize", s.handleSummarize)
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	return s.logRequests(mux)
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("starting server")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Lengths []domain.Length
		Default domain.Length
		MaxMB   int64
	}{domain.Lengths, s.service.DefaultLength(), s.cfg.MaxUploadBytes >> 20}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.WithError(err).Error("render index")
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+uploadOverhead)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handleError(w, domain.ErrFileTooLarge)
			return
		}
		handleError(w, &httpError{Code: http.StatusBadRequest, Message: "multipart field \"file\" is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(w, err)
		return
	}
	doc, err := s.service.IngestBytes(r.Context(), header.Filename, data)
	if err != nil {
		handleError(w, err)
		return
	}
	_ = jsonResponse(w, http.StatusCreated, map[string]any{"document": doc})
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Forget(r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.service.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// summarizeRequest names either a stored document or inline text.
type summarizeRequest struct {
	DocumentID string `json:"documentId"`
	Text       string `json:"text"`
	Length     string `json:"length"`
}

func (s *Server) summarize(req summarizeRequest) (domain.Result, error) {
	length := s.service.DefaultLength()
	if req.Length != "" {
		length = domain.ParseLength(req.Length)
	}
	if req.DocumentID != "" {
		return s.service.SummarizeDocument(req.DocumentID, length)
	}
	return s.service.Summarize(req.Text, length)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	res, err := s.summarize(req)
	if err != nil {
		handleError(w, err)
		return
	}
	_ = jsonResponse(w, http.StatusOK, res)
}
