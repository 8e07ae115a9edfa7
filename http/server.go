package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/pageqa"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server shuts down.
const ShutdownTimeout = 5 * time.Second

// MaxRequestBodySize caps the size of JSON request bodies.
const MaxRequestBodySize = 1 << 20

// Server is the HTTP API server. Exported fields must be set before Open
// or Handler is called.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Addr is the bind address, e.g. ":3000".
	Addr string

	// AllowedOrigins lists the origins allowed by CORS. "*" allows all.
	AllowedOrigins []string

	Logger *slog.Logger

	QAService      pageqa.QAService
	ContentService pageqa.ContentService

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewServer returns a new Server with defaults.
func NewServer() *Server {
	return &Server{
		server:         &http.Server{ReadHeaderTimeout: 10 * time.Second},
		AllowedOrigins: []string{"*"},
		Logger:         slog.Default(),
		Now:            time.Now,
	}
}

// Open starts listening on Addr and serves requests in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	s.server.Handler = s.Handler()
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("server stopped", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	addr := s.ln.Addr().(*net.TCPAddr)
	host := "localhost"
	if ip := addr.IP; ip != nil && !ip.IsUnspecified() {
		host = ip.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(addr.Port))
}

// Handler returns the router with all middleware and routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", s.handleHealth)
	r.Post("/ask-question", s.handleAskQuestion)
	r.Post("/fetch-content", s.handleFetchContent)
	return r
}

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Message:   "pageqa is running",
		Timestamp: s.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req pageqa.QARequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.QAService.Ask(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err, "url", req.URL, "question", req.Question)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type fetchContentRequest struct {
	URLs []string `json:"urls"`
}

type fetchContentResponse struct {
	Content []*pageqa.PageContent `json:"content"`
}

func (s *Server) handleFetchContent(w http.ResponseWriter, r *http.Request) {
	var req fetchContentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	content, err := s.ContentService.FetchContent(r.Context(), req.URLs)
	if err != nil {
		s.writeError(w, r, err, "urls", req.URLs)
		return
	}
	writeJSON(w, http.StatusOK, fetchContentResponse{Content: content})
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// codes maps error codes to HTTP status codes.
var codes = map[string]int{
	pageqa.EINVALID:  http.StatusBadRequest,
	pageqa.EEXTRACT:  http.StatusUnprocessableEntity,
	pageqa.EFETCH:    http.StatusBadGateway,
	pageqa.EANSWER:   http.StatusBadGateway,
	pageqa.EFORMAT:   http.StatusBadGateway,
	pageqa.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// writeError logs err with the request details in attrs and writes it as
// an ErrorResponse. Internal errors are reported without their details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, attrs ...any) {
	code := pageqa.ErrorCode(err)

	args := append([]any{
		"request_id", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"kind", code,
		"err", err,
	}, attrs...)
	s.Logger.Error("request failed", args...)

	writeJSON(w, ErrorStatusCode(code), ErrorResponse{
		Kind:    code,
		Message: pageqa.ErrorMessage(err),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return pageqa.Errorf(pageqa.EINVALID, "request body must be at most %d bytes", maxErr.Limit)
		}
		return pageqa.Errorf(pageqa.EINVALID, "invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
