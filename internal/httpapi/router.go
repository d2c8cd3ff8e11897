package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-Id"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDFrom returns the request id stored by the router, or ""
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Router is a stdlib ServeMux that tags every request with an id
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)
	req = req.WithContext(context.WithValue(req.Context(), requestIDKey, id))

	r.mux.ServeHTTP(w, req)

	r.logger.Debug("HTTP request",
		zap.String("request_id", id),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Duration("duration", time.Since(start)),
	)
}

// RegisterTabRoutes registers the composition, analytics and cache routes
func (r *Router) RegisterTabRoutes(h *TabsHandler) {
	r.Handle("/api/v1/tabs/compose", func(w http.ResponseWriter, req *http.Request) {
		if allowMethod(w, req, http.MethodPost) {
			h.Compose(w, req)
		}
	})
	r.Handle("/api/v1/tabs/content", func(w http.ResponseWriter, req *http.Request) {
		if allowMethod(w, req, http.MethodPost) {
			h.Content(w, req)
		}
	})
	r.Handle("/api/v1/tabs/views", func(w http.ResponseWriter, req *http.Request) {
		if allowMethod(w, req, http.MethodPost) {
			h.RecordView(w, req)
		}
	})
	r.Handle("/api/v1/cache/invalidate", func(w http.ResponseWriter, req *http.Request) {
		if allowMethod(w, req, http.MethodPost) {
			h.InvalidateCaches(w, req)
		}
	})
}

// RegisterHealthRoutes registers GET /healthz
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if allowMethod(w, req, http.MethodGet) {
			writeOK(w, map[string]string{"status": "ok"})
		}
	})
}
