package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/finsight/pkg/logger"
)

// maxCapturedBody bounds how much of an error response is kept for the log line
const maxCapturedBody = 4 << 10

// errCapture wraps chi's WrapResponseWriter and keeps the body of error
// responses so the request log can carry the error message
type errCapture struct {
	chimiddleware.WrapResponseWriter
	buf        bytes.Buffer
	statusCode int
}

func (e *errCapture) WriteHeader(code int) {
	e.statusCode = code
	e.WrapResponseWriter.WriteHeader(code)
}

func (e *errCapture) Write(b []byte) (int, error) {
	if e.statusCode >= 400 && e.buf.Len() < maxCapturedBody {
		e.buf.Write(b)
	}
	return e.WrapResponseWriter.Write(b)
}

// Flush lets streaming handlers (server-sent events) push partial output
func (e *errCapture) Flush() {
	if f, ok := e.WrapResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (e *errCapture) errorMessage() string {
	var obj struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(e.buf.Bytes(), &obj) == nil {
		return obj.Error
	}
	return ""
}

// requestInfo is filled in by inner middleware so the outer request log can
// report who made the request
type requestInfo struct {
	ownerKey string
}

type requestInfoKey struct{}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

// Logger returns a request logging middleware. 5xx responses log at error,
// 4xx at warn, everything else at info.
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ec := &errCapture{WrapResponseWriter: chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)}
			info := &requestInfo{}
			start := time.Now()

			// Propagate chi's request ID into our typed context key
			ctx := context.WithValue(r.Context(), requestInfoKey{}, info)
			if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
				ctx = context.WithValue(ctx, logger.RequestIDKey, reqID)
			}
			r = r.WithContext(ctx)

			defer func() {
				status := ec.Status()
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"route", routePattern(r),
					"remote_addr", r.RemoteAddr,
					"status", status,
					"bytes", ec.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				}
				if info.ownerKey != "" {
					attrs = append(attrs, "owner_key", info.ownerKey)
				}

				level := slog.LevelInfo
				switch {
				case status >= 500:
					level = slog.LevelError
				case status >= 400:
					level = slog.LevelWarn
				}
				if level > slog.LevelInfo {
					if msg := ec.errorMessage(); msg != "" {
						attrs = append(attrs, "error", msg)
					}
				}

				log.WithContext(ctx).Log(ctx, level, "HTTP request", attrs...)
			}()

			next.ServeHTTP(ec, r)
		}
		return http.HandlerFunc(fn)
	}
}

// routePattern returns the matched chi route, e.g. /api/v1/dashboard/trends
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
