package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"repomanage/internal/codec"
	"repomanage/internal/logger"
	"repomanage/internal/metrics"
)

// HeaderRequestID carries the request identifier in both directions
const HeaderRequestID = "X-Request-ID"

// Middleware wraps a handler
type Middleware func(http.Handler) http.Handler

// Chain applies middleware so the first one listed is outermost
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestID assigns every request an identifier, reusing a client-supplied
// one, and stores a logger carrying it in the request context
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		ctx := logger.ToContext(r.Context(), logger.Named("http").With(logger.RequestID(id)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger logs every request with its status and latency
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log := logger.From(r.Context())
		fields := []zap.Field{
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Status(status),
			logger.Duration(time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			log.Warn("request", fields...)
		} else {
			log.Debug("request", fields...)
		}
	})
}

// Recover turns a panic into a 500 response. Corrupt or oversized entity
// frames are reported with their codec details.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}

			log := logger.From(r.Context())
			var (
				corrupt  *codec.CorruptionError
				overflow *codec.OverflowError
			)
			switch {
			case errors.As(err, &corrupt):
				log.Error("stored entity is corrupt", zap.String("codec", corrupt.Codec), logger.Err(err))
			case errors.As(err, &overflow):
				log.Error("entity exceeds its size bound",
					zap.String("codec", overflow.Codec),
					zap.Int("size", overflow.Size),
					zap.Int("max", overflow.Max))
			default:
				log.Error("panic serving request", logger.Err(err), zap.Stack("stack"))
			}

			writeError(w, ErrorResponse{Error: CodeInternalError, Details: "internal error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

// CORS allows browser clients from any origin
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
		h.Set("Access-Control-Expose-Headers", HeaderRequestID)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Instrument counts requests by chi route pattern
func Instrument(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, route, strconv.Itoa(status))
		})
	}
}
