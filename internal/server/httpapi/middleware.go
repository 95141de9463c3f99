package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/server/auth"
	"github.com/mbelyaev/postboard/internal/server/metrics"
)

type ctxKey int

const authContextKey ctxKey = iota

// AuthFromRequest returns the AuthContext established by the auth
// middleware, or the anonymous context when none was set.
func AuthFromRequest(r *http.Request) auth.AuthContext {
	if ac, ok := r.Context().Value(authContextKey).(auth.AuthContext); ok {
		return ac
	}
	return auth.Anonymous()
}

// authMiddleware resolves the bearer credential once per request and stores
// the resulting immutable AuthContext in the request context. A missing
// header yields the anonymous context; a present but invalid token is a hard
// 401 regardless of what the route would otherwise require.
func authMiddleware(resolver *auth.ContextResolver, collector *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := strings.TrimPrefix(
				r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)

			ac, err := resolver.Resolve(credential)
			if err != nil {
				if collector != nil {
					collector.RecordAuthFailure()
				}
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), authContextKey, ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware records one observation per served request, labeled by
// the chi route pattern so path parameters do not explode the cardinality.
func metricsMiddleware(collector *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			collector.RecordRequest(route, rec.status, time.Since(start))
		})
	}
}
