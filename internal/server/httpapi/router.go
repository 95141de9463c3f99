// Package httpapi is the HTTP transport: routing, auth and rate-limit
// middleware, and the JSON encoding of service results and errors.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mbelyaev/postboard/internal/server/auth"
	"github.com/mbelyaev/postboard/internal/server/graph"
	"github.com/mbelyaev/postboard/internal/server/metrics"
	"github.com/mbelyaev/postboard/internal/server/services"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Resolver    *auth.ContextResolver
	Accounts    *services.AccountService
	Content     *services.ContentService
	Resets      *services.ResetFlowService
	Graph       *graph.Resolver
	Collector   *metrics.Collector
	Gatherer    prometheus.Gatherer
	RateLimiter *RateLimiter
}

// NewRouter builds the full route surface.
//
// Middleware order: metrics → auth → rate limit. The auth middleware runs
// on every /api route so the rate limiter can key authenticated clients by
// identity; per-operation authentication requirements stay in the services.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	accounts := &accountHandler{accounts: deps.Accounts, collector: deps.Collector}
	content := &contentHandler{content: deps.Content}
	resets := &resetHandler{resets: deps.Resets, collector: deps.Collector}
	queries := &queryHandler{graph: deps.Graph}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		if deps.Collector != nil {
			r.Use(metricsMiddleware(deps.Collector))
		}
		r.Use(authMiddleware(deps.Resolver, deps.Collector))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		// account lifecycle
		r.Post("/signup", accounts.Signup)
		r.Post("/login", accounts.Login)
		r.Post("/token/refresh", accounts.Refresh)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", queries.ListUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", queries.GetUser)
				r.Get("/posts", queries.ListUserPosts)
				r.Patch("/", accounts.UpdateUser)
				r.Put("/password", accounts.UpdatePassword)
				r.Delete("/", accounts.DeleteUser)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", queries.ListPosts)
			r.Post("/", content.CreatePost)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", queries.GetPost)
				r.Get("/author", queries.GetPostAuthor)
				r.Get("/comments", queries.ListPostComments)
				r.Delete("/", content.DeletePost)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/", content.CreateComment)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", queries.GetComment)
				r.Get("/post", queries.GetCommentPost)
				r.Get("/replies", queries.ListCommentReplies)
				r.Delete("/", content.DeleteComment)
			})
		})

		r.Route("/replies", func(r chi.Router) {
			r.Post("/", content.CreateReply)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", queries.GetReply)
				r.Delete("/", content.DeleteReply)
			})
		})

		r.Route("/password-reset", func(r chi.Router) {
			r.Post("/", resets.RequestReset)
			r.Post("/complete", resets.CompleteReset)
		})
	})

	return r
}
