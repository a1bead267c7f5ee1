package router

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/gibber-dev/gibber/internal/middleware"
	"github.com/gibber-dev/gibber/internal/middleware/metrics"
	rl "github.com/gibber-dev/gibber/internal/middleware/ratelimiter"
	"github.com/gibber-dev/gibber/internal/setup"
)

// New creates and configures the mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that subrouter
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	// Gzip compression for all responses
	r.Use(handlers.CompressHandler)

	r.Use(handlers.CORS(
		handlers.AllowedOrigins([]string{"http://localhost:8081"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	))

	// JSON API only, no scripts/styles needed
	apiCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies, apiCSP))
	r.Use(metrics.Middleware)

	// Wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := deps.Handler

	// The unauthenticated surface has no account to key on: probes are
	// limited per client IP, the metrics scrape shares one global bucket.
	probeLimit := mw.RateLimit(rl.Rps10(), mw.GetIP)

	r.Handle("/metrics", mw.GlobalRateLimit(rl.Rps10())(promhttp.Handler())).Methods("GET")
	r.Handle("/health", probeLimit(http.HandlerFunc(h.Health))).Methods("GET")
	r.Handle("/ready", probeLimit(http.HandlerFunc(h.Ready))).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(mw.NeedAuth(deps.Jwt))
	v1.Use(mw.RateLimit(rl.Rps100(), mw.GetAccountFromContext))

	// Writes get tighter per-account budgets than reads
	createPost := mw.RateLimit(rl.New(1, 3, 1*time.Hour), mw.GetAccountFromContext)
	presign := mw.RateLimit(rl.New(1, 3, 1*time.Hour), mw.GetAccountFromContext)

	v1.Handle("/posts", createPost(http.HandlerFunc(h.CreatePost))).Methods("POST")
	v1.Handle("/uploads/presign", presign(http.HandlerFunc(h.CreatePresignedUploads))).Methods("POST")

	v1.HandleFunc("/posts/search", h.SearchPosts).Methods("GET")
	v1.HandleFunc("/posts/{post}", h.GetPost).Methods("GET")
	v1.HandleFunc("/posts/{post}/replies", h.GetReplies).Methods("GET")
	v1.HandleFunc("/posts/{post}/favorite", h.Favorite).Methods("PUT")
	v1.HandleFunc("/posts/{post}/favorite", h.Unfavorite).Methods("DELETE")

	v1.HandleFunc("/profiles/{profile}/posts", h.GetProfilePosts).Methods("GET")
	v1.HandleFunc("/profiles/{profile}/feed", h.GetFeed).Methods("GET")
	v1.HandleFunc("/profiles/{profile}/follow", h.Follow).Methods("PUT")
	v1.HandleFunc("/profiles/{profile}/follow", h.Unfollow).Methods("DELETE")

	return r
}
