package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/slogx"

	_ "github.com/aussiebroadwan/userdir/api/users" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// MetricsNamespace prefixes every metric the service exports.
const MetricsNamespace = "userdir"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimits
	metrics      *httpx.Metrics

	store       store.Store
	UserService *service.UserService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	metrics *httpx.Metrics,
	limits httpx.RateLimits,
	logger *slog.Logger,
) *Router {
	if metrics == nil {
		metrics = httpx.NewMetrics(MetricsNamespace)
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		limits:       limits,
		metrics:      metrics,
		store:        st,
	}

	// Metrics must stay last so it wraps the mux directly and sees r.Pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.metrics.Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			User Directory Service API
//	@version		0.1.0
//	@description	Create, list and fetch users. Passwords are hashed with argon2id and never returned.
//	@description
//	@description	Errors use {"detail": "..."}; validation failures return 422 with one entry per field.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/userdir
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8000
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// Each limiter is built once so the slash and no-slash routes share a bucket.
	write := httpx.RateLimitByIP(r.limits.Write)
	read := httpx.RateLimitByIP(r.limits.Read)
	session := SessionMiddleware(r.store)

	create := httpx.Chain(http.HandlerFunc(h.HandleCreate), write, session)
	list := httpx.Chain(http.HandlerFunc(h.HandleList), read, session)
	get := httpx.Chain(http.HandlerFunc(h.HandleGet), read, session)

	r.Mux.Handle("POST /users/{$}", create)
	r.Mux.Handle("POST /users", create)
	r.Mux.Handle("GET /users/{$}", list)
	r.Mux.Handle("GET /users", list)
	r.Mux.Handle("GET /users/{id}", get)
}

func (r *Router) registerSystem() {
	// Probes and scrapes get a generous limit; monitoring polls often.
	probe := httpx.RateLimitByIP(r.limits.Probe)

	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion), probe),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store), probe),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(r.metrics.Handler(), probe),
	)
}
