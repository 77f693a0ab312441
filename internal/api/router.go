package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/normatec/catalog/internal/api/handlers"
	"github.com/normatec/catalog/internal/api/middleware"
	"github.com/normatec/catalog/internal/audit"
	"github.com/normatec/catalog/internal/auth"
	"github.com/normatec/catalog/internal/cache"
	"github.com/normatec/catalog/internal/catalog"
	"github.com/normatec/catalog/internal/config"
	"github.com/normatec/catalog/internal/postgres"
	"github.com/normatec/catalog/internal/queue"
	"github.com/normatec/catalog/internal/tenancy"
	"github.com/normatec/catalog/internal/webhook"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db)
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)

	// Stores
	ruleStore := postgres.NewRuleStore(rt.db)
	sectionStore := postgres.NewSectionStore(rt.db)
	moduleStore := postgres.NewModuleStore(rt.db)
	itemStore := postgres.NewItemStore(rt.db)
	userStore := postgres.NewUserStore(rt.db)
	companyStore := postgres.NewCompanyStore(rt.db)
	locationStore := postgres.NewLocationStore(rt.db)

	var ruleCache catalog.Cache
	if rt.redis != nil {
		ruleCache = cache.NewCache(rt.redis)
	}
	events := queue.NewClient(rt.cfg.Redis)

	// Services
	ruleSvc := catalog.NewRuleService(ruleStore, ruleCache, events)
	sectionSvc := catalog.NewSectionService(sectionStore, ruleStore, moduleStore, events)
	moduleSvc := catalog.NewModuleService(moduleStore, sectionStore, itemStore, events)
	itemSvc := catalog.NewItemService(itemStore, moduleStore, events)

	owners := tenancy.NewOwnershipResolver(companyStore)
	userSvc := tenancy.NewUserService(userStore, companyStore, auth.NewBcryptHasher())
	companySvc := tenancy.NewCompanyService(companyStore, userStore, owners)
	locationSvc := tenancy.NewLocationService(locationStore, owners)

	auditSvc := audit.NewService(rt.db)
	webhookSvc := webhook.NewService(rt.db)

	issuer := auth.NewTokenIssuer(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.TokenTTL)

	// Login (no auth)
	authH := handlers.NewAuthHandler(userSvc, issuer)
	r.Post("/api/v1/auth/login", authH.Login)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		ruleH := handlers.NewRuleHandler(ruleSvc, auditSvc)
		r.Route("/rules", func(r chi.Router) {
			r.Get("/", ruleH.List)
			r.Get("/{id}", ruleH.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePrivileged)
				r.Post("/", ruleH.Create)
				r.Put("/{id}", ruleH.Update)
				r.Delete("/{id}", ruleH.Delete)
				r.Post("/{id}/restore", ruleH.Restore)
			})
		})

		sectionH := handlers.NewSectionHandler(sectionSvc, auditSvc)
		r.Route("/sections", func(r chi.Router) {
			r.Get("/", sectionH.List)
			r.Get("/{id}", sectionH.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePrivileged)
				r.Post("/", sectionH.Create)
				r.Put("/{id}", sectionH.Update)
				r.Delete("/{id}", sectionH.Delete)
			})
		})

		moduleH := handlers.NewModuleHandler(moduleSvc, auditSvc)
		r.Route("/modules", func(r chi.Router) {
			r.Get("/", moduleH.List)
			r.Get("/{id}", moduleH.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePrivileged)
				r.Post("/", moduleH.Create)
				r.Put("/{id}", moduleH.Update)
				r.Delete("/{id}", moduleH.Delete)
			})
		})

		itemH := handlers.NewItemHandler(itemSvc, auditSvc)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemH.List)
			r.Get("/{id}", itemH.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePrivileged)
				r.Post("/", itemH.Create)
				r.Put("/{id}", itemH.Update)
				r.Delete("/{id}", itemH.Delete)
			})
		})

		userH := handlers.NewUserHandler(userSvc, auditSvc)
		r.Route("/users", func(r chi.Router) {
			r.Use(auth.RequirePrivileged)
			r.Post("/", userH.Create)
			r.Get("/", userH.List)
			r.Get("/{id}", userH.Get)
			r.Put("/{id}", userH.Update)
			r.Delete("/{id}", userH.Delete)
		})

		companyH := handlers.NewCompanyHandler(companySvc, auditSvc)
		r.Route("/companies", func(r chi.Router) {
			r.Post("/", companyH.Create)
			r.Get("/", companyH.List)
			r.Get("/{id}", companyH.Get)
			r.Put("/{id}", companyH.Update)
			r.Delete("/{id}", companyH.Delete)
		})

		locationH := handlers.NewLocationHandler(locationSvc, auditSvc)
		r.Route("/locations", func(r chi.Router) {
			r.Post("/", locationH.Create)
			r.Get("/", locationH.Search)
			r.Get("/{id}", locationH.Get)
			r.Put("/{id}", locationH.Update)
			r.Delete("/{id}", locationH.Delete)
		})

		webhookH := handlers.NewWebhookHandler(webhookSvc)
		r.Route("/webhooks", func(r chi.Router) {
			r.Use(auth.RequirePrivileged)
			r.Post("/", webhookH.Create)
			r.Get("/", webhookH.List)
			r.Delete("/{id}", webhookH.Delete)
		})

		adminH := handlers.NewAdminHandler(auditSvc)
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequirePrivileged)
			r.Get("/audit", adminH.AuditLogs)
		})
	})

	return r
}
