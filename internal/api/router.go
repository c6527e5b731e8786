package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/college-predictor/prompt-manager-be/internal/api/handlers"
	"github.com/college-predictor/prompt-manager-be/internal/api/middleware"
	"github.com/college-predictor/prompt-manager-be/internal/audit"
	"github.com/college-predictor/prompt-manager-be/internal/auth"
	"github.com/college-predictor/prompt-manager-be/internal/cascade"
	"github.com/college-predictor/prompt-manager-be/internal/catalog"
	"github.com/college-predictor/prompt-manager-be/internal/compiler"
	"github.com/college-predictor/prompt-manager-be/internal/config"
	"github.com/college-predictor/prompt-manager-be/internal/hierarchy"
	"github.com/college-predictor/prompt-manager-be/internal/prompthistory"
	"github.com/college-predictor/prompt-manager-be/internal/queue"
	"github.com/college-predictor/prompt-manager-be/internal/store"
	"github.com/college-predictor/prompt-manager-be/internal/store/postgres"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
	store *store.Store
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
		store: postgres.New(db),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	hierarchySvc := hierarchy.NewService(rt.store)
	historySvc := prompthistory.NewService(rt.store)
	coordinator := cascade.NewCoordinator(rt.store)
	auditSvc := audit.NewService(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)
	catalogSvc := catalog.NewService(rt.store, rt.redis, time.Duration(rt.cfg.Catalog.CacheTTLSeconds)*time.Second, slog.Default())
	compileSvc := compiler.NewService(rt.store, catalogSvc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		projectH := handlers.NewProjectHandler(hierarchySvc, coordinator, queueClient, auditSvc)
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectH.Create)
			r.Get("/", projectH.List)
			r.Get("/{id}", projectH.Get)
			r.Put("/{id}", projectH.Update)
			r.Delete("/{id}", projectH.Delete)
			r.Post("/{id}/collections", projectH.CreateCollection)
			r.Get("/{id}/collections", projectH.ListCollections)
		})

		collectionH := handlers.NewCollectionHandler(hierarchySvc, coordinator, queueClient, auditSvc)
		r.Route("/collections", func(r chi.Router) {
			r.Get("/{id}", collectionH.Get)
			r.Put("/{id}", collectionH.Update)
			r.Delete("/{id}", collectionH.Delete)
			r.Post("/{id}/folders", collectionH.CreateFolder)
			r.Get("/{id}/folders", collectionH.ListFolders)
			r.Post("/{id}/prompts", collectionH.CreatePrompt)
			r.Get("/{id}/prompts", collectionH.ListPrompts)
		})

		folderH := handlers.NewFolderHandler(hierarchySvc, coordinator, auditSvc)
		r.Route("/folders", func(r chi.Router) {
			r.Get("/{id}", folderH.Get)
			r.Put("/{id}", folderH.Update)
			r.Delete("/{id}", folderH.Delete)
		})

		promptH := handlers.NewPromptHandler(hierarchySvc, historySvc, coordinator, auditSvc)
		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", promptH.List)
			r.Get("/{id}", promptH.Get)
			r.Put("/{id}", promptH.Update)
			r.Delete("/{id}", promptH.Delete)
			r.Get("/{id}/history", promptH.History)
			r.Post("/{id}/restore", promptH.Restore)
		})

		compileH := handlers.NewCompileHandler(compileSvc)
		r.Post("/compile", compileH.Compile)
		r.Post("/compile/{provider}", compileH.CompileForProvider)

		modelH := handlers.NewModelHandler(catalogSvc)
		r.Route("/models", func(r chi.Router) {
			r.Get("/", modelH.List)
			r.Get("/{provider}", modelH.ListByProvider)
		})
	})

	return r
}
