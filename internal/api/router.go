package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phasegames/tempo/internal/api/handlers"
	mw "github.com/phasegames/tempo/internal/api/middleware"
	"github.com/phasegames/tempo/internal/config"
	"github.com/phasegames/tempo/internal/controller"
	"github.com/phasegames/tempo/internal/domain"
	"github.com/phasegames/tempo/internal/service"
	"github.com/phasegames/tempo/internal/store"
	"go.uber.org/zap"
)

// App holds the router, the controller and the background archiver for
// lifecycle management. Archiver is nil when no database is configured.
type App struct {
	Router     *chi.Mux
	Controller *controller.Controller
	Archiver   *service.ArchiverService

	db           *pgxpool.Pool
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the controller, the optional snapshot archiver and the HTTP
// surface. db may be nil, in which case the service runs purely in memory.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	ctrl, err := controller.New(config.ControllerConfig(), logger)
	if err != nil {
		return nil, err
	}

	var archiver *service.ArchiverService
	if db != nil {
		snapshots := store.NewSnapshotStore(db)
		archiver = service.NewArchiverService(ctrl, snapshots, logger)
		archiver.SetInterval(time.Duration(config.SnapshotIntervalMinutes()) * time.Minute)
	}

	// A nil *ArchiverService must stay a nil interface in the handler.
	var purger handlers.SnapshotPurger
	if archiver != nil {
		purger = archiver
	}

	playerHandler := handlers.NewPlayerHandler(ctrl, purger)
	insightsHandler := handlers.NewInsightsHandler(ctrl)
	configHandler := handlers.NewConfigHandler(ctrl)

	r := chi.NewRouter()

	app := &App{
		Router:     r,
		Controller: ctrl,
		Archiver:   archiver,
		db:         db,
		startTime:  time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no auth)
	r.Get("/health", app.healthHandler())
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Route("/players", func(r chi.Router) {
			r.Delete("/", playerHandler.ResetAll)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/tick", playerHandler.Tick)
				r.Get("/metrics", playerHandler.GetMetrics)
				r.Patch("/metrics", playerHandler.PatchMetrics)
				r.Get("/history", playerHandler.GetHistory)
				r.Get("/recommendation", playerHandler.GetRecommendation)
				r.Get("/export", playerHandler.Export)
				r.Put("/import", playerHandler.Import)
				r.Delete("/", playerHandler.Reset)

				r.Route("/insights", func(r chi.Router) {
					r.Get("/performance", insightsHandler.PredictPerformance)
					r.Get("/engagement", insightsHandler.EngagementForecast)
					r.Get("/skill", insightsHandler.AnalyzeSkill)
				})
			})
		})

		r.Get("/tiers", insightsHandler.Tiers)

		r.Get("/config", configHandler.Get)
		r.Patch("/config", configHandler.Patch)
	})

	return app, nil
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if app.db != nil {
			if err := app.db.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds":  uptime.Seconds(),
			"uptime_human":    uptime.Round(time.Second).String(),
			"request_count":   app.requestCount.Load(),
			"error_count":     app.errorCount.Load(),
			"tracked_players": len(app.Controller.ListPlayerIDs()),
			"goroutines":      runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure the snapshot store satisfies its interface at compile time.
var _ domain.SnapshotStore = (*store.SnapshotStore)(nil)
