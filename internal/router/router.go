package router

import (
	"database/sql"
	"net/http"
	"os"

	_ "health-tracker/docs" // swagger generado
	mem "health-tracker/internal/adapters/storage/memory"
	pg "health-tracker/internal/adapters/storage/postgres"
	"health-tracker/internal/domain/goals"
	"health-tracker/internal/domain/injections"
	"health-tracker/internal/domain/inventory"
	"health-tracker/internal/domain/schedules"
	"health-tracker/internal/domain/stats"
	"health-tracker/internal/domain/weights"
	"health-tracker/internal/middleware"
	"health-tracker/internal/platform/logger"
	"health-tracker/internal/ports/auth"
	"health-tracker/internal/ports/plans"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: topes de plan. nil = sin topes.
	PlanLimits plans.Resolver

	// Opcional: logger de la app. nil = desde env.
	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		schedulesRepo  schedules.Repository
		injectionsRepo injections.Repository
		weightsRepo    weights.Repository
		inventoryRepo  inventory.Repository
		goalsRepo      goals.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to in-memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		schedulesRepo = pg.NewSchedulesRepo(db)
		injectionsRepo = pg.NewInjectionsRepo(db)
		weightsRepo = pg.NewWeightsRepo(db)
		inventoryRepo = pg.NewInventoryRepo(db)
		goalsRepo = pg.NewGoalsRepo(db)
		log.Info("storage: postgres", nil)
	} else {
		schedulesRepo = mem.NewSchedulesRepo()
		injectionsRepo = mem.NewInjectionsRepo()
		weightsRepo = mem.NewWeightsRepo()
		inventoryRepo = mem.NewInventoryRepo()
		goalsRepo = mem.NewGoalsRepo()
		log.Info("storage: in-memory", nil)
	}

	// Services por módulo
	schedulesSvc := schedules.NewService(schedulesRepo)
	injectionsSvc := injections.NewService(injectionsRepo)
	weightsSvc := weights.NewService(weightsRepo)
	inventorySvc := inventory.NewService(inventoryRepo)
	goalsSvc := goals.NewService(goalsRepo)
	statsSvc := stats.NewService(schedulesSvc, injectionsSvc, weightsSvc)

	if opts.PlanLimits != nil {
		schedulesSvc.UseLimits(opts.PlanLimits)
		inventorySvc.UseLimits(opts.PlanLimits)
	}

	// Rutas por módulo
	schedules.RegisterRoutes(r, schedulesSvc, injectionsSvc)
	injections.RegisterRoutes(r, injectionsSvc)
	weights.RegisterRoutes(r, weightsSvc)
	inventory.RegisterRoutes(r, inventorySvc)
	goals.RegisterRoutes(r, goalsSvc, weightsSvc)
	stats.RegisterRoutes(r, statsSvc)

	return r
}
