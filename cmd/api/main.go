package main

import (
	"net/http"
	"os"
	"time"

	"health-tracker/internal/adapters/auth/idp"
	"health-tracker/internal/adapters/plans/planlimits"
	"health-tracker/internal/platform/logger"
	"health-tracker/internal/ports/auth"
	"health-tracker/internal/ports/plans"
	"health-tracker/internal/router"
)

// @title health-tracker API
// @version 1.0
// @description Backend de tracking personal de salud: pesos, inyecciones, schedules de titulación, inventario, objetivos y estadísticas.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var verifier auth.AuthVerifier
	if base := os.Getenv("IDP_BASE_URL"); base != "" {
		idpClient, err := idp.NewClient(idp.Config{
			BaseURL: base,
			APIKey:  os.Getenv("IDP_API_KEY"),
		})
		if err != nil {
			log.Error("idp client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = idp.NewVerifier(idpClient)
	} else {
		log.Warn("IDP_BASE_URL not set, running in dev mode (X-Debug-User-ID)", nil)
	}

	var limits plans.Resolver
	if base := os.Getenv("PLANS_BASE_URL"); base != "" || os.Getenv("UNLIMITED_PLAN") != "" {
		plansClient, err := planlimits.NewClient(planlimits.Config{
			BaseURL: base,
			APIKey:  os.Getenv("PLANS_API_KEY"),
		})
		if err != nil {
			log.Error("plans client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		limits = planlimits.NewResolver(plansClient)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		PlanLimits:   limits,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
