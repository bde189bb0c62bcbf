package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/openpaws/openpaws/internal/ai"
	"github.com/openpaws/openpaws/internal/ai/registry"
	"github.com/openpaws/openpaws/internal/api/handlers"
	"github.com/openpaws/openpaws/internal/api/middleware"
	"github.com/openpaws/openpaws/internal/auth/oauth"
	"github.com/openpaws/openpaws/internal/config"
	"github.com/openpaws/openpaws/internal/content"
	"github.com/openpaws/openpaws/internal/db"
	"github.com/openpaws/openpaws/internal/metrics"
)

// app holds the long-lived components shared by every request.
type app struct {
	cfg       *config.Config
	router    *ai.Router
	generator *content.Generator
	ledger    *db.Ledger
	connector *oauth.Connector
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
}

func newApp(cfg *config.Config, reg *prometheus.Registry) (*app, error) {
	m := metrics.New(reg)

	chain, err := registry.BuildChain(cfg.AI, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider chain: %w", err)
	}
	router := ai.NewRouter(chain,
		ai.WithAttemptTimeout(cfg.AI.AttemptTimeout),
		ai.WithMetrics(m),
	)

	a := &app{
		cfg:      cfg,
		router:   router,
		metrics:  m,
		gatherer: reg,
	}

	var recorder content.Recorder
	if cfg.DB.Path != "" {
		database, err := db.InitDB(cfg.DB.Path)
		if err != nil {
			return nil, fmt.Errorf("open usage ledger: %w", err)
		}
		a.ledger = db.NewLedger(database)
		recorder = a.ledger
	} else {
		log.Info().Msg("Usage ledger disabled")
	}
	a.generator = content.NewGenerator(router, recorder)

	a.connector = oauth.NewConnector(cfg.AppURL,
		oauth.WithSecureCookies(cfg.Production()),
		oauth.WithMetrics(m),
		oauth.WithHTTPClient(&http.Client{Timeout: cfg.OAuth.Timeout}),
	)

	log.Info().
		Strs("chain", lo.Map(chain, func(p ai.Provider, _ int) string { return p.Name() })).
		Strs("configured", registry.ConfiguredNames(chain)).
		Msg("AI provider chain ready")
	return a, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handlers.Health(registry.ConfiguredNames(a.router.Providers())))
	r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))

	r.Get("/connect/{platform}", a.connector.HandleConnect)
	r.Get("/connect/{platform}/callback", a.connector.HandleCallback)
	r.Get("/connect/{platform}/config", a.connector.HandleConfig)

	var usage handlers.UsageReporter
	if a.ledger != nil {
		usage = a.ledger
	}
	aiHandler := handlers.NewAIHandler(a.generator, usage)

	r.Route("/ai", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   a.cfg.CORS.Origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept", "X-API-Key", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
		}).Handler)
		r.Use(middleware.APIKeyAuth(a.cfg.Auth.APIKey))

		r.Post("/generate", aiHandler.Generate)
		r.Post("/brand", aiHandler.Brand)
		r.Post("/analyze", aiHandler.Analyze)
		r.Get("/usage", aiHandler.Usage)
	})
	return r
}
