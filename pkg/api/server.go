// Package api mcmodbuild registry REST API
//
// @title           mcmodbuild registry API
// @version         1.0.0
// @description     Read-only view of the builds installed by mcmodbuild, plus a decoder for .mcmodbuild files.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	<title>mcmodbuild API Documentation</title>
	<link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	<div id="swagger-ui"></div>
	<script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	<script>
	  window.onload = function() {
	    SwaggerUIBundle({
	      url: '/swagger/doc.json',
	      dom_id: '#swagger-ui',
	      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.presets.standalone]
	    });
	  };
	</script>
</body>
</html>`

// Routes builds the HTTP handler. gatherer backs /metrics.
func (s *Server) Routes(gatherer prometheus.Gatherer) http.Handler {
	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.sugar.Desugar()))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Group(func(r chi.Router) {
			if s.config.APIKey != "" {
				r.Use(apiKeyMiddleware(s.config.APIKey, s.metrics))
			}
			r.Get("/builds", s.metrics.InstrumentHandler("GET", "/api/v1/builds", s.handleListBuilds))
			r.Get("/builds/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/builds/{id}", s.handleGetBuild))
			r.Get("/builds/{id}/raw", s.metrics.InstrumentHandler("GET", "/api/v1/builds/{id}/raw", s.handleRawBuild))
			r.Post("/inspect", s.metrics.InstrumentHandler("POST", "/api/v1/inspect", s.handleInspect))
		})
	})

	r.Get("/swagger/*", s.handleSwagger)

	return r
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/doc.json":
		doc, err := swag.ReadDoc()
		if err != nil {
			s.sugar.Errorw("failed to render swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		http.NotFound(w, r)
	}
}

// Addr is the listen address for config.
func Addr(config ServerConfig) string {
	return net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
}

// StartServer serves the registry until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, index BuildIndex, config ServerConfig, logger *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := NewServer(index, config, NewMetrics(reg), logger)
	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)

	srv := &http.Server{
		Addr:              Addr(config),
		Handler:           server.Routes(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	server.sugar.Infow("registry listening", "addr", srv.Addr, "metrics", "/metrics")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		server.sugar.Infow("shutting down registry")
		return srv.Shutdown(shutdownCtx)
	}
}
