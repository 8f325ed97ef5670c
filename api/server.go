package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/config"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg *config.Config, svc Services) Server {
	startupTime := time.Now()

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      NewRouter(cfg, svc),
		ReadTimeout:  cfg.ReadTimeout(),  // Timeout for reading the entire request
		WriteTimeout: cfg.WriteTimeout(), // Timeout for writing the response
		IdleTimeout:  cfg.IdleTimeout(),  // Timeout for idle connections
	}

	return Server{server, startupTime}
}

// NewRouter builds the chi router with middleware and all routes mounted
func NewRouter(cfg *config.Config, svc Services) *chi.Mux {
	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware(cfg.IsDevelopment()))

	if len(cfg.AcceptedOrigins) > 0 {
		chiRouter.Use(CORSCheckMiddleware(cfg.AcceptedOrigins))
		chiRouter.Use(corsMiddleware(cfg.AcceptedOrigins))
	}

	handlers := initializeHandlers(svc, cfg.ErrorWebhookURL)
	auth := newAuthMiddleware(cfg.JWTSecret, cfg.ErrorWebhookURL)
	setupRoutes(chiRouter, handlers, auth)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
