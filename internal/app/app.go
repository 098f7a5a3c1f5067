package app

import (
	"eventreminder/internal/app/deps"
	"eventreminder/internal/app/services"
	"eventreminder/internal/http/handlers/health"
	slackcommand "eventreminder/internal/http/handlers/slack_command"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// InitHttpServer wires the routes. The returned function blocks until every
// accepted slash command has been answered.
func InitHttpServer(deps *deps.Deps, s *services.Services) (*http.Server, func()) {
	slackCommandHandler := slackcommand.New(
		deps.NamedLogger("slack_command"),
		deps.RequestVerifier,
		deps.CommandResponder,
		s.ProcessSlackCommand,
		deps.Config.CommandTimeout,
	)

	slackRouter := chi.NewRouter()
	slackRouter.Method(http.MethodPost, "/commands", slackCommandHandler)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Method(http.MethodGet, "/healthz", health.New())
	router.Mount("/slack", slackRouter)

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler:           router,
		Addr:              address,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, slackCommandHandler.Wait
}
