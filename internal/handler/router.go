package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fuadeditingzone/fuadbot-backend/internal/handler/bot"
	"github.com/fuadeditingzone/fuadbot-backend/internal/handler/events"
	middlewarePkg "github.com/fuadeditingzone/fuadbot-backend/internal/middleware"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/conversation"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/settings"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(orch *conversation.Orchestrator, settingsSvc *settings.Service, hub *events.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	botHandler := bot.New(orch, settingsSvc)
	eventsHandler := events.New(hub)

	r.Route("/api", func(api chi.Router) {
		botHandler.RegisterRoutes(api)
		eventsHandler.RegisterRoutes(api)
	})

	return r
}
