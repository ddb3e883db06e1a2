package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/persona-widget/internal/handler/chat"
	"github.com/zhouzirui/persona-widget/internal/handler/persona"
	middlewarePkg "github.com/zhouzirui/persona-widget/internal/middleware"
	personaModel "github.com/zhouzirui/persona-widget/internal/model/persona"
	chatService "github.com/zhouzirui/persona-widget/internal/service/chat"
)

// NewRouter wires the /api routes of the stand-in upstream.
func NewRouter(personas personaModel.Store, chatSvc *chatService.Service, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(personas)
	chatHandler := chat.New(chatSvc, personas, logger)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	return r
}
