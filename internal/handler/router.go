package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/wish-santa/backend/internal/handler/wish"
	middlewarePkg "github.com/zhouzirui/wish-santa/backend/internal/middleware"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(assigner wish.Assigner, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	wishHandler := wish.New(assigner, logger)
	wishHandler.RegisterRoutes(r)

	return r
}
