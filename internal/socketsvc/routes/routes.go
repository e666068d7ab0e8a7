package routes

import (
	"github.com/avvvet/cavacamisa-services/internal/socketsvc/handlers"
	"github.com/avvvet/cavacamisa-services/internal/socketsvc/ws"
	"github.com/go-chi/chi"
)

func SetRoutes(r chi.Router, ws *ws.Ws, port string) {
	h := handlers.NewHandler(ws, port)
	r.Get("/health", h.HealthHandler)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/ws", h.HandleWebSocket)
	})
}
