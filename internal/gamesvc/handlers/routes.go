package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Get("/health", h.HealthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/results", h.ListResults)

		r.Route("/game", func(r chi.Router) {
			r.Post("/", h.CreateGame)
			r.Get("/", h.ListGames)

			r.Route("/player", func(r chi.Router) {
				r.Post("/", h.CreatePlayer)
				r.Get("/", h.ListPlayers)
				r.Get("/{playerId}", h.GetPlayer)
				r.Delete("/{playerId}", h.DeletePlayer)
				r.Get("/{playerId}/exists", h.PlayerExists)
			})

			r.Get("/{gameId}", h.GetGame)
			r.Delete("/{gameId}", h.DeleteGame)
			r.Get("/{gameId}/exists", h.GameExists)
			r.Post("/{gameId}/join", h.JoinGame)
			r.Post("/{gameId}/play", h.PlayCard)
		})
	})
}
