package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/service"
	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	games   *service.GameService
	players *service.PlayerService
}

func NewHandler(games *service.GameService, players *service.PlayerService) *Handler {
	return &Handler{games: games, players: players}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

type playerRequest struct {
	PlayerId string `json:"player_id"`
}

type createPlayerRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, message string, data interface{}) {
	h.CreateResponse(w, Response{Message: message, Code: http.StatusOK, Data: data})
}

// fail maps service errors to status codes.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, service.ErrPlayerNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrPlayerInGame):
		code = http.StatusConflict
	case errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrInvalidMove),
		errors.Is(err, service.ErrInvalidName):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		log.Errorf("request failed: %s", err)
	}
	h.CreateResponse(w, Response{Message: http.StatusText(code), Code: code, Error: err.Error()})
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.CreateResponse(w, Response{Message: http.StatusText(http.StatusBadRequest), Code: http.StatusBadRequest, Error: msg})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "game service is running", nil)
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.CreateGame(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "game created", game)
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "games", h.games.ListGames(r.Context()))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.GetGame(r.Context(), chi.URLParam(r, "gameId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "game found", game)
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.games.DeleteGame(r.Context(), chi.URLParam(r, "gameId")); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "game deleted", nil)
}

func (h *Handler) GameExists(w http.ResponseWriter, r *http.Request) {
	exists := h.games.GameExists(chi.URLParam(r, "gameId"))
	h.ok(w, "game exists check", map[string]bool{"exists": exists})
}

func (h *Handler) JoinGame(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerId == "" {
		h.badRequest(w, "player_id is required")
		return
	}
	game, err := h.games.JoinGame(r.Context(), chi.URLParam(r, "gameId"), req.PlayerId)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "joined game", game)
}

func (h *Handler) PlayCard(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerId == "" {
		h.badRequest(w, "player_id is required")
		return
	}
	game, err := h.games.PlayCard(r.Context(), chi.URLParam(r, "gameId"), req.PlayerId)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "card played", game)
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid player data")
		return
	}
	player, err := h.players.CreatePlayer(r.Context(), req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "player created", player)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "players", h.players.ListPlayers(r.Context()))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.GetPlayer(r.Context(), chi.URLParam(r, "playerId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "player found", player)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.players.DeletePlayer(r.Context(), chi.URLParam(r, "playerId")); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "player deleted", nil)
}

func (h *Handler) PlayerExists(w http.ResponseWriter, r *http.Request) {
	exists := h.players.PlayerExists(chi.URLParam(r, "playerId"))
	h.ok(w, "player exists check", map[string]bool{"exists": exists})
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			h.badRequest(w, "limit must be a non-negative number")
			return
		}
		limit = v
	}
	results, err := h.games.ListResults(r.Context(), limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "results", results)
}
