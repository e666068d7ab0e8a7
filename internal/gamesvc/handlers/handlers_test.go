package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/service"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/store"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter() *chi.Mux {
	playerStore := store.NewPlayerStore()
	games := service.NewGameService(store.NewGameStore(), playerStore, store.NewMemoryResultStore(), models.Rules{})
	h := NewHandler(games, service.NewPlayerService(playerStore))
	r := chi.NewRouter()
	h.SetRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	code, env := do(t, newRouter(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, http.StatusOK, env.Code)
}

func TestGameFlowOverHTTP(t *testing.T) {
	r := newRouter()

	code, env := do(t, r, http.MethodPost, "/api/game", nil)
	require.Equal(t, http.StatusOK, code)
	game := decode[comm.GameData](t, env)
	assert.Equal(t, "Waiting for players", game.State)

	_, env = do(t, r, http.MethodPost, "/api/game/player", map[string]string{"name": "Anna"})
	anna := decode[comm.PlayerData](t, env)
	_, env = do(t, r, http.MethodPost, "/api/game/player", map[string]string{"name": "Bruno"})
	bruno := decode[comm.PlayerData](t, env)

	code, _ = do(t, r, http.MethodPost, "/api/game/"+game.ID+"/join", map[string]string{"player_id": anna.ID})
	require.Equal(t, http.StatusOK, code)
	code, env = do(t, r, http.MethodPost, "/api/game/"+game.ID+"/join", map[string]string{"player_id": bruno.ID})
	require.Equal(t, http.StatusOK, code)
	game = decode[comm.GameData](t, env)
	assert.Equal(t, "Game in progress", game.State)
	assert.Equal(t, 20, game.Players[0].HandSize)

	code, env = do(t, r, http.MethodPost, "/api/game/"+game.ID+"/play", map[string]string{"player_id": bruno.ID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Error)

	code, env = do(t, r, http.MethodPost, "/api/game/"+game.ID+"/play", map[string]string{"player_id": anna.ID})
	require.Equal(t, http.StatusOK, code)
	game = decode[comm.GameData](t, env)
	assert.Len(t, game.TableCards, 1)
	assert.Equal(t, 1, game.CurrentPlayerIndex)

	code, env = do(t, r, http.MethodGet, "/api/game/"+game.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, game, decode[comm.GameData](t, env))

	_, env = do(t, r, http.MethodGet, "/api/game", nil)
	assert.Len(t, decode[[]comm.GameData](t, env), 1)

	code, env = do(t, r, http.MethodGet, "/api/game/player/"+anna.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 19, decode[comm.PlayerData](t, env).HandSize)
}

func TestJoinErrors(t *testing.T) {
	r := newRouter()
	_, env := do(t, r, http.MethodPost, "/api/game", nil)
	game := decode[comm.GameData](t, env)

	code, _ := do(t, r, http.MethodPost, "/api/game/"+game.ID+"/join", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, http.MethodPost, "/api/game/"+game.ID+"/join", map[string]string{"player_id": "nobody"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, http.MethodPost, "/api/game/nope/join", map[string]string{"player_id": "nobody"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, http.MethodPost, "/api/game/nope/play", map[string]string{"player_id": "nobody"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreatePlayerValidation(t *testing.T) {
	r := newRouter()

	code, _ := do(t, r, http.MethodPost, "/api/game/player", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteAndExists(t *testing.T) {
	r := newRouter()
	_, env := do(t, r, http.MethodPost, "/api/game", nil)
	game := decode[comm.GameData](t, env)
	_, env = do(t, r, http.MethodPost, "/api/game/player", map[string]string{"name": "Anna"})
	anna := decode[comm.PlayerData](t, env)

	_, env = do(t, r, http.MethodGet, "/api/game/"+game.ID+"/exists", nil)
	assert.Equal(t, map[string]bool{"exists": true}, decode[map[string]bool](t, env))
	_, env = do(t, r, http.MethodGet, "/api/game/player/"+anna.ID+"/exists", nil)
	assert.Equal(t, map[string]bool{"exists": true}, decode[map[string]bool](t, env))

	code, _ := do(t, r, http.MethodDelete, "/api/game/"+game.ID, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, r, http.MethodDelete, "/api/game/"+game.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, r, http.MethodGet, "/api/game/"+game.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, http.MethodDelete, "/api/game/player/"+anna.ID, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, r, http.MethodGet, "/api/game/player/"+anna.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)

	_, env = do(t, r, http.MethodGet, "/api/game/player/"+anna.ID+"/exists", nil)
	assert.Equal(t, map[string]bool{"exists": false}, decode[map[string]bool](t, env))
}

func TestListResults(t *testing.T) {
	r := newRouter()

	code, env := do(t, r, http.MethodGet, "/api/results?limit=5", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]models.Result](t, env))

	code, _ = do(t, r, http.MethodGet, "/api/results?limit=0", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/api/results?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "limit must be a non-negative number", env.Error)

	code, _ = do(t, r, http.MethodGet, "/api/results?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestJoinWhileSeatedElsewhere(t *testing.T) {
	r := newRouter()
	_, env := do(t, r, http.MethodPost, "/api/game", nil)
	first := decode[comm.GameData](t, env)
	_, env = do(t, r, http.MethodPost, "/api/game", nil)
	second := decode[comm.GameData](t, env)
	_, env = do(t, r, http.MethodPost, "/api/game/player", map[string]string{"name": "Anna"})
	anna := decode[comm.PlayerData](t, env)

	code, _ := do(t, r, http.MethodPost, "/api/game/"+first.ID+"/join", map[string]string{"player_id": anna.ID})
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPost, "/api/game/"+second.ID+"/join", map[string]string{"player_id": anna.ID})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Error, "already joined a game")
}

func TestListPlayers(t *testing.T) {
	r := newRouter()

	code, env := do(t, r, http.MethodGet, "/api/game/player", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]comm.PlayerData](t, env))

	do(t, r, http.MethodPost, "/api/game/player", map[string]string{"name": "Bruno"})
	do(t, r, http.MethodPost, "/api/game/player", map[string]string{"name": "Anna"})

	_, env = do(t, r, http.MethodGet, "/api/game/player", nil)
	players := decode[[]comm.PlayerData](t, env)
	require.Len(t, players, 2)
	assert.Equal(t, "Anna", players[0].Name)
	assert.Equal(t, "Bruno", players[1].Name)
}
