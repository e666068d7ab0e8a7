package comm

import (
	"encoding/json"
	"time"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
)

// NATS subjects shared by the socket gateway and the game service.
const (
	TopicSocketService = "socket.service" // socket -> game
	TopicGameService   = "game.service"   // game -> socket
	TopicGameInstance  = "game.instance"  // answered by the running game service
)

// Message types carried by WSMessage.Type.
const (
	TypeCreatePlayer = "create-player"
	TypeJoinGame     = "join-game"
	TypeWatchGame    = "watch-game"
	TypePlayCard     = "play-card"
	TypeGetGame      = "get-game"
	TypeListGames    = "list-games"
	TypeGameUpdated  = "game-updated"
	TypeError        = "error"
)

// ResponseType is the reply type of a client command, e.g. "play-card-response".
func ResponseType(t string) string {
	return t + "-response"
}

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "join-game", "play-card"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
	GameId   string          `json:"gameid,omitempty"` // set on game broadcasts
}

// ServiceInstance is how the running game service answers on TopicGameInstance.
type ServiceInstance struct {
	ID      string    `json:"id"` // service id
	Started time.Time `json:"started"`
}

type CreatePlayerRequest struct {
	Name string `json:"name"`
}

// GameCommand targets a game on behalf of a player.
type GameCommand struct {
	GameId   string `json:"game_id"`
	PlayerId string `json:"player_id"`
}

type ErrorData struct {
	Error string `json:"error"`
}

type CardData struct {
	Rank        int    `json:"rank"`
	Suit        string `json:"suit"`
	DisplayName string `json:"display_name"`
	WinningCard bool   `json:"winning_card"`
}

type PlayerData struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Hand     []CardData `json:"hand"`
	HandSize int        `json:"hand_size"`
	HasCards bool       `json:"has_cards"`
}

type GameData struct {
	ID                 string       `json:"id"`
	State              string       `json:"state"`
	Players            []PlayerData `json:"players"`
	TableCards         []CardData   `json:"table_cards"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	CardsOwed          int          `json:"cards_owed"`
	Moves              int          `json:"moves"`
	LastWinningPlayer  *PlayerData  `json:"last_winning_player"`
	Winner             *PlayerData  `json:"winner"`
	Loser              *PlayerData  `json:"loser"`
	GameFinished       bool         `json:"game_finished"`
}

func NewCardData(c models.Card) CardData {
	return CardData{
		Rank:        c.Rank(),
		Suit:        c.Suit().String(),
		DisplayName: c.DisplayName(),
		WinningCard: c.IsWinningCard(),
	}
}

func newCards(cards []models.Card) []CardData {
	out := make([]CardData, 0, len(cards))
	for _, c := range cards {
		out = append(out, NewCardData(c))
	}
	return out
}

func NewPlayerData(p models.PlayerSnapshot) PlayerData {
	return PlayerData{
		ID:       p.ID,
		Name:     p.Name,
		Hand:     newCards(p.Hand),
		HandSize: p.HandSize(),
		HasCards: p.HasCards(),
	}
}

func newPlayerRef(p *models.PlayerSnapshot) *PlayerData {
	if p == nil {
		return nil
	}
	d := NewPlayerData(*p)
	return &d
}

// NewGameData projects a game snapshot into its wire shape.
func NewGameData(s models.GameSnapshot) GameData {
	players := make([]PlayerData, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, NewPlayerData(p))
	}
	return GameData{
		ID:                 s.ID,
		State:              s.State.String(),
		Players:            players,
		TableCards:         newCards(s.TableCards),
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		CardsOwed:          s.CardsOwed,
		Moves:              s.Moves,
		LastWinningPlayer:  newPlayerRef(s.LastWinningPlayer),
		Winner:             newPlayerRef(s.Winner),
		Loser:              newPlayerRef(s.Loser),
		GameFinished:       s.Finished,
	}
}
