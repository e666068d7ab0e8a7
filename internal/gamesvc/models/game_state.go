package models

type GameState int

const (
	WaitingForPlayers GameState = iota
	Dealing
	Playing
	Finished
)

var stateNames = map[GameState]string{
	WaitingForPlayers: "Waiting for players",
	Dealing:           "Dealing cards",
	Playing:           "Game in progress",
	Finished:          "Game finished",
}

// String returns the display name of the state.
func (s GameState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}
