package models

import "time"

// Result is the archived outcome of a finished game.
type Result struct {
	GameID     string    `json:"game_id" bson:"game_id"`
	WinnerID   string    `json:"winner_id" bson:"winner_id"`
	WinnerName string    `json:"winner_name" bson:"winner_name"`
	LoserID    string    `json:"loser_id" bson:"loser_id"`
	LoserName  string    `json:"loser_name" bson:"loser_name"`
	Moves      int       `json:"moves" bson:"moves"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
}

// NewResult builds the result of a finished game snapshot. ok is false when
// the game is still running. An indeterminate outcome leaves the ids empty.
func NewResult(s GameSnapshot, finishedAt time.Time) (Result, bool) {
	if !s.Finished {
		return Result{}, false
	}
	r := Result{GameID: s.ID, Moves: s.Moves, FinishedAt: finishedAt}
	if s.Winner != nil {
		r.WinnerID, r.WinnerName = s.Winner.ID, s.Winner.Name
	}
	if s.Loser != nil {
		r.LoserID, r.LoserName = s.Loser.ID, s.Loser.Name
	}
	return r, true
}
