package main

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
)

func cardString(c models.Card) string {
	if c.IsWinningCard() {
		return pterm.LightYellow(c.DisplayName())
	}
	return c.DisplayName()
}

func playerInfo(p models.PlayerSnapshot, turn bool) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	status := pterm.FgGray.Sprint("waiting")
	if turn {
		status = pterm.LightGreen("to play")
	}
	top := "-"
	if len(p.Hand) > 0 {
		top = cardString(p.Hand[0])
	}
	return pbox.WithTitle(p.Name).WithTitleTopLeft().Sprintf("%s\nCards: %d\nTop: %s\n", status, p.HandSize(), top)
}

func tableInfo(s models.GameSnapshot) string {
	cards := make([]string, 0, len(s.TableCards))
	for _, c := range s.TableCards {
		cards = append(cards, cardString(c))
	}
	table := strings.Join(cards, " - ")
	if table == "" {
		table = "empty"
	}
	owed := ""
	if s.CardsOwed > 0 {
		owed = pterm.Sprintf("\nOwed: %d", s.CardsOwed)
	}
	return pterm.BgGreen.Sprintf("\n Move %d | %s%s \n", s.Moves, table, owed)
}

// printState renders both players and the table.
func printState(s models.GameSnapshot) {
	var players []pterm.Panel
	for i, p := range s.Players {
		players = append(players, pterm.Panel{Data: playerInfo(p, i == s.CurrentPlayerIndex && !s.Finished)})
	}
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		players,
		{{Data: tableInfo(s)}},
	}).Render()
}

func resultPanel(m match) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	var info string
	switch {
	case m.Capped:
		info = pterm.Sprintfln("stopped after %d moves without a result", m.Final.Moves)
	case m.Final.Winner != nil:
		info = pterm.Sprintfln("%s beat %s in %d moves", pterm.LightCyan(m.Final.Winner.Name), m.Final.Loser.Name, m.Final.Moves)
	default:
		info = pterm.Sprintfln("finished after %d moves with no winner", m.Final.Moves)
	}
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightGreen("|RESULT|")).WithTitleTopCenter().Sprintf(info)}
}

func printTally(t *tally, names [2]string, games int) {
	rows := pterm.TableData{
		{"Player", "Wins"},
		{names[0], pterm.Sprint(t.Wins[names[0]])},
		{names[1], pterm.Sprint(t.Wins[names[1]])},
		{"No winner", pterm.Sprint(t.Undecided)},
		{"Move cap hit", pterm.Sprint(t.Capped)},
	}
	pterm.DefaultSection.Printfln("%d games", games)
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Println(err)
	}
	pterm.Info.Printfln("average %.1f moves, longest %d (seed %d), shortest %d (seed %d)",
		t.averageMoves(), t.LongestGame, t.LongestSeed, t.ShortestGame, t.ShortestSeed)
}
