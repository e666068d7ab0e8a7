package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
)

func main() {
	gamesFlag := flag.Int("games", 1, "number of games to simulate")
	seedFlag := flag.Int64("seed", 0, "seed of the first game, 0 picks one from the clock")
	maxMovesFlag := flag.Int("max-moves", 10000, "stop a game after this many plays, 0 for no cap")
	interactiveFlag := flag.Bool("interactive", false, "ask for player names and show every move")
	keepTurnFlag := flag.Bool("keep-turn", false, "obligated player keeps the turn until the debt is paid")
	flag.Parse()

	if *gamesFlag < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-games n] [-seed s] [-max-moves m] [-interactive] [-keep-turn]\n", os.Args[0])
		os.Exit(1)
	}

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Cava", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("camisa", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	names := [2]string{"Player 1", "Player 2"}
	if *interactiveFlag {
		for i := range names {
			name, _ := pterm.DefaultInteractiveTextInput.
				WithDefaultText(fmt.Sprintf("Name of player %d", i+1)).
				WithDefaultValue(names[i]).Show()
			if name = strings.TrimSpace(name); name != "" {
				names[i] = name
			}
		}
		pterm.Println()
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rules := models.Rules{ObligatedKeepsTurn: *keepTurnFlag}

	var onMove func(models.GameSnapshot)
	if *interactiveFlag && *gamesFlag == 1 {
		onMove = printState
	}

	t := newTally()
	for i := 0; i < *gamesFlag; i++ {
		m, err := play(seed+int64(i), names, rules, *maxMovesFlag, onMove)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		t.add(m)
		if *gamesFlag == 1 {
			printState(m.Final)
			pterm.DefaultPanel.WithPanels([][]pterm.Panel{{resultPanel(m)}}).Render()
			pterm.Info.Printfln("seed %d, %d captures", m.Seed, m.Captures)
		}
	}

	if *gamesFlag > 1 {
		printTally(t, names, *gamesFlag)
	}
}
