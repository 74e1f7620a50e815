// Command beastbrawl-cli runs a local automated match and prints the battle
// log, which is handy for exercising the rules engine without a client.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beastbrawl/beastbrawl-server-go/internal/ai"
	"github.com/beastbrawl/beastbrawl-server-go/internal/driver"
	"github.com/beastbrawl/beastbrawl-server-go/internal/game"
)

var (
	seed      = flag.Int64("seed", 1, "match seed (decks, flips and AI jitter)")
	habitat   = flag.String("habitat", "Forest", "battle habitat: Desert, Forest, Water or Arena")
	turnLimit = flag.Int("turns", 200, "abort the match after this many turns")
	verbose   = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
	}

	h := game.Habitat(*habitat)
	rnd := rand.New(rand.NewSource(*seed))

	redID, blueID := uuid.NewString(), uuid.NewString()
	red := game.NewPlayerWith(redID, "Fang", randomKind(rnd), randomSize(rnd), rnd)
	blue := game.NewPlayerWith(blueID, "Talon", randomKind(rnd), randomSize(rnd), rnd)

	d := driver.New(logger, game.NewGame(h, red, blue), nil)
	st := d.Apply(game.InitGame{State: d.State()})

	proposers := map[string]*ai.Proposer{
		redID:  ai.NewProposer(rand.New(rand.NewSource(*seed + 1))),
		blueID: ai.NewProposer(rand.New(rand.NewSource(*seed + 2))),
	}

	for !st.Over() && st.Turn <= *turnLimit {
		if act := pendingAnswer(st, proposers); act != nil {
			st = d.Apply(act)
			continue
		}
		p := proposers[st.CurrentPlayer]
		for _, act := range p.ProposeActions(st, st.CurrentPlayer) {
			st = d.Apply(act)
			if st.Over() || st.PendingReaction != nil || st.PendingChoice != nil {
				break
			}
		}
	}

	for _, line := range st.Log {
		fmt.Println(line)
	}
	if st.Winner != "" {
		fmt.Printf("\nWinner: %s after %d turns\n", st.Players[st.Winner].Name, st.Turn)
	} else {
		fmt.Printf("\nNo winner within %d turns\n", *turnLimit)
	}
}

func pendingAnswer(st *game.GameState, proposers map[string]*ai.Proposer) game.Action {
	if st.PendingReaction != nil {
		return proposers[st.PendingReaction.TargetID].ProposeReaction(st, st.PendingReaction.TargetID)
	}
	if st.PendingChoice != nil {
		return proposers[st.PendingChoice.PlayerID].ProposeReaction(st, st.PendingChoice.PlayerID)
	}
	return nil
}

func randomKind(rnd *rand.Rand) game.CreatureKind {
	return game.AllKinds[rnd.Intn(len(game.AllKinds))]
}

func randomSize(rnd *rand.Rand) game.SizeClass {
	return game.AllSizes[rnd.Intn(len(game.AllSizes))]
}
