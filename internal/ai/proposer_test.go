package ai

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beastbrawl/beastbrawl-server-go/internal/game"
)

var instSeq int

func inst(def game.CardID) game.CardInstance {
	instSeq++
	return game.CardInstance{
		InstanceID: fmt.Sprintf("%s#%d", def, instSeq),
		DefID:      def,
		Charges:    game.Cards.Def(def).MaxCharges,
	}
}

func duelState() *game.GameState {
	mk := func(id, name string) *game.PlayerState {
		return &game.PlayerState{
			ID: id, Name: name,
			HP: 15, MaxHP: 15,
			Stamina: 3, MaxStamina: 3,
			Kind: game.KindMammal, Size: game.SizeMedium,
		}
	}
	return &game.GameState{
		GameID:        "ai-duel",
		Habitat:       game.HabitatForest,
		Turn:          1,
		CurrentPlayer: "bot",
		Players:       map[string]*game.PlayerState{"bot": mk("bot", "Bot"), "foe": mk("foe", "Foe")},
		Phase:         game.PhaseAction,
	}
}

func newProposer(seed int64) *Proposer {
	return NewProposer(rand.New(rand.NewSource(seed)))
}

func TestPlanEndsWithEndTurn(t *testing.T) {
	st := duelState()
	acts := newProposer(1).ProposeActions(st, "bot")

	require.NotEmpty(t, acts)
	end, ok := acts[len(acts)-1].(game.EndTurn)
	require.True(t, ok, "plan must close the turn")
	assert.Equal(t, "bot", end.Player)
	assert.Len(t, end.RNG, 10)
}

func TestPlanPrefersLethalAttack(t *testing.T) {
	st := duelState()
	bite := inst(game.CardBite)
	hibernate := inst(game.CardHibernate)
	bot := st.Players["bot"]
	bot.Formation = append(bot.Formation, bite, hibernate)
	bot.HP = 4 // healing would normally dominate
	st.Players["foe"].HP = 3

	acts := newProposer(1).ProposeActions(st, "bot")
	use := findUse(t, acts)
	assert.Equal(t, bite.InstanceID, use.CardInstanceID)
	assert.Equal(t, game.ActionAttack, use.ActionType)
	assert.Equal(t, "foe", use.TargetPlayerID)
}

func TestPlanHealsWhenLow(t *testing.T) {
	st := duelState()
	bite := inst(game.CardBite)
	hibernate := inst(game.CardHibernate)
	bot := st.Players["bot"]
	bot.Formation = append(bot.Formation, bite, hibernate)
	bot.HP = 4

	acts := newProposer(1).ProposeActions(st, "bot")
	use := findUse(t, acts)
	assert.Equal(t, hibernate.InstanceID, use.CardInstanceID)
	assert.Equal(t, game.ActionAbility, use.ActionType)
}

func TestPlanUpgradesFirst(t *testing.T) {
	st := duelState()
	bot := st.Players["bot"]
	base := inst(game.CardBite)
	bot.Formation = append(bot.Formation, base)
	jaw := inst(game.CardStrongJaw)
	bot.Hand = append(bot.Hand, jaw)

	acts := newProposer(1).ProposeActions(st, "bot")
	require.NotEmpty(t, acts)
	play, ok := acts[0].(game.PlayCard)
	require.True(t, ok)
	assert.Equal(t, jaw.InstanceID, play.CardInstanceID)
	assert.Equal(t, base.InstanceID, play.TargetInstanceID)
}

func TestPlanSkipsUseWhenAlreadyActed(t *testing.T) {
	st := duelState()
	bot := st.Players["bot"]
	bot.Formation = append(bot.Formation, inst(game.CardBite))
	bot.HasActedThisTurn = true

	for _, a := range newProposer(1).ProposeActions(st, "bot") {
		_, isUse := a.(game.UseAction)
		assert.False(t, isUse)
	}
}

func TestPlanSkipsUseWhenStuck(t *testing.T) {
	st := duelState()
	bot := st.Players["bot"]
	bot.Formation = append(bot.Formation, inst(game.CardBite))
	bot.Statuses = []game.Status{{Type: game.StatusStuck, Duration: 2}}

	for _, a := range newProposer(1).ProposeActions(st, "bot") {
		_, isUse := a.(game.UseAction)
		assert.False(t, isUse)
	}
}

func TestCopycatStealsPriciestCard(t *testing.T) {
	st := duelState()
	bot := st.Players["bot"]
	bot.Formation = append(bot.Formation, inst(game.CardCopycat))
	foe := st.Players["foe"]
	cheap := inst(game.CardShortBurst)
	pricey := inst(game.CardHibernate)
	foe.Hand = append(foe.Hand, cheap, pricey)

	acts := newProposer(1).ProposeActions(st, "bot")
	use := findUse(t, acts)
	assert.Equal(t, game.CardCopycat, prefix(use.CardInstanceID))
	assert.Equal(t, pricey.InstanceID, use.TargetHandCardID)
}

func TestNoPlanForFinishedMatch(t *testing.T) {
	st := duelState()
	st.Phase = game.PhaseEnd
	st.Winner = "foe"

	assert.Nil(t, newProposer(1).ProposeActions(st, "bot"))
}

func TestReactionEvadesWithStaminaToSpare(t *testing.T) {
	st := duelState()
	st.Players["bot"].Stamina = 4
	st.PendingReaction = &game.PendingReaction{TargetID: "bot", AttackerID: "foe"}

	act := newProposer(1).ProposeReaction(st, "bot")
	agile, ok := act.(game.ResolveAgile)
	require.True(t, ok)
	assert.True(t, agile.UseEvade)
}

func TestReactionTanksWhenHealthy(t *testing.T) {
	st := duelState()
	st.Players["bot"].Stamina = 3
	st.PendingReaction = &game.PendingReaction{TargetID: "bot", AttackerID: "foe"}

	act := newProposer(1).ProposeReaction(st, "bot")
	agile, ok := act.(game.ResolveAgile)
	require.True(t, ok)
	assert.False(t, agile.UseEvade)
}

func TestReactionEvadesNearDeath(t *testing.T) {
	st := duelState()
	st.Players["bot"].Stamina = 2
	st.Players["bot"].HP = 4
	st.PendingReaction = &game.PendingReaction{TargetID: "bot", AttackerID: "foe"}

	agile := newProposer(1).ProposeReaction(st, "bot").(game.ResolveAgile)
	assert.True(t, agile.UseEvade)
}

func TestChoiceDefaultsToFirstOption(t *testing.T) {
	st := duelState()
	st.PendingChoice = &game.PendingChoice{
		PlayerID: "bot",
		Options:  []string{"Attack", "Dig", "Climb"},
	}

	choice := newProposer(1).ProposeReaction(st, "bot").(game.ResolveChoice)
	assert.Equal(t, "Attack", choice.Choice)
}

func TestChoiceTurnsDefensiveWhenLow(t *testing.T) {
	st := duelState()
	st.Players["bot"].HP = 4
	st.PendingChoice = &game.PendingChoice{
		PlayerID: "bot",
		Options:  []string{"Attack", "Dig", "Climb"},
	}

	choice := newProposer(1).ProposeReaction(st, "bot").(game.ResolveChoice)
	assert.Equal(t, "Dig", choice.Choice)
}

func TestReactionIgnoresOtherPlayersInterrupts(t *testing.T) {
	st := duelState()
	st.PendingReaction = &game.PendingReaction{TargetID: "foe", AttackerID: "bot"}

	assert.Nil(t, newProposer(1).ProposeReaction(st, "bot"))
}

func findUse(t *testing.T, acts []game.Action) game.UseAction {
	t.Helper()
	for _, a := range acts {
		if use, ok := a.(game.UseAction); ok {
			return use
		}
	}
	t.Fatal("plan contains no formation action")
	return game.UseAction{}
}

func prefix(instanceID string) game.CardID {
	for i := 0; i < len(instanceID); i++ {
		if instanceID[i] == '#' {
			return game.CardID(instanceID[:i])
		}
	}
	return game.CardID(instanceID)
}
