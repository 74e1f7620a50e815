// Package ai proposes actions for an automated player. The proposer only
// reads the public game state and emits the same action values a human
// would submit; it never touches the state itself.
package ai

import (
	"math/rand"
	"sort"

	"github.com/beastbrawl/beastbrawl-server-go/internal/game"
)

// Proposer scores the available moves for one player. The embedded rand
// source supplies both the flip arrays attached to chance actions and a
// small score jitter that keeps play from being rote; seed it to make a
// whole match reproducible.
type Proposer struct {
	rnd *rand.Rand
}

func NewProposer(rnd *rand.Rand) *Proposer {
	return &Proposer{rnd: rnd}
}

// ProposeActions plans a full turn: at most one card play, at most one
// formation action, then END_TURN. The plan is computed against a
// simulated view of stamina and play counters so the sequence stays legal
// when applied in order.
func (p *Proposer) ProposeActions(st *game.GameState, selfID string) []game.Action {
	self := st.Player(selfID)
	if self == nil || st.Over() {
		return nil
	}
	oppID := st.OpponentOf(selfID)
	opp := st.Player(oppID)

	var actions []game.Action
	stamina := self.Stamina
	played := self.CardsPlayedThisTurn
	acted := self.HasActedThisTurn

	var justPlayed *game.CardInstance
	if played == 0 {
		if act, card, cost := p.planCardPlay(self, stamina); act != nil {
			actions = append(actions, act)
			stamina -= cost
			justPlayed = card
		}
	}

	if !acted && !self.HasStatus(game.StatusStuck) {
		if act := p.planUse(self, opp, selfID, oppID, stamina, justPlayed); act != nil {
			actions = append(actions, act)
		}
	}

	actions = append(actions, game.EndTurn{Player: selfID, RNG: p.flips()})
	return actions
}

// planCardPlay picks a hand card to put into formation: upgrades with an
// eligible base first, then physicals while the formation is thin, then
// any compatible ability.
func (p *Proposer) planCardPlay(self *game.PlayerState, stamina int) (game.Action, *game.CardInstance, int) {
	for _, c := range self.Hand {
		def := game.Cards.Def(c.DefID)
		if !def.IsUpgrade() || stamina < def.StaminaCost {
			continue
		}
		for _, base := range self.Formation {
			if def.Upgrades(base.DefID) {
				card := c
				return game.PlayCard{
					Player:           self.ID,
					CardInstanceID:   c.InstanceID,
					TargetInstanceID: base.InstanceID,
				}, &card, def.StaminaCost
			}
		}
	}

	var physical, ability *game.CardInstance
	for i, c := range self.Hand {
		def := game.Cards.Def(c.DefID)
		if def.IsUpgrade() || !def.CompatibleWith(self.Kind) || self.HasInFormation(def.ID) {
			continue
		}
		switch def.Category {
		case game.CategoryPhysical:
			if physical == nil && self.CountCategory(game.CategoryPhysical) < 5 {
				physical = &self.Hand[i]
			}
		case game.CategoryAbility:
			if ability == nil && self.CountCategory(game.CategoryAbility) < 5 {
				ability = &self.Hand[i]
			}
		}
	}

	chosen := physical
	if chosen == nil || self.CountCategory(game.CategoryPhysical) >= 2 {
		if ability != nil {
			chosen = ability
		}
	}
	if chosen == nil {
		return nil, nil, 0
	}
	return game.PlayCard{Player: self.ID, CardInstanceID: chosen.InstanceID}, chosen, 0
}

type scoredMove struct {
	card       game.CardInstance
	def        game.CardDef
	score      float64
	stealHand  string
	actionType game.ActionType
}

// planUse scores every affordable formation action and takes the best
// positive one. Lethal attacks dominate, heals scale with missing HP, and
// a little jitter breaks ties unpredictably.
func (p *Proposer) planUse(self, opp *game.PlayerState, selfID, oppID string, stamina int, justPlayed *game.CardInstance) game.Action {
	pool := make([]game.CardInstance, 0, len(self.Formation)+1)
	pool = append(pool, self.Formation...)
	if justPlayed != nil {
		pool = append(pool, *justPlayed)
	}

	var moves []scoredMove
	for _, c := range pool {
		def := game.Cards.Def(c.DefID)
		if def.StaminaCost > stamina {
			continue
		}
		if def.Category != game.CategoryPhysical && def.Category != game.CategoryAbility {
			continue
		}
		m := scoredMove{card: c, def: def, actionType: game.ActionAbility}
		if def.Category == game.CategoryPhysical {
			m.actionType = game.ActionAttack
		}

		switch def.ID {
		case game.CardRegeneration, game.CardHibernate:
			switch {
			case self.HP*10 < self.MaxHP*4:
				m.score += 20
			case self.HP*10 < self.MaxHP*7:
				m.score += 5
			default:
				m.score -= 10
			}
		case game.CardCopycat:
			if len(opp.Hand) == 0 {
				m.score -= 100
				break
			}
			m.score += 15
			best := opp.Hand[0]
			for _, hc := range opp.Hand[1:] {
				if game.Cards.Def(hc.DefID).StaminaCost > game.Cards.Def(best.DefID).StaminaCost {
					best = hc
				}
			}
			m.stealHand = best.InstanceID
		case game.CardConfuse, game.CardToxicSpit:
			m.score += 5
		case game.CardTerritorial:
			m.score += 4
		}

		if def.Category == game.CategoryPhysical {
			dmg := 2
			switch def.ID {
			case game.CardBite:
				dmg = 3
			case game.CardDiveBomb, game.CardCrushingWeight, game.CardDeathRoll:
				dmg = 4
			}
			if opp.HP <= dmg {
				m.score += 1000
			} else {
				m.score += float64(dmg * 2)
			}
		}

		m.score += p.rnd.Float64() * 3
		moves = append(moves, m)
	}
	if len(moves) == 0 {
		return nil
	}

	sort.SliceStable(moves, func(i, j int) bool { return moves[i].score > moves[j].score })
	best := moves[0]
	if best.score <= 0 {
		return nil
	}
	return game.UseAction{
		Player:           selfID,
		ActionType:       best.actionType,
		CardInstanceID:   best.card.InstanceID,
		TargetPlayerID:   oppID,
		RNG:              p.flips(),
		TargetHandCardID: best.stealHand,
	}
}

// ProposeReaction answers a pending interrupt addressed to selfID, or
// returns nil when there is nothing for this player to answer.
func (p *Proposer) ProposeReaction(st *game.GameState, selfID string) game.Action {
	if st.PendingReaction != nil && st.PendingReaction.TargetID == selfID {
		self := st.Player(selfID)
		// Evade when it can be afforded without crippling the next turn,
		// or unconditionally when low enough that any hit may be lethal.
		evade := self.Stamina >= 4 || (self.Stamina >= 2 && self.HP <= 5)
		return game.ResolveAgile{Player: selfID, UseEvade: evade, RNG: p.flips()}
	}
	if st.PendingChoice != nil && st.PendingChoice.PlayerID == selfID {
		choice := st.PendingChoice.Options[0]
		self := st.Player(selfID)
		if self.HP*10 < self.MaxHP*3 && len(st.PendingChoice.Options) > 1 {
			choice = st.PendingChoice.Options[1]
		}
		return game.ResolveChoice{Player: selfID, Choice: choice, RNG: p.flips()}
	}
	return nil
}

// flips pre-generates the random values a chance action may consume.
func (p *Proposer) flips() []float64 {
	out := make([]float64, 10)
	for i := range out {
		out[i] = p.rnd.Float64()
	}
	return out
}
