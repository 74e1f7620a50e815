package game

import (
	"fmt"

	"github.com/google/uuid"
)

// draft is an in-progress transition. The wrapped state shares untouched
// player records with the prior state; players are deep-copied on first
// write, so a transition only pays for what it mutates.
type draft struct {
	st     *GameState
	copied map[string]bool
	// prev is the last action as of the start of this transition; the
	// copy-the-last-move effect reads it after st.Last has been replaced.
	prev *LastAction
}

func newDraft(st *GameState) *draft {
	return &draft{st: st.shallowClone(), copied: make(map[string]bool, 2), prev: st.Last}
}

// player returns a mutable copy of the named player.
func (d *draft) player(id string) *PlayerState {
	if p, ok := d.st.Players[id]; ok && !d.copied[id] {
		d.st.Players[id] = clonePlayer(p)
		d.copied[id] = true
	}
	return d.st.Players[id]
}

// nextID derives a deterministic identifier. Resolution is replayed from
// identical inputs across peers, so ids must not come from ambient entropy.
func (d *draft) nextID(tag string) string {
	d.st.IDSeq++
	name := fmt.Sprintf("%s:%s:%d", d.st.GameID, tag, d.st.IDSeq)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func (d *draft) logf(format string, args ...any) {
	d.st.Log = append(d.st.Log, fmt.Sprintf("[T%d] ", d.st.Turn)+fmt.Sprintf(format, args...))
}

func (d *draft) notify(level NoteLevel, format string, args ...any) {
	d.st.Notifications = append(d.st.Notifications, Notification{
		ID:      d.nextID("note"),
		Message: fmt.Sprintf(format, args...),
		Level:   level,
	})
}

// flip resolves one named coin flip from the stream. A player holding the
// guaranteed-heads override has it applied and cleared exactly once.
func (d *draft) flip(reason string, s *FlipStream, flipperID string) bool {
	heads := headsFrom(s.Next())
	if flipperID != "" {
		if f := d.st.Players[flipperID]; f != nil && f.GuaranteedHeads {
			heads = true
			d.player(flipperID).GuaranteedHeads = false
			d.logf("%s calls in a guaranteed HEADS for %s.", f.Name, reason)
		}
	}
	result := Tails
	if heads {
		result = Heads
	}
	d.st.ActiveFlip = &CoinFlipEvent{ID: d.nextID("flip"), Result: result, Reason: reason}
	d.logf("Coin flip (%s): %s.", reason, result)
	return heads
}

// checkWin freezes the state once a player is out of HP. When both players
// drop in the same resolution the acting player takes the win.
func (d *draft) checkWin(actorID string) {
	oppID := d.st.OpponentOf(actorID)
	actor := d.st.Players[actorID]
	opp := d.st.Players[oppID]
	if opp != nil && opp.HP <= 0 {
		d.player(oppID).HP = 0
		d.declareWinner(actorID)
		return
	}
	if actor != nil && actor.HP <= 0 {
		d.player(actorID).HP = 0
		d.declareWinner(oppID)
	}
}

func (d *draft) declareWinner(id string) {
	if d.st.Over() {
		return
	}
	d.st.Winner = id
	d.st.Phase = PhaseEnd
	d.st.PendingReaction = nil
	d.st.PendingChoice = nil
	d.logf("%s wins the battle!", d.st.Players[id].Name)
	d.notify(NoteSuccess, "%s wins!", d.st.Players[id].Name)
}

// rejected returns the prior state unchanged except for an error
// notification explaining why the action was refused.
func rejected(st *GameState, format string, args ...any) *GameState {
	d := newDraft(st)
	d.notify(NoteError, format, args...)
	return d.st
}

// Resolve is the state transition function: given the current state and one
// submitted action it produces the next state. It is pure and total: every
// failure mode is a rejection encoded in the returned state, never an error,
// and identical inputs always produce identical outputs.
func Resolve(st *GameState, act Action) *GameState {
	if st == nil || act == nil {
		return st
	}

	switch a := act.(type) {
	case InitGame:
		return resolveInitGame(a)
	case AcknowledgeFlip:
		d := newDraft(st)
		d.st.ActiveFlip = nil
		return d.st
	case DismissNotification:
		d := newDraft(st)
		kept := d.st.Notifications[:0]
		for _, n := range d.st.Notifications {
			if n.ID != a.NoteID {
				kept = append(kept, n)
			}
		}
		d.st.Notifications = kept
		return d.st
	}

	if st.Over() {
		return rejected(st, "The battle is over.")
	}
	if st.Player(act.PlayerID()) == nil {
		return rejected(st, "Unknown player.")
	}
	if st.OpponentOf(act.PlayerID()) == "" {
		return rejected(st, "Waiting for an opponent to join.")
	}

	// Interrupts must be answered before anything else is accepted.
	if st.PendingReaction != nil {
		a, ok := act.(ResolveAgile)
		if !ok || a.Player != st.PendingReaction.TargetID {
			return rejected(st, "Waiting for %s to react.", st.Players[st.PendingReaction.TargetID].Name)
		}
		return resolveAgile(st, a)
	}
	if st.PendingChoice != nil {
		a, ok := act.(ResolveChoice)
		if !ok || a.Player != st.PendingChoice.PlayerID {
			return rejected(st, "Waiting for %s to choose.", st.Players[st.PendingChoice.PlayerID].Name)
		}
		return resolveChoice(st, a)
	}

	if act.PlayerID() != st.CurrentPlayer {
		return rejected(st, "It is not your turn.")
	}

	switch a := act.(type) {
	case PlayCard:
		return resolvePlayCard(st, a)
	case PlayEvolveCard:
		return resolvePlayEvolve(st, a)
	case PlayApexEvolution:
		return resolvePlayApex(st, a)
	case UseAction:
		return resolveUseAction(st, a)
	case EndTurn:
		return resolveEndTurn(st, a)
	case ClearPoison:
		return resolveClearStatus(st, a.Player, StatusPoisoned, "Poison")
	case ClearLeech:
		return resolveClearStatus(st, a.Player, StatusLeeched, "Leech")
	case AttemptGrappleEscape:
		return resolveGrappleEscape(st, a)
	case UseHabitatAction:
		return resolveHabitatAction(st, a)
	case ResolveAgile, ResolveChoice:
		return rejected(st, "Nothing to resolve.")
	default:
		return rejected(st, "Unsupported action.")
	}
}

// resolveInitGame installs a freshly constructed state and applies the
// one-time starting bonuses for habitat and opening formation passives.
func resolveInitGame(a InitGame) *GameState {
	if a.State == nil {
		return nil
	}
	d := newDraft(a.State)
	for _, id := range playerIDsSorted(d.st) {
		p := d.player(id)
		if p.HasInFormation(CardStrongBuild) {
			p.MaxHP += 2
			p.HP += 2
		}
		switch d.st.Habitat {
		case HabitatDesert:
			if p.Kind == KindReptile || p.Kind == KindMammal {
				p.MaxHP += 2
				p.HP += 2
				d.logf("%s is at home in the desert (+2 HP).", p.Name)
			}
		case HabitatWater:
			if p.Kind == KindAmphibian {
				p.MaxHP += 1
				p.HP += 1
				d.logf("%s thrives in the water (+1 HP).", p.Name)
			}
		}
	}
	return d.st
}

// playerIDsSorted returns player ids in lexical order so that map iteration
// never leaks into resolution order.
func playerIDsSorted(st *GameState) []string {
	ids := make([]string, 0, len(st.Players))
	for id := range st.Players {
		ids = append(ids, id)
	}
	if len(ids) == 2 && ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return ids
}

const formationCategoryCap = 5

func resolvePlayCard(st *GameState, a PlayCard) *GameState {
	p := st.Player(a.Player)
	card, ok := p.HandCard(a.CardInstanceID)
	if !ok {
		return rejected(st, "That card is not in your hand.")
	}
	def := Cards.Def(card.DefID)

	if !def.CompatibleWith(p.Kind) {
		return rejected(st, "%s is not compatible with a %s.", def.Name, p.Kind)
	}
	if p.CardsPlayedThisTurn >= 1 {
		return rejected(st, "You can only play one card per turn.")
	}

	if def.IsUpgrade() {
		return playUpgrade(st, a, p, card, def)
	}

	if def.Category == CategoryPhysical && p.CountCategory(CategoryPhysical) >= formationCategoryCap {
		return rejected(st, "Formation already holds %d Physical cards.", formationCategoryCap)
	}
	if def.Category == CategoryAbility && p.CountCategory(CategoryAbility) >= formationCategoryCap {
		return rejected(st, "Formation already holds %d Ability cards.", formationCategoryCap)
	}
	if p.HasInFormation(def.ID) {
		return rejected(st, "%s is already in play.", def.Name)
	}
	if def.ID == CardCrushingWeight && p.Size != SizeBig {
		return rejected(st, "Only Big creatures can wield %s.", def.Name)
	}

	d := newDraft(st)
	mp := d.player(a.Player)
	mp.Hand = removeInstance(mp.Hand, card.InstanceID)
	mp.Formation = append(mp.Formation, card)
	mp.CardsPlayedThisTurn++
	if def.ID == CardStrongBuild {
		mp.HP += 2
		mp.MaxHP += 2
	}
	d.logf("%s played %s.", mp.Name, def.Name)
	d.notify(NoteSuccess, "Played %s.", def.Name)
	return d.st
}

// playUpgrade replaces a compatible base card in formation. The upgrade
// keeps the base card's slot, so the duplicate-definition rule and the
// category caps do not apply.
func playUpgrade(st *GameState, a PlayCard, p *PlayerState, card CardInstance, def CardDef) *GameState {
	targetID := a.TargetInstanceID
	if targetID == "" {
		// Auto-target the sole eligible base.
		var eligible []string
		for _, c := range p.Formation {
			if def.Upgrades(c.DefID) {
				eligible = append(eligible, c.InstanceID)
			}
		}
		if len(eligible) != 1 {
			return rejected(st, "Select a card in formation to upgrade with %s.", def.Name)
		}
		targetID = eligible[0]
	}
	base, ok := p.FormationCard(targetID)
	if !ok {
		return rejected(st, "Upgrade target is not in formation.")
	}
	if !def.Upgrades(base.DefID) {
		return rejected(st, "%s cannot upgrade %s.", def.Name, Cards.Def(base.DefID).Name)
	}

	d := newDraft(st)
	mp := d.player(a.Player)
	mp.Hand = removeInstance(mp.Hand, card.InstanceID)
	for i, c := range mp.Formation {
		if c.InstanceID == targetID {
			mp.Formation[i] = card
			break
		}
	}
	mp.Discard = append(mp.Discard, base)
	mp.CardsPlayedThisTurn++
	d.logf("%s upgraded %s into %s.", mp.Name, Cards.Def(base.DefID).Name, def.Name)
	d.notify(NoteSuccess, "Upgraded to %s.", def.Name)
	return d.st
}

func resolvePlayEvolve(st *GameState, a PlayEvolveCard) *GameState {
	p := st.Player(a.Player)
	if p.Stamina < 2 {
		return rejected(st, "Evolving costs 2 stamina.")
	}
	evolve, ok := p.HandCard(a.EvolveInstanceID)
	if !ok || Cards.Def(evolve.DefID).Category != CategorySpecial {
		return rejected(st, "You need the Evolve card in hand.")
	}
	target, ok := p.FormationCard(a.TargetFormationID)
	if !ok {
		return rejected(st, "Evolve target is not in formation.")
	}
	if Cards.Def(target.DefID).Category == CategorySize {
		return rejected(st, "Size cards cannot be evolved.")
	}
	replacement, ok := p.HandCard(a.ReplacementHandID)
	if !ok || replacement.InstanceID == evolve.InstanceID {
		return rejected(st, "Pick a hand card to swap in.")
	}
	repDef := Cards.Def(replacement.DefID)
	if !repDef.CompatibleWith(p.Kind) {
		return rejected(st, "%s is not compatible with a %s.", repDef.Name, p.Kind)
	}

	d := newDraft(st)
	mp := d.player(a.Player)
	mp.Stamina -= 2
	mp.Hand = removeInstance(mp.Hand, evolve.InstanceID)
	mp.Discard = append(mp.Discard, evolve)

	// An upgrade swapped in lands on its base card when one is in play,
	// rather than taking over the chosen slot.
	slotID := target.InstanceID
	if repDef.IsUpgrade() {
		for _, c := range mp.Formation {
			if repDef.Upgrades(c.DefID) {
				slotID = c.InstanceID
				break
			}
		}
	}
	var displaced CardInstance
	for i, c := range mp.Formation {
		if c.InstanceID == slotID {
			displaced = c
			mp.Formation[i] = replacement
			break
		}
	}
	mp.Hand = removeInstance(mp.Hand, replacement.InstanceID)
	mp.Hand = append(mp.Hand, displaced)

	d.logf("%s evolved: %s swapped out for %s.", mp.Name, Cards.Def(displaced.DefID).Name, repDef.Name)
	d.notify(NoteSuccess, "Evolution complete.")
	return d.st
}

// resolvePlayApex transforms a formation card in place into its registered
// upgrade, consuming the Evolve card. A free action.
func resolvePlayApex(st *GameState, a PlayApexEvolution) *GameState {
	p := st.Player(a.Player)
	if p.Stamina < 2 {
		return rejected(st, "Apex evolution costs 2 stamina.")
	}
	apex, ok := p.HandCard(a.ApexInstanceID)
	if !ok || Cards.Def(apex.DefID).Category != CategorySpecial {
		return rejected(st, "You need the Evolve card in hand.")
	}
	target, ok := p.FormationCard(a.TargetFormationID)
	if !ok {
		return rejected(st, "Apex target is not in formation.")
	}
	upgrade, ok := upgradeFor(target.DefID, p.Kind)
	if !ok {
		return rejected(st, "%s has no apex form.", Cards.Def(target.DefID).Name)
	}

	d := newDraft(st)
	mp := d.player(a.Player)
	mp.Stamina -= 2
	mp.Hand = removeInstance(mp.Hand, apex.InstanceID)
	mp.Discard = append(mp.Discard, apex)
	for i, c := range mp.Formation {
		if c.InstanceID == target.InstanceID {
			mp.Formation[i].DefID = upgrade.ID
			mp.Formation[i].Charges = upgrade.MaxCharges
			break
		}
	}
	d.logf("%s apex-evolved %s into %s.", mp.Name, Cards.Def(target.DefID).Name, upgrade.Name)
	d.notify(NoteSuccess, "Apex evolution: %s!", upgrade.Name)
	return d.st
}

// upgradeFor finds the first kind-compatible catalog upgrade whose bases
// include the given id.
func upgradeFor(base CardID, kind CreatureKind) (CardDef, bool) {
	for _, id := range sortedCardIDs() {
		def := Cards.Def(id)
		if def.Upgrades(base) && def.CompatibleWith(kind) {
			return def, true
		}
	}
	return CardDef{}, false
}

func resolveClearStatus(st *GameState, playerID string, status StatusType, label string) *GameState {
	p := st.Player(playerID)
	if !p.HasStatus(status) {
		return rejected(st, "You are not affected by %s.", label)
	}
	if p.HasActedThisTurn {
		return rejected(st, "You have already acted this turn.")
	}
	if p.Stamina < 1 {
		return rejected(st, "Curing %s costs 1 stamina.", label)
	}

	d := newDraft(st)
	mp := d.player(playerID)
	mp.Stamina--
	mp.HasActedThisTurn = true
	mp.clearStatus(status)
	d.logf("%s shook off %s.", mp.Name, label)
	d.notify(NoteSuccess, "Cured %s.", label)
	return d.st
}

func resolveGrappleEscape(st *GameState, a AttemptGrappleEscape) *GameState {
	p := st.Player(a.Player)
	if !p.HasStatus(StatusGrappled) {
		return rejected(st, "You are not grappled.")
	}
	if p.HasActedThisTurn {
		return rejected(st, "You have already acted this turn.")
	}

	d := newDraft(st)
	s := NewFlipStream(a.RNG)
	mp := d.player(a.Player)
	mp.HasActedThisTurn = true
	if d.flip("Grapple Escape", s, a.Player) {
		mp.clearStatus(StatusGrappled)
		d.logf("%s broke free from the grapple.", mp.Name)
		d.notify(NoteSuccess, "Broke free!")
	} else {
		d.logf("%s failed to break free.", mp.Name)
		d.notify(NoteWarning, "Failed to break free.")
	}
	return d.st
}

func resolveHabitatAction(st *GameState, a UseHabitatAction) *GameState {
	if st.Habitat != HabitatForest {
		return rejected(st, "There is nowhere to hide in the %s.", st.Habitat)
	}
	p := st.Player(a.Player)
	if p.UsedHabitatHide {
		return rejected(st, "You have already tried to hide this battle.")
	}

	d := newDraft(st)
	s := NewFlipStream(a.RNG)
	mp := d.player(a.Player)
	mp.UsedHabitatHide = true
	if d.flip("Forest Hide", s, a.Player) {
		mp.addStatus(Status{Type: StatusHidden})
		d.logf("%s slipped into the undergrowth.", mp.Name)
		d.notify(NoteSuccess, "You are now Hidden.")
	} else {
		d.logf("%s failed to hide.", mp.Name)
		d.notify(NoteWarning, "Failed to hide.")
	}
	return d.st
}

const drawAttemptSlack = 5

func resolveEndTurn(st *GameState, a EndTurn) *GameState {
	d := newDraft(st)
	s := NewFlipStream(a.RNG)

	ending := d.player(a.Player)
	ending.GuaranteedHeads = false
	ending.clearStatus(StatusDamageBuff, StatusStuck, StatusAccurate)

	nextID := d.st.OpponentOf(a.Player)
	d.st.CurrentPlayer = nextID
	d.st.Turn++
	d.st.Phase = PhaseStart
	d.st.ActiveFlip = nil

	next := d.player(nextID)

	// Start-of-turn sequence for the incoming player.
	if next.HasStatus(StatusConfused) {
		if d.flip("Confusion Check", s, nextID) {
			next.clearStatus(StatusConfused)
			d.notify(NoteSuccess, "%s snapped out of confusion.", next.Name)
		} else {
			d.notify(NoteError, "%s is still confused.", next.Name)
		}
	}

	if next.HasStatus(StatusStaminaDebt) {
		next.Stamina = max(0, next.Stamina-1)
		next.clearStatus(StatusStaminaDebt)
		d.logf("%s pays back 1 stamina.", next.Name)
	}
	if next.Stamina < next.MaxStamina {
		next.Stamina++
	}

	if next.HasStatus(StatusPoisoned) {
		next.HP--
		d.logf("%s took 1 poison damage.", next.Name)
		d.notify(NoteWarning, "%s suffers from poison.", next.Name)
	}
	if next.HasStatus(StatusLeeched) {
		next.HP--
		d.logf("%s is drained by the leech.", next.Name)
	}
	if _, ok := ending.StatusFrom(StatusLeeched, nextID); ok && next.HP < next.MaxHP {
		// The incoming player's leech on the opponent heals its source.
		next.HP++
		d.logf("%s healed 1 HP from leeching.", next.Name)
	}
	d.checkWin(a.Player)
	if d.st.Over() {
		return d.st
	}

	for _, t := range next.tickStatuses() {
		d.logf("%s is no longer %s.", next.Name, t)
	}

	next.CardsPlayedThisTurn = 0
	next.HasActedThisTurn = false

	if d.st.Habitat == HabitatWater && next.HasInFormation(CardAmphibious) {
		next.HP = min(next.MaxHP, next.HP+1)
		d.logf("%s regenerates 1 HP (Amphibious).", next.Name)
	}

	drawCard(d, next)

	d.st.Phase = PhaseAction
	return d.st
}

// drawCard performs the unique-card draw: duplicates of definitions already
// held in hand or formation cycle to the deck bottom for a bounded number of
// attempts. A passive draw with formation room is auto-played.
func drawCard(d *draft, p *PlayerState) {
	if len(p.Deck) == 0 {
		return
	}
	attempts := 0
	maxAttempts := len(p.Deck) + drawAttemptSlack
	var drawn CardInstance
	for {
		drawn, p.Deck = p.Deck[0], p.Deck[1:]
		if !holdsDefinition(p, drawn.DefID) || attempts >= maxAttempts {
			break
		}
		p.Deck = append(p.Deck, drawn)
		attempts++
	}
	def := Cards.Def(drawn.DefID)

	if holdsDefinition(p, drawn.DefID) {
		p.Deck = append(p.Deck, drawn)
		d.logf("%s drew a duplicate %s and returned it.", p.Name, def.Name)
		return
	}

	if autoPlayOnDraw(def) && p.CountCategory(def.Category) < formationCategoryCap {
		p.Formation = append(p.Formation, drawn)
		if def.ID == CardStrongBuild {
			p.HP += 2
			p.MaxHP += 2
		}
		d.logf("%s drew %s and put it straight into formation.", p.Name, def.Name)
		d.notify(NoteInfo, "%s auto-played.", def.Name)
		return
	}

	p.Hand = append(p.Hand, drawn)
	d.logf("%s drew a card.", p.Name)
}

// autoPlayOnDraw reports whether a drawn card goes directly into formation:
// size cards and zero-cost non-upgrade Physical passives, except the
// stealth cards the player triggers by hand.
func autoPlayOnDraw(def CardDef) bool {
	if def.Category == CategorySize {
		return true
	}
	if def.Category != CategoryPhysical || def.StaminaCost != 0 || def.IsUpgrade() {
		return false
	}
	switch def.ID {
	case CardCamouflage, CardWaterCamo:
		return false
	}
	return true
}

func holdsDefinition(p *PlayerState, id CardID) bool {
	for _, c := range p.Hand {
		if c.DefID == id {
			return true
		}
	}
	return p.HasInFormation(id)
}

func removeInstance(zone []CardInstance, instanceID string) []CardInstance {
	for i, c := range zone {
		if c.InstanceID == instanceID {
			return append(zone[:i:i], zone[i+1:]...)
		}
	}
	return zone
}
