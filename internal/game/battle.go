package game

// attackProfile tabulates how an attack card resolves: base damage plus the
// hooks that cannot be expressed as a flat number. Cards missing from this
// table (and from specialAttacks) have no active attack use.
type attackProfile struct {
	base     int
	piercing bool // ignores the defender's armor entirely
	// dynamicBase overrides base when set.
	dynamicBase func(attacker *PlayerState) int
	// onHit runs after damage lands, before the win check.
	onHit func(d *draft, attackerID, targetID string, s *FlipStream)
}

var attackProfiles = map[CardID]attackProfile{
	CardBite:         {base: 3},
	CardClawAttack:   {base: 2},
	CardPiercingBeak: {base: 2},
	CardStrongTail:   {base: 2},
	CardBigClaws:     {base: 3}, // reached through the pending choice
	CardCrushingWeight: {base: 4},
	CardDiveBomb: {
		piercing: true,
		dynamicBase: func(attacker *PlayerState) int {
			if attacker.HasStatus(StatusFlying) {
				return 4
			}
			return 2
		},
	},
	CardLargeHindLegs: {base: 2}, // Medium/Big only; Small rears up to evade
	CardVenomousFangs: {
		base: 1,
		onHit: func(d *draft, attackerID, targetID string, s *FlipStream) {
			d.player(targetID).addStatus(Status{Type: StatusPoisoned})
			d.logf("%s was poisoned by the venomous bite.", d.st.Players[targetID].Name)
		},
	},
	CardGraspingTalons: {
		base: 2,
		onHit: func(d *draft, attackerID, targetID string, s *FlipStream) {
			if d.flip("Grapple Chance", s, attackerID) {
				d.player(targetID).addStatus(Status{Type: StatusGrappled})
				d.logf("%s is caught in the talons.", d.st.Players[targetID].Name)
			}
		},
	},
	CardStrongJaw: {
		base: 3,
		onHit: func(d *draft, attackerID, targetID string, s *FlipStream) {
			d.player(targetID).addStatus(Status{Type: StatusGrappled})
			d.logf("%s is held in the jaw grip.", d.st.Players[targetID].Name)
		},
	},
	CardDeathRoll: {
		base: 4,
		onHit: func(d *draft, attackerID, targetID string, s *FlipStream) {
			if d.flip("Death Roll", s, attackerID) {
				d.player(targetID).addStatus(Status{Type: StatusGrappled})
				d.logf("%s cannot escape the death roll.", d.st.Players[targetID].Name)
			}
		},
	},
	CardLeech: {base: 1, onHit: leechOnHit},
}

func leechOnHit(d *draft, attackerID, targetID string, s *FlipStream) {
	target := d.player(targetID)
	if !d.flip("Leech Poison", s, targetID) {
		target.addStatus(Status{Type: StatusPoisoned})
		d.logf("The leech bite festers: %s is poisoned.", target.Name)
	}
	protected := target.HasInFormation(CardArmoredScales) ||
		target.HasInFormation(CardArmoredExo) ||
		target.HasInFormation(CardThickFur)
	if protected {
		d.logf("%s's protection prevents the leech from latching.", target.Name)
		d.notify(NoteWarning, "Leech blocked by armor.")
		return
	}
	target.addStatus(Status{Type: StatusLeeched, SourceID: attackerID})
	d.logf("%s is leeched.", target.Name)
	d.notify(NoteSuccess, "Leech attached!")
}

// specialAttack handles the physical cards whose activation does not deal
// damage: setup moves, stealth and the multi-branch choice card.
type specialAttack func(d *draft, a UseAction, s *FlipStream) *GameState

var specialAttacks = map[CardID]specialAttack{
	CardBigClaws: func(d *draft, a UseAction, s *FlipStream) *GameState {
		// Offer the fork instead of resolving; the turn is suspended
		// until the actor answers.
		d.st.PendingChoice = &PendingChoice{
			PlayerID:       a.Player,
			CardID:         CardBigClaws,
			Options:        []string{choiceAttack, choiceDig, choiceClimb},
			TargetPlayerID: a.TargetPlayerID,
		}
		d.logf("%s readies Big Claws...", d.st.Players[a.Player].Name)
		return d.st
	},
	CardCamouflage: func(d *draft, a UseAction, s *FlipStream) *GameState {
		p := d.player(a.Player)
		spendCharge(d, p, a.CardInstanceID)
		if d.flip("Camouflage", s, a.Player) {
			p.addStatus(Status{Type: StatusCamouflaged, Duration: 2})
			d.logf("%s blends into the surroundings.", p.Name)
			d.notify(NoteSuccess, "Camouflaged!")
		} else {
			d.logf("%s failed to blend in.", p.Name)
			d.notify(NoteWarning, "Camouflage failed.")
		}
		return d.st
	},
	CardSwimFast: func(d *draft, a UseAction, s *FlipStream) *GameState {
		p := d.player(a.Player)
		p.addStatus(Status{Type: StatusChasing, Duration: 1})
		d.player(a.TargetPlayerID).addStatus(Status{Type: StatusCannotEvade, Duration: 2})
		d.logf("%s darts through the water in pursuit.", p.Name)
		return d.st
	},
	CardLargeHindLegs: func(d *draft, a UseAction, s *FlipStream) *GameState {
		p := d.player(a.Player)
		if p.Size == SizeSmall {
			p.addStatus(Status{Type: StatusEvading, Duration: 1})
			d.logf("%s springs away on its hind legs.", p.Name)
			d.notify(NoteSuccess, "Evading the next attack.")
			return d.st
		}
		return attack(d, a, Cards.Def(CardLargeHindLegs), s)
	},
	CardAmbushAttack: func(d *draft, a UseAction, s *FlipStream) *GameState {
		if d.flip("Ambush", s, a.Player) {
			d.player(a.TargetPlayerID).addStatus(Status{Type: StatusCannotEvade, Duration: 2})
			d.logf("%s set up an ambush: the prey cannot evade.", d.st.Players[a.Player].Name)
		} else {
			d.logf("%s's ambush went unnoticed for nothing.", d.st.Players[a.Player].Name)
		}
		return d.st
	},
}

// Choice option labels for the Big Claws fork.
const (
	choiceAttack = "Attack"
	choiceDig    = "Dig"
	choiceClimb  = "Climb"
)

// evadeStaminaCost is what the defender pays to evade through the pending
// reaction. Swift Reflexes refunds one point of it.
const evadeStaminaCost = 2

func resolveUseAction(st *GameState, a UseAction) *GameState {
	p := st.Player(a.Player)
	target := st.Player(a.TargetPlayerID)
	if target == nil || a.TargetPlayerID == a.Player {
		return rejected(st, "Invalid target.")
	}
	card, ok := p.FormationCard(a.CardInstanceID)
	if !ok {
		return rejected(st, "That card is not in your formation.")
	}
	def := Cards.Def(card.DefID)

	free := freeAction(def.ID)
	if p.HasActedThisTurn && !free {
		return rejected(st, "You have already acted this turn.")
	}
	if p.Stamina < def.StaminaCost {
		return rejected(st, "%s costs %d stamina.", def.Name, def.StaminaCost)
	}
	if !activeUse(def) {
		return rejected(st, "%s is a passive card.", def.Name)
	}

	if p.HasStatus(StatusStuck) && (def.Category == CategoryPhysical || def.ID == CardDig) {
		return rejected(st, "You are stuck and cannot move.")
	}
	if p.HasStatus(StatusCannotAttack) && def.Category == CategoryPhysical {
		return rejected(st, "You are too shaken to attack.")
	}
	if p.HasStatus(StatusGrappled) && def.Category != CategoryPhysical && def.ID != CardFocus && def.ID != CardRage {
		return rejected(st, "Grappled: you can only attack or break out.")
	}

	d := newDraft(st)
	s := NewFlipStream(a.RNG)
	mp := d.player(a.Player)

	// Attacking out of a grapple needs a heads first.
	if mp.HasStatus(StatusGrappled) && def.Category == CategoryPhysical {
		if !d.flip("Grappled Attack", s, a.Player) {
			mp.Stamina -= def.StaminaCost
			mp.HasActedThisTurn = true
			d.notify(NoteWarning, "The grapple spoiled your attack.")
			return d.st
		}
	}

	if mp.HasStatus(StatusConfused) {
		if !d.flip("Confusion Check", s, a.Player) {
			mp.Stamina -= def.StaminaCost
			mp.HasActedThisTurn = true
			mp.HP--
			d.logf("%s hurt themselves in confusion.", mp.Name)
			d.notify(NoteError, "Confusion caused self-harm!")
			d.checkWin(a.TargetPlayerID)
			return d.st
		}
	}

	mp.Stamina -= def.StaminaCost
	if !free {
		mp.HasActedThisTurn = true
	}
	if def.Consumable == ConsumableImpact {
		moveToDiscard(mp, card.InstanceID)
	}

	d.st.Last = &LastAction{PlayerID: a.Player, CardID: def.ID}
	return dispatchCardEffect(d, a, def, s)
}

// dispatchCardEffect routes a paid-for card activation to its effect. It is
// shared by direct use and by mimicry's nested re-dispatch; the stream
// cursor carries across so nested effects draw the next unused values.
func dispatchCardEffect(d *draft, a UseAction, def CardDef, s *FlipStream) *GameState {
	if def.Category == CategoryPhysical {
		if special, ok := specialAttacks[def.ID]; ok {
			return special(d, a, s)
		}
		return attack(d, a, def, s)
	}
	if handler, ok := abilityHandlers[def.ID]; ok {
		handler(d, a, s)
		d.checkWin(a.Player)
		return d.st
	}
	d.logf("%s has no effect.", def.Name)
	return d.st
}

// attack runs hit/miss resolution, offers the defender's evade reaction and
// finally resolves damage.
func attack(d *draft, a UseAction, def CardDef, s *FlipStream) *GameState {
	attacker := d.st.Players[a.Player]
	target := d.st.Players[a.TargetPlayerID]

	// A climbing target is only reachable from the air.
	airborne := attacker.HasStatus(StatusFlying) || def.ID == CardDiveBomb
	if target.HasStatus(StatusClimbing) && !airborne {
		d.logf("%s's attack misses: %s is up high.", attacker.Name, target.Name)
		d.notify(NoteWarning, "Miss! Target is climbing.")
		return d.st
	}

	accurate := attacker.HasStatus(StatusAccurate) || attacker.HasStatus(StatusChasing) ||
		attacker.HasInFormation(CardWhiskers) || attacker.HasInFormation(CardKeenEyesight)
	if !accurate {
		if target.HasStatus(StatusHidden) {
			d.logf("%s missed: %s is hidden.", attacker.Name, target.Name)
			d.notify(NoteWarning, "Miss! Target hidden.")
			return d.st
		}
		if target.HasStatus(StatusEvading) {
			d.player(a.TargetPlayerID).clearStatus(StatusEvading)
			d.logf("%s evaded the attack.", target.Name)
			d.notify(NoteWarning, "Miss! Target evaded.")
			return d.st
		}
		if target.HasStatus(StatusCamouflaged) && !d.flip("Camouflage Miss Chance", s, a.Player) {
			d.logf("%s missed: %s is camouflaged.", attacker.Name, target.Name)
			d.notify(NoteWarning, "Miss! Camouflage.")
			return d.st
		}
		if target.HasStatus(StatusFlying) && !d.flip("Flying Miss Chance", s, a.Player) {
			d.logf("%s missed: %s is airborne.", attacker.Name, target.Name)
			d.notify(NoteWarning, "Miss! Target flying.")
			return d.st
		}
		if d.st.Habitat == HabitatWater && target.HasInFormation(CardWaterCamo) &&
			!d.flip("Water Camouflage", s, a.Player) {
			d.logf("%s missed: %s vanished beneath the surface.", attacker.Name, target.Name)
			return d.st
		}
		if target.HasInFormation(CardHindLegsStance) && !d.flip("Intimidation", s, a.Player) {
			d.logf("%s flinched before the reared-up %s.", attacker.Name, target.Name)
			d.notify(NoteWarning, "Intimidated! Miss.")
			return d.st
		}
	}

	if canEvade(target) && !accurate && !target.HasStatus(StatusCannotEvade) {
		d.st.PendingReaction = &PendingReaction{
			AttackerID:   a.Player,
			TargetID:     a.TargetPlayerID,
			AttackCardID: def.ID,
		}
		d.logf("%s can evade! Waiting for a reaction...", target.Name)
		return d.st
	}

	resolveAttackDamage(d, a.Player, a.TargetPlayerID, def, s)
	return d.st
}

// canEvade reports whether the defender may be offered the evade reaction.
func canEvade(p *PlayerState) bool {
	agile := p.HasInFormation(CardSmallSize) || p.HasInFormation(CardAgile)
	if !agile || p.Stamina < evadeStaminaCost {
		return false
	}
	return !p.HasStatus(StatusGrappled) && !p.HasStatus(StatusStuck)
}

// resolveAttackDamage applies damage and the fixed-order side effects:
// defender recoil passives, then status application, then the win check.
func resolveAttackDamage(d *draft, attackerID, targetID string, def CardDef, s *FlipStream) {
	profile := attackProfiles[def.ID]
	attacker := d.player(attackerID)
	target := d.player(targetID)

	damage := profile.base
	if profile.dynamicBase != nil {
		damage = profile.dynamicBase(attacker)
	}

	if attacker.HasInFormation(CardStrongBuild) {
		damage++
	}
	if d.st.Habitat == HabitatWater {
		if attacker.HasInFormation(CardSwimsWell) {
			damage++
		}
		if attacker.HasInFormation(CardSwimFast) {
			damage += 2
		}
		if attacker.Kind == KindAmphibian {
			damage++
		}
	}
	if attacker.HasStatus(StatusDamageBuff) {
		damage++
	}

	defense := 0
	if target.HasInFormation(CardArmoredScales) {
		defense++
	}
	if target.HasInFormation(CardThickFur) {
		defense++
	}
	if target.HasInFormation(CardFur) && d.flip("Fur Defense", s, targetID) {
		defense++
	}
	if target.HasInFormation(CardArmoredExo) && !d.flip("Exoskeleton", s, attackerID) {
		defense += 2
	}
	if profile.piercing {
		defense = 0
	}

	if target.HasInFormation(CardSpikyBody) {
		attackerAgile := attacker.HasInFormation(CardSmallSize) || attacker.HasInFormation(CardAgile)
		if !attackerAgile {
			attacker.HP--
			d.logf("%s took 1 damage from the spiky body.", attacker.Name)
		} else if d.flip("Spiky Body", s, attackerID) {
			attacker.HP--
			d.logf("%s clipped the spikes for 1 damage.", attacker.Name)
		} else {
			damage++
		}
	}
	if target.HasInFormation(CardBarbedQuills) {
		armored := attacker.HasInFormation(CardArmoredExo) || attacker.HasInFormation(CardSpikyBody)
		if !armored {
			recoil := 1
			if target.HasStatus(StatusGrappled) {
				recoil = 2
			}
			attacker.HP -= recoil
			d.logf("%s took %d recoil damage from barbed quills.", attacker.Name, recoil)
			d.notify(NoteWarning, "%s pricked by quills!", attacker.Name)
		} else {
			d.logf("%s's armor turned the quills.", attacker.Name)
		}
	}
	if target.HasInFormation(CardPoisonSkin) {
		attacker.addStatus(Status{Type: StatusPoisoned})
		d.logf("%s was poisoned on contact.", attacker.Name)
		d.notify(NoteWarning, "Poisoned by skin!")
	}

	final := max(0, damage-defense)
	target.HP -= final
	d.logf("%s attacked %s for %d damage.", attacker.Name, target.Name, final)
	d.notify(NoteSuccess, "Dealt %d damage!", final)

	if profile.onHit != nil {
		profile.onHit(d, attackerID, targetID, s)
	}

	d.checkWin(attackerID)
}

// resolveAgile answers the pending evade reaction. Declining, or being
// unable to pay, resolves the attack as if no reaction existed.
func resolveAgile(st *GameState, a ResolveAgile) *GameState {
	reaction := st.PendingReaction
	d := newDraft(st)
	d.st.PendingReaction = nil
	s := NewFlipStream(a.RNG)
	def := Cards.Def(reaction.AttackCardID)

	target := d.player(reaction.TargetID)
	if a.UseEvade && target.Stamina >= evadeStaminaCost {
		target.Stamina -= evadeStaminaCost
		d.logf("%s evaded %s!", target.Name, def.Name)
		d.notify(NoteSuccess, "Evaded!")
		if target.HasInFormation(CardSwiftReflexes) {
			target.Stamina = min(target.MaxStamina, target.Stamina+1)
			d.notify(NoteInfo, "Swift Reflexes refund (+1 stamina).")
		}
		return d.st
	}

	resolveAttackDamage(d, reaction.AttackerID, reaction.TargetID, def, s)
	return d.st
}

// resolveChoice answers the pending multi-way fork.
func resolveChoice(st *GameState, a ResolveChoice) *GameState {
	choice := st.PendingChoice
	d := newDraft(st)
	d.st.PendingChoice = nil
	s := NewFlipStream(a.RNG)

	p := d.player(a.Player)
	d.logf("%s chose %s.", p.Name, a.Choice)

	switch a.Choice {
	case choiceAttack:
		resolveAttackDamage(d, a.Player, choice.TargetPlayerID, Cards.Def(choice.CardID), s)
	case choiceDig:
		p.addStatus(Status{Type: StatusHidden, Duration: 1})
		d.notify(NoteSuccess, "Dug in: Hidden.")
	case choiceClimb:
		p.addStatus(Status{Type: StatusClimbing, Duration: 1})
		d.notify(NoteSuccess, "Climbed out of reach.")
	default:
		d.notify(NoteError, "Unknown choice %q.", a.Choice)
	}
	return d.st
}

// freeAction reports whether using the card leaves the turn's action intact.
func freeAction(id CardID) bool {
	switch id {
	case CardShortBurst, CardAdrenalineRush, CardEnhancedSmell, CardFocus, CardRage, CardAgile:
		return true
	}
	return false
}

// activeUse reports whether the card has any activation at all.
func activeUse(def CardDef) bool {
	if def.Category == CategoryPhysical {
		if _, ok := attackProfiles[def.ID]; ok {
			return true
		}
		_, ok := specialAttacks[def.ID]
		return ok
	}
	if def.Category == CategoryAbility {
		_, ok := abilityHandlers[def.ID]
		return ok
	}
	return false
}

// spendCharge decrements a formation card's use charges, discarding the
// card when the last one is spent.
func spendCharge(d *draft, p *PlayerState, instanceID string) {
	for i, c := range p.Formation {
		if c.InstanceID != instanceID {
			continue
		}
		if c.Charges == 0 {
			return
		}
		p.Formation[i].Charges--
		if p.Formation[i].Charges == 0 {
			moveToDiscard(p, instanceID)
			d.logf("%s's %s is spent.", p.Name, Cards.Def(c.DefID).Name)
		}
		return
	}
}

func moveToDiscard(p *PlayerState, instanceID string) {
	for _, c := range p.Formation {
		if c.InstanceID == instanceID {
			p.Formation = removeInstance(p.Formation, instanceID)
			p.Discard = append(p.Discard, c)
			return
		}
	}
}
