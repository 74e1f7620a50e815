package game

// abilityHandler applies one ability card's effect. Cost, action bookkeeping
// and consumable discard are already done by the time a handler runs.
type abilityHandler func(d *draft, a UseAction, s *FlipStream)

// Populated in init: the mimicry handler re-enters the dispatcher, which
// would otherwise form an initialization cycle with this table.
var abilityHandlers map[CardID]abilityHandler

func init() {
	abilityHandlers = map[CardID]abilityHandler{
		CardShortBurst: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.Stamina = min(p.MaxStamina, p.Stamina+1)
			d.notify(NoteSuccess, "+1 Stamina")
		},
		CardAdrenalineRush: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.Stamina = min(p.MaxStamina, p.Stamina+1)
			p.addStatus(Status{Type: StatusStaminaDebt})
			d.notify(NoteSuccess, "Adrenaline Rush!")
		},
		CardConfuse: func(d *draft, a UseAction, s *FlipStream) {
			target := d.player(a.TargetPlayerID)
			if target.HasInFormation(CardIntelligence) {
				d.logf("%s is too clever to be confused.", target.Name)
				d.notify(NoteInfo, "Immune!")
				return
			}
			if d.flip("Confuse", s, a.Player) {
				target.addStatus(Status{Type: StatusConfused, Duration: 2})
				d.logf("%s is confused!", target.Name)
			} else {
				d.notify(NoteWarning, "Confuse failed.")
			}
		},
		CardDig: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.addStatus(Status{Type: StatusHidden, Duration: 1})
			d.logf("%s dug in and is hidden.", p.Name)
		},
		CardFreeze: func(d *draft, a UseAction, s *FlipStream) {
			if d.flip("Freeze", s, a.Player) {
				p := d.player(a.Player)
				p.addStatus(Status{Type: StatusHidden, Duration: 1})
				d.logf("%s froze perfectly still.", p.Name)
			}
		},
		CardFlight: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.addStatus(Status{Type: StatusFlying, Duration: 3})
			d.logf("%s took flight!", p.Name)
		},
		CardRoar: func(d *draft, a UseAction, s *FlipStream) {
			if d.flip("Roar", s, a.Player) {
				target := d.player(a.TargetPlayerID)
				target.addStatus(Status{Type: StatusCannotAttack, Duration: 2})
				d.logf("%s is terrified by the roar!", target.Name)
			}
		},
		CardHibernate: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.HP = min(p.MaxHP, p.HP+2)
			if p.HP == p.MaxHP {
				p.Stamina = min(p.MaxStamina, p.Stamina+1)
			}
			d.logf("%s hibernated.", p.Name)
		},
		CardLoudHiss: func(d *draft, a UseAction, s *FlipStream) {
			if d.flip("Loud Hiss", s, a.Player) {
				target := d.player(a.TargetPlayerID)
				target.addStatus(Status{Type: StatusCannotAttack, Duration: 2})
				d.logf("%s recoils from the hiss!", target.Name)
			}
		},
		CardToxicSpit: func(d *draft, a UseAction, s *FlipStream) {
			target := d.player(a.TargetPlayerID)
			if d.flip("Toxic Spit", s, a.Player) {
				target.addStatus(Status{Type: StatusPoisoned})
				d.logf("%s is poisoned by the spit.", target.Name)
			} else {
				target.addStatus(Status{Type: StatusStuck, Duration: 2})
				d.logf("%s is stuck in the goo.", target.Name)
			}
		},
		CardRegeneration: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.HP = min(p.MaxHP, p.HP+4)
			d.logf("%s regenerated health.", p.Name)
		},
		CardFocus: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.clearStatus(StatusGrappled, StatusStuck)
			p.GuaranteedHeads = true
			p.addStatus(Status{Type: StatusDamageBuff, Duration: 1})
			d.logf("%s focused: breakout, damage up, next flip is heads.", p.Name)
		},
		CardRage: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.clearStatus(StatusGrappled, StatusStuck)
			p.addStatus(Status{Type: StatusDamageBuff, Duration: 1})
			d.logf("%s flew into a rage!", p.Name)
		},
		CardStickyTongue: func(d *draft, a UseAction, s *FlipStream) {
			if d.flip("Sticky Tongue", s, a.Player) {
				target := d.player(a.TargetPlayerID)
				target.addStatus(Status{Type: StatusStuck, Duration: 2})
				d.logf("%s is stuck fast!", target.Name)
			}
		},
		CardShedSkin: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.keepOnlyStatus(StatusDamageBuff, StatusHidden, StatusFlying)
			d.logf("%s shed its skin and its ailments with it.", p.Name)
		},
		CardTerritorial: func(d *draft, a UseAction, s *FlipStream) {
			if d.flip("Territorial Display", s, a.Player) {
				target := d.player(a.TargetPlayerID)
				target.Discard = append(target.Discard, target.Hand...)
				target.Hand = nil
				d.logf("%s fled and dropped their hand!", target.Name)
				d.notify(NoteSuccess, "Opponent hand discarded!")
			}
		},
		CardEnhancedSmell: func(d *draft, a UseAction, s *FlipStream) {
			d.player(a.TargetPlayerID).clearStatus(StatusHidden, StatusCamouflaged)
			p := d.player(a.Player)
			p.addStatus(Status{Type: StatusChasing, Duration: 1})
			d.logf("%s sniffed out the opponent!", p.Name)
		},
		CardExhaustingRoar: func(d *draft, a UseAction, s *FlipStream) {
			if d.flip("Exhausting Roar", s, a.Player) {
				target := d.player(a.TargetPlayerID)
				target.Stamina = max(0, target.Stamina-1)
				d.logf("%s lost stamina from the roar.", target.Name)
			}
		},
		CardAgile: func(d *draft, a UseAction, s *FlipStream) {
			p := d.player(a.Player)
			p.addStatus(Status{Type: StatusAccurate, Duration: 1})
			d.logf("%s moves with uncanny agility.", p.Name)
		},
		CardCopycat: func(d *draft, a UseAction, s *FlipStream) {
			target := d.player(a.TargetPlayerID)
			stolen, ok := target.HandCard(a.TargetHandCardID)
			if !ok {
				d.notify(NoteError, "That card is not in the opponent's hand.")
				return
			}
			target.Hand = removeInstance(target.Hand, stolen.InstanceID)
			p := d.player(a.Player)
			p.Hand = append(p.Hand, stolen)
			d.logf("%s stole %s!", p.Name, Cards.Def(stolen.DefID).Name)
			d.notify(NoteSuccess, "Card stolen!")
		},
		CardMimicry: mimic,
	}
}

// mimic replays the opponent's most recent card action as the mimic's own.
// The nested dispatch shares the flip stream, so its flips consume the next
// unused values, and the mimicked card becomes the new last action so that
// mimics can themselves be mimicked.
func mimic(d *draft, a UseAction, s *FlipStream) {
	last := d.prev
	if last == nil || last.PlayerID == a.Player || last.CardID == CardMimicry {
		d.notify(NoteError, "Nothing to mimic.")
		return
	}
	def := Cards.Def(last.CardID)
	d.logf("%s mimics %s!", d.st.Players[a.Player].Name, def.Name)
	dispatchCardEffect(d, a, def, s)
	d.st.Last = &LastAction{PlayerID: a.Player, CardID: def.ID}
}
