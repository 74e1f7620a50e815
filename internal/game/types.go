package game

// CreatureKind classifies a player's creature. Card compatibility is keyed
// off this value.
type CreatureKind string

const (
	KindMammal    CreatureKind = "Mammal"
	KindReptile   CreatureKind = "Reptile"
	KindAvian     CreatureKind = "Avian"
	KindAmphibian CreatureKind = "Amphibian"
)

// AllKinds lists every creature kind in a stable order.
var AllKinds = []CreatureKind{KindMammal, KindReptile, KindAvian, KindAmphibian}

// Habitat is the battlefield terrain. It modifies damage, regeneration and
// unlocks the once-per-game habitat action.
type Habitat string

const (
	HabitatDesert Habitat = "Desert"
	HabitatForest Habitat = "Forest"
	HabitatWater  Habitat = "Water"
	HabitatArena  Habitat = "Arena"
)

// AllHabitats lists every habitat in a stable order.
var AllHabitats = []Habitat{HabitatDesert, HabitatForest, HabitatWater, HabitatArena}

// SizeClass determines HP/stamina baselines: Small trades HP for stamina,
// Big the inverse.
type SizeClass string

const (
	SizeSmall  SizeClass = "Small"
	SizeMedium SizeClass = "Medium"
	SizeBig    SizeClass = "Big"
)

// AllSizes lists every size class in a stable order.
var AllSizes = []SizeClass{SizeSmall, SizeMedium, SizeBig}

// CardCategory is the broad card classification. Formation holds at most
// five Physical and five Ability cards at a time.
type CardCategory string

const (
	CategoryPhysical CardCategory = "Physical"
	CategoryAbility  CardCategory = "Ability"
	CategorySize     CardCategory = "Size"
	CategorySpecial  CardCategory = "Special"
)

// ConsumableClass marks how a card leaves play once used.
type ConsumableClass string

const (
	ConsumableNone      ConsumableClass = "None"
	ConsumablePermanent ConsumableClass = "PermanentUtility"
	ConsumableImpact    ConsumableClass = "ConsumableImpact"
)

// StatusType is the closed vocabulary of status effects.
type StatusType string

const (
	StatusPoisoned     StatusType = "Poisoned"
	StatusStuck        StatusType = "Stuck"
	StatusGrappled     StatusType = "Grappled"
	StatusConfused     StatusType = "Confused"
	StatusHidden       StatusType = "Hidden"
	StatusCamouflaged  StatusType = "Camouflaged"
	StatusFlying       StatusType = "Flying"
	StatusCannotAttack StatusType = "CannotAttack"
	StatusCannotEvade  StatusType = "CannotEvade"
	StatusAccurate     StatusType = "Accurate"
	StatusDamageBuff   StatusType = "DamageBuff"
	StatusStaminaDebt  StatusType = "StaminaDebt"
	StatusEvading      StatusType = "Evading"
	StatusChasing      StatusType = "Chasing"
	StatusClimbing     StatusType = "Climbing"
	StatusLeeched      StatusType = "Leeched"
	StatusIntimidating StatusType = "Intimidating"
)

// Status is one active effect on a player. Duration counts down once per
// owner turn start; zero means permanent until explicitly cleared. SourceID
// attributes the effect to the player who applied it (Leech heals its
// source); it is empty for self-inflicted or unattributed statuses.
type Status struct {
	Type     StatusType `json:"type"`
	Duration int        `json:"duration,omitempty"`
	SourceID string     `json:"source_id,omitempty"`
}

// Permanent reports whether the status never expires by time.
func (s Status) Permanent() bool { return s.Duration == 0 }

// CardInstance is a unique copy of a catalog card. An instance lives in
// exactly one zone at a time and is never duplicated.
type CardInstance struct {
	InstanceID string `json:"instance_id"`
	DefID      CardID `json:"def_id"`
	Charges    int    `json:"charges,omitempty"`
}

// PlayerState is the full per-player state: identity, pools, the four
// disjoint card zones and active statuses.
type PlayerState struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	HP         int `json:"hp"`
	MaxHP      int `json:"max_hp"`
	Stamina    int `json:"stamina"`
	MaxStamina int `json:"max_stamina"`

	Kind CreatureKind `json:"kind"`
	Size SizeClass    `json:"size"`

	Hand      []CardInstance `json:"hand"`
	Deck      []CardInstance `json:"deck"` // draw order matters, index 0 is the top
	Discard   []CardInstance `json:"discard"`
	Formation []CardInstance `json:"formation"`

	Statuses []Status `json:"statuses"`

	CardsPlayedThisTurn int  `json:"cards_played_this_turn"`
	HasActedThisTurn    bool `json:"has_acted_this_turn"`
	GuaranteedHeads     bool `json:"guaranteed_heads"`
	UsedHabitatHide     bool `json:"used_habitat_hide"`
}

// Phase is the coarse game phase.
type Phase string

const (
	PhaseStart  Phase = "start"
	PhaseAction Phase = "action"
	PhaseEnd    Phase = "end"
)

// FlipResult is the outcome of a coin flip.
type FlipResult string

const (
	Heads FlipResult = "Heads"
	Tails FlipResult = "Tails"
)

// CoinFlipEvent records the most recent flip for audit and display.
type CoinFlipEvent struct {
	ID     string     `json:"id"`
	Result FlipResult `json:"result"`
	Reason string     `json:"reason"`
}

// NoteLevel grades a user-visible notification.
type NoteLevel string

const (
	NoteInfo    NoteLevel = "info"
	NoteError   NoteLevel = "error"
	NoteSuccess NoteLevel = "success"
	NoteWarning NoteLevel = "warning"
)

// Notification is a transient UI message queued on the state. Rejected
// transitions surface their reason here rather than as an error.
type Notification struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Level   NoteLevel `json:"level"`
}

// PendingReaction is an unresolved interrupt: the defender may evade an
// incoming attack before damage lands. While set, only ResolveAgile from
// TargetID is accepted.
type PendingReaction struct {
	AttackerID   string `json:"attacker_id"`
	TargetID     string `json:"target_id"`
	AttackCardID CardID `json:"attack_card_id"`
}

// PendingChoice is an unresolved interrupt: the actor must pick one of the
// named options. While set, only ResolveChoice from PlayerID is accepted.
type PendingChoice struct {
	PlayerID       string   `json:"player_id"`
	CardID         CardID   `json:"card_id"`
	Options        []string `json:"options"`
	TargetPlayerID string   `json:"target_player_id"`
}

// LastAction records the most recently resolved card action, consumed by
// copy-the-last-move effects.
type LastAction struct {
	PlayerID string `json:"player_id"`
	CardID   CardID `json:"card_id"`
}

// GameState is the single authoritative state value. It is created once per
// match and thereafter only replaced by Resolve.
type GameState struct {
	GameID        string                  `json:"game_id"`
	Habitat       Habitat                 `json:"habitat"`
	Turn          int                     `json:"turn"`
	CurrentPlayer string                  `json:"current_player"`
	Players       map[string]*PlayerState `json:"players"`
	Log           []string                `json:"log"`
	Winner        string                  `json:"winner,omitempty"`
	Phase         Phase                   `json:"phase"`

	Notifications   []Notification   `json:"notifications"`
	ActiveFlip      *CoinFlipEvent   `json:"active_flip,omitempty"`
	PendingReaction *PendingReaction `json:"pending_reaction,omitempty"`
	PendingChoice   *PendingChoice   `json:"pending_choice,omitempty"`
	Last            *LastAction      `json:"last_action,omitempty"`

	// IDSeq feeds deterministic id generation. It only ever increases, so
	// dismissing a notification can never free an id for reuse.
	IDSeq int `json:"id_seq,omitempty"`
}

// Player returns the named player, or nil.
func (g *GameState) Player(id string) *PlayerState {
	return g.Players[id]
}

// OpponentOf returns the id of the other participant.
func (g *GameState) OpponentOf(id string) string {
	for pid := range g.Players {
		if pid != id {
			return pid
		}
	}
	return ""
}

// Over reports whether a winner has been decided.
func (g *GameState) Over() bool { return g.Phase == PhaseEnd }

// CountCategory counts formation cards of the given category.
func (p *PlayerState) CountCategory(cat CardCategory) int {
	n := 0
	for _, c := range p.Formation {
		if Cards.Def(c.DefID).Category == cat {
			n++
		}
	}
	return n
}

// HasInFormation reports whether a card with the given definition is in play.
func (p *PlayerState) HasInFormation(id CardID) bool {
	for _, c := range p.Formation {
		if c.DefID == id {
			return true
		}
	}
	return false
}

// FormationCard returns the formation instance with the given instance id.
func (p *PlayerState) FormationCard(instanceID string) (CardInstance, bool) {
	for _, c := range p.Formation {
		if c.InstanceID == instanceID {
			return c, true
		}
	}
	return CardInstance{}, false
}

// HandCard returns the hand instance with the given instance id.
func (p *PlayerState) HandCard(instanceID string) (CardInstance, bool) {
	for _, c := range p.Hand {
		if c.InstanceID == instanceID {
			return c, true
		}
	}
	return CardInstance{}, false
}

// clonePlayer deep-copies a player including zones and statuses.
func clonePlayer(p *PlayerState) *PlayerState {
	cp := *p
	cp.Hand = append([]CardInstance(nil), p.Hand...)
	cp.Deck = append([]CardInstance(nil), p.Deck...)
	cp.Discard = append([]CardInstance(nil), p.Discard...)
	cp.Formation = append([]CardInstance(nil), p.Formation...)
	cp.Statuses = append([]Status(nil), p.Statuses...)
	return &cp
}

// shallowClone copies the state header and top-level slices so that appends
// never alias the prior state. Player records are shared until touched; the
// resolver copies them on first write.
func (g *GameState) shallowClone() *GameState {
	cp := *g
	cp.Players = make(map[string]*PlayerState, len(g.Players))
	for id, p := range g.Players {
		cp.Players[id] = p
	}
	cp.Log = append([]string(nil), g.Log...)
	cp.Notifications = append([]Notification(nil), g.Notifications...)
	return &cp
}

// Clone returns a fully independent deep copy of the state.
func (g *GameState) Clone() *GameState {
	cp := g.shallowClone()
	for id, p := range cp.Players {
		cp.Players[id] = clonePlayer(p)
	}
	if g.ActiveFlip != nil {
		f := *g.ActiveFlip
		cp.ActiveFlip = &f
	}
	if g.PendingReaction != nil {
		r := *g.PendingReaction
		cp.PendingReaction = &r
	}
	if g.PendingChoice != nil {
		c := *g.PendingChoice
		c.Options = append([]string(nil), g.PendingChoice.Options...)
		cp.PendingChoice = &c
	}
	if g.Last != nil {
		l := *g.Last
		cp.Last = &l
	}
	return cp
}
