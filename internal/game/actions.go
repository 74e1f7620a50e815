package game

// ActionKind tags an action variant on the wire and in dispatch.
type ActionKind string

const (
	KindInitGame             ActionKind = "INIT_GAME"
	KindPlayCard             ActionKind = "PLAY_CARD"
	KindPlayEvolveCard       ActionKind = "PLAY_EVOLVE_CARD"
	KindPlayApexEvolution    ActionKind = "PLAY_APEX_EVOLUTION"
	KindUseAction            ActionKind = "USE_ACTION"
	KindResolveAgile         ActionKind = "RESOLVE_AGILE"
	KindResolveChoice        ActionKind = "RESOLVE_CHOICE"
	KindEndTurn              ActionKind = "END_TURN"
	KindClearPoison          ActionKind = "CLEAR_POISON"
	KindClearLeech           ActionKind = "CLEAR_LEECH"
	KindAttemptGrappleEscape ActionKind = "ATTEMPT_GRAPPLE_ESCAPE"
	KindUseHabitatAction     ActionKind = "USE_HABITAT_ACTION"
	KindAcknowledgeFlip      ActionKind = "ACKNOWLEDGE_COIN_FLIP"
	KindDismissNotification  ActionKind = "DISMISS_NOTIFICATION"
)

// ActionType distinguishes the two USE_ACTION flavors.
type ActionType string

const (
	ActionAttack  ActionType = "ATTACK"
	ActionAbility ActionType = "ABILITY"
)

// Action is one player-submitted transition input. Each variant carries
// exactly the fields it needs; transitions involving chance carry their
// randomness as an explicit float array consumed in resolution order.
type Action interface {
	Kind() ActionKind
	PlayerID() string
}

// InitGame replaces the entire state with a freshly constructed one and
// applies one-time starting bonuses.
type InitGame struct {
	State *GameState `json:"state"`
}

func (InitGame) Kind() ActionKind { return KindInitGame }
func (InitGame) PlayerID() string { return "" }

// PlayCard moves a hand card into formation, or replaces a base card when
// the played card is an upgrade. TargetInstanceID is optional for upgrades
// with a single eligible base.
type PlayCard struct {
	Player           string `json:"player"`
	CardInstanceID   string `json:"card_instance_id"`
	TargetInstanceID string `json:"target_instance_id,omitempty"`
}

func (a PlayCard) Kind() ActionKind { return KindPlayCard }
func (a PlayCard) PlayerID() string { return a.Player }

// PlayEvolveCard spends the evolution card to two-way swap a formation
// instance with a hand instance.
type PlayEvolveCard struct {
	Player            string `json:"player"`
	EvolveInstanceID  string `json:"evolve_instance_id"`
	TargetFormationID string `json:"target_formation_id"`
	ReplacementHandID string `json:"replacement_hand_id"`
}

func (a PlayEvolveCard) Kind() ActionKind { return KindPlayEvolveCard }
func (a PlayEvolveCard) PlayerID() string { return a.Player }

// PlayApexEvolution discards the apex card to transform a formation card in
// place into its registered upgrade.
type PlayApexEvolution struct {
	Player            string `json:"player"`
	ApexInstanceID    string `json:"apex_instance_id"`
	TargetFormationID string `json:"target_formation_id"`
}

func (a PlayApexEvolution) Kind() ActionKind { return KindPlayApexEvolution }
func (a PlayApexEvolution) PlayerID() string { return a.Player }

// UseAction performs an attack or ability with a formation card.
// TargetHandCardID is only meaningful for hand-stealing effects.
type UseAction struct {
	Player           string     `json:"player"`
	ActionType       ActionType `json:"action_type"`
	CardInstanceID   string     `json:"card_instance_id"`
	TargetPlayerID   string     `json:"target_player_id"`
	RNG              []float64  `json:"rng,omitempty"`
	TargetHandCardID string     `json:"target_hand_card_id,omitempty"`
}

func (a UseAction) Kind() ActionKind { return KindUseAction }
func (a UseAction) PlayerID() string { return a.Player }

// ResolveAgile answers a pending evade reaction.
type ResolveAgile struct {
	Player   string    `json:"player"`
	UseEvade bool      `json:"use_evade"`
	RNG      []float64 `json:"rng,omitempty"`
}

func (a ResolveAgile) Kind() ActionKind { return KindResolveAgile }
func (a ResolveAgile) PlayerID() string { return a.Player }

// ResolveChoice answers a pending multi-way choice.
type ResolveChoice struct {
	Player string    `json:"player"`
	Choice string    `json:"choice"`
	RNG    []float64 `json:"rng,omitempty"`
}

func (a ResolveChoice) Kind() ActionKind { return KindResolveChoice }
func (a ResolveChoice) PlayerID() string { return a.Player }

// EndTurn passes the turn and runs the next player's turn-start sequence.
type EndTurn struct {
	Player string    `json:"player"`
	RNG    []float64 `json:"rng,omitempty"`
}

func (a EndTurn) Kind() ActionKind { return KindEndTurn }
func (a EndTurn) PlayerID() string { return a.Player }

// ClearPoison spends 1 stamina and the turn's action to cure Poisoned.
type ClearPoison struct {
	Player string `json:"player"`
}

func (a ClearPoison) Kind() ActionKind { return KindClearPoison }
func (a ClearPoison) PlayerID() string { return a.Player }

// ClearLeech spends 1 stamina and the turn's action to remove Leeched.
type ClearLeech struct {
	Player string `json:"player"`
}

func (a ClearLeech) Kind() ActionKind { return KindClearLeech }
func (a ClearLeech) PlayerID() string { return a.Player }

// AttemptGrappleEscape flips to break a grapple; consumes the turn's action.
type AttemptGrappleEscape struct {
	Player string    `json:"player"`
	RNG    []float64 `json:"rng,omitempty"`
}

func (a AttemptGrappleEscape) Kind() ActionKind { return KindAttemptGrappleEscape }
func (a AttemptGrappleEscape) PlayerID() string { return a.Player }

// UseHabitatAction performs the once-per-game habitat hide attempt.
type UseHabitatAction struct {
	Player string    `json:"player"`
	RNG    []float64 `json:"rng,omitempty"`
}

func (a UseHabitatAction) Kind() ActionKind { return KindUseHabitatAction }
func (a UseHabitatAction) PlayerID() string { return a.Player }

// AcknowledgeFlip dismisses the displayed coin flip. Valid in any phase.
type AcknowledgeFlip struct {
	Player string `json:"player"`
}

func (a AcknowledgeFlip) Kind() ActionKind { return KindAcknowledgeFlip }
func (a AcknowledgeFlip) PlayerID() string { return a.Player }

// DismissNotification drops one queued notification. Valid in any phase.
type DismissNotification struct {
	Player string `json:"player"`
	NoteID string `json:"note_id"`
}

func (a DismissNotification) Kind() ActionKind { return KindDismissNotification }
func (a DismissNotification) PlayerID() string { return a.Player }
