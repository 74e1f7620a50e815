package game

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"
)

const (
	deckPhysicalCount = 12
	deckAbilityCount  = 6
	handPhysicalDeal  = 3
	handAbilityDeal   = 3
)

// sizeBaselines derives HP and stamina pools from the size class.
func sizeBaselines(size SizeClass) (hp, stamina int) {
	switch size {
	case SizeSmall:
		return 10, 4
	case SizeMedium:
		return 15, 3
	default:
		return 20, 2
	}
}

func newInstance(def CardDef) CardInstance {
	return CardInstance{
		InstanceID: uuid.NewString(),
		DefID:      def.ID,
		Charges:    def.MaxCharges,
	}
}

// generateDeck builds the instance list for a fresh player: the matching
// size card plus random compatible picks from the physical and
// ability/special pools, plus the evolution card.
func generateDeck(kind CreatureKind, size SizeClass, rng *rand.Rand) []CardInstance {
	var physicalPool, abilityPool []CardDef
	for _, id := range sortedCardIDs() {
		def := Cards.Def(id)
		if !def.CompatibleWith(kind) {
			continue
		}
		switch def.Category {
		case CategoryPhysical:
			physicalPool = append(physicalPool, def)
		case CategoryAbility, CategorySpecial:
			if def.ID != CardEvolve {
				abilityPool = append(abilityPool, def)
			}
		}
	}

	deck := []CardInstance{newInstance(Cards.Def(SizeCard(size)))}
	for i := 0; i < deckPhysicalCount; i++ {
		deck = append(deck, newInstance(physicalPool[rng.Intn(len(physicalPool))]))
	}
	for i := 0; i < deckAbilityCount; i++ {
		deck = append(deck, newInstance(abilityPool[rng.Intn(len(abilityPool))]))
	}
	deck = append(deck, newInstance(Cards.Def(CardEvolve)))
	return deck
}

// sortedCardIDs returns the catalog ids in a stable order so that deck
// generation is reproducible for a given rand source.
func sortedCardIDs() []CardID {
	ids := make([]CardID, 0, len(Cards))
	for id := range Cards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NewPlayer builds a starting player: random creature kind and size, a
// generated compatible deck, the size card auto-equipped into formation, an
// initial hand of three Physical and three Ability/Special cards dealt
// without duplicate definitions, and the shuffled remainder as the deck.
func NewPlayer(id, name string, rng *rand.Rand) *PlayerState {
	kind := AllKinds[rng.Intn(len(AllKinds))]
	size := AllSizes[rng.Intn(len(AllSizes))]
	return NewPlayerWith(id, name, kind, size, rng)
}

// NewPlayerWith builds a starting player with a fixed kind and size.
func NewPlayerWith(id, name string, kind CreatureKind, size SizeClass, rng *rand.Rand) *PlayerState {
	deck := generateDeck(kind, size, rng)

	var formation []CardInstance
	var physicals, abilities []CardInstance
	for _, c := range deck {
		switch Cards.Def(c.DefID).Category {
		case CategorySize:
			formation = append(formation, c)
		case CategoryPhysical:
			physicals = append(physicals, c)
		default:
			abilities = append(abilities, c)
		}
	}

	var hand, remainder []CardInstance
	seen := map[CardID]bool{}
	deal := func(queue []CardInstance, want int) {
		dealt := 0
		for _, c := range queue {
			if dealt < want && !seen[c.DefID] {
				hand = append(hand, c)
				seen[c.DefID] = true
				dealt++
				continue
			}
			remainder = append(remainder, c)
		}
	}
	deal(physicals, handPhysicalDeal)
	deal(abilities, handAbilityDeal)

	rng.Shuffle(len(remainder), func(i, j int) {
		remainder[i], remainder[j] = remainder[j], remainder[i]
	})

	hp, stamina := sizeBaselines(size)
	return &PlayerState{
		ID:         id,
		Name:       name,
		HP:         hp,
		MaxHP:      hp,
		Stamina:    stamina,
		MaxStamina: stamina,
		Kind:       kind,
		Size:       size,
		Hand:       hand,
		Deck:       remainder,
		Formation:  formation,
	}
}

// NewGame assembles the initial state for a match. Starting bonuses (habitat
// and formation passives) are applied by the InitGame transition, not here.
func NewGame(habitat Habitat, first *PlayerState, second *PlayerState) *GameState {
	players := map[string]*PlayerState{first.ID: first}
	if second != nil {
		// A nil second seat leaves the match waiting for a joiner.
		players[second.ID] = second
	}
	return &GameState{
		GameID:        uuid.NewString(),
		Habitat:       habitat,
		Turn:          1,
		CurrentPlayer: first.ID,
		Players:       players,
		Phase:         PhaseAction,
		Log:           []string{fmt.Sprintf("[T1] Battle begins in the %s habitat.", habitat)},
	}
}
