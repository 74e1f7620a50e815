package game

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// CardID identifies a card definition in the catalog.
type CardID string

// Catalog card ids.
const (
	CardSmallSize  CardID = "small_size"
	CardMediumSize CardID = "medium_size"
	CardBigSize    CardID = "big_size"

	CardSpikyBody       CardID = "spiky_body"
	CardArmoredExo      CardID = "armored_exoskeleton"
	CardClawAttack      CardID = "claw_attack"
	CardWhiskers        CardID = "whiskers"
	CardStrongJaw       CardID = "strong_jaw"
	CardBite            CardID = "bite"
	CardFur             CardID = "fur"
	CardThickFur        CardID = "thick_fur"
	CardHindLegsStance  CardID = "stand_hind_legs"
	CardSwimsWell       CardID = "swims_well"
	CardStrongBuild     CardID = "strong_build"
	CardLargeHindLegs   CardID = "large_hind_legs"
	CardBigClaws        CardID = "big_claws"
	CardStrongTail      CardID = "strong_tail"
	CardArmoredScales   CardID = "armored_scales"
	CardWaterCamo       CardID = "camouflage_water"
	CardDeathRoll       CardID = "death_roll"
	CardSwimFast        CardID = "swim_fast"
	CardAmbushAttack    CardID = "ambush_attack"
	CardKeenEyesight    CardID = "keen_eyesight"
	CardGraspingTalons  CardID = "grasping_talons"
	CardPoisonSkin      CardID = "poison_skin"
	CardDiveBomb        CardID = "dive_bomb"
	CardPiercingBeak    CardID = "piercing_beak"
	CardBarbedQuills    CardID = "barbed_quills"
	CardVenomousFangs   CardID = "venomous_fangs"
	CardCrushingWeight  CardID = "crushing_weight"
	CardAmphibious      CardID = "amphibious"
	CardCamouflage      CardID = "camouflage"
	CardLeech           CardID = "leech"

	CardShortBurst     CardID = "short_burst"
	CardConfuse        CardID = "confuse"
	CardIntelligence   CardID = "intelligence"
	CardDig            CardID = "dig"
	CardFreeze         CardID = "freeze"
	CardRoar           CardID = "roar"
	CardHibernate      CardID = "hibernate"
	CardLoudHiss       CardID = "loud_hiss"
	CardFlight         CardID = "flight"
	CardToxicSpit      CardID = "toxic_spit"
	CardRegeneration   CardID = "regeneration"
	CardFocus          CardID = "focus"
	CardAdrenalineRush CardID = "adrenaline_rush"
	CardStickyTongue   CardID = "sticky_tongue"
	CardShedSkin       CardID = "shed_skin"
	CardRage           CardID = "rage"
	CardTerritorial    CardID = "territorial_display"
	CardMimicry        CardID = "mimicry"
	CardExhaustingRoar CardID = "exhausting_roar"
	CardSwiftReflexes  CardID = "swift_reflexes"
	CardEnhancedSmell  CardID = "enhanced_smell"
	CardCopycat        CardID = "copycat"
	CardAgile          CardID = "agile"

	CardEvolve CardID = "evolve"
)

// CardDef is an immutable catalog entry. Kinds and Habitats are nil when the
// card is compatible with every creature kind / habitat.
type CardDef struct {
	ID          CardID          `yaml:"id"`
	Name        string          `yaml:"name"`
	Category    CardCategory    `yaml:"category"`
	Consumable  ConsumableClass `yaml:"consumable"`
	Kinds       []CreatureKind  `yaml:"kinds"`
	Habitats    []Habitat       `yaml:"habitats"`
	StaminaCost int             `yaml:"stamina_cost"`
	UpgradeOf   []CardID        `yaml:"upgrade_of"`
	MaxCharges  int             `yaml:"max_charges"`
}

// IsUpgrade reports whether the card replaces a base card in formation
// rather than occupying a new slot.
func (d CardDef) IsUpgrade() bool { return len(d.UpgradeOf) > 0 }

// CompatibleWith reports whether the card can be used by the given kind.
func (d CardDef) CompatibleWith(kind CreatureKind) bool {
	if len(d.Kinds) == 0 {
		return true
	}
	for _, k := range d.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Upgrades reports whether the card upgrades the given base definition.
func (d CardDef) Upgrades(base CardID) bool {
	for _, id := range d.UpgradeOf {
		if id == base {
			return true
		}
	}
	return false
}

// Catalog maps card ids to definitions. The engine consults the package
// catalog through Cards; an arbitrary catalog may be merged in from YAML.
type Catalog map[CardID]CardDef

// Def returns the definition for id. Unknown ids yield a zero definition,
// which fails every compatibility check.
func (c Catalog) Def(id CardID) CardDef { return c[id] }

// Merge overlays defs from other onto c, replacing entries with the same id.
func (c Catalog) Merge(other Catalog) {
	for id, def := range other {
		c[id] = def
	}
}

// SizeCard returns the catalog id of the size card for a size class.
func SizeCard(size SizeClass) CardID {
	switch size {
	case SizeSmall:
		return CardSmallSize
	case SizeMedium:
		return CardMediumSize
	default:
		return CardBigSize
	}
}

func mammal() []CreatureKind  { return []CreatureKind{KindMammal} }
func reptile() []CreatureKind { return []CreatureKind{KindReptile} }
func avian() []CreatureKind   { return []CreatureKind{KindAvian} }

// Cards is the active catalog.
var Cards = DefaultCatalog()

// DefaultCatalog builds the built-in card set.
func DefaultCatalog() Catalog {
	defs := []CardDef{
		{ID: CardSmallSize, Name: "Small Size", Category: CategorySize, Consumable: ConsumableNone},
		{ID: CardMediumSize, Name: "Medium Size", Category: CategorySize, Consumable: ConsumableNone},
		{ID: CardBigSize, Name: "Big Size", Category: CategorySize, Consumable: ConsumableNone},

		{ID: CardEvolve, Name: "Evolve", Category: CategorySpecial, Consumable: ConsumableImpact, StaminaCost: 2},

		{ID: CardSpikyBody, Name: "Spiky Body", Category: CategoryPhysical, Kinds: []CreatureKind{KindMammal, KindReptile}},
		{ID: CardArmoredExo, Name: "Armored Exoskeleton", Category: CategoryPhysical, Kinds: []CreatureKind{KindMammal, KindReptile}, Habitats: []Habitat{HabitatDesert}},
		{ID: CardClawAttack, Name: "Claw Attack", Category: CategoryPhysical, Kinds: []CreatureKind{KindAvian, KindReptile, KindMammal}, StaminaCost: 1},
		{ID: CardCamouflage, Name: "Camouflage", Category: CategoryPhysical, MaxCharges: 2},
		{ID: CardWhiskers, Name: "Whiskers", Category: CategoryPhysical, Kinds: mammal()},
		{ID: CardStrongJaw, Name: "Strong Jaw Grip", Category: CategoryPhysical, Kinds: []CreatureKind{KindMammal, KindReptile}, StaminaCost: 2, UpgradeOf: []CardID{CardBite}},
		{ID: CardBite, Name: "Bite", Category: CategoryPhysical, Kinds: []CreatureKind{KindMammal, KindReptile, KindAvian}, StaminaCost: 1},
		{ID: CardFur, Name: "Fur", Category: CategoryPhysical, Kinds: mammal()},
		{ID: CardThickFur, Name: "Thick Fur", Category: CategoryPhysical, Kinds: mammal()},
		{ID: CardHindLegsStance, Name: "Stand on Hind Legs", Category: CategoryPhysical, Kinds: mammal()},
		{ID: CardSwimsWell, Name: "Swims Well", Category: CategoryPhysical, Kinds: []CreatureKind{KindMammal, KindAmphibian}, Habitats: []Habitat{HabitatWater}},
		{ID: CardStrongBuild, Name: "Strong Build", Category: CategoryPhysical, Kinds: []CreatureKind{KindMammal, KindReptile}},
		{ID: CardLargeHindLegs, Name: "Large Hind Legs", Category: CategoryPhysical, Kinds: []CreatureKind{KindMammal, KindAvian, KindAmphibian}, StaminaCost: 1},
		{ID: CardBigClaws, Name: "Big Claws", Category: CategoryPhysical, Kinds: []CreatureKind{KindMammal, KindReptile}, StaminaCost: 1, UpgradeOf: []CardID{CardClawAttack}},
		{ID: CardStrongTail, Name: "Strong Tail", Category: CategoryPhysical, Kinds: []CreatureKind{KindReptile, KindMammal}, StaminaCost: 1},
		{ID: CardArmoredScales, Name: "Armored Scales", Category: CategoryPhysical, Kinds: reptile()},
		{ID: CardDeathRoll, Name: "Death Roll", Category: CategoryPhysical, Kinds: reptile(), Habitats: []Habitat{HabitatWater}, StaminaCost: 2, UpgradeOf: []CardID{CardBite, CardStrongJaw, CardVenomousFangs}},
		{ID: CardWaterCamo, Name: "Camouflage in Water", Category: CategoryPhysical, Kinds: []CreatureKind{KindReptile, KindAmphibian}, Habitats: []Habitat{HabitatWater}},
		{ID: CardSwimFast, Name: "Swim Fast", Category: CategoryPhysical, Kinds: []CreatureKind{KindReptile, KindAmphibian}, Habitats: []Habitat{HabitatWater}, StaminaCost: 1},
		{ID: CardAmbushAttack, Name: "Ambush Attack", Category: CategoryPhysical, Kinds: []CreatureKind{KindReptile, KindMammal}, Habitats: []Habitat{HabitatForest}, StaminaCost: 1},
		{ID: CardKeenEyesight, Name: "Keen Eyesight", Category: CategoryPhysical, Kinds: avian()},
		{ID: CardGraspingTalons, Name: "Grasping Talons", Category: CategoryPhysical, Kinds: avian(), StaminaCost: 1},
		{ID: CardPoisonSkin, Name: "Poison Skin", Category: CategoryPhysical, Kinds: []CreatureKind{KindAmphibian, KindReptile}},
		{ID: CardDiveBomb, Name: "Dive Bomb", Category: CategoryPhysical, Kinds: avian(), StaminaCost: 2},
		{ID: CardPiercingBeak, Name: "Piercing Beak", Category: CategoryPhysical, Kinds: avian(), StaminaCost: 1},
		{ID: CardBarbedQuills, Name: "Barbed Quills", Category: CategoryPhysical, Kinds: mammal()},
		{ID: CardVenomousFangs, Name: "Venomous Fangs", Category: CategoryPhysical, Kinds: []CreatureKind{KindReptile, KindMammal}, StaminaCost: 1},
		{ID: CardCrushingWeight, Name: "Crushing Weight", Category: CategoryPhysical, StaminaCost: 2},
		{ID: CardAmphibious, Name: "Amphibious", Category: CategoryPhysical, Kinds: []CreatureKind{KindAmphibian}, Habitats: []Habitat{HabitatWater}},
		{ID: CardLeech, Name: "Leech", Category: CategoryPhysical, Kinds: []CreatureKind{KindAmphibian, KindReptile}, StaminaCost: 1},

		{ID: CardShortBurst, Name: "Short Burst", Category: CategoryAbility},
		{ID: CardConfuse, Name: "Confuse", Category: CategoryAbility, StaminaCost: 1},
		{ID: CardIntelligence, Name: "Intelligence", Category: CategoryAbility, Kinds: []CreatureKind{KindMammal, KindAvian}},
		{ID: CardDig, Name: "Dig", Category: CategoryAbility, Kinds: []CreatureKind{KindMammal, KindReptile, KindAmphibian}, StaminaCost: 1},
		{ID: CardFreeze, Name: "Freeze", Category: CategoryAbility, StaminaCost: 1},
		{ID: CardRoar, Name: "Roar", Category: CategoryAbility, Kinds: []CreatureKind{KindMammal, KindReptile}, StaminaCost: 1},
		{ID: CardHibernate, Name: "Hibernate", Category: CategoryAbility, Kinds: []CreatureKind{KindMammal, KindReptile, KindAmphibian}, StaminaCost: 2},
		{ID: CardLoudHiss, Name: "Loud Hiss", Category: CategoryAbility, Kinds: reptile()},
		{ID: CardFlight, Name: "Flight", Category: CategoryAbility, Kinds: avian(), StaminaCost: 1},
		{ID: CardToxicSpit, Name: "Toxic Spit", Category: CategoryAbility, Kinds: []CreatureKind{KindReptile, KindAmphibian}, StaminaCost: 1},
		{ID: CardRegeneration, Name: "Regeneration", Category: CategoryAbility, Consumable: ConsumableImpact, Kinds: []CreatureKind{KindReptile, KindAmphibian}, StaminaCost: 2},
		{ID: CardFocus, Name: "Focus", Category: CategoryAbility, Consumable: ConsumableImpact, StaminaCost: 1},
		{ID: CardAdrenalineRush, Name: "Adrenaline Rush", Category: CategoryAbility},
		{ID: CardStickyTongue, Name: "Sticky Tongue", Category: CategoryAbility, Kinds: []CreatureKind{KindAmphibian, KindReptile}, StaminaCost: 1},
		{ID: CardShedSkin, Name: "Shed Skin", Category: CategoryAbility, Kinds: []CreatureKind{KindReptile, KindAmphibian}, StaminaCost: 1},
		{ID: CardRage, Name: "Rage", Category: CategoryAbility, Kinds: mammal(), StaminaCost: 2},
		{ID: CardTerritorial, Name: "Territorial Display", Category: CategoryAbility, StaminaCost: 1},
		{ID: CardMimicry, Name: "Mimicry", Category: CategoryAbility, Kinds: avian(), StaminaCost: 1},
		{ID: CardExhaustingRoar, Name: "Exhausting Roar", Category: CategoryAbility, Kinds: mammal(), StaminaCost: 1},
		{ID: CardSwiftReflexes, Name: "Swift Reflexes", Category: CategoryAbility, Kinds: []CreatureKind{KindMammal, KindAvian}},
		{ID: CardEnhancedSmell, Name: "Enhanced Smell", Category: CategoryAbility, Kinds: mammal()},
		{ID: CardCopycat, Name: "Copycat", Category: CategoryAbility, Kinds: avian(), StaminaCost: 1},
		{ID: CardAgile, Name: "Agile", Category: CategoryAbility, StaminaCost: 1},
	}

	catalog := make(Catalog, len(defs))
	for _, d := range defs {
		if d.Consumable == "" {
			d.Consumable = ConsumableNone
		}
		catalog[d.ID] = d
	}
	return catalog
}

// LoadCatalog decodes a YAML card list into a Catalog. An entry with an id
// already present in the default catalog replaces it on Merge, so arbitrary
// card sets can be layered over the built-ins.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var defs []CardDef
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	catalog := make(Catalog, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", d.Name)
		}
		if d.Consumable == "" {
			d.Consumable = ConsumableNone
		}
		catalog[d.ID] = d
	}
	return catalog, nil
}

// Validate checks catalog-internal invariants: upgrade targets resolve and
// categories are known.
func (c Catalog) Validate() error {
	for id, def := range c {
		switch def.Category {
		case CategoryPhysical, CategoryAbility, CategorySize, CategorySpecial:
		default:
			return fmt.Errorf("card %s: unknown category %q", id, def.Category)
		}
		for _, base := range def.UpgradeOf {
			if _, ok := c[base]; !ok {
				return fmt.Errorf("card %s: upgrade base %s not in catalog", id, base)
			}
		}
	}
	return nil
}
