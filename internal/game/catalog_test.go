package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogValid(t *testing.T) {
	assert.NoError(t, DefaultCatalog().Validate())
}

func TestUnknownIDYieldsZeroDef(t *testing.T) {
	def := Cards.Def("no_such_card")
	assert.Empty(t, def.ID)
	assert.False(t, def.CompatibleWith(KindMammal))
}

func TestCompatibleWith(t *testing.T) {
	fur := Cards.Def(CardFur)
	assert.True(t, fur.CompatibleWith(KindMammal))
	assert.False(t, fur.CompatibleWith(KindReptile))

	// No kind list means universal.
	assert.True(t, Cards.Def(CardShortBurst).CompatibleWith(KindAvian))
}

func TestUpgradeLinks(t *testing.T) {
	jaw := Cards.Def(CardStrongJaw)
	require.True(t, jaw.IsUpgrade())
	assert.True(t, jaw.Upgrades(CardBite))
	assert.False(t, jaw.Upgrades(CardClawAttack))

	assert.False(t, Cards.Def(CardBite).IsUpgrade())

	// Death Roll replaces any card on its jaw-line.
	roll := Cards.Def(CardDeathRoll)
	assert.True(t, roll.Upgrades(CardBite))
	assert.True(t, roll.Upgrades(CardStrongJaw))
	assert.True(t, roll.Upgrades(CardVenomousFangs))
}

func TestLoadCatalogOverlay(t *testing.T) {
	src := `
- id: bite
  name: Mega Bite
  category: Physical
  stamina_cost: 2
- id: laser_eyes
  name: Laser Eyes
  category: Ability
  kinds: [Avian]
  stamina_cost: 3
`
	overlay, err := LoadCatalog(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, overlay, 2)

	catalog := DefaultCatalog()
	catalog.Merge(overlay)

	assert.Equal(t, "Mega Bite", catalog.Def(CardBite).Name)
	assert.Equal(t, 2, catalog.Def(CardBite).StaminaCost)
	laser := catalog.Def("laser_eyes")
	assert.Equal(t, CategoryAbility, laser.Category)
	assert.Equal(t, ConsumableNone, laser.Consumable)
	assert.True(t, laser.CompatibleWith(KindAvian))
	assert.False(t, laser.CompatibleWith(KindMammal))
}

func TestLoadCatalogRejectsMissingID(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("- name: Nameless\n  category: Ability\n"))
	assert.Error(t, err)
}

func TestValidateRejectsBadCategory(t *testing.T) {
	catalog := DefaultCatalog()
	catalog["weird"] = CardDef{ID: "weird", Category: "Sorcery"}
	assert.Error(t, catalog.Validate())
}

func TestValidateRejectsDanglingUpgrade(t *testing.T) {
	catalog := DefaultCatalog()
	catalog["orphan"] = CardDef{ID: "orphan", Category: CategoryPhysical, UpgradeOf: []CardID{"missing_base"}}
	assert.Error(t, catalog.Validate())
}
