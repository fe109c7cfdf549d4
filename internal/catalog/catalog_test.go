package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadDir("../../data/yaml")
	require.NoError(t, err)
	return c
}

func TestLoadDir(t *testing.T) {
	c := loadTestCatalog(t)

	require.Len(t, c.Races(), 6)
	require.Len(t, c.Classes(), 6)

	for _, cl := range c.Classes() {
		require.Len(t, cl.Abilities, 4, "class %s", cl.ID)
		for _, a := range cl.Abilities {
			require.Equal(t, cl.ID, a.ClassID)
			require.GreaterOrEqual(t, a.UnlockAt, 1)
			require.Same(t, a, c.Ability(a.ID))
		}
	}

	for _, r := range c.Races() {
		require.NotNil(t, r.Racial, "race %s", r.ID)
		require.Equal(t, r.ID, r.Racial.RaceID)
	}
}

func TestEveryClassHasLevelOneAbility(t *testing.T) {
	c := loadTestCatalog(t)
	for _, cl := range c.Classes() {
		found := false
		for _, a := range cl.Abilities {
			if a.UnlockAt == 1 {
				found = true
			}
		}
		require.True(t, found, "class %s has no ability unlocked at level 1", cl.ID)
	}
}

func TestCompatibility(t *testing.T) {
	c := loadTestCatalog(t)

	require.True(t, c.Compatible("artisan", "wizard"))
	require.True(t, c.Compatible("orc", "barbarian"))
	require.False(t, c.Compatible("orc", "wizard"))
	require.False(t, c.Compatible("nosuch", "warrior"))
	require.False(t, c.Compatible("artisan", "nosuch"))

	// Every race can play something, every class is playable by someone.
	playable := map[string]bool{}
	for _, r := range c.Races() {
		any := false
		for _, cl := range c.Classes() {
			if c.Compatible(r.ID, cl.ID) {
				any = true
				playable[cl.ID] = true
			}
		}
		require.True(t, any, "race %s has no compatible class", r.ID)
	}
	for _, cl := range c.Classes() {
		require.True(t, playable[cl.ID], "class %s unreachable", cl.ID)
	}
}

func TestBalanceOverlay(t *testing.T) {
	c := loadTestCatalog(t)
	b := c.Balance()

	require.Equal(t, 100, b.Monster.BaseHP)
	require.Equal(t, 100, b.MonsterHP(1))
	require.Equal(t, 150, b.MonsterHP(2))
	require.Equal(t, 10, b.MonsterDamage(0))
	require.Equal(t, 12, b.MonsterDamage(1)) // floor(10*1.25)
	require.Equal(t, 0.15, b.Coordination.BonusPerAttacker)
	require.Equal(t, 0.2, b.Warlock.Conversion.BaseChance)
}

func TestStatusDefaults(t *testing.T) {
	c := loadTestCatalog(t)
	d, ok := c.StatusDefault("poison")
	require.True(t, ok)
	require.Equal(t, 5.0, d.Magnitude)
	require.Equal(t, 2, d.Turns)

	_, ok = c.StatusDefault("nosuch")
	require.False(t, ok)
}

func TestTemplatesPresentForCoreKinds(t *testing.T) {
	c := loadTestCatalog(t)
	for _, kind := range []string{"damage", "monster_damage", "monster_attack", "heal", "corruption", "corruption_public", "death", "resurrect", "level_up"} {
		tmpl := c.Template(kind)
		require.NotEqual(t, MessageTemplate{}, tmpl, "missing template %s", kind)
	}
}
