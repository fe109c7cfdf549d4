package game

import (
	"math"

	"github.com/warlock/server/internal/catalog"
)

// DamageCalculator computes pre- and post-mitigation damage numbers.
// It is pure: all state it needs travels in through its arguments.
type DamageCalculator struct {
	bal *catalog.Balance
}

func NewDamageCalculator(bal *catalog.Balance) *DamageCalculator {
	return &DamageCalculator{bal: bal}
}

// Modified applies attacker modifiers, coordination and target
// vulnerability to the base damage, before armor.
func (c *DamageCalculator) Modified(base int, attackerMod, coordBonus, vulnerability float64) float64 {
	return float64(base) * attackerMod * (1 + coordBonus) * (1 + vulnerability)
}

// Mitigate applies armor reduction and floors the result.
func (c *DamageCalculator) Mitigate(modDmg float64, effectiveArmor int) int {
	reduction := c.bal.Armor.ReductionPerPoint * float64(effectiveArmor)
	if reduction > c.bal.Armor.MaxReduction {
		reduction = c.bal.Armor.MaxReduction
	}
	final := int(math.Floor(modDmg * (1 - reduction)))
	if final < 0 {
		final = 0
	}
	return final
}

// PlayerDamage runs the full player-target pipeline.
func (c *DamageCalculator) PlayerDamage(base int, attackerMod, coordBonus float64, target *Player) int {
	mod := c.Modified(base, attackerMod, coordBonus, target.Vulnerability())
	return c.Mitigate(mod, target.EffectiveArmor())
}

// MonsterDamage runs the monster-target pipeline. The monster wears no
// armor, so the modified value is simply floored.
func (c *DamageCalculator) MonsterDamage(base int, attackerMod, coordBonus float64) int {
	final := int(math.Floor(c.Modified(base, attackerMod, coordBonus, 0)))
	if final < 0 {
		final = 0
	}
	return final
}

// HealAmount applies the caster's healing modifier and floors.
func (c *DamageCalculator) HealAmount(base int, caster *Player) int {
	amount := int(math.Floor(float64(base) * caster.HealingMod(c.bal.Healing.MinModifier)))
	if amount < 0 {
		amount = 0
	}
	return amount
}
