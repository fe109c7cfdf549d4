package game

import (
	"fmt"

	"github.com/warlock/server/internal/catalog"
)

// DamageOpts tweaks one pass through the damage pipeline.
type DamageOpts struct {
	AoE       bool // scales the conversion chance down
	NoCounter bool // counter hits never counter back
	NoConvert bool // counter/status damage never converts
	NoCoord   bool // self-damage and counters skip coordination
}

// CombatSystem orchestrates damage and healing application: immunity,
// armor, stone armor degradation, pending death, counters, conversion
// attempts and detection hooks.
type CombatSystem struct {
	room *Room
}

func NewCombatSystem(room *Room) *CombatSystem {
	return &CombatSystem{room: room}
}

// DamagePlayer runs the attacker→player pipeline and returns the final
// damage dealt.
func (c *CombatSystem) DamagePlayer(attacker, target *Player, base int, ability *catalog.Ability, opts DamageOpts, log *Log) int {
	r := c.room

	// Immunity consumes the flag and stops everything, including riders.
	if _, immune := target.Effects[EffectImmuneNext]; immune {
		r.status.Remove(target, EffectImmuneNext)
		attackerID := ""
		if attacker != nil {
			attackerID = attacker.ID
		}
		log.Combat(EvImmunity, attackerID, target.ID, map[string]string{
			"target": target.Name,
		})
		return 0
	}

	coord := 0.0
	attackerMod := 1.0
	attackerID := ""
	attackerName := "?"
	if attacker != nil {
		attackerID = attacker.ID
		attackerName = attacker.Name
		attackerMod = attacker.EffectiveDamageMod()
		if !opts.NoCoord {
			coord = r.coord.BonusFor(attacker.ID, target.ID)
		}
	}

	final := r.calc.PlayerDamage(base, attackerMod, coord, target)
	target.HP -= final
	if target.HP < 0 {
		target.HP = 0
	}
	target.Stats.DamageTaken += final
	abilityName := ""
	if ability != nil {
		abilityName = ability.Name
	}
	if attacker != nil {
		attacker.Stats.DamageDealt += final
	}
	log.Combat(EvDamage, attackerID, target.ID, map[string]string{
		"attacker": attackerName,
		"target":   target.Name,
		"ability":  abilityName,
		"amount":   fmt.Sprintf("%d", final),
	})

	c.degradeStoneArmor(target, log)

	if target.HP == 0 && !target.PendingDeath {
		target.PendingDeath = true
		target.DeathAttacker = attackerID
	}

	if attacker != nil {
		c.lifesteal(attacker, final, log)
		if !opts.NoCounter {
			c.counters(attacker, target, log)
		}
		if !opts.NoConvert && attacker.IsWarlock && !target.IsWarlock && target.Alive && target.HP > 0 {
			modifier := 1.0
			if opts.AoE {
				modifier = r.bal.Warlock.Conversion.AoEModifier
			}
			r.warlocks.AttemptConversion(attacker, target, log, modifier)
		}
		c.keenSenses(attacker, target, log)
	}
	return final
}

// DamageMonster runs the attacker→monster pipeline.
func (c *CombatSystem) DamageMonster(attacker *Player, base int, ability *catalog.Ability, log *Log) int {
	r := c.room
	coord := r.coord.BonusFor(attacker.ID, MonsterTargetID)
	final := r.calc.MonsterDamage(base, attacker.EffectiveDamageMod(), coord)
	r.monsterCtl.TakeDamage(final, attacker, ability, log)
	attacker.Stats.DamageDealt += final

	c.lifesteal(attacker, final, log)

	// Kinfolk feed on wounds dealt to the beast.
	if race := r.cat.Race(attacker.Race); race != nil && race.Racial.Effect == "lifeBond" && final > 0 {
		ratio := race.Racial.Params["heal_ratio"]
		healed := attacker.Heal(int(ratio * float64(final)))
		if healed > 0 {
			attacker.Stats.HealingDone += healed
			log.Private(EvLifeBond, []string{attacker.ID}, map[string]string{
				"amount": fmt.Sprintf("%d", healed),
			})
		}
	}
	return final
}

// MonsterStrike is the monster's attack against a player. No coordination,
// no conversion; counters wound the monster instead of a player.
func (c *CombatSystem) MonsterStrike(target *Player, base int, log *Log) {
	r := c.room

	if _, immune := target.Effects[EffectImmuneNext]; immune {
		r.status.Remove(target, EffectImmuneNext)
		log.Combat(EvImmunity, "", target.ID, map[string]string{
			"target": target.Name,
		})
		return
	}

	final := r.calc.PlayerDamage(base, 1.0, 0, target)
	target.HP -= final
	if target.HP < 0 {
		target.HP = 0
	}
	target.Stats.DamageTaken += final
	log.Combat(EvMonsterAttack, "", target.ID, map[string]string{
		"target": target.Name,
		"amount": fmt.Sprintf("%d", final),
	})

	c.degradeStoneArmor(target, log)

	if target.HP == 0 && !target.PendingDeath {
		target.PendingDeath = true
		target.DeathAttacker = MonsterTargetID
	}

	// Counter effects lash back at the monster.
	for _, kind := range []string{ClassEffectSpiritGuard, ClassEffectSanctuary} {
		if eff, ok := target.ClassEffects[kind]; ok {
			counter := int(eff.Value)
			r.monsterCtl.TakeDamage(counter, nil, nil, log)
			log.Combat(EvCounter, "", target.ID, map[string]string{
				"attacker": "the monster",
				"target":   target.Name,
				"amount":   fmt.Sprintf("%d", counter),
			})
		}
	}
}

// Heal applies a heal from caster to target, honoring the warlock healing
// policy, and returns the HP actually restored.
func (c *CombatSystem) Heal(caster, target *Player, base int, ability *catalog.Ability, log *Log) int {
	r := c.room
	if r.bal.Healing.RejectWarlockHealing && caster.IsWarlock && caster.ID != target.ID {
		return 0
	}
	amount := r.calc.HealAmount(base, caster)
	healed := target.Heal(amount)
	if healed > 0 {
		caster.Stats.HealingDone += healed
	}
	abilityName := ""
	if ability != nil {
		abilityName = ability.Name
	}
	log.Combat(EvHeal, caster.ID, target.ID, map[string]string{
		"attacker": caster.Name,
		"target":   target.Name,
		"ability":  abilityName,
		"amount":   fmt.Sprintf("%d", healed),
	})
	return healed
}

// SelfDamage applies recoil damage that bypasses armor, counters and
// conversion.
func (c *CombatSystem) SelfDamage(p *Player, amount int, log *Log) {
	if amount <= 0 || !p.Alive {
		return
	}
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
	p.Stats.DamageTaken += amount
	log.Combat(EvSelfDamage, p.ID, p.ID, map[string]string{
		"attacker": p.Name,
		"amount":   fmt.Sprintf("%d", amount),
	})
	if p.HP == 0 && !p.PendingDeath {
		p.PendingDeath = true
		p.DeathAttacker = p.ID
	}
}

func (c *CombatSystem) degradeStoneArmor(target *Player, log *Log) {
	if !target.Racial.StoneArmorIntact {
		return
	}
	target.Racial.StoneArmorValue--
	if target.Racial.StoneArmorValue <= 0 {
		target.Racial.StoneArmorIntact = false
		target.Racial.StoneArmorValue = 0
		log.Combat(EvStoneBreak, "", target.ID, map[string]string{
			"target": target.Name,
		})
		return
	}
	log.Combat(EvStoneDegrade, "", target.ID, map[string]string{
		"target": target.Name,
	})
}

func (c *CombatSystem) lifesteal(attacker *Player, dealt int, log *Log) {
	eff, ok := attacker.ClassEffects[ClassEffectLifesteal]
	if !ok || dealt <= 0 {
		return
	}
	healed := attacker.Heal(int(eff.Value * float64(dealt)))
	if healed > 0 {
		attacker.Stats.HealingDone += healed
		log.Combat(EvRegenTick, "", attacker.ID, map[string]string{
			"target": attacker.Name,
			"amount": fmt.Sprintf("%d", healed),
		})
	}
}

// counters resolves Spirit Guard and Sanctuary of Truth on the victim.
// Counter damage never counters back, so two guards cannot recurse.
func (c *CombatSystem) counters(attacker, target *Player, log *Log) {
	if eff, ok := target.ClassEffects[ClassEffectSpiritGuard]; ok && attacker.Alive {
		dmg := int(eff.Value)
		log.Combat(EvCounter, attacker.ID, target.ID, map[string]string{
			"attacker": attacker.Name,
			"target":   target.Name,
			"amount":   fmt.Sprintf("%d", dmg),
		})
		c.DamagePlayer(target, attacker, dmg, nil, DamageOpts{NoCounter: true, NoConvert: true, NoCoord: true}, log)
	}
	if eff, ok := target.ClassEffects[ClassEffectSanctuary]; ok && attacker.Alive {
		dmg := int(eff.Value)
		log.Combat(EvCounter, attacker.ID, target.ID, map[string]string{
			"attacker": attacker.Name,
			"target":   target.Name,
			"amount":   fmt.Sprintf("%d", dmg),
		})
		c.DamagePlayer(target, attacker, dmg, nil, DamageOpts{NoCounter: true, NoConvert: true, NoCoord: true}, log)
		if attacker.IsWarlock {
			log.Private(EvSanctuaryReveal, []string{target.ID}, map[string]string{
				"attacker": attacker.Name,
			})
		}
	}
}

// keenSenses gives Crestfallen victims a chance to sense a corrupted
// attacker. The reveal is private to the victim.
func (c *CombatSystem) keenSenses(attacker, target *Player, log *Log) {
	if !attacker.IsWarlock {
		return
	}
	race := c.room.cat.Race(target.Race)
	if race == nil || race.Racial.Effect != "keenSenses" {
		return
	}
	chance := race.Racial.Params["detect_chance"]
	if c.room.rng.Float64() < chance {
		log.Private(EvKeenSenses, []string{target.ID}, map[string]string{
			"attacker": attacker.Name,
		})
	}
}
