package game

import "github.com/warlock/server/internal/catalog"

// handleAttack is the generic attack shape: base damage from params, an
// optional self-damage cost, and an optional status rider named by the
// ability's effect field.
func handleAttack(ctx *AbilityContext) {
	a := ctx.Ability
	r := ctx.Room
	base := int(a.Param("damage", 0))

	switch {
	case a.Target == catalog.TargetMulti:
		// AoE attacks hit every alive player except the caster. Conversion
		// chance is scaled down per the AoE modifier.
		for _, target := range r.alivePlayers() {
			if target.ID == ctx.Actor.ID {
				continue
			}
			dealt := r.combat.DamagePlayer(ctx.Actor, target, base, a, DamageOpts{AoE: true}, ctx.Log)
			if dealt > 0 && target.Alive && target.HP > 0 {
				applyRider(ctx, target)
			}
		}
	case ctx.Target == nil:
		// Monster-targeted, either by ability kind or by explicit target.
		r.combat.DamageMonster(ctx.Actor, base, a, ctx.Log)
	default:
		dealt := r.combat.DamagePlayer(ctx.Actor, ctx.Target, base, a, DamageOpts{}, ctx.Log)
		if dealt > 0 && ctx.Target.Alive && ctx.Target.HP > 0 {
			applyRider(ctx, ctx.Target)
		}
	}

	if self := int(a.Param("self_damage", 0)); self > 0 {
		r.combat.SelfDamage(ctx.Actor, self, ctx.Log)
	}
}

// applyRider attaches the ability's status effect to a surviving target.
func applyRider(ctx *AbilityContext, target *Player) {
	a := ctx.Ability
	switch a.Effect {
	case "poison":
		ctx.Room.status.Apply(target, StatusEffect{
			Kind:      EffectPoison,
			Magnitude: a.Param("poison_damage", 0),
			Turns:     int(a.Param("poison_turns", 0)),
			Source:    ctx.Actor.ID,
		}, ctx.Log)
	case "stun":
		ctx.Room.status.Apply(target, StatusEffect{
			Kind:   EffectStunned,
			Turns:  int(a.Param("stun_turns", 1)),
			Source: ctx.Actor.ID,
		}, ctx.Log)
	case "weakened":
		ctx.Room.status.Apply(target, StatusEffect{
			Kind:      EffectWeakened,
			Magnitude: a.Param("weaken", 0),
			Turns:     int(a.Param("weaken_turns", 1)),
			Source:    ctx.Actor.ID,
		}, ctx.Log)
	case "vulnerable":
		ctx.Room.status.Apply(target, StatusEffect{
			Kind:      EffectVulnerable,
			Magnitude: a.Param("vulnerability", 0),
			Turns:     int(a.Param("turns", 0)),
			Source:    ctx.Actor.ID,
		}, ctx.Log)
	}
}
