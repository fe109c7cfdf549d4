package game

import "github.com/warlock/server/internal/catalog"

// handleHeal covers single-target and party-wide heals. AoE heals skip
// warlocks when the balance policy says so; a warlock caster may still
// heal themselves.
func handleHeal(ctx *AbilityContext) {
	a := ctx.Ability
	r := ctx.Room
	base := int(a.Param("heal", 0))

	switch a.Target {
	case catalog.TargetMulti:
		for _, target := range r.alivePlayers() {
			if r.bal.Healing.ExcludeWarlocks && target.IsWarlock && target.ID != ctx.Actor.ID {
				continue
			}
			r.combat.Heal(ctx.Actor, target, base, a, ctx.Log)
		}
	case catalog.TargetSelf:
		r.combat.Heal(ctx.Actor, ctx.Actor, base, a, ctx.Log)
	default:
		target := ctx.Target
		if target == nil {
			target = ctx.Actor
		}
		r.combat.Heal(ctx.Actor, target, base, a, ctx.Log)
	}
}
