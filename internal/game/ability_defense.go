package game

// handleDefense covers the self-buff shapes: shields, counters, one-shot
// immunity, and invisibility. Resolution order puts these before attacks,
// so a shield raised this round already blunts this round's blows.
func handleDefense(ctx *AbilityContext) {
	a := ctx.Ability
	r := ctx.Room
	actor := ctx.Actor

	switch a.Effect {
	case "shield":
		r.status.Apply(actor, StatusEffect{
			Kind:      EffectShielded,
			Magnitude: a.Param("armor", 0),
			Turns:     int(a.Param("turns", 0)),
			Source:    actor.ID,
		}, ctx.Log)
	case "spiritGuard":
		actor.ClassEffects[ClassEffectSpiritGuard] = &ClassEffect{
			Kind:  ClassEffectSpiritGuard,
			Turns: int(a.Param("turns", 1)),
			Value: a.Param("counter_damage", 0),
		}
		ctx.logDefense()
	case "immune":
		r.status.Apply(actor, StatusEffect{
			Kind:   EffectImmuneNext,
			Turns:  int(a.Param("turns", 1)),
			Source: actor.ID,
		}, ctx.Log)
		ctx.logDefense()
	case "invisible":
		r.status.Apply(actor, StatusEffect{
			Kind:   EffectInvisible,
			Turns:  int(a.Param("turns", 1)),
			Source: actor.ID,
		}, ctx.Log)
	default:
		ctx.logDefense()
	}
}

func (ctx *AbilityContext) logDefense() {
	ctx.Log.Combat(EvDefense, ctx.Actor.ID, "", map[string]string{
		"attacker": ctx.Actor.Name,
		"ability":  ctx.Ability.Name,
	})
}
