package game

// handleSpecial covers the oddballs: rage buffs, truth sanctuaries,
// lifesteal stances, taunts, and single-target marks.
func handleSpecial(ctx *AbilityContext) {
	a := ctx.Ability
	r := ctx.Room
	actor := ctx.Actor

	switch a.Effect {
	case "enrage":
		r.status.Apply(actor, StatusEffect{
			Kind:      EffectEnraged,
			Magnitude: a.Param("damage_bonus", 0),
			Turns:     int(a.Param("turns", 0)),
			Source:    actor.ID,
		}, ctx.Log)
	case "sanctuary":
		actor.ClassEffects[ClassEffectSanctuary] = &ClassEffect{
			Kind:  ClassEffectSanctuary,
			Turns: int(a.Param("turns", 1)),
			Value: a.Param("counter_damage", 0),
		}
		ctx.logDefense()
	case "lifesteal":
		actor.ClassEffects[ClassEffectLifesteal] = &ClassEffect{
			Kind:  ClassEffectLifesteal,
			Turns: int(a.Param("turns", 1)),
			Value: a.Param("ratio", 0),
		}
		ctx.logDefense()
	case "taunt":
		r.status.Apply(actor, StatusEffect{
			Kind:   EffectTaunting,
			Turns:  int(a.Param("turns", 1)),
			Source: actor.ID,
		}, ctx.Log)
		ctx.Log.Combat(EvTaunt, actor.ID, "", map[string]string{
			"attacker": actor.Name,
		})
	case "vulnerable":
		if ctx.Target != nil {
			r.status.Apply(ctx.Target, StatusEffect{
				Kind:      EffectVulnerable,
				Magnitude: a.Param("vulnerability", 0),
				Turns:     int(a.Param("turns", 0)),
				Source:    actor.ID,
			}, ctx.Log)
		}
	default:
		ctx.logDefense()
	}
}

// tickClassEffects decrements class-effect durations at end of round.
func tickClassEffects(p *Player) {
	for kind, eff := range p.ClassEffects {
		eff.Turns--
		if eff.Turns <= 0 {
			delete(p.ClassEffects, kind)
		}
	}
}
