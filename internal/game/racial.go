package game

import (
	"github.com/warlock/server/internal/catalog"
)

// initRacial arms a player's racial state when the game starts.
func (r *Room) initRacial(p *Player) {
	race := r.cat.Race(p.Race)
	if race == nil {
		return
	}
	p.Racial = RacialState{
		Ability:  race.Racial,
		UsesLeft: race.Racial.MaxUses,
	}
	switch race.Racial.Effect {
	case "stoneArmor":
		p.Racial.StoneArmorIntact = true
		p.Racial.StoneArmorValue = int(race.Racial.Params["armor"])
	case "undying":
		p.Racial.UndyingCharge = true
	}
}

// executeRacial resolves one submitted racial activation. Passive racials
// are never submitted; uses decrement only on success.
func (r *Room) executeRacial(action *Action, log *Log) {
	actor := r.Players[action.ActorID]
	if actor == nil || !actor.Alive || actor.Racial.Ability == nil {
		return
	}
	racial := actor.Racial.Ability
	if racial.Usage == catalog.UsagePassive || actor.Racial.UsesLeft <= 0 {
		return
	}
	if r.status.IsStunned(actor) {
		return
	}

	switch racial.Effect {
	case "bloodRage":
		actor.Racial.UsesLeft--
		r.status.Apply(actor, StatusEffect{
			Kind:      EffectEnraged,
			Magnitude: racial.Params["damage_bonus"],
			Turns:     int(racial.Params["turns"]),
			Source:    actor.ID,
		}, log)
		log.Combat(EvBloodRage, actor.ID, "", map[string]string{
			"attacker": actor.Name,
		})
		if self := int(racial.Params["self_damage"]); self > 0 {
			r.combat.SelfDamage(actor, self, log)
		}
	case "adapt":
		r.adapt(actor, action.TargetID, log)
	}
}

// adapt swaps one of the actor's abilities for a random same-category
// ability from another class. The replaced ability may be named by the
// action's target id; otherwise a random owned ability is given up.
func (r *Room) adapt(actor *Player, giveUpID string, log *Log) {
	var old *catalog.Ability
	oldIdx := -1
	if giveUpID != "" {
		for i, a := range actor.Abilities {
			if a.ID == giveUpID {
				old, oldIdx = a, i
				break
			}
		}
	}
	if old == nil {
		oldIdx = r.rng.Intn(len(actor.Abilities))
		old = actor.Abilities[oldIdx]
	}

	owned := make(map[string]bool, len(actor.Abilities))
	for _, a := range actor.Abilities {
		owned[a.ID] = true
	}
	candidates := make([]*catalog.Ability, 0)
	for _, cl := range r.cat.Classes() {
		if cl.ID == actor.Class {
			continue
		}
		for _, a := range cl.Abilities {
			if a.Category == old.Category && !owned[a.ID] {
				candidates = append(candidates, a)
			}
		}
	}
	if len(candidates) == 0 {
		return
	}
	repl := candidates[r.rng.Intn(len(candidates))]

	actor.Racial.UsesLeft--
	actor.Racial.Adapted = true
	actor.Abilities[oldIdx] = repl
	delete(actor.Cooldowns, old.ID)

	log.Private(EvAdapt, []string{actor.ID}, map[string]string{
		"old": old.Name,
		"new": repl.Name,
	})
	log.Combat(EvAdaptPublic, actor.ID, "", map[string]string{
		"attacker": actor.Name,
	})
}
