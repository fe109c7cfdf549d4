package game

import (
	"fmt"

	"github.com/warlock/server/internal/catalog"
)

// EffectKind enumerates status effect kinds.
type EffectKind string

const (
	EffectPoison     EffectKind = "poison"
	EffectStunned    EffectKind = "stunned"
	EffectShielded   EffectKind = "shielded"
	EffectInvisible  EffectKind = "invisible"
	EffectVulnerable EffectKind = "vulnerable"
	EffectWeakened   EffectKind = "weakened"
	EffectEnraged    EffectKind = "enraged"
	EffectRegen      EffectKind = "regen"
	EffectTaunting   EffectKind = "taunting"
	EffectImmuneNext EffectKind = "immune_next"
)

// StatusEffect is one active effect on a player.
type StatusEffect struct {
	Kind      EffectKind
	Turns     int
	Magnitude float64
	Source    string // player id of whoever applied it ("" for racial/system)
}

// StatusEffectManager applies, ticks and removes status effects. It is
// owned by a room and only touched from the room worker.
type StatusEffectManager struct {
	cat *catalog.Catalog
}

func NewStatusEffectManager(cat *catalog.Catalog) *StatusEffectManager {
	return &StatusEffectManager{cat: cat}
}

// Defaulted fills magnitude/turns from catalog defaults when unset.
func (m *StatusEffectManager) Defaulted(eff StatusEffect) StatusEffect {
	if d, ok := m.cat.StatusDefault(string(eff.Kind)); ok {
		if eff.Magnitude == 0 {
			eff.Magnitude = d.Magnitude
		}
		if eff.Turns == 0 {
			eff.Turns = d.Turns
		}
	}
	if eff.Turns == 0 {
		eff.Turns = 1
	}
	return eff
}

// Apply merges a new effect into the target's effect map.
// Stacking policy: poison adds magnitude and refreshes duration; the
// immunity flag is last-write-wins; everything else refreshes duration and
// keeps the larger magnitude.
func (m *StatusEffectManager) Apply(target *Player, eff StatusEffect, log *Log) {
	eff = m.Defaulted(eff)
	cur, ok := target.Effects[eff.Kind]
	switch {
	case !ok:
		e := eff
		target.Effects[eff.Kind] = &e
	case eff.Kind == EffectPoison:
		cur.Magnitude += eff.Magnitude
		if eff.Turns > cur.Turns {
			cur.Turns = eff.Turns
		}
		cur.Source = eff.Source
	case eff.Kind == EffectImmuneNext:
		*cur = eff
	default:
		if eff.Magnitude > cur.Magnitude {
			cur.Magnitude = eff.Magnitude
		}
		if eff.Turns > cur.Turns {
			cur.Turns = eff.Turns
		}
		cur.Source = eff.Source
	}
	if log != nil && eff.Kind != EffectImmuneNext {
		log.Combat(EvStatusApplied, eff.Source, target.ID, map[string]string{
			"target": target.Name,
			"effect": string(eff.Kind),
		})
	}
}

// Remove deletes an effect without expiry semantics.
func (m *StatusEffectManager) Remove(target *Player, kind EffectKind) {
	delete(target.Effects, kind)
}

// Tick runs end-of-round effect processing for one player: recurring
// poison/regen damage, duration decrement, expiry events.
// Poison can kill: it marks pending death like any other damage source.
func (m *StatusEffectManager) Tick(target *Player, log *Log) {
	if !target.Alive {
		return
	}
	for _, kind := range effectTickOrder {
		eff, ok := target.Effects[kind]
		if !ok {
			continue
		}
		switch kind {
		case EffectPoison:
			dmg := int(eff.Magnitude)
			if dmg > 0 && target.HP > 0 {
				target.HP -= dmg
				if target.HP < 0 {
					target.HP = 0
				}
				target.Stats.DamageTaken += dmg
				log.Combat(EvPoisonTick, eff.Source, target.ID, map[string]string{
					"target": target.Name,
					"amount": fmt.Sprintf("%d", dmg),
				})
				if target.HP == 0 && !target.PendingDeath {
					target.PendingDeath = true
					target.DeathAttacker = eff.Source
				}
			}
		case EffectRegen:
			amount := int(eff.Magnitude)
			if amount > 0 && target.HP > 0 {
				target.HP += amount
				if target.HP > target.MaxHP {
					target.HP = target.MaxHP
				}
				log.Combat(EvRegenTick, eff.Source, target.ID, map[string]string{
					"target": target.Name,
					"amount": fmt.Sprintf("%d", amount),
				})
			}
		}
		eff.Turns--
		if eff.Turns <= 0 {
			delete(target.Effects, kind)
			if kind != EffectImmuneNext {
				log.Combat(EvStatusExpired, "", target.ID, map[string]string{
					"target": target.Name,
					"effect": string(kind),
				})
			}
		}
	}
}

// effectTickOrder fixes iteration order over the effect map so round
// resolution stays deterministic.
var effectTickOrder = []EffectKind{
	EffectPoison,
	EffectRegen,
	EffectStunned,
	EffectShielded,
	EffectInvisible,
	EffectVulnerable,
	EffectWeakened,
	EffectEnraged,
	EffectTaunting,
	EffectImmuneNext,
}

// IsStunned reports whether the player currently cannot act.
func (m *StatusEffectManager) IsStunned(p *Player) bool {
	_, ok := p.Effects[EffectStunned]
	return ok
}

// IsInvisible reports whether the monster cannot see the player.
func (m *StatusEffectManager) IsInvisible(p *Player) bool {
	_, ok := p.Effects[EffectInvisible]
	return ok
}

// HasEffect reports whether the player has the given effect.
func (m *StatusEffectManager) HasEffect(p *Player, kind EffectKind) bool {
	_, ok := p.Effects[kind]
	return ok
}

// ArmorBonus returns the armor contributed by active effects.
func (m *StatusEffectManager) ArmorBonus(p *Player) int {
	bonus := 0
	if eff, ok := p.Effects[EffectShielded]; ok {
		bonus += int(eff.Magnitude)
	}
	return bonus
}
