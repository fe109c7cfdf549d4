package game

import (
	"github.com/warlock/server/internal/catalog"
)

// AbilityContext carries everything a handler needs for one execution.
// Target is nil for self-, multi- and monster-targeted abilities.
type AbilityContext struct {
	Room    *Room
	Actor   *Player
	Target  *Player
	Ability *catalog.Ability
	Log     *Log
}

// AbilityHandler executes one ability. Preconditions (actor alive, not
// stunned, unlocked, off cooldown, valid target) are validated before
// dispatch; handlers only mutate state and log.
type AbilityHandler func(ctx *AbilityContext)

// AbilityRegistry maps ability id → handler. Unknown ids fall back to the
// category handler so catalog additions with standard shapes need no code.
type AbilityRegistry struct {
	byID       map[string]AbilityHandler
	byCategory map[catalog.Category]AbilityHandler
}

func NewAbilityRegistry() *AbilityRegistry {
	reg := &AbilityRegistry{
		byID:       make(map[string]AbilityHandler),
		byCategory: make(map[catalog.Category]AbilityHandler),
	}
	reg.byCategory[catalog.CategoryAttack] = handleAttack
	reg.byCategory[catalog.CategoryHeal] = handleHeal
	reg.byCategory[catalog.CategoryDefense] = handleDefense
	reg.byCategory[catalog.CategorySpecial] = handleSpecial
	return reg
}

// Register pins a dedicated handler to one ability id.
func (r *AbilityRegistry) Register(abilityID string, h AbilityHandler) {
	r.byID[abilityID] = h
}

// Resolve returns the handler for an ability, preferring id-specific
// registrations over category defaults.
func (r *AbilityRegistry) Resolve(a *catalog.Ability) AbilityHandler {
	if h, ok := r.byID[a.ID]; ok {
		return h
	}
	return r.byCategory[a.Category]
}

// ValidateTarget checks a submitted target id against the ability's target
// kind and resolves the player pointer for single-target abilities.
func (r *Room) ValidateTarget(actor *Player, a *catalog.Ability, targetID string) (*Player, error) {
	switch a.Target {
	case catalog.TargetSelf:
		return nil, nil
	case catalog.TargetMonster:
		if targetID != "" && targetID != MonsterTargetID {
			return nil, ErrInvalidTarget
		}
		return nil, nil
	case catalog.TargetMulti:
		return nil, nil
	case catalog.TargetSingle:
		if targetID == MonsterTargetID {
			return nil, nil // single-target attacks may hit the monster
		}
		target := r.Players[targetID]
		if target == nil {
			return nil, ErrInvalidTarget
		}
		if !target.Alive {
			return nil, ErrInvalidTarget
		}
		return target, nil
	default:
		return nil, ErrInvalidTarget
	}
}
