package game

import (
	"sort"
	"strconv"

	"github.com/warlock/server/internal/catalog"
	"go.uber.org/zap"
)

// resolveRound is the deterministic round pipeline. It runs start to
// finish on the room worker; nothing yields in the middle.
func (r *Room) resolveRound() {
	r.Phase = PhaseResults
	if r.deadline != nil {
		r.deadline.Stop()
	}
	log := r.roundLog
	log.Reset()

	// 1. Snapshot the buffered actions.
	classActions := make([]*Action, 0, len(r.actions))
	for _, a := range r.actions {
		classActions = append(classActions, a)
	}
	racialActions := append([]*Action(nil), r.racials...)

	// 2. Racial activations resolve first, in submission order.
	sort.Slice(racialActions, func(i, j int) bool { return racialActions[i].Seq < racialActions[j].Seq })
	for _, action := range racialActions {
		r.executeRacial(action, log)
	}

	// 3. Sort class actions by (ability order, submission time, actor id);
	// the triple makes the ordering total and replays deterministic.
	sort.Slice(classActions, func(i, j int) bool {
		ai, aj := r.cat.Ability(classActions[i].AbilityID), r.cat.Ability(classActions[j].AbilityID)
		if ai.Order != aj.Order {
			return ai.Order < aj.Order
		}
		if classActions[i].Seq != classActions[j].Seq {
			return classActions[i].Seq < classActions[j].Seq
		}
		return classActions[i].ActorID < classActions[j].ActorID
	})

	// 4. Record attacker→target pairs for coordination.
	for _, action := range classActions {
		ability := r.cat.Ability(action.AbilityID)
		if ability == nil || ability.Category != catalog.CategoryAttack {
			continue
		}
		actor := r.Players[action.ActorID]
		if actor == nil {
			continue
		}
		switch {
		case ability.Target == catalog.TargetMonster || action.TargetID == MonsterTargetID:
			r.coord.Track(actor.ID, MonsterTargetID)
		case ability.Target == catalog.TargetMulti:
			for _, target := range r.alivePlayers() {
				if target.ID != actor.ID {
					r.coord.Track(actor.ID, target.ID)
				}
			}
		default:
			r.coord.Track(actor.ID, action.TargetID)
		}
	}

	// 5. Execute in order.
	for _, action := range classActions {
		r.executeClassAction(action, log)
	}

	// 6. Monster turn.
	r.monsterCtl.Attack(log)

	// 7. Pending deaths: Undying fires here, everyone else falls.
	r.processPendingDeaths(log)

	// 8. End-of-round status ticks. Poison can push a player to zero, so a
	// second death pass keeps the HP/alive invariant inside the round.
	for _, p := range r.alivePlayers() {
		r.status.Tick(p, log)
	}
	r.processPendingDeaths(log)

	// 9. Cooldowns and class effects tick down.
	for _, p := range r.playersInOrder() {
		for id, cd := range p.Cooldowns {
			if cd > 0 {
				p.Cooldowns[id] = cd - 1
			}
		}
		tickClassEffects(p)
	}

	// 10. Monster defeat triggers level progression, never game end.
	var levelUp *LevelUpInfo
	if !r.Monster.Alive() {
		levelUp = r.levelUp(log)
	}

	// 11. Win conditions.
	winner := r.evaluateWin()
	if winner != WinnerNone {
		r.finishGame(winner, log)
	}

	// 12. Emit the personalized round result.
	turn := r.Turn
	r.broadcast(MsgRoundResult, func(viewer *Player) any {
		res := RoundResult{
			Turn:    turn,
			Level:   r.Level,
			Events:  log.RenderFor(viewer.ID),
			Players: r.viewPlayers(viewer.ID),
			Monster: r.viewMonster(),
			LevelUp: levelUp,
		}
		if winner != WinnerNone {
			res.Winner = string(winner)
		}
		return res
	})

	// 13. Clear buffers and advance.
	r.actions = make(map[string]*Action)
	r.racials = r.racials[:0]
	r.coord.Reset()
	r.Turn++
	if winner == WinnerNone {
		r.Phase = PhaseAction
		r.armDeadline()
	}
}

func (r *Room) executeClassAction(action *Action, log *Log) {
	actor := r.Players[action.ActorID]
	if actor == nil || !actor.Alive || r.status.IsStunned(actor) {
		return
	}
	// Re-resolve: an adapt earlier in the round may have swapped the
	// submitted ability away.
	ability := actor.HasUnlocked(action.AbilityID)
	if ability == nil {
		return
	}
	if actor.Cooldowns[ability.ID] > 0 {
		return
	}

	var target *Player
	if ability.Target == catalog.TargetSingle && action.TargetID != MonsterTargetID {
		target = r.Players[action.TargetID]
		if target == nil || !target.Alive {
			return // target died earlier in the round; the action fizzles
		}
	}

	ctx := &AbilityContext{
		Room:    r,
		Actor:   actor,
		Target:  target,
		Ability: ability,
		Log:     log,
	}
	handler := r.abilities.Resolve(ability)
	if handler == nil {
		r.log.Error("no handler for ability", zap.String("ability", ability.ID))
		log.Broadcast(EvError, nil)
		return
	}
	handler(ctx)

	// Rearm: +1 covers the same-round tick at step 9.
	actor.Cooldowns[ability.ID] = ability.Cooldown + 1
}

// processPendingDeaths finalizes zero-HP players: Undying consumes its
// charge and stands the player back up at 1 HP; everyone else dies, and
// dead warlocks leave the count.
func (r *Room) processPendingDeaths(log *Log) {
	for _, p := range r.pendingDeaths() {
		if p.Racial.UndyingCharge {
			p.Racial.UndyingCharge = false
			p.PendingDeath = false
			p.DeathAttacker = ""
			p.HP = 1
			log.Combat(EvResurrect, "", p.ID, map[string]string{
				"target": p.Name,
			})
			continue
		}
		p.PendingDeath = false
		p.Alive = false
		p.HP = 0
		log.Combat(EvDeath, "", p.ID, map[string]string{
			"target": p.Name,
		})
		if killer := r.Players[p.DeathAttacker]; killer != nil && killer.ID != p.ID {
			killer.Stats.Kills++
		}
		if p.IsWarlock {
			p.IsWarlock = false
			r.warlocks.Decrement()
		}
	}
}

// levelUp advances the room level after a monster kill: stat bumps for the
// living, optional full heal, new unlocks, and a bigger monster.
func (r *Room) levelUp(log *Log) *LevelUpInfo {
	old := r.Level
	r.Level++
	for _, p := range r.alivePlayers() {
		p.Level = r.Level
		p.MaxHP += r.bal.LevelUp.HPBonus
		p.DamageMod += r.bal.LevelUp.DamageModBonus
		p.BaseArmor += r.bal.LevelUp.ArmorBonus
		if r.bal.LevelUp.FullHeal {
			p.HP = p.MaxHP
		} else {
			p.HP += r.bal.LevelUp.HPBonus
			if p.HP > p.MaxHP {
				p.HP = p.MaxHP
			}
		}
	}
	r.monsterCtl.Respawn(r.Level)
	log.Broadcast(EvLevelUp, map[string]string{
		"level": strconv.Itoa(r.Level),
	})
	r.log.Info("level up", zap.Int("level", r.Level))
	return &LevelUpInfo{OldLevel: old, NewLevel: r.Level}
}
