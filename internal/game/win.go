package game

import "go.uber.org/zap"

// Winner is the terminal outcome of a game.
type Winner string

const (
	WinnerNone Winner = ""
	WinnerGood Winner = "good"
	WinnerEvil Winner = "evil"
)

// evaluateWin checks the terminal conditions after death processing.
// Exactly one of {None, Good, Evil} comes back; a defeated monster is
// handled by level-up and never ends the game.
func (r *Room) evaluateWin() Winner {
	alive := r.alivePlayers()
	if len(alive) == 0 {
		return WinnerEvil
	}
	warlocks := r.aliveWarlocks()
	if warlocks == 0 {
		return WinnerGood
	}
	if warlocks == len(alive) {
		return WinnerEvil
	}
	if r.warlocks.AreWarlocksWinning() {
		return WinnerEvil
	}
	return WinnerNone
}

// finishGame transitions to Ended, announces the outcome and hands out
// trophies.
func (r *Room) finishGame(winner Winner, log *Log) {
	r.Phase = PhaseEnded
	winnerName := "The heroes"
	if winner == WinnerEvil {
		winnerName = "The warlocks"
	}
	log.Broadcast(EvGameOver, map[string]string{
		"winner": winnerName,
	})
	r.awardTrophies(log)
	r.log.Info("game over", zap.String("winner", string(winner)))
}

type trophyDef struct {
	name  string
	value func(*Player) int
}

// awardTrophies emits one trophy event per category to the best scorer;
// zero scores award nothing.
func (r *Room) awardTrophies(log *Log) {
	defs := []trophyDef{
		{"Most Damage", func(p *Player) int { return p.Stats.DamageDealt + p.Stats.MonsterDamage }},
		{"Most Healing", func(p *Player) int { return p.Stats.HealingDone }},
		{"Monster Slayer", func(p *Player) int { return p.Stats.MonsterDamage }},
		{"Most Corruptions", func(p *Player) int { return p.Stats.Corruptions }},
	}
	for _, def := range defs {
		var best *Player
		bestVal := 0
		for _, p := range r.playersInOrder() {
			if v := def.value(p); v > bestVal {
				best, bestVal = p, v
			}
		}
		if best == nil {
			continue
		}
		log.Broadcast(EvTrophy, map[string]string{
			"player": best.Name,
			"trophy": def.name,
		})
		if best.ConnID != 0 {
			r.notifier.Send(best.ConnID, MsgTrophyAwarded, map[string]string{
				"trophy": def.name,
			})
		}
	}
}
