package game

// RNG is the randomness source used by the room. *rand.Rand satisfies it;
// tests inject fixed sequences to pin down conversion draws.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// WarlockSystem owns the hidden-role state. The warlock count is updated
// only through increment/decrement, never derived, so the invariant
// "count == alive warlocks" is checkable from outside.
type WarlockSystem struct {
	room  *Room
	count int
}

func NewWarlockSystem(room *Room) *WarlockSystem {
	return &WarlockSystem{room: room}
}

// Count returns the current number of alive warlocks.
func (w *WarlockSystem) Count() int {
	return w.count
}

// AssignInitialWarlock flags the preferred player if present and alive,
// otherwise a uniformly random alive player. The chosen player learns of
// their role through a private event.
func (w *WarlockSystem) AssignInitialWarlock(preferredID string, log *Log) *Player {
	r := w.room
	var chosen *Player
	if preferredID != "" {
		if p := r.Players[preferredID]; p != nil && p.Alive {
			chosen = p
		}
	}
	if chosen == nil {
		alive := r.alivePlayers()
		if len(alive) == 0 {
			return nil
		}
		chosen = alive[r.rng.Intn(len(alive))]
	}
	chosen.IsWarlock = true
	w.count++
	if log != nil {
		log.Private(EvCorruption, []string{chosen.ID}, map[string]string{
			"target": chosen.Name,
		})
	}
	return chosen
}

// AttemptConversion rolls for converting target to the warlock side.
// A nil target picks a random alive non-warlock. The modifier scales the
// chance down for AoE hits. Returns whether the conversion happened.
func (w *WarlockSystem) AttemptConversion(attacker, target *Player, log *Log, modifier float64) bool {
	if attacker == nil || !attacker.IsWarlock {
		return false
	}
	r := w.room
	if target == nil {
		candidates := make([]*Player, 0)
		for _, p := range r.playersInOrder() {
			if p.Alive && !p.IsWarlock {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			return false
		}
		target = candidates[r.rng.Intn(len(candidates))]
	}
	if target.IsWarlock || !target.Alive || target.HP <= 0 {
		return false
	}

	conv := r.bal.Warlock.Conversion
	aliveCount := len(r.alivePlayers())
	if aliveCount == 0 {
		return false
	}
	chance := conv.BaseChance + conv.ScalingFactor*(float64(w.count)/float64(aliveCount))
	if chance > conv.MaxChance {
		chance = conv.MaxChance
	}
	chance *= modifier
	if conv.RandomModifier > 0 {
		chance *= 1 + r.rng.Float64()*conv.RandomModifier
	}

	if r.rng.Float64() >= chance {
		return false
	}
	w.convert(attacker, target, log)
	return true
}

// ForceConvert converts deterministically, for scripted effects.
func (w *WarlockSystem) ForceConvert(target *Player, log *Log) {
	if target == nil || target.IsWarlock || !target.Alive {
		return
	}
	w.convert(nil, target, log)
}

func (w *WarlockSystem) convert(attacker, target *Player, log *Log) {
	target.IsWarlock = true
	w.count++
	if attacker != nil {
		attacker.Stats.Corruptions++
	}
	if log != nil {
		// The victim learns privately; the room only hears something vague.
		log.Private(EvCorruption, []string{target.ID}, map[string]string{
			"target": target.Name,
		})
		log.Broadcast(EvCorruptionPublic, nil)
	}
}

// Decrement is called once per warlock death; clamped at zero.
func (w *WarlockSystem) Decrement() {
	if w.count > 0 {
		w.count--
	}
}

// AreWarlocksWinning reports strict majority among alive players: an exact
// half does not win. The threshold is tunable through the balance block.
func (w *WarlockSystem) AreWarlocksWinning() bool {
	alive := len(w.room.alivePlayers())
	if alive == 0 {
		return false
	}
	return float64(w.count) > w.room.bal.Warlock.MajorityThreshold*float64(alive)
}
