package game

import "sort"

// Helper queries over room state. Everything returns players in join order
// so results are deterministic.

func (r *Room) playersInOrder() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinOrder < out[j].JoinOrder })
	return out
}

func (r *Room) alivePlayers() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.playersInOrder() {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) aliveWarlocks() int {
	n := 0
	for _, p := range r.Players {
		if p.Alive && p.IsWarlock {
			n++
		}
	}
	return n
}

// lowestHPAlive returns the alive player with the least HP, ties broken by
// join order, or nil when nobody is alive.
func (r *Room) lowestHPAlive() *Player {
	var lowest *Player
	for _, p := range r.playersInOrder() {
		if !p.Alive {
			continue
		}
		if lowest == nil || p.HP < lowest.HP {
			lowest = p
		}
	}
	return lowest
}

// randomAliveOther picks a uniformly random alive player other than self.
func (r *Room) randomAliveOther(selfID string) *Player {
	candidates := make([]*Player, 0)
	for _, p := range r.playersInOrder() {
		if p.Alive && p.ID != selfID {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[r.rng.Intn(len(candidates))]
}

// pendingDeaths returns players whose death is awaiting finalization.
func (r *Room) pendingDeaths() []*Player {
	out := make([]*Player, 0)
	for _, p := range r.playersInOrder() {
		if p.PendingDeath && p.Alive {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) findByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}
