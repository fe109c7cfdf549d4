package game

// ActionKind separates class actions from racial activations; a player may
// submit one of each per round.
type ActionKind string

const (
	ActionClass  ActionKind = "class"
	ActionRacial ActionKind = "racial"
)

// MonsterTargetID is the wire constant clients use to target the monster.
const MonsterTargetID = "monster"

// Action is one submitted player action, buffered until the round resolves.
type Action struct {
	ActorID   string
	AbilityID string
	TargetID  string
	Kind      ActionKind
	Seq       int // submission order within the round
}

// CoordinationTracker records attacker→target pairs for one round and
// yields the coordination damage bonus.
type CoordinationTracker struct {
	bonusPerAttacker float64
	maxBonus         float64
	attackers        map[string]map[string]struct{} // target id → attacker set
}

func NewCoordinationTracker(bonusPerAttacker, maxBonus float64) *CoordinationTracker {
	return &CoordinationTracker{
		bonusPerAttacker: bonusPerAttacker,
		maxBonus:         maxBonus,
		attackers:        make(map[string]map[string]struct{}),
	}
}

// Track records that attacker targets target this round.
func (t *CoordinationTracker) Track(attackerID, targetID string) {
	set, ok := t.attackers[targetID]
	if !ok {
		set = make(map[string]struct{})
		t.attackers[targetID] = set
	}
	set[attackerID] = struct{}{}
}

// CountOthersOn returns how many attackers besides self target the target.
func (t *CoordinationTracker) CountOthersOn(targetID, selfID string) int {
	set := t.attackers[targetID]
	n := len(set)
	if _, ok := set[selfID]; ok {
		n--
	}
	return n
}

// BonusFor returns the capped coordination multiplier bonus for self
// attacking target.
func (t *CoordinationTracker) BonusFor(selfID, targetID string) float64 {
	bonus := t.bonusPerAttacker * float64(t.CountOthersOn(targetID, selfID))
	if bonus > t.maxBonus {
		bonus = t.maxBonus
	}
	return bonus
}

// Reset clears all tracked pairs at the end of a round.
func (t *CoordinationTracker) Reset() {
	t.attackers = make(map[string]map[string]struct{})
}
