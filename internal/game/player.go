package game

import (
	"time"

	"github.com/warlock/server/internal/catalog"
)

// ClassEffect is a class-granted persistent effect (counters, lifesteal)
// that lives outside the status-effect map because it reacts to combat
// rather than ticking on its own.
type ClassEffect struct {
	Kind  string  // "spiritGuard", "sanctuary", "lifesteal"
	Turns int
	Value float64
}

// Class effect kinds.
const (
	ClassEffectSpiritGuard = "spiritGuard"
	ClassEffectSanctuary   = "sanctuary"
	ClassEffectLifesteal   = "lifesteal"
)

// RacialState tracks per-race runtime state on a player.
type RacialState struct {
	Ability  *catalog.RacialAbility
	UsesLeft int

	// Rockhewn
	StoneArmorIntact bool
	StoneArmorValue  int

	// Lich
	UndyingCharge bool

	// Artisan
	Adapted bool
}

// SessionStats accumulates per-player numbers across the game, used for
// the end-of-game trophies.
type SessionStats struct {
	DamageDealt   int `json:"damageDealt"`
	DamageTaken   int `json:"damageTaken"`
	HealingDone   int `json:"healingDone"`
	MonsterDamage int `json:"monsterDamage"`
	Kills         int `json:"kills"`
	Corruptions   int `json:"corruptions"`
}

// Player is one participant in a room. All fields are mutated only by the
// room's resolver and subsystems, on the room worker.
type Player struct {
	ID        string // persistent id, survives reconnects
	ConnID    uint64 // current connection (0 = disconnected)
	Name      string
	Race      string
	Class     string
	JoinOrder int

	Level     int
	HP        int
	MaxHP     int
	BaseArmor int
	DamageMod float64

	Alive         bool
	IsWarlock     bool
	PendingDeath  bool
	DeathAttacker string

	Ready          bool
	Disconnected   bool
	DisconnectedAt time.Time
	WasHost        bool // held host duty when the disconnect began

	Abilities    []*catalog.Ability
	Cooldowns    map[string]int
	Effects      map[EffectKind]*StatusEffect
	ClassEffects map[string]*ClassEffect
	Racial       RacialState
	Stats        SessionStats
}

// NewPlayer creates a joined-but-unconfigured player.
func NewPlayer(id string, connID uint64, name string, joinOrder int, bal *catalog.Balance) *Player {
	return &Player{
		ID:           id,
		ConnID:       connID,
		Name:         name,
		JoinOrder:    joinOrder,
		Level:        1,
		HP:           bal.Player.BaseHP,
		MaxHP:        bal.Player.BaseHP,
		BaseArmor:    bal.Player.BaseArmor,
		DamageMod:    1.0,
		Alive:        true,
		Cooldowns:    make(map[string]int),
		Effects:      make(map[EffectKind]*StatusEffect),
		ClassEffects: make(map[string]*ClassEffect),
	}
}

// HealingMod derives the healing modifier from the damage modifier,
// floored so heavily corrupted healers still heal a trickle.
func (p *Player) HealingMod(floor float64) float64 {
	mod := 2.0 - p.DamageMod
	if mod < floor {
		mod = floor
	}
	return mod
}

// EffectiveDamageMod folds temporary rage/weakness into the base modifier.
func (p *Player) EffectiveDamageMod() float64 {
	mod := p.DamageMod
	if eff, ok := p.Effects[EffectEnraged]; ok {
		mod *= 1 + eff.Magnitude
	}
	if eff, ok := p.Effects[EffectWeakened]; ok {
		mod *= 1 - eff.Magnitude
	}
	if mod < 0 {
		mod = 0
	}
	return mod
}

// EffectiveArmor is base armor plus shields plus intact stone armor.
func (p *Player) EffectiveArmor() int {
	armor := p.BaseArmor
	if eff, ok := p.Effects[EffectShielded]; ok {
		armor += int(eff.Magnitude)
	}
	if p.Racial.StoneArmorIntact {
		armor += p.Racial.StoneArmorValue
	}
	return armor
}

// Unlocked returns the abilities available at the player's current level.
func (p *Player) Unlocked() []*catalog.Ability {
	out := make([]*catalog.Ability, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		if p.Level >= a.UnlockAt {
			out = append(out, a)
		}
	}
	return out
}

// HasUnlocked reports whether the ability id is owned and unlocked.
func (p *Player) HasUnlocked(abilityID string) *catalog.Ability {
	for _, a := range p.Abilities {
		if a.ID == abilityID && p.Level >= a.UnlockAt {
			return a
		}
	}
	return nil
}

// CanUse checks the full usability rule for an owned ability.
func (p *Player) CanUse(a *catalog.Ability) error {
	if !p.Alive {
		return ErrDead
	}
	if _, stunned := p.Effects[EffectStunned]; stunned {
		return ErrStunned
	}
	if p.Level < a.UnlockAt {
		return ErrLocked
	}
	if p.Cooldowns[a.ID] > 0 {
		return ErrOnCooldown
	}
	return nil
}

// Vulnerability returns the extra damage multiplier from being marked.
func (p *Player) Vulnerability() float64 {
	if eff, ok := p.Effects[EffectVulnerable]; ok {
		return eff.Magnitude
	}
	return 0
}

// Heal restores HP clamped to max and returns the amount actually gained.
func (p *Player) Heal(amount int) int {
	if amount < 0 || !p.Alive {
		return 0
	}
	before := p.HP
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	return p.HP - before
}
