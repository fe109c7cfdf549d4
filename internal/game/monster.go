package game

import (
	"fmt"

	"github.com/warlock/server/internal/catalog"
)

// Formulas supplies the monster balance curves. The catalog's balance
// block implements it natively; the scripting engine implements it when a
// scripts directory is configured.
type Formulas interface {
	MonsterHP(level int) int
	MonsterDamage(age int) int
}

// Monster is the shared enemy of a room.
type Monster struct {
	HP    int
	MaxHP int
	Age   int
	Level int
}

func (m *Monster) Alive() bool { return m.HP > 0 }

// MonsterController drives the monster: damage intake, aging, targeting
// and respawn on level-up.
type MonsterController struct {
	room *Room
}

func NewMonsterController(room *Room) *MonsterController {
	return &MonsterController{room: room}
}

// TakeDamage reduces monster HP, clamped at zero, and logs the hit.
func (mc *MonsterController) TakeDamage(amount int, attacker *Player, ability *catalog.Ability, log *Log) {
	m := mc.room.Monster
	if !m.Alive() || amount <= 0 {
		if attacker != nil && ability != nil {
			log.Combat(EvMonsterDamage, attacker.ID, "", map[string]string{
				"attacker": attacker.Name,
				"ability":  ability.Name,
				"amount":   "0",
			})
		}
		return
	}
	m.HP -= amount
	if m.HP < 0 {
		m.HP = 0
	}
	if attacker != nil {
		attacker.Stats.MonsterDamage += amount
		abilityName := ""
		if ability != nil {
			abilityName = ability.Name
		}
		log.Combat(EvMonsterDamage, attacker.ID, "", map[string]string{
			"attacker": attacker.Name,
			"ability":  abilityName,
			"amount":   fmt.Sprintf("%d", amount),
		})
	}
}

// NextDamage is the damage hint for the upcoming monster turn.
func (mc *MonsterController) NextDamage() int {
	return mc.room.formulas.MonsterDamage(mc.room.Monster.Age)
}

// Attack performs the monster turn: age, pick a target, swing. Taunting
// players draw the attack; otherwise the lowest-HP visible alive player is
// hit, with join order breaking ties. With no visible target the swing
// misses.
func (mc *MonsterController) Attack(log *Log) {
	r := mc.room
	m := r.Monster
	if !m.Alive() {
		return
	}

	dmg := r.formulas.MonsterDamage(m.Age)
	m.Age++

	target := mc.pickTarget()
	if target == nil {
		log.Broadcast(EvMonsterMiss, nil)
		return
	}
	r.combat.MonsterStrike(target, dmg, log)
}

func (mc *MonsterController) pickTarget() *Player {
	r := mc.room
	var taunter, lowest *Player
	for _, p := range r.playersInOrder() {
		if !p.Alive || r.status.IsInvisible(p) {
			continue
		}
		if r.status.HasEffect(p, EffectTaunting) && taunter == nil {
			taunter = p
		}
		if lowest == nil || p.HP < lowest.HP {
			lowest = p
		}
	}
	if taunter != nil {
		return taunter
	}
	return lowest
}

// Respawn brings the monster back at a new level with fresh HP and age.
func (mc *MonsterController) Respawn(newLevel int) {
	m := mc.room.Monster
	m.Level = newLevel
	m.MaxHP = mc.room.formulas.MonsterHP(newLevel)
	m.HP = m.MaxHP
	m.Age = 0
}
