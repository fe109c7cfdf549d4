package catalog

import "math"

// Balance holds every tunable coefficient consumed by the room runtime.
type Balance struct {
	Player       PlayerBalance
	Monster      MonsterBalance
	LevelUp      LevelUpBalance
	Warlock      WarlockBalance
	Coordination CoordinationBalance
	Armor        ArmorBalance
	Healing      HealingBalance
}

type PlayerBalance struct {
	BaseHP    int
	BaseArmor int
}

type MonsterBalance struct {
	BaseHP        int
	HPPerLevel    int
	BaseDamage    int
	AgeMultiplier float64
}

type LevelUpBalance struct {
	HPBonus        int
	DamageModBonus float64
	ArmorBonus     int
	FullHeal       bool
}

type WarlockBalance struct {
	Conversion        ConversionBalance
	MajorityThreshold float64
}

type ConversionBalance struct {
	BaseChance     float64
	MaxChance      float64
	ScalingFactor  float64
	AoEModifier    float64
	RandomModifier float64
}

type CoordinationBalance struct {
	BonusPerAttacker float64
	MaxBonus         float64
}

type ArmorBalance struct {
	ReductionPerPoint float64
	MaxReduction      float64
}

type HealingBalance struct {
	RejectWarlockHealing bool
	ExcludeWarlocks      bool
	MinModifier          float64
}

// MonsterHP returns the monster's max HP at a given room level.
func (b *Balance) MonsterHP(level int) int {
	if level < 1 {
		level = 1
	}
	return b.Monster.BaseHP + b.Monster.HPPerLevel*(level-1)
}

// MonsterDamage returns the monster's swing damage at a given age.
func (b *Balance) MonsterDamage(age int) int {
	if age < 0 {
		age = 0
	}
	return int(math.Floor(float64(b.Monster.BaseDamage) * (1 + b.Monster.AgeMultiplier*float64(age))))
}

// DefaultBalance returns the shipped coefficient set, used as the base for
// the YAML overlay and directly by tests.
func DefaultBalance() *Balance {
	return &Balance{
		Player: PlayerBalance{
			BaseHP:    100,
			BaseArmor: 0,
		},
		Monster: MonsterBalance{
			BaseHP:        100,
			HPPerLevel:    50,
			BaseDamage:    10,
			AgeMultiplier: 0.25,
		},
		LevelUp: LevelUpBalance{
			HPBonus:        20,
			DamageModBonus: 0.1,
			ArmorBonus:     1,
			FullHeal:       true,
		},
		Warlock: WarlockBalance{
			Conversion: ConversionBalance{
				BaseChance:     0.2,
				MaxChance:      0.5,
				ScalingFactor:  0.3,
				AoEModifier:    0.5,
				RandomModifier: 0,
			},
			MajorityThreshold: 0.5,
		},
		Coordination: CoordinationBalance{
			BonusPerAttacker: 0.15,
			MaxBonus:         0.5,
		},
		Armor: ArmorBalance{
			ReductionPerPoint: 0.1,
			MaxReduction:      0.9,
		},
		Healing: HealingBalance{
			RejectWarlockHealing: true,
			ExcludeWarlocks:      true,
			MinModifier:          0.1,
		},
	}
}
