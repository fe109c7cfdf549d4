package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDir loads the full catalog from a directory of YAML files.
func LoadDir(dir string) (*Catalog, error) {
	c := &Catalog{
		races:         make(map[string]*Race),
		classes:       make(map[string]*Class),
		abilities:     make(map[string]*Ability),
		compatibility: make(map[string]map[string]bool),
		templates:     make(map[string]MessageTemplate),
		statusDefs:    make(map[string]StatusDefault),
		balance:       DefaultBalance(),
	}
	if err := c.loadRaces(filepath.Join(dir, "races.yaml")); err != nil {
		return nil, err
	}
	if err := c.loadClasses(filepath.Join(dir, "classes.yaml")); err != nil {
		return nil, err
	}
	if err := c.loadCompatibility(filepath.Join(dir, "compatibility.yaml")); err != nil {
		return nil, err
	}
	if err := c.loadBalance(filepath.Join(dir, "balance.yaml")); err != nil {
		return nil, err
	}
	if err := c.loadMessages(filepath.Join(dir, "messages.yaml")); err != nil {
		return nil, err
	}
	if err := c.loadStatusDefaults(filepath.Join(dir, "status_effects.yaml")); err != nil {
		return nil, err
	}
	return c, nil
}

// --- YAML loading ---

type racialEntry struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Usage       string             `yaml:"usage"`
	MaxUses     int                `yaml:"max_uses"`
	Effect      string             `yaml:"effect"`
	Params      map[string]float64 `yaml:"params"`
	Description string             `yaml:"description"`
}

type raceEntry struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Racial      racialEntry `yaml:"racial"`
}

type raceFile struct {
	Races []raceEntry `yaml:"races"`
}

func (c *Catalog) loadRaces(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read races: %w", err)
	}
	var f raceFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse races: %w", err)
	}
	for i := range f.Races {
		e := &f.Races[i]
		r := &Race{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Racial: &RacialAbility{
				ID:          e.Racial.ID,
				Name:        e.Racial.Name,
				RaceID:      e.ID,
				Usage:       Usage(e.Racial.Usage),
				MaxUses:     e.Racial.MaxUses,
				Effect:      e.Racial.Effect,
				Params:      e.Racial.Params,
				Description: e.Racial.Description,
			},
		}
		if r.Racial.Usage == UsagePassive {
			r.Racial.MaxUses = 0
		}
		c.races[r.ID] = r
		c.raceOrder = append(c.raceOrder, r.ID)
	}
	if len(c.races) == 0 {
		return fmt.Errorf("races: no entries in %s", path)
	}
	return nil
}

type abilityEntry struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Category    string             `yaml:"category"`
	Target      string             `yaml:"target"`
	UnlockAt    int                `yaml:"unlock_at"`
	Order       int                `yaml:"order"`
	Cooldown    int                `yaml:"cooldown"`
	Effect      string             `yaml:"effect"`
	Params      map[string]float64 `yaml:"params"`
	Description string             `yaml:"description"`
}

type classEntry struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Abilities []abilityEntry `yaml:"abilities"`
}

type classFile struct {
	Classes []classEntry `yaml:"classes"`
}

func (c *Catalog) loadClasses(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read classes: %w", err)
	}
	var f classFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse classes: %w", err)
	}
	for i := range f.Classes {
		e := &f.Classes[i]
		cl := &Class{ID: e.ID, Name: e.Name}
		for j := range e.Abilities {
			ae := &e.Abilities[j]
			a := &Ability{
				ID:          ae.ID,
				Name:        ae.Name,
				ClassID:     cl.ID,
				Category:    Category(ae.Category),
				Target:      Target(ae.Target),
				UnlockAt:    ae.UnlockAt,
				Order:       ae.Order,
				Cooldown:    ae.Cooldown,
				Effect:      ae.Effect,
				Params:      ae.Params,
				Description: ae.Description,
			}
			if a.UnlockAt < 1 {
				a.UnlockAt = 1
			}
			if _, dup := c.abilities[a.ID]; dup {
				return fmt.Errorf("classes: duplicate ability id %q", a.ID)
			}
			cl.Abilities = append(cl.Abilities, a)
			c.abilities[a.ID] = a
		}
		c.classes[cl.ID] = cl
		c.classOrder = append(c.classOrder, cl.ID)
	}
	if len(c.classes) == 0 {
		return fmt.Errorf("classes: no entries in %s", path)
	}
	return nil
}

type compatFile struct {
	// race id → allowed class ids
	Compatibility map[string][]string `yaml:"compatibility"`
}

func (c *Catalog) loadCompatibility(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read compatibility: %w", err)
	}
	var f compatFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse compatibility: %w", err)
	}
	for raceID, classIDs := range f.Compatibility {
		if c.races[raceID] == nil {
			return fmt.Errorf("compatibility: unknown race %q", raceID)
		}
		row := make(map[string]bool, len(classIDs))
		for _, classID := range classIDs {
			if c.classes[classID] == nil {
				return fmt.Errorf("compatibility: unknown class %q for race %q", classID, raceID)
			}
			row[classID] = true
		}
		c.compatibility[raceID] = row
	}
	return nil
}

type balanceFile struct {
	Player struct {
		BaseHP    *int `yaml:"base_hp"`
		BaseArmor *int `yaml:"base_armor"`
	} `yaml:"player"`
	Monster struct {
		BaseHP        *int     `yaml:"base_hp"`
		HPPerLevel    *int     `yaml:"hp_per_level"`
		BaseDamage    *int     `yaml:"base_damage"`
		AgeMultiplier *float64 `yaml:"age_multiplier"`
	} `yaml:"monster"`
	LevelUp struct {
		HPBonus        *int     `yaml:"hp_bonus"`
		DamageModBonus *float64 `yaml:"damage_mod_bonus"`
		ArmorBonus     *int     `yaml:"armor_bonus"`
		FullHeal       *bool    `yaml:"full_heal"`
	} `yaml:"level_up"`
	Warlock struct {
		Conversion struct {
			BaseChance     *float64 `yaml:"base_chance"`
			MaxChance      *float64 `yaml:"max_chance"`
			ScalingFactor  *float64 `yaml:"scaling_factor"`
			AoEModifier    *float64 `yaml:"aoe_modifier"`
			RandomModifier *float64 `yaml:"random_modifier"`
		} `yaml:"conversion"`
		MajorityThreshold *float64 `yaml:"majority_threshold"`
	} `yaml:"warlock"`
	Coordination struct {
		BonusPerAttacker *float64 `yaml:"bonus_per_attacker"`
		MaxBonus         *float64 `yaml:"max_bonus"`
	} `yaml:"coordination"`
	Armor struct {
		ReductionPerPoint *float64 `yaml:"reduction_per_point"`
		MaxReduction      *float64 `yaml:"max_reduction"`
	} `yaml:"armor"`
	Healing struct {
		RejectWarlockHealing *bool    `yaml:"reject_warlock_healing"`
		ExcludeWarlocks      *bool    `yaml:"exclude_warlocks"`
		MinModifier          *float64 `yaml:"min_modifier"`
	} `yaml:"healing"`
}

// loadBalance overlays the YAML file onto DefaultBalance; absent keys keep
// their defaults.
func (c *Catalog) loadBalance(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read balance: %w", err)
	}
	var f balanceFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse balance: %w", err)
	}
	b := c.balance
	setInt(&b.Player.BaseHP, f.Player.BaseHP)
	setInt(&b.Player.BaseArmor, f.Player.BaseArmor)
	setInt(&b.Monster.BaseHP, f.Monster.BaseHP)
	setInt(&b.Monster.HPPerLevel, f.Monster.HPPerLevel)
	setInt(&b.Monster.BaseDamage, f.Monster.BaseDamage)
	setFloat(&b.Monster.AgeMultiplier, f.Monster.AgeMultiplier)
	setInt(&b.LevelUp.HPBonus, f.LevelUp.HPBonus)
	setFloat(&b.LevelUp.DamageModBonus, f.LevelUp.DamageModBonus)
	setInt(&b.LevelUp.ArmorBonus, f.LevelUp.ArmorBonus)
	setBool(&b.LevelUp.FullHeal, f.LevelUp.FullHeal)
	setFloat(&b.Warlock.Conversion.BaseChance, f.Warlock.Conversion.BaseChance)
	setFloat(&b.Warlock.Conversion.MaxChance, f.Warlock.Conversion.MaxChance)
	setFloat(&b.Warlock.Conversion.ScalingFactor, f.Warlock.Conversion.ScalingFactor)
	setFloat(&b.Warlock.Conversion.AoEModifier, f.Warlock.Conversion.AoEModifier)
	setFloat(&b.Warlock.Conversion.RandomModifier, f.Warlock.Conversion.RandomModifier)
	setFloat(&b.Warlock.MajorityThreshold, f.Warlock.MajorityThreshold)
	setFloat(&b.Coordination.BonusPerAttacker, f.Coordination.BonusPerAttacker)
	setFloat(&b.Coordination.MaxBonus, f.Coordination.MaxBonus)
	setFloat(&b.Armor.ReductionPerPoint, f.Armor.ReductionPerPoint)
	setFloat(&b.Armor.MaxReduction, f.Armor.MaxReduction)
	setBool(&b.Healing.RejectWarlockHealing, f.Healing.RejectWarlockHealing)
	setBool(&b.Healing.ExcludeWarlocks, f.Healing.ExcludeWarlocks)
	setFloat(&b.Healing.MinModifier, f.Healing.MinModifier)
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

type messageEntry struct {
	Public   string `yaml:"public"`
	Attacker string `yaml:"attacker"`
	Target   string `yaml:"target"`
}

type messageFile struct {
	Messages map[string]messageEntry `yaml:"messages"`
}

func (c *Catalog) loadMessages(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read messages: %w", err)
	}
	var f messageFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse messages: %w", err)
	}
	for kind, e := range f.Messages {
		c.templates[kind] = MessageTemplate{
			Public:   e.Public,
			Attacker: e.Attacker,
			Target:   e.Target,
		}
	}
	return nil
}

type statusEntry struct {
	Magnitude float64 `yaml:"magnitude"`
	Turns     int     `yaml:"turns"`
}

type statusFile struct {
	StatusEffects map[string]statusEntry `yaml:"status_effects"`
}

func (c *Catalog) loadStatusDefaults(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read status effects: %w", err)
	}
	var f statusFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse status effects: %w", err)
	}
	for kind, e := range f.StatusEffects {
		c.statusDefs[kind] = StatusDefault{Magnitude: e.Magnitude, Turns: e.Turns}
	}
	return nil
}
