package catalog

// Usage describes how often a racial ability may be activated.
type Usage string

const (
	UsagePerGame  Usage = "perGame"
	UsagePerRound Usage = "perRound"
	UsagePassive  Usage = "passive"
)

// Category groups class abilities by handler shape.
type Category string

const (
	CategoryAttack  Category = "attack"
	CategoryHeal    Category = "heal"
	CategoryDefense Category = "defense"
	CategorySpecial Category = "special"
)

// Target describes what an ability may be aimed at.
type Target string

const (
	TargetSelf    Target = "self"
	TargetSingle  Target = "single"
	TargetMulti   Target = "multi"
	TargetMonster Target = "monster"
)

// Race holds a playable race definition.
type Race struct {
	ID          string
	Name        string
	Description string
	Racial      *RacialAbility
}

// RacialAbility holds a per-race power with usage accounting.
type RacialAbility struct {
	ID          string
	Name        string
	RaceID      string
	Usage       Usage
	MaxUses     int
	Effect      string
	Params      map[string]float64
	Description string
}

// Class holds a playable class and its ordered ability list.
type Class struct {
	ID        string
	Name      string
	Abilities []*Ability
}

// Ability holds a single class ability template. Order determines
// resolution priority within a round (lower resolves earlier).
type Ability struct {
	ID          string
	Name        string
	ClassID     string
	Category    Category
	Target      Target
	UnlockAt    int
	Order       int
	Cooldown    int
	Effect      string
	Params      map[string]float64
	Description string
}

// Param returns a named ability parameter, or def when absent.
func (a *Ability) Param(key string, def float64) float64 {
	if v, ok := a.Params[key]; ok {
		return v
	}
	return def
}

// MessageTemplate holds the three per-viewer renderings of an event kind.
type MessageTemplate struct {
	Public   string
	Attacker string
	Target   string
}

// StatusDefault holds the default payload applied when an ability grants
// a status effect without overriding magnitude or duration.
type StatusDefault struct {
	Magnitude float64
	Turns     int
}

// Catalog is the immutable game configuration injected into every room.
type Catalog struct {
	races         map[string]*Race
	raceOrder     []string
	classes       map[string]*Class
	classOrder    []string
	abilities     map[string]*Ability
	compatibility map[string]map[string]bool
	templates     map[string]MessageTemplate
	statusDefs    map[string]StatusDefault
	balance       *Balance
}

// Race returns a race by id, or nil if not found.
func (c *Catalog) Race(id string) *Race {
	return c.races[id]
}

// Races returns all races in file order.
func (c *Catalog) Races() []*Race {
	out := make([]*Race, 0, len(c.raceOrder))
	for _, id := range c.raceOrder {
		out = append(out, c.races[id])
	}
	return out
}

// Class returns a class by id, or nil if not found.
func (c *Catalog) Class(id string) *Class {
	return c.classes[id]
}

// Classes returns all classes in file order.
func (c *Catalog) Classes() []*Class {
	out := make([]*Class, 0, len(c.classOrder))
	for _, id := range c.classOrder {
		out = append(out, c.classes[id])
	}
	return out
}

// Ability returns any class ability by id, or nil if not found.
func (c *Catalog) Ability(id string) *Ability {
	return c.abilities[id]
}

// Compatible reports whether the race/class pairing is allowed.
func (c *Catalog) Compatible(raceID, classID string) bool {
	row, ok := c.compatibility[raceID]
	if !ok {
		return false
	}
	return row[classID]
}

// Template returns the message template for an event kind. Missing kinds
// fall back to an empty template so rendering degrades to raw data.
func (c *Catalog) Template(kind string) MessageTemplate {
	return c.templates[kind]
}

// StatusDefault returns the default magnitude/turns for a status kind.
func (c *Catalog) StatusDefault(kind string) (StatusDefault, bool) {
	d, ok := c.statusDefs[kind]
	return d, ok
}

// Balance returns the balance coefficient block.
func (c *Catalog) Balance() *Balance {
	return c.balance
}
