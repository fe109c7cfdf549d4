package game

import (
	"github.com/warlock/server/internal/catalog"
)

// Event kinds. They double as message-template keys in the catalog.
const (
	EvDamage           = "damage"
	EvMonsterDamage    = "monster_damage"
	EvMonsterAttack    = "monster_attack"
	EvMonsterMiss      = "monster_miss"
	EvHeal             = "heal"
	EvSelfDamage       = "self_damage"
	EvImmunity         = "immunity"
	EvStoneDegrade     = "stone_armor_degrade"
	EvStoneBreak       = "stone_armor_break"
	EvCounter          = "counter"
	EvSanctuaryReveal  = "sanctuary_reveal"
	EvKeenSenses       = "keen_senses"
	EvCorruption       = "corruption"
	EvCorruptionPublic = "corruption_public"
	EvStatusApplied    = "status_applied"
	EvStatusExpired    = "status_expired"
	EvPoisonTick       = "poison_tick"
	EvRegenTick        = "regen_tick"
	EvDefense          = "defense"
	EvDeath            = "death"
	EvResurrect        = "resurrect"
	EvLevelUp          = "level_up"
	EvBloodRage        = "blood_rage"
	EvAdapt            = "adapt"
	EvAdaptPublic      = "adapt_public"
	EvLifeBond         = "life_bond"
	EvTaunt            = "taunt"
	EvTrophy           = "trophy"
	EvGameOver         = "game_over"
	EvError            = "error"
)

// Event is a single log entry with per-viewer texts resolved at emit time.
type Event struct {
	Kind       string            `json:"type"`
	Public     bool              `json:"-"`
	VisibleTo  []string          `json:"-"`
	AttackerID string            `json:"attackerId,omitempty"`
	TargetID   string            `json:"targetId,omitempty"`
	PublicText string            `json:"-"`
	AttackText string            `json:"-"`
	TargetText string            `json:"-"`
	Payload    map[string]string `json:"payload,omitempty"`
}

// ShouldShow reports whether the event is visible to the given viewer.
func (e *Event) ShouldShow(viewerID string) bool {
	if e.Public {
		return true
	}
	if viewerID != "" && (viewerID == e.AttackerID || viewerID == e.TargetID) {
		return true
	}
	for _, id := range e.VisibleTo {
		if id == viewerID {
			return true
		}
	}
	return false
}

// TextFor picks the rendering for a viewer: attacker text for the attacker,
// target text for the target, public text for everyone else. Missing
// per-role texts fall back to the public one.
func (e *Event) TextFor(viewerID string) string {
	if viewerID == e.AttackerID && e.AttackText != "" {
		return e.AttackText
	}
	if viewerID == e.TargetID && e.TargetText != "" {
		return e.TargetText
	}
	return e.PublicText
}

// Log collects events during a round and renders their texts from the
// catalog's message templates.
type Log struct {
	cat    *catalog.Catalog
	events []Event
}

func NewLog(cat *catalog.Catalog) *Log {
	return &Log{cat: cat}
}

// Events returns the collected events in emit order.
func (l *Log) Events() []Event {
	return l.events
}

// Reset clears the log for the next round.
func (l *Log) Reset() {
	l.events = l.events[:0]
}

// Add appends a pre-built event.
func (l *Log) Add(ev Event) {
	l.events = append(l.events, ev)
}

func (l *Log) render(kind string, data map[string]string) (pub, atk, tgt string) {
	return catalog.RenderTemplate(l.cat.Template(kind), data)
}

// Combat emits a public event with attacker/target personalization.
func (l *Log) Combat(kind, attackerID, targetID string, data map[string]string) {
	pub, atk, tgt := l.render(kind, data)
	l.events = append(l.events, Event{
		Kind:       kind,
		Public:     true,
		AttackerID: attackerID,
		TargetID:   targetID,
		PublicText: pub,
		AttackText: atk,
		TargetText: tgt,
		Payload:    data,
	})
}

// Broadcast emits a public event with no actor roles.
func (l *Log) Broadcast(kind string, data map[string]string) {
	pub, _, _ := l.render(kind, data)
	l.events = append(l.events, Event{
		Kind:       kind,
		Public:     true,
		PublicText: pub,
		Payload:    data,
	})
}

// Private emits an event visible only to the listed players. Role ids are
// left empty on purpose so visibility is governed solely by the list.
func (l *Log) Private(kind string, visibleTo []string, data map[string]string) {
	pub, _, tgt := l.render(kind, data)
	text := tgt
	if text == "" {
		text = pub
	}
	l.events = append(l.events, Event{
		Kind:       kind,
		VisibleTo:  visibleTo,
		PublicText: text,
		Payload:    data,
	})
}

// RenderedEvent is the per-viewer projection of an Event sent to clients.
type RenderedEvent struct {
	Kind    string            `json:"type"`
	Text    string            `json:"text"`
	Payload map[string]string `json:"payload,omitempty"`
}

// RenderFor projects the log for one viewer, dropping invisible events.
func (l *Log) RenderFor(viewerID string) []RenderedEvent {
	out := make([]RenderedEvent, 0, len(l.events))
	for i := range l.events {
		e := &l.events[i]
		if !e.ShouldShow(viewerID) {
			continue
		}
		out = append(out, RenderedEvent{
			Kind:    e.Kind,
			Text:    e.TextFor(viewerID),
			Payload: e.Payload,
		})
	}
	return out
}
