package game

import (
	"testing"

	"github.com/warlock/server/internal/catalog"
)

// stubRNG returns queued values, then zeros. Zero Float64 draws always
// convert (any chance > 0); zero Intn always picks the first candidate.
type stubRNG struct {
	floats []float64
	ints   []int
}

func (s *stubRNG) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *stubRNG) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

// neverRNG draws that never convert.
type neverRNG struct{}

func (neverRNG) Float64() float64 { return 0.999999 }
func (neverRNG) Intn(n int) int   { return 0 }

var sharedCatalog *catalog.Catalog

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	if sharedCatalog == nil {
		c, err := catalog.LoadDir("../../data/yaml")
		if err != nil {
			t.Fatalf("load catalog: %v", err)
		}
		sharedCatalog = c
	}
	return sharedCatalog
}

// recordNotifier captures everything a room sends, per connection.
type recordNotifier struct {
	sent []sentMsg
}

type sentMsg struct {
	ConnID  uint64
	Type    string
	Payload any
}

func (n *recordNotifier) Send(connID uint64, msgType string, payload any) {
	n.sent = append(n.sent, sentMsg{ConnID: connID, Type: msgType, Payload: payload})
}

// lastOfType returns the most recent message of a type for a connection.
func (n *recordNotifier) lastOfType(connID uint64, msgType string) (sentMsg, bool) {
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].ConnID == connID && n.sent[i].Type == msgType {
			return n.sent[i], true
		}
	}
	return sentMsg{}, false
}

type fixture struct {
	t    *testing.T
	cat  *catalog.Catalog
	room *Room
	rec  *recordNotifier
}

func newFixture(t *testing.T, bal *catalog.Balance, rng RNG) *fixture {
	t.Helper()
	cat := testCatalog(t)
	if bal == nil {
		bal = catalog.DefaultBalance()
	}
	if rng == nil {
		rng = neverRNG{}
	}
	rec := &recordNotifier{}
	room := NewRoom("1234", Options{
		Catalog:  cat,
		Balance:  bal,
		RNG:      rng,
		Notifier: rec,
	})
	return &fixture{t: t, cat: cat, room: room, rec: rec}
}

// addPlayer joins and fully configures a player.
func (f *fixture) addPlayer(name, race, class string) *Player {
	f.t.Helper()
	id, err := f.room.AddPlayer(uint64(len(f.room.Players)+1), name)
	if err != nil {
		f.t.Fatalf("add player %s: %v", name, err)
	}
	p := f.room.Players[id]
	if err := f.room.SelectCharacter(id, race, class); err != nil {
		f.t.Fatalf("select character %s: %v", name, err)
	}
	if err := f.room.MarkReady(id); err != nil {
		f.t.Fatalf("mark ready %s: %v", name, err)
	}
	return p
}

// begin opens the action phase without drawing an initial warlock, so
// tests control role assignment explicitly.
func (f *fixture) begin() {
	f.t.Helper()
	for _, p := range f.room.playersInOrder() {
		class := f.cat.Class(p.Class)
		p.Abilities = append([]*catalog.Ability(nil), class.Abilities...)
		p.Level = f.room.Level
		f.room.initRacial(p)
	}
	f.room.Phase = PhaseAction
	f.room.Turn = 1
}

// makeWarlock flags a player through the warlock system so the counter
// stays truthful.
func (f *fixture) makeWarlock(p *Player) {
	p.IsWarlock = true
	f.room.warlocks.count++
}

func (f *fixture) submit(p *Player, abilityID, targetID string) {
	f.t.Helper()
	if err := f.room.SubmitAction(p.ID, abilityID, targetID); err != nil {
		f.t.Fatalf("%s submits %s: %v", p.Name, abilityID, err)
	}
}

// submitLast submits for the final pending player, which triggers round
// resolution.
func (f *fixture) resolve() {
	f.t.Helper()
	f.room.resolveRound()
}

func eventKinds(events []Event) []string {
	out := make([]string, 0, len(events))
	for i := range events {
		out = append(out, events[i].Kind)
	}
	return out
}

func hasEventKind(events []Event, kind string) bool {
	for i := range events {
		if events[i].Kind == kind {
			return true
		}
	}
	return false
}
