package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func countWarlockFlags(r *Room) int {
	n := 0
	for _, p := range r.Players {
		if p.Alive && p.IsWarlock {
			n++
		}
	}
	return n
}

func TestInitialWarlockAssignment(t *testing.T) {
	f := newFixture(t, nil, &stubRNG{ints: []int{1}})
	f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	f.addPlayer("Charlie", "artisan", "priest")

	log := NewLog(f.cat)
	chosen := f.room.warlocks.AssignInitialWarlock("", log)

	require.Same(t, bob, chosen, "index 1 in join order")
	require.True(t, bob.IsWarlock)
	require.Equal(t, 1, f.room.WarlockCount())

	events := log.Events()
	require.Len(t, events, 1)
	require.Equal(t, EvCorruption, events[0].Kind)
	require.True(t, events[0].ShouldShow(bob.ID))
	require.False(t, events[0].ShouldShow("Alice"))
}

func TestConversionChanceBoundary(t *testing.T) {
	// One warlock among four alive: chance = 0.2 + 0.3*(1/4) = 0.275.
	run := func(draw float64) bool {
		f := newFixture(t, nil, &stubRNG{floats: []float64{draw}})
		alice := f.addPlayer("Alice", "artisan", "warrior")
		bob := f.addPlayer("Bob", "artisan", "wizard")
		f.addPlayer("Charlie", "artisan", "priest")
		f.addPlayer("Dana", "artisan", "guardian")
		f.begin()
		f.makeWarlock(alice)
		return f.room.warlocks.AttemptConversion(alice, bob, NewLog(f.cat), 1.0)
	}
	require.True(t, run(0.274), "draw under the chance converts")
	require.False(t, run(0.276), "draw over the chance does not")
}

func TestConversionAoEModifierHalvesChance(t *testing.T) {
	// Three alive, one warlock: base chance 0.3; halved for AoE hits.
	run := func(draw, modifier float64) bool {
		f := newFixture(t, nil, &stubRNG{floats: []float64{draw}})
		alice := f.addPlayer("Alice", "artisan", "warrior")
		bob := f.addPlayer("Bob", "artisan", "wizard")
		f.addPlayer("Charlie", "artisan", "priest")
		f.begin()
		f.makeWarlock(alice)
		return f.room.warlocks.AttemptConversion(alice, bob, NewLog(f.cat), modifier)
	}
	require.True(t, run(0.2, 1.0))
	require.False(t, run(0.2, 0.5), "0.2 is over the halved 0.15")
	require.True(t, run(0.1, 0.5))
}

func TestConversionSkipsInvalidTargets(t *testing.T) {
	f := newFixture(t, nil, &stubRNG{})
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	f.addPlayer("Charlie", "artisan", "priest")
	f.begin()
	f.makeWarlock(alice)
	f.makeWarlock(bob)

	log := NewLog(f.cat)
	require.False(t, f.room.warlocks.AttemptConversion(alice, bob, log, 1.0), "warlocks cannot be converted twice")

	charlie := f.room.findByName("Charlie")
	charlie.Alive = false
	require.False(t, f.room.warlocks.AttemptConversion(alice, charlie, log, 1.0), "the dead are beyond corruption")
	require.Equal(t, 2, f.room.WarlockCount())
}

func TestForceConvert(t *testing.T) {
	f := newFixture(t, nil, nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	f.addPlayer("Bob", "artisan", "wizard")
	f.addPlayer("Charlie", "artisan", "priest")
	f.begin()

	log := NewLog(f.cat)
	f.room.warlocks.ForceConvert(alice, log)
	require.True(t, alice.IsWarlock)
	require.Equal(t, 1, f.room.WarlockCount())

	// Converting an existing warlock is a no-op.
	f.room.warlocks.ForceConvert(alice, log)
	require.Equal(t, 1, f.room.WarlockCount())
}

func TestWarlockCountTracksFlags(t *testing.T) {
	f := newFixture(t, nil, &stubRNG{floats: []float64{0.0}})
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	charlie := f.addPlayer("Charlie", "artisan", "priest")
	f.addPlayer("Dana", "artisan", "guardian")
	f.begin()
	f.makeWarlock(alice)
	require.Equal(t, countWarlockFlags(f.room), f.room.WarlockCount())

	log := NewLog(f.cat)
	require.True(t, f.room.warlocks.AttemptConversion(alice, bob, log, 1.0))
	require.Equal(t, countWarlockFlags(f.room), f.room.WarlockCount())

	// A warlock death leaves the count.
	bob.HP = 0
	bob.PendingDeath = true
	f.room.processPendingDeaths(log)
	require.False(t, bob.Alive)
	require.Equal(t, 1, f.room.WarlockCount())
	require.Equal(t, countWarlockFlags(f.room), f.room.WarlockCount())

	// A warlock quitting mid-game leaves it too.
	f.room.Leave(charlie.ID)
	require.Equal(t, 1, f.room.WarlockCount())
	f.room.Leave(alice.ID)
	require.Equal(t, 0, f.room.WarlockCount())
	require.Equal(t, countWarlockFlags(f.room), f.room.WarlockCount())
}

func TestMajorityIsStrict(t *testing.T) {
	f := newFixture(t, nil, nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	f.addPlayer("Charlie", "artisan", "priest")
	f.addPlayer("Dana", "artisan", "guardian")
	f.begin()

	f.makeWarlock(alice)
	require.False(t, f.room.warlocks.AreWarlocksWinning())

	f.makeWarlock(bob)
	require.False(t, f.room.warlocks.AreWarlocksWinning(), "exactly half is not a majority")

	f.makeWarlock(f.room.findByName("Charlie"))
	require.True(t, f.room.warlocks.AreWarlocksWinning())
}
