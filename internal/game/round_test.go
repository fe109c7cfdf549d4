package game

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/warlock/server/internal/catalog"
)

func noCoordBalance() *catalog.Balance {
	bal := catalog.DefaultBalance()
	bal.Coordination.BonusPerAttacker = 0
	return bal
}

func TestSimpleAttackRound(t *testing.T) {
	f := newFixture(t, noCoordBalance(), nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	charlie := f.addPlayer("Charlie", "artisan", "priest")
	f.begin()

	f.submit(alice, "slash", MonsterTargetID)
	f.submit(bob, "fireball", MonsterTargetID)
	f.submit(charlie, "heal", bob.ID) // triggers resolution

	require.Equal(t, 32, f.room.Monster.HP, "monster takes 33+35")
	require.Equal(t, bob.MaxHP, bob.HP, "Bob stays at full HP")

	events := f.room.roundLog.Events()
	kinds := eventKinds(events)
	require.Equal(t, []string{EvHeal, EvMonsterDamage, EvMonsterDamage, EvMonsterAttack}, kinds)

	// The monster swings at the lowest-HP player; all tied, so join order
	// picks Alice.
	require.Equal(t, 90, alice.HP)
	require.Equal(t, 2, f.room.Turn)
	require.Equal(t, PhaseAction, f.room.Phase)
}

func TestCoordinationRound(t *testing.T) {
	f := newFixture(t, nil, nil) // shipped defaults: 0.15 per attacker, cap 0.5
	a := f.addPlayer("A", "artisan", "priest")
	b := f.addPlayer("B", "artisan", "priest")
	c := f.addPlayer("C", "artisan", "priest")
	f.begin()
	a.Level, b.Level, c.Level = 2, 2, 2 // holy bolt unlocks at 2

	f.submit(a, "holy_bolt", MonsterTargetID)
	f.submit(b, "holy_bolt", MonsterTargetID)
	f.submit(c, "holy_bolt", MonsterTargetID)

	// Each of the three deals floor(20 * 1.30) = 26.
	require.Equal(t, 100-78, f.room.Monster.HP)
}

func TestConversionRound(t *testing.T) {
	f := newFixture(t, nil, &stubRNG{floats: []float64{0.1, 0.99, 0.99}})
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	charlie := f.addPlayer("Charlie", "artisan", "assassin")
	f.begin()
	f.makeWarlock(charlie)

	f.submit(charlie, "poison_strike", alice.ID)
	f.submit(alice, "slash", MonsterTargetID)
	f.submit(bob, "fireball", MonsterTargetID)

	// chance = min(0.5, 0.2 + 0.3*(1/3)) = 0.3; draw 0.1 converts.
	require.True(t, alice.IsWarlock)
	require.Equal(t, 2, f.room.WarlockCount())

	events := f.room.roundLog.Events()
	var corruption *Event
	for i := range events {
		if events[i].Kind == EvCorruption {
			corruption = &events[i]
		}
	}
	require.NotNil(t, corruption)
	require.False(t, corruption.Public)
	require.True(t, corruption.ShouldShow(alice.ID))
	require.False(t, corruption.ShouldShow(bob.ID))
	require.False(t, corruption.ShouldShow(charlie.ID))
	require.True(t, hasEventKind(events, EvCorruptionPublic))
}

func TestUndyingRound(t *testing.T) {
	f := newFixture(t, nil, nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	skeleton := f.addPlayer("Morith", "lich", "wizard")
	f.addPlayer("Carl", "artisan", "priest")
	f.begin()

	skeleton.HP = 5
	require.True(t, skeleton.Racial.UndyingCharge)

	f.submit(alice, "slash", skeleton.ID)
	f.resolve()

	require.True(t, skeleton.Alive)
	require.Equal(t, 1, skeleton.HP)
	require.False(t, skeleton.Racial.UndyingCharge, "charge is consumed")
	require.True(t, hasEventKind(f.room.roundLog.Events(), EvResurrect))
	require.False(t, hasEventKind(f.room.roundLog.Events(), EvDeath))
}

func TestLevelUpRound(t *testing.T) {
	f := newFixture(t, nil, nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	charlie := f.addPlayer("Charlie", "artisan", "priest")
	f.begin()

	f.room.Monster.HP = 1
	alice.HP = 40 // wounded, to observe the full heal

	f.submit(alice, "slash", MonsterTargetID)
	f.submit(bob, "fireball", MonsterTargetID)
	f.submit(charlie, "heal", charlie.ID)

	require.Equal(t, 2, f.room.Level)
	require.Equal(t, 2, alice.Level)
	require.Equal(t, 120, alice.MaxHP)
	require.Equal(t, 120, alice.HP, "full heal on level up")
	require.Equal(t, 150, f.room.Monster.MaxHP)
	require.Equal(t, 150, f.room.Monster.HP)
	require.Equal(t, 0, f.room.Monster.Age)

	msg, ok := f.rec.lastOfType(alice.ConnID, MsgRoundResult)
	require.True(t, ok)
	res := msg.Payload.(RoundResult)
	require.NotNil(t, res.LevelUp)
	require.Equal(t, 1, res.LevelUp.OldLevel)
	require.Equal(t, 2, res.LevelUp.NewLevel)

	// New unlocks: arcane shield requires level 2 and is now usable.
	require.NotNil(t, bob.HasUnlocked("arcane_shield"))
}

func TestRoundDeterminism(t *testing.T) {
	run := func(seed int64) []sentMsg {
		f := newFixture(t, nil, rand.New(rand.NewSource(seed)))
		alice := f.addPlayer("Alice", "artisan", "warrior")
		bob := f.addPlayer("Bob", "artisan", "wizard")
		charlie := f.addPlayer("Charlie", "artisan", "assassin")
		f.begin()
		f.makeWarlock(charlie)

		f.submit(charlie, "poison_strike", alice.ID)
		f.submit(alice, "slash", MonsterTargetID)
		f.submit(bob, "fireball", MonsterTargetID)
		return f.rec.sent
	}

	first := run(42)
	second := run(42)
	require.True(t, reflect.DeepEqual(first, second), "identical seeds and actions must replay identically")
}

func TestCooldownLaw(t *testing.T) {
	f := newFixture(t, nil, nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	f.addPlayer("Charlie", "artisan", "priest")
	f.begin()
	alice.Level = 2

	shieldBash := f.cat.Ability("shield_bash")
	require.Equal(t, 2, shieldBash.Cooldown)

	f.submit(alice, "shield_bash", bob.ID)
	f.resolve()

	// Rearmed at cooldown+1, ticked once in the same round.
	require.Equal(t, 2, alice.Cooldowns["shield_bash"])
	require.ErrorIs(t, f.room.SubmitAction(alice.ID, "shield_bash", bob.ID), ErrOnCooldown)

	f.resolve()
	require.Equal(t, 1, alice.Cooldowns["shield_bash"])
	f.resolve()
	require.Equal(t, 0, alice.Cooldowns["shield_bash"])
	require.NoError(t, f.room.SubmitAction(alice.ID, "shield_bash", bob.ID))
}

func TestStunnedPlayerCountsAsSubmitted(t *testing.T) {
	f := newFixture(t, nil, nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	charlie := f.addPlayer("Charlie", "artisan", "priest")
	f.begin()

	f.room.status.Apply(bob, StatusEffect{Kind: EffectStunned, Turns: 1}, f.room.roundLog)
	require.ErrorIs(t, f.room.SubmitAction(bob.ID, "fireball", MonsterTargetID), ErrStunned)

	turn := f.room.Turn
	f.submit(alice, "slash", MonsterTargetID)
	f.submit(charlie, "heal", charlie.ID)
	require.Equal(t, turn+1, f.room.Turn, "round resolves without the stunned player")
}

func TestAdaptedAbilityNoLongerCastable(t *testing.T) {
	f := newFixture(t, noCoordBalance(), nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	f.addPlayer("Charlie", "artisan", "priest")
	f.begin()

	// Alice trades slash away and tries to cast it in the same round: the
	// racial resolves first, so the class action fizzles.
	require.NoError(t, f.room.SubmitRacial(alice.ID, "slash"))
	f.submit(alice, "slash", MonsterTargetID)
	f.submit(bob, "fireball", MonsterTargetID)
	f.resolve()

	require.True(t, alice.Racial.Adapted)
	require.Nil(t, alice.HasUnlocked("slash"))
	require.Equal(t, 0, alice.Racial.UsesLeft)
	require.Equal(t, 100-35, f.room.Monster.HP, "only the fireball lands")
}
