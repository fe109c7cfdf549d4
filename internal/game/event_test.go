package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventVisibility(t *testing.T) {
	pub := Event{Kind: EvDamage, Public: true, AttackerID: "p1", TargetID: "p2"}
	require.True(t, pub.ShouldShow("p1"))
	require.True(t, pub.ShouldShow("p3"))
	require.True(t, pub.ShouldShow(""))

	priv := Event{Kind: EvCorruption, VisibleTo: []string{"p2"}}
	require.True(t, priv.ShouldShow("p2"))
	require.False(t, priv.ShouldShow("p1"))
	require.False(t, priv.ShouldShow(""))
}

func TestEventTextSelection(t *testing.T) {
	ev := Event{
		Kind:       EvDamage,
		Public:     true,
		AttackerID: "p1",
		TargetID:   "p2",
		PublicText: "A hits B",
		AttackText: "You hit B",
		TargetText: "A hits you",
	}
	require.Equal(t, "You hit B", ev.TextFor("p1"))
	require.Equal(t, "A hits you", ev.TextFor("p2"))
	require.Equal(t, "A hits B", ev.TextFor("p3"))

	// Missing role texts fall back to the public rendering.
	ev.AttackText = ""
	require.Equal(t, "A hits B", ev.TextFor("p1"))
}

func TestCombatEventRendersRoleTexts(t *testing.T) {
	cat := testCatalog(t)
	log := NewLog(cat)
	log.Combat(EvDamage, "p1", "p2", map[string]string{
		"attacker": "Alice",
		"target":   "Bob",
		"ability":  "Slash",
		"amount":   "33",
	})

	attacker := log.RenderFor("p1")
	target := log.RenderFor("p2")
	other := log.RenderFor("p3")
	require.Len(t, attacker, 1)
	require.Len(t, target, 1)
	require.Len(t, other, 1)

	require.Equal(t, "You hit Bob with Slash for 33 damage", attacker[0].Text)
	require.Equal(t, "Alice hits you with Slash for 33 damage", target[0].Text)
	require.Equal(t, "Alice hits Bob with Slash for 33 damage", other[0].Text)
}

func TestRenderForDropsInvisibleEvents(t *testing.T) {
	cat := testCatalog(t)
	log := NewLog(cat)
	log.Broadcast(EvCorruptionPublic, nil)
	log.Private(EvCorruption, []string{"p2"}, map[string]string{"target": "Bob"})

	require.Len(t, log.RenderFor("p2"), 2)
	require.Len(t, log.RenderFor("p1"), 1, "outsiders only see the vague public note")
	require.Equal(t, EvCorruptionPublic, log.RenderFor("p1")[0].Kind)
}

func TestLogResetClears(t *testing.T) {
	cat := testCatalog(t)
	log := NewLog(cat)
	log.Broadcast(EvGameOver, map[string]string{"winner": "The heroes"})
	require.Len(t, log.Events(), 1)
	log.Reset()
	require.Empty(t, log.Events())
}

func TestRoundResultPersonalization(t *testing.T) {
	f := newFixture(t, noCoordBalance(), nil)
	alice := f.addPlayer("Alice", "artisan", "warrior")
	bob := f.addPlayer("Bob", "artisan", "wizard")
	charlie := f.addPlayer("Charlie", "artisan", "priest")
	f.begin()
	f.makeWarlock(charlie)

	f.submit(alice, "slash", bob.ID)
	f.submit(bob, "fireball", MonsterTargetID)
	f.submit(charlie, "heal", charlie.ID)

	aliceMsg, ok := f.rec.lastOfType(alice.ConnID, MsgRoundResult)
	require.True(t, ok)
	bobMsg, _ := f.rec.lastOfType(bob.ConnID, MsgRoundResult)
	charlieMsg, _ := f.rec.lastOfType(charlie.ConnID, MsgRoundResult)

	aliceRes := aliceMsg.Payload.(RoundResult)
	bobRes := bobMsg.Payload.(RoundResult)
	charlieRes := charlieMsg.Payload.(RoundResult)

	// Same facts, different words: the slash reads differently to its
	// attacker and its target.
	require.Equal(t, len(aliceRes.Events), len(bobRes.Events))
	damageText := func(res RoundResult) string {
		for _, ev := range res.Events {
			if ev.Kind == EvDamage {
				return ev.Text
			}
		}
		return ""
	}
	require.NotEqual(t, damageText(aliceRes), damageText(bobRes))
	require.Contains(t, damageText(aliceRes), "You hit")
	require.Contains(t, damageText(bobRes), "hits you")

	// Role knowledge stays with its owner.
	for _, pv := range aliceRes.Players {
		if pv.ID == alice.ID {
			require.NotNil(t, pv.IsWarlock)
			require.False(t, *pv.IsWarlock)
		} else {
			require.Nil(t, pv.IsWarlock, "other players' roles are hidden")
		}
	}
	for _, pv := range charlieRes.Players {
		if pv.ID == charlie.ID {
			require.NotNil(t, pv.IsWarlock)
			require.True(t, *pv.IsWarlock)
		}
	}
	for _, pv := range bobRes.Players {
		require.Equal(t, pv.ID == bob.ID, pv.Cooldowns != nil, "cooldowns are self-only")
	}
}
