package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warlock/server/internal/catalog"
)

func TestEngineRunsShippedScripts(t *testing.T) {
	bal := catalog.DefaultBalance()
	e, err := NewEngine("../../scripts", bal, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	// The shipped script mirrors the native curve.
	require.Equal(t, bal.MonsterHP(1), e.MonsterHP(1))
	require.Equal(t, bal.MonsterHP(4), e.MonsterHP(4))
	require.Equal(t, bal.MonsterDamage(0), e.MonsterDamage(0))
	require.Equal(t, bal.MonsterDamage(3), e.MonsterDamage(3))
}

func TestEngineFallsBackWhenFunctionMissing(t *testing.T) {
	bal := catalog.DefaultBalance()
	e, err := NewEngine(t.TempDir(), bal, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	require.Equal(t, bal.MonsterHP(2), e.MonsterHP(2))
	require.Equal(t, bal.MonsterDamage(5), e.MonsterDamage(5))
}

func TestEngineScriptOverridesCurve(t *testing.T) {
	dir := t.TempDir()
	script := []byte("function monster_hp(level, base_hp, hp_per_level)\n    return 9000 + level\nend\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "override.lua"), script, 0o644))

	bal := catalog.DefaultBalance()
	e, err := NewEngine(dir, bal, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	require.Equal(t, 9003, e.MonsterHP(3))
	require.Equal(t, bal.MonsterDamage(1), e.MonsterDamage(1), "undefined formulas still fall back")
}

func TestEngineRejectsBrokenScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644))

	_, err := NewEngine(dir, catalog.DefaultBalance(), zap.NewNop())
	require.Error(t, err)
}

func TestMissingScriptsDirIsFine(t *testing.T) {
	e, err := NewEngine("does/not/exist", catalog.DefaultBalance(), zap.NewNop())
	require.NoError(t, err)
	e.Close()
}
