package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/warlock/server/internal/catalog"
)

// Engine wraps a single gopher-lua VM holding the tunable balance curves.
// Rooms run on their own goroutines, so every call into the VM is
// serialized behind the mutex. When a script does not define a formula the
// engine falls back to the native balance coefficients, so a partial
// scripts directory is fine.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	bal *catalog.Balance
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. A missing directory is not an error; the engine then answers
// everything from the native formulas.
func NewEngine(scriptsDir string, bal *catalog.Balance, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, bal: bal, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// MonsterHP calls Lua monster_hp(level, base_hp, hp_per_level).
func (e *Engine) MonsterHP(level int) int {
	got, ok := e.callIntFunc("monster_hp", level, e.bal.Monster.BaseHP, e.bal.Monster.HPPerLevel)
	if !ok {
		return e.bal.MonsterHP(level)
	}
	return got
}

// MonsterDamage calls Lua monster_damage(age, base_damage, age_multiplier).
func (e *Engine) MonsterDamage(age int) int {
	got, ok := e.callIntFunc("monster_damage", age, e.bal.Monster.BaseDamage, e.bal.Monster.AgeMultiplier)
	if !ok {
		return e.bal.MonsterDamage(age)
	}
	return got
}

// callIntFunc calls a Lua function with numeric args and returns an int
// result. The second return is false when the global is missing or the
// call failed, which tells the caller to use the native formula.
func (e *Engine) callIntFunc(name string, args ...any) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return 0, false
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case int:
			lArgs[i] = lua.LNumber(v)
		case float64:
			lArgs[i] = lua.LNumber(v)
		default:
			e.log.Error("lua call with unsupported arg type", zap.String("func", name))
			return 0, false
		}
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result)), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}
