// Package scripting embeds a Lua VM and exposes the randomness primitives
// to scripts through a global crawl table, so content scripts can make the
// same seeded decisions as compiled code.
package scripting

import (
	"fmt"
	"math"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/crawlspace/internal/core/chance"
	"github.com/louisbranch/crawlspace/internal/core/dice"
	"github.com/louisbranch/crawlspace/internal/core/rng"
)

const globalTable = "crawl"

// Engine is a Lua VM bound to a generator registry. Scripts draw from the
// gameplay stream except for crawl.ui_random, which is charged to the
// cosmetic stream. An Engine is not safe for concurrent use.
type Engine struct {
	state *lua.State
	reg   *rng.Registry
}

// New returns an engine with the standard Lua libraries opened and the
// crawl table registered.
func New(reg *rng.Registry) *Engine {
	state := lua.NewState()
	lua.OpenLibraries(state)

	e := &Engine{state: state, reg: reg}
	e.registerCrawlTable()
	return e
}

// RunFile loads and executes a script file.
func (e *Engine) RunFile(path string) error {
	if err := lua.LoadFile(e.state, path, ""); err != nil {
		return fmt.Errorf("load lua: %w", err)
	}
	if err := e.state.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// RunString executes a script from source text.
func (e *Engine) RunString(src string) error {
	if err := lua.DoString(e.state, src); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// GlobalInt reads an integer global set by a script, for hosts that use
// scripts to compute values.
func (e *Engine) GlobalInt(name string) (int, bool) {
	e.state.Global(name)
	defer e.state.Pop(1)
	return e.state.ToInteger(-1)
}

func (e *Engine) registerCrawlTable() {
	funcs := []lua.RegistryFunction{
		{Name: "coinflip", Function: e.luaCoinflip},
		{Name: "random2", Function: e.luaRandom2},
		{Name: "x_chance_in_y", Function: e.luaXChanceInY},
		{Name: "one_chance_in", Function: e.luaOneChanceIn},
		{Name: "random_range", Function: e.luaRandomRange},
		{Name: "roll_dice", Function: e.luaRollDice},
		{Name: "div_rand_round", Function: e.luaDivRandRound},
		{Name: "ui_random", Function: e.luaUIRandom},
	}
	e.state.NewTable()
	lua.SetFunctions(e.state, funcs, 0)
	e.state.SetGlobal(globalTable)
}

func (e *Engine) gameplay() rng.Source {
	return e.reg.Get(rng.StreamGameplay)
}

func (e *Engine) luaCoinflip(state *lua.State) int {
	state.PushBoolean(chance.Coinflip(e.gameplay()))
	return 1
}

func (e *Engine) luaRandom2(state *lua.State) int {
	max := lua.CheckInteger(state, 1)
	state.PushInteger(chance.Random2(e.gameplay(), max))
	return 1
}

// luaXChanceInY dispatches on the numeric kind of its operands: a
// fractional x or y selects the real-valued comparison, whole numbers the
// integer one.
func (e *Engine) luaXChanceInY(state *lua.State) int {
	x := lua.CheckNumber(state, 1)
	y := lua.CheckNumber(state, 2)

	if x != math.Trunc(x) || y != math.Trunc(y) {
		state.PushBoolean(chance.XChanceInYFloat(e.gameplay(), x, y))
	} else {
		state.PushBoolean(chance.XChanceInY(e.gameplay(), int(x), int(y)))
	}
	return 1
}

func (e *Engine) luaOneChanceIn(state *lua.State) int {
	n := lua.CheckInteger(state, 1)
	state.PushBoolean(chance.OneChanceIn(e.gameplay(), n))
	return 1
}

func (e *Engine) luaRandomRange(state *lua.State) int {
	low := lua.CheckInteger(state, 1)
	high := lua.CheckInteger(state, 2)
	if low > high {
		lua.Errorf(state, "random_range: inverted range [%d, %d]", low, high)
	}
	state.PushInteger(chance.RandomRange(e.gameplay(), low, high))
	return 1
}

func (e *Engine) luaRollDice(state *lua.State) int {
	num := lua.CheckInteger(state, 1)
	size := lua.CheckInteger(state, 2)
	state.PushInteger(dice.RollDice(e.gameplay(), num, size))
	return 1
}

func (e *Engine) luaDivRandRound(state *lua.State) int {
	num := lua.CheckInteger(state, 1)
	den := lua.CheckInteger(state, 2)
	state.PushInteger(chance.DivRandRound(e.gameplay(), num, den))
	return 1
}

func (e *Engine) luaUIRandom(state *lua.State) int {
	max := lua.CheckInteger(state, 1)
	state.PushInteger(chance.UIRandom(e.reg, max))
	return 1
}
