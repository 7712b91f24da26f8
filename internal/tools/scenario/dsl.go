// Package scenario loads and executes Lua match scripts. A script builds a
// Scenario value through a small DSL and returns it; the runner replays the
// steps against an in-process simulation.
package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a parsed script: a name and an ordered step list.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one DSL call with its arguments.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script and extracts the Scenario it
// returns.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	registerScenarioType(state)
	registerScenarioConstructor(state)
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "format", Function: scenarioFormat},
	{Name: "seed", Function: scenarioSeed},
	{Name: "teams", Function: scenarioTeams},
	{Name: "conditions", Function: scenarioConditions},
	{Name: "deliver", Function: scenarioDeliver},
	{Name: "fast_forward", Function: scenarioFastForward},
	{Name: "play_over", Function: scenarioPlayOver},
	{Name: "declare", Function: scenarioDeclare},
	{Name: "expect_score", Function: scenarioExpectScore},
	{Name: "expect_complete", Function: scenarioExpectComplete},
	{Name: "expect_result", Function: scenarioExpectResult},
}

func scenarioFormat(state *lua.State) int {
	scenario := checkScenario(state)
	value := lua.CheckString(state, 2)
	appendStep(scenario, "format", map[string]any{"value": value})
	pushSelf(state)
	return 1
}

func scenarioSeed(state *lua.State) int {
	scenario := checkScenario(state)
	value := int(lua.CheckNumber(state, 2))
	appendStep(scenario, "seed", map[string]any{"value": value})
	pushSelf(state)
	return 1
}

func scenarioTeams(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "teams", tableToMap(state, 2))
	pushSelf(state)
	return 1
}

func scenarioConditions(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "conditions", tableToMap(state, 2))
	pushSelf(state)
	return 1
}

func scenarioDeliver(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "deliver", tableToMap(state, 2))
	pushSelf(state)
	return 1
}

func scenarioFastForward(state *lua.State) int {
	scenario := checkScenario(state)
	value := int(lua.CheckNumber(state, 2))
	appendStep(scenario, "fast_forward", map[string]any{"balls": value})
	pushSelf(state)
	return 1
}

func scenarioPlayOver(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "play_over", nil)
	pushSelf(state)
	return 1
}

func scenarioDeclare(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "declare", nil)
	pushSelf(state)
	return 1
}

func scenarioExpectScore(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "expect_score", tableToMap(state, 2))
	pushSelf(state)
	return 1
}

func scenarioExpectComplete(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_complete", nil)
	pushSelf(state)
	return 1
}

func scenarioExpectResult(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "expect_result", tableToMap(state, 2))
	pushSelf(state)
	return 1
}

// pushSelf leaves the scenario userdata on the stack so DSL calls chain.
func pushSelf(state *lua.State) {
	state.PushValue(1)
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	default:
		return nil
	}
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
