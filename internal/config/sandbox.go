package config

import (
	lua "github.com/yuin/gopher-lua"
)

// safeLibraries are the only standard libraries opened in a config VM.
var safeLibraries = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// unsafeBaseFunctions are base library globals that load code, reach the
// filesystem or escape the environment.
var unsafeBaseFunctions = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
	"getfenv",
	"setfenv",
	"newproxy",
	"print",
}

// newSandboxedVM returns a Lua state without os, io, debug or package
// support. Callers must Close it.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: luaCallStackSize,
		RegistrySize:  luaRegistrySize,
	})

	for _, lib := range safeLibraries {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range unsafeBaseFunctions {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}
