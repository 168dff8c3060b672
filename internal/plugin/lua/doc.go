// Package lua runs number conversion scripts in a sandboxed gopher-lua
// state.
//
// # State
//
// A State opens only the base, table, string and math libraries. The
// functions that load code from outside the script (dofile, loadfile,
// load, loadstring, require) are removed, and print writes to the
// configured output instead of stdout.
//
//	state, err := lua.NewState(
//	    lua.WithTables(store),
//	    lua.WithSyntax("vhdl"),
//	    lua.WithExecutionTimeout(2 * time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	state.SetString("input", text)
//	if err := state.DoFile(ctx, "script.lua"); err != nil {
//	    return err
//	}
//	out, _ := state.GetString("output")
//
// Every run is bounded by the execution timeout and by the caller's
// context; a script that exceeds the timeout fails with
// ErrExecutionTimeout.
//
// # The numconv module
//
// Scripts see a global table numconv. Offsets are 1-based and inclusive,
// so the returned start and end can be passed straight to string.sub:
//
//	numconv.convert(text, pos, to [, from])           -> new, start, end, saturated
//	numconv.convert_range(text, start, end, to [, from]) -> new, start, end, saturated
//	numconv.convert_all(text, from, to)               -> text, count
//	numconv.format(value, to)                         -> string, saturated
//
// Bases are named bin, dec, hex or exp. When no number is found the
// functions return nil and an error message; an unknown base raises a
// Lua error.
package lua
