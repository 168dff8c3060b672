package lua

import (
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/numconv/internal/convert"
)

// ModuleName is the global the conversion functions are installed under.
const ModuleName = "numconv"

// TableSource supplies the compiled table for a syntax.
type TableSource interface {
	Table(syntax string) (*convert.Table, error)
}

// module implements the numconv Lua module. Offsets seen by scripts are
// 1-based and inclusive, like string.sub.
type module struct {
	tables TableSource
	syntax string
	logger *zap.Logger
}

func (m *module) install(L *lua.LState) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"convert":       m.convert,
		"convert_range": m.convertRange,
		"convert_all":   m.convertAll,
		"format":        m.format,
	})
	bases := L.NewTable()
	for _, b := range convert.Bases() {
		bases.Append(lua.LString(b.Short()))
	}
	L.SetField(mod, "bases", bases)
	L.SetField(mod, "syntax", lua.LString(m.syntax))
	L.SetGlobal(ModuleName, mod)
}

func (m *module) converter() *convert.Converter {
	if m.tables == nil {
		return convert.New(nil)
	}
	table, err := m.tables.Table(m.syntax)
	if err != nil {
		m.logger.Debug("number settings have errors", zap.String("syntax", m.syntax), zap.Error(err))
	}
	return convert.New(table)
}

// convert(text, pos, to [, from]) -> new_text, start, end, saturated | nil, err
func (m *module) convert(L *lua.LState) int {
	text := L.CheckString(1)
	pos := L.CheckInt(2)
	to := checkBase(L, 3)
	from := optBase(L, 4)

	edit, err := m.converter().Convert(text, convert.At(pos-1), to, from...)
	return pushEdit(L, edit, err)
}

// convert_range(text, start, end, to [, from]) -> new_text, start, end, saturated | nil, err
func (m *module) convertRange(L *lua.LState) int {
	text := L.CheckString(1)
	start := L.CheckInt(2)
	end := L.CheckInt(3)
	to := checkBase(L, 4)
	from := optBase(L, 5)

	edit, err := m.converter().Convert(text, convert.Between(start-1, end), to, from...)
	return pushEdit(L, edit, err)
}

// convert_all(text, from, to) -> text, count [, err] | nil, err
func (m *module) convertAll(L *lua.LState) int {
	text := L.CheckString(1)
	from := checkBase(L, 2)
	to := checkBase(L, 3)

	out, n, err := m.converter().ConvertText(text, from, to)
	if err != nil && n == 0 && out == text {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(out))
	L.Push(lua.LNumber(n))
	if err != nil {
		L.Push(lua.LString(err.Error()))
		return 3
	}
	return 2
}

// format(value, to) -> string, saturated | nil, err
func (m *module) format(L *lua.LState) int {
	n := float64(L.CheckNumber(1))
	to := checkBase(L, 2)

	var v convert.Value
	if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
		v = convert.IntValue(int64(n))
	} else {
		v = convert.FloatValue(n)
	}

	out, saturated, err := m.converter().Table().Render(v, to)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(out))
	L.Push(lua.LBool(saturated))
	return 2
}

func pushEdit(L *lua.LState, edit convert.Edit, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(edit.NewText))
	L.Push(lua.LNumber(edit.Start + 1))
	L.Push(lua.LNumber(edit.End))
	L.Push(lua.LBool(edit.Saturated))
	return 4
}

func checkBase(L *lua.LState, n int) convert.Base {
	b, err := convert.ParseBase(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return b
}

func optBase(L *lua.LState, n int) []convert.Base {
	if L.Get(n) == lua.LNil {
		return nil
	}
	return []convert.Base{checkBase(L, n)}
}
