package lua

import (
	"context"
	"strings"
	"testing"

	"github.com/dshills/numconv/internal/convert"
)

type tableFunc func(syntax string) (*convert.Table, error)

func (f tableFunc) Table(syntax string) (*convert.Table, error) {
	return f(syntax)
}

func runScript(t *testing.T, s *State, script string) string {
	t.Helper()
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatalf("DoString(%q) error = %v", script, err)
	}
	got, _ := s.GetString("result")
	return got
}

func TestModuleFunctions(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			"convert at cursor",
			`local s, a, b, sat = numconv.convert("x = 0x1f;", 7, "dec")
			 result = table.concat({s, a, b, tostring(sat)}, ",")`,
			"31,5,8,false",
		},
		{
			"convert restricted",
			`local s = numconv.convert("101", 2, "dec", "hex"); result = s`,
			"257",
		},
		{
			"span matches string.sub",
			`local text = "size := 255"
			 local s, a, b = numconv.convert(text, 10, "hex")
			 result = text:sub(1, a - 1) .. s .. text:sub(b + 1)`,
			"size := 0xff",
		},
		{
			"convert range",
			`local s, a, b = numconv.convert_range("x = 42;", 5, 6, "hex")
			 result = table.concat({s, a, b}, ",")`,
			"0x2a,5,6",
		},
		{
			"convert range trims",
			`local s, a, b = numconv.convert_range("x =  42  ;", 4, 9, "bin")
			 result = table.concat({s, a, b}, ",")`,
			"101010,6,7",
		},
		{
			"no match",
			`local s, err = numconv.convert("x = ;", 1, "dec")
			 result = tostring(s) .. ":" .. err`,
			"nil:no number found",
		},
		{
			"convert all",
			`local text, n = numconv.convert_all("mask = 0xff | 0x10 | zz", "hex", "dec")
			 result = text .. "/" .. n`,
			"mask = 255 | 16 | zz/2",
		},
		{
			"format hex",
			`result = numconv.format(255, "hex")`,
			"0xff",
		},
		{
			"format exp",
			`result = numconv.format(1420, "exp")`,
			"1.42e3",
		},
		{
			"format fraction",
			`result = numconv.format(2.5, "dec")`,
			"2.5",
		},
		{
			"bases",
			`result = table.concat(numconv.bases, " ")`,
			"bin dec hex exp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t)
			if got := runScript(t, s, tt.script); got != tt.want {
				t.Errorf("result = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModuleBadBase(t *testing.T) {
	s := newTestState(t)

	err := s.DoString(context.Background(), `numconv.convert("1", 1, "octal")`)
	if err == nil {
		t.Fatal("DoString() should fail for an unknown base")
	}
	if !strings.Contains(err.Error(), "octal") {
		t.Errorf("error %q does not name the base", err)
	}
}

func TestModuleUsesTables(t *testing.T) {
	table, err := convert.Compile(convert.Spec{
		Formats: map[convert.Base]convert.Patterns{
			convert.Hexadecimal: {Dest: "{0:X}h"},
		},
		Policy: convert.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	var asked string
	s := newTestState(t,
		WithSyntax("asm"),
		WithTables(tableFunc(func(syntax string) (*convert.Table, error) {
			asked = syntax
			return table, nil
		})),
	)

	if got := runScript(t, s, `result = numconv.format(255, "hex") .. " " .. numconv.syntax`); got != "FFh asm" {
		t.Errorf("result = %q, want %q", got, "FFh asm")
	}
	if asked != "asm" {
		t.Errorf("table requested for %q, want asm", asked)
	}
}
