package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/dshills/numconv/internal/convert"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	base := []Option{WithEnviron([]string{})}
	s := New(append(base, opts...)...)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func convertOne(t *testing.T, s *Store, syntax, text string, offset int, to, from convert.Base) string {
	t.Helper()
	conv, err := s.Converter(syntax)
	if err != nil {
		t.Fatalf("Converter(%q) error = %v", syntax, err)
	}
	edit, err := conv.Convert(text, convert.At(offset), to, from)
	if err != nil {
		t.Fatalf("Convert(%q) error = %v", text, err)
	}
	return edit.NewText
}

func TestStoreDefaultsBeforeLoad(t *testing.T) {
	s := New(WithEnviron([]string{}))

	got, ok := s.Settings("").String(convert.DestKey(convert.Hexadecimal))
	if !ok || got != convert.DefaultDestHex {
		t.Errorf("default hex dest = %q, %v", got, ok)
	}
	if s.Revision() != 0 {
		t.Errorf("Revision() = %d, want 0", s.Revision())
	}
	if got := convertOne(t, s, "", "x = 255", 5, convert.Hexadecimal, convert.Decimal); got != "0xff" {
		t.Errorf("convert = %q, want 0xff", got)
	}
}

func TestStoreLayerPriority(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user", "settings.toml")
	workspace := filepath.Join(dir, "ws")

	writeFile(t, user, `
convert_dst_hex = "0x{0:X}"
convert_dst_bin = "0b{0:b}"
overflow = "error"
`)
	writeFile(t, filepath.Join(workspace, ProjectFileName), `
convert_dst_hex = "{0:X}h"
`)

	s := newTestStore(t,
		WithUserFile(user),
		WithProjectDir(workspace),
		WithEnviron([]string{"NUMCONV_OVERFLOW=saturate", "OTHER_OVERFLOW=ignored"}),
	)

	settings := s.Settings("")
	tests := []struct {
		key  string
		want string
	}{
		{"convert_dst_hex", "{0:X}h"},
		{"convert_dst_bin", "0b{0:b}"},
		{"convert_dst_dec", convert.DefaultDestDec},
		{"overflow", "saturate"},
	}
	for _, tt := range tests {
		got, _ := settings.String(tt.key)
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}

	if got := convertOne(t, s, "", "x = 255", 5, convert.Hexadecimal, convert.Decimal); got != "FFh" {
		t.Errorf("convert = %q, want FFh", got)
	}

	table, _ := s.Table("")
	if table.Policy().Overflow != convert.OverflowSaturate {
		t.Errorf("overflow policy = %v, want saturate", table.Policy().Overflow)
	}

	var sources []Source
	for _, l := range s.Layers() {
		sources = append(sources, l.Source)
	}
	want := []Source{SourceBuiltin, SourceUser, SourceProject, SourceEnv}
	if len(sources) != len(want) {
		t.Fatalf("layers = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("layer %d = %v, want %v", i, sources[i], want[i])
		}
	}
}

func TestStoreOverridesWin(t *testing.T) {
	s := newTestStore(t,
		WithEnviron([]string{"NUMCONV_CONVERT_DST_HEX={0:x}"}),
		WithOverrides(map[string]any{"convert_dst_hex": "#{0:X}"}),
	)
	if got := convertOne(t, s, "", "x = 255", 5, convert.Hexadecimal, convert.Decimal); got != "#FF" {
		t.Errorf("convert = %q, want #FF", got)
	}
}

func TestStoreSyntaxOverrides(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "settings.toml")
	writeFile(t, user, `
convert_dst_hex = "0x{0:X}"

[syntax.vhdl]
convert_src_hex = 'x"([0-9a-fA-F]+)"'
convert_dst_hex = 'x"{0:X}"'
`)
	s := newTestStore(t,
		WithUserFile(user),
		WithEnviron([]string{"NUMCONV_VHDL__CONVERT_DST_BIN=\"{0:b}\""}),
	)

	tests := []struct {
		name   string
		syntax string
		text   string
		offset int
		to     convert.Base
		from   convert.Base
		want   string
	}{
		{"global", "", "x = 255", 5, convert.Hexadecimal, convert.Decimal, "0xFF"},
		{"other syntax falls back", "go", "x = 255", 5, convert.Hexadecimal, convert.Decimal, "0xFF"},
		{"syntax dest", "vhdl", "x = 255", 5, convert.Hexadecimal, convert.Decimal, `x"FF"`},
		{"scope name", "source.vhdl", "x = 255", 5, convert.Hexadecimal, convert.Decimal, `x"FF"`},
		{"case insensitive", "VHDL", "x = 255", 5, convert.Hexadecimal, convert.Decimal, `x"FF"`},
		{"syntax source", "vhdl", `s <= x"1F";`, 8, convert.Decimal, convert.Hexadecimal, "31"},
		{"env syntax key", "vhdl", "x = 5", 4, convert.Binary, convert.Decimal, `"101"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertOne(t, s, tt.syntax, tt.text, tt.offset, tt.to, tt.from)
			if got != tt.want {
				t.Errorf("convert = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStoreInvalidSettings(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "settings.toml")
	writeFile(t, user, `
convert_src_bin = "("
overflow = "maybe"
width = 12
`)
	s := newTestStore(t, WithUserFile(user))

	table, err := s.Table("")
	if table == nil {
		t.Fatal("Table() returned nil table")
	}
	if !errors.Is(err, convert.ErrInvalidPattern) {
		t.Errorf("error %v does not wrap ErrInvalidPattern", err)
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("error %v does not wrap ErrValidationFailed", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a *ValidationError", err)
	}

	if table.Format(convert.Binary).CanMatch() {
		t.Error("binary source should be unavailable")
	}
	if table.Policy() != convert.DefaultPolicy() {
		t.Errorf("policy = %+v, want defaults", table.Policy())
	}

	conv := convert.New(table)
	edit, err := conv.Convert("x = 255", convert.At(5), convert.Hexadecimal, convert.Decimal)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if edit.NewText != "0xff" {
		t.Errorf("NewText = %q, want 0xff", edit.NewText)
	}
}

func TestStoreTableCache(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "settings.toml")
	writeFile(t, user, `convert_dst_hex = "0x{0:X}"`)
	s := newTestStore(t, WithUserFile(user))

	a, _ := s.Table("go")
	b, _ := s.Table("GO ")
	if a != b {
		t.Error("Table() should cache per normalized syntax")
	}

	writeFile(t, user, `convert_dst_hex = "{0:X}h"`)
	if err := s.Reload(context.Background(), user); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	c, _ := s.Table("go")
	if c == a {
		t.Error("Reload() should drop cached tables")
	}
	if got := convertOne(t, s, "go", "x = 255", 5, convert.Hexadecimal, convert.Decimal); got != "FFh" {
		t.Errorf("convert after reload = %q, want FFh", got)
	}
}

func TestStoreLoadFailureKeepsSettings(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "settings.toml")
	writeFile(t, user, `convert_dst_hex = "0x{0:X}"`)
	s := newTestStore(t, WithUserFile(user))
	rev := s.Revision()

	writeFile(t, user, `convert_dst_hex = "unterminated`)
	err := s.Reload(context.Background(), user)
	if err == nil {
		t.Fatal("Reload() should fail on invalid TOML")
	}
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("error %v is not a *LoadError", err)
	}
	if lerr.Layer != "user" || lerr.Path != user {
		t.Errorf("LoadError = %+v", lerr)
	}
	if s.Revision() != rev {
		t.Errorf("Revision() = %d, want %d", s.Revision(), rev)
	}
	if got, _ := s.Settings("").String("convert_dst_hex"); got != "0x{0:X}" {
		t.Errorf("convert_dst_hex = %q after failed reload", got)
	}
}

func TestStoreOnChange(t *testing.T) {
	s := newTestStore(t)

	var calls atomic.Int32
	var last Change
	unsubscribe := s.OnChange(func(c Change) {
		calls.Add(1)
		last = c
	})

	if err := s.Reload(context.Background(), "manual"); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("observer called %d times, want 1", calls.Load())
	}
	if last.Source != "manual" || last.Revision != s.Revision() {
		t.Errorf("change = %+v", last)
	}

	unsubscribe()
	if err := s.Reload(context.Background(), "manual"); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("observer called after unsubscribe")
	}
}

func TestStoreFiles(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "settings.toml")
	shared := filepath.Join(dir, "shared.toml")
	writeFile(t, user, `"@include" = ["shared.toml"]`)
	writeFile(t, shared, `convert_dst_bin = "{0:08b}"`)
	project := filepath.Join(dir, "ws", ProjectFileName)

	s := newTestStore(t, WithUserFile(user), WithProjectFile(project))

	files := s.Files()
	want := map[string]bool{user: true, shared: true, project: true}
	if len(files) != len(want) {
		t.Fatalf("Files() = %v", files)
	}
	for _, f := range files {
		if !want[f] {
			t.Errorf("unexpected file %s", f)
		}
	}

	if got := convertOne(t, s, "", "x = 5", 4, convert.Binary, convert.Decimal); got != "00000101" {
		t.Errorf("convert = %q, want 00000101", got)
	}
}

func TestDefaultUserFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultUserFile(); got != filepath.Join("/tmp/xdg", "numconv", "settings.toml") {
		t.Errorf("DefaultUserFile() = %q", got)
	}
}
