package convert

import (
	"testing"
)

func renderInt(t *testing.T, tmpl string, n int64, p Policy) string {
	t.Helper()
	tp, err := ParseTemplate(tmpl, 1)
	if err != nil {
		t.Fatalf("ParseTemplate(%q) error = %v", tmpl, err)
	}
	out, err := tp.Execute(func(_ int, spec FieldSpec) (string, error) {
		return p.FormatInt(n, spec), nil
	})
	if err != nil {
		t.Fatalf("Execute(%q) error = %v", tmpl, err)
	}
	return out
}

func TestTemplateRender(t *testing.T) {
	tests := []struct {
		tmpl string
		n    int64
		want string
	}{
		{"{0}", 46, "46"},
		{"{}", 46, "46"},
		{"{0:d}", -46, "-46"},
		{"{0:decimal}", 46, "46"},
		{"{0:b}", 5, "101"},
		{"{0:binary}", 0, "0"},
		{"{0:b}", -5, "-101"},
		{"{0:#b}", 5, "0b101"},
		{"{0:x}", 255, "ff"},
		{"{0:#x}", 255, "0xff"},
		{"{0:#x}", -255, "-0xff"},
		{"{0:X}", 255, "FF"},
		{"{0:#X}", 255, "0XFF"},
		{"{0:HEX}", 3054, "BEE"},
		{"{0:o}", 8, "10"},
		{"'B{0:b}'", 46, "'B101110'"},
		{"'H{0:X}'", 0x1AF23, "'H1AF23'"},
		{"0x{0:04X}", 10, "0x000A"},
		{"{0:#010b}", 5, "0b00000101"},
		{"{0:08b}", -5, "-0000101"},
		{"{0:8d}", 42, "      42"},
		{"{{{0}}}", 7, "{7}"},
		{"{0:x}h", 171, "abh"},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			got := renderInt(t, tt.tmpl, tt.n, DefaultPolicy())
			if got != tt.want {
				t.Errorf("render(%q, %d) = %q, want %q", tt.tmpl, tt.n, got, tt.want)
			}
		})
	}
}

func TestTemplateTwosComplement(t *testing.T) {
	p := Policy{Negative: NegativeTwosComplement, Width: 8}
	tests := []struct {
		tmpl string
		n    int64
		want string
	}{
		{"{0:b}", -1, "11111111"},
		{"{0:x}", -1, "ff"},
		{"{0:#X}", -128, "0X80"},
		{"{0:b}", 5, "101"},
		{"{0}", -1, "-1"},
	}
	for _, tt := range tests {
		if got := renderInt(t, tt.tmpl, tt.n, p); got != tt.want {
			t.Errorf("render(%q, %d) = %q, want %q", tt.tmpl, tt.n, got, tt.want)
		}
	}
}

func TestParseTemplateErrors(t *testing.T) {
	tests := []string{
		"{0",
		"value}",
		"{1}",
		"{0}{}",
		"{a}",
		"{0:q}",
		"{0:#q}",
		"{0:99999b}",
	}
	for _, tmpl := range tests {
		if _, err := ParseTemplate(tmpl, 1); err == nil {
			t.Errorf("ParseTemplate(%q) expected error", tmpl)
		}
	}
}

func TestTemplateTwoFields(t *testing.T) {
	tp, err := ParseTemplate("{0}EX{1}", 2)
	if err != nil {
		t.Fatalf("ParseTemplate() error = %v", err)
	}
	if tp.Fields() != 2 {
		t.Errorf("Fields() = %d, want 2", tp.Fields())
	}
	out, err := tp.Execute(func(arg int, _ FieldSpec) (string, error) {
		return []string{"1.42", "-5"}[arg], nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "1.42EX-5" {
		t.Errorf("Execute() = %q, want %q", out, "1.42EX-5")
	}
}
