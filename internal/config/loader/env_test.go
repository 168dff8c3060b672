package loader

import "testing"

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoaderFrom(DefaultEnvPrefix, []string{
		"HOME=/root",
		"NUMCONV_CONVERT_DST_HEX=0x{0:X}",
		"NUMCONV_OVERFLOW=saturate",
		"NUMCONV_WIDTH=32",
		"NUMCONV_VHDL__CONVERT_SRC_BIN='B([01]+)'",
		"NUMCONV_=ignored",
		"NUMCONV___X=ignored",
	})

	settings, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings["convert_dst_hex"] != "0x{0:X}" {
		t.Errorf("convert_dst_hex = %v", settings["convert_dst_hex"])
	}
	if settings["overflow"] != "saturate" {
		t.Errorf("overflow = %v", settings["overflow"])
	}
	if settings["width"] != int64(32) {
		t.Errorf("width = %v (%T), want int64 32", settings["width"], settings["width"])
	}
	vhdl := settings["syntax"].(map[string]any)["vhdl"].(map[string]any)
	if vhdl["convert_src_bin"] != "'B([01]+)'" {
		t.Errorf("syntax.vhdl.convert_src_bin = %v", vhdl["convert_src_bin"])
	}
	if _, ok := settings["home"]; ok {
		t.Error("unprefixed variable loaded")
	}
	if len(settings) != 4 {
		t.Errorf("len(settings) = %d, want 4: %v", len(settings), settings)
	}
}

func TestEnvLoader_LoadEmpty(t *testing.T) {
	settings, err := NewEnvLoaderFrom(DefaultEnvPrefix, []string{"PATH=/bin"}).Load()
	if err != nil || settings != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", settings, err)
	}
}
