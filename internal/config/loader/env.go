package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of numconv environment variables.
const DefaultEnvPrefix = "NUMCONV_"

// syntaxSeparator splits a syntax name from a key in a variable name:
// NUMCONV_VHDL__CONVERT_SRC_BIN sets syntax.vhdl.convert_src_bin.
const syntaxSeparator = "__"

// EnvLoader reads settings overrides from environment variables.
//
//	NUMCONV_CONVERT_DST_HEX='0x{0:X}'  -> convert_dst_hex
//	NUMCONV_OVERFLOW=saturate          -> overflow
//	NUMCONV_GO__CONVERT_SRC_HEX=...    -> syntax.go.convert_src_hex
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: os.Environ}
}

// NewEnvLoaderFrom creates a loader over a fixed environment, in
// os.Environ form.
func NewEnvLoaderFrom(prefix string, env []string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: func() []string { return env }}
}

// Load collects prefixed variables into a settings map.
func (l *EnvLoader) Load() (map[string]any, error) {
	settings := map[string]any{}
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, l.prefix)
		if rest == "" {
			continue
		}

		syntax, key, scoped := strings.Cut(rest, syntaxSeparator)
		if !scoped {
			settings[strings.ToLower(rest)] = parseValue(value)
			continue
		}
		if syntax == "" || key == "" {
			continue
		}
		syntaxes, _ := settings["syntax"].(map[string]any)
		if syntaxes == nil {
			syntaxes = map[string]any{}
			settings["syntax"] = syntaxes
		}
		scope, _ := syntaxes[strings.ToLower(syntax)].(map[string]any)
		if scope == nil {
			scope = map[string]any{}
			syntaxes[strings.ToLower(syntax)] = scope
		}
		scope[strings.ToLower(key)] = parseValue(value)
	}
	if len(settings) == 0 {
		return nil, nil
	}
	return settings, nil
}

// parseValue keeps patterns verbatim and only turns plain integers into
// int64, matching what the TOML decoder produces.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
