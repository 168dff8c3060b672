// Package config provides layered settings for numconv.
//
// Settings decide which text counts as a number of each base and how a
// converted number is written back. They come from several layers,
// higher layers overriding lower ones:
//
//	┌─────────────────────────────┐
//	│  5. Overrides (CLI flags)   │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. Environment Variables   │  ← NUMCONV_CONVERT_SRC_HEX=...
//	├─────────────────────────────┤
//	│  3. Project                 │  ← <workspace>/.numconv.toml
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/numconv/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML files with @include, and environment variables
//   - watcher: fsnotify based live reload
//
// # Keys
//
// Each base has a source pattern and a destination pattern:
//
//	convert_src_bin, convert_src_dec, convert_src_hex, convert_src_exp
//	convert_dst_bin, convert_dst_dec, convert_dst_hex, convert_dst_exp
//
// Numeric policy is set with:
//
//	overflow = "error" | "saturate"
//	negative = "sign" | "twos-complement"
//	width    = 8 | 16 | 32 | 64
//
// # Per-syntax settings
//
// Top-level keys apply everywhere. A [syntax.<name>] table overrides keys
// for one language:
//
//	# ~/.config/numconv/settings.toml
//	convert_dst_hex = "0x{0:X}"
//
//	[syntax.vhdl]
//	convert_src_bin = '"([01]+)"'
//	convert_dst_bin = '"{0:b}"'
//	convert_src_hex = 'x"([0-9a-fA-F]+)"'
//	convert_dst_hex = 'x"{0:X}"'
//
// A syntax given as a scope name such as "source.vhdl" falls back to its
// last dotted component when no table matches the full name.
//
// # Basic Usage
//
//	store := config.New(
//	    config.WithUserFile(config.DefaultUserFile()),
//	    config.WithProjectDir(workspace),
//	    config.WithLogger(logger),
//	)
//	if err := store.Load(); err != nil {
//	    return err
//	}
//	conv, err := store.Converter("vhdl")
//
// Table and Converter always return something usable. Pattern errors are
// logged once per syntax and revision and returned alongside the result,
// and the affected bases are left unavailable.
//
// # Thread Safety
//
// Store is safe for concurrent use. Compiled tables are immutable.
package config
