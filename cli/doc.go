// Package cli contains the command line interface for scss.
//
// # Commands
//
//	scss eval [EXPR...] [-f FILE]... [-D NAME=EXPR]... [-o text|json|yaml]
//	scss bind SIGNATURE [CALL]
//	scss funcs [QUERY] [--where EXPR]
//	scss repl
//	scss init [--force]
//
// eval is the default command, so "scss '1in + 6px'" prints 1.0625in. With
// no expression arguments, eval reads statements one per line from the
// files named by -f, or from stdin.
//
// # Configuration
//
// Flag defaults are read from YAML files named config.yaml, first in the
// user configuration directory (for example ~/.config/scss) and then in each
// directory listed in $SCSS_CONFIG_PATH. Keys name flags with either '-' or
// '_', and nested mappings join their keys with '-':
//
//	log:
//	  level: debug
//	define:
//	  - gutter=12px
//
// The init command writes the current flag values to the configuration file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o scss .
//
// Then --pprof-mode selects a profile (cpu, heap, allocs, ...) and
// --pprof-dir the output directory (default ~/.cache/scss/pprof).
package cli
