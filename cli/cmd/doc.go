// Package cmd implements the scss subcommands: eval, bind, funcs, repl and
// init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file written by the init command.
	ConfigIdentifier = "config"
)
