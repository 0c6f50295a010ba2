// Package cmd provides the extract, plan, and browse subcommands for
// working with decoded recipe prototypes.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the default configuration file (without extension).
	ConfigIdentifier = "config"
)
