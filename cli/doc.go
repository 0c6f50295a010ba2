// Package cli contains the command line interface for protoplan.
//
// # Usage
//
// Prototype sources are given with --source (repeatable, '-' for stdin)
// and consumed by one of three commands:
//
//	protoplan -s recipe.lua extract --format=json
//	protoplan -s recipe.lua plan spidertron=0.1
//	protoplan -s recipe.lua browse
//
// # Configuration
//
// Flag defaults can be stored in a JSON or YAML config file in the user
// config directory (e.g. ~/.config/protoplan/config.yaml). Command-line
// flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/protoplan/pprof)
package cli
