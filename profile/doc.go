// Package profile provides optional runtime profiling for the protoplan
// application.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag.
// When built without the tag (the default), all operations are no-ops with
// zero runtime overhead.
//
// Supported modes with the tag enabled: allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, and trace. Use [Modes] to retrieve
// the list programmatically.
//
// Profile files are written to the output directory named after the mode
// (e.g., cpu.pprof) and can be analyzed with:
//
//	go tool pprof ./protoplan /path/to/cpu.pprof
//
// The default output directory is:
//
//	$XDG_CACHE_HOME/protoplan/pprof   (Linux/Unix)
//	~/Library/Caches/protoplan/pprof  (macOS)
//	%LocalAppData%\protoplan\pprof    (Windows)
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
