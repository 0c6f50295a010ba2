// Package lua parses a restricted dialect of Lua used by prototype data
// files and decodes the parsed value trees into typed domain records.
//
// The grammar covers only what prototype files actually contain: boolean,
// numeric, and string literals; nested table composites (arrays and keyed
// maps); dotted variable references; function calls and definitions; local
// bindings; assignment including bracket-subscript targets; if/then/else
// conditionals; return statements; and the registration call form
// data:extend(...). Nothing is evaluated: conditions, calls, and variable
// references are captured as unevaluated expression trees.
//
// A full-file pass populates a [Context] with top-level bindings, function
// definitions, and the ordered list of registration values. Callers convert
// those values into typed records through the decode functions ([Bool],
// [Str], [Int], [Float], [Slice], [Table], [Pair], and the [Fields]
// helpers) rather than inspecting value kinds directly.
package lua
