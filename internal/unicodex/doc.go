// Package unicodex reconciles the three coordinate systems the editor
// core must keep coherent: byte offsets (rope boundaries and the LSP
// wire), codepoint indices (buffer APIs, cursor, plugin APIs), and
// display columns (rendering and alignment). All functions operate on
// a single line's text; callers own line lookup.
package unicodex
