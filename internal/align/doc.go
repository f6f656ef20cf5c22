// Package align computes character intervals that tie recognized speech
// back to the text it was read from.
//
// Two strategies are provided. The surface aligner walks tokenizer output
// against the literal text. The phonetic aligner encodes kana readings of
// both sides, finds a best-scoring local alignment on a dynamic-programming
// grid, backtracks one path and replays it against per-word cursors to
// recover one interval per recognized word.
//
// Every function here is synchronous and free of shared state. Grid memory
// is O(m·n) in the two kana lengths, so callers should bound input sizes.
package align
