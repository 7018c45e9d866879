package fingerprint

import (
	"crypto/sha256"
	"fmt"
)

// #region digest

// Digest computes the SHA-256 hash of text.
// Same content always produces the same digest; the hash is collision
// resistant and one-way, so glyphs never leak the text they summarize.
func Digest(text string) [32]byte {
	return sha256.Sum256([]byte(text))
}

// #endregion digest

// #region glyph-table

// glyphs is the fixed 64-symbol table for visual signatures.
// Indexing is stable: changing order or size would change every
// historical glyph, so the table is append-only in spirit and frozen
// in practice.
var glyphs = [64]string{
	// 0x00-0x07: presence
	"●", "○", "◐", "◑", "◒", "◓", "◔", "◕",
	// 0x08-0x0F: structure
	"◆", "◇", "◈", "◉", "◊", "⬙", "◌", "◍",
	// 0x10-0x17: direction
	"↑", "↓", "←", "→", "↖", "↗", "↘", "↙",
	// 0x18-0x1F: circulation
	"⟲", "⟳", "↺", "↻", "⤴", "⤵", "⤶", "⤷",
	// 0x20-0x27: flow
	"∿", "∼", "≈", "≋", "∽", "∾", "≃", "≅",
	// 0x28-0x2F: relation
	"∧", "∨", "⊻", "⊼", "⊽", "⊕", "⊖", "⊗",
	// 0x30-0x37: signal
	"⚡", "⚑", "⚐", "⚠", "⚛", "⚝", "⚞", "⚟",
	// 0x38-0x3F: valence
	"♠", "♣", "♥", "♦", "♤", "♧", "♡", "♢",
}

// #endregion glyph-table

// #region glyph

// Glyph derives a 3-symbol signature from a digest.
// Bytes 0, 8, and 16 are sampled from separate hash regions and mapped
// through the 64-symbol table; short input is zero-padded so the result
// is always exactly three symbols.
func Glyph(motif []byte) string {
	if len(motif) < 17 {
		padded := make([]byte, 17)
		copy(padded, motif)
		motif = padded
	}
	return glyphs[motif[0]%64] + glyphs[motif[8]%64] + glyphs[motif[16]%64]
}

// #endregion glyph

// #region color

// Color derives a stable "#rrggbb" display color from a glyph string.
// The same signature always maps to the same color.
func Color(glyph string) string {
	sum := sha256.Sum256([]byte(glyph))
	return fmt.Sprintf("#%02x%02x%02x", sum[0], sum[1], sum[2])
}

// #endregion color
