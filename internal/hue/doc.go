// Package hue assigns deterministic colors to pattern names.
//
// # Overview
//
// Every pattern gets its color from its name alone, so the same name maps to
// the same color across reloads, processes and clients without a stored
// palette or a server round-trip. Capture groups of one pattern get related
// variants of the pattern color.
//
// # Hashing
//
// ForLabel hashes the label with the classic 31-multiplier string hash over
// UTF-16 code units, accumulated in a signed 32-bit integer with
// two's-complement wraparound:
//
//	hash = hash*31 + unit
//
// The hue is |hash mod 360|; saturation and lightness are fixed at 70% and
// 50%. Browsers computing the same hash in JavaScript land on the same hue,
// which keeps the web UI and the terminal client in agreement.
//
// # Variants
//
// Variant rotates the hue by 30 degrees per step and raises lightness by 10
// points per step, clamped at 90:
//
//	Variant(c, 0) == c
//	Variant(c, n).L == min(90, c.L + 10n)
//
// # Collisions
//
// Two different names may share a hue. Only "same name, same color" is
// guaranteed.
package hue
