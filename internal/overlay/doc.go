// Package overlay turns a line of text plus a set of annotated regions into
// marked-up output.
//
// # Regions
//
// A Region is a half-open span [Start, End) measured in Unicode code points,
// the unit the analysis engine reports offsets in. Regions may nest, share a
// boundary, overlap partially, repeat exactly, or be empty (Start == End).
// Offsets outside the text are clamped; a bad region never aborts a line.
//
// # Event ordering
//
// Every region contributes an OPEN event at Start and a CLOSE event at End.
// Events are ordered by position, then:
//
//  1. CLOSE events first, so [0,3) and [3,6) render side by side rather
//     than nested
//  2. empty regions next, each as an adjacent OPEN/CLOSE pair
//  3. OPEN events last
//
// Within each group the order regions were supplied in is kept.
//
// The walker flushes text between events through the Markup, emits start and
// end markers, and tracks open regions on a stack. A CLOSE removes its own
// region from the stack wherever it sits, so partially overlapping regions
// do not close each other. Anything still open after the last character is
// closed before returning.
//
// # Markup
//
// Output syntax lives behind the Markup interface. HTML produces <span>
// elements carrying the region color, a normalized label and a tooltip, with
// every literal byte escaped. ANSI styles each text segment with the color of
// the innermost open region and emits no markers of its own. Plain returns the
// text untouched and is mostly useful in tests.
//
// Render is pure and allocation-light; it is safe to call from any number of
// goroutines.
package overlay
