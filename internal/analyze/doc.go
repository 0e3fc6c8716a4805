// Package analyze runs a list of named patterns over log lines.
//
// Compile turns PatternSpecs into regexp2 programs once per request. Specs
// with an empty expression are skipped and specs that fail to compile are
// reported in Compiled.Invalid; neither stops the others from running.
//
// Apply returns, for each pattern with at least one match on a line, every
// match and every capture group that participated in it. Offsets are counted
// in code points, the same unit overlay regions use. Groups that did not
// take part in a match are left out.
//
// Analyze applies the compiled set to the first limit lines and builds the
// response the socket protocol carries: line numbers start at 1, trailing
// whitespace is trimmed from the echoed line, and analyzed_lines never
// exceeds the number of lines available.
package analyze
