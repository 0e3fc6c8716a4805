// Package patterns holds the user's named regular expressions and the
// per-log-type pattern configuration.
//
// Set is the editable, ordered collection the UI works on. Each pattern gets
// a stable identifier when added, so removing or reordering entries never
// shifts another pattern's color. Colors come from the pattern's display
// name: its Name, or "Pattern N" for an unnamed entry at position N.
//
// Config is the YAML file mapping log types to their timestamp patterns:
//
//	SYSLOG:
//	  timestamps:
//	    - name: syslog_time
//	      pattern: '^(\w{3}\s+\d+ \d{2}:\d{2}:\d{2})'
//	      group: 1
//	      dateformat: '%b %d %H:%M:%S'
//	      base_time: true
//
// Check lints a Config: required fields, compilation, group bounds, date
// formats that survive a format/parse round trip, a single base_time per log
// type and unique names.
//
// Expressions are compiled with regexp2, a backtracking engine that supports
// lookaround and backreferences. Python-style named groups (?P<name>...) and
// (?P=name) are accepted and rewritten before compilation.
package patterns
