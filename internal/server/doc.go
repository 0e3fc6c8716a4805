// Package server is the logstory analysis server.
//
// It serves the JSON API and the embedded web UI over Echo, and runs pattern
// analysis for clients connected to the /ws socket. Log content comes from
// uploads held in a logstore.Store, falling back to <log_dir>/<log_type>.log
// on disk. Patterns come from the YAML pattern file, reloaded when it changes.
package server
