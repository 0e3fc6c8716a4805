// Package app is the composition root of the terminal client.
//
// Run loads the config and preferences, builds an api.Client, checks that the
// server answers, and then starts two things: a background poller that keeps
// a state.Store current, and the Bubble Tea UI that reads from it.
//
//	Run()
//	  ├─> config.Load()            config.toml + LOGSTORY_* env
//	  ├─> prefs.Load()             theme, last log type, line limit
//	  ├─> api.NewClient()
//	  ├─> ensureServerAvailable()  3s health check
//	  ├─> StartPoller()            health + log types
//	  └─> ui.Run()                 blocks until quit
//
// # Polling
//
// The poller fetches /api/health and /api/log-types. After a failure the wait
// doubles per consecutive failure (calculateBackoff) up to 30 seconds, and
// resets on the next success. Failures are logged at warn level and never
// clear the last good data.
//
// # Errors
//
// Run returns an error for an unreadable config, a bad server URL, or a server
// that does not answer at startup. Everything after that is shown in the UI.
package app
