// Package ui is the Bubble Tea terminal client of a logstory server.
//
// The screen has two panes. The left pane is the pattern workspace for the
// selected log type: patterns are loaded from the server, then added,
// renamed, edited, removed and reordered locally. Every expression is
// compiled as it is typed so broken patterns are flagged before analysis.
// The right pane shows the analyzed lines with each capture group drawn in
// its pattern's color, the same colors the web UI uses.
//
// # Data flow
//
//  1. internal/app polls the server and writes health and log types into a
//     state.Store.
//  2. A tick reads a snapshot of the store into the model.
//  3. Analysis runs as a tea.Cmd over the server socket and records its
//     result in the same store, so a failed run keeps the last results.
//  4. Results are rendered into the viewport only when the analysis changed
//     or the window was resized.
//
// Theme, last log type and line limit are saved to the preferences file
// whenever they change.
//
// # Usage
//
//	err := ui.Run(ui.Options{
//		Context:  ctx,
//		Client:   client,
//		Store:    store,
//		LogType:  "SYSLOG",
//		Logger:   logger,
//	})
package ui
