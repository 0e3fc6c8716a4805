// Package api holds the logstory wire types and a client for the server.
//
// # Endpoints
//
// The HTTP surface is JSON over plain routes:
//
//   - GET /api/health: liveness and counts
//   - GET /api/log-types: configured log types
//   - GET /api/patterns/{log_type}: configured patterns of a log type
//   - POST /api/upload-log: multipart upload of a log file
//   - GET /api/log-content/{log_type}: preview of the first lines
//   - DELETE /api/uploads/{log_type}: discard an upload
//   - POST /api/validate: compile check for one pattern
//   - POST /api/render: annotate text with regions
//
// Analysis runs over the socket at /ws. Every frame is an Envelope. The client
// sends analyze_patterns with an AnalysisRequest and the server answers with
// analysis_results or error.
//
// # Client Usage
//
//	client, err := api.NewClient("127.0.0.1:5000")
//	if err != nil {
//		return err
//	}
//	resp, err := client.Analyze(ctx, api.AnalysisRequest{
//		LogType:  "SYSLOG",
//		Patterns: specs,
//	})
//
// Analyze dials a new socket per call. Callers that analyze repeatedly can
// hold a Session from Open instead.
//
// # Errors
//
// Non-2xx replies become *StatusError carrying the server's error message.
// Transport and decode failures are wrapped with fmt.Errorf:
//
//   - "execute request: dial tcp: connection refused"
//   - "api /api/patterns/NOPE returned status 404: Log type not found"
//   - "decode response: unexpected end of JSON input"
//
// A nil *Client returns ErrNilClient from every method.
package api
