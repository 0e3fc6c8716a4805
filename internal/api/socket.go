package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// ErrSessionClosed is returned by a Session after Close.
var ErrSessionClosed = errors.New("session closed")

// Session is a persistent socket to the server. Requests on one session are
// answered in order, so Analyze calls are serialized.
type Session struct {
	mu     sync.Mutex
	conn   net.Conn
	rw     io.ReadWriter
	br     *bufio.Reader
	closed bool
}

// Open dials the server's socket endpoint.
func (c *Client) Open(ctx context.Context) (*Session, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	u := *c.baseURL
	u.Scheme = "ws"
	if c.baseURL.Scheme == "https" {
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, br, _, err := ws.Dial(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("dial socket: %w", err)
	}
	s := &Session{conn: conn, rw: conn, br: br}
	if br != nil {
		// the handshake reader may already hold the first frames
		s.rw = struct {
			io.Reader
			io.Writer
		}{io.MultiReader(br, conn), conn}
	}
	return s, nil
}

// Analyze runs req on a fresh session.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	s, err := c.Open(ctx)
	if err != nil {
		return AnalysisResponse{}, err
	}
	defer s.Close()
	return s.Analyze(ctx, req)
}

// Analyze sends an analyze_patterns event and waits for its answer. Events
// other than analysis_results and error are skipped.
func (s *Session) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return AnalysisResponse{}, ErrSessionClosed
	}

	// a previous call may have left an expired deadline behind
	deadline, _ := ctx.Deadline()
	_ = s.conn.SetDeadline(deadline)
	defer func() { _ = s.conn.SetDeadline(noDeadline) }()
	stop := context.AfterFunc(ctx, func() { _ = s.conn.SetDeadline(expired) })
	defer stop()

	payload, err := NewEnvelope(EventAnalyze, req)
	if err != nil {
		return AnalysisResponse{}, fmt.Errorf("encode request: %w", err)
	}
	if err := wsutil.WriteClientText(s.rw, payload); err != nil {
		return AnalysisResponse{}, s.fail(ctx, fmt.Errorf("send request: %w", err))
	}

	for {
		data, err := wsutil.ReadServerText(s.rw)
		if err != nil {
			return AnalysisResponse{}, s.fail(ctx, fmt.Errorf("read response: %w", err))
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return AnalysisResponse{}, fmt.Errorf("decode envelope: %w", err)
		}
		switch env.Event {
		case EventResults:
			var resp AnalysisResponse
			if err := json.Unmarshal(env.Data, &resp); err != nil {
				return AnalysisResponse{}, fmt.Errorf("decode results: %w", err)
			}
			return resp, nil
		case EventError:
			var e ErrorResponse
			_ = json.Unmarshal(env.Data, &e)
			return AnalysisResponse{}, fmt.Errorf("analysis failed: %s", e.Error)
		}
	}
}

// fail closes a session whose connection state is unknown after err.
func (s *Session) fail(ctx context.Context, err error) error {
	_ = s.closeLocked()
	if errors.Is(err, os.ErrDeadlineExceeded) {
		// deadlines only come from ctx; wait for it to report why
		if _, ok := ctx.Deadline(); ok || ctx.Err() != nil {
			<-ctx.Done()
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close sends a close frame and releases the connection.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = ws.WriteFrame(s.conn, ws.MaskFrame(ws.NewCloseFrame(ws.NewCloseFrameBody(ws.StatusNormalClosure, ""))))
	if s.br != nil {
		ws.PutReader(s.br)
		s.br = nil
	}
	return s.conn.Close()
}

var (
	noDeadline time.Time
	expired    = time.Unix(1, 0)
)
