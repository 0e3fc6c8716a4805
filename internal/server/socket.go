package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/highlight"
)

// handleSocket upgrades to a WebSocket and answers requests one at a time
// until the client goes away.
func (s *Server) handleSocket(c echo.Context) error {
	conn, _, _, err := ws.UpgradeHTTP(c.Request(), c.Response())
	if err != nil {
		// UpgradeHTTP has already written the failure response
		s.log.Debug().Err(err).Msg("socket upgrade failed")
		return nil
	}
	s.track(conn)
	defer s.untrack(conn)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	remote := conn.RemoteAddr().String()
	s.log.Debug().Str("remote", remote).Msg("socket connected")
	for {
		data, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			var closed wsutil.ClosedError
			if !errors.As(err, &closed) && !errors.Is(err, net.ErrClosed) {
				s.log.Debug().Err(err).Str("remote", remote).Msg("socket read failed")
			}
			return nil
		}
		if op != ws.OpText {
			continue
		}
		event, payload := s.dispatch(ctx, data)
		out, err := api.NewEnvelope(event, payload)
		if err != nil {
			s.log.Error().Err(err).Msg("encode socket reply")
			continue
		}
		if err := wsutil.WriteServerText(conn, out); err != nil {
			s.log.Debug().Err(err).Str("remote", remote).Msg("socket write failed")
			return nil
		}
	}
}

// dispatch routes one inbound frame by its event name.
func (s *Server) dispatch(ctx context.Context, frame []byte) (string, any) {
	if !gjson.ValidBytes(frame) {
		return api.EventError, api.ErrorResponse{Error: "malformed message"}
	}
	switch event := gjson.GetBytes(frame, "event").String(); event {
	case api.EventAnalyze:
		var req api.AnalysisRequest
		if raw := gjson.GetBytes(frame, "data"); raw.Exists() {
			if err := json.Unmarshal([]byte(raw.Raw), &req); err != nil {
				return api.EventError, api.ErrorResponse{Error: "invalid analysis request"}
			}
		}
		resp, err := s.analyze(ctx, req)
		if err != nil {
			s.log.Warn().Err(err).Str("log_type", req.LogType).Msg("analysis failed")
			return api.EventError, api.ErrorResponse{Error: err.Error()}
		}
		return api.EventResults, resp
	default:
		return api.EventError, api.ErrorResponse{Error: fmt.Sprintf("unknown event %q", event)}
	}
}

func (s *Server) analyze(ctx context.Context, req api.AnalysisRequest) (api.AnalysisResponse, error) {
	limit := req.LineLimit
	if limit <= 0 {
		limit = s.cfg.LineLimit
	}
	if limit <= 0 {
		limit = api.DefaultLineLimit
	}
	lines, total, err := s.lines(ctx, req.LogType, limit)
	if err != nil {
		return api.AnalysisResponse{}, err
	}
	resp, err := s.engine.Analyze(ctx, lines, req.Patterns, limit)
	if err != nil {
		return api.AnalysisResponse{}, err
	}
	resp.TotalLines = total
	highlight.Decorate(&resp, req.Patterns, s.palette)
	s.log.Debug().
		Str("log_type", req.LogType).
		Int("patterns", len(req.Patterns)).
		Int("analyzed", resp.AnalyzedLines).
		Int("matched", resp.MatchedLines()).
		Msg("analysis complete")
	return resp, nil
}
