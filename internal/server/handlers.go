package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/hue"
	"github.com/five82/logstory/internal/logstore"
	"github.com/five82/logstory/internal/logtail"
	"github.com/five82/logstory/internal/overlay"
	"github.com/five82/logstory/internal/patterns"
)

func (s *Server) handleHealth(c echo.Context) error {
	cfg, err := s.catalog.Config()
	if err != nil {
		return err
	}
	uploads, err := s.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, api.HealthResponse{
		Status:   "ok",
		Version:  s.version,
		LogTypes: len(cfg),
		Uploads:  len(uploads),
	})
}

func (s *Server) handleLogTypes(c echo.Context) error {
	cfg, err := s.catalog.Config()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, api.LogTypesResponse{LogTypes: cfg.LogTypes()})
}

func (s *Server) handlePatterns(c echo.Context) error {
	cfg, err := s.catalog.Config()
	if err != nil {
		return err
	}
	specs, err := cfg.Patterns(param(c, "log_type"))
	if errors.Is(err, patterns.ErrLogTypeNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Log type not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, api.PatternsResponse{Patterns: specs})
}

func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
		}
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
	}
	if fh.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No file selected")
	}
	logType := c.FormValue("log_type")
	if logType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No log type specified")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	lines := logtail.Split(data)
	size := utf8.RuneCount(bytes.ToValidUTF8(data, nil))
	err = s.store.Put(c.Request().Context(), logstore.Upload{
		LogType:    logType,
		Filename:   fh.Filename,
		Lines:      lines,
		Size:       size,
		UploadedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("log_type", logType).Str("file", fh.Filename).Int("lines", len(lines)).Msg("log uploaded")
	return c.JSON(http.StatusOK, api.UploadResponse{Success: true, Lines: len(lines), Size: size})
}

func (s *Server) handleLogContent(c echo.Context) error {
	limit := s.cfg.ContentLimit
	if limit <= 0 {
		limit = 1000
	}
	lines, total, err := s.lines(c.Request().Context(), param(c, "log_type"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, api.LogContentResponse{Content: logtail.Join(lines), TotalLines: total})
}

func (s *Server) handleDeleteUpload(c echo.Context) error {
	err := s.store.Delete(c.Request().Context(), param(c, "log_type"))
	if errors.Is(err, logstore.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No upload for log type")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleValidate(c echo.Context) error {
	var req api.ValidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	groups, err := patterns.Validate(req.Pattern)
	if err != nil {
		return c.JSON(http.StatusOK, api.ValidateResponse{Valid: false, Error: err.Error()})
	}
	return c.JSON(http.StatusOK, api.ValidateResponse{Valid: true, Groups: groups})
}

func (s *Server) handleRender(c echo.Context) error {
	var req api.RenderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	regions := make([]overlay.Region, 0, len(req.Regions))
	for i, rr := range req.Regions {
		r, err := s.region(rr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("region %d: %v", i, err))
		}
		regions = append(regions, r)
	}
	return c.JSON(http.StatusOK, api.RenderResponse{HTML: overlay.RenderAnnotated(req.Text, regions)})
}

func (s *Server) region(rr api.RenderRegion) (overlay.Region, error) {
	r := overlay.Region{
		Start:    rr.Start,
		End:      rr.End,
		Label:    rr.Label,
		Group:    rr.Group,
		Ordinal:  rr.Ordinal,
		Kind:     overlay.KindGroup,
		Priority: overlay.DefaultPriority,
	}
	if rr.Match {
		r.Kind = overlay.KindMatch
	}
	if rr.Color != "" {
		color, err := hue.Parse(rr.Color)
		if err != nil {
			return overlay.Region{}, err
		}
		r.Color = color
		return r, nil
	}
	r.Color = hue.Variant(s.palette.Color(rr.Label), max(rr.Ordinal-1, 0))
	return r, nil
}

// lines returns at most limit lines of logType and its total line count.
// Uploads win over files on disk; a log type with neither is empty.
func (s *Server) lines(ctx context.Context, logType string, limit int) ([]string, int, error) {
	all, err := s.store.Lines(ctx, logType)
	switch {
	case err == nil:
		return all[:min(limit, len(all))], len(all), nil
	case !errors.Is(err, logstore.ErrNotFound):
		return nil, 0, err
	}

	path, ok := s.cfg.LogPath(logType)
	if !ok {
		return nil, 0, nil
	}
	return logtail.Head(path, limit)
}

// param returns the unescaped path parameter name.
func param(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
