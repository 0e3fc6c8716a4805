package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sync"

	"github.com/labstack/echo/v4"
)

var (
	//go:embed web
	webFS embed.FS

	indexOnce sync.Once
	indexTmpl *template.Template
)

const contentSecurityPolicy = "default-src 'none'; style-src 'self' 'unsafe-inline'; script-src 'self'; img-src 'self'; connect-src 'self' ws: wss:; form-action 'self'; base-uri 'none'"

type indexData struct {
	LogTypes  []string
	LineLimit int
	Version   string
}

func (s *Server) handleIndex(c echo.Context) error {
	cfg, err := s.catalog.Config()
	if err != nil {
		return err
	}
	h := c.Response().Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Content-Security-Policy", contentSecurityPolicy)
	c.Response().WriteHeader(http.StatusOK)
	return loadTemplate().Execute(c.Response(), indexData{
		LogTypes:  cfg.LogTypes(),
		LineLimit: s.cfg.LineLimit,
		Version:   s.version,
	})
}

func (s *Server) handleStatic(c echo.Context) error {
	name := path.Clean("web/" + c.Param("*"))
	if name == "web" || name == "web/index.html" {
		return echo.ErrNotFound
	}
	data, err := fs.ReadFile(webFS, name)
	if err != nil {
		return echo.ErrNotFound
	}
	var contentType string
	switch path.Ext(name) {
	case ".css":
		contentType = "text/css; charset=utf-8"
	case ".js":
		contentType = "application/javascript; charset=utf-8"
	default:
		contentType = http.DetectContentType(data)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	c.Response().Header().Set("X-Content-Type-Options", "nosniff")
	return c.Blob(http.StatusOK, contentType, data)
}

func loadTemplate() *template.Template {
	indexOnce.Do(func() {
		indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))
	})
	return indexTmpl
}
