package api

import "encoding/json"

// Socket event names.
const (
	EventAnalyze = "analyze_patterns"
	EventResults = "analysis_results"
	EventError   = "error"
)

// DefaultLineLimit applies when an analysis request carries no line_limit.
const DefaultLineLimit = 100

// PatternSpec is a named regular expression as exchanged with the server and
// as stored in the pattern config file. Only Name and Pattern take part in
// analysis; the remaining fields describe timestamp extraction and are
// checked by the config linter.
type PatternSpec struct {
	Name       string `json:"name" yaml:"name"`
	Pattern    string `json:"pattern" yaml:"pattern"`
	Group      int    `json:"group,omitempty" yaml:"group,omitempty"`
	DateFormat string `json:"dateformat,omitempty" yaml:"dateformat,omitempty"`
	Epoch      bool   `json:"epoch,omitempty" yaml:"epoch,omitempty"`
	BaseTime   bool   `json:"base_time,omitempty" yaml:"base_time,omitempty"`
}

// ErrorResponse is returned by every endpoint on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse mirrors /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	LogTypes int    `json:"log_types"`
	Uploads  int    `json:"uploads"`
}

// LogTypesResponse mirrors /api/log-types.
type LogTypesResponse struct {
	LogTypes []string `json:"log_types"`
}

// PatternsResponse mirrors /api/patterns/{log_type}.
type PatternsResponse struct {
	Patterns []PatternSpec `json:"patterns"`
}

// UploadResponse mirrors /api/upload-log.
type UploadResponse struct {
	Success bool `json:"success"`
	Lines   int  `json:"lines"`
	Size    int  `json:"size"`
}

// LogContentResponse mirrors /api/log-content/{log_type}.
type LogContentResponse struct {
	Content    string `json:"content"`
	TotalLines int    `json:"total_lines"`
}

// ValidateRequest is the body of /api/validate.
type ValidateRequest struct {
	Pattern string `json:"pattern"`
}

// ValidateResponse reports whether a pattern compiles.
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Groups int    `json:"groups"`
}

// RenderRegion is a region in a /api/render request. Color is a CSS hsl()
// value; when empty the color is derived from Label.
type RenderRegion struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Label   string `json:"label"`
	Group   int    `json:"group"`
	Ordinal int    `json:"ordinal"`
	Color   string `json:"color,omitempty"`
	Match   bool   `json:"match,omitempty"`
}

// RenderRequest is the body of /api/render.
type RenderRequest struct {
	Text    string         `json:"text"`
	Regions []RenderRegion `json:"regions"`
}

// RenderResponse carries annotated HTML.
type RenderResponse struct {
	HTML string `json:"html"`
}

// AnalysisRequest is the payload of an analyze_patterns event.
type AnalysisRequest struct {
	LogType   string        `json:"log_type"`
	Patterns  []PatternSpec `json:"patterns"`
	LineLimit int           `json:"line_limit,omitempty"`
}

// GroupSpan is one participating capture group. Offsets are in code points.
type GroupSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Index int    `json:"index"`
	Text  string `json:"text,omitempty"`
}

// Match is one match of a pattern within a line.
type Match struct {
	Start  int         `json:"start"`
	End    int         `json:"end"`
	Text   string      `json:"text"`
	Groups []GroupSpan `json:"groups"`
}

// PatternMatches groups the matches a single pattern produced on a line.
type PatternMatches struct {
	Name    string  `json:"name"`
	Pattern string  `json:"pattern"`
	Color   string  `json:"color,omitempty"`
	Matches []Match `json:"matches"`
}

// LineResult is the analysis of one line.
type LineResult struct {
	LineNumber int              `json:"line_number"`
	Line       string           `json:"line"`
	Matches    []PatternMatches `json:"matches"`
	HTML       string           `json:"html,omitempty"`
}

// LegendEntry is the resolved color of one pattern.
type LegendEntry struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Color   string `json:"color"`
	Hex     string `json:"hex"`
}

// InvalidPattern names a pattern that failed to compile.
type InvalidPattern struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// AnalysisResponse is the payload of an analysis_results event.
type AnalysisResponse struct {
	Results       []LineResult     `json:"results"`
	TotalLines    int              `json:"total_lines"`
	AnalyzedLines int              `json:"analyzed_lines"`
	Legend        []LegendEntry    `json:"legend,omitempty"`
	Invalid       []InvalidPattern `json:"invalid,omitempty"`
}

// MatchedLines counts results with at least one match.
func (r AnalysisResponse) MatchedLines() int {
	n := 0
	for _, line := range r.Results {
		if len(line.Matches) > 0 {
			n++
		}
	}
	return n
}

// Envelope frames every socket message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope encodes data under event.
func NewEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
