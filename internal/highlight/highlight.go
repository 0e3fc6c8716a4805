// Package highlight connects analysis results to the overlay renderer.
package highlight

import (
	"fmt"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/hue"
	"github.com/five82/logstory/internal/overlay"
)

// Palette resolves pattern names to base colors. The zero value and a nil
// *Palette both work; NewPalette adds memoization.
type Palette struct {
	cache *hue.Cache
}

// NewPalette returns a memoizing palette.
func NewPalette() *Palette {
	return &Palette{cache: hue.NewCache()}
}

// Color returns the base color for a pattern name.
func (p *Palette) Color(name string) hue.HSL {
	if p == nil {
		return hue.ForLabel(name)
	}
	return p.cache.ForLabel(name)
}

// Flatten turns every participating group of every match into one region.
// Group n of a match is drawn in the pattern color's (n-1)th variant.
func Flatten(matches []api.PatternMatches, palette *Palette) []overlay.Region {
	var regions []overlay.Region
	for _, pm := range matches {
		base := palette.Color(pm.Name)
		for _, m := range pm.Matches {
			for i, g := range m.Groups {
				regions = append(regions, overlay.Region{
					Start:    g.Start,
					End:      g.End,
					Color:    hue.Variant(base, i),
					Label:    pm.Name,
					Group:    g.Index,
					Ordinal:  i + 1,
					Kind:     overlay.KindGroup,
					Priority: overlay.DefaultPriority,
				})
			}
		}
	}
	return regions
}

// Line renders one analyzed line with m.
func Line(result api.LineResult, palette *Palette, m overlay.Markup) string {
	return overlay.Render(result.Line, Flatten(result.Matches, palette), m)
}

// Legend lists the resolved color of every pattern with an expression.
func Legend(specs []api.PatternSpec, palette *Palette) []api.LegendEntry {
	out := make([]api.LegendEntry, 0, len(specs))
	for i, spec := range specs {
		if spec.Pattern == "" {
			continue
		}
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("Pattern %d", i+1)
		}
		c := palette.Color(name)
		out = append(out, api.LegendEntry{
			Name:    name,
			Pattern: spec.Pattern,
			Color:   c.String(),
			Hex:     c.Hex(),
		})
	}
	return out
}

// Decorate fills in the HTML of every line and the legend of resp.
func Decorate(resp *api.AnalysisResponse, specs []api.PatternSpec, palette *Palette) {
	for i := range resp.Results {
		resp.Results[i].HTML = Line(resp.Results[i], palette, overlay.HTML{})
	}
	resp.Legend = Legend(specs, palette)
}
