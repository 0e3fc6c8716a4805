package hue

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf16"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	defaultSaturation = 70
	defaultLightness  = 50
	maxLightness      = 90
	hueStep           = 30
	lightnessStep     = 10
)

// HSL is a color in hue/saturation/lightness form. H is in degrees [0,360),
// S and L are percentages.
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ForLabel returns the color for label. Any string, including the empty
// string, yields a valid color.
func ForLabel(label string) HSL {
	h := Hash(label) % 360
	if h < 0 {
		h = -h
	}
	return HSL{H: int(h), S: defaultSaturation, L: defaultLightness}
}

// Hash is the 32-bit string hash used by ForLabel.
func Hash(label string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(label)) {
		h = h*31 + int32(unit)
	}
	return h
}

// Variant derives the index-th related color of base. Index 0 returns base
// unchanged; lightness saturates at 90 for large indices.
func Variant(base HSL, index int) HSL {
	h := (base.H + (index%12)*hueStep) % 360
	if h < 0 {
		h += 360
	}

	l := base.L
	switch {
	case index > 0 && index > (maxLightness-base.L)/lightnessStep:
		l = maxLightness
	default:
		l += index * lightnessStep
	}
	if l > maxLightness {
		l = maxLightness
	}
	if l < 0 {
		l = 0
	}
	return HSL{H: h, S: base.S, L: l}
}

// String renders the color as a CSS hsl() value.
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.H, c.S, c.L)
}

// Hex renders the color as #rrggbb for surfaces without HSL support.
func (c HSL) Hex() string {
	return c.colorful().Hex()
}

func (c HSL) colorful() colorful.Color {
	return colorful.Hsl(float64(c.H), float64(c.S)/100, float64(c.L)/100).Clamped()
}

var cssHSL = regexp.MustCompile(`^\s*hsl\(\s*(\d+)\s*,\s*(\d+)%\s*,\s*(\d+)%\s*\)\s*$`)

// Parse reads a color previously produced by String.
func Parse(value string) (HSL, error) {
	m := cssHSL.FindStringSubmatch(value)
	if m == nil {
		return HSL{}, fmt.Errorf("parse color %q: not an hsl() value", value)
	}
	var parts [3]int
	for i, field := range m[1:] {
		n, err := strconv.Atoi(field)
		if err != nil {
			return HSL{}, fmt.Errorf("parse color %q: %w", value, err)
		}
		parts[i] = n
	}
	return HSL{H: parts[0] % 360, S: parts[1], L: parts[2]}, nil
}
