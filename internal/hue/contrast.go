package hue

import colorful "github.com/lucasb-eyer/go-colorful"

const (
	textDark  = "#000000"
	textLight = "#ffffff"
)

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between two colors.
func ContrastRatio(fg, bg HSL) float64 {
	return contrast(fg.colorful(), bg.colorful())
}

func contrast(a, b colorful.Color) float64 {
	l1 := luminance(a)
	l2 := luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// TextOn picks black or white text, whichever reads better on bg.
func TextOn(bg HSL) string {
	c := bg.colorful()
	black := colorful.Color{}
	white := colorful.Color{R: 1, G: 1, B: 1}
	crBlack := contrast(black, c)
	if crBlack >= 4.5 || crBlack >= contrast(white, c) {
		return textDark
	}
	return textLight
}
