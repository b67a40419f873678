package theme

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// SiteTheme holds the fonts, font sizes and HSL colour triples the public site renders with.
// Colours use the "H S% L%" form the stylesheet feeds into hsl().
type SiteTheme struct {
	FontDisplay     string `json:"fontDisplay"`
	FontBody        string `json:"fontBody"`
	FontSizeBase    string `json:"fontSizeBase"`
	FontSizeHeading string `json:"fontSizeHeading"`
	ColorBackground string `json:"colorBackground"`
	ColorForeground string `json:"colorForeground"`
	ColorPrimary    string `json:"colorPrimary"`
	ColorSecondary  string `json:"colorSecondary"`
	ColorAccent     string `json:"colorAccent"`
}

// Default returns the theme the site ships with.
func Default() SiteTheme {
	return SiteTheme{
		FontDisplay:     "'Cormorant Garamond', 'Noto Serif TC', serif",
		FontBody:        "'Noto Serif TC', Georgia, serif",
		FontSizeBase:    "1rem",
		FontSizeHeading: "1.25rem",
		ColorBackground: "350 100% 97%",
		ColorForeground: "10 14% 26%",
		ColorPrimary:    "35 52% 78%",
		ColorSecondary:  "350 60% 92%",
		ColorAccent:     "35 60% 72%",
	}
}

var (
	hslPattern  = regexp.MustCompile(`^\d{1,3}(\.\d+)? \d{1,3}(\.\d+)?% \d{1,3}(\.\d+)?%$`)
	sizePattern = regexp.MustCompile(`^\d+(\.\d+)?(rem|em|px)$`)
)

// Domain errors
var (
	ErrInvalidColor = errors.New("colours must be HSL triples like '350 100% 97%'")
	ErrInvalidSize  = errors.New("font sizes must be a number followed by rem, em or px")
	ErrInvalidFont  = errors.New("font stacks cannot contain ';', '{', '}', '<' or '>'")
)

// WithDefaults fills every empty field from Default.
// POST: no field of the result is empty
func (t SiteTheme) WithDefaults() SiteTheme {
	d := Default()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&t.FontDisplay, d.FontDisplay)
	fill(&t.FontBody, d.FontBody)
	fill(&t.FontSizeBase, d.FontSizeBase)
	fill(&t.FontSizeHeading, d.FontSizeHeading)
	fill(&t.ColorBackground, d.ColorBackground)
	fill(&t.ColorForeground, d.ColorForeground)
	fill(&t.ColorPrimary, d.ColorPrimary)
	fill(&t.ColorSecondary, d.ColorSecondary)
	fill(&t.ColorAccent, d.ColorAccent)
	return t
}

// Validate checks the theme's values are safe to inline into a stylesheet.
// PRE: none
// POST: returns nil if valid, error naming the first bad field otherwise
func (t *SiteTheme) Validate() error {
	colors := map[string]string{
		"colorBackground": t.ColorBackground,
		"colorForeground": t.ColorForeground,
		"colorPrimary":    t.ColorPrimary,
		"colorSecondary":  t.ColorSecondary,
		"colorAccent":     t.ColorAccent,
	}
	for _, name := range []string{"colorBackground", "colorForeground", "colorPrimary", "colorSecondary", "colorAccent"} {
		if !validHSL(colors[name]) {
			return fmt.Errorf("%s: %w", name, ErrInvalidColor)
		}
	}
	if !sizePattern.MatchString(t.FontSizeBase) {
		return fmt.Errorf("fontSizeBase: %w", ErrInvalidSize)
	}
	if !sizePattern.MatchString(t.FontSizeHeading) {
		return fmt.Errorf("fontSizeHeading: %w", ErrInvalidSize)
	}
	if strings.ContainsAny(t.FontDisplay, ";{}<>") {
		return fmt.Errorf("fontDisplay: %w", ErrInvalidFont)
	}
	if strings.ContainsAny(t.FontBody, ";{}<>") {
		return fmt.Errorf("fontBody: %w", ErrInvalidFont)
	}
	return nil
}

// CSSVariables returns the custom properties injected into the page :root.
// Keys are ordered for stable output.
func (t SiteTheme) CSSVariables() [][2]string {
	return [][2]string{
		{"--font-display", t.FontDisplay},
		{"--font-body", t.FontBody},
		{"--font-size-base", t.FontSizeBase},
		{"--font-size-heading", t.FontSizeHeading},
		{"--background", t.ColorBackground},
		{"--foreground", t.ColorForeground},
		{"--primary", t.ColorPrimary},
		{"--secondary", t.ColorSecondary},
		{"--accent", t.ColorAccent},
	}
}

// CSS renders CSSVariables as a :root rule.
func (t SiteTheme) CSS() string {
	var b strings.Builder
	b.WriteString(":root{")
	for _, kv := range t.CSSVariables() {
		b.WriteString(kv[0])
		b.WriteByte(':')
		b.WriteString(kv[1])
		b.WriteByte(';')
	}
	b.WriteString("}")
	return b.String()
}

// validHSL checks the triple shape and the numeric ranges (hue 0-360, percentages 0-100).
func validHSL(s string) bool {
	if !hslPattern.MatchString(s) {
		return false
	}
	var h, sat, l float64
	if _, err := fmt.Sscanf(s, "%g %g%% %g%%", &h, &sat, &l); err != nil {
		return false
	}
	return h >= 0 && h <= 360 && sat >= 0 && sat <= 100 && l >= 0 && l <= 100
}
