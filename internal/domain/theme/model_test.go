package theme

import (
	"errors"
	"strings"
	"testing"
)

// TestDefault_IsValid verifies the shipped theme passes its own validation.
func TestDefault_IsValid(t *testing.T) {
	d := Default()
	if err := d.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

// TestSiteTheme_WithDefaults verifies partial themes merge onto the defaults.
func TestSiteTheme_WithDefaults(t *testing.T) {
	partial := SiteTheme{ColorPrimary: "200 50% 50%", FontSizeBase: "  "}
	got := partial.WithDefaults()

	if got.ColorPrimary != "200 50% 50%" {
		t.Errorf("ColorPrimary = %q, want the override", got.ColorPrimary)
	}
	if got.FontSizeBase != Default().FontSizeBase {
		t.Errorf("blank FontSizeBase should fall back, got %q", got.FontSizeBase)
	}
	if got.ColorAccent != Default().ColorAccent {
		t.Errorf("ColorAccent = %q, want default", got.ColorAccent)
	}
}

// TestSiteTheme_Validate covers colour, size and font checks.
func TestSiteTheme_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(th *SiteTheme)
		wantErr error
	}{
		{"hex colour", func(th *SiteTheme) { th.ColorPrimary = "#ffffff" }, ErrInvalidColor},
		{"hue out of range", func(th *SiteTheme) { th.ColorAccent = "400 50% 50%" }, ErrInvalidColor},
		{"lightness out of range", func(th *SiteTheme) { th.ColorBackground = "10 50% 150%" }, ErrInvalidColor},
		{"decimal hsl", func(th *SiteTheme) { th.ColorForeground = "10.5 14.2% 26%" }, nil},
		{"size without unit", func(th *SiteTheme) { th.FontSizeBase = "16" }, ErrInvalidSize},
		{"px size", func(th *SiteTheme) { th.FontSizeHeading = "22px" }, nil},
		{"css injection", func(th *SiteTheme) { th.FontBody = "serif;}body{display:none" }, ErrInvalidFont},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := Default()
			tt.mutate(&th)
			err := th.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestSiteTheme_CSS verifies the :root rule carries every variable.
func TestSiteTheme_CSS(t *testing.T) {
	css := Default().CSS()
	if !strings.HasPrefix(css, ":root{") || !strings.HasSuffix(css, "}") {
		t.Fatalf("unexpected CSS wrapper: %s", css)
	}
	for _, want := range []string{"--background:350 100% 97%;", "--font-size-base:1rem;", "--accent:35 60% 72%;"} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q: %s", want, css)
		}
	}
}
