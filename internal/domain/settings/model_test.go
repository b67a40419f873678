package settings_test

import (
	"errors"
	"fmt"
	"testing"

	"coachsite/internal/domain/settings"
)

// TestTagColors_Validate tests tag colour validation.
func TestTagColors_Validate(t *testing.T) {
	tests := []struct {
		name    string
		colors  settings.TagColors
		wantErr error
	}{
		{"empty map", settings.TagColors{}, nil},
		{"valid", settings.TagColors{"產後": "#f472b6", "VIP": "#3B82F6"}, nil},
		{"short hex", settings.TagColors{"VIP": "#fff"}, settings.ErrInvalidTagColor},
		{"named colour", settings.TagColors{"VIP": "red"}, settings.ErrInvalidTagColor},
		{"blank tag", settings.TagColors{" ": "#ffffff"}, settings.ErrEmptyTagName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.colors.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestTagColors_ColorFor verifies the fallback colour.
func TestTagColors_ColorFor(t *testing.T) {
	c := settings.TagColors{"VIP": "#3b82f6"}
	if got := c.ColorFor("VIP"); got != "#3b82f6" {
		t.Errorf("ColorFor(VIP) = %s", got)
	}
	if got := c.ColorFor("unknown"); got != settings.DefaultTagColor {
		t.Errorf("ColorFor(unknown) = %s, want default", got)
	}
	var nilMap settings.TagColors
	if got := nilMap.ColorFor("x"); got != settings.DefaultTagColor {
		t.Errorf("nil map ColorFor = %s, want default", got)
	}
}

// TestNormalizeStaleDays verifies unknown values read as 7.
func TestNormalizeStaleDays(t *testing.T) {
	for in, want := range map[int]int{3: 3, 7: 7, 14: 14, 0: 7, 5: 7, 30: 7, -3: 7} {
		if got := settings.NormalizeStaleDays(in); got != want {
			t.Errorf("NormalizeStaleDays(%d) = %d, want %d", in, got, want)
		}
	}
	if err := settings.ValidateStaleDays(10); err != settings.ErrInvalidStaleDays {
		t.Errorf("ValidateStaleDays(10) error = %v", err)
	}
	if err := settings.ValidateStaleDays(14); err != nil {
		t.Errorf("ValidateStaleDays(14) error = %v", err)
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// TestDefaultLineOAConfig verifies the starter config is valid and disabled.
func TestDefaultLineOAConfig(t *testing.T) {
	cfg := settings.DefaultLineOAConfig(sequentialIDs())
	if cfg.Enabled {
		t.Errorf("default config should be disabled")
	}
	if len(cfg.DefaultKeywords) != 2 || len(cfg.FlexMenuItems) != 3 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if cfg.FlexMenuItems[2].ID != "id-5" {
		t.Errorf("ids should be drawn in order, got %s", cfg.FlexMenuItems[2].ID)
	}
}

// TestLineOAConfig_Validate covers enabled-channel and item checks.
func TestLineOAConfig_Validate(t *testing.T) {
	cfg := settings.DefaultLineOAConfig(sequentialIDs())
	cfg.Enabled = true
	if err := cfg.Validate(); err != settings.ErrLineMissingChannel {
		t.Errorf("enabled without channel error = %v", err)
	}
	cfg.ChannelID, cfg.ChannelSecret = "1650000000", "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	cfg.FlexMenuItems[0].ActionType = "open"
	if err := cfg.Validate(); err != settings.ErrInvalidActionType {
		t.Errorf("bad action error = %v", err)
	}
}

// TestLineOAConfig_Masking verifies the secret never leaves and survives a round trip.
func TestLineOAConfig_Masking(t *testing.T) {
	stored := settings.LineOAConfig{ChannelID: "1", ChannelSecret: "real-secret"}
	masked := stored.Masked()
	if masked.ChannelSecret == "real-secret" || masked.ChannelSecret == "" {
		t.Fatalf("secret not masked: %q", masked.ChannelSecret)
	}
	if stored.ChannelSecret != "real-secret" {
		t.Fatalf("Masked must not modify the receiver")
	}

	incoming := masked
	incoming.KeepSecretIfMasked(stored)
	if incoming.ChannelSecret != "real-secret" {
		t.Errorf("KeepSecretIfMasked() = %q", incoming.ChannelSecret)
	}

	changed := settings.LineOAConfig{ChannelSecret: "new-secret"}
	changed.KeepSecretIfMasked(stored)
	if changed.ChannelSecret != "new-secret" {
		t.Errorf("explicit secret should win, got %q", changed.ChannelSecret)
	}
}

// TestLineOAConfig_MatchKeyword verifies comma separated triggers.
func TestLineOAConfig_MatchKeyword(t *testing.T) {
	cfg := settings.DefaultLineOAConfig(sequentialIDs())
	k, ok := cfg.MatchKeyword("你好，想請問")
	if !ok || k.Keyword != "嗨,你好" {
		t.Errorf("MatchKeyword() = %+v, %v", k, ok)
	}
	if _, ok := cfg.MatchKeyword("謝謝"); ok {
		t.Errorf("unexpected match")
	}
}
