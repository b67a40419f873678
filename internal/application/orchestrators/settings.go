package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"coachsite/internal/adapters/storage/setting"
	"coachsite/internal/application/projections"
	"coachsite/internal/domain/settings"
	"coachsite/internal/domain/theme"
)

// SettingStoreForOrchestrator defines the store interface needed by settings orchestrators.
type SettingStoreForOrchestrator interface {
	setting.Getter
	setting.Putter
}

// SettingsDeps holds dependencies for settings orchestrators.
type SettingsDeps struct {
	SettingStore SettingStoreForOrchestrator
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSaveTheme stores a theme. Empty fields fall back to the defaults.
// PRE: non-empty fields are safe CSS values
// POST: stored theme has every field set
func ExecuteSaveTheme(ctx context.Context, t theme.SiteTheme, deps SettingsDeps) (theme.SiteTheme, error) {
	t = t.WithDefaults()
	if err := t.Validate(); err != nil {
		return theme.SiteTheme{}, invalid(err)
	}
	if err := setting.Put(ctx, deps.SettingStore, settings.KeySiteTheme, t, deps.Now()); err != nil {
		return theme.SiteTheme{}, err
	}
	slog.Info("settings_saved", "key", settings.KeySiteTheme)
	return t, nil
}

// ExecuteResetTheme restores the default theme.
func ExecuteResetTheme(ctx context.Context, deps SettingsDeps) (theme.SiteTheme, error) {
	return ExecuteSaveTheme(ctx, theme.Default(), deps)
}

// ExecuteSaveTagColors replaces the tag colour map.
// PRE: every colour is #rrggbb
// POST: map persisted as given
func ExecuteSaveTagColors(ctx context.Context, colors settings.TagColors, deps SettingsDeps) (settings.TagColors, error) {
	if colors == nil {
		colors = settings.TagColors{}
	}
	if err := colors.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := setting.Put(ctx, deps.SettingStore, settings.KeyTagColors, colors, deps.Now()); err != nil {
		return nil, err
	}
	slog.Info("settings_saved", "key", settings.KeyTagColors, "tags", len(colors))
	return colors, nil
}

// ExecuteSaveStaleDays sets the follow-up radar window.
// PRE: days is 3, 7 or 14
func ExecuteSaveStaleDays(ctx context.Context, days int, deps SettingsDeps) error {
	if err := settings.ValidateStaleDays(days); err != nil {
		return invalid(err)
	}
	if err := setting.Put(ctx, deps.SettingStore, settings.KeyStaleDays, days, deps.Now()); err != nil {
		return err
	}
	slog.Info("settings_saved", "key", settings.KeyStaleDays, "days", days)
	return nil
}

// ExecuteSaveLineOAConfig stores the LINE official account config.
// A masked channel secret sent back by the client keeps the stored secret.
// POST: returns the stored config with the secret masked
func ExecuteSaveLineOAConfig(ctx context.Context, cfg settings.LineOAConfig, deps SettingsDeps) (settings.LineOAConfig, error) {
	stored := projections.QueryGetLineOAConfig(ctx, deps.SettingStore, deps.GenerateID)
	cfg.KeepSecretIfMasked(stored)
	for i := range cfg.DefaultKeywords {
		if cfg.DefaultKeywords[i].ID == "" {
			cfg.DefaultKeywords[i].ID = deps.GenerateID()
		}
	}
	for i := range cfg.FlexMenuItems {
		if cfg.FlexMenuItems[i].ID == "" {
			cfg.FlexMenuItems[i].ID = deps.GenerateID()
		}
	}
	if err := cfg.Validate(); err != nil {
		return settings.LineOAConfig{}, invalid(err)
	}
	cfg.UpdatedAt = deps.Now()
	if err := setting.Put(ctx, deps.SettingStore, settings.KeyLineOAConfig, cfg, cfg.UpdatedAt); err != nil {
		return settings.LineOAConfig{}, err
	}
	slog.Info("settings_saved", "key", settings.KeyLineOAConfig, "enabled", cfg.Enabled)
	return cfg.Masked(), nil
}
