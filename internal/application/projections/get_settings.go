package projections

import (
	"context"
	"log/slog"

	"coachsite/internal/adapters/storage/setting"
	domainSettings "coachsite/internal/domain/settings"
	domainTheme "coachsite/internal/domain/theme"
)

// SiteSettingsResult is everything the settings screen edits, with secrets masked.
type SiteSettingsResult struct {
	Theme     domainTheme.SiteTheme       `json:"theme"`
	TagColors domainSettings.TagColors    `json:"tagColors"`
	Palette   []string                    `json:"palette"`
	StaleDays int                         `json:"staleDays"`
	LineOA    domainSettings.LineOAConfig `json:"lineOA"`
}

// loadOr decodes key into dst. A missing or unreadable value leaves dst untouched
// so the caller's default applies.
func loadOr(ctx context.Context, store SettingStore, key string, dst any) {
	if _, err := setting.Load(ctx, store, key, dst); err != nil {
		slog.Warn("setting_unreadable", "key", key, "error", err)
	}
}

// QueryGetTheme returns the stored site theme merged onto the defaults.
// POST: no field of the result is empty
func QueryGetTheme(ctx context.Context, store SettingStore) domainTheme.SiteTheme {
	t := domainTheme.Default()
	loadOr(ctx, store, domainSettings.KeySiteTheme, &t)
	return t.WithDefaults()
}

// QueryGetTagColors returns the tag colour map, empty when unset.
func QueryGetTagColors(ctx context.Context, store SettingStore) domainSettings.TagColors {
	var colors domainSettings.TagColors
	loadOr(ctx, store, domainSettings.KeyTagColors, &colors)
	if colors == nil {
		colors = domainSettings.TagColors{}
	}
	return colors
}

// QueryGetStaleDays returns the stale window in days.
// POST: returns 3, 7 or 14
func QueryGetStaleDays(ctx context.Context, store SettingStore) int {
	days := domainSettings.StaleDaysDefault
	loadOr(ctx, store, domainSettings.KeyStaleDays, &days)
	return domainSettings.NormalizeStaleDays(days)
}

// QueryGetLineOAConfig returns the stored LINE config, or the starter config
// when nothing was saved. The result still carries the real channel secret.
func QueryGetLineOAConfig(ctx context.Context, store SettingStore, newID func() string) domainSettings.LineOAConfig {
	var cfg domainSettings.LineOAConfig
	found, err := setting.Load(ctx, store, domainSettings.KeyLineOAConfig, &cfg)
	if err != nil {
		slog.Warn("setting_unreadable", "key", domainSettings.KeyLineOAConfig, "error", err)
	}
	if !found || err != nil {
		return domainSettings.DefaultLineOAConfig(newID)
	}
	return cfg
}

// QueryGetSiteSettings gathers every setting for the admin settings screen.
// POST: LineOA.ChannelSecret is masked
func QueryGetSiteSettings(ctx context.Context, store SettingStore, newID func() string) SiteSettingsResult {
	return SiteSettingsResult{
		Theme:     QueryGetTheme(ctx, store),
		TagColors: QueryGetTagColors(ctx, store),
		Palette:   domainSettings.TagColorPalette,
		StaleDays: QueryGetStaleDays(ctx, store),
		LineOA:    QueryGetLineOAConfig(ctx, store, newID).Masked(),
	}
}
