package projections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachsite/internal/adapters/storage/setting"
	"coachsite/internal/adapters/storage/storagetest"
	domainSettings "coachsite/internal/domain/settings"
	domainTheme "coachsite/internal/domain/theme"
)

func newSettingStore(t *testing.T) *setting.SQLiteStore {
	t.Helper()
	return setting.NewSQLiteStore(storagetest.NewDB(t))
}

func counterID() func() string {
	n := 0
	return func() string {
		n++
		return string(rune('a' + n - 1))
	}
}

// TestQueryGetSiteSettings_Defaults verifies an empty store yields defaults.
func TestQueryGetSiteSettings_Defaults(t *testing.T) {
	got := QueryGetSiteSettings(context.Background(), newSettingStore(t), counterID())
	assert.Equal(t, domainTheme.Default(), got.Theme)
	assert.Empty(t, got.TagColors)
	assert.Equal(t, domainSettings.StaleDaysDefault, got.StaleDays)
	assert.NotEmpty(t, got.LineOA.DefaultKeywords)
	assert.False(t, got.LineOA.Enabled)
}

// TestQueryGetTheme_PartialMerge verifies stored fields override defaults one by one.
func TestQueryGetTheme_PartialMerge(t *testing.T) {
	ctx := context.Background()
	s := newSettingStore(t)
	require.NoError(t, s.Put(ctx, setting.Entry{Key: domainSettings.KeySiteTheme, Value: []byte(`{"colorPrimary":"200 50% 50%","fontBody":""}`), UpdatedAt: now}))

	got := QueryGetTheme(ctx, s)
	assert.Equal(t, "200 50% 50%", got.ColorPrimary)
	assert.Equal(t, domainTheme.Default().FontBody, got.FontBody)
}

// TestQueryGetStaleDays_Unparsable verifies garbage and odd values read as the default.
func TestQueryGetStaleDays_Unparsable(t *testing.T) {
	ctx := context.Background()
	s := newSettingStore(t)
	require.NoError(t, s.Put(ctx, setting.Entry{Key: domainSettings.KeyStaleDays, Value: []byte(`"soon"`), UpdatedAt: now}))
	assert.Equal(t, 7, QueryGetStaleDays(ctx, s))

	require.NoError(t, s.Put(ctx, setting.Entry{Key: domainSettings.KeyStaleDays, Value: []byte(`5`), UpdatedAt: now}))
	assert.Equal(t, 7, QueryGetStaleDays(ctx, s))

	require.NoError(t, s.Put(ctx, setting.Entry{Key: domainSettings.KeyStaleDays, Value: []byte(`14`), UpdatedAt: now}))
	assert.Equal(t, 14, QueryGetStaleDays(ctx, s))
}

// TestQueryGetSiteSettings_MasksSecret verifies the channel secret never leaves unmasked.
func TestQueryGetSiteSettings_MasksSecret(t *testing.T) {
	ctx := context.Background()
	s := newSettingStore(t)
	cfg := domainSettings.LineOAConfig{Enabled: true, ChannelID: "123", ChannelSecret: "s3cr3t"}
	require.NoError(t, setting.Put(ctx, s, domainSettings.KeyLineOAConfig, cfg, now))

	got := QueryGetSiteSettings(ctx, s, counterID())
	assert.Equal(t, "123", got.LineOA.ChannelID)
	assert.NotEqual(t, "s3cr3t", got.LineOA.ChannelSecret)
	assert.Equal(t, "s3cr3t", QueryGetLineOAConfig(ctx, s, counterID()).ChannelSecret)
}
