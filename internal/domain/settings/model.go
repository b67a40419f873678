package settings

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Keys under which settings are persisted.
const (
	KeySiteTheme    = "site_theme"
	KeyTagColors    = "tag_colors"
	KeyStaleDays    = "stale_days"
	KeyLineOAConfig = "line_oa_config"
)

// DefaultTagColor is used for tags without an assigned colour.
const DefaultTagColor = "#94a3b8"

// TagColorPalette is the set of colours offered in the tag editor.
var TagColorPalette = []string{
	"#f472b6", "#fb923c", "#facc15", "#4ade80",
	"#22d3ee", "#3b82f6", "#a78bfa", "#ec4899",
	"#64748b", "#94a3b8", "#f87171", "#2dd4bf",
}

// Stale-day choices for the follow-up radar.
const (
	StaleDaysShort   = 3
	StaleDaysDefault = 7
	StaleDaysLong    = 14
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Domain errors
var (
	ErrInvalidTagColor  = errors.New("tag colours must be #rrggbb")
	ErrEmptyTagName     = errors.New("tag name cannot be empty")
	ErrInvalidStaleDays = errors.New("stale days must be 3, 7 or 14")
)

// TagColors maps tag names to hex colours.
type TagColors map[string]string

// Validate checks every entry is a non-empty tag with a #rrggbb colour.
// PRE: none
// POST: returns nil if valid, error naming the first bad tag otherwise
func (c TagColors) Validate() error {
	for tag, color := range c {
		if strings.TrimSpace(tag) == "" {
			return ErrEmptyTagName
		}
		if !hexColor.MatchString(color) {
			return fmt.Errorf("%s: %w", tag, ErrInvalidTagColor)
		}
	}
	return nil
}

// ColorFor returns the colour assigned to tag, or DefaultTagColor.
func (c TagColors) ColorFor(tag string) string {
	if color, ok := c[tag]; ok && color != "" {
		return color
	}
	return DefaultTagColor
}

// NormalizeStaleDays maps any stored value onto one of the allowed choices.
// POST: returns 3, 7 or 14
func NormalizeStaleDays(days int) int {
	if days == StaleDaysShort || days == StaleDaysLong {
		return days
	}
	return StaleDaysDefault
}

// ValidateStaleDays rejects values outside the allowed choices.
func ValidateStaleDays(days int) error {
	if days != StaleDaysShort && days != StaleDaysDefault && days != StaleDaysLong {
		return ErrInvalidStaleDays
	}
	return nil
}

// Keyword reply types for the LINE official account.
const (
	ReplyText = "text"
	ReplyFlex = "flex"
	ReplyNone = "none"
)

// Flex menu action types.
const (
	ActionMessage  = "message"
	ActionURI      = "uri"
	ActionPostback = "postback"
)

// LineKeyword is an automatic reply triggered by a keyword.
type LineKeyword struct {
	ID             string `json:"id"`
	Keyword        string `json:"keyword"` // comma separated triggers
	ReplyType      string `json:"replyType"`
	ReplyText      string `json:"replyText,omitempty"`
	FlexTemplateID string `json:"flexTemplateId,omitempty"`
}

// LineFlexMenuItem is an entry in the rich menu.
type LineFlexMenuItem struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	ActionType string `json:"actionType"`
	ActionData string `json:"actionData"`
	Order      int    `json:"order,omitempty"`
}

// LineOAConfig holds the LINE official account integration settings.
type LineOAConfig struct {
	Enabled         bool               `json:"enabled"`
	ChannelID       string             `json:"channelId"`
	ChannelSecret   string             `json:"channelSecret,omitempty"`
	WebhookURL      string             `json:"webhookUrl,omitempty"`
	DefaultKeywords []LineKeyword      `json:"defaultKeywords"`
	FlexMenuItems   []LineFlexMenuItem `json:"flexMenuItems"`
	UpdatedAt       time.Time          `json:"updatedAt,omitzero"`
}

// Line OA validation errors.
var (
	ErrLineMissingChannel = errors.New("enabled LINE account needs a channel id and secret")
	ErrInvalidReplyType   = errors.New("reply type must be one of: text, flex, none")
	ErrInvalidActionType  = errors.New("action type must be one of: message, uri, postback")
	ErrEmptyKeyword       = errors.New("keyword cannot be empty")
	ErrEmptyMenuLabel     = errors.New("menu label cannot be empty")
)

// DefaultLineOAConfig returns the starter keywords and menu. newID supplies item ids.
func DefaultLineOAConfig(newID func() string) LineOAConfig {
	return LineOAConfig{
		DefaultKeywords: []LineKeyword{
			{ID: newID(), Keyword: "嗨,你好", ReplyType: ReplyText, ReplyText: "您好！歡迎聯絡身心靈瘦身教練，請問有什麼可以協助您的？"},
			{ID: newID(), Keyword: "預約", ReplyType: ReplyText, ReplyText: "可透過官網預約或回覆「預約」由專人為您安排。"},
		},
		FlexMenuItems: []LineFlexMenuItem{
			{ID: newID(), Label: "預約諮詢", ActionType: ActionURI, ActionData: "/booking", Order: 1},
			{ID: newID(), Label: "方案介紹", ActionType: ActionMessage, ActionData: "方案", Order: 2},
			{ID: newID(), Label: "聯絡我們", ActionType: ActionMessage, ActionData: "聯絡", Order: 3},
		},
	}
}

// Validate checks the LINE config is internally consistent.
// PRE: none
// POST: returns nil if valid, error otherwise
func (c *LineOAConfig) Validate() error {
	if c.Enabled && (strings.TrimSpace(c.ChannelID) == "" || strings.TrimSpace(c.ChannelSecret) == "") {
		return ErrLineMissingChannel
	}
	for _, k := range c.DefaultKeywords {
		if strings.TrimSpace(k.Keyword) == "" {
			return ErrEmptyKeyword
		}
		if k.ReplyType != ReplyText && k.ReplyType != ReplyFlex && k.ReplyType != ReplyNone {
			return ErrInvalidReplyType
		}
	}
	for _, m := range c.FlexMenuItems {
		if strings.TrimSpace(m.Label) == "" {
			return ErrEmptyMenuLabel
		}
		if m.ActionType != ActionMessage && m.ActionType != ActionURI && m.ActionType != ActionPostback {
			return ErrInvalidActionType
		}
	}
	return nil
}

// Masked returns a copy safe to send to a browser: the channel secret is replaced.
func (c LineOAConfig) Masked() LineOAConfig {
	if c.ChannelSecret != "" {
		c.ChannelSecret = maskedSecret
	}
	return c
}

// maskedSecret is what clients see in place of a stored channel secret.
const maskedSecret = "********"

// KeepSecretIfMasked carries the stored secret over when a client echoes the masked value back.
func (c *LineOAConfig) KeepSecretIfMasked(stored LineOAConfig) {
	if c.ChannelSecret == maskedSecret {
		c.ChannelSecret = stored.ChannelSecret
	}
}

// MatchKeyword returns the first keyword rule triggered by text.
func (c *LineOAConfig) MatchKeyword(text string) (LineKeyword, bool) {
	text = strings.TrimSpace(text)
	for _, k := range c.DefaultKeywords {
		for _, trigger := range strings.Split(k.Keyword, ",") {
			trigger = strings.TrimSpace(trigger)
			if trigger != "" && strings.Contains(text, trigger) {
				return k, true
			}
		}
	}
	return LineKeyword{}, false
}
