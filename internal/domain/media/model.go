package media

import (
	"errors"
	"path"
	"strings"
	"time"
)

// MaxUploadBytes caps a single media upload.
const MaxUploadBytes = 10 << 20

// Usage constants tag where an image is shown on the site.
const (
	UsageHero    = "hero"
	UsageProfile = "profile"
	UsagePetal   = "petal"
	UsageOther   = "other"
)

// Usages lists every usage tag.
var Usages = []string{UsageHero, UsageProfile, UsagePetal, UsageOther}

// allowedContentTypes maps accepted image types to their file extension.
var allowedContentTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// Domain errors
var (
	ErrEmptyName       = errors.New("media name cannot be empty")
	ErrEmptyURL        = errors.New("media url cannot be empty")
	ErrInvalidUsage    = errors.New("usage must be one of: hero, profile, petal, other")
	ErrUnsupportedType = errors.New("only jpeg, png, webp, gif and svg images are accepted")
	ErrTooLarge        = errors.New("media file exceeds 10 MB")
	ErrEmptyFile       = errors.New("media file is empty")
)

// Item is an image in the media library.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Alt         string    `json:"alt,omitempty"`
	Usage       string    `json:"usage,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.URL == "" {
		return ErrEmptyURL
	}
	if i.Usage != "" && !IsValidUsage(i.Usage) {
		return ErrInvalidUsage
	}
	return nil
}

// CheckUpload validates an incoming file before it is stored.
// PRE: size is the byte length of the upload
// POST: Returns nil when the file may be stored
func CheckUpload(contentType string, size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxUploadBytes {
		return ErrTooLarge
	}
	if _, ok := allowedContentTypes[baseType(contentType)]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// ObjectKey builds the storage key for an upload: media/<id><ext>.
func ObjectKey(id, contentType string) string {
	return path.Join("media", id+allowedContentTypes[baseType(contentType)])
}

// IsValidUsage reports whether u is a known usage tag.
func IsValidUsage(u string) bool {
	for _, v := range Usages {
		if v == u {
			return true
		}
	}
	return false
}

func baseType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
