// Package content holds the static copy shown on the public site.
package content

import "time"

// SiteInfo is the brand and contact block shared by every page.
type SiteInfo struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	LineOfficialURL    string `json:"lineOfficialUrl"`
	LineBrandLabel     string `json:"lineBrandLabel"`
	LineTagline        string `json:"lineTagline"`
	FacebookURL        string `json:"facebookUrl"`
	InstagramURL       string `json:"instagramUrl"`
	PDFDownloadURL     string `json:"pdfDownloadUrl,omitempty"`
	SubscribeQuotesURL string `json:"subscribeQuotesUrl,omitempty"`
}

// Testimonial is a short before/after quote.
type Testimonial struct {
	Initial string `json:"initial"`
	Before  string `json:"before"`
	After   string `json:"after"`
}

// Story is a full transformation story. After is markdown.
type Story struct {
	Initial      string `json:"initial"`
	Before       string `json:"before"`
	After        string `json:"after"`
	Journey      string `json:"journey"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ImageCaption string `json:"imageCaption,omitempty"`
}

// GalleryPhoto is a photo not tied to a single story.
type GalleryPhoto struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption,omitempty"`
}

// Resource is a free resource card.
type Resource struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
	Link        string `json:"link"`
}

// Feature is an icon card used on the home and booking pages.
type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Transformation is a before/after rephrasing.
type Transformation struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// ShortVideo is a short-form video card. VideoID or EmbedURL make it embeddable.
type ShortVideo struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	VideoID   string `json:"videoId,omitempty"`
	EmbedURL  string `json:"embedUrl,omitempty"`
	LinkURL   string `json:"linkUrl,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// NoteTemplate is a canned progress-note snippet.
type NoteTemplate struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

const tiktokEmbedBase = "https://www.tiktok.com/embed/v2"

// Embed returns the iframe URL, or "" when the video is link-only.
func (v ShortVideo) Embed() string {
	if v.EmbedURL != "" {
		return v.EmbedURL
	}
	if v.VideoID != "" {
		return tiktokEmbedBase + "/" + v.VideoID
	}
	return ""
}

// IsEmbeddable reports whether Embed returns a URL.
func (v ShortVideo) IsEmbeddable() bool {
	return v.Embed() != ""
}

// QuoteOfDay picks a daily quote by day of year so it changes once per day.
func QuoteOfDay(now time.Time) string {
	quotes := DailyQuotes()
	if len(quotes) == 0 {
		return ""
	}
	return quotes[(now.YearDay()-1)%len(quotes)]
}

// Site returns the default site info.
func Site() SiteInfo { return siteInfo }

// Testimonials returns the home page testimonials.
func Testimonials() []Testimonial { return clone(testimonials) }

// Stories returns the stories page entries.
func Stories() []Story { return clone(stories) }

// GalleryPhotos returns the story gallery.
func GalleryPhotos() []GalleryPhoto { return clone(galleryPhotos) }

// Resources returns the free resource cards.
func Resources() []Resource { return clone(resources) }

// DailyQuotes returns the quote rotation.
func DailyQuotes() []string { return clone(dailyQuotes) }

// BookingFeatures returns the booking page cards.
func BookingFeatures() []Feature { return clone(bookingFeatures) }

// IntroFeatures returns the home page intro cards.
func IntroFeatures() []Feature { return clone(introFeatures) }

// IntroPreview returns the home page before/after teaser.
func IntroPreview() Transformation { return introPreview }

// AboutTransformations returns the about page rephrasings.
func AboutTransformations() []Transformation { return clone(aboutTransformations) }

// ShortVideos returns the video carousel.
func ShortVideos() []ShortVideo { return clone(shortVideos) }

// ProgressNoteTemplates returns the admin note snippets.
func ProgressNoteTemplates() []NoteTemplate { return clone(noteTemplates) }

func clone[T any](s []T) []T {
	return append([]T(nil), s...)
}
