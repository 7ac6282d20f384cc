// Package videometa resolves a video URL to descriptive metadata.
//
// The primary resolver talks to an external yt-dlp HTTP API; the oembed
// resolver is a fallback that needs no external service. Both gate the URL
// against the recognized-platform pattern before any network call.
package videometa

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// VideoData is the metadata subset kept for a playlist entry. Fields may be
// empty when the resolver only recovered part of them.
type VideoData struct {
	Title           string `json:"title"`
	Thumbnail       string `json:"thumbnail"`
	Description     string `json:"description"`
	DurationSeconds int    `json:"duration"`
	UploadDate      string `json:"upload_date"`
	ViewCount       int64  `json:"view_count"`
	Uploader        string `json:"uploader"`
}

var (
	ErrUnsupportedURL     = errors.New("unsupported video url")
	ErrRequestFailed      = errors.New("video data request failed")
	ErrBadStatus          = errors.New("unexpected status code")
	ErrDecodeFailed       = errors.New("failed to decode video data")
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
)

var urlPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

// SupportedURL reports whether the URL matches the recognized-platform
// pattern. Unsupported URLs must be rejected without an external call.
func SupportedURL(videoURL string) bool {
	return urlPattern.MatchString(videoURL)
}

// VideoId extracts the video identifier from a watch or short-form URL.
// Returns an empty string when none is present.
func VideoId(videoURL string) string {
	raw := videoURL
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if strings.HasSuffix(u.Host, "youtu.be") {
		return strings.TrimPrefix(strings.Trim(u.Path, "/"), "embed/")
	}

	if id := u.Query().Get("v"); id != "" {
		return id
	}

	if strings.HasPrefix(u.Path, "/embed/") || strings.HasPrefix(u.Path, "/shorts/") {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			return parts[1]
		}
	}

	return ""
}
