// Package transcript provides the YouTube transcript cache and provider
// fetcher.
package transcript

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidVideoURL is returned for URLs that are not recognizable YouTube
// video links.
var ErrInvalidVideoURL = errors.New("invalid YouTube URL")

// ExtractVideoID pulls the 11-character video id out of a YouTube URL.
// Supported forms: youtube.com/watch?v=ID and youtu.be/ID, with or without
// scheme and www prefix.
func ExtractVideoID(raw string) (string, error) {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", ErrInvalidVideoURL
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")

	var id string
	switch {
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		id = u.Query().Get("v")
	case host == "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
		if i := strings.IndexByte(id, '/'); i >= 0 {
			id = id[:i]
		}
	default:
		return "", ErrInvalidVideoURL
	}

	if !validVideoID(id) {
		return "", ErrInvalidVideoURL
	}
	return id, nil
}

func validVideoID(id string) bool {
	if len(id) != 11 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
