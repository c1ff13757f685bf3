package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	shortHost         = "youtu.be"
	thumbnailTemplate = "https://img.youtube.com/vi/%s/hqdefault.jpg"
)

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?|shorts)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// VideoID extracts the YouTube video id from a link, or returns "".
func VideoID(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	if u, err := url.Parse(link); err == nil && u.Scheme != "" && u.Host != "" {
		if strings.Contains(strings.ToLower(u.Hostname()), shortHost) {
			if id, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/"); id != "" {
				return id
			}
		} else if id := u.Query().Get("v"); id != "" {
			return id
		}
	}

	if m := videoIDPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return ""
}

// ThumbnailURL returns the high quality thumbnail for a video id.
func ThumbnailURL(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(thumbnailTemplate, url.PathEscape(id))
}
