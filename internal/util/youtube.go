package util

import (
	"net/url"
	"strings"
)

var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"youtu.be":        true,
	"www.youtu.be":    true,
}

// ExtractVideoID returns the YouTube video id encoded in raw.
// Supported forms: youtube.com/watch?v=ID, youtu.be/ID, youtube.com/shorts/ID
// and youtube.com/embed/ID. The second result is false when raw does not name
// a video on an allow-listed host.
func ExtractVideoID(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User != nil {
		return "", false
	}
	// Ids are returned exactly as they appear in the URL, without percent-decoding.
	path := parsed.EscapedPath()

	host := strings.ToLower(parsed.Host)
	if !youtubeHosts[host] {
		return "", false
	}

	if host == "youtu.be" || host == "www.youtu.be" {
		segment, _, _ := strings.Cut(strings.Trim(path, "/"), "/")
		return segment, segment != ""
	}

	if path == "/watch" {
		id := parsed.Query().Get("v")
		return id, id != ""
	}

	for _, prefix := range []string{"/shorts/", "/embed/"} {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			segment, _, _ := strings.Cut(rest, "/")
			return segment, segment != ""
		}
	}
	return "", false
}
