// Package youtube resolves YouTube URLs to video ids and fetches display
// metadata for imports. Metadata fetching is availability-over-accuracy:
// once an id is extracted, an import must always succeed, so every network
// or parse failure falls back to deterministic defaults.
package youtube

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultOEmbedBase = "https://www.youtube.com/oembed"
	defaultWatchBase  = "https://www.youtube.com/watch"

	// FallbackDescription is used when the watch page yields nothing.
	FallbackDescription = "Great video content from YouTube."

	maxDescriptionLen = 150
	maxWatchPageBytes = 2 << 20
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video id out of the recognized URL
// shapes (watch?v=, youtu.be/, embed/) or accepts a bare id. Returns ""
// when nothing matches.
func ExtractVideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	var id string
	switch {
	case strings.Contains(raw, "youtube.com/watch"):
		if u, err := url.Parse(raw); err == nil {
			id = u.Query().Get("v")
		}
	case strings.Contains(raw, "youtu.be/"):
		id = cutAfter(raw, "youtu.be/")
	case strings.Contains(raw, "youtube.com/embed/"):
		id = cutAfter(raw, "embed/")
	default:
		id = raw
	}
	if !idPattern.MatchString(id) {
		return ""
	}
	return id
}

func cutAfter(raw, marker string) string {
	_, rest, _ := strings.Cut(raw, marker)
	for _, sep := range []string{"?", "&", "/"} {
		rest, _, _ = strings.Cut(rest, sep)
	}
	return rest
}

// ThumbnailURL is the deterministic thumbnail for a video id.
func ThumbnailURL(id string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}

// EmbedURL is the playback URL stored for imported videos.
func EmbedURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s", id)
}

// Metadata is what an import needs for display.
type Metadata struct {
	Title       string
	Thumbnail   string
	Description string
}

// Client fetches oEmbed metadata and watch-page descriptions with a
// bounded timeout. The zero value is not usable; use NewClient. The base
// URLs are overridable for tests and proxies.
type Client struct {
	http       *http.Client
	OEmbedBase string
	WatchBase  string
}

// NewClient returns a resolver whose outbound requests are capped at
// timeout. A non-positive timeout falls back to 5 seconds.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		OEmbedBase: defaultOEmbedBase,
		WatchBase:  defaultWatchBase,
	}
}

// FetchMetadata returns display metadata for the given id. It never
// fails: when the oEmbed endpoint is unreachable, times out, or returns
// garbage, the caller-supplied title and derived defaults are used.
func (c *Client) FetchMetadata(id, fallbackTitle string) Metadata {
	meta := Metadata{
		Title:       fallbackTitle,
		Thumbnail:   ThumbnailURL(id),
		Description: c.fetchDescription(id),
	}
	endpoint := fmt.Sprintf("%s?url=%s&format=json",
		c.OEmbedBase, url.QueryEscape("https://www.youtube.com/watch?v="+id))
	resp, err := c.http.Get(endpoint)
	if err != nil {
		return meta
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return meta
	}
	var oembed struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oembed); err != nil {
		return meta
	}
	if oembed.Title != "" {
		meta.Title = oembed.Title
	}
	return meta
}

var descriptionPattern = regexp.MustCompile(`"description":"((?:[^"\\]|\\.)*)"`)

var descriptionUnescaper = strings.NewReplacer(
	`\u0022`, `"`,
	`\u0027`, `'`,
	`\/`, `/`,
	`\\`, `\`,
	`\n`, " ",
)

// fetchDescription scrapes the watch page for the JSON-LD description,
// truncated for card display. Any failure yields the generic fallback.
func (c *Client) fetchDescription(id string) string {
	resp, err := c.http.Get(c.WatchBase + "?v=" + id)
	if err != nil {
		return FallbackDescription
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return FallbackDescription
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return FallbackDescription
	}
	m := descriptionPattern.FindSubmatch(body)
	if m == nil {
		return FallbackDescription
	}
	desc := strings.TrimSpace(descriptionUnescaper.Replace(string(m[1])))
	if desc == "" {
		return FallbackDescription
	}
	if len(desc) > maxDescriptionLen {
		cut := maxDescriptionLen
		for cut > 0 && !utf8.RuneStart(desc[cut]) {
			cut--
		}
		desc = desc[:cut]
	}
	return desc
}
