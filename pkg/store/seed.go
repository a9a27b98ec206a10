package store

import (
	"fmt"
	"math/rand"

	"video-share/pkg/models"
)

// SeedVideo describes one default catalog entry by its YouTube id.
type SeedVideo struct {
	VideoID     string
	Title       string
	Description string
}

// Video expands a seed into a full catalog entry: derived thumbnail and
// embed URLs, category "Trending", a random initial like count, and the
// undeletable default flag.
func (s SeedVideo) Video() *models.Video {
	return &models.Video{
		Title:       s.Title,
		Filename:    s.VideoID,
		Category:    "Trending",
		Thumbnail:   fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", s.VideoID),
		Likes:       rand.Intn(1000),
		PlaybackURL: fmt.Sprintf("https://www.youtube.com/embed/%s", s.VideoID),
		IsDefault:   true,
		Description: s.Description,
	}
}

// DefaultCatalog is the seed list inserted on first boot.
var DefaultCatalog = []SeedVideo{
	{"KzXnXhekOz4", "Amazing Music Video 1", "An incredible music video with amazing visuals and great beats."},
	{"w9WgzE5WiyU", "Great Content 2", "High quality content that will keep you entertained."},
	{"iYqqP1qcv5c", "Interesting Video 3", "Discover something new and interesting in this video."},
	{"5ukPCvdY0YY", "Popular Video 4", "One of the most popular videos with millions of views."},
	{"0TMi1bnsUZo", "Trending Video 5", "Currently trending - check out what everyone is watching."},
	{"ZqwttIdH840", "Top Video 6", "Top rated content from creators you love."},
	{"xVGCFuIiIG0", "Best Video 7", "The best videos handpicked for your enjoyment."},
	{"aEw7d3EPnMU", "Awesome Content 8", "Awesome and engaging content that stands out."},
	{"SpMsTsnYOss", "Live Stream Video 9", "Live streaming experience with real-time engagement."},
	{"lZmvMW1ugRM", "Featured Video 10", "Featured content from the best creators."},
	{"oK9oTZR-ee4", "Recommended Video 11", "Recommended just for you based on your preferences."},
	{"8CCh_GLviFc", "Amazing Video 12", "Discover amazing content you will love watching."},
	{"ZjxiNW-6aPU", "Great Short Video 13", "Quick and entertaining short form content."},
	{"dcPOFGOC58o", "Interesting Video 14", "Fascinating content that keeps you engaged."},
	{"to9DjfD-mm0", "Popular Video 15", "Popular video with thousands of views and engagement."},
	{"kiiP56E_cCQ", "Trending Video 16", "Latest trending content everyone is watching."},
	{"G9MPvy7RlS4", "Featured Video 17", "Specially featured content just for you."},
	{"scu6_n8ozqE", "Best Video 18", "Best of the best videos curated for quality."},
	{"r1ZM2vXiVvs", "Top Video 19", "Top rated and most viewed video of the month."},
	{"_cESW8BwGoU", "Awesome Video 20", "Awesome content that stands out from the rest."},
	{"4RW-vaVbS_0", "Trending Video 21", "Currently trending in the community worldwide."},
	{"RzH5P-f4abg", "Recommended Video 22", "Recommended based on your viewing preferences."},
	{"Ebe9NFgQnnU", "Great Video 23", "Great quality video with excellent production value."},
	{"EZ2ZJxZhBoA", "Popular Video 24", "Popular across all platforms with great engagement."},
	{"i40mxe8lUg0", "Featured Video 25", "Featured on homepage due to excellent quality."},
	{"jjpjjcMeujM", "Best Video 26", "Best of our collection that you should watch."},
	{"Z4hVGCWH1Kc", "Trending Video 27", "Trending now and gaining views every minute."},
}
