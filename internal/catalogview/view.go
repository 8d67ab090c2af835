// Package catalogview derives the music-grid view model from the catalog.
// It is a pure read path: nothing here mutates the repository.
package catalogview

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tverdon/backline/internal/catalog"
)

// Stream thresholds for the derived categories.
const (
	popularStreams  = 50_000
	trendingStreams = 100_000
	newReleaseDays  = 30
)

// Badge is the single display badge of a card.
// Priority: trending > popular > new.
type Badge struct {
	Type string
	Text string
}

// Card is one track in the music grid, decorated with its resolved artist
// and derived display attributes.
type Card struct {
	Track      catalog.Track
	ArtistName string
	Categories []string
	Badge      *Badge
	Streams    string
	Likes      string
	Downloads  string
	Released   string
}

// BuildGrid derives cards for every published track, joining each one to
// its artist. now anchors the "new release" window.
func BuildGrid(repo *catalog.Repository, now time.Time) []Card {
	tracks := repo.PublishedTracks()
	cards := make([]Card, 0, len(tracks))
	for _, t := range tracks {
		name := t.DisplayArtist()
		if t.Artist.Assigned() {
			if artist, ok := repo.Artist(t.Artist.String()); ok {
				name = artist.Name
			}
		}
		cards = append(cards, Card{
			Track:      t,
			ArtistName: name,
			Categories: Categories(t, now),
			Badge:      TrackBadge(t, now),
			Streams:    FormatCount(t.Streams),
			Likes:      FormatCount(t.Likes),
			Downloads:  FormatCount(t.Downloads),
			Released:   formatReleaseDate(t.ReleaseDate),
		})
	}
	return cards
}

// Categories returns the derived category tags for a track: always "all",
// plus "featured", "popular", "trending" and "new" as earned.
func Categories(t catalog.Track, now time.Time) []string {
	cats := []string{"all"}
	if t.Featured {
		cats = append(cats, "featured")
	}
	if t.Streams > popularStreams {
		cats = append(cats, "popular")
	}
	if t.Streams > trendingStreams {
		cats = append(cats, "trending")
	}
	if isNewRelease(t.ReleaseDate, now) {
		cats = append(cats, "new")
	}
	return cats
}

// TrackBadge returns the track's single display badge, or nil.
func TrackBadge(t catalog.Track, now time.Time) *Badge {
	if t.Streams > trendingStreams {
		return &Badge{Type: "trending", Text: "Trending"}
	}
	if t.Streams > popularStreams {
		return &Badge{Type: "popular", Text: "Popular"}
	}
	if isNewRelease(t.ReleaseDate, now) {
		return &Badge{Type: "new-release", Text: "New"}
	}
	return nil
}

func isNewRelease(releaseDate string, now time.Time) bool {
	d, err := time.Parse("2006-01-02", releaseDate)
	if err != nil {
		return false
	}
	return d.After(now.AddDate(0, 0, -newReleaseDays))
}

// FilterByCategory keeps the cards carrying the category tag. "all" and
// the empty string keep everything.
func FilterByCategory(cards []Card, category string) []Card {
	if category == "" || category == "all" {
		return cards
	}
	var out []Card
	for _, c := range cards {
		for _, cat := range c.Categories {
			if cat == category {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Search keeps the cards whose title, artist or genre contains the query,
// case-insensitive. An empty query keeps everything.
func Search(cards []Card, query string) []Card {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return cards
	}
	var out []Card
	for _, c := range cards {
		if strings.Contains(strings.ToLower(c.Track.Title), query) ||
			strings.Contains(strings.ToLower(c.ArtistName), query) ||
			strings.Contains(strings.ToLower(c.Track.Genre), query) {
			out = append(out, c)
		}
	}
	return out
}

// FormatCount renders a counter the way the site does: 1.5K, 2.3M,
// plain digits below a thousand.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return humanize.FtoaWithDigits(float64(n)/1_000_000, 1) + "M"
	case n >= 1_000:
		return humanize.FtoaWithDigits(float64(n)/1_000, 1) + "K"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatReleaseDate(releaseDate string) string {
	d, err := time.Parse("2006-01-02", releaseDate)
	if err != nil {
		return ""
	}
	return d.Format("Jan 2006")
}
