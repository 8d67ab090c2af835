// Package catalog owns the canonical artist and track collections for the
// studio site: CRUD, derived queries, persistence and change notification.
package catalog

import "strings"

// UnknownArtistName is the display name given to tracks whose artist was
// deleted.
const UnknownArtistName = "Unknown Artist"

// ArtistRef is an optional reference to an artist by id.
// The zero value Unassigned means the track has no artist; it is distinct
// from a reference to an artist that no longer exists.
type ArtistRef string

// Unassigned is the sentinel for "no artist".
const Unassigned ArtistRef = ""

// Assigned returns true when the reference names an artist id.
func (r ArtistRef) Assigned() bool {
	return r != Unassigned
}

func (r ArtistRef) String() string {
	return string(r)
}

// ArtistStatus is the lifecycle state of an artist.
type ArtistStatus string

const (
	ArtistActive   ArtistStatus = "active"
	ArtistInactive ArtistStatus = "inactive"
)

// TrackStatus is the publication state of a track.
// Only published tracks appear in the catalog grid and the play queue.
type TrackStatus string

const (
	TrackPublished TrackStatus = "published"
	TrackDraft     TrackStatus = "draft"
	TrackArchived  TrackStatus = "archived"
)

// Artist is a recording artist managed through the admin console.
type Artist struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Genre  string       `json:"genre"`
	Bio    string       `json:"bio"`
	Image  string       `json:"image"`
	Since  string       `json:"since"`
	Status ArtistStatus `json:"status"`

	// Tracks caches the number of tracks attributed to this artist. It is
	// recomputed on every track mutation and is not authoritative.
	Tracks int `json:"tracks"`

	// Streams is a cumulative aggregate, advisory only.
	Streams int64 `json:"streams"`
}

// Track is a catalog track.
type Track struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Artist      ArtistRef   `json:"artist"`
	ArtistName  string      `json:"artistName"`
	Genre       string      `json:"genre"`
	Duration    string      `json:"duration"` // display string, M:SS
	Year        string      `json:"year"`
	ReleaseDate string      `json:"releaseDate"` // ISO date
	Description string      `json:"description"`
	Artwork     string      `json:"artwork"`
	AudioURL    string      `json:"audioUrl"`
	Status      TrackStatus `json:"status"`
	Featured    bool        `json:"featured,omitempty"`

	Streams   int64 `json:"streams"`
	Likes     int64 `json:"likes"`
	Downloads int64 `json:"downloads"`
}

// DisplayArtist returns the name to show for the track's artist, falling
// back to the cached artistName and then the unknown-artist placeholder.
func (t Track) DisplayArtist() string {
	if strings.TrimSpace(t.ArtistName) != "" {
		return t.ArtistName
	}
	return UnknownArtistName
}

// Published returns true if the track is eligible for catalog display and
// queue membership.
func (t Track) Published() bool {
	return t.Status == TrackPublished
}
