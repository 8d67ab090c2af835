package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tverdon/backline/internal/notify"
	"github.com/tverdon/backline/internal/store"
)

// Persisted keys. Each holds the full collection as one JSON document;
// every save replaces the whole document.
const (
	keyArtists = "backline:artists"
	keyTracks  = "backline:tracks"
)

const idPadWidth = 3

// Repository owns the canonical artist and track collections.
//
// Every mutation re-reads the latest persisted documents before merging,
// persists the full collections, and publishes exactly one change
// notification. Reads degrade to empty collections when the persisted
// document is corrupt; the corruption is logged, never returned.
//
// A failed persist does not roll back the in-memory mutation: reads keep
// serving it. The delta is not durable, though; the next mutation re-reads
// the persisted documents and starts from what the store actually holds.
type Repository struct {
	mu    sync.Mutex
	store *store.Store
	bus   *notify.Broadcaster

	artists []Artist
	tracks  []Track
	loaded  bool
	seed    bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithSeed installs the default demo catalog when the store is empty.
func WithSeed() Option {
	return func(r *Repository) { r.seed = true }
}

// NewRepository creates a repository over the given store and broadcaster.
func NewRepository(st *store.Store, bus *notify.Broadcaster, opts ...Option) *Repository {
	r := &Repository{store: st, bus: bus}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// load initializes the in-memory collections from the store. Corrupt or
// missing documents become empty collections (or the seed set on first use).
// A freshly installed seed set is written through so later sessions see it.
func (r *Repository) load() {
	if r.loaded {
		return
	}

	artists, artistsFound := readCollection[Artist](r.store, keyArtists)
	tracks, tracksFound := readCollection[Track](r.store, keyTracks)

	seeded := false
	if !artistsFound && !tracksFound && r.seed {
		artists = defaultArtists()
		tracks = defaultTracks()
		seeded = true
	}

	r.artists = artists
	r.tracks = tracks
	r.loaded = true

	if seeded {
		if err := r.persist(); err != nil {
			log.Error("persisting seed catalog", "err", err)
		}
	}
}

// refresh re-reads the persisted documents so a merge never clobbers a state
// it has not seen. Keeps writes read-modify-write.
func (r *Repository) refresh() {
	r.loaded = false
	r.load()
}

func readCollection[T any](st *store.Store, key string) ([]T, bool) {
	doc, found, err := st.Read(key)
	if err != nil {
		log.Error("reading persisted collection", "key", key, "err", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var items []T
	if err := json.Unmarshal([]byte(doc), &items); err != nil {
		log.Error("corrupt persisted collection, treating as empty", "key", key, "err", err)
		return nil, false
	}
	return items, true
}

// Artists returns all artists in insertion order.
func (r *Repository) Artists() []Artist {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()

	out := make([]Artist, len(r.artists))
	copy(out, r.artists)
	return out
}

// Artist returns the artist with the given id.
func (r *Repository) Artist(id string) (Artist, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()

	for _, a := range r.artists {
		if a.ID == id {
			return a, true
		}
	}
	return Artist{}, false
}

// Tracks returns all tracks in insertion order.
func (r *Repository) Tracks() []Track {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()

	out := make([]Track, len(r.tracks))
	copy(out, r.tracks)
	return out
}

// Track returns the track with the given id.
func (r *Repository) Track(id string) (Track, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()

	for _, t := range r.tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// PublishedTracks returns the published subset of tracks in insertion order.
func (r *Repository) PublishedTracks() []Track {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()

	var out []Track
	for _, t := range r.tracks {
		if t.Published() {
			out = append(out, t)
		}
	}
	return out
}

// TracksByArtist returns the tracks attributed to the given artist.
func (r *Repository) TracksByArtist(artistID string) []Track {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()

	var out []Track
	for _, t := range r.tracks {
		if t.Artist == ArtistRef(artistID) {
			out = append(out, t)
		}
	}
	return out
}

// SaveArtist creates or updates an artist. A missing id gets the next
// sequential id for the collection. An existing id merge-overwrites the
// stored record. Returns the saved artist.
func (r *Repository) SaveArtist(a Artist) (Artist, error) {
	r.mu.Lock()
	r.refresh()

	if a.ID == "" {
		a.ID = nextID("A", len(r.artists))
	}

	if i := artistIndex(r.artists, a.ID); i >= 0 {
		a = mergeArtist(r.artists[i], a)
		r.artists[i] = a
	} else {
		r.artists = append(r.artists, a)
	}

	err := r.persist()
	r.mu.Unlock()

	r.bus.Publish()
	return a, err
}

// DeleteArtist removes the artist and clears the artist reference of every
// track it owned; those tracks survive with the unknown-artist placeholder.
func (r *Repository) DeleteArtist(id string) error {
	r.mu.Lock()
	r.refresh()

	if i := artistIndex(r.artists, id); i >= 0 {
		r.artists = append(r.artists[:i], r.artists[i+1:]...)
	}

	for j := range r.tracks {
		if r.tracks[j].Artist == ArtistRef(id) {
			r.tracks[j].Artist = Unassigned
			r.tracks[j].ArtistName = UnknownArtistName
		}
	}

	err := r.persist()
	r.mu.Unlock()

	r.bus.Publish()
	return err
}

// SaveTrack creates or updates a track. A missing id gets the next
// sequential id. The denormalized artistName is refreshed when the artist
// reference resolves, and the artist's cached track count is recomputed.
// Returns the saved track.
func (r *Repository) SaveTrack(t Track) (Track, error) {
	r.mu.Lock()
	r.refresh()

	if t.ID == "" {
		t.ID = nextID("T", len(r.tracks))
	}

	if t.Artist.Assigned() {
		if i := artistIndex(r.artists, t.Artist.String()); i >= 0 {
			t.ArtistName = r.artists[i].Name
		}
	}

	former := Unassigned
	if i := trackIndex(r.tracks, t.ID); i >= 0 {
		former = r.tracks[i].Artist
		t = mergeTrack(r.tracks[i], t)
		r.tracks[i] = t
	} else {
		r.tracks = append(r.tracks, t)
	}

	r.recountArtistTracks(t.Artist)
	if former != t.Artist {
		r.recountArtistTracks(former)
	}

	err := r.persist()
	r.mu.Unlock()

	r.bus.Publish()
	return t, err
}

// DeleteTrack removes the track outright and refreshes the former artist's
// track count.
func (r *Repository) DeleteTrack(id string) error {
	r.mu.Lock()
	r.refresh()

	former := Unassigned
	if i := trackIndex(r.tracks, id); i >= 0 {
		former = r.tracks[i].Artist
		r.tracks = append(r.tracks[:i], r.tracks[i+1:]...)
	}

	r.recountArtistTracks(former)

	err := r.persist()
	r.mu.Unlock()

	r.bus.Publish()
	return err
}

// recountArtistTracks re-derives the artist's cached track count.
// Caller holds the lock.
func (r *Repository) recountArtistTracks(ref ArtistRef) {
	if !ref.Assigned() {
		return
	}
	i := artistIndex(r.artists, ref.String())
	if i < 0 {
		return
	}

	count := 0
	for _, t := range r.tracks {
		if t.Artist == ref {
			count++
		}
	}
	r.artists[i].Tracks = count
}

// persist writes both collections back to the store. Caller holds the lock.
func (r *Repository) persist() error {
	artistDoc, err := json.Marshal(r.artists)
	if err != nil {
		return fmt.Errorf("serialize artists: %w", err)
	}
	trackDoc, err := json.Marshal(r.tracks)
	if err != nil {
		return fmt.Errorf("serialize tracks: %w", err)
	}

	if err := r.store.Write(keyArtists, string(artistDoc)); err != nil {
		return err
	}
	return r.store.Write(keyTracks, string(trackDoc))
}

func nextID(prefix string, length int) string {
	return fmt.Sprintf("%s%0*d", prefix, idPadWidth, length+1)
}

func artistIndex(artists []Artist, id string) int {
	for i, a := range artists {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func trackIndex(tracks []Track, id string) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// mergeArtist overlays incoming onto existing: non-empty incoming fields
// win; counters always take the incoming value so decrements persist.
// The id never changes.
func mergeArtist(existing, incoming Artist) Artist {
	merged := existing

	if incoming.Name != "" {
		merged.Name = incoming.Name
	}
	if incoming.Genre != "" {
		merged.Genre = incoming.Genre
	}
	if incoming.Bio != "" {
		merged.Bio = incoming.Bio
	}
	if incoming.Image != "" {
		merged.Image = incoming.Image
	}
	if incoming.Since != "" {
		merged.Since = incoming.Since
	}
	if incoming.Status != "" {
		merged.Status = incoming.Status
	}
	merged.Tracks = incoming.Tracks
	merged.Streams = incoming.Streams

	return merged
}

func mergeTrack(existing, incoming Track) Track {
	merged := existing

	if incoming.Title != "" {
		merged.Title = incoming.Title
	}
	merged.Artist = incoming.Artist
	if incoming.ArtistName != "" {
		merged.ArtistName = incoming.ArtistName
	}
	if incoming.Genre != "" {
		merged.Genre = incoming.Genre
	}
	if incoming.Duration != "" {
		merged.Duration = incoming.Duration
	}
	if incoming.Year != "" {
		merged.Year = incoming.Year
	}
	if incoming.ReleaseDate != "" {
		merged.ReleaseDate = incoming.ReleaseDate
	}
	if incoming.Description != "" {
		merged.Description = incoming.Description
	}
	if incoming.Artwork != "" {
		merged.Artwork = incoming.Artwork
	}
	if incoming.AudioURL != "" {
		merged.AudioURL = incoming.AudioURL
	}
	if incoming.Status != "" {
		merged.Status = incoming.Status
	}
	merged.Featured = incoming.Featured
	merged.Streams = incoming.Streams
	merged.Likes = incoming.Likes
	merged.Downloads = incoming.Downloads

	return merged
}
