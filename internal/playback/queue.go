package playback

import (
	"math/rand"

	"github.com/tverdon/backline/internal/catalog"
)

// Queue is the ordered, published-only view of tracks the engine plays.
// Entries are snapshots of repository records; write-backs go through the
// repository by track id, never through the snapshot.
type Queue struct {
	tracks   []catalog.Track
	original []catalog.Track // insertion order, kept while shuffled
	cursor   int             // -1 when empty
	shuffled bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{cursor: -1}
}

// Replace swaps in a fresh track list. The cursor follows the previously
// current track when it is still present; otherwise it resets to 0 (or -1
// when the new list is empty). Shuffle state resets to the new order.
func (q *Queue) Replace(tracks []catalog.Track) {
	var currentID string
	if c := q.Current(); c != nil {
		currentID = c.ID
	}

	q.tracks = make([]catalog.Track, len(tracks))
	copy(q.tracks, tracks)
	q.original = nil
	q.shuffled = false

	if len(q.tracks) == 0 {
		q.cursor = -1
		return
	}
	if i := q.indexOf(currentID); i >= 0 {
		q.cursor = i
		return
	}
	q.cursor = 0
}

// Current returns the track under the cursor, or nil.
func (q *Queue) Current() *catalog.Track {
	if q.cursor < 0 || q.cursor >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.cursor]
}

// Cursor returns the current index (-1 when empty).
func (q *Queue) Cursor() int { return q.cursor }

// Len returns the number of tracks.
func (q *Queue) Len() int { return len(q.tracks) }

// IsEmpty returns true when the queue holds no tracks.
func (q *Queue) IsEmpty() bool { return len(q.tracks) == 0 }

// Shuffled returns whether the queue is in shuffled order.
func (q *Queue) Shuffled() bool { return q.shuffled }

// Tracks returns a copy of the queue in its current order.
func (q *Queue) Tracks() []catalog.Track {
	out := make([]catalog.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// MoveTo sets the cursor. Out-of-range indexes are ignored.
func (q *Queue) MoveTo(index int) *catalog.Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.cursor = index
	return q.Current()
}

// Advance moves the cursor forward, wrapping at the end.
func (q *Queue) Advance() *catalog.Track {
	if q.IsEmpty() {
		return nil
	}
	q.cursor = (q.cursor + 1) % len(q.tracks)
	return q.Current()
}

// Retreat moves the cursor backward, wrapping at the start.
func (q *Queue) Retreat() *catalog.Track {
	if q.IsEmpty() {
		return nil
	}
	q.cursor = (q.cursor - 1 + len(q.tracks)) % len(q.tracks)
	return q.Current()
}

// Shuffle snapshots the current order, shuffles the queue in place and
// relocates the cursor to the same logical track. No-op when already
// shuffled.
func (q *Queue) Shuffle(rng *rand.Rand) {
	if q.shuffled || q.IsEmpty() {
		return
	}

	var currentID string
	if c := q.Current(); c != nil {
		currentID = c.ID
	}

	q.original = make([]catalog.Track, len(q.tracks))
	copy(q.original, q.tracks)

	rng.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
	q.shuffled = true

	if i := q.indexOf(currentID); i >= 0 {
		q.cursor = i
	}
}

// Unshuffle restores the snapshotted order and relocates the cursor to the
// same logical track. No-op when not shuffled.
func (q *Queue) Unshuffle() {
	if !q.shuffled {
		return
	}

	var currentID string
	if c := q.Current(); c != nil {
		currentID = c.ID
	}

	q.tracks = q.original
	q.original = nil
	q.shuffled = false

	if i := q.indexOf(currentID); i >= 0 {
		q.cursor = i
	}
}

func (q *Queue) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, t := range q.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
