package playback

import (
	"math/rand"
	"testing"

	"github.com/tverdon/backline/internal/catalog"
)

func queueTracks(n int) []catalog.Track {
	tracks := make([]catalog.Track, n)
	for i := range tracks {
		tracks[i] = catalog.Track{
			ID:     trackID(i),
			Title:  "Track " + trackID(i),
			Status: catalog.TrackPublished,
		}
	}
	return tracks
}

func trackID(i int) string {
	return string(rune('A' + i))
}

func TestNewQueue_Empty(t *testing.T) {
	q := NewQueue()

	if !q.IsEmpty() {
		t.Error("new queue should be empty")
	}
	if q.Cursor() != -1 {
		t.Errorf("Cursor() = %d, want -1", q.Cursor())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
	if q.Advance() != nil || q.Retreat() != nil {
		t.Error("Advance/Retreat on empty queue should return nil")
	}
}

func TestQueue_AdvanceWraps(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(3))

	wantIDs := []string{"B", "C", "A", "B"}
	for _, want := range wantIDs {
		got := q.Advance()
		if got == nil || got.ID != want {
			t.Fatalf("Advance() = %v, want id %s", got, want)
		}
	}
}

func TestQueue_RetreatWraps(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(3))

	got := q.Retreat()
	if got == nil || got.ID != "C" {
		t.Fatalf("Retreat() from 0 = %v, want wrap to C", got)
	}
}

func TestQueue_MoveTo_OutOfRange(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(2))

	if q.MoveTo(5) != nil {
		t.Error("MoveTo out of range should return nil")
	}
	if q.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want unchanged 0", q.Cursor())
	}
}

func TestQueue_Shuffle_IsPermutation(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(8))
	q.MoveTo(3)

	before := q.Tracks()
	q.Shuffle(rand.New(rand.NewSource(42)))

	after := q.Tracks()
	if len(after) != len(before) {
		t.Fatalf("shuffled length = %d, want %d", len(after), len(before))
	}

	count := map[string]int{}
	for _, tr := range before {
		count[tr.ID]++
	}
	for _, tr := range after {
		count[tr.ID]--
	}
	for id, c := range count {
		if c != 0 {
			t.Errorf("shuffle changed multiset: id %s count delta %d", id, c)
		}
	}
}

func TestQueue_Shuffle_CursorFollowsTrack(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(8))
	q.MoveTo(3)
	wantID := q.Current().ID

	q.Shuffle(rand.New(rand.NewSource(7)))

	if got := q.Current(); got == nil || got.ID != wantID {
		t.Errorf("current after shuffle = %v, want id %s", got, wantID)
	}
}

func TestQueue_Unshuffle_RestoresExactOrder(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(5))
	q.MoveTo(2)
	wantID := q.Current().ID
	original := q.Tracks()

	q.Shuffle(rand.New(rand.NewSource(99)))
	q.Unshuffle()

	restored := q.Tracks()
	for i := range original {
		if restored[i].ID != original[i].ID {
			t.Errorf("restored[%d] = %s, want %s", i, restored[i].ID, original[i].ID)
		}
	}
	if got := q.Current(); got == nil || got.ID != wantID {
		t.Errorf("current after unshuffle = %v, want id %s", got, wantID)
	}
	if q.Shuffled() {
		t.Error("queue should not report shuffled after Unshuffle")
	}
}

func TestQueue_Replace_CursorFollowsSurvivingTrack(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(4))
	q.MoveTo(2) // "C"

	// Drop the first track; C survives at a new index.
	q.Replace(queueTracks(4)[1:])

	if got := q.Current(); got == nil || got.ID != "C" {
		t.Errorf("current after replace = %v, want C", got)
	}
	if q.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", q.Cursor())
	}
}

func TestQueue_Replace_CurrentGoneResetsToHead(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(3))
	q.MoveTo(2)

	q.Replace(queueTracks(2)) // "C" gone

	if q.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", q.Cursor())
	}
}

func TestQueue_Replace_Empty(t *testing.T) {
	q := NewQueue()
	q.Replace(queueTracks(3))
	q.MoveTo(1)

	q.Replace(nil)

	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
	if q.Cursor() != -1 {
		t.Errorf("Cursor() = %d, want -1", q.Cursor())
	}
}
