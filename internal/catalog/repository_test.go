package catalog

import (
	"fmt"
	"testing"

	"github.com/tverdon/backline/internal/notify"
	"github.com/tverdon/backline/internal/store"
)

func setupRepo(t *testing.T) (*Repository, *notify.Broadcaster) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	bus := notify.New()
	return NewRepository(st, bus), bus
}

func TestSaveArtist_AssignsSequentialIDs(t *testing.T) {
	r, _ := setupRepo(t)

	for i := 1; i <= 12; i++ {
		a, err := r.SaveArtist(Artist{Name: fmt.Sprintf("Artist %d", i)})
		if err != nil {
			t.Fatalf("SaveArtist failed: %v", err)
		}
		want := fmt.Sprintf("A%03d", i)
		if a.ID != want {
			t.Errorf("assigned id = %q, want %q", a.ID, want)
		}
	}

	// No duplicates across the collection
	seen := map[string]bool{}
	for _, a := range r.Artists() {
		if seen[a.ID] {
			t.Errorf("duplicate artist id %q", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestSaveTrack_ScenarioA(t *testing.T) {
	r, _ := setupRepo(t)

	artist, err := r.SaveArtist(Artist{Name: "X"})
	if err != nil {
		t.Fatalf("SaveArtist failed: %v", err)
	}
	if artist.ID != "A001" {
		t.Fatalf("artist id = %q, want A001", artist.ID)
	}

	track, err := r.SaveTrack(Track{Title: "Y", Artist: "A001"})
	if err != nil {
		t.Fatalf("SaveTrack failed: %v", err)
	}
	if track.ID != "T001" {
		t.Errorf("track id = %q, want T001", track.ID)
	}
	if track.ArtistName != "X" {
		t.Errorf("artistName = %q, want %q (denormalization refresh)", track.ArtistName, "X")
	}

	got, ok := r.Artist("A001")
	if !ok {
		t.Fatal("artist A001 not found")
	}
	if got.Tracks != 1 {
		t.Errorf("artist track count = %d, want 1", got.Tracks)
	}
}

func TestDeleteArtist_ScenarioB(t *testing.T) {
	r, _ := setupRepo(t)

	if _, err := r.SaveArtist(Artist{Name: "X"}); err != nil {
		t.Fatalf("SaveArtist failed: %v", err)
	}
	if _, err := r.SaveTrack(Track{Title: "Y", Artist: "A001"}); err != nil {
		t.Fatalf("SaveTrack failed: %v", err)
	}

	if err := r.DeleteArtist("A001"); err != nil {
		t.Fatalf("DeleteArtist failed: %v", err)
	}

	if got := r.Artists(); len(got) != 0 {
		t.Errorf("artists length = %d, want 0", len(got))
	}

	track, ok := r.Track("T001")
	if !ok {
		t.Fatal("track T001 should survive artist deletion")
	}
	if track.Artist != Unassigned {
		t.Errorf("track.Artist = %q, want sentinel", track.Artist)
	}
	if track.ArtistName != UnknownArtistName {
		t.Errorf("artistName = %q, want %q", track.ArtistName, UnknownArtistName)
	}
}

func TestPublishedTracks_FilterAndOrder(t *testing.T) {
	r, _ := setupRepo(t)

	statuses := []TrackStatus{TrackPublished, TrackDraft, TrackPublished, TrackArchived}
	for i, s := range statuses {
		if _, err := r.SaveTrack(Track{Title: fmt.Sprintf("Track %d", i+1), Status: s}); err != nil {
			t.Fatalf("SaveTrack failed: %v", err)
		}
	}

	published := r.PublishedTracks()
	if len(published) != 2 {
		t.Fatalf("published length = %d, want 2", len(published))
	}
	if published[0].ID != "T001" || published[1].ID != "T003" {
		t.Errorf("published = [%s, %s], want [T001, T003] in insertion order",
			published[0].ID, published[1].ID)
	}
}

func TestTracksByArtist(t *testing.T) {
	r, _ := setupRepo(t)

	if _, err := r.SaveArtist(Artist{Name: "One"}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SaveArtist(Artist{Name: "Two"}); err != nil {
		t.Fatal(err)
	}
	r.SaveTrack(Track{Title: "a", Artist: "A001"})
	r.SaveTrack(Track{Title: "b", Artist: "A002"})
	r.SaveTrack(Track{Title: "c", Artist: "A001"})

	got := r.TracksByArtist("A001")
	if len(got) != 2 {
		t.Fatalf("TracksByArtist length = %d, want 2", len(got))
	}
	if got[0].Title != "a" || got[1].Title != "c" {
		t.Errorf("TracksByArtist = [%s, %s], want [a, c]", got[0].Title, got[1].Title)
	}
}

func TestTrackCountInvariant_AfterReassignAndDelete(t *testing.T) {
	r, _ := setupRepo(t)

	r.SaveArtist(Artist{Name: "One"})
	r.SaveArtist(Artist{Name: "Two"})
	r.SaveTrack(Track{Title: "a", Artist: "A001"})
	r.SaveTrack(Track{Title: "b", Artist: "A001"})

	// Reassign one track; both artists' counts must be re-derived.
	track, _ := r.Track("T002")
	track.Artist = "A002"
	if _, err := r.SaveTrack(track); err != nil {
		t.Fatalf("SaveTrack failed: %v", err)
	}
	assertCounts(t, r)

	if err := r.DeleteTrack("T001"); err != nil {
		t.Fatalf("DeleteTrack failed: %v", err)
	}
	assertCounts(t, r)
}

func assertCounts(t *testing.T, r *Repository) {
	t.Helper()
	for _, a := range r.Artists() {
		want := len(r.TracksByArtist(a.ID))
		if a.Tracks != want {
			t.Errorf("artist %s track count = %d, want %d", a.ID, a.Tracks, want)
		}
	}
}

func TestSave_NotifiesExactlyOnce(t *testing.T) {
	r, bus := setupRepo(t)

	var events int
	bus.Subscribe(func(notify.Event) { events++ })

	r.SaveArtist(Artist{Name: "X"})
	if events != 1 {
		t.Errorf("notifications after SaveArtist = %d, want 1", events)
	}

	r.SaveTrack(Track{Title: "Y", Artist: "A001"})
	if events != 2 {
		t.Errorf("notifications after SaveTrack = %d, want 2", events)
	}

	r.DeleteTrack("T001")
	if events != 3 {
		t.Errorf("notifications after DeleteTrack = %d, want 3", events)
	}

	r.DeleteArtist("A001")
	if events != 4 {
		t.Errorf("notifications after DeleteArtist = %d, want 4", events)
	}
}

func TestSaveArtist_MergeOverwrite(t *testing.T) {
	r, _ := setupRepo(t)

	r.SaveArtist(Artist{Name: "Sarah Miles", Genre: "Afro-Pop", Bio: "Vocalist."})

	// Partial update: unset fields keep their stored values.
	updated, err := r.SaveArtist(Artist{ID: "A001", Genre: "Soul"})
	if err != nil {
		t.Fatalf("SaveArtist failed: %v", err)
	}
	if updated.Name != "Sarah Miles" {
		t.Errorf("name = %q, want preserved value", updated.Name)
	}
	if updated.Genre != "Soul" {
		t.Errorf("genre = %q, want %q", updated.Genre, "Soul")
	}
	if updated.Bio != "Vocalist." {
		t.Errorf("bio = %q, want preserved value", updated.Bio)
	}

	if got := r.Artists(); len(got) != 1 {
		t.Errorf("artists length = %d, want 1 (merge, not append)", len(got))
	}
}

func TestSaveTrack_CounterDecrementPersists(t *testing.T) {
	r, _ := setupRepo(t)

	r.SaveTrack(Track{Title: "Y", Likes: 1})

	track, _ := r.Track("T001")
	track.Likes = 0
	if _, err := r.SaveTrack(track); err != nil {
		t.Fatalf("SaveTrack failed: %v", err)
	}

	got, _ := r.Track("T001")
	if got.Likes != 0 {
		t.Errorf("likes = %d, want 0 (decrement must not be merged away)", got.Likes)
	}
}

func TestLoad_CorruptDocumentTreatedAsEmpty(t *testing.T) {
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer st.Close()

	if err := st.Write("backline:tracks", "{not json"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r := NewRepository(st, notify.New())
	if got := r.Tracks(); len(got) != 0 {
		t.Errorf("tracks length = %d, want 0 for corrupt document", len(got))
	}

	// The repository must stay usable after recovery.
	if _, err := r.SaveTrack(Track{Title: "fresh"}); err != nil {
		t.Fatalf("SaveTrack after corrupt read failed: %v", err)
	}
}

func TestLoad_SeedOnEmptyStore(t *testing.T) {
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer st.Close()

	r := NewRepository(st, notify.New(), WithSeed())

	artists := r.Artists()
	tracks := r.Tracks()
	if len(artists) == 0 || len(tracks) == 0 {
		t.Fatalf("seeded repo has %d artists, %d tracks, want demo catalog", len(artists), len(tracks))
	}
	if artists[0].ID != "A001" {
		t.Errorf("first seeded artist id = %q, want A001", artists[0].ID)
	}
}

func TestLoad_SeedIsPersisted(t *testing.T) {
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer st.Close()

	seeded := NewRepository(st, notify.New(), WithSeed())
	wantArtists := len(seeded.Artists())
	wantTracks := len(seeded.Tracks())
	if wantArtists == 0 || wantTracks == 0 {
		t.Fatal("seeded repo is empty")
	}

	// A later session without the seed option reads the same store.
	plain := NewRepository(st, notify.New())
	if got := len(plain.Artists()); got != wantArtists {
		t.Errorf("unseeded repo sees %d artists, want %d", got, wantArtists)
	}
	if got := len(plain.Tracks()); got != wantTracks {
		t.Errorf("unseeded repo sees %d tracks, want %d", got, wantTracks)
	}
}

func TestRepository_SurvivesReload(t *testing.T) {
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer st.Close()

	r := NewRepository(st, notify.New())
	r.SaveArtist(Artist{Name: "X"})
	r.SaveTrack(Track{Title: "Y", Artist: "A001", Status: TrackPublished})

	// A second repository over the same store sees the persisted state.
	r2 := NewRepository(st, notify.New())
	track, ok := r2.Track("T001")
	if !ok {
		t.Fatal("track not visible through second repository")
	}
	if track.ArtistName != "X" || !track.Published() {
		t.Errorf("reloaded track = %+v, want persisted fields intact", track)
	}
}

func TestMutation_RereadsStoreBeforeMerge(t *testing.T) {
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer st.Close()

	first := NewRepository(st, notify.New())
	if _, err := first.SaveArtist(Artist{Name: "First"}); err != nil {
		t.Fatalf("SaveArtist failed: %v", err)
	}

	// A second repository that never saw the first write merges on top of
	// the persisted state instead of clobbering it.
	second := NewRepository(st, notify.New())
	a, err := second.SaveArtist(Artist{Name: "Second"})
	if err != nil {
		t.Fatalf("SaveArtist failed: %v", err)
	}
	if a.ID != "A002" {
		t.Errorf("id after re-read = %q, want A002", a.ID)
	}
	if got := len(second.Artists()); got != 2 {
		t.Errorf("artists after merge = %d, want 2", got)
	}
}

func TestMutation_FailedPersistStillServedFromMemory(t *testing.T) {
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}

	r := NewRepository(st, notify.New())
	r.Artists() // prime the collections while the store is reachable
	st.Close()

	a, err := r.SaveArtist(Artist{Name: "Ghost"})
	if err == nil {
		t.Fatal("SaveArtist on closed store should fail to persist")
	}

	got, ok := r.Artist(a.ID)
	if !ok {
		t.Fatal("unpersisted mutation should stay readable in this session")
	}
	if got.Name != "Ghost" {
		t.Errorf("artist = %+v, want the in-memory mutation", got)
	}
}
