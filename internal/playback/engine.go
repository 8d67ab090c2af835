// Package playback implements the play-queue state machine over the
// catalog: cursor movement, shuffle and repeat modes, like/stream
// write-backs and reaction to catalog changes.
package playback

import (
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tverdon/backline/internal/catalog"
	"github.com/tverdon/backline/internal/media"
	"github.com/tverdon/backline/internal/notify"
)

// previousRestartThreshold: beyond this position, Previous restarts the
// current track instead of moving to the previous one.
const previousRestartThreshold = 3 * time.Second

// Engine owns the ordered play queue derived from the repository's
// published tracks, the cursor, shuffle/repeat modes and the media element.
//
// Counter write-backs (streams, likes) are fire-and-forget: failures are
// logged and never interrupt playback.
type Engine struct {
	mu sync.Mutex

	repo  *catalog.Repository
	media media.Element

	queue    *Queue
	playing  bool
	shuffled bool
	repeat   RepeatMode
	volume   float64
	liked    map[string]bool

	rng         *rand.Rand
	unsubscribe func()

	// loadSeq makes the last load win over any earlier pending play.
	loadSeq uint64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRand sets the random source used by shuffle. Used by tests.
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) { e.rng = rng }
}

// WithVolume sets the initial volume level.
func WithVolume(level float64) EngineOption {
	return func(e *Engine) { e.volume = level }
}

// NewEngine builds an engine over the repository and media element and
// subscribes it to catalog change notifications. The queue is populated
// from the current published tracks; nothing plays until Play or Next.
func NewEngine(repo *catalog.Repository, el media.Element, bus *notify.Broadcaster, opts ...EngineOption) *Engine {
	e := &Engine{
		repo:   repo,
		media:  el,
		queue:  NewQueue(),
		repeat: RepeatOff,
		volume: 1.0,
		liked:  make(map[string]bool),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}

	el.OnEnded(e.onTrackEnded)
	el.SetVolume(e.volume)

	e.mu.Lock()
	e.rebuildLocked()
	e.mu.Unlock()

	if bus != nil {
		e.unsubscribe = bus.Subscribe(func(notify.Event) { e.onCatalogChanged() })
	}
	return e
}

// Close detaches the engine from change notifications.
func (e *Engine) Close() error {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	return e.media.Close()
}

// Load binds the queue entry at index to the media element without starting
// playback. Out-of-range indexes are clamped; an empty queue is a no-op.
func (e *Engine) Load(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadLocked(index)
}

func (e *Engine) loadLocked(index int) {
	if e.queue.IsEmpty() {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= e.queue.Len() {
		index = e.queue.Len() - 1
	}

	e.queue.MoveTo(index)
	t := e.queue.Current()
	e.loadSeq++
	e.media.SetSource(t.AudioURL)
	e.playing = false
}

// Play starts playback of the loaded track. A start failure (bad source,
// output device) reloads the current index without advancing.
func (e *Engine) Play() error {
	e.mu.Lock()
	if e.queue.IsEmpty() {
		e.mu.Unlock()
		return nil
	}
	seq := e.loadSeq
	cursor := e.queue.Cursor()
	el := e.media
	e.mu.Unlock()

	err := el.Play()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loadSeq != seq {
		// A later load superseded this play; its outcome no longer matters.
		return nil
	}
	if err != nil {
		log.Error("starting playback", "cursor", cursor, "err", err)
		e.loadLocked(cursor)
		return err
	}
	e.playing = true
	return nil
}

// Pause stops playback without moving the cursor.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.playing = false
	el := e.media
	e.mu.Unlock()
	el.Pause()
}

// Toggle plays when paused and pauses when playing.
func (e *Engine) Toggle() error {
	e.mu.Lock()
	playing := e.playing
	e.mu.Unlock()

	if playing {
		e.Pause()
		return nil
	}
	return e.Play()
}

// Playing reports whether the engine considers itself playing.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Next moves to the next track and plays it. With shuffle on (and repeat
// not set to one) the next index is uniformly random, never the current one
// when more than one track is queued.
func (e *Engine) Next() error {
	e.mu.Lock()
	if e.queue.IsEmpty() {
		e.mu.Unlock()
		return nil
	}
	e.loadLocked(e.nextIndexLocked())
	e.mu.Unlock()
	return e.Play()
}

func (e *Engine) nextIndexLocked() int {
	if e.shuffled && e.repeat != RepeatOne && e.queue.Len() > 1 {
		return e.randomOtherIndexLocked()
	}
	return (e.queue.Cursor() + 1) % e.queue.Len()
}

func (e *Engine) randomOtherIndexLocked() int {
	for {
		i := e.rng.Intn(e.queue.Len())
		if i != e.queue.Cursor() {
			return i
		}
	}
}

// Previous restarts the current track when more than three seconds in;
// otherwise it moves to the previous track (random when shuffled) and
// plays it.
func (e *Engine) Previous() error {
	e.mu.Lock()
	if e.queue.IsEmpty() {
		e.mu.Unlock()
		return nil
	}

	if e.media.Position() > previousRestartThreshold {
		e.media.SetPosition(0)
		e.mu.Unlock()
		return nil
	}

	if e.shuffled && e.queue.Len() > 1 {
		e.loadLocked(e.randomOtherIndexLocked())
	} else {
		e.loadLocked((e.queue.Cursor() - 1 + e.queue.Len()) % e.queue.Len())
	}
	e.mu.Unlock()
	return e.Play()
}

// onTrackEnded advances playback according to the repeat mode and records
// one stream for the track that finished.
func (e *Engine) onTrackEnded() {
	e.mu.Lock()
	current := e.queue.Current()
	if current == nil {
		e.mu.Unlock()
		return
	}
	endedID := current.ID
	repeat := e.repeat
	last := e.queue.Cursor() == e.queue.Len()-1
	e.mu.Unlock()

	e.recordStream(endedID)

	switch {
	case repeat == RepeatOne:
		// The stream write-back may have rebuilt the queue; the cursor
		// followed the track, so reload whatever it points at now.
		e.mu.Lock()
		e.loadLocked(e.queue.Cursor())
		e.mu.Unlock()
		if err := e.Play(); err != nil {
			log.Error("restarting track", "track", endedID, "err", err)
		}
	case repeat == RepeatAll || !last:
		if err := e.Next(); err != nil {
			log.Error("advancing after track end", "err", err)
		}
	default:
		// End of queue with repeat off: stop, rewind, keep the cursor.
		e.mu.Lock()
		e.playing = false
		e.mu.Unlock()
		e.media.Pause()
		e.media.SetPosition(0)
	}
}

// recordStream increments the original track's stream counter.
// Fire-and-forget: a save failure is logged only.
func (e *Engine) recordStream(trackID string) {
	t, ok := e.repo.Track(trackID)
	if !ok {
		return
	}
	t.Streams++
	if _, err := e.repo.SaveTrack(t); err != nil {
		log.Error("recording stream", "track", trackID, "err", err)
	}
}

// ToggleShuffle flips shuffle mode. Enabling snapshots the current order
// and shuffles in place; disabling restores it. The cursor keeps pointing
// at the same logical track either way.
func (e *Engine) ToggleShuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.shuffled = !e.shuffled
	if e.shuffled {
		e.queue.Shuffle(e.rng)
	} else {
		e.queue.Unshuffle()
	}
	return e.shuffled
}

// Shuffled reports whether shuffle mode is on.
func (e *Engine) Shuffled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shuffled
}

// CycleRepeat advances the repeat mode: off -> all -> one -> off.
func (e *Engine) CycleRepeat() RepeatMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeat = e.repeat.Cycle()
	return e.repeat
}

// Repeat returns the current repeat mode.
func (e *Engine) Repeat() RepeatMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repeat
}

// SetRepeat sets the repeat mode directly.
func (e *Engine) SetRepeat(m RepeatMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeat = m
}

// ToggleLike flips the transient liked flag for the track and writes the
// like count back to the original repository record. Fire-and-forget.
func (e *Engine) ToggleLike(trackID string) {
	e.mu.Lock()
	nowLiked := !e.liked[trackID]
	e.liked[trackID] = nowLiked
	e.mu.Unlock()

	t, ok := e.repo.Track(trackID)
	if !ok {
		return
	}
	if nowLiked {
		t.Likes++
	} else {
		t.Likes = max(0, t.Likes-1)
	}
	if _, err := e.repo.SaveTrack(t); err != nil {
		log.Error("saving like", "track", trackID, "err", err)
	}
}

// Liked reports the transient liked flag for the track.
func (e *Engine) Liked(trackID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.liked[trackID]
}

// SetVolume sets the output level, clamped to [0, 1].
func (e *Engine) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	e.mu.Lock()
	e.volume = level
	el := e.media
	e.mu.Unlock()
	el.SetVolume(level)
}

// Volume returns the engine's volume level.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Seek moves the play position to fraction of the media duration.
// Ignored while the duration is unknown.
func (e *Engine) Seek(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	dur := e.media.Duration()
	if dur <= 0 {
		return
	}
	e.media.SetPosition(time.Duration(fraction * float64(dur)))
}

// Position returns the current media position.
func (e *Engine) Position() time.Duration {
	return e.media.Position()
}

// Duration returns the current media duration (0 while unknown).
func (e *Engine) Duration() time.Duration {
	return e.media.Duration()
}

// Current returns a copy of the track under the cursor.
func (e *Engine) Current() (catalog.Track, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.queue.Current()
	if t == nil {
		return catalog.Track{}, false
	}
	return *t, true
}

// Cursor returns the queue cursor (-1 when empty).
func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Cursor()
}

// QueueTracks returns a copy of the queue in play order.
func (e *Engine) QueueTracks() []catalog.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Tracks()
}

// QueueLen returns the queue length.
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

// PlayIndex loads the queue entry at index and plays it.
func (e *Engine) PlayIndex(index int) error {
	e.mu.Lock()
	if e.queue.IsEmpty() {
		e.mu.Unlock()
		return nil
	}
	e.loadLocked(index)
	e.mu.Unlock()
	return e.Play()
}

// onCatalogChanged rebuilds the queue from the repository's published
// tracks. When the cursor would run past the new queue, it resets to 0 and
// the first track is loaded without auto-playing.
func (e *Engine) onCatalogChanged() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuildLocked()
}

func (e *Engine) rebuildLocked() {
	var prevID string
	if c := e.queue.Current(); c != nil {
		prevID = c.ID
	}

	e.queue.Replace(e.repo.PublishedTracks())
	if e.shuffled {
		e.queue.Shuffle(e.rng)
	}

	if e.queue.IsEmpty() {
		e.playing = false
		return
	}

	if c := e.queue.Current(); c != nil && c.ID == prevID {
		// The current track survived the change; keep its media binding.
		return
	}

	// Current track gone (or first build): bind the head of the queue
	// without auto-playing.
	e.loadLocked(0)
}
