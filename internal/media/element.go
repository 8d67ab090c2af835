// Package media abstracts the audio element driven by the playback engine.
package media

import "time"

// Element is the contract the playback engine drives.
//
// Duration is 0 until the source's metadata is known. Play can fail (bad
// source, output device); callers decide how to recover. Callbacks may be
// invoked from the audio goroutine.
type Element interface {
	// SetSource binds a new audio source URL and resets position.
	// Any current playback stops.
	SetSource(url string)
	Source() string

	Play() error
	Pause()
	Playing() bool

	Position() time.Duration
	SetPosition(d time.Duration)
	Duration() time.Duration

	// SetVolume sets the output level, clamped to [0, 1].
	SetVolume(level float64)
	Volume() float64

	// OnEnded registers fn to run when the current source plays to the end.
	OnEnded(fn func())
	// OnMetadata registers fn to run once the source's duration is known.
	OnMetadata(fn func())
	// OnTimeUpdate registers fn to run periodically with the play position.
	OnTimeUpdate(fn func(pos time.Duration))

	Close() error
}
