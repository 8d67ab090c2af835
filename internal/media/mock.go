package media

import "time"

// Verify both implementations satisfy Element at compile time.
var (
	_ Element = (*Speaker)(nil)
	_ Element = (*Mock)(nil)
)

// Mock is a test double for Element.
type Mock struct {
	source   string
	playing  bool
	position time.Duration
	duration time.Duration
	level    float64
	playErr  error

	sourceCalls []string
	playCalls   int
	pauseCalls  int
	seekCalls   []time.Duration

	onEnded      func()
	onMetadata   func()
	onTimeUpdate func(time.Duration)
}

// NewMock creates a mock element for testing.
func NewMock() *Mock {
	return &Mock{level: 1.0}
}

func (m *Mock) SetSource(url string) {
	m.source = url
	m.sourceCalls = append(m.sourceCalls, url)
	m.position = 0
	m.playing = false
}

func (m *Mock) Source() string { return m.source }

func (m *Mock) Play() error {
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() {
	m.pauseCalls++
	m.playing = false
}

func (m *Mock) Playing() bool { return m.playing }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) SetPosition(d time.Duration) {
	m.position = d
	m.seekCalls = append(m.seekCalls, d)
}

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	m.level = level
}

func (m *Mock) Volume() float64 { return m.level }

func (m *Mock) OnEnded(fn func()) { m.onEnded = fn }

func (m *Mock) OnMetadata(fn func()) { m.onMetadata = fn }

func (m *Mock) OnTimeUpdate(fn func(time.Duration)) { m.onTimeUpdate = fn }

func (m *Mock) Close() error { return nil }

// Test helpers

// SetPlayError makes subsequent Play calls fail with err.
func (m *Mock) SetPlayError(err error) { m.playErr = err }

// AdvanceTo moves the play position without recording a seek.
func (m *Mock) AdvanceTo(d time.Duration) { m.position = d }

// SetDuration sets the reported media duration.
func (m *Mock) SetDuration(d time.Duration) { m.duration = d }

// FireEnded invokes the registered ended callback.
func (m *Mock) FireEnded() {
	if m.onEnded != nil {
		m.onEnded()
	}
}

// SourceCalls returns every source bound so far.
func (m *Mock) SourceCalls() []string { return m.sourceCalls }

// PlayCalls returns the number of Play invocations.
func (m *Mock) PlayCalls() int { return m.playCalls }

// PauseCalls returns the number of Pause invocations.
func (m *Mock) PauseCalls() int { return m.pauseCalls }

// SeekCalls returns every explicit position set.
func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }
