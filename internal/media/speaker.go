package media

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

const timeUpdateInterval = 500 * time.Millisecond

var speakerInitialized bool

// Speaker is the beep-backed Element. Sources are MP3 URLs or local file
// paths; remote sources are fetched to a temp file before decoding so the
// stream is seekable.
type Speaker struct {
	mu sync.Mutex

	source   string
	file     *os.File
	tempPath string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	duration time.Duration
	playing  bool
	level    float64

	onEnded      func()
	onMetadata   func()
	onTimeUpdate func(time.Duration)

	stopTicker chan struct{}
}

// NewSpeaker creates an element with full volume and no source.
func NewSpeaker() *Speaker {
	return &Speaker{level: 1.0}
}

func (s *Speaker) SetSource(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.source = url
}

func (s *Speaker) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Play starts or resumes playback of the current source.
func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return fmt.Errorf("no source bound")
	}

	// Resume if the source is already decoded and merely paused.
	if s.streamer != nil {
		if s.ctrl != nil {
			speaker.Lock()
			s.ctrl.Paused = false
			speaker.Unlock()
		}
		s.playing = true
		return nil
	}

	path, temp, err := s.localize(s.source)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		s.discardTemp(temp)
		return err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		s.discardTemp(temp)
		return fmt.Errorf("decode %s: %w", s.source, err)
	}

	if !speakerInitialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			f.Close()
			s.discardTemp(temp)
			return err
		}
		speakerInitialized = true
	}

	s.file = f
	s.tempPath = temp
	s.streamer = streamer
	s.format = format
	s.duration = format.SampleRate.D(streamer.Len())
	s.ctrl = &beep.Ctrl{Streamer: streamer}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2, Volume: levelToVolume(s.level), Silent: s.level <= 0}
	s.playing = true

	src := s.source
	speaker.Play(beep.Seq(s.volume, beep.Callback(func() {
		s.finished(src)
	})))

	s.startTickerLocked()

	if s.onMetadata != nil {
		fn := s.onMetadata
		go fn()
	}
	return nil
}

func (s *Speaker) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Paused = true
		speaker.Unlock()
	}
	s.playing = false
}

func (s *Speaker) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Speaker) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := s.format.SampleRate.D(s.streamer.Position())
	speaker.Unlock()
	return pos
}

func (s *Speaker) SetPosition(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streamer == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	sample := s.format.SampleRate.N(d)
	if sample >= s.streamer.Len() {
		sample = s.streamer.Len() - 1
	}
	speaker.Lock()
	_ = s.streamer.Seek(sample)
	speaker.Unlock()
}

func (s *Speaker) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

func (s *Speaker) SetVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	s.level = level

	if s.volume != nil {
		speaker.Lock()
		s.volume.Volume = levelToVolume(level)
		s.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

func (s *Speaker) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *Speaker) OnEnded(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnded = fn
}

func (s *Speaker) OnMetadata(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMetadata = fn
}

func (s *Speaker) OnTimeUpdate(fn func(time.Duration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTimeUpdate = fn
}

func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}

// finished runs when the streamer drains. It is called from the audio loop
// while the speaker lock is held, so the work moves to a goroutine to avoid
// inverting the speaker/mutex lock order. A stale callback from a source
// that was replaced while draining is ignored.
func (s *Speaker) finished(src string) {
	go func() {
		s.mu.Lock()
		if s.source != src || s.streamer == nil {
			s.mu.Unlock()
			return
		}
		s.playing = false
		fn := s.onEnded
		s.mu.Unlock()

		if fn != nil {
			fn()
		}
	}()
}

// stopLocked tears down the current stream. Caller holds s.mu.
func (s *Speaker) stopLocked() {
	if s.stopTicker != nil {
		close(s.stopTicker)
		s.stopTicker = nil
	}
	if s.streamer != nil {
		speaker.Clear()
		s.streamer.Close()
		s.streamer = nil
	}
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	s.discardTemp(s.tempPath)
	s.tempPath = ""
	s.ctrl = nil
	s.volume = nil
	s.duration = 0
	s.playing = false
}

func (s *Speaker) startTickerLocked() {
	stop := make(chan struct{})
	s.stopTicker = stop

	go func() {
		ticker := time.NewTicker(timeUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				fn := s.onTimeUpdate
				playing := s.playing
				s.mu.Unlock()
				if fn != nil && playing {
					fn(s.Position())
				}
			}
		}
	}()
}

// localize returns a seekable local path for the source, fetching remote
// URLs to a temp file. The second return value is the temp path to delete,
// empty for local sources.
func (s *Speaker) localize(source string) (path, temp string, err error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return source, "", nil
	}

	resp, err := http.Get(source)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch %s: status %s", source, resp.Status)
	}

	f, err := os.CreateTemp("", "backline-*.mp3")
	if err != nil {
		return "", "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", "", fmt.Errorf("fetch %s: %w", source, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", "", err
	}
	return f.Name(), f.Name(), nil
}

func (s *Speaker) discardTemp(path string) {
	if path != "" {
		os.Remove(path)
	}
}

// levelToVolume converts a 0.0-1.0 level to beep's logarithmic volume.
// Volume = 0 means no change, -1 = half volume, -2 = quarter.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
