package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tverdon/backline/internal/playback"
)

// BarState holds everything needed to render the player bar.
type BarState struct {
	HasTrack bool
	Playing  bool
	Title    string
	Artist   string
	Position time.Duration
	Duration time.Duration
	Shuffled bool
	Repeat   playback.RepeatMode
	Liked    bool
	Volume   float64
}

const minBarWidth = 5

// renderPlayerBar renders the single-line player bar.
// Layout: ▶ Title · Artist   ▓▓▓░░░   1:23 / 3:58   [shuffle] [repeat]
func renderPlayerBar(s BarState, width int) string {
	innerWidth := max(width-6, 0)
	if !s.HasTrack {
		return panelStyle.Padding(0, 2).Width(width - 2).Render(metaStyle.Render("nothing queued"))
	}

	status := "⏸"
	if s.Playing {
		status = "▶"
	}

	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}
	track := title
	if s.Artist != "" {
		track += " · " + s.Artist
	}

	var modes []string
	if s.Shuffled {
		modes = append(modes, "shuffle")
	}
	if s.Repeat != playback.RepeatOff {
		modes = append(modes, "repeat "+s.Repeat.String())
	}
	if s.Liked {
		modes = append(modes, likedStyle.Render("♥"))
	}
	modes = append(modes, fmt.Sprintf("vol %d%%", int(s.Volume*100)))
	modeStr := strings.Join(modes, "  ")

	timeStr := fmt.Sprintf("%s / %s", formatDuration(s.Position), formatDuration(s.Duration))

	separator := "   "
	fixed := lipgloss.Width(status+"  ") + lipgloss.Width(timeStr) +
		lipgloss.Width(modeStr) + lipgloss.Width(separator)*3

	maxTrack := innerWidth - fixed - minBarWidth
	track = truncate(track, max(maxTrack, 10))

	barWidth := max(innerWidth-fixed-lipgloss.Width(track), minBarWidth)
	var ratio float64
	if s.Duration > 0 {
		ratio = float64(s.Position) / float64(s.Duration)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)
	bar := strings.Repeat("▓", filled) + strings.Repeat("░", barWidth-filled)

	var content strings.Builder
	content.WriteString(status)
	content.WriteString("  ")
	content.WriteString(titleStyle.Render(track))
	content.WriteString(separator)
	content.WriteString(bar)
	content.WriteString(separator)
	content.WriteString(metaStyle.Render(timeStr))
	content.WriteString(separator)
	content.WriteString(metaStyle.Render(modeStr))

	return panelStyle.Padding(0, 2).Width(width - 2).Render(content.String())
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func truncate(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
