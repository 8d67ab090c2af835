package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const listOverhead = 7 // header + tabs + search line + status + player bar

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("backline"))
	b.WriteString(metaStyle.Render("  studio catalog"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n")

	b.WriteString(m.renderList())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	b.WriteString(renderPlayerBar(m.barState(), m.width))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(categories))
	for i, cat := range categories {
		if i == m.category {
			parts = append(parts, selectedStyle.Padding(0, 1).Render(cat))
		} else {
			parts = append(parts, metaStyle.Padding(0, 1).Render(cat))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderList() string {
	if len(m.visible) == 0 {
		return metaStyle.Render("  no tracks match")
	}

	height := m.listHeight()
	scroll := m.scrollOffset(height)

	var rows []string
	for i := scroll; i < len(m.visible) && i < scroll+height; i++ {
		rows = append(rows, m.renderRow(i))
	}
	return strings.Join(rows, "\n")
}

func (m Model) listHeight() int {
	return max(m.height-listOverhead, 1)
}

// scrollOffset clamps the stored offset so the cursor stays in the window,
// covering resizes between updates.
func (m Model) scrollOffset(height int) int {
	scroll := m.scroll
	if m.cursor < scroll {
		scroll = m.cursor
	}
	if m.cursor >= scroll+height {
		scroll = m.cursor - height + 1
	}
	return scroll
}

func (m Model) renderRow(i int) string {
	card := m.visible[i]

	prefix := "  "
	if current, ok := m.engine.Current(); ok && current.ID == card.Track.ID {
		prefix = "♪ "
	}
	if i == m.cursor {
		prefix = selectedStyle.Render("> ")
	}

	line := fmt.Sprintf("%s%s  %s", prefix,
		titleStyle.Render(truncate(card.Track.Title, 32)),
		artistStyle.Render(truncate(card.ArtistName, 24)))

	if card.Badge != nil {
		if style, ok := badgeStyles[card.Badge.Type]; ok {
			line += "  " + style.Render(card.Badge.Text)
		}
	}

	stats := fmt.Sprintf("%s streams · %s likes", card.Streams, card.Likes)
	if m.engine.Liked(card.Track.ID) {
		stats += " " + likedStyle.Render("♥")
	}
	line += "  " + metaStyle.Render(stats)
	return line
}

func (m Model) barState() BarState {
	current, ok := m.engine.Current()
	if !ok {
		return BarState{}
	}
	return BarState{
		HasTrack: true,
		Playing:  m.engine.Playing(),
		Title:    current.Title,
		Artist:   current.DisplayArtist(),
		Position: m.engine.Position(),
		Duration: m.engine.Duration(),
		Shuffled: m.engine.Shuffled(),
		Repeat:   m.engine.Repeat(),
		Liked:    m.engine.Liked(current.ID),
		Volume:   m.engine.Volume(),
	}
}
