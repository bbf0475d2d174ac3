// Package ui provides [lipgloss] styles for CLI output: headers, statuses,
// and rendered track listings.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/musicai/internal/models"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders a section header.
func Title(text string) string {
	return styles.title.Render(text)
}

// OK renders a success marker line.
func OK(format string, args ...any) string {
	return styles.ok.Render("✓ " + fmt.Sprintf(format, args...))
}

// Warn renders a warning line.
func Warn(format string, args ...any) string {
	return styles.warn.Render("⚠ " + fmt.Sprintf(format, args...))
}

// Err renders a failure line.
func Err(format string, args ...any) string {
	return styles.err.Render("✗ " + fmt.Sprintf(format, args...))
}

// Help renders secondary help text.
func Help(text string) string {
	return styles.help.Render(text)
}

// TrackList renders a numbered track listing with artist and title per line.
func TrackList(tracks []models.Track) string {
	var b strings.Builder

	for i, track := range tracks {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, track.Artist, track.Title)
		if track.ExternalURL != "" {
			fmt.Fprintf(&b, "   %s\n", styles.help.Render(track.ExternalURL))
		}
	}

	return b.String()
}
