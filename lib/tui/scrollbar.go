// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar draws a one-column scrollbar height rows tall for a
// transcript of total lines of which visible are shown starting at
// offset. The thumb fills the track when everything fits.
func RenderScrollbar(theme Theme, height, total, visible, offset int) string {
	if height <= 0 {
		return ""
	}
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumb := lipgloss.NewStyle().Foreground(theme.Accent).Render("┃")

	lines := make([]string, height)
	if total <= visible || total <= 0 {
		for index := range lines {
			lines[index] = thumb
		}
		return strings.Join(lines, "\n")
	}

	size := max(1, height*visible/total)
	position := 0
	if scrollable, room := total-visible, height-size; scrollable > 0 && room > 0 {
		position = min(offset, scrollable) * room / scrollable
	}

	for index := range lines {
		if index >= position && index < position+size {
			lines[index] = thumb
		} else {
			lines[index] = track
		}
	}
	return strings.Join(lines, "\n")
}
