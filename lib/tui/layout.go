// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// FitLine truncates or pads a possibly styled line to exactly width
// display cells. Escape sequences do not count toward the width.
func FitLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	visible := ansi.StringWidth(line)
	if visible > width {
		return ansi.Truncate(line, width, "…")
	}
	return line + strings.Repeat(" ", width-visible)
}

// Wrap hard-wraps styled text to width, keeping escape sequences
// intact, and returns the resulting lines.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	return strings.Split(ansi.Wrap(text, width, ""), "\n")
}

func formatQuantity(quantity int64) string {
	return strconv.FormatInt(quantity, 10) + " pcs"
}
