// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// Theme is the console palette, in ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Operator input echoed into the transcript.
	OperatorText lipgloss.Color

	// Buttons; the selected one is inverted.
	ButtonForeground   lipgloss.Color
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Stock status.
	StatusPlentiful  lipgloss.Color
	StatusLow        lipgloss.Color
	StatusOutOfStock lipgloss.Color

	ErrorText        lipgloss.Color
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	Accent           lipgloss.Color
}

// StatusColor returns the color for a stock status.
func (theme Theme) StatusColor(status inventory.Status) lipgloss.Color {
	switch status {
	case inventory.Plentiful:
		return theme.StatusPlentiful
	case inventory.Low:
		return theme.StatusLow
	default:
		return theme.StatusOutOfStock
	}
}

// StatusBadge renders quantity with its status, e.g. "12 pcs plentiful".
func (theme Theme) StatusBadge(quantity int64) string {
	status := inventory.StatusOf(quantity)
	return lipgloss.NewStyle().
		Foreground(theme.StatusColor(status)).
		Render(formatQuantity(quantity) + " " + status.String())
}

// DefaultTheme suits a dark 256-color terminal.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	OperatorText: lipgloss.Color("75"),

	ButtonForeground:   lipgloss.Color("252"),
	SelectedBackground: lipgloss.Color("220"),
	SelectedForeground: lipgloss.Color("232"),

	StatusPlentiful:  lipgloss.Color("114"),
	StatusLow:        lipgloss.Color("208"),
	StatusOutOfStock: lipgloss.Color("196"),

	ErrorText:        lipgloss.Color("196"),
	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	Accent:           lipgloss.Color("220"),
}
