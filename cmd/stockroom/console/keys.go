// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package console

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the console key bindings.
type KeyMap struct {
	Submit key.Binding // Send the input, or press the selected button.

	NextButton     key.Binding
	PreviousButton key.Binding
	ClearSelection key.Binding

	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set. Letter keys always go to
// the input line, so scrolling uses arrows and page keys only.
var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send / press"),
	),
	NextButton: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next button"),
	),
	PreviousButton: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "previous button"),
	),
	ClearSelection: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "scroll down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("C-d", "page down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
