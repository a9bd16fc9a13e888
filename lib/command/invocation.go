// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"
	"unicode"
)

// Command names understood by the bot.
const (
	Start       = "start"
	Add         = "add"
	Sell        = "sell"
	UpdateImage = "update_image"
	Cancel      = "cancel"
	Find        = "find"
	Stock       = "stock"
	Operators   = "operators"
)

// OperatorIDRequest is the request kind used in errors for admin
// follow-up input.
const OperatorIDRequest = "operator id"

// maxCommandNameLength is the chat transport's limit on command names.
const maxCommandNameLength = 32

var examples = map[string]string{
	Add:               "/add T-shirt - 5",
	Sell:              "/sell T-shirt - 2",
	UpdateImage:       "send a photo with the caption /update_image Formal",
	Find:              "/find neck",
	OperatorIDRequest: "123456789",
}

// Example returns a well-formed request for command, or "" when the
// command takes no arguments.
func Example(command string) string {
	return examples[command]
}

// Invocation is a parsed "/name@bot arguments" message.
type Invocation struct {
	// Name is the command name, lower-cased, without the slash.
	Name string

	// Mention is the bot username after "@", or "" when the command
	// was not addressed to a specific bot.
	Mention string

	// Arguments is the rest of the message with surrounding whitespace
	// removed.
	Arguments string
}

// ParseInvocation recognizes text that starts with a command. It
// returns false for anything else, including a bare "/" and names
// containing characters outside [a-z0-9_].
func ParseInvocation(text string) (Invocation, bool) {
	trimmed := strings.TrimLeft(text, " \t")
	if !strings.HasPrefix(trimmed, "/") {
		return Invocation{}, false
	}
	trimmed = trimmed[1:]

	head, arguments := trimmed, ""
	if end := strings.IndexFunc(trimmed, unicode.IsSpace); end >= 0 {
		head, arguments = trimmed[:end], trimmed[end:]
	}
	name, mention, _ := strings.Cut(head, "@")
	name = strings.ToLower(name)
	if !validCommandName(name) {
		return Invocation{}, false
	}

	return Invocation{
		Name:      name,
		Mention:   mention,
		Arguments: strings.TrimSpace(arguments),
	}, true
}

// AddressedTo reports whether the invocation is meant for the bot with
// the given username. Unaddressed commands are meant for every bot.
func (i Invocation) AddressedTo(botUsername string) bool {
	return i.Mention == "" || strings.EqualFold(i.Mention, botUsername)
}

func validCommandName(name string) bool {
	if name == "" || len(name) > maxCommandNameLength {
		return false
	}
	for _, character := range name {
		switch {
		case character >= 'a' && character <= 'z':
		case character >= '0' && character <= '9':
		case character == '_':
		default:
			return false
		}
	}
	return true
}
