// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/command"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// EventKind distinguishes messages from button presses.
type EventKind int

const (
	EventMessage EventKind = iota + 1
	EventSelection
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventSelection:
		return "selection"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// ParseEventKind accepts "message" or "selection".
func ParseEventKind(name string) (EventKind, error) {
	switch name {
	case "message":
		return EventMessage, nil
	case "selection":
		return EventSelection, nil
	default:
		return 0, fmt.Errorf("unknown event kind %q", name)
	}
}

// Attachment is an image sent with a message. Fetch is called only
// when the router needs the bytes, after authorization.
type Attachment interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Bytes is an Attachment already held in memory.
type Bytes []byte

// Fetch returns b.
func (b Bytes) Fetch(context.Context) ([]byte, error) {
	return b, nil
}

// Event is one inbound interaction.
type Event struct {
	Kind     EventKind
	Operator authorization.OperatorID

	// Text is the message text, or the caption of a photo.
	Text string

	// Selection is the raw button payload for EventSelection.
	Selection string

	// Attachment is the photo sent with a message, or nil.
	Attachment Attachment
}

// ReplyKind says how the transport should render a Reply.
type ReplyKind int

const (
	// ReplyText sends a new text message.
	ReplyText ReplyKind = iota + 1
	// ReplyEdit replaces the message whose button was pressed, or
	// sends a new message when there is none.
	ReplyEdit
	// ReplyPhoto sends Image with Text as its caption.
	ReplyPhoto
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyText:
		return "text"
	case ReplyEdit:
		return "edit"
	case ReplyPhoto:
		return "photo"
	default:
		return fmt.Sprintf("ReplyKind(%d)", int(k))
	}
}

// Button is one inline keyboard button. Selection is the encoded
// payload sent back when it is pressed.
type Button struct {
	Text      string `cbor:"text" json:"text"`
	Selection string `cbor:"selection" json:"selection"`
}

// Reply is one outbound message.
type Reply struct {
	Kind    ReplyKind  `cbor:"kind" json:"kind"`
	Text    string     `cbor:"text" json:"text"`
	Buttons [][]Button `cbor:"buttons,omitempty" json:"buttons,omitempty"`
	Image   []byte     `cbor:"image,omitempty" json:"-"`
}

// Response is the router's answer to an Event. Replies may be empty:
// some events are deliberately left unanswered. Err classifies failed
// requests and is nil on success.
type Response struct {
	RequestID string
	Replies   []Reply
	Err       error
}

// Outcome names the class of r.Err for logs and the control socket.
func (r Response) Outcome() string {
	return Classify(r.Err)
}

// Outcome classes returned by Classify.
const (
	OutcomeOK                = "ok"
	OutcomeMalformed         = "malformed"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomePermissionDenied  = "permission_denied"
	OutcomeFailure           = "failure"
)

// Classify maps an error produced by the router to an outcome class.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, command.ErrMalformedRequest):
		return OutcomeMalformed
	case errors.Is(err, inventory.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, authorization.ErrPermissionDenied):
		return OutcomePermissionDenied
	default:
		return OutcomeFailure
	}
}
