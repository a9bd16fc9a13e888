// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/command"
	"github.com/bureau-foundation/stockroom/lib/conversation"
)

// beginAdminAction moves an authorized operator into the awaiting
// state for action, replacing any action already pending.
func (r *Router) beginAdminAction(req *request, action conversation.Action) Response {
	if err := r.registry.Authorize(req.event.Operator); err != nil {
		req.logger.Info("admin action denied", "action", action)
		return Response{Replies: []Reply{{Kind: ReplyEdit, Text: textPermissionDenied}}, Err: err}
	}

	previous, replaced := r.conversations.Peek(req.event.Operator)
	r.conversations.Begin(req.event.Operator, action)
	if replaced {
		req.logger.Info("admin action begun", "action", action, "replaced", previous.Action)
	} else {
		req.logger.Info("admin action begun", "action", action)
	}
	return Response{Replies: []Reply{text(promptText(action))}}
}

// handleFollowUp interprets free text. It only ever answers an
// authorized operator with a pending admin action; everything else is
// dropped without a reply.
func (r *Router) handleFollowUp(ctx context.Context, req *request) Response {
	operator := req.event.Operator
	pending, exists := r.conversations.Peek(operator)
	if !exists {
		return Response{}
	}
	if err := r.registry.Authorize(operator); err != nil {
		req.logger.Info("follow-up from unauthorized operator dropped", "action", pending.Action)
		return Response{Err: err}
	}

	target, err := command.ParseOperatorID(req.event.Text)
	if err != nil {
		req.logger.Info("follow-up is not an operator id", "action", pending.Action)
		return Response{Replies: []Reply{text(invalidOperatorIDText(pending.Action))}, Err: err}
	}

	var reply string
	switch pending.Action {
	case conversation.Grant:
		outcome, err := r.registry.Grant(ctx, target)
		if err != nil {
			return failureResponse(err)
		}
		reply = grantOutcomeText(target, outcome)
	case conversation.Revoke:
		outcome, err := r.registry.Revoke(ctx, target)
		if err != nil {
			return failureResponse(err)
		}
		reply = revokeOutcomeText(target, outcome)
	default:
		r.conversations.ResolveIf(operator, pending)
		return Response{Err: fmt.Errorf("bot: unknown pending action %d", int(pending.Action))}
	}

	r.conversations.ResolveIf(operator, pending)
	req.logger.Info("admin action completed", "action", pending.Action, "target", target)
	return Response{Replies: []Reply{text(reply)}}
}

func grantOutcomeText(target authorization.OperatorID, outcome authorization.GrantOutcome) string {
	if outcome == authorization.AlreadyPresent {
		return textAlreadyAdmin
	}
	return grantedText(target)
}

func revokeOutcomeText(target authorization.OperatorID, outcome authorization.RevokeOutcome) string {
	if outcome == authorization.NotPresent {
		return textNotAdmin
	}
	return revokedText(target)
}
