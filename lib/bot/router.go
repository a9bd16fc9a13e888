// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/catalog"
	"github.com/bureau-foundation/stockroom/lib/command"
	"github.com/bureau-foundation/stockroom/lib/conversation"
	"github.com/bureau-foundation/stockroom/lib/imagestore"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// maxSearchResults bounds the buttons returned by /find.
const maxSearchResults = 10

// ImageStore holds product photos.
type ImageStore interface {
	Get(product string) ([]byte, error)
	Put(product string, data []byte) (imagestore.PutResult, error)
}

// Config holds the router's collaborators. All fields except Logger
// and BotUsername are required.
type Config struct {
	Ledger        *inventory.Ledger
	Registry      *authorization.Registry
	Conversations *conversation.Store
	Catalog       *catalog.Catalog
	Images        ImageStore

	// BotUsername is the bot's own username. Commands addressed to a
	// different bot ("/start@other_bot") are ignored. Empty accepts
	// every addressed command.
	BotUsername string

	Logger *slog.Logger
}

// Router turns events into responses. Safe for concurrent use; each
// collaborator serializes its own mutations.
type Router struct {
	ledger        *inventory.Ledger
	registry      *authorization.Registry
	conversations *conversation.Store
	catalog       *catalog.Catalog
	images        ImageStore
	botUsername   string
	logger        *slog.Logger
}

// NewRouter validates config and returns a Router.
func NewRouter(config Config) (*Router, error) {
	switch {
	case config.Ledger == nil:
		return nil, fmt.Errorf("bot: Ledger is required")
	case config.Registry == nil:
		return nil, fmt.Errorf("bot: Registry is required")
	case config.Conversations == nil:
		return nil, fmt.Errorf("bot: Conversations is required")
	case config.Catalog == nil:
		return nil, fmt.Errorf("bot: Catalog is required")
	case config.Images == nil:
		return nil, fmt.Errorf("bot: Images is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{
		ledger:        config.Ledger,
		registry:      config.Registry,
		conversations: config.Conversations,
		catalog:       config.Catalog,
		images:        config.Images,
		botUsername:   config.BotUsername,
		logger:        logger,
	}, nil
}

// request carries per-event state through the handlers.
type request struct {
	event  Event
	logger *slog.Logger
}

// Handle processes one event. Bad input yields a Response with Err
// set, never a panic.
func (r *Router) Handle(ctx context.Context, event Event) Response {
	requestID := uuid.NewString()
	req := &request{
		event: event,
		logger: r.logger.With(
			"request_id", requestID,
			"operator", event.Operator,
			"event", event.Kind,
		),
	}

	started := time.Now()
	var response Response
	switch event.Kind {
	case EventSelection:
		response = r.handleSelection(ctx, req)
	case EventMessage:
		response = r.handleMessage(ctx, req)
	default:
		response = Response{Err: fmt.Errorf("bot: unknown event kind %d", int(event.Kind))}
	}
	response.RequestID = requestID

	level := slog.LevelDebug
	if Classify(response.Err) == OutcomeFailure {
		level = slog.LevelError
	}
	req.logger.Log(ctx, level, "event handled",
		"outcome", response.Outcome(),
		"replies", len(response.Replies),
		"duration", time.Since(started),
	)
	return response
}

func (r *Router) handleMessage(ctx context.Context, req *request) Response {
	invocation, ok := command.ParseInvocation(req.event.Text)
	if !ok {
		return r.handleFollowUp(ctx, req)
	}
	if r.botUsername != "" && !invocation.AddressedTo(r.botUsername) {
		return Response{}
	}
	req.logger = req.logger.With("command", invocation.Name)

	switch invocation.Name {
	case command.Start:
		return r.start(req)
	case command.Add, command.Sell:
		return r.adjust(ctx, req, invocation)
	case command.UpdateImage:
		return r.updateImage(ctx, req, invocation)
	case command.Cancel:
		return r.cancel(req)
	case command.Find:
		return r.find(invocation)
	case command.Stock:
		return r.stock(req)
	case command.Operators:
		return r.operators(req)
	default:
		// Unknown commands are left unanswered so the bot can share a
		// group with other bots.
		return Response{}
	}
}

// authorize returns a denial response when the event's operator is
// not in the registry.
func (r *Router) authorize(req *request) (Response, bool) {
	if err := r.registry.Authorize(req.event.Operator); err != nil {
		req.logger.Info("request denied")
		return Response{Replies: []Reply{text(textPermissionDenied)}, Err: err}, false
	}
	return Response{}, true
}

func (r *Router) start(req *request) Response {
	var replies []Reply
	if r.registry.IsAuthorized(req.event.Operator) {
		replies = append(replies, Reply{
			Kind: ReplyText,
			Text: textAdminControls,
			Buttons: [][]Button{
				{selectionButton(textGrantButton, command.Selection{Kind: command.BeginGrant})},
				{selectionButton(textRevokeButton, command.Selection{Kind: command.BeginRevoke})},
			},
		})
	}

	categories := r.catalog.Categories()
	rows := make([][]Button, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, []Button{selectionButton(category, command.CategorySelection(category))})
	}
	replies = append(replies, Reply{Kind: ReplyText, Text: textWelcome, Buttons: rows})
	return Response{Replies: replies}
}

func (r *Router) adjust(ctx context.Context, req *request, invocation command.Invocation) Response {
	if denied, ok := r.authorize(req); !ok {
		return denied
	}

	adjustment, err := command.ParseAdjustment(invocation.Name, invocation.Arguments)
	if err != nil {
		return malformedResponse(err)
	}

	total, err := r.ledger.Adjust(ctx, adjustment.Product, adjustment.Delta(invocation.Name))
	var insufficient *inventory.InsufficientStockError
	switch {
	case err == nil:
	case errors.As(err, &insufficient):
		return Response{Replies: []Reply{text(insufficientText(insufficient))}, Err: err}
	case errors.Is(err, inventory.ErrQuantityOverflow):
		return malformedResponse(&command.MalformedRequestError{
			Command: invocation.Name,
			Reason:  "the resulting quantity is too large",
			Example: command.Example(invocation.Name),
		})
	default:
		return failureResponse(err)
	}

	if invocation.Name == command.Sell {
		return Response{Replies: []Reply{text(soldText(adjustment.Product, adjustment.Quantity, total))}}
	}
	return Response{Replies: []Reply{text(addedText(adjustment.Product, adjustment.Quantity, total))}}
}

func (r *Router) updateImage(ctx context.Context, req *request, invocation command.Invocation) Response {
	if denied, ok := r.authorize(req); !ok {
		return denied
	}

	product, err := command.ParseProductArgument(invocation.Name, invocation.Arguments)
	if err != nil {
		return malformedResponse(err)
	}
	if req.event.Attachment == nil {
		return malformedResponse(&command.MalformedRequestError{
			Command: invocation.Name,
			Reason:  "no photo attached",
			Example: command.Example(invocation.Name),
		})
	}

	data, err := req.event.Attachment.Fetch(ctx)
	if err != nil {
		return failureResponse(fmt.Errorf("bot: fetching photo: %w", err))
	}
	result, err := r.images.Put(product, data)
	if errors.Is(err, imagestore.ErrInvalidName) {
		return malformedResponse(&command.MalformedRequestError{
			Command: invocation.Name,
			Reason:  "the product name cannot be used for an image",
			Example: command.Example(invocation.Name),
		})
	}
	if err != nil {
		return failureResponse(err)
	}

	req.logger.Info("product image stored",
		"product", product,
		"digest", result.Digest.String(),
		"size", result.Size,
		"unchanged", result.Unchanged,
	)
	return Response{Replies: []Reply{text(imageStoredText(product, result.Unchanged))}}
}

func (r *Router) cancel(req *request) Response {
	if denied, ok := r.authorize(req); !ok {
		return denied
	}
	pending, exists := r.conversations.Peek(req.event.Operator)
	if !exists {
		return Response{Replies: []Reply{text(textNothingToCancel)}}
	}
	r.conversations.ResolveIf(req.event.Operator, pending)
	req.logger.Info("admin action cancelled", "action", pending.Action)
	return Response{Replies: []Reply{text(cancelledText(pending.Action))}}
}

func (r *Router) find(invocation command.Invocation) Response {
	query, err := command.ParseSearch(invocation.Arguments)
	if err != nil {
		return malformedResponse(err)
	}

	ledgerProducts := make([]string, 0, r.ledger.Len())
	for _, entry := range r.ledger.Snapshot() {
		ledgerProducts = append(ledgerProducts, entry.Product)
	}

	var rows [][]Button
	for _, match := range r.catalog.Search(query, ledgerProducts, maxSearchResults) {
		selection := command.ProductSelection(match.Product)
		if command.CheckSelectionSize(selection) != nil {
			continue
		}
		rows = append(rows, []Button{selectionButton(match.Product, selection)})
	}
	return Response{Replies: []Reply{{Kind: ReplyText, Text: searchResultsText(query, len(rows)), Buttons: rows}}}
}

func (r *Router) stock(req *request) Response {
	if denied, ok := r.authorize(req); !ok {
		return denied
	}
	return Response{Replies: []Reply{text(stockListText(r.ledger.Snapshot()))}}
}

func (r *Router) operators(req *request) Response {
	if denied, ok := r.authorize(req); !ok {
		return denied
	}
	return Response{Replies: []Reply{text(operatorListText(r.registry.Members()))}}
}

func (r *Router) handleSelection(ctx context.Context, req *request) Response {
	selection, err := command.ParseSelection(req.event.Selection)
	if err != nil {
		// Stale or foreign buttons are acknowledged without a reply.
		return Response{Err: err}
	}
	req.logger = req.logger.With("selection", selection.Kind)

	switch selection.Kind {
	case command.SelectCategory:
		products, exists := r.catalog.Products(selection.Value)
		if !exists {
			return Response{
				Replies: []Reply{{Kind: ReplyEdit, Text: textUnknownCategory}},
				Err:     &command.MalformedRequestError{Command: "selection", Reason: fmt.Sprintf("unknown category %q", selection.Value)},
			}
		}
		rows := make([][]Button, 0, len(products))
		for _, product := range products {
			rows = append(rows, []Button{selectionButton(product, command.ProductSelection(product))})
		}
		return Response{Replies: []Reply{{Kind: ReplyEdit, Text: categoryTitle(selection.Value), Buttons: rows}}}

	case command.SelectProduct:
		return r.showProduct(req, selection.Value)

	case command.BeginGrant:
		return r.beginAdminAction(req, conversation.Grant)

	case command.BeginRevoke:
		return r.beginAdminAction(req, conversation.Revoke)

	default:
		return Response{Err: fmt.Errorf("bot: unhandled selection %s", selection.Kind)}
	}
}

func (r *Router) showProduct(req *request, product string) Response {
	card := productCard(product, r.ledger.QuantityOf(product))

	image, err := r.images.Get(product)
	switch {
	case err == nil:
		return Response{Replies: []Reply{{Kind: ReplyPhoto, Text: card, Image: image}}}
	case errors.Is(err, imagestore.ErrNotFound), errors.Is(err, imagestore.ErrInvalidName):
	default:
		req.logger.Warn("product image unavailable", "product", product, "error", err)
	}
	return Response{Replies: []Reply{text(card)}}
}

func text(message string) Reply {
	return Reply{Kind: ReplyText, Text: message}
}

func selectionButton(label string, selection command.Selection) Button {
	return Button{Text: label, Selection: selection.Encode()}
}

func malformedResponse(err error) Response {
	var malformed *command.MalformedRequestError
	if errors.As(err, &malformed) {
		return Response{Replies: []Reply{text(malformedText(malformed))}, Err: err}
	}
	return Response{Err: err}
}

func failureResponse(err error) Response {
	return Response{Replies: []Reply{text(textFailure)}, Err: err}
}
