// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/backup"
	"github.com/bureau-foundation/stockroom/lib/bot"
	"github.com/bureau-foundation/stockroom/lib/clock"
	"github.com/bureau-foundation/stockroom/lib/conversation"
	"github.com/bureau-foundation/stockroom/lib/inventory"
	"github.com/bureau-foundation/stockroom/lib/service"
	"github.com/bureau-foundation/stockroom/lib/version"
)

// Handlers serves the control actions against the live daemon state.
type Handlers struct {
	Ledger        *inventory.Ledger
	Registry      *authorization.Registry
	Conversations *conversation.Store
	Router        bot.Handler

	// Busy reports operators with queued events. Optional.
	Busy func() int
	// PollOffset reports the next update offset. Optional.
	PollOffset func() int64

	BotUsername    string
	StorageBackend string
	StartedAt      time.Time
	Clock          clock.Clock
	Logger         *slog.Logger
}

// Register installs every action on server.
func (h *Handlers) Register(server *service.Server) {
	if h.Clock == nil {
		h.Clock = clock.Real()
	}
	if h.Logger == nil {
		h.Logger = slog.New(slog.DiscardHandler)
	}
	server.Handle(ActionStatus, h.status)
	server.Handle(ActionStock, h.stock)
	server.Handle(ActionAdjust, h.adjust)
	server.Handle(ActionOperators, h.operators)
	server.Handle(ActionGrant, h.grant)
	server.Handle(ActionRevoke, h.revoke)
	server.Handle(ActionDispatch, h.dispatch)
	server.Handle(ActionExport, h.export)
}

func (h *Handlers) status(ctx context.Context, raw []byte) (any, error) {
	response := StatusResponse{
		Version:        version.Info(),
		BotUsername:    h.BotUsername,
		StartedAt:      h.StartedAt,
		Uptime:         h.Clock.Now().Sub(h.StartedAt),
		Products:       h.Ledger.Len(),
		Operators:      len(h.Registry.Members()),
		PendingActions: h.Conversations.Len(),
		StorageBackend: h.StorageBackend,
	}
	if h.Busy != nil {
		response.BusyOperators = h.Busy()
	}
	if h.PollOffset != nil {
		response.PollOffset = h.PollOffset()
	}
	return response, nil
}

func (h *Handlers) stock(ctx context.Context, raw []byte) (any, error) {
	return NewStockResponse(h.Ledger.Snapshot()), nil
}

func (h *Handlers) adjust(ctx context.Context, raw []byte) (any, error) {
	request, err := service.DecodeRequest[AdjustRequest](raw)
	if err != nil {
		return nil, err
	}
	product := inventory.CanonicalName(request.Product)
	if product == "" {
		return nil, service.Errorf(service.CodeMalformed, "product is required")
	}

	quantity, err := h.Ledger.Adjust(ctx, product, request.Delta)
	switch {
	case err == nil:
	case errors.Is(err, inventory.ErrInsufficientStock):
		return nil, service.WithCode(service.CodeInsufficientStock, err)
	case errors.Is(err, inventory.ErrInvalidAdjustment), errors.Is(err, inventory.ErrQuantityOverflow):
		return nil, service.WithCode(service.CodeMalformed, err)
	default:
		return nil, err
	}

	h.Logger.Info("stock adjusted over control socket", "product", product, "delta", request.Delta, "quantity", quantity)
	return AdjustResponse{
		Product:  product,
		Quantity: quantity,
		Status:   inventory.StatusOf(quantity).String(),
	}, nil
}

func (h *Handlers) operators(ctx context.Context, raw []byte) (any, error) {
	members := h.Registry.Members()
	ids := make([]int64, 0, len(members))
	for _, member := range members {
		ids = append(ids, int64(member))
	}
	slices.Sort(ids)
	return OperatorsResponse{Operators: ids}, nil
}

func (h *Handlers) grant(ctx context.Context, raw []byte) (any, error) {
	request, err := decodeOperator(raw)
	if err != nil {
		return nil, err
	}
	outcome, err := h.Registry.Grant(ctx, authorization.OperatorID(request.Operator))
	if err != nil {
		return nil, err
	}
	h.Logger.Info("operator granted over control socket", "operator", request.Operator, "outcome", outcome)
	return OperatorResponse{
		Operator: request.Operator,
		Outcome:  outcome.String(),
		Changed:  outcome == authorization.Added,
	}, nil
}

func (h *Handlers) revoke(ctx context.Context, raw []byte) (any, error) {
	request, err := decodeOperator(raw)
	if err != nil {
		return nil, err
	}
	outcome, err := h.Registry.Revoke(ctx, authorization.OperatorID(request.Operator))
	if err != nil {
		return nil, err
	}
	h.Logger.Info("operator revoked over control socket", "operator", request.Operator, "outcome", outcome)
	return OperatorResponse{
		Operator: request.Operator,
		Outcome:  outcome.String(),
		Changed:  outcome == authorization.Removed,
	}, nil
}

func decodeOperator(raw []byte) (OperatorRequest, error) {
	request, err := service.DecodeRequest[OperatorRequest](raw)
	if err != nil {
		return request, err
	}
	if request.Operator <= 0 {
		return request, service.Errorf(service.CodeMalformed, "operator must be a positive user ID")
	}
	return request, nil
}

// dispatch runs one interaction through the chat router.
func (h *Handlers) dispatch(ctx context.Context, raw []byte) (any, error) {
	request, err := service.DecodeRequest[DispatchRequest](raw)
	if err != nil {
		return nil, err
	}
	if request.Operator <= 0 {
		return nil, service.Errorf(service.CodeMalformed, "operator must be a positive user ID")
	}

	event := bot.Event{
		Kind:     bot.EventMessage,
		Operator: authorization.OperatorID(request.Operator),
		Text:     request.Text,
	}
	if request.Selection != "" {
		event.Kind = bot.EventSelection
		event.Text = ""
		event.Selection = request.Selection
	}

	response := h.Router.Handle(ctx, event)
	result := DispatchResponse{
		RequestID: response.RequestID,
		Outcome:   response.Outcome(),
		Replies:   response.Replies,
	}
	if result.Replies == nil {
		result.Replies = []bot.Reply{}
	}
	if response.Err != nil {
		result.Error = response.Err.Error()
	}
	return result, nil
}

func (h *Handlers) export(ctx context.Context, raw []byte) (any, error) {
	request, err := service.DecodeRequest[ExportRequest](raw)
	if err != nil {
		return nil, err
	}
	compression := backup.CompressionZstd
	if request.Compression != "" {
		compression, err = backup.ParseCompression(request.Compression)
		if err != nil {
			return nil, service.WithCode(service.CodeMalformed, err)
		}
	}

	archive, header, err := backup.Encode(h.Snapshot(), compression)
	if err != nil {
		return nil, fmt.Errorf("exporting backup: %w", err)
	}
	h.Logger.Info("backup exported",
		"compression", header.Compression,
		"payload_size", header.PayloadSize,
		"compressed_size", header.CompressedSize,
	)
	return ExportResponse{
		Archive:        archive,
		Compression:    header.Compression.String(),
		PayloadSize:    header.PayloadSize,
		CompressedSize: header.CompressedSize,
	}, nil
}

// Snapshot captures the ledger and operator set for a backup.
func (h *Handlers) Snapshot() backup.Snapshot {
	members := h.Registry.Members()
	operators := make([]int64, 0, len(members))
	for _, member := range members {
		operators = append(operators, int64(member))
	}
	return backup.Snapshot{
		Version:   backup.SnapshotVersion,
		CreatedAt: h.Clock.Now().UTC(),
		Ledger:    h.Ledger.Snapshot(),
		Operators: operators,
	}
}
