// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"time"

	"github.com/bureau-foundation/stockroom/lib/bot"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// Action names.
const (
	ActionStatus    = "status"
	ActionStock     = "stock"
	ActionAdjust    = "adjust"
	ActionOperators = "operators"
	ActionGrant     = "grant"
	ActionRevoke    = "revoke"
	ActionDispatch  = "dispatch"
	ActionExport    = "export"
)

// StatusResponse reports daemon health.
type StatusResponse struct {
	Version        string        `cbor:"version" json:"version"`
	BotUsername    string        `cbor:"bot_username" json:"bot_username"`
	StartedAt      time.Time     `cbor:"started_at" json:"started_at"`
	Uptime         time.Duration `cbor:"uptime" json:"uptime"`
	Products       int           `cbor:"products" json:"products"`
	Operators      int           `cbor:"operators" json:"operators"`
	PendingActions int           `cbor:"pending_actions" json:"pending_actions"`
	PollOffset     int64         `cbor:"poll_offset" json:"poll_offset"`
	StorageBackend string        `cbor:"storage_backend" json:"storage_backend"`
	BusyOperators  int           `cbor:"busy_operators" json:"busy_operators"`
}

// StockRow is one ledger entry with its status.
type StockRow struct {
	Product  string `cbor:"product" json:"product"`
	Quantity int64  `cbor:"quantity" json:"quantity"`
	Status   string `cbor:"status" json:"status"`
}

// StockResponse lists the ledger.
type StockResponse struct {
	Rows []StockRow `cbor:"rows" json:"rows"`
}

// NewStockResponse builds a StockResponse from a ledger snapshot.
func NewStockResponse(entries []inventory.Entry) StockResponse {
	rows := make([]StockRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, StockRow{
			Product:  entry.Product,
			Quantity: entry.Quantity,
			Status:   inventory.StatusOf(entry.Quantity).String(),
		})
	}
	return StockResponse{Rows: rows}
}

// AdjustRequest changes a product's quantity by Delta.
type AdjustRequest struct {
	Product string `cbor:"product"`
	Delta   int64  `cbor:"delta"`
}

// AdjustResponse carries the quantity after the adjustment.
type AdjustResponse struct {
	Product  string `cbor:"product" json:"product"`
	Quantity int64  `cbor:"quantity" json:"quantity"`
	Status   string `cbor:"status" json:"status"`
}

// OperatorsResponse lists the authorized operators.
type OperatorsResponse struct {
	Operators []int64 `cbor:"operators" json:"operators"`
}

// OperatorRequest names the operator for grant and revoke.
type OperatorRequest struct {
	Operator int64 `cbor:"operator"`
}

// OperatorResponse reports whether grant or revoke changed anything.
type OperatorResponse struct {
	Operator int64  `cbor:"operator" json:"operator"`
	Outcome  string `cbor:"outcome" json:"outcome"`
	Changed  bool   `cbor:"changed" json:"changed"`
}

// DispatchRequest injects one chat interaction as Operator. When
// Selection is set it is treated as a button press; otherwise Text is
// a message.
type DispatchRequest struct {
	Operator  int64  `cbor:"operator"`
	Text      string `cbor:"text,omitempty"`
	Selection string `cbor:"selection,omitempty"`
}

// DispatchResponse is the router's answer to a DispatchRequest.
type DispatchResponse struct {
	RequestID string      `cbor:"request_id" json:"request_id"`
	Outcome   string      `cbor:"outcome" json:"outcome"`
	Error     string      `cbor:"error,omitempty" json:"error,omitempty"`
	Replies   []bot.Reply `cbor:"replies" json:"replies"`
}

// ExportRequest selects the backup compression by name.
type ExportRequest struct {
	Compression string `cbor:"compression,omitempty"`
}

// ExportResponse carries an encoded backup archive.
type ExportResponse struct {
	Archive        []byte `cbor:"archive"`
	Compression    string `cbor:"compression"`
	PayloadSize    int    `cbor:"payload_size"`
	CompressedSize int    `cbor:"compressed_size"`
}
