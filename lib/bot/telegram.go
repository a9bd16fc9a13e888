// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/imagestore"
	"github.com/bureau-foundation/stockroom/messaging"
)

// Transport is the subset of *messaging.Client the bridge uses.
type Transport interface {
	SendMessage(ctx context.Context, request messaging.SendMessageRequest) (*messaging.Message, error)
	EditMessageText(ctx context.Context, request messaging.EditMessageTextRequest) error
	SendPhoto(ctx context.Context, request messaging.SendPhotoRequest) (*messaging.Message, error)
	AnswerCallbackQuery(ctx context.Context, request messaging.AnswerCallbackQueryRequest) error
	GetFile(ctx context.Context, fileID string) (*messaging.File, error)
	DownloadFile(ctx context.Context, filePath string, limit int64) ([]byte, error)
}

// Submitter queues events for handling. *Dispatcher implements it.
type Submitter interface {
	Submit(ctx context.Context, event Event, deliver DeliverFunc)
}

// BridgeConfig configures a Bridge.
type BridgeConfig struct {
	Transport  Transport
	Dispatcher Submitter
	Logger     *slog.Logger
}

// Bridge converts chat updates into events and renders responses back
// into the chat they came from.
type Bridge struct {
	transport  Transport
	dispatcher Submitter
	logger     *slog.Logger
}

// NewBridge returns a Bridge. Transport and Dispatcher are required.
func NewBridge(config BridgeConfig) (*Bridge, error) {
	if config.Transport == nil {
		return nil, fmt.Errorf("bot: BridgeConfig.Transport is required")
	}
	if config.Dispatcher == nil {
		return nil, fmt.Errorf("bot: BridgeConfig.Dispatcher is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{
		transport:  config.Transport,
		dispatcher: config.Dispatcher,
		logger:     logger,
	}, nil
}

// HandleUpdate is a messaging.UpdateHandler.
func (b *Bridge) HandleUpdate(ctx context.Context, update messaging.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	default:
		b.logger.Debug("ignoring update without message or callback", "update_id", update.UpdateID)
	}
}

func (b *Bridge) handleMessage(ctx context.Context, message *messaging.Message) {
	if message.From == nil || message.From.IsBot {
		return
	}
	event := Event{
		Kind:     EventMessage,
		Operator: authorization.OperatorID(message.From.ID),
		Text:     message.Text,
	}
	if photo, ok := message.LargestPhoto(); ok {
		event.Text = message.Caption
		event.Attachment = &photoAttachment{transport: b.transport, photo: photo}
	}
	if event.Text == "" {
		return
	}

	chatID := message.Chat.ID
	b.dispatcher.Submit(ctx, event, func(ctx context.Context, response Response) {
		b.deliver(ctx, chatID, 0, response)
	})
}

func (b *Bridge) handleCallback(ctx context.Context, query *messaging.CallbackQuery) {
	event := Event{
		Kind:      EventSelection,
		Operator:  authorization.OperatorID(query.From.ID),
		Selection: query.Data,
	}

	var chatID, messageID int64
	if query.Message != nil {
		chatID = query.Message.Chat.ID
		messageID = query.Message.MessageID
	} else {
		// Callbacks from inline-mode messages carry no chat; answer in
		// the operator's private chat.
		chatID = query.From.ID
	}

	queryID := query.ID
	b.dispatcher.Submit(ctx, event, func(ctx context.Context, response Response) {
		// The button's spinner stops only once the query is answered.
		if err := b.transport.AnswerCallbackQuery(ctx, messaging.AnswerCallbackQueryRequest{
			CallbackQueryID: queryID,
		}); err != nil {
			b.logger.Warn("answering callback query failed", "request_id", response.RequestID, "error", err)
		}
		b.deliver(ctx, chatID, messageID, response)
	})
}

// deliver renders response into chatID. messageID is the message whose
// button was pressed, or zero.
func (b *Bridge) deliver(ctx context.Context, chatID, messageID int64, response Response) {
	for index, reply := range response.Replies {
		if err := b.send(ctx, chatID, messageID, reply); err != nil {
			b.logger.Error("delivering reply failed",
				"request_id", response.RequestID,
				"chat_id", chatID,
				"reply", index,
				"kind", reply.Kind,
				"error", err,
			)
			return
		}
	}
}

func (b *Bridge) send(ctx context.Context, chatID, messageID int64, reply Reply) error {
	markup := keyboard(reply.Buttons)
	switch reply.Kind {
	case ReplyEdit:
		if messageID != 0 {
			return b.transport.EditMessageText(ctx, messaging.EditMessageTextRequest{
				ChatID:      chatID,
				MessageID:   messageID,
				Text:        reply.Text,
				ReplyMarkup: markup,
			})
		}
	case ReplyPhoto:
		_, err := b.transport.SendPhoto(ctx, messaging.SendPhotoRequest{
			ChatID:      chatID,
			Photo:       reply.Image,
			FileName:    "product.jpg",
			Caption:     reply.Text,
			ReplyMarkup: markup,
		})
		return err
	}
	_, err := b.transport.SendMessage(ctx, messaging.SendMessageRequest{
		ChatID:      chatID,
		Text:        reply.Text,
		ReplyMarkup: markup,
	})
	return err
}

func keyboard(rows [][]Button) *messaging.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	markup := &messaging.InlineKeyboardMarkup{
		InlineKeyboard: make([][]messaging.InlineKeyboardButton, 0, len(rows)),
	}
	for _, row := range rows {
		buttons := make([]messaging.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, messaging.InlineKeyboardButton{
				Text:         button.Text,
				CallbackData: button.Selection,
			})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}

// photoAttachment downloads the photo when Fetch is called.
type photoAttachment struct {
	transport Transport
	photo     messaging.PhotoSize
}

func (a *photoAttachment) Fetch(ctx context.Context) ([]byte, error) {
	if a.photo.FileSize > imagestore.MaxImageSize {
		return nil, fmt.Errorf("photo is %d bytes, limit is %d", a.photo.FileSize, imagestore.MaxImageSize)
	}
	file, err := a.transport.GetFile(ctx, a.photo.FileID)
	if err != nil {
		return nil, err
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("file %s has no download path", a.photo.FileID)
	}
	return a.transport.DownloadFile(ctx, file.FilePath, imagestore.MaxImageSize)
}
