// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/stockroom/lib/netutil"
	"github.com/bureau-foundation/stockroom/lib/secret"
)

// MaxDownloadSize bounds DownloadFile. The Bot API itself refuses to
// serve files larger than 20 MB.
const MaxDownloadSize int64 = 20 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// APIURL is the Bot API base URL, e.g. "https://api.telegram.org".
	APIURL string
	// Token is the bot token. The Client borrows it; the caller
	// closes it after the Client is no longer used.
	Token *secret.Buffer
	// HTTPClient is used for all requests. If nil, a client without
	// an overall timeout is used; long polls bound themselves.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, logs are
	// discarded.
	Logger *slog.Logger
}

// Client is an authenticated Bot API client. Safe for concurrent use.
type Client struct {
	baseURL    string
	token      *secret.Buffer
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates config and returns a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIURL == "" {
		return nil, fmt.Errorf("messaging: APIURL is required")
	}
	parsed, err := url.Parse(config.APIURL)
	if err != nil {
		return nil, fmt.Errorf("messaging: invalid APIURL %q: %w", config.APIURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("messaging: APIURL %q must be http or https", config.APIURL)
	}
	if config.Token == nil || config.Token.Len() == 0 {
		return nil, fmt.Errorf("messaging: Token is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:    strings.TrimRight(config.APIURL, "/"),
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CloseIdleConnections drops pooled connections so the next request
// opens a fresh one. The poller calls it after a transport failure.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// GetMe returns the bot's own account. The daemon uses it at startup
// to verify the token and learn the bot's username.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUpdates long-polls for new updates. The HTTP request is allowed
// to run for the poll timeout plus a grace period.
func (c *Client) GetUpdates(ctx context.Context, request GetUpdatesRequest) ([]Update, error) {
	if request.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(request.Timeout)*time.Second+10*time.Second)
		defer cancel()
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", request, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a text message.
func (c *Client) SendMessage(ctx context.Context, request SendMessageRequest) (*Message, error) {
	var message Message
	if err := c.call(ctx, "sendMessage", request, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// EditMessageText replaces the text and keyboard of a sent message.
// Telegram answers "message is not modified" with 400 when nothing
// changed; that case is not an error here.
func (c *Client) EditMessageText(ctx context.Context, request EditMessageTextRequest) error {
	err := c.call(ctx, "editMessageText", request, nil)
	var apiError *APIError
	if errors.As(err, &apiError) && apiError.Code == ErrCodeBadRequest &&
		strings.Contains(apiError.Description, "message is not modified") {
		return nil
	}
	return err
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing a progress indicator.
func (c *Client) AnswerCallbackQuery(ctx context.Context, request AnswerCallbackQueryRequest) error {
	return c.call(ctx, "answerCallbackQuery", request, nil)
}

// SendPhoto uploads request.Photo as a new photo message.
func (c *Client) SendPhoto(ctx context.Context, request SendPhotoRequest) (*Message, error) {
	if len(request.Photo) == 0 {
		return nil, fmt.Errorf("messaging: sendPhoto: empty photo")
	}
	fileName := request.FileName
	if fileName == "" {
		fileName = "photo.jpg"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"chat_id": strconv.FormatInt(request.ChatID, 10),
	}
	if request.Caption != "" {
		fields["caption"] = request.Caption
	}
	if request.ReplyMarkup != nil {
		markup, err := json.Marshal(request.ReplyMarkup)
		if err != nil {
			return nil, fmt.Errorf("messaging: sendPhoto: encoding reply markup: %w", err)
		}
		fields["reply_markup"] = string(markup)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("messaging: sendPhoto: %w", err)
		}
	}
	part, err := writer.CreateFormFile("photo", fileName)
	if err != nil {
		return nil, fmt.Errorf("messaging: sendPhoto: %w", err)
	}
	if _, err := part.Write(request.Photo); err != nil {
		return nil, fmt.Errorf("messaging: sendPhoto: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("messaging: sendPhoto: %w", err)
	}

	var message Message
	if err := c.do(ctx, "sendPhoto", writer.FormDataContentType(), &body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// GetFile resolves fileID to a downloadable path.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var file File
	if err := c.call(ctx, "getFile", map[string]string{"file_id": fileID}, &file); err != nil {
		return nil, err
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("messaging: getFile %s: no file_path in response", fileID)
	}
	return &file, nil
}

// DownloadFile fetches a file previously resolved with GetFile. At
// most limit bytes are accepted; limit <= 0 means MaxDownloadSize.
func (c *Client) DownloadFile(ctx context.Context, filePath string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = MaxDownloadSize
	}
	requestURL := c.baseURL + "/file/bot" + c.token.String() + "/" + strings.TrimLeft(filePath, "/")
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: download: %w", redact(err))
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("messaging: download %s: %w", filePath, redact(err))
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &APIError{
			Method:      "download",
			Code:        response.StatusCode,
			Description: strings.TrimSpace(netutil.ErrorBody(response.Body)),
		}
	}
	data, err := netutil.ReadLimited(response.Body, limit)
	if err != nil {
		return nil, fmt.Errorf("messaging: download %s: %w", filePath, err)
	}
	return data, nil
}

// call sends a JSON request body (or none) and decodes the result.
func (c *Client) call(ctx context.Context, method string, requestBody, result any) error {
	var body bytes.Buffer
	contentType := ""
	if requestBody != nil {
		if err := json.NewEncoder(&body).Encode(requestBody); err != nil {
			return fmt.Errorf("messaging: %s: encoding request: %w", method, err)
		}
		contentType = "application/json"
	}
	return c.do(ctx, method, contentType, &body, result)
}

// do performs one POST to the method endpoint and unwraps the
// response envelope.
func (c *Client) do(ctx context.Context, method, contentType string, body *bytes.Buffer, result any) error {
	requestURL := c.baseURL + "/bot" + c.token.String() + "/" + method
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, body)
	if err != nil {
		return fmt.Errorf("messaging: %s: %w", method, redact(err))
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("messaging: %s: %w", method, redact(err))
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return fmt.Errorf("messaging: %s: reading response: %w", method, err)
	}

	var decoded envelope
	if err := json.Unmarshal(responseBody, &decoded); err != nil {
		return fmt.Errorf("messaging: %s: unexpected %d response: %s",
			method, response.StatusCode, truncate(responseBody, 200))
	}

	if !decoded.OK {
		apiError := &APIError{
			Method:      method,
			Code:        decoded.ErrorCode,
			Description: decoded.Description,
		}
		if apiError.Code == 0 {
			apiError.Code = response.StatusCode
		}
		if decoded.Parameters != nil && decoded.Parameters.RetryAfter > 0 {
			apiError.RetryAfter = time.Duration(decoded.Parameters.RetryAfter) * time.Second
		}
		c.logger.Debug("bot api call failed",
			"method", method,
			"code", apiError.Code,
			"description", apiError.Description,
		)
		return apiError
	}

	c.logger.Debug("bot api call", "method", method, "duration", time.Since(started))

	if result != nil && len(decoded.Result) > 0 {
		if err := json.Unmarshal(decoded.Result, result); err != nil {
			return fmt.Errorf("messaging: %s: decoding result: %w", method, err)
		}
	}
	return nil
}

// redact drops the request URL, which embeds the bot token, from
// transport errors.
func redact(err error) error {
	var urlError *url.Error
	if errors.As(err, &urlError) {
		return urlError.Err
	}
	return err
}

func truncate(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
