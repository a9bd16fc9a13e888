// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/stockroom/lib/secret"
)

const testToken = "123456:TEST-token"

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	token, err := secret.NewFromBytes([]byte(testToken))
	if err != nil {
		t.Fatalf("creating token buffer: %v", err)
	}
	t.Cleanup(func() { token.Close() })

	client, err := NewClient(ClientConfig{APIURL: server.URL, Token: token})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func writeResult(t *testing.T, writer http.ResponseWriter, result any) {
	t.Helper()
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(map[string]any{"ok": true, "result": result})
}

func TestNewClient(t *testing.T) {
	token, err := secret.NewFromBytes([]byte(testToken))
	if err != nil {
		t.Fatal(err)
	}
	defer token.Close()

	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
	}{
		{"valid", ClientConfig{APIURL: "https://api.telegram.org", Token: token}, false},
		{"missing url", ClientConfig{Token: token}, true},
		{"bad scheme", ClientConfig{APIURL: "ftp://example.com", Token: token}, true},
		{"missing token", ClientConfig{APIURL: "https://api.telegram.org"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSendMessage(t *testing.T) {
	client := testClient(t, func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/bot"+testToken+"/sendMessage" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		if request.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", request.Header.Get("Content-Type"))
		}
		var body SendMessageRequest
		if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body.ChatID != 42 || body.Text != "Select a category:" {
			t.Errorf("unexpected body: %+v", body)
		}
		if body.ReplyMarkup == nil || body.ReplyMarkup.InlineKeyboard[0][0].CallbackData != "category:Shirt" {
			t.Errorf("unexpected markup: %+v", body.ReplyMarkup)
		}
		writeResult(t, writer, Message{MessageID: 9, Chat: Chat{ID: 42}, Text: body.Text})
	})

	message, err := client.SendMessage(context.Background(), SendMessageRequest{
		ChatID: 42,
		Text:   "Select a category:",
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "Shirt", CallbackData: "category:Shirt"}},
		}},
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if message.MessageID != 9 {
		t.Errorf("message id = %d", message.MessageID)
	}
}

func TestAPIErrorWithRetryAfter(t *testing.T) {
	client := testClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(writer, `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 7","parameters":{"retry_after":7}}`)
	})

	_, err := client.SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "x"})
	if !IsAPIError(err, ErrCodeTooManyRequests) {
		t.Fatalf("error = %v, want 429 APIError", err)
	}
	delay, ok := RetryAfter(err)
	if !ok || delay != 7*time.Second {
		t.Errorf("RetryAfter = %v, %v", delay, ok)
	}
	if strings.Contains(err.Error(), testToken) {
		t.Error("error message leaks the token")
	}
}

func TestTransportErrorRedactsToken(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	token, err := secret.NewFromBytes([]byte(testToken))
	if err != nil {
		t.Fatal(err)
	}
	defer token.Close()
	client, err := NewClient(ClientConfig{APIURL: url, Token: token})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.GetMe(context.Background())
	if err == nil {
		t.Fatal("GetMe succeeded against a closed server")
	}
	if strings.Contains(err.Error(), testToken) {
		t.Errorf("transport error leaks the token: %v", err)
	}
	var apiError *APIError
	if errors.As(err, &apiError) {
		t.Error("transport failure reported as APIError")
	}
}

func TestNonJSONResponse(t *testing.T) {
	client := testClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		io.WriteString(writer, "<html>bad gateway</html>")
	})
	_, err := client.GetMe(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unexpected 502 response") {
		t.Fatalf("GetMe error = %v", err)
	}
}

func TestEditMessageTextNotModified(t *testing.T) {
	client := testClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		io.WriteString(writer, `{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`)
	})
	err := client.EditMessageText(context.Background(), EditMessageTextRequest{ChatID: 1, MessageID: 2, Text: "same"})
	if err != nil {
		t.Fatalf("EditMessageText: %v", err)
	}
}

func TestSendPhotoMultipart(t *testing.T) {
	photo := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'g'}
	client := testClient(t, func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/bot"+testToken+"/sendPhoto" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		if err := request.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if request.FormValue("chat_id") != "42" {
			t.Errorf("chat_id = %q", request.FormValue("chat_id"))
		}
		if request.FormValue("caption") != "Formal: 3 in stock" {
			t.Errorf("caption = %q", request.FormValue("caption"))
		}
		file, header, err := request.FormFile("photo")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "Formal.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != string(photo) {
			t.Errorf("photo bytes differ")
		}
		writeResult(t, writer, Message{MessageID: 11})
	})

	message, err := client.SendPhoto(context.Background(), SendPhotoRequest{
		ChatID:   42,
		Photo:    photo,
		FileName: "Formal.jpg",
		Caption:  "Formal: 3 in stock",
	})
	if err != nil {
		t.Fatalf("SendPhoto: %v", err)
	}
	if message.MessageID != 11 {
		t.Errorf("message id = %d", message.MessageID)
	}
}

func TestGetFileAndDownload(t *testing.T) {
	client := testClient(t, func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/bot" + testToken + "/getFile":
			var body map[string]string
			json.NewDecoder(request.Body).Decode(&body)
			if body["file_id"] != "big" {
				t.Errorf("file_id = %q", body["file_id"])
			}
			writeResult(t, writer, File{FileID: "big", FilePath: "photos/file_1.jpg"})
		case "/file/bot" + testToken + "/photos/file_1.jpg":
			io.WriteString(writer, "imagebytes")
		default:
			t.Errorf("unexpected path: %s", request.URL.Path)
			http.NotFound(writer, request)
		}
	})

	file, err := client.GetFile(context.Background(), "big")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	data, err := client.DownloadFile(context.Background(), file.FilePath, 0)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if string(data) != "imagebytes" {
		t.Errorf("downloaded %q", data)
	}

	if _, err := client.DownloadFile(context.Background(), file.FilePath, 4); err == nil {
		t.Error("DownloadFile ignored its size limit")
	}
}

func TestLargestPhoto(t *testing.T) {
	message := Message{Photo: []PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "large", Width: 1280, Height: 960},
		{FileID: "medium", Width: 320, Height: 240},
	}}
	largest, ok := message.LargestPhoto()
	if !ok || largest.FileID != "large" {
		t.Errorf("LargestPhoto = %+v, %v", largest, ok)
	}
	if _, ok := (&Message{}).LargestPhoto(); ok {
		t.Error("LargestPhoto on a text message returned ok")
	}
}
