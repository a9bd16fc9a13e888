// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/stockroom/lib/codec"
)

// ActionFunc handles one action. raw is the whole CBOR request,
// including the "action" field. A nil result produces {ok: true}.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Response is the envelope of every reply.
type Response struct {
	OK    bool             `cbor:"ok"`
	Code  string           `cbor:"code,omitempty"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

const (
	readTimeout    = 30 * time.Second
	writeTimeout   = 10 * time.Second
	maxRequestSize = 1024 * 1024
	socketMode     = 0600
)

// Server dispatches socket requests to registered actions.
type Server struct {
	socketPath string
	handlers   map[string]ActionFunc
	logger     *slog.Logger
	ready      chan struct{}

	active sync.WaitGroup
}

// NewServer creates a server for socketPath. A nil logger discards.
func NewServer(socketPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		socketPath: socketPath,
		handlers:   make(map[string]ActionFunc),
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Handle registers handler for action. Registering an action twice
// panics. Handle must not be called once Serve has started.
func (s *Server) Handle(action string, handler ActionFunc) {
	if _, exists := s.handlers[action]; exists {
		panic(fmt.Sprintf("service: duplicate handler for action %q", action))
	}
	s.handlers[action] = handler
}

// Actions returns the registered action names, sorted.
func (s *Server) Actions() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Ready is closed once the socket accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Serve listens until ctx is cancelled, then waits for in-flight
// requests. A stale socket file is replaced; the socket file is
// removed on return.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("service: removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("service: listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()
	if err := os.Chmod(s.socketPath, socketMode); err != nil {
		return fmt.Errorf("service: chmod %s: %w", s.socketPath, err)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("control socket listening", "path", s.socketPath, "actions", len(s.handlers))
	close(s.ready)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.active.Add(1)
		go func() {
			defer s.active.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.active.Wait()
	return nil
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		s.writeResponse(conn, Response{Code: CodeMalformed, Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	var header struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &header); err != nil {
		s.writeResponse(conn, Response{Code: CodeMalformed, Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if header.Action == "" {
		s.writeResponse(conn, Response{Code: CodeMalformed, Error: "missing required field: action"})
		return
	}

	handler, exists := s.handlers[header.Action]
	if !exists {
		s.writeResponse(conn, Response{Code: CodeNotFound, Error: fmt.Sprintf("unknown action %q", header.Action)})
		return
	}

	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID, "action", header.Action)
	started := time.Now()

	result, err := handler(ctx, []byte(raw))
	if err != nil {
		code := CodeInternal
		var actionError *ActionError
		if errors.As(err, &actionError) && actionError.Code != "" {
			code = actionError.Code
		}
		logger.Debug("action failed", "code", code, "error", err)
		s.writeResponse(conn, Response{Code: code, Error: err.Error()})
		return
	}
	logger.Debug("action completed", "duration", time.Since(started))

	response := Response{OK: true}
	if result != nil {
		data, err := codec.Marshal(result)
		if err != nil {
			s.writeResponse(conn, Response{Code: CodeInternal, Error: fmt.Sprintf("marshaling response: %v", err)})
			return
		}
		response.Data = data
	}
	s.writeResponse(conn, response)
}

func (s *Server) writeResponse(conn net.Conn, response Response) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

// DecodeRequest decodes the action-specific fields of raw into T.
// Decoding failures carry CodeMalformed.
func DecodeRequest[T any](raw []byte) (T, error) {
	var request T
	if err := codec.Unmarshal(raw, &request); err != nil {
		return request, Errorf(CodeMalformed, "invalid request fields: %v", err)
	}
	return request, nil
}
