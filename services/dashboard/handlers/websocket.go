// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/launchdash/services/dashboard/callbacks"
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

// WebSocket message types sent by the server.
const (
	WSTypeSession = "session"
	WSTypeUpdates = "updates"
	WSTypeError   = "error"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 64 * 1024
)

// WSMessage is every server-to-client WebSocket frame.
type WSMessage struct {
	Type      string             `json:"type"`
	SessionID string             `json:"session_id,omitempty"`
	Updates   []callbacks.Update `json:"updates,omitempty"`
	Error     string             `json:"error,omitempty"`
	Code      string             `json:"code,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 64 * 1024,
}

func sendJSON(ws *websocket.Conn, v any) error {
	_ = ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	err := ws.WriteJSON(v)
	if err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
	}
	return err
}

// HandleWebSocket serves the live control channel.
//
// # Description
//
// On connect the server sends a session frame, then the updates for the
// initial page state. Each client frame is a CallbackRequest; the server
// answers with the affected updates or an error frame and keeps the
// connection open. The connection remembers the last valid state, so a
// client may send only the control that changed. With a FrameLimiter set,
// frames over the client's budget get a rate_limited error frame.
func (d *Dashboard) HandleWebSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(wsMaxMessage)

	sessionID := uuid.NewString()
	log := slog.With("session_id", sessionID)
	log.Info("Websocket client connected")

	ctx := c.Request.Context()
	clientIP := c.ClientIP()
	state := d.initial

	if err := sendJSON(ws, WSMessage{Type: WSTypeSession, SessionID: sessionID}); err != nil {
		return
	}
	initial, err := d.registry.Initial(ctx, state)
	if err != nil {
		log.Error("Initial callbacks failed", "error", err)
		return
	}
	if err := sendJSON(ws, WSMessage{Type: WSTypeUpdates, Updates: initial}); err != nil {
		return
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("Websocket read failed", "error", err)
			} else {
				log.Info("Websocket client disconnected")
			}
			return
		}

		if d.frames != nil && !d.frames.Allow(clientIP) {
			log.Warn("Websocket frame rate limited", "client_ip", clientIP)
			if sendJSON(ws, WSMessage{Type: WSTypeError, Error: "rate limit exceeded", Code: CodeRateLimited}) != nil {
				return
			}
			continue
		}

		var req CallbackRequest
		var updates []callbacks.Update
		next := state
		if err = json.Unmarshal(data, &req); err != nil {
			err = fmt.Errorf("%w: malformed callback request: %v", datatypes.ErrInvalidSelection, err)
		} else {
			updates, next, err = d.dispatch(ctx, state, req)
		}
		if err != nil {
			_, code := classify(err)
			log.Warn("Callback failed", "changed", req.Changed, "error", err)
			if sendJSON(ws, WSMessage{Type: WSTypeError, Error: err.Error(), Code: code}) != nil {
				return
			}
			continue
		}
		state = next

		if sendJSON(ws, WSMessage{Type: WSTypeUpdates, Updates: updates}) != nil {
			return
		}
	}
}
