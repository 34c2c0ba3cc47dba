/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package shoutcast

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/wavecast/wavecast"
	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/logging"
)

// Handler accepts listener connections, routes them by request path to
// a Station, and streams that station's frames until the socket closes.
// It plays the role the teacher's RequestHandler played, adapted to the
// stdlib http.ReadRequest parser instead of a hand-rolled one — request
// parsing at the socket boundary is explicitly outside this module's
// core scope.
type Handler struct {
	router *Router
	logger *logging.Logger
}

// NewHandler creates a Handler dispatching through router.
func NewHandler(router *Router, logger *logging.Logger) *Handler {
	return &Handler{router: router, logger: logger}
}

// HandleConnection is a wavecast.ConnectionHandler: it reads one HTTP
// request line and headers off conn, resolves a station, writes the ICY
// handshake, and streams frames until the client disconnects or the
// station ends.
func (h *Handler) HandleConnection(conn net.Conn, netErr net.Error) {
	if netErr != nil {
		h.logger.Warn("accept error", "err", netErr)
		return
	}
	defer conn.Close()

	corrID := uuid.New().String()
	logger := h.logger.With("conn").With(corrID)

	req, err := http.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		logger.Debug("failed to parse request", "err", err)
		return
	}

	station, ok := h.router.Resolve(req.URL.Path)
	if !ok {
		logger.Debug("no station for path", "path", req.URL.Path)
		return
	}

	metaRequested := req.Header.Get("Icy-Metadata") == "1"
	sessionID := req.Header.Get("x-playback-session-id")
	listenerID := resolveListenerID(station, sessionID)

	// Best-effort: make sure content_type is populated before the
	// handshake is written, the same way a fresh listener's first frame
	// determines what it announces.
	_ = station.PrepareFrame()

	if err := writeHandshake(conn, station, metaRequested); err != nil {
		logger.Debug("handshake write failed", "err", err)
		return
	}

	stream := NewFrameStream(station, listenerID)
	writer := newStreamWriter(conn, metaRequested)
	ctx := context.Background()

	for {
		fr, err := stream.Next(ctx)
		if err != nil {
			logger.Debug("stream ended with error", "err", err)
			return
		}
		if fr == nil {
			logger.Debug("stream reached clean end of stream")
			return
		}

		station.LogCurrentFrame(listenerID, stream.CurrentFrame())

		if err := writer.WriteFrame(*fr); err != nil {
			logger.Debug("socket write failed", "err", err)
			return
		}
	}
}

// resolveListenerID assigns this connection a ListenerID, resuming an
// existing listener when sessionID matches one still tracked by
// station. A connection that arrives without a session id is given a
// synthesized one, recorded only in the station's listener table; it is
// not sent back to the client.
func resolveListenerID(station *wavecast.Station, sessionID string) frame.ListenerID {
	if sessionID != "" {
		if id, ok := station.GetListenerIDFromSessionID(sessionID); ok {
			return frame.ListenerID{ListenerID: id, SessionID: sessionID}
		}
	} else {
		sessionID = uuid.New().String()
	}

	id := frame.NextListenerID()
	station.LogSessionID(sessionID, id)
	return frame.ListenerID{ListenerID: id, SessionID: sessionID}
}

// writeHandshake writes the ICY handshake line and headers to conn.
func writeHandshake(conn net.Conn, station *wavecast.Station, metaRequested bool) error {
	head := "HTTP/1.0 200 OK\r\n" +
		"Content-Type: " + station.ContentType() + "\r\n" +
		"icy-name: " + station.Name + "\r\n"

	if metaRequested {
		head += "icy-metadata: 1\r\n"
		head += fmt.Sprintf("icy-metaint: %d\r\n", metaIntBytes)
	}
	head += "\r\n"

	_, err := conn.Write([]byte(head))
	return err
}
