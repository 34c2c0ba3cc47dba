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
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavecast/wavecast"
	"github.com/wavecast/wavecast/internal/frame"
)

func TestHandleConnectionWritesHandshakeAndAudio(t *testing.T) {
	child := &fixedFramesChild{frames: []frame.Meta{
		{Payload: []byte("abcd"), DurationMs: 1, ContentType: "audio/mpeg"},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	station := wavecast.NewStation(ctx, "Test Station", child, newTestLogger())

	router := NewRouter()
	router.Add("/stream", station)
	handler := NewHandler(router, newTestLogger())

	serverConn, clientConn := net.Pipe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		handler.HandleConnection(serverConn, nil)
	}()

	go func() {
		clientConn.Write([]byte("GET /stream HTTP/1.1\r\nHost: test\r\n\r\n"))
	}()

	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(clientConn)

	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.0 200 OK\r\n", statusLine)

	var headerLines []string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line == "\r\n" {
			break
		}
		headerLines = append(headerLines, line)
	}
	assert.True(t, containsPrefix(headerLines, "icy-name: Test Station"))

	body := make([]byte, 4)
	_, err = reader.Read(body)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(body))

	clientConn.Close()
	wg.Wait()
}

func containsPrefix(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
