/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package admin

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavecast/wavecast"
	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/logging"
)

type closedChild struct{}

func (closedChild) IsFinished() bool { return true }
func (closedChild) StreamFrames(ctx context.Context) (<-chan frame.Result, error) {
	out := make(chan frame.Result)
	close(out)
	return out, nil
}

func TestHealthEndpoint(t *testing.T) {
	s := New(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListAndGetStation(t *testing.T) {
	var out bytes.Buffer
	logger := logging.New(logging.LevelDebug, &out)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := wavecast.NewStation(ctx, "Main", closedChild{}, logger)
	s := New(map[string]*wavecast.Station{"main": st})

	req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"main"`)

	req2 := httptest.NewRequest(http.MethodGet, "/api/stations/missing", nil)
	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}
