/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package admin exposes a small read-only HTTP status API over a set of
// stations: GET /health, GET /api/stations, GET /api/stations/:name.
// This is a supplemented feature with no ICY socket involvement of its
// own, grounded on arung-agamani-denpa-radio's gin-based Status handler.
package admin

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/wavecast/wavecast"
)

// StationStatus is the JSON shape returned for one station.
type StationStatus struct {
	Name          string `json:"name"`
	ContentType   string `json:"content_type"`
	Finished      bool   `json:"finished"`
	ListenerCount int    `json:"listener_count"`
}

// Server is the admin HTTP API, reporting live status for a fixed set
// of named stations.
type Server struct {
	engine   *gin.Engine
	stations map[string]*wavecast.Station
}

// New builds a Server over stations, keyed by playlist name.
func New(stations map[string]*wavecast.Station) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, stations: stations}
	engine.GET("/health", s.handleHealth)
	engine.GET("/api/stations", s.handleListStations)
	engine.GET("/api/stations/:name", s.handleGetStation)
	return s
}

// Handler returns the underlying http.Handler for use with net/http.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListStations(c *gin.Context) {
	names := make([]string, 0, len(s.stations))
	for name := range s.stations {
		names = append(names, name)
	}
	sort.Strings(names)

	statuses := make([]StationStatus, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, status(name, s.stations[name]))
	}
	c.JSON(http.StatusOK, statuses)
}

func (s *Server) handleGetStation(c *gin.Context) {
	name := c.Param("name")
	st, ok := s.stations[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown station"})
		return
	}
	c.JSON(http.StatusOK, status(name, st))
}

func status(name string, st *wavecast.Station) StationStatus {
	return StationStatus{
		Name:          name,
		ContentType:   st.ContentType(),
		Finished:      st.Finished(),
		ListenerCount: st.ListenerCount(),
	}
}
