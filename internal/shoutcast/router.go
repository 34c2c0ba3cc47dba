/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package shoutcast implements the SHOUTcast/ICY listener-socket
// protocol: handshake, in-band metadata interleaving and the
// per-listener pacer, wired on top of the root wavecast.Station frame
// engine.
package shoutcast

import (
	"strings"

	"github.com/wavecast/wavecast"
)

// Router maps a URL path to the Station serving it, for the set of
// outputs sharing a single host:port listening socket.
type Router struct {
	routes map[string]*wavecast.Station
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]*wavecast.Station)}
}

// Add registers station under path.
func (r *Router) Add(path string, station *wavecast.Station) {
	r.routes[normalizePath(path)] = station
}

// Resolve looks up the station serving path.
func (r *Router) Resolve(path string) (*wavecast.Station, bool) {
	st, ok := r.routes[normalizePath(path)]
	return st, ok
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
