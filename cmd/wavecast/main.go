/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
wavecast main entry point for the standalone multi-station server.

Reads a single JSON configuration file describing every playlist,
remote file provider and output socket, then serves them all until
interrupted with ^C, the same shutdown story as the teacher's
single-playlist DudelDu server.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/wavecast/wavecast"
	"github.com/wavecast/wavecast/internal/admin"
	"github.com/wavecast/wavecast/internal/config"
	fpcache "github.com/wavecast/wavecast/internal/fileprovider/cache"
	"github.com/wavecast/wavecast/internal/logging"
	"github.com/wavecast/wavecast/internal/shoutcast"
)

var fatal = log.Fatal

func main() {
	logLevel := flag.String("l", "info", "Log level (off,error,warn,info,debug,trace)")
	flag.StringVar(logLevel, "log-level", "info", "Log level (off,error,warn,info,debug,trace)")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")
	adminAddr := flag.String("admin-addr", "", "Optional host:port to serve the read-only admin status API on")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <config-path>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	configPath := flag.Arg(0)

	// Options may also follow the configuration path.
	flag.CommandLine.Parse(flag.Args()[1:])
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}

	level := logging.ParseLevel(*logLevel)
	if cfg.LogLevel != "" && *logLevel == "info" {
		level = logging.ParseLevel(cfg.LogLevel)
	}

	out, closeLog, err := openLogDestination(*logFile, cfg.LogFile)
	if err != nil {
		fatal(err)
	}
	if closeLog != nil {
		defer closeLog()
	}
	logger := logging.New(level, out)

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = os.TempDir() + "/wavecast-cache"
	}
	cache, err := fpcache.New(cacheDir, logger.With("cache"))
	if err != nil {
		fatal(err)
	}
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	built, err := config.Build(ctx, cfg, logger, cache)
	if err != nil {
		fatal(err)
	}

	var wg sync.WaitGroup
	servers := runOutputs(built, logger, &wg)

	if *adminAddr != "" {
		runAdmin(*adminAddr, built.Stations, logger)
	}

	logger.Info("wavecast started", "version", wavecast.ProductVersion, "servers", len(servers))

	wg.Wait()
}

// runOutputs groups every route by (host, port) into one wavecast.Server
// each, routed internally by path, and starts them all.
func runOutputs(built *config.Built, logger *logging.Logger, wg *sync.WaitGroup) []*wavecast.Server {
	type key struct {
		host string
		port uint16
	}
	byAddr := make(map[key]*shoutcast.Router)
	order := make([]key, 0)

	for _, route := range built.Routes {
		k := key{route.Host, route.Port}
		router, ok := byAddr[k]
		if !ok {
			router = shoutcast.NewRouter()
			byAddr[k] = router
			order = append(order, k)
		}
		router.Add(route.Path, built.Stations[route.Playlist])
	}

	servers := make([]*wavecast.Server, 0, len(order))
	for _, k := range order {
		router := byAddr[k]
		handler := shoutcast.NewHandler(router, logger.With("shoutcast"))
		srv := wavecast.NewServer(handler.HandleConnection, logger)
		servers = append(servers, srv)

		laddr := fmt.Sprintf("%s:%d", k.host, k.port)
		wg.Add(1)
		go func(laddr string) {
			defer wg.Done()
			if err := srv.Run(laddr, nil); err != nil {
				logger.Error("server failed", "laddr", laddr, "err", err)
			}
		}(laddr)
	}
	return servers
}

func runAdmin(addr string, stations map[string]*wavecast.Station, logger *logging.Logger) {
	srv := admin.New(stations)
	go func() {
		if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
			logger.Error("admin server failed", "addr", addr, "err", err)
		}
	}()
}

// openLogDestination resolves where logs should go: the --log-file flag
// wins, then every path in the configuration's log_file list (fanned out
// with io.MultiWriter), falling back to stderr.
func openLogDestination(flagPath string, cfgPaths []string) (io.Writer, func(), error) {
	paths := cfgPaths
	if flagPath != "" {
		paths = []string{flagPath}
	}
	if len(paths) == 0 {
		return os.Stderr, nil, nil
	}

	var writers []io.Writer
	var files []*os.File
	for _, p := range paths {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			for _, f := range files {
				f.Close()
			}
			return nil, nil, err
		}
		files = append(files, f)
		writers = append(writers, f)
	}

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	return io.MultiWriter(writers...), closeAll, nil
}
