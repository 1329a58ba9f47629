package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"jobinsights-engine/internal/config"
	"jobinsights-engine/internal/directory"
	"jobinsights-engine/internal/events"
	"jobinsights-engine/internal/hh"
	"jobinsights-engine/internal/httpapi"
	"jobinsights-engine/internal/session"
)

// Shipped defaults, copied into the data dir on first start.
const defaultConfigPath = "config/config.yml"

func main() {
	// Engine data dir: use env if provided (a desktop shell can pass one),
	// else local folder.
	dataDir := os.Getenv("JOBINSIGHTS_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	cfgPath, err := config.EnsureUserConfig(dataDir, defaultConfigPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", cfgPath, err)
	}
	cfg, validation := config.NormalizeAndValidate(cfg)
	for _, warn := range validation.Warnings {
		log.Printf("[config] warning: %s", warn)
	}
	if !validation.OK() {
		log.Fatalf("config invalid: %v", validation.Errors)
	}

	client := hh.NewClient(cfg.API.BaseURL, cfg.API.UserAgent,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	// Reference data is fatal for the session: no directory, no usable run.
	// Surfaced verbatim for diagnosis.
	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dir, err := directory.Load(loadCtx, client)
	cancel()
	if err != nil {
		if errors.Is(err, directory.ErrUnavailable) {
			log.Fatalf("[engine] %v", err)
		}
		log.Fatalf("[engine] directory load: %v", err)
	}
	log.Printf("[engine] directory loaded: %d regions, %d sort orders",
		len(dir.RegionNames()), len(dir.SortOrders()))

	hub := events.NewHub()
	runner := session.NewRunner(cfg, dir, client)

	api := &httpapi.Server{Cfg: cfg, Runner: runner, Dir: dir, Hub: hub}
	mux := http.NewServeMux()
	api.Routes(mux)

	srv := &http.Server{
		Handler:           cors.AllowAll().Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(token, srv))

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[engine] listening on http://%s (reports=%s shutdown-token=%s)",
		addr, cfg.App.ReportsDir, token)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
