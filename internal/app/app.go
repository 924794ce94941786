package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	server "duskhall/server"
	"duskhall/server/logging"
	loggingSinks "duskhall/server/logging/sinks"
)

// Run assembles the process: logging router, player store, world, hub, HTTP
// surface. Blocks until ctx is canceled or the listener fails.
func Run(ctx context.Context) error {
	logConfig := logging.DefaultConfig()
	sinks := map[string]logging.Sink{
		"console": loggingSinks.NewConsole(os.Stdout),
	}
	if path := os.Getenv("LOG_JSON_PATH"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
		logConfig.JSON.FilePath = path
		sinks["json"] = loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval)
	}

	router, err := logging.NewRouter(logging.SystemClock{}, logConfig, sinks)
	if err != nil {
		return fmt.Errorf("construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			log.Printf("close logging router: %v", cerr)
		}
	}()

	dbPath := os.Getenv("DUSKHALL_DB")
	if dbPath == "" {
		dbPath = "duskhall.db"
	}
	store, err := server.OpenStore(dbPath)
	if err != nil {
		return fmt.Errorf("open player store: %w", err)
	}
	defer store.Close()

	worldCfg := server.DefaultWorldConfig()
	if raw := os.Getenv("WORLD_SEED"); raw != "" {
		worldCfg.Seed = raw
	}
	if raw := os.Getenv("GOBLIN_COUNT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			worldCfg.GoblinCount = value
		} else {
			log.Printf("invalid GOBLIN_COUNT=%q: %v", raw, err)
		}
	}
	worldCfg = worldCfg.Normalized()

	telemetry := server.NewTelemetry()
	world := server.NewWorld(worldCfg, router, telemetry)
	hub := server.NewHub(world, store, router, telemetry, worldCfg)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go hub.Run(runCtx)

	handler := server.NewHTTPHandler(hub, server.HTTPHandlerConfig{
		Telemetry:   telemetry,
		RouterStats: router.Stats,
	})

	addr := os.Getenv("DUSKHALL_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: handler}
	log.Printf("server listening on %s", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
