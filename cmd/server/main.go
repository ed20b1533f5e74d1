// Package main wires together the connection hub, room registry, and
// their collaborators (track source, stats sink, rate limiter, signed-
// token verifier) into one listening process, per spec.md 6's
// "Environment/process interface". Grounded on the teacher's
// cmd/server/main.go startup sequence (init DB, init managers, init
// handlers, build the mux, graceful shutdown), generalized to this
// repo's actor-based room manager and re-expressed as a Cobra root
// command per SPEC_FULL.md's DOMAIN STACK.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"

	"beattrack/internal/authtoken"
	"beattrack/internal/config"
	"beattrack/internal/healthhttp"
	"beattrack/internal/hub"
	"beattrack/internal/ratelimit"
	"beattrack/internal/rooms"
	"beattrack/internal/statssink"
	"beattrack/internal/tracksource"
)

func main() {
	cfg := &config.Config{}
	root := &cobra.Command{
		Use:   "beattrack-server",
		Short: "Realtime multiplayer music-guessing game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	config.BindFlags(root, cfg)

	if err := root.Execute(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Println("=== beattrack server ===")

	statsSink, closeSink := buildStatsSink(cfg.StatsDBPath)
	defer closeSink()

	verifier := buildVerifier(cfg.SessionSecret)

	limiter := ratelimit.New()
	defer limiter.Stop()

	trackSource := tracksource.NewDeezerSource(cfg.TrackSourceBaseURL)

	registry := rooms.New(rooms.Config{
		TrackSource: trackSource,
		StatsSink:   statsSink,
		Limiter:     limiter,
		// Broadcaster is set below once the hub exists; the registry
		// only needs it at CreateRoom time, which happens after New.
	})
	defer registry.Stop()

	connHub := hub.New(registry, verifier)
	defer connHub.Stop()
	registry.SetBroadcaster(connHub)

	mux := httprouter.New()
	healthhttp.Register(mux, registry, connHub)
	mux.Handler(http.MethodGet, "/ws", connHub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErrs := make(chan error, 1)
	go func() {
		log.Printf("[SERVER] listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrs <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErrs:
		return err
	case <-quit:
	}

	drain := time.Duration(cfg.ShutdownDrainSecs) * time.Second
	log.Printf("[SERVER] shutting down, draining for up to %s", humanize.RelTime(time.Now(), time.Now().Add(drain), "", ""))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[SERVER] force-closing after drain timeout: %v", err)
		server.Close()
	}
	log.Println("[SERVER] stopped cleanly")
	return nil
}

// buildStatsSink opens the sqlite-backed sink when a path is configured,
// falling back to the noop sink otherwise, per spec.md 4.4's "treat
// credentials as optional with graceful fallback" pattern.
func buildStatsSink(path string) (statssink.Sink, func()) {
	if path == "" {
		log.Println("[OK] stats sink: noop (no --stats-db-path configured)")
		return statssink.NoopSink{}, func() {}
	}
	sink, err := statssink.OpenSQLiteSink(path)
	if err != nil {
		log.Printf("[WARN] stats sink: could not open %s: %v, falling back to noop", path, err)
		return statssink.NoopSink{}, func() {}
	}
	return sink, func() { _ = sink.Close() }
}

// buildVerifier constructs a token verifier when a session secret is
// configured; otherwise every connection is a guest, per spec.md 9's
// "absence of auth is a guest with a transient id".
func buildVerifier(secret string) *authtoken.Verifier {
	if secret == "" {
		log.Println("[WARN] no --session-secret configured; all sessions are guests")
		return nil
	}
	v, err := authtoken.NewVerifier(secret)
	if err != nil {
		log.Printf("[WARN] invalid session secret: %v; all sessions are guests", err)
		return nil
	}
	return v
}
