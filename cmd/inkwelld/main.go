// Command inkwelld serves the drawing API over HTTP: parsed SVG
// strokes are animated onto one shared in-memory board.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benoitkugler/inkwell/animator"
	"github.com/benoitkugler/inkwell/board"
	"github.com/benoitkugler/inkwell/drawapi"
)

func main() {
	addr := flag.String("addr", ":8990", "listen address")
	extent := flag.Float64("extent", board.DefaultExtent, "canvas side length, in canvas units")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	b := board.New(*extent, logger)
	anim := animator.New(b, animator.RealClock{}, logger)
	api := drawapi.New(b, anim, logger)

	srv := &http.Server{Addr: *addr, Handler: api.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		// closing the board first abandons the in-flight animation;
		// uncommitted strokes are discarded
		b.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("inkwelld listening", "addr", *addr, "extent", *extent)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server", "err", err)
		os.Exit(1)
	}
}
