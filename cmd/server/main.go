package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/api"
	"fenrir/internal/engine"
	"fenrir/internal/stream"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:9001", "HTTP listen address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	eng := engine.New()
	hub := stream.NewHub()

	eng.OnTrade(hub.PublishTrade)
	eng.OnBookUpdate(hub.PublishBookUpdate)

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		hub.Run(t)
		return nil
	})

	srv := &http.Server{
		Addr:    *addr,
		Handler: api.New(eng, hub),
	}

	t.Go(func() error {
		log.Info().Str("addr", *addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	<-ctx.Done()
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during http shutdown")
	}

	t.Kill(nil)
	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
