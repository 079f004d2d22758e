package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-app/internal/app"
	"trivia-app/internal/config"
	"trivia-app/internal/kv"
	"trivia-app/internal/opentdb"
	"trivia-app/internal/scores"
	"trivia-app/internal/web"
)

func main() {
	if err := run(); err != nil {
		log.Printf("trivia-web: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse("trivia-web", os.Args[1:], os.Getenv)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kv.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	fetcher := opentdb.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout})
	board := scores.NewBoard(scores.NewStore(store), scores.SystemClock)
	controller := app.New(board, fetcher, app.Options{
		Amount:       cfg.QuestionCount,
		Async:        true,
		FetchTimeout: cfg.HTTPTimeout,
	})

	handler := web.NewServer(controller, web.Options{
		CookieTTL:      cfg.CookieTTL,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	controller.Start(ctx)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("trivia-web listening on %s (store: %s)", cfg.Addr, cfg.Store.Driver)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Printf("trivia-web shutting down")
	return server.Shutdown(shutdownCtx)
}
