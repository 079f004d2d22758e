package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"trivia-app/internal/app"
	"trivia-app/internal/cli"
	"trivia-app/internal/config"
	"trivia-app/internal/kv"
	"trivia-app/internal/opentdb"
	"trivia-app/internal/scores"
)

func main() {
	cfg, err := config.Parse("trivia", os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := kv.Open(ctx, cfg.Store)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: open store:", err)
		os.Exit(1)
	}
	defer store.Close()

	fetcher := opentdb.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout})
	board := scores.NewBoard(scores.NewStore(store), scores.SystemClock)
	controller := app.New(board, fetcher, app.Options{
		Amount:       cfg.QuestionCount,
		FetchTimeout: cfg.HTTPTimeout,
	})

	if err := cli.Run(ctx, os.Stdin, os.Stdout, controller); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		store.Close()
		os.Exit(1)
	}
}
