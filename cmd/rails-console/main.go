package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forest-rails/internal/app"
	"forest-rails/internal/console"
)

func main() {
	cfg := app.NewConfig()
	cfg.BindWorld(flag.CommandLine)
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	logger := log.New(os.Stderr, "[rails-console] ", log.LstdFlags|log.Lmicroseconds)
	if !*verbose {
		logger.SetOutput(io.Discard)
	}

	host, err := cfg.Open(logger, time.Now())
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := console.NewSession(host.World, host.Profile, os.Stdout, logger)
	runErr := session.Run(ctx, os.Stdin)
	if err := host.Close(); err != nil {
		logger.Printf("close: %v", err)
	}
	if runErr != nil && ctx.Err() == nil {
		log.Fatal(runErr)
	}
}
