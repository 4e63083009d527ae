package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	journalcmd "github.com/louisbranch/crawlspace/internal/cmd/journal"
	"github.com/louisbranch/crawlspace/internal/platform/config"
)

func main() {
	cfg, err := journalcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[JOURNAL] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := journalcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to read journal: %v", err)
	}
}
