package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"equipment-access/internal/bootstrap"
	"equipment-access/pkg/config"
	applogger "equipment-access/pkg/logger"
	"equipment-access/seeders"
)

func main() {
	file := flag.String("file", "", "YAML fixture to load (default: bundled example)")
	flag.Parse()

	var (
		fixture *seeders.Fixture
		err     error
	)
	if *file == "" {
		fixture, err = seeders.Load(bytes.NewReader(seeders.Example))
	} else {
		fixture, err = seeders.LoadFile(*file)
	}
	if err != nil {
		log.Fatalf("load fixture: %v", err)
	}

	cfg := config.New()
	logger := applogger.MustNewLogger(cfg.Log.Level, cfg.Log.Output...)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer container.Close()

	report, err := seeders.Apply(ctx, fixture, container.Services, logger)
	if err != nil {
		log.Printf("seed: %v", err)
		return
	}
	log.Printf("seeded persons=%d providers=%d equipment=%d entries=%d",
		report.Persons, report.Providers, report.Equipment, report.Entries)
}
