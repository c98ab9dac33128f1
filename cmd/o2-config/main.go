package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"
	"github.com/tetragramaton/seeed-o2/internal/config"
	"github.com/tetragramaton/seeed-o2/internal/logging"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	if !needsDevice(fs.Arg(0)) {
		if err := Dump(os.Stdout, cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	handler, cleanup, err := InitMainHandler(cfg, logger)
	if err != nil {
		logger.Fatal("init failed", zap.Error(err))
	}
	err = handler.Handle(os.Stdout, fs.Args())
	cleanup()
	if err != nil {
		logger.Fatal("command failed", zap.String("command", fs.Arg(0)), zap.Error(err))
	}
}
