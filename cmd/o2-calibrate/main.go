package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/tetragramaton/seeed-o2/internal/config"
	"github.com/tetragramaton/seeed-o2/internal/logging"
	"github.com/tetragramaton/seeed-o2/internal/sensor"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(fs)
	mode := fs.String("mode", "100", `calibration: "100" (air-saturated water), "0" (anaerobic water) or "temp"`)
	target := fs.Float64("temp", 25, "temperature of the calibration solution in °C (mode temp)")
	_ = fs.Parse(os.Args[1:])

	cmd, err := sensor.ParseCalibration(*mode, *target)
	if err != nil {
		log.Fatalf("bad mode: %v", err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = handler.Handle(ctx, cmd)
	stop()
	cleanup()
	if err != nil {
		logger.Fatal("calibration failed", zap.Error(err))
	}
}
