package main

import (
	"context"
	"os"

	"github.com/tetragramaton/seeed-o2/internal/calibration"
	"github.com/tetragramaton/seeed-o2/internal/config"
	"github.com/tetragramaton/seeed-o2/internal/sensor"
	"go.uber.org/zap"
)

type MainHandler struct {
	Config *config.Config
	Logger *zap.Logger
	Driver *sensor.Driver
}

func NewMainHandler(cfg *config.Config, logger *zap.Logger, driver *sensor.Driver) *MainHandler {
	return &MainHandler{Config: cfg, Logger: logger, Driver: driver}
}

func (h *MainHandler) Handle(ctx context.Context, cmd sensor.CalibrationCommand) error {
	p, err := calibration.New(calibration.Config{
		Samples:  h.Config.Calibration.Samples,
		Interval: h.Config.Calibration.Interval,
	}, h.Driver, os.Stdout, h.Logger.Named("calibration"))
	if err != nil {
		return err
	}
	v, err := p.Run(ctx, cmd)
	if err != nil {
		return err
	}
	h.Logger.Info("calibration done", zap.Stringer("command", cmd), zap.Float64("result", v))
	return nil
}
