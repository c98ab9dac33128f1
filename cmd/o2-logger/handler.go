package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tetragramaton/seeed-o2/internal/config"
	"github.com/tetragramaton/seeed-o2/internal/datalog"
	"github.com/tetragramaton/seeed-o2/internal/sensor"
	"go.uber.org/zap"
)

type MainHandler struct {
	Config *config.Config
	Logger *zap.Logger
	Driver *sensor.Driver
	Sink   *datalog.MQTTSink
}

func NewMainHandler(
	cfg *config.Config,
	logger *zap.Logger,
	driver *sensor.Driver,
	sink *datalog.MQTTSink,
) *MainHandler {
	return &MainHandler{
		Config: cfg,
		Logger: logger,
		Driver: driver,
		Sink:   sink,
	}
}

// Handle appends one record per interval to the output file until ctx ends.
func (h *MainHandler) Handle(ctx context.Context) error {
	f, err := datalog.OpenAppend(h.Config.Logger.Output)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			h.Logger.Warn("close data log", zap.Error(err))
		}
	}()

	opts := []datalog.Option{datalog.WithLogger(h.Logger.Named("datalog"))}
	if h.Config.Logger.Echo {
		opts = append(opts, datalog.WithEcho(os.Stdout))
	}
	if h.Sink != nil {
		if h.Config.MQTT.Discovery {
			if err := h.Sink.Announce(); err != nil {
				h.Logger.Warn("discovery publish", zap.Error(err))
			}
		}
		opts = append(opts, datalog.WithPublisher(h.Sink))
	}

	task, err := datalog.New(datalog.Config{
		Interval:        h.Config.Logger.Interval,
		ContinueOnError: h.Config.Logger.ContinueOnError,
	}, h.Driver, f, opts...)
	if err != nil {
		return err
	}

	h.Logger.Info("logging to file", zap.String("output", h.Config.Logger.Output))
	if err := task.Run(ctx); err != nil {
		return fmt.Errorf("data logging: %w", err)
	}
	return nil
}
