// Package calibration runs an interactive calibration: readings printed
// before and after a single calibration command so the operator can see
// its effect.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tetragramaton/seeed-o2/internal/sensor"
	"go.uber.org/zap"
)

type Driver interface {
	ReadValues() (sensor.Reading, error)
	Calibrate(cmd sensor.CalibrationCommand) (float64, error)
}

type Config struct {
	Samples  int
	Interval time.Duration
}

type Procedure struct {
	cfg    Config
	driver Driver
	out    io.Writer
	logger *zap.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

func New(cfg Config, driver Driver, out io.Writer, logger *zap.Logger) (*Procedure, error) {
	if driver == nil || out == nil {
		return nil, errors.New("calibration: driver and output required")
	}
	if cfg.Samples < 0 {
		return nil, errors.New("calibration: samples must be >= 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Procedure{cfg: cfg, driver: driver, out: out, logger: logger, wait: sleepCtx}, nil
}

// Run prints the BEFORE samples, runs cmd, prints its result and the AFTER
// samples. It returns the calibration result.
func (p *Procedure) Run(ctx context.Context, cmd sensor.CalibrationCommand) (float64, error) {
	fmt.Fprintln(p.out, "Values BEFORE calibration :")
	if err := p.printSamples(ctx); err != nil {
		return 0, err
	}

	p.logger.Info("calibrating", zap.Stringer("command", cmd))
	v, err := p.driver.Calibrate(cmd)
	if err != nil {
		return 0, fmt.Errorf("calibration %s: %w", cmd, err)
	}
	fmt.Fprintln(p.out, ResultLine(cmd, v))

	fmt.Fprintln(p.out, "Values AFTER calibration:")
	if err := p.printSamples(ctx); err != nil {
		return v, err
	}
	return v, nil
}

// ResultLine describes the value returned by cmd.
func ResultLine(cmd sensor.CalibrationCommand, v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	switch cmd.(type) {
	case sensor.Calibrate100:
		return "Calibration slope :" + s
	case sensor.Calibrate0:
		return "Zero offset :" + s
	case sensor.CalibrateTemperature:
		return "Temperature offset :" + s + "°C"
	default:
		return cmd.String() + " :" + s
	}
}

func (p *Procedure) printSamples(ctx context.Context) error {
	for i := 0; i < p.cfg.Samples; i++ {
		if err := p.wait(ctx, p.cfg.Interval); err != nil {
			return err
		}
		r, err := p.driver.ReadValues()
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, sensor.FormatHuman(r))
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
