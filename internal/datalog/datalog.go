// Package datalog samples the sensor on a fixed interval and appends one
// timestamped record per sample to a log file.
package datalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tetragramaton/seeed-o2/internal/sensor"
	"go.uber.org/zap"
)

// TimeLayout is the record timestamp, MM/DD/YYYY HH:MM:SS local time.
const TimeLayout = "01/02/2006 15:04:05"

// Reader is the part of the sensor driver the task samples.
type Reader interface {
	ReadValues() (sensor.Reading, error)
}

// Publisher receives every successful sample in addition to the file.
type Publisher interface {
	Publish(r sensor.Reading, at time.Time) error
}

type Config struct {
	Interval time.Duration
	// ContinueOnError logs a failed read and waits for the next tick
	// instead of ending Run.
	ContinueOnError bool
}

type Task struct {
	cfg       Config
	reader    Reader
	out       io.Writer
	echo      io.Writer
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Task)

// WithEcho copies every record line to w.
func WithEcho(w io.Writer) Option {
	return func(t *Task) { t.echo = w }
}

func WithPublisher(p Publisher) Option {
	return func(t *Task) { t.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Task) {
		if l != nil {
			t.logger = l
		}
	}
}

func New(cfg Config, reader Reader, out io.Writer, opts ...Option) (*Task, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("datalog: interval must be > 0")
	}
	if reader == nil || out == nil {
		return nil, errors.New("datalog: reader and output required")
	}
	t := &Task{
		cfg:    cfg,
		reader: reader,
		out:    out,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// FormatLine renders one log file line.
func FormatLine(at time.Time, r sensor.Reading) string {
	return at.Format(TimeLayout) + ";" + sensor.FormatRecord(r) + "\n"
}

// OpenAppend opens path for appending, creating it if needed. Existing
// records are never rewritten.
func OpenAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("datalog: open %s: %w", path, err)
	}
	return f, nil
}

// Run samples once per interval until ctx is cancelled, then returns nil.
// The first sample is taken one interval after start.
func (t *Task) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	t.logger.Info("data logging started", zap.Duration("interval", t.cfg.Interval))
	defer t.logger.Info("data logging stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			if err := t.SampleOnce(); err != nil {
				if t.cfg.ContinueOnError && sensor.IsTransport(err) {
					t.logger.Warn("sample failed, continuing", zap.Error(err))
					continue
				}
				return err
			}
		}
	}
}

// SampleOnce reads the sensor and writes one record.
func (t *Task) SampleOnce() error {
	r, err := t.reader.ReadValues()
	if err != nil {
		return err
	}
	at := t.now()
	line := FormatLine(at, r)

	if _, err := io.WriteString(t.out, line); err != nil {
		return fmt.Errorf("datalog: write record: %w", err)
	}
	if t.echo != nil {
		if _, err := io.WriteString(t.echo, line); err != nil {
			t.logger.Warn("echo record", zap.Error(err))
		}
	}
	if t.publisher != nil {
		if err := t.publisher.Publish(r, at); err != nil {
			t.logger.Warn("publish reading", zap.Error(err))
		}
	}
	return nil
}
