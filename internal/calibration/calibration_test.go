package calibration

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tetragramaton/seeed-o2/internal/sensor"
)

type fakeDriver struct {
	reads      int
	calibrated []sensor.CalibrationCommand
	result     float64
	calErr     error
	readErrAt  int
}

func (f *fakeDriver) ReadValues() (sensor.Reading, error) {
	f.reads++
	if f.readErrAt != 0 && f.reads == f.readErrAt {
		return sensor.Reading{}, &sensor.TransportError{Op: "read", Register: sensor.RegMeasurements, Err: errors.New("timeout")}
	}
	return sensor.Reading{TemperatureC: 23.5, DissolvedOxygenMgL: 7.2, SaturationPct: 98.1}, nil
}

func (f *fakeDriver) Calibrate(cmd sensor.CalibrationCommand) (float64, error) {
	f.calibrated = append(f.calibrated, cmd)
	return f.result, f.calErr
}

func newTestProcedure(t *testing.T, samples int, d Driver, out *bytes.Buffer) *Procedure {
	t.Helper()
	p, err := New(Config{Samples: samples, Interval: time.Second}, d, out, nil)
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	p.wait = func(context.Context, time.Duration) error { return nil }
	return p
}

func TestRun_Calibrate100(t *testing.T) {
	d := &fakeDriver{result: 1.05}
	var out bytes.Buffer
	p := newTestProcedure(t, 9, d, &out)

	v, err := p.Run(context.Background(), sensor.Calibrate100{})
	if err != nil {
		t.Fatalf("Run err=%v", err)
	}
	if v != 1.05 {
		t.Fatalf("result=%v", v)
	}
	if d.reads != 18 {
		t.Fatalf("expected 9 samples before and after, got %d reads", d.reads)
	}
	if len(d.calibrated) != 1 {
		t.Fatalf("expected exactly one calibration, got %d", len(d.calibrated))
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 21 {
		t.Fatalf("expected 21 output lines, got %d:\n%s", len(lines), out.String())
	}
	if lines[0] != "Values BEFORE calibration :" {
		t.Fatalf("first line %q", lines[0])
	}
	if lines[10] != "Calibration slope :1.05" {
		t.Fatalf("result line %q", lines[10])
	}
	if lines[11] != "Values AFTER calibration:" {
		t.Fatalf("after header %q", lines[11])
	}
	if lines[1] != "Temp:23.5°C, DO:7.2mg/L, Sat:98.1%" {
		t.Fatalf("sample line %q", lines[1])
	}
}

func TestRun_CalibrationFailure(t *testing.T) {
	d := &fakeDriver{calErr: &sensor.TransportError{Op: "write", Register: sensor.RegCalSaturation, Err: errors.New("no response")}}
	var out bytes.Buffer
	p := newTestProcedure(t, 2, d, &out)

	if _, err := p.Run(context.Background(), sensor.Calibrate100{}); !sensor.IsTransport(err) {
		t.Fatalf("Run err=%v, want TransportError", err)
	}
	if d.reads != 2 {
		t.Fatalf("AFTER samples must not run on failure, got %d reads", d.reads)
	}
}

func TestRun_ReadFailureBeforeCalibration(t *testing.T) {
	d := &fakeDriver{readErrAt: 1}
	var out bytes.Buffer
	p := newTestProcedure(t, 3, d, &out)

	if _, err := p.Run(context.Background(), sensor.Calibrate0{}); !sensor.IsTransport(err) {
		t.Fatalf("Run err=%v, want TransportError", err)
	}
	if len(d.calibrated) != 0 {
		t.Fatalf("calibration must not run after a failed sample")
	}
}

func TestRun_Cancelled(t *testing.T) {
	d := &fakeDriver{}
	var out bytes.Buffer
	p, err := New(Config{Samples: 3, Interval: time.Hour}, d, &out, nil)
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Run(ctx, sensor.Calibrate100{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err=%v, want context.Canceled", err)
	}
	if d.reads != 0 {
		t.Fatalf("expected no reads after cancel, got %d", d.reads)
	}
}

func TestResultLine(t *testing.T) {
	tests := []struct {
		cmd  sensor.CalibrationCommand
		v    float64
		want string
	}{
		{sensor.Calibrate100{}, 1.05, "Calibration slope :1.05"},
		{sensor.Calibrate0{}, 37, "Zero offset :37"},
		{sensor.CalibrateTemperature{TargetC: 25}, 0.3, "Temperature offset :0.3°C"},
	}
	for _, tt := range tests {
		if got := ResultLine(tt.cmd, tt.v); got != tt.want {
			t.Fatalf("ResultLine(%v) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}
