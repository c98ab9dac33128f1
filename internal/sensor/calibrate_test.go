package sensor

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
)

func TestCalibrate100(t *testing.T) {
	d, api, _ := newTestDriver(t)
	gomock.InOrder(
		api.EXPECT().WriteSingleRegister(uint16(4099), uint16(0)).Return(regs(4099, 0), nil),
		api.EXPECT().ReadHoldingRegisters(uint16(4099), uint16(1)).Return(regs(105), nil),
	)

	slope, err := d.Calibrate100()
	if err != nil {
		t.Fatalf("Calibrate100 err=%v", err)
	}
	if slope != 1.05 {
		t.Fatalf("slope=%v, want 1.05", slope)
	}
}

func TestCalibrate0(t *testing.T) {
	d, api, slept := newTestDriver(t)
	gomock.InOrder(
		api.EXPECT().WriteSingleRegister(uint16(4097), uint16(0)).Return(regs(4097, 0), nil),
		api.EXPECT().ReadHoldingRegisters(uint16(4097), uint16(1)).Return(regs(37), nil),
	)

	offset, err := d.Calibrate0()
	if err != nil {
		t.Fatalf("Calibrate0 err=%v", err)
	}
	if offset != 37 {
		t.Fatalf("offset=%d, want raw 37", offset)
	}
	if len(*slept) != 0 {
		t.Fatalf("zero calibration must not wait, slept %v", *slept)
	}
}

func TestCalibrateTemperature_Ordering(t *testing.T) {
	d, api, _ := newTestDriver(t)

	var seq []string
	d.sleep = func(delay time.Duration) {
		if delay < time.Second {
			t.Fatalf("settle delay %v shorter than 1s", delay)
		}
		seq = append(seq, "sleep")
	}
	gomock.InOrder(
		api.EXPECT().WriteSingleRegister(uint16(4096), uint16(250)).
			DoAndReturn(func(_, _ uint16) ([]byte, error) {
				seq = append(seq, "write")
				return regs(4096, 250), nil
			}),
		api.EXPECT().ReadHoldingRegisters(uint16(4096), uint16(1)).
			DoAndReturn(func(_, _ uint16) ([]byte, error) {
				seq = append(seq, "read")
				return regs(3), nil
			}),
	)

	offset, err := d.CalibrateTemperature(25)
	if err != nil {
		t.Fatalf("CalibrateTemperature err=%v", err)
	}
	if math.Abs(offset-0.3) > 1e-9 {
		t.Fatalf("offset=%v, want 0.3", offset)
	}
	if want := []string{"write", "sleep", "read"}; len(seq) != 3 || seq[0] != want[0] || seq[1] != want[1] || seq[2] != want[2] {
		t.Fatalf("sequence=%v, want %v", seq, want)
	}
}

func TestCalibrateTemperature_FractionalTarget(t *testing.T) {
	d, api, _ := newTestDriver(t)
	gomock.InOrder(
		api.EXPECT().WriteSingleRegister(uint16(4096), uint16(187)).Return(regs(4096, 187), nil),
		api.EXPECT().ReadHoldingRegisters(uint16(4096), uint16(1)).Return(regs(0), nil),
	)

	if _, err := d.CalibrateTemperature(18.7); err != nil {
		t.Fatalf("CalibrateTemperature err=%v", err)
	}
}

func TestCalibrateTemperature_Invalid(t *testing.T) {
	d, _, _ := newTestDriver(t)

	for _, target := range []float64{-1, math.NaN(), math.Inf(1), 7000} {
		if _, err := d.CalibrateTemperature(target); !IsValidation(err) {
			t.Fatalf("CalibrateTemperature(%v) err=%v, want ValidationError", target, err)
		}
	}
}

func TestCalibrate_WriteFailureSkipsRead(t *testing.T) {
	d, api, _ := newTestDriver(t)
	api.EXPECT().WriteSingleRegister(uint16(4099), uint16(0)).Return(nil, errors.New("no response"))

	if _, err := d.Calibrate100(); !IsTransport(err) {
		t.Fatalf("err=%v, want TransportError", err)
	}
}

func TestParseCalibration(t *testing.T) {
	tests := []struct {
		mode string
		want CalibrationCommand
	}{
		{"100", Calibrate100{}},
		{"0", Calibrate0{}},
		{"temp", CalibrateTemperature{TargetC: 21.5}},
	}
	for _, tt := range tests {
		got, err := ParseCalibration(tt.mode, 21.5)
		if err != nil {
			t.Fatalf("ParseCalibration(%q) err=%v", tt.mode, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCalibration(%q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
	if _, err := ParseCalibration("50", 0); !IsValidation(err) {
		t.Fatalf("expected ValidationError for unknown mode, got %v", err)
	}
}
