package sensor

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
)

func TestSetAddress_OutOfRange(t *testing.T) {
	// The mock has no expectations: any transaction fails the test.
	d, _, _ := newTestDriver(t)

	for _, addr := range []int{0, 128, -5, 255} {
		if err := d.SetAddress(addr); !IsValidation(err) {
			t.Fatalf("SetAddress(%d) err=%v, want ValidationError", addr, err)
		}
	}
}

func TestSetAddress(t *testing.T) {
	d, api, _ := newTestDriver(t)
	api.EXPECT().WriteSingleRegister(uint16(8192), uint16(55)).Return(regs(8192, 55), nil).Times(1)

	if err := d.SetAddress(55); err != nil {
		t.Fatalf("SetAddress err=%v", err)
	}
}

func TestSetAddress_Bounds(t *testing.T) {
	d, api, _ := newTestDriver(t)
	api.EXPECT().WriteSingleRegister(uint16(8192), uint16(1)).Return(regs(8192, 1), nil)
	api.EXPECT().WriteSingleRegister(uint16(8192), uint16(127)).Return(regs(8192, 127), nil)

	for _, addr := range []int{1, 127} {
		if err := d.SetAddress(addr); err != nil {
			t.Fatalf("SetAddress(%d) err=%v", addr, err)
		}
	}
}

func TestSetBaudRate(t *testing.T) {
	tests := []struct {
		rate int
		code uint16
	}{
		{4800, 0},
		{9600, 1},
		{19200, 2},
	}
	for _, tt := range tests {
		d, api, slept := newTestDriver(t)
		gomock.InOrder(
			api.EXPECT().WriteSingleRegister(uint16(8195), tt.code).Return(regs(8195, tt.code), nil),
			api.EXPECT().ReadHoldingRegisters(uint16(8195), uint16(1)).Return(regs(tt.code), nil),
		)

		got, err := d.SetBaudRate(tt.rate)
		if err != nil {
			t.Fatalf("SetBaudRate(%d) err=%v", tt.rate, err)
		}
		if got != tt.code {
			t.Fatalf("SetBaudRate(%d) = %d, want %d", tt.rate, got, tt.code)
		}
		if len(*slept) != 1 || (*slept)[0] < time.Second {
			t.Fatalf("SetBaudRate(%d) slept %v, want one wait of at least 1s", tt.rate, *slept)
		}
	}
}

func TestSetBaudRate_Invalid(t *testing.T) {
	d, _, slept := newTestDriver(t)

	for _, rate := range []int{0, 1200, 38400, 115200} {
		if _, err := d.SetBaudRate(rate); !IsValidation(err) {
			t.Fatalf("SetBaudRate(%d) err=%v, want ValidationError", rate, err)
		}
	}
	if len(*slept) != 0 {
		t.Fatalf("rejected rates must not wait, slept %v", *slept)
	}
}

func TestReset(t *testing.T) {
	d, api, _ := newTestDriver(t)
	api.EXPECT().WriteSingleRegister(uint16(8224), uint16(0)).Return(regs(8224, 0), nil).Times(1)

	if err := d.Reset(); err != nil {
		t.Fatalf("Reset err=%v", err)
	}
}
