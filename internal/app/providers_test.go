package app

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/tetragramaton/seeed-o2/internal/config"
	"github.com/tetragramaton/seeed-o2/internal/interface/modbus/mock_modbus"
	"go.uber.org/zap"
)

func TestModbusConfig(t *testing.T) {
	got := ModbusConfig(config.SerialConfig{
		Port:           "/dev/ttyUSB1",
		SlaveID:        55,
		BaudRate:       19200,
		DataBits:       8,
		Parity:         "N",
		StopBits:       1,
		Timeout:        100 * time.Millisecond,
		CloseAfterCall: true,
	})
	if got.Port != "/dev/ttyUSB1" || got.SlaveID != 55 || got.BaudRate != 19200 || !got.CloseAfterCall {
		t.Fatalf("unexpected modbus config %+v", got)
	}
}

func TestProvideMQTTSink_Disabled(t *testing.T) {
	sink, cleanup, err := ProvideMQTTSink(&config.Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	defer cleanup()
	if sink != nil {
		t.Fatalf("expected nil sink when mqtt disabled")
	}
}

func TestProvideDriver_ReadsThroughClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_modbus.NewMockClient(ctrl)
	client.EXPECT().ReadHoldingRegisters(uint16(256), uint16(3)).Return([]byte{0, 235, 2, 208, 3, 213}, nil)

	d := ProvideDriver(client, &config.Config{Calibration: config.CalibrationConfig{Settle: time.Second}}, zap.NewNop())
	r, err := d.ReadValues()
	if err != nil {
		t.Fatalf("ReadValues err=%v", err)
	}
	if r.TemperatureC != 23.5 || r.DissolvedOxygenMgL != 7.2 || r.SaturationPct != 98.1 {
		t.Fatalf("unexpected reading %+v", r)
	}
}
