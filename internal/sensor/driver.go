// Package sensor drives the Seeed optical dissolved-oxygen sensor over
// Modbus RTU: measurement reads, calibration and device configuration.
//
// A Driver issues one synchronous transaction per call and keeps no state
// between calls. It is not safe for concurrent use; the serial port it
// talks through is an exclusively owned resource.
package sensor

import (
	"encoding/binary"
	"fmt"
	"time"

	modbusIface "github.com/tetragramaton/seeed-o2/internal/interface/modbus"
	"go.uber.org/zap"
)

// DefaultSettle is how long the device needs after a temperature
// calibration or baud rate write before the result register is valid.
const DefaultSettle = time.Second

type Driver struct {
	api    modbusIface.API
	logger *zap.Logger
	settle time.Duration
	sleep  func(time.Duration)
}

type Option func(*Driver)

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithSettleDelay overrides DefaultSettle. Values below one second are
// raised to one second because the device does not answer correctly sooner.
func WithSettleDelay(delay time.Duration) Option {
	return func(d *Driver) {
		if delay > DefaultSettle {
			d.settle = delay
		}
	}
}

func New(api modbusIface.API, opts ...Option) *Driver {
	d := &Driver{
		api:    api,
		logger: zap.NewNop(),
		settle: DefaultSettle,
		sleep:  time.Sleep,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ReadRaw reads the measurement block in one FC 3 transaction and returns
// [temperature x10, DO x100, saturation x10].
func (d *Driver) ReadRaw() ([]uint16, error) {
	return d.readRegisters(RegMeasurements, measurementCount)
}

// ReadValues reads and converts one measurement block.
func (d *Driver) ReadValues() (Reading, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return Reading{}, err
	}
	return Convert(raw)
}

// WriteRegister writes value to a single holding register with FC 6.
// Scaling is the caller's job; value must fit an unsigned 16-bit register.
func (d *Driver) WriteRegister(addr uint16, value int) error {
	if value < 0 || value > 0xFFFF {
		return &ValidationError{Param: fmt.Sprintf("register %d value", addr), Value: value, Reason: "must fit in 16 bits"}
	}
	d.logger.Debug("write register", zap.Uint16("register", addr), zap.Int("value", value))
	if _, err := d.api.WriteSingleRegister(addr, uint16(value)); err != nil {
		d.logger.Warn("write register failed", zap.Uint16("register", addr), zap.Error(err))
		return &TransportError{Op: "write", Register: addr, Err: err}
	}
	return nil
}

func (d *Driver) readRegister(addr uint16) (uint16, error) {
	regs, err := d.readRegisters(addr, 1)
	if err != nil {
		return 0, err
	}
	return regs[0], nil
}

func (d *Driver) readRegisters(addr, count uint16) ([]uint16, error) {
	d.logger.Debug("read registers", zap.Uint16("register", addr), zap.Uint16("count", count))
	res, err := d.api.ReadHoldingRegisters(addr, count)
	if err != nil {
		d.logger.Warn("read registers failed", zap.Uint16("register", addr), zap.Error(err))
		return nil, &TransportError{Op: "read", Register: addr, Err: err}
	}
	if len(res) < 2*int(count) {
		return nil, &TransportError{
			Op:       "read",
			Register: addr,
			Err:      fmt.Errorf("%w: %d bytes for %d registers", ErrShortResponse, len(res), count),
		}
	}
	regs := make([]uint16, count)
	for i := range regs {
		regs[i] = binary.BigEndian.Uint16(res[2*i:])
	}
	return regs, nil
}
