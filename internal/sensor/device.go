package sensor

import "go.uber.org/zap"

// SetAddress changes the slave address stored by the device.
// Out of range addresses are rejected without a transaction.
func (d *Driver) SetAddress(addr int) error {
	if addr < MinSlaveAddress || addr > MaxSlaveAddress {
		return &ValidationError{Param: "slave address", Value: addr, Reason: "must be in 1..127"}
	}
	if err := d.WriteRegister(RegSlaveAddress, addr); err != nil {
		return err
	}
	d.logger.Info("slave address written", zap.Int("address", addr))
	return nil
}

// SetBaudRate stores a new line rate (4800, 9600 or 19200) and returns the
// code read back from the device. The device applies it after a restart.
func (d *Driver) SetBaudRate(rate int) (uint16, error) {
	code, ok := BaudCode(rate)
	if !ok {
		return 0, &ValidationError{Param: "baud rate", Value: rate, Reason: "must be 4800, 9600 or 19200"}
	}
	if err := d.WriteRegister(RegBaudRate, int(code)); err != nil {
		return 0, err
	}
	d.sleep(d.settle)
	got, err := d.readRegister(RegBaudRate)
	if err != nil {
		return 0, err
	}
	if got != code {
		d.logger.Warn("baud rate read back differs", zap.Uint16("want", code), zap.Uint16("got", got))
	}
	return got, nil
}

// Reset restores factory calibration. Every calibration must be redone.
func (d *Driver) Reset() error {
	if err := d.WriteRegister(RegFactoryReset, 0); err != nil {
		return err
	}
	d.logger.Info("factory reset issued")
	return nil
}
