package sensor

import (
	"math"
	"strconv"
)

// CalibrationCommand is one of Calibrate100, Calibrate0 or CalibrateTemperature.
type CalibrationCommand interface {
	run(d *Driver) (float64, error)
	String() string
}

// Calibrate100 calibrates 100 % saturation in air-saturated water.
// The result is the calibration slope.
type Calibrate100 struct{}

// Calibrate0 calibrates 0 % in anaerobic water. The result is the raw zero
// offset. Afterwards the sensor reports a floor of about 0.04 mg/L (0.4 %)
// in anaerobic water; that baseline comes from the device and is kept.
type Calibrate0 struct{}

// CalibrateTemperature calibrates against a solution at TargetC.
// The result is the temperature offset in °C.
type CalibrateTemperature struct {
	TargetC float64
}

func (Calibrate100) String() string { return "100% saturation" }
func (Calibrate0) String() string   { return "0% saturation" }
func (c CalibrateTemperature) String() string {
	return "temperature " + formatFloat(c.TargetC) + "°C"
}

func (Calibrate100) run(d *Driver) (float64, error) {
	if err := d.WriteRegister(RegCalSaturation, 0); err != nil {
		return 0, err
	}
	v, err := d.readRegister(RegCalSaturation)
	if err != nil {
		return 0, err
	}
	return float64(v) / CalibrationSlopeScale, nil
}

func (Calibrate0) run(d *Driver) (float64, error) {
	if err := d.WriteRegister(RegCalZero, 0); err != nil {
		return 0, err
	}
	v, err := d.readRegister(RegCalZero)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

func (c CalibrateTemperature) run(d *Driver) (float64, error) {
	if math.IsNaN(c.TargetC) || math.IsInf(c.TargetC, 0) {
		return 0, &ValidationError{Param: "calibration temperature", Value: c.TargetC, Reason: "must be finite"}
	}
	if err := d.WriteRegister(RegCalTemperature, int(math.Round(c.TargetC*TemperatureScale))); err != nil {
		return 0, err
	}
	d.sleep(d.settle)
	v, err := d.readRegister(RegCalTemperature)
	if err != nil {
		return 0, err
	}
	return float64(v) / TemperatureScale, nil
}

// Calibrate runs cmd: the trigger write is acknowledged before the result
// register is read.
func (d *Driver) Calibrate(cmd CalibrationCommand) (float64, error) {
	return cmd.run(d)
}

// Calibrate100 returns the 100 % saturation slope.
func (d *Driver) Calibrate100() (float64, error) {
	return d.Calibrate(Calibrate100{})
}

// Calibrate0 returns the raw zero offset.
func (d *Driver) Calibrate0() (uint16, error) {
	v, err := d.Calibrate(Calibrate0{})
	return uint16(v), err
}

// CalibrateTemperature returns the temperature offset in °C.
func (d *Driver) CalibrateTemperature(targetC float64) (float64, error) {
	return d.Calibrate(CalibrateTemperature{TargetC: targetC})
}

// ParseCalibration maps a mode name ("100", "0", "temp") onto a command.
func ParseCalibration(mode string, targetC float64) (CalibrationCommand, error) {
	switch mode {
	case "100":
		return Calibrate100{}, nil
	case "0":
		return Calibrate0{}, nil
	case "temp", "temperature":
		return CalibrateTemperature{TargetC: targetC}, nil
	default:
		return nil, &ValidationError{Param: "calibration mode", Value: strconv.Quote(mode), Reason: `want "100", "0" or "temp"`}
	}
}
