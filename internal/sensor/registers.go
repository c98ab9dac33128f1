package sensor

// Holding register map of the Seeed optical dissolved-oxygen sensor.
const (
	RegMeasurements uint16 = 256 // temperature, DO, saturation

	RegCalTemperature uint16 = 4096 // write target °C x10, read offset °C x10
	RegCalZero        uint16 = 4097 // write 0, read zero offset
	RegCalSaturation  uint16 = 4099 // write 0, read slope x100

	RegSlaveAddress uint16 = 8192
	RegBaudRate     uint16 = 8195
	RegFactoryReset uint16 = 8224
)

const measurementCount uint16 = 3

// Fixed-point scale factors of the raw register values.
const (
	TemperatureScale      = 10.0
	DissolvedOxygenScale  = 100.0
	SaturationScale       = 10.0
	CalibrationSlopeScale = 100.0
)

// Slave address bounds accepted by the device.
const (
	MinSlaveAddress = 1
	MaxSlaveAddress = 127
)

// baudCodes maps supported line rates to the value stored in RegBaudRate.
var baudCodes = map[int]uint16{
	4800:  0,
	9600:  1,
	19200: 2,
}

// BaudCode returns the register code for rate.
func BaudCode(rate int) (uint16, bool) {
	c, ok := baudCodes[rate]
	return c, ok
}
