package modbus

//go:generate mockgen -source=modbus.go -destination=mock_modbus/mock_modbus.go -package=mock_modbus

// Client is a register-level Modbus connection bound to one slave.
type Client interface {
	API
	Close() error
}

// API is the subset of Modbus function codes the sensor uses.
// Register values are returned big-endian, two bytes per register.
type API interface {
	ReadHoldingRegisters(address, quantity uint16) (results []byte, err error) // FC 3
	WriteSingleRegister(address, value uint16) (results []byte, err error)     // FC 6
}
