package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
	modbusIface "github.com/tetragramaton/seeed-o2/internal/interface/modbus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes one RTU serial link to a single slave.
type Config struct {
	Port     string
	BaudRate int
	DataBits int
	Parity   string // "N","E","O"
	StopBits int
	SlaveID  byte
	Timeout  time.Duration

	// CloseAfterCall releases the serial port after every transaction so
	// other processes can share the bus.
	CloseAfterCall bool
}

// connection is the lifecycle half of a goburrow client handler.
type connection interface {
	Connect() error
	Close() error
}

type handler struct {
	modbusIface.API
	conn           connection
	closeAfterCall bool
	logger         *zap.Logger
}

// NewHandler opens the serial port once to fail fast on a bad path, then
// returns a client that honors cfg.CloseAfterCall.
func NewHandler(cfg Config, logger *zap.Logger) (modbusIface.Client, error) {
	if cfg.Port == "" {
		return nil, errors.New("modbus client: serial port required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rh := modbus.NewRTUClientHandler(cfg.Port)
	rh.BaudRate = cfg.BaudRate
	rh.DataBits = cfg.DataBits
	rh.Parity = cfg.Parity
	rh.StopBits = cfg.StopBits
	rh.SlaveId = cfg.SlaveID
	rh.Timeout = cfg.Timeout
	if logger.Core().Enabled(zapcore.DebugLevel) {
		rh.Logger = zap.NewStdLog(logger.Named("rtu"))
	}

	if err := rh.Connect(); err != nil {
		return nil, fmt.Errorf("modbus client: open %s: %w", cfg.Port, err)
	}

	h := &handler{
		API:            modbus.NewClient(rh),
		conn:           rh,
		closeAfterCall: cfg.CloseAfterCall,
		logger:         logger,
	}
	if h.closeAfterCall {
		h.release()
	}

	logger.Info("modbus rtu client ready",
		zap.String("port", cfg.Port),
		zap.Int("baud", cfg.BaudRate),
		zap.Uint8("slave_id", cfg.SlaveID),
		zap.Duration("timeout", cfg.Timeout),
		zap.Bool("close_after_call", cfg.CloseAfterCall))

	return h, nil
}

func (h *handler) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	defer h.afterCall()
	return h.API.ReadHoldingRegisters(address, quantity)
}

func (h *handler) WriteSingleRegister(address, value uint16) ([]byte, error) {
	defer h.afterCall()
	return h.API.WriteSingleRegister(address, value)
}

func (h *handler) Close() error {
	return h.conn.Close()
}

func (h *handler) afterCall() {
	if h.closeAfterCall {
		h.release()
	}
}

// release closes the port; the goburrow transporter reopens it on the next send.
func (h *handler) release() {
	if err := h.conn.Close(); err != nil {
		h.logger.Warn("modbus client: close serial port", zap.Error(err))
	}
}
