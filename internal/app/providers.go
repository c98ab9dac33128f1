// Package app holds the wire providers shared by the command binaries.
package app

import (
	"github.com/google/wire"
	pmodbus "github.com/tetragramaton/seeed-o2/internal/client/modbus"
	pmqtt "github.com/tetragramaton/seeed-o2/internal/client/mqtt"
	"github.com/tetragramaton/seeed-o2/internal/config"
	"github.com/tetragramaton/seeed-o2/internal/datalog"
	modbusIface "github.com/tetragramaton/seeed-o2/internal/interface/modbus"
	"github.com/tetragramaton/seeed-o2/internal/sensor"
	"go.uber.org/zap"
)

// Model is reported in MQTT discovery payloads.
const Model = "Seeed optical DO sensor"

var SensorSet = wire.NewSet(ProvideModbusClient, ProvideDriver)

// ModbusConfig maps the serial section onto the RTU client config.
func ModbusConfig(s config.SerialConfig) pmodbus.Config {
	return pmodbus.Config{
		Port:           s.Port,
		BaudRate:       s.BaudRate,
		DataBits:       s.DataBits,
		Parity:         s.Parity,
		StopBits:       s.StopBits,
		SlaveID:        byte(s.SlaveID),
		Timeout:        s.Timeout,
		CloseAfterCall: s.CloseAfterCall,
	}
}

func ProvideModbusClient(cfg *config.Config, logger *zap.Logger) (modbusIface.Client, func(), error) {
	client, err := pmodbus.NewHandler(ModbusConfig(cfg.Serial), logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("modbus client close", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

func ProvideDriver(client modbusIface.Client, cfg *config.Config, logger *zap.Logger) *sensor.Driver {
	return sensor.New(client,
		sensor.WithLogger(logger.Named("sensor")),
		sensor.WithSettleDelay(cfg.Calibration.Settle),
	)
}

// ProvideMQTTSink returns nil when MQTT publishing is disabled.
func ProvideMQTTSink(cfg *config.Config, logger *zap.Logger) (*datalog.MQTTSink, func(), error) {
	if !cfg.MQTT.Enabled {
		return nil, func() {}, nil
	}
	client, err := pmqtt.NewClient(pmqtt.Config{
		BrokerURL: cfg.MQTT.URL,
		ClientID:  cfg.MQTT.ClientID,
		Username:  cfg.MQTT.Username,
		Password:  cfg.MQTT.Password,
		TLS:       cfg.MQTT.TLS,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("mqtt connected", zap.String("url", cfg.MQTT.URL), zap.String("device_id", cfg.MQTT.DeviceID))
	cleanup := func() {
		if err := client.Close(250); err != nil {
			logger.Warn("mqtt client close", zap.Error(err))
		}
	}
	return datalog.NewMQTTSink(client, cfg.MQTT.DeviceID, Model), cleanup, nil
}
