package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tetragramaton/seeed-o2/internal/sensor"
)

// EnvPrefix namespaces environment overrides: serial.port -> O2_SERIAL_PORT.
const EnvPrefix = "O2"

type Config struct {
	Serial      SerialConfig      `mapstructure:"serial" yaml:"serial"`
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Calibration CalibrationConfig `mapstructure:"calibration" yaml:"calibration"`
	MQTT        MQTTConfig        `mapstructure:"mqtt" yaml:"mqtt"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

type SerialConfig struct {
	Port           string        `mapstructure:"port" yaml:"port"`
	SlaveID        int           `mapstructure:"slave_id" yaml:"slave_id"`
	BaudRate       int           `mapstructure:"baud_rate" yaml:"baud_rate"`
	DataBits       int           `mapstructure:"data_bits" yaml:"data_bits"`
	Parity         string        `mapstructure:"parity" yaml:"parity"` // "N","E","O"
	StopBits       int           `mapstructure:"stop_bits" yaml:"stop_bits"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CloseAfterCall bool          `mapstructure:"close_after_call" yaml:"close_after_call"`
}

// LoggerConfig drives the data logging task.
type LoggerConfig struct {
	Interval        time.Duration `mapstructure:"interval" yaml:"interval"`
	Output          string        `mapstructure:"output" yaml:"output"`
	ContinueOnError bool          `mapstructure:"continue_on_error" yaml:"continue_on_error"`
	Echo            bool          `mapstructure:"echo" yaml:"echo"`
}

type CalibrationConfig struct {
	Samples  int           `mapstructure:"samples" yaml:"samples"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Settle   time.Duration `mapstructure:"settle" yaml:"settle"`
}

type MQTTConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	URL       string `mapstructure:"url" yaml:"url"`
	ClientID  string `mapstructure:"client_id" yaml:"client_id"`
	Username  string `mapstructure:"username" yaml:"username"`
	Password  string `mapstructure:"password" yaml:"-"`
	TLS       bool   `mapstructure:"tls" yaml:"tls"`
	DeviceID  string `mapstructure:"device_id" yaml:"device_id"`
	Discovery bool   `mapstructure:"discovery" yaml:"discovery"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "/dev/ttyUSB0")
	v.SetDefault("serial.slave_id", 55)
	v.SetDefault("serial.baud_rate", 9600)
	v.SetDefault("serial.data_bits", 8)
	v.SetDefault("serial.parity", "N")
	v.SetDefault("serial.stop_bits", 1)
	v.SetDefault("serial.timeout", "100ms")
	v.SetDefault("serial.close_after_call", true)

	v.SetDefault("logger.interval", "1s")
	v.SetDefault("logger.output", "datalog.csv")
	v.SetDefault("logger.continue_on_error", false)
	v.SetDefault("logger.echo", true)

	v.SetDefault("calibration.samples", 9)
	v.SetDefault("calibration.interval", "1s")
	v.SetDefault("calibration.settle", "1s")

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.url", "")
	v.SetDefault("mqtt.client_id", "seeed-o2")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.tls", false)
	v.SetDefault("mqtt.device_id", "seeed-o2")
	v.SetDefault("mqtt.discovery", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"port":              "serial.port",
	"slave-id":          "serial.slave_id",
	"baud":              "serial.baud_rate",
	"timeout":           "serial.timeout",
	"close-after-call":  "serial.close_after_call",
	"interval":          "logger.interval",
	"output":            "logger.output",
	"continue-on-error": "logger.continue_on_error",
	"samples":           "calibration.samples",
	"log-level":         "log.level",
}

// RegisterFlags adds the shared flags to fs. Flag defaults are only
// informative; unset flags never override file or environment values.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("port", "/dev/ttyUSB0", "serial port of the sensor")
	fs.Int("slave-id", 55, "Modbus slave address")
	fs.Int("baud", 9600, "serial baud rate")
	fs.Duration("timeout", 100*time.Millisecond, "response timeout per transaction")
	fs.Bool("close-after-call", true, "release the serial port after every transaction")
	fs.Duration("interval", time.Second, "sampling interval")
	fs.String("output", "datalog.csv", "data log file (appended)")
	fs.Bool("continue-on-error", false, "keep logging after a failed read")
	fs.Int("samples", 9, "samples printed before and after calibration")
	fs.String("log-level", "info", "debug, info, warn or error")
}

// Load resolves configuration from defaults, an optional YAML file,
// O2_* environment variables and changed flags, in increasing priority.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := ""
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Serial.Parity = strings.ToUpper(cfg.Serial.Parity)

	return &cfg, nil
}

// Validate checks every field and reports all problems at once.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	var errs []error
	bad := func(key string, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]any{key}, args...)...))
	}

	s := cfg.Serial
	if s.Port == "" {
		bad("serial.port", "required")
	}
	if s.SlaveID < sensor.MinSlaveAddress || s.SlaveID > sensor.MaxSlaveAddress {
		bad("serial.slave_id", "%d out of range %d..%d", s.SlaveID, sensor.MinSlaveAddress, sensor.MaxSlaveAddress)
	}
	if _, ok := sensor.BaudCode(s.BaudRate); !ok {
		bad("serial.baud_rate", "%d not one of 4800, 9600, 19200", s.BaudRate)
	}
	if s.DataBits != 7 && s.DataBits != 8 {
		bad("serial.data_bits", "%d not 7 or 8", s.DataBits)
	}
	switch s.Parity {
	case "N", "E", "O":
	default:
		bad("serial.parity", "%q not N, E or O", s.Parity)
	}
	if s.StopBits != 1 && s.StopBits != 2 {
		bad("serial.stop_bits", "%d not 1 or 2", s.StopBits)
	}
	if s.Timeout <= 0 {
		bad("serial.timeout", "must be > 0")
	}

	if cfg.Logger.Interval <= 0 {
		bad("logger.interval", "must be > 0")
	}
	if cfg.Logger.Output == "" {
		bad("logger.output", "required")
	}

	if cfg.Calibration.Samples < 0 {
		bad("calibration.samples", "must be >= 0")
	}
	if cfg.Calibration.Interval <= 0 {
		bad("calibration.interval", "must be > 0")
	}
	if cfg.Calibration.Settle < time.Second {
		bad("calibration.settle", "%s shorter than 1s", cfg.Calibration.Settle)
	}

	if cfg.MQTT.Enabled {
		if cfg.MQTT.URL == "" {
			bad("mqtt.url", "required when mqtt is enabled")
		}
		if cfg.MQTT.ClientID == "" {
			bad("mqtt.client_id", "required when mqtt is enabled")
		}
		if cfg.MQTT.DeviceID == "" {
			bad("mqtt.device_id", "required when mqtt is enabled")
		}
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		bad("log.level", "%q not debug, info, warn or error", cfg.Log.Level)
	}

	return errors.Join(errs...)
}
