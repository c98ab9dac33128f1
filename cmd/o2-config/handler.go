package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tetragramaton/seeed-o2/internal/config"
	"github.com/tetragramaton/seeed-o2/internal/sensor"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const usage = `usage: o2-config [flags] <command>

commands:
  read               print one reading
  dump               print the effective configuration as YAML
  set-address <1-127>
  set-baud <4800|9600|19200>
  reset              restore factory calibration`

type MainHandler struct {
	Config *config.Config
	Logger *zap.Logger
	Driver *sensor.Driver
}

func NewMainHandler(cfg *config.Config, logger *zap.Logger, driver *sensor.Driver) *MainHandler {
	return &MainHandler{Config: cfg, Logger: logger, Driver: driver}
}

// Handle runs one device command and prints its outcome to out.
func (h *MainHandler) Handle(out io.Writer, args []string) error {
	switch args[0] {
	case "read":
		r, err := h.Driver.ReadValues()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, sensor.FormatHuman(r))

	case "set-address":
		addr, err := intArg(args)
		if err != nil {
			return err
		}
		if err := h.Driver.SetAddress(addr); err != nil {
			return err
		}
		fmt.Fprintf(out, "Address %d written; reconnect with --slave-id %d\n", addr, addr)

	case "set-baud":
		rate, err := intArg(args)
		if err != nil {
			return err
		}
		code, err := h.Driver.SetBaudRate(rate)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Baud rate code %d stored; restart the sensor to apply %d baud\n", code, rate)

	case "reset":
		if err := h.Driver.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Sensor reset to factory calibration; calibrate again before use")

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	return nil
}

// Dump writes cfg as YAML. Secrets are omitted by the yaml tags.
func Dump(out io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// needsDevice reports whether command talks to the sensor.
func needsDevice(command string) bool {
	return command != "dump"
}

func intArg(args []string) (int, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("%s takes exactly one argument\n%s", args[0], usage)
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", args[0], args[1])
	}
	return v, nil
}
