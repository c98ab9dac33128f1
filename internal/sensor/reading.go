package sensor

import "strconv"

// Reading is one converted measurement block.
type Reading struct {
	TemperatureC       float64 `json:"temperature_c"`
	DissolvedOxygenMgL float64 `json:"dissolved_oxygen_mgl"`
	SaturationPct      float64 `json:"saturation_pct"`
}

// Convert scales the three raw registers read from RegMeasurements.
// No rounding or clamping is applied.
func Convert(raw []uint16) (Reading, error) {
	if len(raw) != int(measurementCount) {
		return Reading{}, &ConversionError{Got: len(raw)}
	}
	return Reading{
		TemperatureC:       float64(raw[0]) / TemperatureScale,
		DissolvedOxygenMgL: float64(raw[1]) / DissolvedOxygenScale,
		SaturationPct:      float64(raw[2]) / SaturationScale,
	}, nil
}

// FormatHuman renders r for display.
func FormatHuman(r Reading) string {
	return "Temp:" + formatFloat(r.TemperatureC) +
		"°C, DO:" + formatFloat(r.DissolvedOxygenMgL) +
		"mg/L, Sat:" + formatFloat(r.SaturationPct) + "%"
}

// FormatRecord renders r as the semicolon-delimited log record.
// Field order and separators are parsed by log consumers and must not change.
func FormatRecord(r Reading) string {
	return formatFloat(r.TemperatureC) + ";°C;" +
		formatFloat(r.DissolvedOxygenMgL) + ";mg/L;" +
		formatFloat(r.SaturationPct) + ";%;"
}

// formatFloat prints the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
