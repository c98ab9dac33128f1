package ha

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

type Device struct {
	Identifiers  []string `json:"identifiers,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
}

type SensorConfig struct {
	Name         string                 `json:"name"`
	UniqueID     string                 `json:"unique_id"`
	StateTopic   string                 `json:"state_topic"`
	ValueTpl     string                 `json:"value_template,omitempty"`
	DeviceClass  string                 `json:"device_class,omitempty"`
	StateClass   string                 `json:"state_class,omitempty"`
	UnitOfMeas   string                 `json:"unit_of_measurement,omitempty"`
	Device       *Device                `json:"device,omitempty"`
	QoS          int                    `json:"qos,omitempty"`
	Availability []map[string]string    `json:"availability,omitempty"`
	Extra        map[string]interface{} `json:"-"`
}

func (c *SensorConfig) Marshal() ([]byte, error) {
	type alias SensorConfig
	a := alias(*c)
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	if c.Extra != nil {
		var base map[string]interface{}
		if err := json.Unmarshal(b, &base); err != nil {
			return nil, err
		}
		for k, v := range c.Extra {
			base[k] = v
		}
		return json.Marshal(base)
	}
	return b, nil
}

func TopicSensorConfig(cap, unique string) string {
	return fmt.Sprintf("homeassistant/sensor/%s/%s/config", unique, cap)
}

// StateTopic is where reading states for deviceID are published.
func StateTopic(deviceID string) string {
	return fmt.Sprintf("smh/%s/state", deviceID)
}

// Entry is one discovery config and the topic it is retained on.
type Entry struct {
	Topic  string
	Config *SensorConfig
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func Sanitize(s string) string {
	return strings.ToLower(unsafeChars.ReplaceAllString(s, "_"))
}

// OxygenSensorEntries describes the three readings of one dissolved-oxygen
// sensor. Value templates read the JSON state published on StateTopic.
func OxygenSensorEntries(deviceID, model string) []Entry {
	unique := Sanitize(deviceID)
	device := &Device{
		Identifiers:  []string{deviceID},
		Manufacturer: "Seeed Studio",
		Model:        model,
		Name:         deviceID,
	}
	state := StateTopic(deviceID)

	sensors := []struct {
		cap, field, name, class, unit string
	}{
		{"temperature", "temperature_c", "temperature", "temperature", "°C"},
		{"dissolved_oxygen", "dissolved_oxygen_mgl", "dissolved oxygen", "", "mg/L"},
		{"saturation", "saturation_pct", "oxygen saturation", "", "%"},
	}

	entries := make([]Entry, 0, len(sensors))
	for _, s := range sensors {
		entries = append(entries, Entry{
			Topic: TopicSensorConfig(s.cap, unique),
			Config: &SensorConfig{
				Name:        fmt.Sprintf("%s %s", deviceID, s.name),
				UniqueID:    unique + "_" + s.cap,
				StateTopic:  state,
				ValueTpl:    fmt.Sprintf("{{ value_json.%s }}", s.field),
				DeviceClass: s.class,
				StateClass:  "measurement",
				UnitOfMeas:  s.unit,
				Device:      device,
				QoS:         1,
			},
		})
	}
	return entries
}
