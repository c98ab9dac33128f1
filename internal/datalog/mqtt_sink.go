package datalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tetragramaton/seeed-o2/internal/ha"
	mqttIface "github.com/tetragramaton/seeed-o2/internal/interface/mqtt"
	"github.com/tetragramaton/seeed-o2/internal/sensor"
)

// State is the JSON payload published for each sample.
type State struct {
	Ts int64 `json:"ts"`
	sensor.Reading
}

// MQTTSink publishes readings to smh/<device_id>/state.
type MQTTSink struct {
	client   mqttIface.Client
	deviceID string
	model    string
}

func NewMQTTSink(client mqttIface.Client, deviceID, model string) *MQTTSink {
	return &MQTTSink{client: client, deviceID: deviceID, model: model}
}

// Announce publishes retained Home Assistant discovery configs.
func (s *MQTTSink) Announce() error {
	for _, e := range ha.OxygenSensorEntries(s.deviceID, s.model) {
		b, err := e.Config.Marshal()
		if err != nil {
			return fmt.Errorf("marshal discovery %s: %w", e.Topic, err)
		}
		if err := s.client.PublishEvent(mqttIface.Message{
			Topic:   e.Topic,
			Payload: b,
			QoS:     1,
			Retain:  true,
		}); err != nil {
			return fmt.Errorf("publish discovery %s: %w", e.Topic, err)
		}
	}
	return nil
}

func (s *MQTTSink) Publish(r sensor.Reading, at time.Time) error {
	data, err := json.Marshal(State{Ts: at.Unix(), Reading: r})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return s.client.PublishEvent(mqttIface.Message{
		Topic:   ha.StateTopic(s.deviceID),
		Payload: data,
		QoS:     1,
		Retain:  false,
	})
}
