package mqtt

import (
	"crypto/tls"
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	mqttIface "github.com/tetragramaton/seeed-o2/internal/interface/mqtt"
)

type mqttClient struct {
	mqttIface.API
	publishTimeout time.Duration
}

type Config struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	TLS       bool
}

func NewClient(cfg Config) (mqttIface.Client, error) {
	if cfg.BrokerURL == "" {
		return nil, errors.New("missing MQTT broker url")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("missing MQTT client id")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(5 * time.Second).
		SetPingTimeout(3 * time.Second).
		SetAutoReconnect(true).
		SetOrderMatters(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	client := mqtt.NewClient(opts)
	t := client.Connect()
	if ok := t.WaitTimeout(10 * time.Second); !ok {
		return nil, errors.New("mqtt connect timeout")
	}
	if err := t.Error(); err != nil {
		return nil, err
	}
	return newClient(client), nil
}

func newClient(api mqttIface.API) *mqttClient {
	return &mqttClient{API: api, publishTimeout: 5 * time.Second}
}

func (c *mqttClient) PublishEvent(message mqttIface.Message) error {
	t := c.API.Publish(message.Topic, message.QoS, message.Retain, message.Payload)
	if !t.WaitTimeout(c.publishTimeout) {
		return errors.New("mqtt publish timeout: " + message.Topic)
	}
	return t.Error()
}

func (c *mqttClient) Close(quiesce uint) error {
	if c.IsConnectionOpen() {
		c.Disconnect(quiesce)
	}
	return nil
}
