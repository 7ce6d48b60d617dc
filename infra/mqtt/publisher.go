// Package mqtt publishes assignment records to an MQTT broker so external
// consumers can follow the audit feed live.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/logistics-sim/fleetsim/core/model"
	"github.com/logistics-sim/fleetsim/core/notify"
)

// Config describes the broker connection for the assignment feed.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	QoS      int    `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "fleetsim"
	}
	if c.Topic == "" {
		c.Topic = "fleetsim/assignments"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("broker is required when mqtt is enabled")
	}
	if c.QoS < 0 || c.QoS > 2 {
		return fmt.Errorf("qos must be 0, 1 or 2")
	}
	return nil
}

// PahoPublisher implements notify.Publisher over paho.
type PahoPublisher struct {
	client paho.Client
	topic  string
	qos    byte
}

// NewPahoPublisher connects to the broker and returns the publisher.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.SetConnectTimeout(5 * time.Second)
	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &PahoPublisher{client: client, topic: cfg.Topic, qos: byte(cfg.QoS)}, nil
}

// PublishAssignment sends the record as JSON to the configured topic.
func (p *PahoPublisher) PublishAssignment(rec model.AssignmentRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, p.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt publish: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

var _ notify.Publisher = (*PahoPublisher)(nil)
