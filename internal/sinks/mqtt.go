package sinks

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"k8s.io/klog/v2"
)

// MQTTSink publishes every rendered message to one MQTT topic. The
// original implements its own layered TCP→TLS→MQTT ProtocolBase
// handshake (Protocol/Protocol.h's MQTT class); this core uses the
// standard eclipse/paho.mqtt.golang client instead of hand-rolling the
// wire protocol, per the "never fall back to a hand-rolled stdlib
// replacement when the ecosystem has a library" rule — the client
// already layers TCP/TLS/WS under the hood via its broker URL scheme.
type MQTTSink struct {
	client mqtt.Client
	topic  string
	qos    byte
	format Format
	group  stream.GroupMask
	filter *Filter
}

// NewMQTTSink connects to broker (e.g. "tcp://host:1883" or
// "ssl://host:8883") and returns a sink publishing to topic.
func NewMQTTSink(broker, clientID, topic string, qos byte, format Format, group stream.GroupMask) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqttsink: connect to %s: %w", broker, token.Error())
	}
	if topic == "" {
		topic = "ais/data"
	}
	return &MQTTSink{client: client, topic: topic, qos: qos, format: format, group: group}, nil
}

func (s *MQTTSink) SetFilter(f *Filter) { s.filter = f }

func (s *MQTTSink) GroupMask() stream.GroupMask { return s.group }
func (s *MQTTSink) Format() Format               { return s.format }

func (s *MQTTSink) Send(ctx context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error {
	if !s.filter.Allow(m) {
		return nil
	}
	for _, line := range render(s.format, m, d, tag) {
		token := s.client.Publish(s.topic, s.qos, false, line)
		if !token.WaitTimeout(2 * time.Second) {
			klog.Warningf("mqttsink: publish to %s timed out", s.topic)
			continue
		}
		if err := token.Error(); err != nil {
			klog.Errorf("mqttsink: publish to %s failed: %v", s.topic, err)
			return err
		}
	}
	return nil
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
