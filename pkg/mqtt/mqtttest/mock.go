// Package mqtttest provides an in-memory mqtt.Client for tests.
package mqtttest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/saaga0h/moonlight/pkg/mqtt"
)

// Published is a message recorded by the mock
type Published struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  []byte
}

// Client records publications and lets tests deliver messages to subscribers
type Client struct {
	mu            sync.Mutex
	connected     bool
	ConnectErr    error
	subscriptions map[string]mqtt.MessageHandler
	published     []Published
}

// NewClient creates a disconnected mock client
func NewClient() *Client {
	return &Client{subscriptions: make(map[string]mqtt.MessageHandler)}
}

func (c *Client) Connect(ctx context.Context) error {
	if c.ConnectErr != nil {
		return c.ConnectErr
	}
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return nil
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
}

func (c *Client) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[topic] = handler
	return nil
}

func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, Published{Topic: topic, QoS: qos, Retained: retained, Payload: payload})
	return nil
}

func (c *Client) PublishJSON(topic string, qos byte, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message for %s: %w", topic, err)
	}
	return c.Publish(topic, qos, retained, payload)
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Deliver invokes the handler whose subscription filter matches topic.
// It returns false when nothing is subscribed.
func (c *Client) Deliver(topic string, payload []byte) bool {
	c.mu.Lock()
	var handler mqtt.MessageHandler
	for filter, h := range c.subscriptions {
		if Matches(filter, topic) {
			handler = h
			break
		}
	}
	c.mu.Unlock()

	if handler == nil {
		return false
	}
	handler(&message{topic: topic, payload: payload})
	return true
}

// PublishedTo returns the messages published to topic, oldest first
func (c *Client) PublishedTo(topic string) []Published {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Published
	for _, p := range c.published {
		if p.Topic == topic {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether an MQTT topic filter with + and # wildcards matches topic
func Matches(filter, topic string) bool {
	fp := strings.Split(filter, "/")
	tp := strings.Split(topic, "/")
	for i, f := range fp {
		if f == "#" {
			return true
		}
		if i >= len(tp) {
			return false
		}
		if f != "+" && f != tp[i] {
			return false
		}
	}
	return len(fp) == len(tp)
}

type message struct {
	topic   string
	payload []byte
}

func (m *message) Topic() string   { return m.topic }
func (m *message) Payload() []byte { return m.payload }
func (m *message) Ack()            {}
