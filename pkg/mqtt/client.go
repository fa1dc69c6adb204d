package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/saaga0h/moonlight/pkg/config"
)

// mqttClient implements Client on top of paho. Sessions are clean, so the
// broker forgets subscriptions on every reconnect; they are kept in subs
// and re-issued from the connect handler.
type mqttClient struct {
	client pahomqtt.Client
	broker string
	logger *slog.Logger
	subs   *subscriptionSet
}

// NewClient creates a paho-backed client for the configured broker
func NewClient(cfg *config.Config, logger *slog.Logger) Client {
	m := &mqttClient{
		broker: cfg.MQTTAddress(),
		logger: logger,
		subs:   newSubscriptionSet(),
	}
	m.client = pahomqtt.NewClient(m.options(cfg))
	return m
}

func (m *mqttClient) options(cfg *config.Config) *pahomqtt.ClientOptions {
	clientID := cfg.MQTTClientID
	if clientID == "" {
		clientID = fmt.Sprintf("%s-%s", cfg.ServiceName, uuid.NewString()[:8])
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(m.broker).
		SetClientID(clientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(30 * time.Second).
		SetOnConnectHandler(m.onConnect).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			m.logger.Warn("MQTT connection lost", "broker", m.broker, "error", err)
		}).
		SetReconnectingHandler(func(_ pahomqtt.Client, _ *pahomqtt.ClientOptions) {
			m.logger.Info("MQTT reconnecting", "broker", m.broker)
		})

	if cfg.MQTTUser != "" {
		opts.SetUsername(cfg.MQTTUser)
	}
	if cfg.MQTTPassword != "" {
		opts.SetPassword(cfg.MQTTPassword)
	}

	return opts
}

// onConnect runs after every successful (re)connect
func (m *mqttClient) onConnect(c pahomqtt.Client) {
	subs := m.subs.all()
	m.logger.Info("Connected to MQTT broker", "broker", m.broker, "subscriptions", len(subs))
	if len(subs) == 0 {
		return
	}

	if err := m.subs.restore(c); err != nil {
		m.logger.Error("Failed to restore MQTT subscriptions", "error", err)
		return
	}
	m.logger.Info("Restored MQTT subscriptions", "count", len(subs))
}

// Connect waits for the first connection or for ctx to end
func (m *mqttClient) Connect(ctx context.Context) error {
	m.logger.Info("Connecting to MQTT broker", "broker", m.broker)

	token := m.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("connection timeout: %w", ctx.Err())
	}
}

func (m *mqttClient) Disconnect() {
	m.logger.Info("Disconnecting from MQTT broker", "broker", m.broker)
	m.client.Disconnect(250)
}

// Subscribe subscribes to a topic filter and records it for reconnects
func (m *mqttClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	pahoHandler := func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(&mqttMessage{msg: msg})
	}

	token := m.client.Subscribe(topic, qos, pahoHandler)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	m.subs.add(topic, qos, pahoHandler)
	m.logger.Info("Subscribed to MQTT topic", "topic", topic, "qos", qos)
	return nil
}

func (m *mqttClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := m.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}

	m.logger.Debug("Published message", "topic", topic, "size", len(payload))
	return nil
}

// PublishJSON marshals v and publishes it to a topic
func (m *mqttClient) PublishJSON(topic string, qos byte, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message for %s: %w", topic, err)
	}
	return m.Publish(topic, qos, retained, payload)
}

func (m *mqttClient) IsConnected() bool {
	return m.client.IsConnected()
}

// mqttMessage adapts a paho message to Message
type mqttMessage struct {
	msg pahomqtt.Message
}

func (m *mqttMessage) Topic() string   { return m.msg.Topic() }
func (m *mqttMessage) Payload() []byte { return m.msg.Payload() }
func (m *mqttMessage) Ack()            { m.msg.Ack() }
