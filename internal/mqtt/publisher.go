package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/meteobridge/swissweather/internal/meteo"
	"github.com/meteobridge/swissweather/internal/weather"
)

const publishTimeout = 5 * time.Second

// Publisher pushes stored snapshots to an MQTT broker so a home-automation
// platform can consume them. A publish failure is reported to the caller but
// never fails an update cycle.
type Publisher struct {
	client      pahomqtt.Client
	topicPrefix string
	postCode    string
}

// NewPublisher creates a Publisher for the given broker. The client
// reconnects on its own; publishes while disconnected fail fast.
func NewPublisher(broker, clientID, topicPrefix, postCode string) *Publisher {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		log.Printf("mqtt: connected to %s", broker)
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		log.Printf("mqtt: connection lost: %v", err)
	})

	return &Publisher{
		client:      pahomqtt.NewClient(opts),
		topicPrefix: topicPrefix,
		postCode:    postCode,
	}
}

// Connect starts the initial connection attempt. With connect-retry enabled
// the client keeps trying in the background, so a broker that is down at
// startup does not block the bridge.
func (p *Publisher) Connect() error {
	token := p.client.Connect()
	if token.WaitTimeout(publishTimeout) && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return nil
}

// Disconnect closes the broker connection.
func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
	log.Printf("mqtt: disconnected")
}

// PublishWeather publishes the snapshot's current conditions (retained),
// forecast and warnings to their per-postcode topics.
func (p *Publisher) PublishWeather(snapshot weather.Snapshot) error {
	if err := p.publish(p.topic("current"), snapshot.Current, true); err != nil {
		return err
	}
	if err := p.publish(p.topic("forecast"), snapshot.Forecast, false); err != nil {
		return err
	}
	var warnings []meteo.Warning
	if snapshot.Forecast != nil {
		warnings = snapshot.Forecast.Warnings
	}
	return p.publish(p.topic("warnings"), warnings, false)
}

// PublishPollen publishes the pollen snapshot to its station topic.
func (p *Publisher) PublishPollen(pollen meteo.CurrentPollen) error {
	topic := fmt.Sprintf("%s/%s/pollen", p.topicPrefix, pollen.StationCode)
	return p.publish(topic, pollen, true)
}

func (p *Publisher) topic(suffix string) string {
	return fmt.Sprintf("%s/%s/%s", p.topicPrefix, p.postCode, suffix)
}

func (p *Publisher) publish(topic string, payload any, retained bool) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal for %s: %w", topic, err)
	}

	token := p.client.Publish(topic, 1, retained, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", topic, token.Error())
	}
	return nil
}
