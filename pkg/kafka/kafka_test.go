package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, ParseBrokers(" kafka-1:9092, ,kafka-2:9092 "))
	assert.Nil(t, ParseBrokers(""))
}

func TestNewProducer(t *testing.T) {
	_, err := NewProducer(Config{})
	require.Error(t, err)

	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})
	require.NoError(t, err)
	assert.Len(t, p.brokers, 2)
	assert.Empty(t, p.writers)
}

func TestNewProducer_RejectsUnknownSASL(t *testing.T) {
	_, err := NewProducer(Config{
		Brokers:       []string{"localhost:9092"},
		SASLEnabled:   true,
		SASLMechanism: "GSSAPI",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GSSAPI")
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.getOrCreateWriter("marketplace.events")
	w2 := p.getOrCreateWriter("marketplace.events")
	w3 := p.getOrCreateWriter("other")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestMessageConversion(t *testing.T) {
	km := toKafkaMessages([]Message{{
		Key:     []byte("user-1"),
		Value:   []byte(`{"type":"consent.authorized"}`),
		Headers: map[string]string{"event-type": "consent.authorized"},
	}})
	require.Len(t, km, 1)
	km[0].Topic = "marketplace.events"

	back := fromKafkaMessage(km[0])
	assert.Equal(t, "marketplace.events", back.Topic)
	assert.Equal(t, "user-1", string(back.Key))
	assert.Equal(t, "consent.authorized", back.Headers["event-type"])
}

func TestNewConsumer_Validation(t *testing.T) {
	_, err := NewConsumer(Config{}, "t", nil, nil)
	require.Error(t, err)

	_, err = NewConsumer(Config{Brokers: []string{"localhost:9092"}}, "t", nil, nil)
	require.Error(t, err)
}

func TestConfigDialer(t *testing.T) {
	d, err := Config{Brokers: []string{"b:9092"}}.dialer()
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = Config{TLS: true, SASLEnabled: true, SASLUsername: "u", SASLPassword: "p"}.dialer()
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.NotNil(t, d.TLS)
	assert.IsType(t, kafkago.Dialer{}, *d)
}
