package kafka

import (
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestDLQTopic(t *testing.T) {
	assert.Equal(t, "sportsstore.dlq", DLQTopicPrefix)
	assert.Equal(t, "sportsstore.dlq.sportsstore.fulfillment.shipped", DLQTopic("sportsstore.fulfillment.shipped"))
}

func TestDeadLetterMessage(t *testing.T) {
	original := kafka.Message{
		Topic:     "sportsstore.fulfillment.shipped",
		Partition: 2,
		Offset:    981,
		Key:       []byte("17"),
		Value:     []byte(`{"event_id":"e1"}`),
		Headers:   []kafka.Header{{Key: "traceparent", Value: []byte("00-abc")}},
	}

	msg := deadLetterMessage(original, errors.New("order 17 not found"), "storefront-fulfillment")

	assert.Equal(t, "sportsstore.dlq.sportsstore.fulfillment.shipped", msg.Topic)
	assert.Equal(t, original.Key, msg.Key)
	assert.Equal(t, original.Value, msg.Value)

	c := NewKafkaHeaderCarrier(&msg.Headers)
	assert.Equal(t, "00-abc", c.Get("traceparent"))
	assert.Equal(t, "sportsstore.fulfillment.shipped", c.Get("dlq.original_topic"))
	assert.Equal(t, "2", c.Get("dlq.original_partition"))
	assert.Equal(t, "981", c.Get("dlq.original_offset"))
	assert.Equal(t, "storefront-fulfillment", c.Get("dlq.consumer_group"))
	assert.Equal(t, "order 17 not found", c.Get("dlq.error"))
}

func TestDeadLetterMessage_NoError(t *testing.T) {
	msg := deadLetterMessage(kafka.Message{Topic: "t"}, nil, "g")
	assert.Empty(t, NewKafkaHeaderCarrier(&msg.Headers).Get("dlq.error"))
}
