package kafka

import (
	"context"

	"github.com/alimikegami/ppob-storefront/config"
	"github.com/segmentio/kafka-go"
)

var KafkaConn *kafka.Conn

// CreateKafkaProducer dials the operator-events topic leader. The service only
// produces; nothing here consumes.
func CreateKafkaProducer(config *config.Config) *kafka.Conn {
	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, 0)
	if err != nil {
		panic(err)
	}

	KafkaConn = conn
	return KafkaConn
}
