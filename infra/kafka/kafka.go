package kafka

import (
	"strings"
	"time"

	"github.com/Shopify/sarama"

	"github.com/nimbuswatch/alerter/infra/ylog"
)

type SASLConfig struct {
	Enable    bool
	Mechanism string
	UserName  string
	PassWord  string
}

// NewProducer creates a kafka async producer.
func NewProducer(addr string, sasl *SASLConfig, clientID string) (sarama.AsyncProducer, error) {
	addrs := strings.Split(addr, ",")
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Producer.Return.Successes = false
	config.Producer.MaxMessageBytes = 1024 * 1024 * 4 //4M
	config.Producer.Timeout = 6 * time.Second
	config.Producer.Flush.Bytes = 1024 * 1024 * 4
	config.Producer.Flush.MaxMessages = 1024 * 1024 * 4
	config.Producer.Flush.Frequency = 10 * time.Second

	if sasl != nil && sasl.Enable {
		config.Net.SASL.Enable = true
		config.Net.SASL.User = sasl.UserName
		config.Net.SASL.Password = sasl.PassWord
		switch sasl.Mechanism {
		case "PLAIN":
			config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		case "OAUTHBEARER":
			config.Net.SASL.Mechanism = sarama.SASLTypeOAuth
		}
	}

	client, err := sarama.NewClient(addrs, config)
	if err != nil {
		ylog.Errorf("KAFKA", "NewClient error:%s", err.Error())
		return nil, err
	}

	producer, err := sarama.NewAsyncProducerFromClient(client)
	if err != nil {
		ylog.Errorf("KAFKA", "NewAsyncProducerFromClient error:%s", err.Error())
		return nil, err
	}

	go func() {
		for pErr := range producer.Errors() {
			ylog.Errorf("KAFKA", "Produce error:%s", pErr.Error())
		}
	}()

	return producer, nil
}
