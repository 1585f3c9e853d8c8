package outputer

import (
	"errors"

	"github.com/Shopify/sarama"

	"github.com/nimbuswatch/alerter/infra/kafka"
	"github.com/nimbuswatch/alerter/infra/ylog"
)

type KafkaWorker struct {
	priorityFilter
	producer sarama.AsyncProducer
	topic    string
	Queue    chan *DispatchMsg
}

func (b *KafkaWorker) Init(conf *SinkConfig) error {
	if conf == nil || conf.Kafka.BootstrapServers == "" {
		return errors.New("empty config for output kafka worker")
	}

	sasl := &kafka.SASLConfig{
		Enable:    conf.Kafka.SASLEnable,
		Mechanism: conf.Kafka.SASLMechanism,
		UserName:  conf.Kafka.SASLUserName,
		PassWord:  conf.Kafka.SASLPassWord,
	}
	producer, err := kafka.NewProducer(conf.Kafka.BootstrapServers, sasl, "alerter_kafka_outputer")
	if err != nil {
		ylog.Errorf("KafkaWorker", "Init Error %s", err.Error())
		return err
	}
	b.producer = producer
	b.topic = conf.Kafka.Topic
	b.priorityFilter = newPriorityFilter(conf.Priorities)

	b.Queue = make(chan *DispatchMsg, sinkQueueMax)
	go b.waitForInputMsg()

	return nil
}

func (b *KafkaWorker) waitForInputMsg() {
	for {
		d, ok := <-b.Queue
		if !ok {
			ylog.Infof("KafkaWorker", "stop kafka worker for topic %s", b.topic)
			b.producer.AsyncClose()
			return
		}
		if d == nil {
			continue
		}

		bv, err := json.Marshal(d)
		if err != nil {
			ylog.Errorf("KafkaWorker", "SendMsg Marshal error %s", err.Error())
			continue
		}

		ylog.Debugf("KafkaWorker", "SendMsg %#v", d)
		b.producer.Input() <- &sarama.ProducerMessage{Topic: b.topic, Value: sarama.ByteEncoder(bv)}
	}
}

func (b *KafkaWorker) SendMsg(msg *DispatchMsg) {
	select {
	case b.Queue <- msg:
	default:
		ylog.Errorf("KafkaWorker", "channel is full len %d", len(b.Queue))
	}
}

func (b *KafkaWorker) Close() {
	close(b.Queue)
}
