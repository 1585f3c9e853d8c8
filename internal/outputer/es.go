package outputer

import (
	"context"
	"errors"
	"time"

	"github.com/olivere/elastic/v7"

	"github.com/nimbuswatch/alerter/infra/es"
	"github.com/nimbuswatch/alerter/infra/ylog"
)

type EsWorker struct {
	priorityFilter
	client   *elastic.Client
	producer *elastic.BulkProcessor
	esIndex  string
	Queue    chan *DispatchMsg
	ctx      context.Context
	cancel   context.CancelFunc
}

func (b *EsWorker) Init(conf *SinkConfig) error {
	if conf == nil || len(conf.ES.Hosts) == 0 {
		return errors.New("empty config for output es worker")
	}

	esConfig := es.EsConfig{
		EsAuthUser:   conf.ES.AuthUser,
		EsAuthPasswd: conf.ES.AuthPasswd,
		Host:         conf.ES.Hosts,
	}
	client, err := es.NewEsClient(&esConfig)
	if err != nil {
		ylog.Errorf("EsWorker", "Init Error %s", err.Error())
		return err
	}

	p, err := client.BulkProcessor().
		Name("alerter_es_outputer").
		BulkActions(1000).
		BulkSize(2 << 20).
		FlushInterval(30 * time.Second).
		After(func(executionId int64, requests []elastic.BulkableRequest, response *elastic.BulkResponse, err error) {
			if err != nil {
				ylog.Errorf("EsWorker", "BulkProcessor error %s", err.Error())
			}
			if response != nil && response.Errors && len(response.Failed()) > 0 {
				ylog.Errorf("EsWorker", "BulkProcessor response error %#v detail %s",
					response.Failed()[0], response.Failed()[0].Error.Reason)
			}
		}).
		Do(context.Background())
	if err != nil {
		ylog.Errorf("EsWorker", "BulkProcessor init error %s", err.Error())
		return err
	}

	b.client = client
	b.producer = p
	b.esIndex = conf.ES.Index
	b.priorityFilter = newPriorityFilter(conf.Priorities)
	b.ctx, b.cancel = context.WithCancel(context.Background())

	b.Queue = make(chan *DispatchMsg, sinkQueueMax)
	go b.waitForInputMsg()

	return nil
}

func (b *EsWorker) waitForInputMsg() {
	for {
		select {
		case d, ok := <-b.Queue:
			if !ok {
				ylog.Infof("EsWorker", "stop es worker for index %s", b.esIndex)
				return
			}
			if d == nil {
				continue
			}

			r := elastic.NewBulkIndexRequest().Index(b.esIndex).Doc(d)
			b.producer.Add(r)
		case <-b.ctx.Done():
			return
		}
	}
}

func (b *EsWorker) SendMsg(msg *DispatchMsg) {
	select {
	case b.Queue <- msg:
	default:
		ylog.Errorf("EsWorker", "channel is full len %d", len(b.Queue))
	}
}

func (b *EsWorker) Close() {
	b.cancel()
	close(b.Queue)
	_ = b.producer.Close()
}
