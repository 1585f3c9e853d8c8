package outputer

import (
	"errors"
	"time"

	"github.com/levigross/grequests"

	"github.com/nimbuswatch/alerter/infra/ylog"
)

const webhookDefaultTimeoutSec = 5

type WebhookWorker struct {
	priorityFilter
	url     string
	secret  string
	timeout time.Duration
	Queue   chan *DispatchMsg
}

func (b *WebhookWorker) Init(conf *SinkConfig) error {
	if conf == nil || conf.Webhook.Url == "" {
		return errors.New("empty config for output webhook worker")
	}

	b.url = conf.Webhook.Url
	b.secret = conf.Webhook.Secret
	timeoutSec := conf.Webhook.Timeout
	if timeoutSec <= 0 {
		timeoutSec = webhookDefaultTimeoutSec
	}
	b.timeout = time.Duration(timeoutSec) * time.Second
	b.priorityFilter = newPriorityFilter(conf.Priorities)

	b.Queue = make(chan *DispatchMsg, sinkQueueMax)
	go b.waitForInputMsg()

	return nil
}

func (b *WebhookWorker) waitForInputMsg() {
	for {
		d, ok := <-b.Queue
		if !ok {
			ylog.Infof("WebhookWorker", "stop webhook worker for %s", b.url)
			return
		}
		if d == nil {
			continue
		}

		opts := grequests.RequestOptions{
			JSON:           d,
			RequestTimeout: b.timeout,
			Headers:        map[string]string{"Content-Type": "application/json"},
		}
		if b.secret != "" {
			opts.Headers["X-Alerter-Token"] = b.secret
		}

		resp, err := grequests.Post(b.url, &opts)
		if err != nil {
			ylog.Errorf("WebhookWorker", "post %s error %s", b.url, err.Error())
			continue
		}
		if !resp.Ok {
			ylog.Errorf("WebhookWorker", "post %s status %d body %s", b.url, resp.StatusCode, resp.String())
		}
		_ = resp.Close()
	}
}

func (b *WebhookWorker) SendMsg(msg *DispatchMsg) {
	select {
	case b.Queue <- msg:
	default:
		ylog.Errorf("WebhookWorker", "channel is full len %d", len(b.Queue))
	}
}

func (b *WebhookWorker) Close() {
	close(b.Queue)
}
