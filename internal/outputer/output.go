package outputer

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"

	"github.com/nimbuswatch/alerter/infra/ylog"
	"github.com/nimbuswatch/alerter/internal/alert"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	SinkTypeKafka   string = "kafka"
	SinkTypeEs      string = "elasticsearch"
	SinkTypeWebhook string = "webhook"
)

const sinkQueueMax int = 100

// DispatchMsg is the envelope handed to every notification sink.
type DispatchMsg struct {
	MsgId    string       `json:"msg_id"`
	Reason   string       `json:"reason"`
	PushTime int64        `json:"push_time"`
	Alert    *alert.Alert `json:"alert"`
}

type SinkConfig struct {
	Name       string `mapstructure:"name"`
	Type       string `mapstructure:"type"`
	Priorities []int  `mapstructure:"priorities"`

	Kafka struct {
		BootstrapServers string `mapstructure:"bootstrap_servers"`
		Topic            string `mapstructure:"topic"`
		SASLEnable       bool   `mapstructure:"sasl_enable"`
		SASLMechanism    string `mapstructure:"sasl_mechanism"`
		SASLUserName     string `mapstructure:"sasl_username"`
		SASLPassWord     string `mapstructure:"sasl_password"`
	} `mapstructure:"kafka"`

	ES struct {
		Hosts      []string `mapstructure:"hosts"`
		Index      string   `mapstructure:"index"`
		AuthUser   string   `mapstructure:"auth_user"`
		AuthPasswd string   `mapstructure:"auth_passwd"`
	} `mapstructure:"es"`

	Webhook struct {
		Url     string `mapstructure:"url"`
		Secret  string `mapstructure:"secret"`
		Timeout int    `mapstructure:"timeout"`
	} `mapstructure:"webhook"`
}

// OutWorker is one notification sink. SendMsg must queue and return, the
// reduce path never waits on delivery.
type OutWorker interface {
	Init(*SinkConfig) error
	HitPriority(priority int) bool
	SendMsg(*DispatchMsg)
	Close()
}

type Handler struct {
	workers map[string]OutWorker
	lock    sync.Mutex
}

func NewHandler() *Handler {
	return &Handler{workers: make(map[string]OutWorker)}
}

// Init builds sink workers from the notify.sinks config section. A sink
// that fails to initialize is skipped, the rest keep running.
func (o *Handler) Init(conf *viper.Viper) error {
	var sinks []SinkConfig
	if err := conf.UnmarshalKey("notify.sinks", &sinks); err != nil {
		ylog.Errorf("Outputer", "decode notify.sinks error %s", err.Error())
		return err
	}

	o.lock.Lock()
	defer o.lock.Unlock()

	for i := range sinks {
		conf := &sinks[i]
		if conf.Name == "" {
			conf.Name = fmt.Sprintf("%s-%d", conf.Type, i)
		}

		var worker OutWorker
		switch conf.Type {
		case SinkTypeKafka:
			worker = &KafkaWorker{}
		case SinkTypeEs:
			worker = &EsWorker{}
		case SinkTypeWebhook:
			worker = &WebhookWorker{}
		default:
			ylog.Errorf("Outputer", "unknown sink type %s for %s", conf.Type, conf.Name)
			continue
		}

		if err := worker.Init(conf); err != nil {
			ylog.Errorf("Outputer", "init sink %s error %s", conf.Name, err.Error())
			continue
		}
		o.workers[conf.Name] = worker
		ylog.Infof("Outputer", "sink %s type %s ready", conf.Name, conf.Type)
	}
	return nil
}

// Dispatch fans the alert out to every sink whose priority filter matches.
// Best effort, failures stay inside the sinks.
func (o *Handler) Dispatch(reason string, a *alert.Alert) {
	msg := &DispatchMsg{
		MsgId:    uuid.New().String(),
		Reason:   reason,
		PushTime: time.Now().Unix(),
		Alert:    a,
	}

	o.lock.Lock()
	defer o.lock.Unlock()
	for _, worker := range o.workers {
		if worker.HitPriority(a.Priority) {
			worker.SendMsg(msg)
		}
	}
}

func (o *Handler) Close() {
	o.lock.Lock()
	defer o.lock.Unlock()
	for name, worker := range o.workers {
		worker.Close()
		delete(o.workers, name)
	}
}

// priorityFilter is the shared hit test, empty means all priorities.
type priorityFilter struct {
	priorityMap map[int]struct{}
}

func newPriorityFilter(priorities []int) priorityFilter {
	f := priorityFilter{}
	if len(priorities) > 0 {
		f.priorityMap = make(map[int]struct{}, len(priorities))
		for _, p := range priorities {
			f.priorityMap[p] = struct{}{}
		}
	}
	return f
}

func (f priorityFilter) HitPriority(priority int) bool {
	if f.priorityMap == nil {
		return true
	}
	_, ok := f.priorityMap[priority]
	return ok
}
