package outputer

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/nimbuswatch/alerter/internal/alert"
)

type stubWorker struct {
	priorityFilter
	lock sync.Mutex
	msgs []*DispatchMsg
}

func (s *stubWorker) Init(conf *SinkConfig) error {
	s.priorityFilter = newPriorityFilter(conf.Priorities)
	return nil
}

func (s *stubWorker) SendMsg(msg *DispatchMsg) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *stubWorker) Close() {}

func (s *stubWorker) received() []*DispatchMsg {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]*DispatchMsg, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func TestPriorityFilter(t *testing.T) {
	all := newPriorityFilter(nil)
	assert.True(t, all.HitPriority(alert.PriorityCritical))
	assert.True(t, all.HitPriority(alert.PriorityNotice))

	criticalOnly := newPriorityFilter([]int{alert.PriorityCritical})
	assert.True(t, criticalOnly.HitPriority(alert.PriorityCritical))
	assert.False(t, criticalOnly.HitPriority(alert.PriorityWarning))
}

func TestHandlerDispatchHonorsSinkPriorities(t *testing.T) {
	oncall := &stubWorker{}
	assert.NoError(t, oncall.Init(&SinkConfig{Priorities: []int{alert.PriorityCritical}}))
	archive := &stubWorker{}
	assert.NoError(t, archive.Init(&SinkConfig{}))

	h := NewHandler()
	h.workers["oncall"] = oncall
	h.workers["archive"] = archive

	h.Dispatch("new", &alert.Alert{Priority: alert.PriorityWarning, Content: "warn"})
	h.Dispatch("new", &alert.Alert{Priority: alert.PriorityCritical, Content: "crit"})

	assert.Len(t, oncall.received(), 1)
	assert.Equal(t, "crit", oncall.received()[0].Alert.Content)

	archived := archive.received()
	assert.Len(t, archived, 2)
	assert.NotEmpty(t, archived[0].MsgId)
	assert.NotEqual(t, archived[0].MsgId, archived[1].MsgId)
	assert.Equal(t, "new", archived[0].Reason)
	assert.Greater(t, archived[0].PushTime, int64(0))
}

func TestHandlerInitSkipsBrokenSinks(t *testing.T) {
	conf := viper.New()
	conf.Set("notify.sinks", []map[string]interface{}{
		{"name": "bad-hook", "type": "webhook"},
		{"name": "odd", "type": "carrier-pigeon"},
	})

	h := NewHandler()
	assert.NoError(t, h.Init(conf))
	assert.Empty(t, h.workers)
}

func TestWebhookWorkerDelivers(t *testing.T) {
	bodies := make(chan []byte, 1)
	tokens := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- body
		tokens <- r.Header.Get("X-Alerter-Token")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	worker := &WebhookWorker{}
	conf := &SinkConfig{Name: "hook", Type: SinkTypeWebhook}
	conf.Webhook.Url = srv.URL
	conf.Webhook.Secret = "s3cret"
	assert.NoError(t, worker.Init(conf))
	defer worker.Close()

	worker.SendMsg(&DispatchMsg{
		MsgId:    "m-1",
		Reason:   "new",
		PushTime: 1722500000,
		Alert:    &alert.Alert{Content: "cpu spike", Priority: alert.PriorityCritical},
	})

	select {
	case body := <-bodies:
		var got DispatchMsg
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "m-1", got.MsgId)
		assert.Equal(t, "cpu spike", got.Alert.Content)
	case <-time.After(3 * time.Second):
		t.Fatal("webhook not delivered")
	}
	assert.Equal(t, "s3cret", <-tokens)
}

func TestWebhookWorkerQueueFullDrops(t *testing.T) {
	worker := &WebhookWorker{
		url:   "http://127.0.0.1:1", // never dialed, the queue is not drained
		Queue: make(chan *DispatchMsg, 2),
	}

	for i := 0; i < 5; i++ {
		worker.SendMsg(&DispatchMsg{MsgId: "m"})
	}
	assert.Len(t, worker.Queue, 2)
}

func TestWebhookWorkerInitRequiresUrl(t *testing.T) {
	worker := &WebhookWorker{}
	assert.Error(t, worker.Init(&SinkConfig{}))
}
