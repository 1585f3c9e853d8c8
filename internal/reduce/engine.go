package reduce

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimbuswatch/alerter/infra/ylog"
	"github.com/nimbuswatch/alerter/internal/alert"
	"github.com/nimbuswatch/alerter/internal/alertstore"
)

const saveRetryMax = 3

var reduceCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "alerter_reduce_reports_counter",
	Help: "Alerter reduce engine outcomes",
}, []string{"outcome"})

var metricsOnce = &sync.Once{}

// Dispatcher receives alerts the policy decided to notify about. The engine
// never waits on delivery, implementations queue and return.
type Dispatcher interface {
	Dispatch(reason string, a *alert.Alert)
}

// Engine merges repeated reports of one logical condition into a single
// active alert and decides when to notify. All read-modify-write on the
// active index happens under the fingerprint's shard lock, the persistence
// write included, so the index never reflects a state that failed to save.
type Engine struct {
	store  alertstore.Store
	index  *ActiveIndex
	policy DispatchPolicy
	out    Dispatcher
}

func NewEngine(store alertstore.Store, out Dispatcher, policy DispatchPolicy) *Engine {
	metricsOnce.Do(func() {
		prometheus.MustRegister(reduceCounter)
	})
	return &Engine{
		store:  store,
		index:  NewActiveIndex(),
		policy: policy,
		out:    out,
	}
}

func (e *Engine) Index() *ActiveIndex {
	return e.index
}

// ReduceAndSend runs the merge-or-create decision for one canonical alert.
func (e *Engine) ReduceAndSend(ctx context.Context, incoming *alert.Alert) error {
	if incoming == nil {
		return nil
	}

	reportTime := incoming.LastAlarmTime
	if reportTime <= 0 {
		reportTime = time.Now().UnixMilli()
	}

	fp := Fingerprint(incoming)
	shard := e.index.shard(fp)
	shard.Lock()
	defer shard.Unlock()

	active, ok := shard.alerts[fp]

	if incoming.Status == alert.StatusResolved {
		if !ok {
			ylog.Debugf("ReduceAndSend", "resolution for inactive fingerprint %d ignored", fp)
			return nil
		}

		resolved := *active
		resolved.Status = alert.StatusResolved
		if reportTime > resolved.LastAlarmTime {
			resolved.LastAlarmTime = reportTime
		}
		if err := e.saveWithRetry(ctx, &resolved); err != nil {
			if errors.Is(err, alertstore.ErrNotFound) {
				// record bulk-deleted underneath us, nothing left to resolve
				delete(shard.alerts, fp)
				return nil
			}
			return err
		}
		delete(shard.alerts, fp)
		reduceCounter.With(prometheus.Labels{"outcome": "resolved"}).Add(1)

		if e.policy.ShouldNotify(fp, &resolved, ReasonResolved) {
			e.dispatch(ReasonResolved, &resolved)
		}
		return nil
	}

	if !ok {
		return e.createLocked(ctx, shard, fp, incoming, reportTime)
	}

	// merge into a copy so a failed save leaves the index untouched
	merged := *active
	merged.TriggerTimes++
	if reportTime > merged.LastAlarmTime {
		merged.LastAlarmTime = reportTime
	}
	merged.Priority = incoming.Priority
	merged.Content = incoming.Content
	if len(incoming.Tags) > 0 {
		tags := make(map[string]string, len(merged.Tags)+len(incoming.Tags))
		for k, v := range merged.Tags {
			tags[k] = v
		}
		for k, v := range incoming.Tags {
			tags[k] = v
		}
		merged.Tags = tags
	}

	if err := e.saveWithRetry(ctx, &merged); err != nil {
		if errors.Is(err, alertstore.ErrNotFound) {
			// the active record was bulk-deleted after we read the index,
			// the report opens a fresh condition under a new id
			delete(shard.alerts, fp)
			incoming.Id = primitive.NilObjectID
			return e.createLocked(ctx, shard, fp, incoming, reportTime)
		}
		return err
	}
	shard.alerts[fp] = &merged
	reduceCounter.With(prometheus.Labels{"outcome": "merged"}).Add(1)

	if e.policy.ShouldNotify(fp, &merged, ReasonRepeat) {
		e.dispatch(ReasonRepeat, &merged)
	}
	return nil
}

// createLocked persists and indexes a first occurrence, caller holds the
// shard lock.
func (e *Engine) createLocked(ctx context.Context, shard *indexShard, fp uint64, incoming *alert.Alert, reportTime int64) error {
	incoming.Status = alert.StatusUnresolved
	incoming.TriggerTimes = 1
	incoming.FirstAlarmTime = reportTime
	incoming.LastAlarmTime = reportTime
	if err := e.saveWithRetry(ctx, incoming); err != nil {
		return err
	}
	shard.alerts[fp] = incoming
	reduceCounter.With(prometheus.Labels{"outcome": "created"}).Add(1)

	if e.policy.ShouldNotify(fp, incoming, ReasonNew) {
		e.dispatch(ReasonNew, incoming)
	}
	return nil
}

func (e *Engine) saveWithRetry(ctx context.Context, a *alert.Alert) error {
	var err error
	for i := 0; i < saveRetryMax; i++ {
		if err = e.store.Save(ctx, a); err == nil {
			return nil
		}
		if errors.Is(err, alertstore.ErrNotFound) {
			// not transient, retrying cannot bring the record back
			return err
		}
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	ylog.Errorf("ReduceAndSend", "save failed after %d attempts error %s", saveRetryMax, err.Error())
	return err
}

func (e *Engine) dispatch(reason string, a *alert.Alert) {
	if e.out == nil {
		return
	}
	cp := *a
	reduceCounter.With(prometheus.Labels{"outcome": "dispatched"}).Add(1)
	e.out.Dispatch(reason, &cp)
}

// Rebuild reloads the active index from persisted unresolved alerts, run on
// startup and periodically so the index stays reconcilable with storage.
// Snapshot entries overlay the live shards instead of replacing them, a
// report merged or created after the snapshot read must not be dropped.
func (e *Engine) Rebuild(ctx context.Context) error {
	alerts, err := e.store.FindUnresolved(ctx)
	if err != nil {
		ylog.Errorf("RebuildActiveIndex", "find unresolved error %s", err.Error())
		return err
	}

	fresh := NewActiveIndex()
	for i := range alerts {
		a := alerts[i]
		fp := Fingerprint(&a)
		s := fresh.shard(fp)
		s.Lock()
		if cur, ok := s.alerts[fp]; !ok || a.LastAlarmTime > cur.LastAlarmTime {
			s.alerts[fp] = &a
		}
		s.Unlock()
	}

	for i := range e.index.shards {
		dst := &e.index.shards[i]
		src := &fresh.shards[i]
		dst.Lock()
		for fp, a := range src.alerts {
			if cur, ok := dst.alerts[fp]; !ok || a.LastAlarmTime > cur.LastAlarmTime {
				dst.alerts[fp] = a
			}
		}
		dst.Unlock()
	}

	ylog.Infof("RebuildActiveIndex", "rebuilt with %d active alerts", e.index.Len())
	return nil
}
