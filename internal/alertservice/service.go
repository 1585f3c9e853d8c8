package alertservice

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimbuswatch/alerter/infra/ylog"
	"github.com/nimbuswatch/alerter/internal/alert"
	"github.com/nimbuswatch/alerter/internal/alertstore"
	"github.com/nimbuswatch/alerter/internal/cloudadapter"
	"github.com/nimbuswatch/alerter/internal/reduce"
)

// Service is the lifecycle surface the API layer talks to. Queries and bulk
// edits go straight to the store, new reports funnel through normalization
// and the reduce engine.
type Service struct {
	store  alertstore.Store
	engine *reduce.Engine
}

func NewService(store alertstore.Store, engine *reduce.Engine) *Service {
	return &Service{store: store, engine: engine}
}

type AlertPage struct {
	Total    int64         `json:"total"`
	Page     int64         `json:"page"`
	PageSize int64         `json:"page_size"`
	Items    []alert.Alert `json:"items"`
}

// AddAlert inserts a synthetic or manually raised alert, bypassing
// reduction on purpose.
func (s *Service) AddAlert(ctx context.Context, a *alert.Alert) error {
	if a.TriggerTimes < 1 {
		a.TriggerTimes = 1
	}
	if a.FirstAlarmTime > 0 && a.LastAlarmTime < a.FirstAlarmTime {
		a.LastAlarmTime = a.FirstAlarmTime
	}
	return s.store.Save(ctx, a)
}

func (s *Service) GetAlerts(ctx context.Context, ids []string, monitorId int64, priority, status *int,
	content, sortKey, order string, page, pageSize int64) (*AlertPage, error) {

	filter := alertstore.Filter{
		Ids:       decodeObjectIds(ids),
		MonitorId: monitorId,
		Priority:  priority,
		Status:    status,
		Content:   content,
	}

	orderValue := -1
	if order == "asc" {
		orderValue = 1
	}

	alerts, total, err := s.store.FindAll(ctx, filter, alertstore.PageQuery{
		Page:     page,
		PageSize: pageSize,
		SortKey:  sortKey,
		Order:    orderValue,
	})
	if err != nil {
		return nil, err
	}

	return &AlertPage{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    alerts,
	}, nil
}

// DeleteAlerts evicts before it deletes. A report racing the eviction
// still merges into a record that exists; a report racing the delete
// finds no index entry and opens a fresh condition. The reverse order
// would let a merge re-persist the deleted id through its retained _id.
func (s *Service) DeleteAlerts(ctx context.Context, ids []string) error {
	oids := decodeObjectIds(ids)
	s.engine.Index().EvictIds(oids)
	return s.store.DeleteByIdIn(ctx, oids)
}

func (s *Service) ClearAlerts(ctx context.Context) error {
	s.engine.Index().EvictAll()
	return s.store.DeleteAll(ctx)
}

func (s *Service) EditAlertStatus(ctx context.Context, status int, ids []string) error {
	oids := decodeObjectIds(ids)
	if status == alert.StatusResolved {
		s.engine.Index().EvictIds(oids)
	}
	return s.store.UpdateStatus(ctx, status, oids)
}

func (s *Service) GetAlertsSummary(ctx context.Context) (*alert.PrioritySummary, error) {
	counts, err := s.store.FindPriorityCounts(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	summary := &alert.PrioritySummary{
		Total:        total,
		PriorityNums: make(map[int]int64, len(counts)),
	}
	for _, one := range counts {
		summary.PriorityNums[one.Priority] = one.Count
	}
	return summary, nil
}

// AddNewAlertReport takes an internally produced report, already
// canonical-compatible, and runs it through reduction.
func (s *Service) AddNewAlertReport(ctx context.Context, report *alert.Report) error {
	return s.engine.ReduceAndSend(ctx, report.ToAlert())
}

// AddNewAlertReportFromCloud converts a provider payload and, only when the
// conversion succeeds, runs reduction. An unregistered provider is a silent
// no-op per contract.
func (s *Service) AddNewAlertReportFromCloud(ctx context.Context, provider string, payload []byte) error {
	a, err := cloudadapter.Convert(provider, payload)
	if err != nil {
		if errors.Is(err, cloudadapter.ErrNotSupported) {
			ylog.Debugf("AddNewAlertReportFromCloud", "provider %s not registered, report dropped", provider)
			return nil
		}
		ylog.Errorf("AddNewAlertReportFromCloud", "provider %s convert error %s", provider, err.Error())
		return err
	}
	return s.engine.ReduceAndSend(ctx, a)
}

func decodeObjectIds(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, one := range ids {
		oid, err := primitive.ObjectIDFromHex(one)
		if err != nil {
			ylog.Errorf("decode alertId to objectId error", "alertId %s error %s", one, err.Error())
			continue
		}
		oids = append(oids, oid)
	}
	return oids
}
