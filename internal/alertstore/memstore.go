package alertstore

import (
	"context"
	"regexp"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimbuswatch/alerter/internal/alert"
)

// MemStore is an in-memory Store. It backs tests and local development
// where no mongod is around, and mirrors MongoStore semantics closely
// enough for the engine to not care.
type MemStore struct {
	lock   sync.RWMutex
	alerts map[primitive.ObjectID]alert.Alert
}

func NewMemStore() *MemStore {
	return &MemStore{alerts: make(map[primitive.ObjectID]alert.Alert)}
}

func (s *MemStore) Save(ctx context.Context, a *alert.Alert) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if a.Id.IsZero() {
		a.Id = primitive.NewObjectID()
	} else if _, ok := s.alerts[a.Id]; !ok {
		return ErrNotFound
	}
	s.alerts[a.Id] = *a
	return nil
}

func (s *MemStore) FindAll(ctx context.Context, filter Filter, page PageQuery) ([]alert.Alert, int64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var contentRe *regexp.Regexp
	if filter.Content != "" {
		var err error
		if contentRe, err = regexp.Compile(filter.Content); err != nil {
			return nil, 0, err
		}
	}

	idSet := make(map[primitive.ObjectID]struct{}, len(filter.Ids))
	for _, one := range filter.Ids {
		idSet[one] = struct{}{}
	}

	matched := make([]alert.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if len(idSet) > 0 {
			if _, ok := idSet[a.Id]; !ok {
				continue
			}
		}
		if filter.MonitorId > 0 && a.MonitorId != filter.MonitorId {
			continue
		}
		if filter.Priority != nil && a.Priority != *filter.Priority {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if contentRe != nil && !contentRe.MatchString(a.Content) {
			continue
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].LastAlarmTime > matched[j].LastAlarmTime
	})

	total := int64(len(matched))
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 {
		page.PageSize = 100
	}
	start := (page.Page - 1) * page.PageSize
	if start >= total {
		return []alert.Alert{}, total, nil
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}
	return matched[start:end:end], total, nil
}

func (s *MemStore) DeleteByIdIn(ctx context.Context, ids []primitive.ObjectID) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, one := range ids {
		delete(s.alerts, one)
	}
	return nil
}

func (s *MemStore) DeleteAll(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.alerts = make(map[primitive.ObjectID]alert.Alert)
	return nil
}

func (s *MemStore) UpdateStatus(ctx context.Context, status int, ids []primitive.ObjectID) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, one := range ids {
		if a, ok := s.alerts[one]; ok {
			a.Status = status
			s.alerts[one] = a
		}
	}
	return nil
}

func (s *MemStore) FindPriorityCounts(ctx context.Context) ([]PriorityCount, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	byPriority := make(map[int]int64)
	for _, a := range s.alerts {
		byPriority[a.Priority]++
	}

	counts := make([]PriorityCount, 0, len(byPriority))
	for priority, num := range byPriority {
		counts = append(counts, PriorityCount{Priority: priority, Count: num})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Priority < counts[j].Priority })
	return counts, nil
}

func (s *MemStore) Count(ctx context.Context) (int64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return int64(len(s.alerts)), nil
}

func (s *MemStore) FindUnresolved(ctx context.Context) ([]alert.Alert, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	alerts := make([]alert.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if a.Status == alert.StatusUnresolved {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

// Get returns a snapshot of one persisted alert, test helper.
func (s *MemStore) Get(id primitive.ObjectID) (alert.Alert, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	a, ok := s.alerts[id]
	return a, ok
}
