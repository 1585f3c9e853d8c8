package reduce

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimbuswatch/alerter/internal/alert"
)

const indexShardNum = 64

type indexShard struct {
	sync.Mutex
	alerts map[uint64]*alert.Alert
}

// ActiveIndex is the working set of unresolved alerts keyed by fingerprint.
// It is sharded so reports for different fingerprints proceed in parallel,
// while reports sharing a fingerprint serialize on one shard lock.
type ActiveIndex struct {
	shards [indexShardNum]indexShard
}

func NewActiveIndex() *ActiveIndex {
	idx := &ActiveIndex{}
	for i := range idx.shards {
		idx.shards[i].alerts = make(map[uint64]*alert.Alert)
	}
	return idx
}

func (idx *ActiveIndex) shard(fp uint64) *indexShard {
	return &idx.shards[fp%indexShardNum]
}

func (idx *ActiveIndex) Get(fp uint64) (*alert.Alert, bool) {
	s := idx.shard(fp)
	s.Lock()
	defer s.Unlock()
	a, ok := s.alerts[fp]
	return a, ok
}

func (idx *ActiveIndex) Len() int {
	total := 0
	for i := range idx.shards {
		idx.shards[i].Lock()
		total += len(idx.shards[i].alerts)
		idx.shards[i].Unlock()
	}
	return total
}

// EvictIds drops index entries whose alert id matches. Used by the facade
// bulk operations so a racing report re-creates instead of resurrecting a
// deleted record.
func (idx *ActiveIndex) EvictIds(ids []primitive.ObjectID) {
	if len(ids) == 0 {
		return
	}

	idSet := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, one := range ids {
		idSet[one] = struct{}{}
	}

	for i := range idx.shards {
		s := &idx.shards[i]
		s.Lock()
		for fp, a := range s.alerts {
			if _, hit := idSet[a.Id]; hit {
				delete(s.alerts, fp)
			}
		}
		s.Unlock()
	}
}

func (idx *ActiveIndex) EvictAll() {
	for i := range idx.shards {
		s := &idx.shards[i]
		s.Lock()
		s.alerts = make(map[uint64]*alert.Alert)
		s.Unlock()
	}
}
