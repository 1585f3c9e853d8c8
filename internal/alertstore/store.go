package alertstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimbuswatch/alerter/internal/alert"
)

// ErrNotFound reports a Save against an id that no longer exists, the
// record was deleted between reads. Callers treat the condition as gone
// and start over, never re-create under the old id.
var ErrNotFound = errors.New("alert record not found")

// Filter narrows an alert query. Zero-valued fields are ignored.
type Filter struct {
	Ids       []primitive.ObjectID
	MonitorId int64
	Priority  *int
	Status    *int
	Content   string // regex match
}

type PageQuery struct {
	Page     int64
	PageSize int64
	SortKey  string
	Order    int // 1 asc, -1 desc
}

type PriorityCount struct {
	Priority int   `json:"priority" bson:"_id"`
	Count    int64 `json:"count" bson:"count"`
}

// Store is the persistence collaborator of the reduce engine and the
// lifecycle facade. Writes here are the authoritative commit point, the
// in-memory active index is only a working set over this.
type Store interface {
	// Save inserts the alert when Id is zero, otherwise replaces the
	// persisted record. The assigned id is written back to a. Replacing
	// an id that was deleted returns ErrNotFound instead of upserting,
	// a concurrent bulk delete must win over an in-flight merge.
	Save(ctx context.Context, a *alert.Alert) error
	FindAll(ctx context.Context, filter Filter, page PageQuery) ([]alert.Alert, int64, error)
	DeleteByIdIn(ctx context.Context, ids []primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
	UpdateStatus(ctx context.Context, status int, ids []primitive.ObjectID) error
	FindPriorityCounts(ctx context.Context) ([]PriorityCount, error)
	Count(ctx context.Context) (int64, error)
	// FindUnresolved feeds the active-index rebuild on startup.
	FindUnresolved(ctx context.Context) ([]alert.Alert, error)
}
