package alertstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimbuswatch/alerter/internal/alert"
)

func TestSaveDeletedIdReturnsErrNotFound(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	a := &alert.Alert{Content: "probe condition", Status: alert.StatusUnresolved, TriggerTimes: 1}
	assert.NoError(t, s.Save(ctx, a))
	assert.NoError(t, s.DeleteByIdIn(ctx, []primitive.ObjectID{a.Id}))

	// replacing a deleted id must fail, not quietly re-insert it
	a.TriggerTimes = 2
	err := s.Save(ctx, a)
	assert.ErrorIs(t, err, ErrNotFound)

	total, cErr := s.Count(ctx)
	assert.NoError(t, cErr)
	assert.Equal(t, int64(0), total)
}

func TestUpdateStatusTouchesOnlyStatus(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	a := &alert.Alert{
		Content:        "stable fields",
		Priority:       alert.PriorityCritical,
		Status:         alert.StatusUnresolved,
		Tags:           map[string]string{"instance": "host-1"},
		FirstAlarmTime: 1722500000000,
		LastAlarmTime:  1722500060000,
		TriggerTimes:   3,
	}
	assert.NoError(t, s.Save(ctx, a))
	assert.NoError(t, s.UpdateStatus(ctx, alert.StatusSilenced, []primitive.ObjectID{a.Id}))

	got, ok := s.Get(a.Id)
	assert.True(t, ok)
	assert.Equal(t, alert.StatusSilenced, got.Status)
	assert.Equal(t, int64(3), got.TriggerTimes)
	assert.Equal(t, int64(1722500060000), got.LastAlarmTime)
	assert.Equal(t, alert.PriorityCritical, got.Priority)
}
