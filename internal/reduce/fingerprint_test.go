package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimbuswatch/alerter/internal/alert"
)

func TestFingerprintStableAcrossVolatileFields(t *testing.T) {
	first := &alert.Alert{
		MonitorId: 200,
		Priority:  alert.PriorityCritical,
		Content:   "disk almost full",
		Tags: map[string]string{
			"instance":           "host-9",
			alert.TagKeyDuration: "60",
		},
		LastAlarmTime: 1722500000000,
		TriggerTimes:  1,
	}
	second := &alert.Alert{
		Id:        primitive.NewObjectID(),
		MonitorId: 200,
		Priority:  alert.PriorityWarning,
		Content:   "disk almost full",
		Tags: map[string]string{
			"instance":            "host-9",
			alert.TagKeyDuration:  "3600",
			alert.TagKeyGroupSize: "4",
		},
		LastAlarmTime: 1722586400000,
		TriggerTimes:  12,
	}
	assert.Equal(t, Fingerprint(first), Fingerprint(second))
}

func TestFingerprintSeparatesConditions(t *testing.T) {
	base := &alert.Alert{MonitorId: 201, Content: "disk almost full"}

	otherMonitor := &alert.Alert{MonitorId: 202, Content: "disk almost full"}
	assert.NotEqual(t, Fingerprint(base), Fingerprint(otherMonitor))

	otherContent := &alert.Alert{MonitorId: 201, Content: "disk recovered"}
	assert.NotEqual(t, Fingerprint(base), Fingerprint(otherContent))

	otherTags := &alert.Alert{MonitorId: 201, Content: "disk almost full",
		Tags: map[string]string{"instance": "host-9"}}
	assert.NotEqual(t, Fingerprint(base), Fingerprint(otherTags))
}

func TestFingerprintIgnoresTagOrderAndEmptyOrigin(t *testing.T) {
	a := &alert.Alert{Content: "orphan condition"}
	b := &alert.Alert{Content: "orphan condition"}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}
