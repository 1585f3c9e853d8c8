package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportToAlertFoldsTags(t *testing.T) {
	r := &Report{
		MonitorId: 42,
		Priority:  PriorityCritical,
		Status:    StatusUnresolved,
		Content:   "cpu usage over 90%",
		AlertTime: 1722500000000,
		Labels:    map[string]string{"instance": "host-1", "env": "prod"},
		Annotations: map[string]string{
			"runbook": "https://wiki/runbooks/cpu",
			"env":     "annotation-loses",
		},
	}

	a := r.ToAlert()
	assert.Equal(t, int64(42), a.MonitorId)
	assert.Equal(t, "cpu usage over 90%", a.Content)
	assert.Equal(t, int64(1722500000000), a.FirstAlarmTime)
	assert.Equal(t, int64(1722500000000), a.LastAlarmTime)
	assert.Equal(t, int64(1), a.TriggerTimes)

	// labels shadow annotations on key conflicts
	assert.Equal(t, "prod", a.Tags["env"])
	assert.Equal(t, "host-1", a.Tags["instance"])
	assert.Equal(t, "https://wiki/runbooks/cpu", a.Tags["runbook"])
}

func TestReportToAlertEmptyTags(t *testing.T) {
	r := &Report{Content: "bare report"}
	a := r.ToAlert()
	assert.NotNil(t, a.Tags)
	assert.Empty(t, a.Tags)
}
