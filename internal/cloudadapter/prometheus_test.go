package cloudadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nimbuswatch/alerter/internal/alert"
)

const prometheusFiringPayload = `{
  "receiver": "alerter",
  "status": "firing",
  "alerts": [
    {
      "status": "firing",
      "labels": {"alertname": "HighRequestLatency", "instance": "api-1"},
      "annotations": {"summary": "request latency above 500ms"},
      "startsAt": "2024-08-01T03:30:00Z",
      "endsAt": "0001-01-01T00:00:00Z"
    },
    {
      "status": "firing",
      "labels": {"alertname": "HighRequestLatency", "instance": "api-2"},
      "annotations": {"summary": "request latency above 500ms"},
      "startsAt": "2024-08-01T03:31:00Z",
      "endsAt": "0001-01-01T00:00:00Z"
    }
  ],
  "groupLabels": {"alertname": "HighRequestLatency"},
  "commonLabels": {"alertname": "HighRequestLatency", "severity": "critical"},
  "commonAnnotations": {},
  "externalURL": "http://alertmanager:9093"
}`

func TestConvertPrometheusFiringGroup(t *testing.T) {
	a, err := Convert(ProviderPrometheus, []byte(prometheusFiringPayload))
	assert.NoError(t, err)
	assert.Equal(t, alert.StatusUnresolved, a.Status)
	assert.Equal(t, alert.PriorityCritical, a.Priority)
	assert.Equal(t, "request latency above 500ms", a.Content)
	assert.Equal(t, "HighRequestLatency", a.Tags["alertname"])
	assert.Equal(t, "2", a.Tags[alert.TagKeyGroupSize])
	assert.Equal(t, ProviderPrometheus, a.Tags[alert.TagKeyProvider])
	// first alert of the group carries the time
	assert.Equal(t, int64(1722483000000), a.FirstAlarmTime)
}

func TestConvertPrometheusResolved(t *testing.T) {
	payload := `{
	  "status": "resolved",
	  "alerts": [
	    {
	      "status": "resolved",
	      "labels": {"alertname": "HighRequestLatency"},
	      "annotations": {},
	      "startsAt": "2024-08-01T03:30:00Z",
	      "endsAt": "2024-08-01T04:00:00Z"
	    }
	  ],
	  "groupLabels": {"alertname": "HighRequestLatency"},
	  "commonLabels": {"alertname": "HighRequestLatency", "severity": "warning"}
	}`

	a, err := Convert(ProviderPrometheus, []byte(payload))
	assert.NoError(t, err)
	assert.Equal(t, alert.StatusResolved, a.Status)
	assert.Equal(t, alert.PriorityWarning, a.Priority)
	// content falls back to the alertname when annotations are empty
	assert.Equal(t, "HighRequestLatency", a.Content)
	assert.Equal(t, int64(1722484800000), a.LastAlarmTime)
}

func TestConvertPrometheusEmptyGroup(t *testing.T) {
	_, err := Convert(ProviderPrometheus, []byte(`{"status": "firing", "alerts": []}`))
	assert.Error(t, err)
}
