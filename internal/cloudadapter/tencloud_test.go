package cloudadapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nimbuswatch/alerter/internal/alert"
)

const tenCloudMetricPayload = `{
  "sessionId": "xxxxxxxx",
  "alarmStatus": "1",
  "alarmType": "metric",
  "alarmObjInfo": {
    "region": "gz",
    "namespace": "qce/cvm",
    "appId": "1253985742",
    "uin": "3276112734",
    "dimensions": {
      "unInstanceId": "ins-19708ino"
    }
  },
  "alarmPolicyInfo": {
    "policyId": "policy-n4exeh88",
    "policyType": "cvm_device",
    "policyName": "test",
    "policyTypeCname": "CVM-basic monitoring",
    "conditions": {
      "metricName": "cpu_usage",
      "metricShowName": "CPU utilization",
      "calcType": ">",
      "calcValue": "90",
      "calcUnit": "%",
      "currentValue": "95.3"
    }
  },
  "firstOccurTime": "2024-08-01 11:30:00",
  "durationTime": 100,
  "recoverTime": "0"
}`

func TestConvertTenCloudMetricAlarm(t *testing.T) {
	a, err := Convert(ProviderTenCloud, []byte(tenCloudMetricPayload))
	assert.NoError(t, err)
	assert.NotNil(t, a)

	occur, _ := time.ParseInLocation("2006-01-02 15:04:05", "2024-08-01 11:30:00", time.Local)
	assert.Equal(t, occur.UnixMilli()+100*1000, a.FirstAlarmTime)
	assert.Equal(t, a.FirstAlarmTime, a.LastAlarmTime)

	assert.Equal(t, alert.StatusUnresolved, a.Status)
	assert.Equal(t, alert.PriorityWarning, a.Priority)
	assert.Equal(t, int64(1), a.TriggerTimes)
	assert.Contains(t, a.Content, "test")
	assert.Contains(t, a.Content, "CPU utilization")

	assert.Equal(t, ProviderTenCloud, a.Tags[alert.TagKeyProvider])
	assert.Equal(t, "gz", a.Tags[alert.TagKeyRegion])
	assert.Equal(t, "qce/cvm", a.Tags[alert.TagKeyNamespace])
	assert.Equal(t, "policy-n4exeh88", a.Tags[alert.TagKeyPolicyId])
	assert.Equal(t, "100", a.Tags[alert.TagKeyDuration])
	assert.Equal(t, "ins-19708ino", a.Tags["unInstanceId"])
}

func TestConvertTenCloudRecoveredEvent(t *testing.T) {
	payload := `{
	  "sessionId": "yyyyyyyy",
	  "alarmStatus": "0",
	  "alarmType": "event",
	  "alarmPolicyInfo": {"policyId": "policy-abc", "policyName": "disk gone"},
	  "firstOccurTime": "2024-08-01 11:30:00",
	  "durationTime": 0,
	  "recoverTime": "2024-08-01 11:35:00"
	}`

	a, err := Convert(ProviderTenCloud, []byte(payload))
	assert.NoError(t, err)
	assert.Equal(t, alert.StatusResolved, a.Status)
	assert.Equal(t, alert.PriorityCritical, a.Priority)
	assert.Equal(t, "disk gone", a.Content)
}

func TestConvertTenCloudMalformed(t *testing.T) {
	_, err := Convert(ProviderTenCloud, []byte(`{"firstOccurTime": "not a time"}`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotSupported)

	_, err = Convert(ProviderTenCloud, []byte(`not json at all`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotSupported)
}

func TestConvertUnknownProvider(t *testing.T) {
	a, err := Convert("alicloud", []byte(`{}`))
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestProvidersIncludeBuiltins(t *testing.T) {
	names := Providers()
	assert.Contains(t, names, ProviderTenCloud)
	assert.Contains(t, names, ProviderPrometheus)
}
