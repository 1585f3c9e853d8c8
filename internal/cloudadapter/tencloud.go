package cloudadapter

import (
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/nimbuswatch/alerter/internal/alert"
)

const (
	ProviderTenCloud = "tencloud"

	tenCloudTimeLayout = "2006-01-02 15:04:05"

	tenCloudStatusRecovered = "0"
	tenCloudTypeEvent       = "event"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// tenCloudAlertReport mirrors the Tencent cloud monitoring alarm webhook
// body. Field names follow the wire format.
type tenCloudAlertReport struct {
	SessionID    string `json:"sessionId"`
	AlarmStatus  string `json:"alarmStatus"`
	AlarmType    string `json:"alarmType"`
	AlarmObjInfo struct {
		Region     string            `json:"region"`
		Namespace  string            `json:"namespace"`
		AppID      string            `json:"appId"`
		Uin        string            `json:"uin"`
		Dimensions map[string]string `json:"dimensions"`
	} `json:"alarmObjInfo"`
	AlarmPolicyInfo struct {
		PolicyID        string `json:"policyId"`
		PolicyType      string `json:"policyType"`
		PolicyName      string `json:"policyName"`
		PolicyTypeCName string `json:"policyTypeCname"`
		Conditions      struct {
			MetricName     string `json:"metricName"`
			MetricShowName string `json:"metricShowName"`
			CalcType       string `json:"calcType"`
			CalcValue      string `json:"calcValue"`
			CalcUnit       string `json:"calcUnit"`
			CurrentValue   string `json:"currentValue"`
		} `json:"conditions"`
	} `json:"alarmPolicyInfo"`
	FirstOccurTime string `json:"firstOccurTime"`
	DurationTime   int64  `json:"durationTime"`
	RecoverTime    string `json:"recoverTime"`
}

func convertTenCloud(payload []byte) (*alert.Alert, error) {
	var report tenCloudAlertReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("tencloud report malformed: %w", err)
	}

	occurTime, err := time.ParseInLocation(tenCloudTimeLayout, report.FirstOccurTime, time.Local)
	if err != nil {
		return nil, fmt.Errorf("tencloud report malformed: firstOccurTime %q: %w", report.FirstOccurTime, err)
	}
	alarmTime := occurTime.UnixMilli() + report.DurationTime*1000

	status := alert.StatusUnresolved
	if report.AlarmStatus == tenCloudStatusRecovered {
		status = alert.StatusResolved
	}

	priority := alert.PriorityWarning
	if report.AlarmType == tenCloudTypeEvent {
		priority = alert.PriorityCritical
	}

	content := report.AlarmPolicyInfo.PolicyName
	if cond := report.AlarmPolicyInfo.Conditions; cond.MetricShowName != "" {
		content = fmt.Sprintf("%s: %s %s %s%s (current %s)",
			report.AlarmPolicyInfo.PolicyName, cond.MetricShowName,
			cond.CalcType, cond.CalcValue, cond.CalcUnit, cond.CurrentValue)
	}

	tags := map[string]string{
		alert.TagKeyProvider:  ProviderTenCloud,
		alert.TagKeyAlarmType: report.AlarmType,
		alert.TagKeyDuration:  strconv.FormatInt(report.DurationTime, 10),
	}
	if report.AlarmObjInfo.Region != "" {
		tags[alert.TagKeyRegion] = report.AlarmObjInfo.Region
	}
	if report.AlarmObjInfo.Namespace != "" {
		tags[alert.TagKeyNamespace] = report.AlarmObjInfo.Namespace
	}
	if report.AlarmPolicyInfo.PolicyID != "" {
		tags[alert.TagKeyPolicyId] = report.AlarmPolicyInfo.PolicyID
	}
	for k, v := range report.AlarmObjInfo.Dimensions {
		tags[k] = v
	}

	return &alert.Alert{
		Priority:       priority,
		Status:         status,
		Content:        content,
		Tags:           tags,
		FirstAlarmTime: alarmTime,
		LastAlarmTime:  alarmTime,
		TriggerTimes:   1,
	}, nil
}

func init() {
	Register(ProviderTenCloud, ConverterFunc(convertTenCloud))
}
