package cloudadapter

import (
	"fmt"
	"strconv"

	"github.com/prometheus/alertmanager/template"

	"github.com/nimbuswatch/alerter/internal/alert"
)

const ProviderPrometheus = "prometheus"

// convertPrometheus accepts an Alertmanager webhook body. The whole group
// maps to one canonical alert: identity comes from the group labels, the
// first alert contributes annotations and times.
func convertPrometheus(payload []byte) (*alert.Alert, error) {
	var data template.Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("prometheus report malformed: %w", err)
	}
	if len(data.Alerts) == 0 {
		return nil, fmt.Errorf("prometheus report malformed: empty alerts group")
	}

	first := data.Alerts[0]

	status := alert.StatusUnresolved
	if data.Status == "resolved" {
		status = alert.StatusResolved
	}

	priority := alert.PriorityNotice
	switch data.CommonLabels["severity"] {
	case "critical":
		priority = alert.PriorityCritical
	case "warning":
		priority = alert.PriorityWarning
	}

	content := first.Annotations["summary"]
	if content == "" {
		content = first.Annotations["description"]
	}
	if content == "" {
		content = data.CommonLabels["alertname"]
	}

	tags := map[string]string{
		alert.TagKeyProvider:  ProviderPrometheus,
		alert.TagKeyGroupSize: strconv.Itoa(len(data.Alerts)),
	}
	for k, v := range data.GroupLabels {
		tags[k] = v
	}
	for k, v := range data.CommonLabels {
		tags[k] = v
	}

	alarmTime := first.StartsAt.UnixMilli()
	if status == alert.StatusResolved && !first.EndsAt.IsZero() {
		alarmTime = first.EndsAt.UnixMilli()
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
	Register(ProviderPrometheus, ConverterFunc(convertPrometheus))
}
