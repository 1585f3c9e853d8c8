package alert

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Alert is the canonical record every producer converges to. The reduce
// engine only ever works on this shape, never on raw provider payloads.
type Alert struct {
	Id             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MonitorId      int64              `json:"monitor_id,omitempty" bson:"monitor_id,omitempty"`
	Priority       int                `json:"priority" bson:"priority"`
	Status         int                `json:"status" bson:"status"`
	Content        string             `json:"content" bson:"content"`
	Tags           map[string]string  `json:"tags,omitempty" bson:"tags,omitempty"`
	FirstAlarmTime int64              `json:"first_alarm_time" bson:"first_alarm_time"`
	LastAlarmTime  int64              `json:"last_alarm_time" bson:"last_alarm_time"`
	TriggerTimes   int64              `json:"trigger_times" bson:"trigger_times"`
}

// Report is the internal producer format. It is already canonical-compatible,
// no adapter lookup is needed.
type Report struct {
	MonitorId   int64             `json:"monitor_id,omitempty"`
	Priority    int               `json:"priority" binding:"numeric,min=0"`
	Status      int               `json:"status"`
	Content     string            `json:"content"`
	AlertTime   int64             `json:"alert_time"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// ToAlert normalizes an internal report into a canonical alert. Labels and
// annotations are folded into one tag set, labels win on key conflicts.
func (r *Report) ToAlert() *Alert {
	tags := make(map[string]string, len(r.Labels)+len(r.Annotations))
	for k, v := range r.Annotations {
		tags[k] = v
	}
	for k, v := range r.Labels {
		tags[k] = v
	}

	return &Alert{
		MonitorId:      r.MonitorId,
		Priority:       r.Priority,
		Status:         r.Status,
		Content:        r.Content,
		Tags:           tags,
		FirstAlarmTime: r.AlertTime,
		LastAlarmTime:  r.AlertTime,
		TriggerTimes:   1,
	}
}

type PrioritySummary struct {
	Total        int64         `json:"total"`
	PriorityNums map[int]int64 `json:"priority_nums"`
}
