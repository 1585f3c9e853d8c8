package alert

// alert status
const (
	StatusUnresolved int = 0
	StatusResolved   int = 1
	StatusSilenced   int = 2
)

// alert priority, lower is more severe
const (
	PriorityCritical int = 0
	PriorityWarning  int = 1
	PriorityNotice   int = 2
)

// reserved tag keys carried by producers
const (
	TagKeyProvider  = "__provider"
	TagKeyAlarmType = "__alarm_type"
	TagKeyRegion    = "region"
	TagKeyNamespace = "namespace"
	TagKeyPolicyId  = "policy_id"
	TagKeyDuration  = "duration"
	TagKeyGroupSize = "group_size"
)

// VolatileTagKeys vary between firings of one condition and are excluded
// from identity fingerprinting.
var VolatileTagKeys = map[string]struct{}{
	TagKeyDuration:  {},
	TagKeyGroupSize: {},
}

// mongo field names
const (
	AdfnMonitorId      = "monitor_id"
	AdfnPriority       = "priority"
	AdfnStatus         = "status"
	AdfnContent        = "content"
	AdfnFirstAlarmTime = "first_alarm_time"
	AdfnLastAlarmTime  = "last_alarm_time"
	AdfnTriggerTimes   = "trigger_times"
)
