package reduce

import (
	"strconv"

	"github.com/prometheus/common/model"

	"github.com/nimbuswatch/alerter/internal/alert"
)

// reserved signature keys, chosen so they cannot collide with producer tags
const (
	sigKeyMonitorId = "__fp_monitor_id"
	sigKeyContent   = "__fp_content"
)

// Fingerprint derives the stable identity of an alert from its origin
// fields. Volatile bookkeeping (trigger times, last alarm time, duration)
// never feeds the signature, so repeated firings of one condition hash
// identically.
func Fingerprint(a *alert.Alert) uint64 {
	labels := make(map[string]string, len(a.Tags)+2)
	for k, v := range a.Tags {
		if _, volatile := alert.VolatileTagKeys[k]; volatile {
			continue
		}
		labels[k] = v
	}

	if a.MonitorId > 0 {
		labels[sigKeyMonitorId] = strconv.FormatInt(a.MonitorId, 10)
	}
	if a.Content != "" {
		labels[sigKeyContent] = a.Content
	}

	return model.LabelsToSignature(labels)
}
