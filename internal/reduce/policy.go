package reduce

import (
	"time"

	"github.com/muesli/cache2go"

	"github.com/nimbuswatch/alerter/internal/alert"
)

// dispatch reason
const (
	ReasonNew      = "new"
	ReasonRepeat   = "repeat"
	ReasonResolved = "resolved"
)

// policy names accepted in config
const (
	PolicyNameAlways   = "always"
	PolicyNameFirst    = "first"
	PolicyNameEveryN   = "every_n"
	PolicyNameInterval = "interval"
)

// DispatchPolicy decides whether a reduction outcome should notify. The
// first occurrence and resolutions always pass through every builtin
// policy, repeats are where cadences differ.
type DispatchPolicy interface {
	ShouldNotify(fp uint64, a *alert.Alert, reason string) bool
}

type alwaysPolicy struct{}

func (alwaysPolicy) ShouldNotify(fp uint64, a *alert.Alert, reason string) bool {
	return true
}

type firstOnlyPolicy struct{}

func (firstOnlyPolicy) ShouldNotify(fp uint64, a *alert.Alert, reason string) bool {
	return reason != ReasonRepeat
}

type everyNPolicy struct {
	n int64
}

func (p everyNPolicy) ShouldNotify(fp uint64, a *alert.Alert, reason string) bool {
	if reason != ReasonRepeat {
		return true
	}
	if p.n <= 1 {
		return true
	}
	return (a.TriggerTimes-1)%p.n == 0
}

type intervalPolicy struct {
	window time.Duration
	cache  *cache2go.CacheTable
}

func (p *intervalPolicy) ShouldNotify(fp uint64, a *alert.Alert, reason string) bool {
	if reason == ReasonResolved {
		p.cache.Delete(fp)
		return true
	}
	// NotFoundAdd is atomic, the first caller inside a window wins
	return p.cache.NotFoundAdd(fp, p.window, struct{}{})
}

// NewDispatchPolicy builds a policy from config values. Unknown names fall
// back to first-only, the conservative default.
func NewDispatchPolicy(name string, n int64, window time.Duration) DispatchPolicy {
	switch name {
	case PolicyNameAlways:
		return alwaysPolicy{}
	case PolicyNameEveryN:
		return everyNPolicy{n: n}
	case PolicyNameInterval:
		if window <= 0 {
			window = 10 * time.Minute
		}
		return &intervalPolicy{
			window: window,
			cache:  cache2go.Cache("alerter_dispatch_interval"),
		}
	default:
		return firstOnlyPolicy{}
	}
}
