package cloudadapter

import (
	"errors"
	"sync"

	"github.com/nimbuswatch/alerter/internal/alert"
)

// ErrNotSupported marks a report from a provider nobody registered. It is a
// deliberate no-op for callers, not a failure.
var ErrNotSupported = errors.New("cloud provider not supported")

// Converter parses one provider-specific payload into a canonical alert.
// A parse failure on a registered provider is a real error and must not be
// swallowed.
type Converter interface {
	Convert(payload []byte) (*alert.Alert, error)
}

type ConverterFunc func(payload []byte) (*alert.Alert, error)

func (f ConverterFunc) Convert(payload []byte) (*alert.Alert, error) {
	return f(payload)
}

var (
	regLock  sync.RWMutex
	registry = make(map[string]Converter)
)

func Register(provider string, c Converter) {
	regLock.Lock()
	registry[provider] = c
	regLock.Unlock()
}

func Providers() []string {
	regLock.RLock()
	defer regLock.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Convert looks up the provider and runs its converter. Unregistered
// providers return ErrNotSupported.
func Convert(provider string, payload []byte) (*alert.Alert, error) {
	regLock.RLock()
	c, ok := registry[provider]
	regLock.RUnlock()

	if !ok {
		return nil, ErrNotSupported
	}
	return c.Convert(payload)
}
