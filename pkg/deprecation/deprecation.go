// Package deprecation wraps functions so that each call logs a deprecation
// warning before delegating to the original behavior.
package deprecation

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Notifier emits deprecation warnings.
type Notifier struct {
	logger *zerolog.Logger
	count  atomic.Int64
}

// NewNotifier creates a Notifier that writes to logger.
func NewNotifier(logger zerolog.Logger) *Notifier {
	return &Notifier{logger: &logger}
}

// Default writes to the global zerolog logger at the time of each warning.
var Default = &Notifier{}

// Warn records one deprecated call of name.
func (n *Notifier) Warn(name, reason string) {
	if n == nil {
		n = Default
	}
	n.count.Add(1)

	logger := n.logger
	if logger == nil {
		logger = &log.Logger
	}
	logger.Warn().
		Str("func", name).
		Str("reason", reason).
		Msg(Message(name, reason))
}

// Count returns how many warnings have been emitted.
func (n *Notifier) Count() int64 {
	return n.count.Load()
}

// Message formats the warning text for name.
func Message(name, reason string) string {
	return fmt.Sprintf("Function '%s' is deprecated: %s", name, reason)
}

// Wrap returns fn with a deprecation warning emitted on every call.
// A nil Notifier uses Default.
func Wrap[A, R any](n *Notifier, name, reason string, fn func(A) R) func(A) R {
	return func(a A) R {
		n.Warn(name, reason)
		return fn(a)
	}
}

// WrapErr is Wrap for functions that also return an error.
func WrapErr[A, R any](n *Notifier, name, reason string, fn func(A) (R, error)) func(A) (R, error) {
	return func(a A) (R, error) {
		n.Warn(name, reason)
		return fn(a)
	}
}
