package generator

import (
	"fmt"
	"time"
)

// ThrottleError сигнализирует, что провайдер просит подождать (Retry-After).
// ReliabilityWrapper использует RetryAfter вместо стандартного бэкоффа.
type ThrottleError struct {
	RetryAfter time.Duration
	Cause      error
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("throttled: retry after %v (cause: %v)", e.RetryAfter, e.Cause)
}
