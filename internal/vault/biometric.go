package vault

import (
	"context"
	"math/rand"
	"time"
)

// BiometricService delivers a pass/fail verdict for a biometric scan.
// The error return is for infrastructure failures only; a rejected
// fingerprint is a false verdict, not an error.
type BiometricService interface {
	Scan(ctx context.Context) (bool, error)
}

// Simulated is a stand-in sensor: it waits Delay, then succeeds with
// probability SuccessRate. A nil Rand falls back to the shared source.
type Simulated struct {
	Delay       time.Duration
	SuccessRate float64
	Rand        *rand.Rand
}

func (s *Simulated) Scan(ctx context.Context) (bool, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	if s.Rand != nil {
		return s.Rand.Float64() < s.SuccessRate, nil
	}
	return rand.Float64() < s.SuccessRate, nil
}
