package uisound

import "time"

// Vibrator forwards a vibration pattern to a platform facility. Patterns
// are ordered durations alternating vibrate and pause.
type Vibrator interface {
	Vibrate(pattern []time.Duration) error
}

// NopVibrator discards every pattern, for hosts without a vibration
// facility.
type NopVibrator struct{}

func (NopVibrator) Vibrate([]time.Duration) error { return nil }

// hapticPatterns maps named strengths to their fixed patterns.
var hapticPatterns = map[HapticStrength][]time.Duration{
	HapticLight:  {10 * time.Millisecond},
	HapticMedium: {25 * time.Millisecond},
	HapticHeavy:  {50 * time.Millisecond, 25 * time.Millisecond, 50 * time.Millisecond},
}

// HapticPattern returns the fixed pattern for a named strength. The
// returned slice is a copy.
func HapticPattern(strength HapticStrength) ([]time.Duration, bool) {
	p, ok := hapticPatterns[strength]
	if !ok {
		return nil, false
	}
	out := make([]time.Duration, len(p))
	copy(out, p)
	return out, true
}
