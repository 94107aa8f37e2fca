package uisound

import "context"

// GradientType selects which parameter a gradient varies with position.
type GradientType string

const (
	GradientPitch  GradientType = "pitch"
	GradientVolume GradientType = "volume"
)

// GradientSpec parameterizes CreateGradient. Range is the total semitone
// spread for pitch gradients and is ignored for volume.
type GradientSpec struct {
	Type  GradientType
	Range float64
}

// Scale interval tables in semitones. Harmonic sets wrap into higher
// octaves once the index passes the table length.
var scaleIntervals = map[string][]int{
	"major":      {0, 2, 4, 5, 7, 9, 11},
	"minor":      {0, 2, 3, 5, 7, 8, 10},
	"pentatonic": {0, 2, 4, 7, 9, 12},
	"chromatic":  {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// CreateGradient returns steps pre-bound triggers whose pitch or volume
// varies monotonically with position: pitch spreads symmetrically around
// zero across Range semitones, volume rises from 0.3 to 1.0. Other
// gradient types replay the sound unmodified. Triggers are immutable once
// created and typically bound to UI elements at setup time.
func (p *Pack) CreateGradient(path string, steps int, spec GradientSpec) []Trigger {
	if steps <= 0 {
		return nil
	}
	triggers := make([]Trigger, steps)
	for i := 0; i < steps; i++ {
		triggers[i] = p.bindTrigger(path, gradientOptions(i, steps, spec))
	}
	return triggers
}

// gradientOptions computes the options for step i of a gradient.
func gradientOptions(i, steps int, spec GradientSpec) *PlayOptions {
	t := gradientPosition(i, steps)
	switch spec.Type {
	case GradientPitch:
		return &PlayOptions{Pitch: Float((t - 0.5) * spec.Range)}
	case GradientVolume:
		return &PlayOptions{Volume: Float(0.3 + 0.7*t)}
	default:
		return nil
	}
}

// gradientPosition returns the normalized position of step i in [0, 1].
// A single-step gradient sits at position 0.
func gradientPosition(i, steps int) float64 {
	if steps <= 1 {
		return 0
	}
	return float64(i) / float64(steps-1)
}

// CreateHarmonicSet returns count triggers whose pitches follow a named
// scale, wrapping into higher octaves past the scale length. Unknown
// scale names fall back to pentatonic.
func (p *Pack) CreateHarmonicSet(path string, count int, scale string) []Trigger {
	if count <= 0 {
		return nil
	}
	intervals, ok := scaleIntervals[scale]
	if !ok {
		intervals = scaleIntervals["pentatonic"]
	}
	triggers := make([]Trigger, count)
	for i := 0; i < count; i++ {
		pitch := float64(harmonicPitch(i, intervals))
		triggers[i] = p.bindTrigger(path, &PlayOptions{Pitch: Float(pitch)})
	}
	return triggers
}

// harmonicPitch computes intervals[i mod n] + 12*floor(i/n) semitones.
func harmonicPitch(i int, intervals []int) int {
	n := len(intervals)
	return intervals[i%n] + 12*(i/n)
}

// bindTrigger pre-binds one play call. Failures follow the pack's
// fallback strategy, like any other play.
func (p *Pack) bindTrigger(path string, opts *PlayOptions) Trigger {
	return func(ctx context.Context) error {
		_, err := p.Play(ctx, path, opts)
		return err
	}
}
