package uisound

import "context"

// Parameter bounds applied to every play request. Out-of-range values are
// clamped at the boundary, never rejected.
const (
	MinPitchSemitones = -24.0
	MaxPitchSemitones = 24.0
	MinDetuneCents    = -1200.0
	MaxDetuneCents    = 1200.0
	MinVolume         = 0.0
	MaxVolume         = 1.0
	MinPan            = -1.0
	MaxPan            = 1.0
	MinPlaybackRate   = 0.25
	MaxPlaybackRate   = 4.0
	MinFilterHz       = 20.0
	MaxFilterHz       = 20000.0
	MinDelaySeconds   = 0.0
	MaxDelaySeconds   = 5.0
)

// PlayOptions are per-call playback parameters. Nil fields mean "unset" so
// manifest defaults and caller overrides can be merged; the caller side wins
// on conflict.
type PlayOptions struct {
	// Pitch shifts playback in semitones. Applied as a rate multiplier
	// 2^(semitones/12), changing both pitch and duration.
	Pitch *float64
	// Detune fine-tunes in cents on top of the pitch shift.
	Detune *float64
	// Volume is linear gain in [0, 1]. Default 1.
	Volume *float64
	// Pan is stereo position in [-1, 1]. Default 0 (center).
	Pan *float64
	// Rate is a direct playback-rate multiplier. Default 1.
	Rate *float64
}

// Float returns a pointer to v, for populating optional option fields.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v, for populating optional option fields.
func Bool(v bool) *bool {
	return &v
}

// EffectOptions are optional per-call effect stages. Nil fields disable the
// corresponding stage.
type EffectOptions struct {
	LowpassHz    *float64
	HighpassHz   *float64
	DelaySeconds *float64
}

// Trigger is a pre-bound play callable, as produced by gradients and
// harmonic sets. The context governs the load on a cache miss.
type Trigger func(ctx context.Context) error

// playParams is a fully resolved, clamped parameter set.
type playParams struct {
	pitch  float64
	detune float64
	volume float64
	pan    float64
	rate   float64
}

// resolvePlayOptions fills defaults and clamps everything.
func resolvePlayOptions(opts *PlayOptions) playParams {
	p := playParams{volume: 1, rate: 1}
	if opts != nil {
		if opts.Pitch != nil {
			p.pitch = *opts.Pitch
		}
		if opts.Detune != nil {
			p.detune = *opts.Detune
		}
		if opts.Volume != nil {
			p.volume = *opts.Volume
		}
		if opts.Pan != nil {
			p.pan = *opts.Pan
		}
		if opts.Rate != nil {
			p.rate = *opts.Rate
		}
	}
	p.pitch = clamp(p.pitch, MinPitchSemitones, MaxPitchSemitones)
	p.detune = clamp(p.detune, MinDetuneCents, MaxDetuneCents)
	p.volume = clamp(p.volume, MinVolume, MaxVolume)
	p.pan = clamp(p.pan, MinPan, MaxPan)
	p.rate = clamp(p.rate, MinPlaybackRate, MaxPlaybackRate)
	return p
}

// ratio is the combined playback-rate multiplier: direct rate times the
// semitone shift times the cent fine-tune.
func (p playParams) ratio() float64 {
	return p.rate * semitoneRatio(p.pitch) * centRatio(p.detune)
}

// mergeOptions overlays override onto base, field by field. Either side may
// be nil. The result is a fresh struct; inputs are not mutated.
func mergeOptions(base, override *PlayOptions) *PlayOptions {
	if base == nil && override == nil {
		return nil
	}
	out := &PlayOptions{}
	for _, src := range []*PlayOptions{base, override} {
		if src == nil {
			continue
		}
		if src.Pitch != nil {
			out.Pitch = src.Pitch
		}
		if src.Detune != nil {
			out.Detune = src.Detune
		}
		if src.Volume != nil {
			out.Volume = src.Volume
		}
		if src.Pan != nil {
			out.Pan = src.Pan
		}
		if src.Rate != nil {
			out.Rate = src.Rate
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
