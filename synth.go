package uisound

import (
	"math"
	"math/rand"
	"strings"

	"github.com/gopxl/beep"
)

const (
	baseHarmonicGain    = 0.3
	randomDetuneCents   = 1.5
	vibratoSemitoneSpan = 1.0 // depth 1.0 swings pitch a full semitone
)

// ModulationType selects what a preset's low-frequency oscillator drives.
type ModulationType string

const (
	ModNone    ModulationType = "none"
	ModVibrato ModulationType = "vibrato" // LFO into oscillator pitch
	ModTremolo ModulationType = "tremolo" // LFO into gain
)

// Modulation describes a preset's low-frequency oscillator.
type Modulation struct {
	Type   ModulationType
	RateHz float64
	Depth  float64 // 0 to 1
}

// PresetFilter inserts a filter between the oscillator sum and the
// envelope. Type is lowpass, highpass or bandpass; Resonance is the
// filter Q.
type PresetFilter struct {
	Type        string
	FrequencyHz float64
	Resonance   float64
}

// Envelope is a linear ADSR amplitude shape. Sustain is a level, not a
// duration: release starts as soon as decay completes, so a tone sounds
// for exactly Attack+Decay+Release seconds.
type Envelope struct {
	Attack  float64 // seconds
	Decay   float64 // seconds
	Sustain float64 // level 0..1
	Release float64 // seconds
}

// Preset declares one synthesized tone: a fundamental frequency, harmonic
// ratios, an envelope, and optional modulation and filtering. Presets are
// consumed per invocation and never stored as live state.
type Preset struct {
	FrequencyHz float64
	Envelope    Envelope
	Harmonics   []float64 // frequency ratios; empty means just the fundamental
	Modulation  *Modulation
	Filter      *PresetFilter
}

// Synthesizer renders presets straight to the engine, with no pre-recorded
// assets involved.
type Synthesizer struct {
	engine *Engine
}

// NewSynthesizer creates a synthesizer rendering into e.
func NewSynthesizer(e *Engine) *Synthesizer {
	return &Synthesizer{engine: e}
}

// PlayPreset renders the preset fire-and-forget. Engine errors propagate
// so direct callers can guard synthesis themselves.
func (s *Synthesizer) PlayPreset(p Preset) error {
	if !s.engine.Enabled() {
		return nil
	}
	return s.engine.play(renderPreset(p, s.engine.SampleRate()))
}

// renderPreset assembles the tone graph: one oscillator per harmonic with
// gain 0.3/(i+1) and a fresh ±1.5 cent random detune, summed, optionally
// filtered and tremolo-modulated, shaped by the ADSR envelope.
func renderPreset(p Preset, rate beep.SampleRate) beep.Streamer {
	env := newADSR(p.Envelope, rate)

	harmonics := p.Harmonics
	if len(harmonics) == 0 {
		harmonics = []float64{1}
	}

	var vibRate, vibDepth float64
	useTremolo := false
	if p.Modulation != nil {
		switch p.Modulation.Type {
		case ModVibrato:
			vibRate = p.Modulation.RateHz
			vibDepth = clamp(p.Modulation.Depth, 0, 1) * vibratoSemitoneSpan
		case ModTremolo:
			useTremolo = true
		}
	}

	voices := make([]beep.Streamer, 0, len(harmonics))
	for i, ratio := range harmonics {
		if ratio <= 0 {
			continue
		}
		detune := (rand.Float64()*2 - 1) * randomDetuneCents
		osc := &presetOsc{
			freq:     p.FrequencyHz * ratio * centRatio(detune),
			rate:     rate,
			total:    env.total,
			vibRate:  vibRate,
			vibDepth: vibDepth,
		}
		voices = append(voices, newVolume(osc, baseHarmonicGain/float64(i+1)))
	}

	var sum beep.Streamer = beep.Mix(voices...)
	if p.Filter != nil {
		sum = newBiquad(sum, rate, presetFilterKind(p.Filter.Type), p.Filter.FrequencyHz, p.Filter.Resonance)
	}
	if useTremolo {
		sum = newTremolo(sum, rate, p.Modulation.RateHz, p.Modulation.Depth)
	}
	env.s = sum
	return env
}

func presetFilterKind(t string) filterKind {
	switch strings.ToLower(t) {
	case "highpass":
		return filterHighpass
	case "bandpass":
		return filterBandpass
	default:
		return filterLowpass
	}
}

// presetOsc is a sine oscillator bounded to the envelope's total length,
// with optional pitch vibrato.
type presetOsc struct {
	freq     float64
	rate     beep.SampleRate
	phase    float64
	pos      int
	total    int
	vibRate  float64
	vibDepth float64 // semitone span
}

func (o *presetOsc) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.pos >= o.total {
			return i, false
		}

		f := o.freq
		if o.vibRate > 0 && o.vibDepth > 0 {
			t := float64(o.pos) / float64(o.rate)
			f *= semitoneRatio(o.vibDepth * math.Sin(2*math.Pi*o.vibRate*t))
		}

		val := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *presetOsc) Err() error { return nil }

// adsrEnvelope applies the linear attack/decay/release shape and ends the
// stream at exactly the envelope's total length.
type adsrEnvelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	decay   int
	release int
	sustain float64
	total   int
}

func newADSR(env Envelope, rate beep.SampleRate) *adsrEnvelope {
	att := envSamples(env.Attack, rate)
	dec := envSamples(env.Decay, rate)
	rel := envSamples(env.Release, rate)
	return &adsrEnvelope{
		attack:  att,
		decay:   dec,
		release: rel,
		sustain: clamp(env.Sustain, 0, 1),
		total:   att + dec + rel,
	}
}

func envSamples(seconds float64, rate beep.SampleRate) int {
	if seconds <= 0 {
		return 0
	}
	return int(seconds * float64(rate))
}

// gainAt returns the envelope gain at a sample position: 0 to 1 over
// attack, 1 to sustain over decay, sustain to 0 over release.
func (e *adsrEnvelope) gainAt(pos int) float64 {
	switch {
	case pos >= e.total:
		return 0
	case pos < e.attack:
		return float64(pos) / float64(e.attack)
	case pos < e.attack+e.decay:
		t := float64(pos-e.attack) / float64(e.decay)
		return 1 + (e.sustain-1)*t
	default:
		t := float64(pos-e.attack-e.decay) / float64(e.release)
		return e.sustain * (1 - t)
	}
}

func (e *adsrEnvelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		if e.pos >= e.total {
			return i, false
		}
		g := e.gainAt(e.pos)
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *adsrEnvelope) Err() error { return e.s.Err() }

// Builtin presets

// PresetTap is a soft neutral click for generic presses.
func PresetTap() Preset {
	return Preset{
		FrequencyHz: 1000,
		Envelope:    Envelope{Attack: 0.001, Decay: 0.02, Sustain: 0.3, Release: 0.04},
		Harmonics:   []float64{1, 2.7},
	}
}

// PresetBlip is a short confirmation blip with light vibrato.
func PresetBlip() Preset {
	return Preset{
		FrequencyHz: 660,
		Envelope:    Envelope{Attack: 0.005, Decay: 0.04, Sustain: 0.5, Release: 0.08},
		Harmonics:   []float64{1, 2},
		Modulation:  &Modulation{Type: ModVibrato, RateHz: 6, Depth: 0.2},
	}
}

// PresetChime is a two-harmonic bell for success feedback.
func PresetChime() Preset {
	return Preset{
		FrequencyHz: 880,
		Envelope:    Envelope{Attack: 0.002, Decay: 0.1, Sustain: 0.4, Release: 0.5},
		Harmonics:   []float64{1, 2, 3},
	}
}

// PresetThud is a low, filtered thud for errors and cancellation.
func PresetThud() Preset {
	return Preset{
		FrequencyHz: 120,
		Envelope:    Envelope{Attack: 0.001, Decay: 0.06, Sustain: 0.3, Release: 0.12},
		Harmonics:   []float64{1, 1.5, 2.2},
		Filter:      &PresetFilter{Type: "lowpass", FrequencyHz: 600, Resonance: 0.9},
	}
}
