package uisound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Fixed effect parameters. Delay feedback and wet/dry mix do not vary with
// the requested delay time.
const (
	rampDuration      = 10 * time.Millisecond
	delayFeedbackGain = 0.4
	delayWetMix       = 0.5
	delayDryMix       = 0.5
	delayTailPeriods  = 4
	defaultFilterQ    = 0.707
)

// filterKind selects the biquad response shape.
type filterKind int

const (
	filterLowpass filterKind = iota
	filterHighpass
	filterBandpass
)

// newVolume wraps a streamer in a logarithmic gain node.
// math.Log2(0) is -Inf, so zero volume maps to Silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// volumeRamp fades a stream linearly from zero to unity over its first
// samples. Every pipeline render starts through one to avoid clicks.
type volumeRamp struct {
	s     beep.Streamer
	pos   int
	total int
}

func newVolumeRamp(s beep.Streamer, rate beep.SampleRate, d time.Duration) beep.Streamer {
	total := rate.N(d)
	if total <= 0 {
		return s
	}
	return &volumeRamp{s: s, total: total}
}

func (r *volumeRamp) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = r.s.Stream(samples)
	for i := 0; i < n && r.pos < r.total; i++ {
		g := float64(r.pos) / float64(r.total)
		samples[i][0] *= g
		samples[i][1] *= g
		r.pos++
	}
	return n, ok
}

func (r *volumeRamp) Err() error { return r.s.Err() }

// biquad is a two-pole filter stage with per-channel state, using the
// standard audio-cookbook coefficient forms.
type biquad struct {
	s                  beep.Streamer
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

func newBiquad(s beep.Streamer, rate beep.SampleRate, kind filterKind, cutoff, q float64) *biquad {
	cutoff = clamp(cutoff, MinFilterHz, MaxFilterHz)
	if q <= 0 {
		q = defaultFilterQ
	}

	w0 := 2 * math.Pi * cutoff / float64(rate)
	cosW := math.Cos(w0)
	sinW := math.Sin(w0)
	alpha := sinW / (2 * q)

	var b0, b1, b2 float64
	switch kind {
	case filterLowpass:
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = (1 - cosW) / 2
	case filterHighpass:
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = (1 + cosW) / 2
	case filterBandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	}
	a0 := 1 + alpha
	a1 := -2 * cosW
	a2 := 1 - alpha

	return &biquad{
		s:  s,
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

func (f *biquad) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.s.Stream(samples)
	for i := 0; i < n; i++ {
		for ch := 0; ch < 2; ch++ {
			x := samples[i][ch]
			y := f.b0*x + f.b1*f.x1[ch] + f.b2*f.x2[ch] - f.a1*f.y1[ch] - f.a2*f.y2[ch]
			f.x2[ch] = f.x1[ch]
			f.x1[ch] = x
			f.y2[ch] = f.y1[ch]
			f.y1[ch] = y
			samples[i][ch] = y
		}
	}
	return n, ok
}

func (f *biquad) Err() error { return f.s.Err() }

// feedbackDelay mixes a stream with a feedback delay line at fixed
// 0.5/0.5 wet/dry weighting and 0.4 feedback gain. After the dry signal
// ends the wet tail keeps streaming for a few delay periods so echoes are
// not cut off.
type feedbackDelay struct {
	s       beep.Streamer
	ring    [][2]float64
	pos     int
	tail    int
	drained bool
}

func newFeedbackDelay(s beep.Streamer, rate beep.SampleRate, d time.Duration) beep.Streamer {
	n := rate.N(d)
	if n <= 0 {
		return s
	}
	return &feedbackDelay{
		s:    s,
		ring: make([][2]float64, n),
		tail: n * delayTailPeriods,
	}
}

func (d *feedbackDelay) Stream(samples [][2]float64) (n int, ok bool) {
	if !d.drained {
		var more bool
		n, more = d.s.Stream(samples)
		if !more || n < len(samples) {
			d.drained = true
		}
	}
	for i := 0; i < n; i++ {
		d.process(&samples[i])
	}

	// Flush the echo tail with silent input once the source is done
	for n < len(samples) && d.tail > 0 {
		samples[n] = [2]float64{}
		d.process(&samples[n])
		d.tail--
		n++
	}

	if n == 0 {
		return 0, false
	}
	return n, true
}

func (d *feedbackDelay) process(smp *[2]float64) {
	wet := d.ring[d.pos]
	out0 := smp[0]*delayDryMix + wet[0]*delayWetMix
	out1 := smp[1]*delayDryMix + wet[1]*delayWetMix
	d.ring[d.pos][0] = smp[0] + wet[0]*delayFeedbackGain
	d.ring[d.pos][1] = smp[1] + wet[1]*delayFeedbackGain
	d.pos++
	if d.pos == len(d.ring) {
		d.pos = 0
	}
	smp[0], smp[1] = out0, out1
}

func (d *feedbackDelay) Err() error { return d.s.Err() }

// tremolo modulates gain with a low-frequency oscillator, dipping to
// 1-depth. Cosine-phased so the stream starts at full gain.
type tremolo struct {
	s     beep.Streamer
	rate  beep.SampleRate
	pos   int
	freq  float64
	depth float64
}

func newTremolo(s beep.Streamer, rate beep.SampleRate, freq, depth float64) beep.Streamer {
	if freq <= 0 || depth <= 0 {
		return s
	}
	return &tremolo{s: s, rate: rate, freq: freq, depth: clamp(depth, 0, 1)}
}

func (tr *tremolo) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = tr.s.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(tr.pos) / float64(tr.rate)
		g := 1 - tr.depth*0.5*(1-math.Cos(2*math.Pi*tr.freq*t))
		samples[i][0] *= g
		samples[i][1] *= g
		tr.pos++
	}
	return n, ok
}

func (tr *tremolo) Err() error { return tr.s.Err() }
