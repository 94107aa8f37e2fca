package uisound

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Handle represents one fire-and-forget render. It cannot pause or rewind
// the render; callers that lose interest simply drop it.
type Handle struct {
	done chan struct{}
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// completedHandle is returned where a call succeeds without rendering
// anything, such as a disabled engine or a swallowed fallback.
func completedHandle() *Handle {
	h := newHandle()
	close(h.done)
	return h
}

// Done is closed when the render reaches its natural end.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Playing reports whether the render is still audible.
func (h *Handle) Playing() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Pipeline renders decoded buffers through the playback graph:
// source -> rate/pitch -> lowpass -> highpass -> delay -> ramped gain ->
// pan -> mixer.
type Pipeline struct {
	engine *Engine
}

// NewPipeline creates a pipeline rendering into e.
func NewPipeline(e *Engine) *Pipeline {
	return &Pipeline{engine: e}
}

func (p *Pipeline) enabled() bool {
	return p.engine.Enabled()
}

// Play starts an independent render of buf. Calling it again with the same
// buffer before the first render ends layers a second render on top.
// Options and effects are clamped, never rejected. Errors surface when the
// engine is closed (ErrEngineUnavailable), cannot open a device, or is
// gesture-gated (ErrStartBlocked).
func (p *Pipeline) Play(buf *beep.Buffer, opts *PlayOptions, fx *EffectOptions) (*Handle, error) {
	if buf == nil || buf.Len() == 0 {
		return completedHandle(), nil
	}
	if !p.engine.Enabled() {
		return completedHandle(), nil
	}

	params := resolvePlayOptions(opts)
	graph := buildGraph(buf.Streamer(0, buf.Len()), p.engine.SampleRate(), params, fx)

	h := newHandle()
	seq := beep.Seq(graph, beep.Callback(func() { close(h.done) }))
	if err := p.engine.play(seq); err != nil {
		return nil, err
	}
	return h, nil
}

// buildGraph assembles the processing chain for one render. Pitch and
// detune fold into a single playback-rate ratio on the source; the 10ms
// volume ramp is unconditional.
func buildGraph(src beep.Streamer, rate beep.SampleRate, params playParams, fx *EffectOptions) beep.Streamer {
	s := src
	if r := params.ratio(); r != 1 {
		s = beep.ResampleRatio(resampleQuality, r, s)
	}
	if fx != nil {
		if fx.LowpassHz != nil {
			s = newBiquad(s, rate, filterLowpass, *fx.LowpassHz, defaultFilterQ)
		}
		if fx.HighpassHz != nil {
			s = newBiquad(s, rate, filterHighpass, *fx.HighpassHz, defaultFilterQ)
		}
		if fx.DelaySeconds != nil {
			d := clamp(*fx.DelaySeconds, MinDelaySeconds, MaxDelaySeconds)
			s = newFeedbackDelay(s, rate, time.Duration(d*float64(time.Second)))
		}
	}
	s = newVolumeRamp(s, rate, rampDuration)
	s = newVolume(s, params.volume)
	if params.pan != 0 {
		s = &effects.Pan{Streamer: s, Pan: params.pan}
	}
	return s
}
