// Package uisound provides short, low-latency audio feedback for
// interactive UI events: decoded-clip playback with pitch, pan, filter and
// delay treatment, parametric tone synthesis, sound-pack routing, and
// haptic dispatch.
package uisound

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// EngineState tracks the output device lifecycle.
type EngineState int32

const (
	EngineSuspended EngineState = iota // created or paused, device may not exist yet
	EngineRunning                      // device open and rendering
	EngineClosed                       // device released, terminal state
)

// Engine owns the output device and the root of the rendering graph. It is
// constructed cheaply; the device itself is opened lazily on first play or
// explicitly via Start. The underlying speaker is process-wide, so one
// Engine per process is the expected shape.
type Engine struct {
	mu      sync.Mutex
	state   atomic.Int32
	started bool
	enabled bool
	auto    bool
	muted   bool
	volume  float64
	rate    beep.SampleRate
	bufLen  time.Duration
	mixer   *beep.Mixer
	master  *effects.Volume
	ctrl    *beep.Ctrl
}

// NewEngine creates an engine from cfg. A nil cfg uses DefaultConfig. No
// device work happens here; the engine starts in EngineSuspended.
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Engine{
		enabled: cfg.Enabled,
		auto:    cfg.AutoStart,
		volume:  clamp(cfg.MasterVolume, 0, 1),
		rate:    beep.SampleRate(cfg.SampleRate),
		bufLen:  cfg.BufferLen,
		mixer:   &beep.Mixer{},
	}
	e.master = &effects.Volume{Streamer: e.mixer, Base: 2}
	e.ctrl = &beep.Ctrl{Streamer: e.master}
	e.applyMasterLocked()
	e.state.Store(int32(EngineSuspended))
	return e
}

// Start opens the output device and begins rendering the root mixer.
// Idempotent while running. Fails with ErrEngineUnavailable once closed or
// when no device can be opened.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	switch EngineState(e.state.Load()) {
	case EngineClosed:
		return ErrEngineUnavailable
	case EngineRunning:
		return nil
	}

	if e.started {
		// Device already open, just unpause
		speaker.Lock()
		e.ctrl.Paused = false
		speaker.Unlock()
		e.state.Store(int32(EngineRunning))
		return nil
	}

	if err := speaker.Init(e.rate, e.rate.N(e.bufLen)); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	speaker.Play(e.ctrl)
	e.started = true
	e.state.Store(int32(EngineRunning))
	return nil
}

// Suspend pauses rendering without releasing the device. No-op unless
// running.
func (e *Engine) Suspend() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if EngineState(e.state.Load()) != EngineRunning {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.state.Store(int32(EngineSuspended))
}

// Resume restarts rendering after Suspend. On a never-started engine it
// behaves like Start.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

// Close stops all sounds and releases the output device. The engine cannot
// be reused afterwards; operations fail with ErrEngineUnavailable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if EngineState(e.state.Load()) == EngineClosed {
		return
	}
	if e.started {
		speaker.Lock()
		e.mixer.Clear()
		speaker.Unlock()
		speaker.Close()
	}
	e.state.Store(int32(EngineClosed))
}

// State reports the current lifecycle state.
func (e *Engine) State() EngineState {
	return EngineState(e.state.Load())
}

// SampleRate reports the device sample rate the engine renders at.
func (e *Engine) SampleRate() beep.SampleRate {
	return e.rate
}

// Enabled reports whether the engine produces audible output at all.
func (e *Engine) Enabled() bool {
	return e.enabled
}

// SetMasterVolume sets the root gain in [0, 1], applied after all
// per-sound gains.
func (e *Engine) SetMasterVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = clamp(v, 0, 1)
	e.applyMasterLocked()
}

// SetMuted silences the root gain without losing the volume setting.
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	e.applyMasterLocked()
}

// applyMasterLocked pushes volume/mute state into the root volume node.
// math.Log2(0) is -Inf, so zero volume maps to Silent instead.
func (e *Engine) applyMasterLocked() {
	lock := EngineState(e.state.Load()) == EngineRunning
	if lock {
		speaker.Lock()
	}
	if e.muted || e.volume <= 0 {
		e.master.Silent = true
	} else {
		e.master.Silent = false
		e.master.Volume = math.Log2(e.volume)
	}
	if lock {
		speaker.Unlock()
	}
}

// play attaches a finished graph to the root mixer. A disabled engine
// accepts and discards it. A suspended engine either auto-starts or
// reports ErrStartBlocked depending on configuration.
func (e *Engine) play(s beep.Streamer) error {
	if !e.enabled {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch EngineState(e.state.Load()) {
	case EngineClosed:
		return ErrEngineUnavailable
	case EngineSuspended:
		if !e.auto {
			return ErrStartBlocked
		}
		if err := e.startLocked(); err != nil {
			return err
		}
	}

	speaker.Lock()
	e.mixer.Add(s)
	speaker.Unlock()
	return nil
}
