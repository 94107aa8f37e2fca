package uisound

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Router holds named packs and routes play requests by per-category
// override or active-pack default. It owns the format resolver, buffer
// cache and pipeline all its packs share.
type Router struct {
	mu        sync.RWMutex
	engine    *Engine
	formats   *FormatResolver
	cache     *BufferCache
	pipeline  *Pipeline
	vibrator  Vibrator
	cfg       *Config
	packs     map[string]*Pack
	overrides map[string]string // category -> pack name
	active    string
}

// NewRouter creates a router rendering through e. A nil cfg uses
// DefaultConfig.
func NewRouter(e *Engine, cfg *Config) *Router {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	formats := NewFormatResolver(DefaultDecoders())
	return &Router{
		engine:    e,
		formats:   formats,
		cache:     NewBufferCache(e.SampleRate(), cfg.MaxCacheSize, nil, formats),
		pipeline:  NewPipeline(e),
		vibrator:  NopVibrator{},
		cfg:       cfg,
		packs:     make(map[string]*Pack),
		overrides: make(map[string]string),
	}
}

// SetVibrator replaces the haptic sink for every loaded pack that did not
// bring its own, and becomes the default for packs loaded later.
func (r *Router) SetVibrator(v Vibrator) {
	if v == nil {
		v = NopVibrator{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.vibrator
	r.vibrator = v
	for _, p := range r.packs {
		if p.vibrator == prev {
			p.vibrator = v
		}
	}
}

// LoadPack registers a pack built from manifest m. An empty name registers
// under the manifest's own name. The first loaded pack becomes active.
// When lazy loading is off the pack preloads immediately; preload failures
// are returned but leave the pack loaded and usable.
func (r *Router) LoadPack(ctx context.Context, name string, m *Manifest, opts *PackOptions) error {
	if m == nil {
		return fmt.Errorf("pack %q: nil manifest", name)
	}
	if name == "" {
		name = m.Name
	}

	basePath := r.cfg.BasePath
	lazy := r.cfg.LazyLoad
	vib := r.vibrator
	if opts != nil {
		if opts.BasePath != "" {
			basePath = opts.BasePath
		}
		if opts.LazyLoad != nil {
			lazy = *opts.LazyLoad
		}
		if opts.Vibrator != nil {
			vib = opts.Vibrator
		}
	}

	p := &Pack{
		name:     name,
		manifest: m,
		formats:  r.formats,
		cache:    r.cache,
		pipeline: r.pipeline,
		vibrator: vib,
		basePath: basePath,
		lazyLoad: lazy,
	}

	r.mu.Lock()
	r.packs[name] = p
	if r.active == "" {
		r.active = name
	}
	r.mu.Unlock()

	if !lazy {
		return p.Preload(ctx)
	}
	return nil
}

// SwitchPack makes name the active pack. Switching clears all category
// overrides; mixed routing is re-registered explicitly, never carried
// over.
func (r *Router) SwitchPack(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.packs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrPackNotLoaded, name)
	}
	r.active = name
	r.overrides = make(map[string]string)
	return nil
}

// UseMixed registers per-category pack overrides. Categories naming
// unloaded packs are skipped with a warning rather than failing the call.
func (r *Router) UseMixed(overrides map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for category, packName := range overrides {
		if _, ok := r.packs[packName]; !ok {
			log.Printf("uisound: mixed route %s -> %s skipped: pack not loaded", category, packName)
			continue
		}
		r.overrides[category] = packName
	}
}

// Pack returns a loaded pack by name, for direct use of its gradients and
// harmonic sets.
func (r *Router) Pack(name string) (*Pack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.packs[name]
	return p, ok
}

// ActivePack reports the active pack's name, empty when none is loaded.
func (r *Router) ActivePack() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Play routes path to its category's override pack, else the active pack.
// With no pack to route to, the call is a no-op.
func (r *Router) Play(ctx context.Context, path string, opts *PlayOptions) (*Handle, error) {
	p := r.packFor(path)
	if p == nil {
		return completedHandle(), nil
	}
	return p.Play(ctx, path, opts)
}

// PlayVariant routes like Play but plays a random variant.
func (r *Router) PlayVariant(ctx context.Context, path string, opts *PlayOptions) (*Handle, error) {
	p := r.packFor(path)
	if p == nil {
		return completedHandle(), nil
	}
	return p.PlayVariant(ctx, path, opts)
}

// TriggerHaptic forwards action's vibration mapping through the active
// pack. A disabled engine silences haptics along with audio.
func (r *Router) TriggerHaptic(action string) error {
	if !r.engine.Enabled() {
		return nil
	}
	r.mu.RLock()
	p := r.packs[r.active]
	r.mu.RUnlock()
	if p == nil {
		return nil
	}
	return p.TriggerHaptic(action)
}

// Clear drops the shared buffer cache. Sounds already playing keep their
// buffers.
func (r *Router) Clear() {
	r.cache.Clear()
}

func (r *Router) packFor(path string) *Pack {
	category, _ := splitSoundPath(path)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.overrides[category]; ok {
		if p, ok := r.packs[name]; ok {
			return p
		}
	}
	if p, ok := r.packs[r.active]; ok {
		return p
	}
	return nil
}
