package uisound

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
)

// PackOptions configure one loaded pack. Zero fields inherit the router's
// config defaults.
type PackOptions struct {
	// BasePath overrides the resource root for this pack.
	BasePath string
	// LazyLoad overrides whether sounds are fetched on first play rather
	// than at load time.
	LazyLoad *bool
	// Vibrator overrides the haptic sink for this pack.
	Vibrator Vibrator
}

// ResolvedSound is a manifest resolution result: the chosen base file name
// and the entry's default options.
type ResolvedSound struct {
	File    string
	Options *PlayOptions
}

// Pack resolves semantic sound names against one manifest and plays them
// through the shared format resolver, cache and pipeline.
type Pack struct {
	name     string
	manifest *Manifest
	formats  *FormatResolver
	cache    *BufferCache
	pipeline *Pipeline
	vibrator Vibrator
	basePath string
	lazyLoad bool
}

// Name reports the pack's manifest name.
func (p *Pack) Name() string {
	return p.name
}

// splitSoundPath splits "category.action"; a missing or empty action
// defaults to "default".
func splitSoundPath(path string) (category, action string) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		category, action = path[:i], path[i+1:]
	} else {
		category = path
	}
	if action == "" {
		action = "default"
	}
	return category, action
}

// Resolve maps a dotted path to its manifest entry without playing it.
func (p *Pack) Resolve(path string) (ResolvedSound, error) {
	entry, err := p.resolveEntry(path)
	if err != nil {
		return ResolvedSound{}, err
	}
	file := entry.Default
	if file == "" && len(entry.Variants) > 0 {
		file = entry.Variants[0]
	}
	return ResolvedSound{File: file, Options: entry.defaultOptions()}, nil
}

func (p *Pack) resolveEntry(path string) (SoundEntry, error) {
	category, action := splitSoundPath(path)
	entry, ok := p.manifest.entry(category, action)
	if !ok {
		return SoundEntry{}, &SoundNotFoundError{Path: category + "." + action}
	}
	return entry, nil
}

// Play resolves path, picks the best supported format, loads the resource
// through the memoized cache and renders it. The entire call is a fallback
// boundary: failures follow the manifest's strategy instead of reaching UI
// code, except with FallbackError where they re-raise.
func (p *Pack) Play(ctx context.Context, path string, opts *PlayOptions) (*Handle, error) {
	h, err := p.play(ctx, path, opts, false)
	if err != nil {
		return p.fallback(path, err)
	}
	return h, nil
}

// PlayVariant plays a uniformly random variant of path instead of its
// default file, for anti-monotony on rapidly repeated triggers. Entries
// without variants fall back to the default file.
func (p *Pack) PlayVariant(ctx context.Context, path string, opts *PlayOptions) (*Handle, error) {
	h, err := p.play(ctx, path, opts, true)
	if err != nil {
		return p.fallback(path, err)
	}
	return h, nil
}

func (p *Pack) play(ctx context.Context, path string, opts *PlayOptions, pickVariant bool) (*Handle, error) {
	if !p.pipeline.enabled() {
		return completedHandle(), nil
	}
	entry, err := p.resolveEntry(path)
	if err != nil {
		return nil, err
	}

	file := entry.Default
	if pickVariant {
		variants := entry.Variants
		if len(variants) == 0 {
			variants = []string{entry.Default}
		}
		file = variants[rand.Intn(len(variants))]
	}
	if file == "" && len(entry.Variants) > 0 {
		file = entry.Variants[0]
	}

	filename := p.formats.BestFormat(file, p.manifest.Formats.Preferred)
	buf, err := p.cache.Load(ctx, p.soundURL(filename))
	if err != nil {
		return nil, err
	}
	return p.pipeline.Play(buf, mergeOptions(entry.defaultOptions(), opts), nil)
}

// soundURL builds basePath/packName/filename.
func (p *Pack) soundURL(filename string) string {
	base := strings.TrimSuffix(p.basePath, "/")
	if base == "" {
		return p.name + "/" + filename
	}
	return base + "/" + p.name + "/" + filename
}

// fallback applies the pack's strategy at the boundary. Start-blocked
// failures are an expected transient state before first user interaction
// and are swallowed without logging regardless of strategy.
func (p *Pack) fallback(path string, err error) (*Handle, error) {
	if errors.Is(err, ErrStartBlocked) {
		return completedHandle(), nil
	}
	if p.manifest.Formats.Fallback == FallbackError {
		return nil, err
	}
	log.Printf("uisound: %s: %v", path, err)
	return completedHandle(), nil
}

// Preload fetches every file the manifest names so later plays are cache
// hits. Individual failures are collected, not fatal.
func (p *Pack) Preload(ctx context.Context) error {
	var errs []error
	for cat, actions := range p.manifest.Sounds {
		for action, entry := range actions {
			for _, file := range entry.allFiles() {
				filename := p.formats.BestFormat(file, p.manifest.Formats.Preferred)
				if _, err := p.cache.Load(ctx, p.soundURL(filename)); err != nil {
					errs = append(errs, fmt.Errorf("%s.%s: %w", cat, action, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// TriggerHaptic forwards the manifest's vibration strength for action to
// the pack's vibrator. Actions without a haptic mapping are a no-op.
func (p *Pack) TriggerHaptic(action string) error {
	strength, ok := p.manifest.Haptics[action]
	if !ok {
		return nil
	}
	pattern, ok := HapticPattern(strength)
	if !ok {
		return nil
	}
	return p.vibrator.Vibrate(pattern)
}
