package uisound

import (
	"context"
	"errors"
	"testing"
	"time"
)

// newTestRouter wires a router to a recording fetcher over a gesture-gated
// engine.
func newTestRouter(fetcher *recordingFetcher) *Router {
	r := NewRouter(newTestEngine(true), nil)
	r.cache = NewBufferCache(48000, 16, fetcher, r.formats)
	return r
}

func packFiles(pack string) map[string][]byte {
	wav := makeWAV(48000, 64)
	return map[string][]byte{
		"sounds/" + pack + "/click_001.wav": wav,
		"sounds/" + pack + "/click_002.wav": wav,
		"sounds/" + pack + "/tap.wav":       wav,
		"sounds/" + pack + "/nav.wav":       wav,
	}
}

func mergeFiles(maps ...map[string][]byte) map[string][]byte {
	out := make(map[string][]byte)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// TestRouterFirstLoadActivates verifies the first loaded pack becomes active
func TestRouterFirstLoadActivates(t *testing.T) {
	r := newTestRouter(&recordingFetcher{})

	if r.ActivePack() != "" {
		t.Errorf("Expected no active pack initially, got %s", r.ActivePack())
	}

	if err := r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil); err != nil {
		t.Fatalf("Expected alpha to load, got %v", err)
	}
	if r.ActivePack() != "alpha" {
		t.Errorf("Expected alpha active after first load, got %s", r.ActivePack())
	}

	if err := r.LoadPack(context.Background(), "beta", testManifest(FallbackSilence), nil); err != nil {
		t.Fatalf("Expected beta to load, got %v", err)
	}
	if r.ActivePack() != "alpha" {
		t.Errorf("Expected alpha to stay active after second load, got %s", r.ActivePack())
	}
}

// TestRouterLoadPackEmptyName verifies the manifest name is used when none is given
func TestRouterLoadPackEmptyName(t *testing.T) {
	r := newTestRouter(&recordingFetcher{})

	if err := r.LoadPack(context.Background(), "", testManifest(FallbackSilence), nil); err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if r.ActivePack() != "testpack" {
		t.Errorf("Expected manifest name testpack, got %s", r.ActivePack())
	}
}

// TestRouterLoadPackNilManifest verifies a nil manifest is rejected
func TestRouterLoadPackNilManifest(t *testing.T) {
	r := newTestRouter(&recordingFetcher{})
	if err := r.LoadPack(context.Background(), "alpha", nil, nil); err == nil {
		t.Error("Expected an error for a nil manifest")
	}
}

// TestRouterSwitchPack verifies switching and the unloaded-pack error
func TestRouterSwitchPack(t *testing.T) {
	r := newTestRouter(&recordingFetcher{})
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil)
	r.LoadPack(context.Background(), "beta", testManifest(FallbackSilence), nil)

	if err := r.SwitchPack("beta"); err != nil {
		t.Fatalf("Expected switch to beta, got %v", err)
	}
	if r.ActivePack() != "beta" {
		t.Errorf("Expected beta active, got %s", r.ActivePack())
	}

	if err := r.SwitchPack("gamma"); !errors.Is(err, ErrPackNotLoaded) {
		t.Errorf("Expected ErrPackNotLoaded, got %v", err)
	}
	if r.ActivePack() != "beta" {
		t.Errorf("Expected a failed switch to leave beta active, got %s", r.ActivePack())
	}
}

// TestRouterSwitchClearsOverrides verifies mixed routing is dropped on switch
func TestRouterSwitchClearsOverrides(t *testing.T) {
	r := newTestRouter(&recordingFetcher{})
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil)
	r.LoadPack(context.Background(), "beta", testManifest(FallbackSilence), nil)

	r.UseMixed(map[string]string{"ui": "beta"})
	if p := r.packFor("ui.click"); p == nil || p.Name() != "beta" {
		t.Fatal("Expected ui category routed to beta")
	}

	if err := r.SwitchPack("alpha"); err != nil {
		t.Fatalf("Expected switch to succeed, got %v", err)
	}
	if p := r.packFor("ui.click"); p == nil || p.Name() != "alpha" {
		t.Error("Expected the override to be cleared by the switch")
	}
}

// TestRouterUseMixedSkipsUnknown verifies unknown packs are skipped, not fatal
func TestRouterUseMixedSkipsUnknown(t *testing.T) {
	r := newTestRouter(&recordingFetcher{})
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil)
	r.LoadPack(context.Background(), "beta", testManifest(FallbackSilence), nil)

	r.UseMixed(map[string]string{"ui": "ghost", "nav": "beta"})

	if p := r.packFor("ui.click"); p == nil || p.Name() != "alpha" {
		t.Error("Expected the unknown override to be skipped, leaving the active pack")
	}
	if p := r.packFor("nav.default"); p == nil || p.Name() != "beta" {
		t.Error("Expected the valid override to be registered")
	}
}

// TestRouterPlayWithNoPacks verifies plays with nothing loaded are no-ops
func TestRouterPlayWithNoPacks(t *testing.T) {
	fetcher := &recordingFetcher{}
	r := newTestRouter(fetcher)

	h, err := r.Play(context.Background(), "ui.click", nil)
	if err != nil {
		t.Fatalf("Expected a no-op play, got %v", err)
	}
	if h.Playing() {
		t.Error("Expected a completed handle with no packs loaded")
	}

	if _, err := r.PlayVariant(context.Background(), "ui.click", nil); err != nil {
		t.Errorf("Expected a no-op variant play, got %v", err)
	}
	if err := r.TriggerHaptic("click"); err != nil {
		t.Errorf("Expected a no-op haptic, got %v", err)
	}
	if fetcher.total() != 0 {
		t.Errorf("Expected no fetches, got %d", fetcher.total())
	}
}

// TestRouterPlayRoutesToActivePack verifies plays reach the active pack's resources
func TestRouterPlayRoutesToActivePack(t *testing.T) {
	fetcher := &recordingFetcher{files: mergeFiles(packFiles("alpha"), packFiles("beta"))}
	r := newTestRouter(fetcher)
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil)
	r.LoadPack(context.Background(), "beta", testManifest(FallbackSilence), nil)

	if _, err := r.Play(context.Background(), "ui.click", nil); err != nil {
		t.Fatalf("Expected play to succeed, got %v", err)
	}
	if n := fetcher.count("sounds/alpha/click_001.wav"); n != 1 {
		t.Errorf("Expected the active pack's file fetched, got %d", n)
	}
	if n := fetcher.count("sounds/beta/click_001.wav"); n != 0 {
		t.Errorf("Expected no fetch from the inactive pack, got %d", n)
	}
}

// TestRouterPlayRoutesToOverride verifies category overrides take precedence
func TestRouterPlayRoutesToOverride(t *testing.T) {
	fetcher := &recordingFetcher{files: mergeFiles(packFiles("alpha"), packFiles("beta"))}
	r := newTestRouter(fetcher)
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil)
	r.LoadPack(context.Background(), "beta", testManifest(FallbackSilence), nil)
	r.UseMixed(map[string]string{"ui": "beta"})

	if _, err := r.Play(context.Background(), "ui.click", nil); err != nil {
		t.Fatalf("Expected play to succeed, got %v", err)
	}
	if n := fetcher.count("sounds/beta/click_001.wav"); n != 1 {
		t.Errorf("Expected the override pack's file fetched, got %d", n)
	}

	// Categories without an override still use the active pack
	if _, err := r.Play(context.Background(), "nav", nil); err != nil {
		t.Fatalf("Expected play to succeed, got %v", err)
	}
	if n := fetcher.count("sounds/alpha/nav.wav"); n != 1 {
		t.Errorf("Expected the active pack for unrouted categories, got %d", n)
	}
}

// TestRouterLoadPackPreloads verifies eager loading fetches everything at load time
func TestRouterLoadPackPreloads(t *testing.T) {
	fetcher := &recordingFetcher{files: packFiles("alpha")}
	r := newTestRouter(fetcher)

	opts := &PackOptions{LazyLoad: Bool(false)}
	if err := r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), opts); err != nil {
		t.Fatalf("Expected eager load to succeed, got %v", err)
	}
	if fetcher.total() != 4 {
		t.Errorf("Expected all 4 files fetched at load time, got %d", fetcher.total())
	}
	if r.cache.Len() != 4 {
		t.Errorf("Expected 4 cached entries, got %d", r.cache.Len())
	}
}

// TestRouterLoadPackPreloadFailure verifies a partial preload failure leaves the pack usable
func TestRouterLoadPackPreloadFailure(t *testing.T) {
	wav := makeWAV(48000, 64)
	fetcher := &recordingFetcher{files: map[string][]byte{
		"sounds/alpha/click_001.wav": wav,
	}}
	r := newTestRouter(fetcher)

	err := r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), &PackOptions{LazyLoad: Bool(false)})
	if err == nil {
		t.Fatal("Expected an error for missing resources")
	}
	if r.ActivePack() != "alpha" {
		t.Error("Expected the pack to stay loaded despite preload failures")
	}
	if _, err := r.Play(context.Background(), "ui.click", nil); err != nil {
		t.Errorf("Expected the cached sound to still play, got %v", err)
	}
}

// TestRouterSetVibrator verifies the haptic sink is swapped for loaded packs
func TestRouterSetVibrator(t *testing.T) {
	r := newTestRouter(&recordingFetcher{})
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil)

	v := &stubVibrator{}
	r.SetVibrator(v)

	if err := r.TriggerHaptic("click"); err != nil {
		t.Fatalf("Expected haptic to succeed, got %v", err)
	}
	if len(v.patterns) != 1 || v.patterns[0][0] != 10*time.Millisecond {
		t.Errorf("Expected light pattern through the new vibrator, got %v", v.patterns)
	}
}

// TestRouterPackOptionVibratorKept verifies a pack's own vibrator survives SetVibrator
func TestRouterPackOptionVibratorKept(t *testing.T) {
	own := &stubVibrator{}
	r := newTestRouter(&recordingFetcher{})
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), &PackOptions{Vibrator: own})

	r.SetVibrator(&stubVibrator{})
	r.TriggerHaptic("click")

	if len(own.patterns) != 1 {
		t.Errorf("Expected the pack's own vibrator to keep receiving patterns, got %d", len(own.patterns))
	}
}

// TestRouterTriggerHapticDisabledEngine verifies haptics are silenced with the engine
func TestRouterTriggerHapticDisabledEngine(t *testing.T) {
	v := &stubVibrator{}
	r := NewRouter(newTestEngine(false), nil)
	r.cache = NewBufferCache(48000, 16, &recordingFetcher{}, r.formats)
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), &PackOptions{Vibrator: v})

	if err := r.TriggerHaptic("click"); err != nil {
		t.Fatalf("Expected nil from disabled haptics, got %v", err)
	}
	if len(v.patterns) != 0 {
		t.Errorf("Expected no vibration on a disabled engine, got %d patterns", len(v.patterns))
	}
}

// TestRouterClear verifies clearing drops the shared cache
func TestRouterClear(t *testing.T) {
	fetcher := &recordingFetcher{files: packFiles("alpha")}
	r := newTestRouter(fetcher)
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil)

	r.Play(context.Background(), "ui.click", nil)
	if r.cache.Len() != 1 {
		t.Fatalf("Expected 1 cached entry, got %d", r.cache.Len())
	}

	r.Clear()
	if r.cache.Len() != 0 {
		t.Errorf("Expected an empty cache after clear, got %d", r.cache.Len())
	}

	// The next play fetches again
	r.Play(context.Background(), "ui.click", nil)
	if n := fetcher.count("sounds/alpha/click_001.wav"); n != 2 {
		t.Errorf("Expected a refetch after clear, got %d fetches", n)
	}
}

// TestRouterPackAccessor verifies loaded packs are reachable by name
func TestRouterPackAccessor(t *testing.T) {
	r := newTestRouter(&recordingFetcher{})
	r.LoadPack(context.Background(), "alpha", testManifest(FallbackSilence), nil)

	p, ok := r.Pack("alpha")
	if !ok || p.Name() != "alpha" {
		t.Error("Expected to retrieve the loaded pack by name")
	}
	if _, ok := r.Pack("ghost"); ok {
		t.Error("Expected an unloaded name to report absence")
	}
}
