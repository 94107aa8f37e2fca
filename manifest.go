package uisound

import (
	"encoding/json"
	"fmt"
	"os"
)

// FallbackStrategy governs what a pack does when resolution or playback
// fails.
type FallbackStrategy string

const (
	// FallbackSilence swallows the failure; the call succeeds with no
	// audible output.
	FallbackSilence FallbackStrategy = "silence"
	// FallbackError re-raises the failure to the caller.
	FallbackError FallbackStrategy = "error"
	// FallbackSynth is accepted in manifests as a declared intent for the
	// caller to substitute its own tone. The engine treats it like
	// silence and never auto-invokes the synthesizer.
	FallbackSynth FallbackStrategy = "synth"
)

// HapticStrength names the fixed vibration patterns.
type HapticStrength string

const (
	HapticLight  HapticStrength = "light"
	HapticMedium HapticStrength = "medium"
	HapticHeavy  HapticStrength = "heavy"
)

// SoundEntry is one manifest sound: either a bare filename or a structured
// record with variants and per-sound option defaults.
type SoundEntry struct {
	Default  string
	Variants []string
	Pitch    *float64 // semitones, merged under caller options
	Volume   *float64 // linear gain, merged under caller options
}

// UnmarshalJSON accepts both entry forms: "click_001" and
// {"default": "click_001", "variants": [...], "pitch": -2, "volume": 0.8}.
func (e *SoundEntry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		e.Default = name
		return nil
	}

	var rec struct {
		Default  string   `json:"default"`
		Variants []string `json:"variants"`
		Pitch    *float64 `json:"pitch"`
		Volume   *float64 `json:"volume"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	e.Default = rec.Default
	e.Variants = rec.Variants
	e.Pitch = rec.Pitch
	e.Volume = rec.Volume
	return nil
}

// defaultOptions lifts the entry's per-sound defaults into options form.
func (e *SoundEntry) defaultOptions() *PlayOptions {
	if e.Pitch == nil && e.Volume == nil {
		return nil
	}
	return &PlayOptions{Pitch: e.Pitch, Volume: e.Volume}
}

// allFiles lists the entry's default and variant files.
func (e *SoundEntry) allFiles() []string {
	files := make([]string, 0, 1+len(e.Variants))
	if e.Default != "" {
		files = append(files, e.Default)
	}
	for _, v := range e.Variants {
		if v != e.Default {
			files = append(files, v)
		}
	}
	return files
}

// FormatPrefs holds a pack's extension preference order and its failure
// strategy.
type FormatPrefs struct {
	Preferred []string         `json:"preferred"`
	Fallback  FallbackStrategy `json:"fallback"`
}

// Manifest describes a pack: named sounds grouped by category, format
// preferences, the failure strategy, and optional haptic mappings. A
// manifest is loaded once and read-only for the pack's lifetime.
type Manifest struct {
	Name    string                           `json:"name"`
	Version string                           `json:"version"`
	Formats FormatPrefs                      `json:"formats"`
	Sounds  map[string]map[string]SoundEntry `json:"sounds"`
	Haptics map[string]HapticStrength        `json:"haptics"`
}

// ParseManifest parses and validates manifest JSON.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifestFile reads and parses a manifest from disk.
func LoadManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return ParseManifest(data)
}

func (m *Manifest) validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: missing name")
	}

	switch m.Formats.Fallback {
	case "":
		m.Formats.Fallback = FallbackSilence
	case FallbackSilence, FallbackError, FallbackSynth:
	default:
		return fmt.Errorf("manifest %s: unknown fallback strategy %q", m.Name, m.Formats.Fallback)
	}

	for cat, actions := range m.Sounds {
		for action, entry := range actions {
			if entry.Default == "" && len(entry.Variants) == 0 {
				return fmt.Errorf("manifest %s: sound %s.%s names no file", m.Name, cat, action)
			}
		}
	}

	for action, strength := range m.Haptics {
		switch strength {
		case HapticLight, HapticMedium, HapticHeavy:
		default:
			return fmt.Errorf("manifest %s: haptic %s has unknown strength %q", m.Name, action, strength)
		}
	}
	return nil
}

// entry looks up category.action, reporting whether it exists.
func (m *Manifest) entry(category, action string) (SoundEntry, bool) {
	actions, ok := m.Sounds[category]
	if !ok {
		return SoundEntry{}, false
	}
	e, ok := actions[action]
	return e, ok
}
