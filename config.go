package uisound

import (
	"os"
	"strconv"
	"time"
)

// Config controls engine construction and pack defaults.
type Config struct {
	// Enabled gates all audible output. A disabled engine accepts every
	// call and renders nothing.
	Enabled bool
	// SampleRate of the output device in Hz.
	SampleRate int
	// BufferLen is the device buffer length. Longer is safer on slow
	// machines, shorter keeps feedback latency low.
	BufferLen time.Duration
	// MasterVolume is the root gain in [0, 1] applied after all per-sound
	// gains.
	MasterVolume float64
	// MaxCacheSize bounds the decoded-buffer cache entry count. Values
	// below 1 disable the bound.
	MaxCacheSize int
	// BasePath is the default resource root sounds are fetched from,
	// either a directory or an http(s) URL prefix.
	BasePath string
	// LazyLoad defers fetching each sound until its first play. When off,
	// loading a pack fetches everything up front.
	LazyLoad bool
	// AutoStart lets the first play call start the output device. When
	// off, playback fails with ErrStartBlocked until Start is called
	// explicitly, for hosts that gate audio behind a user gesture.
	AutoStart bool
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		SampleRate:   48000,
		BufferLen:    100 * time.Millisecond,
		MasterVolume: 1.0,
		MaxCacheSize: 32,
		BasePath:     "sounds",
		LazyLoad:     true,
		AutoStart:    true,
	}
}

// LoadConfig loads configuration from environment variables, falling back
// to defaults for anything unset or malformed.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("UISOUND_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	if rate := os.Getenv("UISOUND_SAMPLE_RATE"); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	if buf := os.Getenv("UISOUND_BUFFER_MS"); buf != "" {
		if val, err := strconv.Atoi(buf); err == nil && val > 0 {
			cfg.BufferLen = time.Duration(val) * time.Millisecond
		}
	}

	// Master volume is 0-100, converted to 0.0-1.0
	if volume := os.Getenv("UISOUND_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clamp(float64(val)/100.0, 0, 1)
		}
	}

	if size := os.Getenv("UISOUND_MAX_CACHE"); size != "" {
		if val, err := strconv.Atoi(size); err == nil {
			cfg.MaxCacheSize = val
		}
	}

	if base := os.Getenv("UISOUND_BASE_PATH"); base != "" {
		cfg.BasePath = base
	}

	if lazy := os.Getenv("UISOUND_LAZY_LOAD"); lazy != "" {
		if val, err := strconv.ParseBool(lazy); err == nil {
			cfg.LazyLoad = val
		}
	}

	if auto := os.Getenv("UISOUND_AUTO_START"); auto != "" {
		if val, err := strconv.ParseBool(auto); err == nil {
			cfg.AutoStart = val
		}
	}

	return cfg
}
