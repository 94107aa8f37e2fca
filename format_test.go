package uisound

import (
	"bytes"
	"io"
	"testing"
)

// TestFormatResolverSupports verifies the default container set
func TestFormatResolverSupports(t *testing.T) {
	f := NewFormatResolver(DefaultDecoders())

	testCases := []struct {
		ext      string
		expected bool
	}{
		{"wav", true},
		{"mp3", true},
		{"ogg", true},
		{"flac", true},
		{"webm", false},
		{"aac", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := f.Supports(tc.ext); got != tc.expected {
			t.Errorf("Expected Supports(%q)=%v, got %v", tc.ext, tc.expected, got)
		}
	}
}

// TestDefaultDecodersDecodeWAV verifies the registered wav decoder handles a real payload
func TestDefaultDecodersDecodeWAV(t *testing.T) {
	f := NewFormatResolver(DefaultDecoders())
	dec, ok := f.decoderFor("wav")
	if !ok {
		t.Fatal("Expected a wav decoder in the default registry")
	}

	s, format, err := dec(io.NopCloser(bytes.NewReader(makeWAV(44100, 32))))
	if err != nil {
		t.Fatalf("Expected the payload to decode, got %v", err)
	}
	defer s.Close()

	if format.SampleRate != 44100 {
		t.Errorf("Expected rate 44100, got %d", format.SampleRate)
	}
	if s.Len() != 32 {
		t.Errorf("Expected 32 frames, got %d", s.Len())
	}
}

// TestFormatResolverExtensionNormalization verifies case and dot handling
func TestFormatResolverExtensionNormalization(t *testing.T) {
	f := NewFormatResolver(DefaultDecoders())

	if !f.Supports(".wav") {
		t.Error("Expected leading-dot extension to be supported")
	}
	if !f.Supports("WAV") {
		t.Error("Expected uppercase extension to be supported")
	}
	if !f.Supports(".OGG") {
		t.Error("Expected mixed-form extension to be supported")
	}
}

// TestFormatResolverNilDecoder verifies nil decoder entries are skipped
func TestFormatResolverNilDecoder(t *testing.T) {
	f := NewFormatResolver(map[string]DecodeFunc{
		"wav":  DefaultDecoders()["wav"],
		"webm": nil,
	})

	if !f.Supports("wav") {
		t.Error("Expected wav to be supported")
	}
	if f.Supports("webm") {
		t.Error("Expected nil-decoder container to be unsupported")
	}
}

// TestBestFormatFirstSupported verifies preference order selection
func TestBestFormatFirstSupported(t *testing.T) {
	f := NewFormatResolver(DefaultDecoders())

	got := f.BestFormat("click", []string{"ogg", "mp3", "wav"})
	if got != "click.ogg" {
		t.Errorf("Expected click.ogg, got %s", got)
	}
}

// TestBestFormatSkipsUnsupported verifies unsupported formats are passed over
func TestBestFormatSkipsUnsupported(t *testing.T) {
	f := NewFormatResolver(DefaultDecoders())

	got := f.BestFormat("click", []string{"webm", "aac", "mp3"})
	if got != "click.mp3" {
		t.Errorf("Expected click.mp3, got %s", got)
	}

	// A build decoding only ogg and wav skips a preferred mp3
	limited := NewFormatResolver(map[string]DecodeFunc{
		"ogg": DefaultDecoders()["ogg"],
		"wav": DefaultDecoders()["wav"],
	})
	got = limited.BestFormat("click", []string{"mp3", "ogg", "wav"})
	if got != "click.ogg" {
		t.Errorf("Expected click.ogg, got %s", got)
	}
}

// TestBestFormatStripsExistingExtension verifies the base name loses its extension first
func TestBestFormatStripsExistingExtension(t *testing.T) {
	f := NewFormatResolver(DefaultDecoders())

	got := f.BestFormat("click.ogg", []string{"mp3"})
	if got != "click.mp3" {
		t.Errorf("Expected click.mp3, got %s", got)
	}
}

// TestBestFormatFallback verifies the first preference wins when nothing is supported
func TestBestFormatFallback(t *testing.T) {
	f := NewFormatResolver(map[string]DecodeFunc{
		"wav": DefaultDecoders()["wav"],
	})

	got := f.BestFormat("click", []string{"webm", "aac"})
	if got != "click.webm" {
		t.Errorf("Expected fallback click.webm, got %s", got)
	}
}

// TestBestFormatNoPreferences verifies an empty preference list keeps the bare base name
func TestBestFormatNoPreferences(t *testing.T) {
	f := NewFormatResolver(DefaultDecoders())

	got := f.BestFormat("click.wav", nil)
	if got != "click" {
		t.Errorf("Expected bare base name click, got %s", got)
	}
}

// TestBestFormatProbeOnce verifies support answers stay stable after construction
func TestBestFormatProbeOnce(t *testing.T) {
	decoders := map[string]DecodeFunc{
		"wav": DefaultDecoders()["wav"],
	}
	f := NewFormatResolver(decoders)

	// Mutating the source map after construction must not change answers
	decoders["ogg"] = DefaultDecoders()["ogg"]
	delete(decoders, "wav")

	if !f.Supports("wav") {
		t.Error("Expected wav support to be snapshotted at construction")
	}
	if f.Supports("ogg") {
		t.Error("Expected later map additions to be invisible")
	}
}
