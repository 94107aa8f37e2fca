package uisound

import (
	"io"
	"path"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// DecodeFunc decodes one container format into a seekable stream.
type DecodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// DefaultDecoders returns the decoder registry for the containers this
// build can play. webm has no decoder and is therefore reported as
// unsupported by resolvers built from this registry.
// wav and flac decode from a bare io.Reader, so those two are lifted into
// the registry signature.
func DefaultDecoders() map[string]DecodeFunc {
	return map[string]DecodeFunc{
		"wav": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(rc)
		},
		"mp3": mp3.Decode,
		"ogg": vorbis.Decode,
		"flac": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return flac.Decode(rc)
		},
	}
}

// FormatResolver answers which audio containers are playable and picks the
// best available file extension for a logical sound name. Support is
// probed once at construction and never re-probed.
type FormatResolver struct {
	decoders map[string]DecodeFunc
}

// NewFormatResolver probes the given decoder registry. A nil registry
// means nothing is decodable, which is a valid state: BestFormat then
// falls through to the first preference so playback can still be attempted
// and surface its own error.
func NewFormatResolver(decoders map[string]DecodeFunc) *FormatResolver {
	snapshot := make(map[string]DecodeFunc, len(decoders))
	for ext, dec := range decoders {
		if dec == nil {
			continue
		}
		snapshot[normalizeExt(ext)] = dec
	}
	return &FormatResolver{decoders: snapshot}
}

// Supports reports whether the extension was decodable at probe time.
func (f *FormatResolver) Supports(ext string) bool {
	_, ok := f.decoders[normalizeExt(ext)]
	return ok
}

// BestFormat strips any extension from baseName and appends the first
// supported extension from preferred. If none are supported, the first
// preference is used anyway; with no preferences at all the bare base name
// is returned.
func (f *FormatResolver) BestFormat(baseName string, preferred []string) string {
	base := strings.TrimSuffix(baseName, path.Ext(baseName))
	for _, ext := range preferred {
		if f.Supports(ext) {
			return base + "." + normalizeExt(ext)
		}
	}
	if len(preferred) == 0 {
		return base
	}
	return base + "." + normalizeExt(preferred[0])
}

// decoderFor returns the decoder registered for a file extension.
func (f *FormatResolver) decoderFor(ext string) (DecodeFunc, bool) {
	dec, ok := f.decoders[normalizeExt(ext)]
	return dec, ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
