package uisound

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrLoad              = errors.New("resource load failed")
	ErrDecode            = errors.New("audio payload not decodable")
	ErrSoundNotFound     = errors.New("sound not found in pack manifest")
	ErrPackNotLoaded     = errors.New("pack not loaded")
	ErrEngineUnavailable = errors.New("audio engine unavailable")
	ErrStartBlocked      = errors.New("audio start blocked pending user interaction")
)

// LoadError reports a transport failure while fetching a resource. Status is
// the HTTP status code, or 0 for non-HTTP transports.
type LoadError struct {
	URL    string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("load %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return ErrLoad }

// DecodeError reports that fetched bytes were not valid audio for the
// resource's container format.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// SoundNotFoundError reports a manifest lookup miss for a dotted sound path.
type SoundNotFoundError struct {
	Path string
}

func (e *SoundNotFoundError) Error() string {
	return fmt.Sprintf("sound %q not found in pack manifest", e.Path)
}

func (e *SoundNotFoundError) Unwrap() error { return ErrSoundNotFound }
