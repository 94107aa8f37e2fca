package uisound

import "math"

// noteFrequencies contains precomputed frequencies for MIDI notes 0-127.
// A4 (note 69) = 440Hz, equal temperament.
var noteFrequencies [128]float64

func init() {
	for i := range noteFrequencies {
		noteFrequencies[i] = 440.0 * math.Pow(2, (float64(i)-69.0)/12.0)
	}
}

// NoteFrequency returns the frequency in Hz for a MIDI note number, or 0
// for out-of-range notes.
func NoteFrequency(midi int) float64 {
	if midi < 0 || midi >= 128 {
		return 0
	}
	return noteFrequencies[midi]
}

// semitoneRatio converts a semitone offset to a frequency multiplier.
func semitoneRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// centRatio converts a cent offset to a frequency multiplier.
func centRatio(cents float64) float64 {
	return math.Pow(2, cents/1200)
}
