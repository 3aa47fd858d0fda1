package studio

import "math"

// DrumKey names one pad on the drum sampler.
type DrumKey string

const (
	DrumKick      DrumKey = "kick"
	DrumSnare     DrumKey = "snare"
	DrumHihat     DrumKey = "hihat"
	DrumClap      DrumKey = "clap"
	DrumRimshot   DrumKey = "rimshot"
	DrumOpenHihat DrumKey = "openHihat"
	DrumRide      DrumKey = "ride"
	DrumCrash     DrumKey = "crash"
)

// drumNotes maps pads onto sampler notes, white keys C1 through C2.
var drumNotes = map[DrumKey]int{
	DrumKick:      36, // C1
	DrumSnare:     38, // D1
	DrumHihat:     40, // E1
	DrumClap:      41, // F1
	DrumRimshot:   43, // G1
	DrumOpenHihat: 45, // A1
	DrumRide:      47, // B1
	DrumCrash:     48, // C2
}

// DrumNote returns the sampler note number for a pad.
func DrumNote(key DrumKey) (int, bool) {
	n, ok := drumNotes[key]
	return n, ok
}

// DrumKeys returns the pads in keyboard order.
func DrumKeys() []DrumKey {
	return []DrumKey{
		DrumKick, DrumSnare, DrumHihat, DrumClap,
		DrumRimshot, DrumOpenHihat, DrumRide, DrumCrash,
	}
}

// NoteFrequency converts a note number to Hz with A4 (note 69) at 440.
func NoteFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}
