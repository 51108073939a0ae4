package midiwriter

// General MIDI program numbers (0-indexed) for the fixed accompaniment
// instruments assigned to each accompaniment track.
const (
	ProgramPiano     = 0   // Acoustic Grand Piano
	ProgramBass      = 32  // Acoustic Bass
	ProgramStrings   = 48  // String Ensemble 1
	ProgramWoodblock = 115 // Woodblock, carries the metronome's wood-block clicks
	ProgramDrumKit   = 0   // Standard Kit, selected via the channel-9 convention
)
