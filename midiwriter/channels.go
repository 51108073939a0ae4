package midiwriter

// Reserved channels: 9 is the GM percussion channel, 1/2/3 are the fixed
// accompaniment channels (piano/bass/strings below). Melody staff
// mapping deliberately avoids both.
const (
	ChannelPiano   = 1
	ChannelBass    = 2
	ChannelStrings = 3
	ChannelDrums   = 9
	ChannelMetronome = 10
)

// StaffChannel maps a part's staff number to a MIDI channel for
// multi-staff parts. Staff 1 uses the requested melody
// channel; staves 2-4 use fixed channels chosen to avoid the reserved
// drum (9) and accompaniment (1,2,3) channels; staff >= 5 continues
// upward, capped at 15.
//
// Rationale: piano grand-staves routinely have the same pitch sounding
// in both hands at overlapping times; sharing one channel means one
// hand's note-off would cancel the other's still-sounding note.
func StaffChannel(staff int, melodyChannel int) int {
	switch staff {
	case 1:
		return melodyChannel
	case 2:
		return 7
	case 3:
		return 8
	case 4:
		return 11
	default:
		if staff < 5 {
			return melodyChannel
		}
		ch := 12 + staff - 4
		if ch > 15 {
			ch = 15
		}
		return ch
	}
}
