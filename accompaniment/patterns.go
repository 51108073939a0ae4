package accompaniment

import "math"

// Energy scales pattern velocities by a fixed multiplier.
type Energy string

const (
	EnergySoft   Energy = "soft"
	EnergyMedium Energy = "medium"
	EnergyStrong Energy = "strong"
)

var energyMultiplier = map[Energy]float64{
	EnergySoft:   0.7,
	EnergyMedium: 1.0,
	EnergyStrong: 1.25,
}

func multiplierFor(e Energy) float64 {
	if m, ok := energyMultiplier[e]; ok {
		return m
	}
	return 1.0
}

// Event is one accompaniment note event, relative to the chord's start.
type Event struct {
	Pitch      int
	OffsetMS   float64
	DurationMS float64
	Velocity   int
}

func scaleVelocity(base float64, e Energy) int {
	v := int(math.Round(base * multiplierFor(e)))
	if v < 1 {
		v = 1
	}
	if v > 127 {
		v = 127
	}
	return v
}

// Piano drops the bass note and arpeggiates the remainder with a 15ms
// inter-note stagger; if the chord lasts over a second, a second sweep
// starts at the midpoint at reduced velocity and length.
func Piano(voicing []int, durationMS float64, energy Energy) []Event {
	if len(voicing) < 2 {
		return nil
	}
	upper := voicing[1:]
	noteLen := durationMS * 0.5
	var out []Event
	for i, p := range upper {
		out = append(out, Event{Pitch: p, OffsetMS: float64(i) * 15, DurationMS: noteLen, Velocity: scaleVelocity(90, energy)})
	}
	if durationMS > 1000 {
		mid := durationMS / 2
		for i, p := range upper {
			out = append(out, Event{
				Pitch:      p,
				OffsetMS:   mid + float64(i)*15,
				DurationMS: noteLen * 0.8,
				Velocity:   scaleVelocity(90*0.85, energy),
			})
		}
	}
	return out
}

// Bass places the root at beat 1, the fifth at the 50% offset, and
// (when the chord exceeds 1.2s) an octave at the 75% offset.
func Bass(voicing []int, durationMS float64, energy Energy) []Event {
	if len(voicing) == 0 {
		return nil
	}
	root := voicing[0] - 12
	fifth := root + 7
	out := []Event{
		{Pitch: root, OffsetMS: 0, DurationMS: durationMS * 0.45, Velocity: scaleVelocity(100, energy)},
		{Pitch: fifth, OffsetMS: durationMS * 0.5, DurationMS: durationMS * 0.35, Velocity: scaleVelocity(90, energy)},
	}
	if durationMS > 1200 {
		out = append(out, Event{Pitch: root + 12, OffsetMS: durationMS * 0.75, DurationMS: durationMS * 0.2, Velocity: scaleVelocity(85, energy)})
	}
	return out
}

// Strings sustains the entire smoothed voicing for 105% of the chord
// duration.
func Strings(voicing []int, durationMS float64, energy Energy) []Event {
	out := make([]Event, len(voicing))
	for i, p := range voicing {
		out[i] = Event{Pitch: p, OffsetMS: 0, DurationMS: durationMS * 1.05, Velocity: scaleVelocity(70, energy)}
	}
	return out
}

// Drum MIDI notes (General MIDI percussion key map).
const (
	DrumKick        = 36
	DrumSnare       = 38
	DrumClosedHiHat = 42
)

// Drums divides the chord duration into max(2, round(duration/500ms))
// beats: kick on beat 0 (and beat 2 when there are >=4 beats), snare on
// odd-indexed beats, closed hi-hat on every beat plus eighth
// subdivisions when the beat exceeds 300ms.
func Drums(durationMS float64, energy Energy) []Event {
	beatCount := int(math.Max(2, math.Round(durationMS/500.0)))
	beatLen := durationMS / float64(beatCount)
	var out []Event
	for b := 0; b < beatCount; b++ {
		t := float64(b) * beatLen
		if b == 0 || (beatCount >= 4 && b == 2) {
			out = append(out, Event{Pitch: DrumKick, OffsetMS: t, DurationMS: beatLen, Velocity: scaleVelocity(110, energy)})
		}
		if b%2 == 1 {
			out = append(out, Event{Pitch: DrumSnare, OffsetMS: t, DurationMS: beatLen, Velocity: scaleVelocity(100, energy)})
		}
		out = append(out, Event{Pitch: DrumClosedHiHat, OffsetMS: t, DurationMS: beatLen, Velocity: scaleVelocity(80, energy)})
		if beatLen > 300 {
			out = append(out, Event{Pitch: DrumClosedHiHat, OffsetMS: t + beatLen/2, DurationMS: beatLen / 2, Velocity: scaleVelocity(65, energy)})
		}
	}
	return out
}

// Metronome MIDI notes (wood block).
const (
	WoodBlockHigh = 76
	WoodBlockLow  = 77
)

// Metronome emits one click per beat: a high wood block on the
// measure's first beat, a low wood block on every other beat, each
// 100ms long. beatCount and beatDurationMS are supplied by the caller,
// which is responsible for the pickup-measure beat-count override
// (see PickupBeatCount).
func Metronome(beatCount int, beatDurationMS float64) []Event {
	const clickLenMS = 100
	out := make([]Event, 0, beatCount)
	for b := 0; b < beatCount; b++ {
		pitch, vel := WoodBlockLow, 100
		if b == 0 {
			pitch, vel = WoodBlockHigh, 127
		}
		out = append(out, Event{Pitch: pitch, OffsetMS: float64(b) * beatDurationMS, DurationMS: clickLenMS, Velocity: vel})
	}
	return out
}

// PickupBeatCount applies the pickup-detection rule: the first measure
// whose duration is under 95% of the second measure's duration is
// treated as a pickup, with beatCount = round(duration/beat-duration).
func PickupBeatCount(measureDurationMS, secondMeasureDurationMS, nominalBeatCount int, beatDurationMS float64) int {
	if float64(measureDurationMS) < 0.95*float64(secondMeasureDurationMS) {
		return int(math.Round(float64(measureDurationMS) / beatDurationMS))
	}
	return nominalBeatCount
}
