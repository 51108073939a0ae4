package midiwriter

import (
	"math"

	"github.com/notalib/scorelib/timemap"
)

// TicksPerQuarter is the SMF resolution scorelib writes.
const TicksPerQuarter = 480

// TickIndex is a tempo-segment integrator: it accumulates absolute tick
// counts across tempo changes so that an (entry index, ms-within-entry)
// pair converts to an absolute tick regardless of how many tempo
// changes precede it.
type TickIndex struct {
	entries    []timemap.Entry
	startTicks []float64
}

// BuildTickIndex precomputes the starting tick of every timemap entry.
func BuildTickIndex(entries []timemap.Entry) *TickIndex {
	ti := &TickIndex{entries: entries, startTicks: make([]float64, len(entries))}
	cum := 0.0
	for i, e := range entries {
		ti.startTicks[i] = cum
		cum += e.DurationMS * ticksPerMS(e.TempoBPM)
	}
	return ti
}

func ticksPerMS(bpm float64) float64 {
	if bpm <= 0 {
		bpm = 120
	}
	return float64(TicksPerQuarter) * bpm / 60000.0
}

// TickAt converts an offset in milliseconds from the start of the entry
// at entryIndex into an absolute tick, saturating to the index bounds
// so malformed offsets cannot underflow the tick counter.
func (ti *TickIndex) TickAt(entryIndex int, msWithinEntry float64) uint32 {
	if len(ti.entries) == 0 {
		return 0
	}
	if entryIndex < 0 {
		entryIndex = 0
	}
	if entryIndex >= len(ti.entries) {
		entryIndex = len(ti.entries) - 1
	}
	t := ti.startTicks[entryIndex] + msWithinEntry*ticksPerMS(ti.entries[entryIndex].TempoBPM)
	if t < 0 {
		t = 0
	}
	return uint32(math.Round(t))
}

// TotalTicks returns the tick position just past the final entry, the
// natural length of the tempo map.
func (ti *TickIndex) TotalTicks() uint32 {
	n := len(ti.entries)
	if n == 0 {
		return 0
	}
	return ti.TickAt(n-1, ti.entries[n-1].DurationMS)
}

// EffectiveQuarters is the number of quarter notes a measure with the
// given time signature spans: (beats/beatType) * 4.
func EffectiveQuarters(beats, beatType int) float64 {
	if beatType <= 0 {
		beatType = 4
	}
	if beats <= 0 {
		beats = 4
	}
	return (float64(beats) / float64(beatType)) * 4
}

// OnsetOffsetMS converts a position in divisions from the start of a
// measure into milliseconds from the start of that measure, per
// (onset_div / divisions / effective_quarters) * duration_ms.
func OnsetOffsetMS(onsetDiv, divisions int, beats, beatType int, durationMS float64) float64 {
	if divisions <= 0 {
		divisions = 1
	}
	eq := EffectiveQuarters(beats, beatType)
	if eq <= 0 {
		eq = 4
	}
	return (float64(onsetDiv) / float64(divisions) / eq) * durationMS
}
