// Package timemap assigns absolute timestamps, durations, and active
// tempi to every entry of an unrolled play order, restoring tempo state
// across navigation jumps by keying lookups on original-measure index
// rather than unrolled position.
package timemap

import (
	"github.com/notalib/scorelib/model"
	"github.com/notalib/scorelib/unroll"
)

// State is the precomputed per-original-measure snapshot: the tempo,
// time signature, and divisions in force at that measure in score order.
type State struct {
	TempoBPM   float64
	Beats      int
	BeatType   int
	Divisions  int
}

// Entry is one timemap record, one per unrolled position.
type Entry struct {
	UnrolledPosition    int
	OriginalMeasureIndex int
	StartMS             float64
	DurationMS          float64
	TempoBPM            float64
	Beats               int
	BeatType            int
	Divisions           int
}

const (
	defaultTempo    = 120.0
	defaultBeats    = 4
	defaultBeatType = 4
	defaultDivisions = 1
)

// precompute runs a single forward pass over the part's measures in
// score order, carrying tempo/time/divisions forward and updating them
// from explicit sound-tempo attributes and metronome marks. Direction
// words are never authoritative for tempo.
func precompute(part *model.Part) []State {
	states := make([]State, len(part.Measures))
	tempo := defaultTempo
	beats, beatType := defaultBeats, defaultBeatType
	divisions := defaultDivisions

	for i, m := range part.Measures {
		if m.Attributes != nil {
			if m.Attributes.Divisions > 0 {
				divisions = m.Attributes.Divisions
			}
			if m.Attributes.Time != nil {
				beats = m.Attributes.Time.Beats
				beatType = m.Attributes.Time.BeatType
			}
		}
		for _, d := range m.Directions {
			if d.Tempo > 0 {
				tempo = d.Tempo
				continue
			}
			if d.Metronome != nil && d.Metronome.PerMinute > 0 {
				// Per-minute is read verbatim regardless of beat-unit.
				tempo = d.Metronome.PerMinute
			}
		}
		states[i] = State{TempoBPM: tempo, Beats: beats, BeatType: beatType, Divisions: divisions}
	}
	return states
}

// nominalDurationMS is (beats/beatType) * 4 * (60000/tempo).
func nominalDurationMS(st State) float64 {
	return (float64(st.Beats) / float64(st.BeatType)) * 4 * (60000.0 / st.TempoBPM)
}

// quarterNoteSum sums the quarter-note durations of a measure's sounding
// (non-chord, non-grace) notes, used for pickup-measure duration.
func quarterNoteSum(m *model.Measure, divisions int) float64 {
	if divisions <= 0 {
		divisions = 1
	}
	var sum float64
	for _, n := range m.Notes {
		if n.Grace || n.Chord {
			continue
		}
		sum += float64(n.Duration) / float64(divisions)
	}
	return sum
}

// Build computes the timemap for a given unrolled entry sequence against
// its originating Part. The state lookup for each entry is by original
// index — navigation jumps automatically restore the tempo in force at
// the jump destination instead of inheriting the pre-jump tempo.
func Build(part *model.Part, entries []unroll.Entry) []Entry {
	states := precompute(part)
	out := make([]Entry, 0, len(entries))
	cursor := 0.0
	for pos, e := range entries {
		idx := e.OriginalIndex
		if idx < 0 || idx >= len(states) {
			continue
		}
		st := states[idx]
		dur := nominalDurationMS(st)
		if idx < len(part.Measures) && part.Measures[idx].Implicit {
			actual := quarterNoteSum(&part.Measures[idx], st.Divisions) * (60000.0 / st.TempoBPM)
			if actual < dur {
				dur = actual
			}
		}
		out = append(out, Entry{
			UnrolledPosition:     pos,
			OriginalMeasureIndex: idx,
			StartMS:              cursor,
			DurationMS:           dur,
			TempoBPM:             st.TempoBPM,
			Beats:                st.Beats,
			BeatType:             st.BeatType,
			Divisions:            st.Divisions,
		})
		cursor += dur
	}
	return out
}
