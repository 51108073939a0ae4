package midiwriter

import (
	"github.com/notalib/scorelib/model"
	"github.com/notalib/scorelib/timemap"
)

// NoteEvent is one melodic note's fully resolved onset/release, expressed
// as (timemap entry index, ms-within-entry) pairs so it can cross a
// tempo-segment boundary — a tied note may start in one measure and
// release in a later one.
type NoteEvent struct {
	Staff             int
	Voice             int
	Pitch             int
	OnsetEntryIndex   int
	OnsetOffsetMS     float64
	ReleaseEntryIndex int
	ReleaseOffsetMS   float64
}

type partitionKey struct {
	staff, voice int
}

type cursorState struct {
	posDiv       int
	lastOnsetDiv int
}

type tieKey struct {
	partitionKey
	pitch int
}

type openTie struct {
	onsetEntryIndex int
	onsetOffsetMS   float64
	endEntryIndex   int
	endOffsetMS     float64
	endDurationMS   float64
}

// ExtractMelody partitions a part's notes by (staff, voice), resolves
// chord/rest/grace semantics, and returns the resolved note-on/note-off
// spans for the given staff only. Grace notes are
// skipped entirely: they never advance a partition's position.
//
// Tie semantics: a chain's interior notes (tie_start && tie_stop) emit
// neither; only the head (tie_start only) opens a pending span, and only
// the tail (tie_stop only) closes and emits it. A standalone note (no
// tie flags) emits immediately.
func ExtractMelody(part *model.Part, entries []timemap.Entry, staff int) []NoteEvent {
	openTies := map[tieKey]*openTie{}
	var events []NoteEvent

	for entryIndex, te := range entries {
		idx := te.OriginalMeasureIndex
		if idx < 0 || idx >= len(part.Measures) {
			continue
		}
		m := &part.Measures[idx]
		// Partition positions are measured from the start of each measure.
		cursors := map[partitionKey]*cursorState{}
		for i := range m.Notes {
			n := &m.Notes[i]
			if n.Grace {
				continue
			}
			if n.EffectiveStaff() != staff {
				continue
			}
			voice := n.EffectiveVoice()
			key := partitionKey{staff: staff, voice: voice}
			c := cursors[key]
			if c == nil {
				c = &cursorState{}
				cursors[key] = c
			}
			if n.Rest {
				c.posDiv += n.Duration
				continue
			}

			var onsetDiv int
			if n.Chord {
				onsetDiv = c.lastOnsetDiv
			} else {
				onsetDiv = c.posDiv
				c.lastOnsetDiv = onsetDiv
				c.posDiv += n.Duration
			}

			offsetMS := OnsetOffsetMS(onsetDiv, te.Divisions, te.Beats, te.BeatType, te.DurationMS)
			durMS := OnsetOffsetMS(n.Duration, te.Divisions, te.Beats, te.BeatType, te.DurationMS)
			pitch := n.MidiPitch()
			tk := tieKey{partitionKey: key, pitch: pitch}

			switch {
			case n.TieStart && n.TieStop:
				if p, ok := openTies[tk]; ok {
					p.endEntryIndex = entryIndex
					p.endOffsetMS = offsetMS
					p.endDurationMS = durMS
				}
			case n.TieStop:
				if p, ok := openTies[tk]; ok {
					events = append(events, NoteEvent{
						Staff: staff, Voice: voice, Pitch: pitch,
						OnsetEntryIndex: p.onsetEntryIndex, OnsetOffsetMS: p.onsetOffsetMS,
						ReleaseEntryIndex: entryIndex, ReleaseOffsetMS: offsetMS + durMS,
					})
					delete(openTies, tk)
				} else {
					events = append(events, NoteEvent{
						Staff: staff, Voice: voice, Pitch: pitch,
						OnsetEntryIndex: entryIndex, OnsetOffsetMS: offsetMS,
						ReleaseEntryIndex: entryIndex, ReleaseOffsetMS: offsetMS + durMS,
					})
				}
			case n.TieStart:
				openTies[tk] = &openTie{
					onsetEntryIndex: entryIndex, onsetOffsetMS: offsetMS,
					endEntryIndex: entryIndex, endOffsetMS: offsetMS, endDurationMS: durMS,
				}
			default:
				events = append(events, NoteEvent{
					Staff: staff, Voice: voice, Pitch: pitch,
					OnsetEntryIndex: entryIndex, OnsetOffsetMS: offsetMS,
					ReleaseEntryIndex: entryIndex, ReleaseOffsetMS: offsetMS + durMS,
				})
			}
		}
	}

	// A tie chain with no closing tail (malformed input) still releases
	// at its last recorded end.
	for tk, p := range openTies {
		events = append(events, NoteEvent{
			Staff: tk.staff, Voice: tk.voice, Pitch: tk.pitch,
			OnsetEntryIndex: p.onsetEntryIndex, OnsetOffsetMS: p.onsetOffsetMS,
			ReleaseEntryIndex: p.endEntryIndex, ReleaseOffsetMS: p.endOffsetMS + p.endDurationMS,
		})
	}
	return events
}

// PartStaves returns the sorted set of staff numbers a part's notes use,
// defaulting to a single staff 1 when no note specifies one.
func PartStaves(part *model.Part) []int {
	seen := map[int]bool{}
	for _, m := range part.Measures {
		for _, n := range m.Notes {
			seen[n.EffectiveStaff()] = true
		}
	}
	if len(seen) == 0 {
		return []int{1}
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	// small fixed upper bound on staff count keeps this an insertion sort
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
