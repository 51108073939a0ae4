package timemap

import (
	"math"
	"testing"

	"github.com/notalib/scorelib/model"
	"github.com/notalib/scorelib/unroll"
)

func fourFourPart(n int) *model.Part {
	measures := make([]model.Measure, n)
	measures[0].Attributes = &model.Attributes{
		Divisions: 4,
		Time:      &model.Time{Beats: 4, BeatType: 4},
	}
	return &model.Part{Measures: measures}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuildCumulativeTimestamps(t *testing.T) {
	part := fourFourPart(5)
	entries := unroll.Unroll(part)
	tm := Build(part, entries)

	if len(tm) != len(entries) {
		t.Fatalf("entry count = %d, want %d", len(tm), len(entries))
	}
	for i := 1; i < len(tm); i++ {
		wantStart := tm[i-1].StartMS + tm[i-1].DurationMS
		if !almostEqual(tm[i].StartMS, wantStart) {
			t.Errorf("entry %d start = %f, want %f", i, tm[i].StartMS, wantStart)
		}
		if tm[i-1].DurationMS > 0 && tm[i].StartMS <= tm[i-1].StartMS {
			t.Errorf("entry %d start %f not strictly after %f", i, tm[i].StartMS, tm[i-1].StartMS)
		}
	}
	// 4/4 at the default 120 BPM: 2000 ms per measure.
	if !almostEqual(tm[0].DurationMS, 2000) {
		t.Errorf("measure duration = %f, want 2000", tm[0].DurationMS)
	}
}

func TestBuildDefaultsWithoutAttributes(t *testing.T) {
	part := &model.Part{Measures: make([]model.Measure, 2)}
	tm := Build(part, unroll.Unroll(part))
	if tm[0].TempoBPM != 120 || tm[0].Beats != 4 || tm[0].BeatType != 4 || tm[0].Divisions != 1 {
		t.Errorf("defaults = %v, want 120 BPM 4/4 divisions 1", tm[0])
	}
}

func TestBuildThreeFourDuration(t *testing.T) {
	part := fourFourPart(2)
	part.Measures[0].Attributes.Time = &model.Time{Beats: 3, BeatType: 4}
	tm := Build(part, unroll.Unroll(part))
	if !almostEqual(tm[0].DurationMS, 1500) {
		t.Errorf("3/4 measure duration = %f, want 1500", tm[0].DurationMS)
	}
}

func TestBuildTempoChange(t *testing.T) {
	part := fourFourPart(4)
	part.Measures[2].Directions = append(part.Measures[2].Directions, model.Direction{Tempo: 60})
	tm := Build(part, unroll.Unroll(part))

	if tm[1].TempoBPM != 120 {
		t.Errorf("measure 1 tempo = %f, want 120", tm[1].TempoBPM)
	}
	if tm[2].TempoBPM != 60 {
		t.Errorf("measure 2 tempo = %f, want 60", tm[2].TempoBPM)
	}
	if !almostEqual(tm[2].DurationMS, 4000) {
		t.Errorf("measure 2 duration = %f, want 4000", tm[2].DurationMS)
	}
}

func TestBuildMetronomeMarkSetsTempo(t *testing.T) {
	part := fourFourPart(2)
	part.Measures[1].Directions = append(part.Measures[1].Directions, model.Direction{
		Metronome: &model.Metronome{BeatUnit: model.NoteQuarter, PerMinute: 90},
	})
	tm := Build(part, unroll.Unroll(part))
	if tm[1].TempoBPM != 90 {
		t.Errorf("tempo after metronome mark = %f, want 90", tm[1].TempoBPM)
	}
}

// A dal segno jump must restore the tempo in force at the jump
// destination, not carry the pre-jump tempo backward.
func TestBuildTempoRestoredAcrossJump(t *testing.T) {
	part := fourFourPart(16)
	part.Measures[10].Directions = append(part.Measures[10].Directions, model.Direction{Segno: true})
	part.Measures[12].Directions = append(part.Measures[12].Directions, model.Direction{Fine: true})
	part.Measures[13].Directions = append(part.Measures[13].Directions, model.Direction{Tempo: 90})
	part.Measures[14].Directions = append(part.Measures[14].Directions, model.Direction{DalSegno: true})

	entries := unroll.Unroll(part)
	tm := Build(part, entries)

	// Unrolled: 0..14 then 10, 11, 12. Position 15 is the jump landing.
	if len(tm) != 18 {
		t.Fatalf("unrolled length = %d, want 18", len(tm))
	}
	if tm[14].TempoBPM != 90 {
		t.Errorf("pre-jump tempo = %f, want 90", tm[14].TempoBPM)
	}
	if tm[15].OriginalMeasureIndex != 10 {
		t.Fatalf("jump landing measure = %d, want 10", tm[15].OriginalMeasureIndex)
	}
	if tm[15].TempoBPM != 120 {
		t.Errorf("tempo at jump landing = %f, want 120 (state at measure 10)", tm[15].TempoBPM)
	}
}

func TestBuildPickupMeasureShortened(t *testing.T) {
	part := fourFourPart(3)
	part.Measures[0].Implicit = true
	// One quarter note (4 divisions at divisions=4) in a 4/4 measure.
	part.Measures[0].Notes = []model.Note{
		{Step: "C", Octave: 4, Duration: 4, Type: model.NoteQuarter},
	}
	tm := Build(part, unroll.Unroll(part))

	if !almostEqual(tm[0].DurationMS, 500) {
		t.Errorf("pickup duration = %f, want 500", tm[0].DurationMS)
	}
	if tm[0].DurationMS > 2000 {
		t.Errorf("pickup duration %f exceeds nominal", tm[0].DurationMS)
	}
	if !almostEqual(tm[1].StartMS, 500) {
		t.Errorf("second measure start = %f, want 500", tm[1].StartMS)
	}
}

func TestBuildPickupIgnoresChordAndGraceNotes(t *testing.T) {
	part := fourFourPart(2)
	part.Measures[0].Implicit = true
	part.Measures[0].Notes = []model.Note{
		{Step: "C", Octave: 4, Duration: 4, Type: model.NoteQuarter},
		{Step: "E", Octave: 4, Duration: 4, Type: model.NoteQuarter, Chord: true},
		{Step: "D", Octave: 4, Grace: true},
	}
	tm := Build(part, unroll.Unroll(part))
	if !almostEqual(tm[0].DurationMS, 500) {
		t.Errorf("pickup duration = %f, want 500 (chord/grace must not add)", tm[0].DurationMS)
	}
}
