package accompaniment

import (
	"testing"

	"github.com/notalib/scorelib/model"
	"github.com/notalib/scorelib/timemap"
	"github.com/notalib/scorelib/unroll"
)

func note(step string, alter, octave int) model.Note {
	return model.Note{Step: step, Alter: alter, Octave: octave, Duration: 4, Type: model.NoteQuarter}
}

func TestKeyRootPC(t *testing.T) {
	cases := []struct {
		fifths int
		want   int
	}{
		{0, 0},   // C
		{1, 7},   // G
		{2, 2},   // D
		{-1, 5},  // F
		{-2, 10}, // Bb
		{3, 9},   // A
	}
	for _, c := range cases {
		if got := KeyRootPC(c.fifths); got != c.want {
			t.Errorf("KeyRootPC(%d) = %d, want %d", c.fifths, got, c.want)
		}
	}
}

// Pitch classes {0,4,7,10} in C major must classify as dominant-7th on
// C, not plain major — the classification order matters.
func TestAnalyzeDominantSeventhBeatsMajor(t *testing.T) {
	m := &model.Measure{Notes: []model.Note{
		note("C", 0, 4), note("E", 0, 4), note("G", 0, 4), note("B", -1, 4),
	}}
	root, quality := Analyze(m, 0, false, 0, "")
	if root != 0 {
		t.Errorf("root = %d, want 0", root)
	}
	if quality != model.QualityDominant7 {
		t.Errorf("quality = %q, want dominant7", quality)
	}
}

func TestAnalyzeDiatonicPriority(t *testing.T) {
	// {G, B, D} in C major: the tonic pitch class is absent, so the V
	// candidate (pc 7) wins before IV/vi/ii/iii are considered.
	m := &model.Measure{Notes: []model.Note{
		note("G", 0, 4), note("B", 0, 4), note("D", 0, 5),
	}}
	root, quality := Analyze(m, 0, false, 0, "")
	if root != 7 {
		t.Errorf("root = %d, want 7 (V)", root)
	}
	if quality != model.QualityMajor {
		t.Errorf("quality = %q, want major", quality)
	}
}

func TestAnalyzeMinorTriad(t *testing.T) {
	// {A, C, E} with key root A: the tonic candidate wins and the
	// intervals {3, 7} classify as minor.
	m := &model.Measure{Notes: []model.Note{
		note("A", 0, 4), note("C", 0, 5), note("E", 0, 5),
	}}
	root, quality := Analyze(m, 9, false, 0, "")
	if root != 9 || quality != model.QualityMinor {
		t.Errorf("got (%d, %q), want (9, minor)", root, quality)
	}
}

func TestAnalyzeDiminished(t *testing.T) {
	// {B, D, F} against a B root: intervals {3, 6}.
	m := &model.Measure{Notes: []model.Note{
		note("B", 0, 4), note("D", 0, 5), note("F", 0, 5),
	}}
	root, quality := Analyze(m, 11, false, 0, "")
	if root != 11 || quality != model.QualityDiminished {
		t.Errorf("got (%d, %q), want (11, diminished)", root, quality)
	}
}

func TestAnalyzeExplicitHarmonyWins(t *testing.T) {
	m := &model.Measure{
		Notes:     []model.Note{note("C", 0, 4)},
		Harmonies: []model.Harmony{{RootStep: "G", Quality: model.QualityMinor7}},
	}
	root, quality := Analyze(m, 0, false, 0, "")
	if root != 7 || quality != model.QualityMinor7 {
		t.Errorf("got (%d, %q), want (7, minor-seventh)", root, quality)
	}
}

func TestAnalyzeEmptyMeasureInheritsPrevious(t *testing.T) {
	m := &model.Measure{}
	root, quality := Analyze(m, 0, true, 5, model.QualityMinor)
	if root != 5 || quality != model.QualityMinor {
		t.Errorf("got (%d, %q), want inherited (5, minor)", root, quality)
	}
}

func TestVoiceClosePosition(t *testing.T) {
	v := Voice(0, model.QualityMajor, nil)
	want := []int{48, 52, 55, 59} // C3 E3 G3 + major seventh fill
	if len(v) != len(want) {
		t.Fatalf("voicing = %v, want %v", v, want)
	}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("voicing = %v, want %v", v, want)
		}
	}
}

func TestVoiceSmoothingPicksNearestRotation(t *testing.T) {
	prev := Voice(0, model.QualityMajor, nil) // around C3
	next := Voice(7, model.QualityDominant7, nil)
	smoothed := Voice(7, model.QualityDominant7, prev)

	cost := func(v []int) int {
		total := 0
		for i, n := range v {
			d := n - prev[i%len(prev)]
			if d < 0 {
				d = -d
			}
			total += d
		}
		return total
	}
	if cost(smoothed) > cost(next) {
		t.Errorf("smoothed cost %d exceeds root-position cost %d", cost(smoothed), cost(next))
	}
}

func TestBuildChordTrackEveryMeasureGetsChord(t *testing.T) {
	measures := make([]model.Measure, 4)
	measures[0].Attributes = &model.Attributes{
		Divisions: 4,
		Key:       &model.Key{Fifths: 0},
		Time:      &model.Time{Beats: 4, BeatType: 4},
	}
	measures[0].Notes = []model.Note{note("C", 0, 4), note("E", 0, 4), note("G", 0, 4)}
	measures[1].Notes = []model.Note{note("G", 0, 4), note("B", 0, 4), note("D", 0, 5)}
	// Measures 2 and 3 are empty: they inherit.
	part := &model.Part{Measures: measures}
	entries := unroll.Unroll(part)
	tm := timemap.Build(part, entries)

	chords := BuildChordTrack(part, tm)
	if len(chords) != len(tm) {
		t.Fatalf("chord count = %d, want %d", len(chords), len(tm))
	}
	if chords[0].RootPC != 0 {
		t.Errorf("first chord root = %d, want 0 (tonic from diatonic priority)", chords[0].RootPC)
	}
	if chords[1].RootPC != 7 {
		t.Errorf("second chord root = %d, want 7", chords[1].RootPC)
	}
	if chords[2].RootPC != chords[1].RootPC || chords[3].RootPC != chords[1].RootPC {
		t.Errorf("empty measures did not inherit: %v", chords[2:])
	}
	for i, c := range chords {
		if len(c.Voicing) == 0 {
			t.Errorf("chord %d has empty voicing", i)
		}
	}
}
