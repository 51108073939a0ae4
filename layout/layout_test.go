package layout

import (
	"testing"

	"github.com/notalib/scorelib/model"
)

func quarter(step string, octave, voice int) model.Note {
	return model.Note{Step: step, Octave: octave, Duration: 4, Voice: voice, Type: model.NoteQuarter}
}

func scoreWithMeasures(n int) *model.Score {
	measures := make([]model.Measure, n)
	measures[0].Attributes = &model.Attributes{
		Divisions: 4,
		Time:      &model.Time{Beats: 4, BeatType: 4},
		Key:       &model.Key{Fifths: 0},
	}
	for i := range measures {
		measures[i].Notes = []model.Note{
			quarter("C", 4, 1), quarter("D", 4, 1), quarter("E", 4, 1), quarter("F", 4, 1),
		}
	}
	return &model.Score{Parts: []model.Part{{ID: "P1", Measures: measures}}}
}

func TestComputeEmptyScoreSentinel(t *testing.T) {
	sl := Compute(&model.Score{}, 0)
	if sl.PageWidth != DefaultPageWidth {
		t.Errorf("page width = %f, want %d", sl.PageWidth, DefaultPageWidth)
	}
	if len(sl.Measures) != 0 || len(sl.Systems) != 1 {
		t.Errorf("sentinel layout = %d measures %d systems, want 0/1", len(sl.Measures), len(sl.Systems))
	}
}

func TestComputeEveryMeasurePlaced(t *testing.T) {
	score := scoreWithMeasures(12)
	sl := Compute(score, 0)
	if len(sl.Measures) != 12 {
		t.Fatalf("measure count = %d, want 12", len(sl.Measures))
	}
	for i, m := range sl.Measures {
		if m.OriginalIndex != i {
			t.Errorf("measure %d has original index %d", i, m.OriginalIndex)
		}
		if m.Width <= 0 {
			t.Errorf("measure %d has width %f", i, m.Width)
		}
		if m.SystemIndex < 0 || m.SystemIndex >= len(sl.Systems) {
			t.Errorf("measure %d references system %d of %d", i, m.SystemIndex, len(sl.Systems))
		}
	}
}

// A narrower page must produce strictly more systems for the same
// measure count, leaving the measure count itself unchanged.
func TestComputeNarrowPageMoreSystems(t *testing.T) {
	score := scoreWithMeasures(12)
	wide := Compute(score, 820)
	narrow := Compute(score, 390)

	if len(narrow.Measures) != len(wide.Measures) {
		t.Errorf("measure counts differ: %d vs %d", len(narrow.Measures), len(wide.Measures))
	}
	if len(narrow.Systems) <= len(wide.Systems) {
		t.Errorf("narrow page has %d systems, wide has %d; want strictly more",
			len(narrow.Systems), len(wide.Systems))
	}
}

func TestSystemsFillAvailableWidth(t *testing.T) {
	score := scoreWithMeasures(8)
	sl := Compute(score, 820)
	// Measures in one system are contiguous and the last ends at the
	// right margin.
	for si := range sl.Systems {
		var last *MeasureLayout
		for i := range sl.Measures {
			m := &sl.Measures[i]
			if m.SystemIndex != si {
				continue
			}
			if last != nil {
				joint := last.X + last.Width
				if absf(joint-m.X) > 0.01 {
					t.Errorf("gap between measures at x=%f vs %f", joint, m.X)
				}
			}
			last = m
		}
		if last != nil {
			right := last.X + last.Width
			want := 820.0 - marginRight
			if absf(right-want) > 0.5 {
				t.Errorf("system %d ends at %f, want %f", si, right, want)
			}
		}
	}
}

func TestBeatXMapStrictlyIncreasing(t *testing.T) {
	score := scoreWithMeasures(4)
	// Second part with a different rhythm: half notes against quarters.
	part2 := model.Part{ID: "P2", Measures: make([]model.Measure, 4)}
	part2.Measures[0].Attributes = &model.Attributes{
		Divisions: 4,
		Time:      &model.Time{Beats: 4, BeatType: 4},
	}
	for i := range part2.Measures {
		part2.Measures[i].Notes = []model.Note{
			{Step: "C", Octave: 3, Duration: 8, Voice: 1, Type: model.NoteHalf},
			{Step: "G", Octave: 3, Duration: 8, Voice: 1, Type: model.NoteHalf},
		}
	}
	score.Parts = append(score.Parts, part2)

	sl := Compute(score, 0)
	for _, m := range sl.Measures {
		if len(m.BeatXMap) == 0 {
			t.Fatalf("measure %d has empty beat map", m.OriginalIndex)
		}
		seen := map[float64]bool{}
		for i := 1; i < len(m.BeatXMap); i++ {
			if m.BeatXMap[i].X <= m.BeatXMap[i-1].X {
				t.Errorf("measure %d beat map not strictly increasing at %d", m.OriginalIndex, i)
			}
			if m.BeatXMap[i].Beat <= m.BeatXMap[i-1].Beat {
				t.Errorf("measure %d beat times not increasing at %d", m.OriginalIndex, i)
			}
		}
		for _, bx := range m.BeatXMap {
			if seen[bx.Beat] {
				t.Errorf("duplicate beat %f in measure %d", bx.Beat, m.OriginalIndex)
			}
			seen[bx.Beat] = true
		}
		// Quarters at 0,1,2,3 union halves at 0,2: four unique beats.
		if len(m.BeatXMap) != 4 {
			t.Errorf("measure %d beat count = %d, want 4", m.OriginalIndex, len(m.BeatXMap))
		}
	}
}

// Any note at a given beat-time across any part lands at the same x.
func TestBeatXMapCrossPartAlignment(t *testing.T) {
	score := scoreWithMeasures(2)
	part2 := model.Part{ID: "P2", Measures: make([]model.Measure, 2)}
	part2.Measures[0].Attributes = &model.Attributes{
		Divisions: 8, // different divisions, same musical positions
		Time:      &model.Time{Beats: 4, BeatType: 4},
	}
	for i := range part2.Measures {
		part2.Measures[i].Notes = []model.Note{
			{Step: "C", Octave: 3, Duration: 8, Voice: 1, Type: model.NoteQuarter},
			{Step: "D", Octave: 3, Duration: 8, Voice: 1, Type: model.NoteQuarter},
			{Step: "E", Octave: 3, Duration: 8, Voice: 1, Type: model.NoteQuarter},
			{Step: "F", Octave: 3, Duration: 8, Voice: 1, Type: model.NoteQuarter},
		}
	}
	score.Parts = append(score.Parts, part2)

	sl := Compute(score, 0)
	for _, m := range sl.Measures {
		if len(m.BeatXMap) != 4 {
			t.Errorf("measure %d beat count = %d, want 4 (identical positions dedupe)",
				m.OriginalIndex, len(m.BeatXMap))
		}
	}
}

func TestCancellationNaturalCount(t *testing.T) {
	cases := []struct {
		old, new, want int
	}{
		{0, 3, 0},   // from C: nothing to cancel
		{3, 1, 2},   // sharps shrinking
		{1, 3, 0},   // sharps growing
		{-4, -2, 2}, // flats shrinking
		{3, -2, 3},  // crossing the boundary cancels all
		{-3, 2, 3},
		{2, 0, 2}, // to C cancels all of the old side
	}
	for _, c := range cases {
		if got := cancellationNaturalCount(c.old, c.new); got != c.want {
			t.Errorf("cancellationNaturalCount(%d, %d) = %d, want %d", c.old, c.new, got, c.want)
		}
	}
}

func TestLyricsElongateMeasure(t *testing.T) {
	plain := scoreWithMeasures(1)
	withLyrics := scoreWithMeasures(1)
	for i := range withLyrics.Parts[0].Measures[0].Notes {
		withLyrics.Parts[0].Measures[0].Notes[i].Lyrics = []model.Lyric{
			{Verse: 1, Text: "everlasting", Syllabic: model.SyllableSingle},
		}
	}
	plainW := computeMinWidths(plain, 1)[0]
	lyricW := computeMinWidths(withLyrics, 1)[0]
	if lyricW <= plainW {
		t.Errorf("lyric measure width %f not above plain %f", lyricW, plainW)
	}
	// Elongation is capped at 2.5x the beat-based width.
	if max := plainW * maxElongation; lyricW > max {
		t.Errorf("lyric measure width %f exceeds cap %f", lyricW, max)
	}
}

func TestPickupHalvesInitialVerticalBudget(t *testing.T) {
	plain := scoreWithMeasures(4)
	pickup := scoreWithMeasures(4)
	pickup.Parts[0].Measures[0].Implicit = true

	plainY := Compute(plain, 0).Systems[0].Y
	pickupY := Compute(pickup, 0).Systems[0].Y
	if pickupY <= plainY {
		t.Errorf("pickup first-system y = %f, want above plain %f", pickupY, plainY)
	}
}

func TestGraceNotesOffsetLeft(t *testing.T) {
	m := &model.Measure{Notes: []model.Note{
		{Step: "B", Octave: 3, Voice: 1, Grace: true, Type: model.NoteEighth},
		{Step: "A", Octave: 3, Voice: 1, Grace: true, Type: model.NoteEighth},
		{Step: "C", Octave: 4, Duration: 4, Voice: 1, Type: model.NoteQuarter},
	}}
	bx := []BeatX{{Beat: 0, X: 100}, {Beat: 1, X: 160}}
	pos := NotePositions(m, 4, bx)
	if pos[2] != 100 {
		t.Errorf("principal x = %f, want 100", pos[2])
	}
	if pos[0] != 100-GraceOffset(2, 0) || pos[1] != 100-GraceOffset(2, 1) {
		t.Errorf("grace positions = %v, want staggered left of 100", pos[:2])
	}
	if !(pos[0] < pos[1] && pos[1] < pos[2]) {
		t.Errorf("grace run not ordered: %v", pos)
	}
}
