package render

import (
	"strings"
	"testing"

	"github.com/notalib/scorelib/model"
)

func quarter(step string, octave int) model.Note {
	return model.Note{Step: step, Octave: octave, Duration: 4, Voice: 1, Type: model.NoteQuarter}
}

func testScore(measureCount int) *model.Score {
	measures := make([]model.Measure, measureCount)
	measures[0].Attributes = &model.Attributes{
		Divisions: 4,
		Time:      &model.Time{Beats: 4, BeatType: 4},
		Key:       &model.Key{Fifths: 1},
	}
	for i := range measures {
		measures[i].Notes = []model.Note{
			quarter("C", 4), quarter("D", 4), quarter("E", 4), quarter("F", 4),
		}
	}
	return &model.Score{
		Title:    "Render Test",
		Composer: "Nobody",
		Parts:    []model.Part{{ID: "P1", Name: "Melody", Measures: measures}},
	}
}

func TestRenderEmptyScoreSentinel(t *testing.T) {
	svg := Render(&model.Score{}, 0)
	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("sentinel is not SVG: %q", svg[:min(len(svg), 40)])
	}
	if !strings.Contains(svg, "empty score") {
		t.Errorf("sentinel missing message: %q", svg)
	}
}

func TestRenderDeterministic(t *testing.T) {
	score := testScore(8)
	a := Render(score, 0)
	b := Render(score, 0)
	if a != b {
		t.Error("two renders of the same score differ")
	}
}

func TestRenderBasicStructure(t *testing.T) {
	svg := Render(testScore(4), 0)
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Fatal("output is not a closed SVG document")
	}
	if !strings.Contains(svg, "Render Test") {
		t.Error("title missing from header")
	}
	if !strings.Contains(svg, "Nobody") {
		t.Error("composer missing from header")
	}
	if !strings.Contains(svg, "<ellipse") {
		t.Error("no noteheads drawn")
	}
	if !strings.Contains(svg, "<line") {
		t.Error("no staff lines drawn")
	}
	if !strings.Contains(svg, `viewBox="0 0 820`) {
		t.Error("viewbox does not start at the default page width")
	}
}

func TestRenderNarrowPageSameContent(t *testing.T) {
	score := testScore(8)
	wide := Render(score, 820)
	narrow := Render(score, 390)
	if wide == narrow {
		t.Error("narrow render identical to wide")
	}
	if c1, c2 := strings.Count(wide, "<ellipse"), strings.Count(narrow, "<ellipse"); c1 != c2 {
		t.Errorf("notehead count differs across widths: %d vs %d", c1, c2)
	}
}

func TestRenderKeyChangeCancellationCount(t *testing.T) {
	cases := []struct {
		old, new, want int
	}{
		{3, 1, 2},
		{-2, 1, 2},
		{0, 4, 0},
		{2, -1, 2},
	}
	for _, c := range cases {
		if got := cancelCount(c.old, c.new); got != c.want {
			t.Errorf("cancelCount(%d, %d) = %d, want %d", c.old, c.new, got, c.want)
		}
	}
}

func TestRenderHarmonySymbols(t *testing.T) {
	score := testScore(2)
	score.Parts[0].Measures[0].Harmonies = []model.Harmony{
		{RootStep: "G", Quality: model.QualityDominant7},
		{RootStep: "C", RootAlter: 1, Quality: model.QualityMinor7, HasBass: true, BassStep: "E"},
	}
	svg := Render(score, 0)
	if !strings.Contains(svg, "G7") {
		t.Error("G7 chord symbol missing")
	}
	if !strings.Contains(svg, "C#m7/E") {
		t.Error("slash chord symbol missing")
	}
}

func TestHarmonyLabel(t *testing.T) {
	cases := []struct {
		h    model.Harmony
		want string
	}{
		{model.Harmony{RootStep: "C", Quality: model.QualityMajor}, "C"},
		{model.Harmony{RootStep: "A", Quality: model.QualityMinor}, "Am"},
		{model.Harmony{RootStep: "B", RootAlter: -1, Quality: model.QualityDominant7}, "Bb7"},
		{model.Harmony{RootStep: "D", Quality: model.QualityHalfDim}, "Dm7b5"},
		{model.Harmony{RootStep: "F", Quality: model.QualityMajor7, HasBass: true, BassStep: "A"}, "Fmaj7/A"},
	}
	for _, c := range cases {
		if got := harmonyLabel(&c.h); got != c.want {
			t.Errorf("harmonyLabel(%+v) = %q, want %q", c.h, got, c.want)
		}
	}
}

func TestRenderLyricsAndSlurs(t *testing.T) {
	score := testScore(2)
	notes := score.Parts[0].Measures[0].Notes
	notes[0].Lyrics = []model.Lyric{{Verse: 1, Text: "la", Syllabic: model.SyllableBegin}}
	notes[0].Slurs = []model.SlurEvent{{Number: 1, Type: "start"}}
	notes[2].Slurs = []model.SlurEvent{{Number: 1, Type: "stop"}}
	svg := Render(score, 0)
	if !strings.Contains(svg, "la-") {
		t.Error("hyphenated lyric missing")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("no slur path drawn")
	}
}

func TestPitchToStaffY(t *testing.T) {
	treble := model.Clef{Sign: "G", Line: 2}
	staffY := 100.0
	// G4 sits on the second line from the bottom: staffY + 3 spaces.
	g4 := &model.Note{Step: "G", Octave: 4}
	if y := pitchToStaffY(g4, treble, true, 0, staffY); y != 130 {
		t.Errorf("G4 y = %f, want 130", y)
	}
	// B4 on the middle line.
	b4 := &model.Note{Step: "B", Octave: 4}
	if y := pitchToStaffY(b4, treble, true, 0, staffY); y != 120 {
		t.Errorf("B4 y = %f, want 120", y)
	}
	// An octave-shift transposition moves the drawn position.
	if y := pitchToStaffY(g4, treble, true, 1, staffY); y != 95 {
		t.Errorf("G5 (shifted) y = %f, want 95", y)
	}
	// F3 in bass clef sits on the second line from the top.
	bass := model.Clef{Sign: "F", Line: 4}
	f3 := &model.Note{Step: "F", Octave: 3}
	if y := pitchToStaffY(f3, bass, true, 0, staffY); y != 110 {
		t.Errorf("F3 y = %f, want 110", y)
	}
}

func TestFlagCountAndStemExtension(t *testing.T) {
	if flagCount(model.NoteEighth) != 1 || flagCount(model.Note64th) != 4 {
		t.Error("flag counts wrong")
	}
	if flagCount(model.NoteQuarter) != 0 {
		t.Error("quarter has flags")
	}
	wants := map[int]float64{0: 0, 1: 0, 2: 4, 3: 9, 4: 13}
	for flags, want := range wants {
		if got := stemExtension(flags); got != want {
			t.Errorf("stemExtension(%d) = %f, want %f", flags, got, want)
		}
	}
}
