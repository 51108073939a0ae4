package render

import (
	"github.com/notalib/scorelib/layout"
	"github.com/notalib/scorelib/model"
)

// lyricBaselineGap is the vertical distance from the bottom staff line to
// the first verse's baseline.
const lyricBaselineGap = 24.0

// drawLyrics draws every verse's syllables under the bottom staff of a
// part (lyrics render only on the lowest staff of a part that carries
// them), hyphenating after "begin"/"middle" syllables.
func drawLyrics(b *builder, m *model.Measure, divisions int, beatXMap []layout.BeatX, bottomStaffY float64) {
	positions := layout.NotePositions(m, divisions, beatXMap)
	for i := range m.Notes {
		n := &m.Notes[i]
		if n.Rest || len(n.Lyrics) == 0 {
			continue
		}
		x := positions[i]
		for _, ly := range n.Lyrics {
			y := bottomStaffY + 4*staffLineSpace + lyricBaselineGap + float64(ly.Verse-1)*lyricsPerVerseGap
			text := ly.Text
			if ly.Syllabic == model.SyllableBegin || ly.Syllabic == model.SyllableMiddle {
				text += "-"
			}
			b.text(x, y, text, 11, "normal", colorLyric, "middle")
		}
	}
}

const lyricsPerVerseGap = 16.0
