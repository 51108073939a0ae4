package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notalib/scorelib/model"
)

// drawDirections draws every direction attached to a measure at its
// beat-mapped x (approximated here as the measure's start x, MusicXML
// directions not carrying their own onset in this model), above or below
// the top/bottom staff per d.Placement.
func drawDirections(b *builder, dirs []model.Direction, x, aboveY, belowY float64) {
	for _, d := range dirs {
		y := aboveY
		if d.Placement == model.PlacementBelow {
			y = belowY
		}
		switch {
		case d.Metronome != nil:
			drawMetronomeMark(b, d.Metronome, x, y)
		case d.Segno:
			b.text(x, y, "%", 18, "normal", colorHeader, "start") // segno stand-in glyph
			b.text(x, y, "Segno", 10, "italic", colorHeader, "start")
		case d.Coda:
			b.circle(x+5, y-5, 6, "none")
			b.text(x, y, "To Coda", 10, "italic", colorHeader, "start")
		case d.DaCapo:
			b.text(x, y, "D.C.", 11, "italic", colorHeader, "start")
		case d.DalSegno:
			b.text(x, y, "D.S.", 11, "italic", colorHeader, "start")
		case d.Fine:
			b.text(x, y, "Fine", 11, "italic", colorHeader, "start")
		case d.ToCoda:
			b.text(x, y, "To Coda", 11, "italic", colorHeader, "start")
		case d.Rehearsal != "":
			b.rect(x-2, y-14, 18, 16, "none")
			b.text(x+7, y, d.Rehearsal, 12, "bold", colorHeader, "middle")
		case d.Words != "":
			weight := "normal"
			if strings.Contains(strings.ToLower(d.WordsStyle), "bold") {
				weight = "bold"
			}
			b.text(x, y, d.Words, 11, weight, colorHeader, "start")
		}
	}
}

// drawMetronomeMark renders a note-duration symbol, "=", and BPM.
func drawMetronomeMark(b *builder, mm *model.Metronome, x, y float64) {
	label := noteUnitSymbol(mm.BeatUnit)
	if mm.Dotted {
		label += "."
	}
	bpm := strconv.FormatFloat(mm.PerMinute, 'f', -1, 64)
	b.text(x, y, fmt.Sprintf("%s = %s", label, bpm), 11, "normal", colorHeader, "start")
}

func noteUnitSymbol(t model.NoteType) string {
	switch t {
	case model.NoteWhole:
		return "𝅝"
	case model.NoteHalf:
		return "𝅗𝅥"
	case model.NoteEighth:
		return "♪"
	case model.Note16th:
		return "𝅘𝅥𝅯"
	default:
		return "♩"
	}
}
