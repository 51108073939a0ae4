package render

import (
	"fmt"

	"github.com/notalib/scorelib/internal/glyphs"
	"github.com/notalib/scorelib/layout"
	"github.com/notalib/scorelib/model"
)

// drawRest draws a simple rest glyph: a filled bar 6 units wide at the
// staff's middle line. Types differ only in height and placement: a whole
// rest sits just above the middle line, a half rest just below it, and
// every other type is a 4-unit bar centered on it.
func drawRest(b *builder, x, staffY float64, t model.NoteType) {
	midY := staffY + 2*staffLineSpace
	w := 6.0
	switch t {
	case model.NoteWhole:
		b.rect(x-w/2, midY-staffLineSpace/2, w, staffLineSpace/2, colorRest)
	case model.NoteHalf:
		b.rect(x-w/2, midY, w, staffLineSpace/2, colorRest)
	default:
		b.rect(x-w/2, midY-2, w, 4, colorRest)
	}
}

// drawLedgerLines draws ledger lines between the staff and a notehead at
// y, above (y < staffY) or below (y > staffY+4*staffLineSpace) the staff.
func drawLedgerLines(b *builder, x, staffY, y float64) {
	top := staffY
	bottom := staffY + 4*staffLineSpace
	if y < top-staffLineSpace/2 {
		for ly := top - staffLineSpace; ly >= y-staffLineSpace/2; ly -= staffLineSpace {
			b.line(x-ledgerExtend, ly, x+ledgerExtend, ly, colorStaff, ledgerLineWidth)
		}
	} else if y > bottom+staffLineSpace/2 {
		for ly := bottom + staffLineSpace; ly <= y+staffLineSpace/2; ly += staffLineSpace {
			b.line(x-ledgerExtend, ly, x+ledgerExtend, ly, colorStaff, ledgerLineWidth)
		}
	}
}

// noteRender is the computed placement of one note/chord-member/rest,
// carried forward so beams and slurs can reference the stem endpoint
// without recomputing pitch-to-y.
type noteRender struct {
	note     *model.Note
	x        float64
	headY    float64
	stemUp   bool
	stemEndY float64
	hasStem  bool
	flags    int
	beamed   bool
}

// renderNotesInMeasure draws every note/rest on one staff of one part's
// measure and returns their placements for beam/slur post-processing.
func renderNotesInMeasure(b *builder, score *model.Score, partIdx, staff, measureIdx int, ml layout.MeasureLayout, staffY float64, transposeOctave int) []noteRender {
	part := &score.Parts[partIdx]
	if measureIdx >= len(part.Measures) {
		return nil
	}
	m := &part.Measures[measureIdx]
	divisions := 1
	for i := measureIdx; i >= 0; i-- {
		if i < len(part.Measures) && part.Measures[i].Attributes != nil && part.Measures[i].Attributes.Divisions > 0 {
			divisions = part.Measures[i].Attributes.Divisions
			break
		}
	}
	positions := layout.NotePositions(m, divisions, ml.BeatXMap)
	clef, hasClef := clefForStaff(part, measureIdx, staff)

	// A rest that is the only note on this staff in the measure centers on
	// the measure regardless of the beat-x lookup; the model carries no
	// separate measure-rest flag.
	staffNoteCount := 0
	for i := range m.Notes {
		if m.Notes[i].EffectiveStaff() == staff {
			staffNoteCount++
		}
	}

	var out []noteRender
	for i := range m.Notes {
		n := &m.Notes[i]
		if n.EffectiveStaff() != staff {
			continue
		}
		x := positions[i]
		if n.Rest {
			if staffNoteCount == 1 {
				x = ml.X + ml.Width/2
			}
			drawRest(b, x, staffY, n.Type)
			continue
		}
		y := pitchToStaffY(n, clef, hasClef, transposeOctave, staffY)
		drawLedgerLines(b, x, staffY, y)
		filled := isFilledNotehead(n.Type)
		b.notehead(x, y, filled)
		if n.Accidental != "" {
			drawAccidental(b, x-noteheadRX*2.2, y, n.Accidental)
		}

		flags := flagCount(n.Type)
		beamed := len(n.Beams) > 0
		nr := noteRender{note: n, x: x, headY: y, flags: flags, beamed: beamed}
		if n.Type != model.NoteWhole {
			stemUp := y >= staffY+2*staffLineSpace
			switch n.Stem {
			case model.StemUp:
				stemUp = true
			case model.StemDown:
				stemUp = false
			}
			nr.stemUp = stemUp
			length := stemLength + stemExtension(flags)
			if stemUp {
				nr.stemEndY = y - length
			} else {
				nr.stemEndY = y + length
			}
			sx := x + noteheadRX
			if !stemUp {
				sx = x - noteheadRX
			}
			if !beamed {
				b.line(sx, y, sx, nr.stemEndY, colorNote, stemWidth)
				drawFlag(b, sx, nr.stemEndY, stemUp, flags)
			}
			nr.hasStem = true
		}
		out = append(out, nr)
	}
	return out
}

// drawFlag draws a simple curved-flag mark per flag; only the clef and
// accidental shapes carry embedded outlines.
func drawFlag(b *builder, x, y float64, up bool, flags int) {
	dir := 1.0
	if up {
		dir = -1.0
	}
	for i := 0; i < flags; i++ {
		fy := y + dir*float64(i)*5
		d := fmt.Sprintf("M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f", x, fy, x+6, fy+dir*6, x+1, fy+dir*10)
		b.path(d, "none", colorNote, 1.4)
	}
}

// drawAccidental emits the glyph matching n.Accidental ("sharp", "flat",
// "natural", "double-sharp", "flat-flat" in MusicXML vocabulary).
func drawAccidental(b *builder, x, y float64, accidental string) {
	switch accidental {
	case "sharp":
		b.glyphPath(glyphs.Sharp, x, y, 0.9)
	case "flat":
		b.glyphPath(glyphs.Flat, x, y, 0.9)
	case "natural":
		b.glyphPath(glyphs.Natural, x, y, 0.9)
	case "double-sharp":
		b.glyphPath(glyphs.DoubleSharp, x, y, 0.9)
	case "flat-flat":
		b.glyphPath(glyphs.DoubleFlat, x, y, 0.9)
	}
}
