package render

import (
	"github.com/notalib/scorelib/internal/glyphs"
	"github.com/notalib/scorelib/model"
)

// drawStaffLines draws the five lines of one staff starting at x with
// the given width, top line at staffY.
func drawStaffLines(b *builder, x, width, staffY float64) {
	for i := 0; i < 5; i++ {
		y := staffY + float64(i)*staffLineSpace
		b.line(x, y, x+width, y, colorStaff, staffLineWidth)
	}
}

// drawClef emits the clef glyph at the system start, using the
// pre-digitized outline matching the clef's sign.
func drawClef(b *builder, clef model.Clef, x, staffY float64) {
	switch clef.Sign {
	case "F":
		const scale = 0.06
		b.glyphPath(glyphs.BassClef, x-176.0*scale-2.0, staffY+1*staffLineSpace+169.0*scale-40, scale)
	case "C":
		b.glyphPath(glyphs.AltoClef, x, staffY+2*staffLineSpace, 1.0)
	default:
		const scale = 0.243
		b.glyphPath(glyphs.TrebleClef, x-138.0*scale, staffY+4*staffLineSpace-148.0*scale-4, scale)
	}
}

// sharpLines/flatLines are the staff-line positions (0 = top line) a key
// signature's sharps/flats occupy, in standard treble-staff engraving
// order: sharps F# C# G# D# A# E# B#, flats Bb Eb Ab Db Gb Cb Fb, each
// as a half-line offset from the top line (positive = downward).
var sharpLines = []int{0, 3, -1, 2, 5, 1, 4}
var flatLines = []int{4, 1, 5, 2, 6, 3, 7}

// drawKeySignature draws fifths accidental glyphs after x, returning the
// width consumed.
func drawKeySignature(b *builder, fifths int, x, staffY float64) float64 {
	if fifths == 0 {
		return 0
	}
	glyph := glyphs.Sharp
	lines := sharpLines
	step := keySigSharpW
	if fifths < 0 {
		glyph = glyphs.Flat
		lines = flatLines
		step = keySigFlatW
	}
	n := fifths
	if n < 0 {
		n = -n
	}
	cx := x
	for i := 0; i < n && i < len(lines); i++ {
		y := staffY + float64(lines[i])*(staffLineSpace/2)
		b.glyphPath(glyph, cx, y, 0.9)
		cx += step
	}
	return float64(n) * step
}

// drawCancellationNaturals draws count natural signs at the previous
// key's accidental positions.
func drawCancellationNaturals(b *builder, oldFifths, count int, x, staffY float64) float64 {
	if count <= 0 {
		return 0
	}
	lines := sharpLines
	if oldFifths < 0 {
		lines = flatLines
	}
	cx := x
	for i := 0; i < count && i < len(lines); i++ {
		y := staffY + float64(lines[i])*(staffLineSpace/2)
		b.glyphPath(glyphs.Natural, cx, y, 0.9)
		cx += keySigFlatW
	}
	return float64(count) * keySigFlatW
}

// drawTimeSignature draws a stacked numerator/denominator at x.
func drawTimeSignature(b *builder, beats, beatType int, x, staffY float64) {
	b.text(x, staffY+staffLineSpace*1.5, itoaSmall(beats), 16, "bold", colorNote, "middle")
	b.text(x, staffY+staffLineSpace*3.5, itoaSmall(beatType), 16, "bold", colorNote, "middle")
}

func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// drawBrace draws a grand-staff-style bracing bar spanning a part's
// staves; a straight bar rather than a curved brace glyph, for which no
// outline is embedded.
func drawBrace(b *builder, x, yTop, yBottom float64) {
	b.line(x, yTop, x, yBottom, colorBarline, 3)
}
