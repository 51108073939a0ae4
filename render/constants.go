// Package render emits drawing primitives from a layout.ScoreLayout and
// the originating model.Score: staves, clefs, key/time signatures,
// noteheads, stems, beams, flags, rests, slurs, barlines, directions,
// harmonies, and lyrics, assembled into a single hierarchical SVG
// document. Stroke widths and dimensions are compile-time constants; the
// fixed color palette is resolved to hex strings once at package init.
package render

import "github.com/lucasb-eyer/go-colorful"

// Dimensions, in SVG user-units.
const (
	marginLeft      = 40.0
	marginRight     = 40.0
	marginTop       = 30.0
	headerHeight    = 70.0
	staffLineSpace  = 10.0
	staffHeightPx   = 40.0
	brandWidth      = 10.0
	clefSpace       = 32.0
	keySigSharpW    = 10.0
	keySigFlatW     = 8.0
	timeSigSpace    = 24.0
	noteheadRX      = 5.5
	noteheadRY      = 4.0
	stemLength      = 30.0
	stemWidth       = 1.2
	beamThickness   = 4.0
	barlineWidth    = 1.0
	staffLineWidth  = 0.8
	ledgerLineWidth = 0.8
	ledgerExtend    = 5.0
	chordSymbolDY   = -18.0
	minStemClear    = 18.0
	beamSlopeClamp  = 0.5
)

// resolveHex resolves a colorful.Color (built once at init from a named
// constant) to its #rrggbb string — the renderer's constant stroke/fill
// palette expressed as colorful.Color values rather than bare string
// literals.
func resolveHex(c colorful.Color) string { return c.Hex() }

var (
	colorNote    = mustHex("#1a1a1a")
	colorStaff   = mustHex("#555555")
	colorBarline = mustHex("#333333")
	colorChord   = mustHex("#4a4a9a")
	colorHeader  = mustHex("#1a1a1a")
	colorRest    = mustHex("#1a1a1a")
	colorSlur    = mustHex("#1a1a1a")
	colorLyric   = mustHex("#1a1a1a")
)

func mustHex(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return resolveHex(c)
}
