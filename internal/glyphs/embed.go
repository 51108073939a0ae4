// Package glyphs holds pre-digitized vector outlines for the symbols
// the renderer cannot derive from layout math — clefs and accidentals.
// These are opaque bulk data, embedded as string constants and emitted
// verbatim; the renderer never re-interprets path contents.
package glyphs

import _ "embed"

//go:embed treble.path
var TrebleClef string

//go:embed bass.path
var BassClef string

//go:embed alto.path
var AltoClef string

//go:embed sharp.path
var Sharp string

//go:embed flat.path
var Flat string

//go:embed natural.path
var Natural string

//go:embed doublesharp.path
var DoubleSharp string

//go:embed doubleflat.path
var DoubleFlat string
