package render

import "github.com/notalib/scorelib/model"

// drawBeams groups consecutive beamed notes in notes (as produced by
// renderNotesInMeasure, already in score order) and connects them with
// primary (and, where flag counts agree, secondary) beam bars, clamping
// slope and rigidly shifting the beam line to keep every stem at its
// minimum length.
func drawBeams(b *builder, notes []noteRender) {
	i := 0
	for i < len(notes) {
		if !notes[i].beamed {
			i++
			continue
		}
		start := i
		for i < len(notes) && notes[i].beamed {
			i++
		}
		group := notes[start:i]
		if len(group) < 2 {
			// A lone beamed note (orphaned group boundary) falls back to a
			// plain flag so it still reads as its notated duration.
			drawOrphanFlag(b, group)
			continue
		}
		drawBeamGroup(b, group)
	}
}

func drawOrphanFlag(b *builder, group []noteRender) {
	for _, nr := range group {
		sx := nr.x + noteheadRX
		if !nr.stemUp {
			sx = nr.x - noteheadRX
		}
		b.line(sx, nr.headY, sx, nr.stemEndY, colorNote, stemWidth)
		drawFlag(b, sx, nr.stemEndY, nr.stemUp, nr.flags)
	}
}

// drawBeamGroup draws stems clamped to a single slope line and the
// primary beam bar, plus shorter secondary bars for notes whose flag
// count exceeds the group's minimum.
func drawBeamGroup(b *builder, group []noteRender) {
	// Group direction: the first note's explicit stem wins, else the
	// average head position decides.
	var stemUp bool
	switch group[0].note.Stem {
	case model.StemUp:
		stemUp = true
	case model.StemDown:
		stemUp = false
	default:
		// Average pitch position: per-note stemUp was derived from head
		// position against the middle line, so the majority vote is the
		// average-position decision.
		up := 0
		for _, nr := range group {
			if nr.stemUp {
				up++
			}
		}
		stemUp = up*2 >= len(group)
	}

	x0, x1 := group[0].x, group[len(group)-1].x
	y0, y1 := group[0].stemEndY, group[len(group)-1].stemEndY
	if x1 == x0 {
		x1 = x0 + 1
	}
	slope := (y1 - y0) / (x1 - x0)
	if slope > beamSlopeClamp {
		slope = beamSlopeClamp
	} else if slope < -beamSlopeClamp {
		slope = -beamSlopeClamp
	}
	// Rigid shift: if any stem on the clamped line would be shorter than
	// the minimum, move the whole line away from the noteheads by the
	// largest deficit so every stem still meets the beam at its endpoint.
	shift := 0.0
	for _, nr := range group {
		y := y0 + slope*(nr.x-x0)
		length := nr.headY - y
		if !stemUp {
			length = y - nr.headY
		}
		if d := minStemClear - length; d > shift {
			shift = d
		}
	}
	if stemUp {
		y0 -= shift
	} else {
		y0 += shift
	}
	beamYAt := func(x float64) float64 { return y0 + slope*(x-x0) }

	for _, nr := range group {
		sx := nr.x + noteheadRX
		if !stemUp {
			sx = nr.x - noteheadRX
		}
		b.line(sx, nr.headY, sx, beamYAt(nr.x), colorNote, stemWidth)
	}

	dir := 1.0
	if !stemUp {
		dir = -1.0
	}
	for level := 0; level < maxFlags(group); level++ {
		y := func(x float64) float64 { return beamYAt(x) + dir*float64(level)*(beamThickness+3) }
		drawLevelBeam(b, group, level, stemUp, y)
	}
}

func maxFlags(group []noteRender) int {
	m := 0
	for _, nr := range group {
		if nr.flags > m {
			m = nr.flags
		}
	}
	return m
}

// drawLevelBeam draws one beam level's bar(s), which may be broken into
// sub-segments when not every note in the group reaches that flag count.
func drawLevelBeam(b *builder, group []noteRender, level int, stemUp bool, beamY func(float64) float64) {
	segStart := -1
	flush := func(endIdx int) {
		if segStart < 0 {
			return
		}
		x1 := group[segStart].x + noteheadRX
		x2 := group[endIdx].x + noteheadRX
		if !stemUp {
			x1 = group[segStart].x - noteheadRX
			x2 = group[endIdx].x - noteheadRX
		}
		b.beamLine(x1, beamY(group[segStart].x), x2, beamY(group[endIdx].x), beamThickness)
		segStart = -1
	}
	for i, nr := range group {
		if nr.flags > level {
			if segStart < 0 {
				segStart = i
			}
		} else {
			flush(i - 1)
		}
	}
	flush(len(group) - 1)
}
