package render

import (
	"github.com/notalib/scorelib/layout"
	"github.com/notalib/scorelib/model"
)

// Render draws score at pageWidth (layout.DefaultPageWidth if <= 0)
// into a single SVG document: for each system, staff lines/clef/key/time
// signature/brace, then per measure and staff harmonies and directions
// (on each part's top staff), notes, beams, slurs, lyrics (on each part's
// bottom staff), and finally the right barline. An empty score yields a
// sentinel drawing.
func Render(score *model.Score, pageWidth float64) string {
	if score.IsEmpty() {
		return emptyDoc("empty score")
	}
	sl := layout.Compute(score, pageWidth)
	if len(sl.Measures) == 0 {
		return emptyDoc("no measures")
	}

	height := sl.TotalHeight + headerHeight + marginTop
	b := newBuilder(sl.PageWidth, height)
	drawHeader(b, score, sl.PageWidth)

	type staffKey struct{ part, staff int }
	slurs := map[staffKey]*slurTracker{}
	octShift := make([]int, len(score.Parts))

	for si, sys := range sl.Systems {
		var staves []systemStaff
		bottomOfSystem := sys.Y + headerHeight + marginTop
		for pi := range score.Parts {
			n := layout.PartStaffCount(&score.Parts[pi])
			for st := 0; st < n; st++ {
				y := layout.StaffTopY(score, bottomOfSystem, pi, st)
				staves = append(staves, systemStaff{partIdx: pi, staff: st + 1, topY: y})
				bottom := y + 4*staffLineSpace
				if bottom > bottomOfSystem {
					bottomOfSystem = bottom
				}
			}
		}

		measureIndices := systemMeasures(sl, si)
		if len(measureIndices) == 0 {
			continue
		}
		firstIdx := measureIndices[0]

		for _, sy := range staves {
			part := &score.Parts[sy.partIdx]
			width := systemWidth(sl, measureIndices)
			x0 := sl.Measures[firstIdx].X
			drawStaffLines(b, x0, width, sy.topY)
			clef, _ := clefForStaff(part, firstIdx, sy.staff)
			drawClef(b, clef, x0-clefSpace, sy.topY)

			fifths, prevFifths := keyAt(part, firstIdx)
			cx := x0 - clefSpace + 20
			cx += drawCancellationNaturals(b, prevFifths, cancelCount(prevFifths, fifths), cx, sy.topY)
			cx += drawKeySignature(b, fifths, cx, sy.topY)
			if firstIdx == 0 || measureHasTimeChange(score, firstIdx) {
				beats, beatType := timeAt(part, firstIdx)
				drawTimeSignature(b, beats, beatType, cx+6, sy.topY)
			}
		}

		drawBraces(b, score, staves)

		for _, idx := range measureIndices {
			ml := sl.Measures[idx]
			for _, sy := range staves {
				part := &score.Parts[sy.partIdx]
				if idx >= len(part.Measures) {
					continue
				}
				m := &part.Measures[idx]

				isTop := sy.staff == 1 && firstStaffOfPart(staves, sy.partIdx) == sy.staff
				if isTop {
					applyOctaveShiftStarts(m, octShift, sy.partIdx)
				}
				octave := transposeOctaveFor(part, idx) + octShift[sy.partIdx]
				if isTop {
					drawHarmonies(b, m.Harmonies, ml.X, ml.Width, sy.topY)
					aboveY := sy.topY - 10
					belowY := sy.topY + 4*staffLineSpace + 14
					drawDirections(b, m.Directions, ml.X, aboveY, belowY)
				}

				notes := renderNotesInMeasure(b, score, sy.partIdx, sy.staff, idx, ml, sy.topY, octave)
				drawBeams(b, notes)

				sk := staffKey{part: sy.partIdx, staff: sy.staff}
				tracker := slurs[sk]
				if tracker == nil {
					tracker = newSlurTracker()
					slurs[sk] = tracker
				}
				for _, nr := range notes {
					tracker.observe(b, nr, sy.topY)
				}

				if isBottomStaffOfPart(staves, sy.partIdx, sy.staff) {
					divisions := divisionsAt(part, idx)
					drawLyrics(b, m, divisions, ml.BeatXMap, sy.topY)
					applyOctaveShiftStops(m, octShift, sy.partIdx)
				}

				bar := m.RightBarline()
				top := sy.topY
				bottom := sy.topY + 4*staffLineSpace
				drawBarline(b, bar, ml.X+ml.Width, top, bottom)
				if bar != nil && bar.Ending != nil && isTop {
					drawVolta(b, bar.Ending, ml.X, ml.X+ml.Width, sy.topY-14)
				}
			}
		}

		if len(staves) > 0 {
			lastIdx := measureIndices[len(measureIndices)-1]
			rightEdge := sl.Measures[lastIdx].X + sl.Measures[lastIdx].Width
			for _, sy := range staves {
				if t := slurs[staffKey{part: sy.partIdx, staff: sy.staff}]; t != nil {
					t.breakAtSystemEnd(b, rightEdge, sy.topY, marginLeft+clefSpace)
				}
			}
			if !systemHasStyledRightBarline(score, lastIdx) {
				top := staves[0].topY
				bottom := staves[len(staves)-1].topY + 4*staffLineSpace
				b.line(rightEdge, top, rightEdge, bottom, colorBarline, barlineWidth)
			}
		}
	}

	return b.build()
}

// systemHasStyledRightBarline reports whether any part's measure at idx
// carries a styled right barline, which supersedes the system-spanning
// closing barline.
func systemHasStyledRightBarline(score *model.Score, idx int) bool {
	for _, p := range score.Parts {
		if idx >= len(p.Measures) {
			continue
		}
		if bar := p.Measures[idx].RightBarline(); bar != nil && (bar.Style != "" || bar.Repeat != model.RepeatNone) {
			return true
		}
	}
	return false
}

// octaveShiftOctaves maps an octave-shift size to whole octaves.
func octaveShiftOctaves(size int) int {
	switch size {
	case 15:
		return 2
	case 22:
		return 3
	default:
		return 1
	}
}

// applyOctaveShiftStarts activates up/down octave shifts before the
// measure's notes render; stops are deferred to applyOctaveShiftStops
// because the source ordering places a stop after its covered notes.
func applyOctaveShiftStarts(m *model.Measure, octShift []int, partIdx int) {
	for _, d := range m.Directions {
		if d.OctaveShift == nil {
			continue
		}
		switch d.OctaveShift.Type {
		case model.OctaveShiftDown:
			octShift[partIdx] = -octaveShiftOctaves(d.OctaveShift.Size)
		case model.OctaveShiftUp:
			octShift[partIdx] = octaveShiftOctaves(d.OctaveShift.Size)
		}
	}
}

// applyOctaveShiftStops deactivates the part's octave shift after the
// measure containing the stop has rendered.
func applyOctaveShiftStops(m *model.Measure, octShift []int, partIdx int) {
	for _, d := range m.Directions {
		if d.OctaveShift != nil && d.OctaveShift.Type == model.OctaveShiftStop {
			octShift[partIdx] = 0
		}
	}
}

func drawHeader(b *builder, score *model.Score, pageWidth float64) {
	if score.Title != "" {
		b.text(pageWidth/2, marginTop+20, score.Title, 22, "bold", colorHeader, "middle")
	}
	if score.Composer != "" {
		b.text(pageWidth-marginRight, marginTop+40, score.Composer, 12, "normal", colorHeader, "end")
	}
	if score.Subtitle != "" {
		b.text(pageWidth/2, marginTop+40, score.Subtitle, 14, "normal", colorHeader, "middle")
	}
}

func systemMeasures(sl *layout.ScoreLayout, systemIndex int) []int {
	var out []int
	for i, m := range sl.Measures {
		if m.SystemIndex == systemIndex {
			out = append(out, i)
		}
	}
	return out
}

func systemWidth(sl *layout.ScoreLayout, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	first := sl.Measures[indices[0]]
	last := sl.Measures[indices[len(indices)-1]]
	return (last.X + last.Width) - first.X
}

func keyAt(part *model.Part, idx int) (fifths, prevFifths int) {
	for i := idx; i >= 0; i-- {
		if i < len(part.Measures) && part.Measures[i].Attributes != nil && part.Measures[i].Attributes.Key != nil {
			fifths = part.Measures[i].Attributes.Key.Fifths
			for j := i - 1; j >= 0; j-- {
				if part.Measures[j].Attributes != nil && part.Measures[j].Attributes.Key != nil {
					prevFifths = part.Measures[j].Attributes.Key.Fifths
					return
				}
			}
			return
		}
	}
	return 0, 0
}

func cancelCount(oldFifths, newFifths int) int {
	if oldFifths == 0 {
		return 0
	}
	sameSign := (oldFifths > 0 && newFifths > 0) || (oldFifths < 0 && newFifths < 0) || newFifths == 0
	abs := func(n int) int {
		if n < 0 {
			return -n
		}
		return n
	}
	if sameSign {
		d := abs(oldFifths) - abs(newFifths)
		if d < 0 {
			return 0
		}
		return d
	}
	return abs(oldFifths)
}

func timeAt(part *model.Part, idx int) (beats, beatType int) {
	beats, beatType = 4, 4
	for i := idx; i >= 0; i-- {
		if i < len(part.Measures) && part.Measures[i].Attributes != nil && part.Measures[i].Attributes.Time != nil {
			return part.Measures[i].Attributes.Time.Beats, part.Measures[i].Attributes.Time.BeatType
		}
	}
	return
}

func divisionsAt(part *model.Part, idx int) int {
	for i := idx; i >= 0; i-- {
		if i < len(part.Measures) && part.Measures[i].Attributes != nil && part.Measures[i].Attributes.Divisions > 0 {
			return part.Measures[i].Attributes.Divisions
		}
	}
	return 1
}

func transposeOctaveFor(part *model.Part, idx int) int {
	for i := idx; i >= 0; i-- {
		if i < len(part.Measures) && part.Measures[i].Attributes != nil && part.Measures[i].Attributes.Transpose != nil {
			return part.Measures[i].Attributes.Transpose.OctaveChange
		}
	}
	return 0
}

func measureHasTimeChange(score *model.Score, idx int) bool {
	for _, p := range score.Parts {
		if idx < len(p.Measures) && p.Measures[idx].Attributes != nil && p.Measures[idx].Attributes.Time != nil {
			return true
		}
	}
	return false
}

type systemStaff = struct {
	partIdx, staff int
	topY           float64
}

func firstStaffOfPart(staves []systemStaff, partIdx int) int {
	best := 0
	found := false
	for _, s := range staves {
		if s.partIdx == partIdx && (!found || s.staff < best) {
			best = s.staff
			found = true
		}
	}
	return best
}

func isBottomStaffOfPart(staves []systemStaff, partIdx, staff int) bool {
	best := staff
	for _, s := range staves {
		if s.partIdx == partIdx && s.staff > best {
			best = s.staff
		}
	}
	return staff == best
}

func drawBraces(b *builder, score *model.Score, staves []systemStaff) {
	for pi := range score.Parts {
		n := layout.PartStaffCount(&score.Parts[pi])
		if n < 2 {
			continue
		}
		var top, bottom float64
		found := false
		for _, s := range staves {
			if s.partIdx != pi {
				continue
			}
			if !found || s.topY < top {
				top = s.topY
			}
			if s.topY+4*staffLineSpace > bottom {
				bottom = s.topY + 4*staffLineSpace
			}
			found = true
		}
		if found {
			drawBrace(b, marginLeft-2, top, bottom)
		}
	}
}
