package layout

import "github.com/notalib/scorelib/model"

// partStaffCount returns the number of staves part p uses: the widest
// explicit staff-count attribute, or the highest staff number any clef or
// note references, defaulting to 1.
func partStaffCount(p *model.Part) int {
	n := 1
	for _, m := range p.Measures {
		if m.Attributes != nil {
			if m.Attributes.StaffCount > n {
				n = m.Attributes.StaffCount
			}
			for staff := range m.Attributes.Clefs {
				if staff > n {
					n = staff
				}
			}
		}
		for _, note := range m.Notes {
			if s := note.EffectiveStaff(); s > n {
				n = s
			}
		}
	}
	return n
}

// measureVerseCount returns the highest lyric verse number carried by any
// part's measure at idx (0 if none), for per-verse stacking.
func measureVerseCount(score *model.Score, idx int) int {
	verses := 0
	for _, p := range score.Parts {
		if idx >= len(p.Measures) {
			continue
		}
		for _, n := range p.Measures[idx].Notes {
			for _, ly := range n.Lyrics {
				if ly.Verse > verses {
					verses = ly.Verse
				}
			}
		}
	}
	return verses
}

// measureHasBelowDirectionWords reports whether any part's measure at idx
// carries a below-placed direction with non-empty words.
func measureHasBelowDirectionWords(score *model.Score, idx int) bool {
	for _, p := range score.Parts {
		if idx >= len(p.Measures) {
			continue
		}
		for _, d := range p.Measures[idx].Directions {
			if d.Placement == model.PlacementBelow && d.Words != "" {
				return true
			}
		}
	}
	return false
}

const (
	staffHeight        = 40
	lyricsExtraPadding = 10
)

// PartStaffCount exports partStaffCount for callers outside the package
// (the renderer needs it to reconstruct per-staff Y offsets).
func PartStaffCount(p *model.Part) int { return partStaffCount(p) }

// StaffTopY returns the y-coordinate of the top line of the given
// part/staff (both 0-based) within the system whose top is systemY, using
// the same stacking order layoutVertical applies: staves within a part
// separated by staveGapInPart, parts separated by partGap.
func StaffTopY(score *model.Score, systemY float64, partIndex, staffIndex int) float64 {
	y := systemY
	for pi := 0; pi < partIndex && pi < len(score.Parts); pi++ {
		n := partStaffCount(&score.Parts[pi])
		y += float64(n)*staffHeight + float64(n-1)*staveGapInPart + partGap
	}
	if partIndex < len(score.Parts) {
		y += float64(staffIndex) * (staffHeight + staveGapInPart)
	}
	return y
}

// layoutVertical stacks parts/staves top-down per system: staves within
// a part separated by staveGapInPart, parts separated by partGap,
// systems separated by systemSpacing, with extra height below a system
// whenever its measures carry lyrics (scaled by verse count) and
// additionally when below-staff direction words coexist with lyrics.
func layoutVertical(score *model.Score, systems []system, measures []MeasureLayout, sl *ScoreLayout) {
	staffCounts := make([]int, len(score.Parts))
	partHeight := make([]float64, len(score.Parts))
	for pi, p := range score.Parts {
		staffCounts[pi] = partStaffCount(&p)
		partHeight[pi] = float64(staffCounts[pi])*staffHeight + float64(staffCounts[pi]-1)*staveGapInPart
	}
	systemContentHeight := 0.0
	for i, h := range partHeight {
		systemContentHeight += h
		if i < len(partHeight)-1 {
			systemContentHeight += partGap
		}
	}
	// An implicit (pickup) first measure halves the initial vertical
	// budget.
	y := 0.0
	if len(score.Parts) > 0 && len(score.Parts[0].Measures) > 0 && score.Parts[0].Measures[0].Implicit {
		y = systemContentHeight / 2
	}

	sl.Systems = make([]SystemLayout, len(systems))
	for si, sys := range systems {
		maxVerses := 0
		belowWords := false
		for _, idx := range sys.measureIndices {
			if v := measureVerseCount(score, idx); v > maxVerses {
				maxVerses = v
			}
			if measureHasBelowDirectionWords(score, idx) {
				belowWords = true
			}
		}
		extra := 0.0
		if maxVerses > 0 {
			extra = float64(maxVerses)*lyricsPerVerse + lyricsPadding + lyricsExtraPadding
			if belowWords {
				extra += lyricsPerVerse
			}
		}
		height := systemContentHeight + extra
		sl.Systems[si] = SystemLayout{Y: y, Height: height}
		y += height + systemSpacing
	}
	sl.TotalHeight = y
}
