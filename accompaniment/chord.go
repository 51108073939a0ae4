// Package accompaniment performs chord analysis (explicit or inferred),
// voicing with smooth voice-leading, and pattern generation for the
// piano/bass/strings/drums/metronome accompaniment tracks.
package accompaniment

import "github.com/notalib/scorelib/model"

// qualityIntervals lists the semitone intervals of each chord quality,
// keyed by model.ChordQuality.
var qualityIntervals = map[model.ChordQuality][]int{
	model.QualityMajor:      {0, 4, 7},
	model.QualityMinor:      {0, 3, 7},
	model.QualityDominant7:  {0, 4, 7, 10},
	model.QualityMajor7:     {0, 4, 7, 11},
	model.QualityMinor7:     {0, 3, 7, 10},
	model.QualityDiminished: {0, 3, 6},
	model.QualityHalfDim:    {0, 3, 6, 10},
	model.QualityAugmented:  {0, 4, 8},
}

// seventhByQuality extends a triad with the quality-appropriate seventh.
var seventhByQuality = map[model.ChordQuality]int{
	model.QualityMajor:      11,
	model.QualityMinor:      10,
	model.QualityDiminished: 9, // diminished seventh
	model.QualityAugmented:  10,
}

var stepSemitone = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

func pitchClass(step string, alter int) int {
	base, ok := stepSemitone[step]
	if !ok {
		base = 0
	}
	return ((base+alter)%12 + 12) % 12
}

// diatonicPriority lists the scale-degree offsets (from the key root)
// scanned in order when inferring a chord root: I, V, IV, vi, ii, iii.
var diatonicPriority = []int{0, 7, 5, 9, 2, 4}

// KeyRootPC returns the key-root pitch class for a key signature's
// fifths value: root = (fifths * 7) mod 12.
func KeyRootPC(fifths int) int {
	return ((fifths*7)%12 + 12) % 12
}

// Analyze resolves the chord in force for one measure. If the measure
// carries explicit harmonies, the first is used directly. Otherwise the
// chord is inferred from sounding pitch classes against keyRootPC.
// prevQuality/prevRoot carry the previous measure's chord
// forward when this measure has neither explicit nor inferable harmony.
func Analyze(m *model.Measure, keyRootPC int, hasPrev bool, prevRootPC int, prevQuality model.ChordQuality) (rootPC int, quality model.ChordQuality) {
	if len(m.Harmonies) > 0 {
		h := m.Harmonies[0]
		return pitchClass(h.RootStep, h.RootAlter), h.Quality
	}

	pcs := soundingPitchClasses(m)
	if len(pcs) == 0 {
		if hasPrev {
			return prevRootPC, prevQuality
		}
		return keyRootPC, model.QualityMajor
	}

	root := pickRoot(pcs, keyRootPC)
	quality = classify(pcs, root)
	return root, quality
}

func soundingPitchClasses(m *model.Measure) map[int]bool {
	set := map[int]bool{}
	for _, n := range m.Notes {
		if n.Rest || n.Grace || n.Chord {
			continue
		}
		set[pitchClass(n.Step, n.Alter)] = true
	}
	return set
}

// pickRoot scans the diatonic-priority candidates in order; the first
// one present in pcs wins. Fallback: the lowest pitch class present,
// so the same input always infers the same root (map iteration order
// would make repeated runs emit different MIDI bytes).
func pickRoot(pcs map[int]bool, keyRootPC int) int {
	for _, offset := range diatonicPriority {
		cand := (keyRootPC + offset) % 12
		if pcs[cand] {
			return cand
		}
	}
	best := 12
	for pc := range pcs {
		if pc < best {
			best = pc
		}
	}
	if best < 12 {
		return best
	}
	return keyRootPC
}

// classify computes intervals above root and classifies. The order
// matters: dominant-7th must precede the plain major test.
func classify(pcs map[int]bool, root int) model.ChordQuality {
	has := func(iv int) bool { return pcs[(root+iv)%12] }
	switch {
	case has(4) && has(7) && has(10):
		return model.QualityDominant7
	case has(3) && has(6):
		return model.QualityDiminished
	case has(3) && has(7):
		return model.QualityMinor
	case has(4) && has(7):
		return model.QualityMajor
	case has(3):
		return model.QualityMinor
	default:
		return model.QualityMajor
	}
}
