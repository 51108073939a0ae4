package accompaniment

import (
	"github.com/notalib/scorelib/model"
	"github.com/notalib/scorelib/timemap"
)

// ChordAt is one unrolled measure's resolved chord and voicing, ready for
// pattern generation against the matching timemap.Entry's duration.
type ChordAt struct {
	RootPC   int
	Quality  model.ChordQuality
	Voicing  []int
}

// BuildChordTrack resolves the chord in force at every timemap entry: if
// any measure in the part has explicit harmonies they are used directly
// (a measure without one inherits the previous chord); otherwise the
// chord is inferred from sounding pitch classes. Voicings carry smooth voice-leading
// across the whole unrolled sequence.
func BuildChordTrack(part *model.Part, entries []timemap.Entry) []ChordAt {
	keyRootPC := firstKeyRootPC(part)
	hasExplicit := partHasExplicitHarmony(part)

	out := make([]ChordAt, len(entries))
	hasPrev := false
	prevRoot := 0
	var prevQuality model.ChordQuality
	var prevVoicing []int

	for i, e := range entries {
		idx := e.OriginalMeasureIndex
		if idx < 0 || idx >= len(part.Measures) {
			continue
		}
		m := &part.Measures[idx]

		var root int
		var quality model.ChordQuality
		if hasExplicit {
			root, quality = resolveExplicitOrInherit(m, hasPrev, prevRoot, prevQuality)
		} else {
			root, quality = Analyze(m, keyRootPC, hasPrev, prevRoot, prevQuality)
		}
		voicing := Voice(root, quality, prevVoicing)

		out[i] = ChordAt{RootPC: root, Quality: quality, Voicing: voicing}
		hasPrev = true
		prevRoot, prevQuality, prevVoicing = root, quality, voicing
	}
	return out
}

func resolveExplicitOrInherit(m *model.Measure, hasPrev bool, prevRoot int, prevQuality model.ChordQuality) (int, model.ChordQuality) {
	if len(m.Harmonies) > 0 {
		h := m.Harmonies[0]
		return pitchClass(h.RootStep, h.RootAlter), h.Quality
	}
	if hasPrev {
		return prevRoot, prevQuality
	}
	return 0, model.QualityMajor
}

func partHasExplicitHarmony(part *model.Part) bool {
	for _, m := range part.Measures {
		if len(m.Harmonies) > 0 {
			return true
		}
	}
	return false
}

func firstKeyRootPC(part *model.Part) int {
	for _, m := range part.Measures {
		if m.Attributes != nil && m.Attributes.Key != nil {
			return KeyRootPC(m.Attributes.Key.Fifths)
		}
	}
	return 0
}
