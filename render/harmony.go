package render

import "github.com/notalib/scorelib/model"

var qualitySuffix = map[model.ChordQuality]string{
	model.QualityMajor:      "",
	model.QualityMinor:      "m",
	model.QualityDominant7:  "7",
	model.QualityMajor7:     "maj7",
	model.QualityMinor7:     "m7",
	model.QualityDiminished: "dim",
	model.QualityHalfDim:    "m7b5",
	model.QualityAugmented:  "aug",
}

// harmonyLabel renders a Harmony as a lead-sheet chord symbol, e.g. "G7",
// "Dm7", "C/E".
func harmonyLabel(h *model.Harmony) string {
	root := alteredStepName(h.RootStep, h.RootAlter)
	label := root + qualitySuffix[h.Quality]
	if h.HasBass {
		label += "/" + alteredStepName(h.BassStep, h.BassAlter)
	}
	return label
}

func alteredStepName(step string, alter int) string {
	switch alter {
	case 1:
		return step + "#"
	case -1:
		return step + "b"
	case 2:
		return step + "##"
	case -2:
		return step + "bb"
	default:
		return step
	}
}

// drawHarmonies draws each harmony symbol above the top staff at x,
// spaced evenly across the measure width when more than one occurs.
func drawHarmonies(b *builder, harmonies []model.Harmony, x, width, topStaffY float64) {
	if len(harmonies) == 0 {
		return
	}
	step := width / float64(len(harmonies))
	for i, h := range harmonies {
		hx := x + float64(i)*step
		b.chordText(hx, topStaffY+chordSymbolDY, harmonyLabel(&h), 13, colorChord)
	}
}
