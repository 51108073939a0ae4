// Package layout computes system/measure/beat geometry with cross-staff
// vertical alignment, lyric-aware horizontal spacing, and grand-staff
// bracing. All coordinates are user-units.
package layout

import "github.com/notalib/scorelib/model"

const (
	DefaultPageWidth = 820
	marginLeft       = 40
	marginRight      = 40
	clefPrefixWidth  = 32
	timeSigWidth     = 24
	staveGapInPart   = 60
	partGap          = 80
	systemSpacing    = 90
	lyricsPadding    = 10
	lyricsPerVerse   = 16
)

// BeatX is one (beat-time, x-coordinate) pair in a measure's beat-x map.
// Beat is measured in quarter notes from the start of the measure.
type BeatX struct {
	Beat float64
	X    float64
}

// MeasureLayout is one original measure's horizontal placement. Index is
// into model.Part.Measures — layout positions ORIGINAL measures once;
// repeats and jumps reuse the same geometry (playback projects the
// unrolled timemap onto it, see package playback).
type MeasureLayout struct {
	OriginalIndex int
	X             float64
	Width         float64
	SystemIndex   int
	BeatXMap      []BeatX
}

// SystemLayout is one system's vertical placement.
type SystemLayout struct {
	Y      float64
	Height float64
}

// ScoreLayout is the complete computed geometry for a score at a given
// page width.
type ScoreLayout struct {
	Systems     []SystemLayout
	Measures    []MeasureLayout
	TotalHeight float64
	PageWidth   float64
}

// Compute lays out score at the given page width (DefaultPageWidth if
// pageWidth <= 0). An empty score yields a single-system sentinel
// layout with no measures.
func Compute(score *model.Score, pageWidth float64) *ScoreLayout {
	if pageWidth <= 0 {
		pageWidth = DefaultPageWidth
	}
	if score.IsEmpty() {
		return &ScoreLayout{PageWidth: pageWidth, Systems: []SystemLayout{{Y: 0, Height: 0}}}
	}

	measureCount := maxMeasureCount(score)
	minWidths := computeMinWidths(score, measureCount)
	divTable := divisionsTable(score, measureCount)
	systems := packSystems(score, minWidths, pageWidth)
	measures := make([]MeasureLayout, measureCount)
	for si, sys := range systems {
		scaleSystemWidths(score, sys, pageWidth, divTable, measures)
		for _, mi := range sys.measureIndices {
			measures[mi].SystemIndex = si
		}
	}

	sl := &ScoreLayout{PageWidth: pageWidth, Measures: measures}
	layoutVertical(score, systems, measures, sl)
	return sl
}

func maxMeasureCount(score *model.Score) int {
	n := 0
	for _, p := range score.Parts {
		if len(p.Measures) > n {
			n = len(p.Measures)
		}
	}
	return n
}
