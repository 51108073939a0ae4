package layout

import "github.com/notalib/scorelib/model"

const (
	beatWidthUnit    = 55
	minMeasureWidth  = 38
	lyricGap         = 6
	lyricDashExtra   = 8
	lyricOverlapNext = 20 // the last syllable may spill into the next measure
	lyricFontSize    = 13
	lyricCharWidth   = 0.55
	keyCancelWidth   = 8
	keyFlatWidth     = 8
	keySharpWidth    = 10
	keyChangePad     = 6
	timeChangeWidth  = 24
	maxElongation    = 2.5
)

// lyricEvent is one lyric syllable at a given beat position, used for
// both the per-measure lyrics-width computation and the beat-x map's
// lyrics-minimum segment distances.
type lyricEvent struct {
	beat     float64
	text     string
	dashNext bool // syllabic begin/middle: a dash follows, needing extra room
}

// textWidth estimates rendered width of s at lyricFontSize with a flat
// per-character width, rather than shaping text at layout time.
func textWidth(s string) float64 {
	return float64(len([]rune(s))) * lyricFontSize * lyricCharWidth
}

// cancellationNaturalCount is zero if the previous key was C; if old
// and new are both sharps or both flats, max(0, |old|-|new|); if they
// cross the C boundary, |old|.
func cancellationNaturalCount(oldFifths, newFifths int) int {
	if oldFifths == 0 {
		return 0
	}
	sameSign := (oldFifths > 0 && newFifths > 0) || (oldFifths < 0 && newFifths < 0) || newFifths == 0
	if sameSign {
		d := abs(oldFifths) - abs(newFifths)
		if d < 0 {
			return 0
		}
		return d
	}
	return abs(oldFifths)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func keySignatureWidth(fifths int) float64 {
	if fifths >= 0 {
		return float64(fifths) * keySharpWidth
	}
	return float64(-fifths) * keyFlatWidth
}

// lyricsMinWidth sums the half-width of the first and last syllables
// plus the gapped inter-syllable distances, with extra room for
// hyphens. The last syllable's trailing half-width is reduced by the
// overlap allowance into the next measure.
func lyricsMinWidth(events []lyricEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	w := textWidth(events[0].text) / 2
	for i := 1; i < len(events); i++ {
		left, right := events[i-1], events[i]
		seg := textWidth(left.text)/2 + lyricGap + textWidth(right.text)/2
		if left.dashNext {
			seg += lyricDashExtra
		}
		w += seg
	}
	last := events[len(events)-1]
	if tail := textWidth(last.text)/2 - lyricOverlapNext; tail > 0 {
		w += tail
	}
	return w
}

// collectLyricEvents gathers one lyric event per sounding note that has
// lyrics, taken from that note's first lyric entry whatever its verse
// number (layout's elongation is driven by syllable spacing,
// not per-verse stacking — vertical verse stacking is handled separately
// by layoutVertical).
func collectLyricEvents(m *model.Measure, divisions int) []lyricEvent {
	var events []lyricEvent
	var pos float64
	for i := range m.Notes {
		n := &m.Notes[i]
		if n.Grace {
			continue
		}
		if !n.Chord {
			if len(n.Lyrics) > 0 {
				ly := n.Lyrics[0]
				events = append(events, lyricEvent{
					beat:     pos,
					text:     ly.Text,
					dashNext: ly.Syllabic == model.SyllableBegin || ly.Syllabic == model.SyllableMiddle,
				})
			}
			if divisions > 0 {
				pos += float64(n.Duration) / float64(divisions)
			}
		}
	}
	return events
}

// minMeasureWidthFor computes one measure's minimum width: the
// beat-based floor, plus key/time-change insets, plus (capped)
// lyrics-driven elongation.
func minMeasureWidthFor(m *model.Measure, prevFifths int, divisions, beats, beatType int) float64 {
	base := float64(beats) * beatWidthUnit
	if base < minMeasureWidth {
		base = minMeasureWidth
	}

	inset := 0.0
	if m.Attributes != nil {
		if m.Attributes.Key != nil {
			nf := m.Attributes.Key.Fifths
			inset += float64(cancellationNaturalCount(prevFifths, nf))*keyCancelWidth + keySignatureWidth(nf) + keyChangePad
		}
		if m.Attributes.Time != nil {
			inset += timeChangeWidth
		}
	}

	lyricsEvents := collectLyricEvents(m, divisions)
	lyricsW := lyricsMinWidth(lyricsEvents)
	width := base + inset
	if lyricsW > width {
		ceiling := base * maxElongation
		if lyricsW > ceiling {
			lyricsW = ceiling
		}
		width = lyricsW + inset
	}
	return width
}

// computeMinWidths returns, for each original measure index (0..n-1),
// the minimum width across all parts (the widest part's requirement
// wins, since all parts share one system grid).
func computeMinWidths(score *model.Score, n int) []float64 {
	widths := make([]float64, n)
	for _, p := range score.Parts {
		divisions, beats, beatType, prevFifths := 1, 4, 4, 0
		for i := 0; i < len(p.Measures) && i < n; i++ {
			m := &p.Measures[i]
			if m.Attributes != nil {
				if m.Attributes.Divisions > 0 {
					divisions = m.Attributes.Divisions
				}
				if m.Attributes.Time != nil {
					beats, beatType = m.Attributes.Time.Beats, m.Attributes.Time.BeatType
				}
			}
			w := minMeasureWidthFor(m, prevFifths, divisions, beats, beatType)
			if w > widths[i] {
				widths[i] = w
			}
			if m.Attributes != nil && m.Attributes.Key != nil {
				prevFifths = m.Attributes.Key.Fifths
			}
		}
	}
	for i, w := range widths {
		if w == 0 {
			widths[i] = minMeasureWidth
		}
	}
	return widths
}
