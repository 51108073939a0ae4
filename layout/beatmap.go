package layout

import (
	"sort"

	"github.com/notalib/scorelib/model"
)

const beatTolerance = 0.001

// divisionsTable returns, for each part, the divisions-per-quarter in
// force at every measure index up to n, carrying the last explicit value
// forward (seeded to 1) the same way timemap.precompute does for tempo.
func divisionsTable(score *model.Score, n int) [][]int {
	out := make([][]int, len(score.Parts))
	for pi, p := range score.Parts {
		col := make([]int, n)
		divisions := 1
		for i := 0; i < n; i++ {
			if i < len(p.Measures) && p.Measures[i].Attributes != nil && p.Measures[i].Attributes.Divisions > 0 {
				divisions = p.Measures[i].Attributes.Divisions
			}
			col[i] = divisions
		}
		out[pi] = col
	}
	return out
}

// noteBeatTimes returns the beat-time (in quarter notes from the start of
// the measure) at which each note in m sounds, tracked per (staff, voice)
// partition: grace notes land on the partition's current cursor without
// advancing it, and chord notes share the onset of the partition's
// previous note — the same cursor discipline the MIDI writer uses,
// generalized here for alignment instead of ticks.
func noteBeatTimes(m *model.Measure, divisions int) []float64 {
	if divisions <= 0 {
		divisions = 1
	}
	type partition struct{ staff, voice int }
	cursor := map[partition]float64{}
	lastOnset := map[partition]float64{}
	out := make([]float64, len(m.Notes))
	for i := range m.Notes {
		n := &m.Notes[i]
		key := partition{staff: n.EffectiveStaff(), voice: n.EffectiveVoice()}
		cur := cursor[key]
		switch {
		case n.Grace:
			out[i] = cur
		case n.Chord:
			out[i] = lastOnset[key]
		default:
			out[i] = cur
			lastOnset[key] = cur
			cursor[key] = cur + float64(n.Duration)/float64(divisions)
		}
	}
	return out
}

// collectBeatTimes gathers the unique beat-times (tolerance 0.001
// quarter-notes) across every part's notes in measure idx.
func collectBeatTimes(score *model.Score, idx int, divisionsPerPart []int) []float64 {
	var unique []float64
	add := func(bt float64) {
		for _, u := range unique {
			if absf(u-bt) < beatTolerance {
				return
			}
		}
		unique = append(unique, bt)
	}
	for pi, p := range score.Parts {
		if idx >= len(p.Measures) {
			continue
		}
		for _, bt := range noteBeatTimes(&p.Measures[idx], divisionsPerPart[pi]) {
			add(bt)
		}
	}
	sort.Float64s(unique)
	return unique
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// beatXMapFor builds the (beat-time -> x) alignment kernel for one
// measure: union beat-times across parts, then space them
// proportionally to beat distance unless lyrics demand more room, scaled
// to sum to exactly the measure's usable width.
func beatXMapFor(score *model.Score, idx int, x, width float64, divisionsPerPart []int, lyricsByPart [][]lyricEvent) []BeatX {
	beats := collectBeatTimes(score, idx, divisionsPerPart)
	if len(beats) == 0 {
		return nil
	}
	maxBeat := beats[len(beats)-1]
	if maxBeat < beatTolerance {
		maxBeat = beatTolerance
	}

	eventAt := func(bt float64) (lyricEvent, bool) {
		for _, events := range lyricsByPart {
			for _, ev := range events {
				if absf(ev.beat-bt) < beatTolerance {
					return ev, true
				}
			}
		}
		return lyricEvent{}, false
	}

	if len(beats) == 1 {
		return []BeatX{{Beat: beats[0], X: x}}
	}

	minDists := make([]float64, len(beats)-1)
	total := 0.0
	for i := 1; i < len(beats); i++ {
		propDist := (beats[i] - beats[i-1]) / maxBeat * width
		lyricsDist := 0.0
		left, lok := eventAt(beats[i-1])
		right, rok := eventAt(beats[i])
		switch {
		case lok && rok:
			seg := textWidth(left.text)/2 + lyricGap + textWidth(right.text)/2
			if left.dashNext {
				seg += lyricDashExtra
			}
			lyricsDist = seg
		case lok:
			lyricsDist = textWidth(left.text) / 2
		case rok:
			lyricsDist = textWidth(right.text) / 2
		}
		d := propDist
		if lyricsDist > d {
			d = lyricsDist
		}
		minDists[i-1] = d
		total += d
	}

	scale := 1.0
	if total > 0 {
		scale = width / total
	}
	out := make([]BeatX, len(beats))
	cur := x
	out[0] = BeatX{Beat: beats[0], X: cur}
	for i, d := range minDists {
		cur += d * scale
		out[i+1] = BeatX{Beat: beats[i+1], X: cur}
	}
	return out
}

// lookupBeatX returns the x-coordinate closest to beat among m, falling
// back to the first entry when m is empty.
func lookupBeatX(m []BeatX, beat float64) float64 {
	if len(m) == 0 {
		return 0
	}
	best, bestDist := m[0].X, absf(m[0].Beat-beat)
	for _, bx := range m[1:] {
		if d := absf(bx.Beat - beat); d < bestDist {
			bestDist = d
			best = bx.X
		}
	}
	return best
}

// GraceOffset returns the leftward offset (user-units) applied to the
// index-th grace note of a run of runLength consecutive grace notes
// preceding a principal note.
func GraceOffset(runLength, index int) float64 {
	const graceNoteWidth = 8.0
	return float64(runLength-index) * graceNoteWidth
}

// NotePositions returns the x-coordinate for every note in m, looked up
// through beatXMap and then adjusted so that runs of consecutive grace
// notes preceding a principal note are offset leftward.
func NotePositions(m *model.Measure, divisions int, beatXMap []BeatX) []float64 {
	beats := noteBeatTimes(m, divisions)
	positions := make([]float64, len(beats))
	for i, bt := range beats {
		positions[i] = lookupBeatX(beatXMap, bt)
	}
	n := len(m.Notes)
	i := 0
	for i < n {
		if !m.Notes[i].Grace {
			i++
			continue
		}
		start := i
		for i < n && m.Notes[i].Grace {
			i++
		}
		runLen := i - start
		principal := positions[start]
		if i < n {
			principal = positions[i]
		}
		for j := start; j < i; j++ {
			positions[j] = principal - GraceOffset(runLen, j-start)
		}
	}
	return positions
}
