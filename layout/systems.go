package layout

import "github.com/notalib/scorelib/model"

// system is the internal packing result for one system: the original
// measure indices it contains and whether it shows a time signature.
type system struct {
	measureIndices []int
	showsTime      bool
	prefixWidth    float64
	availWidth     float64
}

func prefixWidthFor(score *model.Score, firstMeasureIdx int, showsTime bool) float64 {
	keyFifths := 0
	for _, p := range score.Parts {
		if firstMeasureIdx < len(p.Measures) {
			for i := firstMeasureIdx; i >= 0; i-- {
				if p.Measures[i].Attributes != nil && p.Measures[i].Attributes.Key != nil {
					keyFifths = p.Measures[i].Attributes.Key.Fifths
					break
				}
			}
		}
		break
	}
	w := clefPrefixWidth + keySignatureWidth(keyFifths)
	if showsTime {
		w += timeSigWidth
	}
	return w
}

// measureHasTimeChange reports whether the measure at idx carries an
// explicit time-signature change (used to decide whether a non-first
// system still shows the time signature).
func measureHasTimeChange(score *model.Score, idx int) bool {
	for _, p := range score.Parts {
		if idx < len(p.Measures) && p.Measures[idx].Attributes != nil && p.Measures[idx].Attributes.Time != nil {
			return true
		}
	}
	return false
}

// packSystems greedily fills systems against the available content
// width: the first system always shows the time signature; later
// systems show it only if their starting measure has a time change.
func packSystems(score *model.Score, minWidths []float64, pageWidth float64) []system {
	usable := pageWidth - marginLeft - marginRight
	var systems []system
	i := 0
	n := len(minWidths)
	first := true
	for i < n {
		showsTime := first || measureHasTimeChange(score, i)
		prefix := prefixWidthFor(score, i, showsTime)
		avail := usable - prefix
		if avail < minMeasureWidth {
			avail = minMeasureWidth
		}
		var indices []int
		used := 0.0
		for i < n {
			w := minWidths[i]
			if len(indices) > 0 && used+w > avail {
				break
			}
			indices = append(indices, i)
			used += w
			i++
		}
		if len(indices) == 0 {
			// A single measure wider than the line still gets its own system.
			indices = []int{i}
			i++
		}
		systems = append(systems, system{measureIndices: indices, showsTime: showsTime, prefixWidth: prefix, availWidth: avail})
		first = false
	}
	return systems
}

// scaleSystemWidths distributes avail proportionally by each measure's
// beat count (measureBeatWeight) so the system exactly fills its usable
// width, then writes x/width into
// measures, together with each measure's beat-x alignment map.
func scaleSystemWidths(score *model.Score, sys system, pageWidth float64, divTable [][]int, measures []MeasureLayout) {
	total := 0.0
	mins := make([]float64, len(sys.measureIndices))
	for k, idx := range sys.measureIndices {
		mins[k] = measureBeatWeight(score, idx)
		total += mins[k]
	}
	if total <= 0 {
		total = float64(len(sys.measureIndices))
		for k := range mins {
			mins[k] = 1
		}
	}
	x := marginLeft + sys.prefixWidth
	for k, idx := range sys.measureIndices {
		w := (mins[k] / total) * sys.availWidth
		divisionsPerPart := make([]int, len(score.Parts))
		lyricsByPart := make([][]lyricEvent, len(score.Parts))
		for pi, p := range score.Parts {
			if idx < len(divTable[pi]) {
				divisionsPerPart[pi] = divTable[pi][idx]
			} else {
				divisionsPerPart[pi] = 1
			}
			if idx < len(p.Measures) {
				lyricsByPart[pi] = collectLyricEvents(&p.Measures[idx], divisionsPerPart[pi])
			}
		}
		beatXMap := beatXMapFor(score, idx, x, w, divisionsPerPart, lyricsByPart)
		measures[idx] = MeasureLayout{OriginalIndex: idx, X: x, Width: w, BeatXMap: beatXMap}
		x += w
	}
}

// measureBeatWeight returns the widest part's beat count at idx, used as
// the proportional-width weight.
func measureBeatWeight(score *model.Score, idx int) float64 {
	best := 4.0
	found := false
	for _, p := range score.Parts {
		if idx >= len(p.Measures) {
			continue
		}
		beats := 4
		for i := idx; i >= 0; i-- {
			if p.Measures[i].Attributes != nil && p.Measures[i].Attributes.Time != nil {
				beats = p.Measures[i].Attributes.Time.Beats
				break
			}
		}
		if !found || float64(beats) > best {
			best = float64(beats)
			found = true
		}
	}
	return best
}
