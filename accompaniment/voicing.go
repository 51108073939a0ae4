package accompaniment

import "github.com/notalib/scorelib/model"

// octaveBaseMidi is the MIDI note number of C3, the octave every fresh
// voicing is built around.
const octaveBaseMidi = 48

// Voice builds a close-position voicing for (rootPC, quality) on the
// octave containing MIDI 48 (C3). If a prior voicing is supplied, the
// rotation minimizing total voice-leading distance is chosen instead of
// always starting from the bare root position.
func Voice(rootPC int, quality model.ChordQuality, prev []int) []int {
	intervals := qualityIntervals[quality]
	if intervals == nil {
		intervals = qualityIntervals[model.QualityMajor]
	}
	notes := make([]int, len(intervals))
	root := nearestOctaveRoot(rootPC)
	for i, iv := range intervals {
		notes[i] = root + iv
	}
	if len(notes) < 4 {
		if seventh, ok := seventhByQuality[quality]; ok {
			notes = append(notes, root+seventh)
		}
	}
	if prev == nil {
		return notes
	}
	return smooth(notes, prev)
}

// nearestOctaveRoot places rootPC in the octave containing MIDI 48.
func nearestOctaveRoot(rootPC int) int {
	return octaveBaseMidi - (octaveBaseMidi % 12) + rootPC
}

// smooth enumerates every rotation of notes (each rotation moves the
// lowest note up an octave) and returns the one minimizing the sum of
// absolute distances to prev, pairing each position with prev's
// corresponding position, cycling when lengths differ.
func smooth(notes []int, prev []int) []int {
	best := append([]int(nil), notes...)
	bestCost := rotationCost(best, prev)
	rotation := append([]int(nil), notes...)
	for r := 1; r < len(notes); r++ {
		rotation = rotate(rotation)
		cost := rotationCost(rotation, prev)
		if cost < bestCost {
			bestCost = cost
			best = append([]int(nil), rotation...)
		}
	}
	return best
}

func rotate(notes []int) []int {
	if len(notes) == 0 {
		return notes
	}
	out := append([]int(nil), notes[1:]...)
	out = append(out, notes[0]+12)
	return out
}

func rotationCost(candidate, prev []int) int {
	cost := 0
	for i, n := range candidate {
		p := prev[i%len(prev)]
		d := n - p
		if d < 0 {
			d = -d
		}
		cost += d
	}
	return cost
}
