package render

import "github.com/notalib/scorelib/model"

var stepIndex = map[string]int{"C": 0, "D": 1, "E": 2, "F": 3, "G": 4, "A": 5, "B": 6}

// pitchToStaffY converts a pitch (with the active octave transposition
// applied) into a y-offset relative to staffY, the staff's top line.
// Missing clef defaults to treble on line 2.
func pitchToStaffY(n *model.Note, clef model.Clef, hasClef bool, transposeOctave int, staffY float64) float64 {
	if !hasClef {
		clef = model.Clef{Sign: "G", Line: 2}
	}
	step := stepIndex[n.Step]
	displayOctave := n.Octave + transposeOctave
	notePos := displayOctave*7 + step

	var refPos int
	var refY float64
	switch clef.Sign {
	case "F":
		line := clef.Line
		if line == 0 {
			line = 4
		}
		refY = float64(5-line) * staffLineSpace
		refPos = 3*7 + 3 // F3
	case "C":
		line := clef.Line
		if line == 0 {
			line = 3
		}
		refY = float64(5-line) * staffLineSpace
		refPos = 4*7 + 0 // C4
	default:
		line := clef.Line
		if line == 0 {
			line = 2
		}
		refY = float64(5-line) * staffLineSpace
		refPos = 4*7 + 4 // G4
	}

	staffSteps := notePos - refPos
	return staffY + refY - float64(staffSteps)*(staffLineSpace/2)
}

// isFilledNotehead reports whether a note-type's head is drawn solid.
func isFilledNotehead(t model.NoteType) bool {
	switch t {
	case model.NoteWhole, model.NoteHalf:
		return false
	default:
		return true
	}
}

// flagCount returns the number of flags a note-type carries.
func flagCount(t model.NoteType) int {
	switch t {
	case model.NoteEighth:
		return 1
	case model.Note16th:
		return 2
	case model.Note32nd:
		return 3
	case model.Note64th:
		return 4
	default:
		return 0
	}
}

// stemExtension grows the stem by a fixed amount per flag count to
// clear the flags.
func stemExtension(flags int) float64 {
	ext := []float64{0, 0, 4, 9, 13}
	if flags < 0 || flags >= len(ext) {
		return 0
	}
	return ext[flags]
}

// clefForStaff returns the clef in force at measure idx for the given
// staff, scanning backward through the part's attribute blocks, and
// whether one was found. Missing clef defaults to treble line 2.
func clefForStaff(part *model.Part, idx, staff int) (model.Clef, bool) {
	for i := idx; i >= 0; i-- {
		if i >= len(part.Measures) {
			continue
		}
		attrs := part.Measures[i].Attributes
		if attrs == nil {
			continue
		}
		if c, ok := attrs.Clefs[staff]; ok {
			return c, true
		}
	}
	return model.Clef{Sign: "G", Line: 2}, false
}
