// Package unroll expands repeat barlines, voltas, and navigation jumps
// (da capo, dal segno, to coda, fine) into a linear play order.
package unroll

import (
	"strconv"
	"strings"

	"github.com/notalib/scorelib/model"
)

// Entry is one tagged index into the originating Part's measure list.
// Entries are produced once by Unroll and never mutated afterward.
type Entry struct {
	OriginalIndex int
}

// markers is the pre-scan result: fixed positions of segno/coda and the
// volta-number sets active at each measure index.
type markers struct {
	segnoIndex int // -1 if absent
	codaIndex  int // -1 if absent
	voltas     map[int]map[int]bool // measure index -> active volta numbers
}

// prescan walks the part once to locate segno/coda and volta extents.
func prescan(measures []model.Measure) markers {
	mk := markers{segnoIndex: -1, codaIndex: -1, voltas: map[int]map[int]bool{}}

	var openVoltas map[int]bool // currently active volta set, nil if none
	for i, m := range measures {
		for _, d := range m.Directions {
			// Duplicate markers: the last occurrence wins.
			if d.Segno {
				mk.segnoIndex = i
			}
			if d.Coda {
				mk.codaIndex = i
			}
		}
		for _, b := range m.Barlines {
			if b.Ending == nil {
				continue
			}
			switch b.Ending.Type {
			case "start":
				openVoltas = parseVoltaNumbers(b.Ending.Numbers)
			case "stop", "discontinue":
				if openVoltas != nil {
					mk.voltas[i] = openVoltas
				}
				openVoltas = nil
				continue
			}
		}
		if openVoltas != nil {
			mk.voltas[i] = openVoltas
		}
	}
	return mk
}

// parseVoltaNumbers permissively splits an ending-number string ("1",
// "2", "1, 2") on commas and whitespace, discarding unparseable tokens.
func parseVoltaNumbers(s string) map[int]bool {
	set := map[int]bool{}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		set[n] = true
	}
	return set
}

func hasForwardRepeat(m *model.Measure) bool {
	for _, b := range m.Barlines {
		if b.Repeat == model.RepeatForward {
			return true
		}
	}
	return false
}

func hasBackwardRepeatOnRight(m *model.Measure) bool {
	for _, b := range m.Barlines {
		if b.Location == model.BarlineRight && b.Repeat == model.RepeatBackward {
			return true
		}
	}
	return false
}

func directionFlags(m *model.Measure) (fine, toCoda, dalSegno, daCapo bool) {
	for _, d := range m.Directions {
		if d.Fine {
			fine = true
		}
		if d.ToCoda {
			toCoda = true
		}
		if d.DalSegno {
			dalSegno = true
		}
		if d.DaCapo {
			daCapo = true
		}
	}
	return
}

// Unroll walks a Part's measures and produces the linear play order.
// It never panics on malformed navigation (missing segno/coda targets
// are simply not taken) and always terminates, either naturally, via a
// fine, or via the 4x|measures| divergence guard.
func Unroll(part *model.Part) []Entry {
	measures := part.Measures
	n := len(measures)
	if n == 0 {
		return nil
	}
	mk := prescan(measures)
	cap_ := 4 * n

	var out []Entry
	position := 0
	repeatStart := 0
	repeatPass := 1
	jumpTaken := false

	for steps := 0; steps < cap_; steps++ {
		if position < 0 || position >= n {
			break
		}
		m := &measures[position]

		// Rule 1: forward repeat opens a new repeat window, unless we are
		// currently on the return pass of a backward repeat.
		if hasForwardRepeat(m) && repeatPass != 2 {
			repeatStart = position
			repeatPass = 1
		}

		// Rule 2: volta filtering — skip without emission if this measure's
		// active volta set excludes the current pass.
		if activeVoltas, ok := mk.voltas[position]; ok && !activeVoltas[repeatPass] {
			position++
			continue
		}

		fine, toCoda, dalSegno, daCapo := directionFlags(m)

		// Rule 3: fine terminates playback once a jump has already fired.
		if jumpTaken && fine {
			out = append(out, Entry{OriginalIndex: position})
			return out
		}

		// Rule 4: to-coda redirects to the coda index once a jump has fired.
		if jumpTaken && toCoda && mk.codaIndex != -1 {
			position = mk.codaIndex
			jumpTaken = false
			continue
		}

		// Rule 5: emit.
		out = append(out, Entry{OriginalIndex: position})

		// Rule 6: senza ripetizione — repeats only fire before the first jump.
		if !jumpTaken && hasBackwardRepeatOnRight(m) && repeatPass == 1 {
			repeatPass = 2
			position = repeatStart
			continue
		}

		// Rule 7: dal segno.
		if !jumpTaken && dalSegno && mk.segnoIndex != -1 {
			position = mk.segnoIndex
			jumpTaken = true
			repeatPass = 1
			continue
		}

		// Rule 8: da capo.
		if !jumpTaken && daCapo {
			position = 0
			jumpTaken = true
			repeatPass = 1
			continue
		}

		// Rule 9: advance; leaving a backward-repeat boundary resets the pass.
		if !jumpTaken && hasBackwardRepeatOnRight(m) {
			repeatPass = 1
		}
		position++
	}
	return out
}
