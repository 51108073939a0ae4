package unroll

import (
	"testing"

	"github.com/notalib/scorelib/model"
)

func plainMeasures(n int) []model.Measure {
	out := make([]model.Measure, n)
	for i := range out {
		out[i] = model.Measure{Number: itoa(i + 1)}
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func forwardRepeat(m *model.Measure) {
	m.Barlines = append(m.Barlines, model.Barline{Location: model.BarlineLeft, Repeat: model.RepeatForward})
}

func backwardRepeat(m *model.Measure) {
	m.Barlines = append(m.Barlines, model.Barline{Location: model.BarlineRight, Repeat: model.RepeatBackward})
}

func volta(m *model.Measure, numbers, typ string) {
	m.Barlines = append(m.Barlines, model.Barline{
		Location: model.BarlineRight,
		Ending:   &model.Ending{Numbers: numbers, Type: typ},
	})
}

func indices(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.OriginalIndex
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestUnrollNoRepeatsIsIdentity(t *testing.T) {
	part := &model.Part{Measures: plainMeasures(6)}
	got := indices(Unroll(part))
	want := []int{0, 1, 2, 3, 4, 5}
	if !equalInts(got, want) {
		t.Errorf("Unroll = %v, want %v", got, want)
	}
}

func TestUnrollEmptyPart(t *testing.T) {
	part := &model.Part{}
	if got := Unroll(part); got != nil {
		t.Errorf("Unroll(empty) = %v, want nil", got)
	}
}

func TestUnrollSimpleRepeat(t *testing.T) {
	measures := plainMeasures(8)
	forwardRepeat(&measures[2])
	backwardRepeat(&measures[5])
	part := &model.Part{Measures: measures}

	got := indices(Unroll(part))
	want := []int{0, 1, 2, 3, 4, 5, 2, 3, 4, 5, 6, 7}
	if !equalInts(got, want) {
		t.Errorf("Unroll = %v, want %v", got, want)
	}
}

func TestUnrollRepeatWithVoltas(t *testing.T) {
	measures := plainMeasures(8)
	forwardRepeat(&measures[2])
	// 1st ending on measure 5 closes the repeat; 2nd ending on measure 6.
	measures[5].Barlines = append(measures[5].Barlines, model.Barline{
		Location: model.BarlineRight,
		Repeat:   model.RepeatBackward,
		Ending:   &model.Ending{Numbers: "1", Type: "start"},
	})
	volta(&measures[5], "1", "stop")
	measures[6].Barlines = append(measures[6].Barlines, model.Barline{
		Location: model.BarlineLeft,
		Ending:   &model.Ending{Numbers: "2", Type: "start"},
	})
	volta(&measures[6], "2", "stop")
	part := &model.Part{Measures: measures}

	got := indices(Unroll(part))
	want := []int{0, 1, 2, 3, 4, 5, 2, 3, 4, 6, 7}
	if !equalInts(got, want) {
		t.Errorf("Unroll = %v, want %v", got, want)
	}
}

func TestUnrollDalSegnoAlFine(t *testing.T) {
	measures := plainMeasures(16)
	measures[10].Directions = append(measures[10].Directions, model.Direction{Segno: true})
	measures[12].Directions = append(measures[12].Directions, model.Direction{Fine: true})
	measures[14].Directions = append(measures[14].Directions, model.Direction{DalSegno: true})
	part := &model.Part{Measures: measures}

	got := indices(Unroll(part))
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 10, 11, 12}
	if !equalInts(got, want) {
		t.Errorf("Unroll = %v, want %v", got, want)
	}
}

func TestUnrollDaCapoToCoda(t *testing.T) {
	measures := plainMeasures(8)
	// D.C. at measure 4; on the second pass, "to coda" at measure 1 jumps
	// to the coda mark at measure 6.
	measures[1].Directions = append(measures[1].Directions, model.Direction{ToCoda: true})
	measures[4].Directions = append(measures[4].Directions, model.Direction{DaCapo: true})
	measures[6].Directions = append(measures[6].Directions, model.Direction{Coda: true})
	part := &model.Part{Measures: measures}

	// First pass plays 0..4 (the to-coda is ignored before the jump),
	// D.C. returns to 0, then the to-coda at 1 redirects to 6 without
	// emitting measure 1 a second time.
	got := indices(Unroll(part))
	want := []int{0, 1, 2, 3, 4, 0, 6, 7}
	if !equalInts(got, want) {
		t.Errorf("Unroll = %v, want %v", got, want)
	}
}

func TestUnrollRepeatsDoNotRefireAfterJump(t *testing.T) {
	measures := plainMeasures(6)
	forwardRepeat(&measures[1])
	backwardRepeat(&measures[3])
	measures[4].Directions = append(measures[4].Directions, model.Direction{DaCapo: true})
	part := &model.Part{Measures: measures}

	// 0 1 2 3 (repeat) 1 2 3 4 (D.C.) 0 1 2 3 4 5 — senza ripetizione:
	// neither the backward repeat at 3 nor the D.C. at 4 fires again.
	got := indices(Unroll(part))
	want := []int{0, 1, 2, 3, 1, 2, 3, 4, 0, 1, 2, 3, 4, 5}
	if !equalInts(got, want) {
		t.Errorf("Unroll = %v, want %v", got, want)
	}
}

func TestUnrollLengthBounded(t *testing.T) {
	measures := plainMeasures(10)
	for i := range measures {
		if i%2 == 0 {
			forwardRepeat(&measures[i])
		} else {
			backwardRepeat(&measures[i])
		}
	}
	measures[9].Directions = append(measures[9].Directions, model.Direction{DaCapo: true})
	part := &model.Part{Measures: measures}

	got := Unroll(part)
	if len(got) > 4*len(measures) {
		t.Errorf("unrolled length %d exceeds cap %d", len(got), 4*len(measures))
	}
}

func TestUnrollMissingSegnoTargetIgnored(t *testing.T) {
	measures := plainMeasures(4)
	measures[2].Directions = append(measures[2].Directions, model.Direction{DalSegno: true})
	part := &model.Part{Measures: measures}

	got := indices(Unroll(part))
	want := []int{0, 1, 2, 3}
	if !equalInts(got, want) {
		t.Errorf("Unroll = %v, want %v", got, want)
	}
}

func TestParseVoltaNumbers(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"1", []int{1}},
		{"1, 2", []int{1, 2}},
		{"1,2", []int{1, 2}},
		{"2", []int{2}},
		{"1, x, 2", []int{1, 2}},
		{"", nil},
	}
	for _, c := range cases {
		got := parseVoltaNumbers(c.in)
		if len(got) != len(c.want) {
			t.Errorf("parseVoltaNumbers(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		for _, w := range c.want {
			if !got[w] {
				t.Errorf("parseVoltaNumbers(%q) missing %d", c.in, w)
			}
		}
	}
}
